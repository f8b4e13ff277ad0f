package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salon_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Client struct {
	ID        uuid.UUID
	SalonID   uuid.UUID
	Code      string
	FirstName string
	LastName  string
	Phone     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Employee struct {
	ID        uuid.UUID
	SalonID   uuid.UUID
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Service struct {
	ID              uuid.UUID
	SalonID         uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
	CreatedAt       time.Time
}

// Repository bundles the pgx-backed stores over a shared pool.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var (
	_ ClientStore       = (*Repository)(nil)
	_ EmployeeStore     = (*Repository)(nil)
	_ ServiceStore      = (*Repository)(nil)
	_ BookingStore      = (*Repository)(nil)
	_ PendingEventStore = (*Repository)(nil)
)

func (r *Repository) GetByPhone(ctx context.Context, salonID uuid.UUID, phone string) (*Client, error) {
	query := `
		SELECT id, salon_id, code, first_name, last_name, phone, email, created_at, updated_at
		FROM clients
		WHERE salon_id = $1 AND phone = $2`

	var c Client
	err := r.pool.QueryRow(ctx, query, salonID, phone).Scan(
		&c.ID, &c.SalonID, &c.Code, &c.FirstName, &c.LastName,
		&c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by phone: %w", err)
	}
	return &c, nil
}

func (r *Repository) CreateClient(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (id, salon_id, code, first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		client.ID, client.SalonID, client.Code, client.FirstName,
		client.LastName, client.Phone, client.Email,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *Repository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]Employee, error) {
	query := `
		SELECT id, salon_id, first_name, last_name, is_active, created_at
		FROM employees
		WHERE salon_id = $1
		ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.SalonID, &e.FirstName, &e.LastName, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *Repository) ListActiveBySalon(ctx context.Context, salonID uuid.UUID) ([]Service, error) {
	query := `
		SELECT id, salon_id, name, duration_minutes, price_cents, is_active, created_at
		FROM services
		WHERE salon_id = $1 AND is_active = TRUE
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.SalonID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func requireRowsAffected(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity + " not found")
	}
	return nil
}
