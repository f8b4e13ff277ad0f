// Package ingest provides the inbound notification capture bounded context.
// It handles API key management and the raw-mail intake endpoint through
// which booking platforms and mail relays deliver notifications.
package ingest

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAPIKeyNotFound = errors.New("ingest API key not found")

// APIKey represents an ingest API key stored in the database. Each key is
// bound to one salon; requests authenticated with it operate on that salon.
type APIKey struct {
	ID        uuid.UUID
	SalonID   uuid.UUID
	Name      string
	KeyHash   string
	KeyPrefix string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides data access for ingest API keys.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new ingest repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GenerateAPIKey creates a new random API key and returns the plaintext key and its hash.
// The plaintext key is returned only once; only the hash is stored.
func GenerateAPIKey() (plaintext string, hash string, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	plaintext = "ing_" + hex.EncodeToString(bytes)
	h := sha256.Sum256([]byte(plaintext))
	hash = hex.EncodeToString(h[:])
	prefix = plaintext[:12] // "ing_" + 8 hex chars
	return plaintext, hash, prefix, nil
}

// HashKey hashes a plaintext API key for lookup.
func HashKey(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// Create creates a new API key record.
func (r *Repository) Create(ctx context.Context, salonID uuid.UUID, name, keyHash, keyPrefix string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ingest_api_keys (salon_id, name, key_hash, key_prefix)
		VALUES ($1, $2, $3, $4)
		RETURNING id, salon_id, name, key_hash, key_prefix, is_active, created_at, updated_at
	`, salonID, name, keyHash, keyPrefix).Scan(
		&key.ID, &key.SalonID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&key.IsActive, &key.CreatedAt, &key.UpdatedAt,
	)
	return key, err
}

// GetByHash retrieves an active API key by its hash.
func (r *Repository) GetByHash(ctx context.Context, keyHash string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `
		SELECT id, salon_id, name, key_hash, key_prefix, is_active, created_at, updated_at
		FROM ingest_api_keys
		WHERE key_hash = $1 AND is_active = true
	`, keyHash).Scan(
		&key.ID, &key.SalonID, &key.Name, &key.KeyHash, &key.KeyPrefix,
		&key.IsActive, &key.CreatedAt, &key.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return APIKey{}, ErrAPIKeyNotFound
	}
	return key, err
}

// ListBySalon returns all API keys for a salon, newest first.
func (r *Repository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]APIKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, salon_id, name, key_hash, key_prefix, is_active, created_at, updated_at
		FROM ingest_api_keys
		WHERE salon_id = $1
		ORDER BY created_at DESC
	`, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var key APIKey
		if err := rows.Scan(
			&key.ID, &key.SalonID, &key.Name, &key.KeyHash, &key.KeyPrefix,
			&key.IsActive, &key.CreatedAt, &key.UpdatedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Deactivate disables an API key for a salon.
func (r *Repository) Deactivate(ctx context.Context, salonID, keyID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ingest_api_keys
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND salon_id = $2
	`, keyID, salonID)
	return err
}
