// Package resolver maps the free-text names extracted from booking
// notifications onto salon records. Client resolution is exact on phone
// number with auto-create; employee and service resolution tolerate the
// partial, inconsistently cased and accented names the platforms emit.
package resolver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/platform/textfold"

	"github.com/google/uuid"
)

type Resolver struct {
	clients   repository.ClientStore
	employees repository.EmployeeStore
	services  repository.ServiceStore
}

func New(clients repository.ClientStore, employees repository.EmployeeStore, services repository.ServiceStore) *Resolver {
	return &Resolver{clients: clients, employees: employees, services: services}
}

// ResolveClient finds the salon's client by normalized phone number,
// creating one from the notification's name and email when absent.
func (r *Resolver) ResolveClient(ctx context.Context, salonID uuid.UUID, name, phone string, email *string) (*repository.Client, error) {
	client, err := r.clients.GetByPhone(ctx, salonID, phone)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}

	first, last := splitName(name)
	client = &repository.Client{
		ID:        uuid.New(),
		SalonID:   salonID,
		Code:      newClientCode(),
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Email:     email,
	}
	if err := r.clients.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("auto-create client: %w", err)
	}
	return client, nil
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func newClientCode() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return "KL-" + strings.ToUpper(hex.EncodeToString(buf))
}

// ResolveEmployee scores the salon's staff against the extracted name and
// returns the best match, or nil when no candidate matches at all.
//
// Scoring, best first: exact full name, exact first or last name, the
// extracted text containing the employee's full name or vice versa, any
// shared name token. Active employees win ties. When no name was
// extracted and the salon has exactly one active employee, that employee
// is assumed.
func (r *Resolver) ResolveEmployee(ctx context.Context, salonID uuid.UUID, name string) (*repository.Employee, error) {
	employees, err := r.employees.ListBySalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	folded := textfold.Fold(name)
	if folded == "" {
		return soleActive(employees), nil
	}

	var best *repository.Employee
	bestScore := 0
	for i := range employees {
		e := &employees[i]
		score := scoreEmployee(folded, e)
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && best != nil && !best.IsActive && e.IsActive) {
			best, bestScore = e, score
		}
	}
	if best == nil {
		return soleActive(employees), nil
	}
	return best, nil
}

func scoreEmployee(folded string, e *repository.Employee) int {
	full := textfold.Fold(e.FullName())
	first := textfold.Fold(e.FirstName)
	last := textfold.Fold(e.LastName)

	switch {
	case folded == full:
		return 4
	case folded == first || (last != "" && folded == last):
		return 3
	case strings.Contains(folded, full) || strings.Contains(full, folded):
		return 2
	case sharesToken(folded, full):
		return 1
	}
	return 0
}

func sharesToken(a, b string) bool {
	bTokens := strings.Fields(b)
	for _, tok := range strings.Fields(a) {
		for _, other := range bTokens {
			if tok == other {
				return true
			}
		}
	}
	return false
}

func soleActive(employees []repository.Employee) *repository.Employee {
	var sole *repository.Employee
	for i := range employees {
		if !employees[i].IsActive {
			continue
		}
		if sole != nil {
			return nil
		}
		sole = &employees[i]
	}
	return sole
}

// ResolveService matches the extracted service name against the salon's
// active catalog. Tiers, best first: exact ignoring case, exact after
// diacritic folding, catalog name contained in the extracted text's folded
// form, extracted text contained in a folded catalog name. Returns nil when
// nothing matches.
func (r *Resolver) ResolveService(ctx context.Context, salonID uuid.UUID, name string) (*repository.Service, error) {
	services, err := r.services.ListActiveBySalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	raw := strings.Join(strings.Fields(name), " ")
	folded := textfold.Fold(name)
	if folded == "" {
		return nil, nil
	}

	var best *repository.Service
	bestScore := 0
	for i := range services {
		s := &services[i]
		score := scoreService(raw, folded, s.Name, textfold.Fold(s.Name))
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, nil
}

func scoreService(raw, folded, catalog, catalogFolded string) int {
	switch {
	case strings.EqualFold(raw, catalog):
		return 4
	case folded == catalogFolded:
		return 3
	case strings.Contains(catalogFolded, folded):
		return 2
	case strings.Contains(folded, catalogFolded):
		return 1
	}
	return 0
}
