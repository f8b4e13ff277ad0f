package resolver

import (
	"context"
	"strings"
	"testing"

	"salon_portal_backend/internal/reconcile/repository"

	"github.com/google/uuid"
)

type fakeClients struct {
	byPhone map[string]*repository.Client
	created []*repository.Client
}

func (f *fakeClients) GetByPhone(_ context.Context, _ uuid.UUID, phone string) (*repository.Client, error) {
	return f.byPhone[phone], nil
}

func (f *fakeClients) CreateClient(_ context.Context, c *repository.Client) error {
	f.created = append(f.created, c)
	return nil
}

type fakeEmployees struct {
	list []repository.Employee
}

func (f *fakeEmployees) ListBySalon(context.Context, uuid.UUID) ([]repository.Employee, error) {
	return f.list, nil
}

type fakeServices struct {
	list []repository.Service
}

func (f *fakeServices) ListActiveBySalon(context.Context, uuid.UUID) ([]repository.Service, error) {
	return f.list, nil
}

func newResolver(clients *fakeClients, employees *fakeEmployees, services *fakeServices) *Resolver {
	if clients == nil {
		clients = &fakeClients{}
	}
	if employees == nil {
		employees = &fakeEmployees{}
	}
	if services == nil {
		services = &fakeServices{}
	}
	return New(clients, employees, services)
}

func TestResolveClientExistingByPhone(t *testing.T) {
	salonID := uuid.New()
	existing := &repository.Client{ID: uuid.New(), Phone: "+48123456789", FirstName: "Jan", LastName: "Nowak"}
	clients := &fakeClients{byPhone: map[string]*repository.Client{"+48123456789": existing}}

	r := newResolver(clients, nil, nil)
	got, err := r.ResolveClient(context.Background(), salonID, "Jan Nowak", "+48123456789", nil)
	if err != nil {
		t.Fatalf("ResolveClient: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing client %s, got %s", existing.ID, got.ID)
	}
	if len(clients.created) != 0 {
		t.Fatalf("expected no client creation, got %d", len(clients.created))
	}
}

func TestResolveClientAutoCreate(t *testing.T) {
	clients := &fakeClients{}
	email := "jan@example.com"

	r := newResolver(clients, nil, nil)
	got, err := r.ResolveClient(context.Background(), uuid.New(), "Jan Maria Nowak", "+48123456789", &email)
	if err != nil {
		t.Fatalf("ResolveClient: %v", err)
	}
	if len(clients.created) != 1 {
		t.Fatalf("expected one created client, got %d", len(clients.created))
	}
	if got.FirstName != "Jan" || got.LastName != "Maria Nowak" {
		t.Fatalf("unexpected name split: %q %q", got.FirstName, got.LastName)
	}
	if !strings.HasPrefix(got.Code, "KL-") || len(got.Code) != 11 {
		t.Fatalf("unexpected client code %q", got.Code)
	}
	if got.Email == nil || *got.Email != email {
		t.Fatalf("expected email carried over, got %v", got.Email)
	}
}

func TestResolveEmployeeExactAndPartial(t *testing.T) {
	anna := repository.Employee{ID: uuid.New(), FirstName: "Anna", LastName: "Kowalska", IsActive: true}
	maria := repository.Employee{ID: uuid.New(), FirstName: "Maria", LastName: "Wiśniewska", IsActive: true}
	employees := &fakeEmployees{list: []repository.Employee{anna, maria}}
	r := newResolver(nil, employees, nil)

	cases := []struct {
		name string
		in   string
		want uuid.UUID
	}{
		{"exact full", "Anna Kowalska", anna.ID},
		{"first name only", "Anna", anna.ID},
		{"folded diacritics", "maria wisniewska", maria.ID},
		{"last name only", "Wiśniewska", maria.ID},
		{"full name inside longer text", "Pani Anna Kowalska przyjmuje", anna.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ResolveEmployee(context.Background(), uuid.New(), tc.in)
			if err != nil {
				t.Fatalf("ResolveEmployee(%q): %v", tc.in, err)
			}
			if got == nil || got.ID != tc.want {
				t.Fatalf("ResolveEmployee(%q) = %v, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolveEmployeePrefersActiveOnTie(t *testing.T) {
	inactive := repository.Employee{ID: uuid.New(), FirstName: "Ewa", LastName: "Nowak", IsActive: false}
	active := repository.Employee{ID: uuid.New(), FirstName: "Ewa", LastName: "Mazur", IsActive: true}
	r := newResolver(nil, &fakeEmployees{list: []repository.Employee{inactive, active}}, nil)

	got, err := r.ResolveEmployee(context.Background(), uuid.New(), "Ewa")
	if err != nil {
		t.Fatalf("ResolveEmployee: %v", err)
	}
	if got == nil || got.ID != active.ID {
		t.Fatalf("expected active employee to win the tie, got %v", got)
	}
}

func TestResolveEmployeeSoleActiveFallback(t *testing.T) {
	sole := repository.Employee{ID: uuid.New(), FirstName: "Anna", LastName: "Kowalska", IsActive: true}
	former := repository.Employee{ID: uuid.New(), FirstName: "Zofia", LastName: "Lis", IsActive: false}
	r := newResolver(nil, &fakeEmployees{list: []repository.Employee{sole, former}}, nil)

	got, err := r.ResolveEmployee(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("ResolveEmployee: %v", err)
	}
	if got == nil || got.ID != sole.ID {
		t.Fatalf("expected sole active employee, got %v", got)
	}
}

func TestResolveEmployeeNoMatch(t *testing.T) {
	list := []repository.Employee{
		{ID: uuid.New(), FirstName: "Anna", LastName: "Kowalska", IsActive: true},
		{ID: uuid.New(), FirstName: "Maria", LastName: "Wiśniewska", IsActive: true},
	}
	r := newResolver(nil, &fakeEmployees{list: list}, nil)

	got, err := r.ResolveEmployee(context.Background(), uuid.New(), "Katarzyna Zielińska")
	if err != nil {
		t.Fatalf("ResolveEmployee: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match with multiple active employees, got %v", got)
	}
}

func TestResolveServiceTiers(t *testing.T) {
	manicure := repository.Service{ID: uuid.New(), Name: "Manicure hybrydowy", IsActive: true}
	strzyzenie := repository.Service{ID: uuid.New(), Name: "Strzyżenie damskie", IsActive: true}
	r := newResolver(nil, nil, &fakeServices{list: []repository.Service{manicure, strzyzenie}})

	cases := []struct {
		name string
		in   string
		want uuid.UUID
	}{
		{"exact", "Manicure hybrydowy", manicure.ID},
		{"exact folded", "manicure HYBRYDOWY", manicure.ID},
		{"text inside catalog name", "Strzyżenie", strzyzenie.ID},
		{"catalog name inside text", "Usługa: Strzyżenie damskie z myciem", strzyzenie.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ResolveService(context.Background(), uuid.New(), tc.in)
			if err != nil {
				t.Fatalf("ResolveService(%q): %v", tc.in, err)
			}
			if got == nil || got.ID != tc.want {
				t.Fatalf("ResolveService(%q) = %v, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolveServicePrefersCatalogContainment(t *testing.T) {
	regulacja := repository.Service{ID: uuid.New(), Name: "Regulacja brwi i rzęs", IsActive: true}
	brwi := repository.Service{ID: uuid.New(), Name: "Brwi", IsActive: true}
	r := newResolver(nil, nil, &fakeServices{list: []repository.Service{brwi, regulacja}})

	// "brwi i rzęs" sits inside the longer catalog name and merely contains
	// the shorter one; the longer, more specific entry wins.
	got, err := r.ResolveService(context.Background(), uuid.New(), "brwi i rzęs")
	if err != nil {
		t.Fatalf("ResolveService: %v", err)
	}
	if got == nil || got.ID != regulacja.ID {
		t.Fatalf("expected Regulacja brwi i rzęs, got %v", got)
	}
}

func TestResolveServiceNoMatch(t *testing.T) {
	r := newResolver(nil, nil, &fakeServices{list: []repository.Service{
		{ID: uuid.New(), Name: "Manicure hybrydowy", IsActive: true},
	}})

	for _, in := range []string{"Masaż relaksacyjny", "hybrydowy zestaw"} {
		got, err := r.ResolveService(context.Background(), uuid.New(), in)
		if err != nil {
			t.Fatalf("ResolveService(%q): %v", in, err)
		}
		if got != nil {
			t.Fatalf("ResolveService(%q) = %v, want nil", in, got)
		}
	}
}
