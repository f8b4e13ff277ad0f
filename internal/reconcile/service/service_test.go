package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/reconcile/resolver"
	"salon_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store covering every persistence operation the
// pipeline performs.
type fakeStore struct {
	mu        sync.Mutex
	clients   []*repository.Client
	employees []repository.Employee
	services  []repository.Service
	bookings  []*repository.Booking
	pending   []*repository.PendingEvent
}

func (f *fakeStore) GetByPhone(_ context.Context, salonID uuid.UUID, phone string) (*repository.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.SalonID == salonID && c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateClient(_ context.Context, c *repository.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = append(f.clients, c)
	return nil
}

func (f *fakeStore) ListBySalon(_ context.Context, salonID uuid.UUID) ([]repository.Employee, error) {
	var out []repository.Employee
	for _, e := range f.employees {
		if e.SalonID == salonID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveBySalon(_ context.Context, salonID uuid.UUID) ([]repository.Service, error) {
	var out []repository.Service
	for _, s := range f.services {
		if s.SalonID == salonID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id, salonID uuid.UUID) (*repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.SalonID == salonID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByNotesMarker(_ context.Context, salonID uuid.UUID, marker string) (*repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.bookings) - 1; i >= 0; i-- {
		b := f.bookings[i]
		if b.SalonID == salonID && b.Notes != nil && strings.Contains(*b.Notes, marker) {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindDuplicate(_ context.Context, salonID uuid.UUID, key repository.DuplicateKey) (*repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.bookings) - 1; i >= 0; i-- {
		b := f.bookings[i]
		if b.SalonID == salonID && b.ClientID == key.ClientID &&
			b.EmployeeID == key.EmployeeID && b.ServiceID == key.ServiceID &&
			b.Date.Equal(key.Date) && b.StartTime == key.Start &&
			b.Source == key.Source && b.Status != repository.BookingStatusCancelled {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListScheduledAt(_ context.Context, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) ([]repository.BookingWithClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.BookingWithClient
	for i := len(f.bookings) - 1; i >= 0; i-- {
		b := f.bookings[i]
		if b.SalonID != salonID || !b.Date.Equal(date) || b.StartTime != start ||
			b.Status != repository.BookingStatusScheduled {
			continue
		}
		name := ""
		for _, c := range f.clients {
			if c.ID == b.ClientID {
				name = c.FullName()
			}
		}
		out = append(out, repository.BookingWithClient{Booking: *b, ClientName: name})
	}
	return out, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b *repository.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeStore) UpdateSlot(_ context.Context, id, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.SalonID == salonID {
			b.Date, b.StartTime = date, start
			return nil
		}
	}
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, salonID uuid.UUID, status repository.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.SalonID == salonID {
			b.Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeStore) UpsertPending(_ context.Context, ev *repository.PendingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pending {
		if p.SalonID == ev.SalonID && p.MessageID == ev.MessageID {
			p.Subject, p.Body = ev.Subject, ev.Body
			p.Reason, p.Detail, p.Payload = ev.Reason, ev.Detail, ev.Payload
			p.Status = repository.PendingStatusPending
			ev.ID = p.ID
			return nil
		}
	}
	ev.Status = repository.PendingStatusPending
	f.pending = append(f.pending, ev)
	return nil
}

func (f *fakeStore) GetPendingByID(_ context.Context, id, salonID uuid.UUID) (*repository.PendingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pending {
		if p.ID == id && p.SalonID == salonID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListPending(_ context.Context, salonID uuid.UUID, status repository.PendingStatus) ([]repository.PendingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.PendingEvent
	for _, p := range f.pending {
		if p.SalonID == salonID && (status == "" || p.Status == status) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) ResolveByMessageID(_ context.Context, salonID uuid.UUID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pending {
		if p.SalonID == salonID && p.MessageID == messageID && p.Status == repository.PendingStatusPending {
			p.Status = repository.PendingStatusResolved
		}
	}
	return nil
}

func (f *fakeStore) SetPendingStatus(_ context.Context, id, salonID uuid.UUID, status repository.PendingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pending {
		if p.ID == id && p.SalonID == salonID {
			p.Status = status
			return nil
		}
	}
	return nil
}

type fakeBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeBus) Publish(_ context.Context, ev events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeBus) PublishSync(ctx context.Context, ev events.Event) error {
	f.Publish(ctx, ev)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

type fixture struct {
	salonID    uuid.UUID
	store      *fakeStore
	bus        *fakeBus
	svc        *Service
	employeeID uuid.UUID
	serviceID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	salonID := uuid.New()
	store := &fakeStore{
		employees: []repository.Employee{
			{ID: uuid.New(), SalonID: salonID, FirstName: "Anna", LastName: "Kowalska", IsActive: true},
			{ID: uuid.New(), SalonID: salonID, FirstName: "Maria", LastName: "Wiśniewska", IsActive: true},
		},
		services: []repository.Service{
			{ID: uuid.New(), SalonID: salonID, Name: "Strzyżenie damskie", DurationMinutes: 45, PriceCents: 12000, IsActive: true},
			{ID: uuid.New(), SalonID: salonID, Name: "Manicure hybrydowy", DurationMinutes: 60, PriceCents: 15000, IsActive: true},
		},
	}
	bus := &fakeBus{}
	res := resolver.New(store, store, store)
	svc := New(store, res, bus, logger.New("test"))
	return &fixture{
		salonID:    salonID,
		store:      store,
		bus:        bus,
		svc:        svc,
		employeeID: store.employees[0].ID,
		serviceID:  store.services[0].ID,
	}
}

const newBookingBody = `Klient: Jan Nowak
Telefon: 123 456 789
E-mail: jan.nowak@example.com

Strzyżenie damskie
120,00 zł

25 października 2024, 14:00 - 14:45

Pracownik: Anna Kowalska`

func TestProcessEventNewBooking(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject:   "Jan Nowak - nowa rezerwacja",
		Body:      newBookingBody,
		MessageID: "<msg-1@booking.example>",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusDone || res.BookingID == nil || res.Deduplicated {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(f.store.bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(f.store.bookings))
	}
	b := f.store.bookings[0]
	if b.EmployeeID != f.employeeID {
		t.Fatalf("expected booking with Anna Kowalska, got employee %s", b.EmployeeID)
	}
	if b.ServiceID != f.serviceID {
		t.Fatalf("expected Strzyżenie damskie, got service %s", b.ServiceID)
	}
	if b.Date.Format("2006-01-02") != "2024-10-25" || b.StartTime.String() != "14:00" {
		t.Fatalf("unexpected slot %s %s", b.Date.Format("2006-01-02"), b.StartTime)
	}
	if b.DurationMinutes != 45 || b.PriceCents != 12000 {
		t.Fatalf("unexpected duration/price: %d min, %d cents", b.DurationMinutes, b.PriceCents)
	}

	if len(f.store.clients) != 1 {
		t.Fatalf("expected auto-created client, got %d", len(f.store.clients))
	}
	c := f.store.clients[0]
	if c.Phone != "+48123456789" {
		t.Fatalf("expected normalized phone, got %q", c.Phone)
	}
	if c.FirstName != "Jan" || c.LastName != "Nowak" {
		t.Fatalf("unexpected client name %q %q", c.FirstName, c.LastName)
	}
}

func TestProcessEventIdempotentReplay(t *testing.T) {
	f := newFixture(t)
	in := Inbound{
		Subject:   "Jan Nowak - nowa rezerwacja",
		Body:      newBookingBody,
		MessageID: "<msg-1@booking.example>",
	}

	first, err := f.svc.ProcessEvent(context.Background(), f.salonID, in)
	if err != nil {
		t.Fatalf("first ProcessEvent: %v", err)
	}
	second, err := f.svc.ProcessEvent(context.Background(), f.salonID, in)
	if err != nil {
		t.Fatalf("second ProcessEvent: %v", err)
	}
	if !second.Deduplicated {
		t.Fatal("expected replay to be deduplicated")
	}
	if second.BookingID == nil || *second.BookingID != *first.BookingID {
		t.Fatalf("replay resolved a different booking: %v vs %v", second.BookingID, first.BookingID)
	}
	if len(f.store.bookings) != 1 {
		t.Fatalf("expected one booking after replay, got %d", len(f.store.bookings))
	}
}

func TestProcessEventDuplicateWithoutMessageID(t *testing.T) {
	f := newFixture(t)
	in := Inbound{Subject: "Jan Nowak - nowa rezerwacja", Body: newBookingBody}

	if _, err := f.svc.ProcessEvent(context.Background(), f.salonID, in); err != nil {
		t.Fatalf("first ProcessEvent: %v", err)
	}
	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, in)
	if err != nil {
		t.Fatalf("second ProcessEvent: %v", err)
	}
	if !res.Deduplicated {
		t.Fatal("expected identity-tuple duplicate to be deduplicated")
	}
	if len(f.store.bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(f.store.bookings))
	}
}

func TestProcessEventClientReusedByPhone(t *testing.T) {
	f := newFixture(t)
	existing := &repository.Client{
		ID: uuid.New(), SalonID: f.salonID, Code: "KL-TEST0001",
		FirstName: "Janusz", LastName: "Nowak", Phone: "+48123456789",
	}
	f.store.clients = append(f.store.clients, existing)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject: "Jan Nowak - nowa rezerwacja",
		Body:    newBookingBody,
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusDone {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(f.store.clients) != 1 {
		t.Fatalf("expected no new client, got %d", len(f.store.clients))
	}
	if f.store.bookings[0].ClientID != existing.ID {
		t.Fatal("expected booking linked to the existing client")
	}
}

func TestProcessEventFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject:   "Jan Nowak - nowa rezerwacja",
		Body:      newBookingBody,
		MessageID: "<msg-1@booking.example>",
	})
	if err != nil {
		t.Fatalf("new booking: %v", err)
	}
	bookingID := *res.BookingID

	res, err = f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject: "Jan Nowak - zmiana rezerwacji",
		Body: "Wizyta z dnia 25 października 2024, 14:00 została przeniesiona\n" +
			"na dzień 26 października 2024, 15:30",
		MessageID: "<msg-2@booking.example>",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if res.Status != domain.StatusDone || *res.BookingID != bookingID {
		t.Fatalf("reschedule did not hit the same booking: %+v", res)
	}
	b := f.store.bookings[0]
	if b.Date.Format("2006-01-02") != "2024-10-26" || b.StartTime.String() != "15:30" {
		t.Fatalf("reschedule not applied: %s %s", b.Date.Format("2006-01-02"), b.StartTime)
	}

	res, err = f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject:   "Jan Nowak - odwołana wizyta",
		Body:      "26 października 2024, 15:30",
		MessageID: "<msg-3@booking.example>",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Status != domain.StatusDone || *res.BookingID != bookingID {
		t.Fatalf("cancel did not hit the same booking: %+v", res)
	}
	if b.Status != repository.BookingStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", b.Status)
	}
}

func TestProcessEventCancelWithoutTarget(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject:   "Jan Nowak - odwołana wizyta",
		Body:      "25 października 2024, 14:00",
		MessageID: "<msg-9@booking.example>",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusFailed || res.Reason != domain.ReasonBookingNotFound {
		t.Fatalf("expected terminal booking-not-found, got %+v", res)
	}
	if res.Detail != "no booking found to cancel" {
		t.Fatalf("unexpected detail %q", res.Detail)
	}
	if len(f.store.pending) != 0 {
		t.Fatalf("terminal failure must not queue a pending event, got %d", len(f.store.pending))
	}
}

func TestProcessEventCancelSkipsOtherClientsBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject:   "Jan Nowak - nowa rezerwacja",
		Body:      newBookingBody,
		MessageID: "<msg-1@booking.example>",
	}); err != nil {
		t.Fatalf("new booking: %v", err)
	}

	// Same slot, unrelated client name. The sole booking there belongs to
	// someone else and must stay untouched.
	res, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject:   "Barbara Lis - odwołana wizyta",
		Body:      "25 października 2024, 14:00",
		MessageID: "<msg-2@booking.example>",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Status != domain.StatusFailed || res.Reason != domain.ReasonBookingNotFound {
		t.Fatalf("expected terminal booking-not-found, got %+v", res)
	}
	if f.store.bookings[0].Status != repository.BookingStatusScheduled {
		t.Fatalf("another client's booking was cancelled")
	}
}

func TestProcessEventRescheduleWithoutTarget(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject: "Jan Nowak - zmiana rezerwacji",
		Body: "Wizyta z dnia 25 października 2024, 14:00 została przeniesiona\n" +
			"na dzień 26 października 2024, 15:30",
		MessageID: "<msg-9@booking.example>",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusFailed || res.Reason != domain.ReasonBookingNotFound {
		t.Fatalf("expected terminal booking-not-found, got %+v", res)
	}
	if res.Detail != "no booking found to reschedule" {
		t.Fatalf("unexpected detail %q", res.Detail)
	}
	if len(f.store.pending) != 0 {
		t.Fatalf("terminal failure must not queue a pending event, got %d", len(f.store.pending))
	}
}

func TestProcessEventUnknownServiceQueuesPending(t *testing.T) {
	f := newFixture(t)
	body := strings.Replace(newBookingBody, "Strzyżenie damskie\n120,00 zł", "Masaż gorącymi kamieniami\n200,00 zł", 1)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject:   "Jan Nowak - nowa rezerwacja",
		Body:      body,
		MessageID: "<msg-4@booking.example>",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusPending || res.Reason != domain.ReasonServiceNotFound {
		t.Fatalf("expected pending service-not-found, got %+v", res)
	}
	if !strings.Contains(res.Detail, "Masaż gorącymi kamieniami") {
		t.Fatalf("detail should name the unmatched service, got %q", res.Detail)
	}
	if len(f.store.pending) != 1 {
		t.Fatalf("expected one pending event, got %d", len(f.store.pending))
	}
	if len(f.store.pending[0].Payload) == 0 {
		t.Fatal("pending event should carry the parsed payload")
	}
	if len(f.store.bookings) != 0 {
		t.Fatalf("no booking should be created, got %d", len(f.store.bookings))
	}
}

func TestProcessEventFuzzyStaffFirstName(t *testing.T) {
	f := newFixture(t)
	body := strings.Replace(newBookingBody, "Pracownik: Anna Kowalska", "Pracownik: Anna", 1)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject: "Jan Nowak - nowa rezerwacja",
		Body:    body,
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusDone {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.store.bookings[0].EmployeeID != f.employeeID {
		t.Fatal("first name alone should resolve to Anna Kowalska")
	}
}

func TestProcessEventParseFailureQueuesPending(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject:   "Newsletter: promocje jesienne",
		Body:      "Zapraszamy na jesienne promocje!",
		MessageID: "<msg-5@booking.example>",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusPending || res.Reason != domain.ReasonParseFailed {
		t.Fatalf("expected pending parse-failed, got %+v", res)
	}
	if len(f.store.pending) != 1 || len(f.store.pending[0].Payload) != 0 {
		t.Fatal("parse failure should queue without a payload")
	}
}

func TestProcessEventParseFailureWithoutMessageIDIsTerminal(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ProcessEvent(context.Background(), f.salonID, Inbound{
		Subject: "Newsletter: promocje jesienne",
		Body:    "Zapraszamy!",
	})
	if err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if res.Status != domain.StatusFailed || res.Reason != domain.ReasonParseFailed {
		t.Fatalf("expected terminal parse failure without message id, got %+v", res)
	}
	if len(f.store.pending) != 0 {
		t.Fatal("nothing should be queued without a message id")
	}
}

func TestProcessEventRetryResolvesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msgID := "<msg-6@booking.example>"
	unknownService := strings.Replace(newBookingBody, "Strzyżenie damskie\n120,00 zł", "Masaż\n200,00 zł", 1)

	res, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject: "Jan Nowak - nowa rezerwacja", Body: unknownService, MessageID: msgID,
	})
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if res.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %+v", res)
	}

	// The salon adds the missing service, then the message is retried.
	f.store.services = append(f.store.services, repository.Service{
		ID: uuid.New(), SalonID: f.salonID, Name: "Masaż", DurationMinutes: 30, PriceCents: 20000, IsActive: true,
	})
	res, err = f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject: "Jan Nowak - nowa rezerwacja", Body: unknownService, MessageID: msgID,
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Status != domain.StatusDone {
		t.Fatalf("expected retry to succeed, got %+v", res)
	}
	if f.store.pending[0].Status != repository.PendingStatusResolved {
		t.Fatalf("expected pending event auto-resolved, got %s", f.store.pending[0].Status)
	}
}

func TestAssignPendingEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	body := strings.Replace(newBookingBody, "Strzyżenie damskie\n120,00 zł", "Zabieg autorski\n180,00 zł", 1)

	if _, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject: "Jan Nowak - nowa rezerwacja", Body: body, MessageID: "<msg-7@booking.example>",
	}); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	pendingID := f.store.pending[0].ID

	res, err := f.svc.AssignPendingEvent(ctx, f.salonID, pendingID, f.employeeID, f.serviceID)
	if err != nil {
		t.Fatalf("AssignPendingEvent: %v", err)
	}
	if res.Status != domain.StatusDone || res.BookingID == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(f.store.bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(f.store.bookings))
	}
	b := f.store.bookings[0]
	if b.EmployeeID != f.employeeID || b.ServiceID != f.serviceID {
		t.Fatal("booking should use the operator's choices")
	}
	if b.PriceCents != 18000 {
		t.Fatalf("price from the notification should be kept, got %d", b.PriceCents)
	}
	if f.store.pending[0].Status != repository.PendingStatusResolved {
		t.Fatalf("expected pending resolved, got %s", f.store.pending[0].Status)
	}

	// A second assignment must be rejected.
	if _, err := f.svc.AssignPendingEvent(ctx, f.salonID, pendingID, f.employeeID, f.serviceID); err == nil {
		t.Fatal("expected conflict on double assignment")
	}
}

func TestIgnorePendingEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ProcessEvent(ctx, f.salonID, Inbound{
		Subject: "Newsletter", Body: "Promocje", MessageID: "<msg-8@booking.example>",
	}); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	pendingID := f.store.pending[0].ID

	if err := f.svc.IgnorePendingEvent(ctx, f.salonID, pendingID); err != nil {
		t.Fatalf("IgnorePendingEvent: %v", err)
	}
	if f.store.pending[0].Status != repository.PendingStatusIgnored {
		t.Fatalf("expected ignored, got %s", f.store.pending[0].Status)
	}
	if err := f.svc.IgnorePendingEvent(ctx, f.salonID, pendingID); err == nil {
		t.Fatal("expected conflict on ignoring twice")
	}
}
