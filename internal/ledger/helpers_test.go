package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
	"github.com/honkyrot/BikeRentalSystem/internal/storage"
)

// memStore is an in-memory storage.Store that can be told to fail saves.
type memStore struct {
	snap     storage.Snapshot
	saves    int
	failSave error
}

func (m *memStore) Load(_ context.Context) (storage.Snapshot, error) {
	return m.snap, nil
}

func (m *memStore) Save(_ context.Context, snap storage.Snapshot) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.snap = snap
	return nil
}

func (m *memStore) Close() error { return nil }

// fakeClock is a settable Clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

// recorder counts the calls the ledger makes to its Recorder.
type recorder struct {
	opened, closed, overdue int
	revenue                 float64
	byStatus                map[models.BikeStatus]int
	active                  int
}

func (r *recorder) TicketOpened() { r.opened++ }

func (r *recorder) TicketClosed(fee float64, overdue bool) {
	r.closed++
	r.revenue += fee
	if overdue {
		r.overdue++
	}
}

func (r *recorder) Inventory(byStatus map[models.BikeStatus]int, active int) {
	r.byStatus = byStatus
	r.active = active
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *memStore, *fakeClock) {
	t.Helper()
	store := &memStore{}
	clock := newClock()
	l, err := New(context.Background(), store, append([]Option{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return l, store, clock
}

func mustAddBike(t *testing.T, l *Ledger, bikeMake, bikeModel string, rate float64) models.Bike {
	t.Helper()
	bike, err := l.AddBike(context.Background(), models.Bike{Make: bikeMake, Model: bikeModel, HourlyRate: rate})
	if err != nil {
		t.Fatalf("AddBike failed: %v", err)
	}
	return bike
}

func mustCreateTicket(t *testing.T, l *Ledger, name, phone string, bikeID int, hours float64) models.Ticket {
	t.Helper()
	ticket, err := l.CreateTicket(context.Background(), models.Customer{Name: name, Phone: phone}, bikeID, hours, "")
	if err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}
	return ticket
}

// checkRentalInvariant verifies that a bike is rented exactly when one
// active ticket references it.
func checkRentalInvariant(t *testing.T, l *Ledger) {
	t.Helper()
	active := make(map[int]int)
	for _, ticket := range l.GetAllTickets() {
		if !ticket.Returned() {
			active[ticket.Bike.ID]++
		}
	}
	for _, bike := range l.ListAll() {
		rented := bike.Status == models.BikeRented
		if rented && active[bike.ID] != 1 {
			t.Errorf("bike %d is rented but has %d active tickets", bike.ID, active[bike.ID])
		}
		if !rented && active[bike.ID] != 0 {
			t.Errorf("bike %d is %s but has %d active tickets", bike.ID, bike.Status, active[bike.ID])
		}
	}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
