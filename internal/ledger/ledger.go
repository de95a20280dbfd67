// Package ledger implements the rental ledger: the bike inventory, the
// ticket history, fee calculation on return and persistence of both
// collections after every change.
//
// The ledger is the only writer of bike status transitions into and out of
// "rented". A bike is rented exactly when one active ticket references it.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/honkyrot/BikeRentalSystem/internal/calculator"
	"github.com/honkyrot/BikeRentalSystem/internal/models"
	"github.com/honkyrot/BikeRentalSystem/internal/storage"
)

// Recorder receives rental activity, typically for metrics.
type Recorder interface {
	TicketOpened()
	TicketClosed(fee float64, overdue bool)
	Inventory(byStatus map[models.BikeStatus]int, activeRentals int)
}

type noopRecorder struct{}

func (noopRecorder) TicketOpened()                            {}
func (noopRecorder) TicketClosed(float64, bool)               {}
func (noopRecorder) Inventory(map[models.BikeStatus]int, int) {}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used for ticket start and end times.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithLateFeeRate sets the multiplier applied to the hourly rate for hours
// beyond the planned rental. The default is 1.0.
func WithLateFeeRate(rate float64) Option {
	return func(l *Ledger) { l.lateFeeRate = rate }
}

// WithRecorder reports rental activity to r.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// Ledger owns the bike inventory and the ticket history.
type Ledger struct {
	mu sync.Mutex

	store       storage.Store
	clock       Clock
	lateFeeRate float64
	recorder    Recorder

	bikes   []models.Bike         // inventory order
	tickets map[int]models.Ticket // every ticket ever opened

	// Running maxima, so new IDs never need a scan and are never reused.
	lastBikeID     int
	lastTicketID   int
	lastCustomerID int
}

// New loads the ledger from store. Collections the store has never saved
// start empty.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:       store,
		clock:       SystemClock,
		lateFeeRate: calculator.DefaultLateFeeRate,
		recorder:    noopRecorder{},
		tickets:     make(map[int]models.Ticket),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lateFeeRate < 0 || math.IsNaN(l.lateFeeRate) || math.IsInf(l.lateFeeRate, 0) {
		return nil, ValidationError{Field: "late_fee_rate", Message: "must be a finite non-negative number"}
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	l.lastBikeID = snap.LastBikeID
	l.bikes = make([]models.Bike, 0, len(snap.Bikes))
	for _, b := range snap.Bikes {
		l.bikes = append(l.bikes, b)
		l.lastBikeID = max(l.lastBikeID, b.ID)
	}
	for _, t := range snap.Tickets {
		if _, dup := l.tickets[t.ID]; dup {
			slog.Warn("Duplicate ticket id in storage, keeping the later record", "ticket_id", t.ID)
		}
		l.tickets[t.ID] = t
		l.noteTicket(t)
	}

	l.recorder.Inventory(l.countByStatus(), l.countActive())
	slog.Info("Ledger loaded",
		"bikes", len(l.bikes),
		"tickets", len(l.tickets),
		"late_fee_rate", l.lateFeeRate,
	)
	return l, nil
}

// LateFeeRate returns the ledger-wide late fee multiplier.
func (l *Ledger) LateFeeRate() float64 {
	return l.lateFeeRate
}

// noteTicket advances the running maxima past a ticket's IDs.
func (l *Ledger) noteTicket(t models.Ticket) {
	l.lastTicketID = max(l.lastTicketID, t.ID)
	l.lastBikeID = max(l.lastBikeID, t.Bike.ID)
	if t.Customer.ID != nil {
		l.lastCustomerID = max(l.lastCustomerID, *t.Customer.ID)
	}
}

// commit persists the staged collections and, only if that succeeds, makes
// them the ledger's state. Callers stage changes on copies, so a failed save
// leaves the in-memory ledger exactly as it was.
func (l *Ledger) commit(ctx context.Context, bikes []models.Bike, tickets map[int]models.Ticket) error {
	lastBikeID := l.lastBikeID
	for _, b := range bikes {
		lastBikeID = max(lastBikeID, b.ID)
	}
	snap := storage.Snapshot{
		Bikes:      bikes,
		Tickets:    sortedTickets(tickets),
		LastBikeID: lastBikeID,
	}
	if err := l.store.Save(ctx, snap); err != nil {
		slog.Error("Failed to persist ledger", "error", err)
		return fmt.Errorf("failed to persist ledger: %w", err)
	}

	l.bikes = bikes
	l.tickets = tickets
	l.recorder.Inventory(l.countByStatus(), l.countActive())
	return nil
}

func (l *Ledger) countByStatus() map[models.BikeStatus]int {
	counts := make(map[models.BikeStatus]int, len(models.BikeStatuses))
	for _, b := range l.bikes {
		counts[b.Status]++
	}
	return counts
}

func (l *Ledger) countActive() int {
	n := 0
	for _, t := range l.tickets {
		if t.Status == models.TicketActive {
			n++
		}
	}
	return n
}

func sortedTickets(tickets map[int]models.Ticket) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
