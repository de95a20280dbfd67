package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/honkyrot/BikeRentalSystem/internal/calculator"
	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

// CreateTicket rents an available bike to a customer.
//
// The bike and customer are copied into the ticket, the bike is marked rented
// to the customer, and both collections are persisted. A customer without an
// ID is given the next customer ID. Fails with ErrBikeUnavailable when no
// available bike has bikeID, without changing anything.
func (l *Ledger) CreateTicket(ctx context.Context, customer models.Customer, bikeID int, plannedHours float64, personalNotes string) (models.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := validateVar("planned_hours", plannedHours, "gt=0"); err != nil {
		return models.Ticket{}, err
	}
	if err := validateStruct(customer); err != nil {
		return models.Ticket{}, err
	}

	idx := l.bikeIndex(bikeID)
	if idx < 0 || l.bikes[idx].Status != models.BikeAvailable {
		slog.Warn("Bike not available for rental", "bike_id", bikeID)
		return models.Ticket{}, fmt.Errorf("%w: %d", ErrBikeUnavailable, bikeID)
	}

	if customer.ID == nil {
		id := l.lastCustomerID + 1
		customer.ID = &id
	} else {
		id := *customer.ID
		customer.ID = &id
	}

	bike := l.bikes[idx]
	snapshot := bike.Snapshot()
	snapshot.Status = models.BikeRented

	ticket := models.Ticket{
		ID:            l.lastTicketID + 1,
		Status:        models.TicketActive,
		Bike:          snapshot,
		Customer:      customer,
		StartTime:     models.NewTimestamp(l.clock.Now()),
		PlannedHours:  plannedHours,
		PersonalNotes: personalNotes,
	}

	renter := customer.Name
	bike.Status = models.BikeRented
	bike.RentedBy = &renter

	bikes := slices.Clone(l.bikes)
	bikes[idx] = bike
	tickets := maps.Clone(l.tickets)
	tickets[ticket.ID] = ticket

	if err := l.commit(ctx, bikes, tickets); err != nil {
		return models.Ticket{}, err
	}
	l.noteTicket(ticket)
	l.recorder.TicketOpened()

	slog.Info("Ticket created",
		"ticket_id", ticket.ID,
		"bike_id", bike.ID,
		"customer_id", *customer.ID,
		"planned_hours", plannedHours,
	)
	return ticket, nil
}

// CloseTicket returns the ticket's bike, bills the rental and persists the
// result. The ticket is kept as history.
func (l *Ledger) CloseTicket(ctx context.Context, ticketID int) (models.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeTicket(ctx, ticketID)
}

// ReturnByCustomer closes the customer's only active ticket. With no active
// ticket it fails with ErrTicketNotFound; with several it fails with an
// AmbiguousReturnError listing them, and the return must be made by ticket ID.
func (l *Ledger) ReturnByCustomer(ctx context.Context, name, phone string) (models.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	matches := l.findActive(name, phone)
	switch len(matches) {
	case 0:
		return models.Ticket{}, fmt.Errorf("%w: no active ticket for %s", ErrTicketNotFound, name)
	case 1:
		return l.closeTicket(ctx, matches[0].ID)
	default:
		ids := make([]int, len(matches))
		for i, t := range matches {
			ids[i] = t.ID
		}
		return models.Ticket{}, AmbiguousReturnError{TicketIDs: ids}
	}
}

func (l *Ledger) closeTicket(ctx context.Context, ticketID int) (models.Ticket, error) {
	ticket, ok := l.tickets[ticketID]
	if !ok {
		return models.Ticket{}, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}
	if ticket.Returned() || ticket.Status == models.TicketClosed {
		return models.Ticket{}, fmt.Errorf("%w: %d", ErrTicketClosed, ticketID)
	}

	end := models.NewTimestamp(l.clock.Now())
	hoursRented := end.Sub(ticket.StartTime.Time).Hours()

	fee, err := calculator.CalculateFee(calculator.FeeInput{
		PlannedHours: ticket.PlannedHours,
		HourlyRate:   ticket.Bike.HourlyRate,
		HoursRented:  hoursRented,
		LateFeeRate:  l.lateFeeRate,
	})
	if err != nil {
		return models.Ticket{}, fmt.Errorf("failed to bill ticket %d: %w", ticketID, err)
	}

	ticket.EndTime = end
	ticket.TotalFee = fee.Total
	ticket.Bike.Status = models.BikeAvailable
	ticket.Status = models.TicketClosed
	ticket.SystemNotes = fee.Notes(l.lateFeeRate)

	bikes := slices.Clone(l.bikes)
	if idx := l.bikeIndex(ticket.Bike.ID); idx >= 0 {
		bikes[idx].Status = models.BikeAvailable
		bikes[idx].RentedBy = nil
	} else {
		slog.Warn("Closing ticket for a bike no longer in inventory", "ticket_id", ticketID, "bike_id", ticket.Bike.ID)
	}
	tickets := maps.Clone(l.tickets)
	tickets[ticket.ID] = ticket

	if err := l.commit(ctx, bikes, tickets); err != nil {
		return models.Ticket{}, err
	}
	l.recorder.TicketClosed(fee.Total, fee.Overdue)

	slog.Info("Ticket closed",
		"ticket_id", ticket.ID,
		"bike_id", ticket.Bike.ID,
		"hours_rented", calculator.RoundCents(hoursRented),
		"total_fee", ticket.TotalFee,
		"overdue", fee.Overdue,
	)
	return ticket, nil
}

// GetTicket returns the ticket with the given ID; ok is false if there is none.
func (l *Ledger) GetTicket(id int) (ticket models.Ticket, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ticket, ok = l.tickets[id]
	return ticket, ok
}

// GetAllTickets returns every ticket, active and closed, ordered by ID.
func (l *Ledger) GetAllTickets() []models.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedTickets(l.tickets)
}

// FindActiveTicketsByCustomer returns the active tickets whose customer name
// and phone match exactly. There may be zero, one or several.
func (l *Ledger) FindActiveTicketsByCustomer(name, phone string) []models.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.findActive(name, phone)
}

func (l *Ledger) findActive(name, phone string) []models.Ticket {
	out := []models.Ticket{}
	for _, t := range sortedTickets(l.tickets) {
		if t.Customer.Name == name && t.Customer.Phone == phone && !t.Returned() {
			out = append(out, t)
		}
	}
	return out
}

// SearchTickets returns tickets whose customer name or ticket ID contains
// query, ignoring case. Closed tickets are included only when includeClosed
// is set. An empty query matches every ticket.
func (l *Ledger) SearchTickets(query string, includeClosed bool) []models.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Ticket{}
	for _, t := range sortedTickets(l.tickets) {
		if !includeClosed && t.Returned() {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Customer.Name), query) &&
			!strings.Contains(strconv.Itoa(t.ID), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summary returns report totals over the whole ticket history.
func (l *Ledger) Summary() calculator.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return calculator.Summarize(sortedTickets(l.tickets))
}

// TotalActiveRentals counts tickets whose status is active.
func (l *Ledger) TotalActiveRentals() int {
	return l.Summary().ActiveRentals
}

// TotalRevenue sums the fees of tickets that have an end time.
func (l *Ledger) TotalRevenue() float64 {
	return l.Summary().Revenue
}
