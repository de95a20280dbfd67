package calculator

import (
	"time"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

// Summary aggregates the ticket history for reports.
type Summary struct {
	ActiveRentals  int     // tickets with status active
	ClosedRentals  int     // tickets that have an end time
	OverdueReturns int     // closed tickets kept longer than planned
	Revenue        float64 // sum of fees over closed tickets
}

// Summarize computes report totals over a set of tickets.
//
// Active rentals are counted by status while revenue is counted by end time,
// so an active ticket's zero fee never reaches the revenue total even if the
// two fields were ever to disagree.
func Summarize(tickets []models.Ticket) Summary {
	var s Summary
	for _, t := range tickets {
		if t.Status == models.TicketActive {
			s.ActiveRentals++
		}
		if !t.Returned() {
			continue
		}
		s.ClosedRentals++
		s.Revenue += t.TotalFee
		if t.HoursRented(time.Time{}) > t.PlannedHours {
			s.OverdueReturns++
		}
	}
	s.Revenue = RoundCents(s.Revenue)
	return s
}
