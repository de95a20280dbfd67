package models

import "time"

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketActive TicketStatus = "active"
	TicketClosed TicketStatus = "closed"
)

// Ticket records one rental from checkout to return.
//
// While the ticket is active EndTime is zero and TotalFee is 0. Closing sets
// both exactly once; tickets are kept forever as rental history.
type Ticket struct {
	ID     int          `json:"id"`
	Status TicketStatus `json:"status"`

	// Bike and Customer are copies taken when the ticket was opened.
	Bike     BikeSnapshot `json:"bike"`
	Customer Customer     `json:"customer"`

	StartTime    Timestamp `json:"start_time"`
	PlannedHours float64   `json:"planned_hours"`
	EndTime      Timestamp `json:"end_time"`

	TotalFee float64 `json:"total_fee"`

	// SystemNotes is written by the ledger when the ticket is closed.
	SystemNotes string `json:"system_notes"`

	// PersonalNotes is free text from the clerk; the ledger never changes it.
	PersonalNotes string `json:"personal_notes"`
}

// Returned reports whether the bike has been brought back, based on EndTime.
func (t Ticket) Returned() bool {
	return !t.EndTime.IsZero()
}

// HoursRented is the elapsed rental time in hours. For an open ticket the
// elapsed time is measured up to now.
func (t Ticket) HoursRented(now time.Time) float64 {
	end := now
	if t.Returned() {
		end = t.EndTime.Time
	}
	return end.Sub(t.StartTime.Time).Hours()
}
