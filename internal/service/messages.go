package service

import (
	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

const ServiceName = "rental.v1.RentalService"

// Fully-qualified procedure names.
const (
	AddBikeProcedure           = "/" + ServiceName + "/AddBike"
	RemoveBikeProcedure        = "/" + ServiceName + "/RemoveBike"
	UpdateBikeProcedure        = "/" + ServiceName + "/UpdateBike"
	ListBikesProcedure         = "/" + ServiceName + "/ListBikes"
	CreateTicketProcedure      = "/" + ServiceName + "/CreateTicket"
	CloseTicketProcedure       = "/" + ServiceName + "/CloseTicket"
	ReturnBikeProcedure        = "/" + ServiceName + "/ReturnBike"
	GetTicketProcedure         = "/" + ServiceName + "/GetTicket"
	ListTicketsProcedure       = "/" + ServiceName + "/ListTickets"
	FindActiveTicketsProcedure = "/" + ServiceName + "/FindActiveTickets"
	GetReportProcedure         = "/" + ServiceName + "/GetReport"
)

type AddBikeRequest struct {
	// ID is optional; zero means the next sequential ID.
	ID         int     `json:"id,omitempty" validate:"gte=0"`
	Make       string  `json:"make" validate:"required"`
	Model      string  `json:"model" validate:"required"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=available maintenance unavailable missing"`
}

type AddBikeResponse struct {
	Bike models.Bike `json:"bike"`
}

type RemoveBikeRequest struct {
	BikeID int `json:"bike_id" validate:"gt=0"`
}

type RemoveBikeResponse struct{}

// UpdateBikeRequest edits a bike. Omitted fields are left unchanged.
type UpdateBikeRequest struct {
	BikeID     int      `json:"bike_id" validate:"gt=0"`
	Make       *string  `json:"make,omitempty" validate:"omitempty,min=1"`
	Model      *string  `json:"model,omitempty" validate:"omitempty,min=1"`
	HourlyRate *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=available maintenance unavailable missing"`
}

type UpdateBikeResponse struct {
	Bike models.Bike `json:"bike"`
}

// ListBikesRequest filters the inventory. With no filter every bike is listed.
// AvailableOnly takes precedence over Status, and Query is applied last.
type ListBikesRequest struct {
	AvailableOnly bool   `json:"available_only,omitempty"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance unavailable missing"`
	Query         string `json:"query,omitempty"`
}

type ListBikesResponse struct {
	Bikes      []models.Bike `json:"bikes"`
	NextBikeID int           `json:"next_bike_id"`
}

type CreateTicketRequest struct {
	BikeID        int    `json:"bike_id" validate:"gt=0"`
	CustomerID    *int   `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
	PlannedHours  int    `json:"planned_hours" validate:"gt=0"`
	PersonalNotes string `json:"personal_notes,omitempty"`
}

type CreateTicketResponse struct {
	Ticket models.Ticket `json:"ticket"`
}

type CloseTicketRequest struct {
	TicketID int `json:"ticket_id" validate:"gt=0"`
}

type CloseTicketResponse struct {
	Ticket models.Ticket `json:"ticket"`
}

// ReturnBikeRequest closes the customer's only active ticket.
type ReturnBikeRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
}

type ReturnBikeResponse struct {
	Ticket models.Ticket `json:"ticket"`
}

type GetTicketRequest struct {
	TicketID int `json:"ticket_id" validate:"gt=0"`
}

type GetTicketResponse struct {
	Ticket models.Ticket `json:"ticket"`
}

type ListTicketsRequest struct {
	Query         string `json:"query,omitempty"`
	IncludeClosed bool   `json:"include_closed,omitempty"`
}

type ListTicketsResponse struct {
	Tickets []models.Ticket `json:"tickets"`
}

type FindActiveTicketsRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
}

type FindActiveTicketsResponse struct {
	Tickets []models.Ticket `json:"tickets"`
}

type GetReportRequest struct{}

type GetReportResponse struct {
	ActiveRentals  int            `json:"active_rentals"`
	ClosedRentals  int            `json:"closed_rentals"`
	OverdueReturns int            `json:"overdue_returns"`
	Revenue        float64        `json:"revenue"`
	LateFeeRate    float64        `json:"late_fee_rate"`
	BikesByStatus  map[string]int `json:"bikes_by_status"`
}
