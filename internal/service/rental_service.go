package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/honkyrot/BikeRentalSystem/internal/ledger"
	"github.com/honkyrot/BikeRentalSystem/internal/middleware"
	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

// RentalService exposes the rental ledger over Connect.
type RentalService struct {
	ledger *ledger.Ledger
}

// NewRentalService creates a RentalService backed by l.
func NewRentalService(l *ledger.Ledger) *RentalService {
	return &RentalService{ledger: l}
}

// Handler returns the path prefix and handler serving every procedure.
// The JSON codec is always installed; opts add interceptors and the like.
func (s *RentalService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AddBikeProcedure, connect.NewUnaryHandler(AddBikeProcedure, s.AddBike, opts...))
	mux.Handle(RemoveBikeProcedure, connect.NewUnaryHandler(RemoveBikeProcedure, s.RemoveBike, opts...))
	mux.Handle(UpdateBikeProcedure, connect.NewUnaryHandler(UpdateBikeProcedure, s.UpdateBike, opts...))
	mux.Handle(ListBikesProcedure, connect.NewUnaryHandler(ListBikesProcedure, s.ListBikes, opts...))
	mux.Handle(CreateTicketProcedure, connect.NewUnaryHandler(CreateTicketProcedure, s.CreateTicket, opts...))
	mux.Handle(CloseTicketProcedure, connect.NewUnaryHandler(CloseTicketProcedure, s.CloseTicket, opts...))
	mux.Handle(ReturnBikeProcedure, connect.NewUnaryHandler(ReturnBikeProcedure, s.ReturnBike, opts...))
	mux.Handle(GetTicketProcedure, connect.NewUnaryHandler(GetTicketProcedure, s.GetTicket, opts...))
	mux.Handle(ListTicketsProcedure, connect.NewUnaryHandler(ListTicketsProcedure, s.ListTickets, opts...))
	mux.Handle(FindActiveTicketsProcedure, connect.NewUnaryHandler(FindActiveTicketsProcedure, s.FindActiveTickets, opts...))
	mux.Handle(GetReportProcedure, connect.NewUnaryHandler(GetReportProcedure, s.GetReport, opts...))
	return "/" + ServiceName + "/", mux
}

// AddBike adds a bike to the inventory.
func (s *RentalService) AddBike(ctx context.Context, req *connect.Request[AddBikeRequest]) (*connect.Response[AddBikeResponse], error) {
	slog.Info("AddBike request received",
		"make", req.Msg.Make,
		"model", req.Msg.Model,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	bike, err := s.ledger.AddBike(ctx, models.Bike{
		ID:         req.Msg.ID,
		Make:       req.Msg.Make,
		Model:      req.Msg.Model,
		HourlyRate: req.Msg.HourlyRate,
		Status:     models.BikeStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError("AddBike", err)
	}
	return connect.NewResponse(&AddBikeResponse{Bike: bike}), nil
}

// RemoveBike deletes a bike that is not rented out.
func (s *RentalService) RemoveBike(ctx context.Context, req *connect.Request[RemoveBikeRequest]) (*connect.Response[RemoveBikeResponse], error) {
	slog.Info("RemoveBike request received",
		"bike_id", req.Msg.BikeID,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.ledger.RemoveBike(ctx, req.Msg.BikeID); err != nil {
		return nil, toConnectError("RemoveBike", err)
	}
	return connect.NewResponse(&RemoveBikeResponse{}), nil
}

// UpdateBike edits a bike's make, model, rate or status.
func (s *RentalService) UpdateBike(ctx context.Context, req *connect.Request[UpdateBikeRequest]) (*connect.Response[UpdateBikeResponse], error) {
	slog.Info("UpdateBike request received",
		"bike_id", req.Msg.BikeID,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	upd := ledger.BikeUpdate{
		Make:       req.Msg.Make,
		Model:      req.Msg.Model,
		HourlyRate: req.Msg.HourlyRate,
	}
	if req.Msg.Status != nil {
		status := models.BikeStatus(*req.Msg.Status)
		upd.Status = &status
	}

	bike, err := s.ledger.UpdateBike(ctx, req.Msg.BikeID, upd)
	if err != nil {
		return nil, toConnectError("UpdateBike", err)
	}
	return connect.NewResponse(&UpdateBikeResponse{Bike: bike}), nil
}

// ListBikes lists the inventory, optionally filtered.
func (s *RentalService) ListBikes(ctx context.Context, req *connect.Request[ListBikesRequest]) (*connect.Response[ListBikesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	var bikes []models.Bike
	switch {
	case req.Msg.AvailableOnly:
		bikes = s.ledger.ListAvailable()
	case req.Msg.Status != "":
		bikes = s.ledger.ListByStatus(models.BikeStatus(req.Msg.Status))
	default:
		bikes = s.ledger.ListAll()
	}
	if req.Msg.Query != "" {
		matches := make(map[int]bool)
		for _, b := range s.ledger.SearchBikes(req.Msg.Query) {
			matches[b.ID] = true
		}
		filtered := []models.Bike{}
		for _, b := range bikes {
			if matches[b.ID] {
				filtered = append(filtered, b)
			}
		}
		bikes = filtered
	}

	slog.Debug("ListBikes successful", "count", len(bikes))
	return connect.NewResponse(&ListBikesResponse{
		Bikes:      bikes,
		NextBikeID: s.ledger.NextBikeID(),
	}), nil
}

// CreateTicket rents a bike to a customer.
func (s *RentalService) CreateTicket(ctx context.Context, req *connect.Request[CreateTicketRequest]) (*connect.Response[CreateTicketResponse], error) {
	slog.Info("CreateTicket request received",
		"bike_id", req.Msg.BikeID,
		"planned_hours", req.Msg.PlannedHours,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	customer := models.Customer{
		ID:    req.Msg.CustomerID,
		Name:  req.Msg.CustomerName,
		Phone: req.Msg.CustomerPhone,
	}
	ticket, err := s.ledger.CreateTicket(ctx, customer, req.Msg.BikeID, float64(req.Msg.PlannedHours), req.Msg.PersonalNotes)
	if err != nil {
		return nil, toConnectError("CreateTicket", err)
	}
	return connect.NewResponse(&CreateTicketResponse{Ticket: ticket}), nil
}

// CloseTicket returns the bike on a ticket and bills the rental.
func (s *RentalService) CloseTicket(ctx context.Context, req *connect.Request[CloseTicketRequest]) (*connect.Response[CloseTicketResponse], error) {
	slog.Info("CloseTicket request received",
		"ticket_id", req.Msg.TicketID,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	ticket, err := s.ledger.CloseTicket(ctx, req.Msg.TicketID)
	if err != nil {
		return nil, toConnectError("CloseTicket", err)
	}
	return connect.NewResponse(&CloseTicketResponse{Ticket: ticket}), nil
}

// ReturnBike closes a ticket found by customer name and phone.
func (s *RentalService) ReturnBike(ctx context.Context, req *connect.Request[ReturnBikeRequest]) (*connect.Response[ReturnBikeResponse], error) {
	slog.Info("ReturnBike request received",
		"customer", req.Msg.CustomerName,
		"clerk", middleware.GetClerk(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	ticket, err := s.ledger.ReturnByCustomer(ctx, req.Msg.CustomerName, req.Msg.CustomerPhone)
	if err != nil {
		return nil, toConnectError("ReturnBike", err)
	}
	return connect.NewResponse(&ReturnBikeResponse{Ticket: ticket}), nil
}

// GetTicket looks up a ticket by ID.
func (s *RentalService) GetTicket(ctx context.Context, req *connect.Request[GetTicketRequest]) (*connect.Response[GetTicketResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	ticket, ok := s.ledger.GetTicket(req.Msg.TicketID)
	if !ok {
		return nil, toConnectError("GetTicket", fmt.Errorf("%w: %d", ledger.ErrTicketNotFound, req.Msg.TicketID))
	}
	return connect.NewResponse(&GetTicketResponse{Ticket: ticket}), nil
}

// ListTickets searches the ticket history.
func (s *RentalService) ListTickets(ctx context.Context, req *connect.Request[ListTicketsRequest]) (*connect.Response[ListTicketsResponse], error) {
	tickets := s.ledger.SearchTickets(req.Msg.Query, req.Msg.IncludeClosed)
	slog.Debug("ListTickets successful", "count", len(tickets))
	return connect.NewResponse(&ListTicketsResponse{Tickets: tickets}), nil
}

// FindActiveTickets lists a customer's open tickets.
func (s *RentalService) FindActiveTickets(ctx context.Context, req *connect.Request[FindActiveTicketsRequest]) (*connect.Response[FindActiveTicketsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	tickets := s.ledger.FindActiveTicketsByCustomer(req.Msg.CustomerName, req.Msg.CustomerPhone)
	return connect.NewResponse(&FindActiveTicketsResponse{Tickets: tickets}), nil
}

// GetReport returns rental totals and the inventory breakdown.
func (s *RentalService) GetReport(ctx context.Context, req *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error) {
	summary := s.ledger.Summary()

	byStatus := make(map[string]int, len(models.BikeStatuses))
	for _, status := range models.BikeStatuses {
		byStatus[string(status)] = 0
	}
	for _, b := range s.ledger.ListAll() {
		byStatus[string(b.Status)]++
	}

	return connect.NewResponse(&GetReportResponse{
		ActiveRentals:  summary.ActiveRentals,
		ClosedRentals:  summary.ClosedRentals,
		OverdueReturns: summary.OverdueReturns,
		Revenue:        summary.Revenue,
		LateFeeRate:    s.ledger.LateFeeRate(),
		BikesByStatus:  byStatus,
	}), nil
}
