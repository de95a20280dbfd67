package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/honkyrot/BikeRentalSystem/internal/ledger"
	"github.com/honkyrot/BikeRentalSystem/internal/middleware"
	"github.com/honkyrot/BikeRentalSystem/internal/models"
	"github.com/honkyrot/BikeRentalSystem/internal/storage/sqlite"
)

// testClock is a settable clock shared between the test and the server.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setupTestServer serves a RentalService backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (*RentalServiceClient, *testClock) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "rentals.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	clock := &testClock{now: time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)}
	l, err := ledger.New(context.Background(), store, ledger.WithClock(clock))
	if err != nil {
		store.Close()
		t.Fatalf("failed to create ledger: %v", err)
	}

	interceptors := connect.WithInterceptors(middleware.ClerkInterceptor(), middleware.LoggingInterceptor())
	path, handler := NewRentalService(l).Handler(interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return NewRentalServiceClient(http.DefaultClient, server.URL), clock
}

func addBike(t *testing.T, client *RentalServiceClient, bikeMake, bikeModel string, rate float64) models.Bike {
	t.Helper()
	resp, err := client.AddBike(context.Background(), connect.NewRequest(&AddBikeRequest{
		Make:       bikeMake,
		Model:      bikeModel,
		HourlyRate: rate,
	}))
	if err != nil {
		t.Fatalf("AddBike failed: %v", err)
	}
	return resp.Msg.Bike
}

func createTicket(t *testing.T, client *RentalServiceClient, bikeID int, name, phone string, hours int) models.Ticket {
	t.Helper()
	resp, err := client.CreateTicket(context.Background(), connect.NewRequest(&CreateTicketRequest{
		BikeID:        bikeID,
		CustomerName:  name,
		CustomerPhone: phone,
		PlannedHours:  hours,
	}))
	if err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}
	return resp.Msg.Ticket
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code: expected %v, got %v (%v)", want, got, err)
	}
}

func TestAddBike(t *testing.T) {
	client, _ := setupTestServer(t)

	bike := addBike(t, client, "Trek", "FX 3", 7.5)

	if bike.ID != 1 {
		t.Errorf("id: expected 1, got %d", bike.ID)
	}
	if bike.Status != models.BikeAvailable {
		t.Errorf("status: expected available, got %s", bike.Status)
	}
	if bike.HourlyRate != 7.5 {
		t.Errorf("hourly_rate: expected 7.5, got %v", bike.HourlyRate)
	}

	listResp, err := client.ListBikes(context.Background(), connect.NewRequest(&ListBikesRequest{}))
	if err != nil {
		t.Fatalf("ListBikes failed: %v", err)
	}
	if len(listResp.Msg.Bikes) != 1 {
		t.Errorf("bikes: expected 1, got %d", len(listResp.Msg.Bikes))
	}
	if listResp.Msg.NextBikeID != 2 {
		t.Errorf("next_bike_id: expected 2, got %d", listResp.Msg.NextBikeID)
	}
}

func TestAddBike_InvalidArgument(t *testing.T) {
	client, _ := setupTestServer(t)
	addBike(t, client, "Trek", "FX 3", 7)

	tests := []struct {
		name string
		req  *AddBikeRequest
	}{
		{"missing make", &AddBikeRequest{Model: "FX"}},
		{"missing model", &AddBikeRequest{Make: "Trek"}},
		{"negative rate", &AddBikeRequest{Make: "Trek", Model: "FX", HourlyRate: -1}},
		{"rented status", &AddBikeRequest{Make: "Trek", Model: "FX", Status: "rented"}},
		{"unknown status", &AddBikeRequest{Make: "Trek", Model: "FX", Status: "stolen"}},
		{"duplicate id", &AddBikeRequest{ID: 1, Make: "Trek", Model: "FX"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddBike(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestRentAndReturn(t *testing.T) {
	client, clock := setupTestServer(t)
	ctx := context.Background()
	bike := addBike(t, client, "Giant", "Escape", 10)

	ticket := createTicket(t, client, bike.ID, "Darian Porch", "(555) 123-4567", 2)
	if ticket.ID != 1 || ticket.Status != models.TicketActive {
		t.Fatalf("ticket: expected active ticket 1, got %+v", ticket)
	}
	if ticket.Customer.ID == nil || *ticket.Customer.ID != 1 {
		t.Errorf("customer id: expected 1, got %v", ticket.Customer.ID)
	}

	// The bike cannot be rented twice.
	_, err := client.CreateTicket(ctx, connect.NewRequest(&CreateTicketRequest{
		BikeID: bike.ID, CustomerName: "Other", CustomerPhone: "555", PlannedHours: 1,
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	avail, err := client.ListBikes(ctx, connect.NewRequest(&ListBikesRequest{AvailableOnly: true}))
	if err != nil {
		t.Fatalf("ListBikes failed: %v", err)
	}
	if len(avail.Msg.Bikes) != 0 {
		t.Errorf("available bikes: expected 0, got %d", len(avail.Msg.Bikes))
	}

	clock.Advance(3 * time.Hour)
	closeResp, err := client.CloseTicket(ctx, connect.NewRequest(&CloseTicketRequest{TicketID: ticket.ID}))
	if err != nil {
		t.Fatalf("CloseTicket failed: %v", err)
	}
	closed := closeResp.Msg.Ticket

	// 2h * 10 + 1h late * 10 * 1.0
	if closed.TotalFee != 30 {
		t.Errorf("total_fee: expected 30, got %v", closed.TotalFee)
	}
	if !strings.HasPrefix(closed.SystemNotes, "Overdue by 1.00 hours.") {
		t.Errorf("system_notes: unexpected %q", closed.SystemNotes)
	}
	if closed.EndTime.IsZero() {
		t.Error("expected end_time to be set")
	}

	_, err = client.CloseTicket(ctx, connect.NewRequest(&CloseTicketRequest{TicketID: ticket.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	getResp, err := client.GetTicket(ctx, connect.NewRequest(&GetTicketRequest{TicketID: ticket.ID}))
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}
	if getResp.Msg.Ticket.Status != models.TicketClosed {
		t.Errorf("status: expected closed, got %s", getResp.Msg.Ticket.Status)
	}

	report, err := client.GetReport(ctx, connect.NewRequest(&GetReportRequest{}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if report.Msg.Revenue != 30 || report.Msg.ClosedRentals != 1 || report.Msg.OverdueReturns != 1 {
		t.Errorf("report: unexpected %+v", report.Msg)
	}
	if report.Msg.BikesByStatus["available"] != 1 || report.Msg.BikesByStatus["rented"] != 0 {
		t.Errorf("bikes_by_status: unexpected %v", report.Msg.BikesByStatus)
	}
}

func TestCreateTicket_InvalidArgument(t *testing.T) {
	client, _ := setupTestServer(t)
	bike := addBike(t, client, "Trek", "FX", 7)

	tests := []struct {
		name string
		req  *CreateTicketRequest
	}{
		{"missing name", &CreateTicketRequest{BikeID: bike.ID, CustomerPhone: "555-1234", PlannedHours: 1}},
		{"missing phone", &CreateTicketRequest{BikeID: bike.ID, CustomerName: "Ann", PlannedHours: 1}},
		{"letters in phone", &CreateTicketRequest{BikeID: bike.ID, CustomerName: "Ann", CustomerPhone: "555-CALL", PlannedHours: 1}},
		{"zero hours", &CreateTicketRequest{BikeID: bike.ID, CustomerName: "Ann", CustomerPhone: "555-1234"}},
		{"negative hours", &CreateTicketRequest{BikeID: bike.ID, CustomerName: "Ann", CustomerPhone: "555-1234", PlannedHours: -3}},
		{"missing bike", &CreateTicketRequest{CustomerName: "Ann", CustomerPhone: "555-1234", PlannedHours: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateTicket(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestReturnBike(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	first := addBike(t, client, "Trek", "FX", 7)
	second := addBike(t, client, "Trek", "Marlin", 9)

	_, err := client.ReturnBike(ctx, connect.NewRequest(&ReturnBikeRequest{CustomerName: "Ann", CustomerPhone: "555"}))
	assertCode(t, err, connect.CodeNotFound)

	createTicket(t, client, first.ID, "Ann", "555", 1)
	createTicket(t, client, second.ID, "Ann", "555", 1)

	active, err := client.FindActiveTickets(ctx, connect.NewRequest(&FindActiveTicketsRequest{CustomerName: "Ann", CustomerPhone: "555"}))
	if err != nil {
		t.Fatalf("FindActiveTickets failed: %v", err)
	}
	if len(active.Msg.Tickets) != 2 {
		t.Fatalf("active tickets: expected 2, got %d", len(active.Msg.Tickets))
	}

	_, err = client.ReturnBike(ctx, connect.NewRequest(&ReturnBikeRequest{CustomerName: "Ann", CustomerPhone: "555"}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	if _, err := client.CloseTicket(ctx, connect.NewRequest(&CloseTicketRequest{TicketID: 2})); err != nil {
		t.Fatalf("CloseTicket failed: %v", err)
	}
	resp, err := client.ReturnBike(ctx, connect.NewRequest(&ReturnBikeRequest{CustomerName: "Ann", CustomerPhone: "555"}))
	if err != nil {
		t.Fatalf("ReturnBike failed: %v", err)
	}
	if resp.Msg.Ticket.ID != 1 || resp.Msg.Ticket.SystemNotes != "Returned on time." {
		t.Errorf("returned ticket: unexpected %+v", resp.Msg.Ticket)
	}
}

func TestUpdateAndRemoveBike(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	bike := addBike(t, client, "Trek", "FX", 7)

	maintenance := "maintenance"
	rate := 8.25
	upd, err := client.UpdateBike(ctx, connect.NewRequest(&UpdateBikeRequest{
		BikeID: bike.ID, Status: &maintenance, HourlyRate: &rate,
	}))
	if err != nil {
		t.Fatalf("UpdateBike failed: %v", err)
	}
	if upd.Msg.Bike.Status != models.BikeMaintenance || upd.Msg.Bike.HourlyRate != 8.25 || upd.Msg.Bike.Make != "Trek" {
		t.Errorf("bike: unexpected %+v", upd.Msg.Bike)
	}

	byStatus, err := client.ListBikes(ctx, connect.NewRequest(&ListBikesRequest{Status: "maintenance", Query: "fx"}))
	if err != nil {
		t.Fatalf("ListBikes failed: %v", err)
	}
	if len(byStatus.Msg.Bikes) != 1 {
		t.Errorf("bikes: expected 1, got %d", len(byStatus.Msg.Bikes))
	}

	_, err = client.CreateTicket(ctx, connect.NewRequest(&CreateTicketRequest{
		BikeID: bike.ID, CustomerName: "Ann", CustomerPhone: "555", PlannedHours: 1,
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	rented := "rented"
	_, err = client.UpdateBike(ctx, connect.NewRequest(&UpdateBikeRequest{BikeID: bike.ID, Status: &rented}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.UpdateBike(ctx, connect.NewRequest(&UpdateBikeRequest{BikeID: 99, HourlyRate: &rate}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := client.RemoveBike(ctx, connect.NewRequest(&RemoveBikeRequest{BikeID: bike.ID})); err != nil {
		t.Fatalf("RemoveBike failed: %v", err)
	}
	_, err = client.RemoveBike(ctx, connect.NewRequest(&RemoveBikeRequest{BikeID: bike.ID}))
	assertCode(t, err, connect.CodeNotFound)

	if next := addBike(t, client, "Giant", "Talon", 6); next.ID != 2 {
		t.Errorf("id after removal: expected 2, got %d", next.ID)
	}
}

func TestRemoveBike_Rented(t *testing.T) {
	client, _ := setupTestServer(t)
	bike := addBike(t, client, "Trek", "FX", 7)
	createTicket(t, client, bike.ID, "Ann", "555", 1)

	_, err := client.RemoveBike(context.Background(), connect.NewRequest(&RemoveBikeRequest{BikeID: bike.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestListTickets(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		addBike(t, client, "Trek", "FX", 7)
	}
	createTicket(t, client, 1, "Ann Lee", "555", 1)
	createTicket(t, client, 2, "Bo Lee", "556", 1)
	createTicket(t, client, 3, "Cy Park", "557", 1)
	if _, err := client.CloseTicket(ctx, connect.NewRequest(&CloseTicketRequest{TicketID: 3})); err != nil {
		t.Fatalf("CloseTicket failed: %v", err)
	}

	tests := []struct {
		name string
		req  *ListTicketsRequest
		want int
	}{
		{"active only", &ListTicketsRequest{}, 2},
		{"with closed", &ListTicketsRequest{IncludeClosed: true}, 3},
		{"name search", &ListTicketsRequest{Query: "lee"}, 2},
		{"closed by name", &ListTicketsRequest{Query: "park", IncludeClosed: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.ListTickets(ctx, connect.NewRequest(tt.req))
			if err != nil {
				t.Fatalf("ListTickets failed: %v", err)
			}
			if len(resp.Msg.Tickets) != tt.want {
				t.Errorf("tickets: expected %d, got %d", tt.want, len(resp.Msg.Tickets))
			}
		})
	}

	_, err := client.GetTicket(ctx, connect.NewRequest(&GetTicketRequest{TicketID: 42}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRequestIDHeader(t *testing.T) {
	client, _ := setupTestServer(t)

	req := connect.NewRequest(&ListBikesRequest{})
	req.Header().Set(middleware.ClerkHeader, "Maria")
	resp, err := client.ListBikes(context.Background(), req)
	if err != nil {
		t.Fatalf("ListBikes failed: %v", err)
	}
	if resp.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

// syncBuffer is a bytes.Buffer safe for the server goroutine to write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestHandlerLogsRequestID(t *testing.T) {
	var logs syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	client, _ := setupTestServer(t)

	req := connect.NewRequest(&AddBikeRequest{Make: "Trek", Model: "FX", HourlyRate: 7})
	req.Header().Set(middleware.ClerkHeader, "Maria")
	resp, err := client.AddBike(context.Background(), req)
	if err != nil {
		t.Fatalf("AddBike failed: %v", err)
	}
	requestID := resp.Header().Get(middleware.RequestIDHeader)
	if requestID == "" {
		t.Fatal("expected a request id header")
	}

	found := false
	for _, line := range logs.Lines() {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec["msg"] != "AddBike request received" {
			continue
		}
		found = true
		if rec["request_id"] != requestID {
			t.Errorf("request_id: expected %q, got %v", requestID, rec["request_id"])
		}
		if rec["clerk"] != "Maria" {
			t.Errorf("clerk: expected Maria, got %v", rec["clerk"])
		}
	}
	if !found {
		t.Error("expected an AddBike request log line")
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"bike not found", ledger.ErrBikeNotFound, connect.CodeNotFound},
		{"ticket not found", ledger.ErrTicketNotFound, connect.CodeNotFound},
		{"validation", ledger.ValidationError{Field: "make", Message: "is required"}, connect.CodeInvalidArgument},
		{"duplicate", ledger.ErrDuplicateBike, connect.CodeInvalidArgument},
		{"unavailable", ledger.ErrBikeUnavailable, connect.CodeFailedPrecondition},
		{"rented", ledger.ErrBikeRented, connect.CodeFailedPrecondition},
		{"closed", ledger.ErrTicketClosed, connect.CodeFailedPrecondition},
		{"ambiguous", ledger.AmbiguousReturnError{TicketIDs: []int{1, 2}}, connect.CodeFailedPrecondition},
		{"storage", errors.New("disk full"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(toConnectError("Test", tt.err)); got != tt.want {
				t.Errorf("code: expected %v, got %v", tt.want, got)
			}
		})
	}
}
