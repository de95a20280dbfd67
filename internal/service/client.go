package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// RentalServiceClient calls a RentalService over Connect.
type RentalServiceClient struct {
	addBike           *connect.Client[AddBikeRequest, AddBikeResponse]
	removeBike        *connect.Client[RemoveBikeRequest, RemoveBikeResponse]
	updateBike        *connect.Client[UpdateBikeRequest, UpdateBikeResponse]
	listBikes         *connect.Client[ListBikesRequest, ListBikesResponse]
	createTicket      *connect.Client[CreateTicketRequest, CreateTicketResponse]
	closeTicket       *connect.Client[CloseTicketRequest, CloseTicketResponse]
	returnBike        *connect.Client[ReturnBikeRequest, ReturnBikeResponse]
	getTicket         *connect.Client[GetTicketRequest, GetTicketResponse]
	listTickets       *connect.Client[ListTicketsRequest, ListTicketsResponse]
	findActiveTickets *connect.Client[FindActiveTicketsRequest, FindActiveTicketsResponse]
	getReport         *connect.Client[GetReportRequest, GetReportResponse]
}

// NewRentalServiceClient constructs a client for the service at baseURL,
// for example http://localhost:8080.
func NewRentalServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RentalServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec)}, opts...)
	return &RentalServiceClient{
		addBike:           connect.NewClient[AddBikeRequest, AddBikeResponse](httpClient, baseURL+AddBikeProcedure, opts...),
		removeBike:        connect.NewClient[RemoveBikeRequest, RemoveBikeResponse](httpClient, baseURL+RemoveBikeProcedure, opts...),
		updateBike:        connect.NewClient[UpdateBikeRequest, UpdateBikeResponse](httpClient, baseURL+UpdateBikeProcedure, opts...),
		listBikes:         connect.NewClient[ListBikesRequest, ListBikesResponse](httpClient, baseURL+ListBikesProcedure, opts...),
		createTicket:      connect.NewClient[CreateTicketRequest, CreateTicketResponse](httpClient, baseURL+CreateTicketProcedure, opts...),
		closeTicket:       connect.NewClient[CloseTicketRequest, CloseTicketResponse](httpClient, baseURL+CloseTicketProcedure, opts...),
		returnBike:        connect.NewClient[ReturnBikeRequest, ReturnBikeResponse](httpClient, baseURL+ReturnBikeProcedure, opts...),
		getTicket:         connect.NewClient[GetTicketRequest, GetTicketResponse](httpClient, baseURL+GetTicketProcedure, opts...),
		listTickets:       connect.NewClient[ListTicketsRequest, ListTicketsResponse](httpClient, baseURL+ListTicketsProcedure, opts...),
		findActiveTickets: connect.NewClient[FindActiveTicketsRequest, FindActiveTicketsResponse](httpClient, baseURL+FindActiveTicketsProcedure, opts...),
		getReport:         connect.NewClient[GetReportRequest, GetReportResponse](httpClient, baseURL+GetReportProcedure, opts...),
	}
}

func (c *RentalServiceClient) AddBike(ctx context.Context, req *connect.Request[AddBikeRequest]) (*connect.Response[AddBikeResponse], error) {
	return c.addBike.CallUnary(ctx, req)
}

func (c *RentalServiceClient) RemoveBike(ctx context.Context, req *connect.Request[RemoveBikeRequest]) (*connect.Response[RemoveBikeResponse], error) {
	return c.removeBike.CallUnary(ctx, req)
}

func (c *RentalServiceClient) UpdateBike(ctx context.Context, req *connect.Request[UpdateBikeRequest]) (*connect.Response[UpdateBikeResponse], error) {
	return c.updateBike.CallUnary(ctx, req)
}

func (c *RentalServiceClient) ListBikes(ctx context.Context, req *connect.Request[ListBikesRequest]) (*connect.Response[ListBikesResponse], error) {
	return c.listBikes.CallUnary(ctx, req)
}

func (c *RentalServiceClient) CreateTicket(ctx context.Context, req *connect.Request[CreateTicketRequest]) (*connect.Response[CreateTicketResponse], error) {
	return c.createTicket.CallUnary(ctx, req)
}

func (c *RentalServiceClient) CloseTicket(ctx context.Context, req *connect.Request[CloseTicketRequest]) (*connect.Response[CloseTicketResponse], error) {
	return c.closeTicket.CallUnary(ctx, req)
}

func (c *RentalServiceClient) ReturnBike(ctx context.Context, req *connect.Request[ReturnBikeRequest]) (*connect.Response[ReturnBikeResponse], error) {
	return c.returnBike.CallUnary(ctx, req)
}

func (c *RentalServiceClient) GetTicket(ctx context.Context, req *connect.Request[GetTicketRequest]) (*connect.Response[GetTicketResponse], error) {
	return c.getTicket.CallUnary(ctx, req)
}

func (c *RentalServiceClient) ListTickets(ctx context.Context, req *connect.Request[ListTicketsRequest]) (*connect.Response[ListTicketsResponse], error) {
	return c.listTickets.CallUnary(ctx, req)
}

func (c *RentalServiceClient) FindActiveTickets(ctx context.Context, req *connect.Request[FindActiveTicketsRequest]) (*connect.Response[FindActiveTicketsResponse], error) {
	return c.findActiveTickets.CallUnary(ctx, req)
}

func (c *RentalServiceClient) GetReport(ctx context.Context, req *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error) {
	return c.getReport.CallUnary(ctx, req)
}
