package barapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ekoelbar/barclient/internal/domain"
)

// CreateReservationRequest is the body of POST /api/reservations
type CreateReservationRequest struct {
	EventID        int64  `json:"eventId"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	NumberOfGuests int    `json:"numberOfGuests"`
}

type availableSpotsResponse struct {
	AvailableSpots int `json:"availableSpots"`
}

func (c *Client) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/reservations/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReservationsByEvent(ctx context.Context, eventID int64) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/reservations/event/%d", eventID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListReservationsByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations/status/"+string(status), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAvailableSpots returns how many guests can still book the event
func (c *Client) GetAvailableSpots(ctx context.Context, eventID int64) (int, error) {
	var out availableSpotsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/reservations/event/%d/available", eventID), nil, &out); err != nil {
		return 0, err
	}
	return out.AvailableSpots, nil
}

func (c *Client) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/reservations/%d/confirm", id), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/reservations/%d/cancel", id), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
