package barapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ekoelbar/barclient/internal/domain"
)

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	CustomerAge    int  `json:"customerAge"`
	HasStudentCard bool `json:"hasStudentCard"`
}

// AddBeerRequest is the body of POST /api/orders/{id}/items
type AddBeerRequest struct {
	BeerID   int64 `json:"beerId"`
	Quantity int   `json:"quantity"`
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/status/"+string(status), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/lines", orderID), nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) AddBeerToOrder(ctx context.Context, orderID int64, req AddBeerRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/items", orderID), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.orderAction(ctx, id, "confirm")
}

func (c *Client) PayOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.orderAction(ctx, id, "pay")
}

func (c *Client) CompleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.orderAction(ctx, id, "complete")
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.orderAction(ctx, id, "cancel")
}

func (c *Client) orderAction(ctx context.Context, id int64, action string) (*domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/api/orders/%d/%s", id, action)
	if err := c.do(ctx, http.MethodPut, path, struct{}{}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
