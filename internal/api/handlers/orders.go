package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/service"
)

// OrderWorkflow is the customer's order page
type OrderWorkflow interface {
	State() service.OrderState
	Reset()
	CreateOrder(ctx context.Context, age *float64, hasStudentCard bool) error
	AddItem(ctx context.Context, beerID int64, quantity *float64) error
	Confirm(ctx context.Context) error
	Pay(ctx context.Context) error
	Complete(ctx context.Context) error
	Cancel(ctx context.Context) error
}

// CreateOrderRequest represents the create order form. The age is a number
// so the form's own checks can reject fractions and blanks.
type CreateOrderRequest struct {
	CustomerAge    *float64 `json:"customerAge"`
	HasStudentCard bool     `json:"hasStudentCard"`
}

// AddOrderItemRequest represents adding a beer to the current order
type AddOrderItemRequest struct {
	BeerID   int64    `json:"beerId" binding:"required"`
	Quantity *float64 `json:"quantity"`
}

// HandleGetOrder handles GET /api/order
func HandleGetOrder(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, orders.State())
	}
}

// HandleCreateOrder handles POST /api/order
func HandleCreateOrder(orders OrderWorkflow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// an empty body is an empty form, so the age check explains what is missing
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
			bindError(c, err)
			return
		}

		if err := orders.CreateOrder(c.Request.Context(), req.CustomerAge, req.HasStudentCard); err != nil {
			respondError(c, logger, err, "Kunne ikke oprette ordre")
			return
		}

		c.JSON(http.StatusCreated, orders.State())
	}
}

// HandleAddOrderItem handles POST /api/order/items
func HandleAddOrderItem(orders OrderWorkflow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddOrderItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		if err := orders.AddItem(c.Request.Context(), req.BeerID, req.Quantity); err != nil {
			respondError(c, logger, err, "Kunne ikke tilføje øl")
			return
		}

		c.JSON(http.StatusOK, orders.State())
	}
}

// HandleOrderAction handles POST /api/order/{confirm,pay,complete,cancel}
func HandleOrderAction(orders OrderWorkflow, action string, logger *zap.Logger) gin.HandlerFunc {
	var run func(ctx context.Context) error
	switch action {
	case "confirm":
		run = orders.Confirm
	case "pay":
		run = orders.Pay
	case "complete":
		run = orders.Complete
	case "cancel":
		run = orders.Cancel
	default:
		panic("unknown order action " + action)
	}

	return func(c *gin.Context) {
		if err := run(c.Request.Context()); err != nil {
			respondError(c, logger, err, "Kunne ikke opdatere ordre")
			return
		}

		c.JSON(http.StatusOK, orders.State())
	}
}

// HandleResetOrder handles DELETE /api/order. Responses still in flight for
// the old order are ignored.
func HandleResetOrder(orders OrderWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders.Reset()
		c.JSON(http.StatusOK, orders.State())
	}
}
