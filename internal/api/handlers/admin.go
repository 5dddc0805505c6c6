package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/pkg/errors"
)

// StaffAPI is what bar staff can do through the backend
type StaffAPI interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	ListReservationsByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	ListReservationsByEvent(ctx context.Context, eventID int64) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error)
}

// HandleListOrders handles GET /api/staff/orders[?status=]
func HandleListOrders(staff StaffAPI, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			orders []domain.Order
			err    error
		)
		if s := c.Query("status"); s != "" {
			status := domain.OrderStatus(strings.ToUpper(s))
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			orders, err = staff.ListOrdersByStatus(c.Request.Context(), status)
		} else {
			orders, err = staff.ListOrders(c.Request.Context())
		}
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente ordrer")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"count":  len(orders),
		})
	}
}

// HandleListReservations handles GET /api/staff/reservations[?status=|?eventId=]
func HandleListReservations(staff StaffAPI, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			reservations []domain.Reservation
			err          error
		)
		switch {
		case c.Query("status") != "":
			status := domain.ReservationStatus(strings.ToUpper(c.Query("status")))
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			reservations, err = staff.ListReservationsByStatus(ctx, status)
		case c.Query("eventId") != "":
			eventID, pErr := strconv.ParseInt(c.Query("eventId"), 10, 64)
			if pErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid eventId"})
				return
			}
			reservations, err = staff.ListReservationsByEvent(ctx, eventID)
		default:
			reservations, err = staff.ListReservations(ctx)
		}
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente reservationer")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reservations": reservations,
			"count":        len(reservations),
		})
	}
}

// HandleConfirmReservation handles POST /api/staff/reservations/:id/confirm
func HandleConfirmReservation(staff StaffAPI, sink audit.Sink, logger *zap.Logger) gin.HandlerFunc {
	return reservationAction(staff, sink, logger, domain.ReservationStatusConfirmed, "confirm",
		staff.ConfirmReservation, "Kunne ikke bekræfte reservation")
}

// HandleCancelReservation handles POST /api/staff/reservations/:id/cancel
func HandleCancelReservation(staff StaffAPI, sink audit.Sink, logger *zap.Logger) gin.HandlerFunc {
	return reservationAction(staff, sink, logger, domain.ReservationStatusCancelled, "cancel",
		staff.CancelReservation, "Kunne ikke annullere reservation")
}

func reservationAction(
	staff StaffAPI,
	sink audit.Sink,
	logger *zap.Logger,
	target domain.ReservationStatus,
	action string,
	call func(ctx context.Context, id int64) (*domain.Reservation, error),
	fallback string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		current, err := staff.GetReservation(ctx, id)
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente reservation")
			return
		}

		if !current.Status.CanTransitionTo(target) {
			respondError(c, logger, &errors.ErrInvalidStateTransition{
				From: string(current.Status),
				To:   action,
			}, fallback)
			return
		}

		updated, err := call(ctx, id)
		if err != nil {
			respondError(c, logger, err, fallback)
			return
		}

		event := audit.NewEvent(audit.EventStatusChange, map[string]interface{}{
			"from": current.Status,
			"to":   updated.Status,
		})
		event.ReservationID = id
		sink.Record(ctx, event)

		c.JSON(http.StatusOK, updated)
	}
}
