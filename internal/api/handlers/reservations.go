package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/service"
)

// QuickReservationRequest represents the quick reservation form
type QuickReservationRequest struct {
	CustomerName   string   `json:"customerName"`
	CustomerEmail  string   `json:"customerEmail"`
	NumberOfGuests *float64 `json:"numberOfGuests"`
}

// HandleGetReservationWidget handles GET /api/events/:id/reservation
func HandleGetReservationWidget(registry *service.ReservationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseID(c, "id")
		if !ok {
			return
		}

		c.JSON(http.StatusOK, registry.Get(c.Request.Context(), eventID).State())
	}
}

// HandleOpenReservation handles POST /api/events/:id/reservation/open
func HandleOpenReservation(registry *service.ReservationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseID(c, "id")
		if !ok {
			return
		}

		widget := registry.Get(c.Request.Context(), eventID)
		widget.Open(c.Request.Context())
		c.JSON(http.StatusOK, widget.State())
	}
}

// HandleCloseReservation handles POST /api/events/:id/reservation/close
func HandleCloseReservation(registry *service.ReservationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseID(c, "id")
		if !ok {
			return
		}

		widget := registry.Get(c.Request.Context(), eventID)
		widget.Close()
		c.JSON(http.StatusOK, widget.State())
	}
}

// HandleSubmitReservation handles POST /api/events/:id/reservation
func HandleSubmitReservation(registry *service.ReservationRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req QuickReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		widget := registry.Get(c.Request.Context(), eventID)
		widget.SetForm(service.ReservationForm{
			Name:   req.CustomerName,
			Email:  req.CustomerEmail,
			Guests: req.NumberOfGuests,
		})

		reservation, err := widget.Submit(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "Kunne ikke oprette reservation. Prøv igen.")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"reservation": reservation,
			"widget":      widget.State(),
		})
	}
}
