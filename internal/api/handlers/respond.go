package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/api/middleware"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/service"
	"github.com/ekoelbar/barclient/pkg/errors"
)

// respondError maps service and backend errors onto HTTP responses. fallback
// is shown when the backend gave no usable message.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var (
		validationErr *errors.ErrValidation
		transitionErr *errors.ErrInvalidStateTransition
		actionErr     *service.ActionError
		apiErr        *barapi.APIError
	)

	switch {
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case stderrors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case stderrors.Is(err, service.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &actionErr):
		c.JSON(upstreamStatus(err), gin.H{"error": actionErr.Message})
	case stderrors.As(err, &apiErr):
		msg := barapi.ServerMessage(err)
		if msg == "" {
			msg = fallback
		}
		c.JSON(upstreamStatus(err), gin.H{"error": msg})
	default:
		logger.Error("Backend request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	}
}

// upstreamStatus passes backend 4xx answers through; anything else is the
// backend's fault
func upstreamStatus(err error) int {
	var apiErr *barapi.APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
