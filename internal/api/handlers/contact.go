package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/service"
)

// ContactForm is the contact page
type ContactForm interface {
	State() service.ContactState
	SetForm(form service.ContactForm)
	Submit(ctx context.Context) error
}

// HandleGetContact handles GET /api/contact
func HandleGetContact(contact ContactForm) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, contact.State())
	}
}

// HandleSendContact handles POST /api/contact
func HandleSendContact(contact ContactForm, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ContactForm
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		contact.SetForm(req)
		if err := contact.Submit(c.Request.Context()); err != nil {
			respondError(c, logger, err, "Der opstod en fejl. Prøv igen senere.")
			return
		}

		c.JSON(http.StatusCreated, contact.State())
	}
}
