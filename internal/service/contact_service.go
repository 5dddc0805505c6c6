package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/validation"
	"github.com/ekoelbar/barclient/pkg/errors"
)

// ContactSuccessDelay is how long the thank-you banner is shown
const ContactSuccessDelay = 5 * time.Second

// ContactAPI sends contact page messages to the bar
type ContactAPI interface {
	SendContactMessage(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error)
}

// ContactForm holds what the visitor typed
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactState is a copy of what the contact page renders
type ContactState struct {
	Form       ContactForm `json:"form"`
	Submitting bool        `json:"submitting"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
}

// ContactService backs the contact form
type ContactService struct {
	api    ContactAPI
	sink   audit.Sink
	logger *zap.Logger

	mu         sync.Mutex
	form       ContactForm
	submitting bool
	success    bool
	errMsg     string
	dismiss    dismissal
	generation uint64
	shutdown   bool
}

// NewContactService creates a new contact service
func NewContactService(api ContactAPI, sink audit.Sink, sched Scheduler, logger *zap.Logger) *ContactService {
	return &ContactService{
		api:     api,
		sink:    sink,
		logger:  logger,
		dismiss: dismissal{sched: sched},
	}
}

func (s *ContactService) State() ContactState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ContactState{
		Form:       s.form,
		Submitting: s.submitting,
		Success:    s.success,
		Error:      s.errMsg,
	}
}

func (s *ContactService) SetForm(form ContactForm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = form
}

// Submit validates and sends the form. The form is cleared only when the
// message was accepted.
func (s *ContactService) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	if err := validateContactForm(s.form); err != nil {
		s.errMsg = err.Message
		s.mu.Unlock()
		return err
	}

	msg := domain.ContactMessage{
		Name:    s.form.Name,
		Email:   s.form.Email,
		Subject: s.form.Subject,
		Message: s.form.Message,
	}
	s.submitting = true
	s.errMsg = ""
	s.mu.Unlock()

	_, err := s.api.SendContactMessage(ctx, msg)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.logger.Error("Failed to send contact message", zap.Error(err))
		actionErr := &ActionError{Message: "Der opstod en fejl. Prøv igen senere.", Err: err}
		s.errMsg = actionErr.Message
		s.mu.Unlock()
		return actionErr
	}

	s.form = ContactForm{}
	s.success = true
	s.generation++
	gen := s.generation
	s.dismiss.arm(ContactSuccessDelay, func() { s.clearSuccess(gen) })
	s.mu.Unlock()

	s.sink.Record(ctx, audit.NewEvent(audit.EventContactSent, map[string]interface{}{
		"subject": msg.Subject,
	}))
	return nil
}

// Shutdown cancels a pending banner dismissal
func (s *ContactService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdown = true
	s.dismiss.cancel()
}

func (s *ContactService) clearSuccess(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown || gen != s.generation {
		return
	}
	s.dismiss.timer = nil
	s.success = false
}

func validateContactForm(form ContactForm) *errors.ErrValidation {
	if res := validation.Name(&form.Name); !res.Valid {
		return &errors.ErrValidation{Field: "name", Message: res.Error}
	}
	if res := validation.Email(&form.Email); !res.Valid {
		return &errors.ErrValidation{Field: "email", Message: res.Error}
	}
	if res := validation.Message(&form.Message); !res.Valid {
		return &errors.ErrValidation{Field: "message", Message: res.Error}
	}
	return nil
}
