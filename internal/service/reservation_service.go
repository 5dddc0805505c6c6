package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/validation"
	"github.com/ekoelbar/barclient/pkg/errors"
)

// ReservationSuccessDelay is how long the success banner stays before the
// form resets and closes
const ReservationSuccessDelay = 2 * time.Second

// ReservationAPI is the part of the bar backend quick reservations need
type ReservationAPI interface {
	GetAvailableSpots(ctx context.Context, eventID int64) (int, error)
	CreateReservation(ctx context.Context, req barapi.CreateReservationRequest) (*domain.Reservation, error)
}

// ReservationForm holds what the customer typed. Guests is nil when the field
// is empty or not a number.
type ReservationForm struct {
	Name   string   `json:"customerName"`
	Email  string   `json:"customerEmail"`
	Guests *float64 `json:"numberOfGuests"`
}

func emptyReservationForm() ReservationForm {
	return ReservationForm{Guests: validation.Int(1)}
}

// ReservationHooks are called after the form closes. Both are optional.
type ReservationHooks struct {
	OnSuccess func(*domain.Reservation)
	OnCancel  func()
}

// ReservationState is a copy of what the quick reservation widget renders
type ReservationState struct {
	EventID        int64               `json:"eventId"`
	Open           bool                `json:"open"`
	Form           ReservationForm     `json:"form"`
	AvailableSpots int                 `json:"availableSpots"`
	Submitting     bool                `json:"submitting"`
	Success        bool                `json:"success"`
	Error          string              `json:"error,omitempty"`
	Reservation    *domain.Reservation `json:"reservation,omitempty"`
}

// ReservationService is the quick reservation widget of a single event
type ReservationService struct {
	api    ReservationAPI
	sink   audit.Sink
	hooks  ReservationHooks
	logger *zap.Logger

	mu          sync.Mutex
	eventID     int64
	open        bool
	form        ReservationForm
	spots       int
	submitting  bool
	success     bool
	errMsg      string
	reservation *domain.Reservation
	dismiss     dismissal
	generation  uint64
	shutdown    bool
}

// NewReservationService creates a new reservation service
func NewReservationService(api ReservationAPI, sink audit.Sink, sched Scheduler, hooks ReservationHooks, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		api:     api,
		sink:    sink,
		hooks:   hooks,
		logger:  logger,
		form:    emptyReservationForm(),
		dismiss: dismissal{sched: sched},
	}
}

// State returns a snapshot for rendering
func (s *ReservationService) State() ReservationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := ReservationState{
		EventID:        s.eventID,
		Open:           s.open,
		Form:           s.form,
		AvailableSpots: s.spots,
		Submitting:     s.submitting,
		Success:        s.success,
		Error:          s.errMsg,
	}
	if s.form.Guests != nil {
		g := *s.form.Guests
		st.Form.Guests = &g
	}
	if s.reservation != nil {
		r := *s.reservation
		st.Reservation = &r
	}
	return st
}

// SetEvent points the widget at an event and refreshes its free spots
func (s *ReservationService) SetEvent(ctx context.Context, eventID int64) {
	s.mu.Lock()
	s.eventID = eventID
	s.mu.Unlock()

	s.loadAvailableSpots(ctx)
}

// Open shows the form and refreshes the free spots
func (s *ReservationService) Open(ctx context.Context) {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()

	s.loadAvailableSpots(ctx)
}

// Close hides and resets the form and reports a cancel
func (s *ReservationService) Close() {
	s.mu.Lock()
	s.closeLocked()
	s.mu.Unlock()

	if s.hooks.OnCancel != nil {
		s.hooks.OnCancel()
	}
}

// SetForm replaces the form values. The last error is kept until the next
// submit.
func (s *ReservationService) SetForm(form ReservationForm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = form
}

// Submit validates the form and creates the reservation. While one submit is
// running any other returns ErrSubmitInProgress without touching the network.
func (s *ReservationService) Submit(ctx context.Context) (*domain.Reservation, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if err := validateReservationForm(s.form); err != nil {
		s.errMsg = err.Message
		s.mu.Unlock()
		return nil, err
	}

	req := barapi.CreateReservationRequest{
		EventID:        s.eventID,
		CustomerName:   strings.TrimSpace(s.form.Name),
		CustomerEmail:  strings.TrimSpace(s.form.Email),
		NumberOfGuests: int(*s.form.Guests),
	}
	s.submitting = true
	s.errMsg = ""
	s.mu.Unlock()

	reservation, err := s.api.CreateReservation(ctx, req)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.logger.Error("Failed to create reservation", zap.Int64("event_id", req.EventID), zap.Error(err))
		actionErr := newActionError(err, "Kunne ikke oprette reservation. Prøv igen.")
		s.errMsg = actionErr.Message
		s.mu.Unlock()
		return nil, actionErr
	}

	s.success = true
	s.reservation = reservation
	s.generation++
	gen := s.generation
	s.dismiss.arm(ReservationSuccessDelay, func() { s.finishSuccess(gen, reservation) })
	s.mu.Unlock()

	event := audit.NewEvent(audit.EventReservationCreated, map[string]interface{}{
		"event_id":         req.EventID,
		"number_of_guests": req.NumberOfGuests,
		"status":           reservation.Status,
	})
	event.ReservationID = reservation.ID
	s.sink.Record(ctx, event)

	return reservation, nil
}

// Shutdown cancels a pending success dismissal. Callbacks that already fired
// become no-ops.
func (s *ReservationService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdown = true
	s.dismiss.cancel()
}

func (s *ReservationService) finishSuccess(gen uint64, reservation *domain.Reservation) {
	s.mu.Lock()
	if s.shutdown || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.dismiss.timer = nil
	s.closeLocked()
	s.success = false
	s.mu.Unlock()

	if s.hooks.OnSuccess != nil {
		s.hooks.OnSuccess(reservation)
	}
}

func (s *ReservationService) closeLocked() {
	s.open = false
	s.form = emptyReservationForm()
	s.errMsg = ""
}

func (s *ReservationService) loadAvailableSpots(ctx context.Context) {
	s.mu.Lock()
	eventID := s.eventID
	s.mu.Unlock()

	if eventID == 0 {
		return
	}

	spots, err := s.api.GetAvailableSpots(ctx, eventID)
	if err != nil {
		s.logger.Warn("Failed to load available spots", zap.Int64("event_id", eventID), zap.Error(err))
		spots = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eventID == eventID {
		s.spots = spots
	}
}

func validateReservationForm(form ReservationForm) *errors.ErrValidation {
	if res := validation.Name(&form.Name); !res.Valid {
		return &errors.ErrValidation{Field: "customerName", Message: res.Error}
	}
	if res := validation.Email(&form.Email); !res.Valid {
		return &errors.ErrValidation{Field: "customerEmail", Message: res.Error}
	}
	if res := validation.GuestCount(form.Guests); !res.Valid {
		return &errors.ErrValidation{Field: "numberOfGuests", Message: res.Error}
	}
	return nil
}
