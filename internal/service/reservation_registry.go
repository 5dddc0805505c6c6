package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/domain"
)

// ReservationRegistry keeps one quick reservation widget per event
type ReservationRegistry struct {
	api    ReservationAPI
	sink   audit.Sink
	sched  Scheduler
	logger *zap.Logger

	mu      sync.Mutex
	widgets map[int64]*ReservationService
}

func NewReservationRegistry(api ReservationAPI, sink audit.Sink, sched Scheduler, logger *zap.Logger) *ReservationRegistry {
	return &ReservationRegistry{
		api:     api,
		sink:    sink,
		sched:   sched,
		logger:  logger,
		widgets: make(map[int64]*ReservationService),
	}
}

// Get returns the widget for eventID, creating it and loading its free spots
// on first use
func (r *ReservationRegistry) Get(ctx context.Context, eventID int64) *ReservationService {
	r.mu.Lock()
	if w, ok := r.widgets[eventID]; ok {
		r.mu.Unlock()
		return w
	}

	var w *ReservationService
	w = NewReservationService(r.api, r.sink, r.sched, ReservationHooks{
		OnSuccess: func(res *domain.Reservation) {
			r.logger.Info("Reservation completed",
				zap.Int64("event_id", eventID),
				zap.Int64("reservation_id", res.ID),
			)
			// capacity changed; show the new figure next time
			w.SetEvent(context.Background(), eventID)
		},
	}, r.logger.With(zap.Int64("event_id", eventID)))
	r.widgets[eventID] = w
	r.mu.Unlock()

	w.SetEvent(ctx, eventID)
	return w
}

// Shutdown cancels every pending dismissal
func (r *ReservationRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.widgets {
		w.Shutdown()
	}
}
