package audit

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes events to the structured log
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

func (s *LogSink) Record(_ context.Context, event Event) {
	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("type", event.Type),
		zap.Time("created_at", event.CreatedAt),
	}
	if event.OrderID != 0 {
		fields = append(fields, zap.Int64("order_id", event.OrderID))
	}
	if event.ReservationID != 0 {
		fields = append(fields, zap.Int64("reservation_id", event.ReservationID))
	}
	if len(event.Data) > 0 {
		fields = append(fields, zap.Any("data", event.Data))
	}
	s.logger.Info("Audit event", fields...)
}
