package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/config"
)

// messageWriter is the part of *kafka.Writer the sink needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON to a topic, keyed by order or
// reservation id so one order's events stay on one partition.
type KafkaSink struct {
	writer  messageWriter
	logger  *zap.Logger
	timeout time.Duration
}

func NewKafkaSink(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    1,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn("kafka writer error", zap.String("detail", fmt.Sprintf(msg, args...)))
		}),
	}

	return newKafkaSink(writer, logger), nil
}

func newKafkaSink(writer messageWriter, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{
		writer:  writer,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

func (s *KafkaSink) Record(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode audit event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(partitionKey(event)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("Failed to publish audit event", zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func partitionKey(event Event) string {
	switch {
	case event.OrderID != 0:
		return "order-" + strconv.FormatInt(event.OrderID, 10)
	case event.ReservationID != 0:
		return "reservation-" + strconv.FormatInt(event.ReservationID, 10)
	default:
		return event.ID.String()
	}
}
