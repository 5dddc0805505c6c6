package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekoelbar/barclient/internal/config"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestLogSink_Record(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	event := NewEvent(EventStatusChange, map[string]interface{}{"from": "CREATED", "to": "CONFIRMED"})
	event.OrderID = 42
	sink.Record(context.Background(), event)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Audit event", entry.Message)
	assert.Equal(t, "audit", entry.LoggerName)
	assert.Equal(t, int64(42), entry.ContextMap()["order_id"])
	assert.Equal(t, EventStatusChange, entry.ContextMap()["type"])
}

func TestKafkaSink_Record(t *testing.T) {
	w := &fakeWriter{}
	sink := newKafkaSink(w, zap.NewNop())

	event := NewEvent(EventOrderCreated, nil)
	event.OrderID = 9
	sink.Record(context.Background(), event)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-9", string(w.msgs[0].Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, EventOrderCreated, decoded.Type)
}

func TestKafkaSink_WriteFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sink := newKafkaSink(&fakeWriter{err: errors.New("broker down")}, zap.New(core))

	sink.Record(context.Background(), NewEvent(EventReservationCreated, nil))

	assert.Equal(t, 1, logs.FilterMessage("Failed to publish audit event").Len())
}

func TestNewKafkaSink_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaSink(config.KafkaConfig{Topic: "audit"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPartitionKey(t *testing.T) {
	e := NewEvent(EventReservationCreated, nil)
	e.ReservationID = 3
	assert.Equal(t, "reservation-3", partitionKey(e))

	e = NewEvent(EventContactSent, nil)
	assert.Equal(t, e.ID.String(), partitionKey(e))
}
