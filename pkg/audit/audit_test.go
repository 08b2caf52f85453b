package audit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dukex/ikas-actions/pkg/events"
	"github.com/dukex/ikas-actions/pkg/mocks"
)

func TestRecorder_Record(t *testing.T) {
	bus := &mocks.MockEventBus{}
	event := events.OrderAccessed{BaseEvent: events.NewBaseEvent(events.OrderAccessedEvent, "app-1", "m-1"), OrderID: "o-1"}

	bus.On("Publish", mock.Anything, "app-1", event).Return(nil)

	NewRecorder(bus, slog.New(slog.NewTextHandler(io.Discard, nil))).Record(context.Background(), "app-1", event)

	bus.AssertExpectations(t)
}

func TestRecorder_RecordSwallowsFailures(t *testing.T) {
	var buf bytes.Buffer

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	recorder := NewRecorder(bus, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), "app-1", events.ActionRejected{})
	})
	assert.Contains(t, buf.String(), "Failed to publish audit event")
	assert.Contains(t, buf.String(), "broker down")
}

func TestRecorder_NilPublisher(t *testing.T) {
	recorder := NewRecorder(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), "app-1", events.ActionRejected{})
	})

	var nilRecorder *Recorder

	assert.NotPanics(t, func() {
		nilRecorder.Record(context.Background(), "app-1", events.ActionRejected{})
	})
}

func TestLogSink_Register(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Handle", events.ActionCompletedEvent, mock.Anything).Return(nil)
	bus.On("Handle", events.ActionRejectedEvent, mock.Anything).Return(nil)
	bus.On("Handle", events.OrderAccessedEvent, mock.Anything).Return(nil)

	require.NoError(t, NewLogSink(slog.New(slog.NewTextHandler(io.Discard, nil))).Register(bus))

	bus.AssertExpectations(t)
}

func TestLogSink_Handle(t *testing.T) {
	var buf bytes.Buffer

	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	require.NoError(t, sink.Handle(ctx, &events.ActionCompleted{Action: "order-list", ActionRunID: "run-1", SuccessCount: 2}))
	require.NoError(t, sink.Handle(ctx, &events.ActionRejected{Action: "order-detail", Kind: "unauthorized", Status: 401}))
	require.NoError(t, sink.Handle(ctx, &events.OrderAccessed{OrderID: "order-1", Source: "dashboard"}))

	output := buf.String()
	assert.Contains(t, output, "Action completed")
	assert.Contains(t, output, "action_run_id=run-1")
	assert.Contains(t, output, "Action rejected")
	assert.Contains(t, output, "status=401")
	assert.Contains(t, output, "Order accessed")
	assert.Contains(t, output, "order_id=order-1")

	assert.Error(t, sink.Handle(ctx, "not an event"))
}
