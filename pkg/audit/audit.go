// Package audit records action and dashboard activity on the event bus and
// turns the consumed events into structured log records.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/ikas-actions/pkg/eventbus"
	"github.com/dukex/ikas-actions/pkg/events"
)

// Recorder publishes audit events. Publication failures are logged and
// never returned to the caller. A Recorder with a nil publisher drops events.
type Recorder struct {
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewRecorder(publisher eventbus.EventPublisher, logger *slog.Logger) *Recorder {
	return &Recorder{
		publisher: publisher,
		logger:    logger.With("module", "audit"),
	}
}

// Record publishes event keyed by key.
func (r *Recorder) Record(ctx context.Context, key string, event eventbus.Event) {
	if r == nil || r.publisher == nil {
		return
	}

	err := r.publisher.Publish(ctx, key, event)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to publish audit event",
			"event_type", event.GetType(), "key", key, "error", err)
	}
}

// LogSink writes consumed audit events to a logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "audit_sink")}
}

// Register subscribes the sink to every audit event type.
func (s *LogSink) Register(subscriber eventbus.EventSubscriber) error {
	for _, eventType := range []events.EventType{
		events.ActionCompletedEvent,
		events.ActionRejectedEvent,
		events.OrderAccessedEvent,
	} {
		if err := subscriber.Handle(eventType, s.Handle); err != nil {
			return fmt.Errorf("failed to register audit handler for %s: %w", eventType, err)
		}
	}

	return nil
}

// Handle logs one decoded event.
func (s *LogSink) Handle(ctx context.Context, event any) error {
	switch e := event.(type) {
	case *events.ActionCompleted:
		s.logger.InfoContext(ctx, "Action completed",
			"event_id", e.ID,
			"action", e.Action,
			"action_run_id", e.ActionRunID,
			"authorized_app_id", e.AuthorizedAppID,
			"merchant_id", e.MerchantID,
			"locale", e.Locale,
			"requested", e.Requested,
			"success_count", e.SuccessCount,
			"failed_order_ids", e.FailedOrderIDs,
		)
	case *events.ActionRejected:
		s.logger.WarnContext(ctx, "Action rejected",
			"event_id", e.ID,
			"action", e.Action,
			"action_run_id", e.ActionRunID,
			"authorized_app_id", e.AuthorizedAppID,
			"kind", e.Kind,
			"status", e.Status,
			"reason", e.Reason,
		)
	case *events.OrderAccessed:
		s.logger.InfoContext(ctx, "Order accessed",
			"event_id", e.ID,
			"order_id", e.OrderID,
			"order_number", e.OrderNumber,
			"merchant_id", e.MerchantID,
			"authorized_app_id", e.AuthorizedAppID,
			"source", e.Source,
			"timestamp", e.Timestamp,
		)
	default:
		return fmt.Errorf("unexpected audit event %T", event)
	}

	return nil
}
