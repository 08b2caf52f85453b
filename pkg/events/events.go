// Package events defines the audit events emitted by action and dashboard handlers.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every audit event.
const Topic = "ikas.actions.audit"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ActionCompletedEvent EventType = "action.completed"
	ActionRejectedEvent  EventType = "action.rejected"
	OrderAccessedEvent   EventType = "order.accessed"
)

type BaseEvent struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	AuthorizedAppID string    `json:"authorized_app_id,omitempty"`
	MerchantID      string    `json:"merchant_id,omitempty"`
}

// NewBaseEvent stamps a new event with a random ID and the current time.
func NewBaseEvent(eventType EventType, authorizedAppID, merchantID string) BaseEvent {
	return BaseEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		Timestamp:       time.Now().UTC(),
		AuthorizedAppID: authorizedAppID,
		MerchantID:      merchantID,
	}
}

// ActionCompleted is emitted once an authenticated action finished its fetches.
type ActionCompleted struct {
	BaseEvent

	Action         string   `json:"action"`
	ActionRunID    string   `json:"action_run_id"`
	Locale         string   `json:"locale"`
	Requested      int      `json:"requested"`
	SuccessCount   int      `json:"success_count"`
	FailedOrderIDs []string `json:"failed_order_ids,omitempty"`
}

func (e ActionCompleted) GetType() EventType {
	return ActionCompletedEvent
}

// ActionRejected is emitted when an action request fails before or during the fetch.
type ActionRejected struct {
	BaseEvent

	Action      string `json:"action"`
	ActionRunID string `json:"action_run_id,omitempty"`
	Kind        string `json:"kind"`
	Status      int    `json:"status"`
	Reason      string `json:"reason"`
}

func (e ActionRejected) GetType() EventType {
	return ActionRejectedEvent
}

// OrderAccessed records a dashboard read of an order.
type OrderAccessed struct {
	BaseEvent

	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	Source      string `json:"source"`
}

func (e OrderAccessed) GetType() EventType {
	return OrderAccessedEvent
}
