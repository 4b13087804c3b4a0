package gateways

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Billing event subjects
const (
	SubjectScheduledPaymentCreated    = "billing.scheduled_payment.created"
	SubjectScheduledPaymentDayChanged = "billing.scheduled_payment.day_changed"
)

// ScheduledPaymentEvent is published when a scheduled payment is created or its day changes
type ScheduledPaymentEvent struct {
	ScheduledPaymentID uuid.UUID `json:"scheduledPaymentId"`
	PurchaseID         uuid.UUID `json:"purchaseId"`
	ProductID          uuid.UUID `json:"productId"`
	UserID             uuid.UUID `json:"userId"`
	Day                int       `json:"day"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// EventPublisher emits domain events after state changes are committed
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
