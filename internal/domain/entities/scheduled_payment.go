package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ScheduledPayment records the recurring billing day of a purchase.
// Only ScheduledFor is ever mutated after creation.
type ScheduledPayment struct {
	ID           uuid.UUID  `json:"id"`
	PurchaseID   uuid.UUID  `json:"purchaseId"`
	ProductID    uuid.UUID  `json:"productId"`
	ScheduledFor BillingDay `json:"scheduledFor"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BillingInfo is the read model exposed for a scheduled payment.
// BusinessName is null when the owning business can no longer be resolved.
type BillingInfo struct {
	ProductName         string      `json:"product_name"`
	BusinessName        null.String `json:"business_name"`
	PreferredPaymentDay int         `json:"preferred_payment_day"`
}

// ChangeBillingDayInput is the request body for changing a purchase's billing day.
// Day is kept as a json.Number so fractional values reach validation instead of
// being truncated by the decoder.
type ChangeBillingDayInput struct {
	Day json.Number `json:"day" binding:"required"`
}
