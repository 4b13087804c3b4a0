package entities

import (
	"time"

	"github.com/google/uuid"
)

// CustomerPaymentProfile maps a user to their processor-side customer record.
// At most one exists per user.
type CustomerPaymentProfile struct {
	UserID              uuid.UUID `json:"userId"`
	ProcessorCustomerID string    `json:"processorCustomerId"`
	CreatedAt           time.Time `json:"createdAt"`
}
