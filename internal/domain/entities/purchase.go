package entities

import (
	"time"

	"github.com/google/uuid"
)

// Purchase joins a user, a product and the business selling it. It is
// materialized once the processor confirms the setup session.
type Purchase struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"userId"`
	ProductID         uuid.UUID `json:"productId"`
	BusinessID        uuid.UUID `json:"businessId"`
	Reference         string    `json:"reference"`
	CheckoutSessionID string    `json:"checkoutSessionId"`
	CreatedAt         time.Time `json:"createdAt"`
}
