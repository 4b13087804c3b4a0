package entities

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainerrors "monthly-club.backend/internal/domain/errors"
)

// Metadata keys carried on setup sessions
const (
	MetadataUserID              = "user_id"
	MetadataCustomerID          = "customer_id"
	MetadataAccountID           = "account_id"
	MetadataProductID           = "product_id"
	MetadataReference           = "reference"
	MetadataPreferredPaymentDay = "preferred_payment_day"
)

// MaxReferenceLength matches the processor's metadata value limit
const MaxReferenceLength = 500

var metadataValidator = validator.New()

// SetupIntentMetadata is the purchase intent attached to a setup session and
// consumed by the setup-completion webhook. It is validated on both sides.
type SetupIntentMetadata struct {
	UserID              uuid.UUID `validate:"required"`
	CustomerID          string    `validate:"required"`
	AccountID           string    `validate:"required"`
	ProductID           uuid.UUID `validate:"required"`
	Reference           string    `validate:"max=500"`
	PreferredPaymentDay int       `validate:"min=1,max=28"`
}

// Validate checks the metadata schema
func (m *SetupIntentMetadata) Validate() error {
	if err := metadataValidator.Struct(m); err != nil {
		return domainerrors.Validation("invalid setup metadata: %v", err)
	}
	return nil
}

// ToMap flattens the metadata into processor string metadata
func (m *SetupIntentMetadata) ToMap() map[string]string {
	return map[string]string{
		MetadataUserID:              m.UserID.String(),
		MetadataCustomerID:          m.CustomerID,
		MetadataAccountID:           m.AccountID,
		MetadataProductID:           m.ProductID.String(),
		MetadataReference:           m.Reference,
		MetadataPreferredPaymentDay: strconv.Itoa(m.PreferredPaymentDay),
	}
}

// ParseSetupIntentMetadata rebuilds and validates metadata read back from the processor
func ParseSetupIntentMetadata(raw map[string]string) (*SetupIntentMetadata, error) {
	userID, err := uuid.Parse(raw[MetadataUserID])
	if err != nil {
		return nil, domainerrors.Validation("invalid setup metadata: %s: %v", MetadataUserID, err)
	}
	productID, err := uuid.Parse(raw[MetadataProductID])
	if err != nil {
		return nil, domainerrors.Validation("invalid setup metadata: %s: %v", MetadataProductID, err)
	}
	day, err := ParseBillingDay(raw[MetadataPreferredPaymentDay])
	if err != nil {
		return nil, err
	}

	m := &SetupIntentMetadata{
		UserID:              userID,
		CustomerID:          raw[MetadataCustomerID],
		AccountID:           raw[MetadataAccountID],
		ProductID:           productID,
		Reference:           raw[MetadataReference],
		PreferredPaymentDay: day.Int(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateSetupSessionInput is the request body for starting a setup session
type CreateSetupSessionInput struct {
	ProductID           uuid.UUID `json:"productId" binding:"required"`
	Reference           string    `json:"reference"`
	PreferredPaymentDay int       `json:"preferredPaymentDay" binding:"required"`
}

// SetupSessionResponse is returned after creating a setup session
type SetupSessionResponse struct {
	URL string `json:"url"`
}
