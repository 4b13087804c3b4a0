package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PayoutAccountType is the legal shape of the business behind a payout account
type PayoutAccountType string

const (
	PayoutAccountTypeIndividual PayoutAccountType = "individual"
	PayoutAccountTypeCompany    PayoutAccountType = "company"
)

// IsValid reports whether t is a supported payout account type
func (t PayoutAccountType) IsValid() bool {
	return t == PayoutAccountTypeIndividual || t == PayoutAccountTypeCompany
}

// Business represents a local service business selling subscriptions.
// PayoutAccountID is set once by account provisioning and never overwritten.
type Business struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"userId"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	PayoutAccountID   null.String       `json:"payoutAccountId"`
	PayoutAccountType PayoutAccountType `json:"payoutAccountType"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// HasPayoutAccount reports whether a processor account is linked
func (b *Business) HasPayoutAccount() bool {
	return b.PayoutAccountID.Valid && b.PayoutAccountID.String != ""
}

// CreateBusinessInput represents input for business signup
type CreateBusinessInput struct {
	Name              string            `json:"name" binding:"required,min=2,max=255"`
	Slug              string            `json:"slug" binding:"required,min=2,max=100"`
	PayoutAccountType PayoutAccountType `json:"payoutAccountType" binding:"required"`
}

// OnboardingLinkInput carries the caller supplied onboarding redirect URLs
type OnboardingLinkInput struct {
	RefreshURL string `json:"refreshUrl" binding:"omitempty,url"`
	ReturnURL  string `json:"returnUrl" binding:"omitempty,url"`
}

// OnboardingLinkResponse is returned by account provisioning
type OnboardingLinkResponse struct {
	URL string `json:"url"`
}

// RequirementsResponse is returned by the compliance gate
type RequirementsResponse struct {
	NeedsID bool `json:"needsID"`
}
