package gateways

import (
	"context"
)

// Onboarding requirement keys that ask for an identity document
const (
	RequirementIndividualDocument = "individual.verification.document"
	RequirementCompanyDocument    = "company.verification.document"
)

// CreateAccountParams describes a connected payout account to create
type CreateAccountParams struct {
	BusinessID   string
	BusinessType string
	Slug         string
	ProfileURL   string
}

// AccountLinkParams describes an onboarding link request
type AccountLinkParams struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}

// ProcessorAccount is the subset of a remote account the core reads
type ProcessorAccount struct {
	ID               string
	CurrentlyDue     []string
	DetailsSubmitted bool
	ChargesEnabled   bool
}

// CreateCustomerParams describes a processor customer to create
type CreateCustomerParams struct {
	Email  string
	UserID string
}

// CreateSetupSessionParams describes a hosted setup session
type CreateSetupSessionParams struct {
	CustomerID string
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// SetupSession is a created hosted session
type SetupSession struct {
	ID  string
	URL string
}

// PaymentProcessor is the remote payments API consumed by the core.
// Every failure is returned wrapped in domain ErrProvider.
type PaymentProcessor interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (string, error)
	CreateAccountLink(ctx context.Context, params AccountLinkParams) (string, error)
	GetAccount(ctx context.Context, accountID string) (*ProcessorAccount, error)
	DeleteAccount(ctx context.Context, accountID string) error

	CreateCustomer(ctx context.Context, params CreateCustomerParams) (string, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	SetDefaultPaymentMethodFromSetupIntent(ctx context.Context, customerID, setupIntentID string) error

	CreateSetupSession(ctx context.Context, params CreateSetupSessionParams) (*SetupSession, error)
}

// CompletedCheckoutSession carries the fields of a finished hosted session
type CompletedCheckoutSession struct {
	ID            string
	Mode          string
	CustomerID    string
	SetupIntentID string
	Metadata      map[string]string
}

// WebhookEvent is a verified processor event
type WebhookEvent struct {
	ID              string
	Type            string
	CheckoutSession *CompletedCheckoutSession
}

// WebhookVerifier checks a webhook signature and decodes the event
type WebhookVerifier interface {
	ConstructEvent(payload []byte, signature string) (*WebhookEvent, error)
}
