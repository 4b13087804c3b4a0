package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
)

// StripeWebhookVerifier checks Stripe-Signature headers against the endpoint secret
type StripeWebhookVerifier struct {
	secret string
}

// NewStripeWebhookVerifier creates a verifier for one endpoint secret
func NewStripeWebhookVerifier(secret string) *StripeWebhookVerifier {
	return &StripeWebhookVerifier{secret: secret}
}

// checkoutSessionPayload is the slice of a checkout session object the core reads.
// Expandable fields arrive as plain ids on webhook payloads.
type checkoutSessionPayload struct {
	ID          string            `json:"id"`
	Mode        string            `json:"mode"`
	Customer    string            `json:"customer"`
	SetupIntent string            `json:"setup_intent"`
	Metadata    map[string]string `json:"metadata"`
}

// ConstructEvent verifies the payload signature and decodes completed
// checkout sessions. Other event types are returned without a session.
func (v *StripeWebhookVerifier) ConstructEvent(payload []byte, signature string) (*gateways.WebhookEvent, error) {
	if v.secret == "" {
		return nil, domainerrors.Unauthorized("webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid webhook signature: %v", domainerrors.ErrUnauthorized, err)
	}

	out := &gateways.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return out, nil
	}
	if event.Data == nil {
		return nil, domainerrors.Validation("event %s has no data", event.ID)
	}

	var session checkoutSessionPayload
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, domainerrors.Validation("decode checkout session: %v", err)
	}
	out.CheckoutSession = &gateways.CompletedCheckoutSession{
		ID:            session.ID,
		Mode:          session.Mode,
		CustomerID:    session.Customer,
		SetupIntentID: session.SetupIntent,
		Metadata:      session.Metadata,
	}
	return out, nil
}

var _ gateways.WebhookVerifier = (*StripeWebhookVerifier)(nil)
