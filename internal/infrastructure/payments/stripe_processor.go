package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"monthly-club.backend/internal/config"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/pkg/metrics"
)

// Processor operation labels
const (
	opCreateAccount      = "create_account"
	opCreateAccountLink  = "create_account_link"
	opGetAccount         = "get_account"
	opDeleteAccount      = "delete_account"
	opCreateCustomer     = "create_customer"
	opDeleteCustomer     = "delete_customer"
	opSetDefaultPM       = "set_default_payment_method"
	opCreateSetupSession = "create_setup_session"
)

// StripeProcessor implements gateways.PaymentProcessor on the Stripe API
type StripeProcessor struct {
	api     *client.API
	country string
}

// NewStripeProcessor creates a Stripe-backed processor. A non-empty APIURL
// points every call at that endpoint instead of api.stripe.com.
func NewStripeProcessor(cfg config.StripeConfig) *StripeProcessor {
	var backends *stripe.Backends
	if cfg.APIURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.APIURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	country := cfg.AccountCountry
	if country == "" {
		country = "US"
	}
	return &StripeProcessor{api: api, country: country}
}

// CreateAccount creates an Express connected account for a business
func (p *StripeProcessor) CreateAccount(ctx context.Context, in gateways.CreateAccountParams) (id string, err error) {
	defer observe(opCreateAccount, time.Now(), &err)

	params := &stripe.AccountParams{
		Type:         stripe.String(string(stripe.AccountTypeExpress)),
		Country:      stripe.String(p.country),
		BusinessType: stripe.String(in.BusinessType),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
		},
	}
	if in.ProfileURL != "" {
		params.BusinessProfile = &stripe.AccountBusinessProfileParams{URL: stripe.String(in.ProfileURL)}
	}
	params.Context = ctx
	params.AddMetadata("business_id", in.BusinessID)
	params.AddMetadata("slug", in.Slug)

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		return "", providerErr("create account", err)
	}
	return acct.ID, nil
}

// CreateAccountLink creates a one-time onboarding link for an account
func (p *StripeProcessor) CreateAccountLink(ctx context.Context, in gateways.AccountLinkParams) (url string, err error) {
	defer observe(opCreateAccountLink, time.Now(), &err)

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(in.AccountID),
		RefreshURL: stripe.String(in.RefreshURL),
		ReturnURL:  stripe.String(in.ReturnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", providerErr("create account link", err)
	}
	return link.URL, nil
}

// GetAccount retrieves an account and its outstanding requirements
func (p *StripeProcessor) GetAccount(ctx context.Context, accountID string) (out *gateways.ProcessorAccount, err error) {
	defer observe(opGetAccount, time.Now(), &err)

	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, providerErr("get account", err)
	}

	out = &gateways.ProcessorAccount{
		ID:               acct.ID,
		DetailsSubmitted: acct.DetailsSubmitted,
		ChargesEnabled:   acct.ChargesEnabled,
	}
	if acct.Requirements != nil {
		out.CurrentlyDue = append([]string(nil), acct.Requirements.CurrentlyDue...)
	}
	return out, nil
}

// DeleteAccount removes an account. An account that is already gone counts as deleted.
func (p *StripeProcessor) DeleteAccount(ctx context.Context, accountID string) (err error) {
	defer observe(opDeleteAccount, time.Now(), &err)

	params := &stripe.AccountParams{}
	params.Context = ctx

	if _, err = p.api.Accounts.Del(accountID, params); err != nil {
		if isResourceMissing(err) {
			return nil
		}
		return providerErr("delete account", err)
	}
	return nil
}

// CreateCustomer creates a platform customer for a user
func (p *StripeProcessor) CreateCustomer(ctx context.Context, in gateways.CreateCustomerParams) (id string, err error) {
	defer observe(opCreateCustomer, time.Now(), &err)

	params := &stripe.CustomerParams{}
	if in.Email != "" {
		params.Email = stripe.String(in.Email)
	}
	params.Context = ctx
	params.AddMetadata("user_id", in.UserID)

	cust, err := p.api.Customers.New(params)
	if err != nil {
		return "", providerErr("create customer", err)
	}
	return cust.ID, nil
}

// DeleteCustomer removes a customer. A customer that is already gone counts as deleted.
func (p *StripeProcessor) DeleteCustomer(ctx context.Context, customerID string) (err error) {
	defer observe(opDeleteCustomer, time.Now(), &err)

	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err = p.api.Customers.Del(customerID, params); err != nil {
		if isResourceMissing(err) {
			return nil
		}
		return providerErr("delete customer", err)
	}
	return nil
}

// SetDefaultPaymentMethodFromSetupIntent reads the payment method captured by
// a setup intent and makes it the customer's invoice default.
func (p *StripeProcessor) SetDefaultPaymentMethodFromSetupIntent(ctx context.Context, customerID, setupIntentID string) (err error) {
	defer observe(opSetDefaultPM, time.Now(), &err)

	siParams := &stripe.SetupIntentParams{}
	siParams.Context = ctx
	si, err := p.api.SetupIntents.Get(setupIntentID, siParams)
	if err != nil {
		return providerErr("get setup intent", err)
	}
	if si.PaymentMethod == nil || si.PaymentMethod.ID == "" {
		return fmt.Errorf("%w: setup intent %s has no payment method", domainerrors.ErrProvider, setupIntentID)
	}

	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(si.PaymentMethod.ID),
		},
	}
	params.Context = ctx
	if _, err = p.api.Customers.Update(customerID, params); err != nil {
		return providerErr("set default payment method", err)
	}
	return nil
}

// CreateSetupSession creates a hosted checkout session in setup mode. The
// metadata is attached to both the session and the setup intent it creates.
func (p *StripeProcessor) CreateSetupSession(ctx context.Context, in gateways.CreateSetupSessionParams) (out *gateways.SetupSession, err error) {
	defer observe(opCreateSetupSession, time.Now(), &err)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSetup)),
		Customer:   stripe.String(in.CustomerID),
		Currency:   stripe.String(in.Currency),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		SetupIntentData: &stripe.CheckoutSessionSetupIntentDataParams{
			Metadata: make(map[string]string, len(in.Metadata)),
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
		params.SetupIntentData.Metadata[k] = v
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerErr("create setup session", err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("%w: setup session %s has no url", domainerrors.ErrProvider, sess.ID)
	}
	return &gateways.SetupSession{ID: sess.ID, URL: sess.URL}, nil
}

func observe(op string, started time.Time, err *error) {
	metrics.ObserveProcessorCall(op, started, *err)
}

func providerErr(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, domainerrors.ErrProvider, err)
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing
}

var _ gateways.PaymentProcessor = (*StripeProcessor)(nil)
