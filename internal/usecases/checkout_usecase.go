package usecases

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
)

// CustomerProfileEnsurer resolves or creates a user's processor customer
type CustomerProfileEnsurer interface {
	EnsureCustomerProfile(ctx context.Context, user *entities.CurrentUser) (string, error)
}

// CheckoutUsecase starts hosted setup sessions for product purchases
type CheckoutUsecase struct {
	productRepo  repositories.ProductRepository
	businessRepo repositories.BusinessRepository
	customers    CustomerProfileEnsurer
	processor    gateways.PaymentProcessor
	currency     string
	siteBaseURL  string
}

// NewCheckoutUsecase creates a new checkout usecase
func NewCheckoutUsecase(
	productRepo repositories.ProductRepository,
	businessRepo repositories.BusinessRepository,
	customers CustomerProfileEnsurer,
	processor gateways.PaymentProcessor,
	currency string,
	siteBaseURL string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		productRepo:  productRepo,
		businessRepo: businessRepo,
		customers:    customers,
		processor:    processor,
		currency:     currency,
		siteBaseURL:  siteBaseURL,
	}
}

// CreateSetupSession creates a setup-mode session carrying the purchase intent
// as metadata. It never writes a scheduled payment; the setup-completion
// webhook does that once the processor confirms the session.
func (u *CheckoutUsecase) CreateSetupSession(ctx context.Context, user *entities.CurrentUser, input *entities.CreateSetupSessionInput) (*entities.SetupSessionResponse, error) {
	if input == nil {
		return nil, domainerrors.BadRequest("request body is required")
	}

	product, err := u.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	day, err := entities.NewBillingDay(input.PreferredPaymentDay)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Reference) > entities.MaxReferenceLength {
		return nil, domainerrors.Validation("reference must be at most %d characters", entities.MaxReferenceLength)
	}

	business, err := u.businessRepo.GetByID(ctx, product.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.HasPayoutAccount() {
		return nil, domainerrors.ErrPayoutAccountMissing
	}

	customerID, err := u.customers.EnsureCustomerProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	metadata := &entities.SetupIntentMetadata{
		UserID:              user.ID,
		CustomerID:          customerID,
		AccountID:           business.PayoutAccountID.String,
		ProductID:           product.ID,
		Reference:           input.Reference,
		PreferredPaymentDay: day.Int(),
	}
	if err := metadata.Validate(); err != nil {
		return nil, err
	}

	session, err := u.processor.CreateSetupSession(ctx, gateways.CreateSetupSessionParams{
		CustomerID: customerID,
		Currency:   u.currency,
		SuccessURL: u.siteBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  u.siteBaseURL + "/products/" + product.ID.String(),
		Metadata:   metadata.ToMap(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Setup session created",
		zap.String("session_id", session.ID),
		zap.String("product_id", product.ID.String()),
		zap.String("customer_id", customerID),
	)
	return &entities.SetupSessionResponse{URL: session.URL}, nil
}
