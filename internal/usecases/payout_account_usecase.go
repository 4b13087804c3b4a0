package usecases

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/metrics"
)

// Default dashboard paths the processor redirects to after onboarding
const (
	payoutRefreshPath = "/dashboard/payouts/refresh"
	payoutReturnPath  = "/dashboard/payouts/return"
)

var urlValidator = validator.New()

// PayoutAccountUsecase provisions processor payout accounts for businesses
type PayoutAccountUsecase struct {
	businessRepo repositories.BusinessRepository
	orphanRepo   repositories.OrphanRepository
	processor    gateways.PaymentProcessor
	siteBaseURL  string
}

// NewPayoutAccountUsecase creates a new payout account usecase
func NewPayoutAccountUsecase(
	businessRepo repositories.BusinessRepository,
	orphanRepo repositories.OrphanRepository,
	processor gateways.PaymentProcessor,
	siteBaseURL string,
) *PayoutAccountUsecase {
	return &PayoutAccountUsecase{
		businessRepo: businessRepo,
		orphanRepo:   orphanRepo,
		processor:    processor,
		siteBaseURL:  siteBaseURL,
	}
}

// EnsureAccount fetches or creates the payout account of the caller's business
// and returns a fresh onboarding link for it. Links expire, so they are never cached.
func (u *PayoutAccountUsecase) EnsureAccount(ctx context.Context, ownerID uuid.UUID, input *entities.OnboardingLinkInput) (*entities.OnboardingLinkResponse, error) {
	if input == nil {
		input = &entities.OnboardingLinkInput{}
	}
	refreshURL, err := u.redirectURL(input.RefreshURL, payoutRefreshPath)
	if err != nil {
		return nil, err
	}
	returnURL, err := u.redirectURL(input.ReturnURL, payoutReturnPath)
	if err != nil {
		return nil, err
	}

	business, err := u.businessRepo.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	accountID, err := u.ensureAccountID(ctx, business)
	if err != nil {
		return nil, err
	}

	link, err := u.processor.CreateAccountLink(ctx, gateways.AccountLinkParams{
		AccountID:  accountID,
		RefreshURL: refreshURL,
		ReturnURL:  returnURL,
	})
	if err != nil {
		return nil, err
	}
	return &entities.OnboardingLinkResponse{URL: link}, nil
}

func (u *PayoutAccountUsecase) ensureAccountID(ctx context.Context, business *entities.Business) (string, error) {
	if business.HasPayoutAccount() {
		return business.PayoutAccountID.String, nil
	}

	accountID, err := u.processor.CreateAccount(ctx, gateways.CreateAccountParams{
		BusinessID:   business.ID.String(),
		BusinessType: string(business.PayoutAccountType),
		Slug:         business.Slug,
		ProfileURL:   u.siteBaseURL + "/" + business.Slug,
	})
	if err != nil {
		return "", err
	}

	stored, err := u.businessRepo.SetPayoutAccountIDIfEmpty(ctx, business.ID, accountID)
	if err != nil {
		// The account exists remotely but nothing points at it. Onboarding can
		// still proceed on it, so the link is minted anyway.
		metrics.PersistenceInconsistencies.WithLabelValues("business").Inc()
		logger.Error(ctx, "Payout account created but not persisted",
			zap.String("business_id", business.ID.String()),
			zap.String("account_id", accountID),
			zap.Error(errors.Join(domainerrors.ErrProviderPersistenceInconsistency, err)),
		)
		return accountID, nil
	}
	if stored {
		logger.Info(ctx, "Payout account created",
			zap.String("business_id", business.ID.String()),
			zap.String("account_id", accountID),
		)
		return accountID, nil
	}

	// A concurrent call linked its own account first
	recordOrphan(ctx, u.orphanRepo, entities.OrphanKindAccount, accountID, business.ID, entities.OrphanReasonLostRace)

	winner, err := u.businessRepo.GetByID(ctx, business.ID)
	if err != nil {
		return "", err
	}
	if !winner.HasPayoutAccount() {
		return "", domainerrors.ErrPayoutAccountMissing
	}
	return winner.PayoutAccountID.String, nil
}

func (u *PayoutAccountUsecase) redirectURL(given, defaultPath string) (string, error) {
	if given == "" {
		return u.siteBaseURL + defaultPath, nil
	}
	if err := urlValidator.Var(given, "http_url"); err != nil {
		return "", domainerrors.Validation("redirect url must be an absolute http(s) url")
	}
	return given, nil
}
