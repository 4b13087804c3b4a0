package usecases

import (
	"context"

	"github.com/google/uuid"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
)

// ComplianceUsecase reports outstanding onboarding requirements
type ComplianceUsecase struct {
	businessRepo repositories.BusinessRepository
	processor    gateways.PaymentProcessor
}

// NewComplianceUsecase creates a new compliance usecase
func NewComplianceUsecase(businessRepo repositories.BusinessRepository, processor gateways.PaymentProcessor) *ComplianceUsecase {
	return &ComplianceUsecase{
		businessRepo: businessRepo,
		processor:    processor,
	}
}

// NeedsIdentityDocument reports whether the business's payout account currently
// asks for an identity document. Requirements are fetched on every call.
func (u *ComplianceUsecase) NeedsIdentityDocument(ctx context.Context, businessID uuid.UUID) (bool, error) {
	business, err := u.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return false, err
	}
	return u.check(ctx, business)
}

// NeedsIdentityDocumentForOwner runs the same check for the business owned by userID
func (u *ComplianceUsecase) NeedsIdentityDocumentForOwner(ctx context.Context, userID uuid.UUID) (bool, error) {
	business, err := u.businessRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.check(ctx, business)
}

func (u *ComplianceUsecase) check(ctx context.Context, business *entities.Business) (bool, error) {
	if !business.HasPayoutAccount() {
		return false, domainerrors.ErrPayoutAccountMissing
	}

	account, err := u.processor.GetAccount(ctx, business.PayoutAccountID.String)
	if err != nil {
		return false, err
	}

	for _, req := range account.CurrentlyDue {
		if req == gateways.RequirementIndividualDocument || req == gateways.RequirementCompanyDocument {
			return true, nil
		}
	}
	return false, nil
}
