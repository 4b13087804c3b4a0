package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/metrics"
)

// CustomerProfileUsecase binds users to processor customers
type CustomerProfileUsecase struct {
	profileRepo repositories.CustomerPaymentProfileRepository
	orphanRepo  repositories.OrphanRepository
	processor   gateways.PaymentProcessor
}

// NewCustomerProfileUsecase creates a new customer profile usecase
func NewCustomerProfileUsecase(
	profileRepo repositories.CustomerPaymentProfileRepository,
	orphanRepo repositories.OrphanRepository,
	processor gateways.PaymentProcessor,
) *CustomerProfileUsecase {
	return &CustomerProfileUsecase{
		profileRepo: profileRepo,
		orphanRepo:  orphanRepo,
		processor:   processor,
	}
}

// EnsureCustomerProfile returns the user's processor customer id, creating the
// remote customer and its mapping row on first use.
func (u *CustomerProfileUsecase) EnsureCustomerProfile(ctx context.Context, user *entities.CurrentUser) (string, error) {
	if user == nil {
		return "", domainerrors.ErrUnauthorized
	}

	profile, err := u.profileRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return profile.ProcessorCustomerID, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return "", err
	}

	customerID, err := u.processor.CreateCustomer(ctx, gateways.CreateCustomerParams{
		Email:  user.Email,
		UserID: user.ID.String(),
	})
	if err != nil {
		return "", err
	}

	inserted, err := u.profileRepo.CreateIfAbsent(ctx, &entities.CustomerPaymentProfile{
		UserID:              user.ID,
		ProcessorCustomerID: customerID,
		CreatedAt:           time.Now(),
	})
	if err != nil {
		metrics.PersistenceInconsistencies.WithLabelValues("customer_profile").Inc()
		logger.Error(ctx, "Customer created but profile not saved",
			zap.String("user_id", user.ID.String()),
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		recordOrphan(ctx, u.orphanRepo, entities.OrphanKindCustomer, customerID, user.ID, entities.OrphanReasonPersistFailed)
		return "", fmt.Errorf("%w: %w", domainerrors.ErrProfileSave, err)
	}
	if inserted {
		return customerID, nil
	}

	// A concurrent call stored its customer first
	recordOrphan(ctx, u.orphanRepo, entities.OrphanKindCustomer, customerID, user.ID, entities.OrphanReasonLostRace)
	stored, err := u.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return stored.ProcessorCustomerID, nil
}
