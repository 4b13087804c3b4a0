package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
)

// ScheduledPaymentUsecase reads and reschedules recurring payments
type ScheduledPaymentUsecase struct {
	scheduledRepo repositories.ScheduledPaymentRepository
	purchaseRepo  repositories.PurchaseRepository
	productRepo   repositories.ProductRepository
	businessRepo  repositories.BusinessRepository
	publisher     gateways.EventPublisher
}

// NewScheduledPaymentUsecase creates a new scheduled payment usecase
func NewScheduledPaymentUsecase(
	scheduledRepo repositories.ScheduledPaymentRepository,
	purchaseRepo repositories.PurchaseRepository,
	productRepo repositories.ProductRepository,
	businessRepo repositories.BusinessRepository,
	publisher gateways.EventPublisher,
) *ScheduledPaymentUsecase {
	return &ScheduledPaymentUsecase{
		scheduledRepo: scheduledRepo,
		purchaseRepo:  purchaseRepo,
		productRepo:   productRepo,
		businessRepo:  businessRepo,
		publisher:     publisher,
	}
}

// GetBillingInfo resolves scheduled payment, product and business in that
// order. A missing business only blanks the business name.
func (u *ScheduledPaymentUsecase) GetBillingInfo(ctx context.Context, id uuid.UUID) (*entities.BillingInfo, error) {
	payment, err := u.scheduledRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := u.productRepo.GetByID(ctx, payment.ProductID)
	if err != nil {
		return nil, err
	}

	info := &entities.BillingInfo{
		ProductName:         product.Name,
		PreferredPaymentDay: payment.ScheduledFor.Int(),
	}

	business, err := u.businessRepo.GetByID(ctx, product.BusinessID)
	switch {
	case err == nil:
		info.BusinessName = null.StringFrom(business.Name)
	case errors.Is(err, domainerrors.ErrNotFound):
		logger.Warn(ctx, "Business missing for billing info",
			zap.String("scheduled_payment_id", id.String()),
			zap.String("business_id", product.BusinessID.String()),
		)
	default:
		return nil, err
	}
	return info, nil
}

// ChangeBillingDay moves the billing day of a purchase the user owns.
// rawDay must be a plain integer in [1, 28].
func (u *ScheduledPaymentUsecase) ChangeBillingDay(ctx context.Context, userID, purchaseID uuid.UUID, rawDay string) error {
	day, err := entities.ParseBillingDay(rawDay)
	if err != nil {
		return err
	}

	purchase, err := u.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return err
	}
	if purchase.UserID != userID {
		return domainerrors.ErrPurchaseNotFound
	}

	if err := u.scheduledRepo.UpdateScheduledFor(ctx, purchaseID, day); err != nil {
		return err
	}

	payment, err := u.scheduledRepo.GetByPurchaseID(ctx, purchaseID)
	if err != nil {
		logger.Warn(ctx, "Billing day changed but reload failed", zap.String("purchase_id", purchaseID.String()), zap.Error(err))
		return nil
	}
	publishScheduledPayment(ctx, u.publisher, gateways.SubjectScheduledPaymentDayChanged, payment, purchase.UserID)
	return nil
}

// publishScheduledPayment emits a scheduled payment event. The state change is
// already committed, so a publish failure is logged and not returned.
func publishScheduledPayment(ctx context.Context, publisher gateways.EventPublisher, subject string, payment *entities.ScheduledPayment, userID uuid.UUID) {
	if publisher == nil {
		return
	}
	event := gateways.ScheduledPaymentEvent{
		ScheduledPaymentID: payment.ID,
		PurchaseID:         payment.PurchaseID,
		ProductID:          payment.ProductID,
		UserID:             userID,
		Day:                payment.ScheduledFor.Int(),
		OccurredAt:         time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, subject, event); err != nil {
		logger.Error(ctx, "Failed to publish scheduled payment event",
			zap.String("subject", subject),
			zap.String("scheduled_payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}
