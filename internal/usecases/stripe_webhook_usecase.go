package usecases

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/utils"
)

// Processor event handled by the setup-completion consumer
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	checkoutModeSetup             = "setup"
)

// StripeWebhookUsecase materializes purchases and scheduled payments from
// completed setup sessions.
type StripeWebhookUsecase struct {
	uow           repositories.UnitOfWork
	verifier      gateways.WebhookVerifier
	purchaseRepo  repositories.PurchaseRepository
	scheduledRepo repositories.ScheduledPaymentRepository
	productRepo   repositories.ProductRepository
	processor     gateways.PaymentProcessor
	publisher     gateways.EventPublisher
}

// NewStripeWebhookUsecase creates a new webhook usecase
func NewStripeWebhookUsecase(
	uow repositories.UnitOfWork,
	verifier gateways.WebhookVerifier,
	purchaseRepo repositories.PurchaseRepository,
	scheduledRepo repositories.ScheduledPaymentRepository,
	productRepo repositories.ProductRepository,
	processor gateways.PaymentProcessor,
	publisher gateways.EventPublisher,
) *StripeWebhookUsecase {
	return &StripeWebhookUsecase{
		uow:           uow,
		verifier:      verifier,
		purchaseRepo:  purchaseRepo,
		scheduledRepo: scheduledRepo,
		productRepo:   productRepo,
		processor:     processor,
		publisher:     publisher,
	}
}

// HandleWebhook verifies and dispatches one processor event. Unhandled event
// types are acknowledged without side effects. So are completed sessions with
// invalid metadata, since redelivering them cannot succeed.
func (u *StripeWebhookUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.verifier.ConstructEvent(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != EventCheckoutSessionCompleted || event.CheckoutSession == nil {
		logger.Debug(ctx, "Ignoring webhook event", zap.String("event_id", event.ID), zap.String("type", event.Type))
		return nil
	}
	if event.CheckoutSession.Mode != checkoutModeSetup {
		logger.Debug(ctx, "Ignoring non-setup checkout session", zap.String("session_id", event.CheckoutSession.ID))
		return nil
	}
	err = u.HandleCompletedSetup(ctx, event.CheckoutSession)
	if errors.Is(err, domainerrors.ErrValidation) {
		logger.Error(ctx, "Dropping setup session with invalid metadata",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.CheckoutSession.ID),
			zap.Error(err),
		)
		return nil
	}
	return err
}

// HandleCompletedSetup creates the purchase and its scheduled payment for a
// completed setup session. Replays of the same session are no-ops.
func (u *StripeWebhookUsecase) HandleCompletedSetup(ctx context.Context, session *gateways.CompletedCheckoutSession) error {
	meta, err := entities.ParseSetupIntentMetadata(session.Metadata)
	if err != nil {
		return err
	}
	if session.CustomerID != "" && session.CustomerID != meta.CustomerID {
		return domainerrors.Validation("session customer %s does not match metadata", session.CustomerID)
	}
	day, err := entities.NewBillingDay(meta.PreferredPaymentDay)
	if err != nil {
		return err
	}

	if _, err := u.purchaseRepo.GetByCheckoutSessionID(ctx, session.ID); err == nil {
		logger.Info(ctx, "Setup session already processed", zap.String("session_id", session.ID))
		return nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}

	product, err := u.productRepo.GetByID(ctx, meta.ProductID)
	if err != nil {
		return err
	}

	// Idempotent at the processor, so a retried delivery can safely repeat it
	if session.SetupIntentID != "" {
		if err := u.processor.SetDefaultPaymentMethodFromSetupIntent(ctx, meta.CustomerID, session.SetupIntentID); err != nil {
			return err
		}
	}

	now := time.Now()
	purchase := &entities.Purchase{
		ID:                utils.NewID(),
		UserID:            meta.UserID,
		ProductID:         product.ID,
		BusinessID:        product.BusinessID,
		Reference:         meta.Reference,
		CheckoutSessionID: session.ID,
		CreatedAt:         now,
	}
	payment := &entities.ScheduledPayment{
		ID:           utils.NewID(),
		PurchaseID:   purchase.ID,
		ProductID:    product.ID,
		ScheduledFor: day,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created := false
	err = u.uow.Do(ctx, func(ctx context.Context) error {
		inserted, err := u.purchaseRepo.CreateIfAbsent(ctx, purchase)
		if err != nil || !inserted {
			return err
		}
		if err := u.scheduledRepo.Create(ctx, payment); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return err
	}
	if !created {
		logger.Info(ctx, "Setup session processed concurrently", zap.String("session_id", session.ID))
		return nil
	}

	logger.Info(ctx, "Scheduled payment created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("scheduled_payment_id", payment.ID.String()),
		zap.Int("day", day.Int()),
	)
	publishScheduledPayment(ctx, u.publisher, gateways.SubjectScheduledPaymentCreated, payment, meta.UserID)
	return nil
}
