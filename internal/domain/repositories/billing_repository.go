package repositories

import (
	"context"

	"github.com/google/uuid"
	"monthly-club.backend/internal/domain/entities"
)

// CustomerPaymentProfileRepository maps users to processor customers
type CustomerPaymentProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerPaymentProfile, error)
	// CreateIfAbsent inserts the profile unless one exists for the user.
	// It reports whether the row was inserted.
	CreateIfAbsent(ctx context.Context, profile *entities.CustomerPaymentProfile) (bool, error)
}

// PurchaseRepository defines purchase data operations
type PurchaseRepository interface {
	// CreateIfAbsent inserts the purchase unless its checkout session was already recorded.
	CreateIfAbsent(ctx context.Context, purchase *entities.Purchase) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*entities.Purchase, error)
}

// ScheduledPaymentRepository defines scheduled payment data operations
type ScheduledPaymentRepository interface {
	Create(ctx context.Context, payment *entities.ScheduledPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledPayment, error)
	GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entities.ScheduledPayment, error)
	UpdateScheduledFor(ctx context.Context, purchaseID uuid.UUID, day entities.BillingDay) error
}

// OrphanRepository tracks processor objects that no row references
type OrphanRepository interface {
	Create(ctx context.Context, orphan *entities.OrphanedProcessorObject) error
	ListUnresolved(ctx context.Context, limit int) ([]*entities.OrphanedProcessorObject, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	RecordFailure(ctx context.Context, id uuid.UUID, reason string) error
}
