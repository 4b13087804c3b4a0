package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/infrastructure/models"
)

// ScheduledPaymentRepository implements scheduled payment data operations.
// Every write re-checks the billing day range before touching the table.
type ScheduledPaymentRepository struct {
	db *gorm.DB
}

// NewScheduledPaymentRepository creates a new scheduled payment repository
func NewScheduledPaymentRepository(db *gorm.DB) *ScheduledPaymentRepository {
	return &ScheduledPaymentRepository{db: db}
}

// Create creates a new scheduled payment
func (r *ScheduledPaymentRepository) Create(ctx context.Context, payment *entities.ScheduledPayment) error {
	if _, err := entities.NewBillingDay(payment.ScheduledFor.Int()); err != nil {
		return err
	}
	m := &models.ScheduledPayment{
		ID:           payment.ID,
		PurchaseID:   payment.PurchaseID,
		ProductID:    payment.ProductID,
		ScheduledFor: payment.ScheduledFor.Int(),
		CreatedAt:    payment.CreatedAt,
		UpdatedAt:    payment.UpdatedAt,
	}
	return wrapErr(GetDB(ctx, r.db).Create(m).Error, nil)
}

// GetByID gets a scheduled payment by ID
func (r *ScheduledPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledPayment, error) {
	var m models.ScheduledPayment
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrScheduledPaymentNotFound)
	}
	return r.toEntity(&m), nil
}

// GetByPurchaseID gets the scheduled payment of a purchase
func (r *ScheduledPaymentRepository) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entities.ScheduledPayment, error) {
	var m models.ScheduledPayment
	if err := GetDB(ctx, r.db).Where("purchase_id = ?", purchaseID).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrScheduledPaymentNotFound)
	}
	return r.toEntity(&m), nil
}

// UpdateScheduledFor changes the billing day of the purchase's scheduled payment
func (r *ScheduledPaymentRepository) UpdateScheduledFor(ctx context.Context, purchaseID uuid.UUID, day entities.BillingDay) error {
	if _, err := entities.NewBillingDay(day.Int()); err != nil {
		return err
	}
	result := GetDB(ctx, r.db).Model(&models.ScheduledPayment{}).
		Where("purchase_id = ?", purchaseID).
		Updates(map[string]interface{}{
			"scheduled_for": day.Int(),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return wrapErr(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrScheduledPaymentNotFound
	}
	return nil
}

func (r *ScheduledPaymentRepository) toEntity(m *models.ScheduledPayment) *entities.ScheduledPayment {
	return &entities.ScheduledPayment{
		ID:           m.ID,
		PurchaseID:   m.PurchaseID,
		ProductID:    m.ProductID,
		ScheduledFor: entities.BillingDay(m.ScheduledFor),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
