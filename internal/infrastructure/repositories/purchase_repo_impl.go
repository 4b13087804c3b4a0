package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/infrastructure/models"
)

// PurchaseRepository implements purchase data operations
type PurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateIfAbsent inserts the purchase; a replayed checkout session is ignored
func (r *PurchaseRepository) CreateIfAbsent(ctx context.Context, purchase *entities.Purchase) (bool, error) {
	m := &models.Purchase{
		ID:                purchase.ID,
		UserID:            purchase.UserID,
		ProductID:         purchase.ProductID,
		BusinessID:        purchase.BusinessID,
		Reference:         purchase.Reference,
		CheckoutSessionID: purchase.CheckoutSessionID,
		CreatedAt:         purchase.CreatedAt,
	}
	result := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "checkout_session_id"}}, DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, wrapErr(result.Error, nil)
	}
	return result.RowsAffected == 1, nil
}

// GetByID gets a purchase by ID
func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	var m models.Purchase
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrPurchaseNotFound)
	}
	return r.toEntity(&m), nil
}

// GetByCheckoutSessionID gets the purchase created for a checkout session
func (r *PurchaseRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*entities.Purchase, error) {
	var m models.Purchase
	if err := GetDB(ctx, r.db).Where("checkout_session_id = ?", sessionID).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrPurchaseNotFound)
	}
	return r.toEntity(&m), nil
}

func (r *PurchaseRepository) toEntity(m *models.Purchase) *entities.Purchase {
	return &entities.Purchase{
		ID:                m.ID,
		UserID:            m.UserID,
		ProductID:         m.ProductID,
		BusinessID:        m.BusinessID,
		Reference:         m.Reference,
		CheckoutSessionID: m.CheckoutSessionID,
		CreatedAt:         m.CreatedAt,
	}
}
