package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/infrastructure/models"
)

// BusinessRepository implements business data operations
type BusinessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create creates a new business
func (r *BusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	m := &models.Business{
		ID:                business.ID,
		UserID:            business.UserID,
		Name:              business.Name,
		Slug:              business.Slug,
		PayoutAccountID:   business.PayoutAccountID.Ptr(),
		PayoutAccountType: string(business.PayoutAccountType),
		CreatedAt:         business.CreatedAt,
		UpdatedAt:         business.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return wrapErr(err, nil)
	}
	return nil
}

// GetByID gets a business by ID
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error) {
	var m models.Business
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrBusinessNotFound)
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets the business owned by a user
func (r *BusinessRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Business, error) {
	var m models.Business
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrBusinessNotFound)
	}
	return r.toEntity(&m), nil
}

// SetPayoutAccountIDIfEmpty is a compare-and-swap on the payout account column.
// It returns false when another writer already linked an account.
func (r *BusinessRepository) SetPayoutAccountIDIfEmpty(ctx context.Context, id uuid.UUID, accountID string) (bool, error) {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.Business{}).
		Where("id = ? AND (payout_account_id IS NULL OR payout_account_id = '')", id).
		Updates(map[string]interface{}{
			"payout_account_id": accountID,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return false, wrapErr(result.Error, nil)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := db.Model(&models.Business{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrapErr(err, nil)
	}
	if count == 0 {
		return false, domainerrors.ErrBusinessNotFound
	}
	return false, nil
}

func (r *BusinessRepository) toEntity(m *models.Business) *entities.Business {
	return &entities.Business{
		ID:                m.ID,
		UserID:            m.UserID,
		Name:              m.Name,
		Slug:              m.Slug,
		PayoutAccountID:   null.StringFromPtr(m.PayoutAccountID),
		PayoutAccountType: entities.PayoutAccountType(m.PayoutAccountType),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
