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

// CustomerPaymentProfileRepository stores user to processor customer mappings
type CustomerPaymentProfileRepository struct {
	db *gorm.DB
}

// NewCustomerPaymentProfileRepository creates a new customer profile repository
func NewCustomerPaymentProfileRepository(db *gorm.DB) *CustomerPaymentProfileRepository {
	return &CustomerPaymentProfileRepository{db: db}
}

// GetByUserID gets the profile of a user
func (r *CustomerPaymentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerPaymentProfile, error) {
	var m models.StripeCustomer
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrNotFound)
	}
	return &entities.CustomerPaymentProfile{
		UserID:              m.UserID,
		ProcessorCustomerID: m.StripeCustomerID,
		CreatedAt:           m.CreatedAt,
	}, nil
}

// CreateIfAbsent inserts the mapping keyed on user_id; an existing row wins
func (r *CustomerPaymentProfileRepository) CreateIfAbsent(ctx context.Context, profile *entities.CustomerPaymentProfile) (bool, error) {
	m := &models.StripeCustomer{
		UserID:           profile.UserID,
		StripeCustomerID: profile.ProcessorCustomerID,
		CreatedAt:        profile.CreatedAt,
	}
	result := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, wrapErr(result.Error, nil)
	}
	return result.RowsAffected == 1, nil
}
