package repositories

import (
	"context"

	"github.com/google/uuid"
	"monthly-club.backend/internal/domain/entities"
)

// BusinessRepository defines business data operations
type BusinessRepository interface {
	Create(ctx context.Context, business *entities.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Business, error)
	// SetPayoutAccountIDIfEmpty stores accountID only while the column is still empty.
	// It reports whether the write took effect.
	SetPayoutAccountIDIfEmpty(ctx context.Context, id uuid.UUID, accountID string) (bool, error)
}

// ProductRepository defines product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	ListByBusinessID(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entities.Product, int64, error)
}
