package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/infrastructure/models"
)

// ProductRepository implements product data operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	m := &models.Product{
		ID:         product.ID,
		BusinessID: product.BusinessID,
		Name:       product.Name,
		Price:      product.Price,
		Currency:   product.Currency,
		Type:       string(product.Type),
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
	return wrapErr(GetDB(ctx, r.db).Create(m).Error, nil)
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapErr(err, domainerrors.ErrProductNotFound)
	}
	return r.toEntity(&m), nil
}

// ListByBusinessID lists a business's products newest first. A limit of 0 returns all rows.
func (r *ProductRepository) ListByBusinessID(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entities.Product, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&models.Product{}).Where("business_id = ?", businessID).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, nil)
	}

	query := db.Where("business_id = ?", businessID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, wrapErr(err, nil)
	}

	products := make([]*entities.Product, 0, len(rows))
	for i := range rows {
		products = append(products, r.toEntity(&rows[i]))
	}
	return products, total, nil
}

func (r *ProductRepository) toEntity(m *models.Product) *entities.Product {
	return &entities.Product{
		ID:         m.ID,
		BusinessID: m.BusinessID,
		Name:       m.Name,
		Price:      m.Price,
		Currency:   m.Currency,
		Type:       entities.ProductType(m.Type),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
