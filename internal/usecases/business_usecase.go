package usecases

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/utils"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BusinessUsecase handles business signup and the product catalog
type BusinessUsecase struct {
	businessRepo    repositories.BusinessRepository
	productRepo     repositories.ProductRepository
	defaultCurrency string
}

// NewBusinessUsecase creates a new business usecase
func NewBusinessUsecase(
	businessRepo repositories.BusinessRepository,
	productRepo repositories.ProductRepository,
	defaultCurrency string,
) *BusinessUsecase {
	return &BusinessUsecase{
		businessRepo:    businessRepo,
		productRepo:     productRepo,
		defaultCurrency: defaultCurrency,
	}
}

// CreateBusiness registers the caller's single business. The payout account
// is provisioned later by the onboarding flow.
func (u *BusinessUsecase) CreateBusiness(ctx context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error) {
	if !input.PayoutAccountType.IsValid() {
		return nil, domainerrors.Validation("payout account type must be individual or company")
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, domainerrors.Validation("slug may contain only lowercase letters, digits and hyphens")
	}

	_, err := u.businessRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	business := &entities.Business{
		ID:                utils.NewID(),
		UserID:            userID,
		Name:              strings.TrimSpace(input.Name),
		Slug:              slug,
		PayoutAccountType: input.PayoutAccountType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.businessRepo.Create(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

// GetMyBusiness returns the business owned by userID
func (u *BusinessUsecase) GetMyBusiness(ctx context.Context, userID uuid.UUID) (*entities.Business, error) {
	return u.businessRepo.GetByUserID(ctx, userID)
}

// CreateProduct adds a product to the caller's business
func (u *BusinessUsecase) CreateProduct(ctx context.Context, userID uuid.UUID, input *entities.CreateProductInput) (*entities.Product, error) {
	if !input.Type.IsValid() {
		return nil, domainerrors.Validation("unknown product type %q", input.Type)
	}
	if input.Price <= 0 {
		return nil, domainerrors.Validation("price must be positive")
	}

	business, err := u.businessRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(input.Currency)
	if currency == "" {
		currency = u.defaultCurrency
	}

	now := time.Now()
	product := &entities.Product{
		ID:         utils.NewID(),
		BusinessID: business.ID,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		Currency:   currency,
		Type:       input.Type,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListMyProducts lists the caller's products, newest first
func (u *BusinessUsecase) ListMyProducts(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Product, *utils.PaginationMeta, error) {
	business, err := u.businessRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	p := pagination.Normalize()
	products, total, err := u.productRepo.ListByBusinessID(ctx, business.ID, p.Limit, p.Offset())
	if err != nil {
		return nil, nil, err
	}
	meta := utils.CalculateMeta(total, p)
	return products, &meta, nil
}

// GetProduct returns a product by id for public product pages
func (u *BusinessUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}
