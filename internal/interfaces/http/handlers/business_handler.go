package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/interfaces/http/middleware"
	"monthly-club.backend/internal/interfaces/http/response"
	"monthly-club.backend/pkg/utils"
)

type businessService interface {
	CreateBusiness(ctx context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error)
	GetMyBusiness(ctx context.Context, userID uuid.UUID) (*entities.Business, error)
	CreateProduct(ctx context.Context, userID uuid.UUID, input *entities.CreateProductInput) (*entities.Product, error)
	ListMyProducts(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Product, *utils.PaginationMeta, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entities.Product, error)
}

// BusinessHandler handles business signup and the product catalog
type BusinessHandler struct {
	usecase businessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(usecase businessService) *BusinessHandler {
	return &BusinessHandler{usecase: usecase}
}

// CreateBusiness registers the caller's business
// POST /api/v1/businesses
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.CreateBusinessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	business, err := h.usecase.CreateBusiness(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, business)
}

// GetMyBusiness returns the caller's business
// GET /api/v1/businesses/me
func (h *BusinessHandler) GetMyBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	business, err := h.usecase.GetMyBusiness(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, business)
}

// CreateProduct adds a product to the caller's business
// POST /api/v1/businesses/me/products
func (h *BusinessHandler) CreateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	product, err := h.usecase.CreateProduct(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// ListMyProducts lists the caller's products
// GET /api/v1/businesses/me/products
func (h *BusinessHandler) ListMyProducts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var pagination utils.PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	products, meta, err := h.usecase.ListMyProducts(c.Request.Context(), userID, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": products, "meta": meta})
}

// GetProduct returns a public product
// GET /api/v1/products/:id
func (h *BusinessHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.ErrProductNotFound)
		return
	}

	product, err := h.usecase.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}
