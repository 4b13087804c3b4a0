package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/pkg/utils"
)

type businessStub struct {
	business      *entities.Business
	err           error
	gotPagination utils.PaginationParams
	products      []*entities.Product
}

func (s *businessStub) CreateBusiness(_ context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Business{ID: uuid.New(), UserID: userID, Name: input.Name, Slug: input.Slug, PayoutAccountType: input.PayoutAccountType}, nil
}

func (s *businessStub) GetMyBusiness(context.Context, uuid.UUID) (*entities.Business, error) {
	return s.business, s.err
}

func (s *businessStub) CreateProduct(_ context.Context, _ uuid.UUID, input *entities.CreateProductInput) (*entities.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Product{ID: uuid.New(), Name: input.Name, Price: input.Price, Type: input.Type}, nil
}

func (s *businessStub) ListMyProducts(_ context.Context, _ uuid.UUID, pagination utils.PaginationParams) ([]*entities.Product, *utils.PaginationMeta, error) {
	s.gotPagination = pagination
	meta := utils.CalculateMeta(int64(len(s.products)), pagination.Normalize())
	return s.products, &meta, s.err
}

func (s *businessStub) GetProduct(_ context.Context, id uuid.UUID) (*entities.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domainerrors.ErrProductNotFound
}

func TestBusinessHandler_CreateBusiness(t *testing.T) {
	stub := &businessStub{}
	r := newTestRouter()
	r.POST("/businesses", withUser(uuid.New(), "owner@example.com"), NewBusinessHandler(stub).CreateBusiness)

	w := doJSON(t, r, http.MethodPost, "/businesses", map[string]string{
		"name": "Joe's Gym", "slug": "joes-gym", "payoutAccountType": "individual",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "joes-gym", body["slug"])
	assert.Nil(t, body["payoutAccountId"])

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/businesses", map[string]string{"name": "x"}).Code)

	stub.err = domainerrors.ErrAlreadyExists
	w = doJSON(t, r, http.MethodPost, "/businesses", map[string]string{
		"name": "Joe's Gym", "slug": "joes-gym", "payoutAccountType": "individual",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBusinessHandler_GetMyBusiness(t *testing.T) {
	stub := &businessStub{err: domainerrors.ErrBusinessNotFound}
	r := newTestRouter()
	r.GET("/businesses/me", withUser(uuid.New(), "owner@example.com"), NewBusinessHandler(stub).GetMyBusiness)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/businesses/me", nil).Code)
}

func TestBusinessHandler_Products(t *testing.T) {
	product := &entities.Product{ID: uuid.New(), Name: "Monthly", Price: 2500, Type: entities.ProductTypeStandard}
	stub := &businessStub{products: []*entities.Product{product}}
	h := NewBusinessHandler(stub)

	r := newTestRouter()
	owner := withUser(uuid.New(), "owner@example.com")
	r.POST("/businesses/me/products", owner, h.CreateProduct)
	r.GET("/businesses/me/products", owner, h.ListMyProducts)
	r.GET("/products/:id", h.GetProduct)

	w := doJSON(t, r, http.MethodPost, "/businesses/me/products", map[string]interface{}{"name": "Yearly", "price": 20000, "type": "standard"})
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPost, "/businesses/me/products", map[string]interface{}{"name": "Free", "price": 0, "type": "standard"}).Code)

	w = doJSON(t, r, http.MethodGet, "/businesses/me/products?page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.PaginationParams{Page: 2, Limit: 5}, stub.gotPagination)
	assert.Contains(t, w.Body.String(), `"meta"`)

	w = doJSON(t, r, http.MethodGet, "/products/"+product.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Monthly", decodeBody(t, w)["name"])

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/products/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/products/nope", nil).Code)
}
