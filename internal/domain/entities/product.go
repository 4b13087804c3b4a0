package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProductType represents the billing shape of a product
type ProductType string

const (
	ProductTypeStandard       ProductType = "standard"
	ProductTypeBalanceBuilder ProductType = "balance_builder"
	ProductTypePayItOff       ProductType = "pay_it_off"
	ProductTypeOneTime        ProductType = "one_time"
)

// IsValid reports whether t is a known product type
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeStandard, ProductTypeBalanceBuilder, ProductTypePayItOff, ProductTypeOneTime:
		return true
	}
	return false
}

// Product belongs to exactly one business. Price is in minor currency units.
type Product struct {
	ID         uuid.UUID   `json:"id"`
	BusinessID uuid.UUID   `json:"businessId"`
	Name       string      `json:"name"`
	Price      int64       `json:"price"`
	Currency   string      `json:"currency"`
	Type       ProductType `json:"type"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// CreateProductInput represents input for creating a product
type CreateProductInput struct {
	Name     string      `json:"name" binding:"required,min=1,max=255"`
	Price    int64       `json:"price" binding:"required,gt=0"`
	Currency string      `json:"currency" binding:"omitempty,len=3"`
	Type     ProductType `json:"type" binding:"required"`
}
