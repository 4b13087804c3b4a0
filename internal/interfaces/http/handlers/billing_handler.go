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
)

type billingService interface {
	GetBillingInfo(ctx context.Context, id uuid.UUID) (*entities.BillingInfo, error)
	ChangeBillingDay(ctx context.Context, userID, purchaseID uuid.UUID, rawDay string) error
}

// BillingHandler serves scheduled payment lookups and billing day changes
type BillingHandler struct {
	usecase billingService
}

func NewBillingHandler(usecase billingService) *BillingHandler {
	return &BillingHandler{usecase: usecase}
}

// GetScheduledPayment returns the display info for a scheduled payment
// GET /api/v1/scheduled-payments/:id
func (h *BillingHandler) GetScheduledPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids cannot exist, so they are reported as missing
		response.Error(c, domainerrors.ErrScheduledPaymentNotFound)
		return
	}

	info, err := h.usecase.GetBillingInfo(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// ChangeBillingDay moves the caller's scheduled payment to another day
// PUT /api/v1/purchases/:id/billing-day
func (h *BillingHandler) ChangeBillingDay(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.ErrPurchaseNotFound)
		return
	}

	var input entities.ChangeBillingDayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.usecase.ChangeBillingDay(c.Request.Context(), userID, purchaseID, input.Day.String()); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
