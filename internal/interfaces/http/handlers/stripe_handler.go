package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/interfaces/http/middleware"
	"monthly-club.backend/internal/interfaces/http/response"
	"monthly-club.backend/pkg/logger"
)

// maxWebhookBodyBytes matches the processor's documented payload ceiling
const maxWebhookBodyBytes = 65536

// StripeSignatureHeader carries the webhook signature
const StripeSignatureHeader = "Stripe-Signature"

type payoutAccountService interface {
	EnsureAccount(ctx context.Context, ownerID uuid.UUID, input *entities.OnboardingLinkInput) (*entities.OnboardingLinkResponse, error)
}

type complianceService interface {
	NeedsIdentityDocumentForOwner(ctx context.Context, userID uuid.UUID) (bool, error)
}

type checkoutService interface {
	CreateSetupSession(ctx context.Context, user *entities.CurrentUser, input *entities.CreateSetupSessionInput) (*entities.SetupSessionResponse, error)
}

type webhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// StripeHandler serves payout onboarding, checkout and the processor webhook
type StripeHandler struct {
	accounts   payoutAccountService
	compliance complianceService
	checkout   checkoutService
	webhooks   webhookService
}

func NewStripeHandler(accounts payoutAccountService, compliance complianceService, checkout checkoutService, webhooks webhookService) *StripeHandler {
	return &StripeHandler{
		accounts:   accounts,
		compliance: compliance,
		checkout:   checkout,
		webhooks:   webhooks,
	}
}

// CreateBusiness ensures the caller's business has a payout account and
// returns a fresh onboarding link.
// POST /api/v1/stripe/create-business
func (h *StripeHandler) CreateBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.OnboardingLinkInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, domainerrors.BadRequest(err.Error()))
			return
		}
	}

	link, err := h.accounts.EnsureAccount(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, link)
}

// CheckRequirements reports whether the caller's payout account still needs
// an identity document.
// GET /api/v1/stripe/check-requirements
func (h *StripeHandler) CheckRequirements(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	needsID, err := h.compliance.NeedsIdentityDocumentForOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entities.RequirementsResponse{NeedsID: needsID})
}

// CreateCheckoutSession starts a hosted setup session for a product
// POST /api/v1/stripe/create-checkout-session
func (h *StripeHandler) CreateCheckoutSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.CreateSetupSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session, err := h.checkout.CreateSetupSession(c.Request.Context(), user, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// Webhook receives processor events. The raw body is needed for signature
// verification, so it is never bound.
// POST /api/v1/stripe/webhook
func (h *StripeHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		response.Error(c, domainerrors.NewAppError(http.StatusRequestEntityTooLarge, domainerrors.CodeValidation, "Payload too large", err))
		return
	}

	if err := h.webhooks.HandleWebhook(ctx, payload, c.GetHeader(StripeSignatureHeader)); err != nil {
		logger.Warn(ctx, "Webhook rejected", zap.Error(err))
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}
