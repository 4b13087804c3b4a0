package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"monthly-club.backend/internal/interfaces/http/handlers"
	"monthly-club.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	businessHandler *handlers.BusinessHandler
	stripeHandler   *handlers.StripeHandler
	billingHandler  *handlers.BillingHandler
	healthHandler   *handlers.HealthHandler
	authMiddleware  gin.HandlerFunc
	idempotency     gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		businesses := v1.Group("/businesses")
		businesses.Use(d.authMiddleware)
		{
			businesses.POST("", d.businessHandler.CreateBusiness)
			businesses.GET("/me", d.businessHandler.GetMyBusiness)
			businesses.POST("/me/products", d.businessHandler.CreateProduct)
			businesses.GET("/me/products", d.businessHandler.ListMyProducts)
		}

		// Public catalog, used by the checkout page
		v1.GET("/products/:id", d.businessHandler.GetProduct)

		stripe := v1.Group("/stripe")
		{
			// Signed by the processor, no user auth
			stripe.POST("/webhook", d.stripeHandler.Webhook)

			// Onboarding links expire, so this route never replays a stored response
			stripe.POST("/create-business", d.authMiddleware, d.stripeHandler.CreateBusiness)
			stripe.GET("/check-requirements", d.authMiddleware, d.stripeHandler.CheckRequirements)
			stripe.POST("/create-checkout-session", d.authMiddleware, d.idempotency, d.stripeHandler.CreateCheckoutSession)
		}

		v1.GET("/scheduled-payments/:id", d.billingHandler.GetScheduledPayment)
		v1.PUT("/purchases/:id/billing-day", d.authMiddleware, d.billingHandler.ChangeBillingDay)
	}
}

func registerHealthRoutes(r *gin.Engine, health *handlers.HealthHandler) {
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// applyCORSMiddleware allows the public site to call the API with credentials
func applyCORSMiddleware(r *gin.Engine, allowedOrigin string) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && origin == allowedOrigin {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
