package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"monthly-club.backend/internal/config"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/infrastructure/datasources/postgres"
	"monthly-club.backend/internal/infrastructure/jobs"
	"monthly-club.backend/internal/infrastructure/messaging"
	"monthly-club.backend/internal/infrastructure/payments"
	"monthly-club.backend/internal/infrastructure/repositories"
	"monthly-club.backend/internal/interfaces/http/handlers"
	"monthly-club.backend/internal/interfaces/http/middleware"
	"monthly-club.backend/internal/usecases"
	"monthly-club.backend/pkg/jwt"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv   = godotenv.Load
	loadCfg      = config.Load
	initLog      = logger.Init
	connectRedis = redis.Connect
	openDB       = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewGorm(sqlDB)
	}
	newPublisher = func(cfg config.NATSConfig) (gateways.EventPublisher, func() error, error) {
		if cfg.URL == "" {
			return messaging.NoopPublisher{}, func() error { return nil }, nil
		}
		p, err := messaging.NewNATSPublisher(cfg.URL, cfg.Name)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	initLog(cfg.Server.Env, cfg.Server.LogLevel)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL")

	// Sessions and idempotency keys need redis. The interface values stay
	// untyped nil when it is disabled so the consumers can detect that.
	var (
		sessions  usecases.SessionStore
		reader    middleware.SessionReader
		idemStore middleware.IdempotencyStore
		checks    = map[string]handlers.Pinger{"postgres": handlers.PingerFunc(sqlDB.PingContext)}
	)
	if cfg.Redis.URL != "" {
		store, err := connectRedis(ctx, cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer store.Close()

		sessionStore, err := redis.NewSessionStore(store, cfg.Session.EncryptionKey)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
		sessions, reader, idemStore = sessionStore, sessionStore, store
		checks["redis"] = store
		logger.Info(ctx, "Redis initialized")
	} else {
		logger.Warn(ctx, "REDIS_URL not set, sessions and idempotency keys are disabled")
	}

	publisher, closePublisher, err := newPublisher(cfg.NATS)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer func() { _ = closePublisher() }()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	processor := payments.NewStripeProcessor(cfg.Stripe)
	verifier := payments.NewStripeWebhookVerifier(cfg.Stripe.WebhookSecret)

	userRepo := repositories.NewUserRepository(db)
	businessRepo := repositories.NewBusinessRepository(db)
	productRepo := repositories.NewProductRepository(db)
	profileRepo := repositories.NewCustomerPaymentProfileRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	scheduledRepo := repositories.NewScheduledPaymentRepository(db)
	orphanRepo := repositories.NewOrphanRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessions, cfg.Session.TTL)
	businessUsecase := usecases.NewBusinessUsecase(businessRepo, productRepo, cfg.Stripe.Currency)
	payoutUsecase := usecases.NewPayoutAccountUsecase(businessRepo, orphanRepo, processor, cfg.Site.BaseURL)
	customerUsecase := usecases.NewCustomerProfileUsecase(profileRepo, orphanRepo, processor)
	checkoutUsecase := usecases.NewCheckoutUsecase(productRepo, businessRepo, customerUsecase, processor, cfg.Stripe.Currency, cfg.Site.BaseURL)
	scheduledUsecase := usecases.NewScheduledPaymentUsecase(scheduledRepo, purchaseRepo, productRepo, businessRepo, publisher)
	complianceUsecase := usecases.NewComplianceUsecase(businessRepo, processor)
	webhookUsecase := usecases.NewStripeWebhookUsecase(uow, verifier, purchaseRepo, scheduledRepo, productRepo, processor, publisher)
	orphanUsecase := usecases.NewOrphanReconcileUsecase(orphanRepo, profileRepo, businessRepo, processor)

	deps := routeDeps{
		authHandler:     handlers.NewAuthHandler(authUsecase, cfg.Session.TTL, cfg.Server.Env == "production"),
		businessHandler: handlers.NewBusinessHandler(businessUsecase),
		stripeHandler:   handlers.NewStripeHandler(payoutUsecase, complianceUsecase, checkoutUsecase, webhookUsecase),
		billingHandler:  handlers.NewBillingHandler(scheduledUsecase),
		healthHandler:   handlers.NewHealthHandler(checks),
		authMiddleware:  middleware.AuthMiddleware(jwtService, reader),
		idempotency:     middleware.IdempotencyMiddleware(idemStore, cfg.Idempotency.TTL),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepJob := jobs.NewOrphanSweepJob(orphanUsecase, cfg.Jobs.OrphanSweepInterval, cfg.Jobs.OrphanSweepBatch)
	go sweepJob.Start(ctx)
	defer sweepJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Site.BaseURL)
	registerHealthRoutes(r, deps.healthHandler)
	registerAPIV1Routes(r, deps)

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(ctx, "Monthly Club backend starting", zap.String("port", cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(srv) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
