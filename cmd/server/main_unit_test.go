package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"monthly-club.backend/internal/config"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/infrastructure/messaging"
	plog "monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/redis"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origConnectRedis := connectRedis
	origOpenDB := openDB
	origNewPublisher := newPublisher
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		connectRedis = origConnectRedis
		openDB = origOpenDB
		newPublisher = origNewPublisher
		runServer = origRunServer
	})

	loadDotenv = func(...string) error { return nil }
	initLog = plog.Init
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "monthly_club",
			SSLMode:  "disable",
		},
		JWT: config.JWTConfig{
			Secret:        "secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Session: config.SessionConfig{
			EncryptionKey: "0000000000000000000000000000000000000000000000000000000000000000",
			TTL:           time.Hour,
		},
		Stripe: config.StripeConfig{
			SecretKey: "sk_test_123",
			Currency:  "usd",
		},
		Site:        config.SiteConfig{BaseURL: "http://localhost:3000"},
		Jobs:        config.JobsConfig{OrphanSweepInterval: time.Hour, OrphanSweepBatch: 10},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
	}
}

func sqliteDB(name string) func(config.DatabaseConfig) (*gorm.DB, error) {
	return func(config.DatabaseConfig) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	}
}

func TestRunMainProcess_ConfigLoadError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) { return nil, errors.New("bad yaml") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected config error")
	}
}

func TestRunMainProcess_InvalidConfig(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) {
		cfg := baseTestConfig()
		cfg.Stripe.SecretKey = ""
		return cfg, nil
	}

	if err := runMainProcess(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) { return baseTestConfig(), nil }
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) {
		cfg := baseTestConfig()
		cfg.Redis.URL = "redis://127.0.0.1:1"
		return cfg, nil
	}
	openDB = sqliteDB("main_redis_err")
	connectRedis = func(context.Context, string, string) (*redis.Store, error) {
		return nil, errors.New("redis down")
	}

	if err := runMainProcess(); err == nil {
		t.Fatal("expected redis init error")
	}
}

func TestRunMainProcess_PublisherError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) { return baseTestConfig(), nil }
	openDB = sqliteDB("main_publisher_err")
	newPublisher = func(config.NATSConfig) (gateways.EventPublisher, func() error, error) {
		return nil, nil, errors.New("nats unreachable")
	}

	if err := runMainProcess(); err == nil {
		t.Fatal("expected publisher error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) { return baseTestConfig(), nil }
	openDB = sqliteDB("main_server_err")
	runServer = func(*http.Server) error { return errors.New("listen failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_SuccessPathWithRedis(t *testing.T) {
	withMainHooks(t)

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis not available in this environment: %v", err)
	}
	defer srv.Close()

	loadCfg = func() (*config.Config, error) {
		cfg := baseTestConfig()
		cfg.Redis.URL = "redis://" + srv.Addr()
		return cfg, nil
	}
	openDB = sqliteDB("main_success")
	closed := false
	newPublisher = func(config.NATSConfig) (gateways.EventPublisher, func() error, error) {
		return messaging.NoopPublisher{}, func() error { closed = true; return nil }, nil
	}

	var addr string
	runServer = func(s *http.Server) error {
		addr = s.Addr
		return http.ErrServerClosed
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != ":18080" {
		t.Fatalf("unexpected listen address %q", addr)
	}
	if !closed {
		t.Fatal("expected publisher to be closed on exit")
	}
}

func TestMainProcess_ExitsOnInvalidConfig(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") == "1" {
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMainProcess_ExitsOnInvalidConfig")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"SERVER_ENV=development",
		"STRIPE_SECRET_KEY=",
	)

	if err := cmd.Run(); err == nil {
		t.Fatalf("expected helper process to exit with error")
	}
}
