package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names an optional YAML file loaded beneath the environment
const ConfigFileEnv = "CONFIG_FILE"

// sections lists the env prefixes mapped into koanf. SECTION_FIELD_NAME
// becomes section.field_name. Empty values and other variables are ignored.
var sections = map[string]bool{
	"server":      true,
	"db":          true,
	"redis":       true,
	"jwt":         true,
	"session":     true,
	"stripe":      true,
	"site":        true,
	"nats":        true,
	"jobs":        true,
	"idempotency": true,
}

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Session     SessionConfig
	Stripe      StripeConfig
	Site        SiteConfig
	NATS        NATSConfig
	Jobs        JobsConfig
	Idempotency IdempotencyConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds Redis configuration. An empty URL disables redis backed
// features (sessions and idempotency keys).
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SessionConfig holds cookie session settings
type SessionConfig struct {
	EncryptionKey string
	TTL           time.Duration
}

// StripeConfig holds payment processor settings
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	Currency       string
	AccountCountry string
	// APIURL overrides the processor endpoint, used against local mocks
	APIURL string
}

// SiteConfig holds the public site settings used to build redirect URLs
type SiteConfig struct {
	BaseURL string
}

// NATSConfig holds event bus settings. An empty URL disables publishing.
type NATSConfig struct {
	URL  string
	Name string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	OrphanSweepInterval time.Duration
	OrphanSweepBatch    int
}

// IdempotencyConfig holds idempotency key settings
type IdempotencyConfig struct {
	TTL time.Duration
}

// Load reads configuration from the optional CONFIG_FILE YAML document and
// then the environment, which takes precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{TransformFunc: envKey}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getString(k, "server.port", "8080"),
			Env:      getString(k, "server.env", "development"),
			LogLevel: getString(k, "server.log_level", ""),
		},
		Database: DatabaseConfig{
			Host:         getString(k, "db.host", "localhost"),
			Port:         getInt(k, "db.port", 5432),
			User:         getString(k, "db.user", "postgres"),
			Password:     getString(k, "db.password", "postgres"),
			DBName:       getString(k, "db.name", "monthly_club"),
			SSLMode:      getString(k, "db.sslmode", "disable"),
			MaxOpenConns: getInt(k, "db.max_open_conns", 20),
		},
		Redis: RedisConfig{
			URL:      getString(k, "redis.url", "redis://localhost:6379"),
			Password: getString(k, "redis.password", ""),
		},
		JWT: JWTConfig{
			Secret:        getString(k, "jwt.secret", "change-this-in-production"),
			AccessExpiry:  getDuration(k, "jwt.access_expiry", 15*time.Minute),
			RefreshExpiry: getDuration(k, "jwt.refresh_expiry", 7*24*time.Hour),
		},
		Session: SessionConfig{
			EncryptionKey: getString(k, "session.encryption_key", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			TTL:           getDuration(k, "session.ttl", 24*time.Hour),
		},
		Stripe: StripeConfig{
			SecretKey:      getString(k, "stripe.secret_key", ""),
			WebhookSecret:  getString(k, "stripe.webhook_secret", ""),
			Currency:       strings.ToLower(getString(k, "stripe.currency", "usd")),
			AccountCountry: strings.ToUpper(getString(k, "stripe.account_country", "US")),
			APIURL:         getString(k, "stripe.api_url", ""),
		},
		Site: SiteConfig{
			BaseURL: strings.TrimRight(getString(k, "site.base_url", "http://localhost:3000"), "/"),
		},
		NATS: NATSConfig{
			URL:  getString(k, "nats.url", ""),
			Name: getString(k, "nats.name", "monthly-club-backend"),
		},
		Jobs: JobsConfig{
			OrphanSweepInterval: getDuration(k, "jobs.orphan_sweep_interval", 10*time.Minute),
			OrphanSweepBatch:    getInt(k, "jobs.orphan_sweep_batch", 50),
		},
		Idempotency: IdempotencyConfig{
			TTL: getDuration(k, "idempotency.ttl", 24*time.Hour),
		},
	}
	return cfg, nil
}

// Validate reports settings that must be present before serving traffic
func (c *Config) Validate() error {
	var errs []error
	if c.Stripe.SecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is required"))
	}
	if _, err := url.ParseRequestURI(c.Site.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("SITE_BASE_URL is invalid: %w", err))
	}
	if c.Server.Env == "production" {
		if c.Stripe.WebhookSecret == "" {
			errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required in production"))
		}
		if c.JWT.Secret == "change-this-in-production" {
			errs = append(errs, errors.New("JWT_SECRET must be set in production"))
		}
	}
	return errors.Join(errs...)
}

func envKey(k, v string) (string, any) {
	lower := strings.ToLower(k)
	section, field, ok := strings.Cut(lower, "_")
	if !ok || field == "" || !sections[section] || v == "" {
		return "", nil
	}
	return section + "." + field, v
}

func getString(k *koanf.Koanf, key, defaultValue string) string {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(k *koanf.Koanf, key string, defaultValue int) int {
	if value := k.String(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDuration(k *koanf.Koanf, key string, defaultValue time.Duration) time.Duration {
	if value := k.String(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return duration
		}
	}
	return defaultValue
}
