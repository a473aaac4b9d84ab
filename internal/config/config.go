package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration, loaded once at startup and
// injected into components. Secrets held here are never mutated or logged.
type Config struct {
	Environment string
	Server      ServerConfig
	Stripe      StripeConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Webhook     WebhookConfig
	Currency    string
}

type ServerConfig struct {
	Port int
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	APIVersion     string
	BaseURL        string
}

type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type WebhookConfig struct {
	ToleranceSeconds int
	RetentionHours   int
}

var (
	ErrMissingSecretKey      = errors.New("missing_stripe_secret_key")
	ErrMissingPublishableKey = errors.New("missing_stripe_publishable_key")
	ErrMissingWebhookSecret  = errors.New("missing_stripe_webhook_secret")
)

// Load reads configuration from the environment (and a local .env file when
// present). Missing required secrets fail startup, not individual requests.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", 3000)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STRIPE_API_VERSION", "2020-08-27")
	v.SetDefault("STRIPE_BASE_URL", "https://api.stripe.com")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "paybridge.db")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("WEBHOOK_TOLERANCE_SECONDS", 300)
	v.SetDefault("WEBHOOK_RETENTION_HOURS", 72)
	v.SetDefault("CURRENCY", "mxn")

	cfg := Config{
		Environment: v.GetString("ENVIRONMENT"),
		Server: ServerConfig{
			Port: v.GetInt("PORT"),
		},
		Stripe: StripeConfig{
			SecretKey:      strings.TrimSpace(v.GetString("STRIPE_SECRET_KEY")),
			PublishableKey: strings.TrimSpace(v.GetString("STRIPE_PUBLISHABLE_KEY")),
			WebhookSecret:  strings.TrimSpace(v.GetString("STRIPE_WEBHOOK_SECRET")),
			APIVersion:     v.GetString("STRIPE_API_VERSION"),
			BaseURL:        strings.TrimRight(v.GetString("STRIPE_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DSN:    v.GetString("DB_DSN"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Webhook: WebhookConfig{
			ToleranceSeconds: v.GetInt("WEBHOOK_TOLERANCE_SECONDS"),
			RetentionHours:   v.GetInt("WEBHOOK_RETENTION_HOURS"),
		},
		Currency: strings.ToLower(strings.TrimSpace(v.GetString("CURRENCY"))),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Stripe.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Stripe.PublishableKey == "" {
		return ErrMissingPublishableKey
	}
	if c.Stripe.WebhookSecret == "" {
		return ErrMissingWebhookSecret
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid_port: %d", c.Server.Port)
	}
	if c.Webhook.ToleranceSeconds <= 0 {
		return fmt.Errorf("invalid_webhook_tolerance: %d", c.Webhook.ToleranceSeconds)
	}
	if c.Currency == "" {
		return errors.New("missing_currency")
	}
	return nil
}
