package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string
	Secure   bool

	CookieDomain string
	CORSOrigins  []string

	Platform PlatformConfig
	Stripe   StripeConfig
	Email    EmailConfig
	Sentry   SentryConfig
}

// PlatformConfig points at the commerce platform that owns carts, orders,
// catalog, and customers.
type PlatformConfig struct {
	// APIBaseURL is the platform's store API root, e.g. "https://commerce.strandluxe.com"
	APIBaseURL string

	// PublishableKey scopes store API requests to the sales channel
	PublishableKey string

	// RegionID pins pricing to one region. Empty means the platform's
	// first region is used.
	RegionID string
}

type StripeConfig struct {
	SecretKey string
}

type EmailConfig struct {
	Host      string
	Port      uint16
	Username  string
	Password  string
	From      string
	StoreName string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:          getEnv("ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvInt("PORT", 3000),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		Secure:       getEnvBool("SECURE_COOKIES", false),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Platform: PlatformConfig{
			APIBaseURL:     getEnv("PLATFORM_API_URL", "http://localhost:9000"),
			PublishableKey: getEnv("PLATFORM_PUBLISHABLE_KEY", ""),
			RegionID:       getEnv("PLATFORM_REGION_ID", ""),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", "sk_test_your_key_here"),
		},
		Email: EmailConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnvInt("SMTP_PORT", 1025),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			From:      getEnv("SMTP_FROM", "orders@strandluxe.local"),
			StoreName: getEnv("EMAIL_STORE_NAME", "Strand Luxe"),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false),
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" {
		if cfg.Platform.PublishableKey == "" {
			return nil, fmt.Errorf("PLATFORM_PUBLISHABLE_KEY must be set in production")
		}
		if cfg.Stripe.SecretKey == "" || cfg.Stripe.SecretKey == "sk_test_your_key_here" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY must be set in production")
		}
		if !cfg.Secure {
			slog.Default().Warn("SECURE_COOKIES disabled in production")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
