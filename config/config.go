package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port               string
	Environment        string
	PostgresUser       string
	PostgresPassword   string
	PostgresDB         string
	PostgresHost       string
	PostgresPort       string
	PostgresSSLMode    string
	PostgresTimeZone   string
	RedisURL           string
	StripeSecretKey    string
	StripeWebhookKey   string
	JWTSecret          string
	FrontendURL        string
	PaymentSNSTopicARN string // optional; empty disables event publishing
	DraftTTL           time.Duration
	ReconcileInterval  time.Duration
	ReconcileCutoff    time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		PostgresUser:       os.Getenv("POSTGRES_USER"),
		PostgresPassword:   os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:         os.Getenv("POSTGRES_DB"),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:   getEnv("POSTGRES_TIMEZONE", "UTC"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StripeSecretKey:    os.Getenv("STRIPE_API_KEY"),
		StripeWebhookKey:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		PaymentSNSTopicARN: os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		DraftTTL:           getDurationEnv("DRAFT_TTL", 24*time.Hour),
		ReconcileInterval:  getDurationEnv("RECONCILE_INTERVAL", 10*time.Minute),
		ReconcileCutoff:    getDurationEnv("RECONCILE_CUTOFF", 30*time.Minute),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("missing required Postgres environment variables")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" {
		return nil, fmt.Errorf("missing required Stripe environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
