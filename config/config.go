package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// SESConfig holds AWS SES settings for the notification adapter.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// NotifierConfig holds settings for the join-notification adapter.
type NotifierConfig struct {
	Provider        string
	FromAddress     string
	FromName        string
	RecipientDomain string
	SES             SESConfig
}

// Config holds all configuration for the application.
type Config struct {
	Environment string
	Port        string

	// MongoURI is the store connection string. It has no default: when it
	// is empty the server starts in store-not-configured mode and every
	// event endpoint answers a fixed 500 without touching the store.
	MongoURI              string
	MongoDBName           string
	MongoEventsCollection string
	MongoTLSAllowInvalid  bool

	CORSAllowedOrigins []string

	Notifier NotifierConfig
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist; rely on system environment
	// variables and only warn.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:           env,
		Port:                  os.Getenv("PORT"),
		MongoURI:              os.Getenv("MONGODB_URI"),
		MongoDBName:           os.Getenv("MONGODB_DB_NAME"),
		MongoEventsCollection: os.Getenv("MONGODB_COLLECTION_EVENTS"),
		MongoTLSAllowInvalid:  os.Getenv("MONGODB_TLS_ALLOW_INVALID_CERTS") == "true",
		CORSAllowedOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Notifier: NotifierConfig{
			Provider:        os.Getenv("NOTIFIER_PROVIDER"),
			FromAddress:     os.Getenv("NOTIFY_FROM_ADDRESS"),
			FromName:        os.Getenv("NOTIFY_FROM_NAME"),
			RecipientDomain: os.Getenv("NOTIFY_RECIPIENT_DOMAIN"),
			SES: SESConfig{
				Region:             os.Getenv("AWS_REGION"),
				AccessKeyID:        os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
				InsecureSkipVerify: os.Getenv("NOTIFY_TLS_SKIP_VERIFY") == "true",
			},
		},
	}

	// Defaults. MongoURI deliberately has none.
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoDBName == "" {
		cfg.MongoDBName = "i-am-in"
	}
	if cfg.MongoEventsCollection == "" {
		cfg.MongoEventsCollection = "events"
	}
	if cfg.Notifier.Provider == "" {
		cfg.Notifier.Provider = "noop"
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StoreConfigured reports whether a store connection string is present.
func (c *Config) StoreConfigured() bool {
	return c.MongoURI != ""
}
