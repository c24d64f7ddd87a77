// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address of the purchase API (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health service (e.g. :9090).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is a Postgres DSN (postgres://...) or sqlite://path for the local visitor database.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL enables Redis-backed sessions (redis://host:6379/0). Empty keeps sessions in memory.
	RedisURL string `mapstructure:"REDIS_URL"`
	// SessionTTL is the purchase session lifetime (e.g. "12h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// ParkRulesFile is an optional YAML file overriding open days, prices and ticket bounds.
	ParkRulesFile string `mapstructure:"PARK_RULES_FILE"`
	// BcryptCost is the bcrypt cost factor (4–31) used when seeding visitor passwords.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// EmailTransport is "smtp" or "ses".
	EmailTransport string `mapstructure:"EMAIL_TRANSPORT"`
	// EmailSender is the From address of receipts; with EmailPassword it is also the SMTP login.
	EmailSender   string `mapstructure:"EMAIL_SENDER"`
	EmailPassword string `mapstructure:"EMAIL_PASSWORD"`
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	// SimulateEmail logs receipts instead of failing when sender credentials are missing.
	// Must not be true when Env is production.
	SimulateEmail bool `mapstructure:"SIMULATE_EMAIL"`

	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`

	// KafkaBrokers is a comma-separated list of Kafka brokers (e.g. "localhost:9092"). When set, the
	// server also publishes purchase events to PurchaseEventsTopic.
	KafkaBrokers        string `mapstructure:"KAFKA_BROKERS"`
	PurchaseEventsTopic string `mapstructure:"PURCHASE_EVENTS_TOPIC"`
	// Worker-only: consumer group and Loki URL for the purchase events worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	LokiURL      string `mapstructure:"LOKI_URL"`

	// OTLPEndpoint is the OTLP gRPC collector (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "sqlite://ecoharmony.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("PARK_RULES_FILE", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("EMAIL_TRANSPORT", "smtp")
	v.SetDefault("EMAIL_SENDER", "")
	v.SetDefault("EMAIL_PASSWORD", "")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SIMULATE_EMAIL", true)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PURCHASE_EVENTS_TOPIC", "ecoharmony-purchases")
	v.SetDefault("KAFKA_GROUP_ID", "ecoharmony-purchases-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL must be set")
	}

	if cfg.SimulateEmail && cfg.Env == "production" {
		return nil, errors.New("config: SIMULATE_EMAIL must not be true when APP_ENV=production")
	}

	cfg.EmailTransport = strings.ToLower(strings.TrimSpace(cfg.EmailTransport))
	if cfg.EmailTransport != "smtp" && cfg.EmailTransport != "ses" {
		return nil, fmt.Errorf("config: EMAIL_TRANSPORT must be smtp or ses, got %q", cfg.EmailTransport)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return nil, errors.New("config: SMTP_PORT must be between 1 and 65535")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if _, err := time.ParseDuration(cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("config: SESSION_TTL: %w", err)
	}

	return &cfg, nil
}

// SessionLifetime parses SessionTTL as a time.Duration. Returns 12h if unset or invalid.
func (c *Config) SessionLifetime() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// KafkaBrokersList returns KafkaBrokers split on commas, trimmed, without empty entries.
func (c *Config) KafkaBrokersList() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
