// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artpar/billgate/domain/dunning"
	"github.com/artpar/billgate/domain/invoice"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Billing  BillingConfig  `yaml:"billing"`
	Invoice  InvoiceConfig  `yaml:"invoice"`
	Retry    RetryConfig    `yaml:"retry"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	DSN    string `yaml:"dsn"`
}

// BillingConfig configures currency, tax, and the payment provider.
type BillingConfig struct {
	Currency string  `yaml:"currency"` // lowercase ISO 4217, e.g. "usd"
	TaxRate  float64 `yaml:"tax_rate"` // percent applied to the pre-discount subtotal
	Provider string  `yaml:"provider"` // "none", "dummy"
	BaseURL  string  `yaml:"base_url"` // used by the dummy provider for redirects
}

// InvoiceConfig configures invoice numbering and payment terms.
type InvoiceConfig struct {
	NumberPrefix string `yaml:"number_prefix"`
	TenantPrefix string `yaml:"tenant_prefix"`
	IncludeYear  bool   `yaml:"include_year"`
	PadDigits    int    `yaml:"pad_digits"`
	DueInDays    int    `yaml:"due_in_days"`
}

// RetryConfig configures the payment retry and grace-period policy.
type RetryConfig struct {
	MaxAttempts     int   `yaml:"max_attempts"`
	GracePeriodDays int   `yaml:"grace_period_days"`
	RetryIntervals  []int `yaml:"retry_intervals"` // days after first failure
	WarningDays     []int `yaml:"warning_days"`    // days-remaining thresholds
}

// CheckoutConfig configures checkout session behavior.
type CheckoutConfig struct {
	SessionTTL      time.Duration `yaml:"session_ttl"`
	RequireCustomer bool          `yaml:"require_customer"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// NumberConfig converts the invoice section to the domain number format.
func (c InvoiceConfig) NumberConfig() invoice.NumberConfig {
	return invoice.NumberConfig{
		Prefix:       c.NumberPrefix,
		TenantPrefix: c.TenantPrefix,
		IncludeYear:  c.IncludeYear,
		PadDigits:    c.PadDigits,
	}
}

// DomainConfig converts the retry section to the domain retry policy.
func (c RetryConfig) DomainConfig() dunning.RetryConfig {
	return dunning.RetryConfig{
		MaxAttempts:     c.MaxAttempts,
		GracePeriodDays: c.GracePeriodDays,
		RetryIntervals:  c.RetryIntervals,
		WarningDays:     c.WarningDays,
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This is useful for Docker deployments where no config file is needed.
//
// Environment variables:
//
//	BILLGATE_DATABASE_DSN      - Database path (default: billgate.db)
//	BILLGATE_SERVER_HOST       - Server host (default: 0.0.0.0)
//	BILLGATE_SERVER_PORT       - Server port (default: 8080)
//	BILLGATE_BILLING_CURRENCY  - Currency code (default: usd)
//	BILLGATE_BILLING_PROVIDER  - Payment provider: none or dummy (default: none)
//	BILLGATE_LOG_LEVEL         - Log level: debug, info, warn, error (default: info)
//	BILLGATE_LOG_FORMAT        - Log format: json or console (default: json)
//	BILLGATE_METRICS_ENABLED   - Enable /metrics endpoint (default: true)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falling back to environment
// variables when no file exists at path.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// HasEnvConfig reports whether any BILLGATE_* environment variable is set.
func HasEnvConfig() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "BILLGATE_") {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies BILLGATE_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("BILLGATE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("BILLGATE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BILLGATE_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("BILLGATE_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Database configuration
	if v := os.Getenv("BILLGATE_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("BILLGATE_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	// Billing configuration
	if v := os.Getenv("BILLGATE_BILLING_CURRENCY"); v != "" {
		cfg.Billing.Currency = v
	}
	if v := os.Getenv("BILLGATE_BILLING_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Billing.TaxRate = rate
		}
	}
	if v := os.Getenv("BILLGATE_BILLING_PROVIDER"); v != "" {
		cfg.Billing.Provider = v
	}
	if v := os.Getenv("BILLGATE_BILLING_BASE_URL"); v != "" {
		cfg.Billing.BaseURL = v
	}

	// Checkout configuration
	if v := os.Getenv("BILLGATE_CHECKOUT_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Checkout.SessionTTL = d
		}
	}
	if v := os.Getenv("BILLGATE_CHECKOUT_REQUIRE_CUSTOMER"); v != "" {
		cfg.Checkout.RequireCustomer = parseBool(v)
	}

	// Logging configuration
	if v := os.Getenv("BILLGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BILLGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("BILLGATE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("BILLGATE_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "billgate.db"
	}

	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "usd"
	}
	if cfg.Billing.Provider == "" {
		cfg.Billing.Provider = "none"
	}

	if cfg.Invoice.NumberPrefix == "" {
		cfg.Invoice.NumberPrefix = "INV"
	}
	if cfg.Invoice.PadDigits == 0 {
		cfg.Invoice.PadDigits = 6
	}
	if cfg.Invoice.DueInDays == 0 {
		cfg.Invoice.DueInDays = 14
	}

	def := dunning.DefaultRetryConfig()
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.MaxAttempts
	}
	if cfg.Retry.GracePeriodDays == 0 {
		cfg.Retry.GracePeriodDays = def.GracePeriodDays
	}
	if len(cfg.Retry.RetryIntervals) == 0 {
		cfg.Retry.RetryIntervals = def.RetryIntervals
	}
	if len(cfg.Retry.WarningDays) == 0 {
		cfg.Retry.WarningDays = def.WarningDays
	}

	if cfg.Checkout.SessionTTL == 0 {
		cfg.Checkout.SessionTTL = 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	validDrivers := map[string]bool{"sqlite": true, "memory": true}
	if !validDrivers[cfg.Database.Driver] {
		return fmt.Errorf("database.driver must be 'sqlite' or 'memory', got %q", cfg.Database.Driver)
	}

	if len(cfg.Billing.Currency) != 3 {
		return fmt.Errorf("billing.currency must be a 3-letter code, got %q", cfg.Billing.Currency)
	}
	if cfg.Billing.TaxRate < 0 || cfg.Billing.TaxRate > 100 {
		return fmt.Errorf("billing.tax_rate must be between 0 and 100, got %v", cfg.Billing.TaxRate)
	}

	validProviders := map[string]bool{"none": true, "dummy": true, "test": true}
	if !validProviders[cfg.Billing.Provider] {
		return fmt.Errorf("billing.provider must be one of: none, dummy, test")
	}

	if cfg.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts cannot be negative")
	}
	if cfg.Retry.GracePeriodDays < 0 {
		return fmt.Errorf("retry.grace_period_days cannot be negative")
	}
	for i, d := range cfg.Retry.RetryIntervals {
		if d <= 0 {
			return fmt.Errorf("retry.retry_intervals[%d] must be positive", i)
		}
		if i > 0 && d < cfg.Retry.RetryIntervals[i-1] {
			return fmt.Errorf("retry.retry_intervals must be non-decreasing")
		}
	}
	for i, d := range cfg.Retry.WarningDays {
		if d <= 0 {
			return fmt.Errorf("retry.warning_days[%d] must be positive", i)
		}
	}

	if cfg.Checkout.SessionTTL < 0 {
		return fmt.Errorf("checkout.session_ttl cannot be negative")
	}

	return nil
}
