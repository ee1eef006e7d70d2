package payment

import (
	"fmt"

	"github.com/artpar/billgate/ports"
)

// Config selects and configures a payment provider.
type Config struct {
	Provider string
	BaseURL  string
}

// NewProvider creates a payment provider from config.
func NewProvider(cfg Config) (ports.PaymentProvider, error) {
	switch cfg.Provider {
	case "dummy", "test":
		// Dummy provider for development/testing - simulates successful payments
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}
		return NewDummyProvider(baseURL), nil

	case "none", "":
		return NewNoopProvider(), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}
