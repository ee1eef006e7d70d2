package payment

import (
	"context"
	"errors"

	"github.com/artpar/billgate/domain/checkout"
)

var (
	// ErrPaymentsDisabled is returned when payments are not configured.
	ErrPaymentsDisabled = errors.New("payments are not configured")
)

// NoopProvider is a no-op payment provider for when payments are disabled.
type NoopProvider struct{}

// NewNoopProvider creates a new no-op payment provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (p *NoopProvider) Name() string {
	return "none"
}

// CreateCustomer returns an error as payments are disabled.
func (p *NoopProvider) CreateCustomer(ctx context.Context, email, name, customerID string) (string, error) {
	return "", ErrPaymentsDisabled
}

// CreateCheckoutSession returns an error as payments are disabled.
func (p *NoopProvider) CreateCheckoutSession(ctx context.Context, s checkout.Session) (string, string, error) {
	return "", "", ErrPaymentsDisabled
}

// CreatePayout returns an error as payments are disabled.
func (p *NoopProvider) CreatePayout(ctx context.Context, providerAccountID string, amount int64, currency string) (string, error) {
	return "", ErrPaymentsDisabled
}
