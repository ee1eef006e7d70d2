// Package payment provides payment provider adapters implementing
// ports.PaymentProvider.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/artpar/billgate/domain/checkout"
)

// DummyProvider is a test/demo payment provider that simulates successful
// payments. Use this for development and demos when real payment
// credentials aren't available.
type DummyProvider struct {
	baseURL string
}

// NewDummyProvider creates a new dummy payment provider.
func NewDummyProvider(baseURL string) *DummyProvider {
	return &DummyProvider{baseURL: baseURL}
}

// Name returns the provider name.
func (p *DummyProvider) Name() string {
	return "dummy"
}

// CreateCustomer simulates creating a customer and returns a fake customer ID.
func (p *DummyProvider) CreateCustomer(ctx context.Context, email, name, customerID string) (string, error) {
	return fmt.Sprintf("cus_dummy_%s", shortID(customerID)), nil
}

// CreateCheckoutSession simulates checkout by redirecting directly to the
// success URL. This allows testing the full purchase flow without real payment.
func (p *DummyProvider) CreateCheckoutSession(ctx context.Context, s checkout.Session) (string, string, error) {
	sessionID := fmt.Sprintf("cs_dummy_%s", uuid.New().String()[:8])
	redirect := checkout.AppendSessionID(s.SuccessURL, s.ID)
	return sessionID, redirect, nil
}

// CreatePayout simulates a successful vendor disbursement.
func (p *DummyProvider) CreatePayout(ctx context.Context, providerAccountID string, amount int64, currency string) (string, error) {
	return fmt.Sprintf("po_dummy_%s", uuid.New().String()[:8]), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
