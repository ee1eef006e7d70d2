package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/domain/dunning"
	"github.com/artpar/billgate/domain/payment"
	"github.com/artpar/billgate/ports"
)

// DunningService derives retry state from payment history and sends
// grace-period warnings. Retry state is never stored: it is recomputed
// from the payment record on every call.
type DunningService struct {
	payments  ports.PaymentStore
	customers ports.CustomerStore
	email     ports.EmailSender
	clock     ports.Clock
	cfg       dunning.RetryConfig
	metrics   *metrics.Collector
	logger    zerolog.Logger

	mu     sync.Mutex
	warned map[string][]int // customer id -> warning thresholds already sent
}

// NewDunningService creates a new dunning service.
func NewDunningService(
	payments ports.PaymentStore,
	customers ports.CustomerStore,
	email ports.EmailSender,
	clock ports.Clock,
	cfg dunning.RetryConfig,
	m *metrics.Collector,
	logger zerolog.Logger,
) *DunningService {
	return &DunningService{
		payments:  payments,
		customers: customers,
		email:     email,
		clock:     clock,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
		warned:    make(map[string][]int),
	}
}

// RecordAttempt stores a payment attempt. A successful attempt clears any
// pending grace warnings for the customer.
func (s *DunningService) RecordAttempt(ctx context.Context, p payment.Payment) error {
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).
			Str("payment_id", p.ID).
			Str("customer_id", p.CustomerID).
			Msg("failed to record payment attempt")
		return err
	}

	s.metrics.PaymentAttempts.WithLabelValues(string(p.Status)).Inc()

	switch {
	case p.IsSettled():
		s.mu.Lock()
		delete(s.warned, p.CustomerID)
		s.mu.Unlock()
		s.logger.Info().
			Str("payment_id", p.ID).
			Str("customer_id", p.CustomerID).
			Msg("payment settled, retry streak cleared")
	case p.IsFailed():
		s.logger.Warn().
			Str("payment_id", p.ID).
			Str("customer_id", p.CustomerID).
			Str("failure_code", p.FailureCode).
			Msg("payment attempt failed")
	}
	return nil
}

// RetryState derives the current retry state for a customer. Returns nil
// when the customer has no trailing failure streak.
func (s *DunningService) RetryState(ctx context.Context, customerID string) (*dunning.RetryState, error) {
	history, err := s.payments.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return dunning.GetRetryState(history, s.cfg, s.clock.Now()), nil
}

// ProcessGraceWarnings sends at most one warning email per configured
// threshold while a customer is inside the grace period.
func (s *DunningService) ProcessGraceWarnings(ctx context.Context, customerID string) error {
	state, err := s.RetryState(ctx, customerID)
	if err != nil {
		return err
	}
	if state == nil {
		s.mu.Lock()
		delete(s.warned, customerID)
		s.mu.Unlock()
		return nil
	}

	if state.GraceExpired {
		s.metrics.GraceExpirations.Inc()
		s.logger.Warn().
			Str("customer_id", customerID).
			Msg("grace period expired")
		return nil
	}

	s.mu.Lock()
	already := append([]int(nil), s.warned[customerID]...)
	s.mu.Unlock()

	if !dunning.ShouldSendGraceWarning(state.GraceDaysRemaining, s.cfg, already) {
		return nil
	}

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return err
	}

	msg := ports.EmailMessage{
		To:      customer.Email,
		Subject: "Action required: your payment could not be processed",
		Body: fmt.Sprintf(
			"We were unable to process your payment. Your service will be suspended in %d day(s) unless payment succeeds.",
			state.GraceDaysRemaining,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).
			Str("customer_id", customerID).
			Msg("failed to send grace warning")
		return err
	}

	s.mu.Lock()
	s.warned[customerID] = append(s.warned[customerID], state.GraceDaysRemaining)
	s.mu.Unlock()

	s.metrics.GraceWarnings.Inc()
	s.logger.Info().
		Str("customer_id", customerID).
		Int("days_remaining", state.GraceDaysRemaining).
		Msg("grace warning sent")
	return nil
}
