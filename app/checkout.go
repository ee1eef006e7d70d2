package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/ports"
)

// CheckoutService manages checkout sessions and their provider registration.
type CheckoutService struct {
	sessions ports.CheckoutStore
	provider ports.PaymentProvider
	clock    ports.Clock
	idGen    ports.IDGenerator
	inputCfg checkout.InputConfig
	ttl      time.Duration
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	sessions ports.CheckoutStore,
	provider ports.PaymentProvider,
	clock ports.Clock,
	idGen ports.IDGenerator,
	inputCfg checkout.InputConfig,
	ttl time.Duration,
	m *metrics.Collector,
	logger zerolog.Logger,
) *CheckoutService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CheckoutService{
		sessions: sessions,
		provider: provider,
		clock:    clock,
		idGen:    idGen,
		inputCfg: inputCfg,
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
	}
}

// Create validates checkout input, stores a session, and registers it
// with the payment provider. The provider's session id and redirect URL
// are recorded on the stored session. A provider failure expires the
// session so it cannot be completed later.
func (s *CheckoutService) Create(ctx context.Context, in checkout.Input) (checkout.Session, string, error) {
	if v := checkout.ValidateInput(in, s.inputCfg); !v.Valid {
		return checkout.Session{}, "", fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors[0])
	}

	now := s.clock.Now()
	session := checkout.Session{
		ID:            s.idGen.New(),
		CustomerID:    in.CustomerID,
		CustomerEmail: in.CustomerEmail,
		Mode:          in.Mode,
		Status:        checkout.StatusOpen,
		Currency:      in.Currency,
		LineItems:     in.LineItems,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
		ExpiresAt:     now.Add(s.ttl),
		CreatedAt:     now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("customer_id", in.CustomerID).Msg("failed to store checkout session")
		return checkout.Session{}, "", err
	}

	providerSessionID, redirectURL, err := s.provider.CreateCheckoutSession(ctx, session)
	if err != nil {
		s.logger.Error().Err(err).
			Str("session_id", session.ID).
			Str("provider", s.provider.Name()).
			Msg("provider rejected checkout session, expiring local session")

		// Compensation: the local session must not stay open without a
		// provider counterpart.
		expired := checkout.Expire(session)
		if rollbackErr := s.sessions.Update(ctx, expired); rollbackErr != nil {
			s.logger.Error().Err(rollbackErr).
				Str("session_id", session.ID).
				Msg("failed to expire session after provider failure")
		}
		return checkout.Session{}, "", err
	}

	session = checkout.WithProviderSession(session, s.provider.Name(), providerSessionID)
	if err := s.sessions.Update(ctx, session); err != nil {
		return checkout.Session{}, "", err
	}

	s.metrics.CheckoutSessions.WithLabelValues(string(session.Mode)).Inc()
	s.logger.Info().
		Str("session_id", session.ID).
		Str("provider", s.provider.Name()).
		Str("provider_session_id", providerSessionID).
		Msg("checkout session created")
	return session, redirectURL, nil
}

// AddItem adds a line item to an open session.
func (s *CheckoutService) AddItem(ctx context.Context, sessionID, priceID string, quantity int64) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session checkout.Session) checkout.Session {
		return checkout.AddItem(session, priceID, quantity)
	})
}

// RemoveItem removes a line item from an open session.
func (s *CheckoutService) RemoveItem(ctx context.Context, sessionID, priceID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session checkout.Session) checkout.Session {
		return checkout.RemoveItem(session, priceID)
	})
}

// UpdateQuantity changes a line item quantity on an open session.
func (s *CheckoutService) UpdateQuantity(ctx context.Context, sessionID, priceID string, quantity int64) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session checkout.Session) checkout.Session {
		return checkout.UpdateQuantity(session, priceID, quantity)
	})
}

// Complete marks an open, unexpired session as complete.
func (s *CheckoutService) Complete(ctx context.Context, sessionID, paymentID, subscriptionID string) (checkout.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return checkout.Session{}, err
	}
	if check := checkout.CanBeCompleted(session, s.clock.Now()); !check.Allowed {
		return checkout.Session{}, fmt.Errorf("%w: %s", ErrTransitionRejected, check.Reason)
	}

	completed, err := checkout.Complete(session, paymentID, subscriptionID, s.clock.Now())
	if err != nil {
		return checkout.Session{}, err
	}
	if err := s.sessions.Update(ctx, completed); err != nil {
		return checkout.Session{}, err
	}

	s.metrics.CheckoutCompleted.Inc()
	s.logger.Info().
		Str("session_id", completed.ID).
		Str("payment_id", paymentID).
		Msg("checkout session completed")
	return completed, nil
}

// ExpireStale sweeps open sessions past their expiry and returns the
// number expired.
func (s *CheckoutService) ExpireStale(ctx context.Context) (int, error) {
	open, err := s.sessions.ListOpen(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	expired := 0
	for _, session := range open {
		if checkout.IsOpen(session, now) {
			continue
		}
		if err := s.sessions.Update(ctx, checkout.Expire(session)); err != nil {
			s.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to expire session")
			continue
		}
		s.metrics.CheckoutExpired.Inc()
		expired++
	}

	if expired > 0 {
		s.logger.Info().Int("count", expired).Msg("expired stale checkout sessions")
	}
	return expired, nil
}

// Get retrieves a session.
func (s *CheckoutService) Get(ctx context.Context, sessionID string) (checkout.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *CheckoutService) mutate(ctx context.Context, sessionID string, fn func(checkout.Session) checkout.Session) (checkout.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return checkout.Session{}, err
	}
	if !checkout.IsOpen(session, s.clock.Now()) {
		return checkout.Session{}, fmt.Errorf("%w: session is not open", ErrTransitionRejected)
	}

	session = fn(session)
	if err := s.sessions.Update(ctx, session); err != nil {
		return checkout.Session{}, err
	}
	return session, nil
}
