package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/domain/promo"
	"github.com/artpar/billgate/ports"
)

// PromoService validates and redeems promo codes.
type PromoService struct {
	promos  ports.PromoStore
	clock   ports.Clock
	idGen   ports.IDGenerator
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewPromoService creates a new promo service.
func NewPromoService(
	promos ports.PromoStore,
	clock ports.Clock,
	idGen ports.IDGenerator,
	m *metrics.Collector,
	logger zerolog.Logger,
) *PromoService {
	return &PromoService{
		promos:  promos,
		clock:   clock,
		idGen:   idGen,
		metrics: m,
		logger:  logger,
	}
}

// Redemption is the outcome of a redeem or preview call.
type Redemption struct {
	Valid    bool
	Reason   string
	Discount int64 // minor units
}

// Preview evaluates a code for a customer without recording usage.
func (s *PromoService) Preview(ctx context.Context, code, customerID string, amount int64) (Redemption, error) {
	c, history, err := s.load(ctx, code, customerID)
	if err != nil {
		return Redemption{}, err
	}

	result := promo.Validate(c, customerID, s.clock.Now(), history)
	if !result.Valid {
		return Redemption{Reason: result.Reason}, nil
	}
	return Redemption{Valid: true, Discount: promo.Discount(*c, amount)}, nil
}

// Redeem evaluates a code and, when valid, records the usage and bumps
// the code's redemption count.
func (s *PromoService) Redeem(ctx context.Context, code, customerID string, amount int64, currency string) (Redemption, error) {
	c, history, err := s.load(ctx, code, customerID)
	if err != nil {
		return Redemption{}, err
	}

	now := s.clock.Now()
	result := promo.Validate(c, customerID, now, history)
	if !result.Valid {
		s.metrics.PromoRejections.WithLabelValues(result.Reason).Inc()
		s.logger.Info().
			Str("code", code).
			Str("customer_id", customerID).
			Str("reason", result.Reason).
			Msg("promo code rejected")
		return Redemption{Reason: result.Reason}, nil
	}

	discount := promo.Discount(*c, amount)
	usage := promo.Usage{
		ID:             s.idGen.New(),
		PromoCodeID:    c.ID,
		CustomerID:     customerID,
		DiscountAmount: discount,
		Currency:       currency,
		CreatedAt:      now,
	}
	if err := s.promos.RecordUsage(ctx, usage); err != nil {
		s.logger.Error().Err(err).
			Str("code", code).
			Str("customer_id", customerID).
			Msg("failed to record promo usage")
		return Redemption{}, err
	}

	updated := *c
	updated.UsedCount++
	if err := s.promos.Update(ctx, updated); err != nil {
		// The usage record is the source of truth; a lost counter bump is
		// logged and repaired by the next successful update.
		s.logger.Error().Err(err).
			Str("code", code).
			Msg("failed to bump promo used count")
	}

	s.metrics.PromoRedemptions.WithLabelValues(c.Code).Inc()
	s.logger.Info().
		Str("code", code).
		Str("customer_id", customerID).
		Int64("discount", discount).
		Msg("promo code redeemed")
	return Redemption{Valid: true, Discount: discount}, nil
}

func (s *PromoService) load(ctx context.Context, code, customerID string) (*promo.Code, []promo.Usage, error) {
	history, err := s.promos.UsageByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			// Validate treats a nil code as "not found".
			return nil, history, nil
		}
		return nil, nil, err
	}
	return &c, history, nil
}
