package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/domain/commission"
	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/ports"
)

// PayoutService turns a vendor's gross revenue for a period into a
// disbursement: commission is split off, eligibility is checked against
// the vendor's minimum, and the remainder is sent through the payment
// provider.
type PayoutService struct {
	vendors  ports.VendorStore
	payouts  ports.PayoutStore
	provider ports.PaymentProvider
	clock    ports.Clock
	idGen    ports.IDGenerator
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewPayoutService creates a new payout service.
func NewPayoutService(
	vendors ports.VendorStore,
	payouts ports.PayoutStore,
	provider ports.PaymentProvider,
	clock ports.Clock,
	idGen ports.IDGenerator,
	m *metrics.Collector,
	logger zerolog.Logger,
) *PayoutService {
	return &PayoutService{
		vendors:  vendors,
		payouts:  payouts,
		provider: provider,
		clock:    clock,
		idGen:    idGen,
		metrics:  m,
		logger:   logger,
	}
}

// Disburse splits a vendor's gross revenue for a period and pays out the
// vendor share. The payout record moves pending -> processing -> paid; a
// provider failure leaves it failed with the message recorded.
func (s *PayoutService) Disburse(
	ctx context.Context,
	vendorID string,
	grossAmount int64,
	currency string,
	periodStart, periodEnd time.Time,
) (payout.Payout, error) {
	vendor, err := s.vendors.Get(ctx, vendorID)
	if err != nil {
		return payout.Payout{}, err
	}

	split := commission.CalculateSplit(grossAmount, commission.PlatformPercent(vendor.CommissionRate, nil), currency)

	check := payout.CanReceivePayout(vendor, s.provider.Name(), split.VendorAmount)
	if !check.Eligible {
		return payout.Payout{}, fmt.Errorf("%w: %s", ErrTransitionRejected, check.Reason)
	}

	now := s.clock.Now()
	p := payout.Payout{
		ID:          s.idGen.New(),
		VendorID:    vendor.ID,
		Status:      payout.StatusPending,
		Amount:      split.VendorAmount,
		Currency:    currency,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		CreatedAt:   now,
	}
	if err := s.payouts.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("vendor_id", vendorID).Msg("failed to create payout")
		return payout.Payout{}, err
	}

	processing, err := payout.MarkProcessing(p)
	if err != nil {
		return payout.Payout{}, err
	}
	if err := s.payouts.Update(ctx, processing); err != nil {
		return payout.Payout{}, err
	}

	providerName := s.provider.Name()
	accountID := vendor.ProviderAccountIDs[providerName]
	providerPayoutID, err := s.provider.CreatePayout(ctx, accountID, processing.Amount, currency)
	if err != nil {
		s.logger.Error().Err(err).
			Str("payout_id", processing.ID).
			Str("vendor_id", vendorID).
			Str("provider", providerName).
			Msg("provider rejected payout")

		failed, markErr := payout.MarkFailed(processing, err.Error())
		if markErr == nil {
			if storeErr := s.payouts.Update(ctx, failed); storeErr != nil {
				s.logger.Error().Err(storeErr).Str("payout_id", processing.ID).Msg("failed to store failed payout")
			}
		}
		s.metrics.PayoutsFailed.Inc()
		return payout.Payout{}, err
	}

	paid, err := payout.MarkPaid(processing, providerName, providerPayoutID, s.clock.Now())
	if err != nil {
		return payout.Payout{}, err
	}
	if err := s.payouts.Update(ctx, paid); err != nil {
		return payout.Payout{}, err
	}

	s.metrics.PayoutsCreated.Inc()
	s.metrics.PayoutAmount.Observe(float64(paid.Amount))
	s.logger.Info().
		Str("payout_id", paid.ID).
		Str("vendor_id", vendorID).
		Int64("amount", paid.Amount).
		Int64("platform_fee", split.PlatformFee).
		Str("provider_payout_id", providerPayoutID).
		Msg("payout disbursed")
	return paid, nil
}

// NextScheduledDate returns the vendor's next payout date strictly after
// the current time.
func (s *PayoutService) NextScheduledDate(ctx context.Context, vendorID string) (time.Time, error) {
	vendor, err := s.vendors.Get(ctx, vendorID)
	if err != nil {
		return time.Time{}, err
	}
	return payout.NextPayoutDate(vendor.Schedule, s.clock.Now()), nil
}

// ListByVendor returns a vendor's payouts, newest first.
func (s *PayoutService) ListByVendor(ctx context.Context, vendorID string, limit int) ([]payout.Payout, error) {
	return s.payouts.ListByVendor(ctx, vendorID, limit)
}
