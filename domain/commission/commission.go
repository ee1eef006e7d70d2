// Package commission provides pure functions for platform commission,
// vendor splits, and multi-party revenue shares.
// All functions are deterministic with no side effects.
package commission

import "github.com/artpar/billgate/domain/money"

// Bounds optionally clamps a computed commission.
type Bounds struct {
	Min *int64
	Max *int64
}

// CalculatePlatformCommission computes the platform's cut of a gross amount.
// The commission is rounded half-up, then clamped to the bounds.
// This is a PURE function.
func CalculatePlatformCommission(amount int64, ratePct float64, bounds Bounds) int64 {
	c := money.Percent(amount, ratePct)
	return money.Clamp(c, bounds.Min, bounds.Max)
}

// CalculateVendorAmount returns what remains for the vendor after the
// unclamped platform commission.
// This is a PURE function.
func CalculateVendorAmount(amount int64, ratePct float64) int64 {
	return amount - money.Percent(amount, ratePct)
}

// FeeMode selects how the platform's share of a split is determined.
// Exactly one mode applies; the zero value is FeeModeFixed with a zero fee.
type FeeMode int

const (
	// FeeModeFixed takes a flat platform fee.
	FeeModeFixed FeeMode = iota
	// FeeModeVendorPercent gives the vendor a stated percentage; the
	// platform keeps the remainder.
	FeeModeVendorPercent
	// FeeModePlatformPercent takes a stated percentage for the platform,
	// optionally raised to a minimum fee.
	FeeModePlatformPercent
)

// SplitConfig is a tagged split rule. Only the fields for the selected
// Mode are read, which keeps illegal combinations unrepresentable in
// practice: constructors below are the supported ways to build one.
type SplitConfig struct {
	Mode           FeeMode
	PlatformFee    int64   // FeeModeFixed
	VendorPct      float64 // FeeModeVendorPercent
	PlatformPct    float64 // FeeModePlatformPercent
	MinPlatformFee *int64  // FeeModePlatformPercent, optional
}

// FixedFee builds a split rule with a flat platform fee.
func FixedFee(fee int64) SplitConfig {
	return SplitConfig{Mode: FeeModeFixed, PlatformFee: fee}
}

// VendorPercent builds a split rule where the vendor receives pct percent.
func VendorPercent(pct float64) SplitConfig {
	return SplitConfig{Mode: FeeModeVendorPercent, VendorPct: pct}
}

// PlatformPercent builds a split rule where the platform takes pct percent,
// raised to min when provided.
func PlatformPercent(pct float64, min *int64) SplitConfig {
	return SplitConfig{Mode: FeeModePlatformPercent, PlatformPct: pct, MinPlatformFee: min}
}

// Split is the outcome of dividing a gross amount between vendor and
// platform. VendorAmount + PlatformFee always equals the input amount.
type Split struct {
	VendorAmount int64
	PlatformFee  int64
	Currency     string
}

// CalculateSplit divides amount between vendor and platform per cfg.
// The platform fee is clamped to [0, amount] so the vendor share is never
// negative and the parts always sum to amount.
// This is a PURE function.
func CalculateSplit(amount int64, cfg SplitConfig, currency string) Split {
	var fee int64
	switch cfg.Mode {
	case FeeModeVendorPercent:
		fee = amount - money.Percent(amount, cfg.VendorPct)
	case FeeModePlatformPercent:
		fee = money.Percent(amount, cfg.PlatformPct)
		if cfg.MinPlatformFee != nil && fee < *cfg.MinPlatformFee {
			fee = *cfg.MinPlatformFee
		}
	default:
		fee = cfg.PlatformFee
	}

	if fee < 0 {
		fee = 0
	}
	if fee > amount {
		fee = amount
	}

	return Split{
		VendorAmount: amount - fee,
		PlatformFee:  fee,
		Currency:     currency,
	}
}

// ShareRates configures a multi-party revenue share. Affiliate and
// referral rates participate only when the matching party id is present
// on the transaction.
type ShareRates struct {
	VendorPct    float64
	PlatformPct  float64
	AffiliatePct float64
	ReferralPct  float64
}

// Shares is a revenue division across up to four parties. The four
// amounts always sum to the input amount exactly; any rounding remainder
// is assigned to the platform.
type Shares struct {
	VendorAmount    int64
	PlatformAmount  int64
	AffiliateAmount int64
	ReferralAmount  int64
}

// CalculateRevenueShares divides amount across vendor, platform, and the
// optional affiliate/referral parties. Affiliate and referral cuts apply
// only when their id is supplied and their rate is positive; when absent
// their amount is 0 and the vendor share is unchanged.
// This is a PURE function.
func CalculateRevenueShares(amount int64, rates ShareRates, affiliateID, referralID string) Shares {
	s := Shares{
		VendorAmount: money.Percent(amount, rates.VendorPct),
	}

	if affiliateID != "" && rates.AffiliatePct > 0 {
		s.AffiliateAmount = money.Percent(amount, rates.AffiliatePct)
	}
	if referralID != "" && rates.ReferralPct > 0 {
		s.ReferralAmount = money.Percent(amount, rates.ReferralPct)
	}

	// Platform absorbs the rounding remainder so the parts sum exactly.
	s.PlatformAmount = amount - s.VendorAmount - s.AffiliateAmount - s.ReferralAmount

	return s
}
