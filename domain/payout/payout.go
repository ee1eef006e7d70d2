// Package payout provides marketplace vendor and payout value types,
// payout eligibility rules, and schedule arithmetic.
package payout

import (
	"errors"
	"time"
)

// VendorStatus represents a vendor's standing on the platform.
type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "pending"
	VendorStatusActive    VendorStatus = "active"
	VendorStatusSuspended VendorStatus = "suspended"
)

// Interval determines how often a vendor is paid out.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// Schedule describes when payouts run for a vendor.
type Schedule struct {
	Interval   Interval
	DayOfWeek  time.Weekday // weekly
	DayOfMonth int          // monthly, 1..28
}

// Vendor represents a marketplace seller (value type).
// ProviderAccountIDs maps a payment provider name to the vendor's
// connected account id with that provider.
type Vendor struct {
	ID                 string
	Name               string
	Status             VendorStatus
	CommissionRate     float64
	Schedule           Schedule
	MinimumPayout      int64 // minor units
	ProviderAccountIDs map[string]string
	CreatedAt          time.Time
}

// Status represents the state of a payout.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
)

// Payout represents one scheduled disbursement (immutable value snapshot).
type Payout struct {
	ID                string
	VendorID          string
	Status            Status
	Amount            int64
	Currency          string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	ProviderPayoutIDs map[string]string
	CreatedAt         time.Time
	PaidAt            *time.Time
	FailureMessage    string
}

// EligibilityCheck is the outcome of a payout eligibility test.
type EligibilityCheck struct {
	Eligible bool
	Reason   string
}

// CanReceivePayout reports whether vendor can be paid amount through the
// named provider. Eligibility requires active status, a connected account
// with that provider, and the amount meeting the vendor's minimum.
// This is a PURE function.
func CanReceivePayout(v Vendor, provider string, amount int64) EligibilityCheck {
	if v.Status != VendorStatusActive {
		return EligibilityCheck{Reason: "vendor is not active"}
	}
	if v.ProviderAccountIDs[provider] == "" {
		return EligibilityCheck{Reason: "vendor has no account with provider " + provider}
	}
	if amount <= 0 {
		return EligibilityCheck{Reason: "payout amount must be positive"}
	}
	if amount < v.MinimumPayout {
		return EligibilityCheck{Reason: "amount is below the vendor's minimum payout"}
	}
	return EligibilityCheck{Eligible: true}
}

// NextPayoutDate returns the first scheduled payout strictly after the
// given time, at midnight UTC.
// This is a PURE function.
func NextPayoutDate(s Schedule, after time.Time) time.Time {
	day := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, time.UTC)

	switch s.Interval {
	case IntervalWeekly:
		next := day.AddDate(0, 0, 1)
		for next.Weekday() != s.DayOfWeek {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case IntervalMonthly:
		dom := s.DayOfMonth
		if dom < 1 {
			dom = 1
		}
		if dom > 28 {
			dom = 28
		}
		next := time.Date(after.Year(), after.Month(), dom, 0, 0, 0, 0, time.UTC)
		if !next.After(day) {
			next = next.AddDate(0, 1, 0)
		}
		return next
	default: // daily
		return day.AddDate(0, 0, 1)
	}
}

// Mark* transitions return new snapshots; an error signals a caller bug.

// MarkProcessing moves a pending payout into processing.
func MarkProcessing(p Payout) (Payout, error) {
	if p.Status != StatusPending {
		return Payout{}, errors.New("mark processing: payout is not pending")
	}
	p.Status = StatusProcessing
	return p, nil
}

// MarkPaid records a successful disbursement and the provider's payout id.
func MarkPaid(p Payout, provider, providerPayoutID string, now time.Time) (Payout, error) {
	if p.Status != StatusProcessing {
		return Payout{}, errors.New("mark paid: payout is not processing")
	}
	ids := make(map[string]string, len(p.ProviderPayoutIDs)+1)
	for k, v := range p.ProviderPayoutIDs {
		ids[k] = v
	}
	ids[provider] = providerPayoutID
	p.ProviderPayoutIDs = ids
	p.Status = StatusPaid
	p.PaidAt = &now
	return p, nil
}

// MarkFailed records a failed disbursement attempt.
func MarkFailed(p Payout, message string) (Payout, error) {
	if p.Status != StatusProcessing {
		return Payout{}, errors.New("mark failed: payout is not processing")
	}
	p.Status = StatusFailed
	p.FailureMessage = message
	return p, nil
}
