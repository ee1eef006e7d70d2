// Package promo provides promo-code eligibility evaluation and discount
// computation. Persistence of codes and usage records is external; the
// evaluator works on snapshots passed in by the caller.
package promo

import (
	"time"

	"github.com/artpar/billgate/domain/money"
)

// Type determines how a code's value is applied.
type Type string

const (
	TypePercentage  Type = "percentage"
	TypeFixedAmount Type = "fixed_amount"
)

// Code represents a promo code (value type). UsedCount mirrors the count
// of usage records; keeping them in sync is the storage layer's job.
type Code struct {
	ID               string
	Code             string
	Type             Type
	Value            int64 // percent for percentage, minor units for fixed_amount
	MaxUses          *int
	MaxPerCustomer   *int
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	NewCustomersOnly bool
	Active           bool
	UsedCount        int
	CreatedAt        time.Time
}

// Usage records one redemption of a code.
type Usage struct {
	ID             string
	PromoCodeID    string
	CustomerID     string
	DiscountAmount int64
	Currency       string
	CreatedAt      time.Time
}

// Reasons a code is not redeemable, in evaluation priority order.
const (
	ReasonNotFound         = "promo code not found"
	ReasonInactive         = "promo code is not active"
	ReasonExpired          = "promo code has expired"
	ReasonNotStarted       = "promo code is not yet active"
	ReasonNewCustomersOnly = "promo code is for new customers only"
	ReasonCustomerLimit    = "promo code usage limit reached for this customer"
	ReasonMaxUses          = "promo code usage limit reached"
)

// Result is the outcome of evaluating a code for a customer.
type Result struct {
	Valid  bool
	Reason string
}

// Validate determines whether code is redeemable by customerID at now.
// history is the customer's complete prior usage across all codes; it
// feeds both the new-customers-only rule and the per-customer limit.
// Checks run in a fixed priority order so callers get a stable reason.
// This is a PURE function.
func Validate(code *Code, customerID string, now time.Time, history []Usage) Result {
	if code == nil {
		return Result{Reason: ReasonNotFound}
	}
	if !code.Active {
		return Result{Reason: ReasonInactive}
	}
	if code.ExpiresAt != nil && now.After(*code.ExpiresAt) {
		return Result{Reason: ReasonExpired}
	}
	if code.StartsAt != nil && now.Before(*code.StartsAt) {
		return Result{Reason: ReasonNotStarted}
	}

	customerUses := 0
	priorUsage := false
	for _, u := range history {
		if u.CustomerID != customerID {
			continue
		}
		priorUsage = true
		if u.PromoCodeID == code.ID {
			customerUses++
		}
	}

	if code.NewCustomersOnly && priorUsage {
		return Result{Reason: ReasonNewCustomersOnly}
	}
	if code.MaxPerCustomer != nil && customerUses >= *code.MaxPerCustomer {
		return Result{Reason: ReasonCustomerLimit}
	}
	if code.MaxUses != nil && code.UsedCount >= *code.MaxUses {
		return Result{Reason: ReasonMaxUses}
	}

	return Result{Valid: true}
}

// Discount computes the discount a code grants on amount. Percentage
// values round half-up; fixed amounts never exceed the amount itself.
// This is a PURE function.
func Discount(code Code, amount int64) int64 {
	switch code.Type {
	case TypePercentage:
		return money.Percent(amount, float64(code.Value))
	case TypeFixedAmount:
		if code.Value > amount {
			return amount
		}
		return code.Value
	}
	return 0
}
