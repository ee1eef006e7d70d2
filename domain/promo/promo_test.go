package promo_test

import (
	"testing"
	"time"

	"github.com/artpar/billgate/domain/promo"
)

var evalTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int            { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func activeCode() promo.Code {
	return promo.Code{
		ID:     "promo_1",
		Code:   "SUMMER20",
		Type:   promo.TypePercentage,
		Value:  20,
		Active: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		code       *promo.Code
		customerID string
		history    []promo.Usage
		wantValid  bool
		wantReason string
	}{
		{
			name:       "nil code",
			code:       nil,
			customerID: "cus_1",
			wantReason: promo.ReasonNotFound,
		},
		{
			name: "inactive",
			code: func() *promo.Code {
				c := activeCode()
				c.Active = false
				return &c
			}(),
			customerID: "cus_1",
			wantReason: promo.ReasonInactive,
		},
		{
			name: "expired",
			code: func() *promo.Code {
				c := activeCode()
				c.ExpiresAt = timePtr(evalTime.AddDate(0, 0, -1))
				return &c
			}(),
			customerID: "cus_1",
			wantReason: promo.ReasonExpired,
		},
		{
			name: "not yet started",
			code: func() *promo.Code {
				c := activeCode()
				c.StartsAt = timePtr(evalTime.AddDate(0, 0, 1))
				return &c
			}(),
			customerID: "cus_1",
			wantReason: promo.ReasonNotStarted,
		},
		{
			name: "new customers only with prior usage",
			code: func() *promo.Code {
				c := activeCode()
				c.NewCustomersOnly = true
				return &c
			}(),
			customerID: "cus_1",
			history: []promo.Usage{
				{PromoCodeID: "promo_other", CustomerID: "cus_1"},
			},
			wantReason: promo.ReasonNewCustomersOnly,
		},
		{
			name: "new customers only without prior usage",
			code: func() *promo.Code {
				c := activeCode()
				c.NewCustomersOnly = true
				return &c
			}(),
			customerID: "cus_1",
			history: []promo.Usage{
				{PromoCodeID: "promo_other", CustomerID: "cus_2"},
			},
			wantValid: true,
		},
		{
			name: "per customer limit reached",
			code: func() *promo.Code {
				c := activeCode()
				c.MaxPerCustomer = intPtr(1)
				return &c
			}(),
			customerID: "cus_1",
			history: []promo.Usage{
				{PromoCodeID: "promo_1", CustomerID: "cus_1"},
			},
			wantReason: promo.ReasonCustomerLimit,
		},
		{
			name: "other customers do not count toward per customer limit",
			code: func() *promo.Code {
				c := activeCode()
				c.MaxPerCustomer = intPtr(1)
				return &c
			}(),
			customerID: "cus_1",
			history: []promo.Usage{
				{PromoCodeID: "promo_1", CustomerID: "cus_2"},
			},
			wantValid: true,
		},
		{
			name: "global max uses reached",
			code: func() *promo.Code {
				c := activeCode()
				c.MaxUses = intPtr(100)
				c.UsedCount = 100
				return &c
			}(),
			customerID: "cus_1",
			wantReason: promo.ReasonMaxUses,
		},
		{
			name:       "valid",
			code:       func() *promo.Code { c := activeCode(); return &c }(),
			customerID: "cus_1",
			wantValid:  true,
		},
		{
			name: "expired wins over usage limits",
			code: func() *promo.Code {
				c := activeCode()
				c.ExpiresAt = timePtr(evalTime.AddDate(0, 0, -1))
				c.MaxUses = intPtr(1)
				c.UsedCount = 1
				return &c
			}(),
			customerID: "cus_1",
			wantReason: promo.ReasonExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := promo.Validate(tt.code, tt.customerID, evalTime, tt.history)
			if res.Valid != tt.wantValid {
				t.Errorf("Valid = %v, reason %q", res.Valid, res.Reason)
			}
			if !tt.wantValid && res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidate_BoundaryDates(t *testing.T) {
	c := activeCode()
	c.StartsAt = timePtr(evalTime)
	c.ExpiresAt = timePtr(evalTime)

	// Exactly at start and at expiry is still valid: expiry requires
	// now strictly after, start requires now strictly before.
	if res := promo.Validate(&c, "cus_1", evalTime, nil); !res.Valid {
		t.Errorf("boundary instant invalid: %q", res.Reason)
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name   string
		code   promo.Code
		amount int64
		want   int64
	}{
		{"percentage", promo.Code{Type: promo.TypePercentage, Value: 20}, 10000, 2000},
		{"percentage rounds half up", promo.Code{Type: promo.TypePercentage, Value: 15}, 999, 150}, // 149.85
		{"fixed amount", promo.Code{Type: promo.TypeFixedAmount, Value: 500}, 10000, 500},
		{"fixed capped at amount", promo.Code{Type: promo.TypeFixedAmount, Value: 5000}, 1000, 1000},
		{"unknown type", promo.Code{Type: "bogus", Value: 20}, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promo.Discount(tt.code, tt.amount); got != tt.want {
				t.Errorf("Discount = %d, want %d", got, tt.want)
			}
		})
	}
}
