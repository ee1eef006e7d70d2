package invoice_test

import (
	"testing"

	"github.com/artpar/billgate/domain/invoice"
)

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name     string
		in       invoice.LineInput
		valid    bool
		numErrs  int
	}{
		{"valid", invoice.LineInput{Description: "Pro plan", Quantity: 1, UnitAmount: 2999}, true, 0},
		{"fractional quantity", invoice.LineInput{Description: "Metered", Quantity: 2.5, UnitAmount: 100}, true, 0},
		{"empty description", invoice.LineInput{Quantity: 1, UnitAmount: 100}, false, 1},
		{"zero quantity", invoice.LineInput{Description: "x", Quantity: 0, UnitAmount: 100}, false, 1},
		{"negative quantity", invoice.LineInput{Description: "x", Quantity: -1, UnitAmount: 100}, false, 1},
		{"negative unit amount", invoice.LineInput{Description: "x", Quantity: 1, UnitAmount: -5}, false, 1},
		{"everything wrong", invoice.LineInput{Quantity: 0, UnitAmount: -1}, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := invoice.ValidateLine(tt.in)
			if v.Valid != tt.valid {
				t.Errorf("Valid = %v, errors %v", v.Valid, v.Errors)
			}
			if len(v.Errors) != tt.numErrs {
				t.Errorf("got %d errors %v, want %d", len(v.Errors), v.Errors, tt.numErrs)
			}
		})
	}
}

func TestValidateLines(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		v := invoice.ValidateLines(nil)
		if v.Valid {
			t.Error("empty line set should be invalid")
		}
	})

	t.Run("aggregates errors with indexes", func(t *testing.T) {
		v := invoice.ValidateLines([]invoice.LineInput{
			{Description: "ok", Quantity: 1, UnitAmount: 100},
			{Description: "", Quantity: 0, UnitAmount: 100},
		})
		if v.Valid {
			t.Error("expected invalid")
		}
		if len(v.Errors) != 2 {
			t.Fatalf("got %d errors %v, want 2", len(v.Errors), v.Errors)
		}
		for _, e := range v.Errors {
			if e[:7] != "line 1:" {
				t.Errorf("error %q should reference line 1", e)
			}
		}
	})
}

func TestCalculateLineAmount(t *testing.T) {
	tests := []struct {
		name   string
		in     invoice.LineInput
		want   int64
		wantOK bool
	}{
		{"whole quantity", invoice.LineInput{Quantity: 3, UnitAmount: 500}, 1500, true},
		{"fractional rounds half up", invoice.LineInput{Quantity: 2.5, UnitAmount: 333}, 833, true}, // 832.5
		{"fractional rounds down", invoice.LineInput{Quantity: 1.2, UnitAmount: 100}, 120, true},
		{"zero quantity rejected", invoice.LineInput{Quantity: 0, UnitAmount: 100}, 0, false},
		{"negative unit rejected", invoice.LineInput{Quantity: 1, UnitAmount: -100}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := invoice.CalculateLineAmount(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CalculateLineAmount = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCalculateTotals(t *testing.T) {
	lines := []invoice.Line{
		{Amount: 1000},
		{Amount: 500},
	}

	t.Run("with tax", func(t *testing.T) {
		tot := invoice.CalculateTotals(lines, 10, 0, 0)
		if tot.Subtotal != 1500 || tot.Tax != 150 || tot.Total != 1650 {
			t.Errorf("totals = %+v", tot)
		}
		if tot.AmountDue != 1650 {
			t.Errorf("AmountDue = %d", tot.AmountDue)
		}
	})

	t.Run("discount reduces pre-tax amount only", func(t *testing.T) {
		// Tax stays on the pre-discount subtotal.
		tot := invoice.CalculateTotals(lines, 10, 500, 0)
		if tot.Total != 1000+150 {
			t.Errorf("Total = %d, want 1150", tot.Total)
		}
	})

	t.Run("discount clamped to subtotal", func(t *testing.T) {
		tot := invoice.CalculateTotals(lines, 0, 99999, 0)
		if tot.Discount != 1500 {
			t.Errorf("Discount = %d, want 1500", tot.Discount)
		}
		if tot.Total != 0 {
			t.Errorf("Total = %d, want 0", tot.Total)
		}
	})

	t.Run("negative discount ignored", func(t *testing.T) {
		tot := invoice.CalculateTotals(lines, 0, -100, 0)
		if tot.Discount != 0 || tot.Total != 1500 {
			t.Errorf("totals = %+v", tot)
		}
	})

	t.Run("amount paid reduces due", func(t *testing.T) {
		tot := invoice.CalculateTotals(lines, 0, 0, 600)
		if tot.AmountDue != 900 {
			t.Errorf("AmountDue = %d, want 900", tot.AmountDue)
		}
	})

	t.Run("overpayment floors due at zero", func(t *testing.T) {
		tot := invoice.CalculateTotals(lines, 0, 0, 5000)
		if tot.AmountDue != 0 {
			t.Errorf("AmountDue = %d, want 0", tot.AmountDue)
		}
	})

	t.Run("no lines", func(t *testing.T) {
		tot := invoice.CalculateTotals(nil, 10, 0, 0)
		if tot.Subtotal != 0 || tot.Total != 0 || tot.AmountDue != 0 {
			t.Errorf("totals = %+v", tot)
		}
	})
}

func TestApplyTotals(t *testing.T) {
	inv := invoice.Invoice{
		Status:   invoice.StatusDraft,
		Discount: 200,
		Lines: []invoice.Line{
			{Amount: 1000},
		},
	}

	inv = invoice.ApplyTotals(inv, 10)
	if inv.Subtotal != 1000 || inv.Tax != 100 || inv.Total != 900 || inv.AmountDue != 900 {
		t.Errorf("invoice amounts = subtotal %d tax %d total %d due %d",
			inv.Subtotal, inv.Tax, inv.Total, inv.AmountDue)
	}
}
