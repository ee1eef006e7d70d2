package invoice

import (
	"strconv"

	"github.com/artpar/billgate/domain/money"
)

// LineInput describes a line item before its amount is computed.
type LineInput struct {
	Description string
	Quantity    float64
	UnitAmount  int64
}

// LineValidation is the outcome of validating one line item.
type LineValidation struct {
	Valid  bool
	Errors []string
}

// ValidateLine checks a line item for billable content: a description,
// a positive quantity, and a non-negative integer unit amount.
// This is a PURE function.
func ValidateLine(in LineInput) LineValidation {
	var errs []string
	if in.Description == "" {
		errs = append(errs, "description is required")
	}
	if in.Quantity <= 0 {
		errs = append(errs, "quantity must be positive")
	}
	if in.UnitAmount < 0 {
		errs = append(errs, "unit amount cannot be negative")
	}
	return LineValidation{Valid: len(errs) == 0, Errors: errs}
}

// ValidateLines checks a full set of line items, aggregating every error
// with its line index. An empty set is itself an error.
// This is a PURE function.
func ValidateLines(lines []LineInput) LineValidation {
	if len(lines) == 0 {
		return LineValidation{Errors: []string{"invoice requires at least one line item"}}
	}
	var errs []string
	for i, in := range lines {
		v := ValidateLine(in)
		for _, e := range v.Errors {
			errs = append(errs, "line "+strconv.Itoa(i)+": "+e)
		}
	}
	return LineValidation{Valid: len(errs) == 0, Errors: errs}
}

// CalculateLineAmount computes round(quantity * unitAmount) for a valid
// line input. Invalid input returns ok=false and a zero amount.
// This is a PURE function.
func CalculateLineAmount(in LineInput) (amount int64, ok bool) {
	if in.Quantity <= 0 || in.UnitAmount < 0 {
		return 0, false
	}
	return money.RoundHalfUp(in.Quantity * float64(in.UnitAmount)), true
}

// Totals is the set of computed invoice amounts.
type Totals struct {
	Subtotal  int64
	Tax       int64
	Discount  int64
	Total     int64
	AmountDue int64
}

// CalculateTotals computes invoice totals from its lines.
//
// Tax is computed on the pre-discount subtotal; the discount is clamped so
// it never drives the pre-tax amount negative:
//
//	total = max(0, subtotal - discount) + round(subtotal * taxRate / 100)
//	amountDue = max(0, total - amountPaid)
//
// This is a PURE function.
func CalculateTotals(lines []Line, taxRate float64, discount, amountPaid int64) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.Amount
	}

	tax := money.Percent(subtotal, taxRate)

	effectiveDiscount := discount
	if effectiveDiscount > subtotal {
		effectiveDiscount = subtotal
	}
	if effectiveDiscount < 0 {
		effectiveDiscount = 0
	}

	total := subtotal - effectiveDiscount + tax
	if total < 0 {
		total = 0
	}

	due := total - amountPaid
	if due < 0 {
		due = 0
	}

	return Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Discount:  effectiveDiscount,
		Total:     total,
		AmountDue: due,
	}
}

// ApplyTotals returns a snapshot of inv with its computed amounts set.
// This is a PURE function.
func ApplyTotals(inv Invoice, taxRate float64) Invoice {
	t := CalculateTotals(inv.Lines, taxRate, inv.Discount, inv.AmountPaid)
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.Discount = t.Discount
	inv.Total = t.Total
	inv.AmountDue = t.AmountDue
	return inv
}
