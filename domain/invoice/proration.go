package invoice

import (
	"time"

	"github.com/artpar/billgate/domain/money"
)

// Proration is the money movement of a mid-period plan change.
// NetAmount > 0 is a charge to the customer; < 0 is a credit.
type Proration struct {
	UnusedCredit    int64
	NewPlanProrated int64
	NetAmount       int64
}

// CalculateProration splits a plan change by the fraction of the billing
// period remaining. With the full period remaining the result is a full
// credit of the old amount against a full charge of the new; with zero
// days remaining everything is zero.
// This is a PURE function.
func CalculateProration(oldAmount, newAmount int64, daysRemaining, totalDays int) Proration {
	if totalDays <= 0 || daysRemaining <= 0 {
		return Proration{}
	}
	if daysRemaining > totalDays {
		daysRemaining = totalDays
	}

	fraction := float64(daysRemaining) / float64(totalDays)
	credit := money.RoundHalfUp(float64(oldAmount) * fraction)
	charge := money.RoundHalfUp(float64(newAmount) * fraction)

	return Proration{
		UnusedCredit:    credit,
		NewPlanProrated: charge,
		NetAmount:       charge - credit,
	}
}

// Proration line metadata tags.
const (
	ProrationTypeCredit = "credit"
	ProrationTypeCharge = "charge"
)

// ProrationLines converts a proration into invoice line items: a negative
// credit line for the unused portion of the old plan and a positive charge
// line for the remainder of the new plan. Zero-amount lines are omitted.
// This is a PURE function.
func ProrationLines(p Proration, oldPlanName, newPlanName string, periodStart, periodEnd time.Time) []Line {
	var lines []Line

	if p.UnusedCredit != 0 {
		lines = append(lines, Line{
			Description: "Unused time on " + oldPlanName,
			Quantity:    1,
			UnitAmount:  -p.UnusedCredit,
			Amount:      -p.UnusedCredit,
			PeriodStart: &periodStart,
			PeriodEnd:   &periodEnd,
			Metadata:    map[string]string{"proration": ProrationTypeCredit},
		})
	}

	if p.NewPlanProrated != 0 {
		lines = append(lines, Line{
			Description: "Remaining time on " + newPlanName,
			Quantity:    1,
			UnitAmount:  p.NewPlanProrated,
			Amount:      p.NewPlanProrated,
			PeriodStart: &periodStart,
			PeriodEnd:   &periodEnd,
			Metadata:    map[string]string{"proration": ProrationTypeCharge},
		})
	}

	return lines
}
