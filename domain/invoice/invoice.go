// Package invoice provides invoice value types, total calculation, the
// status state machine, proration, and invoice numbering.
// All functions are deterministic with no side effects; every transition
// returns a new snapshot rather than mutating in place.
package invoice

import (
	"errors"
	"time"
)

// Status represents the state of an invoice.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusOpen          Status = "open"
	StatusPaid          Status = "paid"
	StatusVoid          Status = "void"
	StatusUncollectible Status = "uncollectible"
)

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusVoid || s == StatusUncollectible
}

// Line represents a line item on an invoice (value type).
// Amount = round(Quantity * UnitAmount); quantities may be fractional,
// unit amounts are integer minor units.
type Line struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    float64
	UnitAmount  int64
	Amount      int64
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Metadata    map[string]string
}

// Invoice represents a billing invoice (immutable value snapshot).
type Invoice struct {
	ID          string
	Number      string
	CustomerID  string
	Status      Status
	Currency    string
	Subtotal    int64
	Tax         int64
	Discount    int64
	Total       int64
	AmountDue   int64
	AmountPaid  int64
	Lines       []Line
	DueDate     *time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	FinalizedAt *time.Time
	PaidAt      *time.Time
	VoidedAt    *time.Time
	CreatedAt   time.Time
}

// TransitionCheck is the outcome of a pre-flight status check.
type TransitionCheck struct {
	Allowed bool
	Reason  string
}

// CanBeFinalized reports whether the invoice may move from draft to open.
// Requires draft status, at least one line, and a positive total.
// This is a PURE function.
func CanBeFinalized(inv Invoice) TransitionCheck {
	if inv.Status != StatusDraft {
		return TransitionCheck{Reason: "only draft invoices can be finalized"}
	}
	if len(inv.Lines) == 0 {
		return TransitionCheck{Reason: "invoice has no line items"}
	}
	if inv.Total <= 0 {
		return TransitionCheck{Reason: "invoice total must be positive"}
	}
	return TransitionCheck{Allowed: true}
}

// Finalize moves a draft invoice to open, stamping its number, due date,
// and finalization time. Callers should gate on CanBeFinalized; an error
// here signals a caller bug, not a user error.
func Finalize(inv Invoice, number string, dueDate *time.Time, now time.Time) (Invoice, error) {
	if check := CanBeFinalized(inv); !check.Allowed {
		return Invoice{}, errors.New("finalize: " + check.Reason)
	}
	inv.Status = StatusOpen
	inv.Number = number
	inv.DueDate = dueDate
	inv.FinalizedAt = &now
	return inv, nil
}

// CanBePaid reports whether the invoice may be marked paid.
// This is a PURE function.
func CanBePaid(inv Invoice) TransitionCheck {
	if inv.Status != StatusOpen {
		return TransitionCheck{Reason: "only open invoices can be paid"}
	}
	return TransitionCheck{Allowed: true}
}

// Pay marks an open invoice as paid in full.
func Pay(inv Invoice, now time.Time) (Invoice, error) {
	if check := CanBePaid(inv); !check.Allowed {
		return Invoice{}, errors.New("pay: " + check.Reason)
	}
	inv.Status = StatusPaid
	inv.AmountPaid = inv.Total
	inv.AmountDue = 0
	inv.PaidAt = &now
	return inv, nil
}

// CanBeVoided reports whether the invoice may be voided.
// Paid and already-void invoices cannot be voided.
// This is a PURE function.
func CanBeVoided(inv Invoice) TransitionCheck {
	switch inv.Status {
	case StatusPaid:
		return TransitionCheck{Reason: "paid invoices cannot be voided"}
	case StatusVoid:
		return TransitionCheck{Reason: "invoice is already void"}
	}
	return TransitionCheck{Allowed: true}
}

// Void cancels a draft or open invoice.
func Void(inv Invoice, now time.Time) (Invoice, error) {
	if check := CanBeVoided(inv); !check.Allowed {
		return Invoice{}, errors.New("void: " + check.Reason)
	}
	inv.Status = StatusVoid
	inv.VoidedAt = &now
	return inv, nil
}

// MarkUncollectible administratively writes off any non-terminal invoice.
func MarkUncollectible(inv Invoice) (Invoice, error) {
	if inv.Status.IsTerminal() {
		return Invoice{}, errors.New("mark uncollectible: invoice is in a terminal state")
	}
	inv.Status = StatusUncollectible
	return inv, nil
}

// CanBeModified reports whether line items may still change.
// Only draft invoices are mutable.
// This is a PURE function.
func CanBeModified(inv Invoice) bool {
	return inv.Status == StatusDraft
}
