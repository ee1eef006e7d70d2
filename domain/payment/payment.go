// Package payment provides payment value types and pure helpers over
// payment histories.
package payment

import (
	"sort"
	"time"
)

// Status represents the state of a payment attempt.
type Status string

const (
	StatusPending           Status = "pending"
	StatusSucceeded         Status = "succeeded"
	StatusFailed            Status = "failed"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

// Payment represents a single payment attempt (value type).
type Payment struct {
	ID             string
	CustomerID     string
	SubscriptionID string
	Amount         int64 // minor units
	Currency       string
	Status         Status
	FailureCode    string
	FailureMessage string
	CreatedAt      time.Time
}

// IsSettled reports whether the payment reached a final successful state,
// including refunds of a previously successful charge.
func (p Payment) IsSettled() bool {
	return p.Status == StatusSucceeded ||
		p.Status == StatusRefunded ||
		p.Status == StatusPartiallyRefunded
}

// IsFailed reports whether the payment attempt failed.
func (p Payment) IsFailed() bool {
	return p.Status == StatusFailed
}

// SortedByCreation returns a copy of payments ordered oldest first.
// This is a PURE function.
func SortedByCreation(payments []Payment) []Payment {
	out := make([]Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
