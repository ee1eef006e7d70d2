// Package checkout provides the checkout session lifecycle: an ephemeral
// cart with line-item mutation, expiry, completion, and redirect URL
// helpers. Every mutation returns a new session snapshot.
package checkout

import (
	"errors"
	"time"
)

// Mode determines what a completed session produces.
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

// Status represents the state of a checkout session.
type Status string

const (
	StatusOpen     Status = "open"
	StatusComplete Status = "complete"
	StatusExpired  Status = "expired"
)

// LineItem is one priced entry in the session's cart.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// Session represents a checkout session (immutable value snapshot).
// ProviderSessionIDs maps a payment provider name to that provider's own
// session id, keeping the session itself provider-agnostic.
type Session struct {
	ID                 string
	CustomerID         string
	CustomerEmail      string
	Mode               Mode
	Status             Status
	Currency           string
	LineItems          []LineItem
	SuccessURL         string
	CancelURL          string
	ExpiresAt          time.Time
	PaymentID          string
	SubscriptionID     string
	ProviderSessionIDs map[string]string
	CreatedAt          time.Time
	CompletedAt        *time.Time
}

// IsOpen reports whether the session can still be acted on: open status
// and not past its expiry, even if no sweep has flipped the status yet.
// This is a PURE function.
func IsOpen(s Session, now time.Time) bool {
	return s.Status == StatusOpen && now.Before(s.ExpiresAt)
}

// AddItem adds a line item. Adding a priceID already in the cart
// increments its quantity instead of duplicating the entry.
// This is a PURE function.
func AddItem(s Session, priceID string, quantity int64) Session {
	items := cloneItems(s.LineItems)
	for i, it := range items {
		if it.PriceID == priceID {
			items[i].Quantity += quantity
			s.LineItems = items
			return s
		}
	}
	s.LineItems = append(items, LineItem{PriceID: priceID, Quantity: quantity})
	return s
}

// RemoveItem deletes the line item with the given priceID, if present.
// This is a PURE function.
func RemoveItem(s Session, priceID string) Session {
	items := make([]LineItem, 0, len(s.LineItems))
	for _, it := range s.LineItems {
		if it.PriceID != priceID {
			items = append(items, it)
		}
	}
	s.LineItems = items
	return s
}

// UpdateQuantity sets a line item's quantity; a quantity below one
// removes the item.
// This is a PURE function.
func UpdateQuantity(s Session, priceID string, quantity int64) Session {
	if quantity < 1 {
		return RemoveItem(s, priceID)
	}
	items := cloneItems(s.LineItems)
	for i, it := range items {
		if it.PriceID == priceID {
			items[i].Quantity = quantity
		}
	}
	s.LineItems = items
	return s
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// TransitionCheck is the outcome of a pre-flight lifecycle check.
type TransitionCheck struct {
	Allowed bool
	Reason  string
}

// CanBeCompleted reports whether the session may complete at now.
// This is a PURE function.
func CanBeCompleted(s Session, now time.Time) TransitionCheck {
	if s.Status != StatusOpen {
		return TransitionCheck{Reason: "session is not open"}
	}
	if !now.Before(s.ExpiresAt) {
		return TransitionCheck{Reason: "session has expired"}
	}
	return TransitionCheck{Allowed: true}
}

// Complete marks the session complete, recording the payment and, in
// subscription mode only, the subscription it produced.
func Complete(s Session, paymentID, subscriptionID string, now time.Time) (Session, error) {
	if check := CanBeCompleted(s, now); !check.Allowed {
		return Session{}, errors.New("complete: " + check.Reason)
	}
	s.Status = StatusComplete
	s.PaymentID = paymentID
	if s.Mode == ModeSubscription {
		s.SubscriptionID = subscriptionID
	}
	s.CompletedAt = &now
	return s, nil
}

// Expire marks an open session expired. Expiring a non-open session is a
// no-op so that sweeps are idempotent.
// This is a PURE function.
func Expire(s Session) Session {
	if s.Status == StatusOpen {
		s.Status = StatusExpired
	}
	return s
}

// WithProviderSession records a provider's own session id without
// mutating the input snapshot.
// This is a PURE function.
func WithProviderSession(s Session, provider, providerSessionID string) Session {
	ids := make(map[string]string, len(s.ProviderSessionIDs)+1)
	for k, v := range s.ProviderSessionIDs {
		ids[k] = v
	}
	ids[provider] = providerSessionID
	s.ProviderSessionIDs = ids
	return s
}
