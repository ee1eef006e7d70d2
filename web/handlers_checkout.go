package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artpar/billgate/domain/checkout"
)

// CheckoutItemRequest represents one cart entry.
type CheckoutItemRequest struct {
	PriceID  string `json:"price_id"`
	Quantity int64  `json:"quantity"`
}

// CreateCheckoutRequest represents a request to open a checkout session.
type CreateCheckoutRequest struct {
	CustomerID    string                `json:"customer_id,omitempty"`
	CustomerEmail string                `json:"customer_email,omitempty"`
	Mode          string                `json:"mode"`
	Currency      string                `json:"currency"`
	LineItems     []CheckoutItemRequest `json:"line_items"`
	SuccessURL    string                `json:"success_url"`
	CancelURL     string                `json:"cancel_url"`
}

// CheckoutSessionResponse represents a checkout session in API responses.
type CheckoutSessionResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id,omitempty"`
	CustomerEmail string                `json:"customer_email,omitempty"`
	Mode          string                `json:"mode"`
	Status        string                `json:"status"`
	Currency      string                `json:"currency"`
	LineItems     []CheckoutItemRequest `json:"line_items"`
	SuccessURL    string                `json:"success_url"`
	CancelURL     string                `json:"cancel_url"`
	ExpiresAt     string                `json:"expires_at"`
	PaymentID     string                `json:"payment_id,omitempty"`
	RedirectURL   string                `json:"redirect_url,omitempty"`
	CompletedAt   *string               `json:"completed_at,omitempty"`
	CreatedAt     string                `json:"created_at"`
}

// CreateCheckoutSession opens a new checkout session with the payment
// provider and returns the redirect URL.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	items := make([]checkout.LineItem, len(req.LineItems))
	for i, it := range req.LineItems {
		items[i] = checkout.LineItem{PriceID: it.PriceID, Quantity: it.Quantity}
	}

	in := checkout.Input{
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		Mode:          checkout.Mode(req.Mode),
		Currency:      req.Currency,
		LineItems:     items,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	}

	sess, redirectURL, err := h.checkout.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := sessionToResponse(sess)
	resp.RedirectURL = redirectURL
	writeJSON(w, http.StatusCreated, resp)
}

// GetCheckoutSession returns a single session.
func (h *Handler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// AddCheckoutItem adds a line item to an open session.
func (h *Handler) AddCheckoutItem(w http.ResponseWriter, r *http.Request) {
	var req CheckoutItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	sess, err := h.checkout.AddItem(r.Context(), chi.URLParam(r, "id"), req.PriceID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// RemoveCheckoutItem removes a line item from an open session.
func (h *Handler) RemoveCheckoutItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "priceID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// UpdateCheckoutQuantity sets a line item's quantity in an open session.
func (h *Handler) UpdateCheckoutQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	sess, err := h.checkout.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "priceID"), req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// CompleteCheckoutRequest records what the finished payment produced.
type CompleteCheckoutRequest struct {
	PaymentID      string `json:"payment_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// CompleteCheckoutSession marks a session complete.
func (h *Handler) CompleteCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CompleteCheckoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
	}

	sess, err := h.checkout.Complete(r.Context(), chi.URLParam(r, "id"), req.PaymentID, req.SubscriptionID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// ExpireStaleCheckouts sweeps open sessions past their expiry.
func (h *Handler) ExpireStaleCheckouts(w http.ResponseWriter, r *http.Request) {
	n, err := h.checkout.ExpireStale(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"expired": n})
}

func sessionToResponse(s checkout.Session) CheckoutSessionResponse {
	items := make([]CheckoutItemRequest, len(s.LineItems))
	for i, it := range s.LineItems {
		items[i] = CheckoutItemRequest{PriceID: it.PriceID, Quantity: it.Quantity}
	}
	return CheckoutSessionResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		CustomerEmail: s.CustomerEmail,
		Mode:          string(s.Mode),
		Status:        string(s.Status),
		Currency:      s.Currency,
		LineItems:     items,
		SuccessURL:    s.SuccessURL,
		CancelURL:     s.CancelURL,
		ExpiresAt:     s.ExpiresAt.Format(time.RFC3339),
		PaymentID:     s.PaymentID,
		CompletedAt:   formatTimePtr(s.CompletedAt),
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}
