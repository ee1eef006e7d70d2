package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artpar/billgate/domain/payment"
)

// PaymentAttemptRequest represents a payment attempt notification.
type PaymentAttemptRequest struct {
	ID             string `json:"id,omitempty"`
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// RecordPaymentAttempt stores a payment attempt and updates the
// customer's retry streak.
func (h *Handler) RecordPaymentAttempt(w http.ResponseWriter, r *http.Request) {
	var req PaymentAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "missing_customer_id", "customer_id is required")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "missing_status", "status is required")
		return
	}

	id := req.ID
	if id == "" {
		id = h.idGen.New()
	}

	p := payment.Payment{
		ID:             id,
		CustomerID:     req.CustomerID,
		SubscriptionID: req.SubscriptionID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         payment.Status(req.Status),
		FailureCode:    req.FailureCode,
		FailureMessage: req.FailureMessage,
		CreatedAt:      h.clock.Now(),
	}
	if err := h.dunning.RecordAttempt(r.Context(), p); err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "status": req.Status})
}

// ProcessGraceWarnings sends any due grace-period warning emails for the
// customer. Safe to call repeatedly; each threshold warns once.
func (h *Handler) ProcessGraceWarnings(w http.ResponseWriter, r *http.Request) {
	if err := h.dunning.ProcessGraceWarnings(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// RetryStateResponse represents a customer's derived retry state.
type RetryStateResponse struct {
	AttemptNumber      int     `json:"attempt_number"`
	FirstFailureAt     string  `json:"first_failure_at"`
	LastFailureAt      string  `json:"last_failure_at"`
	NextRetryAt        *string `json:"next_retry_at,omitempty"`
	MaxRetriesReached  bool    `json:"max_retries_reached"`
	GraceExpired       bool    `json:"grace_expired"`
	GraceDaysRemaining int     `json:"grace_days_remaining"`
}

// GetRetryState returns the customer's retry state, derived from payment
// history. Customers with no trailing failure streak get an empty object.
func (h *Handler) GetRetryState(w http.ResponseWriter, r *http.Request) {
	state, err := h.dunning.RetryState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if state == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"retry_state": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"retry_state": RetryStateResponse{
			AttemptNumber:      state.AttemptNumber,
			FirstFailureAt:     state.FirstFailureAt.Format(time.RFC3339),
			LastFailureAt:      state.LastFailureAt.Format(time.RFC3339),
			NextRetryAt:        formatTimePtr(state.NextRetryAt),
			MaxRetriesReached:  state.MaxRetriesReached,
			GraceExpired:       state.GraceExpired,
			GraceDaysRemaining: state.GraceDaysRemaining,
		},
	})
}
