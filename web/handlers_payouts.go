package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artpar/billgate/domain/payout"
)

// CreatePayoutRequest represents a request to disburse a vendor's earnings.
type CreatePayoutRequest struct {
	VendorID    string    `json:"vendor_id"`
	GrossAmount int64     `json:"gross_amount"`
	Currency    string    `json:"currency"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// PayoutResponse represents a payout in API responses.
type PayoutResponse struct {
	ID             string  `json:"id"`
	VendorID       string  `json:"vendor_id"`
	Status         string  `json:"status"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	PaidAt         *string `json:"paid_at,omitempty"`
	FailureMessage string  `json:"failure_message,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// CreatePayout computes the commission split for the period and disburses
// the vendor share through the payment provider.
func (h *Handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	var req CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.VendorID == "" {
		writeError(w, http.StatusBadRequest, "missing_vendor_id", "vendor_id is required")
		return
	}

	p, err := h.payouts.Disburse(r.Context(), req.VendorID, req.GrossAmount, req.Currency, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payoutToResponse(p))
}

// ListPayouts returns a vendor's payouts, newest first.
func (h *Handler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)

	payouts, err := h.payouts.ListByVendor(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response := make([]PayoutResponse, len(payouts))
	for i, p := range payouts {
		response[i] = payoutToResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payouts": response,
		"total":   len(response),
	})
}

// NextPayoutDate returns the vendor's next scheduled payout date.
func (h *Handler) NextPayoutDate(w http.ResponseWriter, r *http.Request) {
	next, err := h.payouts.NextScheduledDate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"next_payout_date": next.Format(time.RFC3339),
	})
}

func payoutToResponse(p payout.Payout) PayoutResponse {
	return PayoutResponse{
		ID:             p.ID,
		VendorID:       p.VendorID,
		Status:         string(p.Status),
		Amount:         p.Amount,
		Currency:       p.Currency,
		PeriodStart:    p.PeriodStart.Format(time.RFC3339),
		PeriodEnd:      p.PeriodEnd.Format(time.RFC3339),
		PaidAt:         formatTimePtr(p.PaidAt),
		FailureMessage: p.FailureMessage,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
