package web

import (
	"encoding/json"
	"net/http"
)

// PromoRequest represents a promo code evaluation request.
type PromoRequest struct {
	Code       string `json:"code"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency,omitempty"`
}

// PromoResponse represents the outcome of a promo evaluation.
type PromoResponse struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Discount int64  `json:"discount"`
}

// PreviewPromo evaluates a promo code without recording a redemption.
func (h *Handler) PreviewPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "code is required")
		return
	}

	res, err := h.promos.Preview(r.Context(), req.Code, req.CustomerID, req.Amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PromoResponse{Valid: res.Valid, Reason: res.Reason, Discount: res.Discount})
}

// RedeemPromo validates a promo code and records the redemption.
func (h *Handler) RedeemPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "code is required")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "missing_customer_id", "customer_id is required")
		return
	}

	res, err := h.promos.Redeem(r.Context(), req.Code, req.CustomerID, req.Amount, req.Currency)
	if err != nil {
		h.respondError(w, err)
		return
	}

	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, PromoResponse{Valid: res.Valid, Reason: res.Reason, Discount: res.Discount})
}
