package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/artpar/billgate/domain/invoice"
)

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID          string         `json:"id"`
	Number      string         `json:"number,omitempty"`
	CustomerID  string         `json:"customer_id"`
	Status      string         `json:"status"`
	Currency    string         `json:"currency"`
	Subtotal    int64          `json:"subtotal"`
	Tax         int64          `json:"tax"`
	Discount    int64          `json:"discount"`
	Total       int64          `json:"total"`
	AmountDue   int64          `json:"amount_due"`
	AmountPaid  int64          `json:"amount_paid"`
	Lines       []LineResponse `json:"lines"`
	DueDate     *string        `json:"due_date,omitempty"`
	PeriodStart string         `json:"period_start"`
	PeriodEnd   string         `json:"period_end"`
	FinalizedAt *string        `json:"finalized_at,omitempty"`
	PaidAt      *string        `json:"paid_at,omitempty"`
	VoidedAt    *string        `json:"voided_at,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// LineResponse represents an invoice line in API responses.
type LineResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitAmount  int64   `json:"unit_amount"`
	Amount      int64   `json:"amount"`
}

// LineItemRequest represents one line item in a create request.
type LineItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitAmount  int64   `json:"unit_amount"`
}

// CreateInvoiceRequest represents a request to create a draft invoice.
type CreateInvoiceRequest struct {
	CustomerID  string            `json:"customer_id"`
	Currency    string            `json:"currency"`
	Lines       []LineItemRequest `json:"lines"`
	TaxRate     *float64          `json:"tax_rate,omitempty"`
	PeriodStart time.Time         `json:"period_start"`
	PeriodEnd   time.Time         `json:"period_end"`
}

// CreateInvoice creates a draft invoice.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "missing_customer_id", "customer_id is required")
		return
	}

	taxRate := h.taxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	lines := make([]invoice.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = invoice.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
		}
	}

	inv, err := h.invoices.CreateDraft(r.Context(), req.CustomerID, req.Currency, lines, taxRate, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, invoiceToResponse(inv))
}

// GetInvoice returns a single invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// AddInvoiceLine appends a line item to a draft invoice.
func (h *Handler) AddInvoiceLine(w http.ResponseWriter, r *http.Request) {
	var req LineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	in := invoice.LineInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitAmount:  req.UnitAmount,
	}
	inv, err := h.invoices.AddLine(r.Context(), chi.URLParam(r, "id"), in, h.taxRate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// FinalizeInvoiceRequest represents a request to finalize an invoice.
type FinalizeInvoiceRequest struct {
	DueInDays *int `json:"due_in_days,omitempty"`
}

// FinalizeInvoice assigns an invoice number and opens the invoice for payment.
func (h *Handler) FinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	var req FinalizeInvoiceRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
	}

	dueInDays := h.dueInDays
	if req.DueInDays != nil {
		dueInDays = *req.DueInDays
	}

	inv, err := h.invoices.Finalize(r.Context(), chi.URLParam(r, "id"), dueInDays)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// PayInvoice marks an invoice paid.
func (h *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Pay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// VoidInvoice voids an open invoice.
func (h *Handler) VoidInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Void(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// MarkInvoiceUncollectible writes off an open invoice.
func (h *Handler) MarkInvoiceUncollectible(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.MarkUncollectible(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceToResponse(inv))
}

// ProrateRequest represents a mid-period plan change.
type ProrateRequest struct {
	CustomerID  string    `json:"customer_id"`
	Currency    string    `json:"currency"`
	OldPlanName string    `json:"old_plan_name"`
	NewPlanName string    `json:"new_plan_name"`
	OldAmount   int64     `json:"old_amount"`
	NewAmount   int64     `json:"new_amount"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	TaxRate     *float64  `json:"tax_rate,omitempty"`
}

// ProratePlanChange creates a draft invoice with proration credit and charge.
func (h *Handler) ProratePlanChange(w http.ResponseWriter, r *http.Request) {
	var req ProrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "missing_customer_id", "customer_id is required")
		return
	}

	taxRate := h.taxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	inv, err := h.invoices.ProratePlanChange(r.Context(),
		req.CustomerID, req.Currency,
		req.OldPlanName, req.NewPlanName,
		req.OldAmount, req.NewAmount,
		req.PeriodStart, req.PeriodEnd,
		taxRate,
	)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoiceToResponse(inv))
}

// ListInvoices returns a customer's invoices, newest first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)

	invoices, err := h.invoices.ListByCustomer(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		response[i] = invoiceToResponse(inv)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invoices": response,
		"total":    len(response),
	})
}

func invoiceToResponse(inv invoice.Invoice) InvoiceResponse {
	lines := make([]LineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = LineResponse{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
			Amount:      l.Amount,
		}
	}
	return InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		Status:      string(inv.Status),
		Currency:    inv.Currency,
		Subtotal:    inv.Subtotal,
		Tax:         inv.Tax,
		Discount:    inv.Discount,
		Total:       inv.Total,
		AmountDue:   inv.AmountDue,
		AmountPaid:  inv.AmountPaid,
		Lines:       lines,
		DueDate:     formatTimePtr(inv.DueDate),
		PeriodStart: inv.PeriodStart.Format(time.RFC3339),
		PeriodEnd:   inv.PeriodEnd.Format(time.RFC3339),
		FinalizedAt: formatTimePtr(inv.FinalizedAt),
		PaidAt:      formatTimePtr(inv.PaidAt),
		VoidedAt:    formatTimePtr(inv.VoidedAt),
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
