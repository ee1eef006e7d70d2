// Package web provides HTTP handlers for the billing API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/artpar/billgate/app"
	"github.com/artpar/billgate/ports"
)

// Handler provides the billing API endpoints.
type Handler struct {
	invoices  *app.InvoiceService
	dunning   *app.DunningService
	checkout  *app.CheckoutService
	promos    *app.PromoService
	payouts   *app.PayoutService
	clock     ports.Clock
	idGen     ports.IDGenerator
	taxRate   float64
	dueInDays int
	logger    zerolog.Logger
}

// Deps contains dependencies for the billing handler.
type Deps struct {
	Invoices  *app.InvoiceService
	Dunning   *app.DunningService
	Checkout  *app.CheckoutService
	Promos    *app.PromoService
	Payouts   *app.PayoutService
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	TaxRate   float64 // default tax rate, percent
	DueInDays int     // default payment terms for finalized invoices
	Logger    zerolog.Logger
}

// NewHandler creates a new billing API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		invoices:  deps.Invoices,
		dunning:   deps.Dunning,
		checkout:  deps.Checkout,
		promos:    deps.Promos,
		payouts:   deps.Payouts,
		clock:     deps.Clock,
		idGen:     deps.IDGen,
		taxRate:   deps.TaxRate,
		dueInDays: deps.DueInDays,
		logger:    deps.Logger,
	}
}

// Router returns the billing API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	// Invoices
	r.Post("/invoices", h.CreateInvoice)
	r.Get("/invoices/{id}", h.GetInvoice)
	r.Post("/invoices/{id}/lines", h.AddInvoiceLine)
	r.Post("/invoices/{id}/finalize", h.FinalizeInvoice)
	r.Post("/invoices/{id}/pay", h.PayInvoice)
	r.Post("/invoices/{id}/void", h.VoidInvoice)
	r.Post("/invoices/{id}/uncollectible", h.MarkInvoiceUncollectible)
	r.Post("/invoices/prorate", h.ProratePlanChange)
	r.Get("/customers/{id}/invoices", h.ListInvoices)

	// Payment retries and grace
	r.Post("/payments/attempts", h.RecordPaymentAttempt)
	r.Get("/customers/{id}/retry-state", h.GetRetryState)
	r.Post("/customers/{id}/grace-warnings", h.ProcessGraceWarnings)

	// Checkout sessions
	r.Post("/checkout/sessions", h.CreateCheckoutSession)
	r.Get("/checkout/sessions/{id}", h.GetCheckoutSession)
	r.Post("/checkout/sessions/{id}/items", h.AddCheckoutItem)
	r.Delete("/checkout/sessions/{id}/items/{priceID}", h.RemoveCheckoutItem)
	r.Put("/checkout/sessions/{id}/items/{priceID}", h.UpdateCheckoutQuantity)
	r.Post("/checkout/sessions/{id}/complete", h.CompleteCheckoutSession)
	r.Post("/checkout/expire-stale", h.ExpireStaleCheckouts)

	// Promo codes
	r.Post("/promos/preview", h.PreviewPromo)
	r.Post("/promos/redeem", h.RedeemPromo)

	// Vendor payouts
	r.Post("/payouts", h.CreatePayout)
	r.Get("/vendors/{id}/payouts", h.ListPayouts)
	r.Get("/vendors/{id}/next-payout-date", h.NextPayoutDate)

	return r
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// respondError maps service errors to HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, app.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, app.ErrTransitionRejected):
		writeError(w, http.StatusConflict, "transition_rejected", err.Error())
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func parseIntQuery(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
