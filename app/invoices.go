// Package app contains orchestration services. All business logic is
// pure and lives in domain packages - I/O happens at the edges via
// injected stores.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/domain/invoice"
	"github.com/artpar/billgate/ports"
)

var (
	// ErrInvalidInput is returned when input fails domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransitionRejected is returned when a status transition is not
	// allowed from the current state.
	ErrTransitionRejected = errors.New("transition rejected")
)

// InvoiceService orchestrates the invoice lifecycle.
type InvoiceService struct {
	invoices  ports.InvoiceStore
	clock     ports.Clock
	idGen     ports.IDGenerator
	numberCfg invoice.NumberConfig
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoices ports.InvoiceStore,
	clock ports.Clock,
	idGen ports.IDGenerator,
	numberCfg invoice.NumberConfig,
	m *metrics.Collector,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		clock:     clock,
		idGen:     idGen,
		numberCfg: numberCfg,
		metrics:   m,
		logger:    logger,
	}
}

// CreateDraft creates a draft invoice from validated line inputs.
func (s *InvoiceService) CreateDraft(
	ctx context.Context,
	customerID, currency string,
	lines []invoice.LineInput,
	taxRate float64,
	periodStart, periodEnd time.Time,
) (invoice.Invoice, error) {
	if v := invoice.ValidateLines(lines); !v.Valid {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors[0])
	}

	now := s.clock.Now()
	inv := invoice.Invoice{
		ID:          s.idGen.New(),
		CustomerID:  customerID,
		Status:      invoice.StatusDraft,
		Currency:    currency,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		CreatedAt:   now,
	}
	for _, in := range lines {
		inv.Lines = append(inv.Lines, s.buildLine(inv.ID, in))
	}
	inv = invoice.ApplyTotals(inv, taxRate)

	if err := s.invoices.Create(ctx, inv); err != nil {
		s.logger.Error().Err(err).
			Str("customer_id", customerID).
			Msg("failed to create draft invoice")
		return invoice.Invoice{}, err
	}

	s.logger.Info().
		Str("invoice_id", inv.ID).
		Str("customer_id", customerID).
		Int64("total", inv.Total).
		Msg("draft invoice created")
	return inv, nil
}

// AddLine appends a line item to a draft invoice and recomputes totals.
func (s *InvoiceService) AddLine(ctx context.Context, invoiceID string, in invoice.LineInput, taxRate float64) (invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if !invoice.CanBeModified(inv) {
		return invoice.Invoice{}, fmt.Errorf("%w: only draft invoices can be modified", ErrTransitionRejected)
	}
	if v := invoice.ValidateLine(in); !v.Valid {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors[0])
	}

	inv.Lines = append(append([]invoice.Line(nil), inv.Lines...), s.buildLine(inv.ID, in))
	inv = invoice.ApplyTotals(inv, taxRate)

	if err := s.invoices.Update(ctx, inv); err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

// Finalize moves a draft invoice to open, assigning its number from the
// store sequence.
func (s *InvoiceService) Finalize(ctx context.Context, invoiceID string, dueInDays int) (invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if check := invoice.CanBeFinalized(inv); !check.Allowed {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrTransitionRejected, check.Reason)
	}

	seq, err := s.invoices.NextSequence(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("failed to allocate invoice number")
		return invoice.Invoice{}, err
	}

	now := s.clock.Now()
	number := invoice.GenerateNumber(seq, s.numberCfg, now)

	var due *time.Time
	if dueInDays > 0 {
		d := now.AddDate(0, 0, dueInDays)
		due = &d
	}

	finalized, err := invoice.Finalize(inv, number, due, now)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err := s.invoices.Update(ctx, finalized); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("failed to store finalized invoice")
		return invoice.Invoice{}, err
	}

	s.metrics.InvoicesFinalized.Inc()
	s.metrics.InvoiceAmountDue.Observe(float64(finalized.AmountDue))
	s.logger.Info().
		Str("invoice_id", finalized.ID).
		Str("number", finalized.Number).
		Int64("amount_due", finalized.AmountDue).
		Msg("invoice finalized")
	return finalized, nil
}

// Pay marks an open invoice as paid in full.
func (s *InvoiceService) Pay(ctx context.Context, invoiceID string) (invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if check := invoice.CanBePaid(inv); !check.Allowed {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrTransitionRejected, check.Reason)
	}

	paid, err := invoice.Pay(inv, s.clock.Now())
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err := s.invoices.Update(ctx, paid); err != nil {
		return invoice.Invoice{}, err
	}

	s.metrics.InvoicesPaid.Inc()
	s.logger.Info().Str("invoice_id", paid.ID).Int64("amount", paid.AmountPaid).Msg("invoice paid")
	return paid, nil
}

// Void cancels an invoice that has not been paid.
func (s *InvoiceService) Void(ctx context.Context, invoiceID string) (invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if check := invoice.CanBeVoided(inv); !check.Allowed {
		return invoice.Invoice{}, fmt.Errorf("%w: %s", ErrTransitionRejected, check.Reason)
	}

	voided, err := invoice.Void(inv, s.clock.Now())
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err := s.invoices.Update(ctx, voided); err != nil {
		return invoice.Invoice{}, err
	}

	s.metrics.InvoicesVoided.Inc()
	s.logger.Info().Str("invoice_id", voided.ID).Msg("invoice voided")
	return voided, nil
}

// MarkUncollectible writes off an invoice that will never be paid.
func (s *InvoiceService) MarkUncollectible(ctx context.Context, invoiceID string) (invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	written, err := invoice.MarkUncollectible(inv)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: %v", ErrTransitionRejected, err)
	}
	if err := s.invoices.Update(ctx, written); err != nil {
		return invoice.Invoice{}, err
	}

	s.logger.Warn().Str("invoice_id", written.ID).Int64("amount_due", written.AmountDue).Msg("invoice written off")
	return written, nil
}

// ProratePlanChange creates a draft invoice carrying the credit and charge
// lines for a mid-period plan change.
func (s *InvoiceService) ProratePlanChange(
	ctx context.Context,
	customerID, currency string,
	oldPlanName, newPlanName string,
	oldAmount, newAmount int64,
	periodStart, periodEnd time.Time,
	taxRate float64,
) (invoice.Invoice, error) {
	now := s.clock.Now()
	totalDays := daysBetween(periodStart, periodEnd)
	daysRemaining := daysBetween(now, periodEnd)

	p := invoice.CalculateProration(oldAmount, newAmount, daysRemaining, totalDays)
	lines := invoice.ProrationLines(p, oldPlanName, newPlanName, now, periodEnd)
	if len(lines) == 0 {
		return invoice.Invoice{}, fmt.Errorf("%w: nothing to prorate", ErrInvalidInput)
	}

	inv := invoice.Invoice{
		ID:          s.idGen.New(),
		CustomerID:  customerID,
		Status:      invoice.StatusDraft,
		Currency:    currency,
		PeriodStart: now,
		PeriodEnd:   periodEnd,
		CreatedAt:   now,
	}
	for i := range lines {
		lines[i].ID = s.idGen.New()
		lines[i].InvoiceID = inv.ID
	}
	inv.Lines = lines
	inv = invoice.ApplyTotals(inv, taxRate)

	if err := s.invoices.Create(ctx, inv); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to create proration invoice")
		return invoice.Invoice{}, err
	}

	s.logger.Info().
		Str("invoice_id", inv.ID).
		Str("customer_id", customerID).
		Int64("net_amount", p.NetAmount).
		Msg("proration invoice created")
	return inv, nil
}

// Get retrieves an invoice.
func (s *InvoiceService) Get(ctx context.Context, invoiceID string) (invoice.Invoice, error) {
	return s.invoices.Get(ctx, invoiceID)
}

// ListByCustomer returns a customer's invoices, newest first.
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID string, limit int) ([]invoice.Invoice, error) {
	return s.invoices.ListByCustomer(ctx, customerID, limit)
}

func (s *InvoiceService) buildLine(invoiceID string, in invoice.LineInput) invoice.Line {
	amount, _ := invoice.CalculateLineAmount(in)
	return invoice.Line{
		ID:          s.idGen.New(),
		InvoiceID:   invoiceID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitAmount:  in.UnitAmount,
		Amount:      amount,
	}
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
