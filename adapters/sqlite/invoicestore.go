package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/artpar/billgate/domain/invoice"
	"github.com/artpar/billgate/ports"
)

// InvoiceStore implements ports.InvoiceStore using SQLite.
type InvoiceStore struct {
	db *DB
}

// NewInvoiceStore creates a new SQLite invoice store.
func NewInvoiceStore(db *DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

const invoiceColumns = `id, number, customer_id, status, currency,
	subtotal, tax, discount, total, amount_due, amount_paid, lines,
	due_date, period_start, period_end, finalized_at, paid_at, voided_at, created_at`

// Get retrieves an invoice by ID.
func (s *InvoiceStore) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	return scanInvoice(row)
}

// Create stores a new invoice.
func (s *InvoiceStore) Create(ctx context.Context, inv invoice.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID, nullString(inv.Number), inv.CustomerID, string(inv.Status), inv.Currency,
		inv.Subtotal, inv.Tax, inv.Discount, inv.Total, inv.AmountDue, inv.AmountPaid, string(lines),
		nullTime(inv.DueDate), inv.PeriodStart, inv.PeriodEnd,
		nullTime(inv.FinalizedAt), nullTime(inv.PaidAt), nullTime(inv.VoidedAt), inv.CreatedAt,
	)

	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces an invoice snapshot. The status of the stored row is
// part of the WHERE clause only for terminal states, keeping transitions
// from clobbering an invoice that already left the state the caller read.
func (s *InvoiceStore) Update(ctx context.Context, inv invoice.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET number = ?, status = ?, currency = ?,
			subtotal = ?, tax = ?, discount = ?, total = ?, amount_due = ?, amount_paid = ?,
			lines = ?, due_date = ?, period_start = ?, period_end = ?,
			finalized_at = ?, paid_at = ?, voided_at = ?
		WHERE id = ? AND status NOT IN ('paid', 'void', 'uncollectible')
	`,
		nullString(inv.Number), string(inv.Status), inv.Currency,
		inv.Subtotal, inv.Tax, inv.Discount, inv.Total, inv.AmountDue, inv.AmountPaid,
		string(lines), nullTime(inv.DueDate), inv.PeriodStart, inv.PeriodEnd,
		nullTime(inv.FinalizedAt), nullTime(inv.PaidAt), nullTime(inv.VoidedAt),
		inv.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCustomer returns invoices for a customer, newest first.
func (s *InvoiceStore) ListByCustomer(ctx context.Context, customerID string, limit int) ([]invoice.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		WHERE customer_id = ? ORDER BY created_at DESC LIMIT ?`,
		customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRows(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// NextSequence atomically increments and returns the invoice sequence.
func (s *InvoiceStore) NextSequence(ctx context.Context) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE invoice_sequence SET value = value + 1 WHERE id = 1
		RETURNING value
	`).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return value, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row *sql.Row) (invoice.Invoice, error) {
	inv, err := scanInvoiceRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return invoice.Invoice{}, ErrNotFound
	}
	return inv, err
}

func scanInvoiceRows(row rowScanner) (invoice.Invoice, error) {
	var inv invoice.Invoice
	var number sql.NullString
	var status string
	var lines string
	var dueDate, finalizedAt, paidAt, voidedAt sql.NullTime

	err := row.Scan(
		&inv.ID, &number, &inv.CustomerID, &status, &inv.Currency,
		&inv.Subtotal, &inv.Tax, &inv.Discount, &inv.Total, &inv.AmountDue, &inv.AmountPaid, &lines,
		&dueDate, &inv.PeriodStart, &inv.PeriodEnd,
		&finalizedAt, &paidAt, &voidedAt, &inv.CreatedAt,
	)
	if err != nil {
		return invoice.Invoice{}, err
	}

	inv.Number = number.String
	inv.Status = invoice.Status(status)
	inv.DueDate = timePtr(dueDate)
	inv.FinalizedAt = timePtr(finalizedAt)
	inv.PaidAt = timePtr(paidAt)
	inv.VoidedAt = timePtr(voidedAt)

	if err := json.Unmarshal([]byte(lines), &inv.Lines); err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

var _ ports.InvoiceStore = (*InvoiceStore)(nil)
