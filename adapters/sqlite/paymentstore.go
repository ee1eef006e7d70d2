package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/billgate/domain/payment"
	"github.com/artpar/billgate/ports"
)

// PaymentStore implements ports.PaymentStore using SQLite.
type PaymentStore struct {
	db *DB
}

// NewPaymentStore creates a new SQLite payment store.
func NewPaymentStore(db *DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentColumns = `id, customer_id, subscription_id, amount, currency,
	status, failure_code, failure_message, created_at`

// Get retrieves a payment by ID.
func (s *PaymentStore) Get(ctx context.Context, id string) (payment.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payment.Payment{}, ErrNotFound
	}
	return p, err
}

// Create stores a new payment.
func (s *PaymentStore) Create(ctx context.Context, p payment.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.CustomerID, nullString(p.SubscriptionID), p.Amount, p.Currency,
		string(p.Status), nullString(p.FailureCode), nullString(p.FailureMessage), p.CreatedAt,
	)
	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces a payment snapshot.
func (s *PaymentStore) Update(ctx context.Context, p payment.Payment) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments SET customer_id = ?, subscription_id = ?, amount = ?,
			currency = ?, status = ?, failure_code = ?, failure_message = ?
		WHERE id = ?
	`,
		p.CustomerID, nullString(p.SubscriptionID), p.Amount,
		p.Currency, string(p.Status), nullString(p.FailureCode), nullString(p.FailureMessage),
		p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCustomer returns a customer's payments, oldest first.
func (s *PaymentStore) ListByCustomer(ctx context.Context, customerID string) ([]payment.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE customer_id = ? ORDER BY created_at ASC, id ASC`,
		customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row rowScanner) (payment.Payment, error) {
	var p payment.Payment
	var subscriptionID, failureCode, failureMessage sql.NullString
	var status string

	err := row.Scan(
		&p.ID, &p.CustomerID, &subscriptionID, &p.Amount, &p.Currency,
		&status, &failureCode, &failureMessage, &p.CreatedAt,
	)
	if err != nil {
		return payment.Payment{}, err
	}

	p.SubscriptionID = subscriptionID.String
	p.Status = payment.Status(status)
	p.FailureCode = failureCode.String
	p.FailureMessage = failureMessage.String
	return p, nil
}

var _ ports.PaymentStore = (*PaymentStore)(nil)
