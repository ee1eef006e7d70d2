package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/ports"
)

// CheckoutStore implements ports.CheckoutStore using SQLite.
type CheckoutStore struct {
	db *DB
}

// NewCheckoutStore creates a new SQLite checkout session store.
func NewCheckoutStore(db *DB) *CheckoutStore {
	return &CheckoutStore{db: db}
}

const checkoutColumns = `id, customer_id, customer_email, mode, status, currency,
	line_items, success_url, cancel_url, expires_at, payment_id, subscription_id,
	provider_session_ids, created_at, completed_at`

// Get retrieves a session by ID.
func (s *CheckoutStore) Get(ctx context.Context, id string) (checkout.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checkoutColumns+` FROM checkout_sessions WHERE id = ?`, id)
	sess, err := scanCheckoutRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return checkout.Session{}, ErrNotFound
	}
	return sess, err
}

// Create stores a new session.
func (s *CheckoutStore) Create(ctx context.Context, sess checkout.Session) error {
	items, err := json.Marshal(sess.LineItems)
	if err != nil {
		return err
	}
	providerIDs, err := json.Marshal(sess.ProviderSessionIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (`+checkoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID, nullString(sess.CustomerID), nullString(sess.CustomerEmail),
		string(sess.Mode), string(sess.Status), sess.Currency,
		string(items), sess.SuccessURL, sess.CancelURL, sess.ExpiresAt,
		nullString(sess.PaymentID), nullString(sess.SubscriptionID),
		string(providerIDs), sess.CreatedAt, nullTime(sess.CompletedAt),
	)

	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces a session snapshot. Rows in a terminal status are left
// alone so an ID read before completion cannot reopen the session.
func (s *CheckoutStore) Update(ctx context.Context, sess checkout.Session) error {
	items, err := json.Marshal(sess.LineItems)
	if err != nil {
		return err
	}
	providerIDs, err := json.Marshal(sess.ProviderSessionIDs)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE checkout_sessions SET customer_id = ?, customer_email = ?,
			mode = ?, status = ?, currency = ?, line_items = ?,
			success_url = ?, cancel_url = ?, expires_at = ?,
			payment_id = ?, subscription_id = ?, provider_session_ids = ?,
			completed_at = ?
		WHERE id = ? AND status NOT IN ('complete', 'expired')
	`,
		nullString(sess.CustomerID), nullString(sess.CustomerEmail),
		string(sess.Mode), string(sess.Status), sess.Currency, string(items),
		sess.SuccessURL, sess.CancelURL, sess.ExpiresAt,
		nullString(sess.PaymentID), nullString(sess.SubscriptionID), string(providerIDs),
		nullTime(sess.CompletedAt),
		sess.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOpen returns sessions still in the open status.
func (s *CheckoutStore) ListOpen(ctx context.Context) ([]checkout.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkoutColumns+` FROM checkout_sessions
		WHERE status = 'open' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []checkout.Session
	for rows.Next() {
		sess, err := scanCheckoutRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func scanCheckoutRows(row rowScanner) (checkout.Session, error) {
	var sess checkout.Session
	var customerID, customerEmail, paymentID, subscriptionID sql.NullString
	var mode, status, items, providerIDs string
	var completedAt sql.NullTime

	err := row.Scan(
		&sess.ID, &customerID, &customerEmail, &mode, &status, &sess.Currency,
		&items, &sess.SuccessURL, &sess.CancelURL, &sess.ExpiresAt,
		&paymentID, &subscriptionID, &providerIDs, &sess.CreatedAt, &completedAt,
	)
	if err != nil {
		return checkout.Session{}, err
	}

	sess.CustomerID = customerID.String
	sess.CustomerEmail = customerEmail.String
	sess.Mode = checkout.Mode(mode)
	sess.Status = checkout.Status(status)
	sess.PaymentID = paymentID.String
	sess.SubscriptionID = subscriptionID.String
	sess.CompletedAt = timePtr(completedAt)

	if err := json.Unmarshal([]byte(items), &sess.LineItems); err != nil {
		return checkout.Session{}, err
	}
	if err := json.Unmarshal([]byte(providerIDs), &sess.ProviderSessionIDs); err != nil {
		return checkout.Session{}, err
	}
	return sess, nil
}

var _ ports.CheckoutStore = (*CheckoutStore)(nil)
