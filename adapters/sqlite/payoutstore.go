package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/ports"
)

// PayoutStore implements ports.PayoutStore using SQLite.
type PayoutStore struct {
	db *DB
}

// NewPayoutStore creates a new SQLite payout store.
func NewPayoutStore(db *DB) *PayoutStore {
	return &PayoutStore{db: db}
}

const payoutColumns = `id, vendor_id, status, amount, currency,
	period_start, period_end, provider_payout_ids, created_at, paid_at, failure_message`

// Get retrieves a payout by ID.
func (s *PayoutStore) Get(ctx context.Context, id string) (payout.Payout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = ?`, id)
	p, err := scanPayoutRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payout.Payout{}, ErrNotFound
	}
	return p, err
}

// Create stores a new payout.
func (s *PayoutStore) Create(ctx context.Context, p payout.Payout) error {
	providerIDs, err := json.Marshal(p.ProviderPayoutIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payouts (`+payoutColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.VendorID, string(p.Status), p.Amount, p.Currency,
		p.PeriodStart, p.PeriodEnd, string(providerIDs), p.CreatedAt,
		nullTime(p.PaidAt), nullString(p.FailureMessage),
	)

	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces a payout snapshot. Paid rows are excluded so a retried
// disbursement cannot downgrade a payout the provider already settled.
func (s *PayoutStore) Update(ctx context.Context, p payout.Payout) error {
	providerIDs, err := json.Marshal(p.ProviderPayoutIDs)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE payouts SET status = ?, amount = ?, currency = ?,
			period_start = ?, period_end = ?, provider_payout_ids = ?,
			paid_at = ?, failure_message = ?
		WHERE id = ? AND status != 'paid'
	`,
		string(p.Status), p.Amount, p.Currency,
		p.PeriodStart, p.PeriodEnd, string(providerIDs),
		nullTime(p.PaidAt), nullString(p.FailureMessage),
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

// ListByVendor returns a vendor's payouts, newest first.
func (s *PayoutStore) ListByVendor(ctx context.Context, vendorID string, limit int) ([]payout.Payout, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		WHERE vendor_id = ? ORDER BY created_at DESC LIMIT ?`,
		vendorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []payout.Payout
	for rows.Next() {
		p, err := scanPayoutRows(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func scanPayoutRows(row rowScanner) (payout.Payout, error) {
	var p payout.Payout
	var status, providerIDs string
	var paidAt sql.NullTime
	var failureMessage sql.NullString

	err := row.Scan(
		&p.ID, &p.VendorID, &status, &p.Amount, &p.Currency,
		&p.PeriodStart, &p.PeriodEnd, &providerIDs, &p.CreatedAt,
		&paidAt, &failureMessage,
	)
	if err != nil {
		return payout.Payout{}, err
	}

	p.Status = payout.Status(status)
	p.PaidAt = timePtr(paidAt)
	p.FailureMessage = failureMessage.String

	if err := json.Unmarshal([]byte(providerIDs), &p.ProviderPayoutIDs); err != nil {
		return payout.Payout{}, err
	}
	return p, nil
}

var _ ports.PayoutStore = (*PayoutStore)(nil)
