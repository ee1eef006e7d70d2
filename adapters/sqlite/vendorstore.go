package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/ports"
)

// VendorStore implements ports.VendorStore using SQLite.
type VendorStore struct {
	db *DB
}

// NewVendorStore creates a new SQLite vendor store.
func NewVendorStore(db *DB) *VendorStore {
	return &VendorStore{db: db}
}

const vendorColumns = `id, name, status, commission_rate,
	schedule_interval, schedule_day_of_week, schedule_day_of_month,
	minimum_payout, provider_account_ids, created_at`

// Get retrieves a vendor by ID.
func (s *VendorStore) Get(ctx context.Context, id string) (payout.Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = ?`, id)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return payout.Vendor{}, ErrNotFound
	}
	return v, err
}

// Create stores a new vendor.
func (s *VendorStore) Create(ctx context.Context, v payout.Vendor) error {
	accountIDs, err := json.Marshal(v.ProviderAccountIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vendors (`+vendorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ID, v.Name, string(v.Status), v.CommissionRate,
		string(v.Schedule.Interval), int(v.Schedule.DayOfWeek), v.Schedule.DayOfMonth,
		v.MinimumPayout, string(accountIDs), v.CreatedAt,
	)

	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces a vendor snapshot.
func (s *VendorStore) Update(ctx context.Context, v payout.Vendor) error {
	accountIDs, err := json.Marshal(v.ProviderAccountIDs)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE vendors SET name = ?, status = ?, commission_rate = ?,
			schedule_interval = ?, schedule_day_of_week = ?, schedule_day_of_month = ?,
			minimum_payout = ?, provider_account_ids = ?
		WHERE id = ?
	`,
		v.Name, string(v.Status), v.CommissionRate,
		string(v.Schedule.Interval), int(v.Schedule.DayOfWeek), v.Schedule.DayOfMonth,
		v.MinimumPayout, string(accountIDs),
		v.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVendor(row rowScanner) (payout.Vendor, error) {
	var v payout.Vendor
	var status, interval, accountIDs string
	var dayOfWeek int

	err := row.Scan(
		&v.ID, &v.Name, &status, &v.CommissionRate,
		&interval, &dayOfWeek, &v.Schedule.DayOfMonth,
		&v.MinimumPayout, &accountIDs, &v.CreatedAt,
	)
	if err != nil {
		return payout.Vendor{}, err
	}

	v.Status = payout.VendorStatus(status)
	v.Schedule.Interval = payout.Interval(interval)
	v.Schedule.DayOfWeek = time.Weekday(dayOfWeek)

	if err := json.Unmarshal([]byte(accountIDs), &v.ProviderAccountIDs); err != nil {
		return payout.Vendor{}, err
	}
	return v, nil
}

var _ ports.VendorStore = (*VendorStore)(nil)
