package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/billgate/domain/promo"
	"github.com/artpar/billgate/ports"
)

// PromoStore implements ports.PromoStore using SQLite.
type PromoStore struct {
	db *DB
}

// NewPromoStore creates a new SQLite promo store.
func NewPromoStore(db *DB) *PromoStore {
	return &PromoStore{db: db}
}

const promoColumns = `id, code, type, value, max_uses, max_per_customer,
	starts_at, expires_at, new_customers_only, active, used_count, created_at`

// GetByCode retrieves a promo code by its customer-facing code.
func (s *PromoStore) GetByCode(ctx context.Context, code string) (promo.Code, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = ?`, code)
	c, err := scanPromoCode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return promo.Code{}, ErrNotFound
	}
	return c, err
}

// Create stores a new promo code.
func (s *PromoStore) Create(ctx context.Context, c promo.Code) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO promo_codes (`+promoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.Code, string(c.Type), c.Value, nullInt(c.MaxUses), nullInt(c.MaxPerCustomer),
		nullTime(c.StartsAt), nullTime(c.ExpiresAt), c.NewCustomersOnly, c.Active, c.UsedCount, c.CreatedAt,
	)
	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces a promo code snapshot. The used_count column only moves
// forward so a stale snapshot cannot undo a concurrent redemption.
func (s *PromoStore) Update(ctx context.Context, c promo.Code) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE promo_codes SET type = ?, value = ?, max_uses = ?, max_per_customer = ?,
			starts_at = ?, expires_at = ?, new_customers_only = ?, active = ?,
			used_count = MAX(used_count, ?)
		WHERE id = ?
	`,
		string(c.Type), c.Value, nullInt(c.MaxUses), nullInt(c.MaxPerCustomer),
		nullTime(c.StartsAt), nullTime(c.ExpiresAt), c.NewCustomersOnly, c.Active,
		c.UsedCount, c.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordUsage stores one redemption.
func (s *PromoStore) RecordUsage(ctx context.Context, u promo.Usage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO promo_usages (id, promo_code_id, customer_id, discount_amount, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.PromoCodeID, u.CustomerID, u.DiscountAmount, u.Currency, u.CreatedAt,
	)
	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// UsageByCustomer returns a customer's complete usage history.
func (s *PromoStore) UsageByCustomer(ctx context.Context, customerID string) ([]promo.Usage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, promo_code_id, customer_id, discount_amount, currency, created_at
		FROM promo_usages WHERE customer_id = ? ORDER BY created_at ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []promo.Usage
	for rows.Next() {
		var u promo.Usage
		if err := rows.Scan(&u.ID, &u.PromoCodeID, &u.CustomerID, &u.DiscountAmount, &u.Currency, &u.CreatedAt); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

func scanPromoCode(row rowScanner) (promo.Code, error) {
	var c promo.Code
	var codeType string
	var maxUses, maxPerCustomer sql.NullInt64
	var startsAt, expiresAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.Code, &codeType, &c.Value, &maxUses, &maxPerCustomer,
		&startsAt, &expiresAt, &c.NewCustomersOnly, &c.Active, &c.UsedCount, &c.CreatedAt,
	)
	if err != nil {
		return promo.Code{}, err
	}

	c.Type = promo.Type(codeType)
	c.MaxUses = intPtr(maxUses)
	c.MaxPerCustomer = intPtr(maxPerCustomer)
	c.StartsAt = timePtr(startsAt)
	c.ExpiresAt = timePtr(expiresAt)
	return c, nil
}

var _ ports.PromoStore = (*PromoStore)(nil)
