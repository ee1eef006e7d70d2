package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/artpar/billgate/ports"
)

// CustomerStore implements ports.CustomerStore using SQLite.
type CustomerStore struct {
	db *DB
}

// NewCustomerStore creates a new SQLite customer store.
func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id string) (ports.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, currency, provider_ids, created_at, updated_at
		FROM customers WHERE id = ?
	`, id)
	return scanCustomer(row)
}

// GetByEmail retrieves a customer by email.
func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (ports.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, currency, provider_ids, created_at, updated_at
		FROM customers WHERE email = ?
	`, email)
	return scanCustomer(row)
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c ports.Customer) error {
	providerIDs, err := json.Marshal(c.ProviderIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO customers (id, email, name, currency, provider_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Email, c.Name, c.Currency, string(providerIDs), c.CreatedAt, c.UpdatedAt)

	if err != nil && isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces an existing customer.
func (s *CustomerStore) Update(ctx context.Context, c ports.Customer) error {
	providerIDs, err := json.Marshal(c.ProviderIDs)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE customers SET email = ?, name = ?, currency = ?, provider_ids = ?, updated_at = ?
		WHERE id = ?
	`, c.Email, c.Name, c.Currency, string(providerIDs), c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomer(row *sql.Row) (ports.Customer, error) {
	var c ports.Customer
	var providerIDs string

	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Currency, &providerIDs, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Customer{}, ErrNotFound
	}
	if err != nil {
		return ports.Customer{}, err
	}

	if err := json.Unmarshal([]byte(providerIDs), &c.ProviderIDs); err != nil {
		return ports.Customer{}, err
	}
	return c, nil
}

var _ ports.CustomerStore = (*CustomerStore)(nil)
