package memory

import (
	"context"
	"sync"

	"github.com/artpar/billgate/ports"
)

// CustomerStore is an in-memory implementation of ports.CustomerStore.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]ports.Customer
	byEmail   map[string]string // email -> ID
}

// NewCustomerStore creates a new in-memory customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{
		customers: make(map[string]ports.Customer),
		byEmail:   make(map[string]string),
	}
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id string) (ports.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return ports.Customer{}, ErrNotFound
	}
	return c, nil
}

// GetByEmail retrieves a customer by email.
func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (ports.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return ports.Customer{}, ErrNotFound
	}
	return s.customers[id], nil
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c ports.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID]; exists {
		return ErrDuplicate
	}
	if _, exists := s.byEmail[c.Email]; exists {
		return ErrDuplicate
	}
	s.customers[c.ID] = c
	s.byEmail[c.Email] = c.ID
	return nil
}

// Update replaces an existing customer.
func (s *CustomerStore) Update(ctx context.Context, c ports.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.customers[c.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != c.Email {
		delete(s.byEmail, old.Email)
		s.byEmail[c.Email] = c.ID
	}
	s.customers[c.ID] = c
	return nil
}

var _ ports.CustomerStore = (*CustomerStore)(nil)
