package memory

import (
	"context"
	"sync"

	"github.com/artpar/billgate/domain/payment"
	"github.com/artpar/billgate/ports"
)

// PaymentStore is an in-memory implementation of ports.PaymentStore.
type PaymentStore struct {
	mu       sync.RWMutex
	payments map[string]payment.Payment
}

// NewPaymentStore creates a new in-memory payment store.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[string]payment.Payment)}
}

// Get retrieves a payment by ID.
func (s *PaymentStore) Get(ctx context.Context, id string) (payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, ErrNotFound
	}
	return p, nil
}

// Create stores a new payment.
func (s *PaymentStore) Create(ctx context.Context, p payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID]; exists {
		return ErrDuplicate
	}
	s.payments[p.ID] = p
	return nil
}

// Update replaces a payment snapshot.
func (s *PaymentStore) Update(ctx context.Context, p payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.ID]; !ok {
		return ErrNotFound
	}
	s.payments[p.ID] = p
	return nil
}

// ListByCustomer returns a customer's payments, oldest first.
func (s *PaymentStore) ListByCustomer(ctx context.Context, customerID string) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payment.Payment
	for _, p := range s.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return payment.SortedByCreation(out), nil
}

var _ ports.PaymentStore = (*PaymentStore)(nil)
