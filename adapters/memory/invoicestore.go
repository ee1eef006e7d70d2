package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/billgate/domain/invoice"
	"github.com/artpar/billgate/ports"
)

// InvoiceStore is an in-memory implementation of ports.InvoiceStore.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]invoice.Invoice
	sequence int64
}

// NewInvoiceStore creates a new in-memory invoice store.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{invoices: make(map[string]invoice.Invoice)}
}

// Get retrieves an invoice by ID.
func (s *InvoiceStore) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return invoice.Invoice{}, ErrNotFound
	}
	return inv, nil
}

// Create stores a new invoice.
func (s *InvoiceStore) Create(ctx context.Context, inv invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID]; exists {
		return ErrDuplicate
	}
	s.invoices[inv.ID] = inv
	return nil
}

// Update replaces an invoice snapshot.
func (s *InvoiceStore) Update(ctx context.Context, inv invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	s.invoices[inv.ID] = inv
	return nil
}

// ListByCustomer returns invoices for a customer, newest first.
func (s *InvoiceStore) ListByCustomer(ctx context.Context, customerID string, limit int) ([]invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []invoice.Invoice
	for _, inv := range s.invoices {
		if inv.CustomerID == customerID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NextSequence returns the next invoice number sequence value.
func (s *InvoiceStore) NextSequence(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return s.sequence, nil
}

var _ ports.InvoiceStore = (*InvoiceStore)(nil)
