package memory

import (
	"context"
	"sync"

	"github.com/artpar/billgate/domain/promo"
	"github.com/artpar/billgate/ports"
)

// PromoStore is an in-memory implementation of ports.PromoStore.
type PromoStore struct {
	mu     sync.RWMutex
	codes  map[string]promo.Code // keyed by customer-facing code
	usages []promo.Usage
}

// NewPromoStore creates a new in-memory promo code store.
func NewPromoStore() *PromoStore {
	return &PromoStore{codes: make(map[string]promo.Code)}
}

// GetByCode retrieves a promo code by its customer-facing code.
func (s *PromoStore) GetByCode(ctx context.Context, code string) (promo.Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.codes[code]
	if !ok {
		return promo.Code{}, ErrNotFound
	}
	return c, nil
}

// Create stores a new promo code.
func (s *PromoStore) Create(ctx context.Context, c promo.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[c.Code]; exists {
		return ErrDuplicate
	}
	s.codes[c.Code] = c
	return nil
}

// Update replaces a promo code snapshot.
func (s *PromoStore) Update(ctx context.Context, c promo.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[c.Code]; !ok {
		return ErrNotFound
	}
	s.codes[c.Code] = c
	return nil
}

// RecordUsage stores one redemption.
func (s *PromoStore) RecordUsage(ctx context.Context, u promo.Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.usages = append(s.usages, u)
	return nil
}

// UsageByCustomer returns a customer's complete usage history.
func (s *PromoStore) UsageByCustomer(ctx context.Context, customerID string) ([]promo.Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []promo.Usage
	for _, u := range s.usages {
		if u.CustomerID == customerID {
			out = append(out, u)
		}
	}
	return out, nil
}

var _ ports.PromoStore = (*PromoStore)(nil)
