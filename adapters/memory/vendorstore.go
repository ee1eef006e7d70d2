package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/ports"
)

// VendorStore is an in-memory implementation of ports.VendorStore.
type VendorStore struct {
	mu      sync.RWMutex
	vendors map[string]payout.Vendor
}

// NewVendorStore creates a new in-memory vendor store.
func NewVendorStore() *VendorStore {
	return &VendorStore{vendors: make(map[string]payout.Vendor)}
}

// Get retrieves a vendor by ID.
func (s *VendorStore) Get(ctx context.Context, id string) (payout.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vendors[id]
	if !ok {
		return payout.Vendor{}, ErrNotFound
	}
	return v, nil
}

// Create stores a new vendor.
func (s *VendorStore) Create(ctx context.Context, v payout.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vendors[v.ID]; exists {
		return ErrDuplicate
	}
	s.vendors[v.ID] = v
	return nil
}

// Update replaces a vendor snapshot.
func (s *VendorStore) Update(ctx context.Context, v payout.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[v.ID]; !ok {
		return ErrNotFound
	}
	s.vendors[v.ID] = v
	return nil
}

var _ ports.VendorStore = (*VendorStore)(nil)

// PayoutStore is an in-memory implementation of ports.PayoutStore.
type PayoutStore struct {
	mu      sync.RWMutex
	payouts map[string]payout.Payout
}

// NewPayoutStore creates a new in-memory payout store.
func NewPayoutStore() *PayoutStore {
	return &PayoutStore{payouts: make(map[string]payout.Payout)}
}

// Get retrieves a payout by ID.
func (s *PayoutStore) Get(ctx context.Context, id string) (payout.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payouts[id]
	if !ok {
		return payout.Payout{}, ErrNotFound
	}
	return p, nil
}

// Create stores a new payout.
func (s *PayoutStore) Create(ctx context.Context, p payout.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payouts[p.ID]; exists {
		return ErrDuplicate
	}
	s.payouts[p.ID] = p
	return nil
}

// Update replaces a payout snapshot.
func (s *PayoutStore) Update(ctx context.Context, p payout.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payouts[p.ID]; !ok {
		return ErrNotFound
	}
	s.payouts[p.ID] = p
	return nil
}

// ListByVendor returns a vendor's payouts, newest first.
func (s *PayoutStore) ListByVendor(ctx context.Context, vendorID string, limit int) ([]payout.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payout.Payout
	for _, p := range s.payouts {
		if p.VendorID == vendorID {
			out = append(out, p)
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

var _ ports.PayoutStore = (*PayoutStore)(nil)
