package memory

import (
	"context"
	"sync"

	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/ports"
)

// CheckoutStore is an in-memory implementation of ports.CheckoutStore.
type CheckoutStore struct {
	mu       sync.RWMutex
	sessions map[string]checkout.Session
}

// NewCheckoutStore creates a new in-memory checkout session store.
func NewCheckoutStore() *CheckoutStore {
	return &CheckoutStore{sessions: make(map[string]checkout.Session)}
}

// Get retrieves a session by ID.
func (s *CheckoutStore) Get(ctx context.Context, id string) (checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return checkout.Session{}, ErrNotFound
	}
	return sess, nil
}

// Create stores a new session.
func (s *CheckoutStore) Create(ctx context.Context, sess checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return ErrDuplicate
	}
	s.sessions[sess.ID] = sess
	return nil
}

// Update replaces a session snapshot.
func (s *CheckoutStore) Update(ctx context.Context, sess checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return ErrNotFound
	}
	s.sessions[sess.ID] = sess
	return nil
}

// ListOpen returns sessions still in the open status.
func (s *CheckoutStore) ListOpen(ctx context.Context) ([]checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []checkout.Session
	for _, sess := range s.sessions {
		if sess.Status == checkout.StatusOpen {
			out = append(out, sess)
		}
	}
	return out, nil
}

var _ ports.CheckoutStore = (*CheckoutStore)(nil)
