package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// Sessions serializes access to session carts.
// Every read-modify-write of a cart goes through Update so two requests
// of the same session never interleave. Different sessions never block
// each other.
type Sessions struct {
	store cart.Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessions creates a Sessions backed by store
func NewSessions(store cart.Store) *Sessions {
	return &Sessions{
		store: store,
		locks: make(map[string]*sessionLock),
	}
}

// Load returns the cart of sessionID without locking it
func (s *Sessions) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, sessionID)
}

// Update loads the session cart, applies fn and saves the result.
// Nothing is saved when fn fails.
func (s *Sessions) Update(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if c.IsEmpty() && c.Shipping() == nil {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Sessions) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return shared.ErrInvalidInput.WithMessage("Session ID is required")
	}
	return nil
}
