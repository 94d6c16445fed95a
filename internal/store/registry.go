package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"prepbuddy/internal/model"
	"prepbuddy/internal/persist"
)

// AdapterFactory builds the persistence adapter for a session. Demo mode
// gets a fresh in-memory adapter per session; authenticated mode shares
// one Postgres adapter since its writes are identity-scoped.
type AdapterFactory func(session model.Session) persist.Adapter

// Registry keeps one hydrated store per identity. Stores are hydrated on
// first use and dropped on sign-out so the next access re-hydrates.
type Registry struct {
	newAdapter AdapterFactory
	notifier   Notifier
	confirm    Confirmer
	logger     *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(newAdapter AdapterFactory, notifier Notifier, confirm Confirmer, logger *zap.Logger) *Registry {
	return &Registry{
		newAdapter: newAdapter,
		notifier:   notifier,
		confirm:    confirm,
		logger:     logger,
		stores:     make(map[string]*Store),
	}
}

// Get returns the hydrated store for the session, creating it on first
// access.
func (r *Registry) Get(ctx context.Context, session model.Session) (*Store, error) {
	r.mu.Lock()
	if s, ok := r.stores[session.UserID]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	s := New(session, r.newAdapter(session), r.notifier, r.confirm, r.logger)
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have hydrated the same identity meanwhile.
	if existing, ok := r.stores[session.UserID]; ok {
		return existing, nil
	}
	r.stores[session.UserID] = s
	return s, nil
}

// Drop resets and forgets the store for an identity.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	s, ok := r.stores[userID]
	delete(r.stores, userID)
	r.mu.Unlock()

	if ok {
		s.Reset()
		r.logger.Info("Store dropped", zap.String("user_id", userID))
	}
}

// OnSessionChange wires the registry to session.Manager.Subscribe: any
// session change invalidates the cached store so it re-hydrates or resets.
func (r *Registry) OnSessionChange(s model.Session, active bool) {
	r.Drop(s.UserID)
}
