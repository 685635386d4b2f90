package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/mohammad-safakhou/veritas/models"
)

type entry struct {
	snapshot  models.Context
	expiresAt time.Time
}

// Repository is an in-memory session store used in tests and single-node
// deployments without redis.
type Repository struct {
	sessions map[string]entry
	mu       sync.RWMutex
}

func NewSessionRepository() *Repository {
	return &Repository{sessions: make(map[string]entry)}
}

func (r *Repository) Save(_ context.Context, snapshot models.Context, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	r.sessions[snapshot.SessionID] = entry{snapshot: snapshot, expiresAt: expiresAt}
	return nil
}

func (r *Repository) Get(_ context.Context, sessionID string) (models.Context, error) {
	r.mu.RLock()
	e, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return models.Context{}, models.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return models.Context{}, models.ErrSessionNotFound
	}
	return e.snapshot, nil
}

func (r *Repository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
