package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewdeck/internal/catalog"
	"crewdeck/internal/metrics"
)

// Registry is the directory of live sessions, keyed by match id. It creates
// one session per match and forgets it again when the session ends, so
// matches tear down independently of the lobby and of each other.
type Registry struct {
	cfg     Config
	catalog *catalog.Catalog
	log     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(cat *catalog.Catalog, cfg Config, log *slog.Logger) *Registry {
	return &Registry{
		cfg:      cfg,
		catalog:  cat,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Create spins up a session expecting the given players and registers it
// under a fresh match id.
func (r *Registry) Create(playerIDs []string) *Session {
	id := uuid.NewString()
	s := newSession(id, playerIDs, r.catalog, r.cfg, r.log, r.remove)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.SessionsActive.Inc()
	return s
}

// Lookup resolves a match id; unknown ids are a caller error, never a crash.
func (r *Registry) Lookup(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		metrics.SessionsActive.Dec()
	}
}

// StartCleanup periodically reaps sessions whose players never finished
// joining, e.g. because a client dropped between lobby start and join.
func (r *Registry) StartCleanup(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			r.mu.RLock()
			stale := make([]*Session, 0, len(r.sessions))
			for _, s := range r.sessions {
				stale = append(stale, s)
			}
			r.mu.RUnlock()

			for _, s := range stale {
				s.abortIfStale(maxAge)
			}
		}
	}()
}
