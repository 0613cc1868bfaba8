package chemdraw

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

const sessionStoreLabel = "memory"

// SessionStore keeps controllers in process memory.  Sessions idle for longer
// than the TTL are evicted by Run.
type SessionStore struct {
	deps Dependencies
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewSessionStore builds a store whose controllers share deps.
func NewSessionStore(deps Dependencies, ttl time.Duration) *SessionStore {
	return &SessionStore{
		deps:     deps.withDefaults(),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Controller),
	}
}

// Create starts a new idle session.
func (s *SessionStore) Create() *Controller {
	id := uuid.NewString()
	c := NewController(id, s.deps)

	s.mu.Lock()
	s.sessions[id] = c
	n := len(s.sessions)
	s.mu.Unlock()

	s.gauge(n)
	s.deps.Logger.Debug("session created", logging.String("session_id", id))
	return c
}

// Get returns session id or ErrCodeSessionNotFound.
func (s *SessionStore) Get(id string) (*Controller, error) {
	s.mu.RLock()
	c, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found").WithDetail(id)
	}
	return c, nil
}

// GetOrCreate returns session id, or a new session when id is unknown.
func (s *SessionStore) GetOrCreate(id string) (*Controller, bool) {
	if id != "" {
		if c, err := s.Get(id); err == nil {
			return c, false
		}
	}
	return s.Create(), true
}

// Delete closes and removes session id.  Unknown ids are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if ok {
		c.Close()
		s.gauge(n)
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict removes sessions idle for longer than the TTL and returns how many
// were removed.  Sessions with a generation in flight are kept.
func (s *SessionStore) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	var stale []*Controller
	s.mu.Lock()
	for id, c := range s.sessions {
		if c.LastActive().Before(cutoff) && !c.Loading() {
			stale = append(stale, c)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		s.gauge(n)
		s.deps.Logger.Info("sessions evicted", logging.Int("count", len(stale)), logging.Int("remaining", n))
	}
	return len(stale)
}

// Run evicts idle sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.Evict()
		}
	}
}

func (s *SessionStore) gauge(n int) {
	s.deps.Metrics.ActiveSessions.WithLabelValues(sessionStoreLabel).Set(float64(n))
}

//Personal.AI order the ending
