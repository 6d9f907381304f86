package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/gitglyph/core/internal/modules/gist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSessionTTL = 30 * time.Minute
	janitorInterval   = time.Minute
)

// Session binds a controller to one (gist, wallet) pairing for the life of a
// browser visit. Sessions are process-local and never persisted.
type Session struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry owns the live workflow sessions.
type Registry struct {
	pub    Publisher
	minter Minter
	logger *zap.Logger
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(pub Publisher, minter Minter, logger *zap.Logger) *Registry {
	return &Registry{
		pub:      pub,
		minter:   minter,
		logger:   logger,
		ttl:      defaultSessionTTL,
		sessions: make(map[string]*Session),
	}
}

// Create builds a fresh controller for the given gist and wallet.
func (r *Registry) Create(record gist.Record, wallet string) *Session {
	session := &Session{
		ID:         uuid.New().String(),
		Controller: NewController(record, wallet, r.pub, r.minter, r.logger),
		CreatedAt:  time.Now(),
		lastSeen:   time.Now(),
	}
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns the session and marks it as recently used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		session.touch()
	}
	return session, ok
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions until the context is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			r.logger.Debug("workflow session evicted", zap.String("id", id))
		}
	}
}
