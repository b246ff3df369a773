package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

const defaultIdleTTL = 30 * time.Minute

// Session is the server-side context of one browser session.
type Session struct {
	ID      string
	Manager *SessionManager
	Client  ports.Client
	Chrome  *view.ChromeState

	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// SessionFactory builds the uninitialised session for id.
type SessionFactory func(id string) *Session

type registryEntry struct {
	ready chan struct{}
	sess  *Session
	err   error
}

// SessionRegistry holds one initialised Session per session id and evicts
// idle ones.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	factory  SessionFactory
	idleTTL  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionRegistry(factory SessionFactory, idleTTL time.Duration, log zerolog.Logger) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]*registryEntry),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
		log:      log.With().Str("component", "session_registry").Logger(),
	}
}

// Get returns the session for id, creating and initialising it on first use.
// Concurrent first requests share one initialisation.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok {
		e = &registryEntry{ready: make(chan struct{})}
		r.sessions[id] = e
	}
	r.mu.Unlock()

	if !ok {
		e.sess = r.factory(id)
		e.err = e.sess.Manager.Initialize(ctx)
		if e.err != nil {
			e.sess.Manager.Close()
			r.mu.Lock()
			delete(r.sessions, id)
			r.mu.Unlock()
		}
		close(e.ready)
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	e.sess.touch(r.now())
	return e.sess, nil
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict closes and drops every session idle for longer than the idle TTL.
// It returns the number of evicted sessions.
func (r *SessionRegistry) Evict() int {
	now := r.now()
	var stale []*Session

	r.mu.Lock()
	for id, e := range r.sessions {
		select {
		case <-e.ready:
		default:
			continue
		}
		if e.sess.idleSince(now) > r.idleTTL {
			stale = append(stale, e.sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Manager.Close()
		r.log.Debug().Str("session_id", s.ID).Msg("idle session evicted")
	}
	return len(stale)
}

// Run evicts idle sessions periodically until ctx is cancelled, then closes
// all remaining sessions.
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				r.log.Info().Int("evicted", n).Int("live", r.Len()).Msg("session sweep")
			}
		}
	}
}

// Close closes every session.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	entries := r.sessions
	r.sessions = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range entries {
		<-e.ready
		if e.sess != nil {
			e.sess.Manager.Close()
		}
	}
}
