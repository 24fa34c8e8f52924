// ABOUTME: In-memory editing sessions with TTL cleanup and capacity limits.
// ABOUTME: Each session owns a workspace, a path tracker and a persistence manager.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/2389-research/tracie/scene/core"
	"github.com/2389-research/tracie/scene/files"
	"github.com/2389-research/tracie/scene/route"
	"github.com/2389-research/tracie/scene/store"
	"github.com/google/uuid"
)

// Session registry defaults.
const (
	DefaultMaxSessions     = 200
	DefaultSessionTTL      = 24 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// SessionOptions configures every session a Sessions store creates.
type SessionOptions struct {
	Docs         store.DocumentStore
	Grid         bool
	HistoryLimit int
	Confirmer    files.Confirmer
	Logger       *slog.Logger
}

// Session is one editing context. Callers hold the embedded mutex while
// they mutate or read the workspace.
type Session struct {
	sync.Mutex

	ID         string
	Workspace  *core.Workspace
	Router     *route.Router
	Tracker    *route.Tracker
	Files      *files.Manager
	CreatedAt  time.Time
	LastAccess time.Time
}

// NewSession builds a session with a fresh workspace.
func NewSession(id string, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ws := core.NewWorkspace(core.WithHistoryLimit(opts.HistoryLimit))

	ropts := route.DefaultOptions()
	ropts.Grid = opts.Grid
	ropts.Logger = logger.With("session", id)
	router := route.New(ws.Geometry, ropts)
	tracker := route.Track(ws.Scene, router)

	docs := opts.Docs
	if docs == nil {
		docs = store.NewMemoryStore(nil)
	}
	fopts := []files.Option{files.WithPaths(tracker), files.WithLogger(logger.With("session", id))}
	if opts.Confirmer != nil {
		fopts = append(fopts, files.WithConfirmer(opts.Confirmer))
	}

	now := time.Now()
	return &Session{
		ID:         id,
		Workspace:  ws,
		Router:     router,
		Tracker:    tracker,
		Files:      files.New(docs, ws, fopts...),
		CreatedAt:  now,
		LastAccess: now,
	}
}

// Close detaches the session's scene observers.
func (s *Session) Close() {
	s.Tracker.Stop()
	s.Files.Close()
}

// Sessions is a thread-safe session registry.
type Sessions struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	opts        SessionOptions
}

// NewSessions returns an empty registry.
func NewSessions(opts SessionOptions, maxSessions int, ttl time.Duration) *Sessions {
	return &Sessions{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		opts:        opts,
	}
}

// Create starts a new session, evicting the least recently used one when
// the registry is full.
func (s *Sessions) Create() *Session {
	sess := NewSession(uuid.New().String(), s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldest *Session
		for _, cand := range s.sessions {
			if oldest == nil || cand.LastAccess.Before(oldest.LastAccess) {
				oldest = cand
			}
		}
		delete(s.sessions, oldest.ID)
		oldest.Close()
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a session and refreshes its LastAccess time.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.LastAccess = time.Now()
	return sess, true
}

// Delete closes and removes a session.
func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Sessions) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			sess.Close()
		}
	}
}

// StartCleanup runs Cleanup every interval until the returned stop function
// is called.
func (s *Sessions) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
