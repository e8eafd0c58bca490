// Package session tracks visitor sessions. Each session owns the language the visitor
// picked and the profile controller loading the document in that language.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/types"
)

// Defaults for StoreOptions.
const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = time.Minute
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Session is one visitor's state.
type Session struct {
	ID         string
	Controller *profile.Controller

	mu       sync.Mutex
	lang     types.Language
	lastSeen time.Time
}

// Language returns the session's current language.
func (s *Session) Language() types.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// SetLanguage switches the session to lang and starts a fresh load. Selecting the
// current language is a no-op. It reports whether a switch happened.
func (s *Session) SetLanguage(lang types.Language) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang == s.lang {
		return false
	}
	s.lang = lang
	s.Controller.Load(lang)
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// StoreOptions configures a Store.
type StoreOptions struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	// NewController builds the controller for a new session.
	NewController func() *profile.Controller
	Clock         Clock
	Logger        *slog.Logger
}

// Store holds live sessions in memory.
type Store struct {
	opts StoreOptions
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewStore creates an empty store.
func NewStore(opts StoreOptions) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		opts:     opts,
		log:      opts.Logger,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Get returns the live session with id and marks it as seen.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	// The expiry check and the touch happen under the store lock so Sweep cannot
	// close a session between them.
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.opts.Clock.Now()
	if now.Sub(sess.idleSince()) > s.opts.TTL {
		delete(s.sessions, id)
		n := len(s.sessions)
		s.mu.Unlock()

		sess.Controller.Close()
		metrics.ActiveSessions.Set(float64(n))
		return nil, false
	}
	sess.touch(now)
	s.mu.Unlock()
	return sess, true
}

// Create starts a new session in lang and begins loading its profile.
func (s *Store) Create(lang types.Language) *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.opts.NewController(),
		lang:       lang,
		lastSeen:   s.opts.Clock.Now(),
	}
	sess.Controller.Load(lang)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	s.log.Debug("session created", "session", sess.ID, "lang", lang)
	return sess
}

// GetOrCreate returns the session with id, or a new one in lang when it does not exist
// or has expired. created reports which.
func (s *Store) GetOrCreate(id string, lang types.Language) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(lang), true
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and closes their controllers.
// It returns how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.opts.Clock.Now().Add(-s.opts.TTL)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Controller.Close()
	}
	metrics.ActiveSessions.Set(float64(n))
	if len(expired) > 0 {
		s.log.Debug("expired sessions", "count", len(expired), "active", n)
	}
	return len(expired)
}

// Run sweeps expired sessions on the cleanup interval until ctx ends or Close is called.
func (s *Store) Run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

// Close stops Run and closes every session's controller.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Controller.Close()
	}
	metrics.ActiveSessions.Set(0)
}
