package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	forecastapp "github.com/6ogo/Forecast-app"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one user's dashboard state: its own pipeline, so the load and
// fit caches are scoped per session and never leak across users, plus the
// most recent load result.
type Session struct {
	ID       string
	Pipeline *forecastapp.Pipeline
	Load     *forecastapp.LoadResult
	Created  time.Time
	LastSeen time.Time
}

// SessionStore tracks active sessions keyed by UUID. Idle sessions expire
// after ttl; expiry is lazy, checked on access and swept on Create, so the
// store stays bounded under session churn without a janitor goroutine.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      zerolog.Logger
	ttl      time.Duration
	factory  forecastapp.ModelFactory
}

// NewSessionStore creates a store whose pipelines use the default seasonal
// model. A non-nil factory overrides the model, used by tests.
func NewSessionStore(log zerolog.Logger, ttl time.Duration, factory forecastapp.ModelFactory) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		log:      log,
		ttl:      ttl,
		factory:  factory,
	}
}

// Create registers a new session with a fresh pipeline and sweeps out
// expired ones.
func (s *SessionStore) Create() *Session {
	pipeline := forecastapp.New(s.log)
	if s.factory != nil {
		pipeline = forecastapp.NewWithModelFactory(s.log, s.factory)
	}
	now := time.Now()
	sess := &Session{
		ID:       uuid.NewString(),
		Pipeline: pipeline,
		Created:  now,
		LastSeen: now,
	}
	s.mu.Lock()
	for id, old := range s.sessions {
		if s.expired(old, now) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session for id, refreshing its idle timer. An expired
// session is evicted and reported as not found.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := time.Now()
	if s.expired(sess, now) {
		s.Delete(id)
		return nil, ErrSessionNotFound
	}
	sess.LastSeen = now
	return sess, nil
}

// Delete removes the session for id.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.After(sess.LastSeen.Add(s.ttl))
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
