package dialog

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/geo"
)

// ErrSessionNotFound is returned when no live session exists for an id.
var ErrSessionNotFound = errors.New("dialog session not found")

// Session is one conversation's state: which step it is on and the
// coordinates gathered so far. Sessions are value types; mutate a copy and
// hand it back to Put.
type Session struct {
	ID         string
	State      State
	Start      geo.Coordinate
	End        geo.Coordinate
	LastActive time.Time
}

// Store is a concurrency-safe in-memory session store keyed by session id.
// Sessions idle longer than the TTL are treated as gone.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session

	ttl time.Duration
	now func() time.Time // test hook
}

// NewStore creates a Store. A ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a fresh session awaiting the start coordinate.
func (s *Store) Create() Session {
	sess := Session{
		ID:         uuid.NewString(),
		State:      StateAwaitingStart,
		LastActive: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for an id. Expired sessions are evicted on access.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	if s.expired(sess) {
		delete(s.sessions, id)
		return Session{}, ErrSessionNotFound
	}

	return sess, nil
}

// Put writes a session back, refreshing its activity timestamp.
func (s *Store) Put(sess Session) {
	sess.LastActive = s.now()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

// Delete removes a session regardless of state.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep evicts all expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired or not yet swept included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(sess.LastActive) > s.ttl
}
