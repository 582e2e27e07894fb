// Package httpapi serves Connect Four games over HTTP, with WebSocket push
// of every state change. Each session owns an independent game.
package httpapi

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Session is one game behind the API. Its methods serialize access to the
// game, so concurrent requests for the same session apply one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	state        *connect4.State
	lastAccessed time.Time
}

// Drop plays col for the current player and returns the resulting snapshot.
// On error the snapshot is the unchanged state.
func (s *Session) Drop(col int) (connect4.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccessed = time.Now()
	_, err := s.state.Drop(col)
	return s.state.Snapshot(), err
}

// Reset starts a new game in the session.
func (s *Session) Reset() connect4.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccessed = time.Now()
	s.state.Reset()
	return s.state.Snapshot()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() connect4.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccessed = time.Now()
	return s.state.Snapshot()
}

// LastAccessed returns when the session was last used.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// Manager handles game session lifecycle.
type Manager struct {
	sessions    map[string]*Session
	maxSessions int
	mu          sync.RWMutex
}

// NewManager creates a session manager. maxSessions <= 0 means no limit.
func NewManager(maxSessions int) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
	}
}

// Create starts a new session with a fresh game.
func (m *Manager) Create() (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:           uuid.Must(uuid.NewV7()).String(),
		CreatedAt:    now,
		state:        connect4.NewGame(),
		lastAccessed: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes sessions not used for maxAge and returns their IDs.
func (m *Manager) CleanupExpired(maxAge time.Duration) []string {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, sess := range m.sessions {
		if sess.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}
