package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(0)

	sess, err := m.Create()
	require.NoError(t, err)
	assert.Len(t, sess.ID, 36)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, m.Delete(sess.ID))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(sess.ID), ErrSessionNotFound)
}

func TestManagerLimit(t *testing.T) {
	m := NewManager(2)
	for range 2 {
		_, err := m.Create()
		require.NoError(t, err)
	}

	_, err := m.Create()
	assert.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 2, m.Len())
}

func TestManagerListOrder(t *testing.T) {
	m := NewManager(0)
	var ids []string
	for range 5 {
		sess, err := m.Create()
		require.NoError(t, err)
		ids = append(ids, sess.ID)
	}

	var listed []string
	for _, sess := range m.List() {
		listed = append(listed, sess.ID)
	}
	assert.Equal(t, ids, listed)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager(0)
	a, err := m.Create()
	require.NoError(t, err)
	b, err := m.Create()
	require.NoError(t, err)

	_, err = a.Drop(3)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Snapshot().Moves)
	assert.Equal(t, 0, b.Snapshot().Moves)
	assert.Equal(t, connect4.Yellow, a.Snapshot().Current)
	assert.Equal(t, connect4.Red, b.Snapshot().Current)
}

func TestSessionDropError(t *testing.T) {
	m := NewManager(0)
	sess, err := m.Create()
	require.NoError(t, err)

	snap, err := sess.Drop(-1)
	assert.ErrorIs(t, err, connect4.ErrInvalidColumn)
	assert.Equal(t, 0, snap.Moves)

	sess.Drop(0)
	snap = sess.Reset()
	assert.Equal(t, 0, snap.Moves)
	assert.Equal(t, connect4.Red, snap.Current)
}

func TestCleanupExpired(t *testing.T) {
	m := NewManager(0)
	stale, err := m.Create()
	require.NoError(t, err)
	fresh, err := m.Create()
	require.NoError(t, err)

	stale.mu.Lock()
	stale.lastAccessed = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	removed := m.CleanupExpired(30 * time.Minute)
	assert.Equal(t, []string{stale.ID}, removed)

	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
	_, err = m.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		origin  string
		want    bool
	}{
		{"no origin header", nil, "localhost:8080", "", true},
		{"same host", nil, "localhost:8080", "http://localhost:8080", true},
		{"other host", nil, "localhost:8080", "http://evil.example.com", false},
		{"listed", []string{"https://play.example.com"}, "api.example.com", "https://play.example.com", true},
		{"not listed", []string{"https://play.example.com"}, "api.example.com", "https://other.example.com", false},
		{"wildcard", []string{"*"}, "localhost:8080", "http://anything.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws/games/x", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
