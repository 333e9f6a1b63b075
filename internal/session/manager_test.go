package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	return NewManager(NewMemoryStore(), cfg, nil)
}

func TestSessionIDStableAcrossCalls(t *testing.T) {
	m := newTestManager(t, Config{AppName: "demo", SourceKey: "src-1"})

	first, err := m.SessionID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := m.SessionID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReOpenRenewalBoundary(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     time.Duration
		wantRenewal bool
	}{
		{"just under the timeout", 1799 * time.Second, false},
		{"exactly the timeout", 1800 * time.Second, false},
		{"just over the timeout", 1801 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, Config{AppName: "demo", SourceKey: "src-1"})

			base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
			m.now = func() time.Time { return base }

			initial, err := m.SessionID()
			require.NoError(t, err)
			require.NoError(t, m.OnClose())

			m.now = func() time.Time { return base.Add(tt.elapsed) }
			require.NoError(t, m.ReOpen())

			current, err := m.SessionID()
			require.NoError(t, err)
			if tt.wantRenewal {
				assert.NotEqual(t, initial, current)
			} else {
				assert.Equal(t, initial, current)
			}
		})
	}
}

func TestFirstReOpenAfterInstallMints(t *testing.T) {
	m := newTestManager(t, Config{AppName: "demo", SourceKey: "src-1"})

	// No close was ever recorded, so the epoch-zero baseline applies.
	require.NoError(t, m.ReOpen())

	id, err := m.SessionID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestProfileIDWriteThroughCache(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Config{AppName: "demo"}, nil)

	id, err := m.ProfileID()
	require.NoError(t, err)
	assert.Empty(t, id, "unset profile id reads as empty")

	require.NoError(t, m.SetProfileID("user1"))

	id, err = m.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, "user1", id)

	persisted, err := store.GetString(KeyProfileID)
	require.NoError(t, err)
	assert.Equal(t, "user1", persisted)
}

func TestProfileIDFallsBackToStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetString(KeyProfileID, "restored-user"))

	m := NewManager(store, Config{AppName: "demo"}, nil)
	id, err := m.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, "restored-user", id)
}

func TestSourcePayloadShape(t *testing.T) {
	m := newTestManager(t, Config{
		AppName:   "demo-app",
		SourceKey: "src-key-1",
		Context:   map[string]interface{}{"os": "android", "locale": "en_US"},
	})

	src, err := m.Source()
	require.NoError(t, err)

	assert.Equal(t, "demo-app", src.ItemID())
	assert.Equal(t, "app", src.ItemType())
	assert.Equal(t, "src-key-1", src.Scope())
	assert.Equal(t, map[string]interface{}{"os": "android", "locale": "en_US"}, src.Properties())
}

func TestCustomIdleTimeout(t *testing.T) {
	m := NewManager(NewMemoryStore(), Config{
		AppName:     "demo",
		IdleTimeout: time.Minute,
	}, nil)

	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	initial, err := m.SessionID()
	require.NoError(t, err)
	require.NoError(t, m.OnClose())

	m.now = func() time.Time { return base.Add(61 * time.Second) }
	require.NoError(t, m.ReOpen())

	current, err := m.SessionID()
	require.NoError(t, err)
	assert.NotEqual(t, initial, current)
}
