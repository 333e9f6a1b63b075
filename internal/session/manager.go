package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"primedata/internal/constants"
	"primedata/internal/logger"
	"primedata/internal/payload"
	"primedata/pkg/metrics"
)

// Config describes the host application on whose behalf sessions are
// tracked.
type Config struct {
	// AppName identifies the host application in the self-describing
	// source payload.
	AppName string
	// SourceKey is the scope tag attached to source payloads.
	SourceKey string
	// Context is the analytics-context mapping carried as source-payload
	// properties.
	Context map[string]interface{}
	// IdleTimeout is the background idle period after which ReOpen mints a
	// fresh session id. Zero means the default of 30 minutes.
	IdleTimeout time.Duration
}

// Manager is the single logical owner of session continuity decisions.
// Every transition on the persisted scalars goes through one mutex, so
// concurrent ReOpen/OnClose/SessionID calls cannot tear the state.
type Manager struct {
	mu    sync.Mutex
	store Store
	cfg   Config
	log   logger.Logger

	// profileID caches the last written value; reads consult it before
	// falling back to the store.
	profileID string

	now func() time.Time
}

func NewManager(store Store, cfg Config, log logger.Logger) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = constants.DefaultSessionIdleTimeout
	}
	if log == nil {
		log = logger.NopLogger()
	}
	return &Manager{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// SessionID returns the persisted session id, minting and persisting one
// on first use. It never expires a session by itself.
func (m *Manager) SessionID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.store.GetString(KeySessionID)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
		if err := m.store.SetString(KeySessionID, id); err != nil {
			return "", err
		}
		m.log.Debugw("minted initial session id", "session_id", id)
	}
	return id, nil
}

// ReOpen handles the app-foreground transition: when the time since the
// last close exceeds the idle timeout, the previous session id is
// discarded and a fresh one persisted. The last-close baseline defaults
// to epoch zero, so the first ReOpen after install always mints.
func (m *Manager) ReOpen() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lastClose, err := m.store.GetInt64(KeyCycle)
	if err != nil {
		return err
	}
	interval := m.now().Unix() - lastClose
	if interval <= int64(m.cfg.IdleTimeout/time.Second) {
		return nil
	}

	id := uuid.NewString()
	if err := m.store.SetString(KeySessionID, id); err != nil {
		return err
	}
	metrics.SessionRenewalsTotal.Inc()
	m.log.Infow("session renewed after idle timeout",
		"session_id", id, "idle_seconds", interval)
	return nil
}

// OnClose handles the app-background transition by persisting the close
// time.
func (m *Manager) OnClose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.SetInt64(KeyCycle, m.now().Unix())
}

// ProfileID returns the cached profile id, falling back to the store. ""
// means unset.
func (m *Manager) ProfileID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileID != "" {
		return m.profileID, nil
	}
	return m.store.GetString(KeyProfileID)
}

func (m *Manager) SetProfileID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileID = id
	return m.store.SetString(KeyProfileID, id)
}

// Scope returns the source key this manager tags payloads with.
func (m *Manager) Scope() string {
	return m.cfg.SourceKey
}

// Source builds the self-describing app-open body: the host application
// as an item payload with itemType "app", scoped to the source key, with
// the analytics context as properties.
func (m *Manager) Source() (*payload.ItemPayload, error) {
	b := payload.NewItemBuilder().
		WithItemID(m.cfg.AppName).
		WithItemType("app").
		WithScope(m.cfg.SourceKey)
	if len(m.cfg.Context) > 0 {
		b = b.WithProperties(m.cfg.Context)
	}
	return b.Build()
}
