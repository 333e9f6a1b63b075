// Package session owns session and profile identity: a durable session id
// renewed after a background idle timeout, and the host-supplied profile
// id. All state transitions are serialized through the Manager.
package session

// Persisted keys within the session namespace.
const (
	KeySessionID = "session-id"
	KeyProfileID = "profile-id"
	// KeyCycle holds the epoch seconds of the last app-close.
	KeyCycle = "cycle"
)

// Store is a durable scoped key-value store that survives process
// restarts. Implementations partition their keys by a fixed namespace;
// the session manager is the only intended writer for that namespace.
type Store interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
	// GetInt64 returns 0 for a key that was never persisted.
	GetInt64(key string) (int64, error)
	SetInt64(key string, value int64) error
	Close() error
}
