package constants

import "time"

const (
	Version   = "1.0.0"
	UserAgent = "prime-analytics-go/" + Version
)

// Transport defaults. Connect and read timeouts are wired into the HTTP
// client; callers may override them through configuration.
const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 20 * time.Second

	DefaultSettingsBaseURL = "https://cdn-settings.segment.com"

	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300

	// MaxErrorBodyBytes caps how much of an error response body is retained
	// for diagnostics.
	MaxErrorBodyBytes = 4096
)

// Session continuity.
const (
	// SessionNamespace partitions the durable key-value store; the session
	// manager is the sole intended writer for this namespace.
	SessionNamespace = "prime-data-session"

	// DefaultSessionIdleTimeout is the background idle period after which a
	// fresh session id is minted on the next app-open.
	DefaultSessionIdleTimeout = 30 * time.Minute
)
