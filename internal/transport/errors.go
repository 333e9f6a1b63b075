package transport

import "fmt"

// HTTPError reports a non-2xx response from the ingestion or settings
// endpoint. Callers use Is4xx to decide retry eligibility: a client error
// means the request itself is malformed or unauthorized and will not
// succeed on retry.
type HTTPError struct {
	Code   int
	Status string
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s. Response: %s", e.Code, e.Status, e.Body)
}

func (e *HTTPError) Is4xx() bool {
	return e.Code >= 400 && e.Code < 500
}

// IsRetryable classifies server-side failures as transient; 4xx responses
// are terminal.
func (e *HTTPError) IsRetryable() bool {
	return !e.Is4xx()
}
