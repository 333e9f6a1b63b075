package transport

import (
	"io"
	"sync"
)

// Connection wraps one in-flight HTTP exchange as a scoped resource.
// Exactly one of Writer (upload) or Reader (settings fetch) is non-nil.
// Close must be called on every exit path; it releases the underlying
// socket exactly once and reports the outcome of the exchange.
type Connection struct {
	Writer io.Writer
	Reader io.Reader

	once     sync.Once
	closeFn  func() error
	closeErr error
}

// Close finishes the exchange and releases the connection. It is safe to
// call more than once; later calls return the first result.
func (c *Connection) Close() error {
	c.once.Do(func() {
		if c.closeFn != nil {
			c.closeErr = c.closeFn()
		}
	})
	return c.closeErr
}
