package transport

import (
	"context"
	stderrors "errors"

	"primedata/pkg/circuitbreaker"
	"primedata/pkg/errors"
)

// BreakerClient decorates a Client with a circuit breaker so callers fail
// fast while the endpoint is unhealthy. Retry policy stays with the
// caller; the breaker only short-circuits.
type BreakerClient struct {
	client *Client
	cb     *circuitbreaker.Wrapper
}

func NewBreakerClient(client *Client, cfg circuitbreaker.Config) *BreakerClient {
	return &BreakerClient{
		client: client,
		cb:     circuitbreaker.NewWrapper(cfg),
	}
}

func (b *BreakerClient) Send(ctx context.Context, endpoint string, body []byte) error {
	res, err := b.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		sendErr := b.client.Send(ctx, endpoint, body)
		var httpErr *HTTPError
		if stderrors.As(sendErr, &httpErr) && httpErr.Is4xx() {
			// A terminal request error says nothing about endpoint health;
			// pass it through without tripping the breaker.
			return sendErr, nil
		}
		return nil, sendErr
	})
	if err != nil {
		return breakerError(err)
	}
	if res != nil {
		if passthrough, ok := res.(error); ok {
			return passthrough
		}
	}
	return nil
}

func (b *BreakerClient) ProjectSettings(ctx context.Context) (map[string]interface{}, error) {
	res, err := b.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return b.client.ProjectSettings(ctx)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return res.(map[string]interface{}), nil
}

func (b *BreakerClient) IsOpen() bool {
	return b.cb.IsOpen()
}

// breakerError keeps transport's classification for errors surfaced by
// the breaker itself (open state, too many requests): the endpoint may
// recover, so they stay retryable.
func breakerError(err error) error {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return err
	}
	if errors.IsTransport(err) {
		return err
	}
	return errors.ErrTransport.WithCause(err).AsRetryable()
}
