package transport

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primedata/pkg/circuitbreaker"
)

func breakerTestConfig(name string) circuitbreaker.Config {
	cfg := circuitbreaker.DefaultConfig(name)
	cfg.Interval = time.Minute
	cfg.Timeout = time.Minute
	return cfg
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	bc := NewBreakerClient(newTestClient(server.URL), breakerTestConfig("upload-5xx"))

	for i := 0; i < 3; i++ {
		err := bc.Send(context.Background(), EndpointSmile, []byte("x"))
		require.Error(t, err)
	}
	assert.True(t, bc.IsOpen())

	// Open breaker fails fast without touching the network.
	err := bc.Send(context.Background(), EndpointSmile, []byte("x"))
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, stderrors.As(err, &httpErr), "fail-fast error is not an HTTP response")
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	bc := NewBreakerClient(newTestClient(server.URL), breakerTestConfig("upload-4xx"))

	for i := 0; i < 5; i++ {
		err := bc.Send(context.Background(), EndpointSmile, []byte("x"))
		require.Error(t, err)

		var httpErr *HTTPError
		require.True(t, stderrors.As(err, &httpErr))
		assert.True(t, httpErr.Is4xx())
	}
	assert.False(t, bc.IsOpen(), "terminal request errors must not trip the breaker")
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bc := NewBreakerClient(newTestClient(server.URL), breakerTestConfig("upload-ok"))
	require.NoError(t, bc.Send(context.Background(), EndpointSmile, []byte("x")))
	assert.False(t, bc.IsOpen())
}
