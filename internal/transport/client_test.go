package transport

import (
	"compress/gzip"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primedata/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	return New(Config{
		Host:            serverURL,
		WriteKey:        "wk-1",
		SourceKey:       "sk-1",
		SettingsBaseURL: serverURL,
	}, nil)
}

func TestUploadSendsHeadersAndBody(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	conn, err := c.Smile(context.Background())
	require.NoError(t, err)

	_, err = conn.Writer.Write([]byte(`{"eventType":"track"}`))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	assert.Equal(t, EndpointSmile, gotPath)
	assert.Equal(t, `{"eventType":"track"}`, string(gotBody))
	assert.Equal(t, "wk-1", gotHeader.Get("x-client-access-token"))
	assert.Equal(t, "sk-1", gotHeader.Get("x-client-id"))
	assert.Equal(t, "text/plain;charset=UTF-8", gotHeader.Get("content-type"))
	assert.Equal(t, "application/json", gotHeader.Get("accept"))
}

func TestUploadGzipToggle(t *testing.T) {
	var gotEncoding string
	var decoded []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		decoded, _ = io.ReadAll(gz)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(Config{Host: server.URL, WriteKey: "wk-1", SourceKey: "sk-1", Gzip: true}, nil)
	require.NoError(t, c.Send(context.Background(), EndpointContext, []byte("compressed payload")))

	assert.Equal(t, "gzip", gotEncoding)
	assert.Equal(t, "compressed payload", string(decoded))
}

func TestUploadStatusClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{"bad request is terminal", http.StatusBadRequest, false},
		{"unauthorized is terminal", http.StatusUnauthorized, false},
		{"server error is transient", http.StatusInternalServerError, true},
		{"service unavailable is transient", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			c := newTestClient(server.URL)
			err := c.Send(context.Background(), EndpointSmile, []byte("x"))
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, stderrors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.Code)
			assert.Equal(t, tt.wantRetryable, httpErr.IsRetryable())
			assert.Equal(t, tt.status >= 400 && tt.status < 500, httpErr.Is4xx())
			assert.Equal(t, "nope", httpErr.Body)
		})
	}
}

func TestUploadNetworkFailureIsRetryableTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := newTestClient(server.URL)
	err := c.Send(context.Background(), EndpointSmile, []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))

	var appErr *errors.Error
	require.True(t, stderrors.As(err, &appErr))
	assert.True(t, appErr.IsRetryable())
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	conn, err := c.Smile(context.Background())
	require.NoError(t, err)
	_, err = conn.Writer.Write([]byte("x"))
	require.NoError(t, err)

	first := conn.Close()
	second := conn.Close()
	assert.NoError(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), requests.Load())
}

func TestFetchSettingsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/wk-1/settings", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"integrations":{"All":true}}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	settings, err := c.ProjectSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"All": true}, settings["integrations"])
}

func TestFetchSettingsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchSettings(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, stderrors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.True(t, httpErr.Is4xx())
	assert.Equal(t, "no such project", httpErr.Body)
}

func TestFetchSettingsConnectionReadable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	conn, err := c.FetchSettings(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	require.Nil(t, conn.Writer)
	body, err := io.ReadAll(conn.Reader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}
