// Package transport drives outbound HTTP exchanges for event upload and
// remote-settings fetch. It classifies failures for the caller's retry
// policy but never retries on its own.
package transport

import (
	"compress/gzip"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"primedata/internal/constants"
	"primedata/internal/logger"
	"primedata/pkg/errors"
	"primedata/pkg/metrics"
)

// Upload endpoints relative to the configured host.
const (
	EndpointSmile   = "/smile"
	EndpointContext = "/context"
)

// Config carries the endpoint identity and the connection behavior knobs.
// Gzip compression and the connect/read timeouts are explicit options
// rather than hard-wired.
type Config struct {
	Host      string
	WriteKey  string
	SourceKey string

	// SettingsBaseURL overrides the settings CDN, mainly for tests.
	SettingsBaseURL string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// Gzip enables Content-Encoding: gzip on upload bodies.
	Gzip bool
}

type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

func New(cfg Config, log logger.Logger) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = constants.DefaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = constants.DefaultReadTimeout
	}
	if cfg.SettingsBaseURL == "" {
		cfg.SettingsBaseURL = constants.DefaultSettingsBaseURL
	}
	if log == nil {
		log = logger.NopLogger()
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   cfg.ConnectTimeout,
				ResponseHeaderTimeout: cfg.ReadTimeout,
			},
		},
		log: log,
	}
}

// Smile opens an upload exchange against the event ingestion endpoint.
func (c *Client) Smile(ctx context.Context) (*Connection, error) {
	return c.upload(ctx, EndpointSmile)
}

// Context opens an upload exchange against the contextual-event endpoint.
func (c *Client) Context(ctx context.Context) (*Connection, error) {
	return c.upload(ctx, EndpointContext)
}

type uploadResult struct {
	resp *http.Response
	err  error
}

func (c *Client) upload(ctx context.Context, endpoint string) (*Connection, error) {
	target := c.cfg.Host + endpoint
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, errors.ErrTransport.WithCause(err).AsFatal()
	}

	pr, pw := io.Pipe()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		return nil, errors.ErrTransport.WithCause(err).AsFatal()
	}
	req.Header.Set("x-client-access-token", c.cfg.WriteKey)
	req.Header.Set("x-client-id", c.cfg.SourceKey)
	req.Header.Set("content-type", "text/plain;charset=UTF-8")
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent)

	var body io.Writer = pw
	var gz *gzip.Writer
	if c.cfg.Gzip {
		req.Header.Set("Content-Encoding", "gzip")
		gz = gzip.NewWriter(pw)
		body = gz
	}

	start := time.Now()
	done := make(chan uploadResult, 1)
	go func() {
		resp, doErr := c.http.Do(req)
		done <- uploadResult{resp: resp, err: doErr}
	}()

	conn := &Connection{Writer: body}
	conn.closeFn = func() error {
		if gz != nil {
			if gzErr := gz.Close(); gzErr != nil {
				pw.CloseWithError(gzErr)
			}
		}
		pw.Close()
		res := <-done
		metrics.UploadDuration.WithLabelValues(endpoint).
			Observe(float64(time.Since(start).Milliseconds()))
		return c.finishUpload(endpoint, res)
	}
	return conn, nil
}

func (c *Client) finishUpload(endpoint string, res uploadResult) error {
	if res.err != nil {
		metrics.UploadsTotal.WithLabelValues(endpoint, "error").Inc()
		c.log.Warnw("upload failed before response", "endpoint", endpoint, "error", res.err)
		return errors.ErrTransport.WithCause(res.err).AsRetryable()
	}
	defer res.resp.Body.Close()

	if res.resp.StatusCode < constants.HTTPStatusOKMin || res.resp.StatusCode >= constants.HTTPStatusOKMax {
		metrics.UploadsTotal.WithLabelValues(endpoint, strconv.Itoa(res.resp.StatusCode)).Inc()
		return c.httpError(res.resp)
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, res.resp.Body)
	metrics.UploadsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

// Send serializes the common write-then-close upload flow: open the
// exchange, write body, and close on every path.
func (c *Client) Send(ctx context.Context, endpoint string, body []byte) error {
	conn, err := c.upload(ctx, endpoint)
	if err != nil {
		return err
	}
	if _, werr := conn.Writer.Write(body); werr != nil {
		conn.Close()
		return errors.ErrTransport.WithCause(werr).AsRetryable()
	}
	return conn.Close()
}

func (c *Client) httpError(resp *http.Response) *HTTPError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodyBytes))
	return &HTTPError{
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   strings.TrimSpace(string(raw)),
	}
}
