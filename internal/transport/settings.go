package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"primedata/internal/constants"
	"primedata/pkg/errors"
	"primedata/pkg/metrics"
)

// FetchSettings opens a read exchange against the remote-settings CDN.
// Any status other than 200 releases the connection and fails with an
// HTTPError before the caller sees a Connection.
func (c *Client) FetchSettings(ctx context.Context) (*Connection, error) {
	target := fmt.Sprintf("%s/v1/projects/%s/settings", c.cfg.SettingsBaseURL, c.cfg.WriteKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.ErrTransport.WithCause(err).AsFatal()
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.SettingsFetchesTotal.WithLabelValues("error").Inc()
		return nil, errors.ErrTransport.WithCause(err).AsRetryable()
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := c.httpError(resp)
		resp.Body.Close()
		metrics.SettingsFetchesTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return nil, httpErr
	}

	metrics.SettingsFetchesTotal.WithLabelValues("ok").Inc()
	return &Connection{
		Reader: resp.Body,
		closeFn: func() error {
			io.Copy(io.Discard, resp.Body)
			return resp.Body.Close()
		},
	}, nil
}

// ProjectSettings fetches and decodes the remote settings document.
func (c *Client) ProjectSettings(ctx context.Context) (map[string]interface{}, error) {
	conn, err := c.FetchSettings(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var settings map[string]interface{}
	if err := json.NewDecoder(conn.Reader).Decode(&settings); err != nil {
		return nil, errors.ErrTransport.WithCause(err).AsFatal()
	}
	return settings, nil
}
