package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/srb2live/infoboard/serverinfo"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits; the client only ever talks to one API host but
// the page and SSE handlers may trigger bursts of refreshes
const (
	defaultMaxIdleConns    = 10
	defaultMaxConnsPerHost = 10
	defaultIdleConnTimeout = 60 * time.Second
)

// defaultTimeout is the per-request timeout applied when the caller did not
// configure one.
const defaultTimeout = 10 * time.Second

// Client fetches server-info snapshots over HTTP.
//
// Client wraps an http.Client configured for polling a single API host.
// Timeouts are applied per request via context so a caller-supplied deadline
// always takes precedence.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a polling [Client] with pooled connections and the
// default per-request timeout.
func NewClient() *Client {
	return NewClientWith(&http.Client{
		// no global timeout; per-request timeouts are applied via context
		Transport: &http.Transport{
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: defaultMaxConnsPerHost,
			MaxConnsPerHost:     defaultMaxConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
		},
	})
}

// NewClientWith creates a [Client] around an existing http.Client. Tests use
// this to intercept the transport.
func NewClientWith(hc *http.Client) *Client {
	return &Client{httpClient: hc, timeout: defaultTimeout}
}

// SetTimeout overrides the per-request timeout. Zero or negative values are
// ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// ServerInfo issues GET {baseAPIURL}/server_info and decodes the response.
//
// The three legacy failure modes (transport failure, non-2xx status,
// malformed JSON) are all returned as errors; no retry is attempted and no
// partial result is ever returned.
func (c *Client) ServerInfo(ctx context.Context, baseAPIURL string) (serverinfo.ServerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := strings.TrimRight(baseAPIURL, "/") + "/server_info"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return serverinfo.ServerInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serverinfo.ServerInfo{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return serverinfo.ServerInfo{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverinfo.ServerInfo{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var info serverinfo.ServerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return serverinfo.ServerInfo{}, fmt.Errorf("malformed server_info body: %w", err)
	}

	return info, nil
}

// Close closes idle connections in the client's pool. The client remains
// usable afterwards; new connections are established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
