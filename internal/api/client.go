// Package api is a typed client for the vacations and statistics REST
// APIs.  One Client talks to one base URL; the portal builds one per API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/iliyamo/vacation-portal/internal/metrics"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// LoginPath is "/users/login" for the vacations API and "/login" for
	// the statistics API.
	LoginPath string
	// LogoutPath is left empty when the API has no logout endpoint.
	LogoutPath string
	Timeout    time.Duration
	// HTTPClient overrides the default client.  Its Jar is replaced when nil.
	HTTPClient *http.Client
}

// Client calls the upstream API.  Cookies set by the server (the session
// cookie in cookie persistence mode) are kept in an in-memory jar and sent
// back on every request.
type Client struct {
	baseURL    string
	loginPath  string
	logoutPath string
	http       *http.Client
}

// New builds a Client.  BaseURL must be absolute.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/users/login"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		loginPath:  opts.LoginPath,
		logoutPath: opts.LogoutPath,
		http:       hc,
	}, nil
}

// do sends one request.  body is JSON-encoded unless it is an io.Reader, in
// which case contentType must describe it.  out, when non-nil, receives the
// decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, body any, contentType string, out any) error {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rdr = b
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveUpstream(method, routeOf(path), start, resp, err)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, method, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// routeOf collapses numeric path segments so metrics labels stay bounded.
func routeOf(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
