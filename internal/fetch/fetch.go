// Package fetch retrieves the raw HTML of a page.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

const (
	DefaultTimeout   = 10 * time.Second
	DefaultMaxBytes  = 5 << 20
	DefaultUserAgent = "letterplace/1.0 (+link preview)"
)

// Fetcher returns the body of a page as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Options struct {
	Timeout   time.Duration // whole-request timeout
	MaxBytes  int64         // body bytes read before truncating
	UserAgent string
}

// HTTPFetcher fetches pages over HTTP(S), follows redirects and decodes the
// body to UTF-8 using the declared or sniffed charset.
type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// New builds a fetcher, filling zero options with defaults.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   opts.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   opts.Timeout,
			ResponseHeaderTimeout: opts.Timeout,
			MaxIdleConns:          16,
			IdleConnTimeout:       90 * time.Second,
		},
	}

	return &HTTPFetcher{
		client:    client,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
	}
}

// Fetch GETs url and returns its body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore close errors on a fully read body
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrStatus, url, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, f.maxBytes)

	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset label: read the bytes as they are.
		decoded = body
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return string(data), nil
}
