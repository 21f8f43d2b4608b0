// Package remote talks to the server-side add endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

// ErrAddRejected is returned when the endpoint answers non-2xx or
// success:false. It is recoverable: nothing was written.
var ErrAddRejected = errors.New("add rejected by endpoint")

// AddRequest is the body posted to the add endpoint.
type AddRequest struct {
	URL   string `json:"url"`
	Group string `json:"group,omitempty"`
}

// AddResponse is the endpoint's answer. On success it mirrors the stored
// entry; on failure only Success and Error are meaningful.
type AddResponse struct {
	Success     bool      `json:"success"`
	ID          string    `json:"id,omitempty"`
	URL         string    `json:"url,omitempty"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Index       int       `json:"index"`
	Group       string    `json:"group,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Error       string    `json:"error,omitempty"`
}

// Entry converts a successful response to the entry it describes.
func (r AddResponse) Entry() domain.Entry {
	return domain.Entry{
		ID:          r.ID,
		URL:         r.URL,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Index:       r.Index,
		Group:       r.Group,
		CreatedAt:   r.CreatedAt,
	}
}

// Submitter hands an add to a remote authority.
type Submitter interface {
	Submit(ctx context.Context, url, group string) (domain.Entry, error)
}

// Client posts adds to an endpoint such as http://host/api/crawl.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ Submitter = (*Client)(nil)

// NewClient creates a client for endpoint. A nil httpClient uses a default
// client with a 30s timeout, long enough for the server-side fetch.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts {url, group} and returns the entry the server stored.
func (c *Client) Submit(ctx context.Context, url, group string) (domain.Entry, error) {
	body, err := json.Marshal(AddRequest{URL: url, Group: group})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to encode add request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to reach add endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore close errors on a fully read body
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to read add response: %w", err)
	}

	var out AddResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.Entry{}, fmt.Errorf("%w: %d %s", ErrAddRejected, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return domain.Entry{}, fmt.Errorf("%w: malformed response: %v", ErrAddRejected, decodeErr)
	}
	if !out.Success {
		return domain.Entry{}, fmt.Errorf("%w: %s", ErrAddRejected, out.Error)
	}

	return out.Entry(), nil
}
