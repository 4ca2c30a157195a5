package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Getter fetches a URL and decodes its JSON body into v
type Getter interface {
	GetJSON(ctx context.Context, rawURL string, v any) error
}

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// Client performs the GET requests against the search API
type Client struct {
	userAgent string
	client    *http.Client
}

// NewClient creates a client. A zero timeout falls back to 15 seconds.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "gitsuggest"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// GetJSON implements Getter
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
