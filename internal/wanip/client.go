package wanip

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultURL is the public service queried for the WAN address. It
	// returns the caller's IP as a bare text body.
	DefaultURL = "https://ipapi.co/ip/"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retry attempts after a failed
	// request.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between retry attempts; the
	// delay doubles per attempt.
	DefaultRetryDelay = 1 * time.Second
)

// maxBodySize caps the response read; an IP address is tiny and anything
// bigger means the service is not behaving.
const maxBodySize = 256

// Client fetches the current WAN IP address from a text-over-HTTP service.
type Client struct {
	URL        string
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient creates a client for the given service URL. An empty url selects
// DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// CurrentIP returns the WAN address reported by the service. Transient
// failures (transport errors and 5xx responses) are retried with doubling
// delays up to MaxRetries; 4xx responses fail immediately.
func (c *Client) CurrentIP(ctx context.Context) (string, error) {
	var lastErr error
	delay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
		}

		ip, retryable, err := c.fetch(ctx)
		if err == nil {
			return ip, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("wan ip lookup failed after %d attempts: %w", c.MaxRetries+1, lastErr)
}

func (c *Client) fetch(ctx context.Context) (ip string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request for %s: %w", c.URL, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("get %s: %w", c.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("get %s: unexpected status %s", c.URL, resp.Status)
		return "", resp.StatusCode >= 500, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", true, fmt.Errorf("read response from %s: %w", c.URL, err)
	}

	addr := strings.TrimSpace(string(data))
	if net.ParseIP(addr) == nil {
		return "", false, fmt.Errorf("service %s returned %q, not an IP address", c.URL, addr)
	}
	return addr, false, nil
}
