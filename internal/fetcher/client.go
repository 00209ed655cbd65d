package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OW-Research/llmsgen/internal/cache"
	"github.com/OW-Research/llmsgen/internal/domain"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client is a polite HTTP client for documentation pages: explicit
// timeout, fixed per-host delay between consecutive requests, bounded
// retry, optional response cache.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	retrier      *Retrier
	throttle     *Throttle
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout     time.Duration
	Delay       time.Duration
	MaxRetries  int
	UserAgent   string
	Cache       domain.Cache
	EnableCache bool
	CacheTTL    time.Duration
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:    30 * time.Second,
		Delay:      1 * time.Second,
		MaxRetries: 3,
		CacheTTL:   24 * time.Hour,
	}
}

// NewClient creates a new polite HTTP client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		userAgent:    userAgent,
		retrier:      retrier,
		throttle:     NewThrottle(opts.Delay),
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache && opts.Cache != nil,
		cacheTTL:     opts.CacheTTL,
	}
}

// Delay returns the current per-host politeness delay
func (c *Client) Delay() time.Duration {
	return c.throttle.Delay()
}

// SetDelay adjusts the per-host politeness delay
func (c *Client) SetDelay(delay time.Duration) {
	c.throttle.SetDelay(delay)
}

// CacheTTL returns the TTL applied to newly cached responses
func (c *Client) CacheTTL() time.Duration {
	return c.cacheTTL
}

// SetCacheTTL adjusts the TTL applied to newly cached responses
func (c *Client) SetCacheTTL(ttl time.Duration) {
	c.cacheTTL = ttl
}

// Get fetches content from a URL
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches content with custom headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*Response, error) {
	if c.cacheEnabled {
		if cached, err := c.getFromCache(ctx, url); err == nil {
			return cached, nil
		}
	}

	var resp *Response
	err := c.retrier.Retry(ctx, func() error {
		var err error
		resp, err = c.doRequest(ctx, url, extraHeaders)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && resp != nil {
		_ = c.saveToCache(ctx, url, resp)
	}

	return resp, nil
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}

func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*Response, error) {
	// Politeness delay: block until the per-host minimum gap has passed
	if err := c.throttle.Wait(ctx, targetURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        &domain.FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)},
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
	}, nil
}

func (c *Client) getFromCache(ctx context.Context, url string) (*Response, error) {
	data, err := c.cache.Get(ctx, cache.PageKey(url))
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  http.StatusOK,
		Body:        data,
		ContentType: "text/html",
		URL:         url,
		FromCache:   true,
	}, nil
}

func (c *Client) saveToCache(ctx context.Context, url string, resp *Response) error {
	return c.cache.Set(ctx, cache.PageKey(url), resp.Body, c.cacheTTL)
}

// Close releases client resources
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
