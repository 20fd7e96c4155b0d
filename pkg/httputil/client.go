package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/pomwalk/pkg/buildinfo"
	"github.com/matzehuels/pomwalk/pkg/observability"
)

// Sentinel errors for repository requests.
var (
	// ErrNotFound is returned for 404 and 410 responses.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for connection failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrBreakerOpen is returned while a host's circuit breaker is open.
	ErrBreakerOpen = errors.New("circuit breaker open")
)

const (
	// DefaultTimeout bounds a single request, body included.
	DefaultTimeout = 60 * time.Second

	defaultRetryDelay = 500 * time.Millisecond
)

// Response is a successful GET. The caller must close Body.
type Response struct {
	Body io.ReadCloser
	Size int64 // -1 if unknown
}

// Client performs GET requests against a remote repository.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http       *http.Client
	breakers   *Breakers
	userAgent  string
	retries    int
	retryDelay time.Duration
	stop       context.CancelFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default DNS-caching HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithRetryDelay sets the initial backoff between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithBreakerThreshold sets the consecutive failures that open a host's
// breaker. Zero disables circuit breaking.
func WithBreakerThreshold(n int) Option {
	return func(c *Client) { c.breakers = NewBreakers(n) }
}

// NewClient creates a Client. Close releases the background DNS refresher.
func NewClient(opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: NewTransport(ctx),
		},
		breakers:   NewBreakers(DefaultBreakerThreshold),
		userAgent:  buildinfo.UserAgent(),
		retryDelay: defaultRetryDelay,
		stop:       cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close stops background work. It is safe to call more than once.
func (c *Client) Close() error {
	c.stop()
	return nil
}

// Breakers returns the client's circuit breakers.
func (c *Client) Breakers() *Breakers { return c.breakers }

// Get requests url and returns its body on a 200 response.
//
// Returns:
//   - [ErrNotFound] for 404 and 410
//   - [ErrBreakerOpen] if the host's breaker is open
//   - [ErrNetwork] for everything else
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	var resp *Response
	err := c.breakers.Do(url, func() error {
		return Retry(ctx, c.retries+1, c.retryDelay, func() error {
			var err error
			resp, err = c.do(ctx, url)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, err
	}
	return &Response{Body: resp.Body, Size: resp.ContentLength}, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound, code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
