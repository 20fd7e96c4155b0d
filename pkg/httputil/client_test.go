package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(srv.Client()), WithRetryDelay(time.Millisecond)}, opts...)
	return NewClient(opts...)
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "pomwalk-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		_, _ = w.Write([]byte("jar bytes"))
	}))
	defer srv.Close()

	c := newTestClient(srv, WithUserAgent("pomwalk-test"))
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL+"/a/b/1.0/b-1.0.jar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "jar bytes" {
		t.Errorf("body = %q", body)
	}
	if resp.Size != int64(len("jar bytes")) {
		t.Errorf("Size = %d", resp.Size)
	}
}

func TestClientGet_Status(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"gone", http.StatusGone, ErrNotFound, false},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"server error", http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(srv, WithBreakerThreshold(0))
			defer c.Close()

			_, err := c.Get(context.Background(), srv.URL+"/x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestClientGet_NoRetryByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	defer c.Close()

	if _, err := c.Get(context.Background(), srv.URL+"/x"); err == nil {
		t.Fatal("expected error")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestClientGet_Retries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(srv, WithRetries(2))
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL+"/x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()
	if got := hits.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestClientGet_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv, WithBreakerThreshold(2))
	defer c.Close()

	ctx := context.Background()
	for range 2 {
		if _, err := c.Get(ctx, srv.URL+"/x"); !errors.Is(err, ErrNetwork) {
			t.Fatalf("err = %v, want ErrNetwork", err)
		}
	}

	_, err := c.Get(ctx, srv.URL+"/x")
	if !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("err = %v, want ErrBreakerOpen", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("requests = %d, want 2 (breaker should short-circuit)", got)
	}
}

func TestClientGet_NotFoundKeepsBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv, WithBreakerThreshold(1))
	defer c.Close()

	for range 5 {
		if _, err := c.Get(context.Background(), srv.URL+"/x"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	for host, state := range c.Breakers().State() {
		if state != "closed" {
			t.Errorf("breaker for %s is %s, want closed", host, state)
		}
	}
}
