package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counts(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()

	m.OnDescriptor(ctx, "g:a:1", 0)
	m.OnDescriptor(ctx, "g:b:1", 1)
	m.OnSkip(ctx, "UNRESOLVED_VERSION")
	m.OnFetch(ctx, "jar", "downloaded", 100, time.Millisecond)
	m.OnFetch(ctx, "jar", "downloaded", 50, time.Millisecond)
	m.OnFetch(ctx, "pom", "not_found", 0, time.Millisecond)
	m.OnCacheHit(ctx, "notfound")
	m.OnWalkComplete(ctx, "run", WalkStats{}, time.Second, errors.New("boom"))
	m.OnResponse(ctx, "GET", "repo", "/x", 404, time.Millisecond)
	m.OnError(ctx, "GET", "repo", "/x", errors.New("reset"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"descriptors", testutil.ToFloat64(m.descriptors), 2},
		{"skips", testutil.ToFloat64(m.skips.WithLabelValues("UNRESOLVED_VERSION")), 1},
		{"jar downloads", testutil.ToFloat64(m.fetches.WithLabelValues("jar", "downloaded")), 2},
		{"jar bytes", testutil.ToFloat64(m.fetchBytes.WithLabelValues("jar")), 150},
		{"pom not found", testutil.ToFloat64(m.fetches.WithLabelValues("pom", "not_found")), 1},
		{"cache hits", testutil.ToFloat64(m.cacheOps.WithLabelValues("notfound", "hit")), 1},
		{"failed walks", testutil.ToFloat64(m.walks.WithLabelValues("error")), 1},
		{"http 404", testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "repo", "404")), 1},
		{"http errors", testutil.ToFloat64(m.httpErrors.WithLabelValues("GET", "repo")), 1},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetrics_Register(t *testing.T) {
	defer Reset()
	m := NewMetrics()
	m.Register()

	if Walk() != WalkHooks(m) || Fetch() != FetchHooks(m) || Cache() != CacheHooks(m) || HTTP() != HTTPHooks(m) {
		t.Error("Register should install m for every hook category")
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.OnFetch(context.Background(), "pom", "downloaded", 10, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `pomwalk_fetch_total{kind="pom",outcome="downloaded"} 1`) {
		t.Errorf("exposition missing fetch counter:\n%s", body)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.OnSkip(context.Background(), "TRANSPORT")

	path := filepath.Join(t.TempDir(), "pomwalk.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `pomwalk_walk_skips_total{code="TRANSPORT"} 1`) {
		t.Errorf("textfile missing skip counter:\n%s", data)
	}
}
