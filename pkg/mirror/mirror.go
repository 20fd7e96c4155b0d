// Package mirror serves a local repository over HTTP in remote repository
// layout, so other machines can use it as their remote.
//
// Routes:
//
//	GET|HEAD /maven2/*   files of the local repository
//	GET      /healthz    liveness probe
//	GET      /metrics    Prometheus metrics, when a handler is configured
//
// Directories are never listed and paths escaping the root are rejected.
package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pomwalk/pkg/observability"
)

// Prefix is the URL path under which repository files are served.
const Prefix = "/maven2"

// Option configures the mirror handler.
type Option func(*server)

// WithMetrics exposes h under /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *server) { s.metrics = h }
}

// WithLogger logs one line per request to l at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *server) { s.logger = l }
}

type server struct {
	root    string
	metrics http.Handler
	logger  *log.Logger
}

// NewHandler returns the mirror's HTTP handler for the repository at root.
func NewHandler(root string, opts ...Option) http.Handler {
	s := &server{root: root, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get(Prefix+"/*", s.serveFile)
	r.Head(Prefix+"/*", s.serveFile)

	return r
}

func (s *server) serveFile(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	rel, ok := cleanRelative(raw)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("open failed", "path", rel, "err", err)
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// cleanRelative validates a slash-separated request path and returns it
// relative to the root. Hidden files (temporary downloads) are not served.
func cleanRelative(p string) (string, bool) {
	if p == "" || strings.Contains(p, "\x00") || strings.Contains(p, "\\") {
		return "", false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	clean := path.Clean("/" + p)[1:]
	if clean == "" {
		return "", false
	}
	return clean, true
}

// observe reports every request to the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "bytes", ww.BytesWritten())
	})
}

// Serve runs the mirror on addr until ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
