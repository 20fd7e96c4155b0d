package maven

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/pomwalk/pkg/cache"
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/httputil"
	"github.com/matzehuels/pomwalk/pkg/observability"
)

// Outcome is the result of fetching one file.
type Outcome int

const (
	Downloaded Outcome = iota
	AlreadyPresent
	NotFound
	TransportError
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case AlreadyPresent:
		return "already_present"
	case NotFound:
		return "not_found"
	case TransportError:
		return "transport_error"
	}
	return "unknown"
}

// FileResult describes the fetch of one file.
type FileResult struct {
	Kind    Kind
	Path    string // local path
	URL     string // remote URL
	Outcome Outcome
	Bytes   int64 // bytes written, Downloaded only
	Cached  bool  // NotFound answered by the negative cache
	Err     error // set for NotFound and TransportError
}

// Present reports whether the file is on disk after the fetch.
func (r FileResult) Present() bool {
	return r.Outcome == Downloaded || r.Outcome == AlreadyPresent
}

// FetchResult holds the outcomes for a coordinate's jar and pom.
type FetchResult struct {
	Coordinate Coordinate
	JAR        FileResult
	POM        FileResult
}

// Files returns the jar and pom results in fetch order.
func (r FetchResult) Files() []FileResult {
	return []FileResult{r.JAR, r.POM}
}

// Downloads returns how many files were written by this fetch.
func (r FetchResult) Downloads() int {
	n := 0
	for _, f := range r.Files() {
		if f.Outcome == Downloaded {
			n++
		}
	}
	return n
}

// Getter issues GET requests. [*httputil.Client] satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (*httputil.Response, error)
}

// DefaultNegativeTTL is how long a remote "not found" is remembered.
const DefaultNegativeTTL = 24 * time.Hour

const negativeKeyType = "notfound"

// Repository fetches artifact files from a remote repository into a local
// one.
type Repository struct {
	layout      Layout
	client      Getter
	negative    cache.Cache
	negativeTTL time.Duration
	progress    func(path string)
}

// Option configures a Repository.
type Option func(*Repository)

// WithNegativeCache remembers remote "not found" answers in c for ttl.
func WithNegativeCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Repository) {
		r.negative = cache.NewScoped(c, negativeKeyType+":")
		r.negativeTTL = ttl
	}
}

// WithProgress calls fn with the local path of every file about to be
// written.
func WithProgress(fn func(path string)) Option {
	return func(r *Repository) { r.progress = fn }
}

// NewRepository creates a Repository over layout using client for remote
// requests.
func NewRepository(layout Layout, client Getter, opts ...Option) *Repository {
	r := &Repository{
		layout:      layout,
		client:      client,
		negative:    cache.NewNullCache(),
		negativeTTL: DefaultNegativeTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout returns the repository layout.
func (r *Repository) Layout() Layout { return r.layout }

// POMPath returns the local path of c's descriptor.
func (r *Repository) POMPath(c Coordinate) string {
	return r.layout.LocalPath(c, KindPOM)
}

// Fetch makes sure c's jar and pom are present locally, downloading whichever
// is missing. The two files are handled independently.
//
// The returned error is only set when c cannot safely be mapped to a path;
// remote failures are reported per file in the result.
func (r *Repository) Fetch(ctx context.Context, c Coordinate) (FetchResult, error) {
	if err := c.Validate(); err != nil {
		return FetchResult{Coordinate: c}, err
	}
	return FetchResult{
		Coordinate: c,
		JAR:        r.fetchFile(ctx, c, KindJAR),
		POM:        r.fetchFile(ctx, c, KindPOM),
	}, nil
}

func (r *Repository) fetchFile(ctx context.Context, c Coordinate, kind Kind) (res FileResult) {
	res = FileResult{
		Kind: kind,
		Path: r.layout.LocalPath(c, kind),
		URL:  r.layout.URL(c, kind),
	}
	start := time.Now()
	defer func() {
		observability.Fetch().OnFetch(ctx, string(kind), res.Outcome.String(), res.Bytes, time.Since(start))
	}()

	if fileExists(res.Path) {
		res.Outcome = AlreadyPresent
		return res
	}

	if _, hit, err := r.negative.Get(ctx, res.URL); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, negativeKeyType)
		res.Outcome = NotFound
		res.Cached = true
		res.Err = errors.New(errors.ErrCodeArtifactNotFound, "%s (cached)", res.URL)
		return res
	}
	observability.Cache().OnCacheMiss(ctx, negativeKeyType)

	n, err := r.download(ctx, res.URL, res.Path)
	switch {
	case err == nil:
		res.Outcome = Downloaded
		res.Bytes = n
	case stderrors.Is(err, httputil.ErrNotFound):
		res.Outcome = NotFound
		res.Err = errors.Wrap(errors.ErrCodeArtifactNotFound, err, "%s", res.URL)
		if err := r.negative.Set(ctx, res.URL, nil, r.negativeTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, negativeKeyType, 0)
		}
	default:
		res.Outcome = TransportError
		res.Err = errors.Wrap(errors.ErrCodeTransport, err, "%s", res.URL)
	}
	return res
}

// download streams url into path through a temporary file in the same
// directory. Nothing is created on disk unless the response is a success.
func (r *Repository) download(ctx context.Context, url, path string) (int64, error) {
	resp, err := r.client.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if r.progress != nil {
		r.progress(path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".part-*")
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(tmp, resp.Body)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return n, err
	}
	return n, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
