package closure

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
	"github.com/matzehuels/pomwalk/pkg/observability"
	"github.com/matzehuels/pomwalk/pkg/pom"
)

// Fetcher makes a coordinate's files available locally.
// [*maven.Repository] satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, c maven.Coordinate) (maven.FetchResult, error)
}

// Options configures a Walker.
type Options struct {
	// Policy decides managed-version precedence. Defaults to FirstWins.
	Policy Policy

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *log.Logger

	// RunID identifies the walk in logs and the report. Generated if empty.
	RunID string
}

// Walker computes and fetches the transitive closure of a descriptor.
//
// A Walker holds no per-walk state; each call to Walk starts with an empty
// managed-versions table and visited set.
type Walker struct {
	fetcher Fetcher
	opts    Options
}

// New creates a Walker that fetches through f.
func New(f Fetcher, opts Options) *Walker {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Walker{fetcher: f, opts: opts}
}

// Walk processes the descriptor at rootPath and everything it reaches.
//
// The returned error is non-nil only if the root descriptor is unreadable or
// malformed, or ctx is cancelled. The report is returned in both cases and
// holds everything done so far.
func (w *Walker) Walk(ctx context.Context, rootPath string) (*Report, error) {
	runID := w.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	st := &walk{
		Walker:   w,
		logger:   w.opts.Logger.With("run", runID),
		managed:  NewManagedVersions(w.opts.Policy),
		visited:  make(map[maven.Coordinate]bool),
		imported: make(map[maven.Coordinate]bool),
		report: &Report{
			RunID:   runID,
			Root:    rootPath,
			Policy:  w.opts.Policy,
			Started: time.Now(),
		},
	}

	hooks := observability.Walk()
	hooks.OnWalkStart(ctx, runID, rootPath)

	err := st.process(ctx, rootPath, nil, nil, 0)

	r := st.report
	r.Duration = time.Since(r.Started)
	r.Managed = st.managed.Snapshot()
	hooks.OnWalkComplete(ctx, runID, observability.WalkStats{
		Descriptors: len(r.Descriptors),
		Downloads:   r.Downloads(),
		Skips:       len(r.Skips),
	}, r.Duration, err)

	return r, err
}

// walk is the state of one Walk call.
type walk struct {
	*Walker
	logger   *log.Logger
	managed  *ManagedVersions
	visited  map[maven.Coordinate]bool
	imported map[maven.Coordinate]bool
	report   *Report
}

// process walks one descriptor. inherited holds the property table of the
// descriptor that led here; trace lists the descriptors above it.
func (st *walk) process(ctx context.Context, path string, inherited pom.Properties, trace []string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := pom.Load(path)
	if err != nil {
		if depth == 0 {
			return err
		}
		st.logger.Warn("cannot process descriptor", "path", path, "err", err)
		st.skip(ctx, errors.GetCode(err), path, lastOf(trace), trace, err)
		return nil
	}

	scope := pom.NewScope(p, inherited)
	self := descriptorLabel(p, scope)
	if depth == 0 {
		if c, ok := rootCoordinate(p, scope); ok {
			st.visited[c] = true
		}
	}

	st.report.Descriptors = append(st.report.Descriptors, Descriptor{
		Coordinate: self,
		Path:       path,
		Depth:      depth,
		Packaging:  scope.Resolve(p.EffectivePackaging()),
	})
	observability.Walk().OnDescriptor(ctx, self, depth)
	st.logger.Debug("descriptor", "coordinate", self, "depth", depth)

	trace = append(trace[:len(trace):len(trace)], self)

	// Managed versions must be complete before any dependency of this
	// descriptor is resolved.
	if err := st.absorbManaged(ctx, p, scope, self, trace, depth); err != nil {
		return err
	}

	if p.Parent != nil {
		if err := st.follow(ctx, *p.Parent, EdgeParent, scope, self, trace, depth); err != nil {
			return err
		}
	}

	for _, dep := range p.Dependencies {
		if err := st.follow(ctx, dep, EdgeDependency, scope, self, trace, depth); err != nil {
			return err
		}
	}
	return nil
}

// follow resolves ref, fetches it and recurses into its descriptor.
// Only cancellation is returned; every other failure is recorded as a skip.
func (st *walk) follow(ctx context.Context, ref pom.Dependency, kind EdgeKind, scope pom.Scope, from string, trace []string, depth int) error {
	c, ok := st.resolve(ctx, ref, scope, from, trace)
	if !ok {
		return nil
	}
	st.report.Edges = append(st.report.Edges, Edge{From: from, To: c, Kind: kind})

	if st.visited[c] {
		return nil
	}
	st.visited[c] = true

	res, ok := st.fetch(ctx, c, from, trace)
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return st.process(ctx, res.POM.Path, scope.Properties, trace, depth+1)
}

// absorbManaged inserts every dependencyManagement entry of p into the
// managed table. BOM imports are expanded in place.
func (st *walk) absorbManaged(ctx context.Context, p *pom.Project, scope pom.Scope, from string, trace []string, depth int) error {
	for _, entry := range p.DependencyManagement {
		if entry.IsImport() {
			if err := st.importBOM(ctx, entry, scope, from, trace, depth); err != nil {
				return err
			}
			continue
		}

		raw, ok := entry.Version.Value()
		if !ok || raw == "" {
			continue
		}
		k := maven.Key{GroupID: scope.Resolve(entry.GroupID), ArtifactID: scope.Resolve(entry.ArtifactID)}
		v := scope.Resolve(raw)
		if v == "" || pom.HasPlaceholder(v) {
			st.logger.Debug("managed version left unresolved", "dependency", k, "version", v, "project", from)
			continue
		}
		st.managed.Put(k, v)
	}
	return nil
}

// importBOM absorbs the managed entries of an imported BOM and of its parent
// chain. The BOM's own entries are absorbed before its ancestors'.
func (st *walk) importBOM(ctx context.Context, entry pom.Dependency, scope pom.Scope, from string, trace []string, depth int) error {
	c, ok := st.resolve(ctx, entry, scope, from, trace)
	if !ok {
		return nil
	}
	st.report.Edges = append(st.report.Edges, Edge{From: from, To: c, Kind: EdgeImport})

	var chain []*pom.Project
	for next := &c; next != nil && !st.imported[*next]; {
		cur := *next
		next = nil
		st.imported[cur] = true

		res, ok := st.fetch(ctx, cur, from, trace)
		if err := ctx.Err(); err != nil {
			return err
		}
		if !ok {
			break
		}
		bom, err := pom.Load(res.POM.Path)
		if err != nil {
			st.logger.Warn("cannot process imported descriptor", "path", res.POM.Path, "err", err)
			st.skip(ctx, errors.GetCode(err), cur.String(), from, trace, err)
			break
		}
		chain = append(chain, bom)

		if bom.Parent != nil {
			own := pom.NewScope(bom, nil)
			if pc, ok := st.resolve(ctx, *bom.Parent, own, cur.String(), trace); ok {
				st.report.Edges = append(st.report.Edges, Edge{From: cur.String(), To: pc, Kind: EdgeParent})
				next = &pc
			}
		}
	}

	props := pom.Properties{}
	for i := len(chain) - 1; i >= 0; i-- {
		props = pom.Merge(props, chain[i].Properties)
	}
	for _, bom := range chain {
		s := pom.NewScope(bom, nil)
		s.Properties = props
		if err := st.absorbManaged(ctx, bom, s, descriptorLabel(bom, s), trace, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// resolve turns a reference into a coordinate, recording a skip when no
// version can be determined.
func (st *walk) resolve(ctx context.Context, ref pom.Dependency, scope pom.Scope, from string, trace []string) (maven.Coordinate, bool) {
	k := maven.Key{GroupID: scope.Resolve(ref.GroupID), ArtifactID: scope.Resolve(ref.ArtifactID)}
	v, err := ResolveVersion(ref, k, scope, st.managed)
	if err != nil {
		st.logger.Warn("cannot resolve version", "dependency", k, "project", from, "trace", strings.Join(trace, " -> "))
		st.skip(ctx, errors.ErrCodeUnresolvedVersion, k.String(), from, trace, err)
		return maven.Coordinate{}, false
	}
	return maven.Coordinate{GroupID: k.GroupID, ArtifactID: k.ArtifactID, Version: v}, true
}

// fetch retrieves c's files and reports whether its descriptor is on disk.
func (st *walk) fetch(ctx context.Context, c maven.Coordinate, from string, trace []string) (maven.FetchResult, bool) {
	res, err := st.fetcher.Fetch(ctx, c)
	if err != nil {
		st.logger.Warn("invalid coordinate", "dependency", c, "project", from, "err", err)
		st.skip(ctx, errors.GetCode(err), c.String(), from, trace, err)
		return res, false
	}
	st.report.Fetches = append(st.report.Fetches, res)

	for _, f := range res.Files() {
		switch f.Outcome {
		case maven.NotFound:
			st.logger.Debug("not found", "url", f.URL, "cached", f.Cached)
		case maven.TransportError:
			st.logger.Warn("download failed", "url", f.URL, "err", f.Err)
			if ctx.Err() == nil {
				st.skip(ctx, errors.ErrCodeTransport, c.String(), from, trace, f.Err)
			}
		}
	}

	if !res.POM.Present() {
		if res.POM.Outcome == maven.NotFound {
			st.skip(ctx, errors.ErrCodeArtifactNotFound, c.String(), from, trace, res.POM.Err)
		}
		return res, false
	}
	return res, true
}

func (st *walk) skip(ctx context.Context, code errors.Code, dependency, project string, trace []string, err error) {
	if code == "" {
		code = errors.ErrCodeInternal
	}
	st.report.Skips = append(st.report.Skips, Skip{
		Code:       code,
		Dependency: dependency,
		Project:    project,
		Trace:      append([]string(nil), trace...),
		Err:        err,
	})
	observability.Walk().OnSkip(ctx, string(code))
}

// descriptorLabel renders p's coordinate with placeholders substituted.
func descriptorLabel(p *pom.Project, scope pom.Scope) string {
	return scope.Resolve(p.EffectiveGroupID()) + ":" + p.ArtifactID + ":" + scope.Resolve(p.EffectiveVersion())
}

// rootCoordinate returns the root descriptor's own coordinate when it is
// fully resolved, so a cycle back to the root is not walked again.
func rootCoordinate(p *pom.Project, scope pom.Scope) (maven.Coordinate, bool) {
	c := maven.Coordinate{
		GroupID:    scope.Resolve(p.EffectiveGroupID()),
		ArtifactID: p.ArtifactID,
		Version:    scope.Resolve(p.EffectiveVersion()),
	}
	return c, c.Validate() == nil
}

func lastOf(trace []string) string {
	if len(trace) == 0 {
		return ""
	}
	return trace[len(trace)-1]
}
