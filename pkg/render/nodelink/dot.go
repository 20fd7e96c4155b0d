package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pomwalk/pkg/closure"
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
)

// Options configures node-link diagram rendering.
type Options struct {
	// PURL labels nodes with their Package URL instead of
	// groupId:artifactId:version.
	PURL bool

	// Detailed adds the walk depth and file outcomes to node labels.
	Detailed bool
}

// node is one box of the diagram.
type node struct {
	id      string
	depth   int
	walked  bool
	missing bool
	files   []maven.FileResult
}

// ToDOT converts a walk report to Graphviz DOT format.
// Nodes and edges appear in the order the walk recorded them.
func ToDOT(r *closure.Report, opts Options) string {
	nodes, order := collect(r)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, id := range order {
		n := nodes[id]
		attrs := fmtAttrs(n, fmtLabel(n, opts), i == 0 && n.walked && n.depth == 0)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range r.Edges {
		to := e.To.String()
		switch e.Kind {
		case closure.EdgeParent:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=\"parent\"];\n", e.From, to)
		case closure.EdgeImport:
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, label=\"import\"];\n", e.From, to)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// collect indexes every coordinate the report mentions.
func collect(r *closure.Report) (map[string]*node, []string) {
	nodes := make(map[string]*node)
	var order []string
	add := func(id string) *node {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := &node{id: id}
		nodes[id] = n
		order = append(order, id)
		return n
	}

	for _, d := range r.Descriptors {
		n := add(d.Coordinate)
		if !n.walked {
			n.walked, n.depth = true, d.Depth
		}
	}
	for _, e := range r.Edges {
		add(e.From)
		add(e.To.String())
	}
	for _, f := range r.Fetches {
		n := add(f.Coordinate.String())
		n.files = f.Files()
		n.missing = !f.POM.Present()
	}
	return nodes, order
}

func fmtLabel(n *node, opts Options) string {
	label := n.id
	if opts.PURL {
		if c, err := maven.ParseCoordinate(n.id); err == nil {
			label = c.PURL()
		}
	}
	if !opts.Detailed {
		return label
	}

	var parts []string
	if n.walked {
		parts = append(parts, fmt.Sprintf("depth: %d", n.depth))
	}
	for _, f := range n.files {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Kind, f.Outcome))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *node, label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case root:
		attrs = append(attrs, "fillcolor=lightblue")
	case n.missing:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=mistyrose")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root <svg> tag with one whose viewBox starts
// at the origin, so browsers scale the drawing consistently.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// WriteFile renders r to path. The extension selects the format: ".dot"
// (or ".gv") writes DOT source, ".svg" a laid-out drawing.
func WriteFile(ctx context.Context, path string, r *closure.Report, opts Options) error {
	dot := ToDOT(r, opts)

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render graph")
		}
		data = svg
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (want .dot or .svg)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write graph %s", path)
	}
	return nil
}
