package archive

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/handiism/tracktag/internal/workspace"
)

// InputMap maps a declared, cleaned absolute path to its physical location
// after archive extraction.
type InputMap map[string]string

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtractors replaces the extractor table, keyed by lower-case
// extension.
func WithExtractors(extractors map[string]Extractor) Option {
	return func(r *Resolver) {
		r.extractors = extractors
	}
}

// WithExtractHook registers a callback invoked before each extraction.
func WithExtractHook(fn func(archive string)) Option {
	return func(r *Resolver) {
		r.onExtract = fn
	}
}

// Resolver expands archives found along declared input paths. A Resolver
// remembers every archive it extracted, so resolving a path again reuses the
// earlier extraction. It is not safe for concurrent use.
type Resolver struct {
	scratch    string
	extractors map[string]Extractor
	onExtract  func(string)
	extracted  map[string]string
}

// NewResolver creates a Resolver that extracts below scratchDir.
func NewResolver(scratchDir string, opts ...Option) *Resolver {
	r := &Resolver{
		scratch:    scratchDir,
		extractors: DefaultExtractors("", ""),
		extracted:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// node is one path segment of the declared inputs.
type node struct {
	terminal bool
	children map[string]*node
}

func (n *node) child(seg string) *node {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	c, ok := n.children[seg]
	if !ok {
		c = &node{}
		n.children[seg] = c
	}
	return c
}

// Resolve maps every path to its physical location. Relative paths are made
// absolute against the working directory first; keys of the result are the
// cleaned absolute paths.
func (r *Resolver) Resolve(ctx context.Context, paths []string) (InputMap, error) {
	roots := make(map[string]*node)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		root, segments := splitPath(abs)
		n, ok := roots[root]
		if !ok {
			n = &node{}
			roots[root] = n
		}
		for _, seg := range segments {
			n = n.child(seg)
		}
		n.terminal = true
	}

	out := make(InputMap, len(paths))
	for _, root := range slices.Sorted(maps.Keys(roots)) {
		n := roots[root]
		if n.terminal {
			out[root] = root
		}
		if err := r.walk(ctx, n, root, root, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// walk resolves the children of n. logical is the declared path of n and
// physical the directory it currently maps to.
func (r *Resolver) walk(ctx context.Context, n *node, logical, physical string, out InputMap) error {
	for _, seg := range slices.Sorted(maps.Keys(n.children)) {
		child := n.children[seg]
		childLogical := filepath.Join(logical, seg)
		real := filepath.Join(physical, seg)

		if isArchiveFile(real) {
			var err error
			real, err = r.expand(ctx, real)
			if err != nil {
				return err
			}
		}

		if child.terminal {
			out[childLogical] = real
		}
		if err := r.walk(ctx, child, childLogical, real, out); err != nil {
			return err
		}
	}
	return nil
}

// expand extracts an archive once and returns its effective root.
func (r *Resolver) expand(ctx context.Context, archive string) (string, error) {
	if root, ok := r.extracted[archive]; ok {
		return root, nil
	}

	ext := strings.ToLower(filepath.Ext(archive))
	extractor, ok := r.extractors[ext]
	if !ok {
		return "", &UnknownFormatError{Path: archive, Ext: filepath.Ext(archive)}
	}

	if err := os.MkdirAll(r.scratch, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	container, err := workspace.NewUniqueDir(r.scratch)
	if err != nil {
		return "", err
	}

	if r.onExtract != nil {
		r.onExtract(archive)
	}
	if err := extractor.Extract(ctx, archive, container); err != nil {
		return "", &ExtractError{Archive: archive, Err: err}
	}

	root, err := effectiveRoot(container)
	if err != nil {
		return "", &ExtractError{Archive: archive, Err: err}
	}
	r.extracted[archive] = root
	return root, nil
}

// effectiveRoot collapses an extraction holding a single directory.
func effectiveRoot(container string) (string, error) {
	entries, err := os.ReadDir(container)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(container, entries[0].Name()), nil
	}
	return container, nil
}

func isArchiveFile(path string) bool {
	if !IsArchiveExt(filepath.Ext(path)) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// splitPath splits an absolute path into its root ("/" or a volume root)
// and the remaining segments.
func splitPath(abs string) (string, []string) {
	abs = filepath.Clean(abs)
	vol := filepath.VolumeName(abs)
	root := vol + string(filepath.Separator)
	rest := strings.TrimPrefix(abs[len(vol):], string(filepath.Separator))
	if rest == "" {
		return root, nil
	}
	return root, strings.Split(rest, string(filepath.Separator))
}
