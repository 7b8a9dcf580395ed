package pathweave

import (
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Filters narrows query results by field equality. Every pair must equal
// the parsed context's field; an empty value requests an unpopulated
// field. A field name outside the context shape matches nothing. A nil or
// empty Filters matches every context.
type Filters map[string]string

// matches reports whether ctx satisfies every filter pair.
func (f Filters) matches(ctx Context) bool {
	for field, want := range f {
		if !hasField(ctx, field) {
			return false
		}
		got, populated := ctx.Field(field)
		if want == "" {
			if populated {
				return false
			}
			continue
		}
		if !populated || got != want {
			return false
		}
	}
	return true
}

// Query walks the directory tree under root and yields every entry whose
// root-relative path parses through the resolver and passes the filters.
// It holds no cache; every Find call scans the tree again.
type Query struct {
	resolver *Resolver
	root     string
	fs       afero.Fs
	logger   *slog.Logger
}

// NewQuery creates an uncached query over root. The query walks the
// resolver's filesystem.
func NewQuery(resolver *Resolver, root string) *Query {
	return &Query{
		resolver: resolver,
		root:     root,
		fs:       resolver.fs,
		logger:   resolver.logger,
	}
}

// Find lazily yields matching contexts in walk order.
func (q *Query) Find(filters Filters) iter.Seq[Context] {
	return func(yield func(Context) bool) {
		paths := scanTree(q.fs, q.root)
		q.logger.Debug("scanned tree", "root", q.root, "entries", len(paths))
		for _, p := range paths {
			ctx, ok := parseEntry(q.resolver, q.root, p)
			if !ok || !filters.matches(ctx) {
				continue
			}
			if !yield(ctx) {
				return
			}
		}
	}
}

// scanTree enumerates every descendant of root, files and directories
// alike, in walk order. The root itself is excluded. Unreadable entries
// are skipped and a missing root is an empty result, not an error.
func scanTree(fs afero.Fs, root string) []string {
	var paths []string
	_ = afero.Walk(fs, root, func(p string, _ os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if p == root {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	return paths
}

// parseEntry relativizes one walked path against root and parses it.
func parseEntry(resolver *Resolver, root, p string) (Context, bool) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return nil, false
	}
	return resolver.ParsePath(filepath.ToSlash(rel))
}
