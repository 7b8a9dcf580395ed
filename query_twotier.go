package pathweave

import (
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// TwoTierQuery separates path-enumeration caching from parse-result
// caching, with independent timeouts and independent invalidation.
//
// The path cache stores the raw walk result of one scan. The parse cache
// maps each walked path to its parsed context, nil for entries no
// template matches, and fills lazily one path at a time, relativizing
// against root at fill time. A stale parse cache is cleared on access and
// its timestamp restarted; nothing is refreshed proactively.
type TwoTierQuery struct {
	resolver *Resolver
	root     string
	fs       afero.Fs
	logger   *slog.Logger
	now      NowFunc

	pathTimeout  *time.Duration
	parseTimeout *time.Duration

	mu             sync.Mutex
	paths          []string
	pathsPopulated bool
	pathsFetchedAt time.Time
	parsed         map[string]Context
	parseStamped   bool
	parseFetchedAt time.Time
}

// NewTwoTierQuery creates a two-tier caching query over root. The query
// walks the resolver's filesystem. Tier lifetimes come from
// WithPathCacheTimeout and WithParseCacheTimeout.
func NewTwoTierQuery(resolver *Resolver, root string, options ...QueryOption) *TwoTierQuery {
	cfg := defaultQueryConfig()
	for _, option := range options {
		option(&cfg)
	}
	return &TwoTierQuery{
		resolver:     resolver,
		root:         root,
		fs:           resolver.fs,
		logger:       resolver.logger,
		now:          cfg.now,
		pathTimeout:  cfg.pathCacheTimeout,
		parseTimeout: cfg.parseCacheTimeout,
	}
}

// Find yields every cached context passing the filters, rescanning paths
// and reparsing entries only as their tiers require.
func (q *TwoTierQuery) Find(filters Filters) iter.Seq[Context] {
	return func(yield func(Context) bool) {
		for _, p := range q.cachedPaths() {
			ctx := q.cachedParse(p)
			if ctx == nil || !filters.matches(ctx) {
				continue
			}
			if !yield(ctx) {
				return
			}
		}
	}
}

// InvalidatePathCache empties the path tier. Parse results are kept.
func (q *TwoTierQuery) InvalidatePathCache() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.paths = nil
	q.pathsPopulated = false
	q.pathsFetchedAt = time.Time{}
	q.logger.Debug("path cache invalidated", "root", q.root)
}

// InvalidateParseCache empties the parse tier. The path list is kept.
func (q *TwoTierQuery) InvalidateParseCache() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.parsed = nil
	q.parseStamped = false
	q.parseFetchedAt = time.Time{}
	q.logger.Debug("parse cache invalidated", "root", q.root)
}

// InvalidateAll empties both tiers.
func (q *TwoTierQuery) InvalidateAll() {
	q.InvalidatePathCache()
	q.InvalidateParseCache()
}

// cachedPaths returns the cached walk result, rescanning when the path
// tier is empty or stale.
func (q *TwoTierQuery) cachedPaths() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pathsPopulated && !expired(q.now, q.pathsFetchedAt, q.pathTimeout) {
		return q.paths
	}
	q.paths = scanTree(q.fs, q.root)
	q.pathsPopulated = true
	q.pathsFetchedAt = q.now()
	q.logger.Debug("path cache populated", "root", q.root, "entries", len(q.paths))
	return q.paths
}

// cachedParse returns the parsed context for one walked path, filling the
// parse tier on demand. A stale tier is reset and restamped before the
// lookup.
func (q *TwoTierQuery) cachedParse(p string) Context {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.parseUsableLocked() {
		q.parsed = make(map[string]Context)
		q.parseStamped = true
		q.parseFetchedAt = q.now()
	}
	if ctx, ok := q.parsed[p]; ok {
		return ctx
	}

	var ctx Context
	if parsed, ok := parseEntry(q.resolver, q.root, p); ok {
		ctx = parsed
	}
	q.parsed[p] = ctx
	return ctx
}

// parseUsableLocked reports whether the parse tier can serve entries
// without a reset. Callers must hold mu.
func (q *TwoTierQuery) parseUsableLocked() bool {
	return q.parseStamped && !expired(q.now, q.parseFetchedAt, q.parseTimeout)
}
