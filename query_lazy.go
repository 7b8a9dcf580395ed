package pathweave

import (
	"iter"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// LazyQuery caches one result list per filter set. The cache key is
// canonical, so filter insertion order never matters. A hit replays the
// stored list without touching the filesystem; a miss performs one
// walk-parse-filter pass, yielding matches as they appear while
// accumulating the complete list, which is stored once the walk finishes.
// A consumer that stops iterating early therefore still populates the
// cache for the next call.
type LazyQuery struct {
	resolver *Resolver
	root     string
	fs       afero.Fs
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string][]Context
}

// NewLazyQuery creates a per-filter-set caching query over root. The
// query walks the resolver's filesystem.
func NewLazyQuery(resolver *Resolver, root string) *LazyQuery {
	return &LazyQuery{
		resolver: resolver,
		root:     root,
		fs:       resolver.fs,
		logger:   resolver.logger,
		cache:    make(map[string][]Context),
	}
}

// Find yields every context under root passing the filters, serving
// repeated filter sets from cache.
func (q *LazyQuery) Find(filters Filters) iter.Seq[Context] {
	return func(yield func(Context) bool) {
		key := filterKey(filters)

		q.mu.Lock()
		cached, hit := q.cache[key]
		q.mu.Unlock()
		if hit {
			q.logger.Debug("filter cache hit", "root", q.root, "contexts", len(cached))
			for _, ctx := range cached {
				if !yield(ctx) {
					return
				}
			}
			return
		}

		// Keep scanning after an early break so the completed result
		// list still lands in the cache.
		var results []Context
		yielding := true
		for _, p := range scanTree(q.fs, q.root) {
			ctx, ok := parseEntry(q.resolver, q.root, p)
			if !ok || !filters.matches(ctx) {
				continue
			}
			results = append(results, ctx)
			if yielding && !yield(ctx) {
				yielding = false
			}
		}

		q.mu.Lock()
		q.cache[key] = results
		q.mu.Unlock()
		q.logger.Debug("filter cache populated", "root", q.root, "contexts", len(results))
	}
}

// InvalidateCache removes the cached results for exactly this filter set.
// Unknown filter sets are a silent no-op.
func (q *LazyQuery) InvalidateCache(filters Filters) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.cache, filterKey(filters))
}

// InvalidateAll removes every cached result list.
func (q *LazyQuery) InvalidateAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.cache = make(map[string][]Context)
}

// filterKey derives the canonical cache key for a filter set. The pairs
// are hashed in sorted field order with a separator after each component,
// so neither insertion order nor component boundaries can collide keys.
func filterKey(filters Filters) string {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	digest := xxhash.New()
	for _, field := range fields {
		digest.WriteString(field)
		digest.Write([]byte{0})
		digest.WriteString(filters[field])
		digest.Write([]byte{0})
	}
	return strconv.FormatUint(digest.Sum64(), 16)
}
