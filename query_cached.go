package pathweave

import (
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// CachedQuery is a Query with one cache slot holding every parseable
// context under root, unfiltered. Filtering always runs against the
// cached list, so different filters share one scan.
//
// The slot expires after the WithCacheTimeout duration; without the
// option it never expires. Staleness is computed when the slot is read,
// no background invalidation runs.
type CachedQuery struct {
	resolver *Resolver
	root     string
	fs       afero.Fs
	logger   *slog.Logger
	now      NowFunc
	timeout  *time.Duration

	mu        sync.Mutex
	cache     []Context
	populated bool
	fetchedAt time.Time
}

// NewCachedQuery creates a caching query over root. The query walks the
// resolver's filesystem.
func NewCachedQuery(resolver *Resolver, root string, options ...QueryOption) *CachedQuery {
	cfg := defaultQueryConfig()
	for _, option := range options {
		option(&cfg)
	}
	return &CachedQuery{
		resolver: resolver,
		root:     root,
		fs:       resolver.fs,
		logger:   resolver.logger,
		now:      cfg.now,
		timeout:  cfg.cacheTimeout,
	}
}

// Find yields every cached context passing the filters, scanning the tree
// first when the slot is empty or stale.
func (q *CachedQuery) Find(filters Filters) iter.Seq[Context] {
	return func(yield func(Context) bool) {
		for _, ctx := range q.fetch() {
			if !filters.matches(ctx) {
				continue
			}
			if !yield(ctx) {
				return
			}
		}
	}
}

// InvalidateCache empties the slot and clears its timestamp. The next
// Find rescans.
func (q *CachedQuery) InvalidateCache() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.cache = nil
	q.populated = false
	q.fetchedAt = time.Time{}
	q.logger.Debug("query cache invalidated", "root", q.root)
}

// fetch returns the cached context list, repopulating it when the slot is
// empty or stale. The read-check-populate sequence runs under the lock so
// concurrent callers cannot trigger duplicate scans.
func (q *CachedQuery) fetch() []Context {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.populated && !expired(q.now, q.fetchedAt, q.timeout) {
		q.logger.Debug("query cache hit", "root", q.root, "contexts", len(q.cache))
		return q.cache
	}

	var contexts []Context
	for _, p := range scanTree(q.fs, q.root) {
		if ctx, ok := parseEntry(q.resolver, q.root, p); ok {
			contexts = append(contexts, ctx)
		}
	}
	q.cache = contexts
	q.populated = true
	q.fetchedAt = q.now()
	q.logger.Debug("query cache populated", "root", q.root, "contexts", len(contexts))
	return contexts
}

// expired reports whether a cache stamped at fetchedAt has outlived its
// timeout. A nil timeout never expires; a zero timeout expires
// immediately.
func expired(now NowFunc, fetchedAt time.Time, timeout *time.Duration) bool {
	if timeout == nil {
		return false
	}
	return now().Sub(fetchedAt) >= *timeout
}
