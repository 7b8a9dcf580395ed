package pathweave

import (
	"log/slog"
	"time"

	"github.com/spf13/afero"
)

// Option configures a Resolver. A CompositeResolver forwards its options
// to every per-shape resolver it creates.
type Option func(*Resolver)

// WithVariables sets the variable substitution map. Every {NAME}
// occurrence in a registered pattern is replaced by the mapped literal
// once, at registration time.
//
// Example:
//
//	r := pathweave.New(proto, pathweave.WithVariables(map[string]string{
//		"ROOT": "V:/shows",
//	}))
func WithVariables(variables map[string]string) Option {
	return func(r *Resolver) {
		r.variables = variables
	}
}

// WithNormalizers sets per-token normalizers, keyed by token name. A
// normalizer runs on the context value before the token's formatter and is
// never applied to a substituted default literal.
func WithNormalizers(normalizers map[string]Normalizer) Option {
	return func(r *Resolver) {
		r.normalizers = normalizers
	}
}

// WithFs sets a custom filesystem for structure creation, queries and
// definition loading. This is primarily useful for testing with in-memory
// filesystems.
//
// Example:
//
//	r := pathweave.New(proto, pathweave.WithFs(afero.NewMemMapFs()))
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// WithLogger sets a logger for debug-level events (registrations,
// structure creation, cache activity). By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NowFunc supplies the current time to query caches.
type NowFunc func() time.Time

// queryConfig collects the knobs shared by the query constructors.
type queryConfig struct {
	now               NowFunc
	cacheTimeout      *time.Duration
	pathCacheTimeout  *time.Duration
	parseCacheTimeout *time.Duration
}

func defaultQueryConfig() queryConfig {
	return queryConfig{now: time.Now}
}

// QueryOption configures a query at construction time.
type QueryOption func(*queryConfig)

// WithNowFunc sets a custom time function for cache expiry checks.
// This is primarily useful for testing with deterministic timestamps.
func WithNowFunc(now NowFunc) QueryOption {
	return func(c *queryConfig) {
		c.now = now
	}
}

// WithCacheTimeout bounds the lifetime of a CachedQuery's result slot. A
// zero duration makes every fetch stale immediately; without this option
// the slot never expires.
func WithCacheTimeout(d time.Duration) QueryOption {
	return func(c *queryConfig) {
		c.cacheTimeout = &d
	}
}

// WithPathCacheTimeout bounds the lifetime of a TwoTierQuery's path cache.
// A zero duration makes every walk stale immediately; without this option
// the path cache never expires.
func WithPathCacheTimeout(d time.Duration) QueryOption {
	return func(c *queryConfig) {
		c.pathCacheTimeout = &d
	}
}

// WithParseCacheTimeout bounds the lifetime of a TwoTierQuery's parse
// cache. A zero duration makes every entry stale immediately; without this
// option the parse cache never expires.
func WithParseCacheTimeout(d time.Duration) QueryOption {
	return func(c *queryConfig) {
		c.parseCacheTimeout = &d
	}
}

// structureConfig collects the per-call knobs of CreateStructure.
type structureConfig struct {
	dryRun bool
	stopAt string
}

// StructureOption configures one CreateStructure call.
type StructureOption func(*structureConfig)

// DryRun makes CreateStructure compute and return the directory paths
// without touching the filesystem.
func DryRun() StructureOption {
	return func(c *structureConfig) {
		c.dryRun = true
	}
}

// StopAt excludes the named token and everything after it from expansion.
// The generated paths end at the path component preceding the token. The
// token must exist in the template or CreateStructure fails with an
// *UnknownStopTokenError.
func StopAt(token string) StructureOption {
	return func(c *structureConfig) {
		c.stopAt = token
	}
}
