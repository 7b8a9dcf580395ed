package pathweave

import (
	"reflect"
	"sync"
)

// CompositeResolver routes operations to per-shape Resolvers when an
// application works with more than one context shape. Shape identity is
// the concrete Go type of the Context implementation, so every shape
// routed through a composite should be its own type. Template and base
// namespaces are fully independent between shapes, even when names
// collide.
type CompositeResolver struct {
	mu        sync.RWMutex
	options   []Option
	resolvers map[reflect.Type]*Resolver
}

// NewComposite creates an empty composite. The options are applied to
// every per-shape resolver the composite creates, so all shapes share the
// same variables, normalizers, filesystem and logger.
func NewComposite(options ...Option) *CompositeResolver {
	return &CompositeResolver{
		options:   options,
		resolvers: make(map[reflect.Type]*Resolver),
	}
}

// Register adds a template to the resolver for proto's shape, creating
// that resolver on first use.
func (c *CompositeResolver) Register(proto Context, name, pattern string) {
	c.resolverFor(proto).Register(name, pattern)
}

// RegisterWithBase adds an inheriting template to the resolver for
// proto's shape, creating that resolver on first use. The base must be
// registered under the same shape.
func (c *CompositeResolver) RegisterWithBase(proto Context, name, fragment, base string) error {
	return c.resolverFor(proto).RegisterWithBase(name, fragment, base)
}

// Resolve formats the named template registered for ctx's shape. It
// fails with an *UnregisteredContextShapeError for unknown shapes.
func (c *CompositeResolver) Resolve(name string, ctx Context) (string, error) {
	r, ok := c.lookup(ctx)
	if !ok {
		return "", &UnregisteredContextShapeError{Shape: shapeName(ctx)}
	}
	return r.Resolve(name, ctx)
}

// ResolveAny formats ctx with the first usable template of its shape.
// An unregistered shape reports false like any other non-match.
func (c *CompositeResolver) ResolveAny(ctx Context, prefer ...string) (string, bool) {
	r, ok := c.lookup(ctx)
	if !ok {
		return "", false
	}
	return r.ResolveAny(ctx, prefer...)
}

// FindMatches returns the names of every template of ctx's shape that
// ctx can format. An unregistered shape has no matches.
func (c *CompositeResolver) FindMatches(ctx Context) []string {
	r, ok := c.lookup(ctx)
	if !ok {
		return nil
	}
	return r.FindMatches(ctx)
}

// ParsePath parses path with the resolver registered for proto's shape.
// The error reports an unregistered shape; a path no template matches is
// (nil, false, nil).
func (c *CompositeResolver) ParsePath(proto Context, path string) (Context, bool, error) {
	r, ok := c.lookup(proto)
	if !ok {
		return nil, false, &UnregisteredContextShapeError{Shape: shapeName(proto)}
	}
	ctx, matched := r.ParsePath(path)
	return ctx, matched, nil
}

// ResolverFor returns the resolver registered for proto's shape, for
// direct access to operations the composite does not mirror, such as
// CreateStructure and token value registration.
func (c *CompositeResolver) ResolverFor(proto Context) (*Resolver, bool) {
	return c.lookup(proto)
}

// resolverFor returns the resolver for proto's shape, creating it if
// needed.
func (c *CompositeResolver) resolverFor(proto Context) *Resolver {
	shape := reflect.TypeOf(proto)

	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.resolvers[shape]
	if !ok {
		r = New(proto, c.options...)
		c.resolvers[shape] = r
	}
	return r
}

// lookup returns the registered resolver for ctx's shape.
func (c *CompositeResolver) lookup(ctx Context) (*Resolver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.resolvers[reflect.TypeOf(ctx)]
	return r, ok
}

// shapeName names a context shape for error messages.
func shapeName(ctx Context) string {
	return reflect.TypeOf(ctx).String()
}
