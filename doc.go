/*
	Package pathweave provides bidirectional path templating for Go applications.

It formats structured contexts into concrete filesystem paths, parses existing
paths back into contexts, and layers caching query strategies over directory
scans.

# Overview

pathweave defines named patterns containing typed placeholder tokens such as
<show> or <seq:04>. A Resolver holds the patterns for one context shape and
works in both directions: Resolve substitutes context fields into a pattern,
ParsePath recovers the fields from an existing path. Both directions derive
from one parsed token list, so format and parse cannot drift apart.

# Core Architecture

The engine is built leaf to root:

  - Token parser - extracts ordered (name, formatter, position) tokens from a pattern
  - Formatter engine - zero-padding, case transforms, default substitution, per-token normalizers
  - Template - one immutable pattern with a derived parse expression
  - Resolver - registry of templates for one context shape
  - CompositeResolver - routes between context shapes
  - Query strategies - cached scans of a directory tree through a resolver

# Patterns

A pattern mixes literal text with tokens:

	V:/shows/<show>/seq/<seq>/<shot:04>/__pub__/<dcc>/<file_name>.<file_type>

Formatters follow the token name after a colon: an all-digits formatter
zero-pads numeric values to that width, upper/lower/title transform case, and
default=<literal> substitutes the literal when the field is unpopulated.
Unrecognized formatters pass values through unchanged. {NAME} occurrences are
replaced from a caller-supplied variable map once, at registration.

Templates inherit by naming a base: the child's full pattern is the base's
full pattern, a separator, then the child fragment.

# Contexts

Applications supply token values through the Context interface. A context
shape is a fixed set of optional string fields; absent and empty are
equivalent. MapContext is the ready-made implementation:

	ctx := pathweave.NewMapContext("show", "seq", "shot").
		WithFields(map[string]string{"show": "demo", "seq": "010", "shot": "0010"})

Fixed shapes typically implement Context on a small struct instead.

# Basic Usage

Registering and formatting:

	r := pathweave.New(pathweave.NewMapContext("show", "seq", "shot"))
	r.Register("show_root", "V:/shows/<show>")
	if err := r.RegisterWithBase("shot", "seq/<seq>/<shot>/work", "show_root"); err != nil {
	    log.Fatalf("register: %v", err)
	}

	p, err := r.Resolve("shot", ctx)
	// p == "V:/shows/demo/seq/010/0010/work"

Parsing back:

	parsed, ok := r.ParsePath("V:/shows/demo/seq/010/0010/work")

When a template declares no file_name or file_type token, parsing populates
those fields from the final path component's stem and extension.

# Structure Generation

Registered token value domains expand into directory trees:

	r.RegisterTokenValues("dept", []string{"model", "rig", "anim"})
	r.RegisterTokenValues("task", []string{"main", "review"})
	paths, err := r.CreateStructure("dept_task", ctx, pathweave.DryRun())

Every unpopulated token with a registered domain multiplies the combinations.
StopAt bounds the expansion and truncates the generated paths at the
component before the stop token. Without DryRun, every path is created with
MkdirAll on the resolver's filesystem.

# Queries

Query strategies walk a directory tree, parse each entry through the
resolver and filter by field equality:

	q := pathweave.NewCachedQuery(r, "V:/shows", pathweave.WithCacheTimeout(time.Minute))
	for ctx := range q.Find(pathweave.Filters{"show": "demo"}) {
	    // ...
	}

Query rescans on every call. CachedQuery keeps one slot of parsed contexts.
TwoTierQuery caches the walked paths and the per-path parse results with
independent timeouts. LazyQuery caches one result list per filter set,
keyed canonically so filter order never matters. A filter value of ""
requests an unpopulated field; a filter field outside the context shape
matches nothing.

# Configuration Options

Resolvers accept functional options:

	r := pathweave.New(
	    proto,
	    pathweave.WithVariables(map[string]string{"ROOT": "V:/shows"}),
	    pathweave.WithFs(afero.NewMemMapFs()),
	)

Queries take their filesystem and logger from the resolver; WithNowFunc and
the timeout options configure cache expiry.

# Error Handling

The package reports hard contract violations through typed errors consumed
with errors.As:

  - MissingTokensError: Format called with required tokens unpopulated
  - TemplateNotFoundError: operation names an unregistered template
  - BaseNotFoundError: registration names an unknown base
  - UnknownStopTokenError: CreateStructure stop token not in the template
  - UnregisteredContextShapeError: composite operation on an unknown shape

Expected negative outcomes are not errors: an unmatched parse reports false,
ResolveAny and FindMatches report no candidates, and an unknown filter field
simply matches nothing.
*/
package pathweave
