package pathweave

import (
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Resolver is a registry of named path templates sharing one context
// shape. It formats contexts into paths, selects usable templates, parses
// existing paths back into contexts and expands registered token domains
// into directory structures.
//
// A Resolver is safe for concurrent use: registration takes the write
// lock, everything else reads. Query caches add their own locking.
type Resolver struct {
	proto       Context
	variables   map[string]string
	normalizers map[string]Normalizer
	mu          sync.RWMutex
	names       []string
	templates   map[string]*Template
	tokenValues map[string][]string
	fs          afero.Fs
	logger      *slog.Logger
}

// New creates a resolver for the context shape of proto. Parsed paths are
// reconstructed from proto via WithFields, so proto is typically an empty
// value of the application's context type.
func New(proto Context, options ...Option) *Resolver {
	r := &Resolver{
		proto:       proto,
		templates:   make(map[string]*Template),
		tokenValues: make(map[string][]string),
		fs:          afero.NewOsFs(),
		logger:      slog.New(slog.DiscardHandler),
	}

	// Apply options
	for _, option := range options {
		option(r)
	}

	return r
}

// Register adds a template under name, substituting {VAR} variables in
// the pattern first. Re-registering a name replaces the template but
// keeps its original position in registration order.
func (r *Resolver) Register(name, pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registerLocked(name, r.substituteVariables(pattern))
}

// RegisterWithBase adds a template whose full pattern is the base
// template's full pattern joined to fragment by a separator. The base
// must already be registered or the call fails with a *BaseNotFoundError.
func (r *Resolver) RegisterWithBase(name, fragment, base string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fragment = r.substituteVariables(fragment)
	bt, ok := r.templates[base]
	if !ok {
		return &BaseNotFoundError{Base: base}
	}
	r.registerLocked(name, bt.pattern+"/"+fragment)
	return nil
}

func (r *Resolver) registerLocked(name, pattern string) {
	if _, exists := r.templates[name]; !exists {
		r.names = append(r.names, name)
	}
	r.templates[name] = NewTemplate(name, pattern, r.normalizers)
	r.logger.Debug("registered template", "name", name, "pattern", pattern)
}

// substituteVariables replaces every {NAME} occurrence with its
// configured literal. Keys are applied in sorted order so the result is
// deterministic.
func (r *Resolver) substituteVariables(pattern string) string {
	if len(r.variables) == 0 {
		return pattern
	}
	keys := make([]string, 0, len(r.variables))
	for k := range r.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pattern = strings.ReplaceAll(pattern, "{"+k+"}", r.variables[k])
	}
	return pattern
}

// Resolve formats the named template with ctx. It fails with a
// *TemplateNotFoundError for unknown names and propagates
// *MissingTokensError from formatting.
func (r *Resolver) Resolve(name string, ctx Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}
	return t.Format(ctx)
}

// ResolveAny formats ctx with the first template able to format it.
// Candidates are tried in prefer order when given, otherwise in
// registration order; prefer entries naming unknown templates are
// skipped. The boolean is false when no template can format ctx.
func (r *Resolver) ResolveAny(ctx Context, prefer ...string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := prefer
	if len(candidates) == 0 {
		candidates = r.names
	}
	for _, name := range candidates {
		t, ok := r.templates[name]
		if !ok {
			continue
		}
		p, err := t.Format(ctx)
		if err != nil {
			continue
		}
		return p, true
	}
	return "", false
}

// FindMatches returns the names of every template ctx can format, in
// registration order.
func (r *Resolver) FindMatches(ctx Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []string
	for _, name := range r.names {
		if r.templates[name].CanFormat(ctx) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Validate reports whether ctx can format the named template and which
// required tokens are missing, in pattern order. It fails only for
// unknown template names.
func (r *Resolver) Validate(name string, ctx Context) (bool, []string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return false, nil, &TemplateNotFoundError{Name: name}
	}
	valid, missing := t.Validate(ctx)
	return valid, missing, nil
}

// ParsePath matches p against the registered templates in registration
// order and reconstructs a context from the first match. Backslash
// separators are normalized before matching. When the matching template
// declares no file_name token, the final path component's stem populates
// file_name; file_type is populated from the extension the same way.
// No template matching is an expected outcome reported as false, never an
// error.
func (r *Resolver) ParsePath(p string) (Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	norm := normalizeSeparators(p)
	for _, name := range r.names {
		t := r.templates[name]
		fields, ok := t.match(norm)
		if !ok {
			continue
		}
		if base := path.Base(norm); base != "." && base != "/" {
			stem, ext := splitStem(base)
			if stem != "" && !t.hasToken(fileNameToken) {
				fields[fileNameToken] = stem
			}
			if ext != "" && !t.hasToken(fileTypeToken) {
				fields[fileTypeToken] = ext
			}
		}
		return r.proto.WithFields(fields), true
	}
	return nil, false
}

// RegisterTokenValues sets the value domain CreateStructure expands token
// with. Re-registering replaces the previous domain. An empty domain is a
// valid registration that produces zero combinations.
func (r *Resolver) RegisterTokenValues(token string, values []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokenValues[token] = append([]string(nil), values...)
}

// TokenValues returns a copy of the registered value domain for token and
// whether one exists.
func (r *Resolver) TokenValues(token string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values, ok := r.tokenValues[token]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// Template returns the registered template with the given name.
func (r *Resolver) Template(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	return t, ok
}

// TemplateNames returns the registered template names in registration
// order.
func (r *Resolver) TemplateNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.names...)
}

// splitStem splits a path component into stem and extension. A component
// whose only dot leads (a dotfile) or trails has no extension.
func splitStem(component string) (string, string) {
	i := strings.LastIndexByte(component, '.')
	if i <= 0 || i == len(component)-1 {
		return component, ""
	}
	return component[:i], component[i+1:]
}
