package pathweave

import "fmt"

// expansion pairs one token with its registered value domain.
type expansion struct {
	name   string
	values []string
}

// CreateStructure expands the named template into concrete directory
// paths and, unless DryRun is given, creates every one of them.
//
// A token takes part in expansion when it lies inside the StopAt bound,
// is unpopulated on ctx and has a registered value domain. The generated
// combinations cover the Cartesian product of those domains, tokens in
// pattern order and values in registration order, so a registered-but-
// empty domain yields no paths at all. With StopAt, the formatted paths
// are truncated at the separator preceding the stop token. Combinations
// that leave the truncated pattern unformattable are skipped silently.
//
// The path list is returned in generation order whether or not
// directories are created. Creation is idempotent: existing directories
// are not an error.
func (r *Resolver) CreateStructure(name string, ctx Context, options ...StructureOption) ([]string, error) {
	var cfg structureConfig
	for _, option := range options {
		option(&cfg)
	}

	partial, expansions, err := r.expansionPlan(name, ctx, cfg.stopAt)
	if err != nil {
		return nil, err
	}

	// Iterative Cartesian product, one domain per pass.
	contexts := []Context{ctx}
	for _, exp := range expansions {
		next := make([]Context, 0, len(contexts)*len(exp.values))
		for _, c := range contexts {
			for _, v := range exp.values {
				next = append(next, c.WithFields(map[string]string{exp.name: v}))
			}
		}
		contexts = next
	}

	var paths []string
	for _, c := range contexts {
		p, err := partial.Format(c)
		if err != nil {
			continue
		}
		paths = append(paths, p)
	}

	if !cfg.dryRun {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if err := r.fs.MkdirAll(p, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", p, err)
			}
		}
		r.logger.Debug("created directory structure", "template", name, "paths", len(paths))
	}

	return paths, nil
}

// expansionPlan resolves the named template into the truncated template
// to format and the ordered expansion domains within the stop bound.
func (r *Resolver) expansionPlan(name string, ctx Context, stopAt string) (*Template, []expansion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return nil, nil, &TemplateNotFoundError{Name: name}
	}

	bound := len(t.tokens)
	if stopAt != "" {
		bound = -1
		for i, tok := range t.tokens {
			if tok.Name == stopAt {
				bound = i
				break
			}
		}
		if bound < 0 {
			return nil, nil, &UnknownStopTokenError{
				Token:     stopAt,
				Available: tokenNames(t.tokens),
			}
		}
	}

	var expansions []expansion
	seen := make(map[string]bool)
	for _, tok := range t.tokens[:bound] {
		if seen[tok.Name] {
			continue
		}
		seen[tok.Name] = true
		if _, populated := ctx.Field(tok.Name); populated {
			continue
		}
		values, registered := r.tokenValues[tok.Name]
		if !registered {
			continue
		}
		expansions = append(expansions, expansion{name: tok.Name, values: values})
	}

	pattern := t.pattern
	if bound < len(t.tokens) {
		pattern = truncateAtToken(t.pattern, t.tokens[bound].Pos)
	}
	return NewTemplate(name, pattern, r.normalizers), expansions, nil
}

// truncateAtToken cuts pattern at the separator immediately preceding the
// token starting at stopPos. Without a separator before the token the cut
// lands directly before it; a token at the pattern start truncates to
// empty.
func truncateAtToken(pattern string, stopPos int) string {
	if stopPos <= 0 {
		return ""
	}
	i := stopPos - 1
	for i > 0 && pattern[i] != '/' && pattern[i] != '\\' {
		i--
	}
	if i > 0 {
		return pattern[:i]
	}
	return pattern[:stopPos]
}
