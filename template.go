package pathweave

import (
	"regexp"
	"strings"
)

// Tokens with these names carry a filename and its extension. Their match
// class additionally excludes the dot, so <file_name>.<file_type> splits
// "scene_v001.ma" at the extension boundary.
const (
	fileNameToken = "file_name"
	fileTypeToken = "file_type"
)

// Template is one named path pattern. It formats a Context into a path
// string and matches existing paths back into field values. Templates are
// immutable once constructed; re-registering a name on a Resolver builds a
// fresh instance.
type Template struct {
	name        string
	pattern     string
	tokens      []Token
	normalizers map[string]Normalizer
	matcher     *regexp.Regexp
}

// NewTemplate parses pattern and builds a template named name. The
// normalizer map is keyed by token name and may be nil; it is shared, not
// copied, so a Resolver can hand the same map to every template it owns.
func NewTemplate(name, pattern string, normalizers map[string]Normalizer) *Template {
	tokens := parseTokens(pattern)
	return &Template{
		name:        name,
		pattern:     pattern,
		tokens:      tokens,
		normalizers: normalizers,
		matcher:     buildMatcher(pattern, tokens),
	}
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Pattern returns the full pattern, including any inherited base prefix.
func (t *Template) Pattern() string {
	return t.pattern
}

// TokenNames returns the template's token names in order of first
// appearance.
func (t *Template) TokenNames() []string {
	return tokenNames(t.tokens)
}

// Format renders the template with values from ctx. Every token without a
// default formatter must be populated on ctx or Format fails with a
// *MissingTokensError naming all of them. A token that appears more than
// once receives the same resolved value at every occurrence.
//
// Per-token resolution order: context value, then normalizer, then
// formatter. An unpopulated token with a default formatter substitutes its
// literal untouched by normalizer and formatter.
func (t *Template) Format(ctx Context) (string, error) {
	if missing := t.missingTokens(ctx); len(missing) > 0 {
		return "", &MissingTokensError{Template: t.name, Tokens: missing}
	}

	var b strings.Builder
	b.Grow(len(t.pattern))
	last := 0
	for _, tok := range t.tokens {
		b.WriteString(t.pattern[last:tok.Pos])
		b.WriteString(t.resolveToken(tok, ctx))
		last = tok.End
	}
	b.WriteString(t.pattern[last:])
	return b.String(), nil
}

// CanFormat reports whether ctx populates every required token. It
// performs no substitution.
func (t *Template) CanFormat(ctx Context) bool {
	return len(t.missingTokens(ctx)) == 0
}

// Validate reports whether ctx can format the template and which required
// tokens are missing, in pattern order.
func (t *Template) Validate(ctx Context) (bool, []string) {
	missing := t.missingTokens(ctx)
	return len(missing) == 0, missing
}

// missingTokens returns the names of required tokens unpopulated on ctx,
// deduplicated, in order of first appearance.
func (t *Template) missingTokens(ctx Context) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, tok := range t.tokens {
		if seen[tok.Name] {
			continue
		}
		if _, ok := ctx.Field(tok.Name); ok {
			continue
		}
		if _, ok := defaultLiteral(tok.Formatter); ok {
			continue
		}
		seen[tok.Name] = true
		missing = append(missing, tok.Name)
	}
	return missing
}

// resolveToken produces the substitution text for one token occurrence.
func (t *Template) resolveToken(tok Token, ctx Context) string {
	value, ok := ctx.Field(tok.Name)
	if !ok {
		// Format already rejected contexts missing a non-default token.
		literal, _ := defaultLiteral(tok.Formatter)
		return literal
	}
	if n := t.normalizers[tok.Name]; n != nil {
		value = n(value)
	}
	return applyFormatter(value, tok.Formatter)
}

// hasToken reports whether the template declares a token with the given
// name.
func (t *Template) hasToken(name string) bool {
	for _, tok := range t.tokens {
		if tok.Name == name {
			return true
		}
	}
	return false
}

// match runs the derived parse expression against a slash-normalized path
// and returns the captured field values. Formatters play no role in
// matching; the raw path text is captured.
func (t *Template) match(path string) (map[string]string, bool) {
	m := t.matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	fields := make(map[string]string)
	for i, name := range t.matcher.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		fields[name] = m[i]
	}
	return fields, true
}

// buildMatcher derives the anchored parse expression from the pattern and
// its token list. Literal text is quoted with backslashes normalized to
// forward slashes; each token occurrence becomes a capture matching one or
// more non-separator characters, with file_name and file_type additionally
// excluding the dot. A repeated token name captures only at its first
// occurrence (RE2 rejects duplicate group names).
func buildMatcher(pattern string, tokens []Token) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	named := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		b.WriteString(quoteLiteral(pattern[last:tok.Pos]))
		class := `[^/]+`
		if tok.Name == fileNameToken || tok.Name == fileTypeToken {
			class = `[^/.]+`
		}
		if named[tok.Name] {
			b.WriteString("(?:" + class + ")")
		} else {
			named[tok.Name] = true
			b.WriteString("(?P<" + tok.Name + ">" + class + ")")
		}
		last = tok.End
	}
	b.WriteString(quoteLiteral(pattern[last:]))
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// quoteLiteral escapes a literal pattern segment for the parse expression,
// folding Windows separators into the canonical one first.
func quoteLiteral(segment string) string {
	return regexp.QuoteMeta(normalizeSeparators(segment))
}

// normalizeSeparators folds backslash separators into forward slashes.
func normalizeSeparators(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
