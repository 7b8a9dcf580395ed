package pathweave

import "regexp"

// tokenPattern matches one placeholder: <name> or <name:formatter>.
// The name is a run of word characters; the formatter is everything up to
// the closing bracket, so a formatter cannot itself contain '>'.
var tokenPattern = regexp.MustCompile(`<(\w+)(?::([^>]+))?>`)

// Token is one placeholder occurrence inside a pattern.
type Token struct {
	// Name identifies the context field supplying the value.
	Name string

	// Formatter is the raw formatter spec, empty when the token is plain
	// <name>.
	Formatter string

	// Pos and End are the byte offsets of the occurrence within the
	// pattern, spanning '<' through '>'.
	Pos int
	End int
}

// parseTokens extracts every token occurrence from pattern in order of
// appearance. It is a pure function of the pattern string; both the format
// substitution and the derived parse expression are built from its result
// so the two directions cannot drift apart.
func parseTokens(pattern string) []Token {
	matches := tokenPattern.FindAllStringSubmatchIndex(pattern, -1)
	if matches == nil {
		return nil
	}
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tok := Token{
			Name: pattern[m[2]:m[3]],
			Pos:  m[0],
			End:  m[1],
		}
		if m[4] >= 0 {
			tok.Formatter = pattern[m[4]:m[5]]
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// tokenNames returns the token names in order of first appearance.
func tokenNames(tokens []Token) []string {
	names := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if seen[tok.Name] {
			continue
		}
		seen[tok.Name] = true
		names = append(names, tok.Name)
	}
	return names
}
