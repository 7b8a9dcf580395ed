package pathweave

import (
	"strconv"
	"strings"
	"unicode"
)

// defaultPrefix marks a formatter spec carrying a fallback literal for an
// unpopulated token.
const defaultPrefix = "default="

// Normalizer transforms a raw context value before any formatter runs.
// Normalizers are registered per token name and never see substituted
// default literals.
type Normalizer func(string) string

// applyFormatter applies one formatter spec to a resolved value.
//
// An all-digits spec zero-pads all-digits values to the given width and
// never truncates; non-numeric values pass through unchanged. The case
// formatters are upper, lower and title (capitalize each
// whitespace-separated word). A default spec is a no-op on a value that is
// already present. Unrecognized specs pass the value through unchanged.
func applyFormatter(value, spec string) string {
	switch {
	case spec == "":
		return value
	case strings.HasPrefix(spec, defaultPrefix):
		return value
	case isDigits(spec):
		width, err := strconv.Atoi(spec)
		if err != nil || !isDigits(value) || len(value) >= width {
			return value
		}
		return strings.Repeat("0", width-len(value)) + value
	case spec == "upper":
		return strings.ToUpper(value)
	case spec == "lower":
		return strings.ToLower(value)
	case spec == "title":
		return titleCase(value)
	default:
		return value
	}
}

// defaultLiteral returns the fallback literal of a default formatter spec
// and whether spec is one.
func defaultLiteral(spec string) (string, bool) {
	if !strings.HasPrefix(spec, defaultPrefix) {
		return "", false
	}
	return spec[len(defaultPrefix):], true
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// titleCase capitalizes the first letter of each whitespace-separated word
// and lowers the rest, preserving the original whitespace.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wordStart := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			wordStart = true
			b.WriteRune(r)
		case wordStart:
			b.WriteRune(unicode.ToUpper(r))
			wordStart = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
