package pathweave

import (
	"testing"
)

func TestApplyFormatterPadding(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		spec     string
		expected string
	}{
		{"pads numeric value", "5", "04", "0005"},
		{"non-numeric passes through", "abc", "04", "abc"},
		{"never truncates", "123456", "04", "123456"},
		{"exact width unchanged", "0010", "4", "0010"},
		{"single digit width", "7", "3", "007"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyFormatter(tc.value, tc.spec)
			if got != tc.expected {
				t.Fatalf("applyFormatter(%q, %q): expected %q, got %q", tc.value, tc.spec, tc.expected, got)
			}
		})
	}
}

func TestApplyFormatterCase(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		spec     string
		expected string
	}{
		{"upper", "maya", "upper", "MAYA"},
		{"lower", "HOUDINI", "lower", "houdini"},
		{"title", "my cool shot", "title", "My Cool Shot"},
		{"title lowers the rest", "mIxEd CASE words", "title", "Mixed Case Words"},
		{"title keeps whitespace", "a  b\tc", "title", "A  B\tC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyFormatter(tc.value, tc.spec)
			if got != tc.expected {
				t.Fatalf("applyFormatter(%q, %q): expected %q, got %q", tc.value, tc.spec, tc.expected, got)
			}
		})
	}
}

func TestApplyFormatterNoOps(t *testing.T) {
	cases := []struct {
		name  string
		value string
		spec  string
	}{
		{"empty spec", "demo", ""},
		{"unrecognized spec", "demo", "frobnicate"},
		{"mixed digits are unrecognized", "demo", "0x4"},
		{"default on present value", "v001", "default=v000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyFormatter(tc.value, tc.spec)
			if got != tc.value {
				t.Fatalf("applyFormatter(%q, %q): expected pass-through, got %q", tc.value, tc.spec, got)
			}
		})
	}
}

func TestDefaultLiteral(t *testing.T) {
	if literal, ok := defaultLiteral("default=work"); !ok || literal != "work" {
		t.Fatalf("Expected literal work, got %q (ok=%v)", literal, ok)
	}
	if literal, ok := defaultLiteral("default="); !ok || literal != "" {
		t.Fatalf("Expected empty literal, got %q (ok=%v)", literal, ok)
	}
	if _, ok := defaultLiteral("upper"); ok {
		t.Fatalf("Expected upper not to be a default spec")
	}
	if _, ok := defaultLiteral(""); ok {
		t.Fatalf("Expected empty spec not to be a default spec")
	}
}

func TestIsDigits(t *testing.T) {
	if isDigits("") {
		t.Fatalf("Expected empty string not to count as digits")
	}
	if !isDigits("0412") {
		t.Fatalf("Expected 0412 to count as digits")
	}
	if isDigits("4a") {
		t.Fatalf("Expected 4a not to count as digits")
	}
}
