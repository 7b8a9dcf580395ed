package pathweave

import (
	"testing"
)

func TestMapContextFieldPopulation(t *testing.T) {
	ctx := NewMapContext("show", "seq", "shot").WithFields(map[string]string{
		"show": "demo",
		"seq":  "010",
	})

	assertField(t, ctx, "show", "demo")
	assertField(t, ctx, "seq", "010")
	assertUnpopulated(t, ctx, "shot")
}

func TestMapContextEmptyValueIsUnpopulated(t *testing.T) {
	// An empty string and an absent value are the same thing.
	ctx := NewMapContext("show", "seq").WithFields(map[string]string{
		"show": "",
	})

	assertUnpopulated(t, ctx, "show")
	assertUnpopulated(t, ctx, "seq")
}

func TestMapContextWithFieldsCopies(t *testing.T) {
	base := NewMapContext("show", "seq").WithFields(map[string]string{
		"show": "demo",
	})

	derived := base.WithFields(map[string]string{
		"show": "other",
		"seq":  "020",
	})

	// The derived context carries the overrides.
	assertField(t, derived, "show", "other")
	assertField(t, derived, "seq", "020")

	// The base context is untouched.
	assertField(t, base, "show", "demo")
	assertUnpopulated(t, base, "seq")
}

func TestMapContextIgnoresUnknownFields(t *testing.T) {
	ctx := NewMapContext("show").WithFields(map[string]string{
		"show":    "demo",
		"quality": "final",
	})

	assertField(t, ctx, "show", "demo")
	assertUnpopulated(t, ctx, "quality")

	names := ctx.FieldNames()
	assertStringsEqual(t, names, []string{"show"}, "field names after unknown override")
}

func TestMapContextFieldNamesOrder(t *testing.T) {
	ctx := NewMapContext("show", "seq", "shot", "dcc")

	names := ctx.FieldNames()
	assertStringsEqual(t, names, []string{"show", "seq", "shot", "dcc"}, "declaration order")

	// The returned slice is a copy; mutating it must not leak back.
	names[0] = "mutated"
	assertStringsEqual(t, ctx.FieldNames(), []string{"show", "seq", "shot", "dcc"}, "field names after caller mutation")
}
