package pathweave

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestCreateStructureExpandsDomains(t *testing.T) {
	r, memFs := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>/<task>")
	r.RegisterTokenValues("dept", []string{"design", "eng"})
	r.RegisterTokenValues("task", []string{"previz", "layout", "comp"})

	paths, err := r.CreateStructure("tasks", NewMapContext("dept", "task"))
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}

	// Tokens expand in pattern order, values in registration order.
	expected := []string{
		"/projects/design/previz",
		"/projects/design/layout",
		"/projects/design/comp",
		"/projects/eng/previz",
		"/projects/eng/layout",
		"/projects/eng/comp",
	}
	assertStringsEqual(t, paths, expected, "expansion order")

	for _, p := range expected {
		assertDirExists(t, memFs, p)
	}
}

func TestCreateStructureStopAt(t *testing.T) {
	r, memFs := newTestResolver(t)
	r.Register("published", "V:/shows/<show>/<subcontext>/<dcc>/<file_type>")
	r.RegisterTokenValues("subcontext", []string{"model", "rig", "anim", "fx"})
	r.RegisterTokenValues("dcc", []string{"maya", "houdini", "nuke", "blender"})
	r.RegisterTokenValues("file_type", []string{"ma", "mb", "hip", "nk", "blend"})

	ctx := NewMapContext("show", "subcontext", "dcc", "file_type").
		WithFields(map[string]string{"show": "demo"})

	// Without a stop token all three domains expand.
	paths, err := r.CreateStructure("published", ctx, DryRun())
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}
	if len(paths) != 80 {
		t.Fatalf("Expected 80 combinations, got %d", len(paths))
	}

	// Stopping at file_type truncates to the dcc segment and drops its
	// domain from the product.
	paths, err = r.CreateStructure("published", ctx, StopAt("file_type"))
	if err != nil {
		t.Fatalf("Failed to create structure with stop token: %v", err)
	}
	if len(paths) != 16 {
		t.Fatalf("Expected 16 truncated combinations, got %d", len(paths))
	}
	if paths[0] != "V:/shows/demo/model/maya" {
		t.Fatalf("Unexpected first path %q", paths[0])
	}

	dccs := map[string]bool{"maya": true, "houdini": true, "nuke": true, "blender": true}
	seen := make(map[string]bool)
	for _, p := range paths {
		if seen[p] {
			t.Fatalf("Duplicate path %q", p)
		}
		seen[p] = true
		last := p[strings.LastIndex(p, "/")+1:]
		if !dccs[last] {
			t.Fatalf("Expected path %q to end at a dcc segment", p)
		}
		assertDirExists(t, memFs, p)
	}
}

func TestCreateStructureStopAtUnknownToken(t *testing.T) {
	r, _ := newTestResolver(t)
	r.Register("published", "V:/shows/<show>/<dcc>/<file_type>")

	_, err := r.CreateStructure("published", vfxContext(nil), StopAt("quality"))
	var unknown *UnknownStopTokenError
	if err == nil || !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownStopTokenError, got %v", err)
	}
	if unknown.Token != "quality" {
		t.Fatalf("Expected the error to carry the stop token, got %q", unknown.Token)
	}
	assertStringsEqual(t, unknown.Available, []string{"show", "dcc", "file_type"}, "available tokens in pattern order")
	if !strings.Contains(unknown.Error(), "show, dcc, file_type") {
		t.Fatalf("Expected the message to enumerate available tokens, got %q", unknown.Error())
	}
}

func TestCreateStructureUnknownTemplate(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.CreateStructure("never_registered", vfxContext(nil))
	var notFound *TemplateNotFoundError
	if err == nil || !errors.As(err, &notFound) {
		t.Fatalf("Expected TemplateNotFoundError, got %v", err)
	}
}

func TestCreateStructureEmptyDomain(t *testing.T) {
	r, memFs := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>/<task>")
	r.RegisterTokenValues("dept", nil)
	r.RegisterTokenValues("task", []string{"previz", "layout"})

	// An empty domain wipes out the whole product.
	paths, err := r.CreateStructure("tasks", NewMapContext("dept", "task"))
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("Expected no paths for an empty domain, got %v", paths)
	}
	assertTreeEmpty(t, memFs, "/projects")
}

func TestCreateStructureDryRun(t *testing.T) {
	r, memFs := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>")
	r.RegisterTokenValues("dept", []string{"design", "eng"})

	first, err := r.CreateStructure("tasks", NewMapContext("dept"), DryRun())
	if err != nil {
		t.Fatalf("Failed to dry-run: %v", err)
	}
	second, err := r.CreateStructure("tasks", NewMapContext("dept"), DryRun())
	if err != nil {
		t.Fatalf("Failed to dry-run again: %v", err)
	}

	// Same inputs, same list, and the filesystem is never touched.
	assertStringsEqual(t, second, first, "repeated dry-run output")
	assertTreeEmpty(t, memFs, "/projects")
}

func TestCreateStructureIdempotent(t *testing.T) {
	r, memFs := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>")
	r.RegisterTokenValues("dept", []string{"design", "eng"})

	first, err := r.CreateStructure("tasks", NewMapContext("dept"))
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}
	// Existing directories are not an error on the second pass.
	second, err := r.CreateStructure("tasks", NewMapContext("dept"))
	if err != nil {
		t.Fatalf("Failed to re-create structure: %v", err)
	}

	assertStringsEqual(t, second, first, "repeated creation output")
	for _, p := range first {
		assertDirExists(t, memFs, p)
	}
}

func TestCreateStructurePopulatedTokenNotExpanded(t *testing.T) {
	r, _ := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>/<task>")
	r.RegisterTokenValues("dept", []string{"design", "eng"})
	r.RegisterTokenValues("task", []string{"previz", "layout"})

	ctx := NewMapContext("dept", "task").WithFields(map[string]string{"dept": "design"})
	paths, err := r.CreateStructure("tasks", ctx, DryRun())
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}

	// The populated token keeps its context value; only task expands.
	expected := []string{
		"/projects/design/previz",
		"/projects/design/layout",
	}
	assertStringsEqual(t, paths, expected, "expansion with a populated token")
}

func TestCreateStructureSkipsUnformattable(t *testing.T) {
	r, _ := newTestResolver(t)
	r.Register("tasks", "/projects/<dept>/<task>")
	r.RegisterTokenValues("dept", []string{"design", "eng"})

	// task has no domain and no value, so every combination fails to
	// format and is skipped.
	paths, err := r.CreateStructure("tasks", NewMapContext("dept", "task"), DryRun())
	if err != nil {
		t.Fatalf("Failed to create structure: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("Expected no formattable combinations, got %v", paths)
	}

	// Stopping before the unformattable token makes the prefix viable.
	paths, err = r.CreateStructure("tasks", NewMapContext("dept", "task"), DryRun(), StopAt("task"))
	if err != nil {
		t.Fatalf("Failed to create structure with stop token: %v", err)
	}
	assertStringsEqual(t, paths, []string{"/projects/design", "/projects/eng"}, "truncated expansion")
}

func TestTruncateAtToken(t *testing.T) {
	cases := []struct {
		pattern  string
		stopName string
		expected string
	}{
		{"V:/shows/<show>/<seq>", "seq", "V:/shows/<show>"},
		{"V:/shows/<show>/seq_<seq>", "seq", "V:/shows/<show>"},
		{"<show>/work", "show", ""},
		{"shot_<seq>", "seq", "shot_"},
	}

	for _, tc := range cases {
		tokens := parseTokens(tc.pattern)
		var stopPos int
		for _, tok := range tokens {
			if tok.Name == tc.stopName {
				stopPos = tok.Pos
				break
			}
		}
		got := truncateAtToken(tc.pattern, stopPos)
		if got != tc.expected {
			t.Fatalf("truncateAtToken(%q, %d): expected %q, got %q", tc.pattern, stopPos, tc.expected, got)
		}
	}
}

// assertDirExists checks that a directory was created on the filesystem.
func assertDirExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	exists, err := afero.DirExists(fs, path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	if !exists {
		t.Fatalf("Expected directory %s to exist", path)
	}
}

// assertTreeEmpty checks that nothing was created under root.
func assertTreeEmpty(t *testing.T, fs afero.Fs, root string) {
	t.Helper()

	exists, err := afero.DirExists(fs, root)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", root, err)
	}
	if exists {
		t.Fatalf("Expected no directories under %s", root)
	}
}
