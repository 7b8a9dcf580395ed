package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gophersatwork/pathweave"
)

// Token domains for the bootstrap run.
var (
	depts = []string{"anim", "light", "comp"}
	dccs  = []string{"maya", "nuke"}
)

// taskContext describes one task directory inside a show.
type taskContext struct {
	Show string
	Seq  string
	Shot string
	Dept string
	Dcc  string
}

func (c taskContext) Field(name string) (string, bool) {
	var v string
	switch name {
	case "show":
		v = c.Show
	case "seq":
		v = c.Seq
	case "shot":
		v = c.Shot
	case "dept":
		v = c.Dept
	case "dcc":
		v = c.Dcc
	}
	return v, v != ""
}

func (c taskContext) FieldNames() []string {
	return []string{"show", "seq", "shot", "dept", "dcc"}
}

func (c taskContext) WithFields(fields map[string]string) pathweave.Context {
	next := c
	for name, value := range fields {
		switch name {
		case "show":
			next.Show = value
		case "seq":
			next.Seq = value
		case "shot":
			next.Shot = value
		case "dept":
			next.Dept = value
		case "dcc":
			next.Dcc = value
		}
	}
	return next
}

func main() {
	root := flag.String("root", "", "studio root directory (defaults to a fresh temp dir)")
	show := flag.String("show", "aurora", "show name to bootstrap")
	seq := flag.String("seq", "10", "sequence number")
	shot := flag.String("shot", "25", "shot number")
	flag.Parse()

	dir := *root
	if dir == "" {
		tmp, err := os.MkdirTemp("", "studio-bootstrap-")
		if err != nil {
			log.Fatalf("Failed to create a temp root: %v", err)
		}
		dir = tmp
	}
	dir = filepath.ToSlash(dir)

	resolver := pathweave.New(taskContext{},
		pathweave.WithVariables(map[string]string{"STUDIO": dir}),
	)

	// Absolute templates drive directory creation.
	resolver.Register("show_root", "{STUDIO}/<show>")
	mustRegister(resolver, "seq_root", "seq/<seq:03>", "show_root")
	mustRegister(resolver, "shot_root", "sh<shot:04>", "seq_root")
	mustRegister(resolver, "task", "<dept>/<dcc>", "shot_root")

	// The relative twin parses entries walked below the show root.
	resolver.Register("task_rel", "seq/<seq:03>/sh<shot:04>/<dept>/<dcc>")

	resolver.RegisterTokenValues("dept", depts)
	resolver.RegisterTokenValues("dcc", dccs)

	ctx := taskContext{Show: *show, Seq: *seq, Shot: *shot}
	dirs, err := resolver.CreateStructure("task", ctx)
	if err != nil {
		log.Fatalf("Failed to bootstrap the shot: %v", err)
	}

	fmt.Printf("Created %d task directories under %s:\n", len(dirs), dir)
	for _, d := range dirs {
		fmt.Printf("  %s\n", d)
	}

	// Walk the tree back and group what was created by department.
	showRoot := dir + "/" + *show
	q := pathweave.NewQuery(resolver, showRoot)
	for _, dept := range depts {
		fmt.Printf("%s tasks:\n", dept)
		for parsed := range q.Find(pathweave.Filters{"dept": dept}) {
			dcc, _ := parsed.Field("dcc")
			shotName, _ := parsed.Field("shot")
			fmt.Printf("  sh%s runs %s\n", shotName, dcc)
		}
	}

	fmt.Printf("Inspect the tree at %s\n", dir)
}

func mustRegister(r *pathweave.Resolver, name, fragment, base string) {
	if err := r.RegisterWithBase(name, fragment, base); err != nil {
		log.Fatalf("Failed to register %s: %v", name, err)
	}
}
