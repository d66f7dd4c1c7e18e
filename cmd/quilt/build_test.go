package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/quiltlang/quilt/internal/emit"
	"github.com/quiltlang/quilt/internal/history"
	"github.com/quiltlang/quilt/internal/manifest"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupProject(t *testing.T) *manifest.Manifest {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "quilt.yaml", "name: demo\nroot: src\n")
	writeFile(t, dir, "src/app.unit.yaml", `
module: app
compose:
  - partials.foo
  - partials.bar
members:
  - name: ctor
`)
	writeFile(t, dir, "src/partials/foo.unit.yaml", "module: partials.foo\npartial: true\nmembers:\n  - name: foo\n")
	writeFile(t, dir, "src/partials/bar.unit.yaml", "module: partials.bar\npartial: true\nmembers:\n  - name: bar\n")

	m, err := manifest.Load(filepath.Join(dir, "quilt.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRunBuild_WritesCombinedProgram(t *testing.T) {
	m := setupProject(t)
	if err := runBuild(m, nil, log.New(io.Discard)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(m.OutputPath())
	if err != nil {
		t.Fatalf("combined output not written: %v", err)
	}
	var doc struct {
		Units []emit.ProgramUnit `yaml:"units"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid yaml: %v", err)
	}
	if len(doc.Units) != 1 || doc.Units[0].Module != "app" {
		t.Fatalf("units = %v, want only app", doc.Units)
	}
	want := []string{"foo", "bar", "ctor"}
	members := doc.Units[0].Members
	if len(members) != len(want) {
		t.Fatalf("members = %v, want %v", members, want)
	}
	for i := range want {
		if members[i].Name != want[i] {
			t.Errorf("members[%d] = %q, want %q", i, members[i].Name, want[i])
		}
	}
}

func TestRunBuild_RecordsHistory(t *testing.T) {
	m := setupProject(t)
	if err := runBuild(m, nil, log.New(io.Discard)); err != nil {
		t.Fatal(err)
	}

	store, err := history.Open(m.Dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	records, err := store.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d history records, want 1", len(records))
	}
	r := records[0]
	if r.UnitsBuilt != 3 || r.HostsMerged != 1 || r.GuestsCaptured != 2 {
		t.Errorf("record = %+v", r)
	}
}

func TestRunBuild_HistoryDisabled(t *testing.T) {
	m := setupProject(t)
	disabled := false
	m.History = &disabled
	if err := runBuild(m, nil, log.New(io.Discard)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(m.Dir, ".quilt")); !os.IsNotExist(err) {
		t.Error("history written despite history: false")
	}
}

func TestRunBuild_UnresolvableGuest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quilt.yaml", "name: demo\n")
	writeFile(t, dir, "app.unit.yaml", "module: app\ncompose: [ghost]\n")

	m, err := manifest.Load(filepath.Join(dir, "quilt.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := runBuild(m, nil, log.New(io.Discard)); err == nil {
		t.Fatal("expected build failure for unresolvable guest")
	}
	if _, err := os.Stat(m.OutputPath()); !os.IsNotExist(err) {
		t.Error("combined output written despite build failure")
	}
}

func TestRunBuild_NoUnits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quilt.yaml", "name: empty\n")
	m, err := manifest.Load(filepath.Join(dir, "quilt.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := runBuild(m, nil, log.New(io.Discard)); err == nil {
		t.Fatal("expected error for a project with no unit files")
	}
}
