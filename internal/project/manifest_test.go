package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sigil/internal/source"
	"sigil/internal/symbols"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sigil.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, "")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Check.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Fatalf("max_diagnostics = %d", m.Check.MaxDiagnostics)
	}
	if m.Check.Jobs != 0 {
		t.Fatalf("jobs = %d", m.Check.Jobs)
	}
}

func TestLoadManifestFull(t *testing.T) {
	path := writeManifest(t, `
[check]
max_diagnostics = 50
jobs = 4
fixtures = ["sig", "extra"]

[symbols]
classes = ["Box[K, V]", "Outer::Inner"]

[symbols.aliases]
Short = "Outer::Inner"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Check.MaxDiagnostics != 50 || m.Check.Jobs != 4 {
		t.Fatalf("check = %+v", m.Check)
	}
	if len(m.Check.Fixtures) != 2 || m.Check.Fixtures[0] != "sig" {
		t.Fatalf("fixtures = %v", m.Check.Fixtures)
	}
	if len(m.Symbols.Classes) != 2 || m.Symbols.Aliases["Short"] != "Outer::Inner" {
		t.Fatalf("symbols = %+v", m.Symbols)
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, "[check]\nmax_proc_arity = 20\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected unknown-key error")
	}
}

func TestLoadManifestRejectsNegative(t *testing.T) {
	path := writeManifest(t, "[check]\njobs = -1\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDeclareSeedsTable(t *testing.T) {
	m := Manifest{Symbols: SymbolsConfig{
		Classes: []string{"Box[K, V]", "Outer", "Outer::Inner"},
		Aliases: map[string]string{"Short": "Outer::Inner"},
	}}
	table := symbols.NewTable(source.NewInterner())
	if err := m.Declare(table); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	box, ok := table.Child(table.Root(), "Box")
	if !ok || !table.IsClass(box) {
		t.Fatalf("Box not declared")
	}
	if got := table.TypeMembers(box); len(got) != 2 {
		t.Fatalf("Box type members = %d", len(got))
	}
	outer, _ := table.Child(table.Root(), "Outer")
	if _, ok := table.Child(outer, "Inner"); !ok {
		t.Fatalf("Outer::Inner not declared")
	}
	short, ok := table.Child(table.Root(), "Short")
	if !ok || !table.IsStaticField(short) {
		t.Fatalf("alias not declared as static field")
	}
}

func TestDeclareCreatesMissingParents(t *testing.T) {
	m := Manifest{Symbols: SymbolsConfig{Classes: []string{"A::B::C"}}}
	table := symbols.NewTable(source.NewInterner())
	if err := m.Declare(table); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	a, _ := table.Child(table.Root(), "A")
	b, _ := table.Child(a, "B")
	if _, ok := table.Child(b, "C"); !ok {
		t.Fatalf("nested class not declared")
	}
}

func TestDeclareErrors(t *testing.T) {
	table := symbols.NewTable(source.NewInterner())
	for _, decl := range []string{"box", "Box[", "Box[K,]", "Box[]", "::X"} {
		m := Manifest{Symbols: SymbolsConfig{Classes: []string{decl}}}
		if err := m.Declare(table); !errors.Is(err, ErrBadClassDecl) {
			t.Fatalf("%q: err = %v", decl, err)
		}
	}
	m := Manifest{Symbols: SymbolsConfig{Aliases: map[string]string{"X": "Missing"}}}
	if err := m.Declare(table); !errors.Is(err, ErrBadAliasTarget) {
		t.Fatalf("alias err = %v", err)
	}
}

func TestFindSigilToml(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := filepath.Join(root, "sigil.toml")
	if err := os.WriteFile(manifest, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	path, ok, err := FindSigilToml(nested)
	if err != nil || !ok {
		t.Fatalf("FindSigilToml: ok=%v err=%v", ok, err)
	}
	if path != manifest {
		t.Fatalf("path = %q, want %q", path, manifest)
	}
	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || dir != root {
		t.Fatalf("FindProjectRoot = %q ok=%v err=%v", dir, ok, err)
	}
}
