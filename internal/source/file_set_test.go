package source

import "testing"

func TestFileSetPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sig", []byte("Integer\nT.nilable(String)\n"))
	sp := Span{File: id, Start: 8, End: 9}
	pos := fs.Position(sp)
	if pos.Line != 2 || pos.Col != 1 {
		t.Fatalf("expected 2:1, got %d:%d", pos.Line, pos.Col)
	}
	if got := string(fs.Line(sp)); got != "T.nilable(String)" {
		t.Fatalf("unexpected line text %q", got)
	}
}

func TestFileSetFirstLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sig", []byte("Integer"))
	pos := fs.Position(Span{File: id, Start: 3, End: 4})
	if pos.Line != 1 || pos.Col != 4 {
		t.Fatalf("expected 1:4, got %d:%d", pos.Line, pos.Col)
	}
}

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Integer")
	b := in.Intern("Integer")
	if a != b {
		t.Fatalf("same string must intern to same ID")
	}
	if s := in.MustLookup(a); s != "Integer" {
		t.Fatalf("unexpected lookup %q", s)
	}
	if in.Intern("String") == a {
		t.Fatalf("different strings must get different IDs")
	}
}
