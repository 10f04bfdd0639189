package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"sigil/internal/diag"
	"sigil/internal/source"
)

func fixture(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("box.sig", []byte("Integer\nMissing\n"))
	bag := diag.NewBag(16)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ResolverNotAClassType,
		Message:  "Invalid type declaration. Not a class type Missing",
		Primary:  source.Span{File: id, Start: 8, End: 15},
	})
	return fs, bag
}

func TestPrettyPlain(t *testing.T) {
	fs, bag := fixture(t)
	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	out := sb.String()

	if !strings.Contains(out, "box.sig:2:1: ERROR SIG5003: Invalid type declaration. Not a class type Missing") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "    Missing\n    ^~~~~~~\n") {
		t.Fatalf("underline missing:\n%s", out)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("note.sig", []byte("T.enum([])\n"))
	bag := diag.NewBag(16)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ResolverInvalidEnumDecl,
		Message:  "enum must be populated",
		Primary:  source.Span{File: id, Start: 0, End: 10},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 7, End: 9}, Msg: "empty array"}},
	})

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(sb.String(), "note.sig:1:8: NOTE: empty array") {
		t.Fatalf("note missing:\n%s", sb.String())
	}

	sb.Reset()
	Pretty(&sb, bag, fs, PrettyOpts{})
	if strings.Contains(sb.String(), "NOTE") {
		t.Fatalf("notes should be suppressed:\n%s", sb.String())
	}
}

func TestJSONStableShape(t *testing.T) {
	fs, bag := fixture(t)
	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diags = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "SIG5003" || d.Category != "InvalidTypeDeclaration" || d.Severity != "ERROR" {
		t.Fatalf("diag = %+v", d)
	}
	if d.Location.File != "box.sig" || d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Fatalf("location = %+v", d.Location)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs, bag := fixture(t)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.ResolverBareGenericType, Message: "second"})

	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diags = %d", out.Count, len(out.Diagnostics))
	}
}
