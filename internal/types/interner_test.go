package types

import (
	"testing"

	"sigil/internal/symbols"
)

func TestInternerDeduplicatesStructurally(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	b := tbl.Builtins()
	elem := in.Class(b.Integer)
	a1 := in.Applied(b.Array, []TypeID{elem})
	a2 := in.Applied(b.Array, []TypeID{in.Class(b.Integer)})
	if a1 != a2 {
		t.Fatalf("structurally equal applied types must share an ID")
	}
	if in.Applied(b.Array, []TypeID{in.Class(b.String)}) == a1 {
		t.Fatalf("different args must give a different ID")
	}
}

func TestTupleIdentity(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	b := tbl.Builtins()
	x := in.Class(b.Integer)
	y := in.Class(b.String)
	t1 := in.Tuple([]TypeID{x, y})
	t2 := in.Tuple([]TypeID{x, y})
	if t1 != t2 {
		t.Fatalf("equal tuples must share an ID")
	}
	if in.Tuple([]TypeID{y, x}) == t1 {
		t.Fatalf("tuple element order matters")
	}
	if got := in.Elems(t1); len(got) != 2 || got[0] != x || got[1] != y {
		t.Fatalf("unexpected tuple elems %v", got)
	}
}

func TestBuildOrCollapsesEqualOperands(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	x := in.Class(tbl.Builtins().Integer)
	if in.BuildOr(x, x) != x {
		t.Fatalf("Or(x, x) must collapse to x")
	}
	or := in.BuildOr(x, in.Dynamic())
	a, bOp, ok := in.Operands(or)
	if !ok || a != x || bOp != in.Dynamic() {
		t.Fatalf("unexpected operands %v %v", a, bOp)
	}
	if in.BuildAnd(x, x) != x {
		t.Fatalf("And(x, x) must collapse to x")
	}
}

func TestLiteralIdentity(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	b := tbl.Builtins()
	l1 := in.LiteralInt(b.Integer, 42)
	l2 := in.LiteralInt(b.Integer, 42)
	if l1 != l2 {
		t.Fatalf("equal literals must share an ID")
	}
	if in.LiteralInt(b.Integer, 43) == l1 {
		t.Fatalf("different values must differ")
	}
	info, ok := in.Literal(l1)
	if !ok || info.Kind != LitInt || info.Int != 42 {
		t.Fatalf("unexpected literal payload %+v", info)
	}
}

func TestSanityCheckAcceptsResolverShapes(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	b := tbl.Builtins()
	id := in.BuildOr(
		in.Applied(b.Hash, []TypeID{in.Class(b.Symbol), in.Class(b.String), in.Dynamic()}),
		in.Class(b.NilClass),
	)
	in.SanityCheck(id) // должен пройти без паники
}

func TestLabel(t *testing.T) {
	tbl := symbols.NewTable(nil)
	in := NewInterner()
	b := tbl.Builtins()
	id := in.Applied(b.Array, []TypeID{in.Class(b.Integer)})
	if got := in.Label(id, tbl); got != "Array[Integer]" {
		t.Fatalf("unexpected label %q", got)
	}
	or := in.BuildOr(in.Class(b.Integer), in.Class(b.NilClass))
	if got := in.Label(or, tbl); got != "T.any(Integer, NilClass)" {
		t.Fatalf("unexpected label %q", got)
	}
	sym := in.LiteralString(b.Symbol, LitSymbol, tbl.Strings.Intern("ok"))
	if got := in.Label(sym, tbl); got != ":ok" {
		t.Fatalf("unexpected label %q", got)
	}
}
