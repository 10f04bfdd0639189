package sema

import (
	"testing"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// env bundles the collaborators one resolution test needs.
type env struct {
	t   *testing.T
	tbl *symbols.Table
	in  *types.Interner
	b   *ast.Builder
	bag *diag.Bag
	r   *Resolver

	nextOffset uint32
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		t:   t,
		tbl: symbols.NewTable(nil),
		in:  types.NewInterner(),
		b:   ast.NewBuilder(ast.Hints{}),
		bag: diag.NewBag(64),
	}
	e.r = NewResolver(e.tbl, e.in, e.b, diag.BagReporter{Bag: e.bag}, e.tbl.Root())
	return e
}

// withOwner rebinds the resolver to a new lexical owner.
func (e *env) withOwner(owner symbols.SymbolID) {
	e.r = NewResolver(e.tbl, e.in, e.b, diag.BagReporter{Bag: e.bag}, owner)
}

func (e *env) span() source.Span {
	e.nextOffset += 10
	return source.Span{File: 0, Start: e.nextOffset, End: e.nextOffset + 5}
}

func (e *env) ident(sym symbols.SymbolID) ast.ExprID {
	name := source.NoStringID
	if s := e.tbl.Get(sym); s != nil {
		name = s.Name
	}
	return e.b.Exprs.NewIdent(e.span(), name, sym)
}

func (e *env) unboundIdent(name string) ast.ExprID {
	return e.b.Exprs.NewIdent(e.span(), e.tbl.Strings.Intern(name), symbols.NoSymbolID)
}

func (e *env) call(name string, recv ast.ExprID, args ...ast.ExprID) ast.ExprID {
	return e.b.Exprs.NewCall(e.span(), e.tbl.Strings.Intern(name), recv, args)
}

// index builds the `Recv[args]` instantiation call.
func (e *env) index(recv ast.ExprID, args ...ast.ExprID) ast.ExprID {
	return e.call("[]", recv, args...)
}

// tIdent returns an identifier for the combinator namespace.
func (e *env) tIdent() ast.ExprID {
	return e.ident(e.tbl.Builtins().T)
}

// mapping builds a `name: value` mapping literal from alternating pairs.
func (e *env) mapping(pairs ...any) ast.ExprID {
	var entries []ast.MappingEntry
	for i := 0; i < len(pairs); i += 2 {
		key := e.b.Exprs.NewSymbolLit(e.span(), e.tbl.Strings.Intern(pairs[i].(string)))
		entries = append(entries, ast.MappingEntry{Key: key, Value: pairs[i+1].(ast.ExprID)})
	}
	return e.b.Exprs.NewMapping(e.span(), entries)
}

// sigChain builds sig(mapping).returns(ret) on an implicit self receiver.
func (e *env) sigChain(mappingExpr, ret ast.ExprID) ast.ExprID {
	root := e.b.Exprs.NewImplicitSelf(e.span())
	var sig ast.ExprID
	if mappingExpr.IsValid() {
		sig = e.call("sig", root, mappingExpr)
	} else {
		sig = e.call("sig", root)
	}
	if !ret.IsValid() {
		return sig
	}
	return e.call("returns", sig, ret)
}

// procChain builds T.proc(mapping).returns(ret).
func (e *env) procChain(mappingExpr, ret ast.ExprID) ast.ExprID {
	var proc ast.ExprID
	if mappingExpr.IsValid() {
		proc = e.call("proc", e.tIdent(), mappingExpr)
	} else {
		proc = e.call("proc", e.tIdent())
	}
	if !ret.IsValid() {
		return proc
	}
	return e.call("returns", proc, ret)
}

func (e *env) expectCodes(codes ...diag.Code) {
	e.t.Helper()
	items := e.bag.Items()
	if len(items) != len(codes) {
		e.t.Fatalf("expected %d diagnostics, got %d: %+v", len(codes), len(items), items)
	}
	for i, code := range codes {
		if items[i].Code != code {
			e.t.Fatalf("diagnostic %d: expected %v, got %v (%s)", i, code, items[i].Code, items[i].Message)
		}
	}
}

func (e *env) expectClean() {
	e.t.Helper()
	if e.bag.Len() != 0 {
		e.t.Fatalf("expected no diagnostics, got %+v", e.bag.Items())
	}
}
