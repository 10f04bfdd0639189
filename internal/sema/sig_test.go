package sema

import (
	"testing"

	"sigil/internal/ast"
	"sigil/internal/types"
)

func TestParseSigCollectsArgsInOrder(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.sigChain(
		e.mapping("x", e.ident(b.Integer), "y", e.ident(b.String)),
		e.ident(b.TrueClass),
	)
	if !e.r.IsSigChain(chain) {
		t.Fatalf("chain must be recognized as a signature declaration")
	}
	sig := e.r.ParseSig(chain)
	if !sig.Seen.Sig || sig.Seen.Proc {
		t.Fatalf("unexpected seen flags %+v", sig.Seen)
	}
	if len(sig.ArgTypes) != 2 {
		t.Fatalf("expected 2 args, got %d", len(sig.ArgTypes))
	}
	if e.tbl.StringValue(sig.ArgTypes[0].Name) != "x" || sig.ArgTypes[0].Type != e.in.Class(b.Integer) {
		t.Fatalf("first arg wrong: %+v", sig.ArgTypes[0])
	}
	if e.tbl.StringValue(sig.ArgTypes[1].Name) != "y" || sig.ArgTypes[1].Type != e.in.Class(b.String) {
		t.Fatalf("second arg wrong: %+v", sig.ArgTypes[1])
	}
	if sig.Returns != e.in.Class(b.TrueClass) {
		t.Fatalf("returns wrong: %v", sig.Returns)
	}
	e.expectClean()
}

func TestParseSigFlags(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.sigChain(ast.NoExprID, ast.NoExprID)
	chain = e.call("abstract", chain)
	chain = e.call("overridable", chain)
	chain = e.call("checked", chain)
	chain = e.call("returns", chain, e.ident(b.String))
	sig := e.r.ParseSig(chain)
	if !sig.Seen.Abstract || !sig.Seen.Overridable || !sig.Seen.Checked || !sig.Seen.Returns {
		t.Fatalf("builder flags not recorded: %+v", sig.Seen)
	}
	if sig.Seen.Args {
		t.Fatalf("no argument list was given")
	}
	e.expectClean()
}

func TestMultipleArgumentListsDiagnosedOnce(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	// sig(x: Integer).proc(y: String) — walked outermost-first, so the
	// sig marker finds the proc flag already set, clears the collected
	// args and contributes its own.
	sig := e.call("sig", e.b.Exprs.NewImplicitSelf(e.span()),
		e.mapping("x", e.ident(b.Integer)))
	chain := e.call("proc", sig, e.mapping("y", e.ident(b.String)))
	parsed := e.r.ParseSig(chain)
	e.expectCodes(5101) // ResolverMultipleArgLists, exactly once
	if len(parsed.ArgTypes) != 1 {
		t.Fatalf("expected the surviving argument list, got %+v", parsed.ArgTypes)
	}
	if e.tbl.StringValue(parsed.ArgTypes[0].Name) != "x" {
		t.Fatalf("the later-walked marker's args must survive, got %+v", parsed.ArgTypes)
	}
}

func TestSigTooManyPositionalArgs(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.call("sig", e.b.Exprs.NewImplicitSelf(e.span()),
		e.mapping("x", e.ident(b.Integer)),
		e.mapping("y", e.ident(b.String)))
	sig := e.r.ParseSig(chain)
	e.expectCodes(5102) // ResolverSigArgArity
	if len(sig.ArgTypes) != 1 {
		t.Fatalf("only the first argument list is consumed, got %+v", sig.ArgTypes)
	}
}

func TestSigNonMappingArgument(t *testing.T) {
	e := newEnv(t)
	chain := e.call("sig", e.b.Exprs.NewImplicitSelf(e.span()), e.b.Exprs.NewInt(e.span(), 3))
	sig := e.r.ParseSig(chain)
	e.expectCodes(5103) // ResolverSigArgsNotMapping
	if len(sig.ArgTypes) != 0 {
		t.Fatalf("malformed argument list must not contribute args")
	}
}

func TestSigNonSymbolKeysSkipped(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	entries := []ast.MappingEntry{
		{Key: e.b.Exprs.NewInt(e.span(), 1), Value: e.ident(b.Integer)},
		{Key: e.b.Exprs.NewSymbolLit(e.span(), e.tbl.Strings.Intern("ok")), Value: e.ident(b.String)},
	}
	chain := e.call("sig", e.b.Exprs.NewImplicitSelf(e.span()), e.b.Exprs.NewMapping(e.span(), entries))
	sig := e.r.ParseSig(chain)
	if len(sig.ArgTypes) != 1 || e.tbl.StringValue(sig.ArgTypes[0].Name) != "ok" {
		t.Fatalf("non-symbol keys must be silently skipped, got %+v", sig.ArgTypes)
	}
	e.expectClean()
}

func TestReturnsArity(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.call("returns", e.sigChain(ast.NoExprID, ast.NoExprID),
		e.ident(b.Integer), e.ident(b.String))
	sig := e.r.ParseSig(chain)
	e.expectCodes(5104) // ResolverReturnsArity
	if sig.Returns != e.in.Class(b.Integer) {
		t.Fatalf("the first returns argument is still resolved")
	}
}

func TestUnknownSigBuilderMethod(t *testing.T) {
	e := newEnv(t)
	chain := e.call("wibble", e.sigChain(ast.NoExprID, ast.NoExprID))
	e.r.ParseSig(chain)
	e.expectCodes(5105) // ResolverUnknownSigBuilder
}

func TestParseSigPanicsWithoutMarker(t *testing.T) {
	e := newEnv(t)
	chain := e.call("returns", e.b.Exprs.NewImplicitSelf(e.span()), e.ident(e.tbl.Builtins().Integer))
	defer func() {
		if recover() == nil {
			t.Fatalf("a chain without sig/proc violates the caller contract")
		}
	}()
	e.r.ParseSig(chain)
}

func TestProcTypeConstruction(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.procChain(
		e.mapping("x", e.ident(b.Integer), "y", e.ident(b.String)),
		e.ident(b.Float),
	)
	got := e.r.Resolve(chain)
	want := e.in.Applied(b.Proc(2), []types.TypeID{
		e.in.Class(b.Float), e.in.Class(b.Integer), e.in.Class(b.String),
	})
	if got != want {
		t.Fatalf("proc type must be Proc2[return, args...]")
	}
	e.expectClean()
}

func TestProcWithoutReturns(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	chain := e.procChain(e.mapping("x", e.ident(b.Integer)), ast.NoExprID)
	got := e.r.Resolve(chain)
	want := e.in.Applied(b.Proc(1), []types.TypeID{e.in.Dynamic(), e.in.Class(b.Integer)})
	if got != want {
		t.Fatalf("missing returns must substitute Dynamic for the return slot")
	}
	e.expectCodes(5106) // ResolverProcNeedsReturn
}

func TestProcArityLimit(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	pairs := make([]any, 0, 22)
	for i := 0; i < 11; i++ {
		pairs = append(pairs, string(rune('a'+i)), e.ident(b.Integer))
	}
	chain := e.procChain(e.mapping(pairs...), e.ident(b.String))
	got := e.r.Resolve(chain)
	if got != e.in.Dynamic() {
		t.Fatalf("a proc above the arity limit must recover with Dynamic")
	}
	e.expectCodes(5010) // ResolverProcArityLimit, exactly once
}

func TestIsSigChainRequiresImplicitSelf(t *testing.T) {
	e := newEnv(t)
	b := e.tbl.Builtins()
	onT := e.call("sig", e.tIdent())
	if e.r.IsSigChain(onT) {
		t.Fatalf("sig on an explicit receiver is not a signature chain")
	}
	chain := e.call("returns", e.sigChain(ast.NoExprID, ast.NoExprID), e.ident(b.Integer))
	if !e.r.IsSigChain(chain) {
		t.Fatalf("the sig marker is found anywhere along the chain")
	}
}
