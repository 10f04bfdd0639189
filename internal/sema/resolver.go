package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
	"sigil/internal/types"
)

// maxResolveDepth bounds annotation nesting so generated input cannot blow
// the call stack. Past the guard resolution degrades to Dynamic with one
// diagnostic.
const maxResolveDepth = 1024

// builderNames pre-interns the closed vocabulary of recognized call names.
type builderNames struct {
	sig, proc, returns                       source.StringID
	abstract, override, implementation       source.StringID
	overridable, checked                     source.StringID
	nilable, all, any, enum, classOf         source.StringID
	untyped, noreturn, splat, singletonClass source.StringID
	squareBrackets                           source.StringID
}

func internBuilderNames(in *source.Interner) builderNames {
	return builderNames{
		sig:            in.Intern("sig"),
		proc:           in.Intern("proc"),
		returns:        in.Intern("returns"),
		abstract:       in.Intern("abstract"),
		override:       in.Intern("override"),
		implementation: in.Intern("implementation"),
		overridable:    in.Intern("overridable"),
		checked:        in.Intern("checked"),
		nilable:        in.Intern("nilable"),
		all:            in.Intern("all"),
		any:            in.Intern("any"),
		enum:           in.Intern("enum"),
		classOf:        in.Intern("class_of"),
		untyped:        in.Intern("untyped"),
		noreturn:       in.Intern("noreturn"),
		splat:          in.Intern("splat"),
		singletonClass: in.Intern("singleton_class"),
		squareBrackets: in.Intern("[]"),
	}
}

// Resolver turns annotation expressions into interned types. One value per
// resolution batch; it only reads the symbol table, so independent
// resolvers may run concurrently over a shared table.
type Resolver struct {
	table    *symbols.Table
	types    *types.Interner
	builder  *ast.Builder
	reporter diag.Reporter
	owner    symbols.SymbolID
	names    builderNames
	depth    int
}

// NewResolver binds a resolver to its collaborators. owner is the symbol
// whose enclosing class anchors self-references.
func NewResolver(table *symbols.Table, interner *types.Interner, builder *ast.Builder, reporter diag.Reporter, owner symbols.SymbolID) *Resolver {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Resolver{
		table:    table,
		types:    interner,
		builder:  builder,
		reporter: reporter,
		owner:    owner,
		names:    internBuilderNames(table.Strings),
	}
}

// Types exposes the interner resolved IDs belong to.
func (r *Resolver) Types() *types.Interner { return r.types }

// Resolve is the root entry point: it never fails and always returns a
// sanity-checked type, emitting diagnostics for everything it had to
// recover from.
func (r *Resolver) Resolve(id ast.ExprID) types.TypeID {
	result := r.resultType(id)
	r.types.SanityCheck(result)
	return result
}

func (r *Resolver) resultType(id ast.ExprID) types.TypeID {
	expr := r.builder.Exprs.Get(id)
	if expr == nil {
		return r.types.Dynamic()
	}
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxResolveDepth {
		r.errorf(diag.ResolverDepthLimit, expr.Span, "Type annotation nesting exceeds %d levels", maxResolveDepth)
		return r.types.Dynamic()
	}

	switch expr.Kind {
	case ast.ExprArrayLit:
		arr, _ := r.builder.Exprs.Array(id)
		elems := make([]types.TypeID, 0, len(arr.Elems))
		for _, el := range arr.Elems {
			elems = append(elems, r.resultType(el))
		}
		return r.types.Tuple(elems)
	case ast.ExprIdent:
		ident, _ := r.builder.Exprs.Ident(id)
		return r.identType(expr.Span, ident)
	case ast.ExprCall:
		call, _ := r.builder.Exprs.Call(id)
		return r.callType(id, expr.Span, call)
	case ast.ExprSelf:
		klass := r.table.EnclosingClass(r.owner)
		if !klass.IsValid() {
			r.errorf(diag.ResolverUnsupportedTypeSyntax, expr.Span, "self used outside of a class")
			return r.types.Dynamic()
		}
		return r.types.Self(klass)
	default:
		r.errorf(diag.ResolverUnsupportedTypeSyntax, expr.Span, "Unsupported type syntax")
		return r.types.Dynamic()
	}
}

// identType handles a bare constant reference in type position.
func (r *Resolver) identType(span source.Span, ident *ast.ExprIdentData) types.TypeID {
	b := r.table.Builtins()
	// Историческое исключение: эти builtin-классы можно писать без
	// аргументов без диагностики.
	silenceGenericError := ident.Symbol == b.Hash || ident.Symbol == b.Array ||
		ident.Symbol == b.Set || ident.Symbol == b.Struct || ident.Symbol == b.File

	sym := r.dealias(ident.Symbol)
	switch {
	case r.table.IsClass(sym):
		members := r.table.TypeMembers(sym)
		if len(members) == 0 {
			return r.types.Class(sym)
		}
		targs := make([]types.TypeID, 0, len(members))
		for range members {
			targs = append(targs, r.types.Dynamic())
		}
		if sym == b.Hash {
			for len(targs) < 3 {
				targs = append(targs, r.types.Dynamic())
			}
		}
		if !silenceGenericError {
			r.errorf(diag.ResolverBareGenericType, span,
				"Malformed type declaration. Generic class without type arguments %s", r.table.DisplayName(sym))
		}
		return r.types.Applied(sym, targs)
	case r.table.IsTypeMember(sym):
		return r.types.LambdaParam(sym)
	default:
		name := "<unresolved>"
		if sym.IsValid() {
			name = r.table.DisplayName(sym)
		}
		r.errorf(diag.ResolverNotAClassType, span,
			"Malformed type declaration. Not a class type %s", name)
		return r.types.Dynamic()
	}
}

// callType handles everything written as a call: proc builders,
// combinators, singleton-class references and generic instantiations.
func (r *Resolver) callType(id ast.ExprID, span source.Span, call *ast.ExprCallData) types.TypeID {
	b := r.table.Builtins()

	if r.isProcChain(id) {
		return r.procType(id, span)
	}

	recv, ok := r.builder.Exprs.Ident(call.Recv)
	if !ok {
		r.errorf(diag.ResolverUnknownTypeSyntax, span, "Malformed type declaration. Unknown type syntax")
		return r.types.Dynamic()
	}

	if recv.Symbol == b.T {
		return r.interpretCombinator(span, call)
	}

	if recv.Symbol == b.Magic && call.Name == r.names.splat {
		// Internal escape hatch used by desugared rest args.
		return r.types.Bottom()
	}

	if call.Name == r.names.singletonClass {
		sym := r.dealias(recv.Symbol)
		if singleton := r.table.SingletonClass(sym); singleton.IsValid() {
			return r.types.Class(singleton)
		}
		r.errorf(diag.ResolverUnknownTypeSyntax, span, "Malformed type declaration. Unknown type syntax")
		return r.types.Dynamic()
	}

	if call.Name != r.names.squareBrackets {
		r.errorf(diag.ResolverUnknownTypeSyntax, span, "Malformed type declaration. Unknown type syntax")
		return r.types.Dynamic()
	}

	switch recv.Symbol {
	case b.TArray, b.Array:
		if len(call.Args) != 1 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed Array[]: Expected 1 type argument")
			return r.types.Dynamic()
		}
		elem := r.resultType(call.Args[0])
		return r.types.Applied(b.Array, []types.TypeID{elem})
	case b.THash, b.Hash:
		if len(call.Args) != 2 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed Hash[]: Expected 2 type arguments")
			return r.types.Dynamic()
		}
		key := r.resultType(call.Args[0])
		value := r.resultType(call.Args[1])
		// Третий слот Hash всегда Dynamic.
		return r.types.Applied(b.Hash, []types.TypeID{key, value, r.types.Dynamic()})
	case b.TEnumerable, b.Enumerable:
		if len(call.Args) != 1 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed Enumerable[]: Expected 1 type argument")
			return r.types.Dynamic()
		}
		elem := r.resultType(call.Args[0])
		return r.types.Applied(b.Enumerable, []types.TypeID{elem})
	}

	if !r.table.IsClass(recv.Symbol) {
		r.errorf(diag.ResolverUnknownTypeSyntax, span, "Malformed type declaration. Unknown type syntax")
		return r.types.Dynamic()
	}
	members := r.table.TypeMembers(recv.Symbol)
	if len(call.Args) != len(members) {
		r.errorf(diag.ResolverTypeArgArity, span,
			"Malformed %s[]: Expected %d type arguments, got %d",
			r.table.DisplayName(recv.Symbol), len(members), len(call.Args))
		return r.types.Dynamic()
	}
	targs := make([]types.TypeID, 0, len(call.Args))
	for _, arg := range call.Args {
		targs = append(targs, r.resultType(arg))
	}
	return r.types.Applied(recv.Symbol, targs)
}

// procType builds AppliedType(ProcN, [return, args...]) from a proc chain.
func (r *Resolver) procType(id ast.ExprID, span source.Span) types.TypeID {
	sig := r.ParseSig(id)

	targs := make([]types.TypeID, 0, len(sig.ArgTypes)+1)
	if sig.Returns == types.NoTypeID {
		r.errorf(diag.ResolverProcNeedsReturn, span, "Malformed T.proc: You must specify a return type.")
		targs = append(targs, r.types.Dynamic())
	} else {
		targs = append(targs, sig.Returns)
	}
	for _, arg := range sig.ArgTypes {
		targs = append(targs, arg.Type)
	}

	arity := len(targs) - 1
	if arity > symbols.MaxProcArity {
		r.errorf(diag.ResolverProcArityLimit, span,
			"Malformed T.proc: Too many arguments (max %d)", symbols.MaxProcArity)
		return r.types.Dynamic()
	}
	return r.types.Applied(r.table.Builtins().Proc(arity), targs)
}

func (r *Resolver) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Errorf(r.reporter, code, span, format, args...)
}
