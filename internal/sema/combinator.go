package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/types"
)

// interpretCombinator evaluates the fixed T.* type-algebra vocabulary. The
// receiver is already confirmed to be the combinator namespace.
func (r *Resolver) interpretCombinator(span source.Span, call *ast.ExprCallData) types.TypeID {
	b := r.table.Builtins()
	switch call.Name {
	case r.names.nilable:
		if len(call.Args) != 1 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed T.nilable: Expected 1 type argument")
			return r.types.Dynamic()
		}
		return r.types.BuildOr(r.resultType(call.Args[0]), r.types.Class(b.NilClass))
	case r.names.all:
		if len(call.Args) == 0 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed T.all: Expected at least 1 type argument")
			return r.types.Dynamic()
		}
		result := r.resultType(call.Args[0])
		for _, arg := range call.Args[1:] {
			result = r.types.BuildAnd(result, r.resultType(arg))
		}
		return result
	case r.names.any:
		if len(call.Args) == 0 {
			r.errorf(diag.ResolverTypeArgArity, span, "Malformed T.any: Expected at least 1 type argument")
			return r.types.Dynamic()
		}
		result := r.resultType(call.Args[0])
		for _, arg := range call.Args[1:] {
			result = r.types.BuildOr(result, r.resultType(arg))
		}
		return result
	case r.names.enum:
		return r.enumType(span, call)
	case r.names.classOf:
		return r.classOfType(span, call)
	case r.names.untyped:
		return r.types.Dynamic()
	case r.names.noreturn:
		return r.types.Bottom()
	default:
		name, _ := r.table.Strings.Lookup(call.Name)
		r.errorf(diag.ResolverUnknownCombinator, span, "Unsupported method T.%s", name)
		return r.types.Dynamic()
	}
}

// enumType folds a literal array into a union of literal types. Its error
// paths return Bottom, not Dynamic — a legacy quirk the surrounding
// checker depends on; do not "fix" it.
func (r *Resolver) enumType(span source.Span, call *ast.ExprCallData) types.TypeID {
	if len(call.Args) != 1 {
		r.errorf(diag.ResolverInvalidEnumDecl, span, "enum only takes a single argument")
		return r.types.Bottom()
	}
	arr, ok := r.builder.Exprs.Array(call.Args[0])
	if !ok {
		r.errorf(diag.ResolverInvalidEnumDecl, span,
			"enum must be passed a literal array. e.g. enum([1,\"foo\",MyClass])")
		return r.types.Bottom()
	}
	if len(arr.Elems) == 0 {
		r.errorf(diag.ResolverInvalidEnumDecl, span, "enum([]) is invalid")
		return r.types.Bottom()
	}
	result := r.resultLiteral(arr.Elems[0])
	for _, el := range arr.Elems[1:] {
		result = r.types.BuildOr(result, r.resultLiteral(el))
	}
	return result
}

func (r *Resolver) classOfType(span source.Span, call *ast.ExprCallData) types.TypeID {
	if len(call.Args) != 1 {
		r.errorf(diag.ResolverClassOfArgument, span, "T.class_of only takes a single argument")
		return r.types.Dynamic()
	}
	obj, ok := r.builder.Exprs.Ident(call.Args[0])
	if !ok {
		r.errorf(diag.ResolverClassOfArgument, span, "T.class_of needs a Class as its argument")
		return r.types.Dynamic()
	}
	sym := r.dealias(obj.Symbol)
	singleton := r.table.SingletonClass(sym)
	if !singleton.IsValid() {
		r.errorf(diag.ResolverClassOfArgument, span, "Unknown class")
		return r.types.Dynamic()
	}
	return r.types.Class(singleton)
}
