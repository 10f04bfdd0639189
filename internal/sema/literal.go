package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/types"
)

// resultLiteral turns a literal expression into its singleton type. Any
// other shape is diagnosed and yields Dynamic in the literal's place; the
// caller folds that Dynamic in unchanged.
func (r *Resolver) resultLiteral(id ast.ExprID) types.TypeID {
	expr := r.builder.Exprs.Get(id)
	if expr == nil {
		return r.types.Dynamic()
	}
	b := r.table.Builtins()
	switch expr.Kind {
	case ast.ExprIntLit:
		lit, _ := r.builder.Exprs.Int(id)
		return r.types.LiteralInt(b.Integer, lit.Value)
	case ast.ExprFloatLit:
		lit, _ := r.builder.Exprs.Float(id)
		return r.types.LiteralFloat(b.Float, lit.Value)
	case ast.ExprBoolLit:
		lit, _ := r.builder.Exprs.Bool(id)
		if lit.Value {
			return r.types.LiteralBool(b.TrueClass, true)
		}
		return r.types.LiteralBool(b.FalseClass, false)
	case ast.ExprStringLit:
		lit, _ := r.builder.Exprs.StringData(id)
		return r.types.LiteralString(b.String, types.LitString, lit.Value)
	case ast.ExprSymbolLit:
		lit, _ := r.builder.Exprs.StringData(id)
		return r.types.LiteralString(b.Symbol, types.LitSymbol, lit.Value)
	default:
		r.errorf(diag.ResolverUnsupportedTypeLiteral, expr.Span, "Unsupported type literal")
		return r.types.Dynamic()
	}
}
