package ast

import (
	"sigil/internal/source"
)

// ExprKind enumerates the closed set of annotation expression shapes the
// resolver consumes.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprIntLit
	ExprFloatLit
	ExprBoolLit
	ExprStringLit
	ExprSymbolLit
	ExprArrayLit
	ExprMappingLit
	ExprSelf
	// ExprImplicitSelf is the synthesized receiver of a bare `sig` chain.
	ExprImplicitSelf
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprIntLit:
		return "int"
	case ExprFloatLit:
		return "float"
	case ExprBoolLit:
		return "bool"
	case ExprStringLit:
		return "string"
	case ExprSymbolLit:
		return "symbol"
	case ExprArrayLit:
		return "array"
	case ExprMappingLit:
		return "mapping"
	case ExprSelf:
		return "self"
	case ExprImplicitSelf:
		return "implicit-self"
	case ExprCall:
		return "call"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}
