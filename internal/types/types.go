package types

import (
	"fmt"

	"sigil/internal/symbols"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindDynamic is the opt-out/error-recovery type.
	KindDynamic
	// KindBottom is the uninhabited type.
	KindBottom
	// KindClass is a nominal class/module reference.
	KindClass
	// KindSelf is the enclosing class's own type.
	KindSelf
	// KindLambdaParam references a declared generic type parameter.
	KindLambdaParam
	// KindLiteral is a singleton type for one literal value.
	KindLiteral
	// KindApplied is a generic instantiation.
	KindApplied
	// KindTuple is a fixed-length heterogeneous sequence.
	KindTuple
	KindOr
	KindAnd
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindDynamic:
		return "dynamic"
	case KindBottom:
		return "bottom"
	case KindClass:
		return "class"
	case KindSelf:
		return "self"
	case KindLambdaParam:
		return "lambda-param"
	case KindLiteral:
		return "literal"
	case KindApplied:
		return "applied"
	case KindTuple:
		return "tuple"
	case KindOr:
		return "or"
	case KindAnd:
		return "and"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Variable-sized
// payloads (type arguments, tuple elements, operand pairs, literal values)
// live in interner side tables addressed by Payload.
type Type struct {
	Kind    Kind
	Symbol  symbols.SymbolID
	Payload uint32
}
