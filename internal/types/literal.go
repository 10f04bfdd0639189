package types

import (
	"sigil/internal/source"
)

// LitKind tags the value stored in a literal type.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitString
	LitSymbol
)

// LiteralInfo stores the payload of one literal type. Exactly one of the
// value fields is meaningful, selected by Kind.
type LiteralInfo struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
	Str   source.StringID
}
