package ast

import (
	"sigil/internal/source"
	"sigil/internal/symbols"
)

// ExprIdentData names a constant; Symbol is bound by the front end and is
// NoSymbolID when the name did not resolve.
type ExprIdentData struct {
	Name   source.StringID
	Symbol symbols.SymbolID
}

// ExprIntData holds an integer literal value.
type ExprIntData struct {
	Value int64
}

// ExprFloatData holds a float literal value.
type ExprFloatData struct {
	Value float64
}

// ExprBoolData holds a boolean literal value.
type ExprBoolData struct {
	Value bool
}

// ExprStringData holds string and symbol literal text.
type ExprStringData struct {
	Value source.StringID
}

// ExprArrayData holds ordered array literal elements.
type ExprArrayData struct {
	Elems []ExprID
}

// MappingEntry is one ordered key→value pair of a mapping literal.
type MappingEntry struct {
	Key   ExprID
	Value ExprID
}

// ExprMappingData holds ordered mapping literal entries.
type ExprMappingData struct {
	Entries []MappingEntry
}

// ExprCallData describes one link of a builder-call chain. Recv is
// NoExprID only for calls synthesized without a receiver.
type ExprCallData struct {
	Name source.StringID
	Recv ExprID
	Args []ExprID
}

// Exprs manages allocation of annotation expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Ints     *Arena[ExprIntData]
	Floats   *Arena[ExprFloatData]
	Bools    *Arena[ExprBoolData]
	Strings  *Arena[ExprStringData]
	Arrays   *Arena[ExprArrayData]
	Mappings *Arena[ExprMappingData]
	Calls    *Arena[ExprCallData]
}

// NewExprs creates per-kind arenas preallocated using capHint.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Ints:     NewArena[ExprIntData](capHint),
		Floats:   NewArena[ExprFloatData](capHint),
		Bools:    NewArena[ExprBoolData](capHint),
		Strings:  NewArena[ExprStringData](capHint),
		Arrays:   NewArena[ExprArrayData](capHint),
		Mappings: NewArena[ExprMappingData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates an identifier expression with an optional binding.
func (e *Exprs) NewIdent(span source.Span, name source.StringID, sym symbols.SymbolID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name, Symbol: sym})
	return e.new(ExprIdent, span, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewInt creates an integer literal expression.
func (e *Exprs) NewInt(span source.Span, value int64) ExprID {
	payload := e.Ints.Allocate(ExprIntData{Value: value})
	return e.new(ExprIntLit, span, PayloadID(payload))
}

// Int returns the integer literal data.
func (e *Exprs) Int(id ExprID) (*ExprIntData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIntLit {
		return nil, false
	}
	return e.Ints.Get(uint32(expr.Payload)), true
}

// NewFloat creates a float literal expression.
func (e *Exprs) NewFloat(span source.Span, value float64) ExprID {
	payload := e.Floats.Allocate(ExprFloatData{Value: value})
	return e.new(ExprFloatLit, span, PayloadID(payload))
}

// Float returns the float literal data.
func (e *Exprs) Float(id ExprID) (*ExprFloatData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFloatLit {
		return nil, false
	}
	return e.Floats.Get(uint32(expr.Payload)), true
}

// NewBool creates a boolean literal expression.
func (e *Exprs) NewBool(span source.Span, value bool) ExprID {
	payload := e.Bools.Allocate(ExprBoolData{Value: value})
	return e.new(ExprBoolLit, span, PayloadID(payload))
}

// Bool returns the boolean literal data.
func (e *Exprs) Bool(id ExprID) (*ExprBoolData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBoolLit {
		return nil, false
	}
	return e.Bools.Get(uint32(expr.Payload)), true
}

// NewString creates a string literal expression.
func (e *Exprs) NewString(span source.Span, value source.StringID) ExprID {
	payload := e.Strings.Allocate(ExprStringData{Value: value})
	return e.new(ExprStringLit, span, PayloadID(payload))
}

// NewSymbolLit creates a symbol literal expression (:name).
func (e *Exprs) NewSymbolLit(span source.Span, value source.StringID) ExprID {
	payload := e.Strings.Allocate(ExprStringData{Value: value})
	return e.new(ExprSymbolLit, span, PayloadID(payload))
}

// StringData returns the payload of a string or symbol literal.
func (e *Exprs) StringData(id ExprID) (*ExprStringData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprStringLit && expr.Kind != ExprSymbolLit) {
		return nil, false
	}
	return e.Strings.Get(uint32(expr.Payload)), true
}

// NewArray creates an array literal expression.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ExprArrayData{Elems: elems})
	return e.new(ExprArrayLit, span, PayloadID(payload))
}

// Array returns the array literal data.
func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArrayLit {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}

// NewMapping creates a mapping literal expression with ordered entries.
func (e *Exprs) NewMapping(span source.Span, entries []MappingEntry) ExprID {
	payload := e.Mappings.Allocate(ExprMappingData{Entries: entries})
	return e.new(ExprMappingLit, span, PayloadID(payload))
}

// Mapping returns the mapping literal data.
func (e *Exprs) Mapping(id ExprID) (*ExprMappingData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMappingLit {
		return nil, false
	}
	return e.Mappings.Get(uint32(expr.Payload)), true
}

// NewSelf creates a self-reference expression.
func (e *Exprs) NewSelf(span source.Span) ExprID {
	return e.new(ExprSelf, span, 0)
}

// NewImplicitSelf creates the marker receiver for bare sig chains.
func (e *Exprs) NewImplicitSelf(span source.Span) ExprID {
	return e.new(ExprImplicitSelf, span, 0)
}

// NewCall creates a call-chain link.
func (e *Exprs) NewCall(span source.Span, name source.StringID, recv ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Name: name, Recv: recv, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}
