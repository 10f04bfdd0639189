package types

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"

	"sigil/internal/source"
	"sigil/internal/symbols"
)

// Builtins stores TypeIDs for the two leaf types every error-recovery path
// needs.
type Builtins struct {
	Dynamic TypeID
	Bottom  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Interning makes structural equality an ID comparison, which is what the
// union/intersection constructors rely on for deduplication.
type Interner struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins

	lists    [][]TypeID    // applied args, tuple elems (slot 0 reserved)
	pairs    [][2]TypeID   // or/and operands (slot 0 reserved)
	literals []LiteralInfo // literal payloads (slot 0 reserved)
}

// NewInterner constructs an interner seeded with Dynamic and Bottom.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[string]TypeID, 64),
		lists:    make([][]TypeID, 1),
		pairs:    make([][2]TypeID, 1),
		literals: make([]LiteralInfo, 1),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // NoTypeID sentinel
	in.builtins.Dynamic = in.intern(Type{Kind: KindDynamic}, nil)
	in.builtins.Bottom = in.intern(Type{Kind: KindBottom}, nil)
	return in
}

// Builtins returns TypeIDs for Dynamic and Bottom.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Dynamic returns the opt-out/error-recovery type.
func (in *Interner) Dynamic() TypeID { return in.builtins.Dynamic }

// Bottom returns the uninhabited type.
func (in *Interner) Bottom() TypeID { return in.builtins.Bottom }

// Class returns the nominal type for a class/module symbol.
func (in *Interner) Class(sym symbols.SymbolID) TypeID {
	return in.intern(Type{Kind: KindClass, Symbol: sym}, nil)
}

// Self returns the self type anchored at the given class.
func (in *Interner) Self(sym symbols.SymbolID) TypeID {
	return in.intern(Type{Kind: KindSelf, Symbol: sym}, nil)
}

// LambdaParam returns the reference type for a generic type parameter.
func (in *Interner) LambdaParam(sym symbols.SymbolID) TypeID {
	return in.intern(Type{Kind: KindLambdaParam, Symbol: sym}, nil)
}

// Applied returns the instantiation of sym with the given ordered type
// arguments.
func (in *Interner) Applied(sym symbols.SymbolID, args []TypeID) TypeID {
	return in.intern(Type{Kind: KindApplied, Symbol: sym}, args)
}

// Tuple returns the fixed-length tuple over the given element types.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	return in.intern(Type{Kind: KindTuple}, elems)
}

// LiteralInt returns the singleton type for an integer literal.
func (in *Interner) LiteralInt(class symbols.SymbolID, v int64) TypeID {
	return in.internLiteral(class, LiteralInfo{Kind: LitInt, Int: v})
}

// LiteralFloat returns the singleton type for a float literal.
func (in *Interner) LiteralFloat(class symbols.SymbolID, v float64) TypeID {
	return in.internLiteral(class, LiteralInfo{Kind: LitFloat, Float: v})
}

// LiteralBool returns the singleton type for a boolean literal.
func (in *Interner) LiteralBool(class symbols.SymbolID, v bool) TypeID {
	return in.internLiteral(class, LiteralInfo{Kind: LitBool, Bool: v})
}

// LiteralString returns the singleton type for a string or symbol literal.
func (in *Interner) LiteralString(class symbols.SymbolID, kind LitKind, v source.StringID) TypeID {
	return in.internLiteral(class, LiteralInfo{Kind: kind, Str: v})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Args returns the ordered type arguments of an applied type.
func (in *Interner) Args(id TypeID) []TypeID {
	return in.listOf(id, KindApplied)
}

// Elems returns the ordered element types of a tuple.
func (in *Interner) Elems(id TypeID) []TypeID {
	return in.listOf(id, KindTuple)
}

// Operands returns both operands of an Or/And node.
func (in *Interner) Operands(id TypeID) (TypeID, TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindOr && tt.Kind != KindAnd) {
		return NoTypeID, NoTypeID, false
	}
	pair := in.pairs[tt.Payload]
	return pair[0], pair[1], true
}

// Literal returns the payload of a literal type.
func (in *Interner) Literal(id TypeID) (LiteralInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindLiteral {
		return LiteralInfo{}, false
	}
	return in.literals[tt.Payload], true
}

func (in *Interner) listOf(id TypeID, kind Kind) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != kind {
		return nil
	}
	return in.lists[tt.Payload]
}

// intern deduplicates structurally: the key covers the descriptor plus the
// list payload when present.
func (in *Interner) intern(t Type, list []TypeID) TypeID {
	key := structuralKey(t.Kind, t.Symbol, list, nil)
	if id, ok := in.index[key]; ok {
		return id
	}
	if list != nil || t.Kind == KindApplied || t.Kind == KindTuple {
		slot, err := safecast.Conv[uint32](len(in.lists))
		if err != nil {
			panic(fmt.Errorf("type list overflow: %w", err))
		}
		cloned := make([]TypeID, len(list))
		copy(cloned, list)
		in.lists = append(in.lists, cloned)
		t.Payload = slot
	}
	return in.internRaw(t, key)
}

func (in *Interner) internPair(kind Kind, a, b TypeID) TypeID {
	key := structuralKey(kind, symbols.NoSymbolID, []TypeID{a, b}, nil)
	if id, ok := in.index[key]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.pairs))
	if err != nil {
		panic(fmt.Errorf("type pair overflow: %w", err))
	}
	in.pairs = append(in.pairs, [2]TypeID{a, b})
	return in.internRaw(Type{Kind: kind, Payload: slot}, key)
}

func (in *Interner) internLiteral(class symbols.SymbolID, info LiteralInfo) TypeID {
	key := structuralKey(KindLiteral, class, nil, &info)
	if id, ok := in.index[key]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.literals))
	if err != nil {
		panic(fmt.Errorf("literal payload overflow: %w", err))
	}
	in.literals = append(in.literals, info)
	return in.internRaw(Type{Kind: KindLiteral, Symbol: class, Payload: slot}, key)
}

func (in *Interner) internRaw(t Type, key string) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// structuralKey сериализует структуру типа в ключ для map.
func structuralKey(kind Kind, sym symbols.SymbolID, ids []TypeID, lit *LiteralInfo) string {
	buf := make([]byte, 0, 16+4*len(ids))
	buf = append(buf, byte(kind))
	buf = binary.BigEndian.AppendUint32(buf, uint32(sym))
	for _, id := range ids {
		buf = binary.BigEndian.AppendUint32(buf, uint32(id))
	}
	if lit != nil {
		buf = append(buf, byte(lit.Kind))
		switch lit.Kind {
		case LitInt:
			buf = binary.BigEndian.AppendUint64(buf, uint64(lit.Int))
		case LitFloat:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(lit.Float))
		case LitBool:
			if lit.Bool {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case LitString, LitSymbol:
			buf = binary.BigEndian.AppendUint32(buf, uint32(lit.Str))
		}
	}
	return string(buf)
}
