package types

import "fmt"

// SanityCheck walks the structure of a type and panics on dangling IDs or
// malformed payloads. Every type leaving the resolver passes through it.
func (in *Interner) SanityCheck(id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Errorf("types: sanity check on invalid TypeID %d", id))
	}
	switch tt.Kind {
	case KindDynamic, KindBottom:
	case KindClass, KindSelf, KindLambdaParam:
		if !tt.Symbol.IsValid() {
			panic(fmt.Errorf("types: %s type without a symbol", tt.Kind))
		}
	case KindLiteral:
		if !tt.Symbol.IsValid() {
			panic(fmt.Errorf("types: literal type without a class symbol"))
		}
		if int(tt.Payload) >= len(in.literals) {
			panic(fmt.Errorf("types: literal payload out of range"))
		}
	case KindApplied:
		if !tt.Symbol.IsValid() {
			panic(fmt.Errorf("types: applied type without a symbol"))
		}
		for _, arg := range in.Args(id) {
			in.SanityCheck(arg)
		}
	case KindTuple:
		for _, elem := range in.Elems(id) {
			in.SanityCheck(elem)
		}
	case KindOr, KindAnd:
		a, b, ok := in.Operands(id)
		if !ok {
			panic(fmt.Errorf("types: %s node without operands", tt.Kind))
		}
		in.SanityCheck(a)
		in.SanityCheck(b)
	default:
		panic(fmt.Errorf("types: sanity check on %s", tt.Kind))
	}
}
