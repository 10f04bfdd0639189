package types

import (
	"fmt"
	"strconv"
	"strings"

	"sigil/internal/source"
	"sigil/internal/symbols"
)

// Namer resolves symbol and string IDs to display text for labels.
type Namer interface {
	DisplayName(symbols.SymbolID) string
	StringValue(source.StringID) string
}

// Label renders a human-readable form of the type for diagnostics and
// checker output.
func (in *Interner) Label(id TypeID, n Namer) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindDynamic:
		return "T.untyped"
	case KindBottom:
		return "T.noreturn"
	case KindClass:
		return n.DisplayName(tt.Symbol)
	case KindSelf:
		return "T.self_type"
	case KindLambdaParam:
		return n.DisplayName(tt.Symbol)
	case KindLiteral:
		return in.literalLabel(tt, n)
	case KindApplied:
		args := in.Args(id)
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = in.Label(arg, n)
		}
		return fmt.Sprintf("%s[%s]", n.DisplayName(tt.Symbol), strings.Join(parts, ", "))
	case KindTuple:
		elems := in.Elems(id)
		parts := make([]string, len(elems))
		for i, elem := range elems {
			parts[i] = in.Label(elem, n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindOr:
		a, b, _ := in.Operands(id)
		return fmt.Sprintf("T.any(%s, %s)", in.Label(a, n), in.Label(b, n))
	case KindAnd:
		a, b, _ := in.Operands(id)
		return fmt.Sprintf("T.all(%s, %s)", in.Label(a, n), in.Label(b, n))
	}
	return "<invalid>"
}

func (in *Interner) literalLabel(tt Type, n Namer) string {
	info := in.literals[tt.Payload]
	switch info.Kind {
	case LitInt:
		return strconv.FormatInt(info.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(info.Float, 'g', -1, 64)
	case LitBool:
		return strconv.FormatBool(info.Bool)
	case LitString:
		return strconv.Quote(n.StringValue(info.Str))
	case LitSymbol:
		return ":" + n.StringValue(info.Str)
	}
	return "<literal>"
}
