package symbols

import "fmt"

// MaxProcArity caps the Proc-arity-N symbol family.
const MaxProcArity = 10

// Builtins stores SymbolIDs for the well-known symbols the resolver depends
// on. Built once alongside the table and passed around by value.
type Builtins struct {
	Integer    SymbolID
	Float      SymbolID
	String     SymbolID
	Symbol     SymbolID
	TrueClass  SymbolID
	FalseClass SymbolID
	NilClass   SymbolID

	Array      SymbolID
	Hash       SymbolID
	Set        SymbolID
	Struct     SymbolID
	File       SymbolID
	Enumerable SymbolID

	// T is the combinator namespace; TArray/THash/TEnumerable are its
	// instantiation sub-namespaces.
	T           SymbolID
	TArray      SymbolID
	THash       SymbolID
	TEnumerable SymbolID

	// Magic hosts internal escape hatches (the splat marker).
	Magic SymbolID

	procs [MaxProcArity + 1]SymbolID
}

// Proc returns the Proc symbol for the given arity, or NoSymbolID when the
// arity is out of range.
func (b Builtins) Proc(arity int) SymbolID {
	if arity < 0 || arity > MaxProcArity {
		return NoSymbolID
	}
	return b.procs[arity]
}

func (t *Table) seedBuiltins() {
	root := t.root
	b := Builtins{
		Integer:    t.NewClass(root, "Integer"),
		Float:      t.NewClass(root, "Float"),
		String:     t.NewClass(root, "String"),
		Symbol:     t.NewClass(root, "Symbol"),
		TrueClass:  t.NewClass(root, "TrueClass"),
		FalseClass: t.NewClass(root, "FalseClass"),
		NilClass:   t.NewClass(root, "NilClass"),

		Array:      t.NewClass(root, "Array", "Elem"),
		Hash:       t.NewClass(root, "Hash", "K", "V"),
		Set:        t.NewClass(root, "Set", "Elem"),
		Struct:     t.NewClass(root, "Struct", "Elem"),
		File:       t.NewClass(root, "File", "Elem"),
		Enumerable: t.NewClass(root, "Enumerable", "Elem"),
	}
	b.T = t.NewClass(root, "T")
	b.TArray = t.NewClass(b.T, "Array")
	b.THash = t.NewClass(b.T, "Hash")
	b.TEnumerable = t.NewClass(b.T, "Enumerable")
	b.Magic = t.NewClass(root, "<Magic>")
	for arity := 0; arity <= MaxProcArity; arity++ {
		b.procs[arity] = t.NewClass(root, fmt.Sprintf("Proc%d", arity))
	}
	for i := range t.data[1:] {
		t.data[i+1].Flags |= SymbolFlagBuiltin
	}
	t.builtins = b
}
