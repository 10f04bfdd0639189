package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"sigil/internal/source"
)

// Table stores all known symbols in a compact slice-based arena and answers
// the read-only queries the resolver needs. Index 0 is reserved for
// NoSymbolID.
type Table struct {
	data     []Symbol
	Strings  *source.Interner
	root     SymbolID
	builtins Builtins
}

// NewTable builds a table seeded with the well-known builtin registry.
// If strings is nil, a fresh interner is allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		data:    make([]Symbol, 1, 128), // index 0 reserved for NoSymbolID
		Strings: strings,
	}
	t.root = t.newSymbol("<root>", NoSymbolID, SymbolFlagClass|SymbolFlagBuiltin)
	t.seedBuiltins()
	return t
}

// Root returns the top-level namespace symbol.
func (t *Table) Root() SymbolID { return t.root }

// Builtins returns the well-known symbol registry.
func (t *Table) Builtins() Builtins { return t.builtins }

func (t *Table) newSymbol(name string, owner SymbolID, flags SymbolFlags) SymbolID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	t.data = append(t.data, Symbol{
		Name:  t.Strings.Intern(name),
		Flags: flags,
		Owner: owner,
	})
	if owner.IsValid() {
		ownerSym := t.Get(owner)
		if ownerSym.members == nil {
			ownerSym.members = make(map[source.StringID]SymbolID)
		}
		ownerSym.members[t.data[id].Name] = id
	}
	return id
}

// Get returns the symbol pointer or nil if the ID is invalid.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Len reports the number of symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.data) - 1 }

// NewClass registers a class/module under owner with the given type members.
func (t *Table) NewClass(owner SymbolID, name string, typeMembers ...string) SymbolID {
	id := t.newSymbol(name, owner, SymbolFlagClass)
	for _, tm := range typeMembers {
		member := t.newSymbol(tm, id, SymbolFlagTypeMember)
		t.Get(id).TypeMembers = append(t.Get(id).TypeMembers, member)
	}
	return id
}

// NewStaticField registers a constant under owner. aliased names the class
// held by the constant when it aliases one (NoSymbolID otherwise); the
// field's declared result type is then the singleton class of that class,
// which is the shape the dealiaser walks.
func (t *Table) NewStaticField(owner SymbolID, name string, aliased SymbolID) SymbolID {
	id := t.newSymbol(name, owner, SymbolFlagStaticField)
	if aliased.IsValid() {
		ref := t.SingletonClass(aliased)
		t.Get(id).ResultClass = ref
	}
	return id
}

// Child resolves a direct member of owner by name.
func (t *Table) Child(owner SymbolID, name string) (SymbolID, bool) {
	sym := t.Get(owner)
	if sym == nil || sym.members == nil {
		return NoSymbolID, false
	}
	nameID := t.Strings.Intern(name)
	id, ok := sym.members[nameID]
	return id, ok
}

// IsClass reports whether the symbol denotes a class or module.
func (t *Table) IsClass(id SymbolID) bool {
	sym := t.Get(id)
	return sym != nil && sym.Flags&SymbolFlagClass != 0
}

// IsStaticField reports whether the symbol denotes a constant field.
func (t *Table) IsStaticField(id SymbolID) bool {
	sym := t.Get(id)
	return sym != nil && sym.Flags&SymbolFlagStaticField != 0
}

// IsTypeMember reports whether the symbol denotes a generic type parameter.
func (t *Table) IsTypeMember(id SymbolID) bool {
	sym := t.Get(id)
	return sym != nil && sym.Flags&SymbolFlagTypeMember != 0
}

// TypeMembers returns the declared type parameters of a class, in order.
func (t *Table) TypeMembers(id SymbolID) []SymbolID {
	sym := t.Get(id)
	if sym == nil {
		return nil
	}
	return sym.TypeMembers
}

// AttachedClass returns the class a singleton class is attached to.
func (t *Table) AttachedClass(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	return sym.AttachedCls
}

// ResultClass returns the class a static field aliases, if any.
func (t *Table) ResultClass(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	return sym.ResultClass
}

// SingletonClass materializes (once) and returns the singleton class of a
// class symbol. Non-class symbols have none.
func (t *Table) SingletonClass(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil || sym.Flags&SymbolFlagClass == 0 {
		return NoSymbolID
	}
	if sym.Singleton.IsValid() {
		return sym.Singleton
	}
	name := fmt.Sprintf("<Class:%s>", t.DisplayName(id))
	singleton := t.newSymbol(name, sym.Owner, SymbolFlagClass|SymbolFlagSingleton)
	t.Get(singleton).AttachedCls = id
	// newSymbol can move the backing array; re-fetch.
	t.Get(id).Singleton = singleton
	return singleton
}

// EnclosingClass walks owners until it finds a class symbol, starting at
// the symbol itself.
func (t *Table) EnclosingClass(id SymbolID) SymbolID {
	for cur := id; cur.IsValid(); {
		sym := t.Get(cur)
		if sym == nil {
			return NoSymbolID
		}
		if sym.Flags&SymbolFlagClass != 0 {
			return cur
		}
		cur = sym.Owner
	}
	return NoSymbolID
}

// Name returns the symbol's own (unqualified) name.
func (t *Table) Name(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil {
		return "<none>"
	}
	return t.Strings.MustLookup(sym.Name)
}

// StringValue resolves an interned string, mostly for literal-type labels.
func (t *Table) StringValue(id source.StringID) string {
	s, ok := t.Strings.Lookup(id)
	if !ok {
		return ""
	}
	return s
}

// DisplayName returns the fully qualified name, owners joined with "::".
func (t *Table) DisplayName(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil {
		return "<none>"
	}
	if !sym.Owner.IsValid() || sym.Owner == t.root {
		return t.Name(id)
	}
	return t.DisplayName(sym.Owner) + "::" + t.Name(id)
}
