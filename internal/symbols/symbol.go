package symbols

import (
	"sigil/internal/source"
)

// SymbolFlags encode capability bits for quick checks.
type SymbolFlags uint16

const (
	// SymbolFlagClass marks classes and modules.
	SymbolFlagClass SymbolFlags = 1 << iota
	// SymbolFlagStaticField marks constants holding values (including
	// class aliases).
	SymbolFlagStaticField
	// SymbolFlagTypeMember marks declared generic type parameters.
	SymbolFlagTypeMember
	// SymbolFlagBuiltin marks symbols seeded by the well-known registry.
	SymbolFlagBuiltin
	// SymbolFlagSingleton marks materialized singleton classes.
	SymbolFlagSingleton
)

// Strings returns textual flag labels, mostly for debug output.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagClass != 0 {
		labels = append(labels, "class")
	}
	if f&SymbolFlagStaticField != 0 {
		labels = append(labels, "static-field")
	}
	if f&SymbolFlagTypeMember != 0 {
		labels = append(labels, "type-member")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagSingleton != 0 {
		labels = append(labels, "singleton")
	}
	return labels
}

// Symbol describes one named entity the resolver can reference.
//
// ResultClass is only meaningful for static fields: when the field's
// declared result type is a class reference, it holds that reference (the
// singleton class whose attached class is the aliased class). This is
// exactly the shape the dealiaser walks.
type Symbol struct {
	Name        source.StringID
	Flags       SymbolFlags
	Owner       SymbolID
	AttachedCls SymbolID // for singleton classes: the class they attach to
	Singleton   SymbolID // lazily materialized singleton class
	ResultClass SymbolID
	TypeMembers []SymbolID
	members     map[source.StringID]SymbolID
}
