package sema

import (
	"sigil/internal/symbols"
)

// dealias resolves an indirect class reference: while sym is a static
// field whose declared result type is a class reference, replace it with
// that class reference's attached class. The table should never produce
// alias cycles; the visited set is defense in depth.
func (r *Resolver) dealias(sym symbols.SymbolID) symbols.SymbolID {
	var visited map[symbols.SymbolID]struct{}
	for r.table.IsStaticField(sym) {
		classRef := r.table.ResultClass(sym)
		if !classRef.IsValid() {
			break
		}
		klass := r.table.AttachedClass(classRef)
		if !klass.IsValid() {
			break
		}
		if visited == nil {
			visited = make(map[symbols.SymbolID]struct{}, 4)
		}
		if _, seen := visited[sym]; seen {
			break
		}
		visited[sym] = struct{}{}
		sym = klass
	}
	return sym
}
