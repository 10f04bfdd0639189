package sema

import (
	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/types"
)

// Seen records which builder methods appeared along one sig/proc chain.
type Seen struct {
	Sig            bool
	Proc           bool
	Args           bool
	Abstract       bool
	Override       bool
	Implementation bool
	Overridable    bool
	Returns        bool
	Checked        bool
}

// ArgSpec is one declared argument: the mapping key's location, its name
// and the resolved type.
type ArgSpec struct {
	Span source.Span
	Name source.StringID
	Type types.TypeID
}

// ParsedSig accumulates one walked signature chain. Created per
// declaration, populated by ParseSig, consumed immediately by the caller.
type ParsedSig struct {
	Seen     Seen
	ArgTypes []ArgSpec
	Returns  types.TypeID
}

// IsSigChain reports whether the chain contains a `sig` call on an
// implicit self receiver, i.e. whether this call tree is a method
// signature declaration at all.
func (r *Resolver) IsSigChain(id ast.ExprID) bool {
	for id.IsValid() {
		call, ok := r.builder.Exprs.Call(id)
		if !ok {
			return false
		}
		if call.Name == r.names.sig {
			if recv := r.builder.Exprs.Get(call.Recv); recv != nil && recv.Kind == ast.ExprImplicitSelf {
				return true
			}
		}
		id = call.Recv
	}
	return false
}

// isProcChain reports whether the chain contains a `proc` call whose
// receiver is the combinator namespace.
func (r *Resolver) isProcChain(id ast.ExprID) bool {
	for id.IsValid() {
		call, ok := r.builder.Exprs.Call(id)
		if !ok {
			return false
		}
		if call.Name == r.names.proc {
			if recv, ok := r.builder.Exprs.Ident(call.Recv); ok && recv.Symbol == r.table.Builtins().T {
				return true
			}
		}
		id = call.Recv
	}
	return false
}

// ParseSig walks a builder chain from the outermost call toward its root
// receiver and accumulates the signature. Caller contract: the chain must
// contain a sig or proc marker (check with IsSigChain/isProcChain first);
// anything else is a bug in the caller, not a user diagnostic.
func (r *Resolver) ParseSig(id ast.ExprID) ParsedSig {
	var sig ParsedSig

	for id.IsValid() {
		call, ok := r.builder.Exprs.Call(id)
		if !ok {
			break
		}
		span := r.builder.Exprs.Get(id).Span
		switch call.Name {
		case r.names.sig, r.names.proc:
			r.parseArgList(&sig, span, call)
		case r.names.abstract:
			sig.Seen.Abstract = true
		case r.names.override:
			sig.Seen.Override = true
		case r.names.implementation:
			sig.Seen.Implementation = true
		case r.names.overridable:
			sig.Seen.Overridable = true
		case r.names.checked:
			sig.Seen.Checked = true
		case r.names.returns:
			sig.Seen.Returns = true
			if len(call.Args) != 1 {
				r.errorf(diag.ResolverReturnsArity, span,
					"Wrong number of args to `sig.returns`. Got %d, expected 1", len(call.Args))
			}
			if len(call.Args) > 0 {
				sig.Returns = r.resultType(call.Args[0])
			}
		default:
			name, _ := r.table.Strings.Lookup(call.Name)
			r.errorf(diag.ResolverUnknownSigBuilder, span, "Unknown `sig` builder method %s.", name)
		}
		id = call.Recv
	}

	if !sig.Seen.Sig && !sig.Seen.Proc {
		panic("sema: signature chain without a sig or proc marker")
	}
	return sig
}

// parseArgList handles sig(...)/proc(...): at most one positional argument
// which must be a name => type mapping with symbolic keys.
func (r *Resolver) parseArgList(sig *ParsedSig, span source.Span, call *ast.ExprCallData) {
	markerName, _ := r.table.Strings.Lookup(call.Name)
	if sig.Seen.Sig || sig.Seen.Proc {
		r.errorf(diag.ResolverMultipleArgLists, span,
			"Malformed `%s`: Found multiple argument lists", markerName)
		sig.ArgTypes = nil
	}
	if call.Name == r.names.sig {
		sig.Seen.Sig = true
	} else {
		sig.Seen.Proc = true
	}

	if len(call.Args) == 0 {
		return
	}
	sig.Seen.Args = true

	if len(call.Args) > 1 {
		r.errorf(diag.ResolverSigArgArity, span,
			"Wrong number of args to `%s`. Got %d, expected 0-1", markerName, len(call.Args))
	}
	mapping, ok := r.builder.Exprs.Mapping(call.Args[0])
	if !ok {
		r.errorf(diag.ResolverSigArgsNotMapping, span,
			"Malformed `%s`; Expected a hash of arguments => types.", markerName)
		return
	}
	for _, entry := range mapping.Entries {
		key := r.builder.Exprs.Get(entry.Key)
		if key == nil || key.Kind != ast.ExprSymbolLit {
			// Несимвольные ключи молча пропускаются.
			continue
		}
		name, _ := r.builder.Exprs.StringData(entry.Key)
		sig.ArgTypes = append(sig.ArgTypes, ArgSpec{
			Span: key.Span,
			Name: name.Value,
			Type: r.resultType(entry.Value),
		})
	}
}
