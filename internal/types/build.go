package types

// BuildOr constructs the union of a and b. Structurally equal operands
// collapse to one; no other simplification happens here, the surrounding
// checker owns the full lattice.
func (in *Interner) BuildOr(a, b TypeID) TypeID {
	if a == b {
		return a
	}
	return in.internPair(KindOr, a, b)
}

// BuildAnd constructs the intersection of a and b, deduplicating equal
// operands the same way BuildOr does.
func (in *Interner) BuildAnd(a, b TypeID) TypeID {
	if a == b {
		return a
	}
	return in.internPair(KindAnd, a, b)
}
