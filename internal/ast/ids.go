package ast

// ExprID identifies an expression node inside the builder arenas (1-based).
type ExprID uint32

// NoExprID marks the absence of an expression.
const NoExprID ExprID = 0

// IsValid reports whether the ID refers to an allocated expression.
func (id ExprID) IsValid() bool { return id != NoExprID }

// PayloadID addresses the per-kind payload arena entry of an expression.
type PayloadID uint32
