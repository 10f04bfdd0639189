package ast

// Hints provides optional capacity suggestions for the expression arenas.
type Hints struct{ Exprs uint }

// Builder bundles the arenas one annotation batch allocates from.
type Builder struct {
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
	}
}
