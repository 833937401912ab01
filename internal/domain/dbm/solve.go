// internal/domain/dbm/solve.go
// AddConstraint routes a linear constraint into the DBM: a difference-form
// constraint (x - y <= k, or a single variable <= k) tightens a matrix cell
// directly; anything else falls back to internal/linear.Solve, the same
// LinearIntervalSolver embedding the source uses for constraints the
// matrix itself cannot represent exactly.
package dbm

import (
	"ikos/internal/linear"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// unitRounding is the algebra AddConstraint needs beyond Rounding[T]: a
// literal multiplicative identity to recognize x - y <= k's unit
// coefficients.
type unitRounding[T any] interface {
	Rounding[T]
	One() T
}

// box adapts a DBM to linear.Box. linear.Solve addresses variables by their
// own dense Var.Index(), not by a position in some local slice, so the
// adapter keeps a map from that index back to the Var.
type box[T Rounding[T]] struct {
	d     *DBM[T]
	byIdx map[int]varid.Var
}

func (b *box[T]) Get(varIndex int) (lb, ub number.Bound[T]) {
	return b.d.Get(b.byIdx[varIndex])
}

func (b *box[T]) Set(varIndex int, lb, ub number.Bound[T]) {
	*b.d = b.d.SetInterval(b.byIdx[varIndex], lb, ub)
}

func (b *box[T]) IsBottom() bool { return b.d.IsBottom() }

func (b *box[T]) SetBottom() { *b.d = Bottom[T](b.d.zero) }

// AddConstraint tightens the DBM with c. Difference-form constraints (at
// most two nonzero terms with unit coefficients) are applied exactly;
// anything else is approximated via the interval solver.
func AddConstraint[T unitRounding[T]](d DBM[T], c linear.Constraint[T]) DBM[T] {
	if d.bottom {
		return d
	}
	if dx, dy, k, ok := asDifference(c); ok {
		if dy == nil {
			return d.SetInterval(dx, number.MinusInfinity[T](), k)
		}
		return d.SetDiff(dx, dy, k)
	}
	return addGeneral(d, c)
}

// asDifference recognizes x - y <= k or x <= k shapes. dy == nil means the
// single-variable form.
func asDifference[T unitRounding[T]](c linear.Constraint[T]) (dx varid.Var, dy varid.Var, k number.Bound[T], ok bool) {
	if c.Kind != linear.LE {
		return nil, nil, number.Bound[T]{}, false
	}
	terms := c.Expr.Terms()
	if len(terms) == 1 {
		if terms[0].Coeff.Cmp(terms[0].Coeff.One()) != 0 {
			return nil, nil, number.Bound[T]{}, false
		}
		return terms[0].Var, nil, number.Finite(c.Expr.Constant().Neg()), true
	}
	if len(terms) != 2 {
		return nil, nil, number.Bound[T]{}, false
	}
	a, b := terms[0], terms[1]
	one := a.Coeff.One()
	negOne := one.Neg()
	if a.Coeff.Cmp(one) == 0 && b.Coeff.Cmp(negOne) == 0 {
		return a.Var, b.Var, number.Finite(c.Expr.Constant().Neg()), true
	}
	if b.Coeff.Cmp(one) == 0 && a.Coeff.Cmp(negOne) == 0 {
		return b.Var, a.Var, number.Finite(c.Expr.Constant().Neg()), true
	}
	return nil, nil, number.Bound[T]{}, false
}

func addGeneral[T Rounding[T]](d DBM[T], c linear.Constraint[T]) DBM[T] {
	sys := linear.NewSystem[T]().Add(c)
	byIdx := make(map[int]varid.Var, c.Expr.NumTerms())
	cp := d
	for _, t := range c.Expr.Terms() {
		byIdx[t.Var.Index()] = t.Var
		cp.ensureVar(t.Var)
	}
	b := &box[T]{d: &cp, byIdx: byIdx}
	linear.Solve(sys, b)
	return cp
}
