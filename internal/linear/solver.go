// internal/linear/solver.go
package linear

import "ikos/internal/number"

// MaxReductionCycles caps LinearIntervalSolver iterations so it always
// terminates on non-relational domains (spec §4.2).
const MaxReductionCycles = 10

// Rounding is the extra algebra LinearIntervalSolver needs beyond Coeff:
// a rounding division, since isolating xj from cⱼ·xⱼ <= B requires
// dividing by cⱼ and T (Z) is not a field.
type Rounding[T any] interface {
	Coeff[T]
	DivFloor(T) (T, error)
	DivCeil(T) (T, error)
}

// Box is the minimal interval store the solver refines: get/set the
// current [lb, ub] for a variable, addressed by its dense index. dbm.DBM
// implements this through its box adapter (internal/domain/dbm/solve.go).
type Box[T Coeff[T]] interface {
	Get(varIndex int) (lb, ub number.Bound[T])
	Set(varIndex int, lb, ub number.Bound[T])
	IsBottom() bool
	SetBottom()
}

// Solve performs box-refinement of box against every constraint in sys:
// for each `Σ cᵢ·xᵢ + c₀ <= 0`, isolate each mentioned variable xⱼ and
// tighten its interval using the other variables' current bounds. Runs to
// a fixpoint or MaxReductionCycles, whichever comes first.
func Solve[T Rounding[T]](sys System[T], box Box[T]) {
	for iter := 0; iter < MaxReductionCycles; iter++ {
		changed := false
		for _, c := range expandToLE(sys) {
			if box.IsBottom() {
				return
			}
			if refineOne(c, box) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// expandToLE rewrites EQ as two LE constraints (expr<=0 and -expr<=0); NE
// constraints carry no interval information for a box and are skipped.
func expandToLE[T Rounding[T]](sys System[T]) []Constraint[T] {
	var out []Constraint[T]
	for _, c := range sys.Constraints() {
		switch c.Kind {
		case LE:
			out = append(out, c)
		case EQ:
			out = append(out, NewLE(c.Expr), NewLE(c.Expr.Negate()))
		case NE:
			// no sound interval refinement from a disequality alone.
		}
	}
	return out
}

// refineOne isolates every variable mentioned by c and tightens its bound
// in box; returns whether anything changed.
func refineOne[T Rounding[T]](c Constraint[T], box Box[T]) bool {
	changed := false
	terms := c.Expr.Terms()
	for _, tj := range terms {
		// Σ_{i != j} cᵢ·xᵢ + c₀ bound, evaluated conservatively from the
		// current box.
		rest := evalOthers(c.Expr, tj.Var.Index(), box)
		// cⱼ·xⱼ <= -rest
		negRest := rest.Neg()
		zero := zeroOfT(tj.Coeff)
		switch tj.Coeff.Cmp(zero) {
		case 1: // cⱼ > 0: xⱼ <= negRest / cⱼ (floor-biased since LE is over T)
			bound, err := divBound(negRest, tj.Coeff, true)
			if err != nil {
				continue
			}
			if tightenUpper(box, tj.Var.Index(), bound) {
				changed = true
			}
		case -1: // cⱼ < 0: xⱼ >= negRest / cⱼ (dividing by negative flips)
			bound, err := divBound(negRest, tj.Coeff, false)
			if err != nil {
				continue
			}
			if tightenLower(box, tj.Var.Index(), bound) {
				changed = true
			}
		}
	}
	return changed
}

func zeroOfT[T Coeff[T]](sample T) T { return sample.Sub(sample) }

// evalOthers conservatively bounds Σ_{i != skip} cᵢ·xᵢ + c₀ from below as
// a single Bound (lb for a positive coefficient, ub for a negative one),
// so cⱼ·xⱼ <= -rest holds at every point of the box.
func evalOthers[T Rounding[T]](e Expr[T], skip int, box Box[T]) number.Bound[T] {
	acc := number.Finite(e.Constant())
	for _, t := range e.Terms() {
		if t.Var.Index() == skip {
			continue
		}
		lb, ub := box.Get(t.Var.Index())
		zero := zeroOfT(t.Coeff)
		var contrib number.Bound[T]
		if t.Coeff.Cmp(zero) >= 0 {
			contrib = mulBound(lb, t.Coeff)
		} else {
			contrib = mulBound(ub, t.Coeff)
		}
		sum, err := acc.Add(contrib)
		if err != nil {
			// +oo + -oo: the term contributes no sound information.
			continue
		}
		acc = sum
	}
	return acc
}

func mulBound[T Rounding[T]](b number.Bound[T], c T) number.Bound[T] {
	return b.Mul(number.Finite(c))
}

// divBound divides a Bound by a nonzero finite coefficient, rounding so
// the result remains a sound (conservative) bound for an LE constraint:
// floor selects floor (safe for an upper bound) vs ceil (safe for a
// lower bound, after accounting for sign flips done by the caller).
func divBound[T Rounding[T]](b number.Bound[T], c T, floor bool) (number.Bound[T], error) {
	if !b.IsFinite() {
		if c.Cmp(zeroOfT(c)) < 0 {
			return b.Neg(), nil
		}
		return b, nil
	}
	var q T
	var err error
	if floor {
		q, err = b.FiniteValue().DivFloor(c)
	} else {
		q, err = b.FiniteValue().DivCeil(c)
	}
	if err != nil {
		return number.Bound[T]{}, err
	}
	return number.Finite(q), nil
}

func tightenUpper[T Coeff[T]](box Box[T], idx int, bound number.Bound[T]) bool {
	lb, ub := box.Get(idx)
	if bound.Lt(ub) {
		box.Set(idx, lb, bound)
		if lb.Gt(bound) {
			box.SetBottom()
		}
		return true
	}
	return false
}

func tightenLower[T Coeff[T]](box Box[T], idx int, bound number.Bound[T]) bool {
	lb, ub := box.Get(idx)
	if bound.Gt(lb) {
		box.Set(idx, bound, ub)
		if bound.Gt(ub) {
			box.SetBottom()
		}
		return true
	}
	return false
}
