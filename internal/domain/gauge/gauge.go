// internal/domain/gauge/gauge.go
// Package gauge implements Venet's gauge domain (spec §4.4's bound-shaped
// relational abstraction for loop counters): a GaugeBound is ±oo or a
// linear expression over non-negative loop-counter variables (e.g.
// `1 + 2*i`), and a Gauge is an interval [lb, ub] of such bounds. Grounded
// on original_source/core/include/ikos/core/value/numeric/gauge.hpp
// (GaugeBound/Gauge).
//
// Structural comparison of two GaugeBounds over different counters (or
// different coefficients on the same counters) is in general undecidable
// without deeper reasoning about the counters' own ranges. Where the
// source resolves this with per-operation special cases, this package
// takes the same simplification the rest of the analyzer takes for
// similarly hard structural-merge problems (see internal/patricia's
// Merge): fall back to the safe, if less precise, extreme -- infinity for
// join (a looser bound is always sound), and one arbitrary operand for
// meet (intersection always implies each side, so keeping either side
// alone over-approximates the intersection soundly).
package gauge

import (
	"ikos/internal/linear"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// GaugeBound is ±oo or a linear expression over counter variables.
type GaugeBound[T linear.Coeff[T]] struct {
	infSign int8 // -1, 0 (finite), +1
	expr    linear.Expr[T]
}

func PlusInfinity[T linear.Coeff[T]]() GaugeBound[T] { return GaugeBound[T]{infSign: 1} }
func MinusInfinity[T linear.Coeff[T]]() GaugeBound[T] { return GaugeBound[T]{infSign: -1} }

// Const builds the constant bound n.
func Const[T linear.Coeff[T]](n T) GaugeBound[T] {
	return GaugeBound[T]{expr: linear.NewConst(n)}
}

// OfVar builds the bound coeff*v.
func OfVar[T linear.Coeff[T]](coeff T, v varid.Var) GaugeBound[T] {
	return GaugeBound[T]{expr: linear.NewVar(v, coeff)}
}

// FromBound lifts a plain numeric Bound[T] into a GaugeBound.
func FromBound[T linear.Coeff[T]](b number.Bound[T]) GaugeBound[T] {
	switch {
	case b.IsPlusInfinity():
		return PlusInfinity[T]()
	case b.IsMinusInfinity():
		return MinusInfinity[T]()
	default:
		return Const(b.FiniteValue())
	}
}

func (g GaugeBound[T]) IsInfinite() bool      { return g.infSign != 0 }
func (g GaugeBound[T]) IsPlusInfinity() bool  { return g.infSign == 1 }
func (g GaugeBound[T]) IsMinusInfinity() bool { return g.infSign == -1 }
func (g GaugeBound[T]) Expr() linear.Expr[T]  { return g.expr }

func (g GaugeBound[T]) String() string {
	switch g.infSign {
	case 1:
		return "+oo"
	case -1:
		return "-oo"
	default:
		return g.expr.String()
	}
}

// structEqual reports exact structural equality: same constant and same
// coefficient on every counter.
func structEqual[T linear.Coeff[T]](a, b linear.Expr[T]) bool {
	if a.Constant().Cmp(b.Constant()) != 0 {
		return false
	}
	at, bt := a.Terms(), b.Terms()
	if len(at) != len(bt) {
		return false
	}
	for i := range at {
		if at[i].Var.Index() != bt[i].Var.Index() || at[i].Coeff.Cmp(bt[i].Coeff) != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two bounds are identical, either both the same
// infinity or structurally identical finite expressions.
func (g GaugeBound[T]) Equal(o GaugeBound[T]) bool {
	if g.infSign != o.infSign {
		return false
	}
	if g.infSign != 0 {
		return true
	}
	return structEqual(g.expr, o.expr)
}

// Add computes g + o when at least one is infinite (the infinite side
// dominates) or both are finite (structural sum); mixed-sign infinities
// never arise in this analyzer's usage (a gauge's lb stays -oo-biased and
// ub stays +oo-biased independently) so that case just keeps g's sign.
func (g GaugeBound[T]) Add(o GaugeBound[T]) GaugeBound[T] {
	if g.infSign != 0 {
		return g
	}
	if o.infSign != 0 {
		return o
	}
	return GaugeBound[T]{expr: g.expr.Add(o.expr)}
}

func (g GaugeBound[T]) Neg() GaugeBound[T] {
	if g.infSign != 0 {
		return GaugeBound[T]{infSign: -g.infSign}
	}
	return GaugeBound[T]{expr: g.expr.Negate()}
}

// min returns the structurally-provable minimum of two lower bounds,
// falling back to -oo (the sound loosest choice) when incomparable.
func minBound[T linear.Coeff[T]](a, b GaugeBound[T]) GaugeBound[T] {
	if a.infSign == -1 || b.infSign == -1 {
		return MinusInfinity[T]()
	}
	if a.infSign == 1 {
		return b
	}
	if b.infSign == 1 {
		return a
	}
	if structEqual(a.expr, b.expr) {
		return a
	}
	if a.expr.IsConstant() && b.expr.IsConstant() {
		if a.expr.Constant().Cmp(b.expr.Constant()) <= 0 {
			return a
		}
		return b
	}
	return MinusInfinity[T]()
}

// max is the dual of min for upper bounds.
func maxBound[T linear.Coeff[T]](a, b GaugeBound[T]) GaugeBound[T] {
	if a.infSign == 1 || b.infSign == 1 {
		return PlusInfinity[T]()
	}
	if a.infSign == -1 {
		return b
	}
	if b.infSign == -1 {
		return a
	}
	if structEqual(a.expr, b.expr) {
		return a
	}
	if a.expr.IsConstant() && b.expr.IsConstant() {
		if a.expr.Constant().Cmp(b.expr.Constant()) >= 0 {
			return a
		}
		return b
	}
	return PlusInfinity[T]()
}

// Gauge is [lb, ub] of GaugeBounds, or ⊥.
type Gauge[T linear.Coeff[T]] struct {
	bottom bool
	lb, ub GaugeBound[T]
}

func Top[T linear.Coeff[T]]() Gauge[T] {
	return Gauge[T]{lb: MinusInfinity[T](), ub: PlusInfinity[T]()}
}

func Bottom[T linear.Coeff[T]]() Gauge[T] { return Gauge[T]{bottom: true} }

func Of[T linear.Coeff[T]](lb, ub GaugeBound[T]) Gauge[T] { return Gauge[T]{lb: lb, ub: ub} }

func Singleton[T linear.Coeff[T]](v T) Gauge[T] {
	c := Const(v)
	return Gauge[T]{lb: c, ub: c}
}

func (g Gauge[T]) IsBottom() bool { return g.bottom }
func (g Gauge[T]) LB() GaugeBound[T] { return g.lb }
func (g Gauge[T]) UB() GaugeBound[T] { return g.ub }

func (g Gauge[T]) String() string {
	if g.bottom {
		return "_|_"
	}
	return "[" + g.lb.String() + ", " + g.ub.String() + "]"
}

// Leq is decidable only when both bounds are structurally comparable;
// otherwise this conservatively returns false, which is sound for a
// fixpoint iterator (it just forces another widening round rather than
// risking a false "no change").
func (g Gauge[T]) Leq(o Gauge[T]) bool {
	if g.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	return leqBound(o.lb, g.lb) && leqBound(g.ub, o.ub)
}

// leqBound reports a <= b when decidable (equal, or both constant and
// numerically ordered, or an infinity on the correct side).
func leqBound[T linear.Coeff[T]](a, b GaugeBound[T]) bool {
	if a.Equal(b) {
		return true
	}
	if a.infSign == -1 || b.infSign == 1 {
		return true
	}
	if a.infSign == 0 && b.infSign == 0 && a.expr.IsConstant() && b.expr.IsConstant() {
		return a.expr.Constant().Cmp(b.expr.Constant()) <= 0
	}
	return false
}

func (g Gauge[T]) Equal(o Gauge[T]) bool { return g.Leq(o) && o.Leq(g) }

func (g Gauge[T]) Join(o Gauge[T]) Gauge[T] {
	if g.bottom {
		return o
	}
	if o.bottom {
		return g
	}
	return Gauge[T]{lb: minBound(g.lb, o.lb), ub: maxBound(g.ub, o.ub)}
}

// Widen sends any bound that moved straight to infinity, as Interval does,
// and keeps a bound that is provably stable; an incomparable bound is
// widened too, since stability can't be proven without comparability.
func (g Gauge[T]) Widen(o Gauge[T]) Gauge[T] {
	if g.bottom {
		return o
	}
	if o.bottom {
		return g
	}
	lb := g.lb
	if !leqBound(g.lb, o.lb) {
		lb = MinusInfinity[T]()
	}
	ub := g.ub
	if !leqBound(o.ub, g.ub) {
		ub = PlusInfinity[T]()
	}
	return Gauge[T]{lb: lb, ub: ub}
}

// Meet keeps whichever side's bound is provably tighter, falling back to
// the left operand's bound when the two are structurally incomparable:
// a sound, if imprecise, over-approximation of the true intersection
// (see the package doc).
func (g Gauge[T]) Meet(o Gauge[T]) Gauge[T] {
	if g.bottom || o.bottom {
		return Bottom[T]()
	}
	lb := g.lb
	if leqBound(g.lb, o.lb) {
		lb = o.lb
	}
	ub := g.ub
	if leqBound(o.ub, g.ub) {
		ub = o.ub
	}
	return Gauge[T]{lb: lb, ub: ub}
}

func (g Gauge[T]) Narrow(o Gauge[T]) Gauge[T] {
	if g.bottom || o.bottom {
		return Bottom[T]()
	}
	lb := g.lb
	if lb.IsMinusInfinity() {
		lb = o.lb
	}
	ub := g.ub
	if ub.IsPlusInfinity() {
		ub = o.ub
	}
	return Gauge[T]{lb: lb, ub: ub}
}

// IncrementCounter substitutes counter -> counter + step in both bounds,
// the operation applied when a gauge tracked before a loop back-edge is
// carried across one more iteration. one must be the literal multiplicative
// identity of T (callers hold it already, since they built counter in the
// first place).
func (g Gauge[T]) IncrementCounter(counter varid.Var, step, one T) Gauge[T] {
	if g.bottom {
		return g
	}
	sub := linear.NewVar(counter, one).Add(linear.NewConst(step))
	binding := map[int]linear.Expr[T]{counter.Index(): sub}
	apply := func(b GaugeBound[T]) GaugeBound[T] {
		if b.infSign != 0 {
			return b
		}
		return GaugeBound[T]{expr: b.expr.Substitute(binding)}
	}
	return Gauge[T]{lb: apply(g.lb), ub: apply(g.ub)}
}
