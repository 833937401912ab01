// internal/domain/interval/interval.go
// Package interval implements the dense interval abstraction of spec
// §3.4/§4.4: [lb, ub] with extended bounds, ⊥ encoded separately from any
// finite range. Grounded on the interval half of
// original_source/include/ikos/core/domain/numeric/gauge.hpp's
// neighboring reduction logic (the source keeps Interval and Congruence
// side by side and reduces between them the same way this module's
// intervalcongruence package does).
package interval

import "ikos/internal/number"

// Interval is T's value abstraction: [lb, ub] or ⊥.
type Interval[T number.Value[T]] struct {
	bottom bool
	lb, ub number.Bound[T]
}

// Top is (-∞, +∞).
func Top[T number.Value[T]]() Interval[T] {
	return Interval[T]{lb: number.MinusInfinity[T](), ub: number.PlusInfinity[T]()}
}

// Bottom is the empty interval.
func Bottom[T number.Value[T]]() Interval[T] { return Interval[T]{bottom: true} }

// Of builds [lb, ub], collapsing to ⊥ if lb > ub.
func Of[T number.Value[T]](lb, ub number.Bound[T]) Interval[T] {
	if lb.Gt(ub) {
		return Bottom[T]()
	}
	return Interval[T]{lb: lb, ub: ub}
}

// Singleton builds the one-point interval [v, v].
func Singleton[T number.Value[T]](v T) Interval[T] {
	return Interval[T]{lb: number.Finite(v), ub: number.Finite(v)}
}

// AtLeast builds [v, +∞).
func AtLeast[T number.Value[T]](v T) Interval[T] {
	return Interval[T]{lb: number.Finite(v), ub: number.PlusInfinity[T]()}
}

// AtMost builds (-∞, v].
func AtMost[T number.Value[T]](v T) Interval[T] {
	return Interval[T]{lb: number.MinusInfinity[T](), ub: number.Finite(v)}
}

func (i Interval[T]) IsBottom() bool { return i.bottom }
func (i Interval[T]) IsTop() bool {
	return !i.bottom && i.lb.IsMinusInfinity() && i.ub.IsPlusInfinity()
}

// LB/UB return the bounds; only meaningful when !IsBottom().
func (i Interval[T]) LB() number.Bound[T] { return i.lb }
func (i Interval[T]) UB() number.Bound[T] { return i.ub }

// IsSingleton reports whether the interval is exactly one point.
func (i Interval[T]) IsSingleton() bool {
	return !i.bottom && i.lb.IsFinite() && i.ub.IsFinite() && i.lb.FiniteValue().Cmp(i.ub.FiniteValue()) == 0
}

// Singleton value; only meaningful when IsSingleton() is true.
func (i Interval[T]) SingletonValue() T { return i.lb.FiniteValue() }

// Contains reports whether v lies within [lb, ub].
func (i Interval[T]) Contains(v T) bool {
	if i.bottom {
		return false
	}
	return i.lb.Le(number.Finite(v)) && number.Finite(v).Le(i.ub)
}

func (i Interval[T]) String() string {
	if i.bottom {
		return "_|_"
	}
	return "[" + i.lb.String() + ", " + i.ub.String() + "]"
}

func (i Interval[T]) Leq(o Interval[T]) bool {
	if i.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	return o.lb.Le(i.lb) && i.ub.Le(o.ub)
}

func (i Interval[T]) Equal(o Interval[T]) bool { return i.Leq(o) && o.Leq(i) }

func (i Interval[T]) Join(o Interval[T]) Interval[T] {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	return Interval[T]{lb: i.lb.Min(o.lb), ub: i.ub.Max(o.ub)}
}

func (i Interval[T]) Meet(o Interval[T]) Interval[T] {
	if i.bottom || o.bottom {
		return Bottom[T]()
	}
	return Of(i.lb.Max(o.lb), i.ub.Min(o.ub))
}

// Widen applies the classic interval widening: a bound that moved keeps
// moving to infinity; a bound that held steady is kept as-is.
func (i Interval[T]) Widen(o Interval[T]) Interval[T] {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	lb := i.lb
	if o.lb.Lt(i.lb) {
		lb = number.MinusInfinity[T]()
	}
	ub := i.ub
	if o.ub.Gt(i.ub) {
		ub = number.PlusInfinity[T]()
	}
	return Interval[T]{lb: lb, ub: ub}
}

// WidenThreshold is like Widen but jumps to the nearest threshold at or
// beyond the moved bound instead of straight to infinity, when one
// exists in thresholds (spec §4.5.1 names a DBM analogue; the same idea
// applies here per the CLI's -widening-strategy knobs, spec §6.1).
func (i Interval[T]) WidenThreshold(o Interval[T], thresholds []number.Bound[T]) Interval[T] {
	if i.bottom {
		return o
	}
	if o.bottom {
		return i
	}
	lb := i.lb
	if o.lb.Lt(i.lb) {
		lb = nearestThresholdBelow(o.lb, thresholds)
	}
	ub := i.ub
	if o.ub.Gt(i.ub) {
		ub = nearestThresholdAbove(o.ub, thresholds)
	}
	return Interval[T]{lb: lb, ub: ub}
}

func nearestThresholdBelow[T number.Value[T]](v number.Bound[T], thresholds []number.Bound[T]) number.Bound[T] {
	best := number.MinusInfinity[T]()
	for _, th := range thresholds {
		if th.Le(v) && th.Gt(best) {
			best = th
		}
	}
	return best
}

func nearestThresholdAbove[T number.Value[T]](v number.Bound[T], thresholds []number.Bound[T]) number.Bound[T] {
	best := number.PlusInfinity[T]()
	for _, th := range thresholds {
		if th.Ge(v) && th.Lt(best) {
			best = th
		}
	}
	return best
}

// Narrow tightens any infinite bound down to the other operand's bound.
func (i Interval[T]) Narrow(o Interval[T]) Interval[T] {
	if i.bottom || o.bottom {
		return Bottom[T]()
	}
	lb := i.lb
	if i.lb.IsMinusInfinity() {
		lb = o.lb
	}
	ub := i.ub
	if i.ub.IsPlusInfinity() {
		ub = o.ub
	}
	return Of(lb, ub)
}

func (i Interval[T]) Add(o Interval[T]) Interval[T] {
	if i.bottom || o.bottom {
		return Bottom[T]()
	}
	lb, err1 := i.lb.Add(o.lb)
	ub, err2 := i.ub.Add(o.ub)
	if err1 != nil || err2 != nil {
		return Top[T]()
	}
	return Of(lb, ub)
}

func (i Interval[T]) Sub(o Interval[T]) Interval[T] {
	if i.bottom || o.bottom {
		return Bottom[T]()
	}
	lb, err1 := i.lb.Sub(o.ub)
	ub, err2 := i.ub.Sub(o.lb)
	if err1 != nil || err2 != nil {
		return Top[T]()
	}
	return Of(lb, ub)
}

func (i Interval[T]) Neg() Interval[T] {
	if i.bottom {
		return i
	}
	return Interval[T]{lb: i.ub.Neg(), ub: i.lb.Neg()}
}

// Mul computes the interval product by evaluating all four corner
// products and taking their min/max, the standard sound rule.
func (i Interval[T]) Mul(o Interval[T]) Interval[T] {
	if i.bottom || o.bottom {
		return Bottom[T]()
	}
	corners := []number.Bound[T]{
		i.lb.Mul(o.lb), i.lb.Mul(o.ub), i.ub.Mul(o.lb), i.ub.Mul(o.ub),
	}
	lb, ub := corners[0], corners[0]
	for _, c := range corners[1:] {
		lb = lb.Min(c)
		ub = ub.Max(c)
	}
	return Of(lb, ub)
}

// Scale multiplies by a constant c, exact (no rounding).
func (i Interval[T]) Scale(c T) Interval[T] {
	return i.Mul(Singleton(c))
}
