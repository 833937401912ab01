// internal/domain/intervalcongruence/intervalcongruence.go
// Package intervalcongruence implements the reduced product of Interval and
// Congruence from spec §4.4: the two are kept mutually consistent after
// every operation by alternately tightening the interval's bounds to the
// nearest point satisfying the congruence, and tightening the congruence's
// residue to the interval's singleton value when the interval collapses to
// one point. Grounded on original_source/include/ikos/core/domain/numeric/
// gauge.hpp, which performs exactly this reduction between its Interval and
// Congruence members on every join/meet/widen/narrow.
package intervalcongruence

import (
	"ikos/internal/domain/congruence"
	"ikos/internal/domain/interval"
	"ikos/internal/number"
)

// IntervalCongruence pairs an Interval[number.Z] with a Congruence[number.Z]
// and keeps them reduced. Restricted to Z (rather than generic T) because
// the reduction step needs exact floor/ceil division and modular residues,
// which only Z provides without rounding-mode ambiguity.
type IntervalCongruence struct {
	bottom bool
	i      interval.Interval[number.Z]
	c      congruence.Congruence[number.Z]
}

func Top() IntervalCongruence {
	return IntervalCongruence{
		i: interval.Top[number.Z](),
		c: congruence.Top[number.Z](number.NewZ(0), number.NewZ(1)),
	}
}

func Bottom() IntervalCongruence { return IntervalCongruence{bottom: true} }

// Of builds a reduced pair from an interval and a congruence, applying the
// reduction immediately.
func Of(i interval.Interval[number.Z], c congruence.Congruence[number.Z]) IntervalCongruence {
	return reduce(IntervalCongruence{i: i, c: c})
}

func Singleton(v number.Z) IntervalCongruence {
	return IntervalCongruence{i: interval.Singleton(v), c: congruence.Singleton(v)}
}

// reduce tightens i's bounds to the nearest values satisfying c, and
// tightens c to a singleton when i is already a singleton. If either
// component detects emptiness the whole pair collapses to bottom.
func reduce(v IntervalCongruence) IntervalCongruence {
	if v.bottom || v.i.IsBottom() || v.c.IsBottom() {
		return Bottom()
	}
	if v.i.IsSingleton() {
		sv := v.i.SingletonValue()
		if !v.c.Contains(sv) {
			return Bottom()
		}
		return IntervalCongruence{i: v.i, c: congruence.Singleton(sv)}
	}
	if v.c.IsSingleton() {
		sv := v.c.B()
		if v.i.Contains(sv) {
			return IntervalCongruence{i: interval.Singleton(sv), c: v.c}
		}
	}
	if v.c.A().IsZero() {
		// non-singleton interval, singleton congruence outside range: empty.
		return Bottom()
	}
	lb, lbFinite := tightenLower(v.i, v.c)
	ub, ubFinite := tightenUpper(v.i, v.c)
	if lbFinite && ubFinite && lb.Cmp(ub) > 0 {
		return Bottom()
	}
	newI := v.i
	if lbFinite {
		newI = interval.Of(number.Finite(lb), v.i.UB())
	}
	if ubFinite {
		newI = interval.Of(newI.LB(), number.Finite(ub))
	}
	return IntervalCongruence{i: newI, c: v.c}
}

// tightenLower advances i's lower bound to the nearest point >= lb that
// satisfies x === b (mod a); reports false when the bound is infinite.
func tightenLower(i interval.Interval[number.Z], c congruence.Congruence[number.Z]) (number.Z, bool) {
	if !i.LB().IsFinite() {
		return number.Z{}, false
	}
	lb := i.LB().FiniteValue()
	r, _ := lb.Sub(c.B()).Mod(c.A())
	if r.IsZero() {
		return lb, true
	}
	return lb.Add(c.A()).Sub(r), true
}

func tightenUpper(i interval.Interval[number.Z], c congruence.Congruence[number.Z]) (number.Z, bool) {
	if !i.UB().IsFinite() {
		return number.Z{}, false
	}
	ub := i.UB().FiniteValue()
	r, _ := ub.Sub(c.B()).Mod(c.A())
	if r.IsZero() {
		return ub, true
	}
	return ub.Sub(r), true
}

func (v IntervalCongruence) IsBottom() bool { return v.bottom || v.i.IsBottom() || v.c.IsBottom() }

func (v IntervalCongruence) Interval() interval.Interval[number.Z]     { return v.i }
func (v IntervalCongruence) Congruence() congruence.Congruence[number.Z] { return v.c }

func (v IntervalCongruence) String() string {
	if v.IsBottom() {
		return "_|_"
	}
	return v.i.String() + " & " + v.c.String()
}

func (v IntervalCongruence) Leq(o IntervalCongruence) bool {
	if v.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	return v.i.Leq(o.i) && v.c.Leq(o.c)
}

func (v IntervalCongruence) Equal(o IntervalCongruence) bool { return v.Leq(o) && o.Leq(v) }

func (v IntervalCongruence) Join(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return v
	}
	return Of(v.i.Join(o.i), v.c.Join(o.c))
}

func (v IntervalCongruence) Meet(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return Of(v.i.Meet(o.i), v.c.Meet(o.c))
}

func (v IntervalCongruence) Widen(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return v
	}
	return Of(v.i.Widen(o.i), v.c.Widen(o.c))
}

func (v IntervalCongruence) Narrow(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return Of(v.i.Narrow(o.i), v.c.Narrow(o.c))
}

func (v IntervalCongruence) Add(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return Of(v.i.Add(o.i), v.c.Add(o.c))
}

func (v IntervalCongruence) Sub(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return Of(v.i.Sub(o.i), v.c.Sub(o.c))
}

func (v IntervalCongruence) Neg() IntervalCongruence {
	if v.IsBottom() {
		return v
	}
	return Of(v.i.Neg(), v.c.Neg())
}

func (v IntervalCongruence) Mul(o IntervalCongruence) IntervalCongruence {
	if v.IsBottom() || o.IsBottom() {
		return Bottom()
	}
	return Of(v.i.Mul(o.i), v.c.Mul(o.c))
}
