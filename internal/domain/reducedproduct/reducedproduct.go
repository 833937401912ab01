// internal/domain/reducedproduct/reducedproduct.go
// Package reducedproduct implements a relational counterpart to
// internal/domain/intervalcongruence: a DBM difference-bound matrix
// (spec §4.5's relational domain, exact between pairs of variables)
// paired with a per-variable congruence, each reduced against the
// other. Grounded on
// original_source/core/test/unit/domain/numeric/var_packing_dbm_congruence.cpp
// and the VarPackingDBMCongruence forward declaration in
// var_packing_domain.hpp, which compose a relational numeric domain with
// congruence information per variable class the same way.
//
// Congruence itself is non-relational (it constrains one variable's
// residue class, not a relationship between two), so unlike DBM it is
// kept as a plain per-variable map rather than folded into the matrix;
// Reduce is what ties the two together, the same interval/congruence
// cross-tightening internal/domain/intervalcongruence performs for the
// non-relational case, applied here per tracked variable against its DBM
// interval.
package reducedproduct

import (
	"strings"

	"ikos/internal/domain/congruence"
	"ikos/internal/domain/dbm"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// Integral is the numeric algebra both components need, plus One, the
// unit step nextSatisfying walks by.
type Integral[T any] interface {
	dbm.Rounding[T]
	congruence.Integral[T]
	One() T
}

// ReducedProduct pairs a DBM with a per-variable congruence map.
type ReducedProduct[T Integral[T]] struct {
	bottom bool
	dbm    dbm.DBM[T]
	cong   map[int]congruence.Congruence[T]
	names  map[int]varid.Var
	zero   T
	one    T
}

// Top builds the unconstrained product; zero and one seed Bound/Congruence
// literals the way they do throughout internal/domain/dbm and congruence.
func Top[T Integral[T]](zero, one T) ReducedProduct[T] {
	return ReducedProduct[T]{
		dbm:   dbm.Top[T](zero),
		cong:  map[int]congruence.Congruence[T]{},
		names: map[int]varid.Var{},
		zero:  zero,
		one:   one,
	}
}

func Bottom[T Integral[T]](zero, one T) ReducedProduct[T] {
	return ReducedProduct[T]{bottom: true, dbm: dbm.Bottom[T](zero), zero: zero, one: one}
}

func (r ReducedProduct[T]) IsBottom() bool {
	if r.bottom || r.dbm.IsBottom() {
		return true
	}
	for _, c := range r.cong {
		if c.IsBottom() {
			return true
		}
	}
	return false
}

func (r ReducedProduct[T]) DBM() dbm.DBM[T] { return r.dbm }

func (r ReducedProduct[T]) Congruence(v varid.Var) congruence.Congruence[T] {
	if c, ok := r.cong[v.Index()]; ok {
		return c
	}
	return congruence.Top[T](r.zero, r.one)
}

func (r ReducedProduct[T]) clone() ReducedProduct[T] {
	cp := r
	cp.cong = make(map[int]congruence.Congruence[T], len(r.cong))
	for k, v := range r.cong {
		cp.cong[k] = v
	}
	cp.names = make(map[int]varid.Var, len(r.names))
	for k, v := range r.names {
		cp.names[k] = v
	}
	return cp
}

// SetInterval narrows v's DBM bounds, the relational component.
func (r ReducedProduct[T]) SetInterval(v varid.Var, lb, ub number.Bound[T]) ReducedProduct[T] {
	cp := r.clone()
	cp.dbm = cp.dbm.SetInterval(v, lb, ub)
	cp.names[v.Index()] = v
	return cp
}

// SetDiff narrows the relationship between x and y: x - y <= k.
func (r ReducedProduct[T]) SetDiff(x, y varid.Var, k number.Bound[T]) ReducedProduct[T] {
	cp := r.clone()
	cp.dbm = cp.dbm.SetDiff(x, y, k)
	cp.names[x.Index()] = x
	cp.names[y.Index()] = y
	return cp
}

// SetCongruence narrows v's residue class.
func (r ReducedProduct[T]) SetCongruence(v varid.Var, c congruence.Congruence[T]) ReducedProduct[T] {
	cp := r.clone()
	cp.cong[v.Index()] = c
	cp.names[v.Index()] = v
	return cp
}

// Reduce tightens each tracked variable's DBM interval against its
// congruence and vice versa, the cross-domain step
// internal/domain/intervalcongruence performs between a single pair.
func (r ReducedProduct[T]) Reduce() ReducedProduct[T] {
	if r.IsBottom() {
		return r
	}
	cp := r.clone()
	d := cp.dbm.Normalize()
	for idx, v := range cp.names {
		c, ok := cp.cong[idx]
		if !ok || c.IsTop() {
			continue
		}
		lb, ub := d.Get(v)
		newLB, newUB := lb, ub
		if lb.IsFinite() && !c.Contains(lb.FiniteValue()) {
			if nv, ok := nextSatisfying(c, lb.FiniteValue(), true, ub); ok {
				newLB = number.Finite(nv)
			} else {
				cp.bottom = true
				return cp
			}
		}
		if ub.IsFinite() && !c.Contains(ub.FiniteValue()) {
			if nv, ok := nextSatisfying(c, ub.FiniteValue(), false, lb); ok {
				newUB = number.Finite(nv)
			} else {
				cp.bottom = true
				return cp
			}
		}
		if newLB.Cmp(newUB) > 0 {
			cp.bottom = true
			return cp
		}
		d = d.SetInterval(v, newLB, newUB)
	}
	cp.dbm = d
	return cp
}

// nextSatisfying walks from v towards (up if up, down otherwise) the
// nearest point c contains, stopping (and failing) once it crosses limit
// -- the interval's other endpoint -- since no point beyond it can still
// lie in the original range.
func nextSatisfying[T Integral[T]](c congruence.Congruence[T], v T, up bool, limit number.Bound[T]) (T, bool) {
	if c.IsSingleton() {
		if limit.IsInfinite() || (up && limit.FiniteValue().Cmp(c.B()) >= 0) || (!up && limit.FiniteValue().Cmp(c.B()) <= 0) {
			return c.B(), true
		}
		var zero T
		return zero, false
	}
	step := v.One()
	if !up {
		step = step.Neg()
	}
	cur := v
	for {
		cur = cur.Add(step)
		if limit.IsFinite() {
			if up && cur.Cmp(limit.FiniteValue()) > 0 {
				break
			}
			if !up && cur.Cmp(limit.FiniteValue()) < 0 {
				break
			}
		}
		if c.Contains(cur) {
			return cur, true
		}
	}
	var zero T
	return zero, false
}

func (r ReducedProduct[T]) Leq(o ReducedProduct[T]) bool {
	if r.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	if !r.dbm.Leq(o.dbm) {
		return false
	}
	for idx, oc := range o.cong {
		if !r.Congruence(r.names[idx]).Leq(oc) {
			return false
		}
	}
	return true
}

func (r ReducedProduct[T]) Equal(o ReducedProduct[T]) bool { return r.Leq(o) && o.Leq(r) }

func (r ReducedProduct[T]) Join(o ReducedProduct[T]) ReducedProduct[T] {
	if r.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return r
	}
	return combine(r, o, func(a, b congruence.Congruence[T]) congruence.Congruence[T] { return a.Join(b) },
		func(a, b dbm.DBM[T]) dbm.DBM[T] { return a.Join(b) })
}

func (r ReducedProduct[T]) Meet(o ReducedProduct[T]) ReducedProduct[T] {
	if r.IsBottom() || o.IsBottom() {
		return Bottom[T](r.zero, r.one)
	}
	return combine(r, o, func(a, b congruence.Congruence[T]) congruence.Congruence[T] { return a.Meet(b) },
		func(a, b dbm.DBM[T]) dbm.DBM[T] { return a.Meet(b) }).Reduce()
}

func (r ReducedProduct[T]) Widen(o ReducedProduct[T]) ReducedProduct[T] {
	if r.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return r
	}
	return combine(r, o, func(a, b congruence.Congruence[T]) congruence.Congruence[T] { return a.Widen(b) },
		func(a, b dbm.DBM[T]) dbm.DBM[T] { return a.Widen(b) })
}

func (r ReducedProduct[T]) Narrow(o ReducedProduct[T]) ReducedProduct[T] {
	if r.IsBottom() || o.IsBottom() {
		return Bottom[T](r.zero, r.one)
	}
	return combine(r, o, func(a, b congruence.Congruence[T]) congruence.Congruence[T] { return a.Narrow(b) },
		func(a, b dbm.DBM[T]) dbm.DBM[T] { return a.Narrow(b) })
}

func combine[T Integral[T]](r, o ReducedProduct[T],
	congOp func(a, b congruence.Congruence[T]) congruence.Congruence[T],
	dbmOp func(a, b dbm.DBM[T]) dbm.DBM[T]) ReducedProduct[T] {
	cp := ReducedProduct[T]{
		dbm:   dbmOp(r.dbm, o.dbm),
		cong:  map[int]congruence.Congruence[T]{},
		names: map[int]varid.Var{},
		zero:  r.zero,
		one:   r.one,
	}
	for idx, v := range r.names {
		cp.names[idx] = v
	}
	for idx, v := range o.names {
		cp.names[idx] = v
	}
	for idx := range cp.names {
		cp.cong[idx] = congOp(r.Congruence(cp.names[idx]), o.Congruence(cp.names[idx]))
	}
	return cp
}

func (r ReducedProduct[T]) String() string {
	if r.IsBottom() {
		return "_|_"
	}
	var b strings.Builder
	b.WriteString(r.dbm.String())
	b.WriteString(" /\\ {")
	first := true
	for idx, v := range r.names {
		c, ok := r.cong[idx]
		if !ok || c.IsTop() {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(v.String())
		b.WriteString(" in ")
		b.WriteString(c.String())
	}
	b.WriteString("}")
	return b.String()
}
