// internal/domain/nonrelational/domain.go
// Package nonrelational implements the generic skeleton spec §4.4 says
// hosts every non-relational abstract domain (Interval, Congruence,
// Nullity, Uninitialized, Discrete points-to): a persistent map from
// variable to its own bounded lattice value, where a variable absent from
// the map is implicitly ⊤ and a dedicated flag encodes the whole state
// being ⊥.
package nonrelational

import (
	"ikos/internal/patricia"
	"ikos/internal/varid"
)

// Lattice is the per-variable value algebra a non-relational domain lifts.
// Interval[T], Congruence[T], Nullity and Uninitialized all implement it.
type Lattice[V any] interface {
	IsBottom() bool
	Leq(other V) bool
	Join(other V) V
	Meet(other V) V
	Widen(other V) V
	Narrow(other V) V
	String() string
}

// Domain is Var -> V, V a bounded lattice, lifted the generic way.
type Domain[V Lattice[V]] struct {
	bottom bool
	top    V // sentinel returned for a variable absent from the map (⊤)
	values patricia.Tree[V]
}

// Top builds the ⊤ state: no variable is constrained. topValue is the V
// value Get returns for any variable not explicitly tracked.
func Top[V Lattice[V]](topValue V) Domain[V] {
	return Domain[V]{top: topValue, values: patricia.Empty[V]()}
}

// Bottom builds the ⊥ state.
func Bottom[V Lattice[V]](topValue V) Domain[V] {
	return Domain[V]{bottom: true, top: topValue, values: patricia.Empty[V]()}
}

func (d Domain[V]) IsBottom() bool { return d.bottom }
func (d Domain[V]) IsTop() bool    { return !d.bottom && d.values.Len() == 0 }

// Get returns the abstract value tracked for v, or the domain's ⊤
// sentinel if v is unconstrained. Calling Get while IsBottom is true is
// meaningless (every variable is conceptually ⊥) but returns the
// sentinel rather than panicking.
func (d Domain[V]) Get(v varid.Var) V {
	if val, ok := d.values.Lookup(v.Index()); ok {
		return val
	}
	return d.top
}

// Set assigns val to v; setting to a value equivalent to ⊤ removes the
// variable from the map so the representation stays sparse (IsTop() on
// an empty map only works if ⊤ variables are never stored).
func (d Domain[V]) Set(v varid.Var, val V) Domain[V] {
	if d.bottom {
		return d
	}
	if val.IsBottom() {
		return Bottom[V](d.top)
	}
	cp := d
	if val.Leq(d.top) && d.top.Leq(val) {
		cp.values = d.values.Remove(v.Index())
	} else {
		cp.values = d.values.Insert(v.Index(), val)
	}
	return cp
}

// Forget removes any tracked fact about v (v becomes ⊤).
func (d Domain[V]) Forget(v varid.Var) Domain[V] {
	if d.bottom {
		return d
	}
	cp := d
	cp.values = d.values.Remove(v.Index())
	return cp
}

// Leq is pointwise on the intersection of keys; a variable absent from
// either side is ⊤, and anything is <= ⊤.
func (d Domain[V]) Leq(o Domain[V]) bool {
	if d.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	ok := true
	d.values.ForEach(func(k int, v V) bool {
		if ov, found := o.values.Lookup(k); found {
			if !v.Leq(ov) {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

func (d Domain[V]) Equal(o Domain[V]) bool { return d.Leq(o) && o.Leq(d) }

// Join keeps only variables present on both sides (absent = ⊤, and
// joining with ⊤ gives ⊤, i.e. "absent").
func (d Domain[V]) Join(o Domain[V]) Domain[V] {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	merged := d.values.Merge(o.values, patricia.MergeOps[V]{
		Combine: func(_ int, l, r V) (V, bool) { return l.Join(r), true },
	})
	return Domain[V]{top: d.top, values: merged}
}

// Widen mirrors Join's key-intersection policy but applies V.Widen.
func (d Domain[V]) Widen(o Domain[V]) Domain[V] {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	merged := d.values.Merge(o.values, patricia.MergeOps[V]{
		Combine: func(_ int, l, r V) (V, bool) { return l.Widen(r), true },
	})
	return Domain[V]{top: d.top, values: merged}
}

// Meet unions the keys (a variable present on only one side keeps its
// existing constraint) and detects any resulting ⊥.
func (d Domain[V]) Meet(o Domain[V]) Domain[V] {
	if d.bottom || o.bottom {
		return Bottom[V](d.top)
	}
	merged := d.values.Merge(o.values, patricia.MergeOps[V]{
		Combine:   func(_ int, l, r V) (V, bool) { return l.Meet(r), true },
		LeftOnly:  func(_ int, l V) (V, bool) { return l, true },
		RightOnly: func(_ int, r V) (V, bool) { return r, true },
	})
	res := Domain[V]{top: d.top, values: merged}
	if res.hasBottomEntry() {
		return Bottom[V](d.top)
	}
	return res
}

// Narrow is Meet's key-union policy but applies V.Narrow on shared keys.
func (d Domain[V]) Narrow(o Domain[V]) Domain[V] {
	if d.bottom || o.bottom {
		return Bottom[V](d.top)
	}
	merged := d.values.Merge(o.values, patricia.MergeOps[V]{
		Combine:   func(_ int, l, r V) (V, bool) { return l.Narrow(r), true },
		LeftOnly:  func(_ int, l V) (V, bool) { return l, true },
		RightOnly: func(_ int, r V) (V, bool) { return r, true },
	})
	res := Domain[V]{top: d.top, values: merged}
	if res.hasBottomEntry() {
		return Bottom[V](d.top)
	}
	return res
}

func (d Domain[V]) hasBottomEntry() bool {
	bot := false
	d.values.ForEach(func(_ int, v V) bool {
		if v.IsBottom() {
			bot = true
			return false
		}
		return true
	})
	return bot
}

func (d Domain[V]) String() string {
	if d.bottom {
		return "_|_"
	}
	if d.IsTop() {
		return "T"
	}
	out := "{"
	first := true
	d.values.ForEach(func(_ int, v V) bool {
		if !first {
			out += ", "
		}
		first = false
		out += v.String()
		return true
	})
	return out + "}"
}
