// internal/memory/domain.go
// Domain is spec §4.6's composite memory/scalar abstraction: scalar
// numeric facts, the cell store, points-to sets, and the
// uninitialized/nullity maps, combined behind the write/read/memcpy
// protocol. Grounded on analyzer/include/analyzer/domains/value_domain.hpp
// (the ValueDomain that bundles exactly these sub-states) and
// analyzer/include/analyzer/analysis/pointer.hpp for the points-to shape.
//
// The scalar numeric sub-domain (Scalars, scalars.go) is an interface
// rather than one fixed concrete type, so "-d" can select interval, DBM,
// or gauge as component E without Write/Read's own protocol changing:
// every cell and pointer offset in this package is still addressed as a
// plain int64 (see cell.go), and every Scalars implementation still
// answers in interval.Interval[number.Z] at the Write/Read boundary.
package memory

import (
	"ikos/internal/domain/discrete"
	"ikos/internal/domain/interval"
	"ikos/internal/domain/nonrelational"
	"ikos/internal/domain/nullity"
	"ikos/internal/domain/uninit"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// Domain is the composite value-analysis state for one program point.
type Domain struct {
	bottom bool

	Scalars Scalars
	Store   Store
	Ptr     PointerMap
	Uninit  nonrelational.Domain[uninit.Uninit]
	Null    nonrelational.Domain[nullity.Nullity]

	cellVars CellVars

	// ignored counts operations the write/read protocol soundly dropped
	// instead of modeling precisely (spec's Supplemented Features:
	// value_domain.hpp's ignored_operations counter, surfaced as a
	// Soundness warning per spec §7).
	ignored int
}

// Top builds the fully-unconstrained state over the given variable
// factory (cell ghost variables are allocated from it on demand), with
// Scalars backed by the default interval domain.
func Top(f *varid.Factory) Domain {
	return TopWithScalars(f, ScalarInterval)
}

// TopWithScalars is Top, but with Scalars backed by kind (spec §4.5's
// "-d" tag set) instead of always defaulting to interval.
func TopWithScalars(f *varid.Factory, kind ScalarKind) Domain {
	return Domain{
		Scalars:  topScalarsFor(kind),
		Store:    TopStore(),
		Ptr:      TopPointerMap(),
		Uninit:   nonrelational.Top[uninit.Uninit](uninit.Top()),
		Null:     nonrelational.Top[nullity.Nullity](nullity.Top()),
		cellVars: NewCellVars(f),
	}
}

func Bottom(f *varid.Factory) Domain {
	d := Top(f)
	d.bottom = true
	return d
}

func (d Domain) IsBottom() bool { return d.bottom }

func (d Domain) toBottom() Domain {
	cp := d
	cp.bottom = true
	return cp
}

// Stats reports the running count of operations the write/read protocol
// fell back on a sound-but-imprecise drop for.
func (d Domain) Stats() int { return d.ignored }

func (d Domain) ignore() Domain {
	cp := d
	cp.ignored = d.ignored + 1
	return cp
}

// overlapping returns every cell tracked at base that overlaps probe.
func overlapping(set discrete.Discrete[Cell], probe Cell) []Cell {
	var out []Cell
	if set.IsTop() {
		return nil
	}
	for _, c := range set.Elements() {
		if c.Overlaps(probe) {
			out = append(out, c)
		}
	}
	return out
}

// Write implements spec §4.6's write protocol: offset is the pointer's
// known offset range relative to each base in its points-to set; size is
// the access width; value is the already-evaluated abstract value being
// stored.
func (d Domain) Write(p varid.Var, offset interval.Interval[number.Z], size int64, value interval.Interval[number.Z]) Domain {
	if d.IsBottom() {
		return d
	}
	if d.Null.Get(p).IsNull() {
		return d.toBottom()
	}
	pts := d.Ptr.Get(p)
	if pts.IsTop() {
		return d.ignore()
	}
	if pts.IsBottom() {
		return d.toBottom()
	}
	bases := pts.Elements()
	strong := len(bases) == 1
	if offset.IsSingleton() {
		o, ok := offset.SingletonValue().Int64()
		if !ok {
			return d.ignore()
		}
		cp := d
		for _, base := range bases {
			c := NewCell(base, o, size)
			cells := cp.Store.Get(base)
			for _, old := range overlapping(cells, c) {
				if old != c {
					cp = cp.killCell(base, old)
				}
			}
			ghost := cp.cellVars.Var(c)
			if strong {
				cp.Scalars = cp.Scalars.Set(ghost, value)
			} else {
				cp.Scalars = cp.Scalars.Set(ghost, cp.Scalars.Get(ghost).Join(value))
			}
			cp.Store = cp.Store.Set(base, cp.Store.Get(base).Join(discrete.Of(c)))
		}
		return cp
	}
	lb, ub := offset.LB(), offset.UB()
	if lb.IsInfinite() || ub.IsInfinite() {
		return d.ignore()
	}
	lo, _ := lb.FiniteValue().Int64()
	hi, _ := ub.FiniteValue().Int64()
	cp := d
	for _, base := range bases {
		cells := cp.Store.Get(base)
		probe := NewCell(base, lo, hi-lo+size)
		for _, old := range overlapping(cells, probe) {
			realizable := len(overlapping(cells, probe)) == 1 && old.Offset >= lo && old.Offset+old.Size <= hi+size
			ghost := cp.cellVars.Var(old)
			if realizable {
				cp.Scalars = cp.Scalars.Set(ghost, cp.Scalars.Get(ghost).Join(value))
			} else {
				cp = cp.killCell(base, old)
			}
		}
	}
	return cp
}

func (d Domain) killCell(base MemLoc, c Cell) Domain {
	cp := d
	cp.Store = cp.Store.Set(base, discreteRemove(cp.Store.Get(base), c))
	cp.Scalars = cp.Scalars.Forget(cp.cellVars.Var(c))
	return cp
}

func discreteRemove(set discrete.Discrete[Cell], c Cell) discrete.Discrete[Cell] {
	if set.IsTop() {
		return set
	}
	kept := make([]Cell, 0, set.Len())
	for _, e := range set.Elements() {
		if e != c {
			kept = append(kept, e)
		}
	}
	return discrete.Of(kept...)
}

// Read implements spec §4.6's read protocol, returning the joined
// abstract value of every cell a read through p at offset/size could
// land on.
func (d Domain) Read(p varid.Var, offset interval.Interval[number.Z], size int64) (Domain, interval.Interval[number.Z]) {
	if d.IsBottom() {
		return d, interval.Bottom[number.Z]()
	}
	if d.Null.Get(p).IsNull() {
		return d.toBottom(), interval.Bottom[number.Z]()
	}
	pts := d.Ptr.Get(p)
	if pts.IsTop() || pts.IsBottom() {
		return d.ignore(), interval.Top[number.Z]()
	}
	if !offset.IsSingleton() {
		return d.ignore(), interval.Top[number.Z]()
	}
	o, ok := offset.SingletonValue().Int64()
	if !ok {
		return d.ignore(), interval.Top[number.Z]()
	}
	result := interval.Bottom[number.Z]()
	for _, base := range pts.Elements() {
		c := NewCell(base, o, size)
		for _, old := range overlapping(d.Store.Get(base), c) {
			result = result.Join(d.Scalars.Get(d.cellVars.Var(old)))
		}
	}
	return d, result
}

// forgetRange drops every cell at base overlapping [lo, hi), the shared
// core of Memset/Memcpy/Memmove's "forget every reachable cell in the
// destination range".
func (d Domain) forgetRange(base MemLoc, lo, hi int64) Domain {
	probe := Cell{Base: base, Offset: lo, Size: hi - lo}
	cp := d
	for _, old := range overlapping(cp.Store.Get(base), probe) {
		cp = cp.killCell(base, old)
	}
	return cp
}

// Memset forgets every cell the destination range could touch.
func (d Domain) Memset(p varid.Var, offset interval.Interval[number.Z], size interval.Interval[number.Z]) Domain {
	if d.IsBottom() {
		return d
	}
	pts := d.Ptr.Get(p)
	if pts.IsTop() {
		return d.ignore()
	}
	lb, ub := offset.LB(), offset.UB()
	szUB := size.UB()
	if lb.IsInfinite() || ub.IsInfinite() || szUB.IsInfinite() {
		return d.ignore()
	}
	lo, _ := lb.FiniteValue().Int64()
	hi, _ := ub.FiniteValue().Int64()
	sz, _ := szUB.FiniteValue().Int64()
	cp := d
	for _, base := range pts.Elements() {
		cp = cp.forgetRange(base, lo, hi+sz)
	}
	return cp
}

// Memcpy/Memmove forget the destination range; when every address
// involved is a known singleton, overlapping source cells are instead
// renamed onto the destination (spec's "special case").
func (d Domain) Memcpy(dst, src varid.Var, dstOffset, srcOffset interval.Interval[number.Z], size interval.Interval[number.Z]) Domain {
	dstPts, srcPts := d.Ptr.Get(dst), d.Ptr.Get(src)
	if dstPts.IsTop() || srcPts.IsTop() {
		return d.ignore()
	}
	if dstPts.Len() == 1 && srcPts.Len() == 1 && dstOffset.IsSingleton() && srcOffset.IsSingleton() && size.IsSingleton() {
		sz, ok := size.SingletonValue().Int64()
		dOff, ok2 := dstOffset.SingletonValue().Int64()
		sOff, ok3 := srcOffset.SingletonValue().Int64()
		if ok && ok2 && ok3 {
			db, sb := dstPts.Elements()[0], srcPts.Elements()[0]
			cp := d.forgetRange(db, dOff, dOff+sz)
			for _, old := range overlapping(cp.Store.Get(sb), NewCell(sb, sOff, sz)) {
				renamed := NewCell(db, old.Offset-sOff+dOff, old.Size)
				ghost := cp.cellVars.Var(old)
				cp.Scalars = cp.Scalars.Set(cp.cellVars.Var(renamed), cp.Scalars.Get(ghost))
				cp.Store = cp.Store.Set(db, cp.Store.Get(db).Join(discrete.Of(renamed)))
			}
			return cp
		}
	}
	return d.Memset(dst, dstOffset, size)
}

func (d Domain) Memmove(dst, src varid.Var, dstOffset, srcOffset interval.Interval[number.Z], size interval.Interval[number.Z]) Domain {
	return d.Memcpy(dst, src, dstOffset, srcOffset, size)
}

// RefineAddrs intersects p's points-to set with S, but only when p is
// known non-null: otherwise the intersection could soundly remove the
// only non-null alternative, per spec §4.6.
func (d Domain) RefineAddrs(p varid.Var, s discrete.Discrete[MemLoc]) Domain {
	if d.IsBottom() {
		return d
	}
	if d.Null.Get(p).MayBeNull() {
		return d
	}
	cp := d
	cp.Ptr = cp.Ptr.Set(p, cp.Ptr.Get(p).Meet(s))
	return cp
}

// CmpMemAddr narrows state for p == q (eq true) by intersecting points-to
// sets. For p != q (eq false) the points-to sets are left unchanged; when
// both are the same single location this is counted as an ignored
// operation. Offset equating (spec §4.6's "equates
// offsets") needs each pointer's offset as a tracked ghost scalar, which
// this package's simplified API leaves to the caller (offsets are passed
// into Write/Read explicitly rather than persisted per-pointer); callers
// that do track offset ghost vars can meet them directly through
// Scalars after calling this.
func (d Domain) CmpMemAddr(p, q varid.Var, eq bool) Domain {
	if d.IsBottom() {
		return d
	}
	pPts, qPts := d.Ptr.Get(p), d.Ptr.Get(q)
	if eq {
		if pPts.IsBottom() || qPts.IsBottom() {
			return d.toBottom()
		}
		merged := pPts.Meet(qPts)
		if merged.IsBottom() {
			return d.toBottom()
		}
		cp := d
		cp.Ptr = cp.Ptr.Set(p, merged)
		cp.Ptr = cp.Ptr.Set(q, merged)
		return cp
	}
	if pPts.Len() == 1 && qPts.Len() == 1 && pPts.Elements()[0] == qPts.Elements()[0] {
		return d.ignore()
	}
	return d
}

func (d Domain) Leq(o Domain) bool {
	if d.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	return d.Scalars.Leq(o.Scalars) && d.Store.Leq(o.Store) && d.Ptr.Leq(o.Ptr) &&
		d.Uninit.Leq(o.Uninit) && d.Null.Leq(o.Null)
}

func (d Domain) Join(o Domain) Domain {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	cp := d
	cp.Scalars = d.Scalars.Join(o.Scalars)
	cp.Store = d.Store.Join(o.Store)
	cp.Ptr = d.Ptr.Join(o.Ptr)
	cp.Uninit = d.Uninit.Join(o.Uninit)
	cp.Null = d.Null.Join(o.Null)
	cp.ignored = d.ignored + o.ignored
	return cp
}

func (d Domain) Widen(o Domain) Domain {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	cp := d
	cp.Scalars = d.Scalars.Widen(o.Scalars)
	cp.Store = d.Store.Widen(o.Store)
	cp.Ptr = d.Ptr.Widen(o.Ptr)
	cp.Uninit = d.Uninit.Widen(o.Uninit)
	cp.Null = d.Null.Widen(o.Null)
	cp.ignored = d.ignored + o.ignored
	return cp
}

func (d Domain) Meet(o Domain) Domain {
	if d.bottom || o.bottom {
		return d.toBottom()
	}
	cp := d
	cp.Scalars = d.Scalars.Meet(o.Scalars)
	cp.Store = d.Store.Meet(o.Store)
	cp.Ptr = d.Ptr.Meet(o.Ptr)
	cp.Uninit = d.Uninit.Meet(o.Uninit)
	cp.Null = d.Null.Meet(o.Null)
	return cp
}

func (d Domain) Narrow(o Domain) Domain {
	if d.bottom || o.bottom {
		return d.toBottom()
	}
	cp := d
	cp.Scalars = d.Scalars.Narrow(o.Scalars)
	cp.Store = d.Store.Narrow(o.Store)
	cp.Ptr = d.Ptr.Narrow(o.Ptr)
	cp.Uninit = d.Uninit.Narrow(o.Uninit)
	cp.Null = d.Null.Narrow(o.Null)
	return cp
}

func (d Domain) String() string {
	if d.bottom {
		return "_|_"
	}
	return "scalars=" + d.Scalars.String() + " store=" + d.Store.String() +
		" ptr=" + d.Ptr.String() + " uninit=" + d.Uninit.String() + " null=" + d.Null.String()
}
