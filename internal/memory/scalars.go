// internal/memory/scalars.go
// Scalars is Domain's pluggable numeric sub-domain (spec §4.5/§4.6's
// component E): the default is the non-relational interval domain, but
// -d can ask for a relational domain instead, each wrapped behind the
// same Get/Set/Forget/Leq/Join/Widen/Meet/Narrow protocol Write/Read
// already call through. Grounded on
// analyzer/include/analyzer/domains/value_domain.hpp, which is itself a
// template over its own numeric domain parameter; this package's Scalars
// interface is the Go-shaped equivalent of that template parameter.
package memory

import (
	"ikos/internal/domain/dbm"
	"ikos/internal/domain/gauge"
	"ikos/internal/domain/interval"
	"ikos/internal/domain/nonrelational"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// ScalarKind selects which relational/non-relational numeric domain
// backs a Domain's Scalars field, mirroring spec §4.5's "-d" tag set.
type ScalarKind string

const (
	ScalarInterval ScalarKind = "interval"
	ScalarDBM      ScalarKind = "dbm"
	ScalarGauge    ScalarKind = "gauge"
)

// Scalars is the per-variable numeric abstraction Domain.Write/Read
// delegate to. Every method returns a fresh Scalars rather than
// mutating in place, matching the persistent-value style the rest of
// this package (Store, PointerMap) already follows.
type Scalars interface {
	Get(v varid.Var) interval.Interval[number.Z]
	Set(v varid.Var, val interval.Interval[number.Z]) Scalars
	Forget(v varid.Var) Scalars
	Leq(o Scalars) bool
	Join(o Scalars) Scalars
	Widen(o Scalars) Scalars
	Meet(o Scalars) Scalars
	Narrow(o Scalars) Scalars
	String() string
}

// topScalarsFor builds the fully-unconstrained Scalars for kind,
// falling back to the interval domain for any tag this package cannot
// yet back with a genuinely different representation (varpacking and
// dbm-congruence; see DESIGN.md).
func topScalarsFor(kind ScalarKind) Scalars {
	switch kind {
	case ScalarDBM:
		return dbmScalars{d: dbm.Top[number.Z](number.NewZ(0))}
	case ScalarGauge:
		return gaugeScalars{d: nonrelational.Top[gauge.Gauge[number.Z]](gauge.Top[number.Z]())}
	default:
		return intervalScalars{d: nonrelational.Top[interval.Interval[number.Z]](interval.Top[number.Z]())}
	}
}

// intervalScalars is the default non-relational scalar domain: a plain
// Var -> Interval map.
type intervalScalars struct {
	d nonrelational.Domain[interval.Interval[number.Z]]
}

func (s intervalScalars) Get(v varid.Var) interval.Interval[number.Z] { return s.d.Get(v) }

func (s intervalScalars) Set(v varid.Var, val interval.Interval[number.Z]) Scalars {
	return intervalScalars{d: s.d.Set(v, val)}
}

func (s intervalScalars) Forget(v varid.Var) Scalars { return intervalScalars{d: s.d.Forget(v)} }

func (s intervalScalars) Leq(o Scalars) bool { return s.d.Leq(o.(intervalScalars).d) }

func (s intervalScalars) Join(o Scalars) Scalars {
	return intervalScalars{d: s.d.Join(o.(intervalScalars).d)}
}

func (s intervalScalars) Widen(o Scalars) Scalars {
	return intervalScalars{d: s.d.Widen(o.(intervalScalars).d)}
}

func (s intervalScalars) Meet(o Scalars) Scalars {
	return intervalScalars{d: s.d.Meet(o.(intervalScalars).d)}
}

func (s intervalScalars) Narrow(o Scalars) Scalars {
	return intervalScalars{d: s.d.Narrow(o.(intervalScalars).d)}
}

func (s intervalScalars) String() string { return s.d.String() }

// dbmScalars backs Scalars with a single DBM tracking every variable
// Write/Read ever names, so "-d dbm" actually runs spec §4.5's
// relational domain instead of silently staying on interval. Write/Read
// only ever ask for one variable's bounds at a time (Get) or replace one
// variable's bounds outright (Set), so this adapter loses the
// difference constraints a direct SetDiff call would carry between two
// named variables; the DBM's own Join/Widen/Meet/Narrow/Leq still run
// over the full matrix, but nothing in this package (Write, Read, Memcpy)
// adds a cross-variable relation to it, since each goes through Set.
type dbmScalars struct {
	d dbm.DBM[number.Z]
}

func (s dbmScalars) Get(v varid.Var) interval.Interval[number.Z] {
	lb, ub := s.d.Get(v)
	return interval.Of(lb, ub)
}

func (s dbmScalars) Set(v varid.Var, val interval.Interval[number.Z]) Scalars {
	d := s.d.Forget(v)
	if val.IsBottom() {
		return dbmScalars{d: dbm.Bottom[number.Z](number.NewZ(0))}
	}
	return dbmScalars{d: d.SetInterval(v, val.LB(), val.UB())}
}

func (s dbmScalars) Forget(v varid.Var) Scalars { return dbmScalars{d: s.d.Forget(v)} }

func (s dbmScalars) Leq(o Scalars) bool { return s.d.Leq(o.(dbmScalars).d) }

func (s dbmScalars) Join(o Scalars) Scalars { return dbmScalars{d: s.d.Join(o.(dbmScalars).d)} }

func (s dbmScalars) Widen(o Scalars) Scalars { return dbmScalars{d: s.d.Widen(o.(dbmScalars).d)} }

func (s dbmScalars) Meet(o Scalars) Scalars { return dbmScalars{d: s.d.Meet(o.(dbmScalars).d)} }

func (s dbmScalars) Narrow(o Scalars) Scalars { return dbmScalars{d: s.d.Narrow(o.(dbmScalars).d)} }

func (s dbmScalars) String() string { return s.d.String() }

// gaugeScalars backs Scalars with a Var -> Gauge map, so "-d gauge"
// tracks loop counters as bound-shaped linear expressions (spec §4.4)
// rather than plain intervals. Write/Read only ever hand it constant
// bounds (a Gauge with a variable-shaped bound only ever arises from
// gauge.IncrementCounter, which nothing in this package's protocol calls
// yet), so every value that round-trips through Get/Set is exact; the
// gain over interval is purely in how Join/Widen treat a counter's
// bound once some other part of the analysis has installed one.
type gaugeScalars struct {
	d nonrelational.Domain[gauge.Gauge[number.Z]]
}

func intervalToGauge(val interval.Interval[number.Z]) gauge.Gauge[number.Z] {
	if val.IsBottom() {
		return gauge.Bottom[number.Z]()
	}
	return gauge.Of(gauge.FromBound(val.LB()), gauge.FromBound(val.UB()))
}

// gaugeBoundToNumberBound projects a GaugeBound back to a plain Bound,
// over-approximating to infinity for a bound that is a genuine
// non-constant linear expression (sound: a wider bound is still a
// correct over-approximation).
func gaugeBoundToNumberBound(b gauge.GaugeBound[number.Z], plusInf bool) number.Bound[number.Z] {
	switch {
	case b.IsPlusInfinity():
		return number.PlusInfinity[number.Z]()
	case b.IsMinusInfinity():
		return number.MinusInfinity[number.Z]()
	case b.Expr().IsConstant():
		return number.Finite(b.Expr().Constant())
	case plusInf:
		return number.PlusInfinity[number.Z]()
	default:
		return number.MinusInfinity[number.Z]()
	}
}

func gaugeToInterval(g gauge.Gauge[number.Z]) interval.Interval[number.Z] {
	if g.IsBottom() {
		return interval.Bottom[number.Z]()
	}
	return interval.Of(gaugeBoundToNumberBound(g.LB(), false), gaugeBoundToNumberBound(g.UB(), true))
}

func (s gaugeScalars) Get(v varid.Var) interval.Interval[number.Z] { return gaugeToInterval(s.d.Get(v)) }

func (s gaugeScalars) Set(v varid.Var, val interval.Interval[number.Z]) Scalars {
	return gaugeScalars{d: s.d.Set(v, intervalToGauge(val))}
}

func (s gaugeScalars) Forget(v varid.Var) Scalars { return gaugeScalars{d: s.d.Forget(v)} }

func (s gaugeScalars) Leq(o Scalars) bool { return s.d.Leq(o.(gaugeScalars).d) }

func (s gaugeScalars) Join(o Scalars) Scalars { return gaugeScalars{d: s.d.Join(o.(gaugeScalars).d)} }

func (s gaugeScalars) Widen(o Scalars) Scalars {
	return gaugeScalars{d: s.d.Widen(o.(gaugeScalars).d)}
}

func (s gaugeScalars) Meet(o Scalars) Scalars { return gaugeScalars{d: s.d.Meet(o.(gaugeScalars).d)} }

func (s gaugeScalars) Narrow(o Scalars) Scalars {
	return gaugeScalars{d: s.d.Narrow(o.(gaugeScalars).d)}
}

func (s gaugeScalars) String() string { return s.d.String() }
