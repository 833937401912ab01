// internal/pointer/constraint.go
// The pointer constraint language (spec §4.9), grounded on
// analyzer/include/analyzer/analysis/pointer.hpp's PointerPass: flow
// insensitive constraints generated from a pass over every function's
// statements, solved once across the whole bundle.
package pointer

import (
	"ikos/internal/domain/interval"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/varid"
)

type ConstraintKind uint8

const (
	AddrOf     ConstraintKind = iota // p = o
	AddrOfFunc                       // p = f
	Copy                             // p = q + I
	Store                            // *p + I ⊇ q
	Load                             // p ⊇ *q + I
)

// Constraint is one edge of the bipartite points-to graph. Only the
// fields relevant to Kind are populated.
type Constraint struct {
	Kind   ConstraintKind
	P, Q   varid.Var
	Object memory.MemLoc
	Func   string
	Offset interval.Interval[number.Z]
}

func NewAddrOf(p varid.Var, o memory.MemLoc) Constraint {
	return Constraint{Kind: AddrOf, P: p, Object: o}
}

func NewAddrOfFunc(p varid.Var, f string) Constraint {
	return Constraint{Kind: AddrOfFunc, P: p, Func: f}
}

func NewCopy(p, q varid.Var, offset interval.Interval[number.Z]) Constraint {
	return Constraint{Kind: Copy, P: p, Q: q, Offset: offset}
}

// NewStore builds "*p + I ⊇ q": whatever q may point to or hold becomes
// part of the abstract contents of every object p may point to.
func NewStore(p, q varid.Var, offset interval.Interval[number.Z]) Constraint {
	return Constraint{Kind: Store, P: p, Q: q, Offset: offset}
}

// NewLoad builds "p ⊇ *q + I": p accumulates the abstract contents of
// every object q may point to.
func NewLoad(p, q varid.Var, offset interval.Interval[number.Z]) Constraint {
	return Constraint{Kind: Load, P: p, Q: q, Offset: offset}
}

// BindParam and BindReturn are Copy constraints by another name, kept
// distinct so callers (internal/pipeline) can generate them without
// hand-building a Constraint literal at every call site (spec §4.9:
// "formal_i(f) = actual_i at each call; ret(f) = returned_val").
func BindParam(formal, actual varid.Var) Constraint {
	return NewCopy(formal, actual, interval.Singleton(number.NewZ(0)))
}

func BindReturn(caller, returned varid.Var) Constraint {
	return NewCopy(caller, returned, interval.Singleton(number.NewZ(0)))
}
