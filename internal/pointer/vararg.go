// internal/pointer/vararg.go
// va_arg shadow locations (spec §4.9): every extra actual passed to a
// variadic call is stored into one synthetic per-function memory
// location instead of being bound positionally, since the callee's
// va_arg sequence isn't known to the solver ahead of time.
package pointer

import (
	"ikos/internal/domain/interval"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// ABI selects how many shadow locations a variadic call site needs.
type ABI uint8

const (
	ABIx86_64 ABI = iota
	ABIx86_32
)

// ShadowLocations are the synthetic MemLocs extra variadic actuals are
// stored into, and va_arg reads are loaded from.
type ShadowLocations struct {
	ABI ABI
	// RegSaveArea holds the first few extra actuals passed in registers
	// on x86-64; unused on x86-32.
	RegSaveArea memory.MemLoc
	// OverflowArgArea (x86-64) / ArgsArea (x86-32) holds the remaining
	// (or, on x86-32, all) extra actuals passed on the stack.
	OverflowArgArea memory.MemLoc
}

// Shadow returns the (possibly newly allocated) shadow locations for
// function name under abi, stable across calls for the same name.
func Shadow(lf *memory.LocFactory, funcName string, abi ABI) ShadowLocations {
	switch abi {
	case ABIx86_32:
		area := lf.Get(funcName + "$args_area")
		return ShadowLocations{ABI: abi, OverflowArgArea: area, RegSaveArea: area}
	default:
		return ShadowLocations{
			ABI:             abi,
			RegSaveArea:     lf.Get(funcName + "$reg_save_area"),
			OverflowArgArea: lf.Get(funcName + "$overflow_arg_area"),
		}
	}
}

// targetFor picks RegSaveArea for the first regCount slots on x86-64 and
// OverflowArgArea (or the single ArgsArea on x86-32) otherwise.
func targetFor(shadow ShadowLocations, argIndex, regCount int) memory.MemLoc {
	if shadow.ABI == ABIx86_64 && argIndex < regCount {
		return shadow.RegSaveArea
	}
	return shadow.OverflowArgArea
}

// StoreExtraActual builds the constraints that store one extra variadic
// actual into its shadow slot: a synthetic "address of the slot" pointer
// variable, plus the Store constraint binding actual into it.
func StoreExtraActual(vf *varid.Factory, shadow ShadowLocations, argIndex, regCount int, actual varid.Var) []Constraint {
	target := targetFor(shadow, argIndex, regCount)
	addr := vf.Get(target.String() + "$addr")
	return []Constraint{
		NewAddrOf(addr, target),
		NewStore(addr, actual, interval.Singleton(number.NewZ(0))),
	}
}

// LoadVaArg builds the constraint that reads one va_arg call's result
// (result) out of the shadow slot a given extra actual was stored into.
func LoadVaArg(vf *varid.Factory, shadow ShadowLocations, argIndex, regCount int, result varid.Var) []Constraint {
	target := targetFor(shadow, argIndex, regCount)
	addr := vf.Get(target.String() + "$addr")
	return []Constraint{
		NewAddrOf(addr, target),
		NewLoad(result, addr, interval.Singleton(number.NewZ(0))),
	}
}
