// internal/ar/type.go
// Package ar is the Abstract Representation surface the core consumes
// (spec §3.6): bundles of functions, each a CFG of basic blocks holding a
// finite, enumerable sequence of statements (spec §6.2). This package
// only models that surface -- it does not translate LLVM bitcode into
// it, which spec §1 scopes out.
//
// Type wraps github.com/llir/llvm/ir/types directly: AR's type system
// (integer width, pointer, array, struct, function) is a direct
// projection of LLVM IR's, per SPEC_FULL.md's DOMAIN STACK wiring, so
// there is no reason to reinvent an integer/pointer/array/struct type
// lattice from scratch the way a from-scratch AR definition otherwise
// would.
package ar

import "github.com/llir/llvm/ir/types"

// Type is an AR type; see the llir/llvm/ir/types package for the
// concrete shapes (IntType, PointerType, ArrayType, StructType,
// FuncType, FloatType, VoidType).
type Type = types.Type

func IntType(bitSize uint64) *types.IntType    { return types.NewInt(bitSize) }
func PointerType(elem Type) *types.PointerType { return types.NewPointer(elem) }
func ArrayType(length uint64, elem Type) *types.ArrayType {
	return types.NewArray(length, elem)
}
func StructType(fields ...Type) *types.StructType { return types.NewStruct(fields...) }
func FuncType(ret Type, params ...Type) *types.FuncType {
	return types.NewFunc(ret, params...)
}

var (
	I1    = types.I1
	I8    = types.I8
	I16   = types.I16
	I32   = types.I32
	I64   = types.I64
	Void  = types.Void
	Float = types.Float
	Double = types.Double
)
