// internal/memory/store.go
// Store is spec §3.5's MemLoc -> FlatSet<Cell> map, implemented directly
// on internal/domain/nonrelational.Domain since MemLoc already satisfies
// varid.Var and discrete.Discrete[Cell] already satisfies
// nonrelational.Lattice -- the exact "same skeleton hosts...
// DiscreteDomain<Set>" reuse spec §4.4 calls for.
package memory

import (
	"ikos/internal/domain/discrete"
	"ikos/internal/domain/nonrelational"
)

type Store = nonrelational.Domain[discrete.Discrete[Cell]]

func TopStore() Store { return nonrelational.Top[discrete.Discrete[Cell]](discrete.Top[Cell]()) }

// PointerMap is spec §3.5's Var -> PointsToSet<MemLoc>.
type PointerMap = nonrelational.Domain[discrete.Discrete[MemLoc]]

func TopPointerMap() PointerMap {
	return nonrelational.Top[discrete.Discrete[MemLoc]](discrete.Top[MemLoc]())
}
