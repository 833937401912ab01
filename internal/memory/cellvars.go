// internal/memory/cellvars.go
// Every Cell has a ghost scalar variable (spec §3.5: "a deterministic
// function of (base,offset,size)") that the numeric sub-domain tracks.
// CellVars hands those out from the same varid.Factory the rest of the
// analysis already allocates program variables from, so ghost cells and
// real variables share one dense index space (needed by DBM/interval
// maps that are keyed uniformly on varid.Var).
package memory

import (
	"fmt"

	"ikos/internal/varid"
)

type CellVars struct {
	f *varid.Factory
}

func NewCellVars(f *varid.Factory) CellVars { return CellVars{f: f} }

// Var returns c's ghost scalar variable, allocating it on first use.
func (cv CellVars) Var(c Cell) varid.Var {
	return cv.f.Get(fmt.Sprintf("cell(%s,%d,%d)", c.Base, c.Offset, c.Size))
}
