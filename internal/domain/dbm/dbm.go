// internal/domain/dbm/dbm.go
// Package dbm implements the Difference-Bound Matrix relational domain of
// spec §4.5: each tracked variable is a vertex in a graph alongside an
// implicit "zero" vertex, and an edge i->j weighted k encodes the
// constraint var_i - var_j <= k. Grounded on
// original_source/core/include/ikos/core/domain/numeric/dbm.hpp (Mine's
// PADO'01 DBM domain): lazy normalization via Floyd-Warshall shortest-path
// closure, bottom detected by a negative self-loop, and general (non
// difference-form) linear constraints routed through the same
// LinearIntervalSolver the source embeds -- here internal/linear.Solve,
// with the DBM itself acting as the solver's Box.
package dbm

import (
	"strings"

	"ikos/internal/linear"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// Rounding is the numeric algebra DBM needs: Value plus the floor/ceil
// division internal/linear.Solve requires for its fallback path.
type Rounding[T any] interface {
	linear.Rounding[T]
}

// DBM is the matrix of pairwise difference bounds over a dynamically
// growing set of tracked variables, or ⊥.
type DBM[T Rounding[T]] struct {
	bottom     bool
	normalized bool
	index      map[int]int // varid.Var.Index() -> matrix position (1..n)
	vars       []varid.Var // matrix position i-1 -> Var
	matrix     [][]number.Bound[T]
	zero       T
}

// Top builds the unconstrained DBM over no variables; zero is a sample
// value of T used to build Bound[T] zero constants (e.g. number.NewZ(0)).
func Top[T Rounding[T]](zero T) DBM[T] {
	return DBM[T]{
		normalized: true,
		index:      map[int]int{},
		matrix:     [][]number.Bound[T]{{number.Finite(zero)}},
		zero:       zero,
	}
}

func Bottom[T Rounding[T]](zero T) DBM[T] {
	return DBM[T]{bottom: true, normalized: true, zero: zero}
}

func (d *DBM[T]) n() int { return len(d.vars) }

// ensureVar returns the matrix position of v, growing the matrix if v is
// newly seen. New rows/columns start unconstrained (+oo) except the
// diagonal, which is always 0. The index, variable list and matrix are
// replaced by fresh copies, so the DBM value d was copied from is left
// unchanged by the caller's writes.
func (d *DBM[T]) ensureVar(v varid.Var) int {
	idx := make(map[int]int, len(d.index)+1)
	for k, p := range d.index {
		idx[k] = p
	}
	vars := append([]varid.Var{}, d.vars...)
	pos, ok := idx[v.Index()]
	if !ok {
		pos = len(vars) + 1
		vars = append(vars, v)
		idx[v.Index()] = pos
	}
	d.index, d.vars = idx, vars
	newSize := len(vars) + 1
	newMatrix := make([][]number.Bound[T], newSize)
	for i := 0; i < newSize; i++ {
		newMatrix[i] = make([]number.Bound[T], newSize)
		for j := 0; j < newSize; j++ {
			switch {
			case i < len(d.matrix) && j < len(d.matrix):
				newMatrix[i][j] = d.matrix[i][j]
			case i == j:
				newMatrix[i][j] = number.Finite(d.zero)
			default:
				newMatrix[i][j] = number.PlusInfinity[T]()
			}
		}
	}
	d.matrix = newMatrix
	d.normalized = false
	return pos
}

func (d DBM[T]) IsBottom() bool { return d.bottom }

func (d DBM[T]) IsTop() bool {
	if d.bottom {
		return false
	}
	for i := range d.matrix {
		for j := range d.matrix[i] {
			if i != j && !d.matrix[i][j].IsPlusInfinity() {
				return false
			}
		}
	}
	return true
}

// Normalize computes the all-pairs shortest path closure (Floyd-Warshall
// over min-plus). A negative self-loop after closure means the constraint
// system is unsatisfiable, i.e. ⊥.
func (d DBM[T]) Normalize() DBM[T] {
	if d.bottom || d.normalized {
		return d
	}
	n := len(d.matrix)
	m := make([][]number.Bound[T], n)
	for i := range m {
		m[i] = append([]number.Bound[T]{}, d.matrix[i]...)
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if m[i][k].IsPlusInfinity() {
				continue
			}
			for j := 0; j < n; j++ {
				if m[k][j].IsPlusInfinity() {
					continue
				}
				via, err := m[i][k].Add(m[k][j])
				if err != nil {
					continue
				}
				if via.Lt(m[i][j]) {
					m[i][j] = via
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if m[i][i].IsFinite() && m[i][i].FiniteValue().Cmp(d.zero) < 0 {
			return Bottom[T](d.zero)
		}
	}
	cp := d
	cp.matrix = m
	cp.normalized = true
	return cp
}

// Get returns the tightest known interval [lb, ub] for v.
func (d DBM[T]) Get(v varid.Var) (lb, ub number.Bound[T]) {
	if d.bottom {
		return number.PlusInfinity[T](), number.MinusInfinity[T]()
	}
	nd := d.Normalize()
	pos, ok := nd.index[v.Index()]
	if !ok {
		return number.MinusInfinity[T](), number.PlusInfinity[T]()
	}
	ub = nd.matrix[pos][0]
	lb = nd.matrix[0][pos].Neg()
	return lb, ub
}

// SetInterval tightens v's bounds to at most [lb, ub] (intersected with any
// existing bound).
func (d DBM[T]) SetInterval(v varid.Var, lb, ub number.Bound[T]) DBM[T] {
	if d.bottom {
		return d
	}
	cp := d
	pos := cp.ensureVar(v)
	if ub.Lt(cp.matrix[pos][0]) {
		cp.matrix[pos][0] = ub
	}
	negLB := lb.Neg()
	if negLB.Lt(cp.matrix[0][pos]) {
		cp.matrix[0][pos] = negLB
	}
	cp.normalized = false
	return cp.Normalize()
}

// SetDiff tightens the constraint x - y <= k.
func (d DBM[T]) SetDiff(x, y varid.Var, k number.Bound[T]) DBM[T] {
	if d.bottom {
		return d
	}
	cp := d
	pi := cp.ensureVar(x)
	pj := cp.ensureVar(y)
	if k.Lt(cp.matrix[pi][pj]) {
		cp.matrix[pi][pj] = k
	}
	cp.normalized = false
	return cp.Normalize()
}

func (d DBM[T]) Forget(v varid.Var) DBM[T] {
	if d.bottom {
		return d
	}
	pos, ok := d.index[v.Index()]
	if !ok {
		return d
	}
	cp := d
	n := len(cp.matrix)
	m := make([][]number.Bound[T], n)
	for i := range m {
		m[i] = append([]number.Bound[T]{}, cp.matrix[i]...)
	}
	for i := 0; i < n; i++ {
		if i == pos {
			continue
		}
		m[i][pos] = number.PlusInfinity[T]()
		m[pos][i] = number.PlusInfinity[T]()
	}
	cp.matrix = m
	return cp
}

func (d DBM[T]) String() string {
	if d.bottom {
		return "_|_"
	}
	nd := d.Normalize()
	if nd.bottom {
		return "_|_"
	}
	var b strings.Builder
	b.WriteString("{")
	first := true
	for _, v := range nd.vars {
		lb, ub := nd.Get(v)
		if lb.IsMinusInfinity() && ub.IsPlusInfinity() {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(v.String())
		b.WriteString(" in [")
		b.WriteString(lb.String())
		b.WriteString(", ")
		b.WriteString(ub.String())
		b.WriteString("]")
	}
	b.WriteString("}")
	return b.String()
}

// align returns copies of d and o's matrices over the union of their
// variables, with any cell missing from one side filled with +oo.
func align[T Rounding[T]](d, o DBM[T]) (vars []varid.Var, md, mo [][]number.Bound[T]) {
	d = d.Normalize()
	o = o.Normalize()
	seen := map[int]bool{}
	for _, v := range d.vars {
		seen[v.Index()] = true
		vars = append(vars, v)
	}
	for _, v := range o.vars {
		if !seen[v.Index()] {
			seen[v.Index()] = true
			vars = append(vars, v)
		}
	}
	n := len(vars) + 1
	md = make([][]number.Bound[T], n)
	mo = make([][]number.Bound[T], n)
	posIn := func(dd DBM[T], idx int) (int, bool) {
		p, ok := dd.index[idx]
		return p, ok
	}
	for i := 0; i < n; i++ {
		md[i] = make([]number.Bound[T], n)
		mo[i] = make([]number.Bound[T], n)
		for j := 0; j < n; j++ {
			md[i][j] = cellOf(d, vars, posIn, i, j)
			mo[i][j] = cellOf(o, vars, posIn, i, j)
		}
	}
	return vars, md, mo
}

func cellOf[T Rounding[T]](dd DBM[T], vars []varid.Var, posIn func(DBM[T], int) (int, bool), i, j int) number.Bound[T] {
	if i == j {
		return number.Finite(dd.zero)
	}
	pi, pj := 0, 0
	okI, okJ := true, true
	if i > 0 {
		pi, okI = posIn(dd, vars[i-1].Index())
	}
	if j > 0 {
		pj, okJ = posIn(dd, vars[j-1].Index())
	}
	if !okI || !okJ {
		return number.PlusInfinity[T]()
	}
	return dd.matrix[pi][pj]
}

func fromAligned[T Rounding[T]](zero T, vars []varid.Var, m [][]number.Bound[T]) DBM[T] {
	idx := map[int]int{}
	for i, v := range vars {
		idx[v.Index()] = i + 1
	}
	return DBM[T]{normalized: false, index: idx, vars: vars, matrix: m, zero: zero}.Normalize()
}

func (d DBM[T]) Leq(o DBM[T]) bool {
	if d.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	_, md, mo := align(d, o)
	for i := range md {
		for j := range md[i] {
			if !md[i][j].Le(mo[i][j]) {
				return false
			}
		}
	}
	return true
}

func (d DBM[T]) Equal(o DBM[T]) bool { return d.Leq(o) && o.Leq(d) }

func (d DBM[T]) Join(o DBM[T]) DBM[T] {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	vars, md, mo := align(d, o)
	m := make([][]number.Bound[T], len(md))
	for i := range md {
		m[i] = make([]number.Bound[T], len(md[i]))
		for j := range md[i] {
			m[i][j] = md[i][j].Max(mo[i][j])
		}
	}
	return fromAligned(d.zero, vars, m)
}

// Widen keeps a cell's bound if it did not widen from d to o; otherwise it
// jumps to +oo, the classic DBM widening from the source.
func (d DBM[T]) Widen(o DBM[T]) DBM[T] {
	if d.bottom {
		return o
	}
	if o.bottom {
		return d
	}
	vars, md, mo := align(d, o)
	m := make([][]number.Bound[T], len(md))
	for i := range md {
		m[i] = make([]number.Bound[T], len(md[i]))
		for j := range md[i] {
			if i == j {
				m[i][j] = md[i][j]
				continue
			}
			if mo[i][j].Le(md[i][j]) {
				m[i][j] = md[i][j]
			} else {
				m[i][j] = number.PlusInfinity[T]()
			}
		}
	}
	return fromAligned(d.zero, vars, m)
}

func (d DBM[T]) Meet(o DBM[T]) DBM[T] {
	if d.bottom || o.bottom {
		return Bottom[T](d.zero)
	}
	vars, md, mo := align(d, o)
	m := make([][]number.Bound[T], len(md))
	for i := range md {
		m[i] = make([]number.Bound[T], len(md[i]))
		for j := range md[i] {
			m[i][j] = md[i][j].Min(mo[i][j])
		}
	}
	return fromAligned(d.zero, vars, m)
}

// Narrow tightens any +oo cell in d down to o's value for that cell.
func (d DBM[T]) Narrow(o DBM[T]) DBM[T] {
	if d.bottom || o.bottom {
		return Bottom[T](d.zero)
	}
	vars, md, mo := align(d, o)
	m := make([][]number.Bound[T], len(md))
	for i := range md {
		m[i] = make([]number.Bound[T], len(md[i]))
		for j := range md[i] {
			if md[i][j].IsPlusInfinity() {
				m[i][j] = mo[i][j]
			} else {
				m[i][j] = md[i][j]
			}
		}
	}
	return fromAligned(d.zero, vars, m)
}
