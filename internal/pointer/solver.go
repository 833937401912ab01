// internal/pointer/solver.go
// Andersen-style worklist solver (spec §4.9): Copy edges propagate
// incrementally through a dirty-variable worklist; Store/Load constraints
// re-saturate in rounds alongside it, since they depend on points-to
// sets (of p or q) that the worklist itself is still growing. A fully
// demand-driven solver would subscribe loads to the exact memory
// locations their source pointer may reach and fire only on those
// locations changing; this round-based saturation is a simpler,
// still-sound scope reduction — correct, just not maximally
// incremental. Converges because every set only grows (monotone) and
// every universe (variables, locations, functions) is finite.
package pointer

import (
	"golang.org/x/exp/maps"

	"ikos/internal/domain/interval"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/varid"
)

// Result holds the solved points-to set, possible function targets, and
// offset interval for every pointer variable that appeared in a
// constraint.
type Result struct {
	pts    map[varid.Var]map[memory.MemLoc]struct{}
	funcs  map[varid.Var]map[string]struct{}
	offset map[varid.Var]interval.Interval[number.Z]
}

func (r *Result) PointsTo(v varid.Var) []memory.MemLoc {
	return maps.Keys(r.pts[v])
}

func (r *Result) Funcs(v varid.Var) []string {
	return maps.Keys(r.funcs[v])
}

func (r *Result) Offset(v varid.Var) interval.Interval[number.Z] {
	if o, ok := r.offset[v]; ok {
		return o
	}
	return interval.Bottom[number.Z]()
}

// Solver accumulates constraints before a single Solve() call.
type Solver struct {
	constraints []Constraint
}

func NewSolver() *Solver { return &Solver{} }

func (s *Solver) Add(c Constraint) { s.constraints = append(s.constraints, c) }

func (s *Solver) Solve() *Result {
	st := newState()
	st.seed(s.constraints)

	copyEdges := make(map[varid.Var][]Constraint)
	var stores, loads []Constraint
	for _, c := range s.constraints {
		switch c.Kind {
		case Copy:
			copyEdges[c.Q] = append(copyEdges[c.Q], c)
		case Store:
			stores = append(stores, c)
		case Load:
			loads = append(loads, c)
		}
	}

	for {
		changed := st.drainCopyQueue(copyEdges)
		if st.applyStores(stores) {
			changed = true
		}
		if st.applyLoads(loads) {
			changed = true
		}
		if !changed {
			break
		}
	}

	return &Result{pts: st.pts, funcs: st.funcs, offset: st.offset}
}

type state struct {
	pts    map[varid.Var]map[memory.MemLoc]struct{}
	funcs  map[varid.Var]map[string]struct{}
	offset map[varid.Var]interval.Interval[number.Z]

	// storedPts/storedFuncs/storedOffset model the abstract contents of
	// each memory object that at least one Store constraint has targeted.
	storedPts    map[memory.MemLoc]map[memory.MemLoc]struct{}
	storedFuncs  map[memory.MemLoc]map[string]struct{}
	storedOffset map[memory.MemLoc]interval.Interval[number.Z]

	queue   []varid.Var
	inQueue map[varid.Var]bool
}

func newState() *state {
	return &state{
		pts:          make(map[varid.Var]map[memory.MemLoc]struct{}),
		funcs:        make(map[varid.Var]map[string]struct{}),
		offset:       make(map[varid.Var]interval.Interval[number.Z]),
		storedPts:    make(map[memory.MemLoc]map[memory.MemLoc]struct{}),
		storedFuncs:  make(map[memory.MemLoc]map[string]struct{}),
		storedOffset: make(map[memory.MemLoc]interval.Interval[number.Z]),
		inQueue:      make(map[varid.Var]bool),
	}
}

func (s *state) push(v varid.Var) {
	if !s.inQueue[v] {
		s.inQueue[v] = true
		s.queue = append(s.queue, v)
	}
}

func (s *state) pop() varid.Var {
	v := s.queue[0]
	s.queue = s.queue[1:]
	s.inQueue[v] = false
	return v
}

func (s *state) ptsOf(v varid.Var) map[memory.MemLoc]struct{} {
	m, ok := s.pts[v]
	if !ok {
		m = make(map[memory.MemLoc]struct{})
		s.pts[v] = m
	}
	return m
}

func (s *state) funcsOf(v varid.Var) map[string]struct{} {
	m, ok := s.funcs[v]
	if !ok {
		m = make(map[string]struct{})
		s.funcs[v] = m
	}
	return m
}

func (s *state) offsetOf(v varid.Var) interval.Interval[number.Z] {
	if o, ok := s.offset[v]; ok {
		return o
	}
	return interval.Bottom[number.Z]()
}

func (s *state) joinOffset(v varid.Var, o interval.Interval[number.Z]) bool {
	cur := s.offsetOf(v)
	next := cur.Join(o)
	if next.Leq(cur) {
		return false
	}
	s.offset[v] = next
	return true
}

// addAllLocs/addAllFuncs merge src into dst and report whether dst grew,
// the worklist's change signal for re-queuing a variable. maps.Copy is an
// overwriting union; since both maps only ever hold struct{} values, a
// size comparison before/after is exactly "did src add anything new".
func addAllLocs(dst, src map[memory.MemLoc]struct{}) bool {
	before := len(dst)
	maps.Copy(dst, src)
	return len(dst) != before
}

func addAllFuncs(dst, src map[string]struct{}) bool {
	before := len(dst)
	maps.Copy(dst, src)
	return len(dst) != before
}

// seed installs AddrOf/AddrOfFunc base facts and primes the worklist.
func (s *state) seed(constraints []Constraint) {
	for _, c := range constraints {
		switch c.Kind {
		case AddrOf:
			s.ptsOf(c.P)[c.Object] = struct{}{}
			s.joinOffset(c.P, interval.Singleton(number.NewZ(0)))
			s.push(c.P)
		case AddrOfFunc:
			s.funcsOf(c.P)[c.Func] = struct{}{}
			s.push(c.P)
		}
	}
}

// drainCopyQueue propagates pts/funcs/offset along Copy edges until the
// worklist is empty, returning whether anything changed.
func (s *state) drainCopyQueue(edges map[varid.Var][]Constraint) bool {
	changed := false
	for len(s.queue) > 0 {
		q := s.pop()
		for _, c := range edges[q] {
			if addAllLocs(s.ptsOf(c.P), s.pts[c.Q]) {
				changed = true
				s.push(c.P)
			}
			if addAllFuncs(s.funcsOf(c.P), s.funcs[c.Q]) {
				changed = true
				s.push(c.P)
			}
			contribution := s.offsetOf(c.Q).Add(c.Offset)
			if s.joinOffset(c.P, contribution) {
				changed = true
				s.push(c.P)
			}
		}
	}
	return changed
}

// applyStores folds every Store constraint's source (q) into the
// abstract contents of every object its target (p) may point to.
func (s *state) applyStores(stores []Constraint) bool {
	changed := false
	for _, c := range stores {
		contribution := s.offsetOf(c.Q).Add(c.Offset)
		for obj := range s.pts[c.P] {
			dst, ok := s.storedPts[obj]
			if !ok {
				dst = make(map[memory.MemLoc]struct{})
				s.storedPts[obj] = dst
			}
			if addAllLocs(dst, s.pts[c.Q]) {
				changed = true
			}
			fdst, ok := s.storedFuncs[obj]
			if !ok {
				fdst = make(map[string]struct{})
				s.storedFuncs[obj] = fdst
			}
			if addAllFuncs(fdst, s.funcs[c.Q]) {
				changed = true
			}
			cur := s.storedOffset[obj]
			next := cur.Join(contribution)
			if !next.Leq(cur) {
				s.storedOffset[obj] = next
				changed = true
			}
		}
	}
	return changed
}

// applyLoads folds the abstract contents of every object p's source (q)
// may point to back into p, and re-queues p if anything grew.
func (s *state) applyLoads(loads []Constraint) bool {
	changed := false
	for _, c := range loads {
		for obj := range s.pts[c.Q] {
			if addAllLocs(s.ptsOf(c.P), s.storedPts[obj]) {
				changed = true
				s.push(c.P)
			}
			if addAllFuncs(s.funcsOf(c.P), s.storedFuncs[obj]) {
				changed = true
				s.push(c.P)
			}
			contribution := s.storedOffset[obj].Add(c.Offset)
			if s.joinOffset(c.P, contribution) {
				changed = true
			}
		}
	}
	return changed
}
