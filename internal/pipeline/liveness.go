// internal/pipeline/liveness.go
// Liveness (spec §4.8, pass 1): a backward dataflow computing, per
// block, the set of variables dead on entry so later passes can forget
// them from the domain instead of carrying them forever.
//
// This is a small hand-rolled worklist rather than a reuse of
// internal/fixpoint.Engine: Engine assumes a single-entry forward graph
// driven by a WTO, but liveness is naturally multi-exit and backward
// (every block with no successors is a source), so building a
// single-entry WTO over the reversed graph would need synthesizing an
// artificial super-exit node. A plain map/queue worklist over this
// finite, monotone powerset lattice is simpler and just as sound.
package pipeline

import "ikos/internal/ar"

// VarSet is a set of variable names, identified by String() rather than
// varid.Var identity so liveness can run before any function-specific
// varid.Factory is involved.
type VarSet map[string]struct{}

func (s VarSet) union(o VarSet) VarSet {
	out := make(VarSet, len(s)+len(o))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range o {
		out[v] = struct{}{}
	}
	return out
}

func (s VarSet) minus(o VarSet) VarSet {
	out := make(VarSet, len(s))
	for v := range s {
		if _, dead := o[v]; !dead {
			out[v] = struct{}{}
		}
	}
	return out
}

func (s VarSet) equal(o VarSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if _, ok := o[v]; !ok {
			return false
		}
	}
	return true
}

// genKill extracts the variables a statement uses (gen) and defines
// (kill), generically across every statement kind: the minimal
// Statement shape (statement.go) only distinguishes kinds that need
// extra fields, not ones that change which fields carry uses/defs.
func genKill(s ar.Statement) (gen, kill VarSet) {
	gen = VarSet{}
	for _, op := range s.Operands {
		if !op.IsConst() {
			gen[op.Var.String()] = struct{}{}
		}
	}
	for _, a := range s.Args {
		if !a.IsConst() {
			gen[a.Var.String()] = struct{}{}
		}
	}
	kill = VarSet{}
	if s.Result != nil {
		kill[s.Result.String()] = struct{}{}
	}
	return gen, kill
}

// FunctionLiveness holds, per block name, the set of variables live on
// entry and the complementary set of variables dead on entry.
type FunctionLiveness struct {
	LiveIn map[string]VarSet
	Dead   map[string]VarSet
}

func predecessors(cfg *ar.CFG) map[string][]string {
	preds := make(map[string][]string, len(cfg.Blocks))
	for name := range cfg.Blocks {
		preds[name] = nil
	}
	for name, b := range cfg.Blocks {
		for _, succ := range b.Successors {
			preds[succ] = append(preds[succ], name)
		}
	}
	return preds
}

// blockLiveIn runs the block's statements backward starting from
// liveOut, applying gen/kill per statement (gen ∪ (in \ kill), spec
// §4.8's transfer function read right to left).
func blockLiveIn(b *ar.BasicBlock, liveOut VarSet) VarSet {
	live := liveOut
	for i := len(b.Statements) - 1; i >= 0; i-- {
		gen, kill := genKill(b.Statements[i])
		live = gen.union(live.minus(kill))
	}
	return live
}

// AnalyzeLiveness computes FunctionLiveness for fn; declarations (no
// CFG) return a zero-value result.
func AnalyzeLiveness(fn *ar.Function) FunctionLiveness {
	result := FunctionLiveness{LiveIn: map[string]VarSet{}, Dead: map[string]VarSet{}}
	if fn.CFG == nil {
		return result
	}
	cfg := fn.CFG
	preds := predecessors(cfg)

	allVars := VarSet{}
	for _, b := range cfg.Blocks {
		for _, s := range b.Statements {
			gen, kill := genKill(s)
			for v := range gen {
				allVars[v] = struct{}{}
			}
			for v := range kill {
				allVars[v] = struct{}{}
			}
		}
	}

	liveIn := make(map[string]VarSet, len(cfg.Blocks))
	for name := range cfg.Blocks {
		liveIn[name] = VarSet{}
	}

	queue := make([]string, 0, len(cfg.Blocks))
	queued := make(map[string]bool, len(cfg.Blocks))
	for name := range cfg.Blocks {
		queue = append(queue, name)
		queued[name] = true
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		queued[name] = false

		b := cfg.Blocks[name]
		liveOut := VarSet{}
		for _, succ := range b.Successors {
			liveOut = liveOut.union(liveIn[succ])
		}
		in := blockLiveIn(b, liveOut)
		if in.equal(liveIn[name]) {
			continue
		}
		liveIn[name] = in
		for _, p := range preds[name] {
			if !queued[p] {
				queued[p] = true
				queue = append(queue, p)
			}
		}
	}

	result.LiveIn = liveIn
	for name := range cfg.Blocks {
		result.Dead[name] = allVars.minus(liveIn[name])
	}
	return result
}
