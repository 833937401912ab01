// internal/pipeline/valueanalysis.go
// Value analysis (spec §4.8, pass 4): the WTO-driven fixpoint over each
// function's memory.Domain, with indirect and direct calls handled per
// CallStrategy. Grounded on analyzer/include/analyzer/analysis/
// execution_engine.hpp's statement-visitor transfer function, wired over
// internal/fixpoint.Engine instead of a bespoke iteration loop.
package pipeline

import (
	"strconv"

	"ikos/internal/ar"
	"ikos/internal/domain/discrete"
	"ikos/internal/domain/interval"
	"ikos/internal/fixpoint"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/pointer"
	"ikos/internal/varid"
)

// wordSize is the access width assumed for every Load/Store: the
// distilled AR's Statement doesn't carry a precise byte size per access,
// so every cell this pass creates is sized uniformly. Sound for any fixed
// over-approximation large enough to cover the source languages' pointer
// and integer widths; precision, not soundness, is what a per-Type size
// would buy.
const wordSize = 8

// valueContext is the read-mostly state shared by every function's
// analysis and threaded into Inline's recursive substitution.
type valueContext struct {
	bundle     *ar.Bundle
	vf         *varid.Factory
	lf         *memory.LocFactory
	solved     *pointer.Result
	info       map[string]PointerInfo
	strategy   CallStrategy
	policy     fixpoint.Policy
	delayFor   func(string) int
	scalarKind memory.ScalarKind
	inProgress map[string]bool
}

// AnalyzeValue runs the value analysis over every defined function in
// bundle and returns each one's joined exit-block state. scalarKind
// selects which domain backs every function's Scalars (spec §4.5's "-d"
// tag set), so a bundle-wide choice of DBM or gauge actually reaches
// component E's transfer functions instead of only ever running
// interval underneath.
func AnalyzeValue(
	bundle *ar.Bundle,
	vf *varid.Factory,
	lf *memory.LocFactory,
	pointers PointerAnalysisResult,
	strategy CallStrategy,
	policy fixpoint.Policy,
	delayFor func(string) int,
	scalarKind memory.ScalarKind,
) map[string]memory.Domain {
	ctx := &valueContext{
		bundle: bundle, vf: vf, lf: lf,
		solved: pointers.Solved, info: pointers.Info,
		strategy: strategy, policy: policy, delayFor: delayFor,
		scalarKind: scalarKind,
		inProgress: map[string]bool{},
	}
	out := make(map[string]memory.Domain, len(bundle.Functions))
	for _, fn := range bundle.Functions {
		if fn.IsDecl() {
			continue
		}
		exit, _ := runFunction(fn, ctx, seedPointers(fn, ctx))
		out[fn.Name] = exit
	}
	return out
}

// seedPointers builds the entry state for fn, narrowing Ptr for every
// variable the bundle-wide pointer solve produced a fact about and
// leaving everything else at the domain's sound Top default. The solve
// is flow-insensitive and already complete by the time the value
// analysis runs (spec §4.8 orders pointer analysis before it), so Ptr is
// seeded once here and never written again except through
// Domain.RefineAddrs/CmpMemAddr.
func seedPointers(fn *ar.Function, ctx *valueContext) memory.Domain {
	d := memory.TopWithScalars(ctx.vf, ctx.scalarKind)
	if ctx.solved == nil {
		return d
	}
	seen := map[varid.Var]bool{}
	seed := func(v varid.Var) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		if locs := ctx.solved.PointsTo(v); len(locs) > 0 {
			d.Ptr = d.Ptr.Set(v, discrete.Of(locs...))
		}
	}
	for _, b := range fn.CFG.Blocks {
		for _, s := range b.Statements {
			seed(s.Result)
			for _, op := range s.Operands {
				if !op.IsConst() {
					seed(op.Var)
				}
			}
			for _, a := range s.Args {
				if !a.IsConst() {
					seed(a.Var)
				}
			}
		}
	}
	return d
}

// runFunction builds fn's WTO and drives fixpoint.Engine over it starting
// from entry, returning the joined state at every exit block (a block
// with no successors) and the last ReturnValue statement's scalar value
// seen along the way, for the Inline strategy to bind at the call site.
func runFunction(fn *ar.Function, ctx *valueContext, entry memory.Domain) (memory.Domain, *interval.Interval[number.Z]) {
	if fn.IsDecl() {
		return entry, nil
	}
	succs := blockSuccessorNames(fn.CFG)
	wto := fixpoint.Build(fn.CFG.Entry, succs)

	var returned *interval.Interval[number.Z]
	transfer := func(node string, in memory.Domain) memory.Domain {
		b, ok := fn.CFG.Block(node)
		if !ok {
			return in
		}
		vis := &valueVisitor{d: in, fn: fn, ctx: ctx}
		for _, stmt := range b.Statements {
			if vis.unreachable {
				break
			}
			ar.Dispatch(vis, stmt)
		}
		if vis.unreachable {
			return memory.Bottom(ctx.vf)
		}
		if vis.returned != nil {
			returned = vis.returned
		}
		return vis.d
	}

	engine := fixpoint.NewEngine(succs, transfer, memory.Bottom(ctx.vf), ctx.policy)
	if ctx.delayFor != nil {
		engine.DelayFor = func(string) int { return ctx.delayFor(fn.Name) }
	}
	engine.Run(fn.CFG.Entry, wto, entry)

	exit := memory.Bottom(ctx.vf)
	any := false
	for name, b := range fn.CFG.Blocks {
		if len(b.Successors) == 0 {
			exit = exit.Join(engine.Post(name))
			any = true
		}
	}
	if !any {
		exit = engine.Post(fn.CFG.Entry)
	}
	return exit, returned
}

func blockSuccessorNames(cfg *ar.CFG) func(string) []string {
	return func(name string) []string {
		blocks := cfg.Successors(name)
		out := make([]string, 0, len(blocks))
		for _, b := range blocks {
			out = append(out, b.Name)
		}
		return out
	}
}

func boolInterval() interval.Interval[number.Z] {
	return interval.Singleton(number.NewZ(0)).Join(interval.Singleton(number.NewZ(1)))
}

// operandValue resolves a constant literal or looks up a tracked scalar.
func operandValue(d memory.Domain, op ar.Operand) interval.Interval[number.Z] {
	if op.IsConst() {
		if z, err := number.ParseZ(op.Const, 10); err == nil {
			return interval.Singleton(z)
		}
		return interval.Top[number.Z]()
	}
	return d.Scalars.Get(op.Var)
}

// valueVisitor is the per-block transfer function: one is built fresh
// for every block's Engine.Transfer call, starting from that block's
// Pre state and accumulating into d as it dispatches the block's
// statements in order.
type valueVisitor struct {
	ar.DefaultVisitor
	d    memory.Domain
	fn   *ar.Function
	ctx  *valueContext

	unreachable bool
	returned    *interval.Interval[number.Z]
}

func (v *valueVisitor) VisitArithmetic(s ar.Statement) { v.binOp(s) }
func (v *valueVisitor) VisitBitwise(s ar.Statement)    { v.binOp(s) }

func (v *valueVisitor) binOp(s ar.Statement) {
	if s.Result == nil || len(s.Operands) < 2 {
		return
	}
	lhs := operandValue(v.d, s.Operands[0])
	rhs := operandValue(v.d, s.Operands[1])
	var result interval.Interval[number.Z]
	switch s.Op {
	case "add":
		result = lhs.Add(rhs)
	case "sub":
		result = lhs.Sub(rhs)
	case "mul":
		result = lhs.Mul(rhs)
	default:
		// Div/mod/shift/bitwise ops need machinery (divide-by-zero
		// checks, non-linear bit masks) this interval domain doesn't
		// carry; Top is the sound fallback.
		result = interval.Top[number.Z]()
	}
	v.d.Scalars = v.d.Scalars.Set(s.Result, result)
}

func (v *valueVisitor) VisitIntCompare(s ar.Statement) {
	if s.Result == nil {
		return
	}
	v.d.Scalars = v.d.Scalars.Set(s.Result, boolInterval())
}

func (v *valueVisitor) VisitAssign(s ar.Statement) {
	if s.Result == nil || len(s.Operands) == 0 {
		return
	}
	v.d.Scalars = v.d.Scalars.Set(s.Result, operandValue(v.d, s.Operands[0]))
}

func (v *valueVisitor) VisitConv(s ar.Statement) {
	if s.Result == nil || len(s.Operands) == 0 {
		return
	}
	switch s.Conv {
	case ar.IntToPtr, ar.PtrToInt:
		// The result's points-to identity (if any) is already seeded
		// from the bundle-wide solve; this scalar domain doesn't model
		// integer<->pointer round-tripping precisely.
	default:
		v.d.Scalars = v.d.Scalars.Set(s.Result, operandValue(v.d, s.Operands[0]))
	}
}

func (v *valueVisitor) VisitPointerShift(ar.Statement) {
	// generateConstraints emits a Copy constraint for PointerShift, so
	// the shifted pointer's points-to set is already seeded; this
	// minimal AR has no per-access offset field to refine further.
}

func (v *valueVisitor) VisitLoad(s ar.Statement) {
	if s.Result == nil || len(s.Operands) == 0 || s.Operands[0].IsConst() {
		return
	}
	d, val := v.d.Read(s.Operands[0].Var, zeroOffset(), wordSize)
	v.d = d
	v.d.Scalars = v.d.Scalars.Set(s.Result, val)
}

func (v *valueVisitor) VisitStore(s ar.Statement) {
	if len(s.Operands) < 2 || s.Operands[0].IsConst() {
		return
	}
	val := operandValue(v.d, s.Operands[1])
	v.d = v.d.Write(s.Operands[0].Var, zeroOffset(), wordSize, val)
}

func (v *valueVisitor) VisitMemcpy(s ar.Statement)  { v.copyLike(s, false) }
func (v *valueVisitor) VisitMemmove(s ar.Statement) { v.copyLike(s, true) }

func (v *valueVisitor) copyLike(s ar.Statement, move bool) {
	if len(s.Operands) < 2 || s.Operands[0].IsConst() || s.Operands[1].IsConst() {
		return
	}
	size := operandValue(v.d, s.Size)
	if move {
		v.d = v.d.Memmove(s.Operands[0].Var, s.Operands[1].Var, zeroOffset(), zeroOffset(), size)
	} else {
		v.d = v.d.Memcpy(s.Operands[0].Var, s.Operands[1].Var, zeroOffset(), zeroOffset(), size)
	}
}

func (v *valueVisitor) VisitMemset(s ar.Statement) {
	if len(s.Operands) == 0 || s.Operands[0].IsConst() {
		return
	}
	size := operandValue(v.d, s.Size)
	v.d = v.d.Memset(s.Operands[0].Var, zeroOffset(), size)
}

func (v *valueVisitor) VisitAbstractVariable(s ar.Statement) {
	if s.Result != nil {
		v.d.Scalars = v.d.Scalars.Forget(s.Result)
	}
}

func (v *valueVisitor) VisitAbstractMemory(s ar.Statement) {
	if len(s.Operands) == 0 || s.Operands[0].IsConst() {
		return
	}
	v.d = v.d.Memset(s.Operands[0].Var, interval.Top[number.Z](), interval.Top[number.Z]())
}

func (v *valueVisitor) VisitReturnValue(s ar.Statement) {
	if len(s.Operands) == 0 {
		return
	}
	val := operandValue(v.d, s.Operands[0])
	v.returned = &val
}

func (v *valueVisitor) VisitUnreachable(ar.Statement) {
	v.unreachable = true
}

func (v *valueVisitor) VisitCall(s ar.Statement)   { v.call(s) }
func (v *valueVisitor) VisitInvoke(s ar.Statement) { v.call(s) }

// call resolves s's candidate callees (direct name, or the deep
// PointerAnalysis's per-call-site candidates for an indirect call) and
// dispatches each to the allocator/inline/havoc handling spec §4.8
// assigns it.
func (v *valueVisitor) call(s ar.Statement) {
	callees := v.resolveCallees(s)
	if len(callees) == 0 {
		v.havoc(s)
		return
	}

	allAllocators := true
	for _, name := range callees {
		if IsAllocator(name) {
			v.allocate(s, name)
		} else {
			allAllocators = false
		}
	}
	if allAllocators {
		return
	}
	if v.ctx.strategy == Inline && s.Callee != "" && len(callees) == 1 && v.inline(s, callees[0]) {
		return
	}
	v.havoc(s)
}

func (v *valueVisitor) resolveCallees(s ar.Statement) []string {
	if s.Callee != "" {
		return []string{s.Callee}
	}
	if info, ok := v.ctx.info[v.fn.Name]; ok {
		return info.Candidates[s.ID]
	}
	return nil
}

// allocate mints a fresh heap location for a recognized allocator's
// result. generateCallConstraints deliberately skips allocator callees
// (see pointeranalysis.go), so nothing seeded this var's Ptr already;
// the value analysis is the one place that does.
func (v *valueVisitor) allocate(s ar.Statement, calleeName string) {
	if s.Result == nil {
		return
	}
	loc := v.ctx.lf.Fresh(v.fn.Name + "$" + calleeName + "#" + strconv.Itoa(s.ID))
	v.d.Ptr = v.d.Ptr.Set(s.Result, v.d.Ptr.Get(s.Result).Join(discrete.Of(loc)))
}

// inline virtually substitutes callee's CFG at this call site: a fresh
// nested run starting from the caller's current state (with formals
// bound to the actuals' values) stands in for the call, and its exit
// state becomes the caller's new state. Guarded by ctx.inProgress against
// direct and mutual recursion, where it falls back to havoc instead.
func (v *valueVisitor) inline(s ar.Statement, calleeName string) bool {
	if v.ctx.inProgress[calleeName] {
		return false
	}
	callee, ok := v.ctx.bundle.Function(calleeName)
	if !ok || callee.IsDecl() {
		return false
	}

	entry := v.d
	for i, arg := range s.Args {
		if i >= len(callee.Params) || arg.IsConst() {
			continue
		}
		formal := paramVar(v.ctx.vf, callee, i)
		entry.Scalars = entry.Scalars.Set(formal, operandValue(v.d, arg))
	}

	v.ctx.inProgress[calleeName] = true
	exit, returned := runFunction(callee, v.ctx, entry)
	delete(v.ctx.inProgress, calleeName)

	v.d = exit
	if s.Result != nil && returned != nil {
		v.d.Scalars = v.d.Scalars.Set(s.Result, *returned)
	}
	return true
}

// havoc is the context_insensitive (or recursion-guarded-inline
// fallback) treatment: the call's result is forgotten, and every pointer
// argument's destination memory is forgotten too, since an opaque callee
// could have written through it. Memset's finite-bound requirement makes
// the memory forget a documented ignore() rather than a precise kill
// when an argument's offset/size can't be bounded -- sound, not precise.
func (v *valueVisitor) havoc(s ar.Statement) {
	if s.Result != nil {
		v.d.Scalars = v.d.Scalars.Forget(s.Result)
	}
	for _, arg := range s.Args {
		if arg.IsConst() {
			continue
		}
		v.d = v.d.Memset(arg.Var, interval.Top[number.Z](), interval.Top[number.Z]())
	}
}
