// internal/pipeline/pointeranalysis.go
// Pointer analysis (spec §4.8, pass 3): walks every function in the
// bundle once to generate internal/pointer constraints, solves them
// bundle-wide, and produces the PointerInfo the value analysis trusts
// for indirect calls (overwriting AnalyzeFunctionPointers' fast guess).
package pipeline

import (
	"strconv"

	"ikos/internal/ar"
	"ikos/internal/domain/interval"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/pointer"
	"ikos/internal/varid"
)

// allocatorNames are the well-known library stubs spec §4.8 calls out
// as needing a fresh heap memory location instead of being havoced like
// an ordinary opaque call.
var allocatorNames = map[string]bool{
	"malloc":                      true,
	"calloc":                      true,
	"_Znwm":                       true,
	"__cxa_allocate_exception":    true,
}

func IsAllocator(name string) bool { return allocatorNames[name] }

// paramVar names the formal parameter variable a callee's body
// references; the convention (functionName + "$param" + index) is
// established once here and relied on by both constraint generation and
// the value analysis's call-binding step.
func paramVar(vf *varid.Factory, fn *ar.Function, index int) varid.Var {
	return vf.Get(fn.Name + "$param" + strconv.Itoa(index))
}

func zeroOffset() interval.Interval[number.Z] { return interval.Singleton(number.NewZ(0)) }

// PointerAnalysisResult is the solved bundle-wide points-to graph plus
// the PointerInfo it implies for every indirect call site.
type PointerAnalysisResult struct {
	Solved *pointer.Result
	Info   map[string]PointerInfo // keyed by function name
}

// AnalyzePointers generates and solves constraints for every function in
// bundle. fast supplies the function-pointer pass's candidates for
// indirect calls; vf/lf are the shared variable/location factories so
// constraint variables line up with the value analysis's.
func AnalyzePointers(bundle *ar.Bundle, vf *varid.Factory, lf *memory.LocFactory, fast map[string]PointerInfo) PointerAnalysisResult {
	solver := pointer.NewSolver()
	zero := zeroOffset()

	for _, fn := range bundle.Functions {
		if fn.IsDecl() {
			continue
		}
		for i := range fn.Params {
			_ = paramVar(vf, fn, i) // ensure every formal has a stable var even if never referenced
		}
		for _, b := range fn.CFG.Blocks {
			for _, stmt := range b.Statements {
				generateConstraints(solver, bundle, vf, lf, fn, stmt, fast, zero)
			}
		}
	}

	solved := solver.Solve()
	info := make(map[string]PointerInfo, len(bundle.Functions))
	for _, fn := range bundle.Functions {
		if fn.IsDecl() {
			continue
		}
		info[fn.Name] = resolveIndirectCalls(fn, solved)
	}
	return PointerAnalysisResult{Solved: solved, Info: info}
}

func generateConstraints(
	s *pointer.Solver,
	bundle *ar.Bundle,
	vf *varid.Factory,
	lf *memory.LocFactory,
	fn *ar.Function,
	stmt ar.Statement,
	fast map[string]PointerInfo,
	zero interval.Interval[number.Z],
) {
	switch stmt.Kind {
	case ar.Allocate:
		if stmt.Result != nil {
			s.Add(pointer.NewAddrOf(stmt.Result, lf.Fresh(fn.Name)))
		}
	case ar.Assign, ar.Conv, ar.PointerShift:
		if stmt.Result == nil {
			return
		}
		for _, op := range stmt.Operands {
			if !op.IsConst() {
				s.Add(pointer.NewCopy(stmt.Result, op.Var, zero))
				continue
			}
			if _, ok := bundle.Function(op.Const); ok {
				s.Add(pointer.NewAddrOfFunc(stmt.Result, op.Const))
			}
		}
	case ar.Load:
		if stmt.Result != nil && len(stmt.Operands) > 0 && !stmt.Operands[0].IsConst() {
			s.Add(pointer.NewLoad(stmt.Result, stmt.Operands[0].Var, zero))
		}
	case ar.Store:
		if len(stmt.Operands) >= 2 && !stmt.Operands[0].IsConst() && !stmt.Operands[1].IsConst() {
			s.Add(pointer.NewStore(stmt.Operands[0].Var, stmt.Operands[1].Var, zero))
		}
	case ar.Call, ar.Invoke:
		generateCallConstraints(s, bundle, vf, fn, stmt, fast, zero)
	}
}

func generateCallConstraints(
	s *pointer.Solver,
	bundle *ar.Bundle,
	vf *varid.Factory,
	caller *ar.Function,
	stmt ar.Statement,
	fast map[string]PointerInfo,
	zero interval.Interval[number.Z],
) {
	var callees []string
	if stmt.Callee != "" {
		callees = []string{stmt.Callee}
	} else if info, ok := fast[caller.Name]; ok {
		callees = info.Candidates[stmt.ID]
	}

	for _, name := range callees {
		if IsAllocator(name) {
			continue // the value analysis's call strategy handles allocators directly
		}
		callee, ok := bundle.Function(name)
		if !ok || callee.IsDecl() {
			continue
		}
		for i, arg := range stmt.Args {
			if i >= len(callee.Params) || arg.IsConst() {
				continue
			}
			s.Add(pointer.BindParam(paramVar(vf, callee, i), arg.Var))
		}
		if stmt.Result == nil {
			continue
		}
		for _, b := range callee.CFG.Blocks {
			for _, rs := range b.Statements {
				if rs.Kind == ar.ReturnValue && len(rs.Operands) > 0 && !rs.Operands[0].IsConst() {
					s.Add(pointer.BindReturn(stmt.Result, rs.Operands[0].Var))
				}
			}
		}
	}
}

func resolveIndirectCalls(fn *ar.Function, solved *pointer.Result) PointerInfo {
	info := PointerInfo{Candidates: map[int][]string{}}
	for _, b := range fn.CFG.Blocks {
		for _, s := range b.Statements {
			if _, ok := isIndirectCall(s); ok {
				info.Candidates[s.ID] = solved.Funcs(s.Operands[0].Var)
			}
		}
	}
	return info
}
