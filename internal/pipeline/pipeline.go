// internal/pipeline/pipeline.go
// Pipeline orchestrates spec §4.8's four ordered passes over a bundle:
// Liveness and the fast FunctionPointer pass first (independent per
// function, fanned out via internal/fixpoint.RunBundle), then the
// bundle-wide PointerAnalysis, then ValueAnalysis. Grounded on
// analyzer/include/analyzer/analysis/pass_manager.hpp's fixed pass
// ordering and on sentra's top-level compiler driver for the
// options-struct/Run shape.
package pipeline

import (
	"sync"

	"ikos/internal/ar"
	"ikos/internal/fixpoint"
	"ikos/internal/memory"
	"ikos/internal/varid"
)

// Options configures one Pipeline run, corresponding to the widening
// delay/period, narrowing cap, call-handling strategy, and thread count
// spec §6.1's CLI flags set.
type Options struct {
	Strategy    CallStrategy
	Policy      fixpoint.Policy
	DelayFor    func(string) int
	Concurrency int
	ScalarKind  memory.ScalarKind
}

// Result collects every pass's output, keyed by function name for the
// per-function passes.
type Result struct {
	Liveness         map[string]FunctionLiveness
	FunctionPointers map[string]PointerInfo
	Pointers         PointerAnalysisResult
	Values           map[string]memory.Domain
}

// Run drives all four passes over bundle in order and returns their
// combined results.
func Run(bundle *ar.Bundle, vf *varid.Factory, lf *memory.LocFactory, opts Options) Result {
	names := definedFunctionNames(bundle)

	liveness := make(map[string]FunctionLiveness, len(names))
	fastPointers := make(map[string]PointerInfo, len(names))
	var mu sync.Mutex

	_ = fixpoint.RunBundle(names, opts.Concurrency, func(name string) error {
		fn, ok := bundle.Function(name)
		if !ok {
			return nil
		}
		live := AnalyzeLiveness(fn)
		fast := AnalyzeFunctionPointers(fn)

		mu.Lock()
		liveness[name] = live
		fastPointers[name] = fast
		mu.Unlock()
		return nil
	})

	pointers := AnalyzePointers(bundle, vf, lf, fastPointers)
	values := AnalyzeValue(bundle, vf, lf, pointers, opts.Strategy, opts.Policy, opts.DelayFor, opts.ScalarKind)

	return Result{
		Liveness:         liveness,
		FunctionPointers: fastPointers,
		Pointers:         pointers,
		Values:           values,
	}
}

func definedFunctionNames(bundle *ar.Bundle) []string {
	names := make([]string, 0, len(bundle.Functions))
	for _, fn := range bundle.Functions {
		if !fn.IsDecl() {
			names = append(names, fn.Name)
		}
	}
	return names
}
