package pipeline

import (
	"testing"

	"ikos/internal/memory"
	"ikos/internal/varid"
)

func TestRunProducesEveryPassResultForEachFunction(t *testing.T) {
	vf := varid.NewFactory()
	bundle, _, _ := allocAndCallBundle(vf)
	lf := memory.NewLocFactory()

	result := Run(bundle, vf, lf, Options{
		Strategy:    ContextInsensitive,
		Concurrency: 2,
	})

	for _, name := range []string{"main", "helper"} {
		if _, ok := result.Liveness[name]; !ok {
			t.Errorf("missing liveness result for %s", name)
		}
		if _, ok := result.FunctionPointers[name]; !ok {
			t.Errorf("missing fast pointer-info for %s", name)
		}
		if _, ok := result.Values[name]; !ok {
			t.Errorf("missing value-analysis result for %s", name)
		}
	}
	if result.Pointers.Solved == nil {
		t.Error("Pointers.Solved should be populated")
	}
}

func TestRunSequentialAndConcurrentAgree(t *testing.T) {
	vf1 := varid.NewFactory()
	bundle1, _, _ := allocAndCallBundle(vf1)
	lf1 := memory.NewLocFactory()
	seq := Run(bundle1, vf1, lf1, Options{Strategy: ContextInsensitive, Concurrency: 1})

	vf2 := varid.NewFactory()
	bundle2, _, _ := allocAndCallBundle(vf2)
	lf2 := memory.NewLocFactory()
	par := Run(bundle2, vf2, lf2, Options{Strategy: ContextInsensitive, Concurrency: 4})

	if len(seq.Values) != len(par.Values) {
		t.Errorf("sequential produced %d function results, concurrent produced %d", len(seq.Values), len(par.Values))
	}
}
