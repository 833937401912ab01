package fixpoint

import (
	"testing"

	"ikos/internal/domain/interval"
	"ikos/internal/number"
)

type itv = interval.Interval[number.Z]

func one() itv { return interval.Singleton(number.NewZ(1)) }

func TestRunLinearChainJoinsWithoutWidening(t *testing.T) {
	succs := map[string][]string{"a": {"b"}, "b": {}}
	transfer := func(node string, in itv) itv { return in }

	e := NewEngine[itv](func(n string) []string { return succs[n] }, transfer, interval.Bottom[number.Z](), Policy{})
	wto := Build("a", func(n string) []string { return succs[n] })
	e.Run("a", wto, interval.Singleton(number.NewZ(0)))

	if got := e.Pre("b"); !got.Equal(interval.Singleton(number.NewZ(0))) {
		t.Errorf("Pre(b) = %s, want {0}", got)
	}
}

func TestRunSelfLoopWidensThenStabilizes(t *testing.T) {
	succs := map[string][]string{"h": {"h"}}
	transfer := func(node string, in itv) itv { return in.Add(one()) }

	e := NewEngine[itv](func(n string) []string { return succs[n] }, transfer, interval.Bottom[number.Z](), Policy{})
	wto := Build("h", func(n string) []string { return succs[n] })
	if len(wto) != 1 || !wto[0].Cycle {
		t.Fatalf("expected a single self-loop cycle, got %+v", wto)
	}

	e.Run("h", wto, interval.Singleton(number.NewZ(0)))

	got := e.Pre("h")
	if !got.UB().IsPlusInfinity() {
		t.Errorf("Pre(h).UB() = %s, want +infinity after widening", got.UB())
	}
	if got.LB().IsFinite() && got.LB().FiniteValue().Cmp(number.NewZ(0)) != 0 {
		t.Errorf("Pre(h).LB() = %s, want 0 (never moved)", got.LB())
	}
}

func TestDelayForOverridesPolicyPerHead(t *testing.T) {
	succs := map[string][]string{"h": {"h"}}
	transfer := func(node string, in itv) itv { return in.Add(one()) }

	e := NewEngine[itv](func(n string) []string { return succs[n] }, transfer, interval.Bottom[number.Z](), Policy{})
	e.DelayFor = func(head string) int { return 3 }
	wto := Build("h", func(n string) []string { return succs[n] })
	e.Run("h", wto, interval.Singleton(number.NewZ(0)))

	if !e.Pre("h").UB().IsPlusInfinity() {
		t.Error("expected eventual widening to +infinity even with a longer delay")
	}
}
