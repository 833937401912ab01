package pointer

import (
	"testing"

	"ikos/internal/domain/interval"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/varid"
)

func zero() interval.Interval[number.Z] { return interval.Singleton(number.NewZ(0)) }

func TestAddrOfThenCopyPropagates(t *testing.T) {
	vf := varid.NewFactory()
	lf := memory.NewLocFactory()
	p, q := vf.Get("p"), vf.Get("q")
	a := lf.Get("a")

	s := NewSolver()
	s.Add(NewAddrOf(p, a))
	s.Add(NewCopy(q, p, zero()))
	r := s.Solve()

	got := r.PointsTo(q)
	if len(got) != 1 || got[0] != a {
		t.Errorf("PointsTo(q) = %v, want [a]", got)
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	vf := varid.NewFactory()
	lf := memory.NewLocFactory()
	p, q, r1 := vf.Get("p"), vf.Get("q"), vf.Get("r")
	obj, target := lf.Get("obj"), lf.Get("target")

	s := NewSolver()
	s.Add(NewAddrOf(p, obj))     // p = &obj
	s.Add(NewAddrOf(q, target))  // q = &target
	s.Add(NewStore(p, q, zero())) // *p = q  (obj now "contains" target)
	s.Add(NewLoad(r1, p, zero())) // r = *p
	res := s.Solve()

	got := res.PointsTo(r1)
	if len(got) != 1 || got[0] != target {
		t.Errorf("PointsTo(r) = %v, want [target]", got)
	}
}

func TestCopyChainTransitivelyPropagates(t *testing.T) {
	vf := varid.NewFactory()
	lf := memory.NewLocFactory()
	a, b, c := vf.Get("a"), vf.Get("b"), vf.Get("c")
	obj := lf.Get("obj")

	s := NewSolver()
	s.Add(NewAddrOf(a, obj))
	s.Add(NewCopy(b, a, zero()))
	s.Add(NewCopy(c, b, zero()))
	res := s.Solve()

	got := res.PointsTo(c)
	if len(got) != 1 || got[0] != obj {
		t.Errorf("PointsTo(c) = %v, want [obj]", got)
	}
}

func TestAddrOfFuncTracksFunctionTargets(t *testing.T) {
	vf := varid.NewFactory()
	p := vf.Get("fp")

	s := NewSolver()
	s.Add(NewAddrOfFunc(p, "callback"))
	res := s.Solve()

	got := res.Funcs(p)
	if len(got) != 1 || got[0] != "callback" {
		t.Errorf("Funcs(fp) = %v, want [callback]", got)
	}
}

func TestBindParamAndBindReturnAreCopies(t *testing.T) {
	vf := varid.NewFactory()
	lf := memory.NewLocFactory()
	actual, formal, retVar, caller := vf.Get("actual"), vf.Get("formal"), vf.Get("retVal"), vf.Get("caller")
	obj := lf.Get("obj")

	s := NewSolver()
	s.Add(NewAddrOf(actual, obj))
	s.Add(BindParam(formal, actual))
	s.Add(NewAddrOf(retVar, obj))
	s.Add(BindReturn(caller, retVar))
	res := s.Solve()

	if got := res.PointsTo(formal); len(got) != 1 || got[0] != obj {
		t.Errorf("PointsTo(formal) = %v, want [obj]", got)
	}
	if got := res.PointsTo(caller); len(got) != 1 || got[0] != obj {
		t.Errorf("PointsTo(caller) = %v, want [obj]", got)
	}
}
