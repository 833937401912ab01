package pointer

import (
	"testing"

	"ikos/internal/memory"
	"ikos/internal/varid"
)

func TestVaArgRoundTripsThroughSharedShadowLocation(t *testing.T) {
	vf := varid.NewFactory()
	lf := memory.NewLocFactory()
	actual := vf.Get("extraArg0")
	obj := lf.Get("heapObj")
	result := vf.Get("vaArgResult")

	shadow := Shadow(lf, "printf", ABIx86_64)

	s := NewSolver()
	s.Add(NewAddrOf(actual, obj))
	for _, c := range StoreExtraActual(vf, shadow, 0, 6, actual) {
		s.Add(c)
	}
	for _, c := range LoadVaArg(vf, shadow, 0, 6, result) {
		s.Add(c)
	}
	res := s.Solve()

	got := res.PointsTo(result)
	if len(got) != 1 || got[0] != obj {
		t.Errorf("PointsTo(result) = %v, want [obj]", got)
	}
}

func TestShadowLocationsStableAcrossCalls(t *testing.T) {
	lf := memory.NewLocFactory()
	s1 := Shadow(lf, "fn", ABIx86_64)
	s2 := Shadow(lf, "fn", ABIx86_64)
	if s1.RegSaveArea != s2.RegSaveArea || s1.OverflowArgArea != s2.OverflowArgArea {
		t.Error("shadow locations should be stable for the same function name")
	}
}

func TestX86_32SharesSingleArgsArea(t *testing.T) {
	lf := memory.NewLocFactory()
	s := Shadow(lf, "fn", ABIx86_32)
	if s.RegSaveArea != s.OverflowArgArea {
		t.Error("x86-32 should use a single args_area for both fields")
	}
}
