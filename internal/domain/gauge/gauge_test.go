package gauge

import (
	"testing"

	"ikos/internal/number"
	"ikos/internal/varid"
)

func z(x int64) number.Z { return number.NewZ(x) }

func TestConstOrdering(t *testing.T) {
	a := Const(z(1))
	b := Const(z(5))
	if !leqBound(a, b) {
		t.Error("1 should be <= 5")
	}
	if leqBound(b, a) {
		t.Error("5 should not be <= 1")
	}
}

func TestJoinOfDifferentConstantsIsNumeric(t *testing.T) {
	a := Of(Const(z(1)), Const(z(5)))
	b := Of(Const(z(2)), Const(z(8)))
	got := a.Join(b)
	if !got.LB().Equal(Const(z(1))) {
		t.Errorf("lb = %s, want 1", got.LB())
	}
	if !got.UB().Equal(Const(z(8))) {
		t.Errorf("ub = %s, want 8", got.UB())
	}
}

func TestJoinOfIncomparableVariableExprsFallsBackToInfinity(t *testing.T) {
	f := varid.NewFactory()
	i := f.Get("i")
	j := f.Get("j")
	a := Of(OfVar(z(1), i), OfVar(z(1), i))
	b := Of(OfVar(z(1), j), OfVar(z(1), j))
	got := a.Join(b)
	if !got.LB().IsMinusInfinity() {
		t.Errorf("expected -oo for incomparable lower bounds, got %s", got.LB())
	}
	if !got.UB().IsPlusInfinity() {
		t.Errorf("expected +oo for incomparable upper bounds, got %s", got.UB())
	}
}

func TestIncrementCounterSubstitutes(t *testing.T) {
	f := varid.NewFactory()
	i := f.Get("i")
	g := Of(Const(z(0)), OfVar(z(1), i))
	got := g.IncrementCounter(i, z(1), z(1).One())
	// ub was `i`, should become `i + 1`.
	want := OfVar(z(1), i).Add(Const(z(1)))
	if !got.UB().Equal(want) {
		t.Errorf("ub = %s, want %s", got.UB(), want)
	}
}

func TestBottomIdentityForJoin(t *testing.T) {
	a := Of(Const(z(1)), Const(z(5)))
	bot := Bottom[number.Z]()
	if !bot.Join(a).Equal(a) {
		t.Error("_|_ join a should be a")
	}
}

func TestWideningGrowsUnstableBound(t *testing.T) {
	a := Of(Const(z(0)), Const(z(0)))
	b := Of(Const(z(0)), Const(z(1)))
	got := a.Widen(b)
	if !got.UB().IsPlusInfinity() {
		t.Errorf("expected +oo after widening a growing upper bound, got %s", got.UB())
	}
}
