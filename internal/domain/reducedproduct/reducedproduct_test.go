package reducedproduct

import (
	"testing"

	"ikos/internal/domain/congruence"
	"ikos/internal/number"
	"ikos/internal/varid"
)

func z(x int64) number.Z { return number.NewZ(x) }
func fin(x int64) number.Bound[number.Z] { return number.Finite(z(x)) }

func TestReduceTightensIntervalAgainstCongruence(t *testing.T) {
	f := varid.NewFactory()
	x := f.Get("x")
	r := Top[number.Z](z(0), z(1))
	r = r.SetInterval(x, fin(0), fin(10))
	r = r.SetCongruence(x, congruence.Of(z(3), z(2))) // x in {2, 5, 8}
	r = r.Reduce()
	lb, ub := r.DBM().Get(x)
	if !lb.Equal(fin(2)) {
		t.Errorf("lb = %s, want 2", lb)
	}
	if !ub.Equal(fin(8)) {
		t.Errorf("ub = %s, want 8", ub)
	}
}

func TestMeetDetectsContradiction(t *testing.T) {
	f := varid.NewFactory()
	x := f.Get("x")
	a := Top[number.Z](z(0), z(1)).SetInterval(x, fin(0), fin(1)).SetCongruence(x, congruence.Of(z(0), z(5)))
	b := Top[number.Z](z(0), z(1))
	got := a.Meet(b)
	if !got.IsBottom() {
		t.Error("interval [0,1] with congruence {5} should be unsatisfiable")
	}
}

func TestJoinGeneralizesCongruenceComponent(t *testing.T) {
	f := varid.NewFactory()
	x := f.Get("x")
	a := Top[number.Z](z(0), z(1)).SetCongruence(x, congruence.Singleton(z(2)))
	b := Top[number.Z](z(0), z(1)).SetCongruence(x, congruence.Singleton(z(4)))
	got := a.Join(b)
	c := got.Congruence(x)
	if !c.Contains(z(2)) || !c.Contains(z(4)) {
		t.Errorf("joined congruence %s should contain both 2 and 4", c)
	}
}

func TestBottomPropagatesFromEitherComponent(t *testing.T) {
	bot := Bottom[number.Z](z(0), z(1))
	if !bot.IsBottom() {
		t.Error("Bottom() should report bottom")
	}
}

func TestLeqReflexive(t *testing.T) {
	f := varid.NewFactory()
	x := f.Get("x")
	a := Top[number.Z](z(0), z(1)).SetInterval(x, fin(0), fin(5))
	if !a.Leq(a) {
		t.Error("a should be <= itself")
	}
}
