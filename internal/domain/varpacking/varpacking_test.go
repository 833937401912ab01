package varpacking

import (
	"testing"

	"ikos/internal/domain/dbm"
	"ikos/internal/number"
	"ikos/internal/varid"
)

func fin(x int64) number.Bound[number.Z] { return number.Finite(number.NewZ(x)) }

func TestUnionFindGroupsVariables(t *testing.T) {
	f := varid.NewFactory()
	x, y, z := f.Get("x"), f.Get("y"), f.Get("z")
	p := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)))
	p.Union(x, y)
	if !p.SameClass(x, y) {
		t.Error("x and y should be in the same class after Union")
	}
	if p.SameClass(x, z) {
		t.Error("x and z were never unioned")
	}
}

func TestUnionIsTransitive(t *testing.T) {
	f := varid.NewFactory()
	x, y, z := f.Get("x"), f.Get("y"), f.Get("z")
	p := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)))
	p.Union(x, y)
	p.Union(y, z)
	if !p.SameClass(x, z) {
		t.Error("union should be transitive: x~y, y~z implies x~z")
	}
}

func TestInnerDomainOperationsDelegate(t *testing.T) {
	f := varid.NewFactory()
	x := f.Get("x")
	a := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)).SetInterval(x, fin(1), fin(5)))
	b := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)).SetInterval(x, fin(2), fin(8)))
	got := a.Join(b)
	lb, ub := got.Inner().Get(x)
	if !lb.Equal(fin(1)) || !ub.Equal(fin(8)) {
		t.Errorf("got [%s, %s], want [1, 8]", lb, ub)
	}
}

func TestJoinMergesPartitionKnowledge(t *testing.T) {
	f := varid.NewFactory()
	x, y := f.Get("x"), f.Get("y")
	a := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)))
	a.Union(x, y)
	b := New[dbm.DBM[number.Z]](dbm.Top[number.Z](number.NewZ(0)))
	got := a.Join(b)
	if !got.SameClass(x, y) {
		t.Error("join should keep partition knowledge learned by either operand")
	}
}

func TestBottomPropagates(t *testing.T) {
	bot := New[dbm.DBM[number.Z]](dbm.Bottom[number.Z](number.NewZ(0)))
	if !bot.IsBottom() {
		t.Error("wrapping a bottom inner domain should report bottom")
	}
}
