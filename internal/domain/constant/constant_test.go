package constant

import (
	"testing"

	"ikos/internal/number"
)

func TestJoinSameValueStaysExact(t *testing.T) {
	a := Of(number.NewZ(5))
	b := Of(number.NewZ(5))
	if !a.Join(b).Equal(a) {
		t.Errorf("join of equal constants should stay exact: %s", a.Join(b))
	}
}

func TestJoinDifferentValuesGoesTop(t *testing.T) {
	a := Of(number.NewZ(5))
	b := Of(number.NewZ(6))
	if !a.Join(b).IsTop() {
		t.Error("join of distinct constants should be top")
	}
}

func TestChangedDetectsTransition(t *testing.T) {
	a := Of(number.NewZ(1))
	b := Of(number.NewZ(2))
	if !Changed(a, b) {
		t.Error("expected a change between distinct constants")
	}
	if Changed(a, a) {
		t.Error("expected no change between equal constants")
	}
	if !Changed(a, Top()) {
		t.Error("transition into top should count as a change")
	}
}

func TestBottomIdentity(t *testing.T) {
	bot := Bottom()
	a := Of(number.NewZ(3))
	if !bot.Join(a).Equal(a) {
		t.Error("_|_ join a should be a")
	}
	if !bot.Meet(a).IsBottom() {
		t.Error("_|_ meet a should be _|_")
	}
}
