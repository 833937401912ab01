package number

import "testing"

func TestZArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int64
		op       func(a, b Z) Z
		expected int64
	}{
		{"add", 3, 4, func(a, b Z) Z { return a.Add(b) }, 7},
		{"sub", 10, 3, func(a, b Z) Z { return a.Sub(b) }, 7},
		{"mul", 6, 7, func(a, b Z) Z { return a.Mul(b) }, 42},
		{"neg", 5, 0, func(a, b Z) Z { return a.Neg() }, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op(NewZ(tt.a), NewZ(tt.b))
			if v, ok := got.Int64(); !ok || v != tt.expected {
				t.Errorf("got %v, want %d", got, tt.expected)
			}
		})
	}
}

func TestZDivTruncatesTowardZero(t *testing.T) {
	q, err := NewZ(-7).Div(NewZ(2))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := q.Int64(); v != -3 {
		t.Errorf("-7/2 = %d, want -3", v)
	}
}

func TestZModIsEuclidean(t *testing.T) {
	r, err := NewZ(-7).Mod(NewZ(3))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Int64(); v != 2 {
		t.Errorf("-7 mod 3 = %d, want 2", v)
	}
}

func TestZDivisionByZero(t *testing.T) {
	if _, err := NewZ(1).Div(NewZ(0)); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestQReducedForm(t *testing.T) {
	q, err := NewQ(NewZ(4), NewZ(8))
	if err != nil {
		t.Fatal(err)
	}
	if q.Num().Cmp(NewZ(1)) != 0 || q.Den().Cmp(NewZ(2)) != 0 {
		t.Errorf("4/8 reduced to %s, want 1/2", q)
	}
}

func TestQArithmetic(t *testing.T) {
	a, _ := NewQ(NewZ(1), NewZ(2))
	b, _ := NewQ(NewZ(1), NewZ(3))
	sum := a.Add(b)
	want, _ := NewQ(NewZ(5), NewZ(6))
	if !sum.Equal(want) {
		t.Errorf("1/2+1/3 = %s, want %s", sum, want)
	}
}

func TestMachineIntWrapping(t *testing.T) {
	m := NewMachineInt(NewZ(200), 8, false)
	if v, _ := m.Value().Int64(); v != 200 {
		t.Errorf("200 at u8 = %d, want 200", v)
	}
	m2 := NewMachineInt(NewZ(256), 8, false)
	if v, _ := m2.Value().Int64(); v != 0 {
		t.Errorf("256 at u8 = %d, want 0 (wraps)", v)
	}
	signed := NewMachineInt(NewZ(200), 8, true)
	if v, _ := signed.Value().Int64(); v != -56 {
		t.Errorf("200 at i8 = %d, want -56", v)
	}
}

func TestMachineIntAddNoWrapOverflows(t *testing.T) {
	a := NewMachineInt(NewZ(127), 8, true)
	one := NewMachineInt(NewZ(1), 8, true)
	if _, err := a.AddNoWrap(one); err == nil {
		t.Fatal("expected overflow error for 127+1 at i8")
	}
	wrapped := a.Add(one)
	if v, _ := wrapped.Value().Int64(); v != -128 {
		t.Errorf("127+1 wrapped = %d, want -128", v)
	}
}

func TestMachineIntSignCastAndTrunc(t *testing.T) {
	u := NewMachineInt(NewZ(255), 8, false)
	s := u.SignCast()
	if v, _ := s.Value().Int64(); v != -1 {
		t.Errorf("sign_cast(255 u8) = %d, want -1", v)
	}
	wide := NewMachineInt(NewZ(-1), 16, true)
	narrow := wide.Trunc(8)
	if v, _ := narrow.Value().Int64(); v != -1 {
		t.Errorf("trunc(-1 i16, 8) = %d, want -1", v)
	}
}

func TestMachineIntUDivReinterprets(t *testing.T) {
	neg1 := NewMachineInt(NewZ(-1), 8, true) // 0xFF
	two := NewMachineInt(NewZ(2), 8, true)
	q, err := neg1.UDiv(two)
	if err != nil {
		t.Fatal(err)
	}
	// 0xFF = 255 unsigned; 255/2 = 127
	if v, _ := q.Value().Int64(); v != 127 {
		t.Errorf("udiv(0xFF,2) = %d, want 127", v)
	}
}

func TestBoundOrdering(t *testing.T) {
	lo := MinusInfinity[Z]()
	hi := PlusInfinity[Z]()
	mid := Finite(NewZ(5))
	if !lo.Lt(mid) || !mid.Lt(hi) {
		t.Fatal("expected -oo < 5 < +oo")
	}
}

func TestBoundAddInfinityContradiction(t *testing.T) {
	lo := MinusInfinity[Z]()
	hi := PlusInfinity[Z]()
	if _, err := lo.Add(hi); err == nil {
		t.Fatal("expected -oo + +oo to be a domain error")
	}
}

func TestBoundMinMax(t *testing.T) {
	a := Finite(NewZ(3))
	b := Finite(NewZ(7))
	if a.Min(b).Cmp(a) != 0 {
		t.Error("min(3,7) should be 3")
	}
	if a.Max(b).Cmp(b) != 0 {
		t.Error("max(3,7) should be 7")
	}
}
