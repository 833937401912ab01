// internal/number/q.go
package number

import (
	"ikos/internal/ikoserr"
)

// Q is a rational number, always kept reduced with a strictly positive
// denominator.
type Q struct {
	num Z
	den Z // always > 0
}

// ZeroQ is the additive identity.
var ZeroQ = Q{num: ZeroZ, den: NewZ(1)}

// NewQ builds a reduced rational num/den.
func NewQ(num, den Z) (Q, error) {
	if den.IsZero() {
		return Q{}, ikoserr.New(ikoserr.DivisionByZero, "rational with zero denominator")
	}
	return reduce(num, den), nil
}

// NewQFromZ lifts an integer into Q.
func NewQFromZ(z Z) Q { return Q{num: z, den: NewZ(1)} }

func reduce(num, den Z) Q {
	if den.IsNeg() {
		num, den = num.Neg(), den.Neg()
	}
	if num.IsZero() {
		return Q{num: ZeroZ, den: NewZ(1)}
	}
	g := num.Gcd(den)
	if g.IsZero() || g.Equal(NewZ(1)) {
		return Q{num: num, den: den}
	}
	n, _ := num.Div(g)
	d, _ := den.Div(g)
	return Q{num: n, den: d}
}

func (q Q) Num() Z { return q.num }
func (q Q) Den() Z {
	if q.den.IsZero() {
		return NewZ(1)
	}
	return q.den
}

func (q Q) IsZero() bool { return q.num.IsZero() }
func (q Q) Sign() int    { return q.num.Sign() }

func (q Q) String() string {
	if q.Den().Equal(NewZ(1)) {
		return q.num.String()
	}
	return q.num.String() + "/" + q.Den().String()
}

func (q Q) Add(o Q) Q {
	return reduce(q.num.Mul(o.Den()).Add(o.num.Mul(q.Den())), q.Den().Mul(o.Den()))
}

func (q Q) Sub(o Q) Q {
	return reduce(q.num.Mul(o.Den()).Sub(o.num.Mul(q.Den())), q.Den().Mul(o.Den()))
}

func (q Q) Mul(o Q) Q {
	return reduce(q.num.Mul(o.num), q.Den().Mul(o.Den()))
}

func (q Q) Div(o Q) (Q, error) {
	if o.IsZero() {
		return Q{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero")
	}
	return reduce(q.num.Mul(o.Den()), q.Den().Mul(o.num)), nil
}

func (q Q) Neg() Q { return Q{num: q.num.Neg(), den: q.Den()} }
func (q Q) Abs() Q { return Q{num: q.num.Abs(), den: q.Den()} }

// Cmp compares q and o as rationals.
func (q Q) Cmp(o Q) int {
	lhs := q.num.Mul(o.Den())
	rhs := o.num.Mul(q.Den())
	return lhs.Cmp(rhs)
}

func (q Q) Equal(o Q) bool { return q.Cmp(o) == 0 }

func (q Q) Min(o Q) Q {
	if q.Cmp(o) <= 0 {
		return q
	}
	return o
}

func (q Q) Max(o Q) Q {
	if q.Cmp(o) >= 0 {
		return q
	}
	return o
}

// DivFloor and DivCeil are exact for Q (a dense field); both return the
// same value as Div, named to satisfy the same rounding-division contract
// Z provides so generic code (internal/linear's solver) can treat Z and Q
// uniformly.
func (q Q) DivFloor(o Q) (Q, error) { return q.Div(o) }
func (q Q) DivCeil(o Q) (Q, error)  { return q.Div(o) }

// Floor returns the greatest Z <= q.
func (q Q) Floor() Z {
	n, r := q.num, q.Den()
	quot, _ := n.Div(r)
	rem, _ := n.Rem(r)
	if rem.IsNeg() {
		quot = quot.Sub(NewZ(1))
	}
	return quot
}

// Ceil returns the least Z >= q.
func (q Q) Ceil() Z {
	return q.Neg().Floor().Neg()
}
