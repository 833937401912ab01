// internal/number/z.go
// Package number implements the exact-arithmetic number types the rest of
// the analyzer is built on: unbounded integers (Z), rationals (Q), and
// fixed-width machine integers (MachineInt) with explicit wrap/no-wrap
// semantics, plus the Bound[T] extension used by every interval-shaped
// abstract value.
//
// Grounded on core/include/ikos/core/number/z_number.hpp: Z wraps an
// arbitrary-precision integer and exposes truncating division, Euclidean
// mod, gcd/lcm and bit operations as named methods rather than operator
// overloads, the idiom carried over here as plain Go methods on a value
// type backed by math/big.
package number

import (
	"fmt"
	"math/big"

	"ikos/internal/ikoserr"
)

// Z is an arbitrary-precision signed integer.
type Z struct {
	v *big.Int
}

// ZeroZ is the additive identity.
var ZeroZ = Z{}

// NewZ builds a Z from a native int64.
func NewZ(x int64) Z {
	return Z{v: big.NewInt(x)}
}

// NewZFromUint64 builds a Z from a native uint64.
func NewZFromUint64(x uint64) Z {
	return Z{v: new(big.Int).SetUint64(x)}
}

// NewZFromBigInt adopts a *big.Int without copying.
func NewZFromBigInt(v *big.Int) Z {
	if v == nil {
		return Z{}
	}
	return Z{v: v}
}

// ParseZ parses a string in the given base (2..36); base 0 infers from a
// "0x"/"0b"/"0o" prefix, matching the source's arbitrary-base string I/O.
func ParseZ(s string, base int) (Z, error) {
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Z{}, ikoserr.Newf(ikoserr.InvalidInput, "invalid integer literal %q (base %d)", s, base)
	}
	return Z{v: v}, nil
}

func (z Z) big() *big.Int {
	if z.v == nil {
		return big.NewInt(0)
	}
	return z.v
}

// Big exposes the underlying big.Int (read-only by convention).
func (z Z) Big() *big.Int { return new(big.Int).Set(z.big()) }

func (z Z) String() string { return z.big().String() }

// Text renders z in the given base (2..36).
func (z Z) Text(base int) string { return z.big().Text(base) }

func (z Z) Int64() (int64, bool) {
	b := z.big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

func (z Z) IsZero() bool { return z.big().Sign() == 0 }
func (z Z) IsOne() bool  { return z.big().Cmp(big.NewInt(1)) == 0 }

// One returns the multiplicative identity, used by generic code that needs
// a literal 1 of type Z without a package-level constructor on hand.
func (z Z) One() Z { return NewZ(1) }
func (z Z) IsNeg() bool  { return z.big().Sign() < 0 }
func (z Z) IsPos() bool  { return z.big().Sign() > 0 }
func (z Z) Sign() int    { return z.big().Sign() }

func (z Z) Cmp(o Z) int { return z.big().Cmp(o.big()) }
func (z Z) Equal(o Z) bool { return z.Cmp(o) == 0 }

func (z Z) Add(o Z) Z { return Z{v: new(big.Int).Add(z.big(), o.big())} }
func (z Z) Sub(o Z) Z { return Z{v: new(big.Int).Sub(z.big(), o.big())} }
func (z Z) Mul(o Z) Z { return Z{v: new(big.Int).Mul(z.big(), o.big())} }
func (z Z) Neg() Z    { return Z{v: new(big.Int).Neg(z.big())} }
func (z Z) Abs() Z    { return Z{v: new(big.Int).Abs(z.big())} }

// Div truncates toward zero, matching the spec's definition of integer
// division over Z.
func (z Z) Div(o Z) (Z, error) {
	if o.IsZero() {
		return Z{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero")
	}
	return Z{v: new(big.Int).Quo(z.big(), o.big())}, nil
}

// Rem is the remainder of truncating division: sign follows the dividend.
func (z Z) Rem(o Z) (Z, error) {
	if o.IsZero() {
		return Z{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero")
	}
	return Z{v: new(big.Int).Rem(z.big(), o.big())}, nil
}

// Mod returns r with 0 <= r < |b|, the Euclidean remainder.
func (z Z) Mod(o Z) (Z, error) {
	if o.IsZero() {
		return Z{}, ikoserr.New(ikoserr.DivisionByZero, "modulo by zero")
	}
	r := new(big.Int).Mod(z.big(), new(big.Int).Abs(o.big()))
	return Z{v: r}, nil
}

// ExtGCD returns (g, u, v) such that g = gcd(|z|,|o|) and u*z + v*o = g,
// the Bezout coefficients used by the congruence domain's meet (CRT).
func (z Z) ExtGCD(o Z) (g, u, v Z) {
	var x, y big.Int
	gg := new(big.Int).GCD(&x, &y, z.big(), o.big())
	return Z{v: gg}, Z{v: &x}, Z{v: &y}
}

func (z Z) Gcd(o Z) Z {
	return Z{v: new(big.Int).GCD(nil, nil, new(big.Int).Abs(z.big()), new(big.Int).Abs(o.big()))}
}

func (z Z) Lcm(o Z) Z {
	if z.IsZero() || o.IsZero() {
		return ZeroZ
	}
	g := z.Gcd(o)
	q := new(big.Int).Div(z.big(), g.big())
	return Z{v: new(big.Int).Abs(new(big.Int).Mul(q, o.big()))}
}

// Shl shifts left by a non-negative amount.
func (z Z) Shl(amount uint) Z { return Z{v: new(big.Int).Lsh(z.big(), amount)} }

// Shr shifts right (arithmetic) by a non-negative amount.
func (z Z) Shr(amount uint) Z { return Z{v: new(big.Int).Rsh(z.big(), amount)} }

func (z Z) And(o Z) Z { return Z{v: new(big.Int).And(z.big(), o.big())} }
func (z Z) Or(o Z) Z  { return Z{v: new(big.Int).Or(z.big(), o.big())} }
func (z Z) Xor(o Z) Z { return Z{v: new(big.Int).Xor(z.big(), o.big())} }

// DivFloor rounds the exact quotient toward -infinity.
func (z Z) DivFloor(o Z) (Z, error) {
	if o.IsZero() {
		return Z{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero")
	}
	q, _ := z.Div(o)
	r, _ := z.Rem(o)
	if !r.IsZero() && (r.IsNeg() != o.IsNeg()) {
		q = q.Sub(NewZ(1))
	}
	return q, nil
}

// DivCeil rounds the exact quotient toward +infinity.
func (z Z) DivCeil(o Z) (Z, error) {
	if o.IsZero() {
		return Z{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero")
	}
	q, _ := z.Div(o)
	r, _ := z.Rem(o)
	if !r.IsZero() && (r.IsNeg() == o.IsNeg()) {
		q = q.Add(NewZ(1))
	}
	return q, nil
}

func (z Z) Min(o Z) Z {
	if z.Cmp(o) <= 0 {
		return z
	}
	return o
}

func (z Z) Max(o Z) Z {
	if z.Cmp(o) >= 0 {
		return z
	}
	return o
}

// GoString supports %#v-style debug printing.
func (z Z) GoString() string { return fmt.Sprintf("Z(%s)", z.String()) }
