// internal/domain/congruence/congruence.go
// Package congruence implements the aZ+b abstraction of spec §3.4: a is
// the modulus (a >= 0; a == 0 means the singleton {b}), joined via gcd and
// met via the Chinese Remainder Theorem. Grounded on the congruence half
// of original_source/include/ikos/core/domain/numeric/gauge.hpp's
// neighboring interval/congruence reduction.
package congruence

import (
	"ikos/internal/number"
)

// Integral is the algebra Congruence needs: Z's own contract (gcd, exact
// mod, extended gcd for CRT).
type Integral[T any] interface {
	number.Value[T]
	IsZero() bool
	IsOne() bool
	Gcd(T) T
	Mod(T) (T, error)
	ExtGCD(T) (g, u, v T)
	Div(T) (T, error)
}

// Congruence is aZ+b, or ⊥.
type Congruence[T Integral[T]] struct {
	bottom bool
	a, b   T
}

// Top is 1Z+0: every integer.
func Top[T Integral[T]](zero, one T) Congruence[T] {
	return Congruence[T]{a: one, b: zero}
}

func Bottom[T Integral[T]]() Congruence[T] { return Congruence[T]{bottom: true} }

// Of builds aZ+b, normalizing a to non-negative and b to its residue.
func Of[T Integral[T]](a, b T) Congruence[T] {
	zero := zeroOf(a)
	if a.Cmp(zero) < 0 {
		a = a.Neg()
	}
	if a.Cmp(zero) != 0 {
		r, err := b.Mod(a)
		if err == nil {
			b = r
		}
	}
	return Congruence[T]{a: a, b: b}
}

// Singleton builds the exact value {v} (a = 0).
func Singleton[T Integral[T]](v T) Congruence[T] {
	return Congruence[T]{a: zeroOf(v), b: v}
}

func zeroOf[T Integral[T]](sample T) T { return sample.Sub(sample) }

func (c Congruence[T]) IsBottom() bool { return c.bottom }
func (c Congruence[T]) IsTop() bool    { return !c.bottom && c.a.IsOne() }

func (c Congruence[T]) A() T { return c.a }
func (c Congruence[T]) B() T { return c.b }

// IsSingleton reports a == 0.
func (c Congruence[T]) IsSingleton() bool { return !c.bottom && c.a.IsZero() }

func (c Congruence[T]) String() string {
	if c.bottom {
		return "_|_"
	}
	if c.a.IsZero() {
		return "{" + c.b.String() + "}"
	}
	return c.a.String() + "Z+" + c.b.String()
}

// Contains reports whether v satisfies v ≡ b (mod a).
func (c Congruence[T]) Contains(v T) bool {
	if c.bottom {
		return false
	}
	if c.a.IsZero() {
		return v.Cmp(c.b) == 0
	}
	diff := v.Sub(c.b)
	r, err := diff.Mod(c.a)
	if err != nil {
		return false
	}
	return r.Cmp(zeroOf(r)) == 0
}

// Leq: aZ+b <= a'Z+b' iff a' divides a and b ≡ b' (mod a').
func (c Congruence[T]) Leq(o Congruence[T]) bool {
	if c.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	if o.a.IsZero() {
		return c.a.IsZero() && c.b.Cmp(o.b) == 0
	}
	if !c.a.IsZero() {
		if r, err := c.a.Mod(o.a); err != nil || r.Cmp(zeroOf(r)) != 0 {
			return false
		}
	}
	return o.Contains(c.b)
}

func (c Congruence[T]) Equal(o Congruence[T]) bool { return c.Leq(o) && o.Leq(c) }

// Join: gcd(a1, a2, |b1-b2|) Z + b1, the standard congruence join.
func (c Congruence[T]) Join(o Congruence[T]) Congruence[T] {
	if c.bottom {
		return o
	}
	if o.bottom {
		return c
	}
	g := c.a.Gcd(o.a).Gcd(c.b.Sub(o.b))
	return Of(g, c.b)
}

// Widen for a finite-height-per-variable lattice (congruence's modulus
// chain has finite height bounded by the initial moduli's divisors) is
// sound as plain join.
func (c Congruence[T]) Widen(o Congruence[T]) Congruence[T] { return c.Join(o) }

// Meet solves the Chinese Remainder Theorem: x ≡ b1 (mod a1), x ≡ b2 (mod
// a2). Unsatisfiable systems collapse to ⊥.
func (c Congruence[T]) Meet(o Congruence[T]) Congruence[T] {
	if c.bottom || o.bottom {
		return Bottom[T]()
	}
	if c.a.IsZero() && o.a.IsZero() {
		if c.b.Cmp(o.b) == 0 {
			return c
		}
		return Bottom[T]()
	}
	if c.a.IsZero() {
		if o.Contains(c.b) {
			return c
		}
		return Bottom[T]()
	}
	if o.a.IsZero() {
		if c.Contains(o.b) {
			return o
		}
		return Bottom[T]()
	}
	g, u, _ := c.a.ExtGCD(o.a)
	diff := o.b.Sub(c.b)
	r, err := diff.Mod(g)
	if err != nil || r.Cmp(zeroOf(r)) != 0 {
		return Bottom[T]()
	}
	// lcm = a1/g * a2
	q, _ := c.a.Div(g)
	lcm := q.Mul(o.a)
	// particular solution x0 = b1 + a1 * u * (diff/g)
	k, _ := diff.Div(g)
	x0 := c.b.Add(c.a.Mul(u).Mul(k))
	return Of(lcm, x0)
}

func (c Congruence[T]) Narrow(o Congruence[T]) Congruence[T] { return c.Meet(o) }

// Add computes the congruence of a sum: (a1Z+b1) + (a2Z+b2) = gcd(a1,a2)Z + (b1+b2).
func (c Congruence[T]) Add(o Congruence[T]) Congruence[T] {
	if c.bottom || o.bottom {
		return Bottom[T]()
	}
	return Of(c.a.Gcd(o.a), c.b.Add(o.b))
}

func (c Congruence[T]) Sub(o Congruence[T]) Congruence[T] {
	if c.bottom || o.bottom {
		return Bottom[T]()
	}
	return Of(c.a.Gcd(o.a), c.b.Sub(o.b))
}

func (c Congruence[T]) Neg() Congruence[T] {
	if c.bottom {
		return c
	}
	return Of(c.a, c.b.Neg())
}

// Mul computes (a1Z+b1)*(a2Z+b2) = gcd(a1*a2, a1*b2, a2*b1)Z + b1*b2.
func (c Congruence[T]) Mul(o Congruence[T]) Congruence[T] {
	if c.bottom || o.bottom {
		return Bottom[T]()
	}
	g := c.a.Mul(o.a).Gcd(c.a.Mul(o.b)).Gcd(o.a.Mul(c.b))
	return Of(g, c.b.Mul(o.b))
}

// Scale multiplies by an exact constant k: (aZ+b)*k = (|k|*a)Z + k*b.
func (c Congruence[T]) Scale(k T) Congruence[T] {
	if c.bottom {
		return c
	}
	ka := k.Mul(c.a)
	zero := zeroOf(ka)
	if ka.Cmp(zero) < 0 {
		ka = ka.Neg()
	}
	return Of(ka, k.Mul(c.b))
}
