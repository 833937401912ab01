// internal/number/bound.go
package number

import "ikos/internal/ikoserr"

// Value is the minimal algebra a numeric type needs in order to be used as
// the payload of a Bound: addition, subtraction, negation, multiplication,
// absolute value, comparison and min/max. Z and Q satisfy it; MachineInt
// does not (it has no Abs, Min or Max), since Bound arithmetic is defined
// in terms of the exact values Z/Q already provide.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T
	Abs() T
	Cmp(T) int
	Min(T) T
	Max(T) T
	String() string
}

type boundKind uint8

const (
	boundFinite boundKind = iota
	boundMinusInf
	boundPlusInf
)

// Bound is T extended with -∞ and +∞ (spec §3.1). The zero value is not a
// valid Bound; always construct via Finite/MinusInfinity/PlusInfinity.
type Bound[T Value[T]] struct {
	kind  boundKind
	value T
}

func Finite[T Value[T]](v T) Bound[T] { return Bound[T]{kind: boundFinite, value: v} }

func MinusInfinity[T Value[T]]() Bound[T] { return Bound[T]{kind: boundMinusInf} }
func PlusInfinity[T Value[T]]() Bound[T]  { return Bound[T]{kind: boundPlusInf} }

func (b Bound[T]) IsInfinite() bool { return b.kind != boundFinite }
func (b Bound[T]) IsMinusInfinity() bool { return b.kind == boundMinusInf }
func (b Bound[T]) IsPlusInfinity() bool  { return b.kind == boundPlusInf }
func (b Bound[T]) IsFinite() bool        { return b.kind == boundFinite }

// FiniteValue returns the finite payload; callers must check IsFinite first.
func (b Bound[T]) FiniteValue() T { return b.value }

func (b Bound[T]) String() string {
	switch b.kind {
	case boundMinusInf:
		return "-oo"
	case boundPlusInf:
		return "+oo"
	default:
		return b.value.String()
	}
}

// Cmp orders bounds: -oo < any finite < +oo.
func (b Bound[T]) Cmp(o Bound[T]) int {
	if b.kind == o.kind {
		if b.kind == boundFinite {
			return b.value.Cmp(o.value)
		}
		return 0
	}
	rank := func(k boundKind) int {
		switch k {
		case boundMinusInf:
			return -1
		case boundPlusInf:
			return 1
		default:
			return 0
		}
	}
	rb, ro := rank(b.kind), rank(o.kind)
	if rb < ro {
		return -1
	}
	return 1
}

func (b Bound[T]) Equal(o Bound[T]) bool { return b.Cmp(o) == 0 }
func (b Bound[T]) Lt(o Bound[T]) bool    { return b.Cmp(o) < 0 }
func (b Bound[T]) Le(o Bound[T]) bool    { return b.Cmp(o) <= 0 }
func (b Bound[T]) Gt(o Bound[T]) bool    { return b.Cmp(o) > 0 }
func (b Bound[T]) Ge(o Bound[T]) bool    { return b.Cmp(o) >= 0 }

func (b Bound[T]) Min(o Bound[T]) Bound[T] {
	if b.Le(o) {
		return b
	}
	return o
}

func (b Bound[T]) Max(o Bound[T]) Bound[T] {
	if b.Ge(o) {
		return b
	}
	return o
}

func (b Bound[T]) Neg() Bound[T] {
	switch b.kind {
	case boundMinusInf:
		return PlusInfinity[T]()
	case boundPlusInf:
		return MinusInfinity[T]()
	default:
		return Finite(b.value.Neg())
	}
}

func (b Bound[T]) Abs() Bound[T] {
	if b.kind != boundFinite {
		return PlusInfinity[T]()
	}
	return Finite(b.value.Abs())
}

// Add: (+oo) + (-oo) is a domain error, everything else follows the usual
// extended-arithmetic rules.
func (b Bound[T]) Add(o Bound[T]) (Bound[T], error) {
	if (b.kind == boundPlusInf && o.kind == boundMinusInf) ||
		(b.kind == boundMinusInf && o.kind == boundPlusInf) {
		return Bound[T]{}, ikoserr.New(ikoserr.InternalInvariant, "+oo + -oo is undefined")
	}
	if b.kind != boundFinite {
		return b, nil
	}
	if o.kind != boundFinite {
		return o, nil
	}
	return Finite(b.value.Add(o.value)), nil
}

func (b Bound[T]) Sub(o Bound[T]) (Bound[T], error) {
	return b.Add(o.Neg())
}

// Mul follows sign-of-infinity rules; multiplying by an exact zero bound
// collapses any infinity to zero.
func (b Bound[T]) Mul(o Bound[T]) Bound[T] {
	if b.kind == boundFinite && o.kind == boundFinite {
		return Finite(b.value.Mul(o.value))
	}
	bs, os := b.signOf(), o.signOf()
	if bs == 0 || os == 0 {
		var zero T
		return Finite(zero.Sub(zero))
	}
	if bs*os > 0 {
		return PlusInfinity[T]()
	}
	return MinusInfinity[T]()
}

func (b Bound[T]) signOf() int {
	switch b.kind {
	case boundPlusInf:
		return 1
	case boundMinusInf:
		return -1
	default:
		var zero T
		return b.value.Cmp(zero.Sub(zero))
	}
}
