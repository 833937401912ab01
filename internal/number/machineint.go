// internal/number/machineint.go
package number

import (
	"math/big"

	"ikos/internal/ikoserr"
)

// MachineInt is a value of a fixed bit-width, wrapped into the
// representable range for its width and signedness. Every arithmetic
// operation comes in a silently-wrapping flavor (Add, Sub, Mul, Shl) and,
// where the source distinguishes it, a no-wrap flavor that fails with
// ikoserr.Overflow instead of wrapping (AddNoWrap, SubNoWrap, MulNoWrap).
type MachineInt struct {
	v      Z
	Width  uint
	Signed bool
}

// NewMachineInt builds a MachineInt, wrapping v into range [0, 2^width) or
// [-2^(width-1), 2^(width-1)-1] depending on signedness.
func NewMachineInt(v Z, width uint, signed bool) MachineInt {
	return MachineInt{v: wrap(v, width, signed), Width: width, Signed: signed}
}

func modulus(width uint) Z {
	return NewZ(1).Shl(width)
}

func wrap(v Z, width uint, signed bool) Z {
	if width == 0 {
		return ZeroZ
	}
	m := modulus(width)
	r, _ := v.Mod(m) // m > 0 always
	if signed {
		half := NewZ(1).Shl(width - 1)
		if r.Cmp(half) >= 0 {
			r = r.Sub(m)
		}
	}
	return r
}

func (m MachineInt) Value() Z { return m.v }

func (m MachineInt) String() string { return m.v.String() }

// MinValue / MaxValue of this MachineInt's (width, signedness).
func (m MachineInt) MinValue() Z {
	if !m.Signed {
		return ZeroZ
	}
	return NewZ(1).Shl(m.Width - 1).Neg()
}

func (m MachineInt) MaxValue() Z {
	if !m.Signed {
		return modulus(m.Width).Sub(NewZ(1))
	}
	return NewZ(1).Shl(m.Width - 1).Sub(NewZ(1))
}

func (m MachineInt) sameShape(o MachineInt) {
	if m.Width != o.Width || m.Signed != o.Signed {
		panic("ikos/number: MachineInt operation on mismatched width/signedness")
	}
}

func (m MachineInt) with(v Z) MachineInt {
	return MachineInt{v: wrap(v, m.Width, m.Signed), Width: m.Width, Signed: m.Signed}
}

func (m MachineInt) Add(o MachineInt) MachineInt { m.sameShape(o); return m.with(m.v.Add(o.v)) }
func (m MachineInt) Sub(o MachineInt) MachineInt { m.sameShape(o); return m.with(m.v.Sub(o.v)) }
func (m MachineInt) Mul(o MachineInt) MachineInt { m.sameShape(o); return m.with(m.v.Mul(o.v)) }
func (m MachineInt) Neg() MachineInt             { return m.with(m.v.Neg()) }

// Shl wraps silently on overflowing shifts.
func (m MachineInt) Shl(amount uint) MachineInt { return m.with(m.v.Shl(amount)) }

func overflows(result Z, width uint, signed bool) bool {
	return !wrap(result, width, signed).Equal(result)
}

// AddNoWrap fails with ikoserr.Overflow if the exact sum is not
// representable at this width/signedness.
func (m MachineInt) AddNoWrap(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	sum := m.v.Add(o.v)
	if overflows(sum, m.Width, m.Signed) {
		return MachineInt{}, ikoserr.Newf(ikoserr.Overflow, "i%d addition overflows", m.Width)
	}
	return m.with(sum), nil
}

func (m MachineInt) SubNoWrap(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	diff := m.v.Sub(o.v)
	if overflows(diff, m.Width, m.Signed) {
		return MachineInt{}, ikoserr.Newf(ikoserr.Overflow, "i%d subtraction overflows", m.Width)
	}
	return m.with(diff), nil
}

func (m MachineInt) MulNoWrap(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	prod := m.v.Mul(o.v)
	if overflows(prod, m.Width, m.Signed) {
		return MachineInt{}, ikoserr.Newf(ikoserr.Overflow, "i%d multiplication overflows", m.Width)
	}
	return m.with(prod), nil
}

// Div is signed truncating division; fails on zero divisor.
func (m MachineInt) Div(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	if o.v.IsZero() {
		return MachineInt{}, ikoserr.New(ikoserr.DivisionByZero, "sdiv by zero")
	}
	q, _ := m.v.Div(o.v)
	return m.with(q), nil
}

// Rem is signed truncating remainder.
func (m MachineInt) Rem(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	if o.v.IsZero() {
		return MachineInt{}, ikoserr.New(ikoserr.DivisionByZero, "srem by zero")
	}
	r, _ := m.v.Rem(o.v)
	return m.with(r), nil
}

// UDiv/URem reinterpret both operands as unsigned bit patterns before
// dividing, matching LLVM's udiv/urem statement kinds (spec §6.2).
func (m MachineInt) UDiv(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	a, b := m.asUnsigned(), o.asUnsigned()
	if b.v.IsZero() {
		return MachineInt{}, ikoserr.New(ikoserr.DivisionByZero, "udiv by zero")
	}
	q, _ := a.v.Div(b.v)
	return MachineInt{v: wrap(q, m.Width, false), Width: m.Width, Signed: false}.asSignedness(m.Signed), nil
}

func (m MachineInt) URem(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	a, b := m.asUnsigned(), o.asUnsigned()
	if b.v.IsZero() {
		return MachineInt{}, ikoserr.New(ikoserr.DivisionByZero, "urem by zero")
	}
	r, _ := a.v.Rem(b.v)
	return MachineInt{v: wrap(r, m.Width, false), Width: m.Width, Signed: false}.asSignedness(m.Signed), nil
}

func (m MachineInt) asUnsigned() MachineInt {
	return MachineInt{v: wrap(m.v, m.Width, false), Width: m.Width, Signed: false}
}

func (m MachineInt) asSignedness(signed bool) MachineInt {
	return MachineInt{v: wrap(m.v, m.Width, signed), Width: m.Width, Signed: signed}
}

// Mod is the Euclidean modulo, 0 <= r < |b|, computed on the two values as
// read under their shared signedness (Z.Mod), then wrapped to this width.
func (m MachineInt) Mod(o MachineInt) (MachineInt, error) {
	m.sameShape(o)
	if o.v.IsZero() {
		return MachineInt{}, ikoserr.New(ikoserr.DivisionByZero, "modulo by zero")
	}
	r, _ := m.v.Mod(o.v)
	return m.with(r), nil
}

// SignCast reinterprets the same bit pattern under the opposite
// signedness, at the same width.
func (m MachineInt) SignCast() MachineInt {
	return MachineInt{v: wrap(m.v, m.Width, !m.Signed), Width: m.Width, Signed: !m.Signed}
}

// Trunc narrows to a smaller width, keeping the low bits.
func (m MachineInt) Trunc(width uint) MachineInt {
	if width > m.Width {
		panic("ikos/number: Trunc to a wider width")
	}
	mask := modulus(width).Sub(NewZ(1))
	low := m.v
	if low.IsNeg() {
		low = wrap(low, m.Width, false)
	}
	low = low.And(mask)
	return NewMachineInt(low, width, m.Signed)
}

// Ext widens to a larger width; the destination's signedness decides
// whether the extension is sign- or zero-extension, per spec §3.1.
func (m MachineInt) Ext(width uint, destSigned bool) MachineInt {
	if width < m.Width {
		panic("ikos/number: Ext to a narrower width")
	}
	var v Z
	if m.Signed {
		v = m.v // exact value already carries its sign
	} else {
		v = wrap(m.v, m.Width, false)
	}
	return NewMachineInt(v, width, destSigned)
}

// bitops are defined via two's-complement: operate on the unsigned bit
// pattern, then reinterpret under this value's own signedness.
func (m MachineInt) bitwise(o MachineInt, f func(a, b *big.Int) *big.Int) MachineInt {
	m.sameShape(o)
	a := wrap(m.v, m.Width, false)
	b := wrap(o.v, m.Width, false)
	r := NewZFromBigInt(f(a.Big(), b.Big()))
	return NewMachineInt(r, m.Width, m.Signed)
}

func (m MachineInt) And(o MachineInt) MachineInt {
	return m.bitwise(o, func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) })
}

func (m MachineInt) Or(o MachineInt) MachineInt {
	return m.bitwise(o, func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) })
}

func (m MachineInt) Xor(o MachineInt) MachineInt {
	return m.bitwise(o, func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) })
}

func (m MachineInt) Not() MachineInt {
	full := modulus(m.Width).Sub(NewZ(1))
	return NewMachineInt(wrap(m.v, m.Width, false).Xor(full), m.Width, m.Signed)
}

// Cmp compares two MachineInts of identical shape under their shared
// signedness.
func (m MachineInt) Cmp(o MachineInt) int {
	m.sameShape(o)
	return m.v.Cmp(o.v)
}

func (m MachineInt) Equal(o MachineInt) bool {
	return m.Width == o.Width && m.Signed == o.Signed && m.v.Equal(o.v)
}
