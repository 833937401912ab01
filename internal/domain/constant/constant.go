// internal/domain/constant/constant.go
// Package constant implements the tiny ⊥ / exact-n / ⊤ lattice for
// tracking whether a loop counter's section (the piece of the CFG between
// two widening points) has changed. The gauge package does not import it.
// Grounded on the value_domain.hpp pattern of a flat lattice guarding a
// more expressive domain's precision.
package constant

import "ikos/internal/number"

// Constant is the flat lattice over number.Z: ⊥, {n}, or ⊤.
type Constant struct {
	top    bool
	bottom bool
	value  number.Z
}

func Top() Constant    { return Constant{top: true} }
func Bottom() Constant { return Constant{bottom: true} }
func Of(n number.Z) Constant {
	return Constant{value: n}
}

func (c Constant) IsBottom() bool { return c.bottom }
func (c Constant) IsTop() bool    { return c.top }

// IsExact reports whether c tracks a single concrete value.
func (c Constant) IsExact() bool { return !c.top && !c.bottom }

func (c Constant) Value() number.Z { return c.value }

func (c Constant) String() string {
	switch {
	case c.bottom:
		return "_|_"
	case c.top:
		return "T"
	default:
		return c.value.String()
	}
}

func (c Constant) Leq(o Constant) bool {
	if c.bottom || o.top {
		return true
	}
	if o.bottom {
		return c.bottom
	}
	if c.top {
		return o.top
	}
	return c.value.Equal(o.value)
}

func (c Constant) Equal(o Constant) bool { return c.Leq(o) && o.Leq(c) }

func (c Constant) Join(o Constant) Constant {
	if c.bottom {
		return o
	}
	if o.bottom {
		return c
	}
	if c.top || o.top {
		return Top()
	}
	if c.value.Equal(o.value) {
		return c
	}
	return Top()
}

func (c Constant) Widen(o Constant) Constant { return c.Join(o) }

func (c Constant) Meet(o Constant) Constant {
	if c.bottom || o.bottom {
		return Bottom()
	}
	if c.top {
		return o
	}
	if o.top {
		return c
	}
	if c.value.Equal(o.value) {
		return c
	}
	return Bottom()
}

func (c Constant) Narrow(o Constant) Constant { return c.Meet(o) }

// Changed reports whether moving from c (the prior section's value) to o
// (the current one) represents an observed change rather than a repeat of
// the same constant: it is false only when both sides are the same exact
// value.
func Changed(c, o Constant) bool {
	if c.IsExact() && o.IsExact() {
		return !c.value.Equal(o.value)
	}
	return true
}
