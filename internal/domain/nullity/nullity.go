// internal/domain/nullity/nullity.go
// Package nullity implements the 3-valued null/non-null lattice tracked per
// pointer-typed variable by the memory domain (spec §5, pointer nullity).
// Grounded on original_source's nullity domain, the same flat-lattice shape
// as uninit but over {Null, NonNull}.
package nullity

// Nullity is the per-pointer nullness state.
type Nullity struct {
	bottom  bool
	null    bool
	nonNull bool
}

func Bottom() Nullity { return Nullity{bottom: true} }
func Top() Nullity     { return Nullity{null: true, nonNull: true} }
func Null() Nullity    { return Nullity{null: true} }
func NonNull() Nullity { return Nullity{nonNull: true} }

func (n Nullity) IsBottom() bool { return n.bottom }
func (n Nullity) IsTop() bool    { return !n.bottom && n.null && n.nonNull }

func (n Nullity) IsNull() bool    { return !n.bottom && n.null && !n.nonNull }
func (n Nullity) IsNonNull() bool { return !n.bottom && n.nonNull && !n.null }

// MayBeNull reports whether some path has this pointer null, the condition
// a null-dereference check warns on.
func (n Nullity) MayBeNull() bool { return !n.bottom && n.null }

func (n Nullity) String() string {
	switch {
	case n.bottom:
		return "_|_"
	case n.null && n.nonNull:
		return "T"
	case n.null:
		return "Null"
	case n.nonNull:
		return "NonNull"
	default:
		return "_|_"
	}
}

func (n Nullity) Leq(o Nullity) bool {
	if n.bottom {
		return true
	}
	if o.bottom {
		return false
	}
	return (!n.null || o.null) && (!n.nonNull || o.nonNull)
}

func (n Nullity) Equal(o Nullity) bool { return n.Leq(o) && o.Leq(n) }

func (n Nullity) Join(o Nullity) Nullity {
	if n.bottom {
		return o
	}
	if o.bottom {
		return n
	}
	return Nullity{null: n.null || o.null, nonNull: n.nonNull || o.nonNull}
}

func (n Nullity) Widen(o Nullity) Nullity { return n.Join(o) }

func (n Nullity) Meet(o Nullity) Nullity {
	if n.bottom || o.bottom {
		return Bottom()
	}
	r := Nullity{null: n.null && o.null, nonNull: n.nonNull && o.nonNull}
	if !r.null && !r.nonNull {
		return Bottom()
	}
	return r
}

func (n Nullity) Narrow(o Nullity) Nullity { return n.Meet(o) }
