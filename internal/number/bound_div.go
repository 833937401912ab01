// internal/number/bound_div.go
package number

import "ikos/internal/ikoserr"

// Div divides two bounds. Dividing by a zero finite bound is an error;
// dividing a finite value by an infinity yields zero; an infinity divided
// by a finite value keeps the sign rules of extended arithmetic.
func (b Bound[T]) Div(o Bound[T]) (Bound[T], error) {
	if o.kind == boundFinite {
		var zero T
		if o.value.Cmp(zero.Sub(zero)) == 0 {
			return Bound[T]{}, ikoserr.New(ikoserr.DivisionByZero, "division by zero bound")
		}
	}
	if b.kind == boundFinite && o.kind == boundFinite {
		// Exact division is only meaningful for the rational instantiation;
		// callers working over Z truncate at the call site using the
		// concrete Z/Q division they already have.
		return Bound[T]{}, ikoserr.New(ikoserr.InvalidInput, "Bound.Div requires a caller-supplied exact quotient")
	}
	if o.kind != boundFinite && b.kind != boundFinite {
		return Bound[T]{}, ikoserr.New(ikoserr.InternalInvariant, "infinity divided by infinity is undefined")
	}
	if o.kind != boundFinite {
		var zero T
		return Finite(zero.Sub(zero)), nil
	}
	// b is infinite, o is finite and nonzero.
	if o.signOf() > 0 {
		return b, nil
	}
	return b.Neg(), nil
}
