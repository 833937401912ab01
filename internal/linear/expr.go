// internal/linear/expr.go
// Package linear implements sparse linear expressions and constraints over
// a numeric coefficient type (spec §3.2/§4.2): Σ cᵢ·xᵢ + c₀, with no term
// ever carrying a zero coefficient, plus the box-refinement solver used by
// relational domains that cannot represent a constraint shape directly
// (DBM's fallback, spec §4.5.1).
package linear

import (
	"sort"
	"strings"

	"ikos/internal/number"
	"ikos/internal/varid"
)

// Coeff is the algebra an expression's coefficients must support: Z or Q.
type Coeff[T any] interface {
	number.Value[T]
}

// term is one cᵢ·xᵢ, never stored with a zero coefficient.
type term[T any] struct {
	v     varid.Var
	coeff T
}

// Expr is constant + Σ cᵢ·xᵢ, a sparse map keyed by variable index.
type Expr[T Coeff[T]] struct {
	constant T
	terms    map[int]term[T]
}

// NewConst builds the constant expression c.
func NewConst[T Coeff[T]](c T) Expr[T] {
	return Expr[T]{constant: c, terms: map[int]term[T]{}}
}

// NewVar builds the single-variable expression 1·v (coefficient is the
// caller's "one", since T has no built-in literal).
func NewVar[T Coeff[T]](v varid.Var, one T) Expr[T] {
	e := NewConst(zeroOf(one))
	return e.WithTerm(v, one)
}

func zeroOf[T Coeff[T]](sample T) T { return sample.Sub(sample) }

// Constant returns the constant term c₀.
func (e Expr[T]) Constant() T {
	if e.terms == nil {
		var zero T
		return zero
	}
	return e.constant
}

// WithTerm returns a new expression with v's coefficient increased by
// coeff (dropping the term entirely if the result is zero).
func (e Expr[T]) WithTerm(v varid.Var, coeff T) Expr[T] {
	out := e.clone()
	cur, ok := out.terms[v.Index()]
	var newCoeff T
	if ok {
		newCoeff = cur.coeff.Add(coeff)
	} else {
		newCoeff = coeff
	}
	if newCoeff.Cmp(zeroOf(newCoeff)) == 0 {
		delete(out.terms, v.Index())
	} else {
		out.terms[v.Index()] = term[T]{v: v, coeff: newCoeff}
	}
	return out
}

func (e Expr[T]) clone() Expr[T] {
	out := Expr[T]{constant: e.constant, terms: make(map[int]term[T], len(e.terms))}
	for k, v := range e.terms {
		out.terms[k] = v
	}
	return out
}

// Coefficient returns the coefficient of v (zero if absent).
func (e Expr[T]) Coefficient(v varid.Var) T {
	if t, ok := e.terms[v.Index()]; ok {
		return t.coeff
	}
	return zeroOf(e.constant)
}

// IsConstant reports whether the expression has no variable terms.
func (e Expr[T]) IsConstant() bool { return len(e.terms) == 0 }

// NumTerms returns the number of nonzero-coefficient variables.
func (e Expr[T]) NumTerms() int { return len(e.terms) }

// Terms returns the expression's terms sorted by variable index, for
// deterministic iteration/printing.
func (e Expr[T]) Terms() []struct {
	Var   varid.Var
	Coeff T
} {
	idx := make([]int, 0, len(e.terms))
	for k := range e.terms {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	out := make([]struct {
		Var   varid.Var
		Coeff T
	}, 0, len(idx))
	for _, k := range idx {
		t := e.terms[k]
		out = append(out, struct {
			Var   varid.Var
			Coeff T
		}{Var: t.v, Coeff: t.coeff})
	}
	return out
}

// Add returns e + o.
func (e Expr[T]) Add(o Expr[T]) Expr[T] {
	out := NewConst(e.Constant().Add(o.Constant()))
	for _, t := range e.Terms() {
		out = out.WithTerm(t.Var, t.Coeff)
	}
	for _, t := range o.Terms() {
		out = out.WithTerm(t.Var, t.Coeff)
	}
	return out
}

// Negate returns -e.
func (e Expr[T]) Negate() Expr[T] {
	out := NewConst(e.Constant().Neg())
	for _, t := range e.Terms() {
		out = out.WithTerm(t.Var, t.Coeff.Neg())
	}
	return out
}

// Sub returns e - o.
func (e Expr[T]) Sub(o Expr[T]) Expr[T] { return e.Add(o.Negate()) }

// Scale returns c·e.
func (e Expr[T]) Scale(c T) Expr[T] {
	out := NewConst(e.Constant().Mul(c))
	for _, t := range e.Terms() {
		out = out.WithTerm(t.Var, t.Coeff.Mul(c))
	}
	return out
}

// Substitute replaces every variable with its bound Expr, producing a new
// flattened expression (spec §4.2).
func (e Expr[T]) Substitute(bindings map[int]Expr[T]) Expr[T] {
	out := NewConst(e.Constant())
	for _, t := range e.Terms() {
		if sub, ok := bindings[t.Var.Index()]; ok {
			out = out.Add(sub.Scale(t.Coeff))
		} else {
			out = out.WithTerm(t.Var, t.Coeff)
		}
	}
	return out
}

func (e Expr[T]) String() string {
	var sb strings.Builder
	first := true
	for _, t := range e.Terms() {
		if !first {
			sb.WriteString(" + ")
		}
		first = false
		sb.WriteString(t.Coeff.String())
		sb.WriteString("*")
		sb.WriteString(t.Var.String())
	}
	if first || e.Constant().Cmp(zeroOf(e.Constant())) != 0 {
		if !first {
			sb.WriteString(" + ")
		}
		sb.WriteString(e.Constant().String())
	}
	return sb.String()
}
