// internal/sexpr/sexpr.go
// S-expressions are the analyzer's one on-disk IR syntax (spec §6.4): a
// functor atom followed by zero or more nested expressions, each wrapped
// in its own parens. Grounded on
// original_source/abs-repr/include/arbos/io/s_expressions.hpp's atom
// taxonomy (index64/z_number/q_number/fp_number/string/byte_sequence),
// reshaped into the tagged-struct idiom internal/ar uses for its own
// finite, enumerable kinds.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"

	"ikos/internal/number"
)

// AtomKind is the finite set of leaf value shapes a parenthesized
// expression's functor can take.
type AtomKind uint8

const (
	Index64 AtomKind = iota
	ZNumber
	QNumber
	FPNumber
	String
	Bytes
)

func (k AtomKind) String() string {
	switch k {
	case Index64:
		return "index64"
	case ZNumber:
		return "z-number"
	case QNumber:
		return "q-number"
	case FPNumber:
		return "fp-number"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Atom is a leaf value: exactly one of the fields below is meaningful,
// selected by Kind. It never appears on its own in the grammar -- every
// atom is the functor of some Expr, even a bare literal, which is written
// as that literal wrapped in its own parens (e.g. "(!5)").
type Atom struct {
	Kind   AtomKind
	I64    int64
	Z      number.Z
	Q      number.Q
	FP     float64
	Str    string
	Raw    []byte
}

func Int64Atom(v int64) Atom      { return Atom{Kind: Index64, I64: v} }
func ZNumberAtom(v number.Z) Atom { return Atom{Kind: ZNumber, Z: v} }
func QNumberAtom(v number.Q) Atom { return Atom{Kind: QNumber, Q: v} }
func FPNumberAtom(v float64) Atom { return Atom{Kind: FPNumber, FP: v} }
func StringAtom(v string) Atom    { return Atom{Kind: String, Str: v} }
func BytesAtom(v []byte) Atom     { return Atom{Kind: Bytes, Raw: v} }

// Expr is a parenthesized functor applied to nested expressions:
// "(" functor arg* ")". A leaf value is an Expr with no Args.
type Expr struct {
	Functor Atom
	Args    []Expr
}

func Atomic(a Atom) Expr        { return Expr{Functor: a} }
func List(functor Atom, args ...Expr) Expr {
	return Expr{Functor: functor, Args: args}
}

func (e Expr) IsAtomic() bool { return len(e.Args) == 0 }

// Arg returns the n'th argument (1-indexed, matching the original
// grammar's arity convention) and whether it exists.
func (e Expr) Arg(n int) (Expr, bool) {
	if n < 1 || n > len(e.Args) {
		return Expr{}, false
	}
	return e.Args[n-1], true
}

// String renders e back to the wire format; it is the exact grammatical
// inverse of Parse.
func (e Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e Expr) write(sb *strings.Builder) {
	sb.WriteByte('(')
	writeAtom(sb, e.Functor)
	for _, arg := range e.Args {
		sb.WriteByte(' ')
		arg.write(sb)
	}
	sb.WriteByte(')')
}

func writeAtom(sb *strings.Builder, a Atom) {
	switch a.Kind {
	case Index64:
		sb.WriteByte('!')
		sb.WriteString(strconv.FormatInt(a.I64, 10))
	case ZNumber:
		sb.WriteByte('#')
		sb.WriteString(a.Z.String())
	case QNumber:
		sb.WriteByte('%')
		sb.WriteString(a.Q.String())
	case FPNumber:
		sb.WriteByte('^')
		sb.WriteString(strconv.FormatFloat(a.FP, 'g', -1, 64))
	case String:
		sb.WriteByte('$')
		writeEscapedString(sb, a.Str)
	case Bytes:
		sb.WriteByte('[')
		for _, b := range a.Raw {
			fmt.Fprintf(sb, "\\%02X", b)
		}
	}
}

// isLiteralStringByte reports the characters a $-string atom passes through
// unescaped; everything else is written as a \HH hex escape.
func isLiteralStringByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '_' || c == '.' || c == '*' || c == ':' || c == '-' || c == '/':
		return true
	default:
		return false
	}
}

func writeEscapedString(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isLiteralStringByte(c) {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(sb, "\\%02X", c)
		}
	}
}
