// Package valtree is the tagged value tree the evaluator operates on: the
// normalised, parser-independent representation of a LESS value (§3.1),
// the Block/Prop shapes that make up the input tree (§3.2), and the
// OutputBlock shape the compiler builds for the formatter (§3.2).
package valtree

import "fmt"

// Value is the sum type for every LESS value variant in §3.1. Each
// concrete type below implements it; dispatch over a Value is a type
// switch on the concrete type, never a tag field.
type Value interface {
	value()
}

// Number is a dimensioned number: a float plus an optional CSS unit
// (length, angle, time, "%", or "").
type Number struct {
	Val  float64
	Unit string
}

func (Number) value() {}

// NewNumber constructs a Number, the common case with no unit.
func NewNumber(v float64) Number { return Number{Val: v} }

// Color is an RGBA color with components already clamped to their
// valid ranges (§3.4): R, G, B in [0,255], A in [0,1].
type Color struct {
	R, G, B float64
	A       float64
}

// NewColor clamps and returns a Color.
func NewColor(r, g, b, a float64) Color {
	return Color{R: clamp(r, 0, 255), G: clamp(g, 0, 255), B: clamp(b, 0, 255), A: clamp(a, 0, 1)}
}

func (Color) value() {}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RawColor is a hex literal exactly as written by the parser (#RGB or
// #RRGGBB). It is only ever produced by the parser; the evaluator either
// coerces it to a Color or passes it through unchanged to emission (§3.4).
type RawColor struct {
	Hex string
}

func (RawColor) value() {}

// Keyword is a bare identifier. CSS named colors coerce to Color on
// demand (§4.2/§4.3); encoded booleans are Keyword{"true"}/Keyword{"false"}.
type Keyword struct {
	Name string
}

func (Keyword) value() {}

var (
	True  = Keyword{Name: "true"}
	False = Keyword{Name: "false"}
)

// Bool encodes a Go bool as the canonical boolean keyword.
func Bool(b bool) Keyword {
	if b {
		return True
	}
	return False
}

// IsTruthy reports whether a reduced value is the encoded-true keyword.
func IsTruthy(v Value) bool {
	k, ok := v.(Keyword)
	return ok && k.Name == "true"
}

// StringPart is one element of a String's part sequence: either a literal
// fragment or a nested value to be interpolated in place (§9, "String
// interpolation").
type StringPart struct {
	Literal string
	Inner   Value // nil when this part is a literal fragment
}

// Str is a quoted or unquoted string value. Delim is `"`, `'`, or "" for
// an unquoted (escaped) string. Parts alternate literal fragments and
// nested values per §3.1.
type Str struct {
	Delim string
	Parts []StringPart
}

func (Str) value() {}

// PlainString builds a Str with a single literal part.
func PlainString(delim, text string) Str {
	return Str{Delim: delim, Parts: []StringPart{{Literal: text}}}
}

// List is an ordered sequence of values joined by Delim ("," or " ").
type List struct {
	Delim string
	Items []Value
}

func (List) value() {}

// Func is an unresolved or pass-through function call: Name plus a single
// argument value, which is usually a List.
type Func struct {
	Name string
	Arg  Value
}

func (Func) value() {}

// BinOp is the set of operators the expression evaluator accepts (§4.3).
type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpMod BinOp = "%"
	OpLt  BinOp = "<"
	OpGt  BinOp = ">"
	OpGe  BinOp = ">="
	OpLe  BinOp = "=<" // historical spelling for <=, see §4.3 note
	OpEq  BinOp = "="
	OpAnd BinOp = "and"
)

// NormalizeOp accepts the conventional "<=" spelling as an alias for the
// historical "=<" token (§4.3 note: implementations must accept both).
func NormalizeOp(s string) BinOp {
	if s == "<=" {
		return OpLe
	}
	return BinOp(s)
}

// Expression is a raw, not-yet-reduced binary operation as produced by the
// parser. WSBefore/WSAfter record whether whitespace separated the
// operator from its operands, needed for the textual fallback rendering.
type Expression struct {
	Op              BinOp
	Left, Right     Value
	WSBefore, WSAfter bool
}

func (Expression) value() {}

// Variable is a reference to `@name`, or — when Name is empty — a nested
// value whose reduced, stringified form supplies the name (computed
// variable names, §4.2 "variable").
type Variable struct {
	Name  string // without the leading @; empty when Expr is used
	Expr  Value
}

func (Variable) value() {}

// Interpolate is `@{...}` or `#{...}`: reduce Inner, stringify it, look up
// `@<result>`; Strip, if true, unwraps a resulting quoted string to a bare
// keyword (§4.2 "interpolate").
type Interpolate struct {
	Inner Value
	Strip bool
}

func (Interpolate) value() {}

// Escape is `~"literal"`: reduce Inner then unwrap its quotes.
type Escape struct {
	Inner Value
}

func (Escape) value() {}

// Unary is a leading +/- applied to a (usually numeric) value.
type Unary struct {
	Op    string // "+" or "-"
	Inner Value
}

func (Unary) value() {}

// String renders a debug form; production stringification goes through
// the formatter (§6.3) and reducer.Stringify, not this.
func (n Number) String() string { return fmt.Sprintf("%g%s", n.Val, n.Unit) }
