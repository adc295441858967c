package reducer

import (
	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// Evaluate implements §4.3: coerce raw_color/named-keyword operands to
// color, then dispatch and/equality/string-concat/type-specialised
// arithmetic, falling back to a textual reconstruction when nothing
// matches.
func Evaluate(op valtree.BinOp, left, right valtree.Value, wsBefore, wsAfter bool) (valtree.Value, error) {
	op = valtree.NormalizeOp(string(op))
	left = coerceColorOperand(left)
	right = coerceColorOperand(right)

	switch op {
	case valtree.OpAnd:
		return valtree.Bool(valtree.IsTruthy(left) && valtree.IsTruthy(right)), nil
	case "=":
		return valtree.Bool(structuralEqual(left, right)), nil
	}

	if op == valtree.OpAdd {
		if ls, lok := left.(valtree.Str); lok {
			return concatString(ls, right), nil
		}
		if rs, rok := right.(valtree.Str); rok {
			return concatString(rs, left), nil
		}
	}

	ln, lIsNum := left.(valtree.Number)
	rn, rIsNum := right.(valtree.Number)
	lc, lIsColor := left.(valtree.Color)
	rc, rIsColor := right.(valtree.Color)

	switch {
	case lIsNum && rIsNum:
		return evalNumNum(op, ln, rn)
	case lIsColor && rIsColor:
		return evalColorColor(op, lc, rc)
	case lIsColor && rIsNum:
		return evalColorNum(op, lc, rn)
	case lIsNum && rIsColor:
		if op == valtree.OpAdd || op == valtree.OpMul {
			return evalColorNum(op, rc, ln)
		}
	}

	return fallbackString(left, op, right, wsBefore, wsAfter), nil
}

func coerceColorOperand(v valtree.Value) valtree.Value {
	switch t := v.(type) {
	case valtree.RawColor:
		if c, ok := functions.ToColor(t); ok {
			return c
		}
	case valtree.Keyword:
		if c, ok := functions.NamedColor(t.Name); ok {
			return c
		}
	}
	return v
}

func evalNumNum(op valtree.BinOp, l, r valtree.Number) (valtree.Value, error) {
	unit := l.Unit
	if unit == "" {
		unit = r.Unit
	}
	switch op {
	case valtree.OpAdd:
		return valtree.Number{Val: l.Val + r.Val, Unit: unit}, nil
	case valtree.OpSub:
		return valtree.Number{Val: l.Val - r.Val, Unit: unit}, nil
	case valtree.OpMul:
		return valtree.Number{Val: l.Val * r.Val, Unit: unit}, nil
	case valtree.OpDiv:
		if r.Val == 0 {
			return nil, lesserr.Errorf("divide by zero")
		}
		return valtree.Number{Val: l.Val / r.Val, Unit: unit}, nil
	case valtree.OpMod:
		if r.Val == 0 {
			return nil, lesserr.Errorf("divide by zero")
		}
		mod := l.Val - r.Val*float64(int(l.Val/r.Val))
		return valtree.Number{Val: mod, Unit: unit}, nil
	case valtree.OpLt:
		return valtree.Bool(l.Val < r.Val), nil
	case valtree.OpGt:
		return valtree.Bool(l.Val > r.Val), nil
	case valtree.OpGe:
		return valtree.Bool(l.Val >= r.Val), nil
	case valtree.OpLe:
		return valtree.Bool(l.Val <= r.Val), nil
	}
	return nil, lesserr.Errorf("unknown operator %q for number/number", op)
}

func evalColorColor(op valtree.BinOp, l, r valtree.Color) (valtree.Value, error) {
	apply := func(f func(a, b float64) float64) valtree.Value {
		return valtree.NewColor(f(l.R, r.R), f(l.G, r.G), f(l.B, r.B), f(l.A, r.A))
	}
	switch op {
	case valtree.OpAdd:
		return apply(func(a, b float64) float64 { return a + b }), nil
	case valtree.OpSub:
		return apply(func(a, b float64) float64 { return a - b }), nil
	case valtree.OpMul:
		return apply(func(a, b float64) float64 { return a * b }), nil
	case valtree.OpDiv:
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		}), nil
	case valtree.OpMod:
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return float64(int(a) % int(b))
		}), nil
	}
	return nil, lesserr.Errorf("unknown operator %q for color/color", op)
}

func evalColorNum(op valtree.BinOp, c valtree.Color, n valtree.Number) (valtree.Value, error) {
	val := n.Val
	if n.Unit == "%" {
		val /= 100
	}
	apply := func(f func(a, b float64) float64) valtree.Value {
		return valtree.NewColor(f(c.R, val), f(c.G, val), f(c.B, val), c.A)
	}
	switch op {
	case valtree.OpAdd:
		return apply(func(a, b float64) float64 { return a + b }), nil
	case valtree.OpSub:
		return apply(func(a, b float64) float64 { return a - b }), nil
	case valtree.OpMul:
		return apply(func(a, b float64) float64 { return a * b }), nil
	case valtree.OpDiv:
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}
			return a / b
		}), nil
	case valtree.OpMod:
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}
			return float64(int(a) % int(b))
		}), nil
	}
	return nil, lesserr.Errorf("unknown operator %q for color/number", op)
}

// StructuralEqual reports whether two reduced values are equal by kind
// and textual form, the definition the resolver's literal-argument
// matching (§4.4.2) and the `=` operator both use.
func StructuralEqual(l, r valtree.Value) bool {
	return structuralEqual(l, r)
}

func structuralEqual(l, r valtree.Value) bool {
	return Stringify(l) == Stringify(r) && sameKind(l, r)
}

func sameKind(l, r valtree.Value) bool {
	switch l.(type) {
	case valtree.Number:
		_, ok := r.(valtree.Number)
		return ok
	case valtree.Color:
		_, ok := r.(valtree.Color)
		return ok
	}
	return true
}

func concatString(s valtree.Str, other valtree.Value) valtree.Value {
	if os, ok := other.(valtree.Str); ok {
		parts := append(append([]valtree.StringPart{}, s.Parts...), valtree.StringPart{Literal: Stringify(valtree.Str{Parts: os.Parts})})
		return valtree.Str{Delim: s.Delim, Parts: parts}
	}
	parts := append([]valtree.StringPart{}, s.Parts...)
	parts = append(parts, valtree.StringPart{Inner: other})
	return valtree.Str{Delim: s.Delim, Parts: parts}
}

func fallbackString(left valtree.Value, op valtree.BinOp, right valtree.Value, wsBefore, wsAfter bool) valtree.Value {
	opText := string(op)
	if wsBefore {
		opText = " " + opText
	}
	if wsAfter {
		opText = opText + " "
	}
	return valtree.Str{Delim: "", Parts: []valtree.StringPart{
		{Inner: left},
		{Literal: opText},
		{Inner: right},
	}}
}

// coerceColorCall implements the §4.2 "function" special case: rgb,
// rgba, hsl, hsla with a list argument produce a color directly rather
// than dispatching through the function registry.
func coerceColorCall(name string, arg valtree.Value) (valtree.Color, bool) {
	items := flattenArgs(arg)
	num := func(i int) (float64, string, bool) {
		if i >= len(items) {
			return 0, "", false
		}
		n, ok := items[i].(valtree.Number)
		if !ok {
			return 0, "", false
		}
		return n.Val, n.Unit, true
	}
	scaled := func(i int, max float64) (float64, bool) {
		v, unit, ok := num(i)
		if !ok {
			return 0, false
		}
		if unit == "%" {
			return v / 100 * max, true
		}
		return v, true
	}

	switch name {
	case "rgb", "rgba":
		if len(items) < 3 {
			return valtree.Color{}, false
		}
		r, ok1 := scaled(0, 255)
		g, ok2 := scaled(1, 255)
		b, ok3 := scaled(2, 255)
		a := 1.0
		if name == "rgba" {
			av, ok := scaled(3, 1)
			if !ok {
				return valtree.Color{}, false
			}
			a = av
		}
		if !ok1 || !ok2 || !ok3 {
			return valtree.Color{}, false
		}
		return valtree.NewColor(r, g, b, a), true

	case "hsl", "hsla":
		if len(items) < 3 {
			return valtree.Color{}, false
		}
		h, _, okh := num(0)
		s, sUnit, oks := num(1)
		l, lUnit, okl := num(2)
		if !okh || !oks || !okl {
			return valtree.Color{}, false
		}
		if sUnit == "%" {
			s /= 100
		}
		if lUnit == "%" {
			l /= 100
		}
		a := 1.0
		if name == "hsla" {
			av, ok := scaled(3, 1)
			if !ok {
				return valtree.Color{}, false
			}
			a = av
		}
		r, g, b := functions.HSLToRGB(h, s, l)
		return valtree.NewColor(r, g, b, a), true
	}
	return valtree.Color{}, false
}
