package functions

import (
	"math"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerMath(m map[string]Func) {
	register(m, []string{"pow"}, fn2Num(math.Pow))
	register(m, []string{"mod"}, fn2Num(math.Mod))
	register(m, []string{"abs"}, fn1Num(math.Abs))
	register(m, []string{"tan"}, fn1Num(math.Tan))
	register(m, []string{"sin"}, fn1Num(math.Sin))
	register(m, []string{"cos"}, fn1Num(math.Cos))
	register(m, []string{"atan"}, fn1Num(math.Atan))
	register(m, []string{"asin"}, fn1Num(math.Asin))
	register(m, []string{"acos"}, fn1Num(math.Acos))
	register(m, []string{"sqrt"}, fn1Num(math.Sqrt))
	register(m, []string{"floor"}, fn1Num(math.Floor))
	register(m, []string{"ceil"}, fn1Num(math.Ceil))
	register(m, []string{"min"}, minFn)
	register(m, []string{"max"}, maxFn)
	register(m, []string{"pi"}, piFn)
	register(m, []string{"round"}, roundFn)
	register(m, []string{"percentage"}, percentageFn)
	register(m, []string{"unit"}, unitFn)
}

func asNumber(v valtree.Value, fname string) (valtree.Number, error) {
	n, ok := v.(valtree.Number)
	if !ok {
		return valtree.Number{}, lesserr.Errorf("%s: expected a number argument", fname)
	}
	return n, nil
}

// fn1Num wraps a unary float64 math function, preserving the argument's unit.
func fn1Num(f func(float64) float64) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 1 {
			return nil, lesserr.Errorf("expected 1 argument, got %d", len(args))
		}
		n, err := asNumber(args[0], "math")
		if err != nil {
			return nil, err
		}
		return valtree.Number{Val: f(n.Val), Unit: n.Unit}, nil
	}
}

// fn2Num wraps a binary float64 math function (pow, mod); the unit of
// the left operand is preserved.
func fn2Num(f func(a, b float64) float64) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 2 {
			return nil, lesserr.Errorf("expected 2 arguments, got %d", len(args))
		}
		a, err := asNumber(args[0], "math")
		if err != nil {
			return nil, err
		}
		b, err := asNumber(args[1], "math")
		if err != nil {
			return nil, err
		}
		return valtree.Number{Val: f(a.Val, b.Val), Unit: a.Unit}, nil
	}
}

func minFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	return minMax(args, "min", func(candidate, best float64) bool { return candidate < best })
}

func maxFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	return minMax(args, "max", func(candidate, best float64) bool { return candidate > best })
}

// minMax implements min()/max() (§4.6): operands are unit-checked
// through convertUnit before comparison, so e.g. max(10px, 5%) raises
// "Cannot convert % to px" rather than silently comparing bare numbers
// across incompatible unit families (§8 scenario S4).
func minMax(args []valtree.Value, fname string, better func(candidate, best float64) bool) (valtree.Value, error) {
	if len(args) == 0 {
		return nil, lesserr.Errorf("%s: expected at least 1 argument", fname)
	}
	best, err := asNumber(args[0], fname)
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := asNumber(a, fname)
		if err != nil {
			return nil, err
		}
		candidate, err := convertUnit(n.Val, n.Unit, best.Unit)
		if err != nil {
			return nil, err
		}
		if better(candidate, best.Val) {
			best = n
		}
	}
	return best, nil
}

func piFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	return valtree.NewNumber(math.Pi), nil
}

// roundFn implements `round(n)` / `round(n, precision)` (§4.6).
func roundFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.Errorf("round: expected 1 or 2 arguments, got %d", len(args))
	}
	n, err := asNumber(args[0], "round")
	if err != nil {
		return nil, err
	}
	precision := 0
	if len(args) == 2 {
		p, err := asNumber(args[1], "round")
		if err != nil {
			return nil, err
		}
		precision = int(p.Val)
	}
	mult := math.Pow(10, float64(precision))
	return valtree.Number{Val: math.Round(n.Val*mult) / mult, Unit: n.Unit}, nil
}

func percentageFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 1 {
		return nil, lesserr.Errorf("percentage: expected 1 argument, got %d", len(args))
	}
	n, err := asNumber(args[0], "percentage")
	if err != nil {
		return nil, err
	}
	return valtree.Number{Val: n.Val * 100, Unit: "%"}, nil
}

func unitFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.Errorf("unit: expected 1 or 2 arguments, got %d", len(args))
	}
	n, err := asNumber(args[0], "unit")
	if err != nil {
		return nil, err
	}
	unit := ""
	if len(args) == 2 {
		switch u := args[1].(type) {
		case valtree.Keyword:
			unit = u.Name
		case valtree.Str:
			unit = flattenLiteral(u)
		default:
			return nil, lesserr.Errorf("unit: second argument must be a keyword or string")
		}
	}
	return valtree.Number{Val: n.Val, Unit: unit}, nil
}

func flattenLiteral(s valtree.Str) string {
	out := ""
	for _, p := range s.Parts {
		out += p.Literal
	}
	return out
}
