// Package reducer implements the evaluator's reduction contract (§4.2)
// and expression evaluation (§4.3): resolving variables, running
// built-in functions, and collapsing operators and unary signs into
// fully-reduced valtree.Value trees.
package reducer

import (
	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// Reducer carries the live environment stack and function registry a
// reduction needs to resolve variables and dispatch built-ins.
type Reducer struct {
	Stack   *env.Stack
	Funcs   *functions.Registry
	FuncCtx *functions.Context
}

// New builds a Reducer bound to the given stack and function registry.
func New(stack *env.Stack, funcs *functions.Registry, funcCtx *functions.Context) *Reducer {
	return &Reducer{Stack: stack, Funcs: funcs, FuncCtx: funcCtx}
}

// Reduce implements `reduce(value, for_expression) → value` (§4.2).
// It is idempotent on fully-reduced values.
func (r *Reducer) Reduce(v valtree.Value, forExpression bool) (valtree.Value, error) {
	switch t := v.(type) {
	case valtree.Number, valtree.Color:
		return t, nil

	case valtree.RawColor:
		if forExpression {
			if c, ok := functions.ToColor(t); ok {
				return c, nil
			}
		}
		return t, nil

	case valtree.Keyword:
		if forExpression {
			if c, ok := functions.NamedColor(t.Name); ok {
				return c, nil
			}
		}
		return t, nil

	case valtree.Interpolate:
		return r.reduceInterpolate(t)

	case valtree.Variable:
		return r.reduceVariable(t, forExpression)

	case valtree.List:
		items := make([]valtree.Value, len(t.Items))
		for i, item := range t.Items {
			rv, err := r.Reduce(item, forExpression)
			if err != nil {
				return nil, err
			}
			items[i] = rv
		}
		return valtree.List{Delim: t.Delim, Items: items}, nil

	case valtree.Str:
		return r.reduceString(t)

	case valtree.Expression:
		left, err := r.Reduce(t.Left, true)
		if err != nil {
			return nil, err
		}
		right, err := r.Reduce(t.Right, true)
		if err != nil {
			return nil, err
		}
		return Evaluate(t.Op, left, right, t.WSBefore, t.WSAfter)

	case valtree.Escape:
		inner, err := r.Reduce(t.Inner, forExpression)
		if err != nil {
			return nil, err
		}
		return unwrapString(inner), nil

	case valtree.Func:
		return r.reduceFunc(t, forExpression)

	case valtree.Unary:
		inner, err := r.Reduce(t.Inner, forExpression)
		if err != nil {
			return nil, err
		}
		if n, ok := inner.(valtree.Number); ok && t.Op == "-" {
			return valtree.Number{Val: -n.Val, Unit: n.Unit}, nil
		}
		return inner, nil
	}
	return nil, lesserr.Errorf("unknown value type")
}

func (r *Reducer) reduceInterpolate(t valtree.Interpolate) (valtree.Value, error) {
	inner, err := r.Reduce(t.Inner, false)
	if err != nil {
		return nil, err
	}
	name := "@" + Stringify(inner)
	val, err := r.Stack.Get(name)
	if err != nil {
		return nil, err
	}
	reduced, err := r.Reduce(val, false)
	if err != nil {
		return nil, err
	}
	if raw, ok := reduced.(valtree.RawColor); ok {
		if c, ok := functions.ToColor(raw); ok {
			reduced = c
		}
	}
	if t.Strip {
		return valtree.Keyword{Name: Stringify(reduced)}, nil
	}
	return reduced, nil
}

func (r *Reducer) reduceVariable(t valtree.Variable, forExpression bool) (valtree.Value, error) {
	name := t.Name
	if name == "" {
		inner, err := r.Reduce(t.Expr, false)
		if err != nil {
			return nil, err
		}
		name = Stringify(inner)
	}
	full := name
	if len(full) == 0 || full[0] != '@' {
		full = "@" + full
	}

	frame := r.Stack.Top()
	seen, release := frame.SeenGuard(full)
	if seen {
		return nil, lesserr.Errorf("recursive variable definition for %s", full)
	}
	defer release()

	val, err := r.Stack.Get(full)
	if err != nil {
		return nil, err
	}
	return r.Reduce(val, forExpression)
}

func (r *Reducer) reduceString(t valtree.Str) (valtree.Value, error) {
	parts := make([]valtree.StringPart, len(t.Parts))
	for i, p := range t.Parts {
		if p.Inner == nil {
			parts[i] = p
			continue
		}
		rv, err := r.Reduce(p.Inner, false)
		if err != nil {
			return nil, err
		}
		if _, isVar := p.Inner.(valtree.Variable); isVar {
			parts[i] = valtree.StringPart{Literal: Stringify(unwrapString(rv))}
		} else {
			parts[i] = valtree.StringPart{Literal: Stringify(rv)}
		}
	}
	return valtree.Str{Delim: t.Delim, Parts: parts}, nil
}

func (r *Reducer) reduceFunc(t valtree.Func, forExpression bool) (valtree.Value, error) {
	arg, err := r.Reduce(t.Arg, false)
	if err != nil {
		return nil, err
	}

	switch t.Name {
	case "rgb", "rgba", "hsl", "hsla":
		if c, ok := coerceColorCall(t.Name, arg); ok {
			return c, nil
		}
	}

	fn, ok := r.Funcs.Lookup(t.Name)
	if !ok {
		return valtree.Func{Name: t.Name, Arg: arg}, nil
	}

	args := flattenArgs(arg)
	result, err := fn(r.FuncCtx, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return valtree.Func{Name: t.Name, Arg: arg}, nil
	}
	return result, nil
}

func flattenArgs(v valtree.Value) []valtree.Value {
	if lst, ok := v.(valtree.List); ok {
		return lst.Items
	}
	return []valtree.Value{v}
}

func unwrapString(v valtree.Value) valtree.Value {
	s, ok := v.(valtree.Str)
	if !ok {
		return v
	}
	return valtree.Keyword{Name: Stringify(s)}
}

// Stringify renders a reduced Value to its textual form, the way the
// reducer needs for interpolation, computed variable names, and string
// part assembly. It is not the CSS emission formatter (§6.3 handles that).
func Stringify(v valtree.Value) string {
	switch t := v.(type) {
	case valtree.Keyword:
		return t.Name
	case valtree.Number:
		return formatNumber(t)
	case valtree.Str:
		out := ""
		for _, p := range t.Parts {
			if p.Inner != nil {
				out += Stringify(p.Inner)
			} else {
				out += p.Literal
			}
		}
		return out
	case valtree.RawColor:
		return t.Hex
	case valtree.Color:
		return functions.FormatHex(t, t.A < 1)
	case valtree.List:
		out := ""
		for i, item := range t.Items {
			if i > 0 {
				out += t.Delim
				if t.Delim != " " {
					out += " "
				}
			}
			out += Stringify(item)
		}
		return out
	case valtree.Func:
		return t.Name + "(" + Stringify(t.Arg) + ")"
	}
	return ""
}
