// Package evaluator wraps expr-lang to back formula-defined user
// functions (§6.1 register_function's formula form): a small bridge
// between valtree.Value arguments and expr-lang's Go-value world.
package evaluator

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/reducer"
	"github.com/titpetric/lessgo/valtree"
)

// Evaluator compiles and runs one formula string per call against a
// named variable environment. It holds no state between calls.
type Evaluator struct {
	// Dump, when set, receives the preprocessed variable environment
	// before each run. Nothing in this module sets it: New and
	// RegisterFormula leave it nil, so no dump happens on the
	// evaluation path unless a caller assigns one.
	Dump func(env map[string]interface{})
}

// New returns a ready Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval compiles and runs formula against vars, exposing each as its
// nearest Go equivalent (float64, bool, or string).
func (e *Evaluator) Eval(formula string, vars map[string]valtree.Value) (interface{}, error) {
	env := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		env[k] = toExprValue(v)
	}
	if e.Dump != nil {
		e.Dump(env)
	}

	program, err := expr.Compile(formula, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile formula %q: %w", formula, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate formula %q: %w", formula, err)
	}
	return result, nil
}

func toExprValue(v valtree.Value) interface{} {
	switch t := v.(type) {
	case valtree.Number:
		return t.Val
	case valtree.Keyword:
		switch t.Name {
		case "true":
			return true
		case "false":
			return false
		}
		return t.Name
	default:
		return reducer.Stringify(v)
	}
}

func fromExprValue(v interface{}) valtree.Value {
	switch t := v.(type) {
	case float64:
		return valtree.Number{Val: t}
	case int:
		return valtree.Number{Val: float64(t)}
	case bool:
		return valtree.Bool(t)
	case string:
		return valtree.Keyword{Name: t}
	default:
		return valtree.Keyword{Name: fmt.Sprint(v)}
	}
}

// RegisterFormula builds a functions.Func that runs formula against
// its positional arguments, bound as arg1, arg2, ... (§6.1
// register_function's formula form).
func RegisterFormula(formula string) functions.Func {
	ev := New()
	return func(ctx *functions.Context, args []valtree.Value) (valtree.Value, error) {
		vars := make(map[string]valtree.Value, len(args))
		for i, a := range args {
			vars[fmt.Sprintf("arg%d", i+1)] = a
		}
		result, err := ev.Eval(formula, vars)
		if err != nil {
			return nil, err
		}
		return fromExprValue(result), nil
	}
}
