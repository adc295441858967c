package reducer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/valtree"
)

func newReducer() (*Reducer, *env.Stack) {
	stack := env.New()
	stack.Push(nil)
	r := New(stack, functions.NewRegistry(), &functions.Context{})
	return r, stack
}

func TestReduceIdempotentOnLiterals(t *testing.T) {
	r, _ := newReducer()
	n := valtree.Number{Val: 4, Unit: "px"}

	first, err := r.Reduce(n, false)
	require.NoError(t, err)
	second, err := r.Reduce(first, false)
	require.NoError(t, err)
	require.Equal(t, n, second)
}

func TestReduceVariable(t *testing.T) {
	r, stack := newReducer()
	stack.Set("@primary", valtree.RawColor{Hex: "#ff0000"})

	got, err := r.Reduce(valtree.Variable{Name: "primary"}, true)
	require.NoError(t, err)
	require.Equal(t, valtree.Color{R: 255, G: 0, B: 0, A: 1}, got)
}

func TestReduceRecursiveVariableErrors(t *testing.T) {
	r, stack := newReducer()
	stack.Set("@x", valtree.Variable{Name: "x"})

	_, err := r.Reduce(valtree.Variable{Name: "x"}, false)
	require.Error(t, err)
}

func TestReduceExpressionAddition(t *testing.T) {
	r, _ := newReducer()
	expr := valtree.Expression{
		Op:    valtree.OpAdd,
		Left:  valtree.Number{Val: 2, Unit: "px"},
		Right: valtree.Number{Val: 3, Unit: "px"},
	}
	got, err := r.Reduce(expr, true)
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 5, Unit: "px"}, got)
}

func TestReduceUnaryMinus(t *testing.T) {
	r, _ := newReducer()
	got, err := r.Reduce(valtree.Unary{Op: "-", Inner: valtree.Number{Val: 4}}, true)
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: -4}, got)
}

func TestStringifyNumberAndList(t *testing.T) {
	require.Equal(t, "3px", Stringify(valtree.Number{Val: 3, Unit: "px"}))

	list := valtree.List{Delim: ",", Items: []valtree.Value{
		valtree.Keyword{Name: "a"},
		valtree.Keyword{Name: "b"},
	}}
	require.Equal(t, "a, b", Stringify(list))
}
