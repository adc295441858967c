package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/valtree"
)

func TestEvalArithmetic(t *testing.T) {
	ev := New()
	result, err := ev.Eval("a + b", map[string]valtree.Value{
		"a": valtree.Number{Val: 2},
		"b": valtree.Number{Val: 3},
	})
	require.NoError(t, err)
	require.Equal(t, float64(5), result)
}

func TestEvalDumpCallback(t *testing.T) {
	ev := New()
	var captured map[string]interface{}
	ev.Dump = func(env map[string]interface{}) {
		captured = env
	}

	_, err := ev.Eval("x", map[string]valtree.Value{"x": valtree.Keyword{Name: "true"}})
	require.NoError(t, err)
	require.Equal(t, true, captured["x"])
}

func TestRegisterFormula(t *testing.T) {
	fn := RegisterFormula("arg1 * 2")
	result, err := fn(&functions.Context{}, []valtree.Value{valtree.Number{Val: 4}})
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 8}, result)
}

func TestToExprValueBoolean(t *testing.T) {
	require.Equal(t, true, toExprValue(valtree.Keyword{Name: "true"}))
	require.Equal(t, false, toExprValue(valtree.Keyword{Name: "false"}))
	require.Equal(t, "auto", toExprValue(valtree.Keyword{Name: "auto"}))
}
