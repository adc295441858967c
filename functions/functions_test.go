package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/valtree"
)

func TestRegistryUserOverridesBuiltin(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("round")
	require.True(t, ok)

	custom := func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		return valtree.Keyword{Name: "overridden"}, nil
	}
	reg.Register("round", custom)

	fn, ok := reg.Lookup("round")
	require.True(t, ok)
	result, err := fn(&Context{}, nil)
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "overridden"}, result)

	reg.Unregister("round")
	fn, ok = reg.Lookup("round")
	require.True(t, ok)
	result, err = fn(&Context{}, []valtree.Value{valtree.Number{Val: 3.7}})
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 4}, result)
}

func TestMinMax(t *testing.T) {
	reg := NewRegistry()

	min, _ := reg.Lookup("min")
	got, err := min(&Context{}, []valtree.Value{
		valtree.Number{Val: 3, Unit: "px"},
		valtree.Number{Val: 1, Unit: "px"},
	})
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 1, Unit: "px"}, got)

	max, _ := reg.Lookup("max")
	got, err = max(&Context{}, []valtree.Value{
		valtree.Number{Val: 3, Unit: "px"},
		valtree.Number{Val: 9, Unit: "px"},
	})
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 9, Unit: "px"}, got)
}

func TestMaxIncompatibleUnitsErrors(t *testing.T) {
	reg := NewRegistry()
	max, _ := reg.Lookup("max")
	_, err := max(&Context{}, []valtree.Value{
		valtree.Number{Val: 10, Unit: "px"},
		valtree.Number{Val: 5, Unit: "%"},
	})
	require.Error(t, err)
}

func TestMinMaxConvertsAcrossLengthUnits(t *testing.T) {
	reg := NewRegistry()
	min, _ := reg.Lookup("min")
	got, err := min(&Context{}, []valtree.Value{
		valtree.Number{Val: 1, Unit: "in"},
		valtree.Number{Val: 2, Unit: "cm"},
	})
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 2, Unit: "cm"}, got)
}

func TestExtractOutOfRangeReturnsNil(t *testing.T) {
	reg := NewRegistry()
	extract, _ := reg.Lookup("extract")
	list := valtree.List{Delim: ",", Items: []valtree.Value{
		valtree.Keyword{Name: "a"},
		valtree.Keyword{Name: "b"},
	}}

	got, err := extract(&Context{}, []valtree.Value{list, valtree.Number{Val: 99}})
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = extract(&Context{}, []valtree.Value{list, valtree.Number{Val: 1}})
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "a"}, got)
}

func TestNamedColorAndToColor(t *testing.T) {
	c, ok := NamedColor("red")
	require.True(t, ok)
	require.Equal(t, valtree.Color{R: 255, G: 0, B: 0, A: 1}, c)

	c2, ok := ToColor(valtree.RawColor{Hex: "#fff"})
	require.True(t, ok)
	require.Equal(t, valtree.Color{R: 255, G: 255, B: 255, A: 1}, c2)
}

func TestFormatHex(t *testing.T) {
	c := valtree.Color{R: 255, G: 0, B: 0, A: 1}
	require.Equal(t, "#FF0000", FormatHex(c, false))
}
