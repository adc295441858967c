package lesserr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorfNoLocation(t *testing.T) {
	err := Errorf("%s is undefined", ".mixin")
	require.Equal(t, ".mixin is undefined", err.Error())
}

func TestAtWithCulprit(t *testing.T) {
	ref := &SourceRef{Name: "style.less"}
	err := At(ref, 12, 3, ".foo { color: @x; }", "variable %s is undefined", "@x")
	require.Equal(t, "variable @x is undefined on line 3: .foo { color: @x; }", err.Error())
}

func TestAtWithoutCulprit(t *testing.T) {
	ref := &SourceRef{Name: "style.less"}
	err := At(ref, 0, 5, "", "recursive mixin call")
	require.Equal(t, "recursive mixin call on line 5", err.Error())
}

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = Errorf("boom")
	require.EqualError(t, err, "boom")
}
