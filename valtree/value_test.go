package valtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewColorClamps(t *testing.T) {
	c := NewColor(300, -10, 128, 1.5)
	require.Equal(t, Color{R: 255, G: 0, B: 128, A: 1}, c)
}

func TestBoolRoundTrip(t *testing.T) {
	require.True(t, IsTruthy(Bool(true)))
	require.False(t, IsTruthy(Bool(false)))
	require.False(t, IsTruthy(Keyword{Name: "auto"}))
}

func TestNormalizeOp(t *testing.T) {
	require.Equal(t, OpLe, NormalizeOp("<="))
	require.Equal(t, OpLe, NormalizeOp("=<"))
	require.Equal(t, OpAdd, NormalizeOp("+"))
}

func TestPlainString(t *testing.T) {
	s := PlainString(`"`, "hello")
	require.Equal(t, `"`, s.Delim)
	require.Len(t, s.Parts, 1)
	require.Equal(t, "hello", s.Parts[0].Literal)
	require.Nil(t, s.Parts[0].Inner)
}
