package formatter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/valtree"
)

func sampleTree() *valtree.OutputBlock {
	root := &valtree.OutputBlock{Type: valtree.BlockRoot}
	rule := &valtree.OutputBlock{
		Type:      valtree.BlockRule,
		Selectors: []string{".a", ".b"},
		Lines: []valtree.OutputLine{
			{Name: "color", Decl: "#aabbcc"},
		},
	}
	root.Children = append(root.Children, rule)
	return root
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("nonexistent")
	require.Error(t, err)
}

func TestByNameDefaultsToLessJS(t *testing.T) {
	f, err := ByName("")
	require.NoError(t, err)
	_, ok := f.(*LessJS)
	require.True(t, ok)
}

func TestCompressedOutput(t *testing.T) {
	f := NewCompressed()
	out := f.Render(sampleTree())
	require.Equal(t, ".a,.b{color:#abc;}", out)
}

func TestClassicOutput(t *testing.T) {
	f := NewClassic()
	out := f.Render(sampleTree())
	require.Contains(t, out, ".a,\n.b {\n")
	require.Contains(t, out, "color: #aabbcc;")
}

func TestLessJSOutput(t *testing.T) {
	f := NewLessJS()
	out := f.Render(sampleTree())
	require.Contains(t, out, ".a, .b {\n")
	require.Contains(t, out, "color: #aabbcc;")
}
