package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/valtree"
)

func parseOne(t *testing.T, src string) *valtree.Block {
	t.Helper()
	idSeq := 0
	p := New(src, "<test>", &idSeq)
	root, err := p.Parse()
	require.NoError(t, err)
	return root
}

func findRule(t *testing.T, root *valtree.Block) *valtree.Block {
	t.Helper()
	for _, prop := range root.Props {
		if prop.Kind == valtree.PropBlock {
			return prop.Child
		}
	}
	t.Fatalf("no nested block found")
	return nil
}

func TestParseImportantDeclaration(t *testing.T) {
	root := parseOne(t, ".a { color: red !important; }")
	rule := findRule(t, root)

	var found bool
	for _, prop := range rule.Props {
		if prop.Kind == valtree.PropAssign && prop.Name == "color" {
			found = true
			require.True(t, prop.Important)
		}
	}
	require.True(t, found, "color property not found")
}

func TestParseDeclarationWithoutImportant(t *testing.T) {
	root := parseOne(t, ".a { color: red; }")
	rule := findRule(t, root)

	for _, prop := range rule.Props {
		if prop.Kind == valtree.PropAssign && prop.Name == "color" {
			require.False(t, prop.Important)
			return
		}
	}
	t.Fatalf("color property not found")
}

func TestParseMixinCallImportant(t *testing.T) {
	root := parseOne(t, ".a { .mixin() !important; }")
	rule := findRule(t, root)

	for _, prop := range rule.Props {
		if prop.Kind == valtree.PropMixinCall {
			require.True(t, prop.Important)
			return
		}
	}
	t.Fatalf("mixin call not found")
}

func TestParseNestedSelector(t *testing.T) {
	root := parseOne(t, ".container { .header { color: blue; } }")
	outer := findRule(t, root)
	require.Equal(t, []string{".container"}, outer.Tags)

	inner := findRule(t, outer)
	require.Equal(t, []string{".header"}, inner.Tags)
}

func TestParseCommaSelectorList(t *testing.T) {
	root := parseOne(t, ".a, .b { color: red; }")
	rule := findRule(t, root)
	require.Equal(t, []string{".a", ".b"}, rule.Tags)
}
