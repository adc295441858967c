package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/functions"
	"github.com/titpetric/lessgo/reducer"
	"github.com/titpetric/lessgo/valtree"
)

func newResolver() (*Resolver, *env.Stack) {
	stack := env.New()
	red := reducer.New(stack, functions.NewRegistry(), &functions.Context{})
	return New(stack, red), stack
}

func TestFindBlocksFindsDeclaredMixin(t *testing.T) {
	r, _ := newResolver()
	idSeq := 0
	root := valtree.NewBlock(&idSeq, valtree.BlockRoot)
	mixin := valtree.NewBlock(&idSeq, valtree.BlockRule)
	root.AddChild(".box", mixin)

	matches, err := r.FindBlocks(root, []string{".box"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []*valtree.Block{mixin}, matches)
}

func TestFindBlocksWalksAncestors(t *testing.T) {
	r, _ := newResolver()
	idSeq := 0
	root := valtree.NewBlock(&idSeq, valtree.BlockRoot)
	mixin := valtree.NewBlock(&idSeq, valtree.BlockRule)
	root.AddChild(".shared", mixin)

	child := valtree.NewBlock(&idSeq, valtree.BlockRule)
	root.AddChild(".outer", child)
	grandchild := valtree.NewBlock(&idSeq, valtree.BlockRule)
	child.AddChild(".inner", grandchild)

	matches, err := r.FindBlocks(grandchild, []string{".shared"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []*valtree.Block{mixin}, matches)
}

func TestFindBlocksUndefinedErrors(t *testing.T) {
	r, _ := newResolver()
	idSeq := 0
	root := valtree.NewBlock(&idSeq, valtree.BlockRoot)

	_, err := r.FindBlocks(root, []string{".missing"}, nil, nil)
	require.Error(t, err)
}

func TestPatternMatchFiltersByArity(t *testing.T) {
	r, _ := newResolver()
	idSeq := 0
	zeroArg := valtree.NewBlock(&idSeq, valtree.BlockRule)
	oneArg := valtree.NewBlock(&idSeq, valtree.BlockRule)
	oneArg.Args = []valtree.Param{{Name: "size"}}

	matched, err := r.PatternMatch([]*valtree.Block{zeroArg, oneArg}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []*valtree.Block{zeroArg}, matched)

	matched, err = r.PatternMatch([]*valtree.Block{zeroArg, oneArg}, []valtree.Value{valtree.Number{Val: 1}}, nil)
	require.NoError(t, err)
	require.Equal(t, []*valtree.Block{oneArg}, matched)
}

func TestPatternMatchGuardFiltersCandidates(t *testing.T) {
	r, stack := newResolver()
	idSeq := 0
	guarded := valtree.NewBlock(&idSeq, valtree.BlockRule)
	guarded.Args = []valtree.Param{{Name: "n"}}
	guarded.Guards = []valtree.GuardConjunction{{
		Exprs: []valtree.Value{valtree.Keyword{Name: "false"}},
	}}
	stack.Push(nil)

	matched, err := r.PatternMatch([]*valtree.Block{guarded}, []valtree.Value{valtree.Number{Val: 1}}, nil)
	require.NoError(t, err)
	require.Empty(t, matched)
}

func TestZipSetArgsBindsPositionalAndDefault(t *testing.T) {
	r, stack := newResolver()
	idSeq := 0
	mixin := valtree.NewBlock(&idSeq, valtree.BlockRule)
	mixin.Args = []valtree.Param{
		{Name: "color"},
		{Name: "width", Default: valtree.Number{Val: 1, Unit: "px"}},
	}
	stack.Push(nil)

	bound, err := r.ZipSetArgs(mixin, []valtree.Value{valtree.Keyword{Name: "red"}}, nil)
	require.NoError(t, err)
	require.Len(t, bound, 2)

	got, err := stack.Get("@color")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "red"}, got)

	got, err = stack.Get("@width")
	require.NoError(t, err)
	require.Equal(t, valtree.Number{Val: 1, Unit: "px"}, got)
}

func TestZipSetArgsBindsRestParameter(t *testing.T) {
	r, stack := newResolver()
	idSeq := 0
	mixin := valtree.NewBlock(&idSeq, valtree.BlockRule)
	mixin.Args = []valtree.Param{
		{Name: "first"},
		{Name: "rest", Rest: true},
	}
	mixin.IsVararg = true
	stack.Push(nil)

	_, err := r.ZipSetArgs(mixin, []valtree.Value{
		valtree.Number{Val: 1},
		valtree.Number{Val: 2},
		valtree.Number{Val: 3},
	}, nil)
	require.NoError(t, err)

	rest, err := stack.Get("@rest")
	require.NoError(t, err)
	list, ok := rest.(valtree.List)
	require.True(t, ok)
	require.Len(t, list.Items, 2)
}

func TestZipSetArgsMissingRequiredArgErrors(t *testing.T) {
	r, stack := newResolver()
	idSeq := 0
	mixin := valtree.NewBlock(&idSeq, valtree.BlockRule)
	mixin.Args = []valtree.Param{{Name: "color"}}
	stack.Push(nil)

	_, err := r.ZipSetArgs(mixin, nil, nil)
	require.Error(t, err)
}
