package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/valtree"
)

func TestStackSetGet(t *testing.T) {
	s := New()
	s.Push(nil)
	s.Set("@color", valtree.Keyword{Name: "red"})

	v, err := s.Get("@color")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "red"}, v)
}

func TestStackGetUndefined(t *testing.T) {
	s := New()
	s.Push(nil)

	_, err := s.Get("@missing")
	require.Error(t, err)
}

func TestFrameSetDirect(t *testing.T) {
	// Frame.Set must write to the frame's own Store, not require it to
	// be the stack's current top.
	s := New()
	root := s.Push(nil)
	child := s.Push(nil)

	root.Set("@a", valtree.Keyword{Name: "root-value"})
	require.Equal(t, valtree.Keyword{Name: "root-value"}, root.Store["@a"])

	_ = child
	v, err := s.Get("@a")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "root-value"}, v)
}

func TestStackScopedShadowing(t *testing.T) {
	s := New()
	s.Push(nil)
	s.Set("@x", valtree.Keyword{Name: "outer"})

	s.Push(nil)
	s.Set("@x", valtree.Keyword{Name: "inner"})

	v, err := s.Get("@x")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "inner"}, v)

	s.Pop()
	v, err = s.Get("@x")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "outer"}, v)
}

func TestStoreParentChain(t *testing.T) {
	s := New()
	declSite := s.Push(nil)
	declSite.Set("@shared", valtree.Keyword{Name: "from-decl-site"})
	s.Pop()

	s.Push(nil) // unrelated call-site frame
	mixinFrame := s.PushWith(nil, declSite)
	require.Same(t, declSite, mixinFrame.StoreParent)

	got, err := s.Get("@shared")
	require.NoError(t, err)
	require.Equal(t, valtree.Keyword{Name: "from-decl-site"}, got)
}

func TestSeenGuard(t *testing.T) {
	s := New()
	f := s.Push(nil)

	seen, release := f.SeenGuard("@x")
	require.False(t, seen)

	seen2, _ := f.SeenGuard("@x")
	require.True(t, seen2)

	release()
	seen3, _ := f.SeenGuard("@x")
	require.False(t, seen3)
}
