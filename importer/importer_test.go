package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindResolvesWithLessSuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mixins.less"), []byte("body{}"), 0o644))

	im := New([]string{dir})
	path, ok := im.Find("mixins")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "mixins.less"), path)
}

func TestFindNeverResolvesCSSURLs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reset.css"), []byte("body{}"), 0o644))

	im := New([]string{dir})
	path, ok := im.Find("reset.css")
	require.False(t, ok, ".css-suffixed urls are never resolved")
	require.Empty(t, path)
}

func TestFindSearchesDirsInOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "shared.less"), []byte("body{}"), 0o644))

	im := New([]string{dirA, dirB})
	path, ok := im.Find("shared")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dirB, "shared.less"), path)
}

func TestFindMissing(t *testing.T) {
	im := New([]string{t.TempDir()})
	_, ok := im.Find("nothing-here")
	require.False(t, ok)
}

func TestCanonicalIsAbsolute(t *testing.T) {
	canon, err := Canonical("a.less")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(canon))
}
