package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessgo/valtree"
)

func TestCompileVariableInterpolation(t *testing.T) {
	c := New()
	css, err := c.Compile(`
@primary: #0066cc;
body {
  color: @primary;
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "color: #0066cc;")
	require.Contains(t, css, "body {")
}

func TestCompileNestedSelectors(t *testing.T) {
	c := New()
	css, err := c.Compile(`
.container {
  .header {
    color: blue;
  }
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, ".container .header {")
}

func TestCompileAmpersandSelector(t *testing.T) {
	c := New()
	css, err := c.Compile(`
a {
  &:hover {
    color: red;
  }
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "a:hover {")
}

func TestCompileMixinCall(t *testing.T) {
	c := New()
	css, err := c.Compile(`
.bordered() {
  border: 1px solid black;
}
.box {
  .bordered();
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "border: 1px solid black;")
	require.Contains(t, css, ".box {")
}

func TestCompileImportantPropagatesThroughMixin(t *testing.T) {
	c := New()
	css, err := c.Compile(`
.bordered() {
  border: 1px solid black;
}
.box {
  .bordered() !important;
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "border: 1px solid black !important;")
}

func TestCompileMediaQueryMultiplication(t *testing.T) {
	c := New()
	css, err := c.Compile(`
@media screen {
  @media (min-width: 768px) {
    body {
      color: red;
    }
  }
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "screen and (min-width: 768px)")
}

func TestCompileGuardedRecursiveMixin(t *testing.T) {
	c := New()
	css, err := c.Compile(`
.loop(@i) when (@i > 0) {
  .item-@{i} {
    width: (@i * 10px);
  }
  .loop(@i - 1);
}
.loop(@i) when (@i = 0) {}
.loop(2);
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, ".item-2")
	require.Contains(t, css, ".item-1")
}

func TestCompileFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.less")
	out := filepath.Join(dir, "out.css")
	require.NoError(t, os.WriteFile(in, []byte("body { color: red; }"), 0o644))

	c := New()
	css, n, err := c.CompileFile(in, out)
	require.NoError(t, err)
	require.Greater(t, n, 0)
	require.Contains(t, css, "color: red;")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, css, string(written))
}

func TestCheckedCompileSkipsWhenUpToDate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.less")
	out := filepath.Join(dir, "out.css")
	require.NoError(t, os.WriteFile(in, []byte("body { color: red; }"), 0o644))

	c := New()
	recompiled, err := c.CheckedCompile(in, out)
	require.NoError(t, err)
	require.True(t, recompiled)

	recompiled, err = c.CheckedCompile(in, out)
	require.NoError(t, err)
	require.False(t, recompiled, "second call should see out.css is newer")
}

func TestImportSplicesTopAndBottomProps(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vars.less"), []byte(`
@accent: #ff00ff;
.shared {
  color: @accent;
}
`), 0o644))

	c := New()
	c.AddImportDir(dir)
	css, err := c.Compile(`
@import "vars";
body {
  border-color: @accent;
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "#ff00ff")
	require.Contains(t, css, ".shared")
}

func TestImportCycleIsANoOp(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.less")
	bPath := filepath.Join(dir, "b.less")
	require.NoError(t, os.WriteFile(aPath, []byte(`@import "b"; .a { color: red; }`), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte(`@import "a"; .b { color: blue; }`), 0o644))

	c := New()
	css, _, err := c.CompileFile(aPath, "")
	require.NoError(t, err)
	require.Contains(t, css, ".a")
	require.Contains(t, css, ".b")
}

func TestSetVariablesBindsExternalVariable(t *testing.T) {
	c := New()
	c.SetVariables(map[string]valtree.Value{
		"theme": valtree.Keyword{Name: "dark"},
	})
	css, err := c.Compile(`
body {
  theme: @theme;
}
`, "input.less")
	require.NoError(t, err)
	require.Contains(t, css, "theme: dark;")
}

func TestUnsetVariableRemovesBinding(t *testing.T) {
	c := New()
	c.SetVariables(map[string]valtree.Value{"theme": valtree.Keyword{Name: "dark"}})
	c.UnsetVariable("theme")
	_, err := c.Compile(`
body {
  theme: @theme;
}
`, "input.less")
	require.Error(t, err)
}
