// Package formatter renders a compiled valtree.OutputBlock tree to CSS
// text (§6.3), in one of three styles: compressed, classic, lessjs.
package formatter

import (
	"bytes"
	"regexp"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// Formatter is the formatter interface consumed by the compiler
// (§6.3): property builds one declaration line, Render walks a whole
// output tree to a finished CSS string.
type Formatter interface {
	Property(name, value string) string
	Render(root *valtree.OutputBlock) string
}

// ByName resolves one of the three recognised style names (§6.1
// set_formatter).
func ByName(name string) (Formatter, error) {
	switch name {
	case "compressed":
		return NewCompressed(), nil
	case "classic":
		return NewClassic(), nil
	case "lessjs", "":
		return NewLessJS(), nil
	}
	return nil, lesserr.Errorf("unknown formatter %q", name)
}

var shortHex = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)

// compressColors shortens doubled hex triplets (#aabbcc → #abc), the
// effect `compress_colors` has on the value stringifier (§6.3).
func compressColors(s string) string {
	return shortHex.ReplaceAllStringFunc(s, func(m string) string {
		if m[1] == m[2] && m[3] == m[4] && m[5] == m[6] {
			return string([]byte{'#', m[1], m[3], m[5]})
		}
		return m
	})
}

// base holds the three style knobs common to every Formatter (§6.3):
// the separator joining sibling selectors, whether colors are
// shortened, and whether output is pretty-printed at all.
type base struct {
	selectorSeparator string
	compressColorsOn  bool
	pretty            bool
}

func (b *base) Property(name, value string) string {
	if b.compressColorsOn {
		value = compressColors(value)
	}
	if !b.pretty {
		return name + ":" + value + ";"
	}
	return name + ": " + value + ";"
}

func (b *base) render(root *valtree.OutputBlock) string {
	var buf bytes.Buffer
	b.writeChildren(&buf, root, 0)
	return buf.String()
}

func (b *base) writeChildren(buf *bytes.Buffer, out *valtree.OutputBlock, depth int) {
	for _, child := range out.Children {
		b.writeBlock(buf, child, depth)
	}
	b.writeLines(buf, out.Lines, depth)
}

func (b *base) writeBlock(buf *bytes.Buffer, out *valtree.OutputBlock, depth int) {
	b.indent(buf, depth)
	buf.WriteString(joinSelectors(out.Selectors, b.selectorSeparator))
	if b.pretty {
		buf.WriteString(" {\n")
	} else {
		buf.WriteString("{")
	}

	b.writeLines(buf, out.Lines, depth+1)
	for _, child := range out.Children {
		b.writeBlock(buf, child, depth+1)
	}

	b.indent(buf, depth)
	if b.pretty {
		buf.WriteString("}\n")
	} else {
		buf.WriteString("}")
	}
}

func (b *base) writeLines(buf *bytes.Buffer, lines []valtree.OutputLine, depth int) {
	for _, l := range lines {
		b.indent(buf, depth)
		switch {
		case l.IsComment:
			buf.WriteString(l.Text)
		case l.IsRaw:
			buf.WriteString(l.Text)
		default:
			buf.WriteString(b.Property(l.Name, l.Decl))
		}
		if b.pretty {
			buf.WriteString("\n")
		}
	}
}

func (b *base) indent(buf *bytes.Buffer, depth int) {
	if !b.pretty {
		return
	}
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

func joinSelectors(selectors []string, sep string) string {
	out := ""
	for i, s := range selectors {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}
