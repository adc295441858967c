package formatter

import "github.com/titpetric/lessgo/valtree"

// Compressed emits minified CSS: no whitespace, comma-separated
// selectors, shortened hex colors.
type Compressed struct{ base }

func NewCompressed() *Compressed {
	return &Compressed{base{selectorSeparator: ",", compressColorsOn: true, pretty: false}}
}

func (f *Compressed) Render(root *valtree.OutputBlock) string { return f.render(root) }

// Classic emits one selector per line (less.js's "classic" output
// style), full hex colors.
type Classic struct{ base }

func NewClassic() *Classic {
	return &Classic{base{selectorSeparator: ",\n", compressColorsOn: false, pretty: true}}
}

func (f *Classic) Render(root *valtree.OutputBlock) string { return f.render(root) }

// LessJS matches less.js's default output style: comma-space
// separated selectors, full hex colors, indented blocks. This is the
// default formatter (§6.1).
type LessJS struct{ base }

func NewLessJS() *LessJS {
	return &LessJS{base{selectorSeparator: ", ", compressColorsOn: false, pretty: true}}
}

func (f *LessJS) Render(root *valtree.OutputBlock) string { return f.render(root) }
