package compiler

import (
	"path/filepath"
	stdstrings "strings"

	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/importer"
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/parser"
	"github.com/titpetric/lessgo/reducer"
	"github.com/titpetric/lessgo/valtree"
)

// compileRoot implements the "root" branch of §4.5: push a frame, make
// an output block of type root, compile props, pop.
func (c *Compiler) compileRoot(root *valtree.Block) (*valtree.OutputBlock, error) {
	frame := c.Stack.Push(root)
	defer c.Stack.Pop()

	for name, v := range c.variables {
		frame.Set(name, v)
	}

	out := &valtree.OutputBlock{Type: valtree.BlockRoot}
	if err := c.compileProps(root, out, out, nil, nil, false); err != nil {
		return nil, err
	}
	out.Lines = dedupLines(out.Lines)
	root.Scope = frame
	return out, nil
}

// compileChildBlock dispatches a nested block by type (§4.5): a plain
// CSS rule, an `@media` block (multiplied against enclosing media
// ancestors), or any other at-rule (emitted then compiled as a nested
// block). Any other block type is a fatal "unknown block type" error.
func (c *Compiler) compileChildBlock(child *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, parentSelectors, parentQueries []string) error {
	switch child.Type {
	case valtree.BlockRule:
		return c.compileRuleBlock(child, attachTo, nonMediaOut, parentSelectors, parentQueries)
	case valtree.BlockDirective:
		if child.Name == "@media" {
			return c.compileMediaBlock(child, attachTo, nonMediaOut, parentSelectors, parentQueries)
		}
		return c.compileDirectiveBlock(child, attachTo, nonMediaOut, parentSelectors, parentQueries)
	default:
		return lesserr.Errorf("unknown block type")
	}
}

func (c *Compiler) compileRuleBlock(child *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, parentSelectors, parentQueries []string) error {
	frame := c.Stack.Push(child)
	defer c.Stack.Pop()

	ownSelectors, err := c.reduceSelectors(child.Tags)
	if err != nil {
		return err
	}
	multiplied := multiplySelectors(parentSelectors, ownSelectors)
	frame.Selectors = multiplied

	out := &valtree.OutputBlock{Type: valtree.BlockRule, Selectors: multiplied, Parent: attachTo}
	attachTo.Children = append(attachTo.Children, out)

	if err := c.compileProps(child, out, out, multiplied, parentQueries, false); err != nil {
		return err
	}
	out.Lines = dedupLines(out.Lines)

	child.Scope = frame
	return nil
}

func (c *Compiler) compileMediaBlock(child *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, parentSelectors, parentQueries []string) error {
	frame := c.Stack.Push(child)
	defer c.Stack.Pop()
	frame.Selectors = parentSelectors

	ownQueries, err := c.reduceQueries(child.Queries)
	if err != nil {
		return err
	}
	multiplied := multiplyMedia(parentQueries, ownQueries)

	out := &valtree.OutputBlock{Type: valtree.BlockMedia, Selectors: multiplied, Parent: nonMediaOut}
	nonMediaOut.Children = append(nonMediaOut.Children, out)

	if err := c.compileProps(child, out, nonMediaOut, parentSelectors, multiplied, false); err != nil {
		return err
	}

	// Orphan lines: declarations that landed directly on the media
	// block with no enclosing selector of their own. Wrap them in a
	// synthetic rule using the closest enclosing selectors (§4.5
	// "media").
	if len(out.Lines) > 0 {
		wrapped := &valtree.OutputBlock{Type: valtree.BlockRule, Selectors: parentSelectors, Lines: out.Lines, Parent: out}
		out.Children = append([]*valtree.OutputBlock{wrapped}, out.Children...)
		out.Lines = nil
	}

	child.Scope = frame
	return nil
}

func (c *Compiler) compileDirectiveBlock(child *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, parentSelectors, parentQueries []string) error {
	frame := c.Stack.Push(child)
	defer c.Stack.Pop()
	frame.Selectors = parentSelectors

	header := child.Name
	qs, err := c.reduceQueries(child.Queries)
	if err != nil {
		return err
	}
	joined := stdstrings.TrimSpace(stdstrings.Join(qs, ", "))
	if joined != "" {
		header = header + " " + joined
	} else if child.Value != "" {
		header = header + " " + child.Value
	}

	out := &valtree.OutputBlock{Type: valtree.BlockDirective, Selectors: []string{header}, Parent: nonMediaOut}
	nonMediaOut.Children = append(nonMediaOut.Children, out)

	if err := c.compileProps(child, out, out, parentSelectors, parentQueries, false); err != nil {
		return err
	}
	out.Lines = dedupLines(out.Lines)

	child.Scope = frame
	return nil
}

// compileProps implements §4.5.2/§4.5.3: sorts block's props (vars and
// imports first, vars duplicated before and after imports), then
// compiles each in that order. forceImportant propagates a mixin
// call's trailing `!important` onto every property assign compiled
// from its body.
func (c *Compiler) compileProps(block *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, selectors, queries []string, forceImportant bool) error {
	sorted := c.sortProps(block.Props)
	for _, prop := range sorted {
		if err := c.compileProp(prop, block, attachTo, nonMediaOut, selectors, queries, forceImportant); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileProp(prop valtree.Prop, block *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, selectors, queries []string, forceImportant bool) error {
	switch prop.Kind {
	case valtree.PropAssign:
		if stdstrings.HasPrefix(prop.Name, "@") {
			c.Stack.Top().Set(prop.Name, prop.Value)
			return nil
		}
		reduced, err := c.Reducer.Reduce(prop.Value, false)
		if err != nil {
			return err
		}
		decl := reducer.Stringify(reduced)
		if prop.Important || forceImportant {
			decl += " !important"
		}
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{Name: prop.Name, Decl: decl})
		return nil

	case valtree.PropBlock:
		return c.compileChildBlock(prop.Child, attachTo, nonMediaOut, selectors, queries)

	case valtree.PropMixinCall:
		return c.compileMixinCall(prop, block, attachTo, nonMediaOut, selectors, queries, forceImportant || prop.Important)

	case valtree.PropRaw:
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{IsRaw: true, Text: prop.Text})
		return nil

	case valtree.PropComment:
		if !c.preserveComments {
			return nil
		}
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{IsComment: true, Text: prop.Text})
		return nil

	case valtree.PropDirective:
		value, err := c.interpolateText(prop.Text)
		if err != nil {
			return err
		}
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{IsRaw: true, Text: prop.Name + " " + value + ";"})
		return nil

	case valtree.PropImport:
		return c.compileImportProp(prop, attachTo, nonMediaOut, selectors, queries)

	case valtree.PropImportMixin:
		return c.compileImportMixin(prop, attachTo, nonMediaOut, selectors, queries)
	}
	return lesserr.Errorf("unknown prop kind")
}

// compileMixinCall implements the ruleset/mixin row of §4.5.3: resolve
// the call's target(s) (§4.4), then for each match push a frame whose
// storeParent is the mixin's captured declaration scope, bind its
// arguments, temporarily reparent it to the call site so nested
// lookups search from there (a mixin calling itself keeps its current
// parent, since a block cannot be its own parent), and compile its props into the caller's
// current output scope.
//
// The resolved matches are not filtered against the calling block: a
// guarded recursive mixin resolves to the same declared Block on every
// call, and excluding self-matches would silently break that standard
// recursion idiom with no guard of its own to take its place.
func (c *Compiler) compileMixinCall(prop valtree.Prop, block *valtree.Block, attachTo, nonMediaOut *valtree.OutputBlock, selectors, queries []string, forceImportant bool) error {
	ordered := make([]valtree.Value, len(prop.CallArgs))
	for i, a := range prop.CallArgs {
		rv, err := c.Reducer.Reduce(a, true)
		if err != nil {
			return err
		}
		ordered[i] = rv
	}

	matches, err := c.Resolver.FindBlocks(block, prop.Path, ordered, nil)
	if err != nil {
		return err
	}

	for _, match := range matches {
		var declSite *env.Frame
		if fr, ok := match.Scope.(*env.Frame); ok {
			declSite = fr
		}
		frame := c.Stack.PushWith(match, declSite)
		frame.Selectors = selectors

		if _, err := c.Resolver.ZipSetArgs(match, ordered, nil); err != nil {
			c.Stack.Pop()
			return err
		}

		savedParent := match.Parent
		if match != block {
			match.Parent = block
		}

		err := c.compileProps(match, attachTo, nonMediaOut, selectors, queries, forceImportant)

		match.Parent = savedParent
		c.Stack.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// compileImportProp implements the import row of §4.5.3: resolve the
// path (skipping disabled/CSS/cyclic imports), splice its top-props
// (its own hoisted vars/imports) now, and remember its bottom-props
// under a fresh import id for the paired import_mixin placeholder.
func (c *Compiler) compileImportProp(prop valtree.Prop, attachTo, nonMediaOut *valtree.OutputBlock, selectors, queries []string) error {
	path, err := c.interpolateText(prop.Text)
	if err != nil {
		return err
	}

	if stdstrings.HasSuffix(path, ".css") || prop.ImportOpts.CSS {
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{IsRaw: true, Text: `@import "` + path + `";`})
		return nil
	}

	im := importer.New(c.importDirs)
	resolved, ok := im.Find(path)
	if !ok {
		if prop.ImportOpts.Optional {
			return nil
		}
		attachTo.Lines = append(attachTo.Lines, valtree.OutputLine{IsComment: true, Text: "/* import disabled */"})
		return nil
	}

	if c.alreadyParsed(resolved) {
		return nil // cycle: already-parsed file resolves to a no-op (§3.4)
	}

	content, err := im.Read(resolved)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	savedDirs := c.importDirs
	c.importDirs = append([]string{dir}, c.importDirs...)
	c.FuncCtx.ImportDirs = c.importDirs
	defer func() {
		c.importDirs = savedDirs
		c.FuncCtx.ImportDirs = c.importDirs
	}()

	c.recordParsed(resolved)

	p := parser.New(content, resolved, &c.idSeq)
	p.Writec = c.preserveComments
	importedRoot, err := p.Parse()
	if err != nil {
		return err
	}

	sortedImported := c.sortProps(importedRoot.Props)
	var bottom []valtree.Prop
	reachedBottom := false
	for _, ip := range sortedImported {
		if !reachedBottom && (isVarAssign(ip) || ip.Kind == valtree.PropImport) {
			if err := c.compileProp(ip, importedRoot, attachTo, nonMediaOut, selectors, queries, false); err != nil {
				return err
			}
			continue
		}
		reachedBottom = true
		bottom = append(bottom, ip)
	}

	c.importByID[prop.ImportID] = &importRecord{bottomProps: bottom, srcBlock: importedRoot, importDir: dir}
	return nil
}

func (c *Compiler) compileImportMixin(prop valtree.Prop, attachTo, nonMediaOut *valtree.OutputBlock, selectors, queries []string) error {
	rec, ok := c.importByID[prop.ImportID]
	if !ok {
		return nil
	}
	for _, bp := range rec.bottomProps {
		if err := c.compileProp(bp, rec.srcBlock, attachTo, nonMediaOut, selectors, queries, false); err != nil {
			return err
		}
	}
	return nil
}

// reduceSelectors reduces any `@{...}` interpolation embedded in raw
// selector text (§4.5 "compile its selectors").
func (c *Compiler) reduceSelectors(tags []string) ([]string, error) {
	out := make([]string, len(tags))
	for i, t := range tags {
		r, err := c.interpolateText(t)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (c *Compiler) reduceQueries(queries []valtree.Value) ([]string, error) {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		reduced, err := c.Reducer.Reduce(q, false)
		if err != nil {
			return nil, err
		}
		txt, err := c.interpolateText(reducer.Stringify(reduced))
		if err != nil {
			return nil, err
		}
		out = append(out, txt)
	}
	return out, nil
}

// interpolateText expands `@{name}` sequences embedded in already-raw
// text (selectors, directive values) against the live environment.
func (c *Compiler) interpolateText(s string) (string, error) {
	var b stdstrings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '@' && i+1 < len(s) && s[i+1] == '{' {
			end := stdstrings.Index(s[i+2:], "}")
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			name := s[i+2 : i+2+end]
			val, err := c.Stack.Get("@" + name)
			if err != nil {
				return "", err
			}
			reduced, err := c.Reducer.Reduce(val, false)
			if err != nil {
				return "", err
			}
			b.WriteString(reducer.Stringify(reduced))
			i = i + 2 + end + 1
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String(), nil
}

// multiplySelectors implements §4.5.1: for each parent selector and
// each child selector, replace every "&" in the child with the parent
// (the child stands alone if any replacement occurred), else prepend
// `parent + " " + child`. Top-level selectors (no parent) replace "&"
// with the empty string.
func multiplySelectors(parents, children []string) []string {
	if len(parents) == 0 {
		parents = []string{""}
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, parent := range parents {
		for _, child := range children {
			var sel string
			if stdstrings.Contains(child, "&") {
				sel = stdstrings.ReplaceAll(child, "&", parent)
			} else if parent != "" {
				sel = parent + " " + child
			} else {
				sel = child
			}
			out = append(out, stdstrings.TrimSpace(collapseSpaces(sel)))
		}
	}
	return out
}

func collapseSpaces(s string) string {
	for stdstrings.Contains(s, "  ") {
		s = stdstrings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// multiplyMedia Cartesian-ANDs an enclosing media ancestor's query
// list against a nested media block's own list (§4.5 "media"). A
// block with no queries of its own (an empty list) simply carries the
// parent's list forward unchanged.
func multiplyMedia(parents, children []string) []string {
	if len(parents) == 0 {
		return append([]string{}, children...)
	}
	if len(children) == 0 {
		return append([]string{}, parents...)
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, p := range parents {
		for _, ch := range children {
			switch {
			case p == "":
				out = append(out, ch)
			case ch == "":
				out = append(out, p)
			default:
				out = append(out, p+" and "+ch)
			}
		}
	}
	return out
}

func isVarAssign(p valtree.Prop) bool {
	return p.Kind == valtree.PropAssign && stdstrings.HasPrefix(p.Name, "@")
}

// unit pairs a statement with any comment props immediately preceding
// it, so relocating the statement during sortProps carries its
// comments along (§4.5.2 "comments ... stick to the next following
// statement").
type unit struct {
	comments []valtree.Prop
	stmt     valtree.Prop
}

func groupWithComments(props []valtree.Prop) []unit {
	var units []unit
	var pending []valtree.Prop
	for _, p := range props {
		if p.Kind == valtree.PropComment {
			pending = append(pending, p)
			continue
		}
		units = append(units, unit{comments: pending, stmt: p})
		pending = nil
	}
	for _, c := range pending {
		units = append(units, unit{stmt: c})
	}
	return units
}

// sortProps implements §4.5.2: variable assigns and imports move
// before other props, with variables prepended both before and after
// the import block (preserved verbatim per the documented open
// question — see DESIGN.md — including that this duplicates any
// comments attached to a relocated variable). Each import receives a
// fresh id and leaves an import_mixin placeholder at its original
// position among the "other" props.
func (c *Compiler) sortProps(props []valtree.Prop) []valtree.Prop {
	units := groupWithComments(props)

	var varUnits, importUnits, otherSeq []valtree.Prop
	for _, u := range units {
		switch {
		case isVarAssign(u.stmt):
			varUnits = append(varUnits, u.comments...)
			varUnits = append(varUnits, u.stmt)

		case u.stmt.Kind == valtree.PropImport:
			c.importSeq++
			imp := u.stmt
			imp.ImportID = c.importSeq
			importUnits = append(importUnits, u.comments...)
			importUnits = append(importUnits, imp)
			otherSeq = append(otherSeq, u.comments...)
			otherSeq = append(otherSeq, valtree.Prop{Kind: valtree.PropImportMixin, ImportID: imp.ImportID})

		default:
			otherSeq = append(otherSeq, u.comments...)
			otherSeq = append(otherSeq, u.stmt)
		}
	}

	out := make([]valtree.Prop, 0, 2*len(varUnits)+len(importUnits)+len(otherSeq))
	out = append(out, varUnits...)
	out = append(out, importUnits...)
	out = append(out, varUnits...)
	out = append(out, otherSeq...)
	return out
}

// dedupLines implements §4.5.4: walk lines in order, buffering comment
// lines; when a non-comment line repeats an earlier one, splice the
// buffered comments in before the kept occurrence instead of
// re-appending the line. Comments buffered before a first occurrence
// are kept in front of it. Trailing comments are appended at the end.
func dedupLines(lines []valtree.OutputLine) []valtree.OutputLine {
	out := make([]valtree.OutputLine, 0, len(lines))
	index := make(map[string]int)
	var commentBuf []valtree.OutputLine

	for _, l := range lines {
		if l.IsComment {
			commentBuf = append(commentBuf, l)
			continue
		}
		key := lineKey(l)
		if pos, ok := index[key]; ok {
			out = spliceBefore(out, pos, commentBuf)
			for k, p := range index {
				if p >= pos {
					index[k] = p + len(commentBuf)
				}
			}
		} else {
			out = append(out, commentBuf...)
			out = append(out, l)
			index[key] = len(out) - 1
		}
		commentBuf = nil
	}
	out = append(out, commentBuf...)
	return out
}

func lineKey(l valtree.OutputLine) string {
	if l.IsRaw {
		return "raw\x00" + l.Text
	}
	return "decl\x00" + l.Name + "\x00" + l.Decl
}

func spliceBefore(lines []valtree.OutputLine, pos int, ins []valtree.OutputLine) []valtree.OutputLine {
	if len(ins) == 0 {
		return lines
	}
	out := make([]valtree.OutputLine, 0, len(lines)+len(ins))
	out = append(out, lines[:pos]...)
	out = append(out, ins...)
	out = append(out, lines[pos:]...)
	return out
}
