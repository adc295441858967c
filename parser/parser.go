// Package parser adapts the teacher's hand-rolled lexer into a
// recursive-descent parser that emits valtree trees (§6.2, consumed by
// the evaluator core; not itself part of the evaluator's spec). It is
// deliberately not a lexically-complete CSS parser (§1 Non-goals):
// unrecognised at-rules pass through as directive text best-effort.
package parser

import (
	stdstrings "strings"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

var directiveKeywords = map[string]bool{
	"import": true, "media": true, "charset": true, "supports": true,
	"font-face": true, "page": true, "namespace": true, "document": true,
	"plugin": true, "else": true, "viewport": true,
}

func isDirectiveName(name string) bool {
	if directiveKeywords[name] {
		return true
	}
	return stdstrings.HasSuffix(name, "keyframes")
}

// Parser holds the full token stream for one source document plus the
// shared block-id counter so ids stay unique across imported files
// parsed into the same compilation (§3.4 "stable id").
type Parser struct {
	toks   []Token
	pos    int
	src    string
	idSeq  *int
	Writec bool // write_comments (§6.2)
}

// New tokenizes source fully and returns a ready Parser. idSeq is the
// shared block-id counter (§3.4); pass the same *int across every file
// parsed in one compilation.
func New(source, srcName string, idSeq *int) *Parser {
	lx := NewLexer(source)
	var toks []Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Type == TokenEOF {
			break
		}
	}
	return &Parser{toks: toks, src: srcName, idSeq: idSeq, Writec: true}
}

// Parse returns the root block for the tokenized source (§6.2 "parse").
func (p *Parser) Parse() (*valtree.Block, error) {
	root := valtree.NewBlock(p.idSeq, valtree.BlockRoot)
	if err := p.parseBody(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Parser) throwError(format string, args ...any) error {
	line := 0
	if p.pos < len(p.toks) {
		line = p.toks[p.pos].Line
	}
	return lesserr.At(&lesserr.SourceRef{Name: p.src}, p.offset(), line, p.culprit(), format, args...)
}

func (p *Parser) culprit() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Value
	}
	return ""
}

func (p *Parser) offset() int {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Offset
	}
	return -1
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// parseBody consumes statements until a closing brace (not consumed
// here, the caller does) or EOF.
func (p *Parser) parseBody(block *valtree.Block) error {
	for {
		t := p.cur()
		if t.Type == TokenEOF || t.Type == TokenRBrace {
			return nil
		}
		if t.Type == TokenCommentOneline || t.Type == TokenCommentMultiline {
			p.advance()
			if p.Writec {
				block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropComment, Text: t.Value})
			}
			continue
		}
		if err := p.parseStatement(block); err != nil {
			return err
		}
	}
}

// readHead collects tokens up to (not including) the first top-level
// '{' or ';', tracking paren depth so commas/colons inside function
// calls don't terminate it early.
func (p *Parser) readHead() []Token {
	var head []Token
	depth := 0
	for {
		t := p.cur()
		if t.Type == TokenEOF {
			return head
		}
		if depth == 0 && (t.Type == TokenLBrace || t.Type == TokenSemicolon || t.Type == TokenRBrace) {
			return head
		}
		if t.Type == TokenLParen {
			depth++
		}
		if t.Type == TokenRParen {
			depth--
		}
		head = append(head, t)
		p.advance()
	}
}

func topLevelIndex(head []Token, typ TokenType) int {
	depth := 0
	for i, t := range head {
		if depth == 0 && t.Type == typ {
			return i
		}
		if t.Type == TokenLParen {
			depth++
		}
		if t.Type == TokenRParen {
			depth--
		}
	}
	return -1
}

func (p *Parser) parseStatement(block *valtree.Block) error {
	head := p.readHead()
	if len(head) == 0 {
		// stray terminator
		p.advance()
		return nil
	}
	next := p.cur()

	if head[0].Type == TokenVariable && isDirectiveName(head[0].Value) {
		return p.parseDirective(block, head, next)
	}

	if head[0].Type == TokenVariable {
		if ci := topLevelIndex(head, TokenColon); ci >= 0 && next.Type != TokenLBrace {
			name := head[0].Value
			val, err := parseValueTokens(head[ci+1:])
			if err != nil {
				return err
			}
			p.consumeOptional(TokenSemicolon)
			block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropAssign, Name: "@" + name, Value: val})
			return nil
		}
	}

	if head[0].Type == TokenIdent {
		if ci := topLevelIndex(head, TokenColon); ci >= 0 && next.Type != TokenLBrace {
			name := joinRaw(head[:ci])
			rest := head[ci+1:]
			important, rest := stripImportant(rest)
			val, err := parseValueTokens(rest)
			if err != nil {
				return err
			}
			p.consumeOptional(TokenSemicolon)
			block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropAssign, Name: name, Value: val, Important: important})
			return nil
		}
	}

	if next.Type == TokenLBrace {
		return p.parseNestedBlock(block, head)
	}

	return p.parseCallOrRaw(block, head)
}

// parseNestedBlock handles a selector-headed block, which may be a
// parametric/guarded mixin definition (head has a "(...)" arg list) or
// an ordinary CSS rule / ruleset.
func (p *Parser) parseNestedBlock(block *valtree.Block, head []Token) error {
	p.advance() // consume '{'

	parenIdx := topLevelIndex(head, TokenLParen)
	if parenIdx >= 0 && looksLikeMixinName(head[:parenIdx]) {
		name, args, guards, vararg := parseMixinHead(head, parenIdx)
		child := valtree.NewBlock(p.idSeq, valtree.BlockRule)
		child.Tags = []string{name}
		child.Args = args
		child.Guards = guards
		child.IsVararg = vararg
		if err := p.parseBody(child); err != nil {
			return err
		}
		p.consumeOptional(TokenRBrace)
		block.AddChild(mixinKey(name), child)
		return nil
	}

	child := valtree.NewBlock(p.idSeq, valtree.BlockRule)
	child.Tags = splitSelectors(head)
	if err := p.parseBody(child); err != nil {
		return err
	}
	p.consumeOptional(TokenRBrace)
	block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropBlock, Child: child})
	for _, tag := range child.Tags {
		block.AddChild(tag, child)
	}
	return nil
}

// looksLikeMixinName reports whether the selector-like prefix before a
// "(" is a single dotted/hashed mixin name rather than a plain
// selector (e.g. an attribute selector like `a[href^="("]` never
// reaches here since readHead tracks paren depth over the whole head).
func looksLikeMixinName(prefix []Token) bool {
	if len(prefix) == 0 {
		return false
	}
	return prefix[0].Type == TokenDot || prefix[0].Type == TokenHash || (prefix[0].Type == TokenIdent && stdstrings.HasPrefix(prefix[0].Value, "$"))
}

func parseMixinHead(head []Token, parenIdx int) (name string, args []valtree.Param, guards []valtree.GuardConjunction, vararg bool) {
	name = joinRaw(head[:parenIdx])
	closeIdx := matchingParen(head, parenIdx)
	argsTokens := head[parenIdx+1 : closeIdx]
	args, vararg = parseParamList(argsTokens)

	rest := head[closeIdx+1:]
	guards = parseGuardChain(rest)
	return name, args, guards, vararg
}

func matchingParen(toks []Token, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(toks); i++ {
		if toks[i].Type == TokenLParen {
			depth++
		}
		if toks[i].Type == TokenRParen {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

func parseParamList(toks []Token) ([]valtree.Param, bool) {
	groups := splitTopLevel(toks, TokenComma)
	if len(groups) == 1 && len(groups[0]) == 0 {
		return nil, false
	}
	var params []valtree.Param
	vararg := false
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if g[len(g)-1].Type == TokenEllipsis {
			if len(g) > 1 && g[0].Type == TokenVariable {
				params = append(params, valtree.Param{Name: g[0].Value, Rest: true})
			} else {
				vararg = true
			}
			continue
		}
		if g[0].Type == TokenVariable {
			if ci := topLevelIndex(g, TokenColon); ci >= 0 {
				v, _ := parseExprFromTokens(g[ci+1:])
				params = append(params, valtree.Param{Name: g[0].Value, Default: v})
			} else {
				params = append(params, valtree.Param{Name: g[0].Value})
			}
			continue
		}
		// literal pattern-match argument
		v, _ := parseExprFromTokens(g)
		params = append(params, valtree.Param{Literal: v})
	}
	return params, vararg
}

// parseGuardChain parses a trailing `when (...) , (...) and not (...)`
// clause into a disjunction of conjunctions (§4.4.2).
func parseGuardChain(toks []Token) []valtree.GuardConjunction {
	if len(toks) == 0 || toks[0].Type != TokenWhen {
		return nil
	}
	toks = toks[1:]
	disjuncts := splitTopLevel(toks, TokenComma)
	var guards []valtree.GuardConjunction
	for _, d := range disjuncts {
		conjs := splitTopLevel(d, TokenAnd)
		var exprs []valtree.Value
		for _, c := range conjs {
			negate := false
			if len(c) > 0 && c[0].Type == TokenNot {
				negate = true
				c = c[1:]
			}
			inner := stripParens(c)
			v, _ := parseExprFromTokens(inner)
			if negate {
				exprs = append(exprs, valtree.Func{Name: "not", Arg: v})
			} else {
				exprs = append(exprs, v)
			}
		}
		guards = append(guards, valtree.GuardConjunction{Exprs: exprs})
	}
	return guards
}

func stripParens(toks []Token) []Token {
	if len(toks) >= 2 && toks[0].Type == TokenLParen && toks[len(toks)-1].Type == TokenRParen {
		return toks[1 : len(toks)-1]
	}
	return toks
}

func splitTopLevel(toks []Token, sep TokenType) [][]Token {
	var groups [][]Token
	depth := 0
	start := 0
	for i, t := range toks {
		if t.Type == TokenLParen {
			depth++
		}
		if t.Type == TokenRParen {
			depth--
		}
		if depth == 0 && t.Type == sep {
			groups = append(groups, toks[start:i])
			start = i + 1
		}
	}
	groups = append(groups, toks[start:])
	return groups
}

// splitSelectors splits a selector head on top-level commas into its
// individual (unexpanded, may-contain-&) tag strings.
func splitSelectors(head []Token) []string {
	groups := splitTopLevel(head, TokenComma)
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		s := joinRaw(g)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// joinRaw reconstructs the source text a token span covers, inserting a
// separating space only where the source itself had whitespace (so
// ".container" stays joined while "a > b" keeps its combinator spacing).
func joinRaw(toks []Token) string {
	var b stdstrings.Builder
	for i, t := range toks {
		if i > 0 && t.SpaceBefore {
			b.WriteByte(' ')
		}
		switch t.Type {
		case TokenVariable:
			b.WriteByte('@')
			b.WriteString(t.Value)
		case TokenString:
			b.WriteByte(t.QuoteChar[0])
			b.WriteString(t.Value)
			b.WriteByte(t.QuoteChar[0])
		default:
			b.WriteString(t.Value)
		}
	}
	return stdstrings.TrimSpace(b.String())
}

func (p *Parser) consumeOptional(typ TokenType) {
	if p.cur().Type == typ {
		p.advance()
	}
}

// parseCallOrRaw handles a statement that ends in ';' without a
// top-level ':' before it: a mixin/ruleset call or a raw passthrough
// line. (`@import` statements never get here; parseStatement routes them
// to parseDirective.)
func (p *Parser) parseCallOrRaw(block *valtree.Block, head []Token) error {
	p.consumeOptional(TokenSemicolon)
	if len(head) == 0 {
		return nil
	}

	important, head := stripImportant(head)

	if parenIdx := topLevelIndex(head, TokenLParen); parenIdx >= 0 && looksLikeMixinName(head[:parenIdx]) {
		closeIdx := matchingParen(head, parenIdx)
		name := joinRaw(head[:parenIdx])
		argGroups := splitTopLevel(head[parenIdx+1:closeIdx], TokenComma)
		var args []valtree.Value
		for _, g := range argGroups {
			if len(g) == 0 {
				continue
			}
			v, err := parseExprFromTokens(g)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		path := splitMixinPath(name)
		block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropMixinCall, Path: path, CallArgs: args, Important: important})
		return nil
	}

	block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropRaw, Text: joinRaw(head)})
	return nil
}

// stripImportant trims a trailing `!important` off a value's token
// tail, tolerating the lexer splitting it into a Bang plus a bare
// "important" identifier.
func stripImportant(toks []Token) (bool, []Token) {
	if len(toks) == 0 {
		return false, toks
	}
	last := toks[len(toks)-1]
	if last.Type == TokenIdent && stdstrings.EqualFold(last.Value, "important") && len(toks) >= 2 && toks[len(toks)-2].Type == TokenBang {
		return true, toks[:len(toks)-2]
	}
	if last.Type == TokenBang {
		return true, toks[:len(toks)-1]
	}
	return false, toks
}

// mixinKey normalises a mixin/ruleset definition's head name to the same
// form resolver.FindBlocks looks up at this nesting level: the first
// segment of splitMixinPath, stripped of its leading "."/"#"/"$" (§4.4.1).
// A call site computes the identical path from its own head via
// splitMixinPath and indexes Children by path[0], so definitions must be
// keyed the same way or every call resolves to "X is undefined".
func mixinKey(name string) string {
	path := splitMixinPath(name)
	if len(path) == 0 {
		return name
	}
	return path[0]
}

func splitMixinPath(name string) []string {
	var parts []string
	cur := ""
	for _, ch := range name {
		switch ch {
		case '.', '#', '>', ' ':
			if cur != "" {
				parts = append(parts, cur)
				cur = ""
			}
		default:
			cur += string(ch)
		}
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	if len(parts) == 0 {
		return []string{name}
	}
	return parts
}

func (p *Parser) parseDirective(block *valtree.Block, head []Token, next Token) error {
	name := head[0].Value

	if name == "import" {
		return p.parseImport(block, head)
	}

	if next.Type == TokenLBrace {
		p.advance()
		child := valtree.NewBlock(p.idSeq, valtree.BlockDirective)
		child.Name = "@" + name
		child.Queries = parseQueryList(head[1:])
		if err := p.parseBody(child); err != nil {
			return err
		}
		p.consumeOptional(TokenRBrace)
		block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropBlock, Child: child})
		return nil
	}

	p.consumeOptional(TokenSemicolon)
	block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropDirective, Name: "@" + name, Text: joinRaw(head[1:])})
	return nil
}

// parseQueryList parses a `@media`/`@supports` feature list into a flat
// Value list; the compiler multiplies these against enclosing media
// ancestors (§4.5 "media").
func parseQueryList(toks []Token) []valtree.Value {
	groups := splitTopLevel(toks, TokenComma)
	out := make([]valtree.Value, 0, len(groups))
	for _, g := range groups {
		out = append(out, valtree.PlainString("", joinRaw(g)))
	}
	return out
}

func (p *Parser) parseImport(block *valtree.Block, head []Token) error {
	rest := head[1:]
	opts := valtree.ImportOptions{}
	if len(rest) > 0 && rest[0].Type == TokenLParen {
		closeIdx := matchingParen(rest, 0)
		for _, g := range splitTopLevel(rest[1:closeIdx], TokenComma) {
			applyImportOption(&opts, joinRaw(g))
		}
		rest = rest[closeIdx+1:]
	}
	path := ""
	if len(rest) > 0 && rest[0].Type == TokenString {
		path = rest[0].Value
	}
	p.consumeOptional(TokenSemicolon)
	block.Props = append(block.Props, valtree.Prop{Kind: valtree.PropImport, Text: path, ImportOpts: opts})
	return nil
}

func applyImportOption(o *valtree.ImportOptions, name string) {
	switch stdstrings.TrimSpace(name) {
	case "reference":
		o.Reference = true
	case "inline":
		o.Inline = true
	case "less":
		o.Less = true
	case "css":
		o.CSS = true
	case "once":
		o.Once = true
	case "multiple":
		o.Multiple = true
	case "optional":
		o.Optional = true
	}
}
