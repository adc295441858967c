package parser

import (
	"strconv"
	stdstrings "strings"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// valueParser walks a bounded token slice (already extracted from the
// main token stream by readHead/splitTopLevel) to build a valtree.Value
// expression tree: comma list > space list > additive > multiplicative
// > unary > primary.
type valueParser struct {
	toks []Token
	pos  int
}

// parseValueTokens and parseExprFromTokens are the same grammar entered
// from two call sites (property values and call/guard arguments); kept
// as distinct names at the call sites for readability.
func parseValueTokens(toks []Token) (valtree.Value, error) {
	return parseExprFromTokens(toks)
}

func parseExprFromTokens(toks []Token) (valtree.Value, error) {
	vp := &valueParser{toks: toks}
	v, err := vp.commaList()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (vp *valueParser) cur() Token {
	if vp.pos >= len(vp.toks) {
		return Token{Type: TokenEOF}
	}
	return vp.toks[vp.pos]
}

func (vp *valueParser) advance() Token {
	t := vp.cur()
	if vp.pos < len(vp.toks) {
		vp.pos++
	}
	return t
}

func (vp *valueParser) commaList() (valtree.Value, error) {
	first, err := vp.spaceList()
	if err != nil {
		return nil, err
	}
	if vp.cur().Type != TokenComma {
		return first, nil
	}
	items := []valtree.Value{first}
	for vp.cur().Type == TokenComma {
		vp.advance()
		next, err := vp.spaceList()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	return valtree.List{Delim: ",", Items: items}, nil
}

func (vp *valueParser) spaceList() (valtree.Value, error) {
	first, err := vp.compareExpr()
	if err != nil {
		return nil, err
	}
	var items []valtree.Value
	items = append(items, first)
	for vp.moreTermsFollow() {
		next, err := vp.compareExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return valtree.List{Delim: " ", Items: items}, nil
}

// moreTermsFollow reports whether another space-separated term starts
// at the cursor (i.e. the current token can begin a primary).
func (vp *valueParser) moreTermsFollow() bool {
	switch vp.cur().Type {
	case TokenEOF, TokenComma, TokenRParen:
		return false
	case TokenPlus, TokenStar, TokenSlash, TokenPercent, TokenLt, TokenGt, TokenLe, TokenGe, TokenEq, TokenAnd:
		return false
	case TokenMinus:
		// ambiguous with binary minus; compareExpr/addExpr already
		// consumed any minus that binds as an operator, so a minus
		// reaching here starts a new unary term.
		return true
	}
	return true
}

var compareOps = map[TokenType]valtree.BinOp{
	TokenLt: valtree.OpLt, TokenGt: valtree.OpGt, TokenLe: valtree.OpLe,
	TokenGe: valtree.OpGe, TokenEq: valtree.OpEq,
}

func (vp *valueParser) compareExpr() (valtree.Value, error) {
	left, err := vp.addExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[vp.cur().Type]; ok {
		vp.advance()
		right, err := vp.addExpr()
		if err != nil {
			return nil, err
		}
		return valtree.Expression{Op: op, Left: left, Right: right, WSBefore: true, WSAfter: true}, nil
	}
	return left, nil
}

func (vp *valueParser) addExpr() (valtree.Value, error) {
	left, err := vp.mulExpr()
	if err != nil {
		return nil, err
	}
	for vp.cur().Type == TokenPlus || vp.cur().Type == TokenMinus {
		opTok := vp.advance()
		right, err := vp.mulExpr()
		if err != nil {
			return nil, err
		}
		op := valtree.OpAdd
		if opTok.Type == TokenMinus {
			op = valtree.OpSub
		}
		left = valtree.Expression{Op: op, Left: left, Right: right, WSBefore: true, WSAfter: true}
	}
	return left, nil
}

func (vp *valueParser) mulExpr() (valtree.Value, error) {
	left, err := vp.unary()
	if err != nil {
		return nil, err
	}
	for vp.cur().Type == TokenStar || vp.cur().Type == TokenSlash || vp.cur().Type == TokenPercent {
		opTok := vp.advance()
		right, err := vp.unary()
		if err != nil {
			return nil, err
		}
		var op valtree.BinOp
		switch opTok.Type {
		case TokenStar:
			op = valtree.OpMul
		case TokenSlash:
			op = valtree.OpDiv
		default:
			op = valtree.OpMod
		}
		left = valtree.Expression{Op: op, Left: left, Right: right, WSBefore: false, WSAfter: false}
	}
	return left, nil
}

func (vp *valueParser) unary() (valtree.Value, error) {
	if vp.cur().Type == TokenMinus {
		vp.advance()
		inner, err := vp.unary()
		if err != nil {
			return nil, err
		}
		return valtree.Unary{Op: "-", Inner: inner}, nil
	}
	if vp.cur().Type == TokenPlus {
		vp.advance()
		inner, err := vp.unary()
		if err != nil {
			return nil, err
		}
		return valtree.Unary{Op: "+", Inner: inner}, nil
	}
	return vp.primary()
}

func (vp *valueParser) primary() (valtree.Value, error) {
	t := vp.cur()
	switch t.Type {
	case TokenNumber:
		vp.advance()
		return parseNumberToken(t), nil

	case TokenColor:
		vp.advance()
		return valtree.RawColor{Hex: t.Value}, nil

	case TokenString:
		vp.advance()
		return parseStringToken(t)

	case TokenVariable:
		vp.advance()
		if t.Value == "arguments" {
			return valtree.Variable{Name: "arguments"}, nil
		}
		return valtree.Variable{Name: t.Value}, nil

	case TokenTilde:
		vp.advance()
		inner, err := vp.primary()
		if err != nil {
			return nil, err
		}
		return valtree.Escape{Inner: inner}, nil

	case TokenInterp:
		strip := t.Value == "#{"
		vp.advance()
		depth := 0
		var inner []Token
		for {
			c := vp.cur()
			if c.Type == TokenEOF {
				break
			}
			if c.Type == TokenInterp {
				depth++
			}
			if c.Type == TokenInterpEnd {
				if depth == 0 {
					vp.advance()
					break
				}
				depth--
			}
			inner = append(inner, c)
			vp.advance()
		}
		iv, err := parseExprFromTokens(inner)
		if err != nil {
			return nil, err
		}
		return valtree.Interpolate{Inner: iv, Strip: strip}, nil

	case TokenFunction:
		vp.advance()
		if vp.cur().Type != TokenLParen {
			return valtree.Keyword{Name: t.Value}, nil
		}
		vp.advance()
		var argToks []Token
		depth := 1
		for depth > 0 {
			c := vp.cur()
			if c.Type == TokenEOF {
				break
			}
			if c.Type == TokenLParen {
				depth++
			}
			if c.Type == TokenRParen {
				depth--
				if depth == 0 {
					vp.advance()
					break
				}
			}
			argToks = append(argToks, c)
			vp.advance()
		}
		arg, err := parseExprFromTokens(argToks)
		if err != nil {
			return nil, err
		}
		return valtree.Func{Name: t.Value, Arg: arg}, nil

	case TokenLParen:
		vp.advance()
		var inner []Token
		depth := 1
		for depth > 0 {
			c := vp.cur()
			if c.Type == TokenEOF {
				break
			}
			if c.Type == TokenLParen {
				depth++
			}
			if c.Type == TokenRParen {
				depth--
				if depth == 0 {
					vp.advance()
					break
				}
			}
			inner = append(inner, c)
			vp.advance()
		}
		return parseExprFromTokens(inner)

	case TokenAmpersand:
		vp.advance()
		return valtree.Keyword{Name: "&"}, nil

	case TokenIdent:
		vp.advance()
		return valtree.Keyword{Name: t.Value}, nil

	case TokenHash:
		vp.advance()
		return valtree.Keyword{Name: "#" + t.Value}, nil
	}

	vp.advance()
	return nil, lesserr.Errorf("unexpected token %q in value", t.Value)
}

func parseNumberToken(t Token) valtree.Value {
	s := t.Value
	unit := ""
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	numPart := s[:i]
	unit = s[i:]
	f, _ := strconv.ParseFloat(numPart, 64)
	return valtree.Number{Val: f, Unit: unit}
}

// parseStringToken builds a Str, further lexing `@{...}` interpolation
// sequences embedded in the quoted text (§9 "String interpolation").
func parseStringToken(t Token) (valtree.Value, error) {
	text := t.Value
	var parts []valtree.StringPart
	i := 0
	lastLiteralStart := 0
	for i < len(text) {
		if text[i] == '@' && i+1 < len(text) && text[i+1] == '{' {
			if i > lastLiteralStart {
				parts = append(parts, valtree.StringPart{Literal: text[lastLiteralStart:i]})
			}
			end := stdstrings.Index(text[i+2:], "}")
			if end < 0 {
				break
			}
			name := text[i+2 : i+2+end]
			parts = append(parts, valtree.StringPart{Inner: valtree.Variable{Name: name}})
			i = i + 2 + end + 1
			lastLiteralStart = i
			continue
		}
		i++
	}
	if lastLiteralStart < len(text) {
		parts = append(parts, valtree.StringPart{Literal: text[lastLiteralStart:]})
	}
	if len(parts) == 0 {
		parts = []valtree.StringPart{{Literal: ""}}
	}
	return valtree.Str{Delim: t.QuoteChar, Parts: parts}, nil
}
