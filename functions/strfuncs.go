package functions

import (
	"fmt"
	stdstrings "strings"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerStrings(m map[string]Func) {
	register(m, []string{"e"}, escapeFn)
	register(m, []string{"%", "_sprintf"}, sprintfFn)
}

// escapeFn drops a string's quotes, returning its content as a bare
// value (§4.6 "e(v) / unwrap").
func escapeFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 1 {
		return nil, lesserr.Errorf("e: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case valtree.Str:
		return valtree.PlainString("", flattenLiteral(v)), nil
	default:
		return v, nil
	}
}

// sprintfFn implements `%(fmt, ...)` / `_sprintf`: substitutes %s/%d/%a
// tokens from the format string's remaining arguments (§4.6).
func sprintfFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) < 1 {
		return nil, lesserr.Errorf("%%: expected a format string argument")
	}
	format, ok := args[0].(valtree.Str)
	if !ok {
		return nil, lesserr.Errorf("%%: first argument must be a string")
	}
	text := flattenLiteral(format)
	rest := args[1:]

	var out stdstrings.Builder
	argIdx := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '%' || i+1 >= len(text) {
			out.WriteByte(text[i])
			continue
		}
		verb := text[i+1]
		if verb != 's' && verb != 'd' && verb != 'a' {
			out.WriteByte(text[i])
			continue
		}
		i++
		if argIdx >= len(rest) {
			out.WriteByte('%')
			out.WriteByte(verb)
			continue
		}
		out.WriteString(stringifyArg(rest[argIdx]))
		argIdx++
	}
	return valtree.PlainString(format.Delim, out.String()), nil
}

func stringifyArg(v valtree.Value) string {
	switch t := v.(type) {
	case valtree.Str:
		return flattenLiteral(t)
	case valtree.Keyword:
		return t.Name
	case valtree.Number:
		if t.Unit == "" {
			return fmt.Sprintf("%g", t.Val)
		}
		return fmt.Sprintf("%g%s", t.Val, t.Unit)
	default:
		return fmt.Sprintf("%v", t)
	}
}
