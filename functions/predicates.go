package functions

import (
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerPredicates(m map[string]Func) {
	register(m, []string{"isnumber"}, predicate(func(v valtree.Value) bool {
		_, ok := v.(valtree.Number)
		return ok
	}))
	register(m, []string{"isstring"}, predicate(func(v valtree.Value) bool {
		_, ok := v.(valtree.Str)
		return ok
	}))
	register(m, []string{"iscolor"}, predicate(func(v valtree.Value) bool {
		switch v.(type) {
		case valtree.Color, valtree.RawColor:
			return true
		}
		return false
	}))
	register(m, []string{"iskeyword"}, predicate(func(v valtree.Value) bool {
		_, ok := v.(valtree.Keyword)
		return ok
	}))
	register(m, []string{"ispixel"}, unitPredicate("px"))
	register(m, []string{"ispercentage"}, unitPredicate("%"))
	register(m, []string{"isem"}, unitPredicate("em"))
	register(m, []string{"isrem"}, unitPredicate("rem"))
}

func predicate(f func(valtree.Value) bool) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 1 {
			return nil, lesserr.Errorf("expected 1 argument, got %d", len(args))
		}
		return valtree.Bool(f(args[0])), nil
	}
}

func unitPredicate(unit string) Func {
	return predicate(func(v valtree.Value) bool {
		n, ok := v.(valtree.Number)
		return ok && n.Unit == unit
	})
}
