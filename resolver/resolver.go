// Package resolver implements the mixin/ruleset resolver (§4.4): name-path
// search over a Block's children (findBlocks), arity/guard/literal
// pattern matching (patternMatch), and argument binding (zipSetArgs).
package resolver

import (
	stdstrings "strings"

	"github.com/titpetric/lessgo/env"
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/reducer"
	"github.com/titpetric/lessgo/valtree"
)

// Resolver carries the live environment stack and reducer a resolution
// needs to evaluate guard expressions during pattern matching.
type Resolver struct {
	Stack   *env.Stack
	Reducer *reducer.Reducer
}

// New builds a Resolver bound to the given stack and reducer.
func New(stack *env.Stack, red *reducer.Reducer) *Resolver {
	return &Resolver{Stack: stack, Reducer: red}
}

// FindBlocks implements §4.4.1: search `start` and its ancestors for
// blocks declared under `path`, returning every match from the closest
// scope that has any, or a fatal "X is undefined" error.
func (r *Resolver) FindBlocks(start *valtree.Block, path []string, ordered []valtree.Value, keyword map[string]valtree.Value) ([]*valtree.Block, error) {
	seen := make(map[int]bool)
	matches, err := r.findBlocksAt(start, path, ordered, keyword, seen)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, lesserr.Errorf("%s is undefined", stdstrings.Join(path, " "))
	}
	return matches, nil
}

func (r *Resolver) findBlocksAt(node *valtree.Block, path []string, ordered []valtree.Value, keyword map[string]valtree.Value, seen map[int]bool) ([]*valtree.Block, error) {
	if node == nil {
		return nil, nil
	}
	if seen[node.ID] {
		return nil, nil
	}
	seen[node.ID] = true

	first := path[0]
	isRuleset := stdstrings.HasPrefix(first, "$")
	candidates := node.Children[first]

	if len(path) == 1 {
		matched, err := r.PatternMatch(candidates, ordered, keyword)
		if err != nil {
			return nil, err
		}
		if len(matched) > 0 {
			if isRuleset {
				return matched[len(matched)-1:], nil
			}
			return matched, nil
		}
	} else {
		var union []*valtree.Block
		for _, c := range candidates {
			sub, err := r.findBlocksAt(c, path[1:], ordered, keyword, seen)
			if err != nil {
				return nil, err
			}
			union = append(union, sub...)
		}
		if len(union) > 0 {
			return union, nil
		}
	}

	if node.Parent == nil || node.Parent == node {
		return nil, nil
	}
	return r.findBlocksAt(node.Parent, path, ordered, keyword, seen)
}

// PatternMatch implements §4.4.2: filters candidates to those whose
// declared parameters and guards accept the given call arguments.
func (r *Resolver) PatternMatch(candidates []*valtree.Block, ordered []valtree.Value, keyword map[string]valtree.Value) ([]*valtree.Block, error) {
	var out []*valtree.Block
	for _, c := range candidates {
		ok, err := r.matchOne(c, ordered, keyword)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Resolver) matchOne(c *valtree.Block, ordered []valtree.Value, keyword map[string]valtree.Value) (bool, error) {
	if !arityMatches(c, ordered, keyword) {
		return false, nil
	}
	if len(c.Guards) == 0 {
		return true, nil
	}
	for _, conj := range c.Guards {
		ok, err := r.evalConjunction(c, conj, ordered, keyword)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// evalConjunction pushes a fresh frame, binds the candidate's
// declared args for guard evaluation, reduces every guard expression in
// the conjunction, and pops the frame regardless of outcome (§4.4.2).
func (r *Resolver) evalConjunction(c *valtree.Block, conj valtree.GuardConjunction, ordered []valtree.Value, keyword map[string]valtree.Value) (bool, error) {
	r.Stack.Push(nil)
	defer r.Stack.Pop()

	if _, err := r.ZipSetArgs(c, ordered, keyword); err != nil {
		return false, nil
	}

	for _, g := range conj.Exprs {
		negate := false
		if f, ok := g.(valtree.Func); ok && f.Name == "not" {
			g, negate = f.Arg, true
		}
		v, err := r.Reducer.Reduce(g, true)
		if err != nil {
			return false, nil
		}
		if valtree.IsTruthy(v) == negate {
			return false, nil
		}
	}
	return true, nil
}

// arityMatches implements the non-guard arity/literal checks of §4.4.2:
// no declared args matches only a no-argument call (or a vararg
// candidate); otherwise declared args are walked in order, keyword-bound
// parameters removed first.
func arityMatches(c *valtree.Block, ordered []valtree.Value, keyword map[string]valtree.Value) bool {
	if len(c.Args) == 0 {
		return (len(ordered) == 0 && len(keyword) == 0) || c.IsVararg
	}

	params := make([]valtree.Param, 0, len(c.Args))
	for _, p := range c.Args {
		if p.Name != "" {
			if _, bound := keyword[p.Name]; bound {
				continue
			}
		}
		params = append(params, p)
	}

	idx := 0
	for _, p := range params {
		if p.Rest {
			return true
		}
		if p.Literal != nil {
			if idx >= len(ordered) {
				return false
			}
			if !reducer.StructuralEqual(ordered[idx], p.Literal) {
				return false
			}
			idx++
			continue
		}
		if idx < len(ordered) {
			idx++
			continue
		}
		if p.Default != nil {
			continue
		}
		return false
	}

	if c.IsVararg {
		return true
	}
	return len(c.Args) >= len(ordered)
}

// ZipSetArgs implements §4.4.3: binds each declared parameter on the
// current top frame, preferring a keyword value, then the next ordered
// value, then the parameter's default; a trailing rest parameter
// receives the remaining ordered values as a space-joined list. The
// positional bindings are also recorded as the frame's Arguments for
// `@arguments`. Returns the bound values in declaration order.
func (r *Resolver) ZipSetArgs(c *valtree.Block, ordered []valtree.Value, keyword map[string]valtree.Value) ([]valtree.Value, error) {
	frame := r.Stack.Top()
	var bound []valtree.Value
	idx := 0

	for _, p := range c.Args {
		if p.Rest {
			rest := append([]valtree.Value{}, ordered[minInt(idx, len(ordered)):]...)
			restVal := valtree.List{Delim: " ", Items: rest}
			if p.Name != "" {
				frame.Set("@"+p.Name, restVal)
			}
			bound = append(bound, rest...)
			idx = len(ordered)
			continue
		}

		var v valtree.Value
		if p.Name != "" {
			if kv, ok := keyword[p.Name]; ok {
				v = kv
			}
		}
		if v == nil && idx < len(ordered) {
			v = ordered[idx]
			idx++
		}
		if v == nil {
			v = p.Default
		}
		if v == nil && p.Literal == nil {
			return nil, lesserr.Errorf("missing argument %s", p.Name)
		}

		reduced, err := r.Reducer.Reduce(v, false)
		if err != nil {
			return nil, err
		}
		if p.Name != "" {
			frame.Set("@"+p.Name, reduced)
		}
		bound = append(bound, reduced)
	}

	frame.Arguments = bound
	return bound, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
