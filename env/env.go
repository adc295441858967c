// Package env implements the evaluator's environment stack (§3.3/§4.1):
// a chain of Frames threaded by a primary Parent pointer and, for mixin
// calls, a secondary storeParent chain carrying the declaration-site
// scope alongside the call-site one.
package env

import (
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// Frame is one scope level (§3.3). Store holds variable bindings keyed
// by name including the leading "@". Block is the parsed block this
// frame was pushed for, if any. Import records (§4.7) are tracked
// compile-wide on Compiler.importByID rather than per-frame, since a
// single compilation owns one linear import-id sequence regardless of
// which frame an import prop is compiled under.
type Frame struct {
	Parent      *Frame
	StoreParent *Frame

	Store     map[string]valtree.Value
	Block     *valtree.Block
	Selectors []string
	Arguments []valtree.Value

	seenNames map[string]bool
}

// Stack is the live chain of Frames, rooted by the frame pushed for the
// stylesheet's root block.
type Stack struct {
	top *Frame
}

// New returns an empty Stack with no frames pushed.
func New() *Stack {
	return &Stack{}
}

// Push creates a new Frame on top of the stack, chained to the current
// top via Parent, and returns it. block may be nil for frames that exist
// only to hold bindings (e.g. a guard conjunction's scratch frame).
func (s *Stack) Push(block *valtree.Block) *Frame {
	f := &Frame{
		Parent: s.top,
		Store:  make(map[string]valtree.Value),
	}
	f.Block = block
	s.top = f
	return f
}

// PushWith creates a new Frame whose StoreParent is an explicit
// secondary chain (the mixin-call case: the call-site frame is Parent,
// the mixin's declaration-site frame is StoreParent, §3.3).
func (s *Stack) PushWith(block *valtree.Block, declSite *Frame) *Frame {
	f := s.Push(block)
	f.StoreParent = declSite
	return f
}

// Pop removes and returns the current top Frame.
func (s *Stack) Pop() *Frame {
	f := s.top
	if f == nil {
		return nil
	}
	s.top = f.Parent
	return f
}

// Top returns the current top Frame without popping it.
func (s *Stack) Top() *Frame {
	return s.top
}

// Set binds name (with its "@" prefix) to value on the current top
// frame (§4.1 "set").
func (s *Stack) Set(name string, value valtree.Value) {
	s.top.Set(name, value)
}

// Set binds name directly on this frame, regardless of whether it is
// currently the stack's top (a mixin's storeParent frame, captured
// earlier, is written to this way when its arguments are bound).
func (f *Frame) Set(name string, value valtree.Value) {
	if f.Store == nil {
		f.Store = make(map[string]valtree.Value)
	}
	f.Store[name] = value
}

// Get resolves name by walking the primary parent chain first; at each
// frame visited, any non-nil storeParent is enqueued. If the primary
// walk fails, each queued secondary chain is then walked in FIFO order,
// itself enqueuing further storeParents as encountered (§4.1 "get").
func (s *Stack) Get(name string) (valtree.Value, error) {
	if name == "@arguments" {
		if v, ok := s.findArguments(s.top); ok {
			return v, nil
		}
	}

	var queue []*Frame
	for f := s.top; f != nil; f = f.Parent {
		if v, ok := f.Store[name]; ok {
			return v, nil
		}
		if f.StoreParent != nil {
			queue = append(queue, f.StoreParent)
		}
	}

	for i := 0; i < len(queue); i++ {
		for f := queue[i]; f != nil; f = f.Parent {
			if v, ok := f.Store[name]; ok {
				return v, nil
			}
			if f.StoreParent != nil {
				queue = append(queue, f.StoreParent)
			}
		}
	}

	return nil, lesserr.Errorf("variable %s is undefined", name)
}

// findArguments walks the same two-phase chain looking for the first
// frame carrying positional Arguments, per the "@arguments" special case
// in §4.1.
func (s *Stack) findArguments(from *Frame) (valtree.Value, bool) {
	var queue []*Frame
	for f := from; f != nil; f = f.Parent {
		if f.Arguments != nil {
			return valtree.List{Delim: " ", Items: f.Arguments}, true
		}
		if f.StoreParent != nil {
			queue = append(queue, f.StoreParent)
		}
	}
	for i := 0; i < len(queue); i++ {
		for f := queue[i]; f != nil; f = f.Parent {
			if f.Arguments != nil {
				return valtree.List{Delim: " ", Items: f.Arguments}, true
			}
			if f.StoreParent != nil {
				queue = append(queue, f.StoreParent)
			}
		}
	}
	return nil, false
}

// SeenGuard implements scoped re-entrance protection for a single
// variable name being reduced (§4.1 "seen_guard", §4.2 variable-cycle
// detection): it records name as in-progress on the current frame and
// reports whether it was already in progress, so callers can clear it
// with the returned release func once done.
func (f *Frame) SeenGuard(name string) (alreadySeen bool, release func()) {
	if f.seenNames == nil {
		f.seenNames = make(map[string]bool)
	}
	if f.seenNames[name] {
		return true, func() {}
	}
	f.seenNames[name] = true
	return false, func() { delete(f.seenNames, name) }
}
