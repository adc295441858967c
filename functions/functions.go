// Package functions is the built-in function library (§4.6): pure
// functions over valtree.Value, dispatched by name from the reducer.
package functions

import "github.com/titpetric/lessgo/valtree"

// Context carries the state a handful of functions need beyond their
// arguments: data-uri needs the compiler's configured import
// directories to resolve and inline a file (§4.6 "Data URI").
type Context struct {
	ImportDirs []string
}

// Func is one built-in or user-registered function implementation. It
// receives already-reduced arguments and returns a reduced result.
type Func func(ctx *Context, args []valtree.Value) (valtree.Value, error)

// Registry holds the built-in function table plus any user overlay
// registered via compiler.Options (§6.1 register_function/unregister_function).
// User entries take priority over built-ins of the same name.
type Registry struct {
	builtin map[string]Func
	user    map[string]Func
}

// NewRegistry returns a Registry preloaded with every built-in of §4.6.
func NewRegistry() *Registry {
	r := &Registry{builtin: make(map[string]Func), user: make(map[string]Func)}
	registerMath(r.builtin)
	registerLists(r.builtin)
	registerPredicates(r.builtin)
	registerColorChannels(r.builtin)
	registerColorOps(r.builtin)
	registerConvert(r.builtin)
	registerStrings(r.builtin)
	registerDataURI(r.builtin)
	return r
}

// Register installs or overrides a user function (§6.1 register_function).
func (r *Registry) Register(name string, fn Func) {
	r.user[name] = fn
}

// Unregister removes a user function override (§6.1 unregister_function).
func (r *Registry) Unregister(name string) {
	delete(r.user, name)
}

// Lookup returns the callable for name, preferring a user override, and
// reports whether one was found.
func (r *Registry) Lookup(name string) (Func, bool) {
	if fn, ok := r.user[name]; ok {
		return fn, true
	}
	fn, ok := r.builtin[name]
	return fn, ok
}

func register(m map[string]Func, names []string, fn Func) {
	for _, n := range names {
		m[n] = fn
	}
}
