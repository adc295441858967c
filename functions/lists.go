package functions

import (
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerLists(m map[string]Func) {
	register(m, []string{"extract"}, extractFn)
}

// extractFn implements `extract(list, n)`, 1-based (§4.6). Per the
// documented Open Question on lib_extract (see DESIGN.md), an
// out-of-range index returns nothing (nil, nil): the reducer's function
// dispatch re-emits a nil result as an unresolved call over the reduced
// arguments, so `extract(@list, 99)` stringifies back as an `extract(...)`
// call (with @list's value in place of the variable) rather than raising
// or producing an empty value.
func extractFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 2 {
		return nil, lesserr.Errorf("extract: expected 2 arguments, got %d", len(args))
	}
	idxNum, err := asNumber(args[1], "extract")
	if err != nil {
		return nil, err
	}
	idx := int(idxNum.Val)

	var items []valtree.Value
	if lst, ok := args[0].(valtree.List); ok {
		items = lst.Items
	} else {
		items = []valtree.Value{args[0]}
	}

	if idx < 1 || idx > len(items) {
		return nil, nil
	}
	return items[idx-1], nil
}
