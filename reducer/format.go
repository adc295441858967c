package reducer

import (
	"strconv"

	"github.com/titpetric/lessgo/valtree"
)

// formatNumber renders a Number trimmed to its shortest round-trip
// decimal form, with its unit suffix appended verbatim.
func formatNumber(n valtree.Number) string {
	s := strconv.FormatFloat(n.Val, 'f', -1, 64)
	return s + n.Unit
}
