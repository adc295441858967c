package functions

import (
	"math"

	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

// pxFactor converts 1 unit of the given length unit to px (§4.6).
var pxFactor = map[string]float64{
	"px": 1,
	"m":  3779.52755906,
	"cm": 37.79527559,
	"mm": 3.77952756,
	"in": 96,
	"pt": 1.33333333,
	"pc": 16,
}

var lengthUnits = map[string]bool{"px": true, "m": true, "cm": true, "mm": true, "in": true, "pt": true, "pc": true}
var timeUnits = map[string]bool{"s": true, "ms": true}
var angleUnits = map[string]bool{"deg": true, "rad": true, "turn": true, "grad": true}

func registerConvert(m map[string]Func) {
	register(m, []string{"convert"}, convertFn)
}

func convertFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 2 {
		return nil, lesserr.Errorf("convert: expected 2 arguments, got %d", len(args))
	}
	n, ok := args[0].(valtree.Number)
	if !ok {
		return nil, lesserr.Errorf("convert: first argument must be a number")
	}
	var target string
	switch t := args[1].(type) {
	case valtree.Keyword:
		target = t.Name
	case valtree.Str:
		target = flattenLiteral(t)
	default:
		return nil, lesserr.Errorf("convert: second argument must be a unit keyword or string")
	}

	v, err := convertUnit(n.Val, n.Unit, target)
	if err != nil {
		return nil, err
	}
	return round8(v, target), nil
}

// convertUnit converts val from one dimensioned unit to another within
// the same family (length, time, angle), the raw numeric core behind
// `convert()` (§4.6) and min/max's unit-checked comparisons (§8 S4):
// operands of different unit families never compare, they raise an
// error instead (matching less.js/lessphp's _minmax).
func convertUnit(val float64, from, to string) (float64, error) {
	if from == to {
		return val, nil
	}
	switch {
	case lengthUnits[from] && lengthUnits[to]:
		return val * pxFactor[from] / pxFactor[to], nil
	case timeUnits[from] && timeUnits[to]:
		return convertTimeRaw(val, from, to), nil
	case angleUnits[from] && angleUnits[to]:
		return convertAngleRaw(val, from, to), nil
	}
	return 0, lesserr.Errorf("Cannot convert %s to %s", from, to)
}

func convertTimeRaw(v float64, from, to string) float64 {
	var ms float64
	if from == "s" {
		ms = v * 1000
	} else {
		ms = v
	}
	if to == "s" {
		return ms / 1000
	}
	return ms
}

// convertAngleRaw converts between deg, rad, turn and grad by always
// going through degrees: the source value is first turned into degrees
// (rad→deg, turn=value*360, grad=value/(400/360)), then degrees are
// turned into the target unit. An unknown unit is treated as deg.
func convertAngleRaw(v float64, from, to string) float64 {
	deg := v
	switch from {
	case "rad":
		deg = v * 180 / math.Pi
	case "turn":
		deg = v * 360
	case "grad":
		deg = v / (400.0 / 360.0)
	}
	switch to {
	case "deg":
		return deg
	case "rad":
		return deg * math.Pi / 180
	case "turn":
		return deg / 360
	case "grad":
		return deg * (400.0 / 360.0)
	}
	return deg
}

func round8(v float64, unit string) valtree.Number {
	mult := 1e8
	return valtree.Number{Val: math.Round(v*mult) / mult, Unit: unit}
}
