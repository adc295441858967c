package functions

import (
	"fmt"
	"math"
	"strconv"

	"github.com/titpetric/lessgo/valtree"
)

// namedColors is the CSS named-color table; keyword values coerce to
// color through this table wherever the reducer or expression evaluator
// need a color operand (§4.2, §4.3).
var namedColors = map[string][3]int{
	"black": {0, 0, 0}, "silver": {192, 192, 192}, "gray": {128, 128, 128},
	"white": {255, 255, 255}, "maroon": {128, 0, 0}, "red": {255, 0, 0},
	"purple": {128, 0, 128}, "fuchsia": {255, 0, 255}, "green": {0, 128, 0},
	"lime": {0, 255, 0}, "olive": {128, 128, 0}, "yellow": {255, 255, 0},
	"navy": {0, 0, 128}, "blue": {0, 0, 255}, "teal": {0, 128, 128},
	"aqua": {0, 255, 255}, "orange": {255, 165, 0}, "pink": {255, 192, 203},
	"gold": {255, 215, 0}, "brown": {165, 42, 42}, "coral": {255, 127, 80},
	"salmon": {250, 128, 114}, "khaki": {240, 230, 140}, "violet": {238, 130, 238},
	"indigo": {75, 0, 130}, "orchid": {218, 112, 214}, "plum": {221, 160, 221},
	"tan": {210, 180, 140}, "crimson": {220, 20, 60}, "chocolate": {210, 105, 30},
	"skyblue": {135, 206, 235}, "steelblue": {70, 130, 180}, "tomato": {255, 99, 71},
	"transparent": {0, 0, 0},
	"lightgray": {211, 211, 211}, "lightgrey": {211, 211, 211}, "darkgray": {169, 169, 169},
	"darkgrey": {169, 169, 169}, "slategray": {112, 128, 144}, "slategrey": {112, 128, 144},
	"whitesmoke": {245, 245, 245}, "beige": {245, 245, 220}, "ivory": {255, 255, 240},
	"lavender": {230, 230, 250}, "turquoise": {64, 224, 208}, "chartreuse": {127, 255, 0},
	"seagreen": {46, 139, 87}, "forestgreen": {34, 139, 34}, "darkgreen": {0, 100, 0},
	"royalblue": {65, 105, 225}, "navyblue": {0, 0, 128}, "midnightblue": {25, 25, 112},
	"hotpink": {255, 105, 180}, "deeppink": {255, 20, 147}, "firebrick": {178, 34, 34},
	"darkred": {139, 0, 0}, "darkorange": {255, 140, 0}, "goldenrod": {218, 165, 32},
}

// NamedColor looks up a CSS named color, including "transparent" (alpha 0).
func NamedColor(name string) (valtree.Color, bool) {
	rgb, ok := namedColors[name]
	if !ok {
		return valtree.Color{}, false
	}
	a := 1.0
	if name == "transparent" {
		a = 0
	}
	return valtree.NewColor(float64(rgb[0]), float64(rgb[1]), float64(rgb[2]), a), true
}

// ToColor coerces a Value to Color: Color passes through, RawColor is
// parsed from its hex text, a Keyword is looked up in the named-color
// table. Anything else fails.
func ToColor(v valtree.Value) (valtree.Color, bool) {
	switch t := v.(type) {
	case valtree.Color:
		return t, true
	case valtree.RawColor:
		return parseHex(t.Hex)
	case valtree.Keyword:
		return NamedColor(t.Name)
	}
	return valtree.Color{}, false
}

func parseHex(hex string) (valtree.Color, bool) {
	h := hex
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	expand := func(c byte) int {
		n, _ := strconv.ParseInt(string([]byte{c, c}), 16, 32)
		return int(n)
	}
	pair := func(s string) int {
		n, _ := strconv.ParseInt(s, 16, 32)
		return int(n)
	}
	switch len(h) {
	case 3:
		return valtree.NewColor(float64(expand(h[0])), float64(expand(h[1])), float64(expand(h[2])), 1), true
	case 6:
		return valtree.NewColor(float64(pair(h[0:2])), float64(pair(h[2:4])), float64(pair(h[4:6])), 1), true
	case 8:
		a := float64(pair(h[6:8])) / 255
		return valtree.NewColor(float64(pair(h[0:2])), float64(pair(h[2:4])), float64(pair(h[4:6])), a), true
	}
	return valtree.Color{}, false
}

// FormatHex renders #RRGGBB, or #AARRGGBB when withAlpha is set (the
// form argb/rgbahex produce, §4.6).
func FormatHex(c valtree.Color, withAlpha bool) string {
	r, g, b := int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B))
	if withAlpha {
		a := int(math.Round(c.A * 255))
		return fmt.Sprintf("#%02X%02X%02X%02X", a, r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// RGBToHSL converts 0-255 RGB components to the standard H∈[0,360),
// S,L∈[0,1] triple (§4.6 "standard piecewise formulation").
func RGBToHSL(c valtree.Color) (h, s, l float64) {
	r, g, b := c.R/255, c.G/255, c.B/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60
	return h, s, l
}

// HSLToRGB is the inverse of RGBToHSL, producing 0-255 components.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		v := l * 255
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360
	r = hueToRGB(p, q, hk+1.0/3) * 255
	g = hueToRGB(p, q, hk) * 255
	b = hueToRGB(p, q, hk-1.0/3) * 255
	return r, g, b
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// Luma implements §4.6's perceptual luminance: sRGB gamma expansion with
// the 0.03928 threshold and the 709 coefficients.
func Luma(c valtree.Color) float64 {
	expand := func(v float64) float64 {
		v /= 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*expand(c.R) + 0.7152*expand(c.G) + 0.0722*expand(c.B)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
