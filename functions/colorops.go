package functions

import (
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerColorOps(m map[string]Func) {
	register(m, []string{"darken"}, hslShiftFn(2, -1))
	register(m, []string{"lighten"}, hslShiftFn(2, 1))
	register(m, []string{"saturate"}, hslShiftFn(1, 1))
	register(m, []string{"desaturate"}, hslShiftFn(1, -1))
	register(m, []string{"spin"}, spinFn)
	register(m, []string{"fadein"}, alphaShiftFn(1))
	register(m, []string{"fadeout"}, alphaShiftFn(-1))
	register(m, []string{"fade"}, fadeFn)
	register(m, []string{"tint"}, mixWithFn(valtree.NewColor(255, 255, 255, 1)))
	register(m, []string{"shade"}, mixWithFn(valtree.NewColor(0, 0, 0, 1)))
	register(m, []string{"mix"}, mixFn)
	register(m, []string{"contrast"}, contrastFn)
}

func amountArg(v valtree.Value, fname string) (float64, error) {
	n, ok := v.(valtree.Number)
	if !ok {
		return 0, lesserr.Errorf("%s: amount must be a number", fname)
	}
	if n.Unit == "%" {
		return n.Val / 100, nil
	}
	return n.Val / 100, nil
}

// hslShiftFn implements darken/lighten/saturate/desaturate: shift HSL
// channel `index` (1=saturation, 2=lightness) by `sign*amount`.
func hslShiftFn(index int, sign float64) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 2 {
			return nil, lesserr.Errorf("expected 2 arguments, got %d", len(args))
		}
		c, ok := ToColor(args[0])
		if !ok {
			return nil, lesserr.Errorf("expected a color argument")
		}
		amt, err := amountArg(args[1], "hsl-shift")
		if err != nil {
			return nil, err
		}
		h, s, l := RGBToHSL(c)
		if index == 1 {
			s = clamp01(s + sign*amt)
		} else {
			l = clamp01(l + sign*amt)
		}
		r, g, b := HSLToRGB(h, s, l)
		return valtree.NewColor(r, g, b, c.A), nil
	}
}

func spinFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 2 {
		return nil, lesserr.Errorf("spin: expected 2 arguments, got %d", len(args))
	}
	c, ok := ToColor(args[0])
	if !ok {
		return nil, lesserr.Errorf("spin: expected a color argument")
	}
	deg, ok := args[1].(valtree.Number)
	if !ok {
		return nil, lesserr.Errorf("spin: angle must be a number")
	}
	h, s, l := RGBToHSL(c)
	h += deg.Val
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	r, g, b := HSLToRGB(h, s, l)
	return valtree.NewColor(r, g, b, c.A), nil
}

func alphaShiftFn(sign float64) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 2 {
			return nil, lesserr.Errorf("expected 2 arguments, got %d", len(args))
		}
		c, ok := ToColor(args[0])
		if !ok {
			return nil, lesserr.Errorf("expected a color argument")
		}
		amt, err := amountArg(args[1], "alpha-shift")
		if err != nil {
			return nil, err
		}
		return valtree.NewColor(c.R, c.G, c.B, c.A+sign*amt), nil
	}
}

func fadeFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) != 2 {
		return nil, lesserr.Errorf("fade: expected 2 arguments, got %d", len(args))
	}
	c, ok := ToColor(args[0])
	if !ok {
		return nil, lesserr.Errorf("fade: expected a color argument")
	}
	amt, err := amountArg(args[1], "fade")
	if err != nil {
		return nil, err
	}
	return valtree.NewColor(c.R, c.G, c.B, amt), nil
}

func mix2(a, b valtree.Color, weight float64) valtree.Color {
	w := weight*2 - 1
	alphaDelta := a.A - b.A
	var w1 float64
	if w*alphaDelta == -1 {
		w1 = w
	} else {
		w1 = (w+alphaDelta)/(1+w*alphaDelta) + 1
		w1 /= 2
	}
	w2 := 1 - w1
	return valtree.NewColor(
		a.R*w1+b.R*w2,
		a.G*w1+b.G*w2,
		a.B*w1+b.B*w2,
		a.A*weight+b.A*(1-weight),
	)
}

func mixWithFn(with valtree.Color) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		if len(args) != 2 {
			return nil, lesserr.Errorf("expected 2 arguments, got %d", len(args))
		}
		c, ok := ToColor(args[0])
		if !ok {
			return nil, lesserr.Errorf("expected a color argument")
		}
		amt, err := amountArg(args[1], "tint-shade")
		if err != nil {
			return nil, err
		}
		return mix2(with, c, amt), nil
	}
}

func mixFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, lesserr.Errorf("mix: expected 2 or 3 arguments, got %d", len(args))
	}
	a, ok := ToColor(args[0])
	if !ok {
		return nil, lesserr.Errorf("mix: first argument is not a color")
	}
	b, ok := ToColor(args[1])
	if !ok {
		return nil, lesserr.Errorf("mix: second argument is not a color")
	}
	weight := 0.5
	if len(args) == 3 {
		w, err := amountArg(args[2], "mix")
		if err != nil {
			return nil, err
		}
		weight = w
	}
	return mix2(a, b, weight), nil
}

// contrastFn picks the darker or lighter of two candidate colors by
// perceptual luma against threshold (default 0.43, §4.6).
func contrastFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	if len(args) < 1 || len(args) > 4 {
		return nil, lesserr.Errorf("contrast: expected 1 to 4 arguments, got %d", len(args))
	}
	c, ok := ToColor(args[0])
	if !ok {
		return nil, lesserr.Errorf("contrast: first argument is not a color")
	}
	dark := valtree.NewColor(0, 0, 0, 1)
	light := valtree.NewColor(255, 255, 255, 1)
	threshold := 0.43
	if len(args) >= 2 {
		if d, ok := ToColor(args[1]); ok {
			dark = d
		}
	}
	if len(args) >= 3 {
		if l, ok := ToColor(args[2]); ok {
			light = l
		}
	}
	if len(args) == 4 {
		t, err := amountArg(args[3], "contrast")
		if err != nil {
			return nil, err
		}
		threshold = t
	}
	if Luma(c) < threshold {
		return light, nil
	}
	return dark, nil
}
