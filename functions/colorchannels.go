package functions

import (
	"github.com/titpetric/lessgo/lesserr"
	"github.com/titpetric/lessgo/valtree"
)

func registerColorChannels(m map[string]Func) {
	register(m, []string{"red"}, channelFn(func(c valtree.Color) float64 { return c.R }, ""))
	register(m, []string{"green"}, channelFn(func(c valtree.Color) float64 { return c.G }, ""))
	register(m, []string{"blue"}, channelFn(func(c valtree.Color) float64 { return c.B }, ""))
	register(m, []string{"alpha"}, channelFn(func(c valtree.Color) float64 { return c.A }, ""))
	register(m, []string{"hue"}, hslChannelFn(0, "deg"))
	register(m, []string{"saturation"}, hslChannelFn(1, "%"))
	register(m, []string{"lightness"}, hslChannelFn(2, "%"))
	register(m, []string{"luma"}, lumaFn)
	register(m, []string{"argb"}, hexFn(true))
	register(m, []string{"rgbahex"}, hexFn(true))
}

func colorArg(args []valtree.Value, fname string) (valtree.Color, error) {
	if len(args) != 1 {
		return valtree.Color{}, lesserr.Errorf("%s: expected 1 argument, got %d", fname, len(args))
	}
	c, ok := ToColor(args[0])
	if !ok {
		return valtree.Color{}, lesserr.Errorf("%s: argument is not a color", fname)
	}
	return c, nil
}

func channelFn(f func(valtree.Color) float64, unit string) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		c, err := colorArg(args, "channel")
		if err != nil {
			return nil, err
		}
		return valtree.Number{Val: f(c), Unit: unit}, nil
	}
}

func hslChannelFn(index int, unit string) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		c, err := colorArg(args, "hsl-channel")
		if err != nil {
			return nil, err
		}
		h, s, l := RGBToHSL(c)
		switch index {
		case 0:
			return valtree.Number{Val: h, Unit: unit}, nil
		case 1:
			return valtree.Number{Val: s * 100, Unit: unit}, nil
		default:
			return valtree.Number{Val: l * 100, Unit: unit}, nil
		}
	}
}

func lumaFn(ctx *Context, args []valtree.Value) (valtree.Value, error) {
	c, err := colorArg(args, "luma")
	if err != nil {
		return nil, err
	}
	return valtree.Number{Val: Luma(c) * 100, Unit: "%"}, nil
}

func hexFn(withAlpha bool) Func {
	return func(ctx *Context, args []valtree.Value) (valtree.Value, error) {
		c, err := colorArg(args, "hex")
		if err != nil {
			return nil, err
		}
		return valtree.PlainString("", FormatHex(c, withAlpha)), nil
	}
}
