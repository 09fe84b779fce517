package quant

import "image/color"

// Color is a packed 32-bit ARGB pixel: bits 24-31 alpha, 16-23 red,
// 8-15 green, 0-7 blue. It is the unit the caller feeds to AddColor.
type Color uint32

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// NewColor packs a, r, g, b into a Color.
func NewColor(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromImageColor converts a color.Color from the image package into a
// Color. image.Image.At returns alpha-premultiplied channels per the
// color.Color contract; Flatten expects straight channels plus an
// independent alpha so it can do its own compositing, so this goes
// through color.NRGBAModel rather than unpacking RGBA() directly.
func FromImageColor(ic color.Color) Color {
	n := color.NRGBAModel.Convert(ic).(color.NRGBA)
	return NewColor(n.A, n.R, n.G, n.B)
}

// RGB is an opaque, alpha-less color: the type every palette entry and
// the flattener's output are expressed in.
type RGB struct {
	R, G, B uint8
}

// alphaFactor[a] = a/255.0, precomputed once so Flatten's blend always
// truncates the same way rather than depending on a fresh division's
// rounding.
var alphaFactor [256]float64

func init() {
	for a := 0; a <= 255; a++ {
		alphaFactor[a] = float64(a) / 255.0
	}
}

// Flatten composites c onto bg: opaque pixels pass through unchanged,
// translucent ones blend with truncation toward zero, not
// round-to-nearest.
func Flatten(c Color, bg RGB) RGB {
	a := c.A()
	if a == 255 {
		return RGB{c.R(), c.G(), c.B()}
	}

	fg := alphaFactor[a]
	fb := alphaFactor[255-a]

	return RGB{
		R: uint8(float64(c.R())*fg + float64(bg.R)*fb),
		G: uint8(float64(c.G())*fg + float64(bg.G)*fb),
		B: uint8(float64(c.B())*fg + float64(bg.B)*fb),
	}
}
