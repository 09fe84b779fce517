package quant

import (
	"image"
	"image/color"
)

// DrawQuantizer adapts Quantizer to golang.org/x/image/draw.Quantizer
// so callers already using that interface (for example draw.Draw with
// a *image.Paletted destination) can drop this engine in without
// touching their own pixel-iteration code. It is a thin wrapper: the
// heavy lifting is entirely in Quantizer.
type DrawQuantizer struct {
	// Background is the color used to flatten translucent pixels.
	// Zero value flattens onto white.
	Background RGB
}

// Quantize returns p with the palette built for m appended: it always
// requests 256 colors, so at most len(p)+256 entries come back (fewer
// when m's colors fill fewer cubes). cap(p) is not consulted. If the
// quantizer fails, p is returned unchanged.
func (dq DrawQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return dq.quantize(p, m, 256)
}

// QuantizeColors is the same operation as Quantize with an explicit
// requested palette size, for callers that want a smaller palette than
// the interface's implicit 256.
func (dq DrawQuantizer) QuantizeColors(p color.Palette, m image.Image, numColors int) color.Palette {
	return dq.quantize(p, m, numColors)
}

func (dq DrawQuantizer) quantize(p color.Palette, m image.Image, numColors int) color.Palette {
	if numColors <= 0 {
		numColors = 256
	}
	if numColors > 256 {
		numColors = 256
	}
	if numColors < 2 {
		numColors = 2
	}

	bg := dq.Background
	if bg == (RGB{}) {
		bg = RGB{R: 255, G: 255, B: 255}
	}

	bounds := m.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	z := New(Config{Background: bg})
	if err := z.Prepare(width, height); err != nil {
		return p
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := FromImageColor(m.At(x, y))
			if err := z.AddColor(c); err != nil {
				return p
			}
		}
	}

	palette, err := z.BuildPalette(numColors)
	if err != nil {
		return p
	}

	out := make(color.Palette, 0, len(p)+len(palette))
	out = append(out, p...)
	for _, rgb := range palette {
		out = append(out, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
	}
	return out
}
