package rimage

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return c.Hex()
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

// Normalized returns each component divided by 255.
func (c Color) Normalized() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// NewColor returns the color with the given components.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// NewColorFromHSV returns the color for hue in [0, 360) and saturation and value in [0, 1].
func NewColorFromHSV(h, s, v float64) Color {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return NewColor(r, g, b)
}

// NewColorFromColor converts any color, dropping alpha after un-premultiplying it.
func NewColorFromColor(c color.Color) Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewColor(nc.R, nc.G, nc.B)
}

// ColorModel converts colors to Color.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return NewColorFromColor(c)
})

