package rimage

import (
	"image"
	"image/color"
)

// Image is a pixel-addressable RGB image.
type Image struct {
	data          []Color
	width, height int
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		data:   make([]Color, width*height),
		width:  width,
		height: height,
	}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return ColorModel
}

func (i *Image) kxy(x, y int) int {
	return (y * i.width) + x
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// At implements image.Image. Points outside the image are black.
func (i *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(i.Bounds()) {
		return Color{}
	}
	return i.data[i.kxy(x, y)]
}

// SetXY sets the color at (x, y).
func (i *Image) SetXY(x, y int, c Color) {
	i.data[i.kxy(x, y)] = c
}
