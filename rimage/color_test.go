package rimage

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

var (
	Red   = NewColor(255, 0, 0)
	Green = NewColor(0, 255, 0)
	Blue  = NewColor(0, 0, 255)
	Gray  = NewColor(128, 128, 128)
	Black = NewColor(0, 0, 0)
)

func TestColor(t *testing.T) {
	c := NewColor(255, 128, 0)
	test.That(t, c.Hex(), test.ShouldEqual, "#ff8000")
	test.That(t, c.String(), test.ShouldEqual, "#ff8000")

	r, g, b, a := c.RGBA()
	test.That(t, r, test.ShouldEqual, uint32(0xffff))
	test.That(t, g, test.ShouldEqual, uint32(0x8080))
	test.That(t, b, test.ShouldEqual, uint32(0))
	test.That(t, a, test.ShouldEqual, uint32(0xffff))

	test.That(t, NewColorFromHSV(0, 1, 1), test.ShouldResemble, Red)
	test.That(t, NewColorFromHSV(240, 1, 1), test.ShouldResemble, Blue)

	nr, ng, nb := Gray.Normalized()
	test.That(t, nr, test.ShouldAlmostEqual, 128.0/255)
	test.That(t, ng, test.ShouldAlmostEqual, nr)
	test.That(t, nb, test.ShouldAlmostEqual, nr)
}

func TestNewColorFromColor(t *testing.T) {
	test.That(t, NewColorFromColor(Green), test.ShouldResemble, Green)
	test.That(t, NewColorFromColor(color.NRGBA{1, 2, 3, 255}), test.ShouldResemble, NewColor(1, 2, 3))
	test.That(t, NewColorFromColor(color.Gray{77}), test.ShouldResemble, NewColor(77, 77, 77))
	test.That(t, ColorModel.Convert(color.White), test.ShouldResemble, NewColor(255, 255, 255))
}

func TestImage(t *testing.T) {
	img := NewImage(3, 2)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 3, 2))
	test.That(t, img.At(2, 1), test.ShouldResemble, Black)

	img.SetXY(2, 1, Red)
	img.SetXY(0, 0, Blue)
	test.That(t, img.At(2, 1), test.ShouldResemble, Red)
	test.That(t, img.At(0, 0), test.ShouldResemble, Blue)
	test.That(t, img.At(1, 1), test.ShouldResemble, Black)

	// outside the image
	test.That(t, img.At(3, 1), test.ShouldResemble, Black)
	test.That(t, img.At(-1, 0), test.ShouldResemble, Black)

	// usable wherever a standard image is
	gray := image.NewGray(img.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	test.That(t, gray.GrayAt(2, 1).Y, test.ShouldBeGreaterThan, 0)
	test.That(t, gray.GrayAt(1, 1).Y, test.ShouldEqual, 0)
}
