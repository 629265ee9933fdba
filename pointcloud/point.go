package pointcloud

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// Point is a position in space and the color seen there. Color components are in [0, 1].
type Point struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// NewPoint returns a point at pos with color c.
func NewPoint(pos r3.Vector, c color.Color) Point {
	return Point{
		Position: VectorToVec3(pos),
		Color:    ColorToVec3(c),
	}
}

// VectorToVec3 narrows a vector to float32 components.
func VectorToVec3(v r3.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Vec3ToVector widens float32 components to a vector.
func Vec3ToVector(v mgl32.Vec3) r3.Vector {
	return r3.Vector{X: float64(v.X()), Y: float64(v.Y()), Z: float64(v.Z())}
}

// ColorToVec3 returns the 8-bit red, green and blue components of c divided by 255.
func ColorToVec3(c color.Color) mgl32.Vec3 {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return mgl32.Vec3{float32(nc.R) / 255, float32(nc.G) / 255, float32(nc.B) / 255}
}

// Vector returns the position as a vector.
func (p Point) Vector() r3.Vector {
	return Vec3ToVector(p.Position)
}

// RGB255 returns the color components scaled back to [0, 255].
func (p Point) RGB255() (uint8, uint8, uint8) {
	return channel255(p.Color.X()), channel255(p.Color.Y()), channel255(p.Color.Z())
}

// NRGBA returns the point's opaque color.
func (p Point) NRGBA() color.NRGBA {
	r, g, b := p.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func channel255(v float32) uint8 {
	scaled := math.Round(float64(v) * 255)
	switch {
	case scaled <= 0 || math.IsNaN(scaled):
		return 0
	case scaled >= 255:
		return 255
	default:
		return uint8(scaled)
	}
}
