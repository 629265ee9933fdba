package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// EquirectangularNormalize maps pixel coordinates of a width x height equirectangular image to
// [0,1] in both axes. Both axes are flipped: column width-1 and row height-1 map to 0. An axis
// with a single pixel maps to 0.
func EquirectangularNormalize(x, y, width, height int) (float64, float64) {
	var xn, yn float64
	if width > 1 {
		xn = float64(width-1-x) / float64(width-1)
	}
	if height > 1 {
		yn = float64(height-1-y) / float64(height-1)
	}
	return xn, yn
}

// EquirectangularAngles returns the azimuth theta and polar angle phi, in radians, of the
// given pixel. Azimuth starts a quarter turn in.
func EquirectangularAngles(x, y, width, height int) (theta, phi float64) {
	xn, yn := EquirectangularNormalize(x, y, width, height)
	theta = xn*2*math.Pi + math.Pi/2
	phi = yn * math.Pi
	return theta, phi
}

// EquirectangularDirection returns the unit ray direction seen by the given pixel of a
// width x height equirectangular image, with Z up.
func EquirectangularDirection(x, y, width, height int) r3.Vector {
	theta, phi := EquirectangularAngles(x, y, width, height)
	return SphericalToCartesian(theta, phi)
}

// SphericalToCartesian converts an azimuth theta and polar angle phi to a unit vector.
func SphericalToCartesian(theta, phi float64) r3.Vector {
	sinPhi := math.Sin(phi)
	return r3.Vector{
		X: sinPhi * math.Cos(theta),
		Y: sinPhi * math.Sin(theta),
		Z: math.Cos(phi),
	}
}
