package spatialmath

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PlaneSize is the encoded size in bytes of a Plane: four little-endian float32s.
const PlaneSize = 16

// Plane is the implicit surface Normal·X = D.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// NewPlane returns the plane x*X + y*Y + z*Z = d.
func NewPlane(x, y, z, d float64) Plane {
	return Plane{Normal: r3.Vector{X: x, Y: y, Z: z}, D: d}
}

// PlaneFromBytes decodes a plane stored as the float32 values x, y, z, d in little-endian order.
func PlaneFromBytes(data []byte) (Plane, error) {
	if len(data) < PlaneSize {
		return Plane{}, errors.Errorf("plane needs %d bytes, got %d", PlaneSize, len(data))
	}
	var vals [4]float64
	for i := range vals {
		vals[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return NewPlane(vals[0], vals[1], vals[2], vals[3]), nil
}

// RayDistance returns the distance t along the direction dir, starting at the origin, at which
// the ray meets the plane, as |D / (dir·Normal)|. For a unit dir this is the Euclidean distance.
// It returns false when the ray is parallel to the plane or the result is not finite.
func (p Plane) RayDistance(dir r3.Vector) (float64, bool) {
	denom := dir.Dot(p.Normal)
	if denom == 0 {
		return 0, false
	}
	t := math.Abs(p.D / denom)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

func (p Plane) String() string {
	return fmt.Sprintf("Plane{normal: %v, d: %v}", p.Normal, p.D)
}
