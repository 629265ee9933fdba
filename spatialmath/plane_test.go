package spatialmath

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func encodePlane(x, y, z, d float32) []byte {
	buf := make([]byte, PlaneSize)
	for i, v := range []float32{x, y, z, d} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestPlaneFromBytes(t *testing.T) {
	p, err := PlaneFromBytes(encodePlane(0, .5, -1, 12.25))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, NewPlane(0, .5, -1, 12.25))

	_, err = PlaneFromBytes(make([]byte, PlaneSize-1))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "16 bytes")
}

func TestPlaneRayDistance(t *testing.T) {
	floor := NewPlane(0, 0, 1, 50)

	dist, ok := floor.RayDistance(r3.Vector{Z: 1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldEqual, 50.)

	// sign of the denominator does not matter
	dist, ok = floor.RayDistance(r3.Vector{Z: -1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldEqual, 50.)

	dir := r3.Vector{X: 1, Z: 1}.Normalize()
	dist, ok = floor.RayDistance(dir)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 50*math.Sqrt2, 1e-9)

	t.Run("parallel ray", func(t *testing.T) {
		dist, ok := floor.RayDistance(r3.Vector{X: 1})
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, dist, test.ShouldEqual, 0.)
	})

	t.Run("degenerate plane", func(t *testing.T) {
		_, ok := NewPlane(0, 0, 0, 3).RayDistance(r3.Vector{Z: 1})
		test.That(t, ok, test.ShouldBeFalse)

		_, ok = NewPlane(0, 0, 1, math.Inf(1)).RayDistance(r3.Vector{Z: 1})
		test.That(t, ok, test.ShouldBeFalse)

		_, ok = NewPlane(0, 0, 1, math.NaN()).RayDistance(r3.Vector{Z: 1})
		test.That(t, ok, test.ShouldBeFalse)
	})
}
