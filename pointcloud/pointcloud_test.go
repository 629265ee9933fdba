package pointcloud

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPointCloudBasic(t *testing.T) {
	pc := New()
	test.That(t, pc.Size(), test.ShouldEqual, 0)
	test.That(t, pc.MetaData().HasColor, test.ShouldBeFalse)

	p0 := NewPoint(r3.Vector{}, color.Black)
	p1 := NewPoint(r3.Vector{X: 1, Y: 0, Z: 1}, color.NRGBA{255, 0, 0, 255})
	p2 := NewPoint(r3.Vector{X: -1, Y: -2, Z: 1}, color.NRGBA{0, 0, 255, 255})

	pc.Append(p0)
	test.That(t, pc.MetaData().HasColor, test.ShouldBeFalse)
	pc.Append(p1)
	pc.Append(p2)
	test.That(t, pc.Size(), test.ShouldEqual, 3)
	test.That(t, pc.MetaData().HasColor, test.ShouldBeTrue)
	test.That(t, pc.At(1), test.ShouldResemble, p1)

	meta := pc.MetaData()
	test.That(t, meta.MinX, test.ShouldEqual, -1)
	test.That(t, meta.MaxX, test.ShouldEqual, 1)
	test.That(t, meta.MinY, test.ShouldEqual, -2)
	test.That(t, meta.MaxY, test.ShouldEqual, 0)
	test.That(t, meta.MinZ, test.ShouldEqual, 0)
	test.That(t, meta.MaxZ, test.ShouldEqual, 1)

	var seen []int
	pc.Iterate(0, 0, func(i int, p Point) bool {
		seen = append(seen, i)
		return true
	})
	test.That(t, seen, test.ShouldResemble, []int{0, 1, 2})

	seen = nil
	pc.Iterate(0, 0, func(i int, p Point) bool {
		seen = append(seen, i)
		return i < 1
	})
	test.That(t, seen, test.ShouldResemble, []int{0, 1})
}

func TestPointCloudKeepsDuplicates(t *testing.T) {
	pc := NewWithPrealloc(4)
	for i := 0; i < 4; i++ {
		pc.Append(NewPoint(r3.Vector{Z: 100}, color.NRGBA{uint8(i), 0, 0, 255}))
	}
	test.That(t, pc.Size(), test.ShouldEqual, 4)
	r, _, _ := pc.At(3).RGB255()
	test.That(t, r, test.ShouldEqual, 3)
}

func TestPointCloudIterateBatches(t *testing.T) {
	points := make([]Point, 10)
	for i := range points {
		points[i] = NewPoint(r3.Vector{X: float64(i)}, color.White)
	}
	pc := NewFromPoints(points, true)
	test.That(t, pc.MetaData().HasColor, test.ShouldBeTrue)
	test.That(t, pc.MetaData().MaxX, test.ShouldEqual, 9)

	counts := map[int]int{}
	for batch := 0; batch < 3; batch++ {
		pc.Iterate(3, batch, func(i int, p Point) bool {
			counts[i]++
			test.That(t, p.Position.X(), test.ShouldEqual, float32(i))
			return true
		})
	}
	test.That(t, counts, test.ShouldHaveLength, 10)
	for _, c := range counts {
		test.That(t, c, test.ShouldEqual, 1)
	}
}

func TestPointColor(t *testing.T) {
	p := NewPoint(r3.Vector{X: 1, Y: 2, Z: 3}, color.NRGBA{255, 128, 0, 255})
	test.That(t, p.Position, test.ShouldResemble, mgl32.Vec3{1, 2, 3})
	test.That(t, p.Color.X(), test.ShouldEqual, float32(1))
	test.That(t, p.Color.Y(), test.ShouldAlmostEqual, 128.0/255, 1e-6)
	test.That(t, p.Color.Z(), test.ShouldEqual, float32(0))
	test.That(t, p.NRGBA(), test.ShouldResemble, color.NRGBA{255, 128, 0, 255})
	test.That(t, p.Vector(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	out := Point{Color: mgl32.Vec3{-1, 2, 0.5}}
	r, g, b := out.RGB255()
	test.That(t, r, test.ShouldEqual, 0)
	test.That(t, g, test.ShouldEqual, 255)
	test.That(t, b, test.ShouldEqual, 128)
}

func TestCloudCentroid(t *testing.T) {
	test.That(t, CloudCentroid(New()), test.ShouldResemble, r3.Vector{})

	pc := New()
	pc.Append(NewPoint(r3.Vector{X: 2, Y: 0, Z: 0}, color.Black))
	pc.Append(NewPoint(r3.Vector{X: 0, Y: 4, Z: 0}, color.Black))
	centroid := CloudCentroid(pc)
	test.That(t, centroid.X, test.ShouldAlmostEqual, 1)
	test.That(t, centroid.Y, test.ShouldAlmostEqual, 2)
	test.That(t, centroid.Z, test.ShouldAlmostEqual, 0)
}

func TestToColumns(t *testing.T) {
	pc := New()
	pc.Append(NewPoint(r3.Vector{X: 1, Y: 2, Z: 3}, color.NRGBA{255, 0, 0, 255}))
	pc.Append(NewPoint(r3.Vector{X: 4, Y: 5, Z: 6}, color.NRGBA{0, 0, 255, 255}))

	cols := ToColumns(pc)
	test.That(t, cols.Len(), test.ShouldEqual, 2)
	test.That(t, cols.X, test.ShouldResemble, []float32{1, 4})
	test.That(t, cols.Y, test.ShouldResemble, []float32{2, 5})
	test.That(t, cols.Z, test.ShouldResemble, []float32{3, 6})
	test.That(t, cols.R, test.ShouldResemble, []float32{1, 0})
	test.That(t, cols.G, test.ShouldResemble, []float32{0, 0})
	test.That(t, cols.B, test.ShouldResemble, []float32{0, 1})
}
