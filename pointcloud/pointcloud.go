// Package pointcloud defines an ordered point cloud and ways to persist one.
//
// Unlike a spatial index, a cloud here keeps every point it is given in insertion order,
// including points that share a position. Clouds built from an image hold one point per
// pixel in row-major order.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	HasColor bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns meta data with empty bounds.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
		MinZ: math.Inf(1),
		MaxZ: math.Inf(-1),
	}
}

// Merge grows the bounds to include v.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)
}

// PointCloud is an ordered, append-only container of points.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// MetaData returns meta data
	MetaData() MetaData

	// Append adds p after every point already in the cloud.
	Append(p Point)

	// At returns the i-th point.
	At(i int) Point

	// Iterate calls fn for each point in order, stopping early if fn returns false.
	// numBatches lets you divide up the work. 0 means don't divide;
	// myBatch is used iff numBatches > 0 and is which batch you want.
	Iterate(numBatches, myBatch int, fn func(i int, p Point) bool)
}

// CloudCentroid returns the mean position of the cloud, or the zero vector for an empty cloud.
func CloudCentroid(pc PointCloud) r3.Vector {
	if pc.Size() == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	pc.Iterate(0, 0, func(_ int, p Point) bool {
		sum = sum.Add(p.Vector())
		return true
	})
	return sum.Mul(1 / float64(pc.Size()))
}
