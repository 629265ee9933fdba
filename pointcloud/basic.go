package pointcloud

import (
	"github.com/go-gl/mathgl/mgl32"
)

// basicPointCloud is the basic implementation of the PointCloud interface backed by
// a slice of points.
type basicPointCloud struct {
	points []Point
	meta   MetaData
}

// New returns an empty PointCloud backed by a basicPointCloud.
func New() PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty, preallocated PointCloud backed by a basicPointCloud.
func NewWithPrealloc(size int) PointCloud {
	return &basicPointCloud{
		points: make([]Point, 0, size),
		meta:   NewMetaData(),
	}
}

// NewFromPoints returns a cloud that takes ownership of points, keeping their order.
func NewFromPoints(points []Point, hasColor bool) PointCloud {
	cloud := &basicPointCloud{points: points, meta: NewMetaData()}
	cloud.meta.HasColor = hasColor
	for _, p := range points {
		cloud.meta.Merge(p.Vector())
	}
	return cloud
}

func (cloud *basicPointCloud) Size() int {
	return len(cloud.points)
}

func (cloud *basicPointCloud) MetaData() MetaData {
	return cloud.meta
}

func (cloud *basicPointCloud) Append(p Point) {
	cloud.points = append(cloud.points, p)
	if p.Color != (mgl32.Vec3{}) {
		cloud.meta.HasColor = true
	}
	cloud.meta.Merge(p.Vector())
}

func (cloud *basicPointCloud) At(i int) Point {
	return cloud.points[i]
}

func (cloud *basicPointCloud) Iterate(numBatches, myBatch int, fn func(i int, p Point) bool) {
	from, to := 0, len(cloud.points)
	if numBatches > 0 {
		from = myBatch * len(cloud.points) / numBatches
		to = (myBatch + 1) * len(cloud.points) / numBatches
	}
	for i := from; i < to; i++ {
		if !fn(i, cloud.points[i]) {
			return
		}
	}
}
