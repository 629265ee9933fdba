package rimage

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"go.viam.com/panodepth/pointcloud"
	"go.viam.com/panodepth/spatialmath"
	"go.viam.com/panodepth/utils"
)

// EquirectangularPosition places the pixel (x, y) of a width x height panorama in space. The
// point lies along the pixel's view ray at the quantized depth read as a distance capped at
// MaxDistance; pixels without depth are pushed out to MaxDistance.
func EquirectangularPosition(x, y, width, height int, depth Depth) r3.Vector {
	scale := float64(depth)
	if scale > MaxDistance {
		scale = MaxDistance
	}
	if depth == 0 {
		scale = MaxDistance
	}
	return spatialmath.EquirectangularDirection(x, y, width, height).Mul(scale)
}

// EquirectangularPointCloud builds one colored point per pixel of dm, in row-major order. img
// must have the same dimensions as dm and is sampled at the same pixel. Rows are built
// concurrently; cancelling ctx abandons the build.
func EquirectangularPointCloud(ctx context.Context, dm *DepthMap, img image.Image) (pointcloud.PointCloud, error) {
	width, height := dm.Width(), dm.Height()
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return nil, &DimensionMismatchError{
			DepthWidth:  width,
			DepthHeight: height,
			ColorWidth:  bounds.Dx(),
			ColorHeight: bounds.Dy(),
		}
	}

	colors := imaging.Clone(img)
	points := make([]pointcloud.Point, width*height)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(utils.ParallelFactor)
	for y := 0; y < height; y++ {
		y := y
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			depths := dm.Row(y)
			row := points[y*width : (y+1)*width]
			for x := range row {
				c := colors.NRGBAAt(x, y)
				r, g, b := NewColor(c.R, c.G, c.B).Normalized()
				row[x] = pointcloud.Point{
					Position: pointcloud.VectorToVec3(EquirectangularPosition(x, y, width, height, depths[x])),
					Color:    mgl32.Vec3{float32(r), float32(g), float32(b)},
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pointcloud.NewFromPoints(points, true), nil
}
