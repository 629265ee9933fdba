package rimage

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/stat"
)

// Depth is a quantized distance sample. 0 means no depth data.
type Depth uint8

// MaxDepth is the largest quantized depth, meaning "at or beyond MaxDistance".
const MaxDepth = Depth(255)

// MaxDistance is the real-world distance, in scene units, that quantizes to MaxDepth.
const MaxDistance = 100.0

// maxDepthMapDimension bounds dimensions read from disk.
const maxDepthMapDimension = 100000

// DepthMap is a width x height grid of quantized distances stored row-major.
type DepthMap struct {
	width  int
	height int

	data []Depth
}

// NewEmptyDepthMap returns a zeroed depth map.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]Depth, width*height),
	}
}

// HasData returns whether or not the depth map has any cells.
func (dm *DepthMap) HasData() bool {
	return dm.width > 0 && dm.height > 0
}

// Width returns the horizontal dimension of the DepthMap.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the vertical dimension of the DepthMap.
func (dm *DepthMap) Height() int {
	return dm.height
}

func (dm *DepthMap) kxy(x, y int) int {
	return (y * dm.width) + x
}

// Get returns the depth at a given image.Point.
func (dm *DepthMap) Get(p image.Point) Depth {
	return dm.data[dm.kxy(p.X, p.Y)]
}

// GetDepth returns the depth at a given column and row.
func (dm *DepthMap) GetDepth(x, y int) Depth {
	return dm.data[dm.kxy(x, y)]
}

// Set sets the depth at a given column and row.
func (dm *DepthMap) Set(x, y int, val Depth) {
	dm.data[dm.kxy(x, y)] = val
}

// Row returns the backing storage of row y. Writes through it modify the map.
func (dm *DepthMap) Row(y int) []Depth {
	return dm.data[y*dm.width : (y+1)*dm.width]
}

// Clone makes a copy of the depth map.
func (dm *DepthMap) Clone() *DepthMap {
	ddm := NewEmptyDepthMap(dm.width, dm.height)
	copy(ddm.data, dm.data)
	return ddm
}

// Equal reports whether both maps have the same dimensions and contents.
func (dm *DepthMap) Equal(other *DepthMap) bool {
	if dm.width != other.width || dm.height != other.height {
		return false
	}
	for i, d := range dm.data {
		if other.data[i] != d {
			return false
		}
	}
	return true
}

// MinMax returns the minimum and maximum non-zero depth, or (0, 0) if there is none.
func (dm *DepthMap) MinMax() (Depth, Depth) {
	min := MaxDepth
	max := Depth(0)
	found := false

	for _, z := range dm.data {
		if z == 0 {
			continue
		}
		found = true
		if z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}

	if !found {
		return 0, 0
	}
	return min, max
}

// DepthStats summarizes the cells of a depth map.
type DepthStats struct {
	Cells   int
	Valid   int
	Clamped int
	Mean    float64
	StdDev  float64
}

// Stats returns counts of valid and clamped cells plus the mean and standard deviation of the
// valid (non-zero) depths.
func (dm *DepthMap) Stats() DepthStats {
	stats := DepthStats{Cells: len(dm.data)}
	valid := make([]float64, 0, len(dm.data))
	for _, z := range dm.data {
		if z == 0 {
			continue
		}
		if z == MaxDepth {
			stats.Clamped++
		}
		valid = append(valid, float64(z))
	}
	stats.Valid = len(valid)
	if len(valid) > 1 {
		stats.Mean, stats.StdDev = stat.MeanStdDev(valid, nil)
	} else if len(valid) == 1 {
		stats.Mean = valid[0]
	}
	return stats
}

// ToGray returns the raw quantized depths as a grayscale image.
func (dm *DepthMap) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, dm.width, dm.height))
	for i, z := range dm.data {
		img.Pix[i] = uint8(z)
	}
	return img
}

// ToPrettyPicture colors each depth by hue between hardMin and hardMax. Cells without depth
// stay black.
func (dm *DepthMap) ToPrettyPicture(hardMin, hardMax Depth) *Image {
	min, max := dm.MinMax()

	if min < hardMin {
		min = hardMin
	}
	if max > hardMax {
		max = hardMax
	}

	img := NewImage(dm.width, dm.height)

	span := float64(max) - float64(min)

	for y := 0; y < dm.height; y++ {
		for x := 0; x < dm.width; x++ {
			z := dm.GetDepth(x, y)
			if z == 0 {
				continue
			}

			if z < min {
				z = min
			}
			if z > max {
				z = max
			}

			ratio := 0.0
			if span > 0 {
				ratio = (float64(z) - float64(min)) / span
			}

			hue := 30 + (200.0 * ratio)
			img.SetXY(x, y, NewColorFromHSV(hue, 1.0, 1.0))
		}
	}

	return img
}

// ParseDepthMap reads a depth map written by WriteToFile. Files ending in .gz are gunzipped.
func ParseDepthMap(fn string) (dm *DepthMap, err error) {
	var f io.Reader

	//nolint:gosec
	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	f = file

	if filepath.Ext(fn) == ".gz" {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, gzErr
		}
		defer func() {
			err = multierr.Combine(err, gz.Close())
		}()
		f = gz
	}

	return ReadDepthMap(bufio.NewReader(f))
}

// ReadDepthMap reads a little-endian uint64 width and height followed by one byte per cell,
// row-major.
func ReadDepthMap(r io.Reader) (*DepthMap, error) {
	var dims [2]uint64
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "cannot read depth map dimensions")
	}

	width, height := dims[0], dims[1]
	if width == 0 || width >= maxDepthMapDimension || height == 0 || height >= maxDepthMapDimension {
		return nil, errors.Errorf("bad width or height for depth map %v %v", width, height)
	}

	dm := NewEmptyDepthMap(int(width), int(height))
	raw := make([]byte, len(dm.data))
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(err, "cannot read depth map data")
	}
	for i, b := range raw {
		dm.data[i] = Depth(b)
	}
	return dm, nil
}

// WriteToFile writes the depth map to the given file, gzipped if it ends in .gz.
func (dm *DepthMap) WriteToFile(fn string) (err error) {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	var out io.Writer = f
	if filepath.Ext(fn) == ".gz" {
		gout := gzip.NewWriter(f)
		defer func() {
			err = multierr.Combine(err, gout.Close())
		}()
		out = gout
	}

	if err := dm.WriteTo(out); err != nil {
		return err
	}
	return nil
}

// WriteTo writes the depth map in the format read by ReadDepthMap.
func (dm *DepthMap) WriteTo(out io.Writer) error {
	dims := [2]uint64{uint64(dm.width), uint64(dm.height)}
	if err := binary.Write(out, binary.LittleEndian, dims); err != nil {
		return err
	}

	raw := make([]byte, len(dm.data))
	for i, z := range dm.data {
		raw[i] = byte(z)
	}
	_, err := out.Write(raw)
	return err
}
