package rimage

import (
	"encoding/binary"
	"math"

	"go.viam.com/panodepth/logging"
	"go.viam.com/panodepth/spatialmath"
	"go.viam.com/panodepth/utils"
)

// DepthMapHeaderSize is both the encoded header length and the only accepted payload offset.
const DepthMapHeaderSize = 8

// DepthMapHeader is the fixed-size prefix of a decoded depth payload. All multi-byte fields are
// little-endian.
type DepthMapHeader struct {
	HeaderSize    uint8
	PlaneCount    uint16
	Width         uint16
	Height        uint16
	PayloadOffset uint8
}

// ParseDepthMapHeader reads and validates the header at the start of buf.
func ParseDepthMapHeader(buf []byte) (DepthMapHeader, error) {
	if len(buf) < DepthMapHeaderSize {
		return DepthMapHeader{}, newFormatError("need %d header bytes, got %d", DepthMapHeaderSize, len(buf))
	}
	header := DepthMapHeader{
		HeaderSize:    buf[0],
		PlaneCount:    binary.LittleEndian.Uint16(buf[1:3]),
		Width:         binary.LittleEndian.Uint16(buf[3:5]),
		Height:        binary.LittleEndian.Uint16(buf[5:7]),
		PayloadOffset: buf[7],
	}
	if header.HeaderSize != DepthMapHeaderSize || header.PayloadOffset != DepthMapHeaderSize {
		return DepthMapHeader{}, newFormatError(
			"header size %d and payload offset %d must both be %d",
			header.HeaderSize, header.PayloadOffset, DepthMapHeaderSize)
	}
	if header.Width == 0 || header.Height == 0 {
		return DepthMapHeader{}, newFormatError("empty %dx%d grid", header.Width, header.Height)
	}
	return header, nil
}

// PlaneDepthMap is the compressed form of a depth map: every cell of the grid names the plane
// visible through it. Index 0 means nothing is visible; index p > 0 refers to Planes[p-1].
type PlaneDepthMap struct {
	Header  DepthMapHeader
	Indices []uint8
	Planes  []spatialmath.Plane
}

// ParsePlaneDepthMap decodes a header, its row-major index grid and its plane list. Bytes past
// the last plane are ignored.
func ParsePlaneDepthMap(buf []byte) (*PlaneDepthMap, error) {
	header, err := ParseDepthMapHeader(buf)
	if err != nil {
		return nil, err
	}
	cells := int(header.Width) * int(header.Height)
	gridStart := int(header.PayloadOffset)
	planesStart := gridStart + cells
	planesEnd := planesStart + int(header.PlaneCount)*spatialmath.PlaneSize
	if len(buf) < planesEnd {
		return nil, newFormatError(
			"%dx%d grid with %d planes needs %d bytes, got %d",
			header.Width, header.Height, header.PlaneCount, planesEnd, len(buf))
	}

	pdm := &PlaneDepthMap{
		Header:  header,
		Indices: make([]uint8, cells),
		Planes:  make([]spatialmath.Plane, header.PlaneCount),
	}
	copy(pdm.Indices, buf[gridStart:planesStart])
	for i := range pdm.Planes {
		offset := planesStart + i*spatialmath.PlaneSize
		pdm.Planes[i], err = spatialmath.PlaneFromBytes(buf[offset : offset+spatialmath.PlaneSize])
		if err != nil {
			return nil, newFormatError("plane %d: %v", i, err)
		}
	}
	return pdm, nil
}

// Width returns the grid width.
func (pdm *PlaneDepthMap) Width() int {
	return int(pdm.Header.Width)
}

// Height returns the grid height.
func (pdm *PlaneDepthMap) Height() int {
	return int(pdm.Header.Height)
}

// Plane looks up a grid index. It returns false for 0 and for indices past the plane list.
func (pdm *PlaneDepthMap) Plane(idx uint8) (spatialmath.Plane, bool) {
	if idx == 0 || int(idx) > len(pdm.Planes) {
		return spatialmath.Plane{}, false
	}
	return pdm.Planes[idx-1], true
}

// UnresolvedCells counts grid cells whose nonzero index has no plane.
func (pdm *PlaneDepthMap) UnresolvedCells() int {
	count := 0
	for _, idx := range pdm.Indices {
		if idx != 0 && int(idx) > len(pdm.Planes) {
			count++
		}
	}
	return count
}

// DistanceAt returns the quantized distance seen through grid cell (x, y), or 0 when the cell
// has no usable plane.
func (pdm *PlaneDepthMap) DistanceAt(x, y int) Depth {
	width, height := pdm.Width(), pdm.Height()
	plane, ok := pdm.Plane(pdm.Indices[y*width+x])
	if !ok {
		return 0
	}
	t, ok := plane.RayDistance(spatialmath.EquirectangularDirection(x, y, width, height))
	if !ok {
		return 0
	}
	return QuantizeDistance(t)
}

// DistanceGrid evaluates every cell of the grid. The sample for cell (x, y) is stored at
// (width-1-x, y) so the result lines up with the panorama imagery.
func (pdm *PlaneDepthMap) DistanceGrid() *DepthMap {
	width, height := pdm.Width(), pdm.Height()
	dm := NewEmptyDepthMap(width, height)
	utils.ParallelForEachRow(height, func(y int) {
		row := dm.Row(y)
		for x := 0; x < width; x++ {
			row[width-1-x] = pdm.DistanceAt(x, y)
		}
	})
	return dm
}

// QuantizeDistance maps a distance in meters onto [0, 255], where 255 stands for MaxDistance
// or farther.
func QuantizeDistance(t float64) Depth {
	if math.IsNaN(t) || t <= 0 {
		return 0
	}
	q := math.Round(t / MaxDistance * float64(MaxDepth))
	if q >= float64(MaxDepth) {
		return MaxDepth
	}
	return Depth(q)
}

// DecodePlaneDepthMap decodes a raw base64url depth payload without evaluating distances.
func DecodePlaneDepthMap(raw string, logger logging.Logger) (*PlaneDepthMap, error) {
	buf, substituted := LenientDecode(raw)
	if substituted > 0 {
		logger.Warnw("substituted filler for undecodable depth map chunks",
			"chunks", substituted,
			"total", (len(raw)+encodedChunkSize-1)/encodedChunkSize)
	}
	pdm, err := ParsePlaneDepthMap(buf)
	if err != nil {
		return nil, err
	}
	if unresolved := pdm.UnresolvedCells(); unresolved > 0 {
		logger.Debugw("depth map references missing planes", "cells", unresolved, "planes", len(pdm.Planes))
	}
	logger.Debugw("decoded depth map",
		"width", pdm.Width(), "height", pdm.Height(), "planes", len(pdm.Planes))
	return pdm, nil
}

// DecodeDepthStream turns a raw base64url depth payload into a quantized distance grid.
func DecodeDepthStream(raw string, logger logging.Logger) (*DepthMap, error) {
	pdm, err := DecodePlaneDepthMap(raw, logger)
	if err != nil {
		return nil, err
	}
	return pdm.DistanceGrid(), nil
}
