package rimage

import (
	"encoding/base64"
	"encoding/binary"
	"math"

	"go.viam.com/panodepth/spatialmath"
)

// EncodeDepthPayload builds the raw bytes of a depth payload with a valid header. It is the
// inverse of ParsePlaneDepthMap and exists to produce synthetic payloads.
func EncodeDepthPayload(width, height int, indices []uint8, planes []spatialmath.Plane) []byte {
	buf := make([]byte, DepthMapHeaderSize, DepthMapHeaderSize+len(indices)+len(planes)*spatialmath.PlaneSize)
	buf[0] = DepthMapHeaderSize
	binary.LittleEndian.PutUint16(buf[1:], uint16(len(planes)))
	binary.LittleEndian.PutUint16(buf[3:], uint16(width))
	binary.LittleEndian.PutUint16(buf[5:], uint16(height))
	buf[7] = DepthMapHeaderSize
	buf = append(buf, indices...)
	for _, p := range planes {
		for _, v := range []float64{p.Normal.X, p.Normal.Y, p.Normal.Z, p.D} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		}
	}
	return buf
}

// EncodeTestDepthPayload is EncodeDepthPayload encoded as the service sends it: web-safe
// base64 with padding.
func EncodeTestDepthPayload(width, height int, indices []uint8, planes []spatialmath.Plane) string {
	return base64.URLEncoding.EncodeToString(EncodeDepthPayload(width, height, indices, planes))
}
