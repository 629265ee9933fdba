package rimage

import (
	"fmt"
)

// FormatError reports a depth map payload whose layout cannot be decoded. No partial output
// accompanies it.
type FormatError struct {
	Reason string
}

func newFormatError(format string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return "unexpected depth map format: " + e.Reason
}

// DimensionMismatchError reports a color image that is not pixel aligned with a depth map.
type DimensionMismatchError struct {
	DepthWidth, DepthHeight int
	ColorWidth, ColorHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("depth map and color dimensions don't match %d,%d -> %d,%d",
		e.DepthWidth, e.DepthHeight, e.ColorWidth, e.ColorHeight)
}

// decodeChunkError is never returned to callers; the chunk is replaced by filler bytes.
type decodeChunkError struct {
	offset int
	chunk  string
	err    error
}

func (e *decodeChunkError) Error() string {
	return fmt.Sprintf("cannot decode depth map chunk %q at offset %d: %v", e.chunk, e.offset, e.err)
}

func (e *decodeChunkError) Unwrap() error {
	return e.err
}
