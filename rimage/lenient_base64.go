package rimage

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

const (
	encodedChunkSize = 4
	// every byte of the three byte stand-in for a chunk that fails to decode.
	fillerByte = 1
)

// chunks may mix the standard and web-safe alphabets; both decode the same.
var toWebSafe = strings.NewReplacer("+", "-", "/", "_")

// LenientDecode decodes base64 four characters at a time. A chunk that is not valid on its own,
// including a short final chunk, decodes to three filler bytes of value 1 instead of failing the
// whole payload. It returns the decoded bytes and the number of substituted chunks.
func LenientDecode(raw string) ([]byte, int) {
	out := make([]byte, 0, (len(raw)+encodedChunkSize-1)/encodedChunkSize*3)
	substituted := 0
	for i := 0; i < len(raw); i += encodedChunkSize {
		end := i + encodedChunkSize
		if end > len(raw) {
			end = len(raw)
		}
		decoded, err := decodeChunk(raw[i:end], i)
		if err != nil {
			out = append(out, fillerByte, fillerByte, fillerByte)
			substituted++
			continue
		}
		out = append(out, decoded...)
	}
	return out, substituted
}

func decodeChunk(chunk string, offset int) ([]byte, error) {
	// the std decoder skips line breaks; they are not part of the alphabet here
	if strings.ContainsAny(chunk, "\r\n") {
		return nil, &decodeChunkError{offset: offset, chunk: chunk, err: errors.New("line break in chunk")}
	}
	buf := make([]byte, base64.URLEncoding.DecodedLen(len(chunk)))
	n, err := base64.URLEncoding.Decode(buf, []byte(toWebSafe.Replace(chunk)))
	if err != nil {
		return nil, &decodeChunkError{offset: offset, chunk: chunk, err: err}
	}
	return buf[:n], nil
}
