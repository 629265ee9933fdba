package rimage

import (
	"encoding/base64"
	"testing"

	"go.viam.com/test"
)

func TestLenientDecode(t *testing.T) {
	raw := []byte{8, 1, 0, 2, 0, 1, 0, 8, 250, 251, 252}
	encoded := base64.URLEncoding.EncodeToString(raw)

	decoded, substituted := LenientDecode(encoded)
	test.That(t, substituted, test.ShouldEqual, 0)
	test.That(t, decoded, test.ShouldResemble, raw)

	t.Run("either alphabet", func(t *testing.T) {
		decoded, substituted := LenientDecode("-_-_")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{0xfb, 0xff, 0xbf})

		decoded, substituted = LenientDecode("+/+/")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{0xfb, 0xff, 0xbf})

		decoded, substituted = LenientDecode("ab+/")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{105, 191, 191})
	})

	t.Run("unused padding bits are ignored", func(t *testing.T) {
		decoded, substituted := LenientDecode("AB==")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{0})

		decoded, substituted = LenientDecode("AQID" + "AB==")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{1, 2, 3, 0})
	})

	t.Run("filler is fresh per decode", func(t *testing.T) {
		first, _ := LenientDecode("!!!!")
		first[0] = 9
		second, substituted := LenientDecode("!!!!")
		test.That(t, substituted, test.ShouldEqual, 1)
		test.That(t, second, test.ShouldResemble, []byte{1, 1, 1})
	})

	t.Run("bad chunk becomes filler", func(t *testing.T) {
		corrupted := encoded[:4] + "!!!!" + encoded[8:]
		decoded, substituted := LenientDecode(corrupted)
		test.That(t, substituted, test.ShouldEqual, 1)
		test.That(t, decoded, test.ShouldHaveLength, len(raw))
		test.That(t, decoded[:3], test.ShouldResemble, raw[:3])
		test.That(t, decoded[3:6], test.ShouldResemble, []byte{1, 1, 1})
		test.That(t, decoded[6:], test.ShouldResemble, raw[6:])
	})

	t.Run("short trailing chunk becomes filler", func(t *testing.T) {
		decoded, substituted := LenientDecode("AQID" + "AQ")
		test.That(t, substituted, test.ShouldEqual, 1)
		test.That(t, decoded, test.ShouldResemble, []byte{1, 2, 3, 1, 1, 1})
	})

	t.Run("line breaks are not skipped", func(t *testing.T) {
		decoded, substituted := LenientDecode("AQ\nIAQI")
		test.That(t, substituted, test.ShouldEqual, 2)
		test.That(t, decoded, test.ShouldResemble, []byte{1, 1, 1, 1, 1, 1})
	})

	t.Run("padding inside the stream", func(t *testing.T) {
		decoded, substituted := LenientDecode("AQ==AQID")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldResemble, []byte{1, 1, 2, 3})
	})

	t.Run("empty", func(t *testing.T) {
		decoded, substituted := LenientDecode("")
		test.That(t, substituted, test.ShouldEqual, 0)
		test.That(t, decoded, test.ShouldHaveLength, 0)
	})
}
