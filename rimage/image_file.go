package rimage

import (
	"bufio"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // register webp
)

// ReadImageFromFile decodes a png, jpeg, bmp, webp, qoi or ppm file.
func ReadImageFromFile(fn string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode image %q", fn)
	}
	return img, nil
}

// WriteImageToFile writes img in the format named by the file's extension.
func WriteImageToFile(fn string, img image.Image) (err error) {
	encode, err := encoderFor(fn)
	if err != nil {
		return err
	}

	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if err := encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}

// EncodeImage writes img to w in the format named by ext, e.g. ".png".
func EncodeImage(w io.Writer, ext string, img image.Image) error {
	encode, err := encoderFor(ext)
	if err != nil {
		return err
	}
	return encode(w, img)
}

func encoderFor(fn string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".qoi":
		return qoi.Encode, nil
	case ".ppm":
		return func(w io.Writer, img image.Image) error {
			return ppm.Encode(w, toRGBA(img))
		}, nil
	default:
		return nil, errors.Errorf("rimage.WriteImageToFile unsupported format: %s", fn)
	}
}

// toRGBA returns img as *image.RGBA, the only layout the ppm encoder accepts.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
