package rimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Tile is one square of a tiled panorama, addressed by column X and row Y.
type Tile struct {
	X, Y  int
	Image image.Image
}

// AssemblePanorama pastes tiles onto a single canvas. Every tile is assumed to be the size of
// the first one; the canvas is large enough for the largest column and row seen.
func AssemblePanorama(tiles []Tile) (*image.NRGBA, error) {
	if len(tiles) == 0 {
		return nil, errors.New("no tiles to assemble")
	}
	tileBounds := tiles[0].Image.Bounds()
	tileW, tileH := tileBounds.Dx(), tileBounds.Dy()
	if tileW == 0 || tileH == 0 {
		return nil, errors.Errorf("empty first tile %v", tileBounds)
	}

	cols, rows := 0, 0
	for _, tile := range tiles {
		if tile.X < 0 || tile.Y < 0 {
			return nil, errors.Errorf("negative tile position %d,%d", tile.X, tile.Y)
		}
		if tile.X+1 > cols {
			cols = tile.X + 1
		}
		if tile.Y+1 > rows {
			rows = tile.Y + 1
		}
	}

	canvas := imaging.New(cols*tileW, rows*tileH, color.Black)
	for _, tile := range tiles {
		canvas = imaging.Paste(canvas, tile.Image, image.Pt(tile.X*tileW, tile.Y*tileH))
	}
	return canvas, nil
}

// ResizeImage scales img to exactly width x height.
func ResizeImage(img image.Image, width, height int) image.Image {
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
}

// PreparePanorama turns an assembled panorama into the color image a depth map of
// width x height pixels lines up with: scaled to the same size and mirrored left to right.
func PreparePanorama(pano image.Image, width, height int) *image.NRGBA {
	return imaging.FlipH(ResizeImage(pano, width, height))
}
