package streetview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // tiles are served as jpeg
	_ "image/png"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/panodepth/rimage"
)

// MaxZoom is the deepest tile pyramid level requested.
const MaxZoom = 5

// maxConcurrentTiles bounds in-flight tile requests.
const maxConcurrentTiles = 8

// TileGrid returns the number of tile columns and rows at a zoom level.
func TileGrid(zoom int) (cols, rows int) {
	return 1 << zoom, 1 << (zoom - 1)
}

func (c *Client) tileURLFor(panoID string, zoom, x, y int) string {
	return fmt.Sprintf("%s?output=tile&panoid=%s&zoom=%d&x=%d&y=%d", c.tileURL, url.QueryEscape(panoID), zoom, x, y)
}

// FetchTiles downloads every tile of a panorama at the given zoom level, in row-major order.
func (c *Client) FetchTiles(ctx context.Context, panoID string, zoom int) ([]rimage.Tile, error) {
	if zoom < 1 || zoom > MaxZoom {
		return nil, errors.Errorf("zoom %d out of range [1, %d]", zoom, MaxZoom)
	}
	cols, rows := TileGrid(zoom)
	tiles := make([]rimage.Tile, cols*rows)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentTiles)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			x, y := x, y
			group.Go(func() error {
				body, err := c.get(groupCtx, c.tileURLFor(panoID, zoom, x, y))
				if err != nil {
					return errors.Wrapf(err, "tile %d,%d", x, y)
				}
				img, _, err := image.Decode(bytes.NewReader(body))
				if err != nil {
					return errors.Wrapf(err, "decode tile %d,%d", x, y)
				}
				tiles[y*cols+x] = rimage.Tile{X: x, Y: y, Image: img}
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debugw("fetched tiles", "pano_id", panoID, "zoom", zoom, "count", len(tiles))
	return tiles, nil
}

// FetchPanorama downloads and assembles the full panorama image at a zoom level.
func (c *Client) FetchPanorama(ctx context.Context, panoID string, zoom int) (*image.NRGBA, error) {
	tiles, err := c.FetchTiles(ctx, panoID, zoom)
	if err != nil {
		return nil, err
	}
	return rimage.AssemblePanorama(tiles)
}
