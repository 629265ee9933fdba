package streetview

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	searchCallback = "_xdc_._v2mub5"
	// searchRadius is in meters.
	searchRadius = 50
)

func (c *Client) searchURLFor(lat, lon float64) string {
	return c.searchURL + "?pb=!1m5!1sapiv3!5sUS!11m2!1m1!1b0!2m4!1m2!3d" + formatCoordinate(lat) +
		"!4d" + formatCoordinate(lon) + "!2d" + formatCoordinate(searchRadius) +
		"!3m10!2m2!1sen!2sGB!9m1!1e2!11m4!1m3!1e2!2b1!3e2!4m10!1e1!1e2!1e3!1e4!1e8!1e6!5m1!1e2!6m1!1e2" +
		"&callback=" + searchCallback
}

// SearchPanorama returns the id of the panorama closest to a location, or ErrPanoramaNotFound.
func (c *Client) SearchPanorama(ctx context.Context, lat, lon float64) (string, error) {
	body, err := c.get(ctx, c.searchURLFor(lat, lon))
	if err != nil {
		return "", err
	}
	panoID, err := ParseSearchResponse(string(body))
	if err != nil {
		return "", err
	}
	c.logger.Debugw("found panorama", "lat", lat, "lon", lon, "pano_id", panoID)
	return panoID, nil
}

// ParseSearchResponse extracts the panorama id from a JSONP search response. A response
// array holding only a status entry means there is no panorama.
func ParseSearchResponse(body string) (string, error) {
	start := strings.IndexByte(body, '(')
	end := strings.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return "", errors.New("search response is not a JSONP callback")
	}
	payload := strings.TrimSpace(body[start+1 : end])
	if !gjson.Valid(payload) {
		return "", errors.New("search response holds invalid JSON")
	}
	result := gjson.Parse(payload)
	if !result.IsArray() {
		return "", errors.New("search response is not an array")
	}
	if len(result.Array()) == 1 {
		return "", ErrPanoramaNotFound
	}
	id := result.Get("1.1.1")
	if id.Type != gjson.String || id.String() == "" {
		return "", errors.New("search response has no panorama id")
	}
	return id.String(), nil
}
