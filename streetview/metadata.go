package streetview

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// metadataGuardSize is the length of the anti-JSON-hijacking prefix on metadata responses.
const metadataGuardSize = 4

// depthMapPath locates the base64url depth payload in the metadata document.
const depthMapPath = "1.0.5.0.5.1.2"

// ErrDepthMapNotFound is returned when a panorama's metadata carries no depth payload.
var ErrDepthMapNotFound = errors.New("panorama metadata has no depth map")

func (c *Client) metadataURLFor(panoID string) string {
	return c.metadataURL + "?authuser=0&output=xml&hl=en&gl=uk" +
		"&pb=!1m4!1smaps_sv.tactile!11m2!2m1!1b1!2m2!1sen!2suk!3m3!1m2!1e2!2s" + url.QueryEscape(panoID) +
		"!4m57!1e1!1e2!1e3!1e4!1e5!1e6!1e8!1e12!2m1!1e1!4m1!1i48!5m1!1e1!5m1!1e2!6m1!1e1!6m1!1e2" +
		"!9m36!1m3!1e2!2b1!3e2!1m3!1e2!2b0!3e3!1m3!1e3!2b1!3e2!1m3!1e3!2b0!3e3!1m3!1e8!2b0!3e3" +
		"!1m3!1e1!2b0!3e3!1m3!1e4!2b0!3e3!1m3!1e10!2b1!3e2!1m3!1e10!2b0!3e3"
}

// FetchDepthMap returns the raw depth payload of a panorama, ready for rimage.DecodeDepthStream.
func (c *Client) FetchDepthMap(ctx context.Context, panoID string) (string, error) {
	body, err := c.get(ctx, c.metadataURLFor(panoID))
	if err != nil {
		return "", err
	}
	payload, err := ParseMetadataResponse(body)
	if err != nil {
		return "", errors.Wrapf(err, "panorama %s", panoID)
	}
	c.logger.Debugw("fetched depth map", "pano_id", panoID, "length", len(payload))
	return payload, nil
}

// ParseMetadataResponse extracts the depth payload from a metadata response body.
func ParseMetadataResponse(body []byte) (string, error) {
	if len(body) < metadataGuardSize {
		return "", errors.Errorf("metadata response too short (%d bytes)", len(body))
	}
	doc := body[metadataGuardSize:]
	if !gjson.ValidBytes(doc) {
		return "", errors.New("metadata response holds invalid JSON")
	}
	depth := gjson.GetBytes(doc, depthMapPath)
	if depth.Type != gjson.String || depth.String() == "" {
		return "", ErrDepthMapNotFound
	}
	return depth.String(), nil
}
