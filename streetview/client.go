// Package streetview fetches panorama imagery and depth payloads from the street-level
// imagery service.
package streetview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"go.viam.com/panodepth/logging"
)

// Service endpoints used when Options leaves them empty.
const (
	DefaultSearchURL   = "https://maps.googleapis.com/maps/api/js/GeoPhotoService.SingleImageSearch"
	DefaultMetadataURL = "https://www.google.com/maps/photometa/v1"
	DefaultTileURL     = "https://maps.google.com/cbk"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultInitialBackoff  = 500 * time.Millisecond
	defaultMaxBackoff      = 10 * time.Second
	defaultMaxResponseSize = 32 << 20
)

// ErrPanoramaNotFound is returned when the service has no panorama near a location.
var ErrPanoramaNotFound = errors.New("no panorama available near location")

// HTTPStatusError is returned for responses other than 200 OK.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s) from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Options configures a Client.
type Options struct {
	SearchURL   string
	MetadataURL string
	TileURL     string

	// HTTPClient is used when set; otherwise a client with Timeout is created.
	HTTPClient *http.Client
	Timeout    time.Duration

	// MaxRetries is the number of attempts made after the first failed one.
	MaxRetries     uint
	InitialBackoff time.Duration

	// RequestsPerSecond limits the request rate across all calls; zero means unlimited.
	RequestsPerSecond float64

	// MaxResponseSize caps a response body in bytes; larger bodies fail. Zero means 32MiB.
	MaxResponseSize int64
}

// Client talks to the imagery service. It is safe for concurrent use.
type Client struct {
	searchURL   string
	metadataURL string
	tileURL     string

	httpClient     *http.Client
	maxRetries     uint
	initialBackoff time.Duration
	limiter        *rate.Limiter
	maxBodySize    int64
	logger         logging.Logger
}

// NewClient returns a client with the given options.
func NewClient(opts Options, logger logging.Logger) *Client {
	c := &Client{
		searchURL:      opts.SearchURL,
		metadataURL:    opts.MetadataURL,
		tileURL:        opts.TileURL,
		httpClient:     opts.HTTPClient,
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		maxBodySize:    opts.MaxResponseSize,
		logger:         logger,
	}
	if c.maxBodySize <= 0 {
		c.maxBodySize = defaultMaxResponseSize
	}
	if c.searchURL == "" {
		c.searchURL = DefaultSearchURL
	}
	if c.metadataURL == "" {
		c.metadataURL = DefaultMetadataURL
	}
	if c.tileURL == "" {
		c.tileURL = DefaultTileURL
	}
	if c.initialBackoff == 0 {
		c.initialBackoff = defaultInitialBackoff
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// get fetches u, retrying transport errors, 429s and 5xx responses with exponential backoff.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxInterval = defaultMaxBackoff

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		c.logger.Debugw("GET", "url", u, "attempt", attempt)
		return c.getOnce(ctx, u)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warnw("request failed; retrying", "url", u, "error", err, "in", next)
		}),
	)
	// the last attempt's error comes back still marked permanent
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return body, err
}

func (c *Client) getOnce(ctx context.Context, u string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "build request"))
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", u)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", u)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, backoff.Permanent(errors.Errorf("response from %s exceeds %d bytes", u, c.maxBodySize))
	}
	return body, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
