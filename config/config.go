// Package config defines the structures to configure a panorama depth run.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/panodepth/logging"
	"go.viam.com/panodepth/pointcloud"
	"go.viam.com/panodepth/streetview"
)

// Defaults applied by Ensure.
const (
	DefaultZoom           = 1
	DefaultPointCloudPath = "point_cloud.pcd"
	DefaultTimeout        = 30 * time.Second
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxRetries     = 3
)

// A Config describes where a panorama comes from and where its results go.
type Config struct {
	ConfigFilePath string `json:"-"`

	Location *Location      `json:"location,omitempty"`
	PanoID   string         `json:"pano_id,omitempty"`
	Zoom     int            `json:"zoom,omitempty"`
	Offline  *OfflineConfig `json:"offline,omitempty"`
	Service  ServiceConfig  `json:"service"`
	Output   OutputConfig   `json:"output"`

	LogConfig []logging.LoggerPatternConfig `json:"log,omitempty"`
	// LogFile additionally writes JSON logs to a size-rotated file.
	LogFile string `json:"log_file,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// Ensure fills in defaults and validates the config. A config must name a
// source: a location, a panorama id, or offline inputs.
func (c *Config) Ensure() error {
	if c.Location == nil && c.PanoID == "" && c.Offline == nil {
		return utils.NewConfigValidationFieldRequiredError("", "location")
	}
	if c.Location != nil {
		if err := c.Location.Validate("location"); err != nil {
			return err
		}
	}
	if c.Offline != nil {
		if err := c.Offline.Validate("offline"); err != nil {
			return err
		}
	}

	if c.Zoom == 0 {
		c.Zoom = DefaultZoom
	}
	if c.Zoom < 1 || c.Zoom > streetview.MaxZoom {
		return utils.NewConfigValidationError("zoom",
			errors.Errorf("must be between 1 and %d, got %d", streetview.MaxZoom, c.Zoom))
	}

	if err := c.Service.Validate("service"); err != nil {
		return err
	}
	if err := c.Output.Validate("output"); err != nil {
		return err
	}

	for idx, pattern := range c.LogConfig {
		if !logging.ValidatePattern(pattern.Pattern) {
			return utils.NewConfigValidationError(fmt.Sprintf("log.%d", idx),
				errors.Errorf("invalid logger pattern %q", pattern.Pattern))
		}
		if _, err := logging.LevelFromString(pattern.Level); err != nil {
			return utils.NewConfigValidationError(fmt.Sprintf("log.%d", idx), err)
		}
	}
	return nil
}

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate ensures all parts of the location are valid.
func (l *Location) Validate(path string) error {
	if l.Lat < -90 || l.Lat > 90 {
		return utils.NewConfigValidationError(path, errors.Errorf("lat %v out of range [-90, 90]", l.Lat))
	}
	if l.Lon < -180 || l.Lon > 180 {
		return utils.NewConfigValidationError(path, errors.Errorf("lon %v out of range [-180, 180]", l.Lon))
	}
	return nil
}

// OfflineConfig points at a saved depth payload and panorama image so no
// network access is needed.
type OfflineConfig struct {
	PayloadFile  string `json:"payload_file"`
	PanoramaFile string `json:"panorama_file"`
}

// Validate ensures all parts of the config are valid.
func (o *OfflineConfig) Validate(path string) error {
	if o.PayloadFile == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "payload_file")
	}
	if o.PanoramaFile == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "panorama_file")
	}
	return nil
}

// ServiceConfig overrides the imagery service endpoints and retry policy.
type ServiceConfig struct {
	SearchURL      string `json:"search_url,omitempty"`
	MetadataURL    string `json:"metadata_url,omitempty"`
	TileURL        string `json:"tile_url,omitempty"`
	Timeout        string `json:"timeout,omitempty"`
	InitialBackoff string `json:"initial_backoff,omitempty"`
	MaxRetries     *int   `json:"max_retries,omitempty"`
	// RequestsPerSecond caps the request rate; zero means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`

	timeout        time.Duration
	initialBackoff time.Duration
}

// Validate ensures all parts of the config are valid and parses durations.
func (s *ServiceConfig) Validate(path string) error {
	var err error
	s.timeout = DefaultTimeout
	if s.Timeout != "" {
		if s.timeout, err = time.ParseDuration(s.Timeout); err != nil {
			return utils.NewConfigValidationError(path+".timeout", err)
		}
		if s.timeout <= 0 {
			return utils.NewConfigValidationError(path+".timeout", errors.New("must be positive"))
		}
	}
	s.initialBackoff = DefaultInitialBackoff
	if s.InitialBackoff != "" {
		if s.initialBackoff, err = time.ParseDuration(s.InitialBackoff); err != nil {
			return utils.NewConfigValidationError(path+".initial_backoff", err)
		}
	}
	if s.RequestsPerSecond < 0 {
		return utils.NewConfigValidationError(path+".requests_per_second", errors.New("cannot be negative"))
	}
	if s.MaxRetries == nil {
		retries := DefaultMaxRetries
		s.MaxRetries = &retries
	} else if *s.MaxRetries < 0 {
		return utils.NewConfigValidationError(path+".max_retries", errors.New("cannot be negative"))
	}
	return nil
}

// ClientOptions converts the validated config into streetview client options.
func (s *ServiceConfig) ClientOptions() streetview.Options {
	opts := streetview.Options{
		SearchURL:         s.SearchURL,
		MetadataURL:       s.MetadataURL,
		TileURL:           s.TileURL,
		Timeout:           s.timeout,
		InitialBackoff:    s.initialBackoff,
		RequestsPerSecond: s.RequestsPerSecond,
	}
	if s.MaxRetries != nil {
		opts.MaxRetries = uint(*s.MaxRetries)
	}
	return opts
}

// OutputConfig names the files a run writes. Empty paths are skipped, except
// the point cloud which defaults to DefaultPointCloudPath.
type OutputConfig struct {
	PointCloud string `json:"point_cloud,omitempty"`
	// PCDFormat is one of "ascii" or "binary" and only applies to .pcd output.
	PCDFormat  string `json:"pcd_format,omitempty"`
	DepthImage string `json:"depth_image,omitempty"`
	Pretty     bool   `json:"pretty,omitempty"`
	Panorama   string `json:"panorama,omitempty"`
	// Payload saves the raw depth payload so the run can be repeated offline.
	Payload string `json:"payload,omitempty"`
}

var pointCloudExtensions = []string{".pcd", ".las", ".xyz"}

// Validate ensures all parts of the config are valid.
func (o *OutputConfig) Validate(path string) error {
	if o.PointCloud == "" {
		o.PointCloud = DefaultPointCloudPath
	}
	ext := filepath.Ext(o.PointCloud)
	if !lo.Contains(pointCloudExtensions, ext) {
		return utils.NewConfigValidationError(path+".point_cloud",
			errors.Errorf("unsupported extension %q, expected one of %v", ext, pointCloudExtensions))
	}
	if _, err := o.PCDType(); err != nil {
		return utils.NewConfigValidationError(path+".pcd_format", err)
	}
	return nil
}

// PCDType returns the configured PCD encoding, binary when unset.
func (o *OutputConfig) PCDType() (pointcloud.PCDType, error) {
	switch strings.ToLower(o.PCDFormat) {
	case "", "binary":
		return pointcloud.PCDBinary, nil
	case "ascii":
		return pointcloud.PCDAscii, nil
	default:
		return 0, errors.Errorf("unknown pcd format %q", o.PCDFormat)
	}
}
