package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/panodepth/logging"
)

// An Override adjusts a decoded config before it is validated, e.g. with
// command line flags.
type Override func(cfg *Config) error

// Read reads a config from the given file. Environment variables referenced as
// ${VAR} are expanded before decoding.
func Read(filePath string, logger logging.Logger, overrides ...Override) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf), logger, overrides...)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger, overrides ...Override) (*Config, error) {
	cfg := Config{
		ConfigFilePath: originalPath,
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	for _, override := range overrides {
		if err := override(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	logger.Debugw("read config", "path", originalPath, "zoom", cfg.Zoom, "point_cloud", cfg.Output.PointCloud)
	return &cfg, nil
}
