package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/webkit/errors"
)

// Loader reads configuration files. JSON and YAML are supported, chosen by
// file extension.
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads, decodes and validates the configuration at path.
// Values absent from the file keep their defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.WrapInvalid(errors.ErrNilArgument, "Loader", "LoadFile", "path validation")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "LoadFile", "config file read")
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "LoadFile", "JSON decode")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "LoadFile", "YAML decode")
		}
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: unsupported config format %q", errors.ErrInvalidConfig, filepath.Ext(path)),
			"Loader", "LoadFile", "format detection")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Loader", "LoadFile", "config validation")
	}

	return cfg, nil
}
