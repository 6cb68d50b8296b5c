package config

import (
	"compress/gzip"
	"fmt"
	"sync"
	"time"

	"github.com/c360/webkit/errors"
)

// Port range constants
const (
	MinPort = 1
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Metrics  MetricsConfig  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Pipeline PipelineConfig `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	Auth     AuthConfig     `json:"auth,omitempty" yaml:"auth,omitempty"`
	NATS     NATSConfig     `json:"nats,omitempty" yaml:"nats,omitempty"`
}

// ServerConfig defines the application HTTP server settings
type ServerConfig struct {
	Host            string   `json:"host,omitempty" yaml:"host,omitempty"`
	Port            int      `json:"port" yaml:"port"`
	ReadTimeout     Duration `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	WriteTimeout    Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	ShutdownTimeout Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig defines the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PipelineConfig defines HTTP pipeline settings
type PipelineConfig struct {
	GzipEnabled bool `json:"gzip_enabled" yaml:"gzip_enabled"`
	GzipLevel   int  `json:"gzip_level,omitempty" yaml:"gzip_level,omitempty"`
}

// AuthConfig defines the token used by the dispatch authorizer
type AuthConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Header  string `json:"header,omitempty" yaml:"header,omitempty"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
}

// NATSConfig defines the optional event-mirror connection
type NATSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	URLs    []string `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// Default returns a configuration with development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Pipeline: PipelineConfig{
			GzipEnabled: true,
			GzipLevel:   gzip.DefaultCompression,
		},
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c == nil {
		return errors.WrapInvalid(errors.ErrNilArgument, "Config", "Validate", "config validation")
	}

	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return errors.WrapInvalid(
			fmt.Errorf("%w: server port %d outside range %d-%d",
				errors.ErrInvalidConfig, c.Server.Port, MinPort, MaxPort),
			"Config", "Validate", "server port validation")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < MinPort || c.Metrics.Port > MaxPort {
			return errors.WrapInvalid(
				fmt.Errorf("%w: metrics port %d outside range %d-%d",
					errors.ErrInvalidConfig, c.Metrics.Port, MinPort, MaxPort),
				"Config", "Validate", "metrics port validation")
		}
		if c.Metrics.Port == c.Server.Port {
			return errors.WrapInvalid(
				fmt.Errorf("%w: metrics and server ports collide on %d",
					errors.ErrInvalidConfig, c.Server.Port),
				"Config", "Validate", "port collision check")
		}
	}

	if c.Pipeline.GzipEnabled {
		if c.Pipeline.GzipLevel < gzip.HuffmanOnly || c.Pipeline.GzipLevel > gzip.BestCompression {
			return errors.WrapInvalid(
				fmt.Errorf("%w: gzip level %d", errors.ErrInvalidConfig, c.Pipeline.GzipLevel),
				"Config", "Validate", "gzip level validation")
		}
	}

	if c.Auth.Enabled && c.Auth.Token == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: auth enabled without a token", errors.ErrMissingConfig),
			"Config", "Validate", "auth token validation")
	}

	if c.NATS.Enabled && len(c.NATS.URLs) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: NATS mirror enabled without urls", errors.ErrMissingConfig),
			"Config", "Validate", "nats url validation")
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	clone := *c
	if c.NATS.URLs != nil {
		clone.NATS.URLs = make([]string, len(c.NATS.URLs))
		copy(clone.NATS.URLs, c.NATS.URLs)
	}
	return &clone
}

// SafeConfig provides thread-safe access to configuration
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = Default()
	}
	return &SafeConfig{config: cfg}
}

// Get returns a deep copy of the current configuration
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.Clone()
}

// Update atomically replaces the configuration after validation
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return errors.WrapInvalid(errors.ErrNilArgument, "SafeConfig", "Update", "config validation")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "SafeConfig", "Update", "config validation")
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg
	return nil
}
