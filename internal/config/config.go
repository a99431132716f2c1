// Package config loads the YAML configuration of the fourierfilter binary.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/dsp/window"
	"github.com/cwbudde/algo-spectral2d/internal/logger"
)

// Slider bounds and default for the filter radius.
const (
	MinRadius     = 1
	MaxRadius     = 100
	DefaultRadius = 30
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config represents the application configuration.
type Config struct {
	Filter  FilterConfig  `yaml:"filter"`
	Image   ImageConfig   `yaml:"image"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// FilterConfig holds the spectral filter settings.
type FilterConfig struct {
	Radius int `yaml:"radius"`
	// Clip disables the [0,1] clamp of the reconstructed images when false.
	Clip *bool `yaml:"clip,omitempty"`
	// DisplayWindow names the apodization window for the spectrum panel
	// ("none", "hann", "hamming", "blackman", "tukey", "kaiser").
	DisplayWindow string `yaml:"display_window"`
}

// ImageConfig selects and prepares the input image.
type ImageConfig struct {
	// Input is a path to an image file. Empty means the built-in reference chart.
	Input string `yaml:"input"`
	// MaxSize limits the longer image side; larger inputs are downscaled.
	MaxSize int `yaml:"max_size"`
	// ReferenceSize is the edge length of the built-in reference chart.
	ReferenceSize int `yaml:"reference_size"`
}

// OutputConfig controls where panels are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// ServerConfig configures the live explorer.
type ServerConfig struct {
	Listen         string `yaml:"listen"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	// AllowedOrigins lists websocket origins besides the serving host.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads a YAML file, applies defaults for missing values and
// validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}
	c.setDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	// A zero radius is indistinguishable from "not set" in YAML.
	if c.Filter.Radius == 0 {
		c.Filter.Radius = DefaultRadius
	}
	if c.Image.ReferenceSize == 0 {
		c.Image.ReferenceSize = 256
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 16 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// ClipEnabled reports whether reconstructed images are clamped to [0,1].
func (c *Config) ClipEnabled() bool {
	return c.Filter.Clip == nil || *c.Filter.Clip
}

// FilterOptions translates the filter section into spectral options.
// It assumes a validated config.
func (c *Config) FilterOptions() []spectral.Option {
	var opts []spectral.Option
	if !c.ClipEnabled() {
		opts = append(opts, spectral.WithoutClipping())
	}
	if t, err := window.ParseType(c.Filter.DisplayWindow); err == nil && t != window.TypeRectangular {
		opts = append(opts, spectral.WithDisplayWindow(t))
	}
	return opts
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Filter.Radius < MinRadius || c.Filter.Radius > MaxRadius {
		return fmt.Errorf("%w: filter.radius must be in [%d,%d], got %d", ErrInvalid, MinRadius, MaxRadius, c.Filter.Radius)
	}
	if _, err := window.ParseType(c.Filter.DisplayWindow); err != nil {
		return fmt.Errorf("%w: filter.display_window: %w", ErrInvalid, err)
	}
	if c.Image.MaxSize < 0 {
		return fmt.Errorf("%w: image.max_size must not be negative", ErrInvalid)
	}
	if c.Image.ReferenceSize < 1 {
		return fmt.Errorf("%w: image.reference_size must be at least 1", ErrInvalid)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("%w: server.max_upload_bytes must be at least 1", ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}
	return nil
}
