// seehuhn.de/go/rendertest - render, stream and compare raster images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the settings of the rendertest command from a YAML
// file.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable which overrides the location of
// the configuration file.
const EnvVar = "RENDERTEST_CONFIG"

// DefaultFile is used when neither a path nor EnvVar is given.
const DefaultFile = "rendertest.yaml"

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings.  Missing fields are filled in from
// [Default] when loading.
type Config struct {
	// OutputDir receives the rendered PNG files.
	OutputDir string `yaml:"output_dir"`

	// ReferenceDir holds the expected images.
	ReferenceDir string `yaml:"reference_dir"`

	// DebugDir receives side-by-side images for failed comparisons.
	DebugDir string `yaml:"debug_dir"`

	// Threshold is the colour matching threshold, from 0 to 1.  Zero
	// requires exact matches.  Defaults to 0.1.
	Threshold *float64 `yaml:"threshold,omitempty"`

	// IncludeAA counts anti-aliased pixels as differences.
	IncludeAA bool `yaml:"include_aa"`

	// MaxDiffPixels is the number of differing pixels a case may have
	// and still pass.
	MaxDiffPixels int `yaml:"max_diff_pixels"`

	// Workers is the number of cases rendered in parallel.
	// Zero selects the number of CPUs.
	Workers int `yaml:"workers"`

	// Atomic selects write-then-rename for output files.  Defaults to
	// true.
	Atomic *bool `yaml:"atomic,omitempty"`

	// Compression is one of "default", "none", "fast" or "best".
	Compression string `yaml:"compression"`

	// PanelScale enlarges the debug images.
	PanelScale int `yaml:"panel_scale"`

	// RateLimit caps the number of cases started per second.  Zero
	// means no limit.
	RateLimit float64 `yaml:"rate_limit"`

	// History is the path of the SQLite run history.  Empty disables
	// the history.
	History string `yaml:"history"`

	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	atomic := true
	threshold := 0.1
	return Config{
		OutputDir:    "out",
		ReferenceDir: "testdata/reference",
		DebugDir:     "debug",
		Threshold:    &threshold,
		Atomic:       &atomic,
		Compression:  "default",
		PanelScale:   4,
		LogLevel:     "warn",
	}
}

// Load reads the configuration file.  If path is empty, the file named
// by EnvVar is used, falling back to DefaultFile in the current
// directory.  A missing DefaultFile is not an error; the defaults are
// returned instead.
func Load(path string) (Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		path = DefaultFile
		explicit = false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML data and fills in defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg = hydrateDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func hydrateDefaults(cfg Config) Config {
	def := Default()
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.ReferenceDir == "" {
		cfg.ReferenceDir = def.ReferenceDir
	}
	if cfg.DebugDir == "" {
		cfg.DebugDir = def.DebugDir
	}
	if cfg.Threshold == nil {
		cfg.Threshold = def.Threshold
	}
	if cfg.Atomic == nil {
		cfg.Atomic = def.Atomic
	}
	if cfg.Compression == "" {
		cfg.Compression = def.Compression
	}
	if cfg.PanelScale == 0 {
		cfg.PanelScale = def.PanelScale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return cfg
}

// Validate checks that all fields are in range.
func (c Config) Validate() error {
	if t := c.MatchThreshold(); t < 0 || t > 1 {
		return fmt.Errorf("%w: threshold %g not in [0, 1]", ErrInvalid, t)
	}
	if c.MaxDiffPixels < 0 {
		return fmt.Errorf("%w: negative max_diff_pixels", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative workers", ErrInvalid)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: negative rate_limit", ErrInvalid)
	}
	if c.PanelScale < 0 {
		return fmt.Errorf("%w: negative panel_scale", ErrInvalid)
	}
	if _, ok := compressionLevels[c.Compression]; !ok {
		return fmt.Errorf("%w: unknown compression %q", ErrInvalid, c.Compression)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

var compressionLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"fast":    png.BestSpeed,
	"best":    png.BestCompression,
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// PNGCompression returns the zlib level selected by Compression.
func (c Config) PNGCompression() png.CompressionLevel {
	return compressionLevels[c.Compression]
}

// SlogLevel returns the logging level selected by LogLevel.
func (c Config) SlogLevel() slog.Level {
	level, ok := logLevels[strings.ToLower(c.LogLevel)]
	if !ok {
		return slog.LevelWarn
	}
	return level
}

// MatchThreshold returns the colour matching threshold.
func (c Config) MatchThreshold() float64 {
	if c.Threshold == nil {
		return 0.1
	}
	return *c.Threshold
}

// AtomicWrites reports whether output files are written atomically.
func (c Config) AtomicWrites() bool {
	return c.Atomic == nil || *c.Atomic
}
