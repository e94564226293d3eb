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

package config

import (
	"errors"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvVar, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Default(), cfg); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
	if !cfg.AtomicWrites() {
		t.Error("atomic writes disabled by default")
	}
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse([]byte(`
output_dir: build/png
threshold: 0.05
workers: 3
rate_limit: 20
atomic: false
compression: best
log_level: DEBUG
`))
	if err != nil {
		t.Fatal(err)
	}

	atomic := false
	threshold := 0.05
	want := Default()
	want.OutputDir = "build/png"
	want.Threshold = &threshold
	want.Workers = 3
	want.RateLimit = 20
	want.Atomic = &atomic
	want.Compression = "best"
	want.LogLevel = "DEBUG"
	if d := cmp.Diff(want, cfg); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}

	if cfg.AtomicWrites() {
		t.Error("atomic: false ignored")
	}
	if cfg.PNGCompression() != png.BestCompression {
		t.Errorf("compression %v", cfg.PNGCompression())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level %v", cfg.SlogLevel())
	}
}

func TestZeroThreshold(t *testing.T) {
	cfg, err := Parse([]byte("threshold: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.MatchThreshold(); got != 0 {
		t.Errorf("threshold %g, want 0", got)
	}

	cfg, err = Parse([]byte("workers: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.MatchThreshold(); got != 0.1 {
		t.Errorf("default threshold %g, want 0.1", got)
	}
}

func TestEnvOverride(t *testing.T) {
	name := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(name, []byte("debug_dir: tmp/debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, name)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DebugDir != "tmp/debug" {
		t.Errorf("debug dir %q", cfg.DebugDir)
	}
}

func TestExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want not-exist error", err)
	}
}

func TestInvalid(t *testing.T) {
	tests := []string{
		"threshold: 1.5",
		"threshold: -0.1",
		"workers: -1",
		"max_diff_pixels: -2",
		"panel_scale: -1",
		"rate_limit: -5",
		"compression: maximal",
		"log_level: chatty",
	}
	for _, src := range tests {
		_, err := Parse([]byte(src))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%q: got %v, want %v", src, err, ErrInvalid)
		}
	}

	if _, err := Parse([]byte("workers: [1, 2")); err == nil {
		t.Error("malformed YAML accepted")
	}
}
