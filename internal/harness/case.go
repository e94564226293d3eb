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

package harness

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"seehuhn.de/go/rendertest/pixeldiff"
	"seehuhn.de/go/rendertest/pngstream"
	"seehuhn.de/go/rendertest/testcases"
)

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	start := time.Now()
	stem := c.Stem()
	res := Result{
		Name:   stem,
		Output: filepath.Join(r.OutputDir, stem+".png"),
	}
	finish := func(st Status, err error) Result {
		res.Status = st
		res.Err = err
		res.Duration = time.Since(start)
		log := r.logger().With("case", stem, "status", st.String(), "duration", res.Duration)
		if err != nil {
			log.Warn("case finished", "err", err)
		} else {
			log.Debug("case finished", "bytes", res.Bytes, "mismatched", res.Mismatched)
		}
		return res
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return finish(StatusError, err)
		}
	}

	cv := testcases.Render(c.TestCase)
	cv.SetCompression(r.Compression)
	w := r.writer()
	n, err := w.WriteFile(ctx, cv, res.Output)
	res.Bytes = n
	if err != nil {
		return finish(StatusError, err)
	}

	refPath := filepath.Join(r.ReferenceDir, stem+".png")
	if r.Update {
		if _, err := w.WriteFile(ctx, cv, refPath); err != nil {
			return finish(StatusError, err)
		}
		return finish(StatusUpdated, nil)
	}

	// Compare what ended up on disk, so that the encoding is checked too.
	actual, err := loadPNG(res.Output)
	if err != nil {
		return finish(StatusError, err)
	}
	expected, err := loadPNG(refPath)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(StatusMissing, nil)
	} else if err != nil {
		return finish(StatusError, err)
	}

	diff, err := pixeldiff.Compare(actual, expected, r.Diff)
	if errors.Is(err, pixeldiff.ErrSizeMismatch) {
		res.Debug = r.writeDebug(ctx, stem, actual, nil, expected)
		return finish(StatusFail, err)
	} else if err != nil {
		return finish(StatusError, err)
	}

	res.Mismatched = diff.Mismatched
	res.AntiAliased = diff.AntiAliased
	if diff.Mismatched > r.MaxDiffPixels {
		res.Debug = r.writeDebug(ctx, stem, actual, diff.Diff, expected)
		return finish(StatusFail, nil)
	}
	return finish(StatusPass, nil)
}

// writeDebug stores a side-by-side image and returns its path, or the
// empty string if it could not be written.
func (r *Runner) writeDebug(ctx context.Context, stem string, actual image.Image, diff *image.RGBA, expected image.Image) string {
	if r.DebugDir == "" {
		return ""
	}
	if err := os.MkdirAll(r.DebugDir, 0o755); err != nil {
		r.logger().Warn("cannot create debug directory", "dir", r.DebugDir, "err", err)
		return ""
	}

	var d image.Image
	if diff != nil {
		d = diff
	}
	panel := pixeldiff.Panels(actual, d, expected, r.PanelScale)
	name := filepath.Join(r.DebugDir, stem+".png")
	if _, err := r.writer().WriteFile(ctx, pngstream.ImageSource{Image: panel}, name); err != nil {
		r.logger().Warn("cannot write debug image", "path", name, "err", err)
		return ""
	}
	return name
}
