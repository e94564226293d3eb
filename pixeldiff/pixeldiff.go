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

// Package pixeldiff compares two images pixel by pixel.
//
// The comparison is done by [github.com/orisano/pixelmatch]: colour
// differences are measured in the YIQ colour space, which weights changes
// in brightness more than changes in hue, and pixels which only differ
// because an edge was anti-aliased differently are detected and, by
// default, not counted.
package pixeldiff

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/orisano/pixelmatch"
	"golang.org/x/image/draw"
)

// ErrSizeMismatch is returned when the images to compare have different
// dimensions.
var ErrSizeMismatch = errors.New("pixeldiff: image sizes do not match")

// Options controls the comparison.
type Options struct {
	// Threshold is the matching threshold, from 0 to 1.  Smaller values
	// make the comparison more sensitive.
	Threshold float64

	// IncludeAA selects whether anti-aliased pixels are counted as
	// differences.
	IncludeAA bool

	// Alpha is the opacity of unchanged pixels in the diff image.
	Alpha float64

	// AAColor marks anti-aliased pixels in the diff image.
	AAColor color.RGBA

	// DiffColor marks differing pixels in the diff image.
	DiffColor color.RGBA

	// DiffColorAlt, if set, marks pixels which are brighter in the first
	// image than in the second.
	DiffColorAlt *color.RGBA

	// DiffMask draws only the differences, on a transparent background.
	DiffMask bool
}

// DefaultOptions returns the options used when Compare is called with
// nil options.
func DefaultOptions() *Options {
	return &Options{
		Threshold: 0.1,
		Alpha:     0.1,
		AAColor:   color.RGBA{R: 255, G: 255, A: 255},
		DiffColor: color.RGBA{R: 255, A: 255},
	}
}

// matchOptions translates o into options for pixelmatch.  The diff image
// is stored in out, if out is non-nil.
func (o *Options) matchOptions(out *image.Image) []pixelmatch.MatchOption {
	mo := []pixelmatch.MatchOption{
		pixelmatch.Threshold(o.Threshold),
		pixelmatch.Alpha(o.Alpha),
		pixelmatch.AntiAliasedColor(o.AAColor),
		pixelmatch.DiffColor(o.DiffColor),
	}
	if o.DiffColorAlt != nil {
		mo = append(mo, pixelmatch.DiffColorAlt(*o.DiffColorAlt))
	}
	if o.IncludeAA {
		mo = append(mo, pixelmatch.IncludeAntiAlias)
	}
	if o.DiffMask {
		mo = append(mo, pixelmatch.EnableDiffMask)
	}
	if out != nil {
		mo = append(mo, pixelmatch.WriteTo(out))
	}
	return mo
}

// Result summarises a comparison.
type Result struct {
	// Total is the number of pixels compared.
	Total int

	// Mismatched is the number of pixels which differ by more than the
	// threshold.
	Mismatched int

	// AntiAliased is the number of differing pixels which were classified
	// as anti-aliasing and not counted in Mismatched.
	AntiAliased int

	// Diff visualises the differences.  Unchanged pixels are shown as a
	// faded grey version of the first image.
	Diff *image.RGBA
}

// Fraction returns the share of mismatched pixels.
func (r *Result) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Mismatched) / float64(r.Total)
}

func (r *Result) String() string {
	return fmt.Sprintf("%d of %d pixels differ (%d anti-aliased)",
		r.Mismatched, r.Total, r.AntiAliased)
}

// Compare counts the pixels in which a and b differ.
// If opts is nil, [DefaultOptions] are used.
func Compare(a, b image.Image, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrSizeMismatch, ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	w, h := ab.Dx(), ab.Dy()
	res := &Result{Total: w * h}
	if w == 0 || h == 0 {
		res.Diff = image.NewRGBA(image.Rect(0, 0, w, h))
		return res, nil
	}

	img1 := toNRGBA(a)
	img2 := toNRGBA(b)

	var out image.Image
	n, err := pixelmatch.MatchPixel(img1, img2, opts.matchOptions(&out)...)
	if err != nil {
		return nil, fmt.Errorf("pixeldiff: %w", err)
	}
	res.Mismatched = n
	res.Diff = toRGBA(out, w, h)

	if !opts.IncludeAA {
		all := *opts
		all.IncludeAA = true
		withAA, err := pixelmatch.MatchPixel(img1, img2, all.matchOptions(nil)...)
		if err != nil {
			return nil, fmt.Errorf("pixeldiff: %w", err)
		}
		res.AntiAliased = withAA - n
	}
	return res, nil
}

// toNRGBA returns the pixels of img as non-premultiplied RGBA, with the
// origin moved to (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, img, b.Min, draw.Src)
	return n
}

// toRGBA converts the diff image to *image.RGBA with origin (0, 0).
// A nil image gives a transparent w×h image.
func toRGBA(img image.Image, w, h int) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if img != nil {
		b := img.Bounds()
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	return rgba
}
