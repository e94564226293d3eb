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

// Package raster turns vector paths into anti-aliased pixel coverage.
//
// Coverage is the fraction of a pixel's area inside the filled or stroked
// shape, from 0 (outside) to 1 (inside).  Results are handed to the caller
// one scanline at a time, so that the caller decides how coverage is
// composited onto a surface.
package raster

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline.  Pixel xMin+i of row y
// has coverage coverage[i].  The slice is only valid for the duration of
// the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule selects how the interior of a self-overlapping path is found.
type FillRule int

const (
	// NonZero paints every point with a non-zero winding number.
	NonZero FillRule = iota

	// EvenOdd paints points with an odd number of crossings.
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Rasteriser converts paths to coverage values.
// Internal buffers grow as needed but are never released, so a Rasteriser
// which is reused for many paths reaches a steady state without
// allocations.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip restricts output to this device-space rectangle.
	// Coordinates must be integers.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap is used at the ends of open subpaths and dashes.
	Cap graphics.LineCapStyle

	// Join is used where two segments of a subpath meet.
	Join graphics.LineJoinStyle

	// MiterLimit turns miter joins into bevels for sharp corners.
	// Must be at least 1.
	MiterLimit float64

	// Dash gives alternating on/off lengths in user space.  Nil means a
	// solid line.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which the
	// stroke starts.
	DashPhase float64

	// smallPathThreshold is the bounding box area, in pixels, below which
	// the 2D accumulation buffer is used instead of the active edge list.
	smallPathThreshold int

	cover     []float32
	area      []float32
	edges     []edge
	activeIdx []int
	rowHit    []bool
	crossings []float64

	edgesEmpty bool
	devBBox    rect.Rect

	// stroke outlines, all polygons stored back to back
	outline        []vec.Vec2
	outlineOffsets []int

	// flattened subpaths
	segs          []segment
	segsOffsets   []int
	subpathClosed []bool
	dots          []vec.Vec2 // subpaths without direction

	dashSegs    []segment
	dashOffsets []int
}

// NewRasteriser returns a Rasteriser for the given clip rectangle.
// All other parameters are set to the PDF defaults.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{smallPathThreshold: smallPathThreshold}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.Dash = nil
	r.DashPhase = 0
}

// Fill rasterises the interior of p according to rule.
func (r *Rasteriser) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.beginEdges()
	r.walk(p, r.addEdge, true)
	r.rasterise(rule, emit)
}

// FillNonZero is a shorthand for Fill(p, NonZero, emit).
func (r *Rasteriser) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd is a shorthand for Fill(p, EvenOdd, emit).
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// rasterise fills the collected edges, choosing the accumulation strategy
// by the size of the clipped bounding box.
func (r *Rasteriser) rasterise(rule FillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.clippedBBox()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.fillSmall(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.fillLarge(xMin, xMax, yMin, yMax, rule, emit)
	}
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript: joins sharper than
	// about 11.5 degrees become bevels.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which still contributes coverage.
	horizontalEdgeThreshold = 1e-10

	// TODO: tune smallPathThreshold based on profiling
	smallPathThreshold = 65536

	zeroLengthThreshold   = 1e-10
	collinearityThreshold = 1e-6

	// cuspCosineThreshold is cos(179.43°); sharper turns are treated as
	// the path doubling back on itself.
	cuspCosineThreshold = -0.9999
)
