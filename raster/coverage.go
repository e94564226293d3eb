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

package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yRange() (float64, float64) {
	return min(e.y0, e.y1), max(e.y0, e.y1)
}

// xAt returns the x coordinate of the edge at height y.
func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

func (r *Rasteriser) beginEdges() {
	r.edges = r.edges[:0]
	r.edgesEmpty = true
}

// walk feeds the line segments of p, in user space, to line.
// If closeAll is set, open subpaths are closed implicitly as required for
// filling.
func (r *Rasteriser) walk(p *path.Data, line func(a, b vec.Vec2), closeAll bool) {
	if p == nil {
		return
	}
	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if closeAll && cur != start {
				line(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			line(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuad(cur, p.Coords[k], p.Coords[k+1], line)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCube(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				line(cur, start)
			}
			cur = start
		}
	}
	if closeAll && cur != start {
		line(cur, start)
	}
}

// addEdge transforms a user-space segment to device space and appends it
// to the edge list.  Horizontal edges carry no coverage and are dropped.
func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	p := r.toDevice(a)
	q := r.toDevice(b)

	dy := q.Y - p.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: p.X, y0: p.Y,
		x1: q.X, y1: q.Y,
		dxdy: (q.X - p.X) / dy,
	})

	xLo, xHi := min(p.X, q.X), max(p.X, q.X)
	yLo, yHi := min(p.Y, q.Y), max(p.Y, q.Y)
	if r.edgesEmpty {
		r.devBBox.LLx, r.devBBox.URx = xLo, xHi
		r.devBBox.LLy, r.devBBox.URy = yLo, yHi
		r.edgesEmpty = false
		return
	}
	r.devBBox.LLx = min(r.devBBox.LLx, xLo)
	r.devBBox.URx = max(r.devBBox.URx, xHi)
	r.devBBox.LLy = min(r.devBBox.LLy, yLo)
	r.devBBox.URy = max(r.devBBox.URy, yHi)
}

// clippedBBox returns the pixel range touched by the collected edges,
// intersected with the clip rectangle.  The upper bounds are exclusive.
func (r *Rasteriser) clippedBBox() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	cx0, cx1 := int(r.Clip.LLx), int(r.Clip.URx)
	cy0, cy1 := int(r.Clip.LLy), int(r.Clip.URy)
	xMin = floorIn(r.devBBox.LLx, cx0, cx1)
	xMax = floorIn(r.devBBox.URx, cx0-1, cx1-1) + 1
	yMin = floorIn(r.devBBox.LLy, cy0, cy1)
	yMax = floorIn(r.devBBox.URy, cy0-1, cy1-1) + 1
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// floorIn returns floor(v), limited to the range [lo, hi].  The limits
// are applied before converting to int, since the conversion of values
// outside the int range is implementation-defined.  NaN gives lo.
func floorIn(v float64, lo, hi int) int {
	v = math.Floor(v)
	if !(v >= float64(lo)) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

// Coverage is accumulated in two buffers per scanline:
//
//	cover[i]: signed vertical extent of the edges crossing pixel column i
//	area[i]:  the same, weighted by how far left in the pixel the crossing is
//
// Summing cover from the left and adding area[i] gives the signed area of
// the shape inside pixel i.  Clamping (nonzero) or folding (even-odd) the
// result gives the coverage.

// accumulate adds the part of e inside scanline y to cover and area.
// Buffer index 0 corresponds to pixel column x0; contributions left of x0
// are folded into index 0, those at or right of x1 are dropped.
func (r *Rasteriser) accumulate(e *edge, y int, cover, area []float32, x0, x1 int) {
	lo, hi := e.yRange()
	yTop := max(float64(y), lo)
	yBot := min(float64(y+1), hi)
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(yTop), e.xAt(yBot)
	if xa > xb {
		xa, xb = xb, xa
	}
	pa := floorIn(xa, x0-1, x1)
	pb := floorIn(xb, x0-1, x1)

	switch {
	case pb < x0:
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return
	case pa >= x1:
		return
	case pa == pb:
		r.deposit(e, yTop, yBot, sign, pa, cover, area, x0, x1)
		return
	}

	// The edge crosses several pixel columns: split it where it crosses
	// vertical pixel boundaries.
	r.crossings = append(r.crossings[:0], yTop, yBot)
	dydx := 1 / e.dxdy
	for x := pa + 1; x <= pb; x++ {
		yx := e.y0 + dydx*(float64(x)-e.x0)
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)

	for i := range len(r.crossings) - 1 {
		ya, yb := r.crossings[i], r.crossings[i+1]
		if yb <= ya {
			continue
		}
		xm := e.xAt((ya + yb) / 2)
		r.deposit(e, ya, yb, sign, floorIn(xm, x0-1, x1), cover, area, x0, x1)
	}
}

// deposit adds the piece of e between yTop and yBot, which lies inside
// pixel column pix, to the buffers.
func (r *Rasteriser) deposit(e *edge, yTop, yBot float64, sign float32, pix int, cover, area []float32, x0, x1 int) {
	c := sign * float32(yBot-yTop)
	if pix < x0 {
		cover[0] += c
		area[0] += c
		return
	}
	if pix >= x1 {
		return
	}
	frac := e.xAt((yTop+yBot)/2) - float64(pix)
	i := pix - x0
	cover[i] += c
	area[i] += c * float32(1-frac)
}

// integrate turns accumulated cover/area values into coverage, in place.
func integrate(cover, area []float32, rule FillRule) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		if rule == EvenOdd {
			m := raw - 2*float32(int(raw/2))
			if m > 1 {
				m = 2 - m
			}
			cover[i] = m
		} else {
			cover[i] = min(raw, 1)
		}
	}
}

// trimZeros returns the part of coverage between the first and last
// non-zero values, and the offset of that part.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return coverage[lo:hi], lo
}

// hits reports whether e has a part of positive height inside scanline y.
func (e *edge) hits(y int) bool {
	lo, hi := e.yRange()
	return min(float64(y+1), hi) > max(float64(y), lo)
}

// fillSmall accumulates all scanlines at once in 2D buffers.
func (r *Rasteriser) fillSmall(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	h := yMax - yMin

	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	clear(r.cover)
	clear(r.area)

	r.rowHit = slices.Grow(r.rowHit[:0], h)[:h]
	clear(r.rowHit)

	for i := range r.edges {
		e := &r.edges[i]
		lo, hi := e.yRange()
		yFirst := floorIn(lo, yMin, yMax)
		yLast := floorIn(hi, yMin-1, yMax-1) + 1
		for y := yFirst; y < yLast; y++ {
			row := y - yMin
			off := row * w
			r.accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			if e.hits(y) {
				r.rowHit[row] = true
			}
		}
	}

	for row := range h {
		if !r.rowHit[row] {
			continue
		}
		off := row * w
		coverage := r.cover[off : off+w]
		integrate(coverage, r.area[off:off+w], rule)
		if trimmed, start := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+start, trimmed)
		}
	}
}

// fillLarge processes one scanline at a time using an active edge list.
func (r *Rasteriser) fillLarge(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)

		for next < len(r.edges) {
			if lo, _ := r.edges[next].yRange(); lo >= yf+1 {
				break
			}
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if _, hi := e.yRange(); hi <= yf {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			r.accumulate(e, y, r.cover, r.area, xMin, xMax)
			if e.hits(y) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		integrate(r.cover, r.area, rule)
		if trimmed, start := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+start, trimmed)
		}
	}
}
