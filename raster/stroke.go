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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a piece of a flattened path, in user space.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
	N    vec.Vec2 // unit normal, T rotated by 90° counter-clockwise
}

// offset returns P moved by d along the normal of s, towards the positive
// or negative side.
func (s *segment) offset(P vec.Vec2, d float64, positive bool) vec.Vec2 {
	if positive {
		return P.Add(s.N.Mul(d))
	}
	return P.Sub(s.N.Mul(d))
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

// Stroke rasterises the outline of p, using Width, Cap, Join, MiterLimit,
// Dash and DashPhase.
func (r *Rasteriser) Stroke(p *path.Data, emit EmitFunc) {
	r.flatten(p)
	if len(r.segsOffsets) == 0 && len(r.dots) == 0 {
		return
	}

	r.outline = r.outline[:0]
	r.outlineOffsets = r.outlineOffsets[:0]

	// Subpaths without direction only show up with round caps.
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.dots {
			start := len(r.outline)
			r.addArc(pt, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
			r.outlineOffsets = append(r.outlineOffsets, start)
		}
	}

	if len(r.Dash) > 0 {
		r.dash()
		for i := range r.dashOffsets {
			segs := part(r.dashSegs, r.dashOffsets, i)
			if len(segs) == 1 && segs[0].A == segs[0].B {
				r.strokeDot(&segs[0])
				continue
			}
			r.strokePolygon(segs, false)
		}
	} else {
		for i := range r.segsOffsets {
			r.strokePolygon(part(r.segs, r.segsOffsets, i), r.subpathClosed[i])
		}
	}

	// All outlines are filled together, so that overlapping parts are
	// painted only once.
	r.beginEdges()
	for i, start := range r.outlineOffsets {
		end := len(r.outline)
		if i+1 < len(r.outlineOffsets) {
			end = r.outlineOffsets[i+1]
		}
		poly := r.outline[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.rasterise(NonZero, emit)
}

// part returns the i-th run of segs, as delimited by offsets.
func part(segs []segment, offsets []int, i int) []segment {
	end := len(segs)
	if i+1 < len(offsets) {
		end = offsets[i+1]
	}
	return segs[offsets[i]:end]
}

// strokePolygon appends the outline of one subpath and records it, unless
// the result is degenerate.
func (r *Rasteriser) strokePolygon(segs []segment, closed bool) {
	start := len(r.outline)
	r.strokeSubpath(segs, closed)
	if len(r.outline)-start < 3 {
		r.outline = r.outline[:start]
		return
	}
	r.outlineOffsets = append(r.outlineOffsets, start)
}

// strokeDot handles a zero-length dash.  It still has a direction,
// inherited from the underlying path, which orients square caps.
func (r *Rasteriser) strokeDot(s *segment) {
	start := len(r.outline)
	switch r.Cap {
	case graphics.LineCapRound:
		r.addArc(s.A, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
	case graphics.LineCapSquare:
		d := r.Width / 2
		t, n := s.T.Mul(d), s.N.Mul(d)
		r.outline = append(r.outline,
			s.A.Add(t).Add(n),
			s.A.Add(t).Sub(n),
			s.A.Sub(t).Sub(n),
			s.A.Sub(t).Add(n),
		)
	default:
		return
	}
	r.outlineOffsets = append(r.outlineOffsets, start)
}

// flatten splits p into subpaths of straight segments.  Subpaths which
// consist of a single point are collected in r.dots.
func (r *Rasteriser) flatten(p *path.Data) {
	r.segs = r.segs[:0]
	r.segsOffsets = r.segsOffsets[:0]
	r.subpathClosed = r.subpathClosed[:0]
	r.dots = r.dots[:0]
	if p == nil {
		return
	}

	var cur, start vec.Vec2
	first := 0     // index of the first segment of the current subpath
	open := false  // inside a subpath
	drawn := false // current subpath has a drawing operator

	finish := func(closed bool) {
		switch {
		case len(r.segs) > first:
			r.segsOffsets = append(r.segsOffsets, first)
			r.subpathClosed = append(r.subpathClosed, closed)
		case drawn || closed:
			r.dots = append(r.dots, start)
		}
		first = len(r.segs)
		open = false
		drawn = false
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				finish(false)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			if open {
				drawn = true
				r.addSegment(cur, p.Coords[k])
				cur = p.Coords[k]
			}
			k++
		case path.CmdQuadTo:
			if open {
				drawn = true
				r.flattenQuad(cur, p.Coords[k], p.Coords[k+1], r.addSegment)
				cur = p.Coords[k+1]
			}
			k += 2
		case path.CmdCubeTo:
			if open {
				drawn = true
				r.flattenCube(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addSegment)
				cur = p.Coords[k+2]
			}
			k += 3
		case path.CmdClose:
			if open {
				if cur != start {
					r.addSegment(cur, start)
				}
				finish(true)
				cur = start
			}
		}
	}
	if open {
		finish(false)
	}
}

func (r *Rasteriser) addSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	l := d.Length()
	if l < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: normal(t)})
}

// strokeSubpath appends the outline of one subpath to r.outline, as a
// single polygon: first along the positive side of the path, then back
// along the negative side.  Joins are only added on the outer side of
// each corner.
func (r *Rasteriser) strokeSubpath(segs []segment, closed bool) {
	n := len(segs)
	if n == 0 {
		return
	}
	d := r.Width / 2
	first, last := &segs[0], &segs[n-1]

	// positive side, forwards
	if !closed {
		r.addCap(first.A, first.T.Mul(-1), d)
	}
	r.outline = append(r.outline, first.offset(first.A, d, true))
	corners := n - 1
	if closed {
		corners = n
	}
	for i := range corners {
		a, b := &segs[i], &segs[(i+1)%n]
		if !r.corner(a, b, d, true) {
			r.outline = append(r.outline, b.offset(a.B, d, true))
		}
	}
	if !closed {
		r.outline = append(r.outline, last.offset(last.B, d, true))
		r.addCap(last.B, last.T, d)
	}

	// negative side, backwards
	if closed {
		if !r.corner(last, first, d, false) {
			r.outline = append(r.outline, last.offset(last.B, d, false))
		}
	} else {
		r.outline = append(r.outline, last.offset(last.B, d, false))
	}
	for i := n - 1; i > 0; i-- {
		a, b := &segs[i-1], &segs[i]
		if !r.corner(a, b, d, false) {
			r.outline = append(r.outline, a.offset(b.A, d, false))
		}
	}
	r.outline = append(r.outline, first.offset(first.A, d, false))
}

// corner handles the corner where segment a is followed by segment b, on
// one side of the stroke.  When walking the positive side the outline
// arrives along a and leaves along b, on the negative side it is the other
// way round.  The caller appends the offset point of the leaving segment
// unless corner reports that it was replaced by the inner intersection.
func (r *Rasteriser) corner(a, b *segment, d float64, positive bool) bool {
	P, from := a.B, a
	if !positive {
		P, from = b.A, b
	}

	s := cross(a.T, b.T)
	switch {
	case math.Abs(s) < collinearityThreshold:
		r.outline = append(r.outline, from.offset(P, d, positive))
		return false
	case (s > 0) == positive:
		return r.addInner(P, a, b, d, positive)
	default:
		r.outline = append(r.outline, from.offset(P, d, positive))
		r.addJoin(P, a.T, b.T, d, positive)
		return false
	}
}

// addInner handles the inner side of a corner.  Where possible the two
// offset lines are cut at their intersection, which is appended and
// replaces both offset points.  Otherwise both offset points are appended
// and false is returned.
func (r *Rasteriser) addInner(P vec.Vec2, a, b *segment, d float64, positive bool) bool {
	cos := a.T.Dot(b.T)
	if cos <= 1-1e-9 {
		half := math.Sqrt((1 + cos) / 2) // cos(θ/2)
		dir := a.N.Add(b.N)
		if !positive {
			dir = dir.Mul(-1)
		}
		if l := dir.Length(); half >= 1e-9 && l >= 1e-9 {
			r.outline = append(r.outline, P.Add(dir.Mul(d/(half*l))))
			return true
		}
	}
	r.outline = append(r.outline, a.offset(P, d, positive), b.offset(P, d, positive))
	return false
}

// addCap appends a line cap at P.  T points away from the line.
func (r *Rasteriser) addCap(P, T vec.Vec2, d float64) {
	N := normal(T)
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		r.outline = append(r.outline, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		// half circle from N through T to -N
		r.addArc(P, d, N, -math.Pi, true)
	}
	// butt caps need no extra points
}

// addJoin appends the join geometry at P, where the tangent changes from
// T1 to T2, on the outer side of the corner.
func (r *Rasteriser) addJoin(P, T1, T2 vec.Vec2, d float64, positive bool) {
	cos := T1.Dot(T2)
	sin := cross(T1, T2)
	if math.Abs(sin) < collinearityThreshold {
		return
	}

	if cos < cuspCosineThreshold {
		// the path turns back on itself
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		// The miter length relative to the line width is 1/sin(φ/2), where
		// φ is the angle at the corner.  sin(φ/2) = cos(θ/2).
		half := math.Sqrt((1 + cos) / 2)
		const eps = 1e-10
		if half > 0 && 1/half <= r.MiterLimit+eps {
			bis := normal(T1).Add(normal(T2))
			if !positive {
				bis = bis.Mul(-1)
			}
			if l := bis.Length(); l > zeroLengthThreshold {
				r.outline = append(r.outline, P.Add(bis.Mul(d/(half*l))))
			}
		}
		// beyond the miter limit: bevel

	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		if positive {
			if sin > 0 {
				r.addArc(P, d, normal(T1), angle, false)
			} else {
				r.addArc(P, d, normal(T1), -angle, false)
			}
		} else {
			// going backwards: start at the negative normal of T2
			if sin > 0 {
				r.addArc(P, d, normal(T2).Mul(-1), -angle, false)
			} else {
				r.addArc(P, d, normal(T2).Mul(-1), angle, false)
			}
		}
	}
	// bevel joins need no extra points
}

// addArc appends points on the circle around center, starting in
// direction start and sweeping by the given angle (positive is counter
// clockwise in user space).
func (r *Rasteriser) addArc(center vec.Vec2, radius float64, start vec.Vec2, sweep float64, includeStart bool) {
	rot := func(phi float64) vec.Vec2 {
		c, s := math.Cos(phi), math.Sin(phi)
		return vec.Vec2{
			X: start.X*c - start.Y*s,
			Y: start.X*s + start.Y*c,
		}
	}

	devRadius := max(
		r.linear(vec.Vec2{X: radius}).Length(),
		r.linear(vec.Vec2{Y: radius}).Length(),
	)
	if devRadius < r.Flatness {
		if includeStart {
			r.outline = append(r.outline, center.Add(start.Mul(radius)))
		}
		r.outline = append(r.outline, center.Add(rot(sweep).Mul(radius)))
		return
	}

	// A chord spanning angle θ deviates from the circle by r(1-cos(θ/2)).
	step := 2 * math.Acos(1-r.Flatness/devRadius)
	if step <= 0 || math.IsNaN(step) {
		step = math.Pi / 4
	}
	n := max(int(math.Ceil(math.Abs(sweep)/step)), 1)

	i0 := 1
	if includeStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		r.outline = append(r.outline, center.Add(rot(sweep*float64(i)/float64(n)).Mul(radius)))
	}
}
