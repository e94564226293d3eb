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

package canvas

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Rect returns a closed path for the rectangle with corner (x, y),
// width w and height h.
func Rect(x, y, w, h float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x, Y: y}).
		LineTo(vec.Vec2{X: x + w, Y: y}).
		LineTo(vec.Vec2{X: x + w, Y: y + h}).
		LineTo(vec.Vec2{X: x, Y: y + h}).
		Close()
}

// Polygon returns a closed path through the given points.
// Fewer than two points give an empty path.
func Polygon(pts ...vec.Vec2) *path.Data {
	p := &path.Data{}
	if len(pts) < 2 {
		return p
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	return p.Close()
}

// Polyline returns an open path through the given points.
func Polyline(pts ...vec.Vec2) *path.Data {
	p := &path.Data{}
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	return p
}

// Circle returns a closed path approximating the circle with centre
// (cx, cy) and radius r by four cubic Bézier curves.
func Circle(cx, cy, r float64) *path.Data {
	return Arc(cx, cy, r, 0, 2*math.Pi).Close()
}

// Arc returns an open path along the circle with centre (cx, cy) and
// radius r, from angle a0 to a1 (in radians).  The arc is split into
// cubic Bézier curves spanning at most a quarter turn each.
func Arc(cx, cy, r, a0, a1 float64) *path.Data {
	p := &path.Data{}
	sweep := a1 - a0
	n := max(int(math.Ceil(math.Abs(sweep)/(math.Pi/2)-1e-9)), 1)
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	pt := func(a float64) (vec.Vec2, vec.Vec2) {
		s, c := math.Sincos(a)
		return vec.Vec2{X: cx + r*c, Y: cy + r*s}, vec.Vec2{X: -r * s, Y: r * c}
	}

	cur, dCur := pt(a0)
	p.MoveTo(cur)
	for i := 1; i <= n; i++ {
		next, dNext := pt(a0 + float64(i)*step)
		p.Cmds = append(p.Cmds, path.CmdCubeTo)
		p.Coords = append(p.Coords,
			cur.Add(dCur.Mul(k)),
			next.Sub(dNext.Mul(k)),
			next,
		)
		cur, dCur = next, dNext
	}
	return p
}
