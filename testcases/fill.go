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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/rendertest/canvas"
	"seehuhn.de/go/rendertest/raster"
)

var fillCases = []TestCase{
	{
		Name:   "triangle_nonzero",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: triangle(10, 50, 32, 10, 54, 50)}},
	},
	{
		Name:   "triangle_evenodd",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Fill{Path: triangle(10, 50, 32, 10, 54, 50), Rule: raster.EvenOdd},
		},
	},
	{
		Name:   "star_nonzero",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: fivePointStar(32, 32, 25)}},
	},
	{
		Name:   "star_evenodd",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Fill{Path: fivePointStar(32, 32, 25), Rule: raster.EvenOdd},
		},
	},
	{
		Name:   "rectangle",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: canvas.Rect(10, 10, 44, 44)}},
	},
	{
		Name:   "half_pixel_rectangle",
		Width:  16,
		Height: 16,
		Ops:    []Operation{Fill{Path: canvas.Rect(3.5, 3.5, 9, 9)}},
	},
	{
		Name:   "ring_nonzero",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Fill{Path: concat(canvas.Rect(8, 8, 48, 48), canvas.Rect(20, 20, 24, 24))},
		},
	},
	{
		Name:   "ring_evenodd",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Fill{
				Path: concat(canvas.Rect(8, 8, 48, 48), canvas.Rect(20, 20, 24, 24)),
				Rule: raster.EvenOdd,
			},
		},
	},
	{
		Name:   "implicit_close",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Fill{Path: canvas.Polyline(pt(8, 56), pt(32, 8), pt(56, 56), pt(32, 40))},
		},
	},
	{
		Name:   "many_subpaths",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: grid(4, 4, 64, 64, 4)}},
	},
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return canvas.Polygon(pt(x1, y1), pt(x2, y2), pt(x3, y3))
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) *path.Data {
	var corners [5]float64
	for i := range corners {
		corners[i] = float64(i)*2*math.Pi/5 - math.Pi/2
	}

	// draw star: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	order := []int{0, 2, 4, 1, 3}
	p := &path.Data{}
	for k, i := range order {
		v := pt(cx+r*math.Cos(corners[i]), cy+r*math.Sin(corners[i]))
		if k == 0 {
			p.MoveTo(v)
		} else {
			p.LineTo(v)
		}
	}
	return p.Close()
}

// grid builds rows×cols separate rectangles, filling width×height with
// the given gap between them.
func grid(rows, cols int, width, height, gap float64) *path.Data {
	w := (width - gap*float64(cols+1)) / float64(cols)
	h := (height - gap*float64(rows+1)) / float64(rows)
	var parts []*path.Data
	for i := range rows {
		for j := range cols {
			x := gap + float64(j)*(w+gap)
			y := gap + float64(i)*(h+gap)
			parts = append(parts, canvas.Rect(x, y, w, h))
		}
	}
	return concat(parts...)
}
