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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
)

var strokeCases = []TestCase{
	{
		Name:   "line_butt",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: horizontalLine(10, 32, 54), Style: solid(8)}},
	},
	{
		Name:   "line_round",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: horizontalLine(10, 32, 54), Style: withCap(solid(8), graphics.LineCapRound)},
		},
	},
	{
		Name:   "line_square",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: horizontalLine(10, 32, 54), Style: withCap(solid(8), graphics.LineCapSquare)},
		},
	},
	{
		Name:   "corner_miter",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: corner(10, 50, 32, 14, 54, 50), Style: solid(6)}},
	},
	{
		Name:   "corner_round",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: corner(10, 50, 32, 14, 54, 50), Style: withJoin(solid(6), graphics.LineJoinRound)},
		},
	},
	{
		Name:   "corner_bevel",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: corner(10, 50, 32, 14, 54, 50), Style: withJoin(solid(6), graphics.LineJoinBevel)},
		},
	},
	{
		Name:   "miter_limit_exceeded",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{
				Path: corner(10, 50, 32, 10, 20, 56),
				Style: Style{
					Width:      5,
					Cap:        graphics.LineCapButt,
					Join:       graphics.LineJoinMiter,
					MiterLimit: 2,
				},
			},
		},
	},
	{
		Name:   "closed_square",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: canvas.Rect(12, 12, 40, 40), Style: solid(6)}},
	},
	{
		Name:   "thin_diagonal",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: canvas.Polyline(pt(4, 60), pt(60, 4)), Style: solid(0.5)},
		},
	},
	{
		Name:   "round_dot",
		Width:  32,
		Height: 32,
		Ops: []Operation{
			Stroke{
				Path:  (&path.Data{}).MoveTo(pt(16, 16)).LineTo(pt(16, 16)),
				Style: withCap(solid(12), graphics.LineCapRound),
			},
		},
	},
}

// horizontalLine builds an open path from (x1, y) to (x2, y).
func horizontalLine(x1, y, x2 float64) *path.Data {
	return canvas.Polyline(pt(x1, y), pt(x2, y))
}

// corner builds an open path with two segments meeting at (x2, y2).
func corner(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return canvas.Polyline(pt(x1, y1), pt(x2, y2), pt(x3, y3))
}

func withCap(s Style, c graphics.LineCapStyle) Style {
	s.Cap = c
	return s
}

func withJoin(s Style, j graphics.LineJoinStyle) Style {
	s.Join = j
	return s
}
