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
	"image/color"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
)

var curveCases = []TestCase{
	{
		Name:   "quadratic_fill",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: quadratic(8, 56, 32, -8, 56, 56).Close()}},
	},
	{
		Name:   "quadratic_stroke",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: quadratic(8, 56, 32, -8, 56, 56), Style: solid(3)}},
	},
	{
		Name:   "cubic_fill",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: cubic(8, 32, 20, 0, 44, 64, 56, 32).Close()}},
	},
	{
		Name:   "cubic_stroke",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{
				Path:  cubic(8, 32, 20, 0, 44, 64, 56, 32),
				Style: withCap(solid(4), graphics.LineCapRound),
			},
		},
	},
	{
		Name:   "cubic_loop",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: cubic(8, 48, 72, 8, -8, 8, 56, 48), Style: withJoin(solid(2), graphics.LineJoinRound)},
		},
	},
	{
		Name:   "circle",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Fill{Path: canvas.Circle(32, 32, 24)}},
	},
	{
		Name:   "small_circle",
		Width:  16,
		Height: 16,
		Ops:    []Operation{Fill{Path: canvas.Circle(8, 8, 2.5)}},
	},
	{
		Name:   "ellipse_outline",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: ellipse(32, 32, 26, 14), Style: solid(3), Color: color.RGBA{B: 160, A: 255}},
		},
	},
	{
		Name:   "arc_round_caps",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{
				Path:  canvas.Arc(32, 36, 20, math.Pi, 2*math.Pi),
				Style: withCap(solid(6), graphics.LineCapRound),
			},
		},
	},
}

// quadratic builds an open path consisting of a single quadratic Bézier
// curve.
func quadratic(x1, y1, cx, cy, x2, y2 float64) *path.Data {
	p := (&path.Data{}).MoveTo(pt(x1, y1))
	p.Cmds = append(p.Cmds, path.CmdQuadTo)
	p.Coords = append(p.Coords, pt(cx, cy), pt(x2, y2))
	return p
}

// cubic builds an open path consisting of a single cubic Bézier curve.
func cubic(x1, y1, c1x, c1y, c2x, c2y, x2, y2 float64) *path.Data {
	p := (&path.Data{}).MoveTo(pt(x1, y1))
	p.Cmds = append(p.Cmds, path.CmdCubeTo)
	p.Coords = append(p.Coords, pt(c1x, c1y), pt(c2x, c2y), pt(x2, y2))
	return p
}

// ellipse builds an axis-parallel ellipse by stretching a unit circle.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	p := canvas.Circle(0, 0, 1)
	for i, c := range p.Coords {
		p.Coords[i] = vec.Vec2{X: cx + rx*c.X, Y: cy + ry*c.Y}
	}
	return p
}
