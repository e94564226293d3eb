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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
)

var ctmCases = []TestCase{
	{
		// user space is 16×16, scaled up by 4
		Name:   "scale",
		Width:  64,
		Height: 64,
		CTM:    matrix.Scale(4, 4),
		Ops:    []Operation{Fill{Path: triangle(2, 14, 8, 2, 14, 14)}},
	},
	{
		// stroke width scales with the CTM
		Name:   "scale_stroke",
		Width:  64,
		Height: 64,
		CTM:    matrix.Scale(4, 4),
		Ops:    []Operation{Stroke{Path: corner(2, 12, 8, 4, 14, 12), Style: solid(1.5)}},
	},
	{
		// non-uniform scaling turns round caps into ellipses
		Name:   "anisotropic_stroke",
		Width:  64,
		Height: 64,
		CTM:    matrix.Scale(4, 1),
		Ops: []Operation{
			Stroke{Path: horizontalLine(3, 32, 13), Style: withCap(solid(8), graphics.LineCapRound)},
		},
	},
	{
		Name:   "rotate",
		Width:  64,
		Height: 64,
		CTM:    rotateAbout(32, 32, math.Pi/6),
		Ops:    []Operation{Fill{Path: canvas.Rect(16, 16, 32, 32)}},
	},
	{
		Name:   "rotate_dashed",
		Width:  64,
		Height: 64,
		CTM:    rotateAbout(32, 32, -math.Pi/4),
		Ops:    []Operation{Stroke{Path: horizontalLine(6, 32, 58), Style: dashed(4, 0, 8, 4)}},
	},
	{
		Name:   "skew",
		Width:  64,
		Height: 64,
		CTM:    matrix.Matrix{1, 0, 0.5, 1, 0, 0},
		Ops:    []Operation{Fill{Path: canvas.Rect(4, 8, 28, 48)}},
	},
	{
		// y axis pointing up, as in PDF
		Name:   "flip",
		Width:  64,
		Height: 64,
		CTM:    matrix.Scale(1, -1).Translate(0, 64),
		Ops:    []Operation{Fill{Path: triangle(10, 10, 32, 54, 54, 10)}},
	},
}

// rotateAbout returns the matrix which rotates by angle around (cx, cy).
func rotateAbout(cx, cy, angle float64) matrix.Matrix {
	return matrix.Translate(-cx, -cy).Mul(matrix.Rotate(angle)).Translate(cx, cy)
}
