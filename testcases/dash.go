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
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
)

var dashCases = []TestCase{
	{
		Name:   "equal",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: horizontalLine(5, 32, 59), Style: dashed(4, 0, 10, 10)}},
	},
	{
		// [10] becomes [10, 10]
		Name:   "single_element",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: horizontalLine(5, 32, 59), Style: dashed(4, 0, 10)}},
	},
	{
		// [5, 3, 8] becomes [5, 3, 8, 5, 3, 8]
		Name:   "three_element",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: horizontalLine(5, 32, 59), Style: dashed(4, 0, 5, 3, 8)}},
	},
	{
		Name:   "phase",
		Width:  64,
		Height: 64,
		Ops:    []Operation{Stroke{Path: horizontalLine(5, 32, 59), Style: dashed(4, 7, 10, 5)}},
	},
	{
		Name:   "round_caps",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: horizontalLine(8, 32, 56), Style: withCap(dashed(6, 0, 8, 8), graphics.LineCapRound)},
		},
	},
	{
		Name:   "zero_length_dots",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: horizontalLine(8, 32, 56), Style: withCap(dashed(6, 0, 0, 10), graphics.LineCapRound)},
		},
	},
	{
		Name:   "square_dots",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: horizontalLine(8, 32, 56), Style: withCap(dashed(4, 0, 0, 8), graphics.LineCapSquare)},
		},
	},
	{
		Name:   "around_corner",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: corner(8, 56, 8, 8, 56, 8), Style: dashed(4, 0, 12, 4)},
		},
	},
	{
		Name:   "closed_square",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: canvas.Rect(12, 12, 40, 40), Style: withJoin(dashed(4, 3, 14, 6), graphics.LineJoinRound)},
		},
	},
	{
		Name:   "circle",
		Width:  64,
		Height: 64,
		Ops: []Operation{
			Stroke{Path: canvas.Circle(32, 32, 22), Style: dashed(3, 0, 6, 4)},
		},
	},
}

func dashed(width, phase float64, pattern ...float64) Style {
	s := solid(width)
	s.Dash = pattern
	s.DashPhase = phase
	return s
}
