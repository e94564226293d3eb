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

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	navy  = color.RGBA{R: 20, G: 30, B: 110, A: 255}

	translucentRed   = color.NRGBA{R: 255, A: 128}
	translucentGreen = color.NRGBA{G: 200, A: 128}
	translucentBlue  = color.NRGBA{B: 255, A: 128}
)

var colourCases = []TestCase{
	{
		Name:       "background",
		Width:      32,
		Height:     32,
		Background: navy,
	},
	{
		Name:       "fill_on_background",
		Width:      64,
		Height:     64,
		Background: white,
		Ops: []Operation{
			Fill{Path: fivePointStar(32, 32, 26), Color: color.RGBA{R: 230, G: 170, A: 255}},
		},
	},
	{
		Name:       "translucent_overlap",
		Width:      64,
		Height:     64,
		Background: white,
		Ops: []Operation{
			Fill{Path: canvas.Circle(24, 24, 16), Color: translucentRed},
			Fill{Path: canvas.Circle(40, 24, 16), Color: translucentGreen},
			Fill{Path: canvas.Circle(32, 40, 16), Color: translucentBlue},
		},
	},
	{
		// without a background the output keeps partial alpha
		Name:   "translucent_on_transparent",
		Width:  32,
		Height: 32,
		Ops: []Operation{
			Fill{Path: canvas.Rect(4, 4, 16, 16), Color: translucentRed},
			Fill{Path: canvas.Rect(12, 12, 16, 16), Color: translucentBlue},
		},
	},
	{
		Name:       "fill_then_stroke",
		Width:      64,
		Height:     64,
		Background: white,
		Ops: []Operation{
			Fill{Path: canvas.Rect(12, 12, 40, 40), Color: color.RGBA{R: 120, G: 200, B: 120, A: 255}},
			Stroke{
				Path:  canvas.Rect(12, 12, 40, 40),
				Style: withJoin(solid(4), graphics.LineJoinRound),
				Color: navy,
			},
		},
	},
}
