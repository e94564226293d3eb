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

	"seehuhn.de/go/rendertest/canvas"
)

var degenerateCases = []TestCase{
	{
		// a single opaque red pixel
		Name:   "red_pixel",
		Width:  1,
		Height: 1,
		Ops:    []Operation{Fill{Path: canvas.Rect(0, 0, 1, 1), Color: red}},
	},
	{
		// no pixels at all; the PNG file holds one transparent pixel
		Name: "empty",
	},
	{
		Name:   "no_ops",
		Width:  8,
		Height: 8,
	},
	{
		// zero-length line with butt caps paints nothing
		Name:   "zero_length_butt",
		Width:  16,
		Height: 16,
		Ops: []Operation{
			Stroke{Path: (&path.Data{}).MoveTo(pt(8, 8)).LineTo(pt(8, 8)), Style: solid(6)},
		},
	},
	{
		Name:   "outside_canvas",
		Width:  16,
		Height: 16,
		Ops:    []Operation{Fill{Path: canvas.Rect(20, 20, 10, 10)}},
	},
	{
		// huge shape, clipped to the canvas
		Name:   "clipped",
		Width:  16,
		Height: 16,
		Ops:    []Operation{Fill{Path: triangle(-1e4, -1e4, 1e4, 8, -1e4, 1e4)}},
	},
	{
		Name:   "empty_path",
		Width:  16,
		Height: 16,
		Ops:    []Operation{Fill{Path: &path.Data{}}, Stroke{Path: &path.Data{}, Style: solid(2)}},
	},
}
