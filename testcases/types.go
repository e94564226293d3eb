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

// Package testcases defines the scenes used for rendering regression tests.
//
// Each [TestCase] names a canvas size, a background and a list of drawing
// operations.  [Render] draws a case onto a fresh canvas.
package testcases

import (
	"image/color"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/canvas"
	"seehuhn.de/go/rendertest/raster"
)

// TestCase defines a single rendering test.
type TestCase struct {
	Name       string        // lowercase a-z, 0-9 and _ only
	Width      int           // canvas width in pixels
	Height     int           // canvas height in pixels
	Background color.Color   // nil leaves the canvas transparent
	CTM        matrix.Matrix // zero value means identity
	Ops        []Operation   // applied in order
}

// Operation is a drawing operation.
type Operation interface {
	isOperation()
}

// Fill paints the interior of a path.
type Fill struct {
	Path  *path.Data
	Rule  raster.FillRule
	Color color.Color // nil means black
}

func (Fill) isOperation() {}

// Stroke paints the outline of a path.
type Stroke struct {
	Path  *path.Data
	Style Style
	Color color.Color // nil means black
}

func (Stroke) isOperation() {}

// Style describes how a path is stroked.
type Style struct {
	Width      float64                // line width (>0)
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64                // zero means 10
	Dash       []float64              // dash pattern (nil for solid)
	DashPhase  float64                // dash phase offset
}

// Render draws tc onto a new canvas.
func Render(tc TestCase) *canvas.Canvas {
	c := canvas.New(tc.Width, tc.Height)
	if tc.Background != nil {
		c.Clear(tc.Background)
	}
	if tc.CTM != (matrix.Matrix{}) {
		c.SetTransform(tc.CTM)
	}

	for _, op := range tc.Ops {
		switch op := op.(type) {
		case Fill:
			c.SetFillColor(colorOrBlack(op.Color))
			c.SetFillRule(op.Rule)
			c.Fill(op.Path)
		case Stroke:
			s := op.Style
			c.SetStrokeColor(colorOrBlack(op.Color))
			c.SetLineWidth(s.Width)
			c.SetLineCap(s.Cap)
			c.SetLineJoin(s.Join)
			if s.MiterLimit == 0 {
				c.SetMiterLimit(10)
			} else {
				c.SetMiterLimit(s.MiterLimit)
			}
			c.SetDash(s.DashPhase, s.Dash...)
			c.Stroke(op.Path)
		}
	}
	return c
}

func colorOrBlack(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}

// Names returns the file name stems of all cases, in the form
// category_name, sorted.
func Names() []string {
	var names []string
	for category, cases := range All {
		for _, tc := range cases {
			names = append(names, category+"_"+tc.Name)
		}
	}
	slices.Sort(names)
	return names
}

// Lookup finds a case by its category_name stem.
func Lookup(stem string) (category string, tc TestCase, ok bool) {
	for category, cases := range All {
		for _, tc := range cases {
			if category+"_"+tc.Name == stem {
				return category, tc, true
			}
		}
	}
	return "", TestCase{}, false
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// concat joins the subpaths of several paths into one path.
func concat(paths ...*path.Data) *path.Data {
	res := &path.Data{}
	for _, p := range paths {
		res.Cmds = append(res.Cmds, p.Cmds...)
		res.Coords = append(res.Coords, p.Coords...)
	}
	return res
}

// solid is the default stroke style of the given width.
func solid(width float64) Style {
	return Style{
		Width: width,
		Cap:   graphics.LineCapButt,
		Join:  graphics.LineJoinMiter,
	}
}
