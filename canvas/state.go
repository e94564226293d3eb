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
	"image/color"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/raster"
)

// State is the part of the canvas configuration which is saved and
// restored by [Canvas.Save] and [Canvas.Restore].
type State struct {
	// CTM maps user space to device pixels.
	CTM matrix.Matrix

	FillColor   color.Color
	StrokeColor color.Color
	FillRule    raster.FillRule

	LineWidth  float64
	LineCap    graphics.LineCapStyle
	LineJoin   graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

func defaultState() State {
	return State{
		CTM:         matrix.Identity,
		FillColor:   color.Black,
		StrokeColor: color.Black,
		FillRule:    raster.NonZero,
		LineWidth:   1,
		LineCap:     graphics.LineCapButt,
		LineJoin:    graphics.LineJoinMiter,
		MiterLimit:  10,
	}
}

// State returns a copy of the current graphics state.
func (c *Canvas) State() State {
	s := c.state
	s.Dash = slices.Clone(s.Dash)
	return s
}

// Save pushes a copy of the graphics state onto the state stack.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.State())
}

// Restore pops the graphics state saved by the matching call to Save.
// If the stack is empty, the state is left unchanged and false is
// returned.
func (c *Canvas) Restore() bool {
	n := len(c.stack)
	if n == 0 {
		return false
	}
	c.state = c.stack[n-1]
	c.stack = c.stack[:n-1]
	return true
}

func (c *Canvas) SetFillColor(col color.Color) {
	c.state.FillColor = col
}

func (c *Canvas) SetStrokeColor(col color.Color) {
	c.state.StrokeColor = col
}

func (c *Canvas) SetFillRule(rule raster.FillRule) {
	c.state.FillRule = rule
}

// SetLineWidth sets the stroke width in user space units.
// A width of zero gives the thinnest line which can be rendered.
func (c *Canvas) SetLineWidth(w float64) {
	c.state.LineWidth = max(w, 0)
}

func (c *Canvas) SetLineCap(style graphics.LineCapStyle) {
	c.state.LineCap = style
}

func (c *Canvas) SetLineJoin(style graphics.LineJoinStyle) {
	c.state.LineJoin = style
}

// SetMiterLimit sets the miter limit.  Values below 1 are raised to 1.
func (c *Canvas) SetMiterLimit(limit float64) {
	c.state.MiterLimit = max(limit, 1)
}

// SetDash sets the dash pattern.  An empty pattern, or one where all
// lengths are zero, selects solid lines.  Negative lengths are invalid and
// select solid lines as well.
func (c *Canvas) SetDash(phase float64, pattern ...float64) {
	sum := 0.0
	for _, v := range pattern {
		if v < 0 {
			sum = 0
			break
		}
		sum += v
	}
	if sum == 0 {
		c.state.Dash = nil
		c.state.DashPhase = 0
		return
	}
	c.state.Dash = slices.Clone(pattern)
	c.state.DashPhase = phase
}

// SetTransform replaces the CTM.
func (c *Canvas) SetTransform(m matrix.Matrix) {
	c.state.CTM = m
}

// Transform modifies the CTM so that m is applied to user space
// coordinates before the existing transformation.
func (c *Canvas) Transform(m matrix.Matrix) {
	c.state.CTM = m.Mul(c.state.CTM)
}

// Translate moves the origin of user space to (tx, ty).
func (c *Canvas) Translate(tx, ty float64) {
	c.Transform(matrix.Translate(tx, ty))
}

// Scale scales user space by sx horizontally and sy vertically.
func (c *Canvas) Scale(sx, sy float64) {
	c.Transform(matrix.Scale(sx, sy))
}

// Rotate rotates user space by the given angle in radians.  Since the y
// axis points down, positive angles turn clockwise on screen.
func (c *Canvas) Rotate(angle float64) {
	c.Transform(matrix.Rotate(angle))
}
