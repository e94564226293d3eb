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
	"image"
	"math"

	"golang.org/x/image/draw"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// Fill paints the interior of p with the fill colour, using the current
// fill rule.  Open subpaths are closed implicitly.
func (c *Canvas) Fill(p *path.Data) {
	if c.img.Rect.Empty() {
		return
	}
	c.resetRasteriser()
	src := image.NewUniform(c.state.FillColor)
	c.r.Fill(p, c.state.FillRule, func(y, xMin int, coverage []float32) {
		c.composite(src, y, xMin, coverage)
	})
}

// Stroke paints the outline of p with the stroke colour, using the
// current line style.
func (c *Canvas) Stroke(p *path.Data) {
	if c.img.Rect.Empty() {
		return
	}
	c.resetRasteriser()
	s := &c.state
	c.r.Width = s.LineWidth
	if c.r.Width == 0 {
		c.r.Width = c.hairline()
	}
	c.r.Cap = s.LineCap
	c.r.Join = s.LineJoin
	c.r.MiterLimit = s.MiterLimit
	c.r.Dash = s.Dash
	c.r.DashPhase = s.DashPhase

	src := image.NewUniform(s.StrokeColor)
	c.r.Stroke(p, func(y, xMin int, coverage []float32) {
		c.composite(src, y, xMin, coverage)
	})
}

// FillRect fills the axis-parallel rectangle with corner (x, y), width w
// and height h in user space.
func (c *Canvas) FillRect(x, y, w, h float64) {
	c.Fill(Rect(x, y, w, h))
}

func (c *Canvas) resetRasteriser() {
	b := c.img.Rect
	c.r.Reset(rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	})
	c.r.CTM = c.state.CTM
}

// hairline returns the user space width which corresponds to one device
// pixel.
func (c *Canvas) hairline() float64 {
	m := c.state.CTM
	det := math.Abs(m[0]*m[3] - m[1]*m[2])
	if det == 0 {
		return 1
	}
	return 1 / math.Sqrt(det)
}

// composite draws one scanline of src over the canvas, scaled by the
// given coverage values.
func (c *Canvas) composite(src *image.Uniform, y, xMin int, coverage []float32) {
	if cap(c.mask) < len(coverage) {
		c.mask = make([]uint8, len(coverage))
	}
	pix := c.mask[:len(coverage)]
	for i, v := range coverage {
		pix[i] = alpha(v)
	}
	m := &image.Alpha{
		Pix:    pix,
		Stride: len(pix),
		Rect:   image.Rect(xMin, y, xMin+len(pix), y+1),
	}
	draw.DrawMask(c.img, m.Rect, src, image.Point{}, m, m.Rect.Min, draw.Over)
}

func alpha(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}

