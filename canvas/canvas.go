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

// Package canvas provides an in-memory RGBA drawing surface.
//
// A Canvas carries a graphics state in the style of PDF and Cairo: a
// current transformation matrix, fill and stroke colours and line style
// parameters.  Shapes are described by paths from seehuhn.de/go/geom/path
// and are rasterised with anti-aliasing.  The surface can be streamed as
// PNG via [Canvas.PNGStream].
package canvas

import (
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/rendertest/pngstream"
	"seehuhn.de/go/rendertest/raster"
)

// Canvas is a raster surface with a graphics state.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	state State
	stack []State

	r    *raster.Rasteriser
	mask []uint8
	enc  *png.Encoder
}

var (
	_ image.Image      = (*Canvas)(nil)
	_ pngstream.Source = (*Canvas)(nil)
)

// New allocates a fully transparent canvas of the given size.
// Negative sizes are treated as zero.
func New(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	clip := rect.Rect{URx: float64(width), URy: float64(height)}
	return &Canvas{
		img:   img,
		state: defaultState(),
		r:     raster.NewRasteriser(clip),
		enc:   &png.Encoder{},
	}
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int {
	return c.img.Rect.Dy()
}

// ColorModel implements the [image.Image] interface.
func (c *Canvas) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the [image.Image] interface.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// At implements the [image.Image] interface.
func (c *Canvas) At(x, y int) color.Color {
	return c.img.At(x, y)
}

// RGBA returns the backing image.  Pixels are stored as premultiplied
// RGBA.  Changes to the returned image are visible on the canvas.
func (c *Canvas) RGBA() *image.RGBA {
	return c.img
}

// SetCompression sets the zlib compression level used by PNGStream.
func (c *Canvas) SetCompression(level png.CompressionLevel) {
	c.enc = &png.Encoder{CompressionLevel: level}
}

// PNGStream returns the PNG encoding of the canvas as a stream of chunks.
// Encoding reads the live pixel buffer, so the canvas must not be drawn
// to while the stream is being consumed.
func (c *Canvas) PNGStream() pngstream.Stream {
	return pngstream.EncodeWith(c.enc, c.img)
}

// Clear sets every pixel to col, replacing the previous contents.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// Paint composites the fill colour over the whole canvas.
func (c *Canvas) Paint() {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(c.state.FillColor), image.Point{}, draw.Over)
}
