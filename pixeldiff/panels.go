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

package pixeldiff

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	panelMargin   = 4
	captionHeight = 16
	minPanelWidth = 64
	checkerSize   = 8
)

var (
	panelBackground = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	checkerLight    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	checkerDark     = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// Panels places actual, diff and expected side by side, each enlarged by
// the integer factor scale and captioned.  Transparent areas are shown on
// a checkerboard.  Nil images leave their panel empty.
func Panels(actual, diff, expected image.Image, scale int) *image.RGBA {
	scale = max(scale, 1)
	imgs := []image.Image{actual, diff, expected}
	captions := []string{"actual", "diff", "expected"}

	var w, h int
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		w = max(w, b.Dx())
		h = max(h, b.Dy())
	}
	panelW := max(w*scale, minPanelWidth)
	panelH := h * scale

	out := image.NewRGBA(image.Rect(0, 0,
		len(imgs)*(panelW+panelMargin)+panelMargin,
		panelMargin+captionHeight+panelH+panelMargin))
	draw.Draw(out, out.Rect, image.NewUniform(panelBackground), image.Point{}, draw.Src)

	for i, img := range imgs {
		x := panelMargin + i*(panelW+panelMargin)
		caption(out, x, panelMargin, captions[i])
		if img == nil {
			continue
		}

		b := img.Bounds()
		dr := image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale).
			Add(image.Pt(x, panelMargin+captionHeight))
		checkerboard(out, dr)
		draw.NearestNeighbor.Scale(out, dr, img, b, draw.Over, nil)
	}
	return out
}

func caption(dst draw.Image, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

func checkerboard(dst *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := checkerLight
			if ((x-r.Min.X)/checkerSize+(y-r.Min.Y)/checkerSize)%2 == 1 {
				c = checkerDark
			}
			dst.SetRGBA(x, y, c)
		}
	}
}
