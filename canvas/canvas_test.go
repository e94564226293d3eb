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
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/rendertest/pngstream"
	"seehuhn.de/go/rendertest/raster"
)

var (
	red         = color.RGBA{R: 255, A: 255}
	blue        = color.RGBA{B: 255, A: 255}
	black       = color.RGBA{A: 255}
	transparent = color.RGBA{}
)

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	return c.RGBA().RGBAAt(x, y)
}

func TestNegativeSize(t *testing.T) {
	c := New(-3, 5)
	if c.Width() != 0 || c.Height() != 5 {
		t.Fatalf("size %dx%d, want 0x5", c.Width(), c.Height())
	}
	c.FillRect(0, 0, 10, 10)
	c.Stroke(Rect(0, 0, 10, 10))

	data, err := pngstream.Collect(c.PNGStream())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("empty canvas does not give a valid PNG: %v", err)
	}
}

func TestClear(t *testing.T) {
	c := New(3, 2)
	if got := rgbaAt(c, 1, 1); got != transparent {
		t.Errorf("new canvas pixel %v, want transparent", got)
	}
	c.Clear(red)
	for y := range 2 {
		for x := range 3 {
			if got := c.At(x, y); got != red {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, red)
			}
		}
	}
}

func TestPaintOver(t *testing.T) {
	c := New(2, 2)
	c.Clear(red)
	c.SetFillColor(color.RGBA{B: 128, A: 128})
	c.Paint()
	got := rgbaAt(c, 0, 0)
	if got.A != 255 || got.B < 127 || got.R < 126 || got.R > 128 {
		t.Errorf("blended pixel %v", got)
	}
}

func TestFillRect(t *testing.T) {
	c := New(10, 10)
	c.FillRect(2, 2, 4, 4)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{2, 2, black},
		{5, 5, black},
		{1, 1, transparent},
		{6, 6, transparent},
		{6, 3, transparent},
	}
	for _, tc := range tests {
		if got := rgbaAt(c, tc.x, tc.y); got != tc.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestPartialCoverage(t *testing.T) {
	c := New(1, 1)
	c.FillRect(0, 0, 0.5, 1)
	if got := rgbaAt(c, 0, 0).A; got != 128 {
		t.Errorf("alpha %d, want 128", got)
	}
}

func TestSaveRestore(t *testing.T) {
	c := New(4, 4)
	c.SetFillColor(red)
	c.SetDash(0, 2, 1)
	c.Save()
	c.SetFillColor(blue)
	c.Translate(3, 3)
	c.SetLineWidth(5)
	c.SetDash(0)

	if !c.Restore() {
		t.Fatal("Restore failed")
	}
	want := defaultState()
	want.FillColor = red
	want.Dash = []float64{2, 1}
	if d := cmp.Diff(want, c.State()); d != "" {
		t.Errorf("restored state (-want +got):\n%s", d)
	}
	if c.Restore() {
		t.Error("Restore on empty stack succeeded")
	}
	if c.State().FillColor != red {
		t.Error("failed Restore changed the state")
	}
}

func TestTransform(t *testing.T) {
	c := New(10, 10)
	c.Translate(5, 5)
	c.Scale(2, 2)
	c.FillRect(0, 0, 1, 1)

	for _, p := range []image.Point{{5, 5}, {6, 6}} {
		if got := rgbaAt(c, p.X, p.Y); got != black {
			t.Errorf("pixel %v = %v, want black", p, got)
		}
	}
	for _, p := range []image.Point{{4, 4}, {7, 7}, {0, 0}} {
		if got := rgbaAt(c, p.X, p.Y); got != transparent {
			t.Errorf("pixel %v = %v, want transparent", p, got)
		}
	}
}

func TestRotate(t *testing.T) {
	c := New(1, 1)
	c.Translate(10, 0)
	c.Rotate(math.Pi / 2)

	want := matrix.Matrix{0, 1, -1, 0, 10, 0}
	opt := cmpopts.EquateApprox(0, 1e-12)
	if d := cmp.Diff(want, c.State().CTM, opt); d != "" {
		t.Errorf("CTM (-want +got):\n%s", d)
	}
}

// TestTransformOrder checks that later transformations act on user space
// first.
func TestTransformOrder(t *testing.T) {
	c := New(1, 1)
	c.Scale(2, 3)
	c.Translate(1, 1)

	want := matrix.Matrix{2, 0, 0, 3, 2, 3}
	if d := cmp.Diff(want, c.State().CTM); d != "" {
		t.Errorf("CTM (-want +got):\n%s", d)
	}
}

func TestStroke(t *testing.T) {
	c := New(20, 10)
	c.SetStrokeColor(red)
	c.SetLineWidth(2)
	c.SetLineCap(graphics.LineCapSquare)
	c.Stroke(Polyline(vec.Vec2{X: 4, Y: 5}, vec.Vec2{X: 16, Y: 5}))

	for _, x := range []int{3, 10, 16} {
		for _, y := range []int{4, 5} {
			if got := rgbaAt(c, x, y); got != red {
				t.Errorf("pixel (%d,%d) = %v, want red", x, y, got)
			}
		}
	}
	for _, p := range []image.Point{{2, 5}, {17, 5}, {10, 3}, {10, 6}} {
		if got := rgbaAt(c, p.X, p.Y); got != transparent {
			t.Errorf("pixel %v = %v, want transparent", p, got)
		}
	}
}

func TestHairline(t *testing.T) {
	c := New(10, 10)
	c.Scale(4, 4)
	c.SetLineWidth(0)
	c.Stroke(Polyline(vec.Vec2{X: 0, Y: 1.375}, vec.Vec2{X: 2.5, Y: 1.375}))

	// the line runs along y = 5.5 in device space, one pixel wide
	for x := range 10 {
		if got := rgbaAt(c, x, 5); got != black {
			t.Errorf("pixel (%d,5) = %v, want black", x, got)
		}
		if got := rgbaAt(c, x, 4); got != transparent {
			t.Errorf("pixel (%d,4) = %v, want transparent", x, got)
		}
	}
}

func TestDashSetting(t *testing.T) {
	c := New(1, 1)
	c.SetDash(1, 3, -1)
	if s := c.State(); s.Dash != nil || s.DashPhase != 0 {
		t.Errorf("negative pattern accepted: %v", s.Dash)
	}
	c.SetDash(1, 0, 0)
	if s := c.State(); s.Dash != nil {
		t.Errorf("zero pattern accepted: %v", s.Dash)
	}

	pattern := []float64{4, 2}
	c.SetDash(1, pattern...)
	pattern[0] = 100
	if d := cmp.Diff([]float64{4, 2}, c.State().Dash); d != "" {
		t.Errorf("pattern aliased (-want +got):\n%s", d)
	}
}

func TestFillRule(t *testing.T) {
	ring := Rect(0, 0, 10, 10)
	inner := Rect(3, 3, 4, 4)
	ring.Cmds = append(ring.Cmds, inner.Cmds...)
	ring.Coords = append(ring.Coords, inner.Coords...)

	c := New(10, 10)
	c.Fill(ring)
	if got := rgbaAt(c, 5, 5); got != black {
		t.Errorf("nonzero: centre %v, want black", got)
	}

	c = New(10, 10)
	c.SetFillRule(raster.EvenOdd)
	c.Fill(ring)
	if got := rgbaAt(c, 5, 5); got != transparent {
		t.Errorf("evenodd: centre %v, want transparent", got)
	}
	if got := rgbaAt(c, 1, 1); got != black {
		t.Errorf("evenodd: ring %v, want black", got)
	}
}

func TestCircle(t *testing.T) {
	c := New(30, 30)
	c.Fill(Circle(15, 15, 10))

	sum := 0.0
	for _, a := range alphaValues(c) {
		sum += float64(a) / 255
	}
	want := math.Pi * 100
	if math.Abs(sum-want)/want > 0.02 {
		t.Errorf("area %.1f, want %.1f", sum, want)
	}
}

func alphaValues(c *Canvas) []uint8 {
	img := c.RGBA()
	var out []uint8
	for i := 3; i < len(img.Pix); i += 4 {
		out = append(out, img.Pix[i])
	}
	return out
}

func TestArc(t *testing.T) {
	tests := []struct {
		a0, a1 float64
		cubics int
		end    vec.Vec2
	}{
		{0, math.Pi / 2, 1, vec.Vec2{X: 0, Y: 1}},
		{0, math.Pi, 2, vec.Vec2{X: -1, Y: 0}},
		{0, -math.Pi, 2, vec.Vec2{X: -1, Y: 0}},
		{0, 2 * math.Pi, 4, vec.Vec2{X: 1, Y: 0}},
		{0, 0.1, 1, vec.Vec2{X: math.Cos(0.1), Y: math.Sin(0.1)}},
	}
	for _, tc := range tests {
		p := Arc(0, 0, 1, tc.a0, tc.a1)
		if len(p.Cmds) != tc.cubics+1 {
			t.Errorf("%g..%g: %d commands, want %d", tc.a0, tc.a1, len(p.Cmds), tc.cubics+1)
			continue
		}
		for _, cmd := range p.Cmds[1:] {
			if cmd != path.CmdCubeTo {
				t.Errorf("%g..%g: unexpected command %v", tc.a0, tc.a1, cmd)
			}
		}
		end := p.Coords[len(p.Coords)-1]
		if end.Sub(tc.end).Length() > 1e-12 {
			t.Errorf("%g..%g: ends at %v, want %v", tc.a0, tc.a1, end, tc.end)
		}
	}
}

func TestPolygonDegenerate(t *testing.T) {
	if p := Polygon(vec.Vec2{X: 1, Y: 1}); len(p.Cmds) != 0 {
		t.Errorf("single point polygon has %d commands", len(p.Cmds))
	}
	if p := Polyline(); len(p.Cmds) != 0 {
		t.Errorf("empty polyline has %d commands", len(p.Cmds))
	}
}

// TestWriteFile draws a small opaque scene, writes it through pngstream
// and checks that the file decodes to the same pixels.
func TestWriteFile(t *testing.T) {
	c := New(16, 12)
	c.Clear(color.White)
	c.SetFillColor(red)
	c.Fill(Circle(8, 6, 5))
	c.SetStrokeColor(blue)
	c.SetLineWidth(1.5)
	c.Stroke(Rect(1, 1, 14, 10))

	name := filepath.Join(t.TempDir(), "scene.png")
	if _, err := pngstream.WriteFile(context.Background(), c, name); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Bounds() != c.Bounds() {
		t.Fatalf("bounds %v, want %v", dec.Bounds(), c.Bounds())
	}
	for y := range 12 {
		for x := range 16 {
			got := color.RGBAModel.Convert(dec.At(x, y))
			if want := c.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}
