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

package pngstream

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x ^ y) & 0xff),
				A: 255,
			})
		}
	}
	return img
}

// TestChunksMatchEncoder checks that concatenating the chunks gives the
// same bytes as encoding in one go.
func TestChunksMatchEncoder(t *testing.T) {
	img := gradient(300, 200)

	var want bytes.Buffer
	if err := png.Encode(&want, img); err != nil {
		t.Fatal(err)
	}

	var got []byte
	chunks := 0
	for chunk, err := range Encode(img) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, chunk...)
		chunks++
	}
	if chunks < 2 {
		t.Errorf("got %d chunks, want several", chunks)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Errorf("chunked encoding differs from png.Encode (%d vs %d bytes)",
			len(got), want.Len())
	}
}

func TestEncodeIsLazy(t *testing.T) {
	calls := 0
	img := &countingImage{Image: gradient(4, 4), calls: &calls}
	s := Encode(img)
	if calls != 0 {
		t.Fatalf("image accessed %d times before ranging", calls)
	}
	if _, err := Collect(s); err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Error("image never accessed")
	}
}

type countingImage struct {
	image.Image
	calls *int
}

func (c *countingImage) At(x, y int) color.Color {
	*c.calls++
	return c.Image.At(x, y)
}

func TestStreamSinglePass(t *testing.T) {
	s := Encode(gradient(8, 8))
	if _, err := Collect(s); err != nil {
		t.Fatal(err)
	}
	_, err := Collect(s)
	if !errors.Is(err, ErrStreamConsumed) {
		t.Errorf("second pass: got %v, want %v", err, ErrStreamConsumed)
	}
}

func TestEarlyStop(t *testing.T) {
	s := Encode(gradient(300, 300))
	n := 0
	for _, err := range s {
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("got %d chunks before break, want 2", n)
	}
}

func TestChunksAreOwned(t *testing.T) {
	var chunks [][]byte
	for chunk, err := range Encode(gradient(64, 64)) {
		if err != nil {
			t.Fatal(err)
		}
		chunks = append(chunks, chunk)
	}
	got := bytes.Join(chunks, nil)

	want, err := Collect(Encode(gradient(64, 64)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("retained chunks were modified after being yielded")
	}
}

func TestEmptyImage(t *testing.T) {
	for _, img := range []image.Image{
		image.NewRGBA(image.Rectangle{}),
		image.NewRGBA(image.Rect(5, 5, 5, 9)),
		nil,
	} {
		data, err := Collect(Encode(img))
		if err != nil {
			t.Fatal(err)
		}
		dec, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("invalid PNG for empty image: %v", err)
		}
		if b := dec.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
			t.Errorf("bounds %v, want 1x1", b)
		}
		if _, _, _, a := dec.At(0, 0).RGBA(); a != 0 {
			t.Errorf("alpha %d, want 0", a)
		}
	}
}

func TestEncoderSettings(t *testing.T) {
	img := gradient(200, 200)
	fast, err := Collect(EncodeWith(&png.Encoder{CompressionLevel: png.NoCompression}, img))
	if err != nil {
		t.Fatal(err)
	}
	best, err := Collect(ImageSource{
		Image:   img,
		Encoder: &png.Encoder{CompressionLevel: png.BestCompression},
	}.PNGStream())
	if err != nil {
		t.Fatal(err)
	}
	if len(fast) <= len(best) {
		t.Errorf("uncompressed %d bytes, compressed %d bytes", len(fast), len(best))
	}
}
