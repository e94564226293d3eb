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

// Package pngstream encodes images as PNG and writes the encoding to a
// sink chunk by chunk.
//
// An encoding is exposed as a [Stream], a lazy single-pass sequence of byte
// chunks in the order the encoder produces them.  [Writer.WriteFile] drains
// a stream into a file, releasing the file on every exit path.
package pngstream

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"iter"
	"sync/atomic"
)

// Stream is a finite, single-pass sequence of encoded chunks.
// A non-nil error ends the sequence.  Chunks belong to the consumer and
// are never modified by the producer after they have been yielded.
type Stream = iter.Seq2[[]byte, error]

// Source is implemented by surfaces which can encode themselves.
type Source interface {
	PNGStream() Stream
}

// ImageSource adapts an image.Image to the Source interface.
type ImageSource struct {
	Image image.Image

	// Encoder is used for encoding.  If nil, the default settings of
	// image/png are used.
	Encoder *png.Encoder
}

// PNGStream implements the [Source] interface.
func (s ImageSource) PNGStream() Stream {
	return EncodeWith(s.Encoder, s.Image)
}

// Encode returns a stream which yields the PNG encoding of img.
func Encode(img image.Image) Stream {
	return EncodeWith(nil, img)
}

// EncodeWith is like [Encode] but uses the given encoder settings.
//
// Nothing is encoded until the stream is ranged over.  Breaking out of the
// loop early aborts the encoder.  Ranging over the stream a second time
// yields [ErrStreamConsumed].
//
// PNG has no representation for images without pixels.  If the bounds of
// img are empty, a single fully transparent pixel is encoded instead.
func EncodeWith(enc *png.Encoder, img image.Image) Stream {
	if enc == nil {
		enc = &png.Encoder{}
	}
	var used atomic.Bool
	return func(yield func([]byte, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrStreamConsumed)
			return
		}

		src := img
		if src == nil || src.Bounds().Empty() {
			src = image.NewNRGBA(image.Rect(0, 0, 1, 1))
		}

		w := &chunkWriter{yield: yield}
		err := enc.Encode(w, src)
		if w.stopped {
			return
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains s and returns the concatenated chunks.
func Collect(s Stream) ([]byte, error) {
	var buf bytes.Buffer
	for chunk, err := range s {
		if err != nil {
			return buf.Bytes(), err
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// chunkWriter turns the Write calls of the encoder into yielded chunks.
type chunkWriter struct {
	yield   func([]byte, error) bool
	stopped bool
}

var errStopped = errors.New("consumer stopped")

func (w *chunkWriter) Write(p []byte) (int, error) {
	if w.stopped {
		return 0, errStopped
	}
	if len(p) == 0 {
		return 0, nil
	}
	if !w.yield(bytes.Clone(p), nil) {
		w.stopped = true
		return 0, errStopped
	}
	return len(p), nil
}
