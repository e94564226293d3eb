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
	"errors"
	"fmt"
)

var (
	// ErrStreamConsumed is yielded when a stream is ranged over more than
	// once.
	ErrStreamConsumed = errors.New("pngstream: stream already consumed")

	// ErrEmptyStream indicates that a stream ended without producing any
	// data.
	ErrEmptyStream = errors.New("pngstream: stream produced no data")
)

// SinkOpenError is returned when the destination cannot be opened for
// writing.
type SinkOpenError struct {
	Path string
	Err  error
}

func (e *SinkOpenError) Error() string {
	return fmt.Sprintf("pngstream: cannot open %q: %v", e.Path, e.Err)
}

func (e *SinkOpenError) Unwrap() error {
	return e.Err
}

// EncodeError is returned when the source fails to produce its encoding.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return "pngstream: encode: " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// SinkWriteError is returned when encoded data cannot be written to the
// destination, or the destination cannot be finalised.
type SinkWriteError struct {
	Path string
	Err  error
}

func (e *SinkWriteError) Error() string {
	if e.Path == "" {
		return "pngstream: write: " + e.Err.Error()
	}
	return fmt.Sprintf("pngstream: write %q: %v", e.Path, e.Err)
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}
