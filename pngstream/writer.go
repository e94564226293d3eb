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
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Writer writes PNG streams to files.
// The zero value is ready to use.
type Writer struct {
	// Perm is the permission of newly created files.  Zero means 0o644.
	Perm os.FileMode

	// Atomic selects whether data is first written to a temporary file in
	// the destination directory, which is then renamed into place.  If
	// false, the destination is truncated and written directly.
	Atomic bool

	// Logger receives debug and error events.  If nil, nothing is logged.
	Logger *slog.Logger

	// OnChunk, if set, is called after each chunk has been written, with
	// the chunk index and the chunk size.
	OnChunk func(index, size int)
}

// WriteFile writes the PNG encoding of src to the file name, using the
// default [Writer] settings.
func WriteFile(ctx context.Context, src Source, name string) (int64, error) {
	var w Writer
	return w.WriteFile(ctx, src, name)
}

// WriteFile encodes src and writes each chunk to the file name, in the
// order the chunks are produced.  An existing file is replaced.
// The directory containing name must exist.
//
// The number of bytes written is returned.  If an error occurs after the
// file has been opened, the partial output is removed.  The context is
// checked between chunks.
//
// A stream which yields no chunks gives an [EncodeError] wrapping
// [ErrEmptyStream] and leaves no file behind.  Images with empty bounds
// are not affected, since [EncodeWith] encodes them as a single
// transparent pixel.
func (w *Writer) WriteFile(ctx context.Context, src Source, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if name == "" {
		return 0, &SinkOpenError{Path: name, Err: os.ErrInvalid}
	}

	start := time.Now()
	var n int64
	var err error
	if w.Atomic {
		n, err = w.writeAtomic(ctx, src, name)
	} else {
		n, err = w.writeDirect(ctx, src, name)
	}

	log := w.logger()
	if err != nil {
		log.Error("png write failed", "path", name, "bytes", n, "err", err)
		return n, err
	}
	log.Debug("png written",
		"path", name,
		"bytes", n,
		"atomic", w.Atomic,
		"duration", time.Since(start))
	return n, nil
}

func (w *Writer) writeDirect(ctx context.Context, src Source, name string) (int64, error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.perm())
	if err != nil {
		return 0, &SinkOpenError{Path: name, Err: err}
	}

	n, err := copyStream(ctx, f, src.PNGStream(), name, w.OnChunk)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = &SinkWriteError{Path: name, Err: cerr}
	}
	if err != nil {
		_ = os.Remove(name)
		return n, err
	}
	return n, nil
}

func (w *Writer) writeAtomic(ctx context.Context, src Source, name string) (int64, error) {
	if fi, err := os.Stat(name); err == nil && fi.IsDir() {
		return 0, &SinkOpenError{Path: name, Err: errIsDir}
	}

	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return 0, &SinkOpenError{Path: name, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Chmod(w.perm()); err != nil {
		return 0, fail(&SinkOpenError{Path: name, Err: err})
	}
	n, err := copyStream(ctx, tmp, src.PNGStream(), name, w.OnChunk)
	if err != nil {
		return n, fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return n, fail(&SinkWriteError{Path: name, Err: err})
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return n, &SinkWriteError{Path: name, Err: err}
	}
	if err := os.Rename(tmpName, name); err != nil {
		_ = os.Remove(tmpName)
		return n, &SinkWriteError{Path: name, Err: err}
	}
	return n, nil
}

var errIsDir = errors.New("is a directory")

func (w *Writer) perm() os.FileMode {
	if w.Perm == 0 {
		return 0o644
	}
	return w.Perm
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger
}

// Copy writes the chunks of s to dst, in order, and returns the number of
// bytes written.  The context is checked before each chunk.
func Copy(ctx context.Context, dst io.Writer, s Stream) (int64, error) {
	return copyStream(ctx, dst, s, "", nil)
}

func copyStream(ctx context.Context, dst io.Writer, s Stream, name string, onChunk func(int, int)) (int64, error) {
	var total int64
	count := 0
	for chunk, err := range s {
		if err != nil {
			return total, &EncodeError{Err: err}
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := dst.Write(chunk)
		total += int64(n)
		if err == nil && n < len(chunk) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return total, &SinkWriteError{Path: name, Err: err}
		}

		if onChunk != nil {
			onChunk(count, len(chunk))
		}
		count++
	}
	if count == 0 {
		return 0, &EncodeError{Err: ErrEmptyStream}
	}
	return total, nil
}
