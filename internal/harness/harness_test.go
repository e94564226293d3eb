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

package harness

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	fcolor "github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"

	"seehuhn.de/go/rendertest/pixeldiff"
	"seehuhn.de/go/rendertest/testcases"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	dir := t.TempDir()
	return &Runner{
		OutputDir:    filepath.Join(dir, "out"),
		ReferenceDir: filepath.Join(dir, "reference"),
		DebugDir:     filepath.Join(dir, "debug"),
		Workers:      3,
		PanelScale:   2,
		Atomic:       true,
	}
}

func mustCases(t *testing.T, filter string) []Case {
	t.Helper()
	cases, err := Cases(filter)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatalf("no cases match %q", filter)
	}
	return cases
}

func writeImage(t *testing.T, name string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateThenPass(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	r.Limiter = rate.NewLimiter(rate.Inf, 1)
	cases := mustCases(t, "fill_")

	r.Update = true
	rep, err := r.Run(ctx, cases)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Updated != len(cases) || !rep.OK() {
		t.Fatalf("update run: %+v", rep)
	}
	for _, c := range cases {
		if _, err := os.Stat(filepath.Join(r.ReferenceDir, c.Stem()+".png")); err != nil {
			t.Errorf("reference for %s: %v", c.Stem(), err)
		}
	}

	r.Update = false
	rep, err = r.Run(ctx, cases)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Passed != len(cases) || !rep.OK() {
		t.Errorf("check run: %d of %d passed", rep.Passed, len(cases))
	}
	if rep.Bytes <= 0 {
		t.Errorf("report claims %d bytes written", rep.Bytes)
	}

	var got, want []string
	for i, res := range rep.Results {
		got = append(got, res.Name)
		want = append(want, cases[i].Stem())
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("result order (-want +got):\n%s", d)
	}
	if _, err := os.Stat(r.DebugDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("debug directory created for passing run")
	}
}

func TestMissingReference(t *testing.T) {
	r := newRunner(t)
	cases := mustCases(t, "degenerate_")
	rep, err := r.Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Missing != len(cases) || rep.OK() {
		t.Errorf("got %d missing of %d, OK=%t", rep.Missing, len(cases), rep.OK())
	}
	for _, res := range rep.Results {
		if res.Status != StatusMissing {
			t.Errorf("%s: status %s", res.Name, res.Status)
		}
	}
}

func TestMismatch(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	cases := mustCases(t, "degenerate_red_pixel")
	if err := os.MkdirAll(r.ReferenceDir, 0o755); err != nil {
		t.Fatal(err)
	}

	blue := image.NewRGBA(image.Rect(0, 0, 1, 1))
	blue.Set(0, 0, color.RGBA{B: 255, A: 255})
	writeImage(t, filepath.Join(r.ReferenceDir, "degenerate_red_pixel.png"), blue)

	rep, err := r.Run(ctx, cases)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 1 {
		t.Fatalf("%d results", len(rep.Results))
	}
	res := rep.Results[0]
	if res.Status != StatusFail || res.Mismatched != 1 {
		t.Fatalf("result %+v", res)
	}
	if res.Debug == "" {
		t.Fatal("no debug image")
	}
	f, err := os.Open(res.Debug)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("debug image: %v", err)
	}

	// a tolerance of one pixel lets the case pass
	r.MaxDiffPixels = 1
	rep, err = r.Run(ctx, cases)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Passed != 1 {
		t.Errorf("with tolerance: %+v", rep.Results[0])
	}
}

func TestDebugWriteFailure(t *testing.T) {
	var logBuf bytes.Buffer
	r := newRunner(t)
	r.Logger = slog.New(slog.NewTextHandler(&logBuf, nil))
	cases := mustCases(t, "degenerate_red_pixel")

	if err := os.MkdirAll(r.ReferenceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	blue := image.NewRGBA(image.Rect(0, 0, 1, 1))
	blue.Set(0, 0, color.RGBA{B: 255, A: 255})
	writeImage(t, filepath.Join(r.ReferenceDir, "degenerate_red_pixel.png"), blue)

	// a directory in place of the debug image makes the write fail
	if err := os.MkdirAll(filepath.Join(r.DebugDir, "degenerate_red_pixel.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	rep, err := r.Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	res := rep.Results[0]
	if res.Status != StatusFail || res.Debug != "" {
		t.Errorf("result %+v", res)
	}
	if !strings.Contains(logBuf.String(), "cannot write debug image") {
		t.Errorf("failure not logged:\n%s", logBuf.String())
	}
}

func TestLimiterError(t *testing.T) {
	r := newRunner(t)
	// a finite rate with zero burst never grants a token
	r.Limiter = rate.NewLimiter(rate.Limit(10), 0)
	cases := mustCases(t, "degenerate_")

	rep, err := r.Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Errors != len(cases) {
		t.Errorf("%d errors for %d cases", rep.Errors, len(cases))
	}
	for _, res := range rep.Results {
		if res.Status != StatusError || res.Err == nil {
			t.Errorf("%s: status %s, err %v", res.Name, res.Status, res.Err)
		}
		if _, err := os.Stat(res.Output); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s: output written despite limiter error", res.Name)
		}
	}
}

func TestSizeMismatch(t *testing.T) {
	r := newRunner(t)
	cases := mustCases(t, "degenerate_red_pixel")
	if err := os.MkdirAll(r.ReferenceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(r.ReferenceDir, "degenerate_red_pixel.png"),
		image.NewRGBA(image.Rect(0, 0, 2, 2)))

	rep, err := r.Run(context.Background(), cases)
	if err != nil {
		t.Fatal(err)
	}
	res := rep.Results[0]
	if res.Status != StatusFail || !errors.Is(res.Err, pixeldiff.ErrSizeMismatch) {
		t.Errorf("result %+v", res)
	}
	if res.Debug == "" {
		t.Error("no debug image")
	}
}

func TestRedPixelOutput(t *testing.T) {
	r := newRunner(t)
	rep, err := r.Run(context.Background(), mustCases(t, "degenerate_red_pixel"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(rep.Results[0].Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	got := color.NRGBAModel.Convert(img.At(0, 0))
	if want := (color.NRGBA{R: 255, A: 255}); got != want {
		t.Errorf("pixel %v, want %v", got, want)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(t)
	r.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	rep, err := r.Run(ctx, mustCases(t, "stroke_"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want %v", err, context.Canceled)
	}
	if len(rep.Results) != 0 {
		t.Errorf("%d results after cancellation", len(rep.Results))
	}
}

func TestDoneCallback(t *testing.T) {
	var calls atomic.Int32
	r := newRunner(t)
	r.Update = true
	r.Done = func(Result) { calls.Add(1) }
	cases := mustCases(t, "dash_")
	if _, err := r.Run(context.Background(), cases); err != nil {
		t.Fatal(err)
	}
	if int(calls.Load()) != len(cases) {
		t.Errorf("%d callbacks for %d cases", calls.Load(), len(cases))
	}
}

func TestCases(t *testing.T) {
	all, err := Cases("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(testcases.Names()) {
		t.Errorf("empty filter selects %d of %d cases", len(all), len(testcases.Names()))
	}

	for _, c := range mustCases(t, "ctm_*") {
		if c.Category != "ctm" {
			t.Errorf("glob selected %s", c.Stem())
		}
	}

	if _, err := Cases("fill_["); err == nil {
		t.Error("malformed glob accepted")
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	first := &Report{
		Started:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration: 1500 * time.Millisecond,
		Results: []Result{
			{Name: "fill_b", Status: StatusPass, Bytes: 100},
			{Name: "fill_a", Status: StatusFail, Mismatched: 7, Bytes: 200},
		},
		Passed: 1,
		Failed: 1,
		Bytes:  300,
	}
	second := &Report{
		Started: first.Started.Add(time.Hour),
		Results: []Result{
			{Name: "fill_c", Status: StatusError, Err: errors.New("disk full")},
		},
		Errors: 1,
	}

	id1, err := h.Save(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := h.Save(ctx, second)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := h.Runs(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id2 || runs[0].Errors != 1 {
		t.Errorf("latest run %+v", runs)
	}

	runs, err = h.Runs(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := Run{
		ID:       id1,
		Started:  first.Started,
		Duration: first.Duration,
		Passed:   1,
		Failed:   1,
		Bytes:    300,
	}
	if len(runs) != 2 {
		t.Fatalf("%d runs, want 2", len(runs))
	}
	if d := cmp.Diff(want, runs[1]); d != "" {
		t.Errorf("first run (-want +got):\n%s", d)
	}

	results, err := h.Results(ctx, id1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Name != "fill_a" || results[0].Status != StatusFail || results[0].Mismatched != 7 {
		t.Errorf("results %+v", results)
	}
	results, err = h.Results(ctx, id2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Err == nil || results[0].Err.Error() != "disk full" {
		t.Errorf("results %+v", results)
	}
}

func TestPrintReport(t *testing.T) {
	old := fcolor.NoColor
	fcolor.NoColor = true
	defer func() { fcolor.NoColor = old }()

	rep := &Report{
		Results: []Result{
			{Name: "fill_a", Status: StatusPass, Bytes: 1500},
			{Name: "fill_b", Status: StatusFail, Mismatched: 1234, Debug: "debug/fill_b.png"},
			{Name: "fill_c", Status: StatusMissing},
		},
		Passed:  1,
		Failed:  1,
		Missing: 1,
		Bytes:   1500,
	}

	var buf bytes.Buffer
	PrintReport(&buf, rep, false)
	out := buf.String()
	for _, want := range []string{
		"FAIL    fill_b",
		"1,234 pixels differ",
		"[debug/fill_b.png]",
		"MISSING fill_c",
		"3 cases: 1 passed, 1 failed, 1 missing, 0 updated; wrote 1.5 kB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "fill_a") {
		t.Errorf("passing case shown without verbose:\n%s", out)
	}

	buf.Reset()
	PrintReport(&buf, rep, true)
	if !strings.Contains(buf.String(), "PASS    fill_a (1.5 kB)") {
		t.Errorf("verbose output:\n%s", buf.String())
	}
}
