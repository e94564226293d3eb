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

// Package harness renders the test scenes, writes them to disk and
// compares them against reference images.
package harness

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"seehuhn.de/go/rendertest/pixeldiff"
	"seehuhn.de/go/rendertest/pngstream"
	"seehuhn.de/go/rendertest/testcases"
)

// Status is the outcome of a single case.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusMissing
	StatusUpdated
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusMissing:
		return "missing"
	case StatusUpdated:
		return "updated"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	for st := StatusPass; st <= StatusError; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Case is a test case together with its category.
type Case struct {
	Category string
	testcases.TestCase
}

// Stem returns the file name of the case, without extension.
func (c Case) Stem() string {
	return c.Category + "_" + c.Name
}

// Cases returns the test cases whose stem matches filter, sorted by stem.
// A filter containing glob meta characters is matched with
// filepath.Match; any other filter selects the stems containing it.
func Cases(filter string) ([]Case, error) {
	glob := strings.ContainsAny(filter, `*?[\`)
	var res []Case
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			c := Case{Category: category, TestCase: tc}
			stem := c.Stem()
			ok := strings.Contains(stem, filter)
			if glob {
				var err error
				ok, err = filepath.Match(filter, stem)
				if err != nil {
					return nil, fmt.Errorf("bad filter %q: %w", filter, err)
				}
			}
			if ok {
				res = append(res, c)
			}
		}
	}
	slices.SortFunc(res, func(a, b Case) int {
		return strings.Compare(a.Stem(), b.Stem())
	})
	return res, nil
}

// Result records the outcome of one case.
type Result struct {
	Name        string
	Status      Status
	Mismatched  int
	AntiAliased int
	Bytes       int64 // size of the rendered PNG file
	Output      string
	Debug       string // debug image, if one was written
	Duration    time.Duration
	Err         error
}

// Report summarises a run.
type Report struct {
	Started  time.Time
	Duration time.Duration
	Results  []Result

	Passed  int
	Failed  int
	Missing int
	Updated int
	Errors  int
	Bytes   int64
}

// OK reports whether every case passed or was updated.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Missing == 0 && r.Errors == 0
}

func (r *Report) add(res Result) {
	switch res.Status {
	case StatusPass:
		r.Passed++
	case StatusFail:
		r.Failed++
	case StatusMissing:
		r.Missing++
	case StatusUpdated:
		r.Updated++
	case StatusError:
		r.Errors++
	}
	r.Bytes += res.Bytes
}

// Runner renders and checks test cases.
// The exported fields must not be changed while Run is in progress.
type Runner struct {
	OutputDir    string
	ReferenceDir string
	DebugDir     string

	// Update replaces the reference images by the rendered output.
	Update bool

	// Workers is the number of cases processed concurrently.
	// Zero means runtime.NumCPU().
	Workers int

	// MaxDiffPixels is the number of mismatched pixels which is
	// tolerated.
	MaxDiffPixels int

	// Diff configures the pixel comparison.  Nil selects the defaults.
	Diff *pixeldiff.Options

	// PanelScale enlarges debug images.
	PanelScale int

	// Compression is used when encoding the rendered output.
	Compression png.CompressionLevel

	// Atomic selects write-then-rename for all files.
	Atomic bool

	// Limiter, if set, limits the rate at which output files are written.
	Limiter *rate.Limiter

	// Logger receives structured events.  Nil discards them.
	Logger *slog.Logger

	// Done, if set, is called after each case.  It may be called
	// concurrently from several goroutines.
	Done func(Result)
}

// Run processes all cases.  Results are reported in the order of cases.
// If ctx is cancelled, the partial report is returned together with the
// context error.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	log := r.logger()
	rep := &Report{Started: time.Now()}

	for _, dir := range []string{r.OutputDir, r.ReferenceDir} {
		if dir == r.ReferenceDir && !r.Update {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(cases), 1))
	log.Info("run started", "cases", len(cases), "workers", workers, "update", r.Update)

	results := make([]Result, len(cases))
	finished := make([]bool, len(cases))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := r.runCase(ctx, cases[i])
				results[i] = res
				finished[i] = true
				if r.Done != nil {
					r.Done(res)
				}
			}
		}()
	}

sendJobs:
	for i := range cases {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break sendJobs
		}
	}
	close(jobs)
	wg.Wait()

	for i, res := range results {
		if finished[i] && !isCancel(res.Err) {
			rep.Results = append(rep.Results, res)
			rep.add(res)
		}
	}
	rep.Duration = time.Since(rep.Started)

	log.Info("run finished",
		"passed", rep.Passed,
		"failed", rep.Failed,
		"missing", rep.Missing,
		"updated", rep.Updated,
		"errors", rep.Errors,
		"bytes", rep.Bytes,
		"duration", rep.Duration)

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (r *Runner) writer() *pngstream.Writer {
	return &pngstream.Writer{Atomic: r.Atomic, Logger: r.Logger}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func loadPNG(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
