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
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// PrintResult writes a one-line summary of res.  Passing cases are only
// shown if verbose is set.
func PrintResult(w io.Writer, res Result, verbose bool) {
	var tag string
	switch res.Status {
	case StatusPass:
		if !verbose {
			return
		}
		tag = color.GreenString("PASS   ")
	case StatusFail:
		tag = color.RedString("FAIL   ")
	case StatusMissing:
		tag = color.YellowString("MISSING")
	case StatusUpdated:
		tag = color.CyanString("UPDATED")
	case StatusError:
		tag = color.HiRedString("ERROR  ")
	}

	line := fmt.Sprintf("%s %s (%s)", tag, res.Name, humanize.Bytes(uint64(max(res.Bytes, 0))))
	switch {
	case res.Err != nil:
		line += ": " + res.Err.Error()
	case res.Status == StatusFail:
		line += fmt.Sprintf(": %s pixels differ", humanize.Comma(int64(res.Mismatched)))
	}
	if res.Debug != "" {
		line += " [" + res.Debug + "]"
	}
	fmt.Fprintln(w, line)
}

// PrintReport writes the results of rep followed by a summary line.
func PrintReport(w io.Writer, rep *Report, verbose bool) {
	for _, res := range rep.Results {
		PrintResult(w, res, verbose)
	}

	failed := fmt.Sprintf("%d failed", rep.Failed+rep.Errors)
	if rep.Failed+rep.Errors > 0 {
		failed = color.RedString("%s", failed)
	}
	missing := fmt.Sprintf("%d missing", rep.Missing)
	if rep.Missing > 0 {
		missing = color.YellowString("%s", missing)
	}
	unit := "cases"
	if len(rep.Results) == 1 {
		unit = "case"
	}
	fmt.Fprintf(w, "%d %s: %s passed, %s, %s, %d updated; wrote %s in %s\n",
		len(rep.Results), unit,
		color.GreenString("%d", rep.Passed),
		failed, missing, rep.Updated,
		humanize.Bytes(uint64(max(rep.Bytes, 0))),
		rep.Duration.Round(time.Millisecond))
}

// PrintRuns lists stored runs, newest first.
func PrintRuns(w io.Writer, runs []Run) {
	for _, run := range runs {
		status := color.GreenString("ok  ")
		if run.Failed+run.Missing+run.Errors > 0 {
			status = color.RedString("FAIL")
		}
		fmt.Fprintf(w, "#%-4d %s %s  %d passed, %d failed, %d missing, %d errors, %s\n",
			run.ID, status,
			humanize.Time(run.Started),
			run.Passed, run.Failed, run.Missing, run.Errors,
			humanize.Bytes(uint64(max(run.Bytes, 0))))
	}
}

// NewProgress creates a progress bar for total cases, drawn on w.
func NewProgress(ctx context.Context, w io.Writer, total int) (*mpb.Progress, *mpb.Bar) {
	p := mpb.NewWithContext(ctx, mpb.WithOutput(w))
	b := p.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding(" ").Rbound("]"),
		mpb.PrependDecorators(decor.Name("Rendering ")),
		mpb.AppendDecorators(
			decor.CountersNoUnit(" %d / %d "),
			decor.AverageETA(decor.ET_STYLE_MMSS),
		),
		mpb.BarRemoveOnComplete(),
	)
	return p, b
}
