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

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"golang.org/x/time/rate"

	"seehuhn.de/go/rendertest/internal/harness"
	"seehuhn.de/go/rendertest/pixeldiff"
)

type runOptions struct {
	filter     string
	update     bool
	workers    int
	noProgress bool
	noColor    bool
	history    string
	verbose    bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render all cases and compare them with the reference images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("workers") {
				cfg.Workers = opts.workers
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("history") {
				cfg.History = opts.history
			}

			out := cmd.OutOrStdout()
			if opts.noColor || !isTerminal(out) {
				color.NoColor = true
			}

			cases, err := harness.Cases(opts.filter)
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				return fmt.Errorf("no cases match %q", opts.filter)
			}

			diff := pixeldiff.DefaultOptions()
			diff.Threshold = cfg.MatchThreshold()
			diff.IncludeAA = cfg.IncludeAA
			r := &harness.Runner{
				OutputDir:     cfg.OutputDir,
				ReferenceDir:  cfg.ReferenceDir,
				DebugDir:      cfg.DebugDir,
				Update:        opts.update,
				Workers:       cfg.Workers,
				MaxDiffPixels: cfg.MaxDiffPixels,
				Diff:          diff,
				PanelScale:    cfg.PanelScale,
				Compression:   cfg.PNGCompression(),
				Atomic:        cfg.AtomicWrites(),
				Logger:        a.log,
			}
			if cfg.RateLimit > 0 {
				r.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
			}

			ctx := cmd.Context()
			var progress *mpb.Progress
			var bar *mpb.Bar
			stderr := cmd.ErrOrStderr()
			if !opts.noProgress && isTerminal(stderr) {
				progress, bar = harness.NewProgress(ctx, stderr, len(cases))
				r.Done = func(harness.Result) { bar.Increment() }
			}

			rep, err := r.Run(ctx, cases)
			if progress != nil {
				if !bar.Completed() {
					bar.Abort(true)
				}
				progress.Wait()
			}
			if rep == nil {
				return err
			}

			harness.PrintReport(out, rep, opts.verbose)

			if cfg.History != "" {
				h, herr := harness.OpenHistory(cfg.History)
				if herr != nil {
					a.log.Error("cannot open history", "path", cfg.History, "err", herr)
				} else {
					defer h.Close()
					if id, herr := h.Save(ctx, rep); herr != nil {
						a.log.Error("cannot save run", "path", cfg.History, "err", herr)
					} else {
						a.log.Info("run saved", "id", id, "path", cfg.History)
					}
				}
			}

			if err != nil {
				return err
			}
			if !rep.OK() {
				return errFailed
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.filter, "filter", "f", "", "only run cases whose name contains or matches this pattern")
	flags.BoolVarP(&opts.update, "update", "u", false, "store the rendered images as new references")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "number of cases rendered in parallel (0 = number of CPUs)")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	flags.StringVar(&opts.history, "history", "", "record the run in this SQLite database")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "also list passing cases")
	return cmd
}
