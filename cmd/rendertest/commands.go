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

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"seehuhn.de/go/rendertest/internal/harness"
	"seehuhn.de/go/rendertest/pngstream"
	"seehuhn.de/go/rendertest/testcases"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List the available cases",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			cases, err := harness.Cases(filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cases {
				fmt.Fprintf(out, "%-40s %dx%d\n", c.Stem(), c.Width, c.Height)
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.History == "" {
				return fmt.Errorf("no history database configured")
			}
			h, err := harness.OpenHistory(a.cfg.History)
			if err != nil {
				return err
			}
			defer h.Close()

			runs, err := h.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			harness.PrintRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 = all)")
	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write <case> <file.png>",
		Short: "Render a single case and write it to a PNG file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tc, ok := testcases.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown case %q", args[0])
			}

			cv := testcases.Render(tc)
			cv.SetCompression(a.cfg.PNGCompression())
			w := &pngstream.Writer{
				Atomic: a.cfg.AtomicWrites(),
				Logger: a.log,
			}
			n, err := w.WriteFile(cmd.Context(), cv, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", humanize.Bytes(uint64(n)), args[1])
			return nil
		},
	}
}
