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

// Command export writes the test case definitions to JSON, so that
// reference images can be produced by independent renderers.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/rendertest/testcases"
)

func main() {
	out := flag.String("o", "testdata/testcases.json", "output file")
	flag.Parse()

	var doc struct {
		TestCases []jsonTestCase `json:"testcases"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			doc.TestCases = append(doc.TestCases, toJSON(category, tc))
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type jsonTestCase struct {
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background []int     `json:"background,omitempty"`
	CTM        []float64 `json:"ctm,omitempty"`
	Ops        []jsonOp  `json:"ops"`
}

type jsonOp struct {
	Op         string        `json:"op"`
	Path       []jsonSegment `json:"path"`
	Color      []int         `json:"color"`
	FillRule   string        `json:"fill_rule,omitempty"`
	LineWidth  float64       `json:"line_width,omitempty"`
	LineCap    string        `json:"line_cap,omitempty"`
	LineJoin   string        `json:"line_join,omitempty"`
	MiterLimit float64       `json:"miter_limit,omitempty"`
	Dash       []float64     `json:"dash,omitempty"`
	DashPhase  float64       `json:"dash_phase,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:   category + "_" + tc.Name,
		Width:  tc.Width,
		Height: tc.Height,
		Ops:    []jsonOp{},
	}
	if tc.Background != nil {
		jtc.Background = rgba(tc.Background)
	}
	if tc.CTM != [6]float64{} {
		jtc.CTM = tc.CTM[:]
	}

	for _, op := range tc.Ops {
		switch op := op.(type) {
		case testcases.Fill:
			jtc.Ops = append(jtc.Ops, jsonOp{
				Op:       "fill",
				Path:     pathToJSON(op.Path),
				Color:    rgba(op.Color),
				FillRule: op.Rule.String(),
			})
		case testcases.Stroke:
			s := op.Style
			jtc.Ops = append(jtc.Ops, jsonOp{
				Op:         "stroke",
				Path:       pathToJSON(op.Path),
				Color:      rgba(op.Color),
				LineWidth:  s.Width,
				LineCap:    s.Cap.String(),
				LineJoin:   s.Join.String(),
				MiterLimit: s.MiterLimit,
				Dash:       s.Dash,
				DashPhase:  s.DashPhase,
			})
		}
	}
	return jtc
}

// rgba returns the non-premultiplied colour components; nil is black.
func rgba(c color.Color) []int {
	if c == nil {
		c = color.Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return []int{int(n.R), int(n.G), int(n.B), int(n.A)}
}

func pathToJSON(p *path.Data) []jsonSegment {
	segs := []jsonSegment{}
	k := 0
	for _, cmd := range p.Cmds {
		var name string
		var n int
		switch cmd {
		case path.CmdMoveTo:
			name, n = "M", 1
		case path.CmdLineTo:
			name, n = "L", 1
		case path.CmdQuadTo:
			name, n = "Q", 2
		case path.CmdCubeTo:
			name, n = "C", 3
		case path.CmdClose:
			name, n = "Z", 0
		}
		seg := jsonSegment{Cmd: name, Pts: make([][]float64, n)}
		for i := range n {
			pt := p.Coords[k+i]
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		k += n
		segs = append(segs, seg)
	}
	return segs
}
