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

package raster

import (
	"math"
	"slices"
)

// dash cuts the flattened subpaths into dashes according to Dash and
// DashPhase.  The dashes are stored in r.dashSegs and r.dashOffsets.
// A dash of length zero is stored as a single segment with A == B, which
// keeps the direction of the path at that point.
func (r *Rasteriser) dash() {
	r.dashSegs = r.dashSegs[:0]
	r.dashOffsets = r.dashOffsets[:0]

	pattern := r.Dash
	np := len(pattern)

	// odd-length patterns are repeated once, to alternate on and off
	period := 0.0
	for _, l := range pattern {
		period += l
	}
	if np%2 == 1 {
		period *= 2
	}
	if period <= 0 {
		return
	}
	phase := math.Mod(r.DashPhase, period)
	if phase < 0 {
		phase += period
	}

	for sp := range r.segsOffsets {
		segs := part(r.segs, r.segsOffsets, sp)
		if len(segs) == 0 {
			continue
		}
		closed := r.subpathClosed[sp]

		// find the dash containing the start of the subpath
		idx := 0
		skip := phase
		for skip >= pattern[idx%np] && pattern[idx%np] > 0 {
			skip -= pattern[idx%np]
			idx++
		}
		left := pattern[idx%np] - skip
		on := idx%2 == 0

		if on && left == 0 {
			// zero-length dash right at the start
			s := segs[0]
			r.dashOffsets = append(r.dashOffsets, len(r.dashSegs))
			r.dashSegs = append(r.dashSegs, segment{A: s.A, B: s.A, T: s.T, N: s.N})
			idx++
			left = pattern[idx%np]
			on = idx%2 == 0
		}

		startsOn := on
		firstStart, firstEnd := -1, -1
		dashStart := len(r.dashSegs)

		i := 0
		pos := 0.0 // distance along segs[i]
		for i < len(segs) {
			s := segs[i]
			l := s.B.Sub(s.A).Length()
			rest := l - pos

			if left >= rest {
				// the current dash extends beyond this segment
				if on {
					if pos > 0 {
						s.A = s.A.Add(s.B.Sub(s.A).Mul(pos / l))
					}
					r.dashSegs = append(r.dashSegs, s)
				}
				left -= rest
				i++
				pos = 0
				continue
			}

			// the current dash ends inside this segment
			end := pos + left
			split := s.A.Add(s.B.Sub(s.A).Mul(end / l))
			if on {
				from := s.A.Add(s.B.Sub(s.A).Mul(pos / l))
				v := split.Sub(from)
				if vl := v.Length(); vl > zeroLengthThreshold {
					t := v.Mul(1 / vl)
					r.dashSegs = append(r.dashSegs, segment{A: from, B: split, T: t, N: normal(t)})
				} else if len(r.dashSegs) == dashStart {
					r.dashSegs = append(r.dashSegs, segment{A: from, B: from, T: s.T, N: s.N})
				}

				if firstStart < 0 && len(r.dashSegs) > dashStart {
					firstStart, firstEnd = dashStart, len(r.dashSegs)
				}
				if len(r.dashSegs) > dashStart {
					r.dashOffsets = append(r.dashOffsets, dashStart)
					dashStart = len(r.dashSegs)
				}
			}

			pos = end
			idx++
			left = pattern[idx%np]
			on = idx%2 == 0
		}

		if len(r.dashSegs) > dashStart {
			if closed && startsOn && on && firstStart >= 0 {
				// On a closed subpath the last dash continues into the
				// first one.
				r.dashSegs = append(r.dashSegs, r.dashSegs[firstStart:firstEnd]...)
				if r.dashOffsets[0] == firstStart {
					r.dashOffsets = slices.Delete(r.dashOffsets, 0, 1)
				}
			}
			r.dashOffsets = append(r.dashOffsets, dashStart)
		}
	}
}
