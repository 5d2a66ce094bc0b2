/*
Copyright © 2024 the lineselect authors.
This file is part of lineselect.

lineselect is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

lineselect is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with lineselect.  If not, see <http://www.gnu.org/licenses/>.
*/

package lineselect

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// DrawnLine is one line segment drawn by the user, in the spatial
// reference of the capture session.
type DrawnLine struct {
	// Index is the ring-buffer slot holding the line.
	Index int

	Start, End geom.Point

	// Op is the set operation the line applies.
	Op Operation

	Style Style
}

// Geometry returns l as a two-point line string.
func (l DrawnLine) Geometry() geom.LineString {
	return geom.LineString{l.Start, l.End}
}

// Bounds gives the rectangular extent of l.
func (l DrawnLine) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: math.Min(l.Start.X, l.End.X), Y: math.Min(l.Start.Y, l.End.Y)},
		Max: geom.Point{X: math.Max(l.Start.X, l.End.X), Y: math.Max(l.Start.Y, l.End.Y)},
	}
}

// Anchor returns the midpoint of l, where hosts place its label.
func (l DrawnLine) Anchor() geom.Point {
	return geom.Point{X: (l.Start.X + l.End.X) / 2, Y: (l.Start.Y + l.End.Y) / 2}
}

// Degenerate reports whether l has identical endpoints. Axis-aligned
// lines are valid.
func (l DrawnLine) Degenerate() bool {
	return l.Start == l.End
}

// Finite reports whether all of l's coordinates are finite numbers.
func (l DrawnLine) Finite() bool {
	for _, v := range []float64{l.Start.X, l.Start.Y, l.End.X, l.End.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Transform returns a copy of l with both endpoints transformed by t.
// A nil t leaves the coordinates unchanged.
func (l DrawnLine) Transform(t proj.Transformer) (DrawnLine, error) {
	if t == nil {
		return l, nil
	}
	var err error
	o := l
	o.Start.X, o.Start.Y, err = t(l.Start.X, l.Start.Y)
	if err != nil {
		return l, err
	}
	o.End.X, o.End.Y, err = t(l.End.X, l.End.Y)
	if err != nil {
		return l, err
	}
	return o, nil
}
