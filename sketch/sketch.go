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

// Package sketch saves and restores the lines drawn in a capture session.
//
// Sketches are TOML files such as
//
//	Mode = "manual"
//	Projection = "+proj=longlat"
//	Capacity = 5
//
//	[[Lines]]
//	Index = 0
//	Operation = "add"
//	Start = [-122.4, 37.7]
//	End = [-122.3, 37.8]
package sketch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/proj"
	"github.com/spatialmodel/lineselect"
)

// Sketch is the saved form of a capture session.
type Sketch struct {
	// Mode is "automatic" or "manual".
	Mode string

	// Projection is the spatial reference of the line coordinates, in a
	// form understood by proj.Parse. It may be empty if the coordinates are
	// in the spatial reference of the target layer.
	Projection string

	// Capacity is the number of slots in the session.
	Capacity int

	Lines []Line
}

// Line is a saved drawn line.
type Line struct {
	Index     int
	Operation string
	Start     []float64
	End       []float64
}

// FromSession returns a sketch of the lines committed in s. projection
// describes the spatial reference of s.
func FromSession(s *lineselect.CaptureSession, projection string) Sketch {
	sk := Sketch{
		Mode:       s.Mode().String(),
		Projection: projection,
		Capacity:   s.Capacity(),
	}
	for _, l := range s.Lines() {
		sk.Lines = append(sk.Lines, Line{
			Index:     l.Index,
			Operation: l.Op.String(),
			Start:     []float64{l.Start.X, l.Start.Y},
			End:       []float64{l.End.X, l.End.Y},
		})
	}
	return sk
}

// Load reads a sketch from r.
func Load(r io.Reader) (Sketch, error) {
	var sk Sketch
	if _, err := toml.DecodeReader(r, &sk); err != nil {
		return Sketch{}, fmt.Errorf("sketch: decoding: %v", err)
	}
	if sk.Capacity == 0 {
		sk.Capacity = lineselect.DefaultCapacity
	}
	return sk, nil
}

// Save writes sk to w.
func (sk Sketch) Save(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(sk); err != nil {
		return fmt.Errorf("sketch: encoding: %v", err)
	}
	return nil
}

// SR parses the projection of sk. It returns nil if the projection is
// empty.
func (sk Sketch) SR() (*proj.SR, error) {
	if sk.Projection == "" {
		return nil, nil
	}
	sr, err := proj.Parse(sk.Projection)
	if err != nil {
		return nil, fmt.Errorf("sketch: parsing projection %q: %v", sk.Projection, err)
	}
	return sr, nil
}

// DrawnLines returns the drawn lines of sk in index order. Lines must have
// distinct indices within the capacity of the sketch, a valid operation
// and distinct endpoints.
func (sk Sketch) DrawnLines() ([]lineselect.DrawnLine, error) {
	o := make([]lineselect.DrawnLine, len(sk.Lines))
	seen := make(map[int]bool)
	for i, l := range sk.Lines {
		if l.Index < 0 || (sk.Capacity > 0 && l.Index >= sk.Capacity) {
			return nil, fmt.Errorf("sketch: line %d: index %d is outside of capacity %d", i, l.Index, sk.Capacity)
		}
		if seen[l.Index] {
			return nil, fmt.Errorf("sketch: line %d: duplicate index %d", i, l.Index)
		}
		seen[l.Index] = true
		op, err := lineselect.ParseOperation(l.Operation)
		if err != nil {
			return nil, fmt.Errorf("sketch: line %d: %v", l.Index, err)
		}
		if !op.Valid() {
			return nil, fmt.Errorf("sketch: line %d: no operation", l.Index)
		}
		start, err := point(l.Start)
		if err != nil {
			return nil, fmt.Errorf("sketch: line %d: start: %v", l.Index, err)
		}
		end, err := point(l.End)
		if err != nil {
			return nil, fmt.Errorf("sketch: line %d: end: %v", l.Index, err)
		}
		dl := lineselect.DrawnLine{Index: l.Index, Start: start, End: end, Op: op, Style: op.Style()}
		if dl.Degenerate() {
			return nil, fmt.Errorf("sketch: line %d: start and end are the same point", l.Index)
		}
		o[i] = dl
	}
	sort.Slice(o, func(i, j int) bool { return o[i].Index < o[j].Index })
	return o, nil
}

func point(c []float64) (geom.Point, error) {
	if len(c) != 2 {
		return geom.Point{}, fmt.Errorf("have %d coordinates, want 2", len(c))
	}
	return geom.Point{X: c[0], Y: c[1]}, nil
}

// Replay begins a session in s and draws the lines of sk into it, so that
// s holds the same lines as the session sk was saved from. s must be idle.
// The lines must fill the slots from 0 without gaps, and in automatic mode
// their operations must match the ones the mode assigns.
func (sk Sketch) Replay(s *lineselect.CaptureSession) error {
	mode, err := lineselect.ParseMode(sk.Mode)
	if err != nil {
		return fmt.Errorf("sketch: %v", err)
	}
	sr, err := sk.SR()
	if err != nil {
		return err
	}
	lines, err := sk.DrawnLines()
	if err != nil {
		return err
	}
	for i, l := range lines {
		if l.Index != i {
			return fmt.Errorf("sketch: slot %d is empty", i)
		}
	}
	if err := s.Begin(mode, sr, sk.Capacity); err != nil {
		return fmt.Errorf("sketch: %v", err)
	}
	for _, l := range lines {
		if mode == lineselect.Manual {
			if err := s.SetOperation(l.Op); err != nil {
				return fmt.Errorf("sketch: line %d: %v", l.Index, err)
			}
		} else if s.Pending() != l.Op {
			return fmt.Errorf("sketch: line %d: operation %v does not match automatic mode (%v)", l.Index, l.Op, s.Pending())
		}
		if err := s.Press(l.Start); err != nil {
			return fmt.Errorf("sketch: line %d: %v", l.Index, err)
		}
		if err := s.Drag(l.End); err != nil {
			return fmt.Errorf("sketch: line %d: %v", l.Index, err)
		}
		if err := s.Release(l.End); err != nil {
			return fmt.Errorf("sketch: line %d: %v", l.Index, err)
		}
	}
	return nil
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*feature `json:"features"`
}

type feature struct {
	Type       string                 `json:"type"`
	ID         int                    `json:"id"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// EncodeGeoJSON writes lines to w as a GeoJSON FeatureCollection of
// LineStrings, with the slot index as the feature id and the operation
// and display color as properties.
func EncodeGeoJSON(w io.Writer, lines []lineselect.DrawnLine) error {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]*feature, len(lines))}
	for i, l := range lines {
		g, err := geojson.ToGeoJSON(l.Geometry())
		if err != nil {
			return fmt.Errorf("sketch: line %d: %v", l.Index, err)
		}
		c := l.Op.Style().Color
		fc.Features[i] = &feature{
			Type:     "Feature",
			ID:       l.Index,
			Geometry: g,
			Properties: map[string]interface{}{
				"index":     l.Index,
				"operation": l.Op.String(),
				"stroke":    fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			},
		}
	}
	return json.NewEncoder(w).Encode(fc)
}
