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

package sketch

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/kr/pretty"
	"github.com/spatialmodel/lineselect"
)

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func draw(t *testing.T, s *lineselect.CaptureSession, a, b geom.Point) {
	t.Helper()
	if err := s.Press(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Drag(b); err != nil {
		t.Fatal(err)
	}
	if err := s.Release(b); err != nil {
		t.Fatal(err)
	}
}

func TestSaveReplay(t *testing.T) {
	s := lineselect.NewCaptureSession(nil, nil)
	if err := s.Begin(lineselect.Manual, nil, 3); err != nil {
		t.Fatal(err)
	}
	for i, op := range []lineselect.Operation{lineselect.Add, lineselect.Remove, lineselect.Filter, lineselect.Add} {
		if err := s.SetOperation(op); err != nil {
			t.Fatal(err)
		}
		y := float64(i)
		draw(t, s, pt(-122.5, 37.5+y), pt(-122.25, 37.75+y))
	}

	var buf bytes.Buffer
	if err := FromSession(s, "+proj=longlat").Save(&buf); err != nil {
		t.Fatal(err)
	}
	sk, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if sk.Mode != "manual" || sk.Capacity != 3 || sk.Projection != "+proj=longlat" {
		t.Errorf("sketch header: %+v", sk)
	}
	if len(sk.Lines) != 3 {
		t.Fatalf("saved lines: have %d, want 3", len(sk.Lines))
	}
	saved, err := sk.DrawnLines()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(saved, s.Lines()) {
		t.Errorf("saved lines: have %+v, want %+v", saved, s.Lines())
	}

	s2 := lineselect.NewCaptureSession(nil, nil)
	if err := sk.Replay(s2); err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(s2.Lines(), s.Lines()); len(diff) != 0 {
		t.Errorf("replayed lines differ: %v", diff)
	}
	if s2.Mode() != lineselect.Manual || s2.Capacity() != 3 || s2.SR() == nil {
		t.Errorf("replayed session: mode %v, capacity %d, projection %v", s2.Mode(), s2.Capacity(), s2.SR())
	}
	if err := sk.Replay(s2); err == nil {
		t.Error("replaying into an active session should fail")
	}
}

func TestReplayAutomatic(t *testing.T) {
	const in = `
Mode = "automatic"
Capacity = 4

[[Lines]]
Index = 1
Operation = "filter"
Start = [0.0, 5.0]
End = [10.0, 5.0]

[[Lines]]
Index = 0
Operation = "add"
Start = [0.0, 0.0]
End = [10.0, 0.0]
`
	sk, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	s := lineselect.NewCaptureSession(nil, nil)
	if err := sk.Replay(s); err != nil {
		t.Fatal(err)
	}
	want := []lineselect.DrawnLine{
		{Index: 0, Start: pt(0, 0), End: pt(10, 0), Op: lineselect.Add, Style: lineselect.Add.Style()},
		{Index: 1, Start: pt(0, 5), End: pt(10, 5), Op: lineselect.Filter, Style: lineselect.Filter.Style()},
	}
	if !reflect.DeepEqual(s.Lines(), want) {
		t.Errorf("have %+v, want %+v", s.Lines(), want)
	}
	if s.SR() != nil {
		t.Errorf("projection: have %v, want nil", s.SR())
	}

	t.Run("mismatched operation", func(t *testing.T) {
		bad := sk
		bad.Lines = []Line{{Index: 0, Operation: "remove", Start: []float64{0, 0}, End: []float64{1, 1}}}
		if err := bad.Replay(lineselect.NewCaptureSession(nil, nil)); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("gap", func(t *testing.T) {
		bad := sk
		bad.Lines = sk.Lines[:1]
		if err := bad.Replay(lineselect.NewCaptureSession(nil, nil)); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDrawnLines(t *testing.T) {
	line := func(index int, op string, start, end []float64) Line {
		return Line{Index: index, Operation: op, Start: start, End: end}
	}
	tests := []struct {
		name  string
		lines []Line
	}{
		{name: "no operation", lines: []Line{line(0, "none", []float64{0, 0}, []float64{1, 1})}},
		{name: "bad operation", lines: []Line{line(0, "xor", []float64{0, 0}, []float64{1, 1})}},
		{name: "degenerate", lines: []Line{line(0, "add", []float64{1, 1}, []float64{1, 1})}},
		{name: "short point", lines: []Line{line(0, "add", []float64{1}, []float64{1, 1})}},
		{name: "out of range", lines: []Line{line(5, "add", []float64{0, 0}, []float64{1, 1})}},
		{name: "negative", lines: []Line{line(-1, "add", []float64{0, 0}, []float64{1, 1})}},
		{name: "duplicate", lines: []Line{
			line(0, "add", []float64{0, 0}, []float64{1, 1}),
			line(0, "filter", []float64{0, 1}, []float64{1, 2}),
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sk := Sketch{Mode: "manual", Capacity: 5, Lines: test.lines}
			if _, err := sk.DrawnLines(); err == nil {
				t.Error("expected an error")
			}
		})
	}

	sk := Sketch{Capacity: 5, Lines: []Line{line(0, "a", []float64{0, 0}, []float64{0, 1})}}
	lines, err := sk.DrawnLines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Op != lineselect.Add {
		t.Errorf("axis-aligned line: %+v", lines)
	}
}

func TestEncodeGeoJSON(t *testing.T) {
	lines := []lineselect.DrawnLine{
		{Index: 0, Start: pt(0, 0), End: pt(10, 0), Op: lineselect.Add},
		{Index: 1, Start: pt(1, 2), End: pt(3, 4), Op: lineselect.Remove},
	}
	var buf bytes.Buffer
	if err := EncodeGeoJSON(&buf, lines); err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Type     string
		Features []struct {
			ID       int
			Geometry struct {
				Type        string
				Coordinates [][]float64
			}
			Properties map[string]interface{}
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("have %+v", fc)
	}
	f := fc.Features[1]
	if f.ID != 1 || f.Geometry.Type != "LineString" {
		t.Errorf("feature: %+v", f)
	}
	if want := [][]float64{{1, 2}, {3, 4}}; !reflect.DeepEqual(f.Geometry.Coordinates, want) {
		t.Errorf("coordinates: have %v, want %v", f.Geometry.Coordinates, want)
	}
	if f.Properties["operation"] != "remove" || f.Properties["stroke"] != "#ff8c00" {
		t.Errorf("properties: %v", f.Properties)
	}
	if fc.Features[0].Properties["stroke"] != "#ff0000" {
		t.Errorf("properties: %v", fc.Features[0].Properties)
	}
}
