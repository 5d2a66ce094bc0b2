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

package tui

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ctessum/geom"
	"github.com/kr/pretty"
	"github.com/spatialmodel/lineselect"
	"github.com/spatialmodel/lineselect/layer"
	"github.com/spatialmodel/lineselect/sketch"
)

// testLayer has vertical lines at x = 2, 5 and 8. In a 40x20 cell map the
// layer is shown at 0.1375 units per pixel around (5, 5), so screen row
// 11 is at y = 4.725, column 0 at x = -0.3625, column 16 at x = 4.0375
// and column 39 at x = 10.3625.
func testLayer(t *testing.T) *layer.Layer {
	l, err := layer.New("roads", nil, []lineselect.Feature{
		{ID: 1, Geom: geom.LineString{{X: 2, Y: 0}, {X: 2, Y: 10}}},
		{ID: 2, Geom: geom.LineString{{X: 5, Y: 0}, {X: 5, Y: 10}}},
		{ID: 3, Geom: geom.LineString{{X: 8, Y: 0}, {X: 8, Y: 10}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func newModel(t *testing.T, opts Options) Model {
	m, err := New(testLayer(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	return send(m, tea.WindowSizeMsg{Width: 40, Height: 23})
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		u, _ := m.Update(msg)
		m = u.(Model)
	}
	return m
}

func drag(x0, x1, y int) []tea.Msg {
	return []tea.Msg{
		tea.MouseMsg{X: x0, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: (x0 + x1) / 2, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x1, Y: y, Action: tea.MouseActionRelease},
	}
}

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selected(t *testing.T, m Model) []lineselect.FeatureID {
	if m.Result() == nil {
		t.Fatalf("no result; status: %s", m.status)
	}
	return m.Result().Selection.Sorted()
}

func TestDrawAndSelect(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, drag(0, 39, 11)...)
	m = send(m, key("enter"))
	if want, have := []lineselect.FeatureID{1, 2, 3}, selected(t, m); !reflect.DeepEqual(want, have) {
		t.Errorf("first line: want %v, have %v", want, have)
	}
	if len(m.overlay.bands) != 0 {
		t.Errorf("rubber band not removed after commit: %v", m.overlay.bands)
	}
	if _, ok := m.overlay.labels[0]; !ok {
		t.Errorf("no label for line 1")
	}

	m = send(m, drag(0, 16, 11)...)
	m = send(m, key("enter"))
	if want, have := []lineselect.FeatureID{1}, selected(t, m); !reflect.DeepEqual(want, have) {
		t.Errorf("filter line: want %v, have %v", want, have)
	}
	lines := m.Session().Lines()
	var ops []lineselect.Operation
	for _, l := range lines {
		ops = append(ops, l.Op)
	}
	if want := []lineselect.Operation{lineselect.Add, lineselect.Filter}; !reflect.DeepEqual(want, ops) {
		t.Errorf("operations: want %v, have %v", want, ops)
	}
	if m.Result().Applied != 2 {
		t.Errorf("applied: want 2, have %d", m.Result().Applied)
	}
}

func TestManualMode(t *testing.T) {
	m := newModel(t, Options{Mode: lineselect.Manual, Initial: lineselect.NewSelection(1, 2, 3)})
	m = send(m, drag(0, 16, 11)...)
	if m.Session().Len() != 0 {
		t.Errorf("line without operation was stored")
	}
	if !strings.Contains(m.status, "choose an operation") {
		t.Errorf("status: %q", m.status)
	}

	m = send(m, key("r"))
	if m.Session().Pending() != lineselect.Remove {
		t.Fatalf("pending: %v", m.Session().Pending())
	}
	m = send(m, drag(0, 16, 11)...)
	m = send(m, key("enter"))
	if want, have := []lineselect.FeatureID{2, 3}, selected(t, m); !reflect.DeepEqual(want, have) {
		t.Errorf("want %v, have %v", want, have)
	}
}

func TestOperationKeyInAutomaticMode(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, key("f"))
	if !strings.HasPrefix(m.status, "error: ") {
		t.Errorf("status: %q", m.status)
	}
	if m.Session().Pending() != lineselect.Add {
		t.Errorf("pending: %v", m.Session().Pending())
	}
}

func TestDegenerateLine(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, drag(5, 5, 11)...)
	if m.Session().Len() != 0 {
		t.Errorf("degenerate line stored")
	}
	if !strings.Contains(m.status, "discarded") {
		t.Errorf("status: %q", m.status)
	}
	if m.Session().State() != lineselect.Capturing {
		t.Errorf("state: %v", m.Session().State())
	}
}

func TestPressOutsideMap(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Session().State() != lineselect.Capturing {
		t.Errorf("press on header started a line")
	}
	m = send(m, tea.MouseMsg{X: 3, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if m.Session().State() != lineselect.Capturing {
		t.Errorf("right button started a line")
	}
}

func TestEscapeAbandonsLine(t *testing.T) {
	m := newModel(t, Options{})
	msgs := drag(0, 39, 11)
	m = send(m, msgs[0], msgs[1], key("esc"), msgs[2])
	if m.Session().Len() != 0 {
		t.Errorf("abandoned line was stored")
	}
	if len(m.overlay.bands) != 0 {
		t.Errorf("rubber band left behind")
	}
}

func TestRestart(t *testing.T) {
	m := newModel(t, Options{KeepSelection: true})
	m = send(m, drag(0, 39, 11)...)
	m = send(m, key("enter"), key("c"))
	if m.Session().Len() != 0 || m.Result() != nil {
		t.Errorf("clear kept lines or result")
	}
	if len(m.overlay.labels) != 0 {
		t.Errorf("labels left after clear: %v", m.overlay.labels)
	}
	if want, have := []lineselect.FeatureID{1, 2, 3}, m.initial.Sorted(); !reflect.DeepEqual(want, have) {
		t.Errorf("kept selection: want %v, have %v", want, have)
	}

	m = send(m, key("m"))
	if m.Session().Mode() != lineselect.Manual || m.Session().State() != lineselect.Capturing {
		t.Errorf("mode toggle: %v %v", m.Session().Mode(), m.Session().State())
	}
	m = send(m, key("m"))
	if m.Session().Mode() != lineselect.Automatic {
		t.Errorf("mode toggle back: %v", m.Session().Mode())
	}
}

func TestResultCache(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, drag(0, 39, 11)...)
	m = send(m, key("enter"))
	r := m.Result()
	m = send(m, key("enter"))
	if m.Result() != r {
		t.Errorf("result was recomputed")
	}
	if len(m.cache) != 1 {
		t.Errorf("cache size: %d", len(m.cache))
	}
	m = send(m, drag(0, 16, 11)...)
	m = send(m, key("enter"))
	if len(m.cache) != 2 {
		t.Errorf("cache size after new line: %d", len(m.cache))
	}
}

func TestSaveAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.toml")
	m := newModel(t, Options{SketchPath: path})
	m = send(m, drag(0, 39, 11)...)
	m = send(m, drag(0, 16, 11)...)
	m = send(m, key("s"))
	if strings.HasPrefix(m.status, "error: ") {
		t.Fatal(m.status)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sk, err := sketch.Load(f)
	if err != nil {
		t.Fatal(err)
	}

	m2, err := New(testLayer(t), Options{Sketch: &sk})
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(m.Session().Lines(), m2.Session().Lines()); len(diff) > 0 {
		t.Errorf("replayed lines differ: %v", diff)
	}

	if _, err := New(testLayer(t), Options{Sketch: &sk, Projection: "+proj=longlat"}); err == nil {
		t.Errorf("expected projection mismatch error")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, key("s"))
	if !strings.HasPrefix(m.status, "error: ") {
		t.Errorf("status: %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newModel(t, Options{})
			m = send(m, drag(0, 39, 11)...)
			u, cmd := m.Update(key(k))
			m = u.(Model)
			if cmd == nil {
				t.Errorf("no quit command")
			}
			if m.Session().State() != lineselect.Idle {
				t.Errorf("session not ended: %v", m.Session().State())
			}
			if m.View() != "" {
				t.Errorf("view after quit should be empty")
			}
		})
	}
}

func TestView(t *testing.T) {
	m := newModel(t, Options{})
	m = send(m, drag(0, 39, 11)...)
	v := m.View()
	if n := strings.Count(v, "\n") + 1; n != 23 {
		t.Errorf("view has %d lines, want 23", n)
	}
	if !strings.Contains(v, "lineselect") {
		t.Errorf("missing header")
	}
	braille := false
	for _, r := range v {
		if r > 0x2800 && r <= 0x28FF {
			braille = true
			break
		}
	}
	if !braille {
		t.Errorf("nothing drawn")
	}
}

func TestZoomAndPan(t *testing.T) {
	m := newModel(t, Options{})
	s := m.view.scale
	m = send(m, key("+"))
	if math.Abs(m.view.scale-s/zoomStep) > 1e-12 {
		t.Errorf("zoom in: scale %g", m.view.scale)
	}
	m = send(m, key("-"))
	if math.Abs(m.view.scale-s) > 1e-12 {
		t.Errorf("zoom out: scale %g", m.view.scale)
	}
	c := m.view.center
	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.view.center.X <= c.X {
		t.Errorf("pan right did not move the view")
	}
	m = send(m, key("0"))
	if m.view.center != c {
		t.Errorf("fit: want %v, have %v", c, m.view.center)
	}
}
