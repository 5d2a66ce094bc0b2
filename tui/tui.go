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

// Package tui is a terminal map for drawing selection lines over a layer.
// It hosts a lineselect.CaptureSession: mouse drags become drawn lines and
// pressing enter selects the layer features they cross.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lineselect"
	"github.com/spatialmodel/lineselect/internal/hash"
	"github.com/spatialmodel/lineselect/layer"
	"github.com/spatialmodel/lineselect/sketch"
)

const (
	headerHeight = 1
	footerHeight = 2
	zoomStep     = 1.2
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")

	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	inkStyles = map[ink]lipgloss.Style{
		inkFeature:  lipgloss.NewStyle().Foreground(baseDimFg),
		inkSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
		inkAdd:      lipgloss.NewStyle().Foreground(opColor(lineselect.Add)),
		inkFilter:   lipgloss.NewStyle().Foreground(opColor(lineselect.Filter)),
		inkRemove:   lipgloss.NewStyle().Foreground(opColor(lineselect.Remove)),
		inkLabel:    lipgloss.NewStyle().Foreground(baseFg).Bold(true),
	}
)

func opColor(op lineselect.Operation) lipgloss.Color {
	c := op.Style().Color
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// Options configure a Model.
type Options struct {
	// Mode is the tagging mode the session starts in.
	Mode lineselect.Mode

	// Capacity is the number of lines kept. Zero means
	// lineselect.DefaultCapacity.
	Capacity int

	// Initial is the selection the drawn lines are applied to.
	Initial lineselect.Selection

	// KeepSelection makes the last computed selection the initial
	// selection of the next session when the session is restarted.
	KeepSelection bool

	// SketchPath is where the drawn lines are saved. Saving is disabled
	// if it is empty.
	SketchPath string

	// Projection is written to saved sketches. It describes the spatial
	// reference of the layer.
	Projection string

	// Sketch, if set, is replayed into the session at start. Its
	// coordinates must be in the spatial reference of the layer.
	Sketch *sketch.Sketch

	Log logrus.FieldLogger
}

// Model is a bubbletea model that draws a layer and the lines of a
// capture session, and computes selections from them.
type Model struct {
	layer   *layer.Layer
	session *lineselect.CaptureSession
	overlay *overlay
	engine  *lineselect.Engine
	opts    Options
	log     logrus.FieldLogger

	width, height int
	view          viewport
	fitted        bool

	initial lineselect.Selection
	result  *lineselect.Result
	cache   map[string]*lineselect.Result

	status   string
	quitting bool
}

// New returns a model with an active capture session over l.
func New(l *layer.Layer, opts Options) (Model, error) {
	if l == nil {
		return Model{}, errors.New("tui: no layer")
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Capacity == 0 {
		opts.Capacity = lineselect.DefaultCapacity
	}
	ov := newOverlay()
	m := Model{
		layer:   l,
		session: lineselect.NewCaptureSession(ov, opts.Log),
		overlay: ov,
		engine:  lineselect.NewEngine(opts.Log),
		opts:    opts,
		log:     opts.Log,
		initial: opts.Initial.Clone(),
		cache:   make(map[string]*lineselect.Result),
		status:  "drag to draw a line; enter to select",
	}
	if opts.Sketch != nil {
		if opts.Sketch.Projection != opts.Projection {
			return Model{}, fmt.Errorf("tui: sketch projection %q does not match layer projection %q",
				opts.Sketch.Projection, opts.Projection)
		}
		if err := opts.Sketch.Replay(m.session); err != nil {
			return Model{}, fmt.Errorf("tui: %v", err)
		}
		m.status = fmt.Sprintf("replayed %d lines", m.session.Len())
		return m, nil
	}
	if err := m.session.Begin(opts.Mode, l.SR, opts.Capacity); err != nil {
		return Model{}, fmt.Errorf("tui: %v", err)
	}
	return m, nil
}

// Run shows m in the terminal until the user quits, and returns the final
// model.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("tui: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("tui: unexpected model type %T", final)
	}
	return fm, nil
}

// Result returns the last computed selection, or nil if none has been
// computed in the current session.
func (m Model) Result() *lineselect.Result { return m.result }

// Session returns the capture session driven by m.
func (m Model) Session() *lineselect.CaptureSession { return m.session }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := max(msg.Width, 1), max(msg.Height-headerHeight-footerHeight, 1)
		if !m.fitted {
			m.view = fit(m.layer.Bounds(), w, h)
			m.fitted = true
		} else {
			m.view.w, m.view.h = w, h
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m *Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c":
		m.session.Reset()
		m.quitting = true
		return *m, tea.Quit
	case "a", "f", "r":
		op, _ := lineselect.ParseOperation(k)
		if err := m.session.SetOperation(op); err != nil {
			m.fail(err)
			break
		}
		m.status = fmt.Sprintf("next line: %v", op)
	case "m":
		mode := lineselect.Manual
		if m.session.Mode() == lineselect.Manual {
			mode = lineselect.Automatic
		}
		if err := m.restart(mode); err != nil {
			m.fail(err)
			break
		}
		m.status = fmt.Sprintf("%v mode", mode)
	case "c":
		if err := m.restart(m.session.Mode()); err != nil {
			m.fail(err)
			break
		}
		m.status = "lines cleared"
	case "s":
		if err := m.save(); err != nil {
			m.fail(err)
			break
		}
		m.status = "saved " + m.opts.SketchPath
	case "enter":
		if err := m.compute(); err != nil {
			m.fail(err)
			break
		}
		m.status = fmt.Sprintf("%d selected; %s", m.result.Selection.Len(), m.result.Summary())
	case "esc":
		m.session.Deactivate()
	case "+", "=":
		m.view.zoom(zoomStep)
	case "-":
		m.view.zoom(1 / zoomStep)
	case "0":
		m.view = fit(m.layer.Bounds(), m.view.w, m.view.h)
	case "up":
		m.view.pan(0, -1)
	case "down":
		m.view.pan(0, 1)
	case "left":
		m.view.pan(-2, 0)
	case "right":
		m.view.pan(2, 0)
	}
	return *m, nil
}

// mouse drives the capture session. Lines are started only inside the
// map area but may be finished anywhere.
func (m *Model) mouse(msg tea.MouseMsg) {
	cx, cy := msg.X, msg.Y-headerHeight
	p := m.view.point(cx, cy)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || cx < 0 || cy < 0 || cx >= m.view.w || cy >= m.view.h {
			return
		}
		if m.session.State() != lineselect.Capturing {
			return
		}
		if m.session.Pending() == lineselect.OpNone {
			m.status = "choose an operation first: a add, f filter, r remove"
		}
		if err := m.session.Press(p); err != nil {
			m.fail(err)
		}
	case tea.MouseActionMotion:
		if m.session.State() == lineselect.DrawingLine {
			if err := m.session.Drag(p); err != nil {
				m.fail(err)
			}
		}
	case tea.MouseActionRelease:
		if m.session.State() != lineselect.DrawingLine {
			return
		}
		m.overlay.note = ""
		if err := m.session.Release(p); err != nil {
			m.fail(err)
			return
		}
		if m.overlay.note != "" {
			m.status = m.overlay.note
		}
	}
}

// restart ends the session and begins a new one in mode.
func (m *Model) restart(mode lineselect.Mode) error {
	if m.opts.KeepSelection && m.result != nil {
		m.initial = m.result.Selection.Clone()
	}
	m.result = nil
	capacity := m.session.Capacity()
	if capacity < 1 {
		capacity = m.opts.Capacity
	}
	m.session.Reset()
	return m.session.Begin(mode, m.layer.SR, capacity)
}

// compute runs the selection engine over the committed lines. Results
// are reused while the initial selection and the lines are unchanged.
func (m *Model) compute() error {
	lines := m.session.Lines()
	key := hash.Key(m.initial.Sorted(), lines)
	if r, ok := m.cache[key]; ok {
		m.result = r
		return nil
	}
	t, err := m.layer.Transformer(m.session.SR())
	if err != nil {
		return err
	}
	r, err := m.engine.ComputeSelection(m.initial, lines, m.layer, t)
	if err != nil {
		return err
	}
	m.cache[key] = r
	m.result = r
	return nil
}

func (m *Model) save() error {
	if m.opts.SketchPath == "" {
		return errors.New("tui: no sketch file set")
	}
	f, err := os.Create(m.opts.SketchPath)
	if err != nil {
		return fmt.Errorf("tui: %v", err)
	}
	if err := sketch.FromSession(m.session, m.opts.Projection).Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Model) fail(err error) {
	m.log.WithError(err).Warn("tui: command failed")
	m.status = "error: " + err.Error()
}

// selection returns the selection being shown.
func (m Model) selection() lineselect.Selection {
	if m.result != nil {
		return m.result.Selection
	}
	return m.initial
}

func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}
	header := titleStyle.Render(fmt.Sprintf(" lineselect ─ %s ", m.layer.Name))
	body := m.draw().render(inkStyles)
	status := dimStyle.Render(" " + m.statusLine() + " ")
	if strings.HasPrefix(m.status, "error: ") {
		status = errStyle.Render(" " + m.statusLine() + " ")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, m.renderHelp())
}

func (m Model) statusLine() string {
	return fmt.Sprintf("%v │ next: %v │ lines %d/%d │ selected %d │ %s",
		m.session.Mode(), m.session.Pending(), m.session.Len(), m.session.Capacity(),
		m.selection().Len(), m.status)
}

func (m Model) renderHelp() string {
	keys := []string{
		"drag draw",
		"enter select",
		"a/f/r operation",
		"m mode",
		"c clear",
		"s save",
		"+/- zoom",
		"↑↓←→ pan",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

// draw renders the layer, the committed lines, the rubber bands and the
// labels.
func (m Model) draw() *canvas {
	c := newCanvas(m.view.w, m.view.h)
	sel := m.selection()
	if fs, err := m.layer.Candidates(m.view.bounds()); err == nil {
		for _, f := range fs {
			k := inkFeature
			if sel.Contains(f.ID) {
				k = inkSelected
			}
			m.drawGeom(c, f.Geom, k)
		}
	}
	for _, l := range m.session.Lines() {
		m.drawPath(c, l.Geometry(), inkFor(l.Op), false)
	}
	for _, b := range m.overlay.bands {
		m.drawPath(c, b.line, inkForStyle(b.style), false)
	}
	for i, a := range m.overlay.labels {
		x, y := m.view.pixel(a)
		c.label(int(math.Floor(x/2)), int(math.Floor(y/4)), fmt.Sprint(i+1))
	}
	return c
}

func (m Model) drawGeom(c *canvas, g geom.Geom, k ink) {
	switch g := g.(type) {
	case geom.Point:
		x, y := m.view.pixel(g)
		c.point(x, y, k)
	case geom.MultiPoint:
		for _, p := range g {
			m.drawGeom(c, p, k)
		}
	case geom.LineString:
		m.drawPath(c, g, k, false)
	case geom.MultiLineString:
		for _, ls := range g {
			m.drawPath(c, ls, k, false)
		}
	case geom.Polygon:
		for _, r := range g {
			m.drawPath(c, r, k, true)
		}
	case geom.MultiPolygon:
		for _, p := range g {
			m.drawGeom(c, p, k)
		}
	case geom.GeometryCollection:
		for _, gg := range g {
			m.drawGeom(c, gg, k)
		}
	}
}

func (m Model) drawPath(c *canvas, ps []geom.Point, k ink, closed bool) {
	if len(ps) == 1 {
		x, y := m.view.pixel(ps[0])
		c.point(x, y, k)
		return
	}
	n := len(ps) - 1
	if closed {
		n = len(ps)
	}
	for i := 0; i < n; i++ {
		x0, y0 := m.view.pixel(ps[i])
		x1, y1 := m.view.pixel(ps[(i+1)%len(ps)])
		c.line(x0, y0, x1, y1, k)
	}
}
