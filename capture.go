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
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
)

// DefaultCapacity is the number of lines a session holds before new lines
// start overwriting the oldest ones.
const DefaultCapacity = 5

// State is the state of a CaptureSession.
type State int

const (
	// Idle means no session is active.
	Idle State = iota
	// Capturing means a session is active and no line is being drawn.
	Capturing
	// DrawingLine means a press has been received and the line is being
	// dragged.
	DrawingLine
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	case DrawingLine:
		return "drawing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Presenter receives presentation callbacks from a CaptureSession. Hosts
// implement it to draw rubber bands and line labels.
type Presenter interface {
	// LineUpdated is called while the line in slot index is dragged.
	LineUpdated(index int, line geom.LineString, style Style)

	// LineCommitted is called when the line in slot index has been
	// stored. anchor is where its label belongs.
	LineCommitted(index int, anchor geom.Point)

	// LineDiscarded is called when an in-progress line in slot index is
	// dropped without being stored.
	LineDiscarded(index int)

	// SessionEnded is called once when the session is reset. Hosts
	// release all overlay resources belonging to the session.
	SessionEnded()
}

// NopPresenter is a Presenter that does nothing.
type NopPresenter struct{}

// LineUpdated implements Presenter.
func (NopPresenter) LineUpdated(int, geom.LineString, Style) {}

// LineCommitted implements Presenter.
func (NopPresenter) LineCommitted(int, geom.Point) {}

// LineDiscarded implements Presenter.
func (NopPresenter) LineDiscarded(int) {}

// SessionEnded implements Presenter.
func (NopPresenter) SessionEnded() {}

// CaptureSession turns pointer gestures into an ordered, bounded list of
// drawn lines. It is not safe for concurrent use.
type CaptureSession struct {
	state    State
	mode     Mode
	sr       *proj.SR
	capacity int

	// slots holds the committed lines; nil entries are empty slots.
	slots []*DrawnLine

	// next is the slot the next committed line goes into.
	next int

	// pending is the operation for the next line in Manual mode.
	pending Operation

	// open is the line being drawn. usable is false for a gesture started
	// in Manual mode before an operation was chosen.
	open   DrawnLine
	usable bool

	presenter Presenter
	log       logrus.FieldLogger
}

// NewCaptureSession returns an idle session reporting to p. A nil p or log
// is replaced by a no-op presenter or the standard logger.
func NewCaptureSession(p Presenter, log logrus.FieldLogger) *CaptureSession {
	if p == nil {
		p = NopPresenter{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CaptureSession{presenter: p, log: log}
}

// Begin starts a session in the given mode. sr is the spatial reference
// of the points that will be captured and stays fixed until Reset.
func (s *CaptureSession) Begin(mode Mode, sr *proj.SR, capacity int) error {
	if s.state != Idle {
		return StateError{Op: "begin", State: s.state}
	}
	if mode != Automatic && mode != Manual {
		return fmt.Errorf("lineselect: begin: invalid mode %v", mode)
	}
	if capacity < 1 {
		return fmt.Errorf("lineselect: begin: capacity must be >= 1, got %d", capacity)
	}
	s.mode = mode
	s.sr = sr
	s.capacity = capacity
	s.slots = make([]*DrawnLine, capacity)
	s.next = 0
	s.pending = OpNone
	s.transition(Capturing)
	return nil
}

// Press opens a new line at p.
func (s *CaptureSession) Press(p geom.Point) error {
	if s.state != Capturing {
		return StateError{Op: "press", State: s.state}
	}
	op := s.operationFor(s.next)
	s.open = DrawnLine{Index: s.next, Start: p, End: p, Op: op, Style: op.Style()}
	s.usable = op.Valid()
	if !s.usable {
		s.log.WithFields(logrus.Fields{"slot": s.next}).Debug("lineselect: no operation chosen; ignoring line")
	}
	s.transition(DrawingLine)
	return nil
}

// Drag moves the free end of the open line to p.
func (s *CaptureSession) Drag(p geom.Point) error {
	if s.state != DrawingLine {
		return StateError{Op: "drag", State: s.state}
	}
	s.open.End = p
	if s.usable {
		s.presenter.LineUpdated(s.open.Index, s.open.Geometry(), s.open.Style)
	}
	return nil
}

// Release finishes the open line at p. Degenerate lines and lines drawn
// without an operation are dropped; other lines are stored in their slot,
// replacing whatever line was there.
func (s *CaptureSession) Release(p geom.Point) error {
	if s.state != DrawingLine {
		return StateError{Op: "release", State: s.state}
	}
	s.open.End = p
	line := s.open
	s.open = DrawnLine{}
	switch {
	case !s.usable:
	case line.Degenerate():
		s.log.WithFields(logrus.Fields{"slot": line.Index}).Debug("lineselect: discarding degenerate line")
		s.presenter.LineDiscarded(line.Index)
	default:
		s.slots[line.Index] = &line
		s.next = (line.Index + 1) % s.capacity
		s.presenter.LineCommitted(line.Index, line.Anchor())
	}
	s.usable = false
	s.transition(Capturing)
	return nil
}

// Deactivate abandons a line that is being drawn without ending the
// session. Hosts call it when their tool loses focus.
func (s *CaptureSession) Deactivate() {
	if s.state != DrawingLine {
		return
	}
	if s.usable {
		s.presenter.LineDiscarded(s.open.Index)
	}
	s.open = DrawnLine{}
	s.usable = false
	s.transition(Capturing)
}

// SetOperation sets the operation for lines drawn from now on. It is only
// available in Manual mode and does not change committed lines.
func (s *CaptureSession) SetOperation(op Operation) error {
	if s.state == Idle {
		return StateError{Op: "set operation", State: s.state}
	}
	if s.mode != Manual {
		return ModeError{Op: "set operation", Mode: s.mode}
	}
	if !op.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, op)
	}
	s.pending = op
	return nil
}

// Reset discards all lines and returns the session to Idle. The
// presenter's SessionEnded is called if a session was active. Reset may
// be called at any time, any number of times.
func (s *CaptureSession) Reset() {
	if s.state == Idle {
		return
	}
	s.slots = nil
	s.next = 0
	s.pending = OpNone
	s.open = DrawnLine{}
	s.usable = false
	s.sr = nil
	s.capacity = 0
	s.transition(Idle)
	s.presenter.SessionEnded()
}

// operationFor returns the operation for a line drawn into slot i.
func (s *CaptureSession) operationFor(i int) Operation {
	if s.mode == Manual {
		return s.pending
	}
	if i == 0 {
		return Add
	}
	return Filter
}

func (s *CaptureSession) transition(next State) {
	prev := s.state
	s.state = next
	s.log.WithFields(logrus.Fields{
		"from": prev.String(),
		"to":   next.String(),
	}).Debug("lineselect: capture state transition")
}

// State returns the current state.
func (s *CaptureSession) State() State { return s.state }

// Mode returns the tagging mode of the active session.
func (s *CaptureSession) Mode() Mode { return s.mode }

// SR returns the spatial reference of the captured lines.
func (s *CaptureSession) SR() *proj.SR { return s.sr }

// Capacity returns the number of ring-buffer slots.
func (s *CaptureSession) Capacity() int { return s.capacity }

// Pending returns the operation the next line will be tagged with.
func (s *CaptureSession) Pending() Operation {
	if s.state == Idle {
		return OpNone
	}
	return s.operationFor(s.next)
}

// Open returns the line being drawn and whether there is one that will be
// stored on release.
func (s *CaptureSession) Open() (DrawnLine, bool) {
	return s.open, s.state == DrawingLine && s.usable
}

// Lines returns copies of the committed lines in slot order.
func (s *CaptureSession) Lines() []DrawnLine {
	var o []DrawnLine
	for _, l := range s.slots {
		if l != nil {
			o = append(o, *l)
		}
	}
	return o
}

// Len returns the number of committed lines.
func (s *CaptureSession) Len() int {
	n := 0
	for _, l := range s.slots {
		if l != nil {
			n++
		}
	}
	return n
}
