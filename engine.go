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
	"sort"

	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
)

// Engine computes feature selections from ordered lists of drawn lines.
type Engine struct {
	log logrus.FieldLogger
}

// NewEngine returns an engine that logs to log, or to the standard logger
// if log is nil.
func NewEngine(log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{log: log}
}

// ComputeSelection computes a selection with a default engine.
func ComputeSelection(initial Selection, lines []DrawnLine, target Target, t proj.Transformer) (*Result, error) {
	return NewEngine(nil).ComputeSelection(initial, lines, target, t)
}

// ComputeSelection starts from initial and applies lines in index order,
// combining the ids of the target features each line intersects according
// to the line's operation. t converts line coordinates into the target's
// spatial reference; a nil t leaves them unchanged.
//
// Lines that cannot be transformed, or that have no operation, are
// skipped and reported in the result. An error is only returned when
// target is missing or cannot supply candidates. initial is not modified.
func (e *Engine) ComputeSelection(initial Selection, lines []DrawnLine, target Target, t proj.Transformer) (*Result, error) {
	if target == nil {
		return nil, ErrInvalidTarget
	}
	ordered := make([]DrawnLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	r := &Result{Selection: initial.Clone(), Lines: len(ordered)}
	for _, l := range ordered {
		if !l.Op.Valid() {
			err := OperationError{Index: l.Index, Op: l.Op}
			e.log.WithFields(logrus.Fields{"line": l.Index}).Warn(err)
			r.Skipped = append(r.Skipped, err)
			continue
		}
		tl, err := l.Transform(t)
		if err != nil {
			terr := TransformError{Index: l.Index, Err: err}
			e.log.WithFields(logrus.Fields{"line": l.Index}).Warn(terr)
			r.Skipped = append(r.Skipped, terr)
			continue
		}
		hits, err := e.hits(tl, target)
		if err != nil {
			return nil, err
		}
		switch l.Op {
		case Add:
			r.Selection = r.Selection.Union(hits)
		case Filter:
			r.Selection = r.Selection.Intersect(hits)
		case Remove:
			r.Selection = r.Selection.Difference(hits)
		}
		r.Applied++
		e.log.WithFields(logrus.Fields{
			"line":      l.Index,
			"operation": l.Op.String(),
			"hits":      len(hits),
			"selected":  len(r.Selection),
		}).Debug("lineselect: applied line")
	}
	r.Count = len(r.Selection)
	e.log.WithFields(logrus.Fields{
		"selected": r.Count,
		"skipped":  len(r.Skipped),
	}).Debug("lineselect: " + r.Summary())
	return r, nil
}

// hits returns the ids of the target features that intersect l. A line
// with non-finite coordinates intersects nothing.
func (e *Engine) hits(l DrawnLine, target Target) (Selection, error) {
	o := make(Selection)
	if !l.Finite() {
		return o, nil
	}
	cands, err := target.Candidates(l.Bounds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	for _, f := range cands {
		if Intersects(f.Geom, l.Start, l.End) {
			o[f.ID] = struct{}{}
		}
	}
	return o, nil
}
