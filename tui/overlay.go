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
	"fmt"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/lineselect"
)

// band is a line that is being dragged.
type band struct {
	line  geom.LineString
	style lineselect.Style
}

// overlay implements lineselect.Presenter. It keeps the rubber bands and
// line labels that are drawn over the map.
type overlay struct {
	bands  map[int]band
	labels map[int]geom.Point

	// note describes the last commit or discard.
	note string
}

func newOverlay() *overlay {
	return &overlay{
		bands:  make(map[int]band),
		labels: make(map[int]geom.Point),
	}
}

func (o *overlay) LineUpdated(index int, line geom.LineString, style lineselect.Style) {
	o.bands[index] = band{line: line, style: style}
}

func (o *overlay) LineCommitted(index int, anchor geom.Point) {
	delete(o.bands, index)
	o.labels[index] = anchor
	o.note = fmt.Sprintf("line %d stored", index+1)
}

func (o *overlay) LineDiscarded(index int) {
	delete(o.bands, index)
	o.note = fmt.Sprintf("line %d discarded: start and end are the same point", index+1)
}

func (o *overlay) SessionEnded() {
	o.bands = make(map[int]band)
	o.labels = make(map[int]geom.Point)
	o.note = ""
}

// inkFor returns the ink of lines drawn with op.
func inkFor(op lineselect.Operation) ink {
	switch op {
	case lineselect.Add:
		return inkAdd
	case lineselect.Filter:
		return inkFilter
	case lineselect.Remove:
		return inkRemove
	}
	return inkFeature
}

// inkForStyle returns the ink of the operation drawn with s.
func inkForStyle(s lineselect.Style) ink {
	for _, op := range []lineselect.Operation{lineselect.Add, lineselect.Filter, lineselect.Remove} {
		if op.Style() == s {
			return inkFor(op)
		}
	}
	return inkFeature
}
