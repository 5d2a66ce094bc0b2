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
	"github.com/ctessum/geom"
	"github.com/tidwall/geojson/geometry"
)

// Intersects reports whether g shares at least one point with the segment
// from a to b. Polygon interiors count; points inside holes do not. Nil and
// empty geometries never intersect, and unsupported geometry types are
// treated as empty.
func Intersects(g geom.Geom, a, b geom.Point) bool {
	s := newSegment(a, b)
	return s.intersects(g)
}

// segment is a drawn line in the form the geometry predicates expect.
type segment struct {
	a, b geometry.Point
	line *geometry.Line
}

func newSegment(a, b geom.Point) segment {
	s := segment{a: toPoint(a), b: toPoint(b)}
	if a != b {
		s.line = geometry.NewLine([]geometry.Point{s.a, s.b}, nil)
	}
	return s
}

func (s segment) intersects(g geom.Geom) bool {
	switch t := g.(type) {
	case nil:
		return false
	case geom.Point:
		return s.intersectsPoint(toPoint(t))
	case *geom.Point:
		return t != nil && s.intersectsPoint(toPoint(*t))
	case geom.MultiPoint:
		for _, p := range t {
			if s.intersectsPoint(toPoint(p)) {
				return true
			}
		}
	case geom.LineString:
		return s.intersectsLineString(t)
	case geom.MultiLineString:
		for _, l := range t {
			if s.intersectsLineString(l) {
				return true
			}
		}
	case geom.Polygon:
		return s.intersectsPolygon(t)
	case geom.MultiPolygon:
		for _, p := range t {
			if s.intersectsPolygon(p) {
				return true
			}
		}
	case geom.GeometryCollection:
		for _, gg := range t {
			if s.intersects(gg) {
				return true
			}
		}
	case *geom.Bounds:
		if t == nil || t.Max.X < t.Min.X || t.Max.Y < t.Min.Y {
			return false
		}
		return s.intersectsPolygon(geom.Polygon{{
			t.Min, {X: t.Max.X, Y: t.Min.Y}, t.Max, {X: t.Min.X, Y: t.Max.Y},
		}})
	}
	return false
}

func (s segment) intersectsPoint(p geometry.Point) bool {
	if s.line == nil {
		return p == s.a
	}
	return s.line.IntersectsPoint(p)
}

func (s segment) intersectsLineString(l geom.LineString) bool {
	switch len(l) {
	case 0:
		return false
	case 1:
		return s.intersectsPoint(toPoint(l[0]))
	}
	other := geometry.NewLine(toPoints(l), nil)
	if s.line == nil {
		return other.IntersectsPoint(s.a)
	}
	return s.line.IntersectsLine(other)
}

func (s segment) intersectsPolygon(p geom.Polygon) bool {
	if len(p) == 0 || len(p[0]) < 3 {
		return false
	}
	var holes [][]geometry.Point
	for _, r := range p[1:] {
		if len(r) >= 3 {
			holes = append(holes, toPoints(r))
		}
	}
	poly := geometry.NewPoly(toPoints(p[0]), holes, nil)
	if s.line == nil {
		return poly.IntersectsPoint(s.a)
	}
	return poly.IntersectsLine(s.line)
}

func toPoint(p geom.Point) geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

func toPoints(ps []geom.Point) []geometry.Point {
	o := make([]geometry.Point, len(ps))
	for i, p := range ps {
		o[i] = toPoint(p)
	}
	return o
}
