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

// Package layer holds vector layers of candidate features and reads them
// from shapefiles, GeoJSON and PostGIS.
package layer

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
	"github.com/spatialmodel/lineselect"
)

// Layer is a set of features with unique ids in a single spatial
// reference. It implements lineselect.Target using a spatial index.
type Layer struct {
	// Name identifies the layer in messages.
	Name string

	// SR is the spatial reference of the feature geometries. It may be
	// nil if it is unknown.
	SR *proj.SR

	features []lineselect.Feature
	byID     map[lineselect.FeatureID]int
	index    *rtree.Rtree
	bounds   *geom.Bounds
}

// indexed is a feature stored in the spatial index.
type indexed struct {
	geom.Geom
	i int
}

// DuplicateIDError is returned when two features in a layer share an id.
type DuplicateIDError struct {
	Layer string
	ID    lineselect.FeatureID
}

func (err DuplicateIDError) Error() string {
	return fmt.Sprintf("layer: %s: duplicate feature id %d", err.Layer, err.ID)
}

// New creates a layer from features, which must have unique ids.
// Features without geometry are kept but never selected.
func New(name string, sr *proj.SR, features []lineselect.Feature) (*Layer, error) {
	l := &Layer{
		Name:     name,
		SR:       sr,
		features: make([]lineselect.Feature, len(features)),
		byID:     make(map[lineselect.FeatureID]int, len(features)),
		index:    rtree.NewTree(25, 50),
		bounds:   geom.NewBounds(),
	}
	copy(l.features, features)
	sort.SliceStable(l.features, func(i, j int) bool { return l.features[i].ID < l.features[j].ID })
	for i, f := range l.features {
		if _, ok := l.byID[f.ID]; ok {
			return nil, DuplicateIDError{Layer: name, ID: f.ID}
		}
		l.byID[f.ID] = i
		if f.Geom == nil {
			continue
		}
		b := f.Geom.Bounds()
		if b == nil || b.Max.X < b.Min.X || b.Max.Y < b.Min.Y {
			continue
		}
		l.index.Insert(indexed{Geom: f.Geom, i: i})
		l.bounds.Extend(b)
	}
	return l, nil
}

// Len returns the number of features in l.
func (l *Layer) Len() int { return len(l.features) }

// Features returns the features of l in id order.
func (l *Layer) Features() []lineselect.Feature {
	o := make([]lineselect.Feature, len(l.features))
	copy(o, l.features)
	return o
}

// Feature returns the feature with the given id.
func (l *Layer) Feature(id lineselect.FeatureID) (lineselect.Feature, bool) {
	i, ok := l.byID[id]
	if !ok {
		return lineselect.Feature{}, false
	}
	return l.features[i], true
}

// Bounds returns the extent of the features in l. It is empty if no
// feature has a geometry.
func (l *Layer) Bounds() *geom.Bounds {
	b := *l.bounds
	return &b
}

// Candidates implements lineselect.Target. The result is in id order.
func (l *Layer) Candidates(b *geom.Bounds) ([]lineselect.Feature, error) {
	if l == nil {
		return nil, lineselect.ErrInvalidTarget
	}
	if b == nil {
		return nil, fmt.Errorf("layer: %s: nil search bounds", l.Name)
	}
	hits := l.index.SearchIntersect(b)
	idx := make([]int, len(hits))
	for j, h := range hits {
		idx[j] = h.(indexed).i
	}
	sort.Ints(idx)
	o := make([]lineselect.Feature, len(idx))
	for j, i := range idx {
		o[j] = l.features[i]
	}
	return o, nil
}

// Select returns the features of l whose ids are in s, in id order. Ids
// that are not in l are ignored.
func (l *Layer) Select(s lineselect.Selection) []lineselect.Feature {
	var o []lineselect.Feature
	for _, id := range s.Sorted() {
		if i, ok := l.byID[id]; ok {
			o = append(o, l.features[i])
		}
	}
	return o
}

// Transformer returns a function that converts coordinates in sr into
// the spatial reference of l. It returns nil, meaning no conversion, if
// either spatial reference is unknown.
func (l *Layer) Transformer(sr *proj.SR) (proj.Transformer, error) {
	if sr == nil || l.SR == nil {
		return nil, nil
	}
	t, err := sr.NewTransform(l.SR)
	if err != nil {
		return nil, fmt.Errorf("layer: %s: creating transform: %v", l.Name, err)
	}
	return t, nil
}

// Reproject returns a copy of l with its geometries converted to sr.
func (l *Layer) Reproject(sr *proj.SR) (*Layer, error) {
	if l.SR == nil {
		return nil, fmt.Errorf("layer: %s: cannot reproject a layer with no spatial reference", l.Name)
	}
	t, err := l.SR.NewTransform(sr)
	if err != nil {
		return nil, fmt.Errorf("layer: %s: creating transform: %v", l.Name, err)
	}
	fs := make([]lineselect.Feature, len(l.features))
	for i, f := range l.features {
		g, err := transform(f.Geom, t)
		if err != nil {
			return nil, fmt.Errorf("layer: %s: reprojecting feature %d: %v", l.Name, f.ID, err)
		}
		fs[i] = lineselect.Feature{ID: f.ID, Geom: g}
	}
	return New(l.Name, sr, fs)
}

// transform converts the coordinates of g with t.
func transform(g geom.Geom, t proj.Transformer) (geom.Geom, error) {
	switch gg := g.(type) {
	case nil:
		return nil, nil
	case geom.LineString:
		return transformPoints(gg, t)
	case geom.MultiLineString:
		o := make(geom.MultiLineString, len(gg))
		for i, ls := range gg {
			p, err := transformPoints(ls, t)
			if err != nil {
				return nil, err
			}
			o[i] = p
		}
		return o, nil
	case geom.GeometryCollection:
		o := make(geom.GeometryCollection, len(gg))
		for i, c := range gg {
			cc, err := transform(c, t)
			if err != nil {
				return nil, err
			}
			o[i] = cc
		}
		return o, nil
	default:
		return g.Transform(t)
	}
}

func transformPoints(ps []geom.Point, t proj.Transformer) (geom.LineString, error) {
	o := make(geom.LineString, len(ps))
	for i, p := range ps {
		x, y, err := t(p.X, p.Y)
		if err != nil {
			return nil, err
		}
		o[i] = geom.Point{X: x, Y: y}
	}
	return o, nil
}
