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

package layer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/proj"
	"github.com/spatialmodel/lineselect"
)

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*feature `json:"features"`
}

type feature struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id,omitempty"`
	Geometry   *geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// geometry is a GeoJSON geometry of any type, including collections.
type geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates,omitempty"`
	Geometries  []*geometry `json:"geometries,omitempty"`
}

// LoadGeoJSON reads a GeoJSON FeatureCollection from r. Feature ids are
// read from the property idField if it is set, otherwise from the feature
// "id" member, and otherwise are the zero-based feature positions. sr is
// the spatial reference of the coordinates, which GeoJSON does not record.
func LoadGeoJSON(name string, r io.Reader, sr *proj.SR, idField string) (*Layer, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("layer: %s: decoding GeoJSON: %v", name, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("layer: %s: GeoJSON type is %q; want FeatureCollection", name, fc.Type)
	}
	features := make([]lineselect.Feature, len(fc.Features))
	for i, f := range fc.Features {
		id, err := f.id(i, idField)
		if err != nil {
			return nil, fmt.Errorf("layer: %s: feature %d: %v", name, i, err)
		}
		g, err := decodeGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("layer: %s: feature %d: %v", name, i, err)
		}
		features[i] = lineselect.Feature{ID: id, Geom: g}
	}
	return New(name, sr, features)
}

func (f *feature) id(pos int, idField string) (lineselect.FeatureID, error) {
	if idField != "" {
		v, ok := f.Properties[idField]
		if !ok {
			return 0, fmt.Errorf("missing property %s", idField)
		}
		return parseID(v)
	}
	if f.ID != nil {
		return parseID(f.ID)
	}
	return lineselect.FeatureID(pos), nil
}

// decodeGeometry converts g to a geometry. A missing geometry gives nil.
func decodeGeometry(g *geometry) (geom.Geom, error) {
	if g == nil {
		return nil, nil
	}
	switch g.Type {
	case "Point", "LineString", "Polygon":
		return geojson.FromGeoJSON(&geojson.Geometry{Type: g.Type, Coordinates: g.Coordinates})
	case "MultiPoint":
		parts, err := decodeParts("Point", g.Coordinates)
		if err != nil {
			return nil, err
		}
		o := make(geom.MultiPoint, len(parts))
		for i, p := range parts {
			o[i] = p.(geom.Point)
		}
		return o, nil
	case "MultiLineString":
		parts, err := decodeParts("LineString", g.Coordinates)
		if err != nil {
			return nil, err
		}
		o := make(geom.MultiLineString, len(parts))
		for i, p := range parts {
			o[i] = p.(geom.LineString)
		}
		return o, nil
	case "MultiPolygon":
		parts, err := decodeParts("Polygon", g.Coordinates)
		if err != nil {
			return nil, err
		}
		o := make(geom.MultiPolygon, len(parts))
		for i, p := range parts {
			o[i] = p.(geom.Polygon)
		}
		return o, nil
	case "GeometryCollection":
		o := make(geom.GeometryCollection, 0, len(g.Geometries))
		for _, c := range g.Geometries {
			cg, err := decodeGeometry(c)
			if err != nil {
				return nil, err
			}
			if cg != nil {
				o = append(o, cg)
			}
		}
		return o, nil
	}
	return nil, geojson.UnsupportedGeometryError{Type: g.Type}
}

// decodeParts decodes the coordinates of a multi-geometry as geometries of
// type partType.
func decodeParts(partType string, coordinates interface{}) ([]geom.Geom, error) {
	cs, ok := coordinates.([]interface{})
	if !ok {
		return nil, geojson.InvalidGeometryError{}
	}
	o := make([]geom.Geom, len(cs))
	for i, c := range cs {
		g, err := geojson.FromGeoJSON(&geojson.Geometry{Type: partType, Coordinates: c})
		if err != nil {
			return nil, err
		}
		o[i] = g
	}
	return o, nil
}

// WriteGeoJSON writes features to w as a FeatureCollection, with each
// feature's id as the GeoJSON feature id.
func WriteGeoJSON(w io.Writer, features []lineselect.Feature) error {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]*feature, len(features))}
	for i, f := range features {
		g, err := encodeGeometry(f.Geom)
		if err != nil {
			return fmt.Errorf("layer: encoding feature %d: %v", f.ID, err)
		}
		fc.Features[i] = &feature{
			Type:       "Feature",
			ID:         int64(f.ID),
			Geometry:   g,
			Properties: map[string]interface{}{},
		}
	}
	e := json.NewEncoder(w)
	return e.Encode(fc)
}

func encodeGeometry(g geom.Geom) (*geometry, error) {
	switch t := g.(type) {
	case nil:
		return nil, nil
	case geom.MultiPoint:
		return encodeParts("MultiPoint", len(t), func(i int) geom.Geom { return t[i] })
	case geom.MultiLineString:
		return encodeParts("MultiLineString", len(t), func(i int) geom.Geom { return t[i] })
	case geom.MultiPolygon:
		return encodeParts("MultiPolygon", len(t), func(i int) geom.Geom { return t[i] })
	case geom.GeometryCollection:
		o := &geometry{Type: "GeometryCollection", Geometries: make([]*geometry, len(t))}
		for i, c := range t {
			cg, err := encodeGeometry(c)
			if err != nil {
				return nil, err
			}
			o.Geometries[i] = cg
		}
		return o, nil
	}
	gj, err := geojson.ToGeoJSON(g)
	if err != nil {
		return nil, err
	}
	return &geometry{Type: gj.Type, Coordinates: gj.Coordinates}, nil
}

func encodeParts(typ string, n int, part func(int) geom.Geom) (*geometry, error) {
	cs := make([]interface{}, n)
	for i := 0; i < n; i++ {
		gj, err := geojson.ToGeoJSON(part(i))
		if err != nil {
			return nil, err
		}
		cs[i] = gj.Coordinates
	}
	return &geometry{Type: typ, Coordinates: cs}, nil
}
