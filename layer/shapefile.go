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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spatialmodel/lineselect"
	"github.com/spf13/cast"

	goshp "github.com/jonas-p/go-shp"
)

// LoadShapefile reads the shapefile at path. Feature ids are read from
// the integer attribute idField, or are the zero-based row numbers if
// idField is empty. The spatial reference is read from the .prj file next
// to the shapefile; it is nil if there is no .prj file.
func LoadShapefile(path, idField string) (*Layer, error) {
	path = strings.TrimSuffix(path, ".shp")
	name := filepath.Base(path)
	f, err := shp.NewDecoder(path + ".shp")
	if err != nil {
		return nil, fmt.Errorf("layer: opening shapefile %s: %v", path, err)
	}
	defer f.Close()

	sr, err := f.SR()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("layer: reading projection of shapefile %s: %v", path, err)
	}

	var fields []string
	if idField != "" {
		fields = []string{idField}
	}
	var features []lineselect.Feature
	for row := 0; ; row++ {
		g, vals, more := f.DecodeRowFields(fields...)
		if !more {
			break
		}
		if err := f.Error(); err != nil {
			return nil, fmt.Errorf("layer: reading shapefile %s row %d: %v", path, row, err)
		}
		id := lineselect.FeatureID(row)
		if idField != "" {
			id, err = parseID(vals[idField])
			if err != nil {
				return nil, fmt.Errorf("layer: shapefile %s row %d field %s: %v", path, row, idField, err)
			}
		}
		features = append(features, lineselect.Feature{ID: id, Geom: g})
	}
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("layer: reading shapefile %s: %v", path, err)
	}
	return New(name, sr, features)
}

// parseID converts an attribute value to a feature id. Values with a
// fractional part are rejected.
func parseID(v interface{}) (lineselect.FeatureID, error) {
	if s, ok := v.(string); ok {
		v = strings.Trim(s, " \t\r\n\x00")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid id %v: %v", v, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid id %v: not an integer", v)
	}
	return lineselect.FeatureID(f), nil
}

// WriteShapefile writes features to a shapefile at path with their ids in
// the attribute "id". All features must have the same kind of geometry:
// points, lines or polygons.
func WriteShapefile(path string, features []lineselect.Feature) error {
	path = strings.TrimSuffix(path, ".shp")
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(path + ext)
	}
	if len(features) == 0 {
		return fmt.Errorf("layer: writing shapefile %s: no features", path)
	}
	shapes := make([]geom.Geom, len(features))
	var shapeType goshp.ShapeType
	for i, f := range features {
		g, t, err := shapefileGeom(f.Geom)
		if err != nil {
			return fmt.Errorf("layer: writing shapefile %s: feature %d: %v", path, f.ID, err)
		}
		if i == 0 {
			shapeType = t
		} else if t != shapeType {
			return fmt.Errorf("layer: writing shapefile %s: feature %d has a different geometry type than feature %d",
				path, f.ID, features[0].ID)
		}
		shapes[i] = g
	}

	e, err := shp.NewEncoderFromFields(path+".shp", shapeType, goshp.NumberField("id", 20))
	if err != nil {
		return fmt.Errorf("layer: creating shapefile %s: %v", path, err)
	}
	for i, f := range features {
		if err := e.EncodeFields(shapes[i], int(f.ID)); err != nil {
			e.Close()
			return fmt.Errorf("layer: writing shapefile %s: feature %d: %v", path, f.ID, err)
		}
	}
	e.Close()
	return nil
}

// shapefileGeom converts g into a geometry the shapefile encoder supports.
func shapefileGeom(g geom.Geom) (geom.Geom, goshp.ShapeType, error) {
	switch t := g.(type) {
	case geom.Point:
		return t, goshp.POINT, nil
	case geom.MultiPoint:
		return t, goshp.MULTIPOINT, nil
	case geom.LineString:
		return geom.MultiLineString{t}, goshp.POLYLINE, nil
	case geom.MultiLineString:
		return t, goshp.POLYLINE, nil
	case geom.Polygon:
		return t, goshp.POLYGON, nil
	case geom.MultiPolygon:
		var rings geom.Polygon
		for _, p := range t {
			rings = append(rings, p...)
		}
		return rings, goshp.POLYGON, nil
	default:
		return nil, goshp.NULL, fmt.Errorf("unsupported geometry type %T", g)
	}
}
