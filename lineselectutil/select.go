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

package lineselectutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lineselect"
	"github.com/spatialmodel/lineselect/internal/hash"
	"github.com/spatialmodel/lineselect/layer"
	"github.com/spatialmodel/lineselect/sketch"
)

// Select applies the lines in sk to l, starting from initial, and writes
// the ids of the selected features to w. sketchProj is the spatial
// reference of the sketch coordinates if sk does not name one. If
// outputFile is not empty, the selected features are written to it.
func Select(w io.Writer, l *layer.Layer, sk sketch.Sketch, sketchProj string, initial lineselect.Selection, outputFile string) (*lineselect.Result, error) {
	lines, err := sk.DrawnLines()
	if err != nil {
		return nil, err
	}
	if sk.Projection == "" {
		sk.Projection = sketchProj
	}
	sr, err := sk.SR()
	if err != nil {
		return nil, err
	}
	t, err := l.Transformer(sr)
	if err != nil {
		return nil, err
	}
	r, err := lineselect.NewEngine(logrus.StandardLogger()).ComputeSelection(initial, lines, l, t)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"layer":       l.Name,
		"lines":       r.Lines,
		"selected":    r.Count,
		"fingerprint": hash.Key(initial.Sorted(), lines),
	}).Info(r.Summary())

	if err := writeIDs(w, r.Selection); err != nil {
		return nil, err
	}
	if outputFile != "" {
		if err := writeFeatures(outputFile, l.Select(r.Selection)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// writeIDs writes the ids in s to w in ascending order, one per line.
func writeIDs(w io.Writer, s lineselect.Selection) error {
	for _, id := range s.Sorted() {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return fmt.Errorf("lineselect: writing selection: %v", err)
		}
	}
	return nil
}

// writeFeatures writes features to path as a shapefile if path ends in
// .shp, and as GeoJSON otherwise.
func writeFeatures(path string, features []lineselect.Feature) error {
	if strings.ToLower(filepath.Ext(path)) == ".shp" {
		return layer.WriteShapefile(path, features)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lineselect: creating output file: %v", err)
	}
	if err := layer.WriteGeoJSON(f, features); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SketchGeoJSON writes the lines in sk to w as GeoJSON.
func SketchGeoJSON(w io.Writer, sk sketch.Sketch) error {
	lines, err := sk.DrawnLines()
	if err != nil {
		return err
	}
	return sketch.EncodeGeoJSON(w, lines)
}
