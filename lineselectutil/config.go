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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lineselect"
	"github.com/spatialmodel/lineselect/layer"
	"github.com/spatialmodel/lineselect/sketch"
	"github.com/spatialmodel/lineselect/tui"
	"github.com/spf13/cast"
)

// defaultLogFile is where draw writes log messages if LogFile is not set.
const defaultLogFile = "lineselect.log"

// checkOutputFile makes sure that the directory of the output file exists,
// and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="selected.shp")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("lineselect: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile string) string {
	if logFile == "" {
		return defaultLogFile
	}
	return logFile
}

// logLevel parses the LogLevel configuration variable.
func logLevel(s string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(os.ExpandEnv(s))
	if err != nil {
		return lvl, fmt.Errorf("the LogLevel variable needs to be one of debug, info, warning "+
			"or error, but is currently set to `%s`", s)
	}
	return lvl, nil
}

// spatialRef parses a proj4 spatial reference. It returns nil if s is
// empty.
func spatialRef(s string) (*proj.SR, error) {
	s = os.ExpandEnv(s)
	if s == "" {
		return nil, nil
	}
	sr, err := proj.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("lineselect: invalid projection %q: %v", s, err)
	}
	return sr, nil
}

// parseIDs converts a list of feature ids. Each element may hold several
// ids separated by commas or spaces.
func parseIDs(s []string) (lineselect.Selection, error) {
	sel := lineselect.NewSelection()
	for _, v := range s {
		for _, f := range strings.FieldsFunc(os.ExpandEnv(v), func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := cast.ToInt64E(f)
			if err != nil {
				return nil, fmt.Errorf("lineselect: invalid feature id %q in InitialSelection", f)
			}
			sel.Add(lineselect.FeatureID(id))
		}
	}
	return sel, nil
}

// loadLayer reads the layer described by the Layer, LayerProj, IDField,
// PostGISURL and PostGISQuery configuration variables.
func loadLayer(ctx context.Context, cfg *viper.Viper) (*layer.Layer, error) {
	sr, err := spatialRef(cfg.GetString("LayerProj"))
	if err != nil {
		return nil, err
	}
	idField := os.ExpandEnv(cfg.GetString("IDField"))

	if url := os.ExpandEnv(cfg.GetString("PostGISURL")); url != "" {
		query := os.ExpandEnv(cfg.GetString("PostGISQuery"))
		if query == "" {
			return nil, fmt.Errorf("lineselect: PostGISURL is set but PostGISQuery is empty")
		}
		return layer.LoadPostGIS(ctx, "postgis", url, query, sr)
	}

	path := os.ExpandEnv(cfg.GetString("Layer"))
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		return nil, fmt.Errorf("lineselect: you need to specify a Layer or PostGISURL configuration variable")
	case ".shp":
		l, err := layer.LoadShapefile(path, idField)
		if err != nil {
			return nil, err
		}
		switch {
		case sr == nil:
		case l.SR == nil:
			l.SR = sr
		default:
			return l.Reproject(sr)
		}
		return l, nil
	case ".geojson", ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("lineselect: opening layer: %v", err)
		}
		defer f.Close()
		return layer.LoadGeoJSON(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), f, sr, idField)
	default:
		return nil, fmt.Errorf("lineselect: unsupported layer format %q; use .shp, .geojson or .json", filepath.Ext(path))
	}
}

// loadSketch reads the sketch file at path.
func loadSketch(path string) (sketch.Sketch, error) {
	path = os.ExpandEnv(path)
	if path == "" {
		return sketch.Sketch{}, fmt.Errorf("lineselect: you need to specify a Sketch configuration variable")
	}
	f, err := os.Open(path)
	if err != nil {
		return sketch.Sketch{}, fmt.Errorf("lineselect: opening sketch: %v", err)
	}
	defer f.Close()
	return sketch.Load(f)
}

// drawOptions loads the layer for the draw command and the options of
// the terminal map. An existing Sketch file is replayed.
func drawOptions(ctx context.Context, cfg *viper.Viper) (tui.Options, *layer.Layer, error) {
	mode, err := lineselect.ParseMode(os.ExpandEnv(cfg.GetString("Mode")))
	if err != nil {
		return tui.Options{}, nil, err
	}
	capacity := cfg.GetInt("Capacity")
	if capacity < 1 {
		return tui.Options{}, nil, fmt.Errorf("lineselect: Capacity must be at least 1, but is %d", capacity)
	}
	initial, err := parseIDs(cfg.GetStringSlice("InitialSelection"))
	if err != nil {
		return tui.Options{}, nil, err
	}
	l, err := loadLayer(ctx, cfg)
	if err != nil {
		return tui.Options{}, nil, err
	}
	opts := tui.Options{
		Mode:          mode,
		Capacity:      capacity,
		Initial:       initial,
		KeepSelection: cfg.GetBool("KeepSelection"),
		SketchPath:    os.ExpandEnv(cfg.GetString("Sketch")),
		Projection:    os.ExpandEnv(cfg.GetString("LayerProj")),
		Log:           logrus.StandardLogger(),
	}
	if opts.SketchPath != "" {
		if _, err := os.Stat(opts.SketchPath); err == nil {
			sk, err := loadSketch(opts.SketchPath)
			if err != nil {
				return tui.Options{}, nil, err
			}
			opts.Sketch = &sk
		}
	}
	return opts, l, nil
}
