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

// Package lineselectutil contains the lineselect command-line interface.
package lineselectutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/lineselect"
	"github.com/spatialmodel/lineselect/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to lineselect.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages: one of
              debug, info, warning, error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the file log messages are written to.
              If it is empty, messages go to standard error, except for the
              draw command, which writes them to lineselect.log so that
              they do not disturb the map.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Layer",
			usage: `
              Layer is the path to the layer of features to select from.
              It can be a shapefile (.shp) or a GeoJSON FeatureCollection
              (.geojson or .json). It is ignored if PostGISURL is set.`,
			shorthand:  "l",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "LayerProj",
			usage: `
              LayerProj is the spatial reference of the layer in proj4
              format, for layers that do not record one (GeoJSON, PostGIS,
              or shapefiles without a .prj file). Shapefiles that do have a
              .prj file are reprojected to LayerProj.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "IDField",
			usage: `
              IDField is the integer attribute holding feature ids. If it
              is empty, shapefile features are numbered by row and GeoJSON
              features use their "id" member or their position.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "PostGISURL",
			usage: `
              PostGISURL is the connection URL of a PostGIS database to
              read the layer from, for example
              postgres://user@localhost:5432/gis.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "PostGISQuery",
			usage: `
              PostGISQuery is the query that reads the layer from PostGIS.
              It must return an integer id and GeoJSON geometry, for example
              "SELECT gid, ST_AsGeoJSON(geom) FROM roads".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "Sketch",
			usage: `
              Sketch is the path to a file of drawn lines. select reads
              the lines from it; draw replays it if it exists and saves
              the drawn lines to it.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags(), sketchGeoJSONCmd.Flags()},
		},
		{
			name: "SketchProj",
			usage: `
              SketchProj is the spatial reference of the sketch
              coordinates in proj4 format, used when the sketch file does
              not name one. If both are empty the sketch is assumed to be
              in the spatial reference of the layer.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags()},
		},
		{
			name: "Mode",
			usage: `
              Mode is how drawn lines get their operations. In automatic
              mode the first line adds features and the rest filter them;
              in manual mode the operation is chosen before each line.`,
			shorthand:  "m",
			defaultVal: "automatic",
			flagsets:   []*pflag.FlagSet{drawCmd.Flags()},
		},
		{
			name: "Capacity",
			usage: `
              Capacity is the number of lines kept. Once it is reached,
              new lines replace the oldest ones.`,
			defaultVal: lineselect.DefaultCapacity,
			flagsets:   []*pflag.FlagSet{drawCmd.Flags()},
		},
		{
			name: "InitialSelection",
			usage: `
              InitialSelection is the list of feature ids that are
              selected before the lines are applied.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), drawCmd.Flags()},
		},
		{
			name: "KeepSelection",
			usage: `
              KeepSelection makes the last selection the starting point
              of the next set of lines when the lines are cleared.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{drawCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is where the selected features (select) or the
              sketch lines (sketch geojson) are written. Files ending in
              .shp are written as shapefiles and other files as GeoJSON.
              If it is empty, select only prints the selected ids and
              sketch geojson writes to standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{selectCmd.Flags(), sketchGeoJSONCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("LINESELECT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(selectCmd)
	Root.AddCommand(drawCmd)
	Root.AddCommand(sketchCmd)
	sketchCmd.AddCommand(sketchGeoJSONCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("lineselect: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogging configures the standard logger from the LogLevel option.
func setLogging() error {
	lvl, err := logLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	if f := Cfg.GetString("LogFile"); f != "" {
		return logTo(f)
	}
	return closeLog()
}

// logFile is the open log file, if any.
var logFile *os.File

// logTo sends log messages to the file at path, closing any log file that
// was open before.
func logTo(path string) error {
	f, err := os.OpenFile(os.ExpandEnv(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("lineselect: opening log file: %v", err)
	}
	if err := closeLog(); err != nil {
		f.Close()
		return err
	}
	logFile = f
	logrus.SetOutput(f)
	return nil
}

// closeLog closes the open log file and sends log messages back to
// standard error.
func closeLog() error {
	if logFile == nil {
		return nil
	}
	logrus.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	if err != nil {
		return fmt.Errorf("lineselect: closing log file: %v", err)
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "lineselect",
	Short: "Select map features by drawing lines across them.",
	Long: `lineselect selects features from a vector layer using a short list of
drawn lines. Each line adds the features it crosses to the selection, keeps
only the selected features it crosses, or removes the features it crosses.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'LINESELECT_var' where 'var'
is the name of the variable to be set. Many configuration variables are
additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogging()
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeLog()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of lineselect.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("lineselect v%s\n", lineselect.Version)
	},
	DisableAutoGenTag: true,
}

// selectCmd computes a selection from a saved sketch.
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the features crossed by the lines in a sketch.",
	Long: `select applies the lines in a sketch file to a layer and prints the ids
of the selected features, one per line. Lines are applied in order, starting
from InitialSelection. If OutputFile is set, the selected features are also
written to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l, err := loadLayer(ctx, Cfg)
		if err != nil {
			return err
		}
		sk, err := loadSketch(Cfg.GetString("Sketch"))
		if err != nil {
			return err
		}
		initial, err := parseIDs(Cfg.GetStringSlice("InitialSelection"))
		if err != nil {
			return err
		}
		var outputFile string
		if Cfg.GetString("OutputFile") != "" {
			if outputFile, err = checkOutputFile(Cfg.GetString("OutputFile")); err != nil {
				return err
			}
		}
		_, err = Select(cmd.OutOrStdout(), l, sk, os.ExpandEnv(Cfg.GetString("SketchProj")), initial, outputFile)
		return err
	},
	DisableAutoGenTag: true,
}

// drawCmd starts the terminal map.
var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw selection lines over a layer in the terminal.",
	Long: `draw shows the layer in the terminal. Drag with the mouse to draw lines and
press enter to select the features they cross. Press 'a', 'f' or 'r' to
choose the operation of the next line in manual mode, 'm' to switch modes,
'c' to clear the lines, 's' to save them to the Sketch file and 'q' to quit.
The ids of the last selection are printed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if logFile == nil {
			// The terminal map owns standard error.
			if err := logTo(checkLogFile(Cfg.GetString("LogFile"))); err != nil {
				return err
			}
		}
		ctx := context.Background()
		opts, l, err := drawOptions(ctx, Cfg)
		if err != nil {
			return err
		}
		m, err := tui.New(l, opts)
		if err != nil {
			return err
		}
		m, err = tui.Run(ctx, m)
		if err != nil {
			return err
		}
		if r := m.Result(); r != nil {
			return writeIDs(cmd.OutOrStdout(), r.Selection)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var sketchCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Work with sketch files.",
	Long: `sketch converts the lines in sketch files for use in other programs.
Use the subcommands specified below.`,
	DisableAutoGenTag: true,
}

var sketchGeoJSONCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Convert a sketch to GeoJSON.",
	Long: `geojson writes the lines in the Sketch file as a GeoJSON FeatureCollection
with the properties index, operation and stroke, to OutputFile or to standard
output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := loadSketch(Cfg.GetString("Sketch"))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if f := Cfg.GetString("OutputFile"); f != "" {
			path, err := checkOutputFile(f)
			if err != nil {
				return err
			}
			w, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("lineselect: %v", err)
			}
			defer w.Close()
			out = w
		}
		return SketchGeoJSON(out, sk)
	},
	DisableAutoGenTag: true,
}
