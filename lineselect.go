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

// Package lineselect selects vector features with a sequence of hand-drawn
// lines. Each line carries a set operation (add, filter or remove); the
// features it crosses are combined with the running selection in the order
// the lines were drawn.
//
// The package has two halves. CaptureSession is a small state machine that
// turns pointer press/drag/release events into a bounded, ring-buffered list
// of DrawnLines. Engine folds such a list over a Target layer and returns the
// selected feature ids. Neither half depends on a particular GIS host: the
// host forwards pointer events, implements Presenter to draw the rubber bands
// and labels, and supplies the coordinate transform between the capture and
// layer spatial references.
package lineselect

// Version gives the version number.
const Version = "0.3.0"
