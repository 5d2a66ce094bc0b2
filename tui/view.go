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
	"math"

	"github.com/ctessum/geom"
)

// fitMargin leaves some room around the layer when it is first shown.
const fitMargin = 1.1

// viewport maps between map coordinates and the braille pixels of the map
// area. Each terminal cell holds 2x4 pixels, which are roughly square.
type viewport struct {
	w, h   int // map area in cells
	center geom.Point
	scale  float64 // map units per pixel
}

// fit returns a viewport of w by h cells showing all of b.
func fit(b *geom.Bounds, w, h int) viewport {
	v := viewport{w: w, h: h, scale: 1}
	if b == nil || b.Max.X < b.Min.X || b.Max.Y < b.Min.Y {
		return v
	}
	v.center = geom.Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
	s := math.Max((b.Max.X-b.Min.X)/float64(w*2), (b.Max.Y-b.Min.Y)/float64(h*4)) * fitMargin
	if s > 0 {
		v.scale = s
	}
	return v
}

// pixel returns the pixel position of p. The result may be outside of
// the map area.
func (v viewport) pixel(p geom.Point) (x, y float64) {
	x = float64(v.w) + (p.X-v.center.X)/v.scale
	y = float64(v.h*2) - (p.Y-v.center.Y)/v.scale
	return x, y
}

// point returns the map location at the center of cell (cx, cy).
func (v viewport) point(cx, cy int) geom.Point {
	px := float64(cx*2 + 1)
	py := float64(cy*4 + 2)
	return geom.Point{
		X: v.center.X + (px-float64(v.w))*v.scale,
		Y: v.center.Y - (py-float64(v.h*2))*v.scale,
	}
}

// bounds returns the map extent of the viewport.
func (v viewport) bounds() *geom.Bounds {
	hw := float64(v.w) * v.scale
	hh := float64(v.h*2) * v.scale
	return &geom.Bounds{
		Min: geom.Point{X: v.center.X - hw, Y: v.center.Y - hh},
		Max: geom.Point{X: v.center.X + hw, Y: v.center.Y + hh},
	}
}

// zoom magnifies the view by f around its center.
func (v *viewport) zoom(f float64) {
	v.scale /= f
}

// pan moves the view by dx, dy cells.
func (v *viewport) pan(dx, dy int) {
	v.center.X += float64(dx*2) * v.scale
	v.center.Y -= float64(dy*4) * v.scale
}
