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
	"testing"

	"github.com/ctessum/geom"
)

func TestCanvas(t *testing.T) {
	tests := []struct {
		name string
		draw func(c *canvas)
		want string
	}{
		{
			name: "top row",
			draw: func(c *canvas) { c.line(0, 0, 3, 0, inkFeature) },
			want: "⠉⠉",
		},
		{
			name: "clipped",
			draw: func(c *canvas) { c.line(-10, 1.5, 100, 1.5, inkFeature) },
			want: "⠒⠒",
		},
		{
			name: "outside",
			draw: func(c *canvas) { c.line(-10, -5, 100, -5, inkFeature) },
			want: "  ",
		},
		{
			name: "not finite",
			draw: func(c *canvas) { c.line(math.NaN(), 0, 3, 0, inkFeature) },
			want: "  ",
		},
		{
			name: "point",
			draw: func(c *canvas) { c.point(3.5, 3.5, inkFeature) },
			want: " ⢀",
		},
		{
			name: "label",
			draw: func(c *canvas) {
				c.line(0, 0, 3, 0, inkFeature)
				c.label(1, 0, "7")
			},
			want: "⠉7",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newCanvas(2, 1)
			test.draw(c)
			if have := c.render(nil); have != test.want {
				t.Errorf("want %q, have %q", test.want, have)
			}
		})
	}
}

func TestCanvasInk(t *testing.T) {
	c := newCanvas(1, 1)
	c.set(0, 0, inkSelected)
	c.set(1, 0, inkFeature)
	if c.ink[0][0] != inkSelected {
		t.Errorf("lower ink replaced higher ink: %v", c.ink[0][0])
	}
}

func TestViewportRoundTrip(t *testing.T) {
	b := &geom.Bounds{Min: geom.Point{X: -120, Y: 30}, Max: geom.Point{X: -100, Y: 45}}
	v := fit(b, 30, 12)
	for cx := 0; cx < v.w; cx++ {
		for cy := 0; cy < v.h; cy++ {
			x, y := v.pixel(v.point(cx, cy))
			if int(math.Floor(x/2)) != cx || int(math.Floor(y/4)) != cy {
				t.Fatalf("cell (%d, %d) maps to pixel (%g, %g)", cx, cy, x, y)
			}
		}
	}
	vb := v.bounds()
	if vb.Min.X > b.Min.X || vb.Min.Y > b.Min.Y || vb.Max.X < b.Max.X || vb.Max.Y < b.Max.Y {
		t.Errorf("fitted view %v does not contain %v", vb, b)
	}

	p := v.point(5, 5)
	v.pan(1, 1)
	q := v.point(4, 4)
	if math.Abs(p.X-q.X) > 1e-9 || math.Abs(p.Y-q.Y) > 1e-9 {
		t.Errorf("pan: want %v, have %v", p, q)
	}
}

func TestFitEmpty(t *testing.T) {
	v := fit(&geom.Bounds{Min: geom.Point{X: 1, Y: 1}, Max: geom.Point{X: 0, Y: 0}}, 10, 10)
	if v.scale != 1 {
		t.Errorf("scale: %g", v.scale)
	}
}
