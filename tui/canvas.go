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
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ink is what a canvas cell shows. A cell takes the highest ink drawn
// into it.
type ink uint8

const (
	inkNone ink = iota
	inkFeature
	inkSelected
	inkAdd
	inkFilter
	inkRemove
	inkLabel
)

// brailleBits holds the dot of each pixel within a cell, by row and
// column.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a braille drawing surface of w by h cells.
type canvas struct {
	w, h int
	dots [][]uint8
	ink  [][]ink
	text map[[2]int]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{
		w:    w,
		h:    h,
		dots: make([][]uint8, h),
		ink:  make([][]ink, h),
		text: make(map[[2]int]rune),
	}
	for y := range c.dots {
		c.dots[y] = make([]uint8, w)
		c.ink[y] = make([]ink, w)
	}
	return c
}

// set turns on pixel (x, y). Pixels outside the canvas are ignored.
func (c *canvas) set(x, y int, k ink) {
	if x < 0 || y < 0 || x >= c.w*2 || y >= c.h*4 {
		return
	}
	cx, cy := x/2, y/4
	c.dots[cy][cx] |= brailleBits[y%4][x%2]
	if k > c.ink[cy][cx] {
		c.ink[cy][cx] = k
	}
}

// point draws a pixel at a fractional pixel position.
func (c *canvas) point(x, y float64, k ink) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	c.set(int(math.Floor(x)), int(math.Floor(y)), k)
}

// line draws the part of segment (x0, y0)-(x1, y1) that falls on the
// canvas.
func (c *canvas) line(x0, y0, x1, y1 float64, k ink) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, float64(c.w*2), float64(c.h*4))
	if !ok {
		return
	}
	ax, ay := int(math.Floor(x0)), int(math.Floor(y0))
	bx, by := int(math.Floor(x1)), int(math.Floor(y1))
	dx, sx := abs(bx-ax), 1
	if ax > bx {
		sx = -1
	}
	dy, sy := -abs(by-ay), 1
	if ay > by {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(ax, ay, k)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// label writes s into the cells starting at (cx, cy).
func (c *canvas) label(cx, cy int, s string) {
	if cy < 0 || cy >= c.h {
		return
	}
	for i, r := range []rune(s) {
		x := cx + i
		if x < 0 || x >= c.w {
			continue
		}
		c.text[[2]int{x, cy}] = r
		c.ink[cy][x] = inkLabel
	}
}

// render returns the canvas as text, one line per row. Runs of cells
// with the same ink are drawn with the matching style.
func (c *canvas) render(styles map[ink]lipgloss.Style) string {
	rows := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		var run []rune
		cur := inkNone
		flush := func() {
			if len(run) == 0 {
				return
			}
			if s, ok := styles[cur]; ok {
				b.WriteString(s.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			r := ' '
			if t, ok := c.text[[2]int{x, y}]; ok {
				r = t
			} else if d := c.dots[y][x]; d != 0 {
				r = rune(0x2800 + int(d))
			}
			k := c.ink[y][x]
			if k != cur {
				flush()
				cur = k
			}
			run = append(run, r)
		}
		flush()
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

// clip returns the part of segment (x0, y0)-(x1, y1) inside
// [0, xmax] x [0, ymax], using the Liang-Barsky method.
func clip(x0, y0, x1, y1, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{{-dx, x0}, {dx, xmax - x0}, {-dy, y0}, {dy, ymax - y0}}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
