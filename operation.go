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

package lineselect

import (
	"fmt"
	"image/color"
	"strings"
)

// Operation is the set operation a drawn line applies to the running
// selection.
type Operation int

// The zero Operation is OpNone, which means no operation has been chosen.
const (
	OpNone Operation = iota
	// Add unions the features a line crosses into the selection.
	Add
	// Filter keeps only the selected features that a line crosses.
	Filter
	// Remove drops the features a line crosses from the selection.
	Remove
)

func (op Operation) String() string {
	switch op {
	case OpNone:
		return "none"
	case Add:
		return "add"
	case Filter:
		return "filter"
	case Remove:
		return "remove"
	default:
		return fmt.Sprintf("Operation(%d)", int(op))
	}
}

// Valid reports whether op is one of Add, Filter or Remove.
func (op Operation) Valid() bool {
	return op == Add || op == Filter || op == Remove
}

// ParseOperation returns the operation named by s. It accepts the
// operation names and their first letters, in any case.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "a":
		return Add, nil
	case "filter", "f":
		return Filter, nil
	case "remove", "r":
		return Remove, nil
	case "none", "":
		return OpNone, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrInvalidOperation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (op Operation) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Operation) UnmarshalText(b []byte) error {
	o, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*op = o
	return nil
}

// Style is the presentation of a drawn line. It has no bearing on
// selection.
type Style struct {
	Color color.RGBA
	Width int
}

const lineWidth = 2

// Style returns the presentation style for lines tagged with op.
func (op Operation) Style() Style {
	switch op {
	case Add:
		return Style{Color: color.RGBA{R: 255, A: 255}, Width: lineWidth}
	case Filter:
		return Style{Color: color.RGBA{B: 255, A: 255}, Width: lineWidth}
	case Remove:
		return Style{Color: color.RGBA{R: 255, G: 140, A: 255}, Width: lineWidth}
	default:
		return Style{}
	}
}

// Mode is the policy used to tag captured lines with operations.
type Mode int

const (
	// Automatic tags the line in slot 0 Add and every other line Filter.
	Automatic Mode = iota
	// Manual tags each line with the operation chosen before it was drawn.
	Manual
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the mode named by s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "automatic", "auto":
		return Automatic, nil
	case "manual":
		return Manual, nil
	}
	return Automatic, fmt.Errorf("lineselect: invalid mode %q: must be automatic or manual", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	mm, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mm
	return nil
}
