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
	"errors"
	"fmt"
)

// These errors classify failures reported by the capture session and the
// selection engine. Use errors.Is to test for them.
var (
	// ErrInvalidState is returned when an operation is called while the
	// capture session is not in the state the operation requires.
	ErrInvalidState = errors.New("lineselect: invalid state")

	// ErrInvalidMode is returned when a Manual-only operation is
	// called in Automatic mode.
	ErrInvalidMode = errors.New("lineselect: invalid mode")

	// ErrInvalidOperation is returned for an unknown or unset line operation.
	ErrInvalidOperation = errors.New("lineselect: invalid operation")

	// ErrGeometryTransform marks a line whose coordinates could not be
	// transformed into the target spatial reference.
	ErrGeometryTransform = errors.New("lineselect: geometry transform failed")

	// ErrInvalidTarget is returned when no candidate layer is supplied
	// or the layer cannot be read.
	ErrInvalidTarget = errors.New("lineselect: invalid target")
)

// StateError is returned when a capture operation is attempted in the
// wrong state.
type StateError struct {
	Op    string
	State State
}

func (err StateError) Error() string {
	return fmt.Sprintf("lineselect: %s is not allowed in state %v", err.Op, err.State)
}

// Unwrap allows errors.Is(err, ErrInvalidState).
func (err StateError) Unwrap() error { return ErrInvalidState }

// ModeError is returned when a capture operation is attempted in a mode
// that does not support it.
type ModeError struct {
	Op   string
	Mode Mode
}

func (err ModeError) Error() string {
	return fmt.Sprintf("lineselect: %s is not allowed in %v mode", err.Op, err.Mode)
}

// Unwrap allows errors.Is(err, ErrInvalidMode).
func (err ModeError) Unwrap() error { return ErrInvalidMode }

// TransformError reports a line that did not contribute to a selection
// because its coordinates could not be transformed.
type TransformError struct {
	// Index is the ring-buffer slot of the line.
	Index int
	Err   error
}

func (err TransformError) Error() string {
	return fmt.Sprintf("lineselect: transforming line %d: %v", err.Index, err.Err)
}

// Is reports whether target is ErrGeometryTransform.
func (err TransformError) Is(target error) bool { return target == ErrGeometryTransform }

// Unwrap returns the underlying transform error.
func (err TransformError) Unwrap() error { return err.Err }

// OperationError reports a line that was skipped because it carries no
// usable operation.
type OperationError struct {
	Index int
	Op    Operation
}

func (err OperationError) Error() string {
	return fmt.Sprintf("lineselect: line %d has operation %v", err.Index, err.Op)
}

// Unwrap allows errors.Is(err, ErrInvalidOperation).
func (err OperationError) Unwrap() error { return ErrInvalidOperation }
