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
	"reflect"
	"testing"
)

func TestSelectionAlgebra(t *testing.T) {
	a := NewSelection(1, 2, 3)
	b := NewSelection(3, 4)

	if have, want := a.Union(b), NewSelection(1, 2, 3, 4); !reflect.DeepEqual(have, want) {
		t.Errorf("union: have %v, want %v", have.Sorted(), want.Sorted())
	}
	if have, want := a.Intersect(b), NewSelection(3); !reflect.DeepEqual(have, want) {
		t.Errorf("intersect: have %v, want %v", have.Sorted(), want.Sorted())
	}
	if have, want := a.Difference(b), NewSelection(1, 2); !reflect.DeepEqual(have, want) {
		t.Errorf("difference: have %v, want %v", have.Sorted(), want.Sorted())
	}
	if have, want := b.Difference(a), NewSelection(4); !reflect.DeepEqual(have, want) {
		t.Errorf("difference: have %v, want %v", have.Sorted(), want.Sorted())
	}
	if !reflect.DeepEqual(a, NewSelection(1, 2, 3)) || !reflect.DeepEqual(b, NewSelection(3, 4)) {
		t.Errorf("operands were modified: %v, %v", a.Sorted(), b.Sorted())
	}
}

func TestSelectionNil(t *testing.T) {
	var s Selection
	if s.Len() != 0 || s.Contains(1) {
		t.Error("nil selection is not empty")
	}
	c := s.Clone()
	if c == nil {
		t.Fatal("clone of nil selection is nil")
	}
	c.Add(5)
	if !c.Contains(5) || c.Len() != 1 {
		t.Errorf("clone: %v", c.Sorted())
	}
	if u := s.Union(NewSelection(2)); !reflect.DeepEqual(u, NewSelection(2)) {
		t.Errorf("union with nil: %v", u.Sorted())
	}
	if i := s.Intersect(NewSelection(2)); i.Len() != 0 {
		t.Errorf("intersect with nil: %v", i.Sorted())
	}
}

func TestSelectionSorted(t *testing.T) {
	s := NewSelection(9, -2, 4, 4, 0)
	if have, want := s.Sorted(), []FeatureID{-2, 0, 4, 9}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	if have := NewSelection().Sorted(); len(have) != 0 {
		t.Errorf("empty: %v", have)
	}
}
