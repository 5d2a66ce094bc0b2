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
	"sort"

	"github.com/ctessum/geom"
)

// FeatureID identifies a feature within a target layer.
type FeatureID int64

// Selection is an unordered set of feature ids. The set operations return
// new selections and never modify their receivers.
type Selection map[FeatureID]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...FeatureID) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into s.
func (s Selection) Add(id FeatureID) { s[id] = struct{}{} }

// Contains reports whether id is in s.
func (s Selection) Contains(id FeatureID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in s.
func (s Selection) Len() int { return len(s) }

// Clone returns a copy of s. The copy of a nil selection is empty, not nil.
func (s Selection) Clone() Selection {
	o := make(Selection, len(s))
	for id := range s {
		o[id] = struct{}{}
	}
	return o
}

// Union returns the ids in s or o.
func (s Selection) Union(o Selection) Selection {
	r := s.Clone()
	for id := range o {
		r[id] = struct{}{}
	}
	return r
}

// Intersect returns the ids in both s and o.
func (s Selection) Intersect(o Selection) Selection {
	small, big := s, o
	if len(big) < len(small) {
		small, big = big, small
	}
	r := make(Selection)
	for id := range small {
		if big.Contains(id) {
			r[id] = struct{}{}
		}
	}
	return r
}

// Difference returns the ids in s that are not in o.
func (s Selection) Difference(o Selection) Selection {
	r := make(Selection)
	for id := range s {
		if !o.Contains(id) {
			r[id] = struct{}{}
		}
	}
	return r
}

// Sorted returns the ids in ascending order.
func (s Selection) Sorted() []FeatureID {
	o := make([]FeatureID, 0, len(s))
	for id := range s {
		o = append(o, id)
	}
	sort.Slice(o, func(i, j int) bool { return o[i] < o[j] })
	return o
}

// Result is the outcome of a selection computation.
type Result struct {
	// Selection holds the selected ids.
	Selection Selection

	// Count is the number of selected ids.
	Count int

	// Lines is the number of lines given to the engine and Applied is the
	// number that contributed to the selection.
	Lines, Applied int

	// Skipped holds one error for each line that did not contribute.
	Skipped []error
}

// Summary describes how many lines contributed to r.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d of %d lines contributed; %d skipped", r.Applied, r.Lines, len(r.Skipped))
}

// Feature is a candidate for selection.
type Feature struct {
	ID   FeatureID
	Geom geom.Geom
}

// Target supplies the candidate features for a selection.
type Target interface {
	// Candidates returns the features whose bounds may overlap b. It may
	// return features that do not overlap b, but must not omit any that do.
	Candidates(b *geom.Bounds) ([]Feature, error)
}

// Features is a Target that scans every feature.
type Features []Feature

// Candidates implements Target by returning all features.
func (f Features) Candidates(*geom.Bounds) ([]Feature, error) {
	return f, nil
}
