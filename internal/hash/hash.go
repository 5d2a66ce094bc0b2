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

// Package hash computes cache keys for selection inputs.
package hash

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"io"
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// printer is used for values that gob cannot encode deterministically.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Key returns a hex-encoded fnv-128a digest of objects. Equal inputs
// give equal keys, regardless of map iteration order.
func Key(objects ...interface{}) string {
	h := fnv.New128a()
	for _, o := range objects {
		write(h, o)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func write(w io.Writer, o interface{}) {
	if o != nil && !hasMap(reflect.TypeOf(o), map[reflect.Type]bool{}) {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(o); err == nil {
			w.Write(buf.Bytes())
			return
		}
	}
	// gob writes maps in iteration order, and fails on nil values.
	printer.Fprintf(w, "%#v", o)
}

// hasMap reports whether values of type t can contain a map.
func hasMap(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true
	switch t.Kind() {
	case reflect.Map, reflect.Interface:
		return true
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return hasMap(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasMap(t.Field(i).Type, seen) {
				return true
			}
		}
	}
	return false
}
