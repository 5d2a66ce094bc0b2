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
	"image/color"
	"testing"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in      string
		want    Operation
		wantErr bool
	}{
		{in: "add", want: Add},
		{in: "A", want: Add},
		{in: " Filter ", want: Filter},
		{in: "f", want: Filter},
		{in: "remove", want: Remove},
		{in: "r", want: Remove},
		{in: "none", want: OpNone},
		{in: "", want: OpNone},
		{in: "xor", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			have, err := ParseOperation(test.in)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidOperation) {
					t.Errorf("have error %v, want ErrInvalidOperation", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if have != test.want {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestOperationText(t *testing.T) {
	for _, op := range []Operation{OpNone, Add, Filter, Remove} {
		b, err := op.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var o Operation
		if err := o.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if o != op {
			t.Errorf("%s: have %v", b, o)
		}
	}
	var o Operation
	if err := o.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected an error")
	}
}

func TestOperationStyle(t *testing.T) {
	if s := Add.Style(); s.Color != (color.RGBA{R: 255, A: 255}) || s.Width != 2 {
		t.Errorf("add: %+v", s)
	}
	if s := Filter.Style(); s.Color != (color.RGBA{B: 255, A: 255}) || s.Width != 2 {
		t.Errorf("filter: %+v", s)
	}
	if Remove.Style() == Add.Style() || Remove.Style() == Filter.Style() {
		t.Errorf("remove is not distinguishable: %+v", Remove.Style())
	}
	if s := OpNone.Style(); s != (Style{}) {
		t.Errorf("none: %+v", s)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"automatic": Automatic, "Auto": Automatic, "manual": Manual} {
		have, err := ParseMode(in)
		if err != nil {
			t.Fatal(err)
		}
		if have != want {
			t.Errorf("%s: have %v, want %v", in, have, want)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("expected an error")
	}
}
