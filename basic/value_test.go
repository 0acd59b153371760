// This file is part of tbasic - https://github.com/sl001/tbasic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package basic

import "testing"

func TestValue_truth(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{IntValue(0), false},
		{IntValue(1), true},
		{IntValue(-1), true},
		{FloatValue(0), false},
		{FloatValue(0.5), true},
	}
	for _, c := range cases {
		if got := c.v.Truth(); got != c.want {
			t.Errorf("%v.Truth() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValue_float(t *testing.T) {
	if got := IntValue(3).Float(); got != 3 {
		t.Errorf("IntValue(3).Float() = %v, want 3", got)
	}
	if got := FloatValue(2.5).Float(); got != 2.5 {
		t.Errorf("FloatValue(2.5).Float() = %v, want 2.5", got)
	}
}

func TestValue_string(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{IntValue(42), "42"},
		{FloatValue(3.5), "3.5"},
		{StringValue("hi"), "hi"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("%+v.String() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValue_isNumeric(t *testing.T) {
	if !IntValue(1).IsNumeric() {
		t.Error("IntValue should be numeric")
	}
	if !FloatValue(1).IsNumeric() {
		t.Error("FloatValue should be numeric")
	}
	if StringValue("x").IsNumeric() {
		t.Error("StringValue should not be numeric")
	}
}
