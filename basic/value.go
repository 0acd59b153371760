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

import "strconv"

// ValueKind tags the dynamic type carried by a Value (§3.4).
type ValueKind byte

const (
	VInt ValueKind = iota
	VFloat
	VString
)

func (k ValueKind) String() string {
	switch k {
	case VInt:
		return "INT"
	case VFloat:
		return "FLOAT"
	case VString:
		return "STRING"
	default:
		return "?"
	}
}

// Value is the tagged union passed between the evaluator, the heap and
// statement execution. Only one of Int, Flt, Str is meaningful, selected
// by Kind.
type Value struct {
	Kind ValueKind
	Int  int32
	Flt  float64
	Str  string
}

// IntValue builds an integer Value.
func IntValue(v int32) Value { return Value{Kind: VInt, Int: v} }

// FloatValue builds a float Value.
func FloatValue(v float64) Value { return Value{Kind: VFloat, Flt: v} }

// StringValue builds a string Value.
func StringValue(v string) Value { return Value{Kind: VString, Str: v} }

// IsNumeric reports whether v holds an INT or FLOAT.
func (v Value) IsNumeric() bool { return v.Kind == VInt || v.Kind == VFloat }

// Float widens an INT or FLOAT value to float64. Calling it on a STRING
// value is a programmer error; callers must type-check first.
func (v Value) Float() float64 {
	if v.Kind == VInt {
		return float64(v.Int)
	}
	return v.Flt
}

// Truth implements BASIC's boolean convention: zero is false, anything else
// (including negative numbers, per the default bitwise-boolean feature) is
// true. Strings are never truthy; callers must reject them before IF/WHILE.
func (v Value) Truth() bool {
	if v.Kind == VInt {
		return v.Int != 0
	}
	return v.Flt != 0
}

// String renders v the way PRINT would, without any trailing separator.
func (v Value) String() string {
	switch v.Kind {
	case VInt:
		return strconv.Itoa(int(v.Int))
	case VFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case VString:
		return v.Str
	default:
		return ""
	}
}
