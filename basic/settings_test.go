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

func TestSettings_defaults(t *testing.T) {
	s := DefaultSettings()
	if s.BoolMode != BoolBitwise {
		t.Errorf("BoolMode = %v, want BoolBitwise", s.BoolMode)
	}
	if s.ArrayOrigin != 1 {
		t.Errorf("ArrayOrigin = %d, want 1", s.ArrayOrigin)
	}
	if s.PowerRightAssoc {
		t.Error("PowerRightAssoc should default to false")
	}
}

func TestSettings_setAndGet(t *testing.T) {
	s := DefaultSettings()
	if err := s.Set(SetBoolMode, 1, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok := s.Get(SetBoolMode)
	if !ok || v != 1 {
		t.Errorf("Get(SetBoolMode) = %d,%v, want 1,true", v, ok)
	}
	if s.BoolMode != BoolC {
		t.Errorf("BoolMode = %v, want BoolC", s.BoolMode)
	}
}

func TestSettings_arrayOriginRejectsOutOfRange(t *testing.T) {
	s := DefaultSettings()
	if err := s.Set(SetArrayOrigin, 2, false); err == nil {
		t.Error("array origin 2 should raise RANGE")
	}
}

func TestSettings_unknownIndexStrictVsLenient(t *testing.T) {
	s := DefaultSettings()
	if err := s.Set(99, 1, false); err != nil {
		t.Errorf("non-strict unknown SET should be ignored, got %v", err)
	}
	if err := s.Set(99, 1, true); err == nil {
		t.Error("strict unknown SET should raise an error")
	}
}
