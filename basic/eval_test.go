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

// nullHost is a minimal Host for white-box evaluator tests that never
// touch the console, clock or random surfaces.
type nullHost struct{}

func (nullHost) ReadByte() (byte, error) { return 0, nil }
func (nullHost) WriteByte(b byte) error  { return nil }
func (nullHost) Available() (int, error) { return 0, nil }
func (nullHost) Flush() error            { return nil }
func (nullHost) Millis() uint32          { return 0 }
func (nullHost) Seed(seed uint32)        {}
func (nullHost) Rand() uint32            { return 1 }

func newTestMachine(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	m, err := New(nullHost{}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func evalOK(t *testing.T, m *Machine, expr string) Value {
	t.Helper()
	v, err := m.evalString(expr)
	if err != nil {
		t.Fatalf("evalString(%q): %v", expr, err)
	}
	return v
}

func TestEval_arithmeticPrecedence(t *testing.T) {
	m := newTestMachine(t)
	cases := []struct {
		expr string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10-2-3", 5},
		{"2*3+4*5", 26},
		{"10/2/5", 1},
	}
	for _, c := range cases {
		if got := evalOK(t, m, c.expr).Float(); got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestEval_powerLeftAssocByDefault(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, "2^3^2").Float(); got != 64 {
		t.Errorf("2^3^2 = %v, want 64 (left-assoc: (2^3)^2)", got)
	}
}

func TestEval_powerRightAssocWhenConfigured(t *testing.T) {
	s := DefaultSettings()
	s.PowerRightAssoc = true
	m := newTestMachine(t, WithSettings(s))
	if got := evalOK(t, m, "2^3^2").Float(); got != 512 {
		t.Errorf("2^3^2 = %v, want 512 (right-assoc: 2^(3^2))", got)
	}
}

func TestEval_relationalBitwiseBoolean(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, "1=1").Int; got != -1 {
		t.Errorf("1=1 = %d, want -1 (bitwise true)", got)
	}
	if got := evalOK(t, m, "1=2").Int; got != 0 {
		t.Errorf("1=2 = %d, want 0", got)
	}
}

func TestEval_relationalCBoolean(t *testing.T) {
	s := DefaultSettings()
	s.BoolMode = BoolC
	m := newTestMachine(t, WithSettings(s))
	if got := evalOK(t, m, "1=1").Int; got != 1 {
		t.Errorf("1=1 = %d, want 1 (C-mode true)", got)
	}
}

func TestEval_stringComparison(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, `"ABC"="ABC"`).Int; got != -1 {
		t.Errorf(`"ABC"="ABC" = %d, want -1`, got)
	}
	if got := evalOK(t, m, `"ABC"<"ABD"`).Int; got != -1 {
		t.Errorf(`"ABC"<"ABD" = %d, want -1`, got)
	}
}

func TestEval_divisionByZeroRaisesError(t *testing.T) {
	m := newTestMachine(t)
	if _, err := m.evalString("1/0"); err == nil {
		t.Fatal("1/0 should raise DIVBYZERO")
	} else if be, ok := err.(*Error); !ok || be.Kind != KindDivByZero {
		t.Errorf("got %v, want a DIVBYZERO *Error", err)
	}
}

func TestEval_logicalAndOr(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, "1 AND 1").Int; got != 1 {
		t.Errorf("1 AND 1 = %d, want 1", got)
	}
	if got := evalOK(t, m, "1 AND 0").Int; got != 0 {
		t.Errorf("1 AND 0 = %d, want 0", got)
	}
	if got := evalOK(t, m, "0 OR 4").Int; got != 4 {
		t.Errorf("0 OR 4 = %d, want 4", got)
	}
}

func TestEval_notBitwise(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, "NOT 0").Int; got != -1 {
		t.Errorf("NOT 0 = %d, want -1", got)
	}
}

func TestEval_errPseudoVariable(t *testing.T) {
	m := newTestMachine(t)
	m.errCode = int(KindDivByZero)
	if got := evalOK(t, m, "ERR").Int; got != int32(KindDivByZero) {
		t.Errorf("ERR = %d, want %d", got, int32(KindDivByZero))
	}
}

func TestEval_shiftOperators(t *testing.T) {
	m := newTestMachine(t)
	if got := evalOK(t, m, "1<<4").Int; got != 16 {
		t.Errorf("1<<4 = %d, want 16", got)
	}
	if got := evalOK(t, m, "16>>4").Int; got != 1 {
		t.Errorf("16>>4 = %d, want 1", got)
	}
}
