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

package tbasic_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sl001/tbasic/basic"
	"github.com/sl001/tbasic/lang/tbasic"
)

type nullHost struct{}

func (nullHost) ReadByte() (byte, error) { return 0, nil }
func (nullHost) WriteByte(b byte) error  { return nil }
func (nullHost) Available() (int, error) { return 0, nil }
func (nullHost) Flush() error            { return nil }
func (nullHost) Millis() uint32          { return 0 }
func (nullHost) Seed(seed uint32)        {}
func (nullHost) Rand() uint32            { return 1 }

func TestSave_roundTripsThroughLoad(t *testing.T) {
	m1, err := basic.New(nullHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := "10 PRINT \"HI\"\n20 LET X=1+2\n30 END\n"
	if err := tbasic.Load(strings.NewReader(src), m1); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var buf bytes.Buffer
	if err := tbasic.Save(&buf, m1); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2, err := basic.New(nullHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbasic.Load(&buf, m2); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if m2.Program().Len() != 3 {
		t.Fatalf("reloaded program has %d lines, want 3", m2.Program().Len())
	}
}

func TestLoad_skipsBlankLines(t *testing.T) {
	m, err := basic.New(nullHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := "10 PRINT 1\n\n   \n20 PRINT 2\n"
	if err := tbasic.Load(strings.NewReader(src), m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Program().Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Program().Len())
	}
}

func TestSave_persistsPowerAssociativityAcrossSettingsChange(t *testing.T) {
	s := basic.DefaultSettings()
	s.PowerRightAssoc = true
	m1, err := basic.New(nullHost{}, basic.WithSettings(s))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbasic.Load(strings.NewReader("10 X=2^3^2\n"), m1); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m1.Program().Header.PowerRightToLeft {
		t.Fatal("Header.PowerRightToLeft should be stamped true from Settings on first store")
	}

	var buf bytes.Buffer
	if err := tbasic.Save(&buf, m1); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(buf.String(), "#HEADER POWERRIGHTTOLEFT=1") {
		t.Fatalf("saved text missing header pragma: %q", buf.String())
	}

	m2, err := basic.New(nullHost{}) // default Settings: PowerRightAssoc false
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbasic.Load(&buf, m2); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !m2.Program().Header.PowerRightToLeft {
		t.Error("reloaded program should keep right-associative ^ despite m2's default left-associative Settings")
	}
}

func TestParseLineNumber(t *testing.T) {
	n, rest, ok := tbasic.ParseLineNumber("100 PRINT X")
	if !ok || n != 100 || rest != "PRINT X" {
		t.Errorf("ParseLineNumber = %d,%q,%v", n, rest, ok)
	}
	if _, _, ok := tbasic.ParseLineNumber("PRINT X"); ok {
		t.Error("ParseLineNumber should fail without a leading number")
	}
}
