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

func TestDump_includesArenaAndNames(t *testing.T) {
	m, err := basic.New(nullHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbasic.Load(strings.NewReader("10 X=1\n"), m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	if err := tbasic.Dump(&buf, m); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "arena:") {
		t.Errorf("dump missing arena section: %q", out)
	}
	if !strings.Contains(out, "X: scalar") {
		t.Errorf("dump missing bound name X: %q", out)
	}
}
