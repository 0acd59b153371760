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

package basic_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sl001/tbasic/basic"
)

// fakeHost is a minimal in-memory Host for tests: console I/O goes through
// buffers, the clock is a manually advanced counter, random is a simple
// LCG.
type fakeHost struct {
	out   bytes.Buffer
	in    *strings.Reader
	ms    uint32
	rng   uint32
	brk   bool
}

func newFakeHost(input string) *fakeHost {
	return &fakeHost{in: strings.NewReader(input), rng: 1}
}

func (h *fakeHost) ReadByte() (byte, error)  { return h.in.ReadByte() }
func (h *fakeHost) WriteByte(b byte) error   { return h.out.WriteByte(b) }
func (h *fakeHost) Available() (int, error)  { return h.in.Len(), nil }
func (h *fakeHost) Flush() error             { return nil }
func (h *fakeHost) Millis() uint32           { return h.ms }
func (h *fakeHost) Seed(seed uint32)         { h.rng = seed }
func (h *fakeHost) Rand() uint32 {
	h.rng = h.rng*1664525 + 1013904223
	return h.rng
}
func (h *fakeHost) BreakRequested() bool { return h.brk }

func setup(t *testing.T, opts ...basic.Option) (*basic.Machine, *fakeHost) {
	t.Helper()
	h := newFakeHost("")
	m, err := basic.New(h, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, h
}

func load(t *testing.T, m *basic.Machine, src string) {
	t.Helper()
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := m.Exec(line); err != nil {
			t.Fatalf("exec %q: %v", line, err)
		}
	}
}

func TestRun_forLoopPrintsRange(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 FOR I=1 TO 3
		20 PRINT I
		30 NEXT
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := h.out.String(), "1\n2\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_powerAssociativity(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 LET A=2^3^2
		20 PRINT A
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h.out.String()), "64"; got != want {
		t.Errorf("left-assoc power: output = %q, want %q", got, want)
	}

	m2, h2 := setup(t, basic.WithSettings(func() basic.Settings {
		s := basic.DefaultSettings()
		s.PowerRightAssoc = true
		return s
	}()))
	load(t, m2, `
		10 LET A=2^3^2
		20 PRINT A
	`)
	if err := m2.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h2.out.String()), "512"; got != want {
		t.Errorf("right-assoc power: output = %q, want %q", got, want)
	}
}

func TestRun_onGoto(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 ON 2 GOTO 100,200,300
		100 PRINT "A":END
		200 PRINT "B":END
		300 PRINT "C":END
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h.out.String()), "B"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_arrayBoundsRange(t *testing.T) {
	m, _ := setup(t)
	load(t, m, `
		10 DIM A(3)
		20 A(4)=1
	`)
	err := m.Run()
	if err == nil {
		t.Fatal("expected RANGE error")
	}
	be, ok := err.(*basic.Error)
	if !ok || be.Kind != basic.KindRange {
		t.Fatalf("got %v, want a RANGE *basic.Error", err)
	}
}

func TestRun_arrayBoundsDefaultOrigin(t *testing.T) {
	m, _ := setup(t)
	load(t, m, `DIM A(5)`)
	// default origin is 1: A(1)..A(5) succeed, A(0) and A(6) raise RANGE.
	if err := m.Exec(`A(1)=10`); err != nil {
		t.Fatalf("A(1): %v", err)
	}
	if err := m.Exec(`A(5)=50`); err != nil {
		t.Fatalf("A(5): %v", err)
	}
	if err := m.Exec(`A(0)=1`); err == nil {
		t.Fatal("expected RANGE for A(0)")
	}
	if err := m.Exec(`A(6)=1`); err == nil {
		t.Fatal("expected RANGE for A(6)")
	}
}

func TestRun_errorGotoCatchesDivByZero(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 ERROR GOTO 100
		20 PRINT 1/0
		30 END
		100 PRINT "CAUGHT":END
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h.out.String()), "CAUGHT"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_gosubReturnBalance(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 GOSUB 100
		20 PRINT "DONE"
		30 END
		100 PRINT "SUB"
		110 RETURN
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := h.out.String(), "SUB\nDONE\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_booleanModeSwitch(t *testing.T) {
	m, h := setup(t)
	load(t, m, `10 PRINT (1=1)+1`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h.out.String()), "0"; got != want {
		t.Errorf("bitwise mode: output = %q, want %q", got, want)
	}

	s := basic.DefaultSettings()
	s.BoolMode = basic.BoolC
	m2, h2 := setup(t, basic.WithSettings(s))
	load(t, m2, `10 PRINT (1=1)+1`)
	if err := m2.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h2.out.String()), "2"; got != want {
		t.Errorf("C mode: output = %q, want %q", got, want)
	}
}

func TestRun_stringInplaceMid(t *testing.T) {
	m, h := setup(t)
	load(t, m, `10 A$="HELLO": MID$(A$,2,3)="XYZ": PRINT A$`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := strings.TrimSpace(h.out.String()), "HXYZO"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_listOrder(t *testing.T) {
	m, _ := setup(t)
	load(t, m, `
		30 PRINT "C"
		10 PRINT "A"
		20 PRINT "B"
	`)
	var nums []uint16
	m.Program().Iterate(func(n uint16, _ []byte) bool {
		nums = append(nums, n)
		return true
	})
	want := []uint16{10, 20, 30}
	if len(nums) != len(want) {
		t.Fatalf("got %v, want %v", nums, want)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Errorf("nums[%d] = %d, want %d", i, nums[i], want[i])
		}
	}
}

func TestRun_forTerminationCount(t *testing.T) {
	m, _ := setup(t)
	load(t, m, `
		10 N=0
		20 FOR I=1 TO 10 STEP 3
		30 N=N+1
		40 NEXT
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, err := m.Heap().Scalar("N", basic.VFloat)
	if err != nil {
		t.Fatalf("Scalar N: %v", err)
	}
	// floor((10-1)/3)+1 = 4
	if got := v.Float(); got != 4 {
		t.Errorf("N = %v, want 4", got)
	}
}

func TestRun_readPastDataIsUndefined(t *testing.T) {
	m, _ := setup(t)
	load(t, m, `
		10 DATA 1,2
		20 READ A
		30 READ B
		40 READ C
	`)
	err := m.Run()
	if err == nil {
		t.Fatal("expected UNDEFINED error reading past DATA")
	}
	be, ok := err.(*basic.Error)
	if !ok || be.Kind != basic.KindUndefined {
		t.Fatalf("got %v, want an UNDEFINED *basic.Error", err)
	}
}

func TestRun_whileLoop(t *testing.T) {
	m, h := setup(t)
	load(t, m, `
		10 I=0
		20 WHILE I<3
		30 PRINT I
		40 I=I+1
		50 WEND
	`)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := h.out.String(), "0\n1\n2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
