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

func TestProgram_storeKeepsAscendingOrder(t *testing.T) {
	p := NewProgram(NewArena(1<<16), 0)
	p.Store(30, []byte("C"))
	p.Store(10, []byte("A"))
	p.Store(20, []byte("B"))

	var got []uint16
	p.Iterate(func(n uint16, _ []byte) bool {
		got = append(got, n)
		return true
	})
	want := []uint16{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestProgram_findAndDelete(t *testing.T) {
	p := NewProgram(NewArena(1<<16), 0)
	p.Store(10, []byte("A"))
	p.Store(20, []byte("B"))

	idx, ok := p.Find(20)
	if !ok {
		t.Fatal("Find(20) not found")
	}
	if n, tok := p.At(idx); n != 20 || string(tok) != "B" {
		t.Errorf("At(%d) = %d,%q", idx, n, tok)
	}

	p.Delete(10)
	if _, ok := p.Find(10); ok {
		t.Error("line 10 should be gone after Delete")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestProgram_replaceChargesDelta(t *testing.T) {
	a := NewArena(1 << 16)
	p := NewProgram(a, 0)
	p.Store(10, []byte("short"))
	used := a.ProgramUsed()
	p.Store(10, []byte("a much longer token stream"))
	if a.ProgramUsed() <= used {
		t.Errorf("ProgramUsed did not grow on longer replace: before=%d after=%d", used, a.ProgramUsed())
	}
	used = a.ProgramUsed()
	p.Store(10, []byte("x"))
	if a.ProgramUsed() >= used {
		t.Errorf("ProgramUsed did not shrink on shorter replace: before=%d after=%d", used, a.ProgramUsed())
	}
}

func TestProgram_deleteReleasesArenaSpace(t *testing.T) {
	a := NewArena(1 << 16)
	p := NewProgram(a, 0)
	p.Store(10, []byte("0123456789"))
	used := a.ProgramUsed()
	if used == 0 {
		t.Fatal("expected nonzero ProgramUsed after Store")
	}
	p.Delete(10)
	if a.ProgramUsed() != 0 {
		t.Errorf("ProgramUsed after Delete = %d, want 0", a.ProgramUsed())
	}
}

func TestProgram_findMissingLine(t *testing.T) {
	p := NewProgram(NewArena(1<<16), 0)
	p.Store(10, []byte("A"))
	if _, ok := p.Find(999); ok {
		t.Error("Find(999) should report not found")
	}
}

func TestProgram_cacheInvalidatesOnStore(t *testing.T) {
	p := NewProgram(NewArena(1<<16), 4)
	p.Store(10, []byte("A"))
	p.Store(20, []byte("B"))
	if _, ok := p.Find(20); !ok {
		t.Fatal("Find(20) should succeed, warming the cache")
	}
	p.Delete(20)
	if _, ok := p.Find(20); ok {
		t.Error("cached Find(20) should not survive a Delete")
	}
}

func TestProgram_clear(t *testing.T) {
	a := NewArena(1 << 16)
	p := NewProgram(a, 0)
	p.Store(10, []byte("A"))
	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", p.Len())
	}
	if a.ProgramUsed() != 0 {
		t.Errorf("ProgramUsed after Clear = %d, want 0", a.ProgramUsed())
	}
}
