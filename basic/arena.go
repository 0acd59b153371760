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

// Arena is the single contiguous byte region described in spec.md §3.1:
// the program area grows up from offset 0, the heap area grows down from
// the top, and allocation on either side fails with ErrOutOfMemory once
// they would collide.
//
// The program area holds the actual token bytes of stored lines (see
// Program). The heap area does not store marshalled object bytes directly;
// instead each named object charges its footprint against the arena's free
// gap via Alloc, so the OUTOFMEMORY accounting spec.md requires is exact
// while the Go-native object itself (Heap's map of *object) is what the
// interpreter actually manipulates. This keeps the arena as the single
// source of truth for "is there room" without a full byte-marshalling
// layer for every scalar/array/string object.
type Arena struct {
	size    int
	progEnd int
	heapPtr int
}

// NewArena allocates a new arena of the given size in bytes.
func NewArena(size int) *Arena {
	return &Arena{size: size, progEnd: 0, heapPtr: size}
}

// Size returns the total arena size in bytes.
func (a *Arena) Size() int { return a.size }

// ProgramUsed returns the number of bytes currently used by the program area.
func (a *Arena) ProgramUsed() int { return a.progEnd }

// HeapUsed returns the number of bytes currently charged to the heap area.
func (a *Arena) HeapUsed() int { return a.size - a.heapPtr }

// Free returns the size of the gap between the program and heap areas.
func (a *Arena) Free() int { return a.heapPtr - a.progEnd }

// GrowProgram reserves n additional bytes at the top of the program area and
// returns the byte offset of the reserved block.
func (a *Arena) GrowProgram(n int) (int, error) {
	if a.progEnd+n > a.heapPtr {
		return 0, ErrOutOfMemory
	}
	off := a.progEnd
	a.progEnd += n
	return off, nil
}

// ShrinkProgram truncates the program area to newEnd bytes, e.g. after a
// line is deleted or replaced with a shorter one.
func (a *Arena) ShrinkProgram(newEnd int) { a.progEnd = newEnd }

// AllocHeap reserves n bytes at the bottom of the heap area (it grows down)
// and returns the offset of the allocated block for bookkeeping purposes.
func (a *Arena) AllocHeap(n int) (int, error) {
	if a.heapPtr-n < a.progEnd {
		return 0, ErrOutOfMemory
	}
	a.heapPtr -= n
	return a.heapPtr, nil
}

// ResetHeap discards every heap allocation, as CLR and NEW do.
func (a *Arena) ResetHeap() { a.heapPtr = a.size }

// Reset discards both the program and the heap, as NEW does.
func (a *Arena) Reset() {
	a.progEnd = 0
	a.heapPtr = a.size
}
