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

import "sort"

// line is one stored, tokenized program line.
type line struct {
	number uint16
	tokens []byte
}

// Header carries program-level configuration that must travel with the
// program text across SAVE/LOAD instead of living in the runtime Settings,
// which can change independently of any one loaded program (§9 Open
// Questions, "^ associativity").
type Header struct {
	// PowerRightToLeft records the ^ associativity the program was
	// tokenized with, so reloading it later reproduces the same
	// evaluation order regardless of the running machine's current
	// Settings.PowerRightAssoc.
	PowerRightToLeft bool
}

// Program is the line-addressed token store (§4.2). Lines are kept sorted
// by number; a small round-robin cache of recent line lookups speeds up
// GOTO/GOSUB targets in tight loops and is invalidated wholesale on any
// store or delete, per §4.2.
type Program struct {
	arena *Arena
	lines []line

	cache     []cacheEntry
	cacheSize int
	cacheNext int

	Header    Header
	headerSet bool
}

// SetHeader explicitly installs h as the program's header, e.g. when LOAD
// reads a persisted header pragma (§6.2). It marks the header as already
// initialized so the next stored line does not overwrite it with whatever
// the running Settings currently hold.
func (p *Program) SetHeader(h Header) {
	p.Header = h
	p.headerSet = true
}

type cacheEntry struct {
	number uint16
	index  int
	valid  bool
}

// DefaultLineCacheSize is the line-lookup cache size used when no
// LineCacheSize Option is given, matching the original firmware's
// LINECACHESIZE default.
const DefaultLineCacheSize = 64

// NewProgram creates an empty Program backed by arena, with the given line
// lookup cache size.
func NewProgram(arena *Arena, cacheSize int) *Program {
	if cacheSize <= 0 {
		cacheSize = DefaultLineCacheSize
	}
	return &Program{arena: arena, cacheSize: cacheSize, cache: make([]cacheEntry, cacheSize)}
}

// Store inserts or replaces the line numbered n with tokens. n must be
// nonzero; the caller is responsible for executing, rather than storing,
// unnumbered input (§4.3).
func (p *Program) Store(n uint16, tokens []byte) error {
	idx := p.search(n)
	cp := make([]byte, len(tokens))
	copy(cp, tokens)
	if idx < len(p.lines) && p.lines[idx].number == n {
		delta := len(tokens) - len(p.lines[idx].tokens)
		if delta > 0 {
			if _, err := p.arena.GrowProgram(delta); err != nil {
				return err
			}
		} else if delta < 0 {
			p.arena.ShrinkProgram(p.arena.ProgramUsed() + delta)
		}
		p.lines[idx].tokens = cp
	} else {
		if _, err := p.arena.GrowProgram(len(tokens)); err != nil {
			return err
		}
		p.lines = append(p.lines, line{})
		copy(p.lines[idx+1:], p.lines[idx:])
		p.lines[idx] = line{number: n, tokens: cp}
	}
	p.invalidateCache()
	return nil
}

// Delete removes the line numbered n, if present.
func (p *Program) Delete(n uint16) {
	idx := p.search(n)
	if idx >= len(p.lines) || p.lines[idx].number != n {
		return
	}
	p.arena.ShrinkProgram(p.arena.ProgramUsed() - len(p.lines[idx].tokens))
	p.lines = append(p.lines[:idx], p.lines[idx+1:]...)
	p.invalidateCache()
}

// Find returns the index of the line numbered n, or (0, false) if no such
// line exists. It consults and maintains the lookup cache.
func (p *Program) Find(n uint16) (int, bool) {
	for _, e := range p.cache {
		if e.valid && e.number == n {
			if e.index < len(p.lines) && p.lines[e.index].number == n {
				return e.index, true
			}
			break
		}
	}
	idx := p.search(n)
	if idx >= len(p.lines) || p.lines[idx].number != n {
		return 0, false
	}
	p.cache[p.cacheNext] = cacheEntry{number: n, index: idx, valid: true}
	p.cacheNext = (p.cacheNext + 1) % p.cacheSize
	return idx, true
}

// search returns the index of the first line with number >= n.
func (p *Program) search(n uint16) int {
	return sort.Search(len(p.lines), func(i int) bool { return p.lines[i].number >= n })
}

func (p *Program) invalidateCache() {
	for i := range p.cache {
		p.cache[i].valid = false
	}
}

// Len returns the number of stored lines.
func (p *Program) Len() int { return len(p.lines) }

// At returns the line number and tokens of the line at index idx, which
// must be in [0, Len()).
func (p *Program) At(idx int) (uint16, []byte) {
	l := p.lines[idx]
	return l.number, l.tokens
}

// Iterate calls fn for every stored line in ascending line-number order,
// stopping early if fn returns false.
func (p *Program) Iterate(fn func(number uint16, tokens []byte) bool) {
	for _, l := range p.lines {
		if !fn(l.number, l.tokens) {
			return
		}
	}
}

// Clear removes every stored line and releases the program area (NEW).
func (p *Program) Clear() {
	p.lines = nil
	p.arena.ShrinkProgram(0)
	p.invalidateCache()
	p.Header = Header{}
	p.headerSet = false
}
