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

import "github.com/sl001/tbasic/lex"

const defaultMemSize = 1 << 16

// Option configures a Machine at construction time.
type Option func(*Machine) error

// MemSize sets the arena size in bytes.
func MemSize(size int) Option {
	return func(m *Machine) error { m.memSize = size; return nil }
}

// GosubDepth sets the GOSUB return-stack depth.
func GosubDepth(depth int) Option {
	return func(m *Machine) error { m.gosub = newGosubStack(depth); return nil }
}

// ForDepth sets the FOR-loop stack depth.
func ForDepth(depth int) Option {
	return func(m *Machine) error { m.forSt = newForStack(depth); m.structSt = newStructStack(depth); return nil }
}

// LineCacheSize sets the GOTO/GOSUB line-lookup cache size.
func LineCacheSize(size int) Option {
	return func(m *Machine) error { m.lineCacheSize = size; return nil }
}

// WithSettings replaces the engine's default runtime settings wholesale.
func WithSettings(s Settings) Option {
	return func(m *Machine) error { m.settings = s; return nil }
}

// Machine is an embeddable BASIC engine instance: one arena, one heap, one
// program store, one set of control stacks, driven by a Host.
type Machine struct {
	host Host

	memSize       int
	lineCacheSize int

	arena *Arena
	heap  *Heap
	prog  *Program

	settings  Settings
	nameWidth int
	tokenizer *lex.Tokenizer

	gosub    *gosubStack
	forSt    *forStack
	structSt *structStack
	data     dataCursor
	disp     *dispatcher

	errHandlerLine uint16
	errArmed       bool
	errCode        int

	lineIdx int
	curLine uint16
	tok     []byte
	pos     int
}

// New creates a Machine bound to host, applying opts over the engine
// defaults (§6.4, §9 "tagged variants replace the C macro-flag matrix").
func New(host Host, opts ...Option) (*Machine, error) {
	m := &Machine{
		host:     host,
		memSize:  defaultMemSize,
		settings: DefaultSettings(),
		disp:     newDispatcher(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.arena = NewArena(m.memSize)
	m.heap = NewHeap(m.arena)
	m.prog = NewProgram(m.arena, m.lineCacheSize)
	if m.gosub == nil {
		m.gosub = newGosubStack(DefaultGosubDepth)
	}
	if m.forSt == nil {
		m.forSt = newForStack(DefaultForDepth)
		m.structSt = newStructStack(DefaultForDepth)
	}
	m.tokenizer = lex.NewTokenizer(m.features())
	m.nameWidth = m.features().NameWidthBytes()
	return m, nil
}

func (m *Machine) features() lex.Features {
	return lex.Features{
		NumberSystems: m.settings.NumberSystems,
		Float:         m.settings.Float,
		WideInt:       m.settings.WideInt,
		LongNames:     m.settings.LongNames,
		NameWidth:     m.settings.NameWidth,
	}
}

// Settings returns the engine's current runtime settings (for SET/inspection).
func (m *Machine) Settings() *Settings { return &m.settings }

// Heap exposes the engine's name table, e.g. for a VARS/diagnostic command.
func (m *Machine) Heap() *Heap { return m.heap }

// Arena exposes the engine's memory arena, e.g. for a FRE()/diagnostic command.
func (m *Machine) Arena() *Arena { return m.arena }

// Program exposes the engine's line store, e.g. for LIST/SAVE.
func (m *Machine) Program() *Program { return m.prog }

// Tokenizer exposes the engine's configured tokenizer, e.g. for a standalone
// `tokens` CLI command.
func (m *Machine) Tokenizer() *lex.Tokenizer { return m.tokenizer }

// Exec tokenizes one line of input. An unnumbered line executes immediately
// against the current heap/program state; a numbered line is stored, not
// executed (§4.3).
func (m *Machine) Exec(src string) error {
	num, tokens, err := m.tokenizer.Tokenize(src)
	if err != nil {
		return err
	}
	if num != 0 {
		if !m.prog.headerSet && m.prog.Len() == 0 {
			m.prog.SetHeader(Header{PowerRightToLeft: m.settings.PowerRightAssoc})
		}
		return m.prog.Store(num, tokens)
	}
	saveLine, saveTok, savePos := m.curLine, m.tok, m.pos
	m.curLine = 0
	m.tok = tokens
	m.pos = 0
	for !m.atEOL() {
		_, err := m.dispatchStatement()
		if err != nil {
			m.curLine, m.tok, m.pos = saveLine, saveTok, savePos
			return err
		}
		if !m.takeKeyword(":") {
			break
		}
	}
	m.curLine, m.tok, m.pos = saveLine, saveTok, savePos
	return nil
}

// evalString tokenizes and evaluates s as a standalone expression (EVAL,
// dark arts only).
func (m *Machine) evalString(s string) (Value, error) {
	_, tokens, err := m.tokenizer.Tokenize(s)
	if err != nil {
		return Value{}, err
	}
	saveLine, saveTok, savePos := m.curLine, m.tok, m.pos
	m.tok, m.pos = tokens, 0
	v, err := m.evalExpr()
	m.curLine, m.tok, m.pos = saveLine, saveTok, savePos
	return v, err
}

// Run executes the stored program from its first line (§4.6). It returns
// nil on normal END/STOP termination, and the triggering error on a fatal
// or unhandled error.
func (m *Machine) Run() error {
	m.lineIdx = 0
	m.gosub.reset()
	m.forSt.reset()
	m.structSt.reset()
	m.data.reset()
	m.disp.reset()
	m.errArmed = false
	for m.lineIdx < m.prog.Len() {
		err := m.pollEvents()
		if err == nil {
			err = m.execLine()
		}
		if err == nil {
			continue
		}
		if _, ok := err.(ctrlSignal); ok {
			return nil
		}
		be, ok := err.(*Error)
		if ok && !be.Fatal() && m.errArmed {
			idx, found := m.prog.Find(m.errHandlerLine)
			if !found {
				return be
			}
			m.gosub.reset()
			m.forSt.reset()
			m.structSt.reset()
			m.errCode = int(be.Kind)
			m.lineIdx = idx
			continue
		}
		return err
	}
	return nil
}

// pollEvents runs the §4.7 between-statement event/timer check and, if a
// handler is pending, performs the implicit GOSUB to it.
func (m *Machine) pollEvents() error {
	if hostBreak(m.host) {
		return ctrlStop
	}
	lineIdx, ok := m.disp.poll(m.host)
	if !ok {
		return nil
	}
	return m.invokeHandler(lineIdx)
}

// invokeHandler runs an event/timer handler line to its RETURN, inline,
// before resuming the main line (§4.6: handlers run to completion, no
// re-entrance).
func (m *Machine) invokeHandler(lineIdx int) error {
	m.disp.enter()
	defer m.disp.leave()

	savedLineIdx, savedLine, savedTok, savedPos := m.lineIdx, m.curLine, m.tok, m.pos
	depth := m.gosub.len()
	if err := m.gosub.push(gosubFrame{lineIdx: -1}); err != nil {
		return err
	}
	m.lineIdx = lineIdx
	for m.gosub.len() > depth {
		if m.lineIdx >= m.prog.Len() {
			return newError(KindSyntax, "event handler fell off end of program")
		}
		if err := m.execLine(); err != nil {
			return err
		}
	}
	m.lineIdx, m.curLine, m.tok, m.pos = savedLineIdx, savedLine, savedTok, savedPos
	return nil
}

// writeString writes s to the host console one byte at a time, per the
// Console vtable's byte-oriented contract (§6.1).
func (m *Machine) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := m.host.WriteByte(s[i]); err != nil {
			return newHostError(KindIO, err, "console write")
		}
	}
	return nil
}

// readLine blocks on the console until a newline, returning the line read
// (without the terminator).
func (m *Machine) readLine() (string, error) {
	var buf []byte
	for {
		b, err := m.host.ReadByte()
		if err != nil {
			return "", newHostError(KindIO, err, "console read")
		}
		if b == '\n' {
			if len(buf) > 0 && buf[len(buf)-1] == '\r' {
				buf = buf[:len(buf)-1]
			}
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}
