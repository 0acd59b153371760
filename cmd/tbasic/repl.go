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

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sl001/tbasic/basic"
	"github.com/sl001/tbasic/lang/tbasic"
	"github.com/sl001/tbasic/lex"
)

// runREPL drives the line-oriented editor: numbered lines edit the stored
// program, unnumbered lines execute immediately, and a handful of
// host-level words (LIST, RUN, NEW, SAVE, LOAD, CLR, BYE) manage the
// program store the way the engine's DIR/LIST/RUN/NEW/SAVE/LOAD keywords
// describe themselves as host-level, not program statements.
func runREPL(m *basic.Machine, host *consoleHost) {
	for {
		fmt.Fprint(os.Stdout, "] ")
		host.Flush()
		line, err := host.ReadLine()
		if err != nil {
			if errors.Cause(err) != io.EOF {
				fmt.Fprintf(os.Stderr, "\n%v\n", err)
			}
			host.Flush()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := replDispatch(m, host, line); done {
			host.Flush()
			return
		}
	}
}

// replDispatch handles one REPL input line, returning true if the REPL
// should exit.
func replDispatch(m *basic.Machine, host *consoleHost, line string) bool {
	word := strings.ToUpper(strings.Fields(line)[0])
	rest := strings.TrimSpace(line[len(strings.Fields(line)[0]):])

	switch word {
	case "BYE", "QUIT", "EXIT":
		return true
	case "NEW":
		m.Program().Clear()
		m.Heap().Reset()
		return false
	case "CLR":
		if rest == "" {
			m.Heap().Reset()
			return false
		}
		// CLR name: dark-arts single-object free, handled by the engine's
		// own statement dispatcher (requires Settings.DarkArts).
		if err := m.Exec(line); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return false
	case "LIST", "DIR":
		replList(m)
		return false
	case "RUN":
		tearDown := setupIO()
		err := m.Run()
		tearDown()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return false
	case "SAVE":
		replSave(m, rest)
		return false
	case "LOAD":
		replLoad(m, rest)
		return false
	}

	if err := m.Exec(line); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	return false
}

func replList(m *basic.Machine) {
	m.Program().Iterate(func(number uint16, tokens []byte) bool {
		src, err := lex.Detokenize(tokens, m.Tokenizer().Features)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%d: %v\n", number, err)
			return true
		}
		fmt.Fprintf(os.Stdout, "%d %s\n", number, src)
		return true
	})
}

func replSave(m *basic.Machine, name string) {
	if name == "" {
		fmt.Fprintln(os.Stderr, "SAVE requires a filename")
		return
	}
	f, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	defer f.Close()
	if err := tbasic.Save(f, m); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}

func replLoad(m *basic.Machine, name string) {
	if name == "" {
		fmt.Fprintln(os.Stderr, "LOAD requires a filename")
		return
	}
	f, err := os.Open(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	defer f.Close()
	m.Program().Clear()
	if err := tbasic.Load(f, m); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
