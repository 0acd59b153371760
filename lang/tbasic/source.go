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

// Package tbasic provides program persistence and diagnostics for a
// basic.Machine: plain-text SAVE/LOAD and a diagnostic state dump.
package tbasic

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sl001/tbasic/basic"
	"github.com/sl001/tbasic/lex"
)

// Save writes m's program to w as detokenized source text, one line per
// record, in ascending line-number order (§6.2). A leading #HEADER pragma
// carries program-level configuration (currently just ^ associativity)
// that must survive reload regardless of the running machine's current
// Settings; No binary format is required to be portable; this is the
// engine's only persistence form.
func Save(w io.Writer, m *basic.Machine) error {
	h := m.Program().Header
	rtl := 0
	if h.PowerRightToLeft {
		rtl = 1
	}
	if _, err := fmt.Fprintf(w, "#HEADER POWERRIGHTTOLEFT=%d\n", rtl); err != nil {
		return err
	}
	var err error
	m.Program().Iterate(func(number uint16, tokens []byte) bool {
		var src string
		src, err = lex.Detokenize(tokens, m.Tokenizer().Features)
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%d %s\n", number, src)
		return err == nil
	})
	return err
}

// Load reads r line by line and re-tokenizes each one into m, exactly as if
// it had been typed at the prompt: a numbered line is stored, an unnumbered
// one executes immediately. A blank or whitespace-only line is skipped. A
// leading #HEADER pragma (written by Save) is applied to the program header
// directly, before any line is stored, so it takes precedence over the
// auto-stamp Machine.Exec would otherwise apply from the running Settings.
func Load(r io.Reader, m *basic.Machine) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#HEADER ") {
			h, err := parseHeaderPragma(line)
			if err != nil {
				return err
			}
			m.Program().SetHeader(h)
			continue
		}
		if err := m.Exec(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseHeaderPragma decodes a "#HEADER KEY=VALUE ..." line as written by
// Save. Unrecognized keys are ignored, for forward compatibility.
func parseHeaderPragma(line string) (basic.Header, error) {
	var h basic.Header
	for _, field := range strings.Fields(strings.TrimPrefix(line, "#HEADER ")) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "POWERRIGHTTOLEFT":
			h.PowerRightToLeft = kv[1] == "1"
		}
	}
	return h, nil
}

// LoadSource re-tokenizes a single line of text into m, honoring line
// numbers exactly as Load does. It exists so a REPL can push one line at a
// time without re-deriving Load's blank-line handling.
func LoadSource(line string, m *basic.Machine) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return m.Exec(line)
}

// ParseLineNumber reports whether s begins with a decimal line number,
// returning it and the remainder of the line with leading whitespace
// trimmed.
func ParseLineNumber(s string) (uint16, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.ParseUint(s[:i], 10, 16)
	if err != nil {
		return 0, s, false
	}
	return uint16(n), strings.TrimLeft(s[i:], " \t"), true
}
