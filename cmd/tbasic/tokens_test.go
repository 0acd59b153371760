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
	"bytes"
	"strings"
	"testing"

	"github.com/sl001/tbasic/lex"
)

func TestDumpTokens_rendersEachLine(t *testing.T) {
	tok := lex.NewTokenizer(lex.Default())
	var buf bytes.Buffer
	src := "10 PRINT 1+2\n\n20 END\n"
	if err := dumpTokens(strings.NewReader(src), tok, &buf); err != nil {
		t.Fatalf("dumpTokens: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "PRINT 1 + 2") {
		t.Errorf("missing rendered line 10: %q", out)
	}
	if !strings.Contains(out, "END") {
		t.Errorf("missing rendered line 20: %q", out)
	}
}

func TestDumpTokens_reportsSyntaxError(t *testing.T) {
	tok := lex.NewTokenizer(lex.Default())
	var buf bytes.Buffer
	if err := dumpTokens(strings.NewReader("10 \"unterminated\n"), tok, &buf); err == nil {
		t.Error("expected an error for an unterminated string literal")
	}
}
