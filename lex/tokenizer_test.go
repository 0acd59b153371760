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

package lex_test

import (
	"testing"

	"github.com/sl001/tbasic/lex"
)

func TestTokenize_roundTrip(t *testing.T) {
	data := []struct {
		line string
		num  uint16
	}{
		{`10 FOR I=1 TO 3`, 10},
		{`20 PRINT I`, 20},
		{`30 NEXT`, 30},
		{`PRINT "HELLO, WORLD"`, 0},
		{`100 IF A<=10 THEN GOTO 200 ELSE GOTO 300`, 100},
		{`110 LET A$="HELLO": MID$(A$,2,3)="XYZ"`, 110},
		{`120 A=2^3^2`, 120},
		{`130 B = $FF + &17 + %101`, 130},
		{`140 REM this is a comment`, 140},
	}
	tk := lex.NewTokenizer(lex.Default())
	for _, d := range data {
		num, toks, err := tk.Tokenize(d.line)
		if err != nil {
			t.Fatalf("%q: %v", d.line, err)
		}
		if num != d.num {
			t.Errorf("%q: line number = %d, want %d", d.line, num, d.num)
		}
		text, err := lex.Detokenize(toks, lex.Default())
		if err != nil {
			t.Fatalf("%q: detokenize: %v", d.line, err)
		}
		_, toks2, err := tk.Tokenize(text)
		if err != nil {
			t.Fatalf("%q: re-tokenize %q: %v", d.line, text, err)
		}
		if string(toks) != string(toks2) {
			t.Errorf("%q: re-tokenize mismatch\nfirst:  % x\nsecond: % x\ntext: %q", d.line, toks, toks2, text)
		}
	}
}

func TestTokenize_operatorPrefixes(t *testing.T) {
	tk := lex.NewTokenizer(lex.Default())
	data := []struct {
		line string
		want []string
	}{
		{"A<=B", []string{"A", "<=", "B"}},
		{"A<B", []string{"A", "<", "B"}},
		{"A<>B", []string{"A", "<>", "B"}},
		{"A<<B", []string{"A", "<<", "B"}},
	}
	for _, d := range data {
		_, toks, err := tk.Tokenize(d.line)
		if err != nil {
			t.Fatalf("%q: %v", d.line, err)
		}
		text, err := lex.Detokenize(toks, lex.Default())
		if err != nil {
			t.Fatalf("%q: %v", d.line, err)
		}
		for _, w := range d.want {
			if !contains(text, w) {
				t.Errorf("%q: detokenized %q missing %q", d.line, text, w)
			}
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestTokenize_unterminatedString(t *testing.T) {
	tk := lex.NewTokenizer(lex.Default())
	_, _, err := tk.Tokenize(`10 PRINT "HELLO`)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTokenize_identifierTruncation(t *testing.T) {
	f := lex.Default()
	f.NameWidth = 3
	tk := lex.NewTokenizer(f)
	_, t1, err := tk.Tokenize("LONGNAME1=1")
	if err != nil {
		t.Fatal(err)
	}
	_, t2, err := tk.Tokenize("LONGNAME2=1")
	if err != nil {
		t.Fatal(err)
	}
	// both names truncate to the same 3 bytes: a silent collision.
	nameLen := 1 + f.NameWidth
	if string(t1[:nameLen]) != string(t2[:nameLen]) {
		t.Errorf("expected truncated names to collide: % x vs % x", t1[:nameLen], t2[:nameLen])
	}
}
