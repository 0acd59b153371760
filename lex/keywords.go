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

package lex

import "github.com/samber/lo"

// keyword describes one entry of the reserved-word/operator table. Word
// keywords are matched by maximal munch over an identifier run followed by
// exact lookup; symbol keywords are matched by longest-prefix scan at the
// current position.
type keyword struct {
	name string
	sym  bool
}

// keywords is the canonical, ordered keyword/operator table. Its index
// plus tokFirstKeyword is the wire token value, so reordering this table
// changes the tokenized form of every program - append, never reorder.
var keywords = [...]keyword{
	// statements
	{"LET", false},
	{"PRINT", false},
	{"INPUT", false},
	{"IF", false},
	{"THEN", false},
	{"ELSE", false},
	{"DO", false},
	{"DEND", false},
	{"FOR", false},
	{"TO", false},
	{"STEP", false},
	{"NEXT", false},
	{"WHILE", false},
	{"WEND", false},
	{"REPEAT", false},
	{"UNTIL", false},
	{"SWITCH", false},
	{"CASE", false},
	{"ENDSWITCH", false},
	{"GOTO", false},
	{"GOSUB", false},
	{"RETURN", false},
	{"ON", false},
	{"DEF", false},
	{"FN", false},
	{"FEND", false},
	{"DATA", false},
	{"READ", false},
	{"RESTORE", false},
	{"ERROR", false},
	{"DIM", false},
	{"END", false},
	{"STOP", false},
	{"EVERY", false},
	{"AFTER", false},
	{"EVENT", false},
	{"SET", false},
	{"REM", false},
	{"LIST", false},
	{"RUN", false},
	{"NEW", false},
	{"CLR", false},
	{"SAVE", false},
	{"LOAD", false},
	{"DIR", false},
	{"MALLOC", false},
	{"FIND", false},
	{"EVAL", false},
	{"USR", false},
	{"CALL", false},
	// logical/arithmetic word operators
	{"MOD", false},
	{"AND", false},
	{"OR", false},
	{"NOT", false},
	// string/numeric functions
	{"LEFT$", false},
	{"RIGHT$", false},
	{"MID$", false},
	{"CHR$", false},
	{"STR$", false},
	{"ASC", false},
	{"LEN", false},
	{"VAL", false},
	{"INSTR", false},
	{"ABS", false},
	{"SGN", false},
	{"SQR", false},
	{"POW", false},
	{"RND", false},
	{"INT", false},
	{"SIN", false},
	{"COS", false},
	{"TAN", false},
	{"ATN", false},
	{"LOG", false},
	{"EXP", false},
	{"TIMER", false},
	// symbols/operators, longest-prefix entries first within each family
	{"<=", true},
	{">=", true},
	{"<>", true},
	{"<<", true},
	{">>", true},
	{"=", true},
	{"<", true},
	{">", true},
	{"+", true},
	{"-", true},
	{"*", true},
	{"/", true},
	{"^", true},
	{"(", true},
	{")", true},
	{",", true},
	{";", true},
	{":", true},
}

// wordIndex maps an exact uppercased word keyword to its token value.
var wordIndex = func() map[string]Tok {
	m := make(map[string]Tok, len(keywords))
	for i, k := range keywords {
		if !k.sym {
			m[k.name] = Tok(int(tokFirstKeyword) + i)
		}
	}
	return m
}()

// symKeywords is the symbol subset of keywords, pre-sorted longest first so
// a prefix scan at the tokenizer's current position always prefers the
// longest match (required for <=, >=, <>, <<, >> vs their single-char
// prefixes).
var symKeywords = func() []keyword {
	all := lo.Filter(keywords[:], func(k keyword, _ int) bool { return k.sym })
	// keywords[] already lists multi-char symbols before their single-char
	// prefixes; a stable filter preserves that order.
	return all
}()

// KeywordToken returns the token value for an exact, already-uppercased
// word keyword, and ok=false if s is not reserved.
func KeywordToken(s string) (Tok, bool) {
	t, ok := wordIndex[s]
	return t, ok
}

// Name returns the keyword/operator name for a keyword token, or "" if tok
// is not in the keyword range.
func Name(tok Tok) string {
	if tok < tokFirstKeyword || tok > tokLastKeyword {
		return ""
	}
	idx := int(tok - tokFirstKeyword)
	if idx >= len(keywords) {
		return ""
	}
	return keywords[idx].name
}
