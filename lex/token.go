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

import "strconv"

// Tok is a single leading token byte value in the compact stream.
type Tok byte

// Reserved, non-keyword token bytes. Keyword/operator tokens occupy
// [tokFirstKeyword, tokLastKeyword].
const (
	TokEOL    Tok = 0x00
	TokLitEsc Tok = 0xF1 // long keyword escape, followed by a secondary byte
	TokInt16  Tok = 0xF2
	TokInt32  Tok = 0xF3
	TokFloat  Tok = 0xF4
	TokString Tok = 0xF5
	TokName   Tok = 0xF6

	tokFirstKeyword Tok = 0x01
	tokLastKeyword  Tok = 0xF0
)

// Features configures the dialect the tokenizer accepts. The zero value is
// the smallest conformant dialect; Default returns the maximal one spec.md
// describes.
type Features struct {
	NumberSystems bool // $hex &octal %binary literal prefixes
	Float         bool // floating point literals and the float token
	WideInt       bool // encode integer literals as int32 instead of int16
	LongNames     bool // names up to NameWidth bytes instead of 2
	NameWidth     int  // fixed-width name record size, 1..127
}

// Default returns the maximal feature set: the full language, as spec.md
// §1 requires the reference to implement.
func Default() Features {
	return Features{
		NumberSystems: true,
		Float:         true,
		WideInt:       true,
		LongNames:     true,
		NameWidth:     8,
	}
}

func (f Features) nameWidth() int {
	return f.NameWidthBytes()
}

// NameWidthBytes returns the actual fixed-width name-record size this
// Features value encodes with: 2 bytes if LongNames is off, otherwise
// NameWidth clamped to [1, 127]. Callers decoding a token stream need this
// to size TokName records the same way the tokenizer did.
func (f Features) NameWidthBytes() int {
	if f.LongNames && f.NameWidth > 0 {
		if f.NameWidth > 127 {
			return 127
		}
		return f.NameWidth
	}
	return 2
}

// Error reports a tokenizer failure together with the 1-based column at
// which it was detected.
type Error struct {
	Line   string
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return "syntax error at column " + strconv.Itoa(e.Column) + ": " + e.Msg
}
