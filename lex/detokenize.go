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

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

// Detokenize renders a token stream (as produced by Tokenize, without the
// line number) back into source text. The result normalizes whitespace to a
// single space between tokens and uppercases identifiers/keywords, but
// re-tokenizing it yields a byte-identical stream to the input.
func Detokenize(tokens []byte, f Features) (string, error) {
	var b bytes.Buffer
	pos := 0
	needSep := false
	sep := func() {
		if needSep {
			b.WriteByte(' ')
		}
		needSep = true
	}
	w := f.nameWidth()
	for pos < len(tokens) {
		tok := Tok(tokens[pos])
		switch {
		case tok == TokEOL:
			pos++
			return b.String(), nil
		case tok == TokInt16:
			if pos+3 > len(tokens) {
				return "", &Error{Msg: "truncated int16 literal"}
			}
			v := int16(binary.LittleEndian.Uint16(tokens[pos+1 : pos+3]))
			sep()
			b.WriteString(strconv.Itoa(int(v)))
			pos += 3
		case tok == TokInt32:
			if pos+5 > len(tokens) {
				return "", &Error{Msg: "truncated int32 literal"}
			}
			v := int32(binary.LittleEndian.Uint32(tokens[pos+1 : pos+5]))
			sep()
			b.WriteString(strconv.Itoa(int(v)))
			pos += 5
		case tok == TokFloat:
			if pos+9 > len(tokens) {
				return "", &Error{Msg: "truncated float literal"}
			}
			v := math.Float64frombits(binary.LittleEndian.Uint64(tokens[pos+1 : pos+9]))
			sep()
			s := strconv.FormatFloat(v, 'g', -1, 64)
			// keep a float literal a float on re-tokenize: "1" would read back as an integer.
			if !bytes.ContainsAny([]byte(s), ".e") {
				s += ".0"
			}
			b.WriteString(s)
			pos += 9
		case tok == TokString:
			if pos+1 >= len(tokens) {
				return "", &Error{Msg: "truncated string literal"}
			}
			n := int(tokens[pos+1])
			if pos+2+n > len(tokens) {
				return "", &Error{Msg: "truncated string literal"}
			}
			sep()
			b.WriteByte('"')
			b.Write(tokens[pos+2 : pos+2+n])
			b.WriteByte('"')
			pos += 2 + n
		case tok == TokName:
			if pos+1+w > len(tokens) {
				return "", &Error{Msg: "truncated name record"}
			}
			name := bytes.TrimRight(tokens[pos+1:pos+1+w], "\x00")
			sep()
			b.Write(name)
			pos += 1 + w
		case tok >= tokFirstKeyword && tok <= tokLastKeyword:
			name := Name(tok)
			if name == "" {
				return "", &Error{Msg: "unknown keyword token"}
			}
			sep()
			b.WriteString(name)
			pos++
			if name == "REM" && pos < len(tokens) && Tok(tokens[pos]) == TokString {
				n := int(tokens[pos+1])
				if pos+2+n > len(tokens) {
					return "", &Error{Msg: "truncated comment"}
				}
				b.WriteByte(' ')
				b.Write(tokens[pos+2 : pos+2+n])
				pos += 2 + n
			}
		default:
			return "", &Error{Msg: "unknown token byte"}
		}
	}
	return b.String(), nil
}
