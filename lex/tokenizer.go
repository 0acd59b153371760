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
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Tokenizer turns source lines into the compact token stream of package
// lex's doc comment. It is stateless between lines; all configuration is
// carried by Features.
type Tokenizer struct {
	Features Features
}

// NewTokenizer returns a Tokenizer configured with f.
func NewTokenizer(f Features) *Tokenizer { return &Tokenizer{Features: f} }

type scan struct {
	src []byte
	pos int
}

func (s *scan) peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *scan) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_' }
func isAlnum(b byte) bool { return isDigit(b) || isAlpha(b) }

// Tokenize converts one source line into an optional stored line number and
// its token stream (terminated by TokEOL). lineNumber is 0 for an
// unnumbered, immediately-executed line.
func (t *Tokenizer) Tokenize(line string) (lineNumber uint16, tokens []byte, err error) {
	s := &scan{src: []byte(line)}
	s.skipSpace()

	// optional leading line number
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos > start {
		n, convErr := strconv.ParseUint(string(s.src[start:s.pos]), 10, 16)
		if convErr != nil {
			return 0, nil, &Error{Line: line, Column: start + 1, Msg: "line number out of range"}
		}
		lineNumber = uint16(n)
		s.skipSpace()
	}

	var out []byte
	for {
		s.skipSpace()
		b, ok := s.peek()
		if !ok {
			break
		}
		switch {
		case isDigit(b) || (t.Features.NumberSystems && (b == '$' || b == '&' || b == '%')):
			tok, err := t.scanNumber(s)
			if err != nil {
				return 0, nil, err
			}
			out = append(out, tok...)
		case b == '"':
			tok, err := t.scanString(s)
			if err != nil {
				return 0, nil, err
			}
			out = append(out, tok...)
		case b == '\'':
			s.pos++
			tok, _ := KeywordToken("REM")
			out = append(out, byte(tok))
			out = append(out, t.scanComment(s)...)
		case isAlpha(b):
			tok, err := t.scanWord(s)
			if err != nil {
				return 0, nil, err
			}
			out = append(out, tok...)
		default:
			tok, err := t.scanSymbol(s)
			if err != nil {
				return 0, nil, err
			}
			out = append(out, tok...)
		}
	}
	out = append(out, byte(TokEOL))
	return lineNumber, out, nil
}

func (t *Tokenizer) scanNumber(s *scan) ([]byte, error) {
	start := s.pos
	base := 10
	switch b, _ := s.peek(); b {
	case '$':
		base, s.pos = 16, s.pos+1
	case '&':
		base, s.pos = 8, s.pos+1
	case '%':
		base, s.pos = 2, s.pos+1
	}
	digStart := s.pos
	isFloat := false
	if base == 10 {
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
		if s.pos < len(s.src) && s.src[s.pos] == '.' {
			isFloat = true
			s.pos++
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		}
		if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
			isFloat = true
			s.pos++
			if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
				s.pos++
			}
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		}
	} else {
		for s.pos < len(s.src) && isHexOrBase(s.src[s.pos], base) {
			s.pos++
		}
	}
	text := string(s.src[digStart:s.pos])
	if text == "" {
		return nil, &Error{Column: start + 1, Msg: "malformed numeric literal"}
	}
	if isFloat && t.Features.Float {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &Error{Column: start + 1, Msg: "malformed float literal"}
		}
		return encodeFloat(f), nil
	}
	n, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, &Error{Column: start + 1, Msg: "malformed integer literal"}
	}
	if t.Features.WideInt {
		return encodeInt32(int32(n)), nil
	}
	return encodeInt16(int16(n)), nil
}

func isHexOrBase(b byte, base int) bool {
	switch base {
	case 16:
		return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
	case 8:
		return b >= '0' && b <= '7'
	case 2:
		return b == '0' || b == '1'
	}
	return false
}

func encodeInt16(v int16) []byte {
	b := make([]byte, 3)
	b[0] = byte(TokInt16)
	binary.LittleEndian.PutUint16(b[1:], uint16(v))
	return b
}

func encodeInt32(v int32) []byte {
	b := make([]byte, 5)
	b[0] = byte(TokInt32)
	binary.LittleEndian.PutUint32(b[1:], uint32(v))
	return b
}

func encodeFloat(v float64) []byte {
	b := make([]byte, 9)
	b[0] = byte(TokFloat)
	binary.LittleEndian.PutUint64(b[1:], math.Float64bits(v))
	return b
}

func (t *Tokenizer) scanString(s *scan) ([]byte, error) {
	col := s.pos + 1
	s.pos++ // opening quote
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '"' {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return nil, &Error{Column: col, Msg: "unterminated string literal"}
	}
	str := s.src[start:s.pos]
	s.pos++ // closing quote
	if len(str) > 255 {
		return nil, &Error{Column: col, Msg: "string literal too long"}
	}
	out := make([]byte, 0, len(str)+2)
	out = append(out, byte(TokString), byte(len(str)))
	out = append(out, str...)
	return out, nil
}

// scanComment consumes the rest of the line (REM or ') as a string-literal
// payload so LIST can render it back verbatim.
func (t *Tokenizer) scanComment(s *scan) []byte {
	body := s.src[s.pos:]
	s.pos = len(s.src)
	if len(body) > 255 {
		body = body[:255]
	}
	out := make([]byte, 0, len(body)+2)
	out = append(out, byte(TokString), byte(len(body)))
	out = append(out, body...)
	return out
}

func (t *Tokenizer) scanWord(s *scan) ([]byte, error) {
	start := s.pos
	for s.pos < len(s.src) && isAlnum(s.src[s.pos]) {
		s.pos++
	}
	// MS-style string/function suffix
	if s.pos < len(s.src) && s.src[s.pos] == '$' {
		s.pos++
	}
	word := strings.ToUpper(string(s.src[start:s.pos]))
	if word == "REM" {
		s.skipSpace()
		tok, _ := KeywordToken("REM")
		return append([]byte{byte(tok)}, t.scanComment(s)...), nil
	}
	if tok, ok := KeywordToken(word); ok {
		return []byte{byte(tok)}, nil
	}
	w := t.Features.nameWidth()
	if len(word) > w {
		word = word[:w]
	}
	buf := make([]byte, w)
	copy(buf, word)
	out := make([]byte, 0, w+1)
	out = append(out, byte(TokName))
	out = append(out, buf...)
	return out, nil
}

func (t *Tokenizer) scanSymbol(s *scan) ([]byte, error) {
	for _, k := range symKeywords {
		if matchAt(s.src, s.pos, k.name) {
			s.pos += len(k.name)
			tok, _ := KeywordToken(k.name)
			return []byte{byte(tok)}, nil
		}
	}
	b, _ := s.peek()
	return nil, &Error{Column: s.pos + 1, Msg: "unexpected character '" + string(b) + "'"}
}

func matchAt(src []byte, pos int, sym string) bool {
	if pos+len(sym) > len(src) {
		return false
	}
	return string(src[pos:pos+len(sym)]) == sym
}
