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

// Package lex tokenizes BASIC source lines into the compact token stream
// consumed by package basic, and detokenizes that stream back into source
// text for LIST and SAVE.
//
// Token stream format:
//
//	byte value	meaning
//	0x00		end of line
//	0x01-0xF0	keyword or operator (index into the keyword table)
//	0xF1		escape: next byte is a secondary keyword code (long keywords)
//	0xF2		int16 literal, followed by 2 bytes little-endian
//	0xF3		int32 literal, followed by 4 bytes little-endian
//	0xF4		float64 literal, followed by 8 bytes little-endian (IEEE-754)
//	0xF5		string literal: next byte is length, followed by that many raw bytes
//	0xF6		variable/array/function name: followed by Features.NameWidth
//			bytes, uppercased and zero-padded
//
// Scanning rules (see Tokenize):
//
//	- An optional leading decimal line number, parsed separately from the
//	  token stream itself; 0 (or absent) means the line is not stored.
//	- Word keywords (PRINT, GOTO, MOD, ...) are recognized by maximal munch
//	  over an identifier run, then exact (case-insensitive) table lookup;
//	  a run that doesn't match the table becomes a Name token instead,
//	  truncated silently to Features.NameWidth bytes.
//	- Symbol keywords/operators (<=, >=, <>, <<, >>, and the single-char
//	  operators and punctuation) are matched longest-first so that, e.g.,
//	  "<=" is never split into "<" followed by a bad token "=".
//	- REM and ' consume the remainder of the line as a comment, encoded as
//	  a string literal token carrying the comment body.
//	- Whitespace outside of literals is discarded; it carries no meaning.
//	- An unterminated string literal is a SYNTAX error reported with the
//	  column at which the literal opened.
package lex
