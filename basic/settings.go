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

// BoolMode selects how relational/logical operators produce and consume
// truth values (§4.4).
type BoolMode int

const (
	// BoolBitwise is the default: comparisons yield 0/-1, AND/OR/NOT are
	// bitwise over the operand width.
	BoolBitwise BoolMode = iota
	// BoolC yields 0/1, NOT is logical negation; AND/OR stay bitwise.
	BoolC
)

// SettingIndex names a slot in the SET n, v runtime knob table (§6.4). The
// numbering matches the original firmware's language.h: 19 BOOLEANMODE, 20
// SUPPRESSSUBSTRINGS, 21 MSARRAYLIMITS. DebugLevel has no original-firmware
// index (it's a host-debugging addition, not a language.h flag); 22 is the
// next free slot after it.
type SettingIndex int

const (
	SetBoolMode      SettingIndex = 19
	SetSubstringMode SettingIndex = 20
	SetArrayOrigin   SettingIndex = 21
	SetDebugLevel    SettingIndex = 22
)

// Settings holds the engine's runtime-tunable behavior: everything the
// original firmware selected with preprocessor flags is here instead,
// inspectable and mutable at runtime through SET and through Options (§9,
// "Tagged variants replace the C macro-flag matrix").
type Settings struct {
	// BoolMode selects bitwise vs. C truth-value semantics.
	BoolMode BoolMode
	// ArrayOrigin is 0 or 1; DIM bounds are interpreted against it (§3.5).
	ArrayOrigin int
	// PowerRightAssoc makes ^ right-associative instead of the §4.4 default
	// left-associative.
	PowerRightAssoc bool
	// FullInstr enables substring-needle INSTR; otherwise INSTR only
	// matches a single-character needle.
	FullInstr bool
	// MSStrings enables string concatenation with + and related
	// Microsoft-dialect string semantics.
	MSStrings bool
	// Structured enables WHILE/WEND, REPEAT/UNTIL, SWITCH and DO/DEND.
	Structured bool
	// DarkArts enables MALLOC/FIND/EVAL and the single-variable CLR form.
	DarkArts bool
	// UsrCall enables USR/CALL.
	UsrCall bool
	// NumberSystems enables the $/&/% numeric literal prefixes.
	NumberSystems bool
	// WideInt selects int32 over int16 encoding for integer literals;
	// integer arithmetic is 32-bit whichever is set.
	WideInt bool
	// Float enables floating-point literals in the tokenizer; arithmetic and
	// built-ins such as SQR yield floats whether or not it is set.
	Float bool
	// LongNames enables identifiers wider than 2 characters.
	LongNames bool
	// NameWidth is the identifier byte width charged by the tokenizer.
	NameWidth int
	// DebugLevel is an opaque diagnostic verbosity, surfaced via SET.
	DebugLevel int
	// BreakChar holds the configured break character. The engine does not
	// read it: a running program is interrupted only through the host's
	// Break interface.
	BreakChar byte
	// StrictSettings makes SET raise RANGE on an unrecognized index
	// instead of silently ignoring it (§6.4).
	StrictSettings bool
}

// DefaultSettings returns the engine's default configuration: bitwise
// boolean mode, 1-based array origin, left-associative ^, minimal INSTR,
// no string concatenation, structured control enabled, dark arts and USR
// disabled, $/&/% literal prefixes, 16-bit integers, 8-byte names, '#' as the break
// character - the same defaults the reference firmware ships with.
func DefaultSettings() Settings {
	return Settings{
		BoolMode:        BoolBitwise,
		ArrayOrigin:     1,
		PowerRightAssoc: false,
		FullInstr:       false,
		MSStrings:       false,
		Structured:      true,
		DarkArts:        false,
		UsrCall:         false,
		NumberSystems:   true,
		WideInt:         false,
		Float:           true,
		LongNames:       true,
		NameWidth:       8,
		DebugLevel:      0,
		BreakChar:       '#',
	}
}

// Set writes v into the knob named by idx, per the SET statement (§6.4).
// Unrecognized indices are silently ignored, matching the non-strict
// default; StrictSettings makes that case an error instead.
func (s *Settings) Set(idx SettingIndex, v int, strict bool) error {
	switch idx {
	case SetBoolMode:
		if v == 0 {
			s.BoolMode = BoolBitwise
		} else {
			s.BoolMode = BoolC
		}
	case SetArrayOrigin:
		if v != 0 && v != 1 {
			return newError(KindRange, "array origin must be 0 or 1")
		}
		s.ArrayOrigin = v
	case SetSubstringMode:
		s.FullInstr = v != 0
	case SetDebugLevel:
		s.DebugLevel = v
	default:
		if strict {
			return newError(KindRange, "SET: unknown setting index %d", idx)
		}
	}
	return nil
}

// Get reads the knob named by idx, per the SET statement's implicit
// counterpart used by diagnostics and tests.
func (s *Settings) Get(idx SettingIndex) (int, bool) {
	switch idx {
	case SetBoolMode:
		return int(s.BoolMode), true
	case SetArrayOrigin:
		return s.ArrayOrigin, true
	case SetSubstringMode:
		return boolToInt(s.FullInstr), true
	case SetDebugLevel:
		return s.DebugLevel, true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
