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

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a stable, numeric BASIC error code (§7), surfaced to
// ERROR GOTO handlers through the ERR pseudo-variable.
type Kind int

// Error kinds, in the order of spec.md's §7 table.
const (
	KindNone Kind = iota
	KindSyntax
	KindUnknownStatement
	KindDivByZero
	KindRange
	KindType
	KindOutOfMemory
	KindStack
	KindNextWithoutFor
	KindReturnWithoutGosub
	KindUndefined
	KindIO
)

var kindNames = [...]string{
	"NONE",
	"SYNTAX",
	"UNKNOWN_STATEMENT",
	"DIVBYZERO",
	"RANGE",
	"TYPE",
	"OUTOFMEMORY",
	"STACK",
	"NEXTWITHOUTFOR",
	"RETURNWITHOUTGOSUB",
	"UNDEFINED",
	"IO",
}

// String returns the stable name used in error messages and by ERR.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Error is the engine's structured runtime error.
type Error struct {
	Kind Kind
	Line uint16
	Msg  string
	// Err is the underlying cause for an error that wraps a host-callback
	// failure (console I/O, peripherals, USR), or nil for an error raised
	// by the engine itself. It is surfaced through Cause so
	// errors.Cause(err) reaches the original host error, e.g. io.EOF.
	Err error
}

func (e *Error) Error() string {
	if e.Line != 0 {
		return fmt.Sprintf("?%s ERROR IN %d: %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("?%s ERROR: %s", e.Kind, e.Msg)
}

// Cause returns the wrapped host error, if any, so github.com/pkg/errors's
// Cause/Unwrap helpers can see past the engine's own error formatting.
func (e *Error) Cause() error { return e.Err }

// Fatal reports whether the error bypasses any armed ERROR GOTO handler and
// always unwinds all the way back to the caller of Run (§7).
func (e *Error) Fatal() bool {
	return e.Kind == KindOutOfMemory || e.Kind == KindStack
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// newHostError wraps a host-callback error (console I/O, peripherals, USR)
// with errors.Wrapf, keeping cause so errors.Cause(err) reaches it.
func newHostError(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: errors.Wrapf(cause, format, args...).Error(), Err: cause}
}

// ErrOutOfMemory is returned by the Arena when the program and heap areas
// collide (§3.1).
var ErrOutOfMemory = &Error{Kind: KindOutOfMemory, Msg: "heap/program collision"}

// control-flow signals used internally by the interpreter's long-jump
// discipline (§4.6). They propagate as ordinary error returns up through
// execLine to Machine.Run, which recognizes them and stops without
// surfacing them to the caller.
type ctrlSignal int

const (
	ctrlEnd ctrlSignal = iota + 1
	ctrlStop
)

// Error lets a ctrlSignal flow through the interpreter as an ordinary
// error return (§9: "a tagged return value propagated through the
// interpreter loop"); Machine.Run recognizes it and stops without
// surfacing it to the caller.
func (c ctrlSignal) Error() string {
	if c == ctrlStop {
		return "STOP"
	}
	return "END"
}
