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

// Package basic implements the BASIC language engine: a memory arena, a
// name table/heap for variables, arrays and strings, a line-addressed
// program store, an expression evaluator and a statement interpreter, all
// driven through a narrow host vtable (Host).
//
// The engine is single-threaded and cooperative. There is one Machine, one
// program counter, one set of control stacks. Host I/O is synchronous:
// console, clock, random and peripheral calls block the Machine until they
// return, exactly like a microcontroller's blocking calls would. Between
// any two statements the Machine polls its event/timer dispatcher, giving
// AFTER/EVERY/EVENT handlers a single well-defined point to run at.
//
// A Machine is constructed with New and a set of Options, mirroring the
// functional-options shape used elsewhere in this codebase's ancestry:
//
//	m, err := basic.New(host, basic.MemSize(65536), basic.ForDepth(64))
//
// Errors are reported as *Error, a structured (Kind, line, message) value.
// Non-fatal errors unwind to the top of Machine.Run and, if ERROR GOTO is
// armed, resume execution at the handler line; fatal errors (OUTOFMEMORY,
// STACK) always return to the caller of Run.
package basic
