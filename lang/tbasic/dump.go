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

package tbasic

import (
	"fmt"
	"io"

	"github.com/sl001/tbasic/basic"
)

// Dump writes a human-readable snapshot of m's arena usage, settings and
// bound names to w, for diagnostics.
func Dump(w io.Writer, m *basic.Machine) error {
	a := m.Arena()
	if _, err := fmt.Fprintf(w, "arena: size=%d program=%d heap=%d free=%d\n",
		a.Size(), a.ProgramUsed(), a.HeapUsed(), a.Free()); err != nil {
		return err
	}

	s := m.Settings()
	if _, err := fmt.Fprintf(w,
		"settings: bool=%v origin=%d powerRightAssoc=%v fullInstr=%v msStrings=%v structured=%v darkArts=%v usrCall=%v\n",
		s.BoolMode, s.ArrayOrigin, s.PowerRightAssoc, s.FullInstr, s.MSStrings, s.Structured, s.DarkArts, s.UsrCall); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "program: %d lines\n", m.Program().Len()); err != nil {
		return err
	}

	names := m.Heap().Names()
	if _, err := fmt.Fprintf(w, "names: %d bound\n", len(names)); err != nil {
		return err
	}
	for _, name := range names {
		kind, _ := m.Heap().Kind(name)
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, kindLabel(kind)); err != nil {
			return err
		}
	}
	return nil
}

func kindLabel(k basic.ObjKind) string {
	switch k {
	case basic.ObjScalar:
		return "scalar"
	case basic.ObjArray:
		return "array"
	case basic.ObjString:
		return "string"
	case basic.ObjFunction:
		return "function"
	default:
		return "?"
	}
}
