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

import "testing"

func TestGosubStack_overflowAndUnderflow(t *testing.T) {
	s := newGosubStack(2)
	if err := s.push(gosubFrame{lineIdx: 1}); err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if err := s.push(gosubFrame{lineIdx: 2}); err != nil {
		t.Fatalf("push 2: %v", err)
	}
	if err := s.push(gosubFrame{lineIdx: 3}); err == nil {
		t.Error("third push should overflow")
	}
	if _, err := s.pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, err := s.pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, err := s.pop(); err == nil {
		t.Error("pop on empty stack should raise RETURN without GOSUB")
	}
}

func TestForStack_findForVarClosesNestedLoops(t *testing.T) {
	s := newForStack(8)
	s.push(forFrame{varName: "I"})
	s.push(forFrame{varName: "J"})
	s.push(forFrame{varName: "K"})

	f, ok := s.findForVar("I")
	if !ok || f.varName != "I" {
		t.Fatalf("findForVar(I) = %+v, %v", f, ok)
	}
	if s.len() != 1 {
		t.Errorf("len() after findForVar(I) = %d, want 1 (J and K closed)", s.len())
	}
}

func TestForStack_underflow(t *testing.T) {
	s := newForStack(4)
	if _, err := s.pop(); err == nil {
		t.Error("pop on empty FOR stack should raise NEXT without FOR")
	}
}

func TestStructStack_pushPopOrder(t *testing.T) {
	s := newStructStack(4)
	s.push(structFrame{kind: loopWhile, lineIdx: 1})
	s.push(structFrame{kind: loopRepeat, lineIdx: 2})
	top, ok := s.top()
	if !ok || top.kind != loopRepeat {
		t.Fatalf("top() = %+v, %v", top, ok)
	}
	f, err := s.pop()
	if err != nil || f.kind != loopRepeat {
		t.Fatalf("pop() = %+v, %v", f, err)
	}
	f, err = s.pop()
	if err != nil || f.kind != loopWhile {
		t.Fatalf("pop() = %+v, %v", f, err)
	}
	if _, err := s.pop(); err == nil {
		t.Error("pop on empty struct stack should error")
	}
}

func TestDataCursor_reset(t *testing.T) {
	d := dataCursor{lineIdx: 3, tokPos: 9, primed: true}
	d.reset()
	if d != (dataCursor{}) {
		t.Errorf("reset() left %+v, want zero value", d)
	}
}
