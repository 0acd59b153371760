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
	"strings"

	"github.com/sl001/tbasic/lex"
)

// execLine runs every statement on the current program line (colon
// separated) in turn, then either leaves m.lineIdx pointing at the next
// line or, if a statement transferred control, leaves it wherever that
// statement's handler set it (§4.5).
func (m *Machine) execLine() error {
	num, tokens := m.prog.At(m.lineIdx)
	m.curLine = num
	m.tok = tokens
	m.pos = 0
	for !m.atEOL() {
		jumped, err := m.dispatchStatement()
		if err != nil {
			return err
		}
		if jumped {
			return nil
		}
		if !m.takeKeyword(":") {
			break
		}
	}
	m.lineIdx++
	return nil
}

// dispatchStatement executes exactly one statement starting at m.pos and
// reports whether it transferred control (leaving m.lineIdx/m.tok/m.pos
// pointing somewhere other than "right after this statement").
func (m *Machine) dispatchStatement() (bool, error) {
	b := m.curByte()
	tok := lex.Tok(b)
	if tok == lex.TokName {
		return m.stmtAssign()
	}
	name := lex.Name(tok)
	if !m.settings.Structured {
		switch name {
		case "WHILE", "WEND", "REPEAT", "UNTIL", "SWITCH", "CASE", "DO", "DEND":
			return false, newError(KindUnknownStatement, "%s requires structured statements", name)
		}
	}
	switch name {
	case "LET":
		m.pos++
		return m.stmtAssign()
	case "MID$":
		m.pos++
		return false, m.stmtMidAssign()
	case "PRINT":
		m.pos++
		return false, m.stmtPrint()
	case "INPUT":
		m.pos++
		return false, m.stmtInput()
	case "IF":
		m.pos++
		return m.stmtIf()
	case "FOR":
		m.pos++
		return false, m.stmtFor()
	case "NEXT":
		m.pos++
		return m.stmtNext()
	case "WHILE":
		m.pos++
		return m.stmtWhile()
	case "WEND":
		m.pos++
		return m.stmtWend()
	case "REPEAT":
		m.pos++
		return m.stmtRepeat()
	case "UNTIL":
		m.pos++
		return m.stmtUntil()
	case "SWITCH":
		m.pos++
		return m.stmtSwitch()
	case "CASE":
		// reached by normal fallthrough execution: act as a no-op label.
		m.skipToEOL()
		return false, nil
	case "ENDSWITCH":
		return false, nil
	case "GOTO":
		m.pos++
		return m.stmtGoto()
	case "GOSUB":
		m.pos++
		return m.stmtGosub()
	case "RETURN":
		m.pos++
		return m.stmtReturn()
	case "ON":
		m.pos++
		return m.stmtOn()
	case "DEF":
		m.pos++
		return false, m.stmtDef()
	case "FEND":
		m.skipToEOL()
		return false, nil
	case "DATA":
		m.skipToEOL()
		return false, nil
	case "READ":
		m.pos++
		return false, m.stmtRead()
	case "RESTORE":
		m.pos++
		return false, m.stmtRestore()
	case "ERROR":
		m.pos++
		return false, m.stmtError()
	case "DIM":
		m.pos++
		return false, m.stmtDim()
	case "END":
		return false, ctrlEnd
	case "STOP":
		return false, ctrlStop
	case "EVERY":
		m.pos++
		return false, m.stmtEvery()
	case "AFTER":
		m.pos++
		return false, m.stmtAfter()
	case "EVENT":
		m.pos++
		return false, m.stmtEvent()
	case "SET":
		m.pos++
		return false, m.stmtSet()
	case "REM":
		m.skipToEOL()
		return false, nil
	case "DIR", "LIST", "RUN", "NEW", "SAVE", "LOAD":
		m.skipToEOL()
		return false, newError(KindIO, "%s is a host-level command, not a program statement", name)
	case "CLR":
		m.pos++
		return false, m.stmtClr()
	case "MALLOC":
		m.pos++
		return false, m.stmtMalloc()
	case "FIND":
		m.pos++
		return false, m.stmtFind()
	case "USR", "CALL":
		m.pos++
		return false, m.stmtUsrCall(name)
	case "DO":
		m.pos++
		return false, nil
	case "DEND":
		m.pos++
		return m.afterDend()
	}
	return false, newError(KindUnknownStatement, "unrecognized statement")
}

func (m *Machine) skipToEOL() {
	for !m.atEOL() {
		m.pos++
	}
}

// stmtAssign parses `name [ ( idx [, idx] ) ] = expr`.
func (m *Machine) stmtAssign() (bool, error) {
	name, ok := m.readName()
	if !ok {
		return false, newError(KindSyntax, "expected identifier")
	}
	var i1, i2 *int32
	if m.takeKeyword("(") {
		v1, err := m.evalExpr()
		if err != nil {
			return false, err
		}
		n1 := toInt32(v1)
		i1 = &n1
		if m.takeKeyword(",") {
			v2, err := m.evalExpr()
			if err != nil {
				return false, err
			}
			n2 := toInt32(v2)
			i2 = &n2
		}
		if !m.takeKeyword(")") {
			return false, newError(KindSyntax, "missing ) in assignment target")
		}
	}
	if !m.takeKeyword("=") {
		return false, newError(KindSyntax, "expected = in assignment")
	}
	val, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	if i1 != nil {
		j := -1
		if i2 != nil {
			j = int(*i2)
		}
		return false, m.heap.ArraySet(name, int(*i1), j, val)
	}
	kind := kindOfSigil(name)
	val, err = coerce(val, kind)
	if err != nil {
		return false, err
	}
	if kind == VString {
		return false, m.heap.SetString(name, val.Str)
	}
	return false, m.heap.SetScalar(name, val)
}

func coerce(v Value, kind ValueKind) (Value, error) {
	if kind == VString {
		if v.Kind != VString {
			return Value{}, newError(KindType, "string variable requires a string value")
		}
		return v, nil
	}
	if v.Kind == VString {
		return Value{}, newError(KindType, "numeric variable requires a numeric value")
	}
	if kind == VInt && v.Kind == VFloat {
		return IntValue(toInt32(v)), nil
	}
	if kind == VFloat && v.Kind == VInt {
		return FloatValue(v.Float()), nil
	}
	return v, nil
}

// stmtMidAssign implements the MID$(A$,start[,len])=expr in-place
// substring replacement (§8 "String inplace").
func (m *Machine) stmtMidAssign() error {
	if !m.takeKeyword("(") {
		return newError(KindSyntax, "MID$: missing (")
	}
	name, ok := m.readName()
	if !ok || kindOfSigil(name) != VString {
		return newError(KindType, "MID$ assignment target must be a string variable")
	}
	if !m.takeKeyword(",") {
		return newError(KindSyntax, "MID$: missing ,")
	}
	startV, err := m.evalExpr()
	if err != nil {
		return err
	}
	start := int(toInt32(startV)) - 1
	length := -1
	if m.takeKeyword(",") {
		lv, err := m.evalExpr()
		if err != nil {
			return err
		}
		length = int(toInt32(lv))
	}
	if !m.takeKeyword(")") {
		return newError(KindSyntax, "MID$: missing )")
	}
	if !m.takeKeyword("=") {
		return newError(KindSyntax, "MID$: missing =")
	}
	rhs, err := m.evalExpr()
	if err != nil {
		return err
	}
	if rhs.Kind != VString {
		return newError(KindType, "MID$ assignment requires a string value")
	}
	cur, err := m.heap.String(name)
	if err != nil {
		return err
	}
	if start < 0 || start >= len(cur) {
		return newError(KindRange, "MID$: start out of range")
	}
	n := len(rhs.Str)
	if length >= 0 && length < n {
		n = length
	}
	if start+n > len(cur) {
		n = len(cur) - start
	}
	b := []byte(cur)
	copy(b[start:start+n], rhs.Str[:n])
	return m.heap.SetString(name, string(b))
}

func (m *Machine) stmtPrint() error {
	var sb strings.Builder
	trailingSep := false
	for !m.atEOL() && !m.peekKeyword(":") {
		trailingSep = false
		if m.takeKeyword(",") {
			sb.WriteByte('\t')
			trailingSep = true
			continue
		}
		if m.takeKeyword(";") {
			trailingSep = true
			continue
		}
		v, err := m.evalExpr()
		if err != nil {
			return err
		}
		sb.WriteString(v.String())
	}
	if !trailingSep {
		sb.WriteByte('\n')
	}
	return m.writeString(sb.String())
}

func (m *Machine) stmtInput() error {
	if m.peekKeyword(";") {
		// INPUT; no prompt suppression marker - consume and continue.
		m.pos++
	}
	for {
		name, ok := m.readName()
		if !ok {
			return newError(KindSyntax, "INPUT: expected identifier")
		}
		if err := m.writeString("? "); err != nil {
			return err
		}
		line, err := m.readLine()
		if err != nil {
			return err
		}
		kind := kindOfSigil(name)
		var v Value
		if kind == VString {
			v = StringValue(line)
			if err := m.heap.SetString(name, v.Str); err != nil {
				return err
			}
		} else {
			val, err := m.evalString(strings.TrimSpace(line))
			if err != nil {
				return newError(KindType, "INPUT: invalid number")
			}
			val, err = coerce(val, kind)
			if err != nil {
				return err
			}
			if err := m.heap.SetScalar(name, val); err != nil {
				return err
			}
		}
		if !m.takeKeyword(",") {
			return nil
		}
	}
}

// stmtIf implements single-line IF expr THEN stmt [ELSE stmt] and the
// structured IF expr THEN DO ... [ELSE DO ...] DEND form (§4.5).
func (m *Machine) stmtIf() (bool, error) {
	cond, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	if !m.takeKeyword("THEN") {
		return false, newError(KindSyntax, "IF: missing THEN")
	}
	if !cond.IsNumeric() {
		return false, newError(KindType, "IF condition must be numeric")
	}
	taken := cond.Truth()
	if m.peekKeyword("DO") {
		return m.stmtIfStructured(taken)
	}
	if taken {
		return m.dispatchStatement()
	}
	// skip the THEN branch looking for a same-line ELSE.
	m.skipStatement()
	if m.takeKeyword("ELSE") {
		return m.dispatchStatement()
	}
	return false, nil
}

// skipStatement advances past one statement's tokens without executing it,
// stopping at the next ':' or end of line. It understands balanced parens
// so that commas/colons inside function calls are not mistaken for
// statement separators.
func (m *Machine) skipStatement() {
	depth := 0
	for !m.atEOL() {
		if m.peekKeyword("(") {
			depth++
		} else if m.peekKeyword(")") {
			depth--
		} else if depth == 0 && m.peekKeyword(":") {
			return
		} else if depth == 0 && m.peekKeyword("ELSE") {
			return
		}
		m.advanceOneToken()
	}
}

func (m *Machine) advanceOneToken() {
	b := m.curByte()
	tok := lex.Tok(b)
	switch tok {
	case lex.TokInt16:
		m.pos += 3
	case lex.TokInt32:
		m.pos += 5
	case lex.TokFloat:
		m.pos += 9
	case lex.TokString:
		n := int(m.tok[m.pos+1])
		m.pos += 2 + n
	case lex.TokName:
		m.pos += 1 + m.nameWidth
	default:
		m.pos++
	}
}

// stmtIfStructured runs (taken) or skips (!taken) a DO...DEND body, with an
// optional ELSE DO...DEND alternative, all on subsequent lines.
func (m *Machine) stmtIfStructured(taken bool) (bool, error) {
	doLine := m.lineIdx
	dendIdx, err := m.scanMatch(doLine, map[string]bool{"DO": true}, map[string]bool{"DEND": true})
	if err != nil {
		return false, err
	}
	if taken {
		m.lineIdx = doLine + 1
		return true, nil
	}
	// skip to just past DEND; if the next line is ELSE DO, run its body
	// instead, otherwise resume right after DEND.
	next := dendIdx + 1
	if next < m.prog.Len() {
		_, toks := m.prog.At(next)
		if firstKeyword(toks) == "ELSE" {
			m.lineIdx = next + 1
			return true, nil
		}
	}
	m.lineIdx = next
	return true, nil
}

// afterDend runs when execution naturally reaches a DEND marker: if an
// ELSE DO...DEND alternative immediately follows, it was the "taken"
// branch's body finishing and the alternative must be skipped entirely.
func (m *Machine) afterDend() (bool, error) {
	next := m.lineIdx + 1
	if next < m.prog.Len() {
		_, toks := m.prog.At(next)
		if firstKeyword(toks) == "ELSE" {
			dendIdx, err := m.scanMatch(next, map[string]bool{"DO": true}, map[string]bool{"DEND": true})
			if err != nil {
				return false, err
			}
			m.lineIdx = dendIdx + 1
			return true, nil
		}
	}
	return false, nil
}

func firstKeyword(tokens []byte) string {
	if len(tokens) == 0 {
		return ""
	}
	return lex.Name(lex.Tok(tokens[0]))
}

// scanMatch scans forward from startIdx+1 for the line whose leading
// keyword closes the construct opened at startIdx, honoring nesting of any
// keyword in opens.
func (m *Machine) scanMatch(startIdx int, opens, closes map[string]bool) (int, error) {
	depth := 0
	for idx := startIdx + 1; idx < m.prog.Len(); idx++ {
		_, toks := m.prog.At(idx)
		kw := firstKeyword(toks)
		if opens[kw] {
			depth++
			continue
		}
		if closes[kw] {
			if depth == 0 {
				return idx, nil
			}
			depth--
		}
	}
	return 0, newError(KindSyntax, "unmatched block")
}

func (m *Machine) stmtFor() error {
	name, ok := m.readName()
	if !ok {
		return newError(KindSyntax, "FOR: expected identifier")
	}
	if !m.takeKeyword("=") {
		return newError(KindSyntax, "FOR: missing =")
	}
	start, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword("TO") {
		return newError(KindSyntax, "FOR: missing TO")
	}
	limit, err := m.evalExpr()
	if err != nil {
		return err
	}
	step := IntValue(1)
	if m.takeKeyword("STEP") {
		step, err = m.evalExpr()
		if err != nil {
			return err
		}
	}
	if step.Float() == 0 {
		return newError(KindSyntax, "FOR: STEP cannot be zero")
	}
	if err := m.heap.SetScalar(name, start); err != nil {
		return err
	}
	return m.forSt.push(forFrame{varName: name, limit: limit, step: step, lineIdx: m.lineIdx, tokPos: m.pos})
}

func (m *Machine) stmtNext() (bool, error) {
	var f forFrame
	var ok bool
	if lex.Tok(m.curByte()) == lex.TokName {
		name, _ := m.readName()
		f, ok = m.forSt.findForVar(name)
	} else {
		f, ok = m.forSt.top()
	}
	if !ok {
		return false, newError(KindNextWithoutFor, "NEXT without FOR")
	}
	v, err := m.heap.Scalar(f.varName, VFloat)
	if err != nil {
		return false, err
	}
	nv := addValues(v, f.step)
	if err := m.heap.SetScalar(f.varName, nv); err != nil {
		return false, err
	}
	sign := 1.0
	if f.step.Float() < 0 {
		sign = -1.0
	}
	if (nv.Float()-f.limit.Float())*sign <= 0 {
		// resume right after the FOR statement: the rest of its line first,
		// then the lines that follow it.
		if m.curLine != 0 {
			num, toks := m.prog.At(f.lineIdx)
			m.lineIdx, m.curLine, m.tok = f.lineIdx, num, toks
		}
		m.pos = f.tokPos
		return false, nil
	}
	if _, err := m.forSt.pop(); err != nil {
		return false, err
	}
	return false, nil
}

func addValues(a, b Value) Value {
	if a.Kind == VFloat || b.Kind == VFloat {
		return FloatValue(a.Float() + b.Float())
	}
	return IntValue(a.Int + b.Int)
}

func (m *Machine) stmtWhile() (bool, error) {
	cond, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	if !cond.IsNumeric() {
		return false, newError(KindType, "WHILE condition must be numeric")
	}
	if cond.Truth() {
		if err := m.structSt.push(structFrame{kind: loopWhile, lineIdx: m.lineIdx}); err != nil {
			return false, err
		}
		return false, nil
	}
	wendIdx, err := m.scanMatch(m.lineIdx, map[string]bool{"WHILE": true}, map[string]bool{"WEND": true})
	if err != nil {
		return false, err
	}
	m.lineIdx = wendIdx + 1
	return true, nil
}

func (m *Machine) stmtWend() (bool, error) {
	f, err := m.structSt.pop()
	if err != nil {
		return false, err
	}
	if f.kind != loopWhile {
		return false, newError(KindSyntax, "WEND without WHILE")
	}
	m.lineIdx = f.lineIdx
	m.pos = 0
	return true, nil
}

func (m *Machine) stmtRepeat() (bool, error) {
	return false, m.structSt.push(structFrame{kind: loopRepeat, lineIdx: m.lineIdx})
}

func (m *Machine) stmtUntil() (bool, error) {
	cond, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	f, err := m.structSt.pop()
	if err != nil {
		return false, err
	}
	if f.kind != loopRepeat {
		return false, newError(KindSyntax, "UNTIL without REPEAT")
	}
	if !cond.IsNumeric() {
		return false, newError(KindType, "UNTIL condition must be numeric")
	}
	if cond.Truth() {
		return false, nil
	}
	m.lineIdx = f.lineIdx
	m.pos = 0
	return true, nil
}

func (m *Machine) stmtSwitch() (bool, error) {
	sel, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	for idx := m.lineIdx + 1; idx < m.prog.Len(); idx++ {
		_, toks := m.prog.At(idx)
		kw := firstKeyword(toks)
		if kw == "ENDSWITCH" {
			m.lineIdx = idx
			return true, nil
		}
		if kw != "CASE" {
			continue
		}
		savedTok, savedPos := m.tok, m.pos
		m.tok, m.pos = toks, 1
		cv, err := m.evalExpr()
		m.tok, m.pos = savedTok, savedPos
		if err != nil {
			return false, err
		}
		if valuesEqual(sel, cv) {
			m.lineIdx = idx + 1
			return true, nil
		}
	}
	return false, newError(KindSyntax, "SWITCH: missing ENDSWITCH")
}

func valuesEqual(a, b Value) bool {
	if a.Kind == VString || b.Kind == VString {
		return a.Kind == VString && b.Kind == VString && a.Str == b.Str
	}
	return a.Float() == b.Float()
}

func (m *Machine) stmtGoto() (bool, error) {
	n, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return false, newError(KindUndefined, "GOTO: undefined line %d", toInt32(n))
	}
	m.lineIdx = idx
	return true, nil
}

func (m *Machine) stmtGosub() (bool, error) {
	n, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return false, newError(KindUndefined, "GOSUB: undefined line %d", toInt32(n))
	}
	if err := m.gosub.push(gosubFrame{lineIdx: m.lineIdx + 1, tokPos: 0}); err != nil {
		return false, err
	}
	m.lineIdx = idx
	return true, nil
}

func (m *Machine) stmtReturn() (bool, error) {
	f, err := m.gosub.pop()
	if err != nil {
		return false, err
	}
	m.lineIdx, m.pos = f.lineIdx, f.tokPos
	return true, nil
}

func (m *Machine) stmtOn() (bool, error) {
	sel, err := m.evalExpr()
	if err != nil {
		return false, err
	}
	isGosub := false
	if m.takeKeyword("GOSUB") {
		isGosub = true
	} else if !m.takeKeyword("GOTO") {
		return false, newError(KindSyntax, "ON: expected GOTO or GOSUB")
	}
	var targets []int32
	for {
		v, err := m.evalExpr()
		if err != nil {
			return false, err
		}
		targets = append(targets, toInt32(v))
		if !m.takeKeyword(",") {
			break
		}
	}
	n := int(toInt32(sel))
	if n < 1 || n > len(targets) {
		return false, nil
	}
	idx, ok := m.prog.Find(uint16(targets[n-1]))
	if !ok {
		return false, newError(KindUndefined, "ON: undefined line %d", targets[n-1])
	}
	if isGosub {
		if err := m.gosub.push(gosubFrame{lineIdx: m.lineIdx + 1}); err != nil {
			return false, err
		}
	}
	m.lineIdx = idx
	return true, nil
}

// stmtDef stores `DEF FN name(args) = expr`; the body is evaluated lazily
// on call by re-parsing its defining line up to the = and evaluating what
// follows. The multi-line `DEF FN ... FEND` form is not supported; FEND is
// recognized only as a harmless statement terminator.
func (m *Machine) stmtDef() error {
	if !m.takeKeyword("FN") {
		return newError(KindSyntax, "DEF: expected FN")
	}
	name, ok := m.readName()
	if !ok {
		return newError(KindSyntax, "DEF FN: expected function name")
	}
	if !m.takeKeyword("(") {
		return newError(KindSyntax, "DEF FN: missing (")
	}
	var params []string
	if !m.peekKeyword(")") {
		for {
			p, ok := m.readName()
			if !ok {
				return newError(KindSyntax, "DEF FN: expected parameter name")
			}
			params = append(params, p)
			if !m.takeKeyword(",") {
				break
			}
		}
	}
	if !m.takeKeyword(")") {
		return newError(KindSyntax, "DEF FN: missing )")
	}
	if !m.takeKeyword("=") {
		return newError(KindSyntax, "DEF FN: multi-line bodies are not supported, expected =")
	}
	return m.heap.Function(name, params, m.curLine)
}

// callUserFunc binds args positionally to params as fresh scalars, then
// evaluates the function's body expression.
func (m *Machine) callUserFunc(name string, params []string, bodyLine uint16) (Value, error) {
	var args []Value
	if !m.peekKeyword(")") {
		for {
			v, err := m.evalExpr()
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
			if !m.takeKeyword(",") {
				break
			}
		}
	}
	if !m.takeKeyword(")") {
		return Value{}, newError(KindSyntax, "%s: missing )", name)
	}
	if len(args) != len(params) {
		return Value{}, newError(KindSyntax, "%s: argument count mismatch", name)
	}
	saved := make(map[string]Value, len(params))
	for i, p := range params {
		saved[p], _ = m.heap.Scalar(p, kindOfSigil(p))
		if err := m.heap.SetScalar(p, args[i]); err != nil {
			return Value{}, err
		}
	}
	defer func() {
		for p, v := range saved {
			m.heap.SetScalar(p, v)
		}
	}()
	idx, ok := m.prog.Find(bodyLine)
	if !ok {
		return Value{}, newError(KindUndefined, "%s: body line %d missing", name, bodyLine)
	}
	_, toks := m.prog.At(idx)
	savedTok, savedPos := m.tok, m.pos
	defer func() { m.tok, m.pos = savedTok, savedPos }()
	m.tok = toks
	m.pos = 0
	for !m.takeKeyword("=") {
		if m.atEOL() {
			return Value{}, newError(KindSyntax, "%s: missing = in DEF FN body", name)
		}
		m.advanceOneToken()
	}
	return m.evalExpr()
}

func (m *Machine) stmtRead() error {
	for {
		name, ok := m.readName()
		if !ok {
			return newError(KindSyntax, "READ: expected identifier")
		}
		v, err := m.nextData()
		if err != nil {
			return err
		}
		kind := kindOfSigil(name)
		v, err = coerce(v, kind)
		if err != nil {
			return err
		}
		if kind == VString {
			if err := m.heap.SetString(name, v.Str); err != nil {
				return err
			}
		} else if err := m.heap.SetScalar(name, v); err != nil {
			return err
		}
		if !m.takeKeyword(",") {
			return nil
		}
	}
}

// nextData advances the DATA cursor to the next item across the program's
// DATA statements in line order, raising UNDEFINED past the last item
// (Open Question resolution, §9(b)).
func (m *Machine) nextData() (Value, error) {
	if !m.data.primed {
		m.data.lineIdx = 0
		m.data.tokPos = 0
		m.data.primed = true
	}
	for m.data.lineIdx < m.prog.Len() {
		_, toks := m.prog.At(m.data.lineIdx)
		if firstKeyword(toks) != "DATA" {
			m.data.lineIdx++
			m.data.tokPos = 0
			continue
		}
		if m.data.tokPos == 0 {
			m.data.tokPos = 1
		}
		if m.data.tokPos >= len(toks) || lex.Tok(toks[m.data.tokPos]) == lex.TokEOL {
			m.data.lineIdx++
			m.data.tokPos = 0
			continue
		}
		savedTok, savedPos := m.tok, m.pos
		m.tok, m.pos = toks, m.data.tokPos
		v, err := m.evalPrimary()
		if err != nil {
			m.tok, m.pos = savedTok, savedPos
			return Value{}, err
		}
		if m.takeKeyword(",") {
			// consumed separator
		}
		m.data.tokPos = m.pos
		m.tok, m.pos = savedTok, savedPos
		return v, nil
	}
	return Value{}, newError(KindUndefined, "READ past end of DATA")
}

func (m *Machine) stmtRestore() error {
	if m.atEOL() {
		m.data.reset()
		return nil
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return newError(KindUndefined, "RESTORE: undefined line %d", toInt32(n))
	}
	m.data = dataCursor{lineIdx: idx, tokPos: 0, primed: true}
	return nil
}

func (m *Machine) stmtError() error {
	if !m.takeKeyword("GOTO") {
		return newError(KindSyntax, "ERROR: expected GOTO")
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	m.errHandlerLine = uint16(toInt32(n))
	m.errArmed = true
	return nil
}

func (m *Machine) stmtDim() error {
	for {
		name, ok := m.readName()
		if !ok {
			return newError(KindSyntax, "DIM: expected identifier")
		}
		if !m.takeKeyword("(") {
			return newError(KindSyntax, "DIM: missing (")
		}
		v1, err := m.evalExpr()
		if err != nil {
			return err
		}
		dims := []int{int(toInt32(v1))}
		if m.takeKeyword(",") {
			v2, err := m.evalExpr()
			if err != nil {
				return err
			}
			dims = append(dims, int(toInt32(v2)))
		}
		if !m.takeKeyword(")") {
			return newError(KindSyntax, "DIM: missing )")
		}
		if err := m.heap.DimArray(name, kindOfSigil(name), m.settings.ArrayOrigin, dims...); err != nil {
			return err
		}
		if !m.takeKeyword(",") {
			return nil
		}
	}
}

func (m *Machine) stmtEvery() error {
	ms, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword("GOSUB") {
		return newError(KindSyntax, "EVERY: expected GOSUB")
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return newError(KindUndefined, "EVERY: undefined line %d", toInt32(n))
	}
	m.disp.armEvery(m.host.Millis(), uint32(toInt32(ms)), idx)
	return nil
}

func (m *Machine) stmtAfter() error {
	ms, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword("GOSUB") {
		return newError(KindSyntax, "AFTER: expected GOSUB")
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return newError(KindUndefined, "AFTER: undefined line %d", toInt32(n))
	}
	m.disp.armAfter(m.host.Millis(), uint32(toInt32(ms)), idx)
	return nil
}

func (m *Machine) stmtEvent() error {
	pin, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword(",") {
		return newError(KindSyntax, "EVENT: missing ,")
	}
	mode, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword("GOSUB") {
		return newError(KindSyntax, "EVENT: expected GOSUB")
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	idx, ok := m.prog.Find(uint16(toInt32(n)))
	if !ok {
		return newError(KindUndefined, "EVENT: undefined line %d", toInt32(n))
	}
	m.disp.armEvent(int(toInt32(pin)), EventMode(toInt32(mode)), idx)
	return nil
}

func (m *Machine) stmtSet() error {
	idx, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword(",") {
		return newError(KindSyntax, "SET: missing ,")
	}
	v, err := m.evalExpr()
	if err != nil {
		return err
	}
	return m.settings.Set(SettingIndex(toInt32(idx)), int(toInt32(v)), m.settings.StrictSettings)
}

func (m *Machine) stmtMalloc() error {
	if !m.settings.DarkArts {
		return newError(KindUnknownStatement, "MALLOC requires dark arts")
	}
	name, ok := m.readName()
	if !ok {
		return newError(KindSyntax, "MALLOC: expected identifier")
	}
	if !m.takeKeyword(",") {
		return newError(KindSyntax, "MALLOC: missing ,")
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	return m.heap.DimArray(name, VInt, m.settings.ArrayOrigin, int(toInt32(n)))
}

func (m *Machine) stmtFind() error {
	if !m.settings.DarkArts {
		return newError(KindUnknownStatement, "FIND requires dark arts")
	}
	if !m.takeKeyword("(") {
		return newError(KindSyntax, "FIND: missing (")
	}
	s, err := m.evalExpr()
	if err != nil {
		return err
	}
	if !m.takeKeyword(")") {
		return newError(KindSyntax, "FIND: missing )")
	}
	if s.Kind != VString {
		return newError(KindType, "FIND requires a string name")
	}
	_, found := m.heap.Kind(s.Str)
	if !found {
		return newError(KindUndefined, "FIND: %s not bound", s.Str)
	}
	return nil
}

// stmtClr implements the dark-arts single-variable form, CLR name, which
// frees one heap object instead of the whole heap area (§3 HASDARKARTS).
// Bare CLR with no following name is the host-level command handled by
// cmd/tbasic's REPL, not a program statement.
func (m *Machine) stmtClr() error {
	if m.atEOL() {
		return newError(KindIO, "CLR is a host-level command, not a program statement")
	}
	if !m.settings.DarkArts {
		return newError(KindUnknownStatement, "CLR name requires dark arts")
	}
	name, ok := m.readName()
	if !ok {
		return newError(KindSyntax, "CLR: expected identifier")
	}
	if _, found := m.heap.Kind(name); !found {
		return newError(KindUndefined, "CLR: %s not bound", name)
	}
	m.heap.Forget(name)
	return nil
}

func (m *Machine) stmtUsrCall(name string) error {
	if !m.settings.UsrCall {
		return newError(KindUnknownStatement, "%s requires USR/CALL support", name)
	}
	usr, ok := hostUsr(m.host)
	if !ok {
		return newError(KindIO, "%s: host has no Usr support", name)
	}
	n, err := m.evalExpr()
	if err != nil {
		return err
	}
	var arg Value
	if m.takeKeyword(",") {
		arg, err = m.evalExpr()
		if err != nil {
			return err
		}
	}
	_, err = usr.Usr(int(toInt32(n)), arg)
	return err
}
