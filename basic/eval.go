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
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/sl001/tbasic/lex"
)

// The evaluator is a straightforward recursive-descent parser walking the
// Machine's current statement token stream directly (§4.4). Each evalX
// method corresponds to one precedence level, lowest first; evalPrimary
// bottoms out at literals, names, function calls and parenthesized
// sub-expressions.

func (m *Machine) curByte() byte {
	if m.pos >= len(m.tok) {
		return byte(lex.TokEOL)
	}
	return m.tok[m.pos]
}

// peekKeyword reports whether the current token is the keyword named s,
// without consuming it.
func (m *Machine) peekKeyword(s string) bool {
	tok := lex.Tok(m.curByte())
	return lex.Name(tok) == s
}

// takeKeyword consumes the current token if it is the keyword named s.
func (m *Machine) takeKeyword(s string) bool {
	if m.peekKeyword(s) {
		m.pos++
		return true
	}
	return false
}

func (m *Machine) atEOL() bool {
	return m.pos >= len(m.tok) || lex.Tok(m.tok[m.pos]) == lex.TokEOL
}

// evalExpr is the entry point: logical OR, the lowest precedence level.
func (m *Machine) evalExpr() (Value, error) {
	lhs, err := m.evalAnd()
	if err != nil {
		return Value{}, err
	}
	for m.takeKeyword("OR") {
		rhs, err := m.evalAnd()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.boolOp(lhs, rhs, "OR")
		if err != nil {
			return Value{}, err
		}
	}
	return lhs, nil
}

func (m *Machine) evalAnd() (Value, error) {
	lhs, err := m.evalNot()
	if err != nil {
		return Value{}, err
	}
	for m.takeKeyword("AND") {
		rhs, err := m.evalNot()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.boolOp(lhs, rhs, "AND")
		if err != nil {
			return Value{}, err
		}
	}
	return lhs, nil
}

func (m *Machine) evalNot() (Value, error) {
	if m.takeKeyword("NOT") {
		v, err := m.evalNot()
		if err != nil {
			return Value{}, err
		}
		if !v.IsNumeric() {
			return Value{}, newError(KindType, "NOT requires a numeric operand")
		}
		if m.settings.BoolMode == BoolC {
			if v.Truth() {
				return IntValue(0), nil
			}
			return IntValue(1), nil
		}
		return IntValue(^toInt32(v)), nil
	}
	return m.evalRel()
}

func (m *Machine) evalRel() (Value, error) {
	lhs, err := m.evalAdd()
	if err != nil {
		return Value{}, err
	}
	for {
		var op string
		switch {
		case m.peekKeyword("="):
			op = "="
		case m.peekKeyword("<>"):
			op = "<>"
		case m.peekKeyword("<="):
			op = "<="
		case m.peekKeyword(">="):
			op = ">="
		case m.peekKeyword("<"):
			op = "<"
		case m.peekKeyword(">"):
			op = ">"
		default:
			return lhs, nil
		}
		m.pos++
		rhs, err := m.evalAdd()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.relOp(lhs, rhs, op)
		if err != nil {
			return Value{}, err
		}
	}
}

func (m *Machine) evalAdd() (Value, error) {
	lhs, err := m.evalMul()
	if err != nil {
		return Value{}, err
	}
	for {
		var op string
		switch {
		case m.peekKeyword("+"):
			op = "+"
		case m.peekKeyword("-"):
			op = "-"
		default:
			return lhs, nil
		}
		m.pos++
		rhs, err := m.evalMul()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.addOp(lhs, rhs, op)
		if err != nil {
			return Value{}, err
		}
	}
}

func (m *Machine) evalMul() (Value, error) {
	lhs, err := m.evalShift()
	if err != nil {
		return Value{}, err
	}
	for {
		var op string
		switch {
		case m.peekKeyword("*"):
			op = "*"
		case m.peekKeyword("/"):
			op = "/"
		case m.peekKeyword("MOD"):
			op = "MOD"
		default:
			return lhs, nil
		}
		m.pos++
		rhs, err := m.evalShift()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.mulOp(lhs, rhs, op)
		if err != nil {
			return Value{}, err
		}
	}
}

func (m *Machine) evalShift() (Value, error) {
	lhs, err := m.evalPow()
	if err != nil {
		return Value{}, err
	}
	for {
		var op string
		switch {
		case m.peekKeyword("<<"):
			op = "<<"
		case m.peekKeyword(">>"):
			op = ">>"
		default:
			return lhs, nil
		}
		m.pos++
		rhs, err := m.evalPow()
		if err != nil {
			return Value{}, err
		}
		if !lhs.IsNumeric() || !rhs.IsNumeric() {
			return Value{}, newError(KindType, "shift requires numeric operands")
		}
		if op == "<<" {
			lhs = IntValue(toInt32(lhs) << uint32(toInt32(rhs)))
		} else {
			lhs = IntValue(toInt32(lhs) >> uint32(toInt32(rhs)))
		}
	}
}

// powerRightAssoc reports the ^ associativity to use for the expression
// currently being evaluated: while executing a stored program line, the
// program's own persisted Header wins over the live runtime Settings, so a
// saved program keeps the associativity it was written with even if
// Settings.PowerRightAssoc changes later (§9 Open Questions). Immediate-mode
// expressions (curLine == 0) always use the live setting.
func (m *Machine) powerRightAssoc() bool {
	if m.curLine != 0 {
		return m.prog.Header.PowerRightToLeft
	}
	return m.settings.PowerRightAssoc
}

func (m *Machine) evalPow() (Value, error) {
	lhs, err := m.evalUnary()
	if err != nil {
		return Value{}, err
	}
	if !m.peekKeyword("^") {
		return lhs, nil
	}
	m.pos++
	if m.powerRightAssoc() {
		rhs, err := m.evalPow()
		if err != nil {
			return Value{}, err
		}
		return m.powOp(lhs, rhs)
	}
	rhs, err := m.evalUnary()
	if err != nil {
		return Value{}, err
	}
	lhs, err = m.powOp(lhs, rhs)
	if err != nil {
		return Value{}, err
	}
	for m.takeKeyword("^") {
		rhs, err := m.evalUnary()
		if err != nil {
			return Value{}, err
		}
		lhs, err = m.powOp(lhs, rhs)
		if err != nil {
			return Value{}, err
		}
	}
	return lhs, nil
}

func (m *Machine) evalUnary() (Value, error) {
	if m.takeKeyword("-") {
		v, err := m.evalUnary()
		if err != nil {
			return Value{}, err
		}
		if !v.IsNumeric() {
			return Value{}, newError(KindType, "unary - requires a numeric operand")
		}
		if v.Kind == VFloat {
			return FloatValue(-v.Flt), nil
		}
		return IntValue(-v.Int), nil
	}
	if m.takeKeyword("+") {
		return m.evalUnary()
	}
	return m.evalPrimary()
}

func (m *Machine) evalPrimary() (Value, error) {
	b := m.curByte()
	tok := lex.Tok(b)
	switch tok {
	case lex.TokInt16:
		if m.pos+3 > len(m.tok) {
			return Value{}, newError(KindSyntax, "truncated integer literal")
		}
		v := int16(binary.LittleEndian.Uint16(m.tok[m.pos+1 : m.pos+3]))
		m.pos += 3
		return IntValue(int32(v)), nil
	case lex.TokInt32:
		if m.pos+5 > len(m.tok) {
			return Value{}, newError(KindSyntax, "truncated integer literal")
		}
		v := int32(binary.LittleEndian.Uint32(m.tok[m.pos+1 : m.pos+5]))
		m.pos += 5
		return IntValue(v), nil
	case lex.TokFloat:
		if m.pos+9 > len(m.tok) {
			return Value{}, newError(KindSyntax, "truncated float literal")
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(m.tok[m.pos+1 : m.pos+9]))
		m.pos += 9
		return FloatValue(v), nil
	case lex.TokString:
		if m.pos+1 >= len(m.tok) {
			return Value{}, newError(KindSyntax, "truncated string literal")
		}
		n := int(m.tok[m.pos+1])
		if m.pos+2+n > len(m.tok) {
			return Value{}, newError(KindSyntax, "truncated string literal")
		}
		s := string(m.tok[m.pos+2 : m.pos+2+n])
		m.pos += 2 + n
		return StringValue(s), nil
	case lex.TokName:
		return m.evalNameOrCall()
	}
	if m.takeKeyword("(") {
		v, err := m.evalExpr()
		if err != nil {
			return Value{}, err
		}
		if !m.takeKeyword(")") {
			return Value{}, newError(KindSyntax, "missing )")
		}
		return v, nil
	}
	if name := lex.Name(tok); name != "" {
		if v, ok, err := m.evalBuiltinCall(name); ok {
			return v, err
		}
	}
	return Value{}, newError(KindSyntax, "unexpected token in expression")
}

// readName consumes and returns a TokName record's decoded identifier.
func (m *Machine) readName() (string, bool) {
	w := m.nameWidth
	if lex.Tok(m.curByte()) != lex.TokName || m.pos+1+w > len(m.tok) {
		return "", false
	}
	raw := m.tok[m.pos+1 : m.pos+1+w]
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	m.pos += 1 + w
	return string(raw[:end]), true
}

// evalNameOrCall handles a bare variable reference, an array element
// reference, or a DEF FN user-function call.
func (m *Machine) evalNameOrCall() (Value, error) {
	name, ok := m.readName()
	if !ok {
		return Value{}, newError(KindSyntax, "malformed identifier")
	}
	if name == "ERR" && !m.peekKeyword("(") {
		return IntValue(int32(m.errCode)), nil
	}
	kind := kindOfSigil(name)
	if m.takeKeyword("(") {
		if params, bodyLine, isFunc := m.heap.LookupFunction(name); isFunc {
			return m.callUserFunc(name, params, bodyLine)
		}
		idx1, err := m.evalExpr()
		if err != nil {
			return Value{}, err
		}
		idx2 := -1
		if m.takeKeyword(",") {
			v2, err := m.evalExpr()
			if err != nil {
				return Value{}, err
			}
			idx2 = int(toInt32(v2))
		}
		if !m.takeKeyword(")") {
			return Value{}, newError(KindSyntax, "missing ) after array index")
		}
		return m.heap.ArrayGet(name, int(toInt32(idx1)), idx2)
	}
	if kind == VString {
		s, err := m.heap.String(name)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}
	return m.heap.Scalar(name, kind)
}

// kindOfSigil returns the ValueKind implied by a name's trailing sigil:
// '$' for string, '%' for integer, otherwise float.
func kindOfSigil(name string) ValueKind {
	if strings.HasSuffix(name, "$") {
		return VString
	}
	if strings.HasSuffix(name, "%") {
		return VInt
	}
	return VFloat
}

func toInt32(v Value) int32 {
	if v.Kind == VFloat {
		return int32(v.Flt)
	}
	return v.Int
}

func (m *Machine) boolOp(lhs, rhs Value, op string) (Value, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return Value{}, newError(KindType, "%s requires numeric operands", op)
	}
	a, b := toInt32(lhs), toInt32(rhs)
	switch op {
	case "AND":
		return IntValue(a & b), nil
	case "OR":
		return IntValue(a | b), nil
	}
	return Value{}, newError(KindSyntax, "unknown boolean operator %s", op)
}

func (m *Machine) truthValue(b bool) Value {
	if m.settings.BoolMode == BoolC {
		if b {
			return IntValue(1)
		}
		return IntValue(0)
	}
	if b {
		return IntValue(-1)
	}
	return IntValue(0)
}

func (m *Machine) relOp(lhs, rhs Value, op string) (Value, error) {
	if lhs.Kind == VString || rhs.Kind == VString {
		if lhs.Kind != VString || rhs.Kind != VString {
			return Value{}, newError(KindType, "cannot compare string to number")
		}
		var cmp bool
		switch op {
		case "=":
			cmp = lhs.Str == rhs.Str
		case "<>":
			cmp = lhs.Str != rhs.Str
		case "<":
			cmp = lhs.Str < rhs.Str
		case ">":
			cmp = lhs.Str > rhs.Str
		case "<=":
			cmp = lhs.Str <= rhs.Str
		case ">=":
			cmp = lhs.Str >= rhs.Str
		}
		return m.truthValue(cmp), nil
	}
	a, b := lhs.Float(), rhs.Float()
	var cmp bool
	switch op {
	case "=":
		cmp = a == b
	case "<>":
		cmp = a != b
	case "<":
		cmp = a < b
	case ">":
		cmp = a > b
	case "<=":
		cmp = a <= b
	case ">=":
		cmp = a >= b
	}
	return m.truthValue(cmp), nil
}

func (m *Machine) addOp(lhs, rhs Value, op string) (Value, error) {
	if lhs.Kind == VString || rhs.Kind == VString {
		if op != "+" || !m.settings.MSStrings {
			return Value{}, newError(KindType, "string operands require MS-string concatenation")
		}
		if lhs.Kind != VString || rhs.Kind != VString {
			return Value{}, newError(KindType, "cannot add string and number")
		}
		return StringValue(lhs.Str + rhs.Str), nil
	}
	if lhs.Kind == VFloat || rhs.Kind == VFloat {
		if op == "+" {
			return FloatValue(lhs.Float() + rhs.Float()), nil
		}
		return FloatValue(lhs.Float() - rhs.Float()), nil
	}
	if op == "+" {
		return IntValue(lhs.Int + rhs.Int), nil
	}
	return IntValue(lhs.Int - rhs.Int), nil
}

func (m *Machine) mulOp(lhs, rhs Value, op string) (Value, error) {
	if lhs.Kind == VString || rhs.Kind == VString {
		return Value{}, newError(KindType, "%s requires numeric operands", op)
	}
	if lhs.Kind == VFloat || rhs.Kind == VFloat {
		a, b := lhs.Float(), rhs.Float()
		switch op {
		case "*":
			return FloatValue(a * b), nil
		case "/":
			if b == 0 {
				return FloatValue(math.Inf(int(math.Copysign(1, a)))), nil
			}
			return FloatValue(a / b), nil
		case "MOD":
			if b == 0 {
				return Value{}, newError(KindDivByZero, "MOD by zero")
			}
			return FloatValue(math.Mod(a, b)), nil
		}
	}
	a, b := lhs.Int, rhs.Int
	switch op {
	case "*":
		return IntValue(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, newError(KindDivByZero, "division by zero")
		}
		return IntValue(a / b), nil
	case "MOD":
		if b == 0 {
			return Value{}, newError(KindDivByZero, "MOD by zero")
		}
		return IntValue(a % b), nil
	}
	return Value{}, newError(KindSyntax, "unknown operator %s", op)
}

func (m *Machine) powOp(lhs, rhs Value) (Value, error) {
	if !lhs.IsNumeric() || !rhs.IsNumeric() {
		return Value{}, newError(KindType, "^ requires numeric operands")
	}
	r := math.Pow(lhs.Float(), rhs.Float())
	if lhs.Kind == VInt && rhs.Kind == VInt && rhs.Int >= 0 {
		return IntValue(int32(r)), nil
	}
	return FloatValue(r), nil
}

// formatNumber renders a float the way STR$ and PRINT do for non-integral
// results: shortest round-trippable representation.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
