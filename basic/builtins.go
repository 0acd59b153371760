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
	"math"
	"strconv"
	"strings"
)

// evalBuiltinCall recognizes and evaluates a built-in function call whose
// name was just matched as a keyword token. ok is false if name does not
// name a built-in, in which case the caller falls through to a syntax
// error (evalPrimary has already exhausted every other primary form).
func (m *Machine) evalBuiltinCall(name string) (Value, bool, error) {
	switch name {
	case "LEFT$", "RIGHT$", "MID$", "CHR$", "STR$", "ASC", "LEN", "VAL", "INSTR",
		"RND", "INT", "ABS", "SGN", "SQR", "POW", "SIN", "COS", "TAN", "ATN", "LOG", "EXP",
		"TIMER", "EVAL", "USR":
		// fall through to argument parsing below
	default:
		return Value{}, false, nil
	}
	if !m.takeKeyword("(") {
		return Value{}, true, newError(KindSyntax, "%s: missing (", name)
	}
	args, err := m.evalArgList()
	if err != nil {
		return Value{}, true, err
	}
	if !m.takeKeyword(")") {
		return Value{}, true, newError(KindSyntax, "%s: missing )", name)
	}
	v, err := m.callBuiltin(name, args)
	return v, true, err
}

func (m *Machine) evalArgList() ([]Value, error) {
	var args []Value
	if m.peekKeyword(")") {
		return args, nil
	}
	for {
		v, err := m.evalExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if !m.takeKeyword(",") {
			return args, nil
		}
	}
}

func argStr(args []Value, i int) (string, error) {
	if i >= len(args) || args[i].Kind != VString {
		return "", newError(KindType, "argument %d must be a string", i+1)
	}
	return args[i].Str, nil
}

func argNum(args []Value, i int) (Value, error) {
	if i >= len(args) || !args[i].IsNumeric() {
		return Value{}, newError(KindType, "argument %d must be numeric", i+1)
	}
	return args[i], nil
}

func (m *Machine) callBuiltin(name string, args []Value) (Value, error) {
	switch name {
	case "LEFT$":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		n, err := argNum(args, 1)
		if err != nil {
			return Value{}, err
		}
		k := clampLen(int(toInt32(n)), len(s))
		return StringValue(s[:k]), nil
	case "RIGHT$":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		n, err := argNum(args, 1)
		if err != nil {
			return Value{}, err
		}
		k := clampLen(int(toInt32(n)), len(s))
		return StringValue(s[len(s)-k:]), nil
	case "MID$":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		startV, err := argNum(args, 1)
		if err != nil {
			return Value{}, err
		}
		start := int(toInt32(startV)) - 1
		if start < 0 {
			start = 0
		}
		if start > len(s) {
			return StringValue(""), nil
		}
		length := len(s) - start
		if len(args) > 2 {
			lv, err := argNum(args, 2)
			if err != nil {
				return Value{}, err
			}
			length = clampLen(int(toInt32(lv)), len(s)-start)
		}
		return StringValue(s[start : start+length]), nil
	case "CHR$":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StringValue(string(rune(byte(toInt32(n))))), nil
	case "STR$":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		return StringValue(n.String()), nil
	case "ASC":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		if s == "" {
			return Value{}, newError(KindRange, "ASC of empty string")
		}
		return IntValue(int32(s[0])), nil
	case "LEN":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntValue(int32(len(s))), nil
	case "VAL":
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		s = strings.TrimSpace(s)
		if f, perr := strconv.ParseFloat(s, 64); perr == nil {
			if f == math.Trunc(f) {
				return IntValue(int32(f)), nil
			}
			return FloatValue(f), nil
		}
		return IntValue(0), nil
	case "INSTR":
		hay, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		needle, err := argStr(args, 1)
		if err != nil {
			return Value{}, err
		}
		if !m.settings.FullInstr && len(needle) > 1 {
			needle = needle[:1]
		}
		idx := strings.Index(hay, needle)
		return IntValue(int32(idx + 1)), nil
	case "RND":
		var upper uint32
		if len(args) > 0 {
			n, err := argNum(args, 0)
			if err != nil {
				return Value{}, err
			}
			upper = uint32(toInt32(n))
		}
		r := m.host.Rand()
		if upper == 0 {
			return FloatValue(float64(r) / float64(math.MaxUint32)), nil
		}
		return IntValue(int32(r % upper)), nil
	case "INT":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		return IntValue(int32(math.Floor(n.Float()))), nil
	case "ABS":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		if n.Kind == VFloat {
			return FloatValue(math.Abs(n.Flt)), nil
		}
		if n.Int < 0 {
			return IntValue(-n.Int), nil
		}
		return n, nil
	case "SGN":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		switch {
		case n.Float() > 0:
			return IntValue(1), nil
		case n.Float() < 0:
			return IntValue(-1), nil
		default:
			return IntValue(0), nil
		}
	case "POW":
		a, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		b, err := argNum(args, 1)
		if err != nil {
			return Value{}, err
		}
		return m.powOp(a, b)
	case "SQR":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		if n.Float() < 0 {
			return Value{}, newError(KindRange, "SQR of negative number")
		}
		return FloatValue(math.Sqrt(n.Float())), nil
	case "SIN":
		return unaryFloat(args, math.Sin)
	case "COS":
		return unaryFloat(args, math.Cos)
	case "TAN":
		return unaryFloat(args, math.Tan)
	case "ATN":
		return unaryFloat(args, math.Atan)
	case "LOG":
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		if n.Float() <= 0 {
			return Value{}, newError(KindRange, "LOG of non-positive number")
		}
		return FloatValue(math.Log(n.Float())), nil
	case "EXP":
		return unaryFloat(args, math.Exp)
	case "TIMER":
		return IntValue(int32(m.host.Millis())), nil
	case "EVAL":
		if !m.settings.DarkArts {
			return Value{}, newError(KindUnknownStatement, "EVAL requires dark arts")
		}
		s, err := argStr(args, 0)
		if err != nil {
			return Value{}, err
		}
		return m.evalString(s)
	case "USR":
		if !m.settings.UsrCall {
			return Value{}, newError(KindUnknownStatement, "USR requires USR/CALL support")
		}
		n, err := argNum(args, 0)
		if err != nil {
			return Value{}, err
		}
		usr, ok := hostUsr(m.host)
		if !ok {
			return Value{}, newError(KindIO, "USR: host has no Usr support")
		}
		var arg Value
		if len(args) > 1 {
			arg = args[1]
		}
		return usr.Usr(int(toInt32(n)), arg)
	}
	return Value{}, newError(KindUnknownStatement, "unknown function %s", name)
}

func unaryFloat(args []Value, fn func(float64) float64) (Value, error) {
	n, err := argNum(args, 0)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(fn(n.Float())), nil
}

func clampLen(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
