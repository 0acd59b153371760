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

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/sl001/tbasic/lex"
)

// dumpTokens tokenizes every line of r and prints the raw token bytes
// alongside their detokenized round-trip, for debugging the tokenizer
// and SAVE/LOAD's detokenize path.
func dumpTokens(r io.Reader, tok *lex.Tokenizer, w io.Writer) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		src := sc.Text()
		if strings.TrimSpace(src) == "" {
			continue
		}
		num, toks, err := tok.Tokenize(src)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
		rendered, err := lex.Detokenize(toks, tok.Features)
		if err != nil {
			return errors.Wrapf(err, "line %d: detokenize", lineNo)
		}
		fmt.Fprintf(w, "%4d  % x\n      %s\n", num, toks, rendered)
	}
	return sc.Err()
}
