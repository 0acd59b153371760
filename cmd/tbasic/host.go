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
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sl001/tbasic/internal/bio"
)

// consoleHost implements basic.Host against the process's stdin/stdout: a
// blocking byte-oriented console, a wall-clock millisecond counter, a
// seedable PRNG, and SIGINT as the break signal.
type consoleHost struct {
	in     *bufio.Reader
	outBuf *bufio.Writer
	out    *bio.ErrWriter

	start time.Time
	rng   *rand.Rand
	brk   int32
}

func newConsoleHost(in io.Reader, out io.Writer) *consoleHost {
	outBuf := bufio.NewWriter(out)
	h := &consoleHost{
		in:     bufio.NewReader(in),
		outBuf: outBuf,
		out:    bio.NewErrWriter(outBuf),
		start:  time.Now(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		for range sigc {
			atomic.StoreInt32(&h.brk, 1)
		}
	}()
	return h
}

func (h *consoleHost) ReadByte() (byte, error) { return h.in.ReadByte() }

// ReadLine reads one newline-terminated command line from the shared input
// reader, for the REPL's editor loop. It must not be mixed with ReadByte
// calls from a running program on the same line.
func (h *consoleHost) ReadLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h *consoleHost) WriteByte(b byte) error {
	_, err := h.out.Write([]byte{b})
	return err
}

func (h *consoleHost) Available() (int, error) { return h.in.Buffered(), nil }

func (h *consoleHost) Flush() error {
	if h.out.Err != nil {
		return h.out.Err
	}
	return h.outBuf.Flush()
}

func (h *consoleHost) Millis() uint32 { return uint32(time.Since(h.start).Milliseconds()) }

func (h *consoleHost) Seed(seed uint32) { h.rng = rand.New(rand.NewSource(int64(seed))) }

func (h *consoleHost) Rand() uint32 { return h.rng.Uint32() }

// BreakRequested reports whether SIGINT (Ctrl-C) was received since the
// last check, clearing the flag.
func (h *consoleHost) BreakRequested() bool {
	return atomic.SwapInt32(&h.brk, 0) == 1
}
