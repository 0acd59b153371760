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
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sl001/tbasic/basic"
	"github.com/sl001/tbasic/lang/tbasic"
	"github.com/sl001/tbasic/lex"
)

var (
	memSize    int
	gosubDepth int
	forDepth   int
	lineCache  int
	noRawIO    bool
	debug      bool
)

func machineOpts() []basic.Option {
	var opts []basic.Option
	if memSize > 0 {
		opts = append(opts, basic.MemSize(memSize))
	}
	if gosubDepth > 0 {
		opts = append(opts, basic.GosubDepth(gosubDepth))
	}
	if forDepth > 0 {
		opts = append(opts, basic.ForDepth(forDepth))
	}
	if lineCache > 0 {
		opts = append(opts, basic.LineCacheSize(lineCache))
	}
	return opts
}

func setupIO() func() {
	if noRawIO {
		return func() {}
	}
	tearDown, err := setRawIO()
	if err != nil {
		return func() {}
	}
	return tearDown
}

func atExit(err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	}
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "tbasic",
	Short: "tbasic hosts the basic engine from the command line",
}

var runCmd = &cobra.Command{
	Use:   "run source",
	Short: "load and run a program file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			atExit(errors.Wrap(err, "open failed"))
		}
		defer f.Close()

		host := newConsoleHost(os.Stdin, os.Stdout)
		m, err := basic.New(host, machineOpts()...)
		if err != nil {
			atExit(err)
		}
		if err := tbasic.Load(f, m); err != nil {
			atExit(err)
		}

		tearDown := setupIO()
		err = m.Run()
		tearDown()
		host.Flush()
		atExit(err)
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "interactive line-oriented program editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		host := newConsoleHost(os.Stdin, os.Stdout)
		m, err := basic.New(host, machineOpts()...)
		if err != nil {
			atExit(err)
		}
		runREPL(m, host)
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens source",
	Short: "tokenize a file and dump the raw token stream per line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			atExit(errors.Wrap(err, "open failed"))
		}
		defer f.Close()

		tok := lex.NewTokenizer(lex.Default())
		if err := dumpTokens(f, tok, os.Stdout); err != nil {
			atExit(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&memSize, "mem-size", 0, "arena size in bytes (0: engine default)")
	rootCmd.PersistentFlags().IntVar(&gosubDepth, "gosub-depth", 0, "GOSUB return-stack depth (0: engine default)")
	rootCmd.PersistentFlags().IntVar(&forDepth, "for-depth", 0, "FOR-loop stack depth (0: engine default)")
	rootCmd.PersistentFlags().IntVar(&lineCache, "line-cache", 0, "GOTO/GOSUB line-lookup cache size (0: engine default)")
	rootCmd.PersistentFlags().BoolVar(&noRawIO, "no-raw-io", false, "disable raw terminal IO while running a program")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print full error causes on failure")

	rootCmd.AddCommand(runCmd, replCmd, tokensCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		atExit(err)
	}
}
