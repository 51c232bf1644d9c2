package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/vm"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive read-eval-print loop" }
func (*replCmd) Usage() string {
	return "repl:\n  start the interactive prompt. Ctrl-D or 'exit' quits.\n"
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("lox> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	session := compiler.NewSession()
	machine := vm.New()

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt("lox> ")
		} else {
			rl.SetPrompt("...> ")
		}

		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return subcommands.ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if buffer.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return subcommands.ExitSuccess
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		if !isInputReady(buffer.String()) {
			continue
		}

		source := buffer.String()
		buffer.Reset()

		ch, errs := session.Compile(source)
		if errs != nil {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			continue
		}

		if err := machine.Run(ch); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// isInputReady reports whether the buffered REPL input has balanced braces
// and so is ready to compile, rather than awaiting a closing '}' on a
// following line.
func isInputReady(src string) bool {
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}
