// Command quill is a small REPL/script-runner around the quill package,
// the equivalent of the library's own smoke-test harness for people who
// just want to poke at the language from a terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/quill-lang/quill"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quill",
		Short: "quill is an embeddable scripting interpreter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return runREPL()
			}
			return runScript(os.Stdin)
		},
	}
	root.AddCommand(newRunCmd(), newReplCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "run a script file (stdin if no file given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runScript(os.Stdin)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return runScript(f)
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL()
		},
	}
}

func runScript(f *os.File) error {
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	in := quill.New(quill.Config{})
	result, err := in.Eval(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return err
	}
	if s := result.String(); s != "" {
		fmt.Println(s)
	}
	return nil
}

// runREPL reads commands line at a time, accumulating lines until a
// complete command is parseable (handling multi-line braced bodies),
// the same incremental-parse loop the teacher's feather-tester used.
func runREPL() error {
	in := quill.New(quill.Config{})
	scanner := bufio.NewScanner(os.Stdin)
	var pending string

	for {
		if pending == "" {
			fmt.Print("% ")
		} else {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if pending != "" {
			pending += "\n" + line
		} else {
			pending = line
		}
		if !isCompleteCommand(pending) {
			continue
		}
		result, err := in.Eval(pending)
		pending = ""
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
			continue
		}
		if s := result.String(); s != "" {
			fmt.Println(s)
		}
	}
	return scanner.Err()
}

// isCompleteCommand reports whether text has balanced braces/brackets/
// quotes, the cheap heuristic the REPL uses to decide whether to keep
// reading lines or hand the buffer to Eval.
func isCompleteCommand(text string) bool {
	depthBrace, depthBracket := 0, 0
	inQuote := false
	escaped := false
	for _, c := range text {
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuote = !inQuote
		case '{':
			if !inQuote {
				depthBrace++
			}
		case '}':
			if !inQuote {
				depthBrace--
			}
		case '[':
			if !inQuote {
				depthBracket++
			}
		case ']':
			if !inQuote {
				depthBracket--
			}
		}
	}
	return depthBrace <= 0 && depthBracket <= 0 && !inQuote
}
