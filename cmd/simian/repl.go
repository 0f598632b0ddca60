package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/simian/builtin"
	"github.com/chazu/simian/runner"
)

// runREPL reads programs from in and prints their values. Input
// accumulates until it parses or a blank line forces evaluation, so a block
// or hash may span several lines.
func runREPL(ctx context.Context, r *runner.Runner, in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "simian REPL (engine: %s, type 'exit' to quit, ':help' for commands)\n\n", engineName(r))

	scanner := bufio.NewScanner(in)
	lineBuffer := strings.Builder{}

	for {
		if lineBuffer.Len() == 0 {
			fmt.Fprint(out, ">> ")
		} else {
			fmt.Fprint(out, ".. ")
		}

		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if lineBuffer.Len() == 0 && (line == "exit" || line == "quit") {
			break
		}

		if lineBuffer.Len() == 0 && strings.HasPrefix(line, ":") {
			handleREPLCommand(r, line, out)
			continue
		}

		// Empty line executes accumulated input
		if line == "" {
			if lineBuffer.Len() > 0 {
				evalAndPrint(ctx, r, lineBuffer.String(), out)
				lineBuffer.Reset()
			}
			continue
		}

		if lineBuffer.Len() > 0 {
			lineBuffer.WriteString("\n")
		}
		lineBuffer.WriteString(line)

		if !incomplete(lineBuffer.String()) {
			evalAndPrint(ctx, r, lineBuffer.String(), out)
			lineBuffer.Reset()
		}
	}
	fmt.Fprintln(out)
}

// incomplete reports whether input has unclosed brackets, so the REPL
// should keep reading.
func incomplete(input string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, ch := range input {
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']' || ch == '}':
			depth--
		}
	}
	return depth > 0 || inString
}

func evalAndPrint(ctx context.Context, r *runner.Runner, input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}
	value, err := r.Run(ctx, input)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(out, value.Inspect())
}

func handleREPLCommand(r *runner.Runner, line string, out io.Writer) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help             show this help")
		fmt.Fprintln(out, "  :builtins         list builtin functions")
		fmt.Fprintln(out, "  :engine [eval|vm] show or switch the engine")
		fmt.Fprintln(out, "  exit, quit        leave the REPL")
	case ":builtins":
		for _, name := range builtin.Names() {
			fmt.Fprintf(out, "  %s\n", builtin.Doc(name))
		}
	case ":engine":
		if len(fields) == 1 {
			fmt.Fprintln(out, engineName(r))
			return
		}
		engine, err := runner.ParseEngine(fields[1])
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		r.Engine = engine
		fmt.Fprintf(out, "engine: %s\n", engine)
	default:
		fmt.Fprintf(out, "Unknown command %s (try :help)\n", fields[0])
	}
}

func engineName(r *runner.Runner) string {
	if r.Engine == "" {
		return string(runner.VM)
	}
	return string(r.Engine)
}
