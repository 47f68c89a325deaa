// Package prompt asks the user line-oriented questions on a terminal and
// falls back to default answers when nobody is there to type.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter reads answers from in and writes questions to out.
// When interactive is false every question is answered with its default
// without being printed.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a Prompter over arbitrary streams.
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// Stdio returns a Prompter bound to the process stdin/stdout. It is
// interactive only when stdin is a terminal and forceDefaults is false.
func Stdio(forceDefaults bool) *Prompter {
	fd := os.Stdin.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return New(os.Stdin, os.Stdout, tty && !forceDefaults)
}

// Interactive reports whether questions actually reach a user.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Ask prints "question (default: def): " and returns the trimmed answer,
// or def when the answer is empty or input is exhausted.
func (p *Prompter) Ask(question, def string) string {
	if !p.interactive {
		return def
	}
	if def != "" {
		fmt.Fprintf(p.out, "%s (default: %s): ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	answer := p.readLine()
	if answer == "" {
		return def
	}
	return answer
}

// Confirm asks a yes/no question. Anything other than y/yes/n/no
// (case-insensitive), including an empty line, selects the default.
func (p *Prompter) Confirm(question string, defYes bool) bool {
	if !p.interactive {
		return defYes
	}
	hint := "[y/N]"
	if defYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s ", question, hint)

	switch strings.ToLower(p.readLine()) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defYes
	}
}

func (p *Prompter) readLine() string {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// EOF (e.g. stdin closed) answers with the default; keep the
		// transcript tidy by ending the question line.
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(line)
}
