package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lox/eval"
	"lox/lexer"
)

const (
	prompt     = "> "
	contPrompt = ". "
)

func newReplCmd(a *app) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(history)
		},
	}
	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "file to keep repl history in (empty to disable)")
	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lox_history")
}

// lineReader is the part of *readline.Instance the repl uses, so
// that piped input can be read without a terminal.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
	Close() error
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Readline() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) SetPrompt(string) {}
func (r *scanReader) Close() error    { return nil }

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) runREPL(history string) error {
	var lr lineReader
	if isTerminal(a.in) {
		fmt.Fprintln(a.out, banner())
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			HistoryFile:     history,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return exitCodeError{code: exitIOErr, err: errors.Wrap(err, "start repl")}
		}
		lr = rl
	} else {
		lr = &scanReader{bufio.NewScanner(a.in)}
	}
	defer lr.Close()

	ic := eval.NewInteractiveContext(a.out)
	ic.Context().MaxDepth = a.maxDepth
	return a.repl(lr, ic)
}

func (a *app) repl(lr lineReader, ic *eval.InteractiveContext) error {
	var buf strings.Builder
	for {
		line, err := lr.Readline()
		if err == readline.ErrInterrupt {
			buf.Reset()
			lr.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return exitCodeError{code: exitIOErr, err: errors.Wrap(err, "read input")}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		if incomplete(buf.String()) {
			lr.SetPrompt(contPrompt)
			continue
		}
		input := buf.String()
		buf.Reset()
		lr.SetPrompt(prompt)
		if strings.TrimSpace(input) == "" {
			continue
		}

		v, errs := ic.Run(input)
		if len(errs) != 0 {
			a.reportErrors(errs)
			continue
		}
		if v != nil {
			fmt.Fprintln(a.out, eval.Inspect(v))
		}
	}
}

// incomplete reports whether input has unclosed braces or parens, in
// which case the repl keeps reading.
func incomplete(input string) bool {
	l := lexer.New("<stdin>", input)
	l.ScanTokens()
	depth := 0
	for _, tok := range l.Tokens {
		switch tok.Type {
		case lexer.LEFT_BRACE, lexer.LEFT_PAREN:
			depth++
		case lexer.RIGHT_BRACE, lexer.RIGHT_PAREN:
			depth--
		}
	}
	return depth > 0
}
