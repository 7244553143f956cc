package main

// implements the lox command: a script runner and a repl.

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"lox/eval"
	"lox/resolver"
)

var VERSION string
var LOGO = `
  _                   |
 | |    ___ __  __    | lox language
 | |__ / _ \ \/ /    | version: $VERSION
 |____|\___//_/\_\    |
`

func sliceVersion(v string) string {
	if v == "" {
		return "dev"
	}
	m := 10
	if len(v) < 10 {
		m = len(v)
	}
	return v[0:m]
}

// sysexits(3) codes.
const (
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

// exitCodeError carries the process exit code out of a command. A nil
// err means the failure has already been reported.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

// app holds the streams and settings shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger

	verbose   bool
	noColor   bool
	maxDepth  int
	maxErrors int
}

func newApp() *app {
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (a *app) setup() {
	if a.noColor {
		color.NoColor = true
	}
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lox [script]",
		Short:   "Run lox scripts, or start a repl when no script is given",
		Version: sliceVersion(VERSION),
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.runFile(args[0])
			}
			return a.runREPL(defaultHistoryFile())
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline phases to stderr")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable coloured diagnostics")
	cmd.PersistentFlags().IntVar(&a.maxDepth, "max-depth", eval.DefaultMaxDepth, "maximum call depth (0 for no limit)")
	cmd.PersistentFlags().IntVar(&a.maxErrors, "max-errors", resolver.DefaultMaxErrors, "stop resolving after this many errors (0 for no limit)")

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newReplCmd(a))
	return cmd
}

// exitCode reports err, unless it was reported already, and returns
// the code the process should exit with.
func exitCode(w io.Writer, err error) int {
	var withCode exitCodeError
	if errors.As(err, &withCode) {
		if withCode.err != nil {
			fmt.Fprintln(w, "error:", withCode.err)
		}
		return withCode.ExitCode()
	}
	fmt.Fprintln(w, "error:", err)
	return exitUsage
}

func banner() string {
	return strings.Replace(LOGO, "$VERSION", sliceVersion(VERSION), 1)
}

func main() {
	a := newApp()
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(exitCode(a.errOut, err))
	}
}
