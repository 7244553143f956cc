package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"lox/eval"
	"lox/lexer"
	"lox/parser"
	"lox/resolver"
)

func newRunCmd(a *app) *cobra.Command {
	var watch bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a lox script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return a.runFile(args[0])
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return a.watchFile(ctx, args[0], debounce)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run the script whenever it changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before a change triggers a re-run")
	return cmd
}

// compile runs the front end. Errors come from the first phase that
// produced any; later phases do not run.
func (a *app) compile(filename, source string) (*parser.Module, resolver.Bindings, []error) {
	start := time.Now()
	l := lexer.New(filename, source)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		return nil, nil, l.Errors
	}
	a.log.Debug("lexed", "file", filename, "tokens", len(l.Tokens), "elapsed", time.Since(start))

	start = time.Now()
	p := parser.New(filename, l.Tokens)
	module := p.Parse()
	if len(p.Errors) != 0 {
		return nil, nil, p.Errors
	}
	a.log.Debug("parsed", "file", filename, "stmts", len(module.Stmts), "elapsed", time.Since(start))

	start = time.Now()
	r := resolver.New(module)
	r.MaxErrors = a.maxErrors
	r.AddGlobals(eval.BuiltinNames)
	r.Resolve()
	if len(r.Errors) != 0 {
		return nil, nil, r.Errors
	}
	a.log.Debug("resolved", "file", filename, "bindings", len(r.Bindings), "elapsed", time.Since(start))
	return module, r.Bindings, nil
}

func (a *app) readScript(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", exitCodeError{code: exitIOErr, err: errors.Wrap(err, "read script")}
	}
	return string(source), nil
}

// runFile executes a script in a fresh interpreter.
func (a *app) runFile(filename string) error {
	source, err := a.readScript(filename)
	if err != nil {
		return err
	}
	module, bindings, errs := a.compile(filename, source)
	if len(errs) != 0 {
		a.reportErrors(errs)
		return exitCodeError{code: exitDataErr}
	}
	ctx := eval.NewContext(a.out)
	ctx.MaxDepth = a.maxDepth
	start := time.Now()
	if err := ctx.Interpret(module, bindings); err != nil {
		a.reportErrors([]error{err})
		return exitCodeError{code: exitSoftware}
	}
	a.log.Debug("interpreted", "file", filename, "elapsed", time.Since(start))
	return nil
}

// watchFile runs the script once, then again after every change
// until ctx is done. Failures of a single run are reported but do not
// stop the watch.
func (a *app) watchFile(ctx context.Context, filename string, debounce time.Duration) error {
	w, err := newFileWatcher(filename)
	if err != nil {
		return exitCodeError{code: exitIOErr, err: errors.Wrap(err, "watch script")}
	}
	defer w.Close()

	rerun := func() {
		if err := a.runFile(filename); err != nil {
			var withCode exitCodeError
			if errors.As(err, &withCode) && withCode.err != nil {
				a.reportErrors([]error{withCode.err})
			}
		}
	}
	rerun()
	return w.Run(ctx, debounce, func() {
		a.log.Debug("changed", "file", filename)
		rerun()
	})
}
