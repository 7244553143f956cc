package main

import (
	"github.com/fatih/color"

	"lox/eval"
)

var errColor = color.New(color.FgRed)

// reportErrors writes diagnostics to stderr, one per line. Runtime
// errors also get their trace.
func (a *app) reportErrors(errs []error) {
	for _, err := range errs {
		if rerr, ok := err.(*eval.RuntimeError); ok {
			errColor.Fprintln(a.errOut, rerr.String())
			continue
		}
		errColor.Fprintln(a.errOut, err)
	}
	a.log.Debug("reported", "errors", len(errs))
}
