package eval

import "lox/lexer"

// This file implements error tracing. The protocol around adding
// errors is:
//
//   1. Every time we call a function, we need to do ctx.pushFunc(...)
//
//   2. Returning from a function similarly does a ctx.popFunc()
//
//   3. Whenever an error is produced, we add the error location to
//      the trace -- this means that, we take the current function
//      we're in and put information about _where_ in the function the
//      error happened. Every call site the error unwinds through adds
//      its own entry.

// callStackEntry contains partial information about the function call;
// only including the filename and the string.
type callStackEntry interface {
	Filename() string
	Context() string
}

type moduleCse struct{ filename string }

func (m moduleCse) Filename() string { return m.filename }
func (m moduleCse) Context() string  { return "[Module]" }

type functionCse struct {
	function *Function
}

func (f functionCse) Filename() string { return f.function.filename }
func (f functionCse) Context() string  { return f.function.String() }

type builtinCse struct {
	builtin *Builtin
}

func (b builtinCse) Filename() string { return "[builtin]" }
func (b builtinCse) Context() string  { return b.builtin.String() }

func (ctx *Context) pushFunc(e callStackEntry) { ctx.stack = append(ctx.stack, e) }
func (ctx *Context) popFunc()                  { ctx.stack = ctx.stack[:len(ctx.stack)-1] }

// filename is the file of the code currently executing.
func (ctx *Context) filename() string {
	if len(ctx.stack) == 0 {
		return ""
	}
	return ctx.stack[len(ctx.stack)-1].Filename()
}

// fail creates a runtime error at token, traced to the current frame.
func (ctx *Context) fail(token lexer.Token, format string, args ...interface{}) error {
	return ctx.addErrorStack(newRuntimeError(token, format, args...), token)
}

func (ctx *Context) addErrorStack(err error, token lexer.Token) error {
	rerr, ok := err.(*RuntimeError)
	if !ok || len(ctx.stack) == 0 {
		return err
	}
	if len(rerr.Trace) >= maxTrace {
		rerr.Elided++
		return rerr
	}
	cse := ctx.stack[len(ctx.stack)-1]
	rerr.Trace = append(rerr.Trace, TraceEntry{
		Filename: cse.Filename(),
		Line:     token.Line,
		Column:   token.Column,
		Context:  cse.Context(),
	})
	return rerr
}
