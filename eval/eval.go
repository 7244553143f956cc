package eval

// Implements the entry points of the evaluator.

import (
	"io"
	"lox/parser"
	"lox/resolver"
)

// DefaultMaxDepth is the default limit on nested calls.
const DefaultMaxDepth = 1024

type Context struct {
	// stack contains the current call stack. we consult the call-stack to tell
	// us which function we're in, and augment that using an expression's token.
	stack []callStackEntry
	// the current environment we're executing.
	env *Environment
	// the outermost environment, holding natives and top-level definitions.
	globals *Environment
	// resolver output: distance from a use to its declaration.
	locals map[parser.Expr]int
	// where `print' writes.
	out io.Writer
	// MaxDepth bounds the call stack; exceeding it is a runtime error.
	MaxDepth int
}

func NewContext(out io.Writer) *Context {
	ctx := &Context{
		stack:    make([]callStackEntry, 0, 8),
		globals:  NewEnvironment(nil),
		locals:   map[parser.Expr]int{},
		out:      out,
		MaxDepth: DefaultMaxDepth,
	}
	ctx.env = ctx.globals
	setupBuiltins(ctx.globals)
	return ctx
}

// Globals returns the global environment.
func (ctx *Context) Globals() *Environment { return ctx.globals }

// AddBindings records resolver output. It must be called for every
// node before that node is evaluated.
func (ctx *Context) AddBindings(bindings resolver.Bindings) {
	for node, distance := range bindings {
		ctx.locals[node] = distance
	}
}

// Interpret runs a resolved module against the global environment.
// Only modules that resolved without errors may be interpreted.
func (ctx *Context) Interpret(module *parser.Module, bindings resolver.Bindings) error {
	ctx.AddBindings(bindings)
	ctx.pushFunc(moduleCse{module.Filename})
	defer ctx.popFunc()
	for _, stmt := range module.Stmts {
		if _, err := ctx.evalStmt(stmt); err != nil {
			ctx.env = ctx.globals
			return err
		}
	}
	return nil
}
