package eval

import (
	"io"
	"lox/lexer"
	"lox/parser"
	"lox/resolver"
)

// InteractiveContext runs successive pieces of input against one
// global environment, as a REPL does.
type InteractiveContext struct {
	Filename string
	ctx      *Context
	res      *resolver.Resolver
}

func NewInteractiveContext(out io.Writer) *InteractiveContext {
	fn := "<stdin>"
	module := &parser.Module{Filename: fn}
	res := resolver.New(module)
	res.AddGlobals(BuiltinNames)
	ctx := NewContext(out)
	ctx.pushFunc(moduleCse{fn})
	return &InteractiveContext{fn, ctx, res}
}

// Context returns the underlying evaluator, e.g. to adjust MaxDepth.
func (ic *InteractiveContext) Context() *Context { return ic.ctx }

// Run lexes, parses, resolves and executes input. Nothing runs unless
// the earlier phases succeed. The value of a trailing expression
// statement is returned so it can be echoed.
func (ic *InteractiveContext) Run(input string) (Value, []error) {
	l := lexer.New(ic.Filename, input)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		return nil, l.Errors
	}
	p := parser.New(ic.Filename, l.Tokens)
	module := p.Parse()
	if len(p.Errors) != 0 {
		return nil, p.Errors
	}
	defer ic.res.Reset()
	for _, stmt := range module.Stmts {
		ic.res.ResolveOne(stmt)
	}
	if len(ic.res.Errors) != 0 {
		return nil, ic.res.Errors
	}
	ic.ctx.AddBindings(ic.res.Bindings)
	// Still no errors? we can run it.
	var rv Value
	for _, stmt := range module.Stmts {
		var err error
		if expr, ok := stmt.(*parser.ExprStmt); ok {
			rv, err = ic.ctx.evalExpr(expr.Expr)
		} else {
			rv = nil
			_, err = ic.ctx.evalStmt(stmt)
		}
		if err != nil {
			ic.ctx.env = ic.ctx.globals
			return nil, []error{err}
		}
	}
	return rv, nil
}
