package eval

import "lox/lexer"

// This file implements the meta-functions: calling a value and
// applying operators.

// =======
// Calling
// =======

// call checks the callee and its arity before anything of the callee
// runs. Errors unwinding through here gain the call site in their trace.
func (ctx *Context) call(callee Value, args []Value, paren lexer.Token) (Value, error) {
	fn, ok := callee.(Callable)
	if !ok {
		return nil, ctx.fail(paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, ctx.fail(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if ctx.MaxDepth > 0 && len(ctx.stack) >= ctx.MaxDepth {
		return nil, ctx.fail(paren, "Stack overflow.")
	}
	rv, err := fn.Call(ctx, args)
	if err != nil {
		return nil, ctx.addErrorStack(err, paren)
	}
	return rv, nil
}

// =========
// Operators
// =========

func (ctx *Context) unary(op lexer.Token, right Value) (Value, error) {
	switch op.Type {
	case lexer.BANG:
		return newBool(!isTruthy(right)), nil
	case lexer.MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, ctx.fail(op, "Operand must be a number.")
		}
		return -n, nil
	}
	return nil, ctx.fail(op, "Unknown operator '%s'.", op.Lexeme)
}

func (ctx *Context) binary(op lexer.Token, left, right Value) (Value, error) {
	switch op.Type {
	case lexer.EQUAL_EQUAL:
		return newBool(isEqual(left, right)), nil
	case lexer.BANG_EQUAL:
		return newBool(!isEqual(left, right)), nil
	case lexer.PLUS:
		switch a := left.(type) {
		case Number:
			if b, ok := right.(Number); ok {
				return a + b, nil
			}
		case String:
			if b, ok := right.(String); ok {
				return a + b, nil
			}
		}
		return nil, ctx.fail(op, "Operands must be two numbers or two strings.")
	}
	a, ok1 := left.(Number)
	b, ok2 := right.(Number)
	if !ok1 || !ok2 {
		return nil, ctx.fail(op, "Operands must be numbers.")
	}
	switch op.Type {
	case lexer.MINUS:
		return a - b, nil
	case lexer.STAR:
		return a * b, nil
	case lexer.SLASH:
		if b == 0 {
			return nil, ctx.fail(op, "Division by zero.")
		}
		return a / b, nil
	case lexer.GREATER:
		return newBool(a > b), nil
	case lexer.GREATER_EQUAL:
		return newBool(a >= b), nil
	case lexer.LESS:
		return newBool(a < b), nil
	case lexer.LESS_EQUAL:
		return newBool(a <= b), nil
	}
	return nil, ctx.fail(op, "Unknown operator '%s'.", op.Lexeme)
}
