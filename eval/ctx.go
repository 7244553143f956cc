package eval

import (
	"fmt"
	"lox/lexer"
	"lox/parser"
)

// completion describes how a statement finished. Control transfer
// travels here; failures travel through the error return.
type completion struct {
	kind  completionKind
	value Value // only meaningful when kind == returned
}

type completionKind uint8

const (
	normal completionKind = iota
	returned
	broke
	continued
)

var done = completion{}

func (ctx *Context) evalStmt(node parser.Stmt) (completion, error) {
	switch node := node.(type) {
	case *parser.Var:
		return ctx.evalVar(node)
	case *parser.Block:
		return ctx.executeBlock(node.Stmts, NewEnvironment(ctx.env))
	case *parser.ExprStmt:
		_, err := ctx.evalExpr(node.Expr)
		return done, err
	case *parser.Print:
		return ctx.evalPrint(node)
	case *parser.If:
		return ctx.evalIf(node)
	case *parser.While:
		return ctx.evalWhile(node)
	case *parser.For:
		return ctx.evalFor(node)
	case *parser.Break:
		return completion{kind: broke}, nil
	case *parser.Continue:
		return completion{kind: continued}, nil
	case *parser.Return:
		return ctx.evalReturn(node)
	case *parser.FunDecl:
		fn := newFunction(ctx.filename(), node.Function, ctx.env, false)
		ctx.env.Define(node.Function.Name.Lexeme, fn)
		return done, nil
	case *parser.Class:
		return ctx.evalClass(node)
	case *parser.Trait:
		return ctx.evalTrait(node)
	}
	panic(fmt.Sprintf("unhandled node %#+v", node))
}

func (ctx *Context) evalExpr(node parser.Expr) (Value, error) {
	switch node := node.(type) {
	case *parser.Literal:
		switch node.Lit.Type {
		case lexer.STRING:
			return String(node.Lit.Literal.(string)), nil
		case lexer.NUMBER:
			return Number(node.Lit.Literal.(float64)), nil
		case lexer.NIL:
			return NIL, nil
		case lexer.TRUE:
			return TRUE, nil
		case lexer.FALSE:
			return FALSE, nil
		}
	case *parser.Grouping:
		return ctx.evalExpr(node.Expr)
	case *parser.Identifier:
		return ctx.lookupVariable(node, node.Id)
	case *parser.This:
		return ctx.lookupVariable(node, node.Keyword)
	case *parser.Assign:
		return ctx.evalAssign(node)
	case *parser.Unary:
		return ctx.evalUnary(node)
	case *parser.Binary:
		return ctx.evalBinary(node)
	case *parser.And:
		return ctx.evalAnd(node)
	case *parser.Or:
		return ctx.evalOr(node)
	case *parser.Ternary:
		return ctx.evalTernary(node)
	case *parser.Call:
		return ctx.evalCall(node)
	case *parser.Get:
		return ctx.evalGet(node)
	case *parser.Set:
		return ctx.evalSet(node)
	case *parser.Super:
		return ctx.evalSuper(node)
	case *parser.Function:
		return newFunction(ctx.filename(), node, ctx.env, false), nil
	}
	panic(fmt.Sprintf("unhandled node %#+v", node))
}

// executeBlock runs stmts in env, restoring the previous environment
// however the block finishes.
func (ctx *Context) executeBlock(stmts []parser.Stmt, env *Environment) (completion, error) {
	prev := ctx.env
	ctx.env = env
	defer func() { ctx.env = prev }()
	for _, stmt := range stmts {
		c, err := ctx.evalStmt(stmt)
		if err != nil || c.kind != normal {
			return c, err
		}
	}
	return done, nil
}

// ==========
// Statements
// ==========

func (ctx *Context) evalVar(node *parser.Var) (completion, error) {
	name := node.Name.Lexeme
	ctx.env.Define(name, HOLE)
	if node.Value == nil {
		return done, nil
	}
	value, err := ctx.evalExpr(node.Value)
	if err != nil {
		return done, err
	}
	ctx.env.Define(name, value)
	return done, nil
}

func (ctx *Context) evalPrint(node *parser.Print) (completion, error) {
	value, err := ctx.evalExpr(node.Expr)
	if err != nil {
		return done, err
	}
	fmt.Fprintln(ctx.out, value.String())
	return done, nil
}

func (ctx *Context) evalIf(node *parser.If) (completion, error) {
	cond, err := ctx.evalExpr(node.Cond)
	if err != nil {
		return done, err
	}
	if isTruthy(cond) {
		return ctx.evalStmt(node.Then)
	}
	if node.Else != nil {
		return ctx.evalStmt(node.Else)
	}
	return done, nil
}

func (ctx *Context) evalWhile(node *parser.While) (completion, error) {
	for {
		cond, err := ctx.evalExpr(node.Cond)
		if err != nil {
			return done, err
		}
		if !isTruthy(cond) {
			return done, nil
		}
		c, err := ctx.evalStmt(node.Stmt)
		if err != nil {
			return done, err
		}
		switch c.kind {
		case broke:
			return done, nil
		case returned:
			return c, nil
		}
	}
}

// evalFor runs the loop in its own scope, and copies that scope before
// every increment so that closures made in one iteration keep that
// iteration's bindings.
func (ctx *Context) evalFor(node *parser.For) (completion, error) {
	prev := ctx.env
	defer func() { ctx.env = prev }()
	ctx.env = NewEnvironment(prev)
	if node.Init != nil {
		if _, err := ctx.evalStmt(node.Init); err != nil {
			return done, err
		}
	}
	for {
		if node.Cond != nil {
			cond, err := ctx.evalExpr(node.Cond)
			if err != nil {
				return done, err
			}
			if !isTruthy(cond) {
				return done, nil
			}
		}
		c, err := ctx.evalStmt(node.Stmt)
		if err != nil {
			return done, err
		}
		switch c.kind {
		case broke:
			return done, nil
		case returned:
			return c, nil
		}
		ctx.env = ctx.env.fork()
		if node.Incr != nil {
			if _, err := ctx.evalExpr(node.Incr); err != nil {
				return done, err
			}
		}
	}
}

func (ctx *Context) evalReturn(node *parser.Return) (completion, error) {
	if node.Expr == nil {
		return completion{returned, NIL}, nil
	}
	value, err := ctx.evalExpr(node.Expr)
	if err != nil {
		return done, err
	}
	return completion{returned, value}, nil
}

func (ctx *Context) evalClass(node *parser.Class) (completion, error) {
	var superclass *Class
	ctx.env.Define(node.Name.Lexeme, HOLE)
	if node.Superclass != nil {
		v, err := ctx.evalExpr(node.Superclass)
		if err != nil {
			return done, err
		}
		class, ok := v.(*Class)
		if !ok {
			return done, ctx.fail(node.Superclass.Id, "Superclass must be a class.")
		}
		superclass = class
	}
	traits, err := ctx.evalTraits(node.Traits)
	if err != nil {
		return done, err
	}
	env := ctx.env
	if superclass != nil {
		env = NewEnvironment(env)
		env.Define("super", superclass)
	}
	class := newClass(node.Name.Lexeme, superclass, traits, ctx.methodTable(node.Methods, env))
	ctx.env.Define(node.Name.Lexeme, class)
	return done, nil
}

func (ctx *Context) evalTrait(node *parser.Trait) (completion, error) {
	traits, err := ctx.evalTraits(node.Traits)
	if err != nil {
		return done, err
	}
	trait := newTrait(node.Name.Lexeme, traits, ctx.methodTable(node.Methods, ctx.env))
	ctx.env.Define(node.Name.Lexeme, trait)
	return done, nil
}

func (ctx *Context) evalTraits(names []*parser.Identifier) ([]*Trait, error) {
	traits := make([]*Trait, len(names))
	for i, name := range names {
		v, err := ctx.evalExpr(name)
		if err != nil {
			return nil, err
		}
		trait, ok := v.(*Trait)
		if !ok {
			return nil, ctx.fail(name.Id, "'%s' is not a trait.", name.Id.Lexeme)
		}
		traits[i] = trait
	}
	return traits, nil
}

func (ctx *Context) methodTable(methods []*parser.Function, closure *Environment) methodTable {
	mt := methodTable{}
	for _, method := range methods {
		name := method.Name.Lexeme
		mt[name] = newFunction(ctx.filename(), method, closure, name == "init")
	}
	return mt
}

// ===========
// Expressions
// ===========

// lookupVariable reads a local at its resolved distance; anything the
// resolver left unbound is a global.
func (ctx *Context) lookupVariable(node parser.Expr, name lexer.Token) (Value, error) {
	var value Value
	var err error
	if distance, ok := ctx.locals[node]; ok {
		value, err = ctx.env.GetAt(distance, name)
	} else {
		value, err = ctx.globals.Get(name)
	}
	if err != nil {
		return nil, ctx.addErrorStack(err, name)
	}
	return value, nil
}

func (ctx *Context) evalAssign(node *parser.Assign) (Value, error) {
	right, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	if distance, ok := ctx.locals[node]; ok {
		ctx.env.AssignAt(distance, node.Name.Lexeme, right)
		return right, nil
	}
	if err := ctx.globals.Assign(node.Name, right); err != nil {
		return nil, ctx.addErrorStack(err, node.Name)
	}
	return right, nil
}

func (ctx *Context) evalUnary(node *parser.Unary) (Value, error) {
	right, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	return ctx.unary(node.Op, right)
}

func (ctx *Context) evalBinary(node *parser.Binary) (Value, error) {
	left, err := ctx.evalExpr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	return ctx.binary(node.Op, left, right)
}

func (ctx *Context) evalAnd(node *parser.And) (Value, error) {
	left, err := ctx.evalExpr(node.Left)
	if err != nil || !isTruthy(left) {
		return left, err
	}
	return ctx.evalExpr(node.Right)
}

func (ctx *Context) evalOr(node *parser.Or) (Value, error) {
	left, err := ctx.evalExpr(node.Left)
	if err != nil || isTruthy(left) {
		return left, err
	}
	return ctx.evalExpr(node.Right)
}

func (ctx *Context) evalTernary(node *parser.Ternary) (Value, error) {
	cond, err := ctx.evalExpr(node.Cond)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return ctx.evalExpr(node.Then)
	}
	return ctx.evalExpr(node.Else)
}

func (ctx *Context) evalCall(node *parser.Call) (Value, error) {
	callee, err := ctx.evalExpr(node.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(node.Args))
	for i, arg := range node.Args {
		v, err := ctx.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ctx.call(callee, args, node.LParen)
}

func (ctx *Context) evalGet(node *parser.Get) (Value, error) {
	object, err := ctx.evalExpr(node.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, ctx.fail(node.Name, "Only instances have properties.")
	}
	value, err := instance.Get(node.Name)
	if err != nil {
		return nil, ctx.addErrorStack(err, node.Name)
	}
	return value, nil
}

func (ctx *Context) evalSet(node *parser.Set) (Value, error) {
	object, err := ctx.evalExpr(node.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, ctx.fail(node.Name, "Only instances have fields.")
	}
	right, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	instance.Set(node.Name, right)
	return right, nil
}

// evalSuper finds `super' at its resolved distance; `this' always
// lives in the scope just inside it.
func (ctx *Context) evalSuper(node *parser.Super) (Value, error) {
	distance := ctx.locals[node]
	superclass := ctx.env.Ancestor(distance).store["super"].(*Class)
	this := ctx.env.Ancestor(distance - 1).store["this"].(*Instance)
	method, ok := superclass.FindMethod(node.Name.Lexeme)
	if !ok {
		return nil, ctx.fail(node.Name, "Undefined property '%s'.", node.Name.Lexeme)
	}
	return method.Bind(this), nil
}
