package eval

import "lox/parser"

// Callable is anything that can appear to the left of a call:
// user functions, bound methods, natives and classes.
type Callable interface {
	Value
	Arity() int
	// Call runs the callable. The caller has already checked that
	// len(args) == Arity().
	Call(ctx *Context, args []Value) (Value, error)
}

// Function is a closure: a function node paired with the environment
// it was defined in.
type Function struct {
	node     *parser.Function
	closure  *Environment
	filename string
	isInit   bool
}

func newFunction(filename string, node *parser.Function, closure *Environment, isInit bool) *Function {
	return &Function{
		node:     node,
		closure:  closure,
		filename: filename,
		isInit:   isInit,
	}
}

func (v *Function) Type() ValueType { return VT_FUNCTION }
func (v *Function) Arity() int      { return len(v.node.Params) }

func (v *Function) String() string {
	if v.node.IsAnonymous() {
		return "<fn>"
	}
	return "<fn " + v.node.Name.Lexeme + ">"
}

// Bind returns a copy of the function whose closure has `this'
// bound to the given instance.
func (v *Function) Bind(this *Instance) *Function {
	env := NewEnvironment(v.closure)
	env.Define("this", this)
	return newFunction(v.filename, v.node, env, v.isInit)
}

func (v *Function) Call(ctx *Context, args []Value) (Value, error) {
	// create a new environment with bound parameters
	env := NewEnvironment(v.closure)
	for i, param := range v.node.Params {
		env.Define(param.Lexeme, args[i])
	}
	ctx.pushFunc(functionCse{v})
	defer ctx.popFunc()
	c, err := ctx.executeBlock(v.node.Body, env)
	if err != nil {
		return nil, err
	}
	if v.isInit {
		// initialisers always hand back the instance.
		return v.closure.store["this"], nil
	}
	if c.kind == returned {
		return c.value, nil
	}
	return NIL, nil
}

type builtinFunc func(ctx *Context, args []Value) (Value, error)

// Builtin represents a built-in function
type Builtin struct {
	name  string
	arity int
	call  builtinFunc
}

func newBuiltin(name string, arity int, call builtinFunc) *Builtin {
	return &Builtin{
		name:  name,
		arity: arity,
		call:  call,
	}
}

func (v *Builtin) Type() ValueType { return VT_BUILTIN }
func (v *Builtin) Arity() int      { return v.arity }
func (v *Builtin) String() string  { return "<native fn>" }

func (v *Builtin) Call(ctx *Context, args []Value) (Value, error) {
	ctx.pushFunc(builtinCse{v})
	defer ctx.popFunc()
	return v.call(ctx, args)
}
