// Package resolver implements identifier resolution semantic analysis,
// as well as some syntax checks (e.g. ensuring that continues and breaks
// are within a loop construct). Identifier resolution works by recording
// the distance from the current environment where an identifier can be
// found. Distances are kept in a side table (Bindings) rather than on the
// AST; identifiers that are not found in any local scope are globals and
// get no entry -- the interpreter looks them up by name.
package resolver

import (
	"errors"
	"fmt"
	"lox/lexer"
	"lox/parser"
)

var TooManyErrors = errors.New("too many errors")

type ResolverError struct {
	Filename string
	Token    lexer.Token
	Message  string
}

func (re ResolverError) Error() string { return re.String() }
func (re ResolverError) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", re.Filename, re.Token.Line, re.Token.Column, re.Message)
}

// Bindings maps a variable use (Identifier, Assign, This, Super) to the
// number of scopes between the use and its declaration.
type Bindings map[parser.Expr]int

// Scope maps a name to whether it has been initialised.
type Scope map[string]bool

// Control flags -- whether we are in a loop.
const (
	LOOP = 1 << iota
)

type functionType uint8

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType uint8

const (
	classNone classType = iota
	classClass
	classSubclass
	classTrait
)

// DefaultMaxErrors is the number of errors after which Resolve gives up.
const DefaultMaxErrors = 10

type Resolver struct {
	module *parser.Module
	// each scope is a map from varname to a boolean, corresponding
	// to whether the variable was already initialised. scopes[0] is
	// the global scope: it is only used to catch `var a = a;` at the
	// top level, never to compute distances.
	scopes   []Scope
	Errors   []error
	Bindings Bindings
	// MaxErrors stops Resolve after that many errors; 0 means no limit.
	MaxErrors int
	ctrl      uint8
	fn        functionType
	class     classType
}

func New(module *parser.Module) *Resolver {
	r := &Resolver{
		module:    module,
		scopes:    []Scope{},
		Errors:    []error{},
		Bindings:  Bindings{},
		MaxErrors: DefaultMaxErrors,
	}
	r.push() // the global scope.
	return r
}

// Resolve resolves module and returns the distances and errors.
func Resolve(module *parser.Module) (Bindings, []error) {
	r := New(module)
	r.Resolve()
	return r.Bindings, r.Errors
}

func (r *Resolver) AddGlobals(globals []string) {
	for _, x := range globals {
		r.scopes[0][x] = true
	}
}

func (r *Resolver) curr() Scope { return r.scopes[len(r.scopes)-1] }
func (r *Resolver) push()       { r.scopes = append(r.scopes, Scope{}) }
func (r *Resolver) pop()        { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) err(tok lexer.Token, msg string, args ...interface{}) {
	r.Errors = append(r.Errors, ResolverError{
		Filename: r.module.Filename,
		Token:    tok,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// ResolveOne resolves the given node -- it is mainly for
// interactive usage, where the global scope outlives a single input.
func (r *Resolver) ResolveOne(node parser.Node) {
	r.resolve(node)
}

// Reset clears errors and bindings between interactive inputs;
// the global scope is kept.
func (r *Resolver) Reset() {
	r.Errors = []error{}
	r.Bindings = Bindings{}
}

// Resolve resolves the given module.
// This method can only be called once.
func (r *Resolver) Resolve() {
	for _, stmt := range r.module.Stmts {
		r.resolve(stmt)
		if r.MaxErrors > 0 && len(r.Errors) >= r.MaxErrors {
			r.Errors = append(r.Errors, TooManyErrors)
			break
		}
	}
	if len(r.scopes) != 1 || r.ctrl != 0 {
		panic("something gone wrong!")
	}
}

func (r *Resolver) resolve(node parser.Node) {
	switch node := node.(type) {
	// Statements
	case *parser.Var:
		r.resolveVar(node)
	case *parser.Block:
		r.resolveBlock(node)
	case *parser.For:
		r.resolveFor(node)
	case *parser.While:
		r.resolveWhile(node)
	case *parser.If:
		r.resolveIf(node)
	case *parser.ExprStmt:
		r.resolve(node.Expr)
	case *parser.Print:
		r.resolve(node.Expr)
	case *parser.Break:
		r.resolveBreak(node)
	case *parser.Continue:
		r.resolveContinue(node)
	case *parser.Return:
		r.resolveReturn(node)
	case *parser.FunDecl:
		r.resolveFunDecl(node)
	case *parser.Class:
		r.resolveClass(node)
	case *parser.Trait:
		r.resolveTrait(node)
	// Expressions
	case *parser.Binary:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.And:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.Or:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.Ternary:
		r.resolve(node.Cond)
		r.resolve(node.Then)
		r.resolve(node.Else)
	case *parser.Grouping:
		r.resolve(node.Expr)
	case *parser.Unary:
		r.resolve(node.Right)
	case *parser.Assign:
		r.resolveAssign(node)
	case *parser.Get:
		r.resolve(node.Object)
	case *parser.Set:
		r.resolve(node.Right)
		r.resolve(node.Object)
	case *parser.Call:
		r.resolveCall(node)
	case *parser.Identifier:
		r.resolveIdentifier(node)
	case *parser.This:
		r.resolveThis(node)
	case *parser.Super:
		r.resolveSuper(node)
	case *parser.Function:
		r.resolveFunction(node, fnFunction)
	case *parser.Literal:
		return
	default:
		panic(fmt.Sprintf("unhandled node: %#+v", node))
	}
}

// ==========
// Statements
// ==========

func (r *Resolver) declare(name lexer.Token) {
	curr := r.curr()
	// redeclaring a global is fine -- the REPL relies on it.
	if _, ok := curr[name.Lexeme]; ok && len(r.scopes) > 1 {
		r.err(name, "Already a variable with this name in this scope.")
	}
	curr[name.Lexeme] = false
}

func (r *Resolver) define(name lexer.Token) { r.curr()[name.Lexeme] = true }

func (r *Resolver) resolveVar(node *parser.Var) {
	r.declare(node.Name)
	if node.Value != nil {
		r.resolve(node.Value)
	}
	r.define(node.Name)
}

func (r *Resolver) resolveBlock(node *parser.Block) {
	r.push()
	r.resolveStmts(node.Stmts)
	r.pop()
}

func (r *Resolver) resolveStmts(stmts []parser.Stmt) {
	for _, x := range stmts {
		r.resolve(x)
	}
}

// resolveFor gives the loop its own scope for the initializer; the
// interpreter mirrors it with one environment per iteration.
func (r *Resolver) resolveFor(node *parser.For) {
	r.push()
	if node.Init != nil {
		r.resolve(node.Init)
	}
	if node.Cond != nil {
		r.resolve(node.Cond)
	}
	ctrl := r.ctrl
	r.ctrl |= LOOP
	r.resolve(node.Stmt)
	r.ctrl = ctrl
	if node.Incr != nil {
		r.resolve(node.Incr)
	}
	r.pop()
}

func (r *Resolver) resolveWhile(node *parser.While) {
	r.resolve(node.Cond)
	ctrl := r.ctrl
	r.ctrl |= LOOP
	r.resolve(node.Stmt)
	r.ctrl = ctrl
}

func (r *Resolver) resolveIf(node *parser.If) {
	r.resolve(node.Cond)
	r.resolve(node.Then)
	if node.Else != nil {
		r.resolve(node.Else)
	}
}

func (r *Resolver) resolveBreak(node *parser.Break) {
	if r.ctrl&LOOP == 0 {
		r.err(node.Keyword, "break outside of loop")
	}
}

func (r *Resolver) resolveContinue(node *parser.Continue) {
	if r.ctrl&LOOP == 0 {
		r.err(node.Keyword, "continue outside of loop")
	}
}

func (r *Resolver) resolveReturn(node *parser.Return) {
	if r.fn == fnNone {
		r.err(node.Keyword, "Can't return from top-level code.")
	}
	if node.Expr != nil {
		if r.fn == fnInitializer {
			r.err(node.Keyword, "Can't return a value from an initializer.")
		}
		r.resolve(node.Expr)
	}
}

func (r *Resolver) resolveFunDecl(node *parser.FunDecl) {
	// define eagerly so that the function can refer to itself.
	r.declare(node.Function.Name)
	r.define(node.Function.Name)
	r.resolveFunction(node.Function, fnFunction)
}

func (r *Resolver) resolveClass(node *parser.Class) {
	enclosing := r.class
	r.class = classClass
	r.declare(node.Name)
	r.define(node.Name)
	if node.Superclass != nil {
		if node.Superclass.Id.Lexeme == node.Name.Lexeme {
			r.err(node.Superclass.Id, "A class can't inherit from itself.")
		}
		r.class = classSubclass
		r.resolve(node.Superclass)
	}
	for _, trait := range node.Traits {
		r.resolve(trait)
	}
	if node.Superclass != nil {
		r.push()
		r.curr()["super"] = true
	}
	r.resolveMethods(node.Methods)
	if node.Superclass != nil {
		r.pop()
	}
	r.class = enclosing
}

// resolveTrait resolves trait methods under the same `this' scope
// that a class method gets, so the distances stay valid in whichever
// class the trait is folded into.
func (r *Resolver) resolveTrait(node *parser.Trait) {
	enclosing := r.class
	r.declare(node.Name)
	r.define(node.Name)
	for _, trait := range node.Traits {
		r.resolve(trait)
	}
	r.class = classTrait
	r.resolveMethods(node.Methods)
	r.class = enclosing
}

func (r *Resolver) resolveMethods(methods []*parser.Function) {
	r.push()
	r.curr()["this"] = true
	for _, method := range methods {
		typ := fnMethod
		if method.Name.Lexeme == "init" {
			typ = fnInitializer
		}
		r.resolveFunction(method, typ)
	}
	r.pop()
}

// ===========
// Expressions
// ===========

func (r *Resolver) resolveAssign(node *parser.Assign) {
	r.resolve(node.Right)
	r.lookup(node, node.Name)
}

func (r *Resolver) resolveCall(node *parser.Call) {
	r.resolve(node.Callee)
	for _, arg := range node.Args {
		r.resolve(arg)
	}
}

func (r *Resolver) resolveIdentifier(node *parser.Identifier) {
	name := node.Id.Lexeme
	if initialised, ok := r.curr()[name]; ok && !initialised {
		// e.g. var a = a; -- this applies to the global scope too.
		r.err(node.Id, "Can't read variable %q in its own initializer.", name)
		return
	}
	r.lookup(node, node.Id)
}

func (r *Resolver) resolveThis(node *parser.This) {
	if r.class == classNone {
		r.err(node.Keyword, "Can't use 'this' outside of a class.")
		return
	}
	r.lookup(node, node.Keyword)
}

func (r *Resolver) resolveSuper(node *parser.Super) {
	switch r.class {
	case classNone:
		r.err(node.Keyword, "Can't use 'super' outside of a class.")
		return
	case classTrait:
		r.err(node.Keyword, "Can't use 'super' in a trait.")
		return
	case classClass:
		r.err(node.Keyword, "Can't use 'super' in a class with no superclass.")
		return
	}
	r.lookup(node, node.Keyword)
}

func (r *Resolver) resolveFunction(node *parser.Function, typ functionType) {
	// Function expressions -- we first push a new scope containing all
	// of the parameters, and then we resolve the body in that scope.
	ctrl, fn := r.ctrl, r.fn
	r.ctrl = 0
	r.fn = typ
	r.push()
	for _, param := range node.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(node.Body)
	r.pop()
	r.ctrl, r.fn = ctrl, fn
}

// lookup records the distance to the closest local scope containing
// the name. Names that only live in the global scope are left
// unresolved and looked up dynamically.
func (r *Resolver) lookup(node parser.Expr, token lexer.Token) {
	name := token.Lexeme
	curr := len(r.scopes) - 1
	for i := curr; i >= 1; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.Bindings[node] = curr - i
			return
		}
	}
}
