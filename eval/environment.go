package eval

import "lox/lexer"

// Environment is a single lexical scope. Environments are shared: a
// child scope, a closure and the running frame may all hold the same
// one, and all of them observe each other's writes.
type Environment struct {
	store map[string]Value
	outer *Environment
}

func NewEnvironment(outer *Environment) *Environment {
	return &Environment{
		store: map[string]Value{},
		outer: outer,
	}
}

// Enclosing returns the environment this one is nested in, or nil.
func (e *Environment) Enclosing() *Environment { return e.outer }

// Define binds the given name to the given value in this scope only,
// shadowing any binding of the same name further out.
func (e *Environment) Define(name string, value Value) {
	e.store[name] = value
}

// Get gets the given name from the environment, traversing
// the outer environments if it is not found. A scope that has the
// key -- even bound to HOLE -- stops the search.
func (e *Environment) Get(name lexer.Token) (Value, error) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.store[name.Lexeme]; ok {
			return checkHole(name, v)
		}
	}
	return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign rebinds an existing name; it never creates one.
func (e *Environment) Assign(name lexer.Token, value Value) error {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name.Lexeme]; ok {
			env.store[name.Lexeme] = value
			return nil
		}
	}
	return newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Ancestor returns the environment that is distance x
// away from the current environment.
func (e *Environment) Ancestor(distance int) *Environment {
	for distance > 0 {
		distance--
		e = e.outer
	}
	return e
}

// GetAt gets the variable name at the environment that is distance x
// away from the current environment, without searching by name.
func (e *Environment) GetAt(distance int, name lexer.Token) (Value, error) {
	v, ok := e.Ancestor(distance).store[name.Lexeme]
	if !ok {
		return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return checkHole(name, v)
}

// AssignAt sets the variable name at the environment that is
// distance x away from the current environment.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).store[name] = value
}

// fork returns a shallow copy of the scope sharing the same outer
// environment. Loops use it to give every iteration fresh bindings.
func (e *Environment) fork() *Environment {
	env := NewEnvironment(e.outer)
	for k, v := range e.store {
		env.store[k] = v
	}
	return env
}

func checkHole(name lexer.Token, v Value) (Value, error) {
	if v == HOLE {
		return nil, newRuntimeError(name, "Variable '%s' is not initialized.", name.Lexeme)
	}
	return v, nil
}
