package eval

import (
	"lox/lexer"
	"testing"
)

func ident(name string) lexer.Token {
	return lexer.Token{Type: lexer.IDENTIFIER, Lexeme: name, Line: 1, Column: 1}
}

func mustGet(t *testing.T, env *Environment, name string) Value {
	t.Helper()
	v, err := env.Get(ident(name))
	if err != nil {
		t.Fatalf("get %q: unexpected error: %s", name, err)
	}
	return v
}

func expectMessage(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got none", msg)
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %#v", err)
	}
	if rerr.Message != msg {
		t.Fatalf("expected message=%q, got=%q", msg, rerr.Message)
	}
}

func TestEnvironment(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Number(1))
	local := NewEnvironment(global)

	if v := mustGet(t, local, "a"); v != Number(1) {
		t.Fatalf("expected a=1, got=%s", v)
	}
	if err := local.Assign(ident("a"), Number(2)); err != nil {
		t.Fatalf("assign: unexpected error: %s", err)
	}
	// assignment goes to the scope holding the name.
	if _, ok := local.store["a"]; ok {
		t.Fatalf("assign should not create a binding in the inner scope")
	}
	if v := mustGet(t, global, "a"); v != Number(2) {
		t.Fatalf("expected a=2, got=%s", v)
	}

	_, err := local.Get(ident("b"))
	expectMessage(t, err, "Undefined variable 'b'.")
	err = local.Assign(ident("b"), NIL)
	expectMessage(t, err, "Undefined variable 'b'.")
	if _, ok := global.store["b"]; ok {
		t.Fatalf("failed assign should not define b")
	}
}

func TestEnvironmentHole(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Number(1))
	local := NewEnvironment(global)
	local.Define("a", HOLE)

	// the inner HOLE shadows the outer binding.
	_, err := local.Get(ident("a"))
	expectMessage(t, err, "Variable 'a' is not initialized.")
	_, err = local.GetAt(0, ident("a"))
	expectMessage(t, err, "Variable 'a' is not initialized.")
	if v := mustGet(t, global, "a"); v != Number(1) {
		t.Fatalf("expected outer a=1, got=%s", v)
	}

	if err := local.Assign(ident("a"), String("x")); err != nil {
		t.Fatalf("assign: unexpected error: %s", err)
	}
	if v := mustGet(t, local, "a"); v != String("x") {
		t.Fatalf("expected a=x, got=%s", v)
	}
}

func TestEnvironmentDistance(t *testing.T) {
	envs := []*Environment{NewEnvironment(nil)}
	for i := 1; i < 5; i++ {
		envs = append(envs, NewEnvironment(envs[i-1]))
	}
	inner := envs[4]
	for d := 0; d < 5; d++ {
		if inner.Ancestor(d) != envs[4-d] {
			t.Fatalf("Ancestor(%d) returned the wrong environment", d)
		}
	}
	envs[1].Define("x", Number(10))
	v, err := inner.GetAt(3, ident("x"))
	if err != nil || v != Number(10) {
		t.Fatalf("GetAt(3): expected 10, got=%v err=%v", v, err)
	}
	// GetAt agrees with Get when the name is not shadowed.
	if u := mustGet(t, inner, "x"); u != v {
		t.Fatalf("GetAt and Get disagree: %s != %s", v, u)
	}
	inner.AssignAt(3, "x", Number(11))
	if u := mustGet(t, envs[1], "x"); u != Number(11) {
		t.Fatalf("AssignAt(3): expected 11, got=%s", u)
	}
	if _, err := inner.GetAt(2, ident("x")); err == nil {
		t.Fatalf("GetAt(2) should not find x")
	}
}

func TestEnvironmentFork(t *testing.T) {
	outer := NewEnvironment(nil)
	loop := NewEnvironment(outer)
	loop.Define("i", Number(0))
	next := loop.fork()
	next.Assign(ident("i"), Number(1))

	if v := mustGet(t, loop, "i"); v != Number(0) {
		t.Fatalf("fork should not alias the original scope, got i=%s", v)
	}
	if next.Enclosing() != outer {
		t.Fatalf("fork should share the enclosing environment")
	}
}
