package eval_test

import (
	"bytes"
	"lox/eval"
	"testing"
)

func TestInteractiveContext(t *testing.T) {
	var out bytes.Buffer
	ic := eval.NewInteractiveContext(&out)
	steps := []struct {
		input   string
		inspect string
		errors  int
	}{
		{`var a = 1;`, "", 0},
		{`a + 1;`, "2", 0},
		{`"str";`, `"str"`, 0},
		{`fun f() { return a; }`, "", 0},
		// redefining a global is visible to earlier closures.
		{`var a = "redefined";`, "", 0},
		{`f();`, `"redefined"`, 0},
		{`class A { init(x) { this.x = x; } }`, "", 0},
		{`A(3).x;`, "3", 0},
		{`A;`, "A", 0},
		// each phase reports its own errors and nothing runs.
		{`"unterminated`, "", 1},
		{`print ;`, "", 1},
		{`return 1;`, "", 1},
		{`{ var b = 1; var b = 2; }`, "", 1},
		// runtime errors leave the session usable.
		{`undefined;`, "", 1},
		{`a;`, `"redefined"`, 0},
	}
	for i, step := range steps {
		v, errs := ic.Run(step.input)
		if len(errs) != step.errors {
			t.Fatalf("step %d (%s): expected %d errors, got=%v", i, step.input, step.errors, errs)
		}
		if step.errors != 0 {
			if v != nil {
				t.Errorf("step %d (%s): expected no value on error, got=%s", i, step.input, v)
			}
			continue
		}
		if got := eval.Inspect(v); got != step.inspect {
			t.Errorf("step %d (%s): expected %s, got=%s", i, step.input, step.inspect, got)
		}
	}
	if out.Len() != 0 {
		t.Errorf("expected no printed output, got=%q", out.String())
	}
}

func TestInteractiveContextClosures(t *testing.T) {
	var out bytes.Buffer
	ic := eval.NewInteractiveContext(&out)
	inputs := []string{
		`fun counter() { var n = 0; return fun() { n = n + 1; return n; }; }`,
		`var c = counter();`,
		`c(); c();`,
		`print c();`,
	}
	for _, input := range inputs {
		if _, errs := ic.Run(input); len(errs) != 0 {
			t.Fatalf("%s: unexpected errors: %v", input, errs)
		}
	}
	if out.String() != "3\n" {
		t.Fatalf("expected output=%q, got=%q", "3\n", out.String())
	}
}

func TestInteractiveContextMaxDepth(t *testing.T) {
	var out bytes.Buffer
	ic := eval.NewInteractiveContext(&out)
	ic.Context().MaxDepth = 10
	if _, errs := ic.Run(`fun f(n) { return n == 0 ? 0 : f(n - 1); }`); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs := ic.Run(`f(100);`)
	if len(errs) != 1 {
		t.Fatalf("expected a stack overflow, got=%v", errs)
	}
	if rerr, ok := errs[0].(*eval.RuntimeError); !ok || rerr.Message != "Stack overflow." {
		t.Fatalf("expected a stack overflow, got=%v", errs[0])
	}
	v, errs := ic.Run(`f(5);`)
	if len(errs) != 0 || eval.Inspect(v) != "0" {
		t.Fatalf("expected 0, got=%v %v", v, errs)
	}
}
