package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{
		in:     strings.NewReader(stdin),
		out:    &out,
		errOut: &errOut,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(append(args, "--no-color"))
	code := 0
	if err := cmd.Execute(); err != nil {
		code = exitCode(&errOut, err)
	}
	return out.String(), errOut.String(), code
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, `
class Greeter {
  init(name) { this.name = name; }
  greet() { print "hello " + this.name; }
}
Greeter("lox").greet();
`)
	for _, args := range [][]string{{path}, {"run", path}} {
		out, errOut, code := execute(t, "", args...)
		if code != 0 {
			t.Fatalf("%v: expected exit 0, got=%d stderr=%q", args, code, errOut)
		}
		if out != "hello lox\n" {
			t.Fatalf("%v: expected output=%q, got=%q", args, "hello lox\n", out)
		}
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   int
		stderr string
	}{
		{"lexer", `print "unterminated;`, exitDataErr, "unterminated string"},
		{"parser", `print ;`, exitDataErr, "Expect expression."},
		{"resolver", `return 1;`, exitDataErr, "Can't return from top-level code."},
		{"runtime", `print "ok"; print nil + 1;`, exitSoftware, "Error at '+': Operands must be two numbers or two strings."},
	}
	for _, test := range tests {
		path := writeScript(t, test.source)
		_, errOut, code := execute(t, "", "run", path)
		if code != test.code {
			t.Errorf("%s: expected exit %d, got=%d", test.name, test.code, code)
		}
		if !strings.Contains(errOut, test.stderr) {
			t.Errorf("%s: expected stderr to contain %q, got=%q", test.name, test.stderr, errOut)
		}
	}
}

func TestRunMissingScript(t *testing.T) {
	_, errOut, code := execute(t, "", "run", filepath.Join(t.TempDir(), "missing.lox"))
	if code != exitIOErr {
		t.Fatalf("expected exit %d, got=%d", exitIOErr, code)
	}
	if !strings.Contains(errOut, "read script") {
		t.Fatalf("expected a read error, got=%q", errOut)
	}
}

func TestRunMaxDepth(t *testing.T) {
	path := writeScript(t, `fun f(n) { return n == 0 ? 0 : f(n - 1); } print f(100);`)
	_, errOut, code := execute(t, "", "run", path, "--max-depth", "50")
	if code != exitSoftware || !strings.Contains(errOut, "Stack overflow.") {
		t.Fatalf("expected a stack overflow, got exit=%d stderr=%q", code, errOut)
	}
	out, _, code := execute(t, "", "run", path, "--max-depth", "0")
	if code != 0 || out != "0\n" {
		t.Fatalf("expected 0, got exit=%d output=%q", code, out)
	}
}

func TestCheck(t *testing.T) {
	path := writeScript(t, `var a = 1; print a;`)
	out, _, code := execute(t, "", "check", path)
	if code != 0 || !strings.HasSuffix(out, ": ok\n") {
		t.Fatalf("expected ok, got exit=%d output=%q", code, out)
	}

	// nothing runs under check, even when the script would fail.
	path = writeScript(t, `print "side effect"; print nil + 1;`)
	out, _, code = execute(t, "", "check", path)
	if code != 0 || strings.Contains(out, "side effect") {
		t.Fatalf("check should not execute the script, got exit=%d output=%q", code, out)
	}

	path = writeScript(t, `
return 1;
{ var a = 1; var a = 2; }
`)
	_, errOut, code := execute(t, "", "check", path)
	if code != exitDataErr {
		t.Fatalf("expected exit %d, got=%d", exitDataErr, code)
	}
	for _, msg := range []string{"Can't return from top-level code.", "Already a variable with this name in this scope."} {
		if !strings.Contains(errOut, msg) {
			t.Errorf("expected stderr to contain %q, got=%q", msg, errOut)
		}
	}

	_, errOut, _ = execute(t, "", "check", path, "--max-errors", "1")
	if !strings.Contains(errOut, "too many errors") || strings.Contains(errOut, "Already a variable") {
		t.Errorf("expected resolution to stop after one error, got=%q", errOut)
	}
}

func TestREPL(t *testing.T) {
	input := strings.Join([]string{
		`var a = 1;`,
		`a + 1;`,
		`fun f() {`,
		`  return a;`,
		`}`,
		`f();`,
		`print "hi";`,
		`undefined;`,
		`"still" + " here";`,
	}, "\n")
	for _, args := range [][]string{{}, {"repl"}} {
		out, errOut, code := execute(t, input, args...)
		if code != 0 {
			t.Fatalf("%v: expected exit 0, got=%d", args, code)
		}
		expected := "2\n1\nhi\n\"still here\"\n"
		if out != expected {
			t.Errorf("%v: expected output=%q, got=%q", args, expected, out)
		}
		if !strings.Contains(errOut, "Undefined variable 'undefined'.") {
			t.Errorf("%v: expected a runtime error on stderr, got=%q", args, errOut)
		}
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"print 1;", false},
		{"fun f() {", true},
		{"fun f() {\n return 1;\n}", false},
		{"print (1 +", true},
		{"print \"{\";", false},
		{"}", false},
	}
	for _, test := range tests {
		if got := incomplete(test.input); got != test.incomplete {
			t.Errorf("incomplete(%q): expected %v, got=%v", test.input, test.incomplete, got)
		}
	}
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	if code := exitCode(&buf, exitCodeError{code: exitDataErr}); code != exitDataErr || buf.Len() != 0 {
		t.Fatalf("reported errors should exit silently, got code=%d output=%q", code, buf.String())
	}
	wrapped := errors.Wrap(exitCodeError{code: exitIOErr, err: errors.New("boom")}, "context")
	if code := exitCode(&buf, wrapped); code != exitIOErr || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected exit %d with message, got code=%d output=%q", exitIOErr, code, buf.String())
	}
	buf.Reset()
	if code := exitCode(&buf, errors.New("unknown flag")); code != exitUsage {
		t.Fatalf("expected exit %d, got=%d", exitUsage, code)
	}
}

func TestFileWatcher(t *testing.T) {
	path := writeScript(t, `print 1;`)
	w, err := newFileWatcher(path)
	if err != nil {
		t.Fatalf("newFileWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// unrelated files in the same directory are ignored.
	other := filepath.Join(filepath.Dir(path), "other.lox")
	if err := os.WriteFile(other, []byte(`print 2;`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`print 3;`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
	}
	// a burst of writes is debounced into one notification.
	select {
	case <-changed:
		t.Fatal("expected writes to be debounced")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
