package parser_test

import (
	"lox/lexer"
	"lox/parser"
	"strings"
	"testing"
)

func TestParserValid(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abcdef = 2;", "(abcdef = 2);"},
		{"a + b + c;", "((a + b) + c);"},
		{"a + b + (c = 7);", "((a + b) + (c = 7));"},
		{"a + b * c;", "(a + (b * c));"},
		{"a + b >= c == true;", "(((a + b) >= c) == true);"},
		{"a + !b or x;", "((a + (!b)) or x);"},
		{"a and b or c;", "((a and b) or c);"},
		{"a or b and c;", "(a or (b and c));"},
		{"a + -b * c / d;", "(a + (((-b) * c) / d));"},
		{"a / (c - f) / d + e;", "(((a / (c - f)) / d) + e);"},
		{"a = b = c;", "(a = (b = c));"},
		{"a ? b : c ? d : e;", "(a ? b : (c ? d : e));"},
		{"x = a == b ? 1 : 2;", "(x = ((a == b) ? 1 : 2));"},
		{"a.b.c = d;", "((a.b).c = d);"},
		{"f(1, g(2))(3).x;", "(f(1, g(2))(3).x);"},
		{"-a.b;", "(-(a.b));"},
		{"super.init(x);", "super.init(x);"},
		{"var x;", "var x;"},
		{"var x = fun (a, b) { return a; };", "var x = fun(a, b) {return a;};"},
		{"fun f(x) { print x; }", "fun f(x) {print x;}"},
		{"for (var i = 0; i < 3; i = i + 1) print i;", "for (var i = 0; (i < 3); (i = (i + 1))) print i;"},
		{"for (;;) { break; }", "for (;;) {break;}"},
		{"while (true) continue;", "while (true) continue;"},
		{"if (true) { x = 1; }", "if (true) {(x = 1);}"},
		{"if (true) { x = 1; } else nil;", "if (true) {(x = 1);} else nil;"},
		{"class A < B with T, U { init(x) { this.x = x; } }", "class A < B with T, U {init(x) {(this.x = x);}}"},
		{"trait T with U { hi() { return this; } }", "trait T with U {hi() {return this;}}"},
	}
	for i, test := range tests {
		var tokens []lexer.Token
		if !checkLexerErrors(t, test.input, &tokens) {
			t.Errorf("tests[%d] (%q) failed", i, test.input)
			continue
		}
		p := parser.New("", tokens)
		module := p.Parse()
		if len(p.Errors) != 0 {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Error("parser errors:")
			for _, err := range p.Errors {
				t.Error(err)
			}
			continue
		}
		if module.String() != test.expected {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Errorf("expected=%q, got=%q", test.expected, module.String())
			continue
		}
	}
}

func TestParserInvalid(t *testing.T) {
	tests := []struct {
		input   string
		numErrs int
	}{
		{"abcdef = 2", 1},
		{"1 = 2; x", 2}, // should continue parsing
		{"(a) = 3;", 1},
		{"a + b = c;", 1},
		{"!!;", 1},
		{"print 1 print 2; print 3;", 1},        // synchronizes on 'print'
		{"var 1 = 2; var x = ; print x;", 2},     // one per statement
		{"if (x) { y = ; } var z = 1 +;", 2},     // recovers inside blocks
		{"class { } fun f( { } var ok = 1;", 2},  // recovers on declaration keywords
		{"* 3; a == ;", 2},
	}
	for i, test := range tests {
		var tokens []lexer.Token
		if !checkLexerErrors(t, test.input, &tokens) {
			t.Errorf("tests[%d] (%q) failed", i, test.input)
			continue
		}
		p := parser.New("", tokens)
		p.Parse()
		if len(p.Errors) != test.numErrs {
			t.Errorf("tests[%d] (%q)", i, test.input)
			t.Errorf("expected=%d errors, got=%d", test.numErrs, len(p.Errors))
			t.Errorf("%+v\n", p.Errors)
		}
	}
}

func TestParserMissingLeftOperand(t *testing.T) {
	var tokens []lexer.Token
	if !checkLexerErrors(t, "print * 3;\nprint -3;", &tokens) {
		return
	}
	p := parser.New("x.lox", tokens)
	module := p.Parse()
	if len(p.Errors) != 1 {
		t.Fatalf("expected 1 error, got=%d: %v", len(p.Errors), p.Errors)
	}
	msg := p.Errors[0].Error()
	if !strings.Contains(msg, "Binary operator '*' missing left-hand operand.") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.HasPrefix(msg, "x.lox:1:7:") {
		t.Errorf("expected position x.lox:1:7, got: %s", msg)
	}
	// both statements survive: the right operand stands in for the binary.
	if got := module.String(); got != "print 3;\nprint (-3);" {
		t.Errorf("unexpected module: %q", got)
	}
}

func TestParserErrorPosition(t *testing.T) {
	var tokens []lexer.Token
	if !checkLexerErrors(t, "var a = 1\nprint a;", &tokens) {
		return
	}
	p := parser.New("f.lox", tokens)
	p.Parse()
	if len(p.Errors) != 1 {
		t.Fatalf("expected 1 error, got=%d", len(p.Errors))
	}
	expected := "f.lox:2:1: at 'print': Expect ';' after variable declaration."
	if p.Errors[0].Error() != expected {
		t.Errorf("expected=%q, got=%q", expected, p.Errors[0].Error())
	}
}

func checkLexerErrors(t *testing.T, input string, out *[]lexer.Token) bool {
	l := lexer.New("", input)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		t.Error("lexer errors:")
		for _, err := range l.Errors {
			t.Error(err)
		}
		return false
	}
	*out = l.Tokens
	return true
}
