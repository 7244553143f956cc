package lexer_test

import (
	"lox/lexer"
	"testing"
)

func TestLexer(t *testing.T) {
	lex := lexer.New("", `
class Dog < Animal with Pet {
  init(name) { this.name = "阿福"; }
}
var x = 21.50 >= 2.10 ? nil : true; // trailing
/* block
   comment */ print x;`)
	lex.ScanTokens()
	if len(lex.Errors) != 0 {
		t.Errorf("failed: expected no errors, got:")
		for _, x := range lex.Errors {
			t.Log(x)
		}
	}
	expected := []lexer.TokenType{
		lexer.CLASS, lexer.IDENTIFIER, lexer.LESS, lexer.IDENTIFIER, lexer.WITH, lexer.IDENTIFIER, lexer.LEFT_BRACE,
		lexer.IDENTIFIER, lexer.LEFT_PAREN, lexer.IDENTIFIER, lexer.RIGHT_PAREN, lexer.LEFT_BRACE,
		lexer.THIS, lexer.DOT, lexer.IDENTIFIER, lexer.EQUAL, lexer.STRING, lexer.SEMICOLON, lexer.RIGHT_BRACE,
		lexer.RIGHT_BRACE,
		lexer.VAR, lexer.IDENTIFIER, lexer.EQUAL, lexer.NUMBER, lexer.GREATER_EQUAL, lexer.NUMBER,
		lexer.QUESTION, lexer.NIL, lexer.COLON, lexer.TRUE, lexer.SEMICOLON,
		lexer.PRINT, lexer.IDENTIFIER, lexer.SEMICOLON,
		lexer.EOF,
	}
	if len(lex.Tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got=%d: %v", len(expected), len(lex.Tokens), lex.Tokens)
	}
	for i, typ := range expected {
		if lex.Tokens[i].Type != typ {
			t.Errorf("tokens[%d]: expected=%s, got=%s", i, typ, lex.Tokens[i].Type)
		}
	}
	if s := lex.Tokens[16].Literal.(string); s != "阿福" {
		t.Errorf("expected string literal %q, got=%q", "阿福", s)
	}
	if n := lex.Tokens[23].Literal.(float64); n != 21.5 {
		t.Errorf("expected number literal 21.5, got=%v", n)
	}
}

func TestLexerPositions(t *testing.T) {
	lex := lexer.New("", "var a;\n  a = 1;")
	lex.ScanTokens()
	a := lex.Tokens[3]
	if a.Lexeme != "a" || a.Line != 2 || a.Column != 3 {
		t.Errorf("expected a at 2:3, got=%q at %d:%d", a.Lexeme, a.Line, a.Column)
	}
}

func TestLexerBad(t *testing.T) {
	badInputs := []string{
		"\"ab\n\" def ghi",
		"def | oh no",
		"abc & adhkfsai",
		"\"abraca\xc3\x28 dabra\"",
		"\xc3\x28",
		"abc def \xf0\x28\x8c\xbc uu \xc3\x28 omg",
		"\"unterminated",
		"/* unterminated",
		"\"bad \\q escape\"",
	}
	for i, input := range badInputs {
		lex := lexer.New("<test>", input)
		lex.ScanTokens()
		if len(lex.Errors) == 0 {
			t.Errorf("tests[%d] (%q) failed", i, input)
			t.Errorf("expected errors, got none")
		}
		for _, x := range lex.Errors {
			t.Logf("%s\n", x)
		}
	}
}
