package parser

import (
	"fmt"
	"lox/lexer"
)

// Represents a parsing error. We use this internally to signal
// that we cannot continue parsing some expression/statement --
// as opposed to minor errors like assigning to a literal.
type ParserError struct {
	Filename string
	Token    lexer.Token
	Message  string
}

func (pe ParserError) Error() string { return pe.String() }
func (pe ParserError) String() string {
	where := "end"
	if pe.Token.Type != lexer.EOF {
		where = fmt.Sprintf("'%s'", pe.Token.Lexeme)
	}
	return fmt.Sprintf("%s:%d:%d: at %s: %s", pe.Filename, pe.Token.Line, pe.Token.Column, where, pe.Message)
}

// report records an error without unwinding; the parser carries
// on from where it is.
func (p *Parser) report(tok lexer.Token, s string, args ...interface{}) {
	p.Errors = append(p.Errors, ParserError{
		Filename: p.filename,
		Token:    tok,
		Message:  fmt.Sprintf(s, args...),
	})
}

// error records an error and enters panic mode; declaration()
// recovers and synchronizes.
func (p *Parser) error(tok lexer.Token, s string, args ...interface{}) {
	p.report(tok, s, args...)
	panic(p.Errors[len(p.Errors)-1])
}

func (p *Parser) expect(typ lexer.TokenType, s string, args ...interface{}) lexer.Token {
	if !p.check(typ) {
		p.error(p.peek(), s, args...)
	}
	return p.consume()
}

// synchronize synchronizes the parser by discarding tokens
// until we reach a token which starts a statement. This means
// that cascading errors are discarded, and we still report as
// many errors as possible.
func (p *Parser) synchronize() {
	p.consume()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.CLASS, lexer.TRAIT, lexer.FUN, lexer.VAR, lexer.FOR,
			lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.consume()
	}
}
