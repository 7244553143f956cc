package parser

import "lox/lexer"

type (
	unaryParser  func() Expr
	binaryParser func(Expr) Expr
)

const maxArgs = 255

type Parser struct {
	filename      string
	tokens        []lexer.Token
	Errors        []error
	curr          int // how many we have consumed.
	unaryParsers  map[lexer.TokenType]unaryParser
	binaryParsers map[lexer.TokenType]binaryParser
	precedences   map[lexer.TokenType]int
}

const (
	PREC_LOWEST  = iota
	PREC_ASSIGN  // =
	PREC_TERNARY // ?:
	PREC_OR      // or
	PREC_AND     // and
	PREC_EQ      // ==, !=
	PREC_CMP     // <=, <, >, >=
	PREC_SUM     // +, -
	PREC_PRODUCT // *, /
	PREC_UNARY   // !, -
	PREC_CALL    // (), .
)

// ====
// init
// ====

func New(fn string, tokens []lexer.Token) *Parser {
	p := &Parser{
		filename: fn,
		tokens:   tokens,
		Errors:   []error{},
		curr:     0,
	}
	p.unaryParsers = map[lexer.TokenType]unaryParser{
		lexer.LEFT_PAREN: p.grouping,
		lexer.IDENTIFIER: p.identifier,
		lexer.NUMBER:     p.literal,
		lexer.STRING:     p.literal,
		lexer.TRUE:       p.literal,
		lexer.FALSE:      p.literal,
		lexer.NIL:        p.literal,
		lexer.THIS:       p.this,
		lexer.SUPER:      p.super,
		lexer.FUN:        p.lambda,
		lexer.BANG:       p.unary,
		lexer.MINUS:      p.unary,
		// error productions: a binary operator without a left operand.
		lexer.EQUAL_EQUAL:   p.missingLeft,
		lexer.BANG_EQUAL:    p.missingLeft,
		lexer.GREATER:       p.missingLeft,
		lexer.GREATER_EQUAL: p.missingLeft,
		lexer.LESS:          p.missingLeft,
		lexer.LESS_EQUAL:    p.missingLeft,
		lexer.PLUS:          p.missingLeft,
		lexer.STAR:          p.missingLeft,
		lexer.SLASH:         p.missingLeft,
	}
	// note: need to make sure that every entry in binaryParsers
	// has a corresponding entry in precedences.
	p.binaryParsers = map[lexer.TokenType]binaryParser{
		lexer.EQUAL:         p.assign,
		lexer.QUESTION:      p.ternary,
		lexer.OR:            p.or,
		lexer.AND:           p.and,
		lexer.EQUAL_EQUAL:   p.binary,
		lexer.BANG_EQUAL:    p.binary,
		lexer.GREATER:       p.binary,
		lexer.GREATER_EQUAL: p.binary,
		lexer.LESS:          p.binary,
		lexer.LESS_EQUAL:    p.binary,
		lexer.PLUS:          p.binary,
		lexer.MINUS:         p.binary,
		lexer.STAR:          p.binary,
		lexer.SLASH:         p.binary,
		lexer.LEFT_PAREN:    p.call,
		lexer.DOT:           p.get,
	}
	p.precedences = map[lexer.TokenType]int{
		lexer.EQUAL:         PREC_ASSIGN,
		lexer.QUESTION:      PREC_TERNARY,
		lexer.OR:            PREC_OR,
		lexer.AND:           PREC_AND,
		lexer.EQUAL_EQUAL:   PREC_EQ,
		lexer.BANG_EQUAL:    PREC_EQ,
		lexer.GREATER:       PREC_CMP,
		lexer.GREATER_EQUAL: PREC_CMP,
		lexer.LESS:          PREC_CMP,
		lexer.LESS_EQUAL:    PREC_CMP,
		lexer.PLUS:          PREC_SUM,
		lexer.MINUS:         PREC_SUM,
		lexer.STAR:          PREC_PRODUCT,
		lexer.SLASH:         PREC_PRODUCT,
		lexer.LEFT_PAREN:    PREC_CALL,
		lexer.DOT:           PREC_CALL,
	}
	return p
}

// =====
// utils
// =====

// consume consumes one token
func (p *Parser) consume() lexer.Token {
	if !p.isAtEnd() {
		p.curr++
	}
	return p.previous()
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token { return p.tokens[p.curr-1] }

// peek returns the token to be consumed
func (p *Parser) peek() lexer.Token { return p.tokens[p.curr] }

// peekNext returns the token after the one to be consumed
func (p *Parser) peekNext() lexer.Token {
	if p.isAtEnd() {
		return p.peek()
	}
	return p.tokens[p.curr+1]
}

// isAtEnd returns true if the current token is an EOF token
func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.EOF }

// check returns if the peek token matches the given type
func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.consume()
			return true
		}
	}
	return false
}

// ===========
// entry point
// ===========

// module → declaration* EOF

func (p *Parser) Parse() *Module {
	module := &Module{Filename: p.filename, Stmts: []Stmt{}}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			module.Stmts = append(module.Stmts, stmt)
		}
	}
	return module
}

// =================
// statement parsing
// =================
//
//   declaration → class | trait | fun | var | statement
//   statement   → for | while | if | print | return | block
//               | break | continue | exprStmt
//   class    → "class" IDENT ( "<" IDENT )? with? "{" function* "}"
//   trait    → "trait" IDENT with? "{" function* "}"
//   with     → "with" IDENT ( "," IDENT )*
//   fun      → "fun" IDENT "(" params? ")" block
//   var      → "var" IDENT ( "=" expression )? ";"
//   for      → "for" "(" ( var | exprStmt | ";" ) expr? ";" expr? ")" statement
//   while    → "while" "(" expr ")" statement
//   if       → "if" "(" expr ")" statement ( "else" statement )?
//   print    → "print" expr ";"
//   return   → "return" expr? ";"
//   block    → "{" declaration* "}"
//   break    → "break" ";"
//   continue → "continue" ";"
//   exprStmt → expression ";"

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		// This will be called repeatedly as we parse statements, so
		// this is a good place to synchronize(). We have to make
		// sure that all top-level calls to parse statements/expressions
		// have a recover.
		if rv := recover(); rv != nil {
			if _, ok := rv.(ParserError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(rv)
		}
	}()
	switch {
	case p.check(lexer.CLASS):
		return p.classDecl()
	case p.check(lexer.TRAIT):
		return p.traitDecl()
	case p.check(lexer.FUN) && p.peekNext().Type == lexer.IDENTIFIER:
		return p.funDecl()
	case p.check(lexer.VAR):
		return p.varDecl()
	}
	return p.statement()
}

func (p *Parser) statement() Stmt {
	switch {
	case p.check(lexer.FOR):
		return p.forStmt()
	case p.check(lexer.WHILE):
		return p.whileStmt()
	case p.check(lexer.IF):
		return p.ifStmt()
	case p.check(lexer.PRINT):
		return p.printStmt()
	case p.check(lexer.RETURN):
		return p.returnStmt()
	case p.check(lexer.LEFT_BRACE):
		return p.blockStmt()
	case p.check(lexer.CONTINUE):
		return p.continueStmt()
	case p.check(lexer.BREAK):
		return p.breakStmt()
	}
	return p.exprStmt()
}

func (p *Parser) classDecl() Stmt {
	token := p.consume()
	name := p.expect(lexer.IDENTIFIER, "Expect class name.")
	var superclass *Identifier
	if p.match(lexer.LESS) {
		superclass = &Identifier{p.expect(lexer.IDENTIFIER, "Expect superclass name.")}
	}
	traits := p.withClause()
	methods := p.methods("class")
	return &Class{
		Keyword:    token,
		Name:       name,
		Superclass: superclass,
		Traits:     traits,
		Methods:    methods,
	}
}

func (p *Parser) traitDecl() Stmt {
	token := p.consume()
	name := p.expect(lexer.IDENTIFIER, "Expect trait name.")
	traits := p.withClause()
	methods := p.methods("trait")
	return &Trait{
		Keyword: token,
		Name:    name,
		Traits:  traits,
		Methods: methods,
	}
}

func (p *Parser) withClause() []*Identifier {
	traits := []*Identifier{}
	if !p.match(lexer.WITH) {
		return traits
	}
	for {
		traits = append(traits, &Identifier{p.expect(lexer.IDENTIFIER, "Expect trait name.")})
		if !p.match(lexer.COMMA) {
			return traits
		}
	}
}

func (p *Parser) methods(kind string) []*Function {
	p.expect(lexer.LEFT_BRACE, "Expect '{' before %s body.", kind)
	methods := []*Function{}
	for !p.isAtEnd() && !p.check(lexer.RIGHT_BRACE) {
		name := p.expect(lexer.IDENTIFIER, "Expect method name.")
		methods = append(methods, p.function(name, name, "method"))
	}
	p.expect(lexer.RIGHT_BRACE, "Expect '}' after %s body.", kind)
	return methods
}

func (p *Parser) funDecl() Stmt {
	token := p.consume()
	name := p.expect(lexer.IDENTIFIER, "Expect function name.")
	return &FunDecl{Keyword: token, Function: p.function(token, name, "function")}
}

// function parses the parameter list and body. For anonymous
// functions name is the zero token.
func (p *Parser) function(keyword, name lexer.Token, kind string) *Function {
	p.expect(lexer.LEFT_PAREN, "Expect '(' after %s name.", kind)
	params := []lexer.Token{}
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), "Can't have more than %d parameters.", maxArgs)
			}
			params = append(params, p.expect(lexer.IDENTIFIER, "Expect parameter name."))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after parameters.")
	p.expect(lexer.LEFT_BRACE, "Expect '{' before %s body.", kind)
	return &Function{
		Keyword: keyword,
		Name:    name,
		Params:  params,
		Body:    p.blockBody(),
	}
}

func (p *Parser) varDecl() Stmt {
	token := p.consume()
	ident := p.expect(lexer.IDENTIFIER, "Expect variable name.")
	var value Expr
	if p.match(lexer.EQUAL) {
		value = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expect ';' after variable declaration.")
	return &Var{Keyword: token, Name: ident, Value: value}
}

func (p *Parser) forStmt() Stmt {
	token := p.consume() // the 'for' token
	p.expect(lexer.LEFT_PAREN, "Expect '(' after 'for'.")
	var init Stmt
	switch {
	case p.match(lexer.SEMICOLON):
	case p.check(lexer.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}
	var cond Expr
	if !p.check(lexer.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expect ';' after loop condition.")
	var incr Expr
	if !p.check(lexer.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after for clauses.")
	stmt := p.statement()
	return &For{Keyword: token, Init: init, Cond: cond, Incr: incr, Stmt: stmt}
}

func (p *Parser) whileStmt() Stmt {
	token := p.consume()
	p.expect(lexer.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after condition.")
	stmt := p.statement()
	return &While{Keyword: token, Cond: cond, Stmt: stmt}
}

func (p *Parser) ifStmt() Stmt {
	token := p.consume()
	p.expect(lexer.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after if condition.")
	then := p.statement()
	var elseStmt Stmt = nil
	if p.match(lexer.ELSE) {
		elseStmt = p.statement()
	}
	return &If{Keyword: token, Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) printStmt() Stmt {
	token := p.consume()
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "Expect ';' after value.")
	return &Print{Keyword: token, Expr: expr}
}

func (p *Parser) returnStmt() Stmt {
	token := p.consume()
	var expr Expr
	if !p.check(lexer.SEMICOLON) {
		expr = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expect ';' after return value.")
	return &Return{Keyword: token, Expr: expr}
}

func (p *Parser) blockStmt() Stmt {
	token := p.consume()
	return &Block{LBrace: token, Stmts: p.blockBody()}
}

// blockBody parses declarations up to and including the closing '}'.
func (p *Parser) blockBody() []Stmt {
	stmts := []Stmt{}
	for !p.isAtEnd() && !p.check(lexer.RIGHT_BRACE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) continueStmt() Stmt {
	token := p.consume()
	p.expect(lexer.SEMICOLON, "Expect ';' after 'continue'.")
	return &Continue{Keyword: token}
}

func (p *Parser) breakStmt() Stmt {
	token := p.consume()
	p.expect(lexer.SEMICOLON, "Expect ';' after 'break'.")
	return &Break{Keyword: token}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "Expect ';' after expression.")
	return &ExprStmt{Expr: expr}
}

// ==================
// expression parsing
// ==================

// expression matches a single expression.
func (p *Parser) expression() Expr { return p.precedence(PREC_LOWEST) }
func (p *Parser) precedence(prec int) Expr {
	unary, ok := p.unaryParsers[p.peek().Type]
	if !ok {
		p.error(p.peek(), "Expect expression.")
	}
	expr := unary()
	for prec < p.peekPrecedence() {
		expr = p.binaryParsers[p.peek().Type](expr)
	}
	return expr
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := p.precedences[p.peek().Type]; ok {
		return prec
	}
	return PREC_LOWEST
}

func (p *Parser) unary() Expr {
	tok := p.consume()
	return &Unary{Op: tok, Right: p.precedence(PREC_UNARY - 1)}
}

// missingLeft reports a binary operator in prefix position. The right
// operand is still parsed (and returned) so that parsing continues
// without a cascade of errors.
func (p *Parser) missingLeft() Expr {
	tok := p.consume()
	right := p.precedence(p.precedences[tok.Type])
	p.report(tok, "Binary operator '%s' missing left-hand operand.", tok.Lexeme)
	return right
}

func (p *Parser) grouping() Expr {
	tok := p.consume()
	expr := p.expression()
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after expression.")
	return &Grouping{LParen: tok, Expr: expr}
}

func (p *Parser) assign(left Expr) Expr {
	tok := p.consume()
	right := p.precedence(PREC_ASSIGN - 1)
	switch left := left.(type) {
	case *Identifier:
		return &Assign{Name: left.Id, Equal: tok, Right: right}
	case *Get:
		return &Set{Object: left.Object, Name: left.Name, Right: right}
	}
	// this is not an error worth panicking over.
	// just move along -- we will put it in `.Errors'.
	p.report(tok, "Invalid assignment target.")
	return left
}

func (p *Parser) ternary(cond Expr) Expr {
	tok := p.consume()
	then := p.expression()
	p.expect(lexer.COLON, "Expect ':' after then branch of ternary expression.")
	// right associative: a ? b : c ? d : e
	elseExpr := p.precedence(PREC_TERNARY - 1)
	return &Ternary{Question: tok, Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) call(callee Expr) Expr {
	tok := p.consume()
	args := []Expr{}
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than %d arguments.", maxArgs)
			}
			args = append(args, p.expression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "Expect ')' after arguments.")
	return &Call{Callee: callee, LParen: tok, Args: args}
}

func (p *Parser) get(left Expr) Expr {
	p.consume()
	name := p.expect(lexer.IDENTIFIER, "Expect property name after '.'.")
	return &Get{Object: left, Name: name}
}

func (p *Parser) binary(left Expr) Expr {
	tok := p.consume()
	return &Binary{Op: tok, Left: left, Right: p.precedence(p.precedences[tok.Type])}
}

func (p *Parser) and(left Expr) Expr {
	tok := p.consume()
	return &And{Op: tok, Left: left, Right: p.precedence(PREC_AND)}
}

func (p *Parser) or(left Expr) Expr {
	tok := p.consume()
	return &Or{Op: tok, Left: left, Right: p.precedence(PREC_OR)}
}

func (p *Parser) identifier() Expr { return &Identifier{p.consume()} }
func (p *Parser) literal() Expr    { return &Literal{p.consume()} }
func (p *Parser) this() Expr       { return &This{p.consume()} }

func (p *Parser) super() Expr {
	tok := p.consume()
	p.expect(lexer.DOT, "Expect '.' after 'super'.")
	name := p.expect(lexer.IDENTIFIER, "Expect superclass method name.")
	return &Super{Keyword: tok, Name: name}
}

func (p *Parser) lambda() Expr {
	tok := p.consume()
	return p.function(tok, lexer.Token{}, "function")
}
