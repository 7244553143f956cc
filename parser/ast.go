package parser

import "lox/lexer"

type Node interface {
	String() string
	Tok() lexer.Token
	node()
}

type Expr interface {
	Node
	expr()
}

type Stmt interface {
	Node
	stmt()
}

// Module is the root of a parsed file (or a single line of
// interactive input).
type Module struct {
	Filename string
	Stmts    []Stmt
}

// ==========
// Statements
// ==========

type (
	Var struct {
		Keyword lexer.Token
		Name    lexer.Token
		Value   Expr // nil when there is no initializer.
	}

	Block struct {
		LBrace lexer.Token
		Stmts  []Stmt
	}

	ExprStmt struct {
		Expr Expr
	}

	Print struct {
		Keyword lexer.Token
		Expr    Expr
	}

	If struct {
		Keyword lexer.Token
		Cond    Expr
		Then    Stmt
		Else    Stmt
	}

	While struct {
		Keyword lexer.Token
		Cond    Expr
		Stmt    Stmt
	}

	// For keeps its clauses (rather than being desugared into a while)
	// so that the loop scope can be copied afresh on every iteration.
	For struct {
		Keyword lexer.Token
		Init    Stmt // may be nil
		Cond    Expr // may be nil
		Incr    Expr // may be nil
		Stmt    Stmt
	}

	Break struct {
		Keyword lexer.Token
	}

	Continue struct {
		Keyword lexer.Token
	}

	Return struct {
		Keyword lexer.Token
		Expr    Expr // may be nil
	}

	// FunDecl is `fun name(...) {...}`.
	FunDecl struct {
		Keyword  lexer.Token
		Function *Function
	}

	Class struct {
		Keyword    lexer.Token
		Name       lexer.Token
		Superclass *Identifier // may be nil
		Traits     []*Identifier
		Methods    []*Function
	}

	Trait struct {
		Keyword lexer.Token
		Name    lexer.Token
		Traits  []*Identifier
		Methods []*Function
	}
)

// ===========
// Expressions
// ===========

type (
	Literal struct {
		Lit lexer.Token
	}

	Identifier struct {
		Id lexer.Token
	}

	Assign struct {
		Name  lexer.Token
		Equal lexer.Token
		Right Expr
	}

	Unary struct {
		Op    lexer.Token
		Right Expr
	}

	Binary struct {
		Op    lexer.Token
		Left  Expr
		Right Expr
	}

	And struct {
		Op    lexer.Token
		Left  Expr
		Right Expr
	}

	Or struct {
		Op    lexer.Token
		Left  Expr
		Right Expr
	}

	Ternary struct {
		Question lexer.Token
		Cond     Expr
		Then     Expr
		Else     Expr
	}

	Grouping struct {
		LParen lexer.Token
		Expr   Expr
	}

	Call struct {
		Callee Expr
		LParen lexer.Token
		Args   []Expr
	}

	Get struct {
		Object Expr
		Name   lexer.Token
	}

	Set struct {
		Object Expr
		Name   lexer.Token
		Right  Expr
	}

	This struct {
		Keyword lexer.Token
	}

	Super struct {
		Keyword lexer.Token
		Name    lexer.Token
	}

	// Function is used both for declarations (with a name) and for
	// anonymous function expressions (Name.Type == 0).
	Function struct {
		Keyword lexer.Token
		Name    lexer.Token
		Params  []lexer.Token
		Body    []Stmt
	}
)

func (node *Module) Tok() lexer.Token   { return lexer.Token{} }
func (node *Var) Tok() lexer.Token      { return node.Keyword }
func (node *Block) Tok() lexer.Token    { return node.LBrace }
func (node *ExprStmt) Tok() lexer.Token { return node.Expr.Tok() }
func (node *Print) Tok() lexer.Token    { return node.Keyword }
func (node *If) Tok() lexer.Token       { return node.Keyword }
func (node *While) Tok() lexer.Token    { return node.Keyword }
func (node *For) Tok() lexer.Token      { return node.Keyword }
func (node *Break) Tok() lexer.Token    { return node.Keyword }
func (node *Continue) Tok() lexer.Token { return node.Keyword }
func (node *Return) Tok() lexer.Token   { return node.Keyword }
func (node *FunDecl) Tok() lexer.Token  { return node.Keyword }
func (node *Class) Tok() lexer.Token    { return node.Keyword }
func (node *Trait) Tok() lexer.Token    { return node.Keyword }

func (node *Literal) Tok() lexer.Token    { return node.Lit }
func (node *Identifier) Tok() lexer.Token { return node.Id }
func (node *Assign) Tok() lexer.Token     { return node.Name }
func (node *Unary) Tok() lexer.Token      { return node.Op }
func (node *Binary) Tok() lexer.Token     { return node.Op }
func (node *And) Tok() lexer.Token        { return node.Op }
func (node *Or) Tok() lexer.Token         { return node.Op }
func (node *Ternary) Tok() lexer.Token    { return node.Question }
func (node *Grouping) Tok() lexer.Token   { return node.LParen }
func (node *Call) Tok() lexer.Token       { return node.LParen }
func (node *Get) Tok() lexer.Token        { return node.Name }
func (node *Set) Tok() lexer.Token        { return node.Name }
func (node *This) Tok() lexer.Token       { return node.Keyword }
func (node *Super) Tok() lexer.Token      { return node.Keyword }
func (node *Function) Tok() lexer.Token   { return node.Keyword }

func (node *Module) node()   {}
func (node *Var) node()      {}
func (node *Block) node()    {}
func (node *ExprStmt) node() {}
func (node *Print) node()    {}
func (node *If) node()       {}
func (node *While) node()    {}
func (node *For) node()      {}
func (node *Break) node()    {}
func (node *Continue) node() {}
func (node *Return) node()   {}
func (node *FunDecl) node()  {}
func (node *Class) node()    {}
func (node *Trait) node()    {}

func (node *Literal) node()    {}
func (node *Identifier) node() {}
func (node *Assign) node()     {}
func (node *Unary) node()      {}
func (node *Binary) node()     {}
func (node *And) node()        {}
func (node *Or) node()         {}
func (node *Ternary) node()    {}
func (node *Grouping) node()   {}
func (node *Call) node()       {}
func (node *Get) node()        {}
func (node *Set) node()        {}
func (node *This) node()       {}
func (node *Super) node()      {}
func (node *Function) node()   {}

func (node *Module) stmt()   {}
func (node *Var) stmt()      {}
func (node *Block) stmt()    {}
func (node *ExprStmt) stmt() {}
func (node *Print) stmt()    {}
func (node *If) stmt()       {}
func (node *While) stmt()    {}
func (node *For) stmt()      {}
func (node *Break) stmt()    {}
func (node *Continue) stmt() {}
func (node *Return) stmt()   {}
func (node *FunDecl) stmt()  {}
func (node *Class) stmt()    {}
func (node *Trait) stmt()    {}

func (node *Literal) expr()    {}
func (node *Identifier) expr() {}
func (node *Assign) expr()     {}
func (node *Unary) expr()      {}
func (node *Binary) expr()     {}
func (node *And) expr()        {}
func (node *Or) expr()         {}
func (node *Ternary) expr()    {}
func (node *Grouping) expr()   {}
func (node *Call) expr()       {}
func (node *Get) expr()        {}
func (node *Set) expr()        {}
func (node *This) expr()       {}
func (node *Super) expr()      {}
func (node *Function) expr()   {}

// IsAnonymous reports whether fn is a function expression.
func (fn *Function) IsAnonymous() bool { return fn.Name.Type == 0 }
