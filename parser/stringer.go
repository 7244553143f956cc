package parser

import (
	"bytes"
	"strings"
)

func (node *Module) String() string {
	stmts := []string{}
	for _, stmt := range node.Stmts {
		stmts = append(stmts, stmt.String())
	}
	return strings.Join(stmts, "\n")
}

// Statements

func (node *Var) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" ")
	buf.WriteString(node.Name.Lexeme)
	if node.Value != nil {
		buf.WriteString(" = ")
		buf.WriteString(node.Value.String())
	}
	buf.WriteString(";")
	return buf.String()
}

func (node *Block) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for _, stmt := range node.Stmts {
		buf.WriteString(stmt.String())
	}
	buf.WriteString("}")
	return buf.String()
}

func (node *ExprStmt) String() string { return node.Expr.String() + ";" }

func (node *Print) String() string {
	return node.Keyword.Lexeme + " " + node.Expr.String() + ";"
}

func (node *If) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" (")
	buf.WriteString(node.Cond.String())
	buf.WriteString(") ")
	buf.WriteString(node.Then.String())
	if node.Else != nil {
		buf.WriteString(" else ")
		buf.WriteString(node.Else.String())
	}
	return buf.String()
}

func (node *While) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" (")
	buf.WriteString(node.Cond.String())
	buf.WriteString(") ")
	buf.WriteString(node.Stmt.String())
	return buf.String()
}

func (node *For) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" (")
	if node.Init != nil {
		buf.WriteString(node.Init.String())
	} else {
		buf.WriteString(";")
	}
	if node.Cond != nil {
		buf.WriteString(" ")
		buf.WriteString(node.Cond.String())
	}
	buf.WriteString(";")
	if node.Incr != nil {
		buf.WriteString(" ")
		buf.WriteString(node.Incr.String())
	}
	buf.WriteString(") ")
	buf.WriteString(node.Stmt.String())
	return buf.String()
}

func (node *Break) String() string    { return node.Keyword.Lexeme + ";" }
func (node *Continue) String() string { return node.Keyword.Lexeme + ";" }

func (node *Return) String() string {
	if node.Expr == nil {
		return node.Keyword.Lexeme + ";"
	}
	return node.Keyword.Lexeme + " " + node.Expr.String() + ";"
}

func (node *FunDecl) String() string { return node.Keyword.Lexeme + " " + node.Function.String() }

func (node *Class) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" ")
	buf.WriteString(node.Name.Lexeme)
	if node.Superclass != nil {
		buf.WriteString(" < ")
		buf.WriteString(node.Superclass.String())
	}
	writeTraits(&buf, node.Traits)
	writeMethods(&buf, node.Methods)
	return buf.String()
}

func (node *Trait) String() string {
	var buf bytes.Buffer
	buf.WriteString(node.Keyword.Lexeme)
	buf.WriteString(" ")
	buf.WriteString(node.Name.Lexeme)
	writeTraits(&buf, node.Traits)
	writeMethods(&buf, node.Methods)
	return buf.String()
}

func writeTraits(buf *bytes.Buffer, traits []*Identifier) {
	if len(traits) == 0 {
		return
	}
	names := make([]string, len(traits))
	for i, t := range traits {
		names[i] = t.String()
	}
	buf.WriteString(" with ")
	buf.WriteString(strings.Join(names, ", "))
}

func writeMethods(buf *bytes.Buffer, methods []*Function) {
	buf.WriteString(" {")
	for _, m := range methods {
		buf.WriteString(m.String())
	}
	buf.WriteString("}")
}

// Expressions

func (node *Assign) String() string {
	return "(" + node.Name.Lexeme + " = " + node.Right.String() + ")"
}

func (node *Binary) String() string {
	return "(" + node.Left.String() + " " + node.Op.Lexeme + " " + node.Right.String() + ")"
}

func (node *And) String() string {
	return "(" + node.Left.String() + " " + node.Op.Lexeme + " " + node.Right.String() + ")"
}

func (node *Or) String() string {
	return "(" + node.Left.String() + " " + node.Op.Lexeme + " " + node.Right.String() + ")"
}

func (node *Unary) String() string { return "(" + node.Op.Lexeme + node.Right.String() + ")" }

func (node *Ternary) String() string {
	return "(" + node.Cond.String() + " ? " + node.Then.String() + " : " + node.Else.String() + ")"
}

// Grouping is already visible through the parenthesisation of
// its operands.
func (node *Grouping) String() string { return node.Expr.String() }

func (node *Call) String() string {
	args := make([]string, len(node.Args))
	for i, arg := range node.Args {
		args[i] = arg.String()
	}
	return node.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func (node *Get) String() string { return "(" + node.Object.String() + "." + node.Name.Lexeme + ")" }

func (node *Set) String() string {
	return "(" + node.Object.String() + "." + node.Name.Lexeme + " = " + node.Right.String() + ")"
}

func (node *Function) String() string {
	var buf bytes.Buffer
	if node.IsAnonymous() {
		buf.WriteString(node.Keyword.Lexeme)
	} else {
		buf.WriteString(node.Name.Lexeme)
	}
	params := make([]string, len(node.Params))
	for i, p := range node.Params {
		params[i] = p.Lexeme
	}
	buf.WriteString("(")
	buf.WriteString(strings.Join(params, ", "))
	buf.WriteString(") {")
	for _, stmt := range node.Body {
		buf.WriteString(stmt.String())
	}
	buf.WriteString("}")
	return buf.String()
}

func (node *This) String() string       { return node.Keyword.Lexeme }
func (node *Super) String() string      { return node.Keyword.Lexeme + "." + node.Name.Lexeme }
func (node *Identifier) String() string { return node.Id.Lexeme }
func (node *Literal) String() string    { return node.Lit.Lexeme }
