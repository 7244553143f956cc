package eval

import (
	"bytes"
	"fmt"
	"lox/lexer"
)

// maxTrace bounds how many frames an error remembers; deep recursion
// would otherwise produce one entry per frame.
const maxTrace = 32

// TraceEntry is one frame of a runtime error's trace.
type TraceEntry struct {
	Filename string
	Line     int
	Column   int
	Context  string // e.g. [Module] or <fn name>
}

// RuntimeError is a failure raised while executing a program. It
// aborts the current top-level unit; the host may carry on.
type RuntimeError struct {
	Token   lexer.Token
	Message string
	Trace   []TraceEntry
	Elided  int // frames dropped past maxTrace
}

func newRuntimeError(tok lexer.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
		Trace:   []TraceEntry{},
	}
}

func (e *RuntimeError) Error() string {
	filename := ""
	if len(e.Trace) > 0 {
		filename = e.Trace[0].Filename
	}
	return fmt.Sprintf("%s:%d:%d: %s", filename, e.Token.Line, e.Token.Column, e.Message)
}

func (e *RuntimeError) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Error at '%s': %s", e.Token.Lexeme, e.Message))
	for _, entry := range e.Trace {
		buf.WriteString(fmt.Sprintf("\n  at %s:%d:%d: %s", entry.Filename, entry.Line, entry.Column, entry.Context))
	}
	if e.Elided > 0 {
		buf.WriteString(fmt.Sprintf("\n  ... %d more", e.Elided))
	}
	return buf.String()
}
