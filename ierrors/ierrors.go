// Package ierrors holds the error taxonomy shared by lrforge's packages:
// grammar analysis, table construction, and the parse driver all return
// errors built from the sentinels and types defined here so that callers can
// use errors.Is/errors.As regardless of which stage produced the failure.
package ierrors

import (
	"errors"
	"fmt"
)

var (
	// ErrGrammarSyntax is the cause of an Error returned when grammar text
	// itself does not parse.
	ErrGrammarSyntax = errors.New("grammar text does not parse")

	// ErrGrammarSemantic is the cause of an Error returned when the grammar
	// parses but is invalid, such as a production referencing a symbol that
	// is neither a registered terminal nor a nonterminal with a rule.
	// Unreachable or unused symbols are not reported.
	ErrGrammarSemantic = errors.New("grammar is not semantically valid")

	// ErrConflict is the cause of an Error returned when the number of
	// unresolved shift/reduce and reduce/reduce conflicts exceeds the
	// grammar author's declared expectation.
	ErrConflict = errors.New("grammar produced more conflicts than expected")

	// ErrParse is the cause of an Error returned by the parse driver when an
	// Error or NonAssoc cell is consulted during parsing.
	ErrParse = errors.New("parse error")

	// ErrCacheMismatch is the cause of an Error returned when stored tables
	// are incompatible with the grammar being built.
	ErrCacheMismatch = errors.New("cached tables incompatible with grammar")
)

// Error is a typed error carrying a message and the sentinel cause it wraps,
// so that errors.Is(err, ErrGrammarSyntax) (etc.) works regardless of the
// specific message attached.
type Error struct {
	msg   string
	cause error
}

func New(cause error, msg string) *Error {
	return &Error{msg: msg, cause: cause}
}

func Newf(cause error, format string, args ...interface{}) *Error {
	return New(cause, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// tokenLike is the minimal surface of lex.Token needed to report a syntax or
// parse error without ierrors importing the lex package (which would create
// an import cycle, since lex errors are themselves ierrors.Errors).
type tokenLike interface {
	Lexeme() string
	Line() int
	LinePos() int
	FullLine() string
}

// SyntaxError is a GrammarSyntaxError/ParseError carrying the offending
// token's position, modeled on icterrors.NewSyntaxErrorFromToken in the
// teacher repository.
type SyntaxError struct {
	cause   error
	message string
	lexeme  string
	line    int
	linePos int
	srcLine string
}

// NewSyntaxErrorFromToken builds a SyntaxError anchored at tok, wrapping
// ErrParse. Use NewGrammarSyntaxErrorFromToken for grammar-text errors.
func NewSyntaxErrorFromToken(message string, tok tokenLike) *SyntaxError {
	return &SyntaxError{
		cause:   ErrParse,
		message: message,
		lexeme:  tok.Lexeme(),
		line:    tok.Line(),
		linePos: tok.LinePos(),
		srcLine: tok.FullLine(),
	}
}

// NewGrammarSyntaxErrorFromToken is like NewSyntaxErrorFromToken but wraps
// ErrGrammarSyntax, for use while parsing grammar text rather than input.
func NewGrammarSyntaxErrorFromToken(message string, tok tokenLike) *SyntaxError {
	se := NewSyntaxErrorFromToken(message, tok)
	se.cause = ErrGrammarSyntax
	return se
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.line, e.linePos, e.message)
}

func (e *SyntaxError) Unwrap() error {
	return e.cause
}

// FullMessage renders the error along with the offending source line and a
// caret pointing at the offending position, for display to a human.
func (e *SyntaxError) FullMessage() string {
	caret := ""
	for i := 1; i < e.linePos; i++ {
		caret += " "
	}
	caret += "^"
	return fmt.Sprintf("%s\n%s\n%s", e.Error(), e.srcLine, caret)
}

// Lexeme returns the literal text that triggered the error.
func (e *SyntaxError) Lexeme() string { return e.lexeme }
