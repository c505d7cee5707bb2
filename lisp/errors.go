package lisp

import (
	"errors"
	"fmt"
)

// Kinds of evaluation error. Match them with errors.Is.
var (
	ErrUnbound       = errors.New("unbound atom")
	ErrNotApplicable = errors.New("not applicable")
	ErrArity         = errors.New("wrong number of operands")
	ErrType          = errors.New("wrong operand type")
	ErrFormals       = errors.New("malformed formals")
	ErrImproperList  = errors.New("improper list")
	ErrSyntax        = errors.New("malformed special form")
)

// EvalError aborts the top-level evaluation it is raised in.
type EvalError struct {
	Kind error
	Msg  string
	// Form is the expression being evaluated when the error was raised.
	Form *Value
}

func (e *EvalError) Error() string {
	return "eval error: " + e.Msg
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

func evalErrorf(kind error, form *Value, format string, args ...interface{}) error {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...), Form: form}
}

// ScanError is a malformed token.
type ScanError struct {
	Line int
	Msg  string
	// Incomplete is set when more input could complete the token.
	Incomplete bool
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[line %d] scan error: %s", e.Line, e.Msg)
}

// ParseError is a malformed datum.
type ParseError struct {
	Line int
	Near string
	Msg  string
	// Incomplete is set when input ended inside an unfinished datum.
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("[line %d] parse error at end: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] parse error at '%s': %s", e.Line, e.Near, e.Msg)
}

// IsIncomplete reports whether err was caused by input ending early, so
// that more input may make it readable.
func IsIncomplete(err error) bool {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Incomplete
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Incomplete
	}
	return false
}
