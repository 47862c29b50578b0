// Package diagnostics defines the compiler's typed error kinds, the
// engine that aggregates them across one evaluation, and the structured
// logger the rest of the compiler writes through.
package diagnostics

import (
	"fmt"

	"go.uber.org/multierr"
)

// Kind identifies which of the compiler's error categories a Diagnostic
// belongs to.
type Kind int

const (
	// ParseError originates from the syntax-tree provider, not this
	// package; reserved so downstream callers can tag parse failures
	// with the same Kind enum the evaluator uses.
	ParseError Kind = iota
	NameError
	TypeError
	SyntaxishError
	ImportError
	ValueError
	InternalError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case SyntaxishError:
		return "SyntaxishError"
	case ImportError:
		return "ImportError"
	case ValueError:
		return "ValueError"
	case InternalError:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Position locates a Diagnostic in source text.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Error is a single compiler diagnostic. It implements the error
// interface so it can be returned and wrapped like any other Go error,
// while still exposing Kind and Position for callers that need to
// inspect or filter by them.
type Error struct {
	Kind     Kind
	Message  string
	Position Position
}

func (e *Error) Error() string {
	if e.Position.Line == 0 && e.Position.Column == 0 && e.Position.File == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Kind, e.Message)
}

func newf(kind Kind, pos Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos}
}

func NameErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(NameError, pos, format, args...)
}

func TypeErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(TypeError, pos, format, args...)
}

func SyntaxishErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(SyntaxishError, pos, format, args...)
}

func ImportErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(ImportError, pos, format, args...)
}

func ValueErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(ValueError, pos, format, args...)
}

func InternalErrorf(pos Position, format string, args ...interface{}) *Error {
	return newf(InternalError, pos, format, args...)
}

// Engine collects diagnostics raised during a single evaluation. Unlike
// the evaluator's control flow (which aborts a frame on the first
// error), the Engine exists for callers — such as CompilePackage, which
// visits many files — that want to keep going and report everything
// that's wrong in one pass.
type Engine struct {
	diags      []*Error
	errorCount int
}

func NewEngine() *Engine {
	return &Engine{}
}

// Report records a diagnostic raised while compiling one entry of a
// package (CompilePackage), letting the caller keep going and report
// every failing module in one pass instead of aborting on the first.
func (e *Engine) Report(err *Error) {
	e.diags = append(e.diags, err)
	e.errorCount++
}

func (e *Engine) HasErrors() bool { return e.errorCount > 0 }
func (e *Engine) ErrorCount() int { return e.errorCount }

// Combined folds all recorded diagnostics into a single error via
// multierr, or nil if none were recorded. This is what CompilePackage
// returns to its caller after visiting every entry in a module map.
func (e *Engine) Combined() error {
	var err error
	for _, d := range e.diags {
		err = multierr.Append(err, d)
	}
	return err
}
