package report

import (
	"fmt"
)

// TextSpan represents a range or "span" of source text.  It is used to mark
// the source text an IR node or diagnostic refers to.  Text spans are
// inclusive on both sides and the line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// CompileError is an error produced while building or lowering a module.  All
// such errors are fatal: the first one aborts the whole module.
type CompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.  May be nil when no source
	// location is available.
	Span *TextSpan

	// The name of the function being processed when the error occurred, if
	// any.
	Func string
}

func (ce *CompileError) Error() string {
	switch {
	case ce.Func != "" && ce.Span != nil:
		return fmt.Sprintf("%d:%d: in %s: %s", ce.Span.StartLine+1, ce.Span.StartCol+1, ce.Func, ce.Message)
	case ce.Func != "":
		return fmt.Sprintf("in %s: %s", ce.Func, ce.Message)
	case ce.Span != nil:
		return fmt.Sprintf("%d:%d: %s", ce.Span.StartLine+1, ce.Span.StartCol+1, ce.Message)
	default:
		return ce.Message
	}
}

// Raise creates a new compile error over the given span.
func Raise(span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseIn creates a new compile error attributed to the named function.
func RaiseIn(fn string, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(msg, args...), Span: span, Func: fn}
}

// -----------------------------------------------------------------------------

// Catch catches a compile error thrown by a `panic` during a stage of
// compilation and stores it into `err`.  In effect, this handler determines
// where "unrecoverable" errors within a subsection of the compiler stop
// bubbling: each public entry point defers it once and returns the error.
// Any other panic value is propagated unchanged.
// NB: This function must ALWAYS be deferred.
func Catch(err *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			*err = cerr
			return
		}

		panic(x)
	}
}
