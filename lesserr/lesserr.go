// Package lesserr defines the single error kind the evaluator raises
// (§7): a fatal ParserError carrying a message, an optional source
// location, and the culprit source text for that line.
package lesserr

import "fmt"

// SourceRef identifies the input the error's location refers to, e.g. a
// filename or import-id used while rendering location info.
type SourceRef struct {
	Name string
}

// ParserError is the one error kind raised by the evaluator (§7).
// Parser and Offset are optional: when no source offset is active on the
// currently tracked parser, a ParserError carries no location info.
type ParserError struct {
	Message string
	Parser  *SourceRef
	Offset  int // -1 when absent
	Line    int
	Culprit string
}

// Error renders "<message> on line <n>: <culprit>" when location info is
// present, else just the bare message, matching lessphp/less.js CLI
// register.
func (e *ParserError) Error() string {
	if e.Parser == nil || e.Line <= 0 {
		return e.Message
	}
	if e.Culprit != "" {
		return fmt.Sprintf("%s on line %d: %s", e.Message, e.Line, e.Culprit)
	}
	return fmt.Sprintf("%s on line %d", e.Message, e.Line)
}

// Errorf builds a location-less ParserError, for failures raised before
// or outside of source tracking.
func Errorf(format string, args ...any) *ParserError {
	return &ParserError{Message: fmt.Sprintf(format, args...), Offset: -1}
}

// At builds a ParserError located at a specific parser/offset/line, the
// form used while a prop's source position is being tracked during
// compilation.
func At(ref *SourceRef, offset, line int, culprit string, format string, args ...any) *ParserError {
	return &ParserError{
		Message: fmt.Sprintf(format, args...),
		Parser:  ref,
		Offset:  offset,
		Line:    line,
		Culprit: culprit,
	}
}
