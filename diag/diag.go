// Package diag defines the structured error and warning values produced by
// the transform pipeline. Fatal conditions are *Error values carrying a
// Kind plus the offending source snippet; non-fatal findings accumulate in
// a List attached to the run result, so callers decide presentation.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a fatal transform error.
type Kind int

const (
	// UnterminatedBlock: a brace opened but never closed before end of input.
	UnterminatedBlock Kind = iota + 1
	// UnknownType: a receiver resolved to a type with no struct definition.
	UnknownType
	// UnknownMethod: the method name is absent on an otherwise-known struct.
	UnknownMethod
	// UnresolvedSymbol: a receiver identifier is neither a bound variable
	// nor a known struct name.
	UnresolvedSymbol
)

func (k Kind) String() string {
	switch k {
	case UnterminatedBlock:
		return "unterminated block"
	case UnknownType:
		return "unknown type"
	case UnknownMethod:
		return "unknown method"
	case UnresolvedSymbol:
		return "unresolved symbol"
	}
	return "unknown error"
}

// Error is a fatal transform error. The whole run aborts at the first one;
// no partial output is produced.
type Error struct {
	Kind    Kind
	Snippet string // offending source text, trimmed
	Line    int    // 1-based line in the text being processed, 0 if unknown
}

func (e *Error) Error() string {
	snippet := strings.TrimSpace(e.Snippet)
	if len(snippet) > 60 {
		snippet = snippet[:57] + "..."
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Kind, snippet)
	}
	return fmt.Sprintf("%s: %q", e.Kind, snippet)
}

// Errorf builds an *Error with a formatted snippet.
func Errorf(kind Kind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Snippet: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal finding. The transform continues; warnings are
// reported alongside the result.
type Warning struct {
	Stage   string // pipeline stage that produced it, e.g. "extract"
	Message string
	Line    int // 1-based, 0 if unknown
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", w.Stage, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// List accumulates warnings across pipeline stages.
type List struct {
	warnings []Warning
}

// Warnf records a warning against a stage.
func (l *List) Warnf(stage string, line int, format string, args ...interface{}) {
	l.warnings = append(l.warnings, Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	})
}

// Warnings returns the recorded warnings in order.
func (l *List) Warnings() []Warning {
	return l.warnings
}

// Empty reports whether nothing was recorded.
func (l *List) Empty() bool { return len(l.warnings) == 0 }

// Merge appends all warnings from other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.warnings = append(l.warnings, other.warnings...)
}
