// Package diagnostics collects the problems found while checking a source
// file and prints them together once the check is over.
package diagnostics

import "fmt"

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
//
// Title is a short name for the problem ("Invalid token"), Message the
// sentence describing this occurrence and Cause the source excerpt that shows
// where it happened.
type Diagnostic struct {
	Severity Severity
	Title    string
	Message  string
	Cause    string
	File     string
	Line     int // 1-based; 0 when unknown
	Column   int // 1-based token position on the line; 0 when unknown
}

// NewError creates a new error diagnostic
func NewError(title, message string) Diagnostic {
	return Diagnostic{Severity: Error, Title: title, Message: message}
}

// NewWarning creates a new warning diagnostic
func NewWarning(title, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Title: title, Message: message}
}

// At anchors the diagnostic to a position.
func (d Diagnostic) At(line, column int) Diagnostic {
	d.Line, d.Column = line, column
	return d
}

// WithCause attaches the source excerpt.
func (d Diagnostic) WithCause(cause string) Diagnostic {
	d.Cause = cause
	return d
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Title, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Title, d.Message)
}
