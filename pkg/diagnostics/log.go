package diagnostics

import (
	"fmt"
	"io"
)

const (
	checkFailedMsg  = "%s: %d error(s)"
	andWarningMsg   = " and %d warning(s)"
	checkWarnedMsg  = "%s: %d warning(s)"
	fileUnknownName = "<source>"
)

// Log accumulates the diagnostics of one check run. It is appended to while
// the run goes on and flushed once at the end.
type Log struct {
	file        string
	diagnostics []Diagnostic
	errorCount  int
	warnCount   int
	flushed     bool
	flushErr    error
}

// NewLog creates an empty log for the named file.
func NewLog(file string) *Log {
	if file == "" {
		file = fileUnknownName
	}
	return &Log{file: file}
}

// Add appends d. The log's file name is filled in when d has none.
func (l *Log) Add(d Diagnostic) {
	if d.File == "" {
		d.File = l.file
	}
	l.diagnostics = append(l.diagnostics, d)

	switch d.Severity {
	case Error:
		l.errorCount++
	case Warning:
		l.warnCount++
	}
}

// Diagnostics returns everything added so far, in order.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// HasErrors returns true if there are any errors
func (l *Log) HasErrors() bool {
	return l.errorCount > 0
}

func (l *Log) ErrorCount() int   { return l.errorCount }
func (l *Log) WarningCount() int { return l.warnCount }

// Flushed reports whether Flush already ran.
func (l *Log) Flushed() bool {
	return l.flushed
}

// Flush renders every diagnostic to w followed by a summary line. Only the
// first call writes anything. A write error is also kept for FlushErr.
func (l *Log) Flush(w io.Writer, r *Renderer) error {
	if l.flushed {
		return nil
	}
	l.flushed = true
	l.flushErr = l.write(w, r)
	return l.flushErr
}

// FlushErr returns the write error of the first Flush, if any.
func (l *Log) FlushErr() error {
	return l.flushErr
}

func (l *Log) write(w io.Writer, r *Renderer) error {
	if len(l.diagnostics) == 0 {
		return nil
	}
	for _, d := range l.diagnostics {
		if _, err := io.WriteString(w, r.Render(d)); err != nil {
			return err
		}
	}

	var summary string
	if l.errorCount > 0 {
		summary = fmt.Sprintf(checkFailedMsg, l.file, l.errorCount)
		if l.warnCount > 0 {
			summary += fmt.Sprintf(andWarningMsg, l.warnCount)
		}
	} else {
		summary = fmt.Sprintf(checkWarnedMsg, l.file, l.warnCount)
	}
	_, err := fmt.Fprintln(w, r.Summary(summary, l.errorCount > 0))
	return err
}
