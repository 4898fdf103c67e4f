package diagnostics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogCounts(t *testing.T) {
	log := NewLog("main.ju")
	if log.HasErrors() {
		t.Fatal("empty log reports errors")
	}

	log.Add(NewWarning("Unrecognized instruction", "no rule matches 'print'").At(2, 1))
	if log.HasErrors() {
		t.Error("a warning must not count as an error")
	}
	log.Add(NewError("Invalid token", "No valid instruction found for token '5'").At(1, 1))

	if !log.HasErrors() {
		t.Error("HasErrors() = false after adding an error")
	}
	if log.ErrorCount() != 1 || log.WarningCount() != 1 {
		t.Errorf("counts = %d errors, %d warnings; want 1 and 1", log.ErrorCount(), log.WarningCount())
	}

	ds := log.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("len(Diagnostics()) = %d, want 2", len(ds))
	}
	if ds[0].Severity != Warning || ds[1].Severity != Error {
		t.Errorf("diagnostics out of order: %v", ds)
	}
	if ds[0].File != "main.ju" {
		t.Errorf("File = %q, want the log's file", ds[0].File)
	}
}

func TestFlushOnce(t *testing.T) {
	log := NewLog("")
	log.Add(NewError("Invalid token", "No valid instruction found for token '5'").
		At(1, 1).
		WithCause("5 + 5\n^"))

	var buf bytes.Buffer
	r := NewRenderer(false)
	if err := log.Flush(&buf, r); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"error[Invalid token]: No valid instruction found for token '5'",
		"  --> <source>:1:1",
		"   | 5 + 5",
		"   | ^",
		"<source>: 1 error(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if !log.Flushed() {
		t.Error("Flushed() = false after Flush")
	}
	buf.Reset()
	if err := log.Flush(&buf, r); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("second Flush wrote %q", buf.String())
	}
}

func TestFlushEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLog("a.ju").Flush(&buf, NewRenderer(false)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty log wrote %q", buf.String())
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{Error, "error"},
		{Warning, "warning"},
		{Info, "info"},
		{Severity(9), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tc.s, got, tc.want)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := NewError("Invalid token", "bad").At(3, 2)
	d.File = "x.ju"
	if got, want := d.String(), "x.ju:3:2: error: Invalid token: bad"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestFlushWriteError(t *testing.T) {
	log := NewLog("main.ju")
	log.Add(NewError("Invalid token", "No valid instruction found for token '5'").At(1, 1))

	err := log.Flush(failingWriter{}, NewRenderer(false))
	if err == nil {
		t.Fatal("Flush to a failing writer returned nil")
	}
	if log.FlushErr() != err {
		t.Errorf("FlushErr() = %v, want %v", log.FlushErr(), err)
	}
	if len(log.Diagnostics()) != 1 {
		t.Errorf("diagnostics lost after a failed Flush: %v", log.Diagnostics())
	}

	if err := NewLog("a.ju").FlushErr(); err != nil {
		t.Errorf("FlushErr() before Flush = %v", err)
	}
}
