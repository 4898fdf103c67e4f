package compiler

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"junon/pkg/diagnostics"
)

func TestCompile(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	unit, err := Compile(validProgram, "main.ju", Options{Logger: logger, Strict: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if unit.Path != "main.ju" {
		t.Errorf("Path = %q", unit.Path)
	}
	if len(unit.Tokens) == 0 || unit.Tokens[len(unit.Tokens)-1].Type != NEWLINE {
		t.Errorf("Tokens do not end with NEWLINE: %v", unit.Tokens)
	}
	if len(unit.Diagnostics) != 0 || unit.HasErrors() {
		t.Errorf("Diagnostics = %v", unit.Diagnostics)
	}
	if len(unit.Elements) != 1 {
		t.Fatalf("Elements = %v, want one Function", unit.Elements)
	}
	if _, ok := unit.Elements[0].(*Function); !ok {
		t.Errorf("Elements[0] = %T, want *Function", unit.Elements[0])
	}
	if unit.Slots.Len() != 2 {
		t.Errorf("Slots.Len() = %d, want 2", unit.Slots.Len())
	}

	out := logs.String()
	for _, want := range []string{"msg=tokenized", "msg=checked", "msg=parsed", `msg="slots assigned"`, "file=main.ju"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestCompileDiagnostics(t *testing.T) {
	var rendered bytes.Buffer
	unit, err := Compile("5 + 5\n", "sum.ju", Options{Diagnostics: &rendered, Renderer: diagnostics.NewRenderer(false)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !unit.HasErrors() || len(unit.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %v, want one error", unit.Diagnostics)
	}
	if len(unit.Elements) != 1 {
		t.Errorf("a checker error must not stop parsing: Elements = %v", unit.Elements)
	}
	if !strings.Contains(rendered.String(), "sum.ju:1:1") {
		t.Errorf("rendered output:\n%s", rendered.String())
	}
}

func TestCompileParseError(t *testing.T) {
	unit, err := Compile("fun main {\n  ret 1\n", "broken.ju", Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v does not wrap a *ParseError", err)
	}
	if !strings.HasPrefix(err.Error(), "broken.ju: ") {
		t.Errorf("error %q does not name the file", err)
	}
	if unit == nil || len(unit.Tokens) == 0 || unit.Elements != nil {
		t.Errorf("unit = %+v, want tokens but no elements", unit)
	}
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.ju")
	if err := os.WriteFile(path, []byte("let a: int = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	unit, err := CompileFile(path, Options{})
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if unit.Path != path || len(unit.Elements) != 1 {
		t.Errorf("unit = %+v", unit)
	}

	if _, err := CompileFile(filepath.Join(t.TempDir(), "missing.ju"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
