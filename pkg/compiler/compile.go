package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"junon/pkg/diagnostics"
)

// Options controls one Compile run.
type Options struct {
	// Logger receives stage progress at debug level. Nil discards it.
	Logger *slog.Logger
	// Strict enables Rule matching in the syntax checker.
	Strict bool
	// Diagnostics, when set, receives the rendered checker output.
	Diagnostics io.Writer
	Renderer    *diagnostics.Renderer
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Unit is everything the front end knows about one source file.
type Unit struct {
	Path        string
	Tokens      []Token
	Diagnostics []diagnostics.Diagnostic
	Elements    []Element
	Slots       *SlotTable
}

// HasErrors reports whether the checker found an error (warnings aside).
func (u *Unit) HasErrors() bool {
	for _, d := range u.Diagnostics {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}

// Compile runs src through every front-end stage:
//
//	Tokenize -> Check -> Parse -> AssignSlots
//
// Checker diagnostics never stop the run; they are returned on the Unit. A
// structural parse failure is returned as an error wrapping a *ParseError,
// together with the Unit built so far.
func Compile(src, path string, opts Options) (*Unit, error) {
	log := opts.logger().With("file", path)
	unit := &Unit{Path: path}

	unit.Tokens = Tokenize(src)
	log.Debug("tokenized", "tokens", len(unit.Tokens))

	checker := NewSyntaxChecker(src, unit.Tokens, CheckOptions{
		File:     path,
		Strict:   opts.Strict,
		Output:   opts.Diagnostics,
		Renderer: opts.Renderer,
		Logger:   log,
	})
	unit.Diagnostics = checker.Run()
	log.Debug("checked",
		"errors", checker.Log().ErrorCount(),
		"warnings", checker.Log().WarningCount())

	elements, err := Parse(unit.Tokens)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return unit, fmt.Errorf("%s: %w", path, err)
	}
	unit.Elements = elements
	log.Debug("parsed", "elements", len(elements))

	unit.Slots = AssignSlots(elements)
	log.Debug("slots assigned", "variables", unit.Slots.Len())

	return unit, nil
}

// CompileFile reads path and compiles it.
func CompileFile(path string, opts Options) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Compile(string(src), path, opts)
}
