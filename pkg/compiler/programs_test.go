package compiler

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestPrograms compiles every sample under testdata. Files named invalid_*
// must produce checker errors; every other file must compile cleanly in
// strict mode.
func TestPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.ju"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no sample programs found")
	}

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			unit, err := CompileFile(path, Options{Strict: true})
			if err != nil {
				t.Fatalf("CompileFile: %v", err)
			}
			if len(unit.Elements) == 0 {
				t.Error("no elements parsed")
			}

			if strings.HasPrefix(name, "invalid_") {
				if !unit.HasErrors() {
					t.Errorf("expected checker errors, got %v", unit.Diagnostics)
				}
				return
			}
			if len(unit.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", unit.Diagnostics)
			}
		})
	}
}
