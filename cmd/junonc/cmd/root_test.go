package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color", "--config", filepath.Join(t.TempDir(), "none.toml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.ju", "fun main {\n  let a: int = 5\n  ret a\n}\n")
	bad := writeSource(t, dir, "bad.ju", "5 + 5\n")
	broken := writeSource(t, dir, "broken.ju", "fun main {\n  ret 1\n")

	// An explicit config path that does not exist is an error; point the
	// commands at a real one instead.
	cfgPath := writeSource(t, dir, "junon.toml", "[output]\ncolor = false\n")
	runWithConfig := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--config", cfgPath))
		err := rootCmd.Execute()
		return out.String(), err
	}

	t.Run("tokens", func(t *testing.T) {
		out, err := runWithConfig("tokens", good)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out, "Tokens (16)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("parse", func(t *testing.T) {
		out, err := runWithConfig("parse", "--slots", good)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"AST", "Function(main", "Offset: -8"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("check ok", func(t *testing.T) {
		out, err := runWithConfig("check", good)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "good.ju: ok") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("check errors", func(t *testing.T) {
		out, err := runWithConfig("check", good, bad)
		if !errors.Is(err, errCheckFailed) {
			t.Fatalf("err = %v, want errCheckFailed", err)
		}
		if !strings.Contains(out, "error[Invalid token]") {
			t.Errorf("diagnostic not printed:\n%s", out)
		}
	})

	t.Run("build continues after a failure", func(t *testing.T) {
		out, err := runWithConfig("build", broken, good)
		if !errors.Is(err, errBuildFailed) {
			t.Fatalf("err = %v, want errBuildFailed", err)
		}
		if !strings.Contains(out, "good.ju: 1 element(s), 1 variable(s)") {
			t.Errorf("good file not built:\n%s", out)
		}
	})

	t.Run("version", func(t *testing.T) {
		out, err := runWithConfig("version")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out, "junonc v"+Version) {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}

func TestMissingConfig(t *testing.T) {
	if _, err := run(t, "version"); err == nil {
		t.Error("explicit missing config: expected an error")
	}
}
