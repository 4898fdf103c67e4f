package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"junon.toml", FormatTOML},
		{"junon.yaml", FormatYAML},
		{"JUNON.YML", FormatYAML},
		{"junon", FormatTOML},
	}
	for _, tc := range tests {
		if got := detectFormat(tc.path); got != tc.want {
			t.Errorf("detectFormat(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	want := &Config{
		Check:  CheckConfig{Strict: true},
		Log:    LogConfig{Level: "debug", Format: "text", File: "junonc.log"},
		Output: OutputConfig{Color: false},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			"TOML",
			"junon.toml",
			`
[check]
strict = true

[log]
level = "debug"
format = "text"
file = "junonc.log"

[output]
color = false
`,
		},
		{
			"YAML",
			"junon.yaml",
			`
check:
  strict: true
log:
  level: debug
  format: text
  file: junonc.log
output:
  color: false
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tc.file, tc.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(cfg, want) {
				t.Errorf("Load = %+v, want %+v", cfg, want)
			}
		})
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "junon.toml", "[check]\nstrict = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Log != def.Log || cfg.Output != def.Output {
		t.Errorf("unset sections changed: %+v", cfg)
	}
	if !cfg.Check.Strict {
		t.Error("check.strict not applied")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing file: expected an error")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[check\n")); err == nil {
		t.Error("malformed TOML: expected an error")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "log:\n  level: loud\n")); err == nil {
		t.Error("unknown level: expected an error")
	}
}

func TestLoadDefaultFileMissing(t *testing.T) {
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without %s: %v", DefaultFile, err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}
