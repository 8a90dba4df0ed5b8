package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/espressolang/espresso/internal/checker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Target != "js" || cfg.Entry != "main" || cfg.AppRoot != "app-root" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.AnnotationMode() != checker.AnnotationsEnforce {
		t.Errorf("expected enforced annotations by default")
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("expected info level by default")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
target: html
output: build/app.html
entry: start
annotations: advisory
log_level: debug
`), "espresso.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Target != "html" || cfg.Output != "build/app.html" || cfg.Entry != "start" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.AppRoot != "app-root" {
		t.Errorf("unset app_root should keep default, got %q", cfg.AppRoot)
	}
	if cfg.AnnotationMode() != checker.AnnotationsAdvisory {
		t.Errorf("expected advisory annotations")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil, "espresso.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target != "js" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("targt: js\n"), "espresso.yaml")
	if err == nil || !strings.Contains(err.Error(), "parsing espresso.yaml") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	_, err := Parse([]byte(`
target: wasm
entry: "1main"
app_root: "bad id"
annotations: strict
log_level: loud
`), "espresso.yaml")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 5 {
		t.Errorf("expected 5 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
	for _, want := range []string{"target \"wasm\"", "entry \"1main\"", "app_root", "annotations", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
	if !strings.HasPrefix(err.Error(), "config validation failed for espresso.yaml:") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config: reading") {
		t.Fatalf("expected read error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "espresso.yml"), "target: html\n")
	nested := filepath.Join(root, "src", "pages")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "espresso.yml" {
		t.Errorf("expected espresso.yml, got %q", path)
	}

	cfg, err := LoadFor(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Target != "html" {
		t.Errorf("expected html target, got %q", cfg.Target)
	}
}

func TestLoadForWithoutFile(t *testing.T) {
	cfg, err := LoadFor(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Target != "js" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	got, err := cfg.OutputPath(filepath.Join(dir, "app.es"))
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "app.js") {
		t.Errorf("got %q", got)
	}

	cfg.Target = "html"
	cfg.Output = "out/index.html"
	cfg.Path = filepath.Join(dir, "espresso.yaml")
	got, err = cfg.OutputPath(filepath.Join(dir, "src", "app.es"))
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "out", "index.html") {
		t.Errorf("got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
