// Package config loads espresso.yaml, the per-project compiler settings.
//
// Example:
//
//	target: html
//	output: build/app.html
//	entry: main
//	app_root: app-root
//	annotations: enforce
//	log_level: info
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/espressolang/espresso/internal/backend"
	"github.com/espressolang/espresso/internal/checker"
)

// FileNames are the names Find looks for, in order
var FileNames = []string{"espresso.yaml", "espresso.yml"}

// Config holds the compiler settings
type Config struct {
	Target      string `yaml:"target"`
	Output      string `yaml:"output,omitempty"`
	Entry       string `yaml:"entry"`
	AppRoot     string `yaml:"app_root"`
	Annotations string `yaml:"annotations"`
	LogLevel    string `yaml:"log_level"`

	// Path is the file the config was loaded from, empty for defaults
	Path string `yaml:"-"`
}

// Default returns the settings used when no config file exists
func Default() *Config {
	return &Config{
		Target:      "js",
		Entry:       "main",
		AppRoot:     "app-root",
		Annotations: checker.AnnotationsEnforce.String(),
		LogLevel:    "info",
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates a config file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	return Parse(data, path)
}

// Parse decodes config content. The path is used for messages only.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find searches for a config file starting from dir and walking up to
// parent directories. It returns an empty path and nil error when none
// exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "config: resolving directory")
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFor returns the config governing source files in dir, or the
// defaults when no config file is found
func LoadFor(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	errs := ValidationError{Path: c.Path}

	if _, err := backend.Lookup(c.Target); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("target %q is not one of %v", c.Target, backend.Names()))
	}
	if c.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	} else if !identPattern.MatchString(c.Entry) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is not a valid function name", c.Entry))
	}
	if strings.TrimSpace(c.AppRoot) == "" {
		errs.Issues = append(errs.Issues, "app_root must be provided")
	} else if strings.ContainsAny(c.AppRoot, " \t\"'<>") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("app_root %q is not a valid element id", c.AppRoot))
	}
	if _, err := checker.ParseAnnotationMode(c.Annotations); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("annotations: %v", err))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level: %v", err))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// AnnotationMode returns the parsed annotations setting
func (c *Config) AnnotationMode() checker.AnnotationMode {
	mode, err := checker.ParseAnnotationMode(c.Annotations)
	if err != nil {
		return checker.AnnotationsEnforce
	}
	return mode
}

// Level returns the parsed log level
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel parses debug, info, warn or error; empty means info
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown level %q", s)
	}
}

// OutputPath returns where output for the given input should be written:
// the configured output, resolved against the config file's directory,
// or the input path with the target's extension
func (c *Config) OutputPath(input string) (string, error) {
	b, err := backend.Lookup(c.Target)
	if err != nil {
		return "", err
	}
	if c.Output != "" {
		if filepath.IsAbs(c.Output) || c.Path == "" {
			return c.Output, nil
		}
		return filepath.Join(filepath.Dir(c.Path), c.Output), nil
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + b.Extension(), nil
}
