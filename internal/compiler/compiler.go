package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/backend"
	"github.com/espressolang/espresso/internal/checker"
	"github.com/espressolang/espresso/internal/config"
	"github.com/espressolang/espresso/internal/diagnostic"
	"github.com/espressolang/espresso/internal/linter"
	"github.com/espressolang/espresso/internal/parser"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Module      *ast.Module
	Output      string
	OutputPath  string // set by CompileFile once written
}

// Failed reports whether compilation produced errors
func (r *Result) Failed() bool {
	return r.Diagnostics != nil && r.Diagnostics.HasErrors()
}

// Option configures a pipeline run
type Option func(*options)

type options struct {
	logger *slog.Logger
	title  string
}

// WithLogger sets the logger for pipeline and checker traces
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTitle sets the page title used by the html target
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Compile runs the full pipeline: parse -> check -> generate.
// Returns the result without writing files.
func Compile(source string, cfg *config.Config, opts ...Option) *Result {
	o := newOptions(opts)
	if cfg == nil {
		cfg = config.Default()
	}

	res := &Result{}
	res.Module, res.Diagnostics = check(source, cfg, o)
	if res.Diagnostics.HasErrors() {
		return res
	}

	b, err := backend.Lookup(cfg.Target)
	if err != nil {
		res.Diagnostics.Errorf(1, 1, "%s", err)
		return res
	}

	if !hasFunction(res.Module, cfg.Entry) {
		res.Diagnostics.Warningf(1, 1, "entry function '%s' not found; the output will not mount anything", cfg.Entry)
	}

	res.Output = b.Generate(res.Module, backend.Options{
		Entry:   cfg.Entry,
		AppRoot: cfg.AppRoot,
		Title:   o.title,
	})
	o.logger.Debug("compile: generated", "target", b.Name(), "bytes", len(res.Output))
	return res
}

// Check runs parse + check only (no codegen).
func Check(source string, cfg *config.Config, opts ...Option) *diagnostic.Diagnostics {
	if cfg == nil {
		cfg = config.Default()
	}
	_, diags := check(source, cfg, newOptions(opts))
	return diags
}

// Lint runs parse + lint. The module is not type-checked, so lint also
// works on modules the checker rejects.
func Lint(source string, cfg *config.Config) *diagnostic.Diagnostics {
	if cfg == nil {
		cfg = config.Default()
	}
	p := parser.New(source)
	mod := p.Parse()
	if p.Diagnostics().HasErrors() {
		return p.Diagnostics()
	}
	return linter.Lint(mod, linter.WithEntry(cfg.Entry))
}

func check(source string, cfg *config.Config, o *options) (*ast.Module, *diagnostic.Diagnostics) {
	p := parser.New(source)
	mod := p.Parse()
	if p.Diagnostics().HasErrors() {
		o.logger.Debug("compile: parse failed", "errors", len(p.Diagnostics().Errors()))
		return mod, p.Diagnostics()
	}
	o.logger.Debug("compile: parsed", "functions", len(mod.Functions()))

	diags := diagnostic.New()
	err := checker.Check(mod,
		checker.WithLogger(o.logger),
		checker.WithAnnotations(cfg.AnnotationMode()),
	)
	if err != nil {
		diags.Add(toDiagnostic(err))
	}
	return mod, diags
}

// toDiagnostic converts a checker error into a positioned error diagnostic
func toDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.Error,
		Message:  err.Error(),
		Line:     1,
		Column:   1,
	}

	var located *checker.Error
	if !errors.As(err, &located) {
		return d
	}
	d.Line, d.Column = located.Line, located.Column
	d.Message = located.Err.Error()
	if located.Note != "" {
		d.Message = fmt.Sprintf("%s (%s)", d.Message, located.Note)
	}

	var (
		unbound *checker.UnboundNameError
		unknown *checker.UnknownTypeError
		arity   *checker.ArityMismatchError
	)
	switch {
	case errors.As(err, &unbound):
		d.Hint = fmt.Sprintf("declare '%s' with let, as a parameter, or as a top-level function", unbound.Name)
	case errors.As(err, &unknown):
		d.Hint = "known types are Bool, Integer and Unit; set annotations: advisory to ignore annotations"
	case errors.As(err, &arity):
		d.Hint = fmt.Sprintf("pass exactly %d argument(s)", arity.Expected)
	}
	return d
}

func hasFunction(mod *ast.Module, name string) bool {
	for _, fn := range mod.Functions() {
		if fn.Name == name {
			return true
		}
	}
	return false
}

// CompileFile compiles the file at path and, when compilation succeeds,
// writes the output to cfg.OutputPath(path). Diagnostics are returned in
// the result; the error reports I/O failures only.
func CompileFile(path string, cfg *config.Config, opts ...Option) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res := Compile(string(source), cfg, append([]Option{WithTitle(title)}, opts...)...)
	if res.Failed() {
		return res, nil
	}

	outPath, err := cfg.OutputPath(path)
	if err != nil {
		return res, err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return res, errors.Wrapf(err, "creating output directory %s", dir)
		}
	}
	if err := os.WriteFile(outPath, []byte(res.Output), 0644); err != nil {
		return res, errors.Wrapf(err, "writing %s", outPath)
	}
	res.OutputPath = outPath
	newOptions(opts).logger.Info("compile: wrote output", "path", outPath)
	return res, nil
}
