package checker

import (
	"log/slog"

	"github.com/espressolang/espresso/internal/ast"
)

// Checker type-checks modules. It owns one constraint graph and one root
// scope; use a fresh Checker per independent check.
type Checker struct {
	engine *Engine
	root   *Scope
	mode   AnnotationMode
	logger *slog.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithLogger sets the logger used for debug traces of the graph
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithAnnotations selects how type annotations are treated
func WithAnnotations(mode AnnotationMode) Option {
	return func(c *Checker) {
		c.mode = mode
	}
}

// New creates a Checker with an empty graph and root scope
func New(opts ...Option) *Checker {
	c := &Checker{mode: AnnotationsEnforce}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = discardLogger()
	}
	c.engine = NewEngine(c.logger)
	c.root = NewScope(nil)
	return c
}

// CheckModule returns nil if mod type-checks, otherwise the first error
// found as an *Error
func (c *Checker) CheckModule(mod *ast.Module) error {
	err := CheckModule(c.engine, c.root, mod, c.mode)

	stats := c.engine.Stats()
	c.logger.Debug("check: module done",
		"functions", len(mod.Functions()),
		"values", stats.Values,
		"uses", stats.Uses,
		"vars", stats.Vars,
		"flows", stats.Flows,
		"ok", err == nil,
	)
	return err
}

// Engine exposes the underlying constraint graph
func (c *Checker) Engine() *Engine {
	return c.engine
}

// Scope returns the root scope holding the top-level function names
func (c *Checker) Scope() *Scope {
	return c.root
}

// Check type-checks mod with a fresh Checker
func Check(mod *ast.Module, opts ...Option) error {
	return New(opts...).CheckModule(mod)
}
