package backend

import (
	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/jsbe"
)

// JSBackend wraps the jsbe as a Backend implementation.
type JSBackend struct{}

// Name returns the backend name.
func (b *JSBackend) Name() string {
	return "js"
}

// Extension returns ".js".
func (b *JSBackend) Extension() string {
	return ".js"
}

// Generate produces JavaScript source code from a module.
func (b *JSBackend) Generate(mod *ast.Module, opts Options) string {
	return jsbe.Generate(mod, jsbe.Options{Entry: opts.Entry, AppRoot: opts.AppRoot})
}
