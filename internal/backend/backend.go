package backend

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/espressolang/espresso/internal/ast"
)

// Options carries the settings every backend understands
type Options struct {
	Entry   string // entry function name
	AppRoot string // id of the mount element
	Title   string // page title, html only
}

// Backend is the interface that all code generation backends implement.
type Backend interface {
	// Name returns the backend name (e.g., "js", "html")
	Name() string
	// Extension returns the output file extension including the dot
	Extension() string
	// Generate produces output source code from a checked module.
	Generate(mod *ast.Module, opts Options) string
}

var backends = map[string]Backend{
	"js":   &JSBackend{},
	"html": &HTMLBackend{},
}

// Lookup returns the backend registered for target
func Lookup(target string) (Backend, error) {
	b, ok := backends[target]
	if !ok {
		return nil, errors.Errorf("unknown target %q (available: %v)", target, Names())
	}
	return b, nil
}

// Names lists the registered targets in sorted order
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
