package compiler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/espressolang/espresso/internal/config"
	"github.com/espressolang/espresso/internal/diagnostic"
)

// SourceExt is the extension of EspressoScript source files
const SourceExt = ".es"

// Project is a set of source files rooted at a directory. Each file is
// an independent module; files share configuration, not names.
type Project struct {
	Root  string
	Files []string // sorted, relative to Root
}

// FileResult pairs a source file with the diagnostics produced for it
type FileResult struct {
	Path        string
	Diagnostics *diagnostic.Diagnostics
}

// Discover builds a project from path. A file path yields a one-file
// project; a directory is walked for source files, skipping hidden
// directories.
func Discover(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	if !info.IsDir() {
		return &Project{Root: filepath.Dir(path), Files: []string{filepath.Base(path)}}, nil
	}

	p := &Project{Root: path}
	err = filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if file != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(file) != SourceExt {
			return nil
		}
		rel, err := filepath.Rel(path, file)
		if err != nil {
			return err
		}
		p.Files = append(p.Files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", path)
	}
	if len(p.Files) == 0 {
		return nil, errors.Errorf("no %s files found in %s", SourceExt, path)
	}
	sort.Strings(p.Files)
	return p, nil
}

// Paths returns the project's files joined with its root
func (p *Project) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = filepath.Join(p.Root, f)
	}
	return paths
}

// Check type-checks every file in the project
func (p *Project) Check(cfg *config.Config, opts ...Option) ([]FileResult, error) {
	return p.each(func(source string) *diagnostic.Diagnostics {
		return Check(source, cfg, opts...)
	})
}

// Lint lints every file in the project
func (p *Project) Lint(cfg *config.Config) ([]FileResult, error) {
	return p.each(func(source string) *diagnostic.Diagnostics {
		return Lint(source, cfg)
	})
}

func (p *Project) each(run func(source string) *diagnostic.Diagnostics) ([]FileResult, error) {
	results := make([]FileResult, 0, len(p.Files))
	for _, path := range p.Paths() {
		source, err := os.ReadFile(path)
		if err != nil {
			return results, errors.Wrapf(err, "reading %s", path)
		}
		results = append(results, FileResult{Path: path, Diagnostics: run(string(source))})
	}
	return results, nil
}

// HasErrors reports whether any result carries an error diagnostic
func HasErrors(results []FileResult) bool {
	for _, r := range results {
		if r.Diagnostics.HasErrors() {
			return true
		}
	}
	return false
}
