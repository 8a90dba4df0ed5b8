package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/backend"
	"github.com/espressolang/espresso/internal/compiler"
	"github.com/espressolang/espresso/internal/config"
	"github.com/espressolang/espresso/internal/diagnostic"
	"github.com/espressolang/espresso/internal/formatter"
	"github.com/espressolang/espresso/internal/parser"
)

const usageTemplate = `espressoc - The EspressoScript compiler

Usage:
  espressoc build [options] <file.es>      Type-check and generate output
  espressoc check [options] <file|dir>     Parse and type-check only
  espressoc lint [options] <file|dir>      Run lint checks for style/best practices
  espressoc fmt [-w] <file.es>             Print (or rewrite) canonical source
  espressoc parse [-dump] <file.es>        Print the syntax tree

Options:
  -target <name>   Output target (%s); overrides espresso.yaml
  -o <path>        Output file; overrides espresso.yaml
  -config <path>   Use this config file instead of searching for espresso.yaml
  -v               Verbose logging (debug level)
  -w               fmt: write the result back to the file
  -dump            parse: dump the raw tree structure

Configuration:
  espresso.yaml is looked up from the input's directory upwards. It sets
  target, output, entry, app_root, annotations (enforce or advisory) and
  log_level.

Examples:
  espressoc build app.es                  Write app.js
  espressoc build -target html app.es     Write app.html
  espressoc check src/                    Check every .es file under src/
  espressoc fmt -w app.es                 Format app.es in place
`

var usage = fmt.Sprintf(usageTemplate, strings.Join(backend.Names(), ", "))

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		handleBuild(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "parse":
		handleParse(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// cliArgs holds the options shared by all commands
type cliArgs struct {
	target     string
	output     string
	configPath string
	verbose    bool
	write      bool
	dump       bool
	path       string
}

// parseArgs accepts options with one or two leading dashes. allowed
// lists the options the command understands.
func parseArgs(args []string, allowed ...string) cliArgs {
	var a cliArgs
	isAllowed := func(name string) bool {
		for _, n := range allowed {
			if n == name {
				return true
			}
		}
		return false
	}
	value := func(i *int, name string) string {
		if *i+1 >= len(args) {
			fatalf("Option -%s requires a value\n", name)
		}
		*i++
		return args[*i]
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			if a.path != "" {
				fatalf("Unexpected argument: %s\n", arg)
			}
			a.path = arg
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if !isAllowed(name) {
			fatalf("Unknown option: %s\n", arg)
		}
		switch name {
		case "target":
			a.target = value(&i, name)
		case "o":
			a.output = value(&i, name)
		case "config":
			a.configPath = value(&i, name)
		case "v":
			a.verbose = true
		case "w":
			a.write = true
		case "dump":
			a.dump = true
		}
	}

	if a.path == "" {
		fatalf("Error: no input file specified\n")
	}
	return a
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// loadConfig resolves the config for the input and applies command line
// overrides
func loadConfig(a cliArgs) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		dir := a.path
		if info, statErr := os.Stat(a.path); statErr == nil && !info.IsDir() {
			dir = filepath.Dir(a.path)
		}
		cfg, err = config.LoadFor(dir)
	}
	if err != nil {
		fatalf("Error: %s\n", err)
	}

	if a.target != "" {
		cfg.Target = a.target
	}
	if a.output != "" {
		// relative to the working directory, not the config file
		cfg.Output, _ = filepath.Abs(a.output)
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Error: %s\n", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

func render(diags *diagnostic.Diagnostics, filename string) {
	if err := diags.Render(os.Stderr, filename, diagnostic.ColorEnabled(os.Stderr)); err != nil {
		fatalf("Error writing diagnostics: %s\n", err)
	}
}

func handleBuild(args []string) {
	a := parseArgs(args, "target", "o", "config", "v")
	cfg := loadConfig(a)
	logger := newLogger(cfg)

	logger.Debug("build: config", "path", cfg.Path, "target", cfg.Target, "annotations", cfg.Annotations)
	res, err := compiler.CompileFile(a.path, cfg, compiler.WithLogger(logger))
	if err != nil {
		fatalf("Error: %s\n", err)
	}
	render(res.Diagnostics, a.path)
	if res.Failed() {
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", res.OutputPath)
}

func handleCheck(args []string) {
	a := parseArgs(args, "config", "v")
	cfg := loadConfig(a)
	logger := newLogger(cfg)

	project, err := compiler.Discover(a.path)
	if err != nil {
		fatalf("Error: %s\n", err)
	}
	results, err := project.Check(cfg, compiler.WithLogger(logger))
	if err != nil {
		fatalf("Error: %s\n", err)
	}
	for _, r := range results {
		render(r.Diagnostics, r.Path)
	}
	if compiler.HasErrors(results) {
		os.Exit(1)
	}
	if len(results) == 1 {
		fmt.Printf("%s: OK\n", results[0].Path)
		return
	}
	fmt.Printf("%d files: OK\n", len(results))
}

func handleLint(args []string) {
	a := parseArgs(args, "config", "v")
	cfg := loadConfig(a)

	project, err := compiler.Discover(a.path)
	if err != nil {
		fatalf("Error: %s\n", err)
	}
	results, err := project.Lint(cfg)
	if err != nil {
		fatalf("Error: %s\n", err)
	}

	warnings := 0
	for _, r := range results {
		render(r.Diagnostics, r.Path)
		warnings += r.Diagnostics.WarningCount()
	}
	if compiler.HasErrors(results) {
		os.Exit(1)
	}
	if warnings == 0 {
		fmt.Println("No lint warnings")
	}
}

func handleFmt(args []string) {
	a := parseArgs(args, "w")
	mod := parseFile(a.path)
	formatted := formatter.Format(mod)

	if !a.write {
		fmt.Print(formatted)
		return
	}
	if err := os.WriteFile(a.path, []byte(formatted), 0644); err != nil {
		fatalf("Error writing file: %s\n", err)
	}
	fmt.Printf("Formatted %s\n", a.path)
}

func handleParse(args []string) {
	a := parseArgs(args, "dump")
	mod := parseFile(a.path)

	if a.dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(os.Stdout, mod)
		return
	}
	fmt.Print(ast.Print(mod))
}

// parseFile reads and parses a single source file, exiting on errors
func parseFile(path string) *ast.Module {
	source, err := os.ReadFile(path)
	if err != nil {
		fatalf("Error reading file: %s\n", err)
	}
	p := parser.New(string(source))
	mod := p.Parse()
	if p.Diagnostics().HasErrors() {
		render(p.Diagnostics(), path)
		os.Exit(1)
	}
	return mod
}

