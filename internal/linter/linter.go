package linter

import (
	"strings"
	"unicode"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/checker"
	"github.com/espressolang/espresso/internal/diagnostic"
)

// Linter performs style and best-practice checks on a module.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	mod   *ast.Module
	diag  *diagnostic.Diagnostics
	entry string

	functions map[string]*ast.Function
	called    map[string]bool // functions referenced from another function
	current   *ast.Function
	scope     *scope
}

// Option configures a lint run
type Option func(*Linter)

// WithEntry names the entry function, which is exempt from the
// never-called rule. The default is "main".
func WithEntry(name string) Option {
	return func(l *Linter) {
		l.entry = name
	}
}

// binding is a local name and whether anything read it
type binding struct {
	name   string
	kind   checker.SymbolKind
	used   bool
	line   int
	column int
}

type scope struct {
	parent   *scope
	bindings map[string]*binding
	order    []*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]*binding)}
}

func (s *scope) resolve(name string) *binding {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Lint runs all lint rules on the given module and returns diagnostics.
func Lint(mod *ast.Module, opts ...Option) *diagnostic.Diagnostics {
	l := &Linter{
		mod:       mod,
		diag:      diagnostic.New(),
		entry:     "main",
		functions: make(map[string]*ast.Function),
		called:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, fn := range mod.Functions() {
		if _, exists := l.functions[fn.Name]; !exists {
			l.functions[fn.Name] = fn
		}
	}

	l.lintFunctions()
	l.checkUncalledFunctions()

	return l.diag
}

// lintFunctions checks all top-level functions.
func (l *Linter) lintFunctions() {
	for _, fn := range l.mod.Functions() {
		l.current = fn
		l.checkEmptyFunctionBody(fn)
		l.checkFunctionNaming(fn.Name, fn.Line, fn.Column)

		l.scope = newScope(nil)
		for _, p := range fn.Params {
			l.checkTypeRef(p.Type)
			l.declare(p.Name, checker.SymParam, p.Line, p.Column)
		}
		l.checkTypeRef(fn.ReturnType)

		l.lintBlock(fn.Body)
		l.checkUnused(l.scope)
	}
	l.current = nil
}

// --- Lint rules ---

// checkEmptyFunctionBody warns if a function body has no expressions.
func (l *Linter) checkEmptyFunctionBody(fn *ast.Function) {
	if fn.Body == nil || len(fn.Body.Exprs) == 0 {
		l.diag.Warningf(fn.Line, fn.Column, "function '%s' has an empty body", fn.Name)
	}
}

// checkFunctionNaming warns if a function name is not snake_case.
func (l *Linter) checkFunctionNaming(name string, line, col int) {
	if !isSnakeCase(name) {
		l.diag.Warningf(line, col,
			"function '%s' should use snake_case naming", name)
	}
}

// checkTypeRef warns about annotations naming no known type. The checker
// rejects these only when annotations are enforced.
func (l *Linter) checkTypeRef(ref *ast.TypeRef) {
	if ref == nil {
		return
	}
	if _, ok := checker.LookupTypeName(ref.Name); !ok {
		l.diag.Warningf(ref.Line, ref.Column,
			"unknown type '%s' (known types: Bool, Integer, Unit)", ref.Name)
	}
}

// checkUnused warns about bindings of a scope that were never read.
func (l *Linter) checkUnused(s *scope) {
	for _, b := range s.order {
		if b.used {
			continue
		}
		switch b.kind {
		case checker.SymParam:
			l.diag.Warningf(b.line, b.column,
				"parameter '%s' in '%s' is never used", b.name, l.current.Name)
		case checker.SymLet:
			l.diag.Warningf(b.line, b.column,
				"variable '%s' is declared but never used", b.name)
		}
	}
}

// checkUncalledFunctions warns about private functions nothing else
// references. Public functions and the entry are reachable from outside.
func (l *Linter) checkUncalledFunctions() {
	for _, fn := range l.mod.Functions() {
		if fn.IsPublic || fn.Name == l.entry || l.called[fn.Name] {
			continue
		}
		if l.functions[fn.Name] != fn {
			continue // duplicate, reported by the checker
		}
		l.diag.Warningf(fn.Line, fn.Column,
			"function '%s' is never called", fn.Name)
	}
}

// --- Walking ---

// declare binds a name in the current scope, warning when it hides
// another binding
func (l *Linter) declare(name string, kind checker.SymbolKind, line, col int) {
	if kind == checker.SymLet {
		if prev := l.scope.resolve(name); prev != nil {
			l.diag.Warningf(line, col,
				"let binding '%s' shadows %s declared at %d:%d", name, prev.kind, prev.line, prev.column)
		} else if fn, ok := l.functions[name]; ok {
			l.diag.Warningf(line, col,
				"let binding '%s' shadows function declared at %d:%d", name, fn.Line, fn.Column)
		}
	}

	// a rebound name keeps its earlier binding in order, so both are
	// checked for use when the scope closes
	b := &binding{name: name, kind: kind, line: line, column: col}
	l.scope.bindings[name] = b
	l.scope.order = append(l.scope.order, b)
}

func (l *Linter) reference(name string) {
	if b := l.scope.resolve(name); b != nil {
		b.used = true
		return
	}
	if _, ok := l.functions[name]; ok && name != l.current.Name {
		l.called[name] = true
	}
}

func (l *Linter) lintBlock(block *ast.Block) {
	if block == nil {
		return
	}
	for i, expr := range block.Exprs {
		discarded := i < len(block.Exprs)-1 || block.TrailingSemi
		if discarded && hasNoEffect(expr) {
			line, col := expr.Pos()
			l.diag.Warningf(line, col, "expression result is discarded and has no effect")
		}
		l.lintExpr(expr)
	}
}

// lintNestedBlock walks a branch in its own scope
func (l *Linter) lintNestedBlock(block *ast.Block) {
	outer := l.scope
	l.scope = newScope(outer)
	l.lintBlock(block)
	l.checkUnused(l.scope)
	l.scope = outer
}

func (l *Linter) lintExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		l.reference(e.Name)

	case *ast.CallExpr:
		l.reference(e.Callee)
		for _, arg := range e.Args {
			l.lintExpr(arg)
		}

	case *ast.LetExpr:
		l.lintExpr(e.Value)
		l.checkTypeRef(e.Type)
		l.declare(e.Name, checker.SymLet, e.Line, e.Column)

	case *ast.BinaryExpr:
		l.lintExpr(e.Left)
		l.lintExpr(e.Right)
		if lit, ok := e.Right.(*ast.IntLit); ok && e.Op == ast.OpDiv && lit.Value == 0 {
			l.diag.Warningf(e.Line, e.Column, "division by zero")
		}

	case *ast.IfExpr:
		if lit, ok := e.Cond.(*ast.BoolLit); ok {
			l.diag.Warningf(e.Line, e.Column, "if condition is always %t", lit.Value)
		}
		l.lintExpr(e.Cond)
		l.lintNestedBlock(e.Then)
		l.lintNestedBlock(e.Else)
	}
}

// hasNoEffect reports whether evaluating expr can only produce a value
func hasNoEffect(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Ident:
		return true
	case *ast.BinaryExpr:
		return hasNoEffect(e.Left) && hasNoEffect(e.Right)
	default:
		return false
	}
}

// --- Naming convention helpers ---

// isSnakeCase returns true if the name follows snake_case conventions:
// lowercase letters, digits, and underscores only, not starting with a digit.
func isSnakeCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLower(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return !strings.Contains(name, "__")
}
