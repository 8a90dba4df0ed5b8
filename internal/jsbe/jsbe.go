package jsbe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/espressolang/espresso/internal/ast"
)

const (
	DefaultEntry   = "main"
	DefaultAppRoot = "app-root"
)

// Options controls the emitted program
type Options struct {
	// Entry names the function whose result is mounted into the page.
	// Empty means DefaultEntry.
	Entry string
	// AppRoot is the id of the DOM element receiving the entry result.
	// Empty means DefaultAppRoot.
	AppRoot string
}

func (o Options) withDefaults() Options {
	if o.Entry == "" {
		o.Entry = DefaultEntry
	}
	if o.AppRoot == "" {
		o.AppRoot = DefaultAppRoot
	}
	return o
}

// Generate produces JavaScript source code from a checked module.
func Generate(mod *ast.Module, opts Options) string {
	opts = opts.withDefaults()
	g := &generator{functions: make(map[string]string)}

	fns := mod.Functions()
	taken := make(map[string]bool)
	for _, fn := range fns {
		if _, ok := g.functions[fn.Name]; !ok {
			g.functions[fn.Name] = unique(jsIdent(fn.Name), taken)
		}
	}

	g.emitLine("// Generated JavaScript code from EspressoScript")
	g.emitLine("")

	for _, fn := range fns {
		g.generateFunction(fn)
		g.emitLine("")
	}

	if entry, ok := g.functions[opts.Entry]; ok {
		g.emitLine("// Entry point invocation")
		g.emitLinef("document.getElementById(%s).innerHTML = %s(true);\n",
			strconv.Quote(opts.AppRoot), entry)
	}

	return g.sb.String()
}

type generator struct {
	sb        strings.Builder
	indent    int
	functions map[string]string // source name -> JS name

	// per function state
	used   map[string]bool     // JS names taken in the current function
	scopes []map[string]string // source name -> JS name
	frames []*frame
}

// frame is one emitted JS function body. Lets in value position are
// declared at its top.
type frame struct {
	hoisted []string
}

func (g *generator) emitLinef(format string, args ...any) {
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(fmt.Sprintf(format, args...))
}

func (g *generator) emitLine(s string) {
	if s == "" {
		g.sb.WriteString("\n")
	} else {
		g.sb.WriteString(g.indentStr())
		g.sb.WriteString(s)
		g.sb.WriteString("\n")
	}
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat("  ", g.indent)
}

// --- Names ---

func (g *generator) pushScope() { g.scopes = append(g.scopes, make(map[string]string)) }
func (g *generator) popScope()  { g.scopes = g.scopes[:len(g.scopes)-1] }

// bind introduces a local and returns its JS name, renamed when the
// name is already taken in the current function
func (g *generator) bind(name string) string {
	js := unique(jsIdent(name), g.used)
	g.scopes[len(g.scopes)-1][name] = js
	return js
}

// unique returns base, or base with the first free _N suffix, and marks
// the result as taken
func unique(base string, taken map[string]bool) string {
	candidate := base
	for n := 1; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	taken[candidate] = true
	return candidate
}

func (g *generator) lookup(name string) string {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if js, ok := g.scopes[i][name]; ok {
			return js
		}
	}
	if js, ok := g.functions[name]; ok {
		return js
	}
	return jsIdent(name)
}

// --- Function generation ---

func (g *generator) generateFunction(fn *ast.Function) {
	g.used = make(map[string]bool)
	for _, js := range g.functions {
		g.used[js] = true
	}
	g.scopes = nil
	g.pushScope()
	defer g.popScope()

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = g.bind(p.Name)
	}

	g.emitLine("/**")
	for i, p := range fn.Params {
		g.emitLinef(" * @param {%s} %s\n", mapType(p.Type), params[i])
	}
	g.emitLinef(" * @returns {%s}\n", mapType(fn.ReturnType))
	g.emitLine(" */")
	g.emitLinef("function %s(%s) {\n", g.functions[fn.Name], strings.Join(params, ", "))
	g.incIndent()
	for _, stmt := range g.functionBody(fn.Body) {
		g.emitLine(stmt)
	}
	g.decIndent()
	g.emitLine("}")
}

// functionBody returns the statements of a block used as the body of a
// JS function, with hoisted declarations first
func (g *generator) functionBody(block *ast.Block) []string {
	f := &frame{}
	g.frames = append(g.frames, f)
	stmts := g.blockStatements(block)
	g.frames = g.frames[:len(g.frames)-1]

	if len(f.hoisted) > 0 {
		decl := "let " + strings.Join(f.hoisted, ", ") + ";"
		stmts = append([]string{decl}, stmts...)
	}
	return stmts
}

// blockStatements emits one statement per expression; the last one
// returns unless the block discards its result
func (g *generator) blockStatements(block *ast.Block) []string {
	if block == nil {
		return nil
	}
	var stmts []string
	for i, expr := range block.Exprs {
		returns := i == len(block.Exprs)-1 && !block.TrailingSemi

		if let, ok := expr.(*ast.LetExpr); ok {
			value := g.generateExpr(let.Value)
			stmts = append(stmts, fmt.Sprintf("const %s = %s;", g.bind(let.Name), value))
			if returns {
				stmts = append(stmts, "return undefined;")
			}
			continue
		}

		code := g.generateExpr(expr)
		if returns {
			stmts = append(stmts, "return "+code+";")
		} else {
			stmts = append(stmts, code+";")
		}
	}
	return stmts
}

// --- Expressions ---

func (g *generator) generateExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(e.Value, 10)

	case *ast.BoolLit:
		return strconv.FormatBool(e.Value)

	case *ast.Ident:
		return g.lookup(e.Name)

	case *ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = g.generateExpr(arg)
		}
		return fmt.Sprintf("%s(%s)", g.lookup(e.Callee), strings.Join(args, ", "))

	case *ast.LetExpr:
		// value position: assign a hoisted local and yield undefined
		value := g.generateExpr(e.Value)
		name := g.bind(e.Name)
		f := g.frames[len(g.frames)-1]
		f.hoisted = append(f.hoisted, name)
		return fmt.Sprintf("(%s = %s, undefined)", name, value)

	case *ast.BinaryExpr:
		left, right := g.generateExpr(e.Left), g.generateExpr(e.Right)
		if e.Op == ast.OpDiv {
			return fmt.Sprintf("Math.trunc(%s / %s)", left, right)
		}
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right)

	case *ast.IfExpr:
		return g.generateIfExpr(e)

	default:
		return fmt.Sprintf("/* unsupported %T */ undefined", expr)
	}
}

// generateIfExpr wraps the conditional in an immediately invoked function
// so it can sit in expression position
func (g *generator) generateIfExpr(e *ast.IfExpr) string {
	cond := g.generateExpr(e.Cond)
	then := g.inlineBlock(e.Then)
	otherwise := g.inlineBlock(e.Else)
	return fmt.Sprintf("(function() { if (%s) %s else %s })()", cond, then, otherwise)
}

func (g *generator) inlineBlock(block *ast.Block) string {
	g.pushScope()
	defer g.popScope()

	stmts := g.functionBody(block)
	if len(stmts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(stmts, " ") + " }"
}

// --- Type mapping ---

func mapType(ref *ast.TypeRef) string {
	if ref == nil {
		return "*"
	}
	switch ref.Name {
	case "Integer":
		return "number"
	case "Bool":
		return "boolean"
	case "Unit":
		return "undefined"
	default:
		return "*"
	}
}

// reserved holds JavaScript words that cannot name a binding
var reserved = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "enum": true, "eval": true, "export": true,
	"extends": true, "finally": true, "for": true, "function": true, "implements": true,
	"import": true, "in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true, "switch": true,
	"this": true, "throw": true, "try": true, "typeof": true, "undefined": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"document": true, "Math": true, "NaN": true, "Infinity": true,
}

// jsIdent maps a source identifier to a safe JS identifier
func jsIdent(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}
