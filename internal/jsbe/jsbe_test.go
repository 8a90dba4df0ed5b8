package jsbe

import (
	"strings"
	"testing"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/parser"
)

func generate(t *testing.T, source string, opts Options) string {
	t.Helper()
	p := parser.New(source)
	mod := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("Parser errors: %s", p.Diagnostics().Format("test"))
	}
	return Generate(mod, opts)
}

func expectContains(t *testing.T, result string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q, got:\n%s", want, result)
		}
	}
}

func TestGenerateFunction(t *testing.T) {
	result := generate(t, `def add(x: Integer, y: Integer) -> Integer { x + y }`, Options{})

	expectContains(t, result,
		"// Generated JavaScript code from EspressoScript",
		" * @param {number} x",
		" * @returns {number}",
		"function add(x, y) {\n  return (x + y);\n}",
	)
	if strings.Contains(result, "document.getElementById") {
		t.Errorf("Expected no mount without an entry function, got:\n%s", result)
	}
}

func TestGenerateEntryMount(t *testing.T) {
	result := generate(t, `def main(ready: Bool) -> Integer { 42 }`, Options{})
	expectContains(t, result, `document.getElementById("app-root").innerHTML = main(true);`)

	custom := generate(t, `def start() -> Integer { 1 }`, Options{Entry: "start", AppRoot: "root"})
	expectContains(t, custom, `document.getElementById("root").innerHTML = start(true);`)
}

func TestGenerateBlocks(t *testing.T) {
	tests := []struct {
		name   string
		source string
		wants  []string
	}{
		{"last expression returns", `def f() -> Integer { 1; 2 }`, []string{"  1;\n  return 2;\n"}},
		{"discarded result", `def f() -> Unit { 1; 2; }`, []string{"  1;\n  2;\n}"}},
		{"empty body", `def f() -> Unit { }`, []string{"function f() {\n}"}},
		{"let statement", `def f() -> Integer { let x = 1; x }`, []string{"  const x = 1;\n  return x;\n"}},
		{"let as last expression", `def f() -> Unit { let x = 1 }`, []string{"  const x = 1;\n  return undefined;\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectContains(t, generate(t, tt.source, Options{}), tt.wants...)
		})
	}
}

func TestGenerateOperators(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "(1 + 2)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"7 / 2", "Math.trunc(7 / 2)"},
		{"(1 + 2) / 3", "Math.trunc((1 + 2) / 3)"},
	}

	for _, tt := range tests {
		result := generate(t, "def f() -> Integer { "+tt.expr+" }", Options{})
		expectContains(t, result, "return "+tt.want+";")
	}
}

func TestGenerateIf(t *testing.T) {
	result := generate(t, `def f(c: Bool) -> Integer { if c { 1 } else { let y = 2; y } }`, Options{})
	expectContains(t, result,
		"return (function() { if (c) { return 1; } else { const y = 2; return y; } })();")
}

func TestGenerateElseIf(t *testing.T) {
	result := generate(t, `def f(a: Bool, b: Bool) -> Integer { if a { 1 } else if b { 2 } else { 3 } }`, Options{})
	expectContains(t, result,
		"(function() { if (a) { return 1; } else { return (function() { if (b) { return 2; } else { return 3; } })(); } })()")
}

func TestGenerateShadowingRenames(t *testing.T) {
	result := generate(t, `def f() -> Bool { let x = 1; let x = true; x }`, Options{})
	expectContains(t, result, "const x = 1;", "const x_1 = true;", "return x_1;")

	// an inner binding never reads itself through the temporal dead zone
	nested := generate(t, `def g(x: Integer) -> Integer { if true { let x = x + 1; x } else { x } }`, Options{})
	expectContains(t, nested, "const x_1 = (x + 1); return x_1;", "else { return x; }")
}

func TestGenerateLetInValuePosition(t *testing.T) {
	result := generate(t, `def id(u: Unit) -> Unit { u } def f() -> Unit { id(let y = 1); }`, Options{})
	expectContains(t, result, "  let y;\n", "id((y = 1, undefined));")
}

func TestGenerateReservedWords(t *testing.T) {
	result := generate(t, `def new(this: Integer) -> Integer { this } def main() -> Integer { new(1) }`, Options{})
	expectContains(t, result, "function new_(this_) {", "return this_;", "return new_(1);")
}

func TestGenerateEscapedNameCollision(t *testing.T) {
	result := generate(t, `
def do(x: Integer) -> Integer { x }
def do_(x: Integer) -> Integer { x + 1 }
def main() -> Integer { do(1) + do_(1) }`, Options{})

	expectContains(t, result,
		"function do_(x) {\n  return x;\n}",
		"function do__1(x) {\n  return (x + 1);\n}",
		"return (do_(1) + do__1(1));",
	)
	if n := strings.Count(result, "function do_("); n != 1 {
		t.Errorf("Expected one function named do_, got %d:\n%s", n, result)
	}
}

func TestGenerateEscapedEntry(t *testing.T) {
	result := generate(t, `def new() -> Integer { 1 }`, Options{Entry: "new"})
	expectContains(t, result, `document.getElementById("app-root").innerHTML = new_(true);`)
}

func TestGenerateParamShadowsFunction(t *testing.T) {
	result := generate(t, `def f() -> Integer { 1 } def g(f: Integer) -> Integer { f }`, Options{})
	expectContains(t, result, "function g(f_1) {", "return f_1;")
}

func TestGenerateFromTree(t *testing.T) {
	mod := &ast.Module{Statements: []ast.Statement{
		&ast.Function{
			Name: "main",
			Body: &ast.Block{Exprs: []ast.Expr{
				&ast.CallExpr{Callee: "main", Args: []ast.Expr{&ast.BoolLit{Value: false}}},
			}},
		},
	}}
	result := Generate(mod, Options{AppRoot: "mount"})
	expectContains(t, result,
		" * @returns {*}",
		"return main(false);",
		`document.getElementById("mount").innerHTML = main(true);`,
	)
}
