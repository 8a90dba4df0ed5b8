package formatter

import (
	"testing"

	"github.com/espressolang/espresso/internal/parser"
)

// helper: parse source, format, return formatted string
func formatSource(t *testing.T, source string) string {
	t.Helper()
	p := parser.New(source)
	mod := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("parse error: %s", p.Diagnostics().Format("<test>"))
	}
	return Format(mod)
}

func TestFormatFunction(t *testing.T) {
	got := formatSource(t, `pub   def add( x:Integer,y:Integer, )->Integer{x+y}`)
	want := "pub def add(x: Integer, y: Integer) -> Integer {\n    x + y\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatEmptyBody(t *testing.T) {
	got := formatSource(t, "def noop() -> Unit {\n\n}")
	if got != "def noop() -> Unit {}\n" {
		t.Errorf("got:\n%s", got)
	}
}

func TestFormatSeparators(t *testing.T) {
	got := formatSource(t, `def f() -> Unit { let x: Integer = 1; g(x) ; }`)
	want := "def f() -> Unit {\n    let x: Integer = 1;\n    g(x);\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatBlankLineBetweenFunctions(t *testing.T) {
	got := formatSource(t, "def a() -> Integer { 1 }\n\n\n\ndef b() -> Integer { 2 }")
	want := "def a() -> Integer {\n    1\n}\n\ndef b() -> Integer {\n    2\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatParentheses(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"1 + (2 * 3)", "1 + 2 * 3"},
		{"(1 - 2) - 3", "1 - 2 - 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"8 / (4 / 2)", "8 / (4 / 2)"},
		{"((x))", "x"},
		{"f((1 + 2), (3))", "f(1 + 2, 3)"},
	}

	for _, tt := range tests {
		got := formatSource(t, "def f(x: Integer) -> Integer { "+tt.input+" }")
		want := "def f(x: Integer) -> Integer {\n    " + tt.expected + "\n}\n"
		if got != want {
			t.Errorf("%s: got:\n%s\nwant:\n%s", tt.input, got, want)
		}
	}
}

func TestFormatIf(t *testing.T) {
	got := formatSource(t, `def f(a: Bool, b: Bool) -> Integer { if a { 1 } else if b { let y = 2; y } else { 3 } }`)
	want := `def f(a: Bool, b: Bool) -> Integer {
    if a {
        1
    } else if b {
        let y = 2;
        y
    } else {
        3
    }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatNestedIfInExpression(t *testing.T) {
	got := formatSource(t, `def f(c: Bool) -> Integer { 1 + if c { 2 } else { 3 } }`)
	want := `def f(c: Bool) -> Integer {
    1 + if c {
        2
    } else {
        3
    }
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatLetOperand(t *testing.T) {
	got := formatSource(t, `def f() -> Unit { g((let x = 1), 2); }`)
	want := "def f() -> Unit {\n    g(let x = 1, 2);\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// --- Idempotency ---

func TestFormatIsFixedPoint(t *testing.T) {
	sources := []string{
		`def add(x: Integer, y: Integer) -> Integer { x + y }`,
		`pub def main() -> Unit { let a = 1; let b = a * (2 + 3); g(a, b); }`,
		`def f(a: Bool) -> Integer { if a { if a { 1 } else { 2 } } else if true { 3 } else { 4 } }`,
		`def f(c: Bool) -> Integer { (let x = 1) + 2 * if c { 1 } else { 2 } }`,
		`def f(x: Integer) -> Integer { f(f(x - 1) / 2) }
		 def noop() -> Unit { }`,
	}

	for _, src := range sources {
		first := formatSource(t, src)
		second := formatSource(t, first)
		if first != second {
			t.Errorf("format is not a fixed point:\nfirst:\n%s\nsecond:\n%s", first, second)
		}
	}
}
