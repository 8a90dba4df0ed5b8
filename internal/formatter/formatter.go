package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/espressolang/espresso/internal/ast"
)

// Format takes a module and returns canonical EspressoScript source code.
// Comments are not part of the tree and are dropped.
func Format(mod *ast.Module) string {
	f := &formatter{}
	f.formatModule(mod)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers (same pattern as jsbe) ---

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
	} else {
		f.sb.WriteString(f.indentStr())
		f.sb.WriteString(s)
		f.sb.WriteString("\n")
	}
}

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

// --- module-level ---

func (f *formatter) formatModule(mod *ast.Module) {
	for i, fn := range mod.Functions() {
		if i > 0 {
			f.emitLine("")
		}
		f.formatFunction(fn)
	}
}

func (f *formatter) formatFunction(fn *ast.Function) {
	var header strings.Builder
	if fn.IsPublic {
		header.WriteString("pub ")
	}
	header.WriteString("def ")
	header.WriteString(fn.Name)
	header.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			header.WriteString(", ")
		}
		header.WriteString(fmt.Sprintf("%s: %s", p.Name, formatTypeRef(p.Type)))
	}
	header.WriteString(") -> ")
	header.WriteString(formatTypeRef(fn.ReturnType))

	f.emitLine(header.String() + " " + f.formatBlock(fn.Body))
}

func formatTypeRef(t *ast.TypeRef) string {
	if t == nil {
		return "Unit"
	}
	return t.Name
}

// --- blocks ---

// formatBlock renders a braced block. Lines after the first are indented
// absolutely, so the result can be appended to a line at the current
// indentation.
func (f *formatter) formatBlock(b *ast.Block) string {
	if b == nil || len(b.Exprs) == 0 {
		return "{}"
	}

	f.indent++
	lines := make([]string, len(b.Exprs))
	for i, expr := range b.Exprs {
		line := f.indentStr() + f.formatExpr(expr)
		if i < len(b.Exprs)-1 || b.TrailingSemi {
			line += ";"
		}
		lines[i] = line
	}
	f.indent--

	return "{\n" + strings.Join(lines, "\n") + "\n" + f.indentStr() + "}"
}

// --- expressions ---

func (f *formatter) formatExpr(e ast.Expr) string {
	return f.formatExprPrec(e, 0)
}

// formatExprPrec formats an expression, wrapping in parens if needed based on parent precedence.
func (f *formatter) formatExprPrec(e ast.Expr, parentPrec int) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		prec := expr.Op.Precedence()
		left := f.formatExprPrec(expr.Left, prec)
		right := f.formatExprPrec(expr.Right, prec+1) // +1 for left-associativity
		result := left + " " + expr.Op.String() + " " + right
		if prec < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ast.IntLit:
		return strconv.FormatInt(expr.Value, 10)

	case *ast.BoolLit:
		return strconv.FormatBool(expr.Value)

	case *ast.Ident:
		return expr.Name

	case *ast.CallExpr:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = f.formatExpr(arg)
		}
		return expr.Callee + "(" + strings.Join(args, ", ") + ")"

	case *ast.LetExpr:
		result := "let " + expr.Name
		if expr.Type != nil {
			result += ": " + expr.Type.Name
		}
		result += " = " + f.formatExpr(expr.Value)
		// a let operand would swallow the rest of the expression
		if parentPrec > 0 {
			return "(" + result + ")"
		}
		return result

	case *ast.IfExpr:
		return f.formatIf(expr)

	default:
		return fmt.Sprintf("<unknown %T>", e)
	}
}

func (f *formatter) formatIf(expr *ast.IfExpr) string {
	result := "if " + f.formatExpr(expr.Cond) + " " + f.formatBlock(expr.Then) + " else "
	if nested := elseIf(expr.Else); nested != nil {
		return result + f.formatIf(nested)
	}
	return result + f.formatBlock(expr.Else)
}

// elseIf returns the if expression an else block consists of, if any
func elseIf(b *ast.Block) *ast.IfExpr {
	if b == nil || len(b.Exprs) != 1 || b.TrailingSemi {
		return nil
	}
	nested, _ := b.Exprs[0].(*ast.IfExpr)
	return nested
}
