package ast

import (
	"strings"
	"testing"
)

func TestPrintModule(t *testing.T) {
	mod := &Module{Statements: []Statement{
		&Function{
			Name:       "add",
			IsPublic:   true,
			Params:     []*Param{{Name: "x", Type: &TypeRef{Name: "Integer"}}},
			ReturnType: &TypeRef{Name: "Integer"},
			Body: &Block{Exprs: []Expr{
				&LetExpr{Name: "y", Type: &TypeRef{Name: "Integer"}, Value: &IntLit{Value: 1}},
				&BinaryExpr{Left: &Ident{Name: "x"}, Op: OpAdd, Right: &CallExpr{Callee: "g", Args: []Expr{&BoolLit{Value: true}}}},
			}},
		},
	}}

	got := Print(mod)
	expected := []string{
		"Module",
		"  Function: add (pub)",
		"    Params:",
		"      x: Integer",
		"    Returns: Integer",
		"    Body:",
		"      Block",
		"        Let: y: Integer",
		"          Int: 1",
		"        Binary: +",
		"          Ident: x",
		"          Call: g",
		"            Bool: true",
	}
	if got != strings.Join(expected, "\n")+"\n" {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestPrintIf(t *testing.T) {
	expr := &IfExpr{
		Cond: &BoolLit{Value: false},
		Then: &Block{Exprs: []Expr{&IntLit{Value: 1}}},
		Else: &Block{Exprs: []Expr{&IntLit{Value: 2}}, TrailingSemi: true},
	}

	got := Print(expr)
	for _, want := range []string{"If\n", "  Cond:\n    Bool: false\n", "  Then:\n    Block\n      Int: 1\n", "  Else:\n    Block (discarded)\n      Int: 2\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestModuleFunctions(t *testing.T) {
	mod := &Module{Statements: []Statement{
		&Function{Name: "a", Line: 3, Column: 1},
		&Function{Name: "b"},
	}}
	fns := mod.Functions()
	if len(fns) != 2 || fns[0].Name != "a" || fns[1].Name != "b" {
		t.Fatalf("unexpected functions %v", fns)
	}
	if line, col := mod.Pos(); line != 3 || col != 1 {
		t.Errorf("expected module position 3:1, got %d:%d", line, col)
	}
}

func TestBinOp(t *testing.T) {
	tests := []struct {
		op   BinOp
		str  string
		prec int
	}{
		{OpAdd, "+", 1},
		{OpSub, "-", 1},
		{OpMul, "*", 2},
		{OpDiv, "/", 2},
	}
	for _, tt := range tests {
		if tt.op.String() != tt.str || tt.op.Precedence() != tt.prec {
			t.Errorf("op %d: got %s/%d", tt.op, tt.op.String(), tt.op.Precedence())
		}
	}
}
