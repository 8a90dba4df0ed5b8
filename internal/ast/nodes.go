package ast

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expr interface {
	Node
	exprNode()
}

// Module represents a whole source file
type Module struct {
	Statements []Statement
}

func (m *Module) Pos() (int, int) {
	if len(m.Statements) > 0 {
		return m.Statements[0].Pos()
	}
	return 0, 0
}

// Functions returns the function declarations of the module in source order
func (m *Module) Functions() []*Function {
	var fns []*Function
	for _, stmt := range m.Statements {
		if fn, ok := stmt.(*Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Function represents a function declaration
type Function struct {
	Name       string
	IsPublic   bool
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
	Line       int
	Column     int
}

func (f *Function) Pos() (int, int) { return f.Line, f.Column }
func (f *Function) stmtNode()       {}

// Param represents a function parameter
type Param struct {
	Name   string
	Type   *TypeRef
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// TypeRef represents a type annotation
type TypeRef struct {
	Name   string
	Line   int
	Column int
}

func (t *TypeRef) Pos() (int, int) { return t.Line, t.Column }

// Block represents a braced sequence of expressions. TrailingSemi is set
// when the last expression is followed by ';', which discards its value.
type Block struct {
	Exprs        []Expr
	TrailingSemi bool
	Line         int
	Column       int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }

// BoolLit represents true or false
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  int64
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// Ident represents a variable reference
type Ident struct {
	Name   string
	Line   int
	Column int
}

func (i *Ident) Pos() (int, int) { return i.Line, i.Column }
func (i *Ident) exprNode()       {}

// CallExpr represents a call of a named function
type CallExpr struct {
	Callee string
	Args   []Expr
	Line   int
	Column int
}

func (c *CallExpr) Pos() (int, int) { return c.Line, c.Column }
func (c *CallExpr) exprNode()       {}

// LetExpr represents let <name> [: <type>] = <value>
type LetExpr struct {
	Name   string
	Type   *TypeRef // nil when no annotation is given
	Value  Expr
	Line   int
	Column int
}

func (l *LetExpr) Pos() (int, int) { return l.Line, l.Column }
func (l *LetExpr) exprNode()       {}

// BinOp is an arithmetic operator
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the source spelling of the operator
func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Precedence returns the binding strength of the operator (higher binds tighter)
func (op BinOp) Precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// BinaryExpr represents <left> <op> <right>
type BinaryExpr struct {
	Left   Expr
	Op     BinOp
	Right  Expr
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// IfExpr represents if <cond> { ... } else { ... }
type IfExpr struct {
	Cond   Expr
	Then   *Block
	Else   *Block
	Line   int
	Column int
}

func (i *IfExpr) Pos() (int, int) { return i.Line, i.Column }
func (i *IfExpr) exprNode()       {}
