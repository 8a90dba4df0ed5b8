package parser

import (
	"strconv"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/diagnostic"
	"github.com/espressolang/espresso/internal/lexer"
)

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	tokens := l.Tokenize()
	return &Parser{
		tokens: tokens,
		pos:    0,
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses the token stream into a Module AST
func (p *Parser) Parse() *ast.Module {
	mod := &ast.Module{}

	for !p.check(lexer.EOF) {
		switch p.current().Type {
		case lexer.PUB, lexer.DEF:
			mod.Statements = append(mod.Statements, p.parseFunction())
		default:
			p.diags.Errorf(p.current().Line, p.current().Column,
				"unexpected %s at top level", describe(p.current()))
			startPos := p.pos
			p.synchronize()
			if p.pos == startPos {
				p.advance() // ensure forward progress to avoid infinite loop
			}
		}
	}
	return mod
}

// parseFunction parses: [pub] def <name>(<params>) -> <type> { ... }
func (p *Parser) parseFunction() *ast.Function {
	tok := p.current()
	isPublic := p.match(lexer.PUB)

	p.expect(lexer.DEF)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	p.expect(lexer.RPAREN)
	p.expect(lexer.ARROW)
	retType := p.parseTypeRef()
	body := p.parseBlock()

	return &ast.Function{
		Name:       name.Literal,
		IsPublic:   isPublic,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Line:       tok.Line,
		Column:     tok.Column,
	}
}

// parseParamList parses a comma separated parameter list; a trailing comma is allowed
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	for p.check(lexer.IDENT) {
		params = append(params, p.parseParam())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return params
}

// parseParam parses: <name>: <type>
func (p *Parser) parseParam() *ast.Param {
	name := p.expect(lexer.IDENT)
	p.expect(lexer.COLON)
	return &ast.Param{
		Name:   name.Literal,
		Type:   p.parseTypeRef(),
		Line:   name.Line,
		Column: name.Column,
	}
}

func (p *Parser) parseTypeRef() *ast.TypeRef {
	tok := p.expect(lexer.IDENT)
	return &ast.TypeRef{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
}

// parseBlock parses: { <expr> (; <expr>)* [;] }
func (p *Parser) parseBlock() *ast.Block {
	tok := p.expect(lexer.LBRACE)
	block := &ast.Block{Line: tok.Line, Column: tok.Column}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		block.Exprs = append(block.Exprs, p.parseExpr())

		if p.match(lexer.SEMICOLON) {
			block.TrailingSemi = p.check(lexer.RBRACE)
			continue
		}
		if !p.check(lexer.RBRACE) {
			p.diags.Errorf(p.current().Line, p.current().Column,
				"expected SEMICOLON or RBRACE after expression, got %s", describe(p.current()))
			p.synchronize()
			if p.pos == startPos {
				p.advance()
			}
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.PLUS, lexer.MINUS:
		return ast.OpAdd.Precedence()
	case lexer.STAR, lexer.SLASH:
		return ast.OpMul.Precedence()
	default:
		return 0
	}
}

func binOp(tt lexer.TokenType) ast.BinOp {
	switch tt {
	case lexer.MINUS:
		return ast.OpSub
	case lexer.STAR:
		return ast.OpMul
	case lexer.SLASH:
		return ast.OpDiv
	default:
		return ast.OpAdd
	}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrecedence(1)
}

// parsePrecedence parses left-associative binary operators by precedence climbing
func (p *Parser) parsePrecedence(minPrec int) ast.Expr {
	left := p.parsePrimary()

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == 0 || prec < minPrec {
			break
		}

		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:   left,
			Op:     binOp(op.Type),
			Right:  right,
			Line:   op.Line,
			Column: op.Column,
		}
	}

	return left
}

// MaxIntLiteral is the largest integer literal, the largest integer a
// JavaScript number holds exactly
const MaxIntLiteral = 1<<53 - 1

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil || value > MaxIntLiteral {
			p.diags.Errorf(tok.Line, tok.Column, "integer literal %s out of range (maximum %d)", tok.Literal, int64(MaxIntLiteral))
		}
		return &ast.IntLit{Value: value, Line: tok.Line, Column: tok.Column}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Line: tok.Line, Column: tok.Column}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Line: tok.Line, Column: tok.Column}
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LPAREN) {
			p.advance()
			args := p.parseArgList()
			p.expect(lexer.RPAREN)
			return &ast.CallExpr{Callee: tok.Literal, Args: args, Line: tok.Line, Column: tok.Column}
		}
		return &ast.Ident{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.expect(lexer.RPAREN)
		return expr
	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected %s in expression", describe(tok))
		p.advance()
		return &ast.Ident{Name: "<error>", Line: tok.Line, Column: tok.Column}
	}
}

// parseArgList parses call arguments; a trailing comma is allowed
func (p *Parser) parseArgList() []ast.Expr {
	var args []ast.Expr
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		args = append(args, p.parseExpr())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return args
}

// parseLet parses: let <name> [: <type>] = <expr>
func (p *Parser) parseLet() *ast.LetExpr {
	tok := p.expect(lexer.LET)
	name := p.expect(lexer.IDENT)

	var typeRef *ast.TypeRef
	if p.match(lexer.COLON) {
		typeRef = p.parseTypeRef()
	}

	p.expect(lexer.ASSIGN)
	value := p.parseExpr()

	return &ast.LetExpr{
		Name:   name.Literal,
		Type:   typeRef,
		Value:  value,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

// parseIf parses: if <expr> { ... } else { ... }
// "else if" is accepted and becomes an else block holding the nested if.
func (p *Parser) parseIf() *ast.IfExpr {
	tok := p.expect(lexer.IF)
	cond := p.parseExpr()
	then := p.parseBlock()

	expr := &ast.IfExpr{
		Cond:   cond,
		Then:   then,
		Line:   tok.Line,
		Column: tok.Column,
	}

	if !p.check(lexer.ELSE) {
		p.diags.Errorf(p.current().Line, p.current().Column,
			"if expression requires an else branch")
		expr.Else = &ast.Block{Line: p.current().Line, Column: p.current().Column}
		return expr
	}
	elseTok := p.advance()

	if p.check(lexer.IF) {
		nested := p.parseIf()
		expr.Else = &ast.Block{
			Exprs:  []ast.Expr{nested},
			Line:   elseTok.Line,
			Column: elseTok.Column,
		}
		return expr
	}

	expr.Else = p.parseBlock()
	return expr
}
