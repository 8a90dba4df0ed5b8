package lexer

import (
	"testing"
)

func TestNextToken_Operators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic operators",
			input:    "+ - * /",
			expected: []TokenType{PLUS, MINUS, STAR, SLASH, EOF},
		},
		{
			name:     "assignment and arrow",
			input:    "= ->",
			expected: []TokenType{ASSIGN, ARROW, EOF},
		},
		{
			name:     "minus directly before a number",
			input:    "-1",
			expected: []TokenType{MINUS, INT_LIT, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			for i, expectedType := range tt.expected {
				tok := l.NextToken()
				if tok.Type != expectedType {
					t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
						i, expectedType, tok.Type)
				}
			}
		})
	}
}

func TestNextToken_Delimiters(t *testing.T) {
	input := "( ) { } , : ;"
	expected := []TokenType{
		LPAREN, RPAREN, LBRACE, RBRACE, COMMA, COLON, SEMICOLON, EOF,
	}

	l := New(input)
	for i, expectedType := range expected {
		tok := l.NextToken()
		if tok.Type != expectedType {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
				i, expectedType, tok.Type)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := "pub def let if else true false Integer add_one"
	expected := []struct {
		typ     TokenType
		literal string
	}{
		{PUB, "pub"},
		{DEF, "def"},
		{LET, "let"},
		{IF, "if"},
		{ELSE, "else"},
		{TRUE, "true"},
		{FALSE, "false"},
		{IDENT, "Integer"},
		{IDENT, "add_one"},
		{EOF, ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q", i, exp.typ, tok.Type)
		}
		if tok.Literal != exp.literal {
			t.Errorf("token[%d] - wrong literal. expected=%q, got=%q", i, exp.literal, tok.Literal)
		}
	}
}

func TestNextToken_FunctionDefinition(t *testing.T) {
	input := `pub def add(x: Integer, y: Integer) -> Integer {
    x + y
}`
	expected := []TokenType{
		PUB, DEF, IDENT, LPAREN,
		IDENT, COLON, IDENT, COMMA,
		IDENT, COLON, IDENT, RPAREN,
		ARROW, IDENT, LBRACE,
		IDENT, PLUS, IDENT,
		RBRACE, EOF,
	}

	tokens := New(input).Tokenize()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tt := range expected {
		if tokens[i].Type != tt {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q", i, tt, tokens[i].Type)
		}
	}
}

func TestNextToken_Positions(t *testing.T) {
	input := "def f() -> Integer {\n  42\n}"
	tokens := New(input).Tokenize()

	// "42" is on line 2, column 3
	var found bool
	for _, tok := range tokens {
		if tok.Type == INT_LIT {
			found = true
			if tok.Line != 2 || tok.Column != 3 {
				t.Errorf("expected 42 at 2:3, got %d:%d", tok.Line, tok.Column)
			}
		}
	}
	if !found {
		t.Fatal("integer literal not found")
	}

	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("expected def at 1:1, got %d:%d", tokens[0].Line, tokens[0].Column)
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := `// leading comment
def // trailing
main`
	expected := []TokenType{DEF, IDENT, EOF}

	l := New(input)
	for i, tt := range expected {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q", i, tt, tok.Type)
		}
	}
}

func TestNextToken_Illegal(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Errorf("expected ILLEGAL, got %q", tok.Type)
	}
	if tok.Literal != "@" {
		t.Errorf("expected literal '@', got %q", tok.Literal)
	}
}
