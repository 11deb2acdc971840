package syntax

import (
	"testing"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:  "Simple comparison",
			input: `status = "done"`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenString,
				TokenEOF,
			},
		},
		{
			name:  "With parentheses",
			input: `(issueNumber > 100)`,
			expected: []TokenType{
				TokenLParen,
				TokenIdentifier,
				TokenOperator,
				TokenNumber,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "Logical AND",
			input: `status = "done" AND priority != "low"`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenString,
				TokenLogical,
				TokenIdentifier,
				TokenOperator,
				TokenString,
				TokenEOF,
			},
		},
		{
			name:  "NOT operator",
			input: `NOT (priority = "low")`,
			expected: []TokenType{
				TokenNot,
				TokenLParen,
				TokenIdentifier,
				TokenOperator,
				TokenString,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "Function call",
			input: `assignee = currentUser()`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenIdentifier, // function names are identifiers until the parser sees '('
				TokenLParen,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "IN list",
			input: `status IN ("todo", "done")`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenLParen,
				TokenString,
				TokenComma,
				TokenString,
				TokenRParen,
				TokenEOF,
			},
		},
		{
			name:  "CONTAINS",
			input: `title CONTAINS "login"`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenString,
				TokenEOF,
			},
		},
		{
			name:  "Boolean literals",
			input: `TRUE OR false`,
			expected: []TokenType{
				TokenBoolean,
				TokenLogical,
				TokenBoolean,
				TokenEOF,
			},
		},
		{
			name:  "Date literal",
			input: `createdDate >= 2024-01-15`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenDate,
				TokenEOF,
			},
		},
		{
			name:  "Datetime literal",
			input: `createdDate < 2024-01-15T10:30:00Z`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenDate,
				TokenEOF,
			},
		},
		{
			name:  "Decimal and negative numbers",
			input: `estimate >= -1.5`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator,
				TokenNumber,
				TokenEOF,
			},
		},
		{
			name:  "All comparison operators",
			input: `a = 1 != 2 > 3 >= 4 < 5 <= 6`,
			expected: []TokenType{
				TokenIdentifier,
				TokenOperator, TokenNumber,
				TokenOperator, TokenNumber,
				TokenOperator, TokenNumber,
				TokenOperator, TokenNumber,
				TokenOperator, TokenNumber,
				TokenOperator, TokenNumber,
				TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewTokenizer(tt.input).TokenizeAll()
			if err != nil {
				t.Fatalf("TokenizeAll() error: %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d", len(tokens), len(tt.expected))
			}
			for i, tok := range tokens {
				if tok.Type != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, tok.Type, tt.expected[i])
				}
			}
		})
	}
}

func TestTokenizerKeywordsCaseInsensitive(t *testing.T) {
	inputs := []string{
		`a = 1 and b = 2`,
		`a = 1 AND b = 2`,
		`a = 1 And b = 2`,
	}
	for _, input := range inputs {
		tokens, err := NewTokenizer(input).TokenizeAll()
		if err != nil {
			t.Fatalf("TokenizeAll(%q) error: %v", input, err)
		}
		if tokens[3].Type != TokenLogical || tokens[3].Value != "and" {
			t.Errorf("TokenizeAll(%q): token 3 = %v %q, want logical \"and\"", input, tokens[3].Type, tokens[3].Value)
		}
	}
}

func TestTokenizerIdentifiersCaseSensitive(t *testing.T) {
	tokens, err := NewTokenizer("createdDate").TokenizeAll()
	if err != nil {
		t.Fatalf("TokenizeAll() error: %v", err)
	}
	if tokens[0].Value != "createdDate" {
		t.Errorf("identifier casing not preserved: got %q", tokens[0].Value)
	}
}

func TestTokenizerStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"plain"`, "plain"},
		{`"with \"quotes\""`, `with "quotes"`},
		{`"back\\slash"`, `back\slash`},
	}
	for _, tt := range tests {
		tokens, err := NewTokenizer(tt.input).TokenizeAll()
		if err != nil {
			t.Fatalf("TokenizeAll(%q) error: %v", tt.input, err)
		}
		if tokens[0].Type != TokenString || tokens[0].Value != tt.expected {
			t.Errorf("TokenizeAll(%q) = %q, want %q", tt.input, tokens[0].Value, tt.expected)
		}
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		atStart int
	}{
		{"Unterminated string", `status = "done`, 9},
		{"Invalid escape", `title = "a\nb"`, 10},
		{"Unrecognized character", `status # "done"`, 7},
		{"Bare exclamation", `status ! "done"`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenizer(tt.input).TokenizeAll()
			if err == nil {
				t.Fatalf("TokenizeAll(%q) succeeded, want error", tt.input)
			}
			if err.Start != tt.atStart {
				t.Errorf("error start = %d, want %d (%s)", err.Start, tt.atStart, err.Message)
			}
		})
	}
}

func TestTokenizerOffsets(t *testing.T) {
	tokens, err := NewTokenizer(`status = "done"`).TokenizeAll()
	if err != nil {
		t.Fatalf("TokenizeAll() error: %v", err)
	}
	wantPos := []struct{ pos, end int }{
		{0, 6},   // status
		{7, 8},   // =
		{9, 15},  // "done"
		{15, 15}, // EOF
	}
	for i, w := range wantPos {
		if tokens[i].Pos != w.pos || tokens[i].End != w.end {
			t.Errorf("token %d span = %d..%d, want %d..%d", i, tokens[i].Pos, tokens[i].End, w.pos, w.end)
		}
	}
}
