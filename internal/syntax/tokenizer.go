// Package syntax implements the lexer, parser, and pretty-printer for LQL
// query expressions. It has no knowledge of the field schema; semantic
// checks live in internal/semantics.
package syntax

import (
	"strings"

	"github.com/groundwork/lql/internal/diag"
)

// Tokenizer tokenizes LQL query expressions
type Tokenizer struct {
	input string
	pos   int
	ch    byte
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{input: input}
	if len(input) > 0 {
		t.ch = input[0]
	}
	return t
}

// advance moves to the next byte
func (t *Tokenizer) advance() {
	t.pos++
	if t.pos >= len(t.input) {
		t.ch = 0 // EOF
	} else {
		t.ch = t.input[t.pos]
	}
}

// peek looks ahead without advancing
func (t *Tokenizer) peek() byte {
	if t.pos+1 >= len(t.input) {
		return 0
	}
	return t.input[t.pos+1]
}

func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }
func isIdent(ch byte) bool  { return isLetter(ch) || isDigit(ch) || ch == '_' }

// readString reads a double-quoted string literal, decoding backslash
// escapes. Only \" and \\ are legal escapes.
func (t *Tokenizer) readString(start int) (string, *diag.Error) {
	t.advance() // skip opening quote

	var result strings.Builder
	for t.ch != 0 && t.ch != '"' {
		if t.ch == '\\' {
			next := t.peek()
			if next != '"' && next != '\\' {
				return "", diag.Lexf(t.pos, t.pos+2, "invalid escape sequence '\\%c' in string literal", next)
			}
			t.advance()
		}
		result.WriteByte(t.ch)
		t.advance()
	}

	if t.ch != '"' {
		return "", diag.Lexf(start, t.pos, "unterminated string literal")
	}
	t.advance() // skip closing quote
	return result.String(), nil
}

// readNumberOrDate reads a numeric literal, or an ISO-8601 date/datetime
// literal when the digits turn out to be a four-digit year followed by '-'.
func (t *Tokenizer) readNumberOrDate(start int) *Token {
	digits := 0
	for isDigit(t.ch) {
		digits++
		t.advance()
	}

	// A date literal starts as YYYY- with a digit after the dash.
	if digits == 4 && t.ch == '-' && isDigit(t.peek()) {
		for isDigit(t.ch) || t.ch == '-' || t.ch == ':' || t.ch == '+' ||
			t.ch == 'T' || t.ch == 'Z' || t.ch == '.' {
			t.advance()
		}
		return &Token{Type: TokenDate, Value: t.input[start:t.pos], Pos: start, End: t.pos}
	}

	if t.ch == '.' && isDigit(t.peek()) {
		t.advance()
		for isDigit(t.ch) {
			t.advance()
		}
	}
	return &Token{Type: TokenNumber, Value: t.input[start:t.pos], Pos: start, End: t.pos}
}

func (t *Tokenizer) readIdentifier() string {
	start := t.pos
	for t.ch != 0 && isIdent(t.ch) {
		t.advance()
	}
	return t.input[start:t.pos]
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (*Token, *diag.Error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return &Token{Type: TokenEOF, Pos: t.pos, End: t.pos}, nil
	}

	pos := t.pos

	switch {
	case t.ch == '"':
		value, err := t.readString(pos)
		if err != nil {
			return nil, err
		}
		return &Token{Type: TokenString, Value: value, Pos: pos, End: t.pos}, nil
	case isDigit(t.ch):
		return t.readNumberOrDate(pos), nil
	case t.ch == '-' && isDigit(t.peek()):
		t.advance()
		tok := t.readNumberOrDate(pos + 1)
		tok.Pos = pos
		tok.Value = "-" + tok.Value
		return tok, nil
	}

	if tok := t.scanPunctuation(pos); tok != nil {
		return tok, nil
	}

	if isLetter(t.ch) || t.ch == '_' {
		return t.scanIdentifierOrKeyword(pos), nil
	}

	return nil, diag.Lexf(pos, pos+1, "unexpected character %q", t.ch)
}

// scanPunctuation handles parentheses, comma, and comparison operators.
func (t *Tokenizer) scanPunctuation(pos int) *Token {
	switch t.ch {
	case '(':
		t.advance()
		return &Token{Type: TokenLParen, Value: "(", Pos: pos, End: t.pos}
	case ')':
		t.advance()
		return &Token{Type: TokenRParen, Value: ")", Pos: pos, End: t.pos}
	case ',':
		t.advance()
		return &Token{Type: TokenComma, Value: ",", Pos: pos, End: t.pos}
	case '=':
		t.advance()
		return &Token{Type: TokenOperator, Value: "=", Pos: pos, End: t.pos}
	case '!':
		if t.peek() == '=' {
			t.advance()
			t.advance()
			return &Token{Type: TokenOperator, Value: "!=", Pos: pos, End: t.pos}
		}
	case '>':
		t.advance()
		if t.ch == '=' {
			t.advance()
			return &Token{Type: TokenOperator, Value: ">=", Pos: pos, End: t.pos}
		}
		return &Token{Type: TokenOperator, Value: ">", Pos: pos, End: t.pos}
	case '<':
		t.advance()
		if t.ch == '=' {
			t.advance()
			return &Token{Type: TokenOperator, Value: "<=", Pos: pos, End: t.pos}
		}
		return &Token{Type: TokenOperator, Value: "<", Pos: pos, End: t.pos}
	}
	return nil
}

// scanIdentifierOrKeyword reads an identifier and classifies keywords.
// Keywords are case-insensitive; identifiers keep their original casing.
func (t *Tokenizer) scanIdentifierOrKeyword(pos int) *Token {
	value := t.readIdentifier()
	lower := strings.ToLower(value)

	switch lower {
	case "and", "or":
		return &Token{Type: TokenLogical, Value: lower, Pos: pos, End: t.pos}
	case "not":
		return &Token{Type: TokenNot, Value: lower, Pos: pos, End: t.pos}
	case "true", "false":
		return &Token{Type: TokenBoolean, Value: lower, Pos: pos, End: t.pos}
	case "in", "contains":
		return &Token{Type: TokenOperator, Value: lower, Pos: pos, End: t.pos}
	}

	// Function names stay identifiers; the parser recognizes them by the
	// '(' that follows.
	return &Token{Type: TokenIdentifier, Value: value, Pos: pos, End: t.pos}
}

// TokenizeAll returns all tokens from the input, stopping at the first
// malformed token. A partial token stream is never returned.
func (t *Tokenizer) TokenizeAll() ([]*Token, *diag.Error) {
	var tokens []*Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
