package syntax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/groundwork/lql/internal/diag"
)

// Layouts accepted for date literals. Date-only literals are coerced to
// midnight UTC; comparisons then operate on that instant.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parser parses a token stream into an AST
type Parser struct {
	tokens  []*Token
	current int
}

// NewParser creates a new parser over a materialized token stream
func NewParser(tokens []*Token) *Parser {
	return &Parser{tokens: tokens}
}

// currentToken returns the current token
func (p *Parser) currentToken() *Token {
	if p.current >= len(p.tokens) {
		return &Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// advance moves to the next token
func (p *Parser) advance() *Token {
	token := p.currentToken()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return token
}

// expect checks that the current token matches the expected type and advances
func (p *Parser) expect(tokenType TokenType) *diag.Error {
	token := p.currentToken()
	if token.Type != tokenType {
		return diag.Parsef(token.Pos, token.End, "expected %s, got %s", tokenType, token.Type)
	}
	p.advance()
	return nil
}

// Parse parses the tokens into an AST. Parsing halts at the first syntax
// violation; no partial AST is returned.
func (p *Parser) Parse() (Node, *diag.Error) {
	if p.currentToken().Type == TokenEOF {
		tok := p.currentToken()
		return nil, diag.Parsef(tok.Pos, tok.End, "empty query")
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.currentToken(); tok.Type != TokenEOF {
		return nil, diag.Parsef(tok.Pos, tok.End, "unexpected %s after expression", tok.Type)
	}

	return node, nil
}

// parseOr handles OR expressions (lowest precedence, left-associative)
func (p *Parser) parseOr() (Node, *diag.Error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		ls, _ := left.Span()
		_, re := right.Span()
		left = &BinaryExpr{Left: left, Operator: "or", Right: right, Pos: ls, End: re}
	}

	return left, nil
}

// parseAnd handles AND expressions (left-associative)
func (p *Parser) parseAnd() (Node, *diag.Error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "and" {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		ls, _ := left.Span()
		_, re := right.Span()
		left = &BinaryExpr{Left: left, Operator: "and", Right: right, Pos: ls, End: re}
	}

	return left, nil
}

// parseNot handles NOT expressions (right-associative, binds tighter than
// AND/OR and looser than comparison)
func (p *Parser) parseNot() (Node, *diag.Error) {
	if p.currentToken().Type == TokenNot {
		op := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		_, oe := operand.Span()
		return &UnaryExpr{Operand: operand, Pos: op.Pos, End: oe}, nil
	}

	return p.parseComparison()
}

// parseComparison handles comparison expressions (non-associative)
func (p *Parser) parseComparison() (Node, *diag.Error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type != TokenOperator {
		return left, nil
	}
	op := p.advance()

	var right Node
	if op.Value == "in" {
		right, err = p.parseList()
	} else {
		right, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}

	if tok := p.currentToken(); tok.Type == TokenOperator {
		return nil, diag.Parsef(tok.Pos, tok.End, "chained comparisons are not allowed")
	}

	ls, _ := left.Span()
	_, re := right.Span()
	return &ComparisonExpr{Left: left, Operator: op.Value, Right: right, Pos: ls, End: re}, nil
}

// parseList parses the parenthesized literal list of an IN operator,
// e.g. ("todo", "in_progress")
func (p *Parser) parseList() (Node, *diag.Error) {
	open := p.currentToken()
	if err := p.expect(TokenLParen); err != nil {
		return nil, diag.Parsef(open.Pos, open.End, "expected '(' after IN")
	}

	var values []Node
	if p.currentToken().Type != TokenRParen {
		for {
			value, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			if _, ok := Unwrap(value).(*LiteralExpr); !ok {
				vs, ve := value.Span()
				return nil, diag.Parsef(vs, ve, "IN list values must be literals")
			}
			values = append(values, value)

			if p.currentToken().Type != TokenComma {
				break
			}
			p.advance()
		}
	}

	rparen := p.currentToken()
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	return &ListExpr{Values: values, Pos: open.Pos, End: rparen.End}, nil
}

// parsePrimary handles literals, field references, function calls, and
// parenthesized expressions
func (p *Parser) parsePrimary() (Node, *diag.Error) {
	tok := p.currentToken()

	switch tok.Type {
	case TokenString:
		p.advance()
		return &LiteralExpr{Kind: LitString, String: tok.Value, Pos: tok.Pos, End: tok.End}, nil

	case TokenNumber:
		p.advance()
		num, err := decimal.NewFromString(tok.Value)
		if err != nil {
			return nil, diag.Parsef(tok.Pos, tok.End, "invalid number literal %q", tok.Value)
		}
		return &LiteralExpr{Kind: LitNumber, Number: num, Pos: tok.Pos, End: tok.End}, nil

	case TokenBoolean:
		p.advance()
		return &LiteralExpr{Kind: LitBool, Bool: tok.Value == "true", Pos: tok.Pos, End: tok.End}, nil

	case TokenDate:
		p.advance()
		return p.parseDateLiteral(tok)

	case TokenIdentifier:
		p.advance()
		if p.currentToken().Type == TokenLParen {
			return p.parseFunctionCall(tok)
		}
		return &FieldRefExpr{Name: tok.Value, Pos: tok.Pos, End: tok.End}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		rparen := p.currentToken()
		if err := p.expect(TokenRParen); err != nil {
			return nil, diag.Parsef(rparen.Pos, rparen.End, "missing closing parenthesis")
		}
		return &GroupExpr{Expr: inner, Pos: tok.Pos, End: rparen.End}, nil

	default:
		return nil, diag.Parsef(tok.Pos, tok.End, "expected a value, field, or '(', got %s", tok.Type)
	}
}

// parseDateLiteral converts a date token into a literal node
func (p *Parser) parseDateLiteral(tok *Token) (Node, *diag.Error) {
	for _, layout := range dateLayouts {
		ts, err := time.Parse(layout, tok.Value)
		if err != nil {
			continue
		}
		return &LiteralExpr{
			Kind:     LitDate,
			Time:     ts.UTC(),
			DateOnly: layout == "2006-01-02",
			Pos:      tok.Pos,
			End:      tok.End,
		}, nil
	}
	return nil, diag.Parsef(tok.Pos, tok.End, "invalid date literal %q", tok.Value)
}

// parseFunctionCall parses name(arg, ...) where name has already been consumed
func (p *Parser) parseFunctionCall(name *Token) (Node, *diag.Error) {
	p.advance() // consume '('

	var args []Node
	if p.currentToken().Type != TokenRParen {
		for {
			arg, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.currentToken().Type != TokenComma {
				break
			}
			p.advance()
		}
	}

	rparen := p.currentToken()
	if err := p.expect(TokenRParen); err != nil {
		return nil, diag.Parsef(rparen.Pos, rparen.End, "missing closing parenthesis in call to %s", name.Value)
	}

	return &FunctionCallExpr{Name: name.Value, Args: args, Pos: name.Pos, End: rparen.End}, nil
}

// ParseQuery tokenizes and parses a query string in one step.
func ParseQuery(input string) (Node, *diag.Error) {
	tokens, err := NewTokenizer(input).TokenizeAll()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}
