package syntax

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenString
	TokenNumber
	TokenDate
	TokenBoolean
	TokenOperator // = != > >= < <= in contains
	TokenLogical  // and or
	TokenNot
	TokenLParen
	TokenRParen
	TokenComma
)

// String returns a human-readable name for error messages.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string literal"
	case TokenNumber:
		return "number literal"
	case TokenDate:
		return "date literal"
	case TokenBoolean:
		return "boolean literal"
	case TokenOperator:
		return "operator"
	case TokenLogical:
		return "logical operator"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	default:
		return "unknown token"
	}
}

// Token represents a single token in a query expression. Pos and End are
// byte offsets into the original input; Value holds the decoded lexeme
// (unquoted string contents, lowercased keywords).
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}
