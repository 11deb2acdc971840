package syntax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Node represents a node in the abstract syntax tree. The node set is
// closed; traversals switch exhaustively over the concrete types.
type Node interface {
	astNode()
	Span() (start, end int)
}

// LiteralKind identifies the type of a literal value.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
	LitDate
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBool:
		return "boolean"
	case LitDate:
		return "date"
	default:
		return "unknown"
	}
}

// LiteralExpr represents a literal value. String holds a string, Number a
// decimal, Bool a bool, and Time a date or datetime. DateOnly records that
// the literal had no time component (it is still coerced to midnight UTC).
type LiteralExpr struct {
	Kind     LiteralKind
	String   string
	Number   decimal.Decimal
	Bool     bool
	Time     time.Time
	DateOnly bool
	Pos, End int
}

func (e *LiteralExpr) astNode()         {}
func (e *LiteralExpr) Span() (int, int) { return e.Pos, e.End }

// Value returns the literal as a plain Go value, suitable for use as a
// bound query parameter.
func (e *LiteralExpr) Value() interface{} {
	switch e.Kind {
	case LitString:
		return e.String
	case LitNumber:
		return e.Number
	case LitBool:
		return e.Bool
	case LitDate:
		return e.Time
	default:
		return nil
	}
}

// FieldRefExpr represents a reference to a schema field.
type FieldRefExpr struct {
	Name     string
	Pos, End int
}

func (e *FieldRefExpr) astNode()         {}
func (e *FieldRefExpr) Span() (int, int) { return e.Pos, e.End }

// ComparisonExpr represents a comparison (e.g. priority != "low").
// Right is a ListExpr for the IN operator, a literal or function call
// otherwise.
type ComparisonExpr struct {
	Left     Node
	Operator string
	Right    Node
	Pos, End int
}

func (e *ComparisonExpr) astNode()         {}
func (e *ComparisonExpr) Span() (int, int) { return e.Pos, e.End }

// BinaryExpr represents a logical AND/OR expression.
type BinaryExpr struct {
	Left     Node
	Operator string // "and" or "or"
	Right    Node
	Pos, End int
}

func (e *BinaryExpr) astNode()         {}
func (e *BinaryExpr) Span() (int, int) { return e.Pos, e.End }

// UnaryExpr represents a NOT expression.
type UnaryExpr struct {
	Operand  Node
	Pos, End int
}

func (e *UnaryExpr) astNode()         {}
func (e *UnaryExpr) Span() (int, int) { return e.Pos, e.End }

// FunctionCallExpr represents a function call (e.g. currentUser()).
type FunctionCallExpr struct {
	Name     string
	Args     []Node
	Pos, End int
}

func (e *FunctionCallExpr) astNode()         {}
func (e *FunctionCallExpr) Span() (int, int) { return e.Pos, e.End }

// ListExpr represents the parenthesized literal list of an IN operator.
type ListExpr struct {
	Values   []Node
	Pos, End int
}

func (e *ListExpr) astNode()         {}
func (e *ListExpr) Span() (int, int) { return e.Pos, e.End }

// GroupExpr represents a parenthesized expression. It is retained only so
// the pretty-printer can reproduce the grouping; evaluation order is fully
// determined by the tree shape.
type GroupExpr struct {
	Expr     Node
	Pos, End int
}

func (e *GroupExpr) astNode()         {}
func (e *GroupExpr) Span() (int, int) { return e.Pos, e.End }

// Unwrap strips GroupExpr wrappers, returning the evaluated node.
func Unwrap(n Node) Node {
	for {
		g, ok := n.(*GroupExpr)
		if !ok {
			return n
		}
		n = g.Expr
	}
}
