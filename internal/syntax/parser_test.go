package syntax

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, input string) Node {
	t.Helper()
	node, err := ParseQuery(input)
	if err != nil {
		t.Fatalf("ParseQuery(%q) error: %v", input, err)
	}
	return node
}

func TestParserPrecedence(t *testing.T) {
	// "a AND b OR c" parses as "(a AND b) OR c"
	node := mustParse(t, `a = 1 AND b = 2 OR c = 3`)

	or, ok := node.(*BinaryExpr)
	if !ok || or.Operator != "or" {
		t.Fatalf("root = %T %v, want OR", node, node)
	}
	and, ok := or.Left.(*BinaryExpr)
	if !ok || and.Operator != "and" {
		t.Fatalf("left of OR = %T, want AND", or.Left)
	}
	if _, ok := or.Right.(*ComparisonExpr); !ok {
		t.Fatalf("right of OR = %T, want comparison", or.Right)
	}
}

func TestParserNotBinding(t *testing.T) {
	// "NOT a AND b" parses as "(NOT a) AND b"
	node := mustParse(t, `NOT a = 1 AND b = 2`)

	and, ok := node.(*BinaryExpr)
	if !ok || and.Operator != "and" {
		t.Fatalf("root = %T, want AND", node)
	}
	not, ok := and.Left.(*UnaryExpr)
	if !ok {
		t.Fatalf("left of AND = %T, want NOT", and.Left)
	}
	// NOT binds looser than comparison: its operand is the whole a = 1.
	if _, ok := not.Operand.(*ComparisonExpr); !ok {
		t.Fatalf("NOT operand = %T, want comparison", not.Operand)
	}
}

func TestParserDoubleNot(t *testing.T) {
	node := mustParse(t, `NOT NOT done`)
	outer, ok := node.(*UnaryExpr)
	if !ok {
		t.Fatalf("root = %T, want NOT", node)
	}
	if _, ok := outer.Operand.(*UnaryExpr); !ok {
		t.Fatalf("operand = %T, want nested NOT", outer.Operand)
	}
}

func TestParserAndLeftAssociative(t *testing.T) {
	node := mustParse(t, `a = 1 AND b = 2 AND c = 3`)
	root, ok := node.(*BinaryExpr)
	if !ok {
		t.Fatalf("root = %T, want AND", node)
	}
	if _, ok := root.Left.(*BinaryExpr); !ok {
		t.Fatalf("left = %T, want nested AND (left-associative)", root.Left)
	}
	if _, ok := root.Right.(*ComparisonExpr); !ok {
		t.Fatalf("right = %T, want comparison", root.Right)
	}
}

func TestParserGroupingRetained(t *testing.T) {
	node := mustParse(t, `a = 1 AND (b = 2 OR c = 3)`)
	and := node.(*BinaryExpr)
	group, ok := and.Right.(*GroupExpr)
	if !ok {
		t.Fatalf("right of AND = %T, want group", and.Right)
	}
	if or, ok := group.Expr.(*BinaryExpr); !ok || or.Operator != "or" {
		t.Fatalf("inside group = %T, want OR", group.Expr)
	}
}

func TestParserInList(t *testing.T) {
	node := mustParse(t, `status IN ("todo", "in_progress", "done")`)
	cmp, ok := node.(*ComparisonExpr)
	if !ok || cmp.Operator != "in" {
		t.Fatalf("root = %T, want IN comparison", node)
	}
	list, ok := cmp.Right.(*ListExpr)
	if !ok {
		t.Fatalf("right = %T, want list", cmp.Right)
	}
	if len(list.Values) != 3 {
		t.Fatalf("list has %d values, want 3", len(list.Values))
	}
}

func TestParserFunctionCall(t *testing.T) {
	node := mustParse(t, `assignee = currentUser()`)
	cmp := node.(*ComparisonExpr)
	fn, ok := cmp.Right.(*FunctionCallExpr)
	if !ok {
		t.Fatalf("right = %T, want function call", cmp.Right)
	}
	if fn.Name != "currentUser" || len(fn.Args) != 0 {
		t.Errorf("got %s with %d args, want currentUser with 0", fn.Name, len(fn.Args))
	}
}

func TestParserDateLiterals(t *testing.T) {
	node := mustParse(t, `createdDate >= 2024-01-15`)
	cmp := node.(*ComparisonExpr)
	lit := cmp.Right.(*LiteralExpr)
	if lit.Kind != LitDate || !lit.DateOnly {
		t.Fatalf("got kind %v dateOnly %v, want date-only literal", lit.Kind, lit.DateOnly)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !lit.Time.Equal(want) {
		t.Errorf("date = %v, want midnight UTC %v", lit.Time, want)
	}

	node = mustParse(t, `createdDate < 2024-01-15T10:30:00Z`)
	lit = node.(*ComparisonExpr).Right.(*LiteralExpr)
	if lit.DateOnly {
		t.Error("datetime literal marked date-only")
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty query", ``},
		{"Only whitespace", `   `},
		{"Chained comparison", `a = b = c`},
		{"Missing closing paren", `(a = 1`},
		{"Trailing tokens", `a = 1 b`},
		{"Missing comparison value", `a =`},
		{"Dangling AND", `a = 1 AND`},
		{"IN without parens", `status IN "todo"`},
		{"IN with non-literal", `status IN (other)`},
		{"Invalid date", `createdDate > 2024-13-99`},
		{"Unclosed function call", `assignee = currentUser(`},
		{"Lone operator", `= 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := ParseQuery(tt.input)
			if err == nil {
				t.Fatalf("ParseQuery(%q) = %v, want error", tt.input, node)
			}
			if err.Message == "" {
				t.Error("error has empty message")
			}
		})
	}
}

func TestParserErrorOffsets(t *testing.T) {
	_, err := ParseQuery(`a = 1 banana`)
	if err == nil {
		t.Fatal("want error for trailing tokens")
	}
	if err.Start != 6 || err.End != 12 {
		t.Errorf("error span = %d..%d, want 6..12", err.Start, err.End)
	}
}
