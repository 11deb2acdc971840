package syntax

import (
	"testing"
)

func TestPrintCanonicalForms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`status="done"`, `status = "done"`},
		{`a=1 and b=2 or c=3`, `a = 1 AND b = 2 OR c = 3`},
		{`not a = 1`, `NOT a = 1`},
		{`status in("todo","done")`, `status IN ("todo", "done")`},
		{`title contains "login"`, `title CONTAINS "login"`},
		{`(a = 1 or b = 2) and c = true`, `(a = 1 OR b = 2) AND c = TRUE`},
		{`assignee = currentUser()`, `assignee = currentUser()`},
		{`createdDate >= 2024-01-15`, `createdDate >= 2024-01-15`},
		{`createdDate < 2024-01-15T10:30:00Z`, `createdDate < 2024-01-15T10:30:00Z`},
		{`estimate = 1.50`, `estimate = 1.5`},
		{`title = "say \"hi\""`, `title = "say \"hi\""`},
	}

	for _, tt := range tests {
		node := mustParse(t, tt.input)
		if got := Print(node); got != tt.expected {
			t.Errorf("Print(parse(%q)) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// Pretty-printing a parsed query and re-parsing it must yield a
// structurally identical tree.
func TestPrintRoundTrip(t *testing.T) {
	queries := []string{
		`status = "done"`,
		`status = "done" AND assignee = currentUser()`,
		`a = 1 AND b = 2 OR c = 3`,
		`NOT (a = 1 OR b = 2)`,
		`NOT NOT isBlocked`,
		`status IN ("todo", "in_progress") AND priority != "low"`,
		`title CONTAINS "redirect \"loop\""`,
		`createdDate >= 2024-01-15 AND createdDate < now()`,
		`(a = 1) AND ((b = 2) OR (c = 3))`,
		`estimate >= -1.5 AND estimate <= 10`,
		`isBlocked = TRUE OR isBlocked = FALSE`,
	}

	for _, q := range queries {
		first := mustParse(t, q)
		printed := Print(first)
		second, err := ParseQuery(printed)
		if err != nil {
			t.Errorf("reparsing %q (printed from %q) failed: %v", printed, q, err)
			continue
		}
		if !Equal(first, second) {
			t.Errorf("round trip of %q changed structure: printed %q", q, printed)
		}
	}
}

func TestEqualDistinguishesStructure(t *testing.T) {
	a := mustParse(t, `a = 1 AND b = 2 OR c = 3`)
	b := mustParse(t, `a = 1 AND (b = 2 OR c = 3)`)
	if Equal(a, b) {
		t.Error("trees with different shapes reported equal")
	}
}
