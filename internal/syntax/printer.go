package syntax

import (
	"strings"
)

// Print renders an AST back to query text. The output reparses to a
// structurally identical tree; quoting and spacing are canonicalized.
func Print(n Node) string {
	var sb strings.Builder
	printNode(&sb, n)
	return sb.String()
}

func printNode(sb *strings.Builder, n Node) {
	switch e := n.(type) {
	case *LiteralExpr:
		printLiteral(sb, e)
	case *FieldRefExpr:
		sb.WriteString(e.Name)
	case *ComparisonExpr:
		printNode(sb, e.Left)
		sb.WriteString(" ")
		sb.WriteString(printOperator(e.Operator))
		sb.WriteString(" ")
		printNode(sb, e.Right)
	case *BinaryExpr:
		printNode(sb, e.Left)
		sb.WriteString(" ")
		sb.WriteString(strings.ToUpper(e.Operator))
		sb.WriteString(" ")
		printNode(sb, e.Right)
	case *UnaryExpr:
		sb.WriteString("NOT ")
		printNode(sb, e.Operand)
	case *FunctionCallExpr:
		sb.WriteString(e.Name)
		sb.WriteString("(")
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printNode(sb, arg)
		}
		sb.WriteString(")")
	case *ListExpr:
		sb.WriteString("(")
		for i, v := range e.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			printNode(sb, v)
		}
		sb.WriteString(")")
	case *GroupExpr:
		sb.WriteString("(")
		printNode(sb, e.Expr)
		sb.WriteString(")")
	}
}

func printOperator(op string) string {
	switch op {
	case "in", "contains":
		return strings.ToUpper(op)
	default:
		return op
	}
}

func printLiteral(sb *strings.Builder, e *LiteralExpr) {
	switch e.Kind {
	case LitString:
		sb.WriteString(quoteString(e.String))
	case LitNumber:
		sb.WriteString(e.Number.String())
	case LitBool:
		if e.Bool {
			sb.WriteString("TRUE")
		} else {
			sb.WriteString("FALSE")
		}
	case LitDate:
		if e.DateOnly {
			sb.WriteString(e.Time.Format("2006-01-02"))
		} else {
			sb.WriteString(e.Time.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
