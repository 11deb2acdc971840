package syntax

// Equal reports whether two ASTs are structurally identical, ignoring
// byte offsets. Grouping is part of the structure; whitespace and literal
// quoting style are not representable and so never matter.
func Equal(a, b Node) bool {
	switch ae := a.(type) {
	case *LiteralExpr:
		be, ok := b.(*LiteralExpr)
		if !ok || ae.Kind != be.Kind {
			return false
		}
		switch ae.Kind {
		case LitString:
			return ae.String == be.String
		case LitNumber:
			return ae.Number.Equal(be.Number)
		case LitBool:
			return ae.Bool == be.Bool
		case LitDate:
			return ae.Time.Equal(be.Time) && ae.DateOnly == be.DateOnly
		}
		return false
	case *FieldRefExpr:
		be, ok := b.(*FieldRefExpr)
		return ok && ae.Name == be.Name
	case *ComparisonExpr:
		be, ok := b.(*ComparisonExpr)
		return ok && ae.Operator == be.Operator && Equal(ae.Left, be.Left) && Equal(ae.Right, be.Right)
	case *BinaryExpr:
		be, ok := b.(*BinaryExpr)
		return ok && ae.Operator == be.Operator && Equal(ae.Left, be.Left) && Equal(ae.Right, be.Right)
	case *UnaryExpr:
		be, ok := b.(*UnaryExpr)
		return ok && Equal(ae.Operand, be.Operand)
	case *FunctionCallExpr:
		be, ok := b.(*FunctionCallExpr)
		if !ok || ae.Name != be.Name || len(ae.Args) != len(be.Args) {
			return false
		}
		for i := range ae.Args {
			if !Equal(ae.Args[i], be.Args[i]) {
				return false
			}
		}
		return true
	case *ListExpr:
		be, ok := b.(*ListExpr)
		if !ok || len(ae.Values) != len(be.Values) {
			return false
		}
		for i := range ae.Values {
			if !Equal(ae.Values[i], be.Values[i]) {
				return false
			}
		}
		return true
	case *GroupExpr:
		be, ok := b.(*GroupExpr)
		return ok && Equal(ae.Expr, be.Expr)
	default:
		return false
	}
}
