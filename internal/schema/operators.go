package schema

// Comparison operators, spelled the way the lexer normalizes them.
const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpIn                 = "in"
	OpContains           = "contains"
)

// OperatorAllowed reports whether the operator is legal for a field of the
// given type. Equality and IN work for every type; ordering needs numbers
// or dates; CONTAINS needs strings.
func OperatorAllowed(t FieldType, op string) bool {
	switch op {
	case OpEqual, OpNotEqual, OpIn:
		return true
	case OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return t == TypeNumber || t == TypeDate
	case OpContains:
		return t == TypeString
	default:
		return false
	}
}

// Operators returns the operators legal for a field type, for the grammar
// documentation surface.
func Operators(t FieldType) []string {
	ops := []string{OpEqual, OpNotEqual, OpIn}
	if t == TypeNumber || t == TypeDate {
		ops = append(ops, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual)
	}
	if t == TypeString {
		ops = append(ops, OpContains)
	}
	return ops
}
