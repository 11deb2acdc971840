// Package semantics type-checks a parsed query against a field schema and
// function registry. Unlike lexing and parsing, validation does not stop
// at the first problem: every error in the query is collected so a UI can
// report them all at once.
package semantics

import (
	"github.com/groundwork/lql/internal/diag"
	"github.com/groundwork/lql/internal/funcs"
	"github.com/groundwork/lql/internal/schema"
	"github.com/groundwork/lql/internal/syntax"
)

// Checked is the validated, annotated form of a query. Fields and Funcs
// carry the resolution results keyed by AST node; the tree itself is not
// mutated.
type Checked struct {
	Root   syntax.Node
	Fields map[*syntax.FieldRefExpr]schema.Field
	Funcs  map[*syntax.FunctionCallExpr]funcs.Descriptor
}

type checker struct {
	schema   *schema.Schema
	registry *funcs.Registry
	fields   map[*syntax.FieldRefExpr]schema.Field
	funcs    map[*syntax.FunctionCallExpr]funcs.Descriptor
	errs     diag.List
}

// Check validates the AST against the schema and registry. On success it
// returns the annotated query; otherwise every validation error found.
func Check(root syntax.Node, s *schema.Schema, r *funcs.Registry) (*Checked, diag.List) {
	c := &checker{
		schema:   s,
		registry: r,
		fields:   make(map[*syntax.FieldRefExpr]schema.Field),
		funcs:    make(map[*syntax.FunctionCallExpr]funcs.Descriptor),
	}
	c.checkPredicate(root)
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return &Checked{Root: root, Fields: c.fields, Funcs: c.funcs}, nil
}

func (c *checker) errorf(n syntax.Node, format string, args ...interface{}) {
	start, end := n.Span()
	c.errs = append(c.errs, diag.Validationf(start, end, format, args...))
}

// checkPredicate validates a boolean-valued expression.
func (c *checker) checkPredicate(n syntax.Node) {
	switch e := syntax.Unwrap(n).(type) {
	case *syntax.BinaryExpr:
		c.checkPredicate(e.Left)
		c.checkPredicate(e.Right)
	case *syntax.UnaryExpr:
		c.checkPredicate(e.Operand)
	case *syntax.ComparisonExpr:
		c.checkComparison(e)
	case *syntax.FieldRefExpr:
		// A bare field reference is a predicate only for boolean fields.
		if f, ok := c.resolveField(e); ok && f.Type != schema.TypeBoolean {
			c.errorf(e, "field %q is %s, not boolean; it cannot stand alone as a condition", e.Name, f.Type)
		}
	case *syntax.LiteralExpr:
		if e.Kind != syntax.LitBool {
			c.errorf(e, "a %s literal is not a condition", e.Kind)
		}
	case *syntax.FunctionCallExpr:
		if d, ok := c.resolveFunction(e); ok && d.ReturnType != schema.TypeBoolean {
			c.errorf(e, "function %s() returns %s, not boolean; it cannot stand alone as a condition", e.Name, d.ReturnType)
		}
	default:
		c.errorf(n, "expression is not a condition")
	}
}

// checkComparison validates one field/operator/value triple.
func (c *checker) checkComparison(e *syntax.ComparisonExpr) {
	fieldRef, ok := syntax.Unwrap(e.Left).(*syntax.FieldRefExpr)
	if !ok {
		c.errorf(e.Left, "left side of a comparison must be a field name")
		// Still check the right side for function/literal problems.
		c.checkValueSide(e.Right)
		return
	}

	field, found := c.resolveField(fieldRef)
	if !found {
		c.checkValueSide(e.Right)
		return
	}

	if !schema.OperatorAllowed(field.Type, e.Operator) {
		c.errorf(e, "operator %s is not allowed for %s field %q", printOp(e.Operator), field.Type, field.Name)
	}

	if e.Operator == schema.OpIn {
		list, ok := syntax.Unwrap(e.Right).(*syntax.ListExpr)
		if !ok {
			c.errorf(e.Right, "IN requires a parenthesized list of values")
			return
		}
		for _, v := range list.Values {
			c.checkValueAgainstField(v, field)
		}
		return
	}

	c.checkValueAgainstField(e.Right, field)
}

// checkValueSide validates the right side of a comparison whose field could
// not be resolved, so function errors are still reported. IN lists hold
// literals only (the parser enforces this), so a function can appear only
// as the whole right side.
func (c *checker) checkValueSide(n syntax.Node) {
	if e, ok := syntax.Unwrap(n).(*syntax.FunctionCallExpr); ok {
		c.resolveFunction(e)
	}
}

// checkValueAgainstField confirms a comparison value matches the field type.
func (c *checker) checkValueAgainstField(n syntax.Node, field schema.Field) {
	switch e := syntax.Unwrap(n).(type) {
	case *syntax.LiteralExpr:
		c.checkLiteralAgainstField(e, field)
	case *syntax.FunctionCallExpr:
		d, ok := c.resolveFunction(e)
		if !ok {
			return
		}
		if d.ReturnType != field.Type {
			c.errorf(e, "function %s() returns %s, but field %q is %s", e.Name, d.ReturnType, field.Name, field.Type)
		}
	case *syntax.FieldRefExpr:
		c.errorf(e, "comparing two fields is not supported; the right side must be a literal or function")
	default:
		c.errorf(n, "comparison value must be a literal or function")
	}
}

func (c *checker) checkLiteralAgainstField(lit *syntax.LiteralExpr, field schema.Field) {
	switch field.Type {
	case schema.TypeString:
		if lit.Kind != syntax.LitString {
			c.errorf(lit, "field %q expects a string, got %s", field.Name, lit.Kind)
		}
	case schema.TypeNumber:
		if lit.Kind != syntax.LitNumber {
			c.errorf(lit, "field %q expects a number, got %s", field.Name, lit.Kind)
		}
	case schema.TypeBoolean:
		if lit.Kind != syntax.LitBool {
			c.errorf(lit, "field %q expects TRUE or FALSE, got %s", field.Name, lit.Kind)
		}
	case schema.TypeDate:
		if lit.Kind != syntax.LitDate {
			c.errorf(lit, "field %q expects a date literal like 2024-01-15, got %s", field.Name, lit.Kind)
		}
	case schema.TypeEnum:
		if lit.Kind != syntax.LitString {
			c.errorf(lit, "field %q expects one of its declared values, got %s", field.Name, lit.Kind)
			return
		}
		if !field.AllowsEnumValue(lit.String) {
			c.errorf(lit, "%q is not a valid value for field %q", lit.String, field.Name)
		}
	case schema.TypeUser:
		if lit.Kind != syntax.LitString {
			c.errorf(lit, "field %q expects a user id string, got %s", field.Name, lit.Kind)
		}
	}
}

func (c *checker) resolveField(e *syntax.FieldRefExpr) (schema.Field, bool) {
	if f, ok := c.fields[e]; ok {
		return f, true
	}
	f, ok := c.schema.Field(e.Name)
	if !ok {
		c.errorf(e, "unknown field %q", e.Name)
		return schema.Field{}, false
	}
	c.fields[e] = f
	return f, true
}

func (c *checker) resolveFunction(e *syntax.FunctionCallExpr) (funcs.Descriptor, bool) {
	if d, ok := c.funcs[e]; ok {
		return d, true
	}
	d, ok := c.registry.Lookup(e.Name)
	if !ok {
		c.errorf(e, "unknown function %q", e.Name)
		return funcs.Descriptor{}, false
	}
	if len(e.Args) != d.Arity {
		c.errorf(e, "function %s() takes %d arguments, got %d", e.Name, d.Arity, len(e.Args))
		return funcs.Descriptor{}, false
	}
	c.funcs[e] = d
	return d, true
}

func printOp(op string) string {
	switch op {
	case schema.OpIn:
		return "IN"
	case schema.OpContains:
		return "CONTAINS"
	default:
		return op
	}
}
