// Package compile turns a validated query into a CompiledQuery: an
// immutable predicate tree whose literal values are carried as typed bound
// parameters, never as text. The same tree drives both the storage-native
// SQL emission and the in-memory evaluator; both must agree on every
// record.
package compile

import (
	"fmt"

	"github.com/groundwork/lql/internal/funcs"
	"github.com/groundwork/lql/internal/schema"
	"github.com/groundwork/lql/internal/semantics"
	"github.com/groundwork/lql/internal/syntax"
)

// predKind tags the closed set of predicate node kinds.
type predKind int

const (
	predComparison predKind = iota
	predAnd
	predOr
	predNot
	predBoolField // bare boolean field reference
	predConst     // bare TRUE/FALSE literal
)

// operand is one comparison value: either a concrete literal or a
// context-dependent function resolved at bind time.
type operand struct {
	literal interface{}
	fn      *funcs.Descriptor
}

// predicate is one node of the compiled tree.
type predicate struct {
	kind     predKind
	field    schema.Field
	operator string
	value    operand
	values   []operand // IN list
	left     *predicate
	right    *predicate
	operand  *predicate
	constVal bool
}

// CompiledQuery is the immutable result of compiling a validated AST. It
// never embeds raw query text, is safe for concurrent reuse, and must be
// bound with an execution context before evaluation so context functions
// resolve exactly once per execution.
type CompiledQuery struct {
	root          *predicate
	schemaVersion string
	funcNames     []string
}

// SchemaVersion returns the version stamp of the schema the query was
// compiled against, for cache invalidation.
func (q *CompiledQuery) SchemaVersion() string { return q.schemaVersion }

// ContextDependent reports whether the query calls any context-dependent
// function such as currentUser() or now().
func (q *CompiledQuery) ContextDependent() bool { return len(q.funcNames) > 0 }

// Compile walks the annotated AST and emits the predicate tree.
// Validation has already established every invariant compile relies on;
// an unexpected node here is a programming defect, not a user error.
func Compile(checked *semantics.Checked, s *schema.Schema) *CompiledQuery {
	c := &compiler{checked: checked}
	root := c.compilePredicate(checked.Root)
	return &CompiledQuery{
		root:          root,
		schemaVersion: s.Version(),
		funcNames:     c.funcNames,
	}
}

type compiler struct {
	checked   *semantics.Checked
	funcNames []string
}

func (c *compiler) compilePredicate(n syntax.Node) *predicate {
	switch e := syntax.Unwrap(n).(type) {
	case *syntax.BinaryExpr:
		kind := predAnd
		if e.Operator == "or" {
			kind = predOr
		}
		return &predicate{
			kind:  kind,
			left:  c.compilePredicate(e.Left),
			right: c.compilePredicate(e.Right),
		}
	case *syntax.UnaryExpr:
		return &predicate{kind: predNot, operand: c.compilePredicate(e.Operand)}
	case *syntax.ComparisonExpr:
		return c.compileComparison(e)
	case *syntax.FieldRefExpr:
		return &predicate{kind: predBoolField, field: c.checked.Fields[e]}
	case *syntax.LiteralExpr:
		return &predicate{kind: predConst, constVal: e.Bool}
	default:
		panic(fmt.Sprintf("lql: compile reached unvalidated node %T", e))
	}
}

func (c *compiler) compileComparison(e *syntax.ComparisonExpr) *predicate {
	fieldRef := syntax.Unwrap(e.Left).(*syntax.FieldRefExpr)
	p := &predicate{
		kind:     predComparison,
		field:    c.checked.Fields[fieldRef],
		operator: e.Operator,
	}

	if e.Operator == schema.OpIn {
		list := syntax.Unwrap(e.Right).(*syntax.ListExpr)
		p.values = make([]operand, 0, len(list.Values))
		for _, v := range list.Values {
			p.values = append(p.values, c.compileOperand(v))
		}
		return p
	}

	p.value = c.compileOperand(e.Right)
	return p
}

func (c *compiler) compileOperand(n syntax.Node) operand {
	switch e := syntax.Unwrap(n).(type) {
	case *syntax.LiteralExpr:
		return operand{literal: e.Value()}
	case *syntax.FunctionCallExpr:
		d := c.checked.Funcs[e]
		c.recordFunc(d.Name)
		return operand{fn: &d}
	default:
		panic(fmt.Sprintf("lql: compile reached unvalidated comparison value %T", e))
	}
}

func (c *compiler) recordFunc(name string) {
	for _, n := range c.funcNames {
		if n == name {
			return
		}
	}
	c.funcNames = append(c.funcNames, name)
}
