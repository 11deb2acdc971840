package compile

import (
	"fmt"

	"github.com/groundwork/lql/internal/funcs"
)

// Bound is a CompiledQuery with its context-dependent functions resolved
// to concrete values. Each distinct function is evaluated exactly once per
// Bind call, never per candidate record. A Bound value is immutable and
// safe for concurrent use.
type Bound struct {
	query    *CompiledQuery
	resolved map[string]interface{}
}

// Bind resolves every context-dependent function referenced by the query
// against the execution context.
func (q *CompiledQuery) Bind(ctx funcs.Context) (*Bound, error) {
	b := &Bound{query: q}
	if len(q.funcNames) == 0 {
		return b, nil
	}

	b.resolved = make(map[string]interface{}, len(q.funcNames))
	if err := resolveFuncs(q.root, ctx, b.resolved); err != nil {
		return nil, err
	}
	return b, nil
}

func resolveFuncs(p *predicate, ctx funcs.Context, resolved map[string]interface{}) error {
	if p == nil {
		return nil
	}
	switch p.kind {
	case predComparison:
		if err := resolveOperand(p.value, ctx, resolved); err != nil {
			return err
		}
		for _, op := range p.values {
			if err := resolveOperand(op, ctx, resolved); err != nil {
				return err
			}
		}
	case predAnd, predOr:
		if err := resolveFuncs(p.left, ctx, resolved); err != nil {
			return err
		}
		return resolveFuncs(p.right, ctx, resolved)
	case predNot:
		return resolveFuncs(p.operand, ctx, resolved)
	}
	return nil
}

func resolveOperand(op operand, ctx funcs.Context, resolved map[string]interface{}) error {
	if op.fn == nil {
		return nil
	}
	if _, done := resolved[op.fn.Name]; done {
		return nil
	}
	v, err := op.fn.Eval(ctx)
	if err != nil {
		return fmt.Errorf("resolving %s(): %w", op.fn.Name, err)
	}
	resolved[op.fn.Name] = v
	return nil
}

// operandValue returns the concrete bound value for an operand.
func (b *Bound) operandValue(op operand) interface{} {
	if op.fn != nil {
		return b.resolved[op.fn.Name]
	}
	return op.literal
}
