package compile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/groundwork/lql/internal/schema"
)

const likeEscapeClause = "ESCAPE '\\'"

// SQL renders the bound query as a WHERE fragment plus its bound
// arguments. Literal values only ever appear in the args slice; the
// fragment contains nothing but quoted column names, operators, and '?'
// placeholders.
//
// Comparisons are null-guarded so the generated SQL uses the same
// two-valued logic as the in-memory evaluator: a comparison against a
// NULL column is false, and NOT is plain negation.
func (b *Bound) SQL() (string, []interface{}) {
	return b.buildCondition(b.query.root)
}

func (b *Bound) buildCondition(p *predicate) (string, []interface{}) {
	switch p.kind {
	case predAnd:
		lq, la := b.buildCondition(p.left)
		rq, ra := b.buildCondition(p.right)
		return fmt.Sprintf("(%s) AND (%s)", lq, rq), append(la, ra...)
	case predOr:
		lq, la := b.buildCondition(p.left)
		rq, ra := b.buildCondition(p.right)
		return fmt.Sprintf("(%s) OR (%s)", lq, rq), append(la, ra...)
	case predNot:
		q, a := b.buildCondition(p.operand)
		return fmt.Sprintf("NOT (%s)", q), a
	case predBoolField:
		col := quoteIdent(p.field.ColumnName())
		return fmt.Sprintf("(%s IS NOT NULL AND %s = ?)", col, col), []interface{}{true}
	case predConst:
		if p.constVal {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	case predComparison:
		return b.buildComparison(p)
	default:
		panic(fmt.Sprintf("lql: unknown predicate kind %d", p.kind))
	}
}

func (b *Bound) buildComparison(p *predicate) (string, []interface{}) {
	col := quoteIdent(p.field.ColumnName())

	switch p.operator {
	case schema.OpIn:
		if len(p.values) == 0 {
			return "1 = 0", nil
		}
		placeholders := make([]string, len(p.values))
		args := make([]interface{}, len(p.values))
		for i, op := range p.values {
			placeholders[i] = "?"
			args[i] = bindValue(b.operandValue(op))
		}
		return fmt.Sprintf("(%s IS NOT NULL AND %s IN (%s))", col, col, strings.Join(placeholders, ", ")), args
	case schema.OpContains:
		pattern := "%" + escapeLikePattern(fmt.Sprint(b.operandValue(p.value))) + "%"
		return fmt.Sprintf("(%s IS NOT NULL AND %s LIKE ? %s)", col, col, likeEscapeClause), []interface{}{pattern}
	default:
		return fmt.Sprintf("(%s IS NOT NULL AND %s %s ?)", col, col, p.operator),
			[]interface{}{bindValue(b.operandValue(p.value))}
	}
}

// bindValue converts literal values to driver-friendly forms. Decimals
// bind as int64 when integral so numeric columns compare numerically on
// every dialect.
func bindValue(v interface{}) interface{} {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return v
	}
	if d.IsInteger() {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}

// quoteIdent quotes a column identifier; double quotes work for both
// sqlite and postgres. Embedded quotes are doubled per the SQL standard.
func quoteIdent(ident string) string {
	escaped := strings.ReplaceAll(ident, `"`, `""`)
	return `"` + escaped + `"`
}

func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"%", `\%`,
		"_", `\_`,
	)
	return replacer.Replace(value)
}
