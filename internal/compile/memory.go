package compile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groundwork/lql/internal/schema"
)

// Record is one candidate row for in-memory evaluation. Field returns the
// value stored under a column name; ok is false when the record has no
// such column or the value is nil.
type Record interface {
	Field(column string) (value interface{}, ok bool)
}

// MapRecord adapts a plain map keyed by column name.
type MapRecord map[string]interface{}

// Field implements Record.
func (m MapRecord) Field(column string) (interface{}, bool) {
	v, ok := m[column]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Predicate returns the pure in-memory evaluator for the bound query.
// AND/OR short-circuit left to right; operands are side-effect free, so
// short-circuiting only avoids work. A comparison against an absent field
// value is false.
func (b *Bound) Predicate() func(Record) bool {
	root := b.query.root
	return func(r Record) bool {
		return b.eval(root, r)
	}
}

func (b *Bound) eval(p *predicate, r Record) bool {
	switch p.kind {
	case predAnd:
		return b.eval(p.left, r) && b.eval(p.right, r)
	case predOr:
		return b.eval(p.left, r) || b.eval(p.right, r)
	case predNot:
		return !b.eval(p.operand, r)
	case predBoolField:
		v, ok := r.Field(p.field.ColumnName())
		if !ok {
			return false
		}
		bv, ok := toBool(v)
		return ok && bv
	case predConst:
		return p.constVal
	case predComparison:
		return b.evalComparison(p, r)
	default:
		panic(fmt.Sprintf("lql: unknown predicate kind %d", p.kind))
	}
}

func (b *Bound) evalComparison(p *predicate, r Record) bool {
	v, ok := r.Field(p.field.ColumnName())
	if !ok {
		return false
	}

	switch p.operator {
	case schema.OpIn:
		for _, op := range p.values {
			if compareEqual(p.field.Type, v, b.operandValue(op)) {
				return true
			}
		}
		return false
	case schema.OpContains:
		s, ok := toString(v)
		if !ok {
			return false
		}
		return strings.Contains(s, fmt.Sprint(b.operandValue(p.value)))
	case schema.OpEqual:
		return compareEqual(p.field.Type, v, b.operandValue(p.value))
	case schema.OpNotEqual:
		return !compareEqual(p.field.Type, v, b.operandValue(p.value))
	default:
		return compareOrdered(p.field.Type, p.operator, v, b.operandValue(p.value))
	}
}

func compareEqual(t schema.FieldType, recordVal, boundVal interface{}) bool {
	switch t {
	case schema.TypeString, schema.TypeEnum, schema.TypeUser:
		rs, ok := toString(recordVal)
		if !ok {
			return false
		}
		return rs == fmt.Sprint(boundVal)
	case schema.TypeNumber:
		rd, ok := toDecimal(recordVal)
		if !ok {
			return false
		}
		bd, ok := toDecimal(boundVal)
		return ok && rd.Cmp(bd) == 0
	case schema.TypeBoolean:
		rb, ok := toBool(recordVal)
		if !ok {
			return false
		}
		bb, ok := toBool(boundVal)
		return ok && rb == bb
	case schema.TypeDate:
		rt, ok := toTime(recordVal)
		if !ok {
			return false
		}
		bt, ok := toTime(boundVal)
		return ok && rt.Equal(bt)
	default:
		return false
	}
}

func compareOrdered(t schema.FieldType, op string, recordVal, boundVal interface{}) bool {
	var cmp int
	switch t {
	case schema.TypeNumber:
		rd, ok := toDecimal(recordVal)
		if !ok {
			return false
		}
		bd, ok := toDecimal(boundVal)
		if !ok {
			return false
		}
		cmp = rd.Cmp(bd)
	case schema.TypeDate:
		rt, ok := toTime(recordVal)
		if !ok {
			return false
		}
		bt, ok := toTime(boundVal)
		if !ok {
			return false
		}
		switch {
		case rt.Before(bt):
			cmp = -1
		case rt.After(bt):
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return false
	}

	switch op {
	case schema.OpGreaterThan:
		return cmp > 0
	case schema.OpGreaterThanOrEqual:
		return cmp >= 0
	case schema.OpLessThan:
		return cmp < 0
	case schema.OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case uuid.UUID:
		return s.String(), true
	case fmt.Stringer:
		return s.String(), true
	default:
		return "", false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int64:
		return b != 0, true
	case int:
		return b != 0, true
	default:
		return false, false
	}
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
