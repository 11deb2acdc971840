package lql

import (
	"sort"

	"github.com/groundwork/lql/internal/schema"
)

// GrammarField documents one queryable field for autocomplete surfaces.
type GrammarField struct {
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Operators []string `json:"operators" yaml:"operators"`
	Values    []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Grammar describes the language surface for a schema and registry:
// fields with their legal operators, keywords, literal forms, and
// callable functions.
type Grammar struct {
	Fields    []GrammarField `json:"fields" yaml:"fields"`
	Keywords  []string       `json:"keywords" yaml:"keywords"`
	Literals  []string       `json:"literals" yaml:"literals"`
	Functions []string       `json:"functions" yaml:"functions"`
}

// Describe builds the grammar surface for a schema and function registry.
func Describe(s *Schema, r *Registry) Grammar {
	g := Grammar{
		Keywords: []string{"AND", "OR", "NOT", "IN", "CONTAINS", "TRUE", "FALSE"},
		Literals: []string{"string", "number", "boolean", "date"},
	}

	for _, name := range s.FieldNames() {
		f, _ := s.Field(name)
		g.Fields = append(g.Fields, GrammarField{
			Name:      f.Name,
			Type:      f.Type.String(),
			Operators: displayOperators(f.Type),
			Values:    f.EnumValues,
		})
	}

	g.Functions = r.Names()
	sort.Strings(g.Functions)
	for i, fn := range g.Functions {
		g.Functions[i] = fn + "()"
	}
	return g
}

// displayOperators spells operators the way queries write them, with the
// word operators uppercased.
func displayOperators(t FieldType) []string {
	ops := schema.Operators(t)
	out := make([]string, len(ops))
	for i, op := range ops {
		switch op {
		case schema.OpIn:
			out[i] = "IN"
		case schema.OpContains:
			out[i] = "CONTAINS"
		default:
			out[i] = op
		}
	}
	return out
}
