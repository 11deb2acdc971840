// Package schema defines the typed field catalog a query is validated
// against. The engine owns no schema state; a Schema snapshot is supplied
// by the caller on every call.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FieldType is the declared type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeBoolean
	TypeDate
	TypeEnum
	TypeUser
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeEnum:
		return "enum"
	case TypeUser:
		return "user"
	default:
		return "unknown"
	}
}

// Field describes one queryable field.
type Field struct {
	Name string
	Type FieldType
	// EnumValues is the closed value set for TypeEnum fields. Matching
	// against it is case-sensitive.
	EnumValues []string
	// Column is the storage column backing the field. Empty means the
	// snake_case form of Name.
	Column string
}

// ColumnName returns the storage column for the field.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return ToSnakeCase(f.Name)
}

// AllowsEnumValue reports whether v is in the field's declared value set.
func (f Field) AllowsEnumValue(v string) bool {
	for _, ev := range f.EnumValues {
		if ev == v {
			return true
		}
	}
	return false
}

// Schema is an immutable snapshot of the queryable fields of one record
// type. Field lookup is case-sensitive.
type Schema struct {
	fields  map[string]Field
	names   []string
	version string
}

// New builds a schema from a field list. Duplicate names are rejected.
func New(fields ...Field) (*Schema, error) {
	s := &Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field with empty name")
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fmt.Errorf("duplicate schema field %q", f.Name)
		}
		s.fields[f.Name] = f
		s.names = append(s.names, f.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

// MustNew is New for statically known schemas.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// FieldNames returns the sorted field names, for documentation and
// autocomplete surfaces.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SetVersion stamps the schema with a caller-defined version used for
// compiled-query cache invalidation.
func (s *Schema) SetVersion(v string) { s.version = v }

// Version returns the schema version stamp, falling back to the content
// fingerprint when the caller did not set one.
func (s *Schema) Version() string {
	if s.version != "" {
		return s.version
	}
	return s.Fingerprint()
}

// Fingerprint hashes the canonical field listing. Two schemas with the
// same fields, types, and enum sets share a fingerprint.
func (s *Schema) Fingerprint() string {
	h := xxhash.New()
	for _, name := range s.names {
		f := s.fields[name]
		h.WriteString(name)
		h.WriteString("\x00")
		h.WriteString(f.Type.String())
		h.WriteString("\x00")
		h.WriteString(f.ColumnName())
		h.WriteString("\x00")
		h.WriteString(strings.Join(f.EnumValues, ","))
		h.WriteString("\x1e")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// ToSnakeCase converts a camelCase field name to its snake_case column form.
func ToSnakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
