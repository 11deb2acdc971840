package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlField is the on-disk form of a field definition.
type yamlField struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"`
	Values []string `yaml:"values,omitempty"`
	Column string   `yaml:"column,omitempty"`
}

type yamlSchema struct {
	Version string      `yaml:"version,omitempty"`
	Fields  []yamlField `yaml:"fields"`
}

// Parse builds a schema from YAML, e.g.
//
//	version: "3"
//	fields:
//	  - name: status
//	    type: enum
//	    values: [todo, in_progress, done]
//	  - name: createdDate
//	    type: date
//	    column: created_at
func Parse(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("schema defines no fields")
	}

	fields := make([]Field, 0, len(doc.Fields))
	for _, yf := range doc.Fields {
		ft, err := parseFieldType(yf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", yf.Name, err)
		}
		if ft == TypeEnum && len(yf.Values) == 0 {
			return nil, fmt.Errorf("enum field %q declares no values", yf.Name)
		}
		fields = append(fields, Field{
			Name:       yf.Name,
			Type:       ft,
			EnumValues: yf.Values,
			Column:     yf.Column,
		})
	}

	s, err := New(fields...)
	if err != nil {
		return nil, err
	}
	s.SetVersion(doc.Version)
	return s, nil
}

// LoadFile reads and parses a YAML schema file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}

func parseFieldType(name string) (FieldType, error) {
	switch name {
	case "string":
		return TypeString, nil
	case "number":
		return TypeNumber, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "date":
		return TypeDate, nil
	case "enum":
		return TypeEnum, nil
	case "user":
		return TypeUser, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", name)
	}
}
