// Package lql implements the LQL query language for Groundwork issues:
// a small filter language (for example, status = "done" AND
// assignee = currentUser()) that is lexed, parsed, validated against a
// caller-supplied field schema, and compiled into an immutable query that
// runs identically against a SQL store and in memory.
package lql

import (
	"context"

	"gorm.io/gorm"

	"github.com/groundwork/lql/internal/compile"
	"github.com/groundwork/lql/internal/diag"
	"github.com/groundwork/lql/internal/exec"
	"github.com/groundwork/lql/internal/funcs"
	"github.com/groundwork/lql/internal/schema"
	"github.com/groundwork/lql/internal/semantics"
	"github.com/groundwork/lql/internal/syntax"
)

// Schema re-exports the field schema type. The engine owns no schema
// state; callers pass a snapshot to every Compile call.
type Schema = schema.Schema

// Field describes one queryable field.
type Field = schema.Field

// FieldType is the declared type of a schema field.
type FieldType = schema.FieldType

// Field types.
const (
	TypeString  = schema.TypeString
	TypeNumber  = schema.TypeNumber
	TypeBoolean = schema.TypeBoolean
	TypeDate    = schema.TypeDate
	TypeEnum    = schema.TypeEnum
	TypeUser    = schema.TypeUser
)

// NewSchema builds a schema from a field list.
func NewSchema(fields ...Field) (*Schema, error) { return schema.New(fields...) }

// MustNewSchema is NewSchema for statically known schemas.
func MustNewSchema(fields ...Field) *Schema { return schema.MustNew(fields...) }

// IssueSchema returns the built-in schema for Groundwork issues.
func IssueSchema() *Schema { return schema.Issues() }

// LoadSchema reads a YAML schema file.
func LoadSchema(path string) (*Schema, error) { return schema.LoadFile(path) }

// Registry maps function names to descriptors; it is immutable once built.
type Registry = funcs.Registry

// FunctionDescriptor describes one registered function.
type FunctionDescriptor = funcs.Descriptor

// ExecutionContext carries the current user and reference time used to
// resolve context-dependent functions.
type ExecutionContext = funcs.Context

// NewRegistry builds a function registry from descriptors.
func NewRegistry(descriptors ...FunctionDescriptor) (*Registry, error) {
	return funcs.NewRegistry(descriptors...)
}

// DefaultFunctions returns the standard registry with currentUser() and
// now(). Construct it once at startup and pass it everywhere explicitly.
func DefaultFunctions() *Registry { return funcs.Default() }

// CompiledQuery is the immutable, reusable result of compiling a query.
type CompiledQuery = compile.CompiledQuery

// BoundQuery is a compiled query with its context functions resolved.
type BoundQuery = compile.Bound

// Record is one candidate row for in-memory evaluation.
type Record = compile.Record

// MapRecord adapts a map keyed by column name.
type MapRecord = compile.MapRecord

// Compile lexes, parses, validates, and compiles a query string against
// the schema and registry. On failure it returns every error found, each
// carrying the byte range of the offending substring.
func Compile(text string, s *Schema, r *Registry) (*CompiledQuery, Errors) {
	ast, perr := syntax.ParseQuery(text)
	if perr != nil {
		return nil, Errors{convertError(perr)}
	}

	checked, verrs := semantics.Check(ast, s, r)
	if verrs != nil {
		return nil, convertErrors(verrs)
	}

	return compile.Compile(checked, s), nil
}

// MustCompile is Compile for statically known queries; it panics on any
// error.
func MustCompile(text string, s *Schema, r *Registry) *CompiledQuery {
	cq, errs := Compile(text, s, r)
	if errs != nil {
		panic("lql: " + errs.Error())
	}
	return cq
}

// Validate reports every problem in a query without compiling it, for
// live feedback surfaces. A nil result means the query is valid.
func Validate(text string, s *Schema, r *Registry) Errors {
	_, errs := Compile(text, s, r)
	return errs
}

// Format parses a query and pretty-prints it in canonical form. The
// result reparses to a structurally identical query.
func Format(text string) (string, error) {
	ast, perr := syntax.ParseQuery(text)
	if perr != nil {
		return "", convertError(perr)
	}
	return syntax.Print(ast), nil
}

// Apply attaches a bound query's WHERE condition to a gorm statement;
// values travel as bound parameters only.
//
// sqlite connections must run `PRAGMA case_sensitive_like = ON`, or
// CONTAINS (which compiles to LIKE) will match case-insensitively and
// disagree with the in-memory evaluator.
func Apply(b *BoundQuery, db *gorm.DB) *gorm.DB { return exec.Apply(b, db) }

// Find runs the native path, loading matching rows into dest. Storage
// errors propagate from gorm untouched. See Apply for the sqlite LIKE
// pragma requirement.
func Find(ctx context.Context, b *BoundQuery, db *gorm.DB, dest interface{}) error {
	return exec.Find(ctx, b, db, dest)
}

// Filter runs the in-memory path, returning matches in source order.
func Filter(b *BoundQuery, records []Record) []Record {
	return exec.Filter(b, records)
}

func convertError(e *diag.Error) *Error {
	return &Error{
		Kind:    ErrorKind(e.Kind),
		Message: e.Message,
		Start:   e.Start,
		End:     e.End,
	}
}

func convertErrors(list diag.List) Errors {
	out := make(Errors, len(list))
	for i, e := range list {
		out[i] = convertError(e)
	}
	return out
}
