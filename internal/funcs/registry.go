// Package funcs defines the LQL function registry and the execution
// context that context-dependent functions resolve against. The registry
// is a caller-owned immutable value; the engine keeps no global table.
package funcs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/groundwork/lql/internal/schema"
)

// Context carries the runtime values needed to resolve context-dependent
// functions. Each function is resolved exactly once per query execution,
// never per record.
type Context struct {
	UserID uuid.UUID
	// Now is the query's reference time. A zero value means the wall clock
	// at resolution time.
	Now time.Time
}

// Timestamp returns the effective reference time.
func (c Context) Timestamp() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}
	return c.Now.UTC()
}

// Descriptor describes one registered function.
type Descriptor struct {
	Name       string
	ReturnType schema.FieldType
	Arity      int
	// ContextDependent marks functions whose value comes from the
	// execution context rather than their arguments.
	ContextDependent bool
	// Eval produces the function's value for one query execution.
	Eval func(Context) (interface{}, error)
}

// Registry maps function names to descriptors. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds a registry from descriptors. Duplicate names are
// rejected.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("function descriptor with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate function %q", d.Name)
		}
		r.byName[d.Name] = d
	}
	return r, nil
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered function names for the documentation
// surface; order is unspecified.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

// Default returns the standard registry with currentUser() and now().
// Hosts construct it once at startup and pass it everywhere explicitly.
func Default() *Registry {
	r, err := NewRegistry(
		Descriptor{
			Name:             "currentUser",
			ReturnType:       schema.TypeUser,
			Arity:            0,
			ContextDependent: true,
			Eval: func(ctx Context) (interface{}, error) {
				if ctx.UserID == uuid.Nil {
					return nil, fmt.Errorf("currentUser() requires a user in the execution context")
				}
				return ctx.UserID.String(), nil
			},
		},
		Descriptor{
			Name:             "now",
			ReturnType:       schema.TypeDate,
			Arity:            0,
			ContextDependent: true,
			Eval: func(ctx Context) (interface{}, error) {
				return ctx.Timestamp(), nil
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
