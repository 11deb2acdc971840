package compile

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/groundwork/lql/internal/funcs"
	"github.com/groundwork/lql/internal/schema"
)

func TestBindResolvesEachFunctionOnce(t *testing.T) {
	calls := 0
	reg, err := funcs.NewRegistry(funcs.Descriptor{
		Name:             "now",
		ReturnType:       schema.TypeDate,
		ContextDependent: true,
		Eval: func(funcs.Context) (interface{}, error) {
			calls++
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), nil
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	// now() appears twice; it must resolve once per Bind.
	q := mustCompileWith(t, `createdDate <= now() AND createdDate > now()`, reg)
	if !q.ContextDependent() {
		t.Fatal("ContextDependent() = false, want true")
	}

	if _, err := q.Bind(funcs.Context{}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if calls != 1 {
		t.Errorf("function evaluated %d times during one bind, want 1", calls)
	}

	// A second bind resolves again: values are per execution, not per query.
	if _, err := q.Bind(funcs.Context{}); err != nil {
		t.Fatalf("second Bind: %v", err)
	}
	if calls != 2 {
		t.Errorf("function evaluated %d times after two binds, want 2", calls)
	}
}

func TestBindPropagatesFunctionErrors(t *testing.T) {
	q := mustCompile(t, `assignee = currentUser()`)
	_, err := q.Bind(funcs.Context{}) // no user in context
	if err == nil {
		t.Fatal("Bind without a user succeeded, want error")
	}
	if !strings.Contains(err.Error(), "currentUser") {
		t.Errorf("error %q does not name the function", err)
	}
}

func TestBindWithoutFunctions(t *testing.T) {
	q := mustCompile(t, `status = "done"`)
	if q.ContextDependent() {
		t.Error("ContextDependent() = true for a pure literal query")
	}
	b, err := q.Bind(funcs.Context{})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if sql, _ := b.SQL(); sql == "" {
		t.Error("bound query produced empty SQL")
	}
}

func TestBoundValuesAreFixedAtBindTime(t *testing.T) {
	user := uuid.New()
	b, err := mustCompile(t, `assignee = currentUser()`).Bind(funcs.Context{UserID: user})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	pred := b.Predicate()
	rec := MapRecord{"assignee_id": user.String()}
	if !pred(rec) {
		t.Error("record owned by the bound user did not match")
	}
	if pred(MapRecord{"assignee_id": uuid.NewString()}) {
		t.Error("record owned by another user matched")
	}
}
