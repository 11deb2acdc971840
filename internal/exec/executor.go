// Package exec is the thin execution boundary of the engine. It hands a
// bound query to the storage collaborator for the native path, or iterates
// a record source with the in-memory predicate for the fallback path. It
// imposes no ordering of its own; results come back in whatever order the
// source guarantees.
package exec

import (
	"context"

	"gorm.io/gorm"

	"github.com/groundwork/lql/internal/compile"
)

// Apply attaches the bound query's WHERE condition to a gorm statement.
// Everything else about the statement (model, ordering, limits,
// cancellation) stays under the caller's control.
//
// CONTAINS compiles to LIKE and is case sensitive. sqlite's LIKE is ASCII
// case-insensitive by default, so sqlite connections must run
// `PRAGMA case_sensitive_like = ON` or CONTAINS will disagree with the
// in-memory evaluator. Postgres LIKE is already case sensitive.
func Apply(b *compile.Bound, db *gorm.DB) *gorm.DB {
	query, args := b.SQL()
	return db.Where(query, args...)
}

// Find runs the native path: it applies the query and loads matching rows
// into dest. Storage errors (including context cancellation) propagate
// from gorm untouched. See Apply for the sqlite LIKE pragma requirement.
func Find(ctx context.Context, b *compile.Bound, db *gorm.DB, dest interface{}) error {
	return Apply(b, db.WithContext(ctx)).Find(dest).Error
}

// Count runs the native path for a match count.
func Count(ctx context.Context, b *compile.Bound, db *gorm.DB, model interface{}) (int64, error) {
	var n int64
	err := Apply(b, db.WithContext(ctx).Model(model)).Count(&n).Error
	return n, err
}

// Filter runs the in-memory path over a record slice, returning matches in
// source order.
func Filter(b *compile.Bound, records []compile.Record) []compile.Record {
	pred := b.Predicate()
	var out []compile.Record
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterFunc streams records from next (which returns ok=false when the
// source is exhausted) through the predicate, calling yield for each
// match. It stops early when yield returns false or ctx is done.
func FilterFunc(ctx context.Context, b *compile.Bound, next func() (compile.Record, bool), yield func(compile.Record) bool) error {
	pred := b.Predicate()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r, ok := next()
		if !ok {
			return nil
		}
		if pred(r) && !yield(r) {
			return nil
		}
	}
}
