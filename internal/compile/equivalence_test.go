package compile

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/groundwork/lql/internal/funcs"
)

type taskRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	Title      string
	Status     string
	Estimate   float64
	IsBlocked  bool
	Created    time.Time `gorm:"column:created_at"`
	AssigneeID *string
}

func (taskRow) TableName() string { return "tasks" }

func (r taskRow) record() MapRecord {
	m := MapRecord{
		"title":      r.Title,
		"status":     r.Status,
		"estimate":   r.Estimate,
		"is_blocked": r.IsBlocked,
		"created_at": r.Created,
	}
	if r.AssigneeID != nil {
		m["assignee_id"] = *r.AssigneeID
	}
	return m
}

// The SQL emission and the in-memory evaluator must select the same rows
// for every query, including rows with NULL columns.
func TestSQLAndMemoryAgree(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Substring matching is case sensitive on both paths.
	if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}

	me := uuid.NewString()
	other := uuid.NewString()
	rows := []taskRow{
		{Title: "Fix login flow", Status: "done", Estimate: 3, IsBlocked: false,
			Created: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), AssigneeID: &me},
		{Title: "Add LOGIN banner", Status: "in_progress", Estimate: 2.5, IsBlocked: true,
			Created: time.Date(2024, 2, 20, 15, 30, 0, 0, time.UTC), AssigneeID: &other},
		{Title: "Write release notes", Status: "todo", Estimate: 1, IsBlocked: false,
			Created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), AssigneeID: nil},
		{Title: "Upgrade 100% of hosts", Status: "todo", Estimate: 8, IsBlocked: true,
			Created: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), AssigneeID: &me},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	queries := []string{
		`status = "done"`,
		`status != "done"`,
		`status IN ("todo", "in_progress")`,
		`estimate > 2`,
		`estimate <= 2.5`,
		`title CONTAINS "login"`,
		`title CONTAINS "LOGIN"`,
		`title CONTAINS "100%"`,
		`isBlocked`,
		`NOT isBlocked`,
		`createdDate >= 2024-02-01`,
		`createdDate < 2024-03-01T00:00:01Z`,
		`assignee = currentUser()`,
		`NOT assignee = currentUser()`,
		`status = "todo" AND estimate > 2 OR isBlocked`,
		`NOT (status = "done" OR assignee = currentUser())`,
	}

	ctx := funcs.Context{UserID: uuid.MustParse(me)}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			b, err := mustCompile(t, q).Bind(ctx)
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}

			sql, args := b.SQL()
			var matched []taskRow
			if err := db.Where(sql, args...).Find(&matched).Error; err != nil {
				t.Fatalf("query %s: %v", sql, err)
			}
			var sqlIDs []int64
			for _, r := range matched {
				sqlIDs = append(sqlIDs, r.ID)
			}

			pred := b.Predicate()
			var memIDs []int64
			for _, r := range rows {
				if pred(r.record()) {
					memIDs = append(memIDs, r.ID)
				}
			}

			sort.Slice(sqlIDs, func(i, j int) bool { return sqlIDs[i] < sqlIDs[j] })
			if len(sqlIDs) != len(memIDs) {
				t.Fatalf("sql matched %v, memory matched %v", sqlIDs, memIDs)
			}
			for i := range sqlIDs {
				if sqlIDs[i] != memIDs[i] {
					t.Fatalf("sql matched %v, memory matched %v", sqlIDs, memIDs)
				}
			}
		})
	}
}
