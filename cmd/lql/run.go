package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/groundwork/lql"
)

// Issue mirrors the Groundwork issues table for the demo database.
type Issue struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key         string    `gorm:"uniqueIndex;size:20"`
	IssueNumber int
	Title       string `gorm:"size:500"`
	Description string
	Type        string `gorm:"size:50"`
	ProjectID   string `gorm:"index"`
	Status      string `gorm:"size:20;index"`
	Priority    string `gorm:"size:20"`
	AssigneeID  *string
	ReporterID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <query>",
		Short: "Run a query against an issues database",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	cmd.Flags().String("db", "sqlite", "Database type: sqlite or postgres")
	cmd.Flags().String("dsn", ":memory:", "Database DSN (file path or :memory: for sqlite, postgres://... for postgres)")
	cmd.Flags().String("user", "", "Current user id for currentUser()")
	cmd.Flags().Bool("seed", false, "Seed the database with demo issues before running")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := schemaFromCmd(cmd)
	if err != nil {
		return err
	}

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		if err := seedIssues(cmd, db); err != nil {
			return err
		}
	}

	execCtx := lql.ExecutionContext{}
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		id, err := uuid.Parse(user)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		execCtx.UserID = id
	}

	engine := lql.NewEngine(lql.WithLogger(slog.Default()))
	var issues []Issue
	if err := engine.Execute(cmd.Context(), args[0], s, execCtx, db.Model(&Issue{}), &issues); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, issue := range issues {
		fmt.Fprintf(out, "%-10s %-12s %-8s %s\n", issue.Key, issue.Status, issue.Priority, issue.Title)
	}
	fmt.Fprintf(out, "%d issue(s)\n", len(issues))
	return nil
}

func openDatabase(cmd *cobra.Command) (*gorm.DB, error) {
	dbType, _ := cmd.Flags().GetString("db")
	dsn, _ := cmd.Flags().GetString("dsn")

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&Issue{}); err != nil {
		return nil, err
	}

	// CONTAINS is case-sensitive; sqlite LIKE defaults to ASCII
	// case-insensitive without this pragma.
	if dbType == "sqlite" {
		if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
			return nil, err
		}
	}
	return db, nil
}

func seedIssues(cmd *cobra.Command, db *gorm.DB) error {
	reporter := uuid.New().String()
	assignee := uuid.New().String()
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		assignee = user
	}

	now := time.Now().UTC()
	project := uuid.New().String()
	issues := []Issue{
		{ID: uuid.New(), Key: "GW-1", IssueNumber: 1, Title: "Set up project scaffolding", Type: "Task", ProjectID: project, Status: "done", Priority: "high", AssigneeID: &assignee, ReporterID: reporter, CreatedAt: now.AddDate(0, 0, -30)},
		{ID: uuid.New(), Key: "GW-2", IssueNumber: 2, Title: "Implement issue board", Type: "Story", ProjectID: project, Status: "in_progress", Priority: "critical", AssigneeID: &assignee, ReporterID: reporter, CreatedAt: now.AddDate(0, 0, -14)},
		{ID: uuid.New(), Key: "GW-3", IssueNumber: 3, Title: "Write onboarding docs", Type: "Task", ProjectID: project, Status: "todo", Priority: "low", ReporterID: reporter, CreatedAt: now.AddDate(0, 0, -7)},
		{ID: uuid.New(), Key: "GW-4", IssueNumber: 4, Title: "Fix login redirect loop", Type: "Bug", ProjectID: project, Status: "todo", Priority: "critical", AssigneeID: &assignee, ReporterID: reporter, CreatedAt: now.AddDate(0, 0, -2)},
	}
	if err := db.Create(&issues).Error; err != nil {
		return fmt.Errorf("seeding issues: %w", err)
	}
	slog.Info("seeded demo issues", "count", len(issues), "assignee", assignee)
	return nil
}
