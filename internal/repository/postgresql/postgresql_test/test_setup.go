package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
)

// tables in truncate order; CASCADE handles the foreign keys.
var tables = []string{
	"payslips",
	"payrolls",
	"salaries",
	"benefit_contributions",
	"overtime_bases",
	"deductions",
	"earnings",
	"total_overtimes",
	"overtime_hours",
	"attendance_summaries",
	"holidays",
	"attendances",
	"schedule_shifts",
	"schedules",
	"shifts",
	"biometric_punches",
	"refresh_tokens",
	"employment_infos",
	"users",
}

// openTestDB connects to TEST_DATABASE_URL and skips the test when it is
// not set. The schema from migrations/ must already be applied.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := truncateAll(context.Background(), db); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
