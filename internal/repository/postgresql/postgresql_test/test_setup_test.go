package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.Migrate(context.Background()))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row the tests may have written
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"punches",
		"vacation_requests",
		"correction_requests",
		"accounts",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func (t *TestDatabaseSetup) createUser(tb testing.TB, username string, isAdmin bool, weekly string) {
	tb.Helper()
	_, err := t.DB.Exec(context.Background(), `
		INSERT INTO users (username, display_name, is_admin, schedule_cycle, weekly_schedule)
		VALUES ($1, $2, $3, 1, $4::jsonb)
	`, username, username+" display", isAdmin, weekly)
	require.NoError(tb, err)
}
