package testdb

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/db"
	"github.com/steffin35/student-report-app/internal/meeting"
	"github.com/steffin35/student-report-app/internal/report"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewAccountsStore opens a fresh in-memory accounts store with the full
// schema. The embedded database needs no container, so each test gets its own
// isolated store keyed by the test name.
func NewAccountsStore(t *testing.T) *bun.DB {
	t.Helper()

	database := open(t, "accounts")
	err := db.EnsureSchema(context.Background(), database,
		(*account.Teacher)(nil),
		(*account.Student)(nil),
		(*account.ParentLink)(nil),
		(*meeting.Request)(nil),
	)
	require.NoError(t, err)
	return database
}

// NewReportsStore opens a fresh in-memory reports store with the full schema
func NewReportsStore(t *testing.T) *bun.DB {
	t.Helper()

	database := open(t, "reports")
	err := db.EnsureSchema(context.Background(), database, (*report.Report)(nil))
	require.NoError(t, err)
	return database
}

func CleanupTables(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()
	for _, table := range tables {
		_, err := database.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err)
	}
}

func open(t *testing.T, store string) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, store)

	database, err := db.OpenDSN(dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		database.Close()
	})
	return database
}
