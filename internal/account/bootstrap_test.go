package account_test

import (
	"context"
	"testing"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/db"
	"github.com/steffin35/student-report-app/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdmin_Idempotent(t *testing.T) {
	store := testdb.NewAccountsStore(t)
	ctx := context.Background()
	hasher := auth.LegacyHasher{}

	require.NoError(t, account.SeedAdmin(ctx, store, hasher, "Lam", "Lam123", "Admin Teacher"))
	require.NoError(t, account.SeedAdmin(ctx, store, hasher, "Lam", "Lam123", "Admin Teacher"))

	count, err := store.NewSelect().Model((*account.Teacher)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	admin := new(account.Teacher)
	require.NoError(t, store.NewSelect().Model(admin).Where("username = ?", "Lam").Scan(ctx))
	assert.True(t, admin.IsAdmin)
	assert.True(t, hasher.Verify(admin.Password, "Lam123"))
}

func TestMigrate_AddsAdminColumn(t *testing.T) {
	store := testdb.NewAccountsStore(t)
	ctx := context.Background()

	// Simulate a store created before the admin flag existed.
	_, err := store.ExecContext(ctx, "DROP TABLE teachers")
	require.NoError(t, err)
	_, err = store.ExecContext(ctx, `
		CREATE TABLE teachers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			full_name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	require.NoError(t, err)
	_, err = store.ExecContext(ctx,
		"INSERT INTO teachers (username, password, full_name, created_at) VALUES (?, ?, ?, ?)",
		"Lam", "hash", "Admin Teacher", "2026-01-01 00:00:00")
	require.NoError(t, err)

	require.NoError(t, account.Migrate(ctx, store, "Lam"))

	hasColumn, err := db.HasColumn(ctx, store, "teachers", "is_admin")
	require.NoError(t, err)
	assert.True(t, hasColumn)

	var isAdmin bool
	require.NoError(t, store.QueryRowContext(ctx, "SELECT is_admin FROM teachers WHERE username = ?", "Lam").Scan(&isAdmin))
	assert.True(t, isAdmin, "seed admin is backfilled")

	// Running twice produces no further change.
	require.NoError(t, account.Migrate(ctx, store, "Lam"))
}
