package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/db"

	"github.com/uptrace/bun"
)

// Migrate performs additive column migrations on accounts stores created by
// older versions. Running twice produces no further change.
func Migrate(ctx context.Context, database *bun.DB, adminUsername string) error {
	hasAdmin, err := db.HasColumn(ctx, database, "teachers", "is_admin")
	if err != nil {
		return err
	}
	if hasAdmin {
		return nil
	}

	if _, err := database.ExecContext(ctx, "ALTER TABLE teachers ADD COLUMN is_admin BOOLEAN DEFAULT 0"); err != nil {
		return fmt.Errorf("failed to add is_admin column: %w", err)
	}
	if _, err := database.ExecContext(ctx, "UPDATE teachers SET is_admin = 1 WHERE username = ?", adminUsername); err != nil {
		return fmt.Errorf("failed to backfill is_admin: %w", err)
	}

	slog.Info("accounts store migrated", "column", "teachers.is_admin")
	return nil
}

// SeedAdmin inserts the reserved admin teacher if it does not exist yet.
// The default credentials are weak and should be overridden via config in any
// real deployment.
func SeedAdmin(ctx context.Context, database *bun.DB, hasher auth.PasswordHasher, username, password, fullName string) error {
	exists, err := database.NewSelect().
		Model((*Teacher)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	admin := &Teacher{
		Username:  username,
		Password:  hashed,
		FullName:  fullName,
		CreatedAt: time.Now(),
		IsAdmin:   true,
	}
	if _, err := database.NewInsert().Model(admin).Exec(ctx); err != nil {
		return err
	}

	slog.Info("seed admin account created", "username", username)
	return nil
}
