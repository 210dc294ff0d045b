package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/steffin35/student-report-app/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open opens one embedded SQLite store by file path.
// SQLite serializes writers itself; busy_timeout bounds how long a writer
// waits on the file lock before the call fails.
func Open(cfg config.StoreConfig) (*bun.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared", cfg.Path)

	db, err := OpenDSN(dsn)
	if err != nil {
		return nil, err
	}

	busyTimeout := cfg.BusyTimeoutMillis
	if busyTimeout == 0 {
		busyTimeout = 10000
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	slog.Info("store opened", "path", cfg.Path, "busy_timeout_ms", busyTimeout)
	return db, nil
}

// OpenDSN opens a store with a custom DSN (useful for in-memory test stores)
func OpenDSN(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// A single connection keeps every repository call on one writer and
	// avoids SQLITE_BUSY between our own connections.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	return db, nil
}

func Close(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}
