// Package database builds bun handles for the supported dialects.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens a SQLite database at the given DSN. In-memory databases
// are pinned to a single connection so every query sees the same store.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite %q: %w", dsn, err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewPostgresDB wraps an already-opened Postgres connection pool. The caller
// owns driver selection and connection lifecycle.
func NewPostgresDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}

// RegisterModels registers the join-table models bun needs before relation
// queries run.
func RegisterModels(db *bun.DB, models ...any) {
	for _, model := range models {
		db.RegisterModel(model)
	}
}
