package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/migrations"
	"github.com/dmitrijs2005/fashionfinder/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// RunLocalMigrations applies the embedded sqlite schema.
func RunLocalMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, "sqlite")
}

// OpenLocal opens (creating if needed) the sqlite file at path and migrates it.
func OpenLocal(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local db %s: %w", path, err)
	}
	// sqlite serialises writers; one connection also keeps :memory: stable.
	db.SetMaxOpenConns(1)

	if err := RunLocalMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local db: %w", err)
	}
	return db, nil
}
