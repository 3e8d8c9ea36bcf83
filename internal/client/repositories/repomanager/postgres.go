package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/migrations"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/boards"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/items"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/matches"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/queries"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends the backend table repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Boards(db dbx.DBTX) boards.Repository {
	return boards.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Matches(db dbx.DBTX) matches.Repository {
	return matches.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Queries(db dbx.DBTX) queries.Repository {
	return queries.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded backend schema. Only needed against a
// self-hosted database; a managed backend ships its own schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, "postgres")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
