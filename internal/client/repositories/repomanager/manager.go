// Package repomanager vends repository implementations bound to a DBTX and
// runs the embedded goose migrations for both databases the client talks to:
// the backend Postgres and the local sqlite file.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/boards"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/items"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/matches"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/queries"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Boards(db dbx.DBTX) boards.Repository
	Items(db dbx.DBTX) items.Repository
	Matches(db dbx.DBTX) matches.Repository
	Queries(db dbx.DBTX) queries.Repository
}
