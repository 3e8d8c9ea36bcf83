// Package migrations embeds the goose migrations for the local sqlite
// database and for the backend Postgres tables.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
