package dbx

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/jackc/pgx/v5/pgtype"
)

// TextArray returns a scanner for Postgres text[] (and uuid[]) columns.
// A NULL column leaves *dst nil.
func TextArray(dst *[]string) sql.Scanner {
	return pgtype.NewMap().SQLScanner(dst)
}

// JSONArg encodes v for a jsonb parameter.
func JSONArg(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(b), nil
}

// Strings normalises a nil slice to an empty one so NOT NULL array columns
// receive '{}' rather than NULL.
func Strings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// OneRow checks that a statement touched exactly one row. Zero rows maps to
// common.ErrNotFound, which covers both a missing id and a row owned by
// another user.
func OneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%s: unexpected rows affected: %d", op, n)
	}
}
