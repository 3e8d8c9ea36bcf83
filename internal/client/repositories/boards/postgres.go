package boards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
)

const boardColumns = `id, user_id, url, title, created_at, last_scraped_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*models.Board, error) {
	var (
		b       models.Board
		userID  sql.NullString
		title   sql.NullString
		scraped sql.NullTime
	)
	if err := row.Scan(&b.ID, &userID, &b.URL, &title, &b.CreatedAt, &scraped); err != nil {
		return nil, err
	}
	b.UserID = userID.String
	b.Title = title.String
	if scraped.Valid {
		t := scraped.Time
		b.LastScrapedAt = &t
	}
	return &b, nil
}

func (r *PostgresRepository) FindByURL(ctx context.Context, userID, url string) (*models.Board, error) {
	query :=
		`SELECT ` + boardColumns + ` FROM pinterest_boards
		 WHERE url = $1 AND user_id = $2
		 `

	b, err := scanBoard(r.db.QueryRowContext(ctx, query, url, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("find board error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Board, error) {
	query :=
		`SELECT ` + boardColumns + ` FROM pinterest_boards
		 WHERE id = $1 AND user_id = $2
		 `

	b, err := scanBoard(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get board error: %w", err)
	}
	return b, nil
}

// Create inserts a board. A concurrent insert of the same (user_id, url)
// collapses into a touch of the existing row, whose id is returned.
func (r *PostgresRepository) Create(ctx context.Context, board *models.Board) (*models.Board, error) {
	query :=
		`INSERT INTO pinterest_boards (user_id, url, title, last_scraped_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, url) DO UPDATE SET last_scraped_at = EXCLUDED.last_scraped_at
		 RETURNING ` + boardColumns

	var scraped any
	if board.LastScrapedAt != nil {
		scraped = *board.LastScrapedAt
	}

	b, err := scanBoard(r.db.QueryRowContext(ctx, query, board.UserID, board.URL, board.Title, scraped))
	if err != nil {
		return nil, fmt.Errorf("create board error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, userID, id string, at time.Time) error {
	query :=
		`UPDATE pinterest_boards SET last_scraped_at = $3
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID, at)
	if err != nil {
		return fmt.Errorf("touch board error: %w", err)
	}
	return dbx.OneRow(res, "touch board")
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Board, error) {
	query :=
		`SELECT ` + boardColumns + ` FROM pinterest_boards
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board error: %w", err)
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pinterest_boards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete board error: %w", err)
	}
	return dbx.OneRow(res, "delete board")
}
