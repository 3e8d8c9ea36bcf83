package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateQuery(ctx context.Context, q *models.UserQuery) (*models.UserQuery, error) {
	query :=
		`INSERT INTO user_queries (board_id, query_images, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	out := *q
	err := r.db.QueryRowContext(ctx, query, q.BoardID, dbx.Strings(q.QueryImages), q.UserID).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user query error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) CreateResult(ctx context.Context, res *models.QueryResult) (*models.QueryResult, error) {
	query :=
		`INSERT INTO query_results (query_id, best_matches, uploaded_matches, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	best := res.BestMatches
	if best == nil {
		best = []models.OverallMatch{}
	}
	bestArg, err := dbx.JSONArg(best)
	if err != nil {
		return nil, err
	}
	uploaded := "[]"
	if len(res.UploadedMatches) > 0 {
		uploaded = string(res.UploadedMatches)
	}

	out := *res
	err = r.db.QueryRowContext(ctx, query, res.QueryID, bestArg, uploaded, res.UserID).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create query result error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID, userID string) ([]models.UserQuery, error) {
	query :=
		`SELECT id, board_id, user_id, query_images, created_at
		 FROM user_queries
		 WHERE board_id = $1 AND user_id = $2
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, boardID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user queries error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserQuery, 0)
	for rows.Next() {
		var q models.UserQuery
		if err := rows.Scan(&q.ID, &q.BoardID, &q.UserID, dbx.TextArray(&q.QueryImages), &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user query error: %w", err)
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user queries error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetResult(ctx context.Context, userID, queryID string) (*models.QueryResult, error) {
	query :=
		`SELECT id, query_id, user_id, best_matches, uploaded_matches, created_at
		 FROM query_results
		 WHERE query_id = $1 AND user_id = $2
		 `

	var (
		res      models.QueryResult
		best     []byte
		uploaded []byte
	)
	err := r.db.QueryRowContext(ctx, query, queryID, userID).
		Scan(&res.ID, &res.QueryID, &res.UserID, &best, &uploaded, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get query result error: %w", err)
	}

	if len(best) > 0 {
		if err := json.Unmarshal(best, &res.BestMatches); err != nil {
			return nil, fmt.Errorf("decode best matches of %s: %w", res.ID, err)
		}
	}
	if len(uploaded) > 0 {
		res.UploadedMatches = json.RawMessage(uploaded)
	}
	return &res, nil
}

// DeleteByBoard removes the user's queries for a board; their results go
// with them via ON DELETE CASCADE.
func (r *PostgresRepository) DeleteByBoard(ctx context.Context, userID, boardID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_queries WHERE board_id = $1 AND user_id = $2`, boardID, userID); err != nil {
		return fmt.Errorf("delete board user queries error: %w", err)
	}
	return nil
}
