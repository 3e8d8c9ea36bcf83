package matches

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.ItemMatch, error) {
	query :=
		`SELECT id, user_id, board_id, personal_item_ids, matched_pin_urls, similarity_scores, created_at
		 FROM item_matches
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list item matches error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ItemMatch, 0)
	for rows.Next() {
		var (
			m      models.ItemMatch
			scores []byte
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.BoardID,
			dbx.TextArray(&m.PersonalItemIDs), dbx.TextArray(&m.MatchedPinURLs), &scores, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item match error: %w", err)
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &m.SimilarityScores); err != nil {
				return nil, fmt.Errorf("decode similarity scores of %s: %w", m.ID, err)
			}
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item matches error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.ItemMatch) (*models.ItemMatch, error) {
	query :=
		`INSERT INTO item_matches (user_id, board_id, personal_item_ids, matched_pin_urls, similarity_scores)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	scores := m.SimilarityScores
	if scores == nil {
		scores = []models.SimilarityScore{}
	}
	scoresArg, err := dbx.JSONArg(scores)
	if err != nil {
		return nil, err
	}

	out := *m
	err = r.db.QueryRowContext(ctx, query,
		m.UserID, m.BoardID, dbx.Strings(m.PersonalItemIDs), dbx.Strings(m.MatchedPinURLs), scoresArg).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create item match error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM item_matches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete item match error: %w", err)
	}
	return dbx.OneRow(res, "delete item match")
}

// DeleteByBoard removes the user's matches for a board. A board without
// matches is not an error.
func (r *PostgresRepository) DeleteByBoard(ctx context.Context, userID, boardID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM item_matches WHERE board_id = $1 AND user_id = $2`, boardID, userID); err != nil {
		return fmt.Errorf("delete board item matches error: %w", err)
	}
	return nil
}
