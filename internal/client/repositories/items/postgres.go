package items

import (
	"context"
	"database/sql"
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

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.PersonalItem, error) {
	query :=
		`SELECT id, user_id, image_url, title, description, tags, created_at
		 FROM personal_items
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list personal items error: %w", err)
	}
	defer rows.Close()

	result := make([]models.PersonalItem, 0)
	for rows.Next() {
		var (
			it          models.PersonalItem
			title, desc sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ImageURL, &title, &desc, dbx.TextArray(&it.Tags), &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan personal item error: %w", err)
		}
		it.Title = title.String
		it.Description = desc.String
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personal items error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.PersonalItem) (*models.PersonalItem, error) {
	query :=
		`INSERT INTO personal_items (user_id, image_url, title, description, tags)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	var tags any
	if item.Tags != nil {
		tags = item.Tags
	}

	out := *item
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.ImageURL, nullable(item.Title), nullable(item.Description), tags).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create personal item error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete personal item error: %w", err)
	}
	return dbx.OneRow(res, "delete personal item")
}

// ImageURLs returns the image urls of the user's items among ids. Unknown
// ids and items of other users are skipped; the order is unspecified.
func (r *PostgresRepository) ImageURLs(ctx context.Context, userID string, ids []string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT image_url FROM personal_items WHERE id = ANY($1) AND user_id = $2`, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("get image urls error: %w", err)
	}
	defer rows.Close()

	urls := make([]string, 0, len(ids))
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan image url error: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image urls error: %w", err)
	}
	return urls, nil
}
