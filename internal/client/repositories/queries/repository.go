// Package queries stores ad hoc query history: user_queries and their 1:1
// query_results.
package queries

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

type Repository interface {
	CreateQuery(ctx context.Context, q *models.UserQuery) (*models.UserQuery, error)
	CreateResult(ctx context.Context, r *models.QueryResult) (*models.QueryResult, error)
	ListByBoard(ctx context.Context, boardID, userID string) ([]models.UserQuery, error)
	GetResult(ctx context.Context, userID, queryID string) (*models.QueryResult, error)
	DeleteByBoard(ctx context.Context, userID, boardID string) error
}
