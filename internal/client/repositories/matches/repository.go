// Package matches stores personal-items-vs-board match records
// (item_matches).
package matches

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ItemMatch, error)
	Create(ctx context.Context, m *models.ItemMatch) (*models.ItemMatch, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByBoard(ctx context.Context, userID, boardID string) error
}
