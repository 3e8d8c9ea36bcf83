// Package boards stores registered Pinterest boards (pinterest_boards).
// A board is identified by its url within a user's collection.
package boards

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

// Repository methods that address a board by id also take the owner's id.
// A board owned by someone else reads as common.ErrNotFound.
type Repository interface {
	FindByURL(ctx context.Context, userID, url string) (*models.Board, error)
	GetByID(ctx context.Context, userID, id string) (*models.Board, error)
	Create(ctx context.Context, board *models.Board) (*models.Board, error)
	Touch(ctx context.Context, userID, id string, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]models.Board, error)
	Delete(ctx context.Context, userID, id string) error
}
