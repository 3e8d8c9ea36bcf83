// Package items stores personal clothing items (personal_items).
package items

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.PersonalItem, error)
	Create(ctx context.Context, item *models.PersonalItem) (*models.PersonalItem, error)
	Delete(ctx context.Context, userID, id string) error
	ImageURLs(ctx context.Context, userID string, ids []string) ([]string, error)
}
