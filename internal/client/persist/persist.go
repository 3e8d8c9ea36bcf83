// Package persist keeps the recent boards list across restarts. It is the
// only piece of client state written to local storage.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
)

type record struct {
	RecentBoards []models.RecentBoard `json:"recentBoards"`
}

type Adapter struct {
	kv     metadata.Repository
	logger logging.Logger
}

func NewAdapter(kv metadata.Repository, logger logging.Logger) *Adapter {
	return &Adapter{kv: kv, logger: logger}
}

// Load returns the stored list, or an empty one on first run.
func (a *Adapter) Load(ctx context.Context) ([]models.RecentBoard, error) {
	raw, err := a.kv.Get(ctx, common.PersistKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.RecentBoard{}, nil
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", common.PersistKey, err)
	}
	if rec.RecentBoards == nil {
		rec.RecentBoards = []models.RecentBoard{}
	}
	if len(rec.RecentBoards) > common.MaxRecentBoards {
		rec.RecentBoards = rec.RecentBoards[:common.MaxRecentBoards]
	}
	return rec.RecentBoards, nil
}

// Save overwrites the stored list. Failures are logged and dropped.
func (a *Adapter) Save(ctx context.Context, boards []models.RecentBoard) {
	if boards == nil {
		boards = []models.RecentBoard{}
	}
	raw, err := json.Marshal(record{RecentBoards: boards})
	if err == nil {
		err = a.kv.Set(ctx, common.PersistKey, raw)
	}
	if err != nil {
		a.logger.Warn(ctx, "failed to persist recent boards", "error", err)
	}
}
