package store

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

func (s *Store) FetchItemMatches(ctx context.Context) error {
	userID := s.userID()
	if userID == "" {
		return nil
	}
	s.begin(ActionFetchItemMatches)

	matches, err := s.backend.ListItemMatches(ctx, userID)
	if err != nil {
		return s.finish(ctx, ActionFetchItemMatches, err)
	}
	s.update(func(st *State) { st.ItemMatches = matches })
	return s.finish(ctx, ActionFetchItemMatches, nil)
}

// CreateItemMatch matches personal items against a board, stores the
// outcome as an item match and shows the raw response as the current query
// results. A non-positive limit means common.DefaultMatchLimit.
func (s *Store) CreateItemMatch(ctx context.Context, boardID string, personalItemIDs []string, limit int) (*models.ItemMatch, error) {
	if len(personalItemIDs) == 0 {
		return nil, s.finish(ctx, ActionCreateItemMatch, common.NewValidationError("no personal items selected"))
	}
	userID := s.userID()
	if userID == "" {
		return nil, s.finish(ctx, ActionCreateItemMatch, common.ErrNotAuthenticated)
	}
	if limit <= 0 {
		limit = common.DefaultMatchLimit
	}
	s.begin(ActionCreateItemMatch)

	images, err := s.backend.PersonalItemImageURLs(ctx, userID, personalItemIDs)
	if err != nil {
		return nil, s.finish(ctx, ActionCreateItemMatch, err)
	}
	if len(images) == 0 {
		return nil, s.finish(ctx, ActionCreateItemMatch,
			&common.RemoteError{Code: common.NotFoundCode, Message: "could not find selected personal items"})
	}

	board, err := s.backend.GetBoard(ctx, userID, boardID)
	if err != nil {
		return nil, s.finish(ctx, ActionCreateItemMatch, err)
	}

	res, err := s.compute.FashionFinder(ctx, board.URL, images, limit)
	if err != nil {
		return nil, s.finish(ctx, ActionCreateItemMatch, err)
	}

	urls := make([]string, 0, len(res.BestOverallMatches))
	scores := make([]models.SimilarityScore, 0, len(res.BestOverallMatches))
	for _, m := range res.BestOverallMatches {
		urls = append(urls, m.BestURL())
		scores = append(scores, models.SimilarityScore{Path: m.Path, Score: m.AverageSimilarityScore})
	}

	saved, err := s.backend.CreateItemMatch(ctx, &models.ItemMatch{
		UserID:           userID,
		BoardID:          boardID,
		PersonalItemIDs:  personalItemIDs,
		MatchedPinURLs:   urls,
		SimilarityScores: scores,
	})
	if err != nil {
		return nil, s.finish(ctx, ActionCreateItemMatch, err)
	}

	s.update(func(st *State) {
		st.ItemMatches = pushFront(st.ItemMatches, *saved, 0, func(m models.ItemMatch) bool { return m.ID == saved.ID })
		st.QueryResults = res
	})
	return saved, s.finish(ctx, ActionCreateItemMatch, nil)
}

func (s *Store) RemoveItemMatch(ctx context.Context, id string) error {
	userID := s.userID()
	if userID == "" {
		return s.finish(ctx, ActionRemoveItemMatch, common.ErrNotAuthenticated)
	}
	s.begin(ActionRemoveItemMatch)

	if err := s.backend.DeleteItemMatch(ctx, userID, id); err != nil {
		return s.finish(ctx, ActionRemoveItemMatch, err)
	}
	s.update(func(st *State) {
		st.ItemMatches = without(st.ItemMatches, func(m models.ItemMatch) bool { return m.ID == id })
	})
	return s.finish(ctx, ActionRemoveItemMatch, nil)
}
