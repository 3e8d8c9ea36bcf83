package store

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
)

func (s *Store) AddQueryImage(image string) {
	s.update(func(st *State) {
		st.QueryImages = append(slices.Clone(st.QueryImages), image)
	})
}

// RemoveQueryImage drops the image at index; out of range is a no-op.
func (s *Store) RemoveQueryImage(index int) {
	s.update(func(st *State) {
		if index < 0 || index >= len(st.QueryImages) {
			return
		}
		st.QueryImages = slices.Delete(slices.Clone(st.QueryImages), index, index+1)
	})
}

func (s *Store) ClearQueryImages() {
	s.update(func(st *State) { st.QueryImages = []string{} })
}

func (s *Store) ClearResults() {
	s.update(func(st *State) { st.QueryResults = nil })
}

// FindMatches ranks the current board against the query images, using the
// fashion-finder endpoint when there are query images and find-similar
// otherwise. The response always replaces the query results. Recording the
// query for a signed-in user is best effort.
func (s *Store) FindMatches(ctx context.Context) (*models.MatchResponse, error) {
	var (
		board  *models.Board
		images []string
		userID string
	)
	s.read(func(st *State) {
		if st.CurrentBoard != nil {
			b := *st.CurrentBoard
			board = &b
		}
		images = slices.Clone(st.QueryImages)
		userID = st.UserID
	})
	if board == nil {
		return nil, s.finish(ctx, ActionFindMatches, common.NewValidationError("no board selected"))
	}
	s.begin(ActionFindMatches)

	var (
		res *models.MatchResponse
		err error
	)
	if len(images) > 0 {
		res, err = s.compute.FashionFinder(ctx, board.URL, images, 0)
	} else {
		res, err = s.compute.FindSimilar(ctx, board.URL, nil)
	}
	if err != nil {
		return nil, s.finish(ctx, ActionFindMatches, err)
	}

	s.update(func(st *State) { st.QueryResults = res })

	if userID != "" {
		if err := s.recordQuery(ctx, board.ID, userID, images, res); err != nil {
			s.logger.Warn(ctx, "failed to record query", "board_id", board.ID, "error", err)
		}
	}
	return res, s.finish(ctx, ActionFindMatches, nil)
}

func (s *Store) recordQuery(ctx context.Context, boardID, userID string, images []string, res *models.MatchResponse) error {
	q, err := s.backend.CreateUserQuery(ctx, &models.UserQuery{
		BoardID:     boardID,
		UserID:      userID,
		QueryImages: images,
	})
	if err != nil {
		return err
	}

	uploaded, err := json.Marshal(dbx.Strings(res.UploadedMatches))
	if err != nil {
		return err
	}
	_, err = s.backend.CreateQueryResult(ctx, &models.QueryResult{
		QueryID:         q.ID,
		UserID:          userID,
		BestMatches:     res.BestOverallMatches,
		UploadedMatches: uploaded,
	})
	return err
}

// FetchBoardHistory returns the user's queries against a board, newest
// first. Failures yield an empty list.
func (s *Store) FetchBoardHistory(ctx context.Context, boardID string) []models.UserQuery {
	userID := s.userID()
	if userID == "" {
		s.logger.Warn(ctx, "board history requested without a user")
		return []models.UserQuery{}
	}
	s.begin(ActionFetchBoardHistory)

	queries, err := s.backend.ListUserQueries(ctx, boardID, userID)
	if err != nil {
		_ = s.finish(ctx, ActionFetchBoardHistory, err)
		return []models.UserQuery{}
	}
	_ = s.finish(ctx, ActionFetchBoardHistory, nil)
	return queries
}

// FetchQueryResults returns the stored result of one of the user's queries,
// or nil.
func (s *Store) FetchQueryResults(ctx context.Context, queryID string) *models.QueryResult {
	userID := s.userID()
	if userID == "" {
		_ = s.finish(ctx, ActionFetchQueryResults, common.ErrNotAuthenticated)
		return nil
	}
	s.begin(ActionFetchQueryResults)

	res, err := s.backend.GetQueryResult(ctx, userID, queryID)
	if err != nil {
		_ = s.finish(ctx, ActionFetchQueryResults, err)
		return nil
	}
	_ = s.finish(ctx, ActionFetchQueryResults, nil)
	return res
}
