package store

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

func sameBoard(id string) func(models.RecentBoard) bool {
	return func(r models.RecentBoard) bool { return r.ID == id }
}

// RegisterOrTouchBoard makes url the current board. A board unknown to the
// backend is created with title (or the last path segment of url); a known
// one only gets its last_scraped_at stamped. Either way the board moves to
// the front of the recent boards list.
func (s *Store) RegisterOrTouchBoard(ctx context.Context, url, title string) (*models.Board, error) {
	userID := s.userID()
	if userID == "" {
		return nil, s.finish(ctx, ActionRegisterBoard, common.ErrNotAuthenticated)
	}

	s.begin(ActionRegisterBoard)
	now := s.now()

	board, err := s.backend.FindBoardByURL(ctx, userID, url)
	switch {
	case errors.Is(err, common.ErrNotFound):
		if title == "" {
			title = models.TitleFromURL(url)
		}
		board, err = s.backend.CreateBoard(ctx, &models.Board{
			UserID:        userID,
			URL:           url,
			Title:         title,
			LastScrapedAt: &now,
		})
		if err != nil {
			return nil, s.finish(ctx, ActionRegisterBoard, err)
		}
	case err != nil:
		return nil, s.finish(ctx, ActionRegisterBoard, err)
	default:
		if err := s.backend.TouchBoard(ctx, userID, board.ID, now); err != nil {
			return nil, s.finish(ctx, ActionRegisterBoard, err)
		}
		board.LastScrapedAt = &now
	}

	s.update(func(st *State) {
		b := *board
		st.CurrentBoard = &b
		st.RecentBoards = pushFront(st.RecentBoards, board.Recent(now), common.MaxRecentBoards, sameBoard(board.ID))
	})
	s.saveRecent(ctx)

	s.logger.Info(ctx, "board registered", "board_id", board.ID, "url", url)
	return board, s.finish(ctx, ActionRegisterBoard, nil)
}

// ScrapeBoard runs a scrape and returns the raw response. When the service
// reports a board title and a user is signed in, the board is registered
// under that title. Scrape failures are returned to the caller.
func (s *Store) ScrapeBoard(ctx context.Context, url string, downloadImages bool) (*models.ScrapeResponse, error) {
	s.begin(ActionScrapeBoard)

	res, err := s.compute.Scrape(ctx, url, downloadImages)
	if err != nil {
		return nil, s.finish(ctx, ActionScrapeBoard, err)
	}
	_ = s.finish(ctx, ActionScrapeBoard, nil)

	if res.BoardInfo != nil && res.BoardInfo.Title != "" && s.userID() != "" {
		// failures are recorded under ActionRegisterBoard
		_, _ = s.RegisterOrTouchBoard(ctx, url, res.BoardInfo.Title)
	}
	return res, nil
}

// RemoveBoard deletes one of the user's boards with its queries and matches,
// then drops it from every local collection that references it.
func (s *Store) RemoveBoard(ctx context.Context, id string) error {
	userID := s.userID()
	if userID == "" {
		return s.finish(ctx, ActionRemoveBoard, common.ErrNotAuthenticated)
	}
	s.begin(ActionRemoveBoard)

	if err := s.backend.DeleteBoard(ctx, userID, id); err != nil {
		return s.finish(ctx, ActionRemoveBoard, err)
	}

	s.update(func(st *State) {
		st.RecentBoards = without(st.RecentBoards, sameBoard(id))
		if st.CurrentBoard != nil && st.CurrentBoard.ID == id {
			st.CurrentBoard = nil
		}
		st.ItemMatches = without(st.ItemMatches, func(m models.ItemMatch) bool { return m.BoardID == id })
	})
	s.saveRecent(ctx)

	_ = s.finish(ctx, ActionRemoveBoard, nil)

	// the cascade may have removed matches not filtered above
	_ = s.FetchItemMatches(ctx)
	return nil
}

// FetchUserBoards replaces the recent boards list with the user's boards,
// newest first. A user without boards ends up with an empty list.
func (s *Store) FetchUserBoards(ctx context.Context) error {
	userID := s.userID()
	if userID == "" {
		return nil
	}
	s.begin(ActionFetchBoards)

	boards, err := s.backend.ListBoards(ctx, userID)
	if err != nil {
		return s.finish(ctx, ActionFetchBoards, err)
	}

	now := s.now()
	recent := make([]models.RecentBoard, 0, min(len(boards), common.MaxRecentBoards))
	for i := range boards {
		if len(recent) == common.MaxRecentBoards {
			break
		}
		recent = append(recent, boards[i].Recent(boards[i].AccessedAt(now)))
	}
	s.update(func(st *State) {
		// a sign-out while the list was loading wins
		if st.UserID == userID {
			st.RecentBoards = recent
		}
	})
	s.saveRecent(ctx)
	return s.finish(ctx, ActionFetchBoards, nil)
}

// AddToRecentBoards moves an entry to the front of the recent boards list.
func (s *Store) AddToRecentBoards(ctx context.Context, id, url, title string) {
	entry := models.RecentBoard{ID: id, URL: url, Title: title, LastAccessed: s.now()}
	s.update(func(st *State) {
		st.RecentBoards = pushFront(st.RecentBoards, entry, common.MaxRecentBoards, sameBoard(id))
	})
	s.saveRecent(ctx)
}

func (s *Store) ClearRecentBoards(ctx context.Context) {
	s.update(func(st *State) { st.RecentBoards = []models.RecentBoard{} })
	s.saveRecent(ctx)
}

// BoardImages lists the scraped images of a board as public urls.
func (s *Store) BoardImages(ctx context.Context, url string) ([]string, error) {
	s.begin(ActionBoardImages)
	urls, err := s.backend.ListBoardImages(ctx, url)
	if err != nil {
		return nil, s.finish(ctx, ActionBoardImages, err)
	}
	return urls, s.finish(ctx, ActionBoardImages, nil)
}

// DownloadFile fetches an object of the images bucket.
func (s *Store) DownloadFile(ctx context.Context, path string) ([]byte, error) {
	return s.backend.DownloadFile(ctx, path)
}
