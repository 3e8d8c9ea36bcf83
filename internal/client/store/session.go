package store

import (
	"context"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/session"
	"golang.org/x/sync/errgroup"
)

// SessionSource publishes identity transitions.
type SessionSource interface {
	Subscribe(fn func(session.Snapshot)) (unsubscribe func())
}

// BindSession keeps the store in step with src until unsubscribed.
func (s *Store) BindSession(ctx context.Context, src SessionSource) (unsubscribe func()) {
	return src.Subscribe(func(snap session.Snapshot) {
		_ = s.HandleSession(ctx, snap)
	})
}

// HandleSession applies an identity transition. Signing in loads the user's
// boards, personal items and item matches concurrently. Signing out, or
// signing in as someone else, clears every user-scoped collection including
// the recent boards list and its local copy. The first fetch error is
// returned after all fetches have finished.
func (s *Store) HandleSession(ctx context.Context, snap session.Snapshot) error {
	switch snap.State {
	case session.Authenticated:
		changed := false
		s.update(func(st *State) {
			if st.UserID != snap.UserID {
				clearUserScoped(st)
				changed = true
			}
			st.UserID = snap.UserID
		})
		if changed {
			s.saveRecent(ctx)
		}
		s.logger.Info(ctx, "session started", "user_id", snap.UserID)

		var g errgroup.Group
		g.Go(func() error { return s.FetchUserBoards(ctx) })
		g.Go(func() error { return s.FetchPersonalItems(ctx) })
		g.Go(func() error { return s.FetchItemMatches(ctx) })
		return g.Wait()

	case session.Anonymous:
		s.update(func(st *State) {
			st.UserID = ""
			clearUserScoped(st)
		})
		s.saveRecent(ctx)
		s.logger.Info(ctx, "session ended")
	}
	return nil
}

func clearUserScoped(st *State) {
	st.CurrentBoard = nil
	st.RecentBoards = []models.RecentBoard{}
	st.PersonalItems = []models.PersonalItem{}
	st.SelectedPersonalItems = []string{}
	st.ItemMatches = []models.ItemMatch{}
	st.QueryResults = nil
}
