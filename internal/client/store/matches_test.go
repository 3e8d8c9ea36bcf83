package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/session"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoard(b *fakeBackend, id, userID, url string) models.Board {
	board := models.Board{ID: id, UserID: userID, URL: url, Title: "denim"}
	b.Boards[id] = &board
	return board
}

func fashionResponse() *models.MatchResponse {
	return &models.MatchResponse{
		Kind: models.MatchFashionFinder,
		BestOverallMatches: []models.OverallMatch{
			{Path: "alex/denim/pin_1.jpg", AverageSimilarityScore: 0.91, SupabaseURL: "https://cdn/alex/denim/pin_1.jpg"},
			{Path: "alex/denim/pin_2.jpg", AverageSimilarityScore: 0.72},
		},
		UploadedMatches: []string{"https://cdn/u-1/items/a.jpg"},
	}
}

func TestCreateItemMatch_EmptySelectionMakesNoCalls(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")

	_, err := s.CreateItemMatch(context.Background(), "b-1", nil, 0)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, b.totalCalls())
	assert.Zero(t, c.Calls)
	assert.NotEmpty(t, s.Snapshot().Status[ActionCreateItemMatch].Err)
}

func TestCreateItemMatch_RequiresUser(t *testing.T) {
	s, b, _, _ := newTestStore(t)

	_, err := s.CreateItemMatch(context.Background(), "b-1", []string{"i-1"}, 0)
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Zero(t, b.totalCalls())
}

func TestCreateItemMatch(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	seedItems(s, b, "u-1", "i-1", "i-2")
	board := seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	c.MatchRes = fashionResponse()

	m, err := s.CreateItemMatch(context.Background(), board.ID, []string{"i-1", "i-2"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "fashion-finder", c.LastEndpoint)
	assert.Equal(t, board.URL, c.LastURL)
	assert.Equal(t, []string{"https://cdn/i-1.jpg", "https://cdn/i-2.jpg"}, c.LastImages)
	assert.Equal(t, common.DefaultMatchLimit, c.LastLimit)

	assert.Equal(t, []string{"https://cdn/alex/denim/pin_1.jpg", "alex/denim/pin_2.jpg"}, m.MatchedPinURLs)
	assert.Equal(t, []models.SimilarityScore{
		{Path: "alex/denim/pin_1.jpg", Score: 0.91},
		{Path: "alex/denim/pin_2.jpg", Score: 0.72},
	}, m.SimilarityScores)
	assert.Equal(t, []string{"i-1", "i-2"}, m.PersonalItemIDs)
	assert.Equal(t, "u-1", m.UserID)

	st := s.Snapshot()
	require.Len(t, st.ItemMatches, 1)
	assert.Equal(t, m.ID, st.ItemMatches[0].ID)
	assert.Same(t, c.MatchRes, st.QueryResults)
}

func TestCreateItemMatch_ExplicitLimit(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	seedItems(s, b, "u-1", "i-1")
	seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	c.MatchRes = fashionResponse()

	_, err := s.CreateItemMatch(context.Background(), "b-1", []string{"i-1"}, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, c.LastLimit)
}

func TestCreateItemMatch_ItemsNotFound(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")

	_, err := s.CreateItemMatch(context.Background(), "b-1", []string{"i-missing"}, 0)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "could not find selected personal items")
	assert.Zero(t, c.Calls)
	assert.Zero(t, b.Calls["CreateItemMatch"])
}

func TestCreateItemMatch_ComputeFailureLeavesState(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	seedItems(s, b, "u-1", "i-1")
	seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	c.Err = &common.RemoteError{StatusCode: 502, Message: "bad gateway"}

	_, err := s.CreateItemMatch(context.Background(), "b-1", []string{"i-1"}, 0)
	require.ErrorIs(t, err, common.ErrRemoteFailure)

	st := s.Snapshot()
	assert.Empty(t, st.ItemMatches)
	assert.Nil(t, st.QueryResults)
	assert.Zero(t, b.Calls["CreateItemMatch"])
}

func TestRemoveItemMatch(t *testing.T) {
	s, b, _, _ := newTestStore(t)
	signIn(s, "u-1")
	b.Matches["m-1"] = &models.ItemMatch{ID: "m-1", UserID: "u-1"}
	s.update(func(st *State) {
		st.ItemMatches = []models.ItemMatch{{ID: "m-1"}, {ID: "m-2"}}
	})

	require.NoError(t, s.RemoveItemMatch(context.Background(), "m-1"))
	st := s.Snapshot()
	require.Len(t, st.ItemMatches, 1)
	assert.Equal(t, "m-2", st.ItemMatches[0].ID)

	b.Errs["DeleteItemMatch"] = errors.New("denied")
	require.Error(t, s.RemoveItemMatch(context.Background(), "m-2"))
	assert.Len(t, s.Snapshot().ItemMatches, 1)
}

func TestRemoveItemMatch_OtherUsersMatch(t *testing.T) {
	s, b, _, _ := newTestStore(t)
	b.Matches["m-1"] = &models.ItemMatch{ID: "m-1", UserID: "u-1"}

	require.ErrorIs(t, s.RemoveItemMatch(context.Background(), "m-1"), common.ErrNotAuthenticated)

	signIn(s, "u-2")
	require.ErrorIs(t, s.RemoveItemMatch(context.Background(), "m-1"), common.ErrNotFound)
	assert.Contains(t, b.Matches, "m-1")
}

func TestCreateItemMatch_OtherUsersBoard(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-2")
	seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	seedItems(s, b, "u-2", "i-1")

	_, err := s.CreateItemMatch(context.Background(), "b-1", []string{"i-1"}, 0)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Zero(t, c.Calls)
	assert.Zero(t, b.Calls["CreateItemMatch"])
}

func TestQueryImages(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	s.AddQueryImage("a")
	s.AddQueryImage("b")
	s.AddQueryImage("c")
	s.RemoveQueryImage(1)
	assert.Equal(t, []string{"a", "c"}, s.Snapshot().QueryImages)

	s.RemoveQueryImage(5)
	s.RemoveQueryImage(-1)
	assert.Equal(t, []string{"a", "c"}, s.Snapshot().QueryImages)

	s.ClearQueryImages()
	assert.Empty(t, s.Snapshot().QueryImages)
}

func TestFindMatches_NoBoard(t *testing.T) {
	s, _, c, _ := newTestStore(t)
	prev := &models.MatchResponse{Kind: models.MatchFindSimilar}
	s.update(func(st *State) { st.QueryResults = prev })

	_, err := s.FindMatches(context.Background())
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, c.Calls)
	assert.Same(t, prev, s.Snapshot().QueryResults)
}

func TestFindMatches_EndpointChoice(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	board := seedBoard(b, "b-1", "", "https://pinterest.com/alex/denim/")
	s.update(func(st *State) { st.CurrentBoard = &board })
	c.MatchRes = &models.MatchResponse{Kind: models.MatchFindSimilar}

	res, err := s.FindMatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "find-similar", c.LastEndpoint)
	assert.Same(t, res, s.Snapshot().QueryResults)

	s.AddQueryImage("https://cdn/q.jpg")
	c.MatchRes = fashionResponse()
	_, err = s.FindMatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fashion-finder", c.LastEndpoint)
	assert.Equal(t, []string{"https://cdn/q.jpg"}, c.LastImages)
	assert.Equal(t, models.MatchFashionFinder, s.Snapshot().QueryResults.Kind)

	assert.Zero(t, b.Calls["CreateUserQuery"], "anonymous queries are not recorded")
}

func TestFindMatches_RecordsQuery(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	board := seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	s.update(func(st *State) { st.CurrentBoard = &board })
	s.AddQueryImage("https://cdn/q.jpg")
	c.MatchRes = fashionResponse()

	_, err := s.FindMatches(context.Background())
	require.NoError(t, err)

	require.Len(t, b.Queries, 1)
	assert.Equal(t, "b-1", b.Queries[0].BoardID)
	assert.Equal(t, []string{"https://cdn/q.jpg"}, b.Queries[0].QueryImages)

	require.Len(t, b.Results, 1)
	r := b.Results[0]
	assert.Equal(t, b.Queries[0].ID, r.QueryID)
	assert.Equal(t, c.MatchRes.BestOverallMatches, r.BestMatches)

	var uploaded []string
	require.NoError(t, json.Unmarshal(r.UploadedMatches, &uploaded))
	assert.Equal(t, []string{"https://cdn/u-1/items/a.jpg"}, uploaded)

	history := s.FetchBoardHistory(context.Background(), "b-1")
	require.Len(t, history, 1)
	got := s.FetchQueryResults(context.Background(), history[0].ID)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)

	signIn(s, "u-2")
	assert.Nil(t, s.FetchQueryResults(context.Background(), history[0].ID))
}

func TestFindMatches_NoUploadedMatchesStoredAsEmptyArray(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	board := seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	s.update(func(st *State) { st.CurrentBoard = &board })
	c.MatchRes = &models.MatchResponse{Kind: models.MatchFindSimilar}

	_, err := s.FindMatches(context.Background())
	require.NoError(t, err)

	require.Len(t, b.Results, 1)
	assert.JSONEq(t, `[]`, string(b.Results[0].UploadedMatches))
}

func TestFindMatches_RecordFailureIsSwallowed(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	signIn(s, "u-1")
	board := seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	s.update(func(st *State) { st.CurrentBoard = &board })
	c.MatchRes = &models.MatchResponse{Kind: models.MatchFindSimilar}
	b.Errs["CreateUserQuery"] = errors.New("insert failed")

	res, err := s.FindMatches(context.Background())
	require.NoError(t, err)
	assert.Same(t, res, s.Snapshot().QueryResults)
	assert.Equal(t, Status{}, s.Snapshot().Status[ActionFindMatches])
}

func TestFindMatches_ComputeFailure(t *testing.T) {
	s, b, c, _ := newTestStore(t)
	board := seedBoard(b, "b-1", "", "https://pinterest.com/alex/denim/")
	s.update(func(st *State) { st.CurrentBoard = &board })
	c.Err = &common.RemoteError{StatusCode: 500, Message: "boom"}

	_, err := s.FindMatches(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteFailure)
	assert.Nil(t, s.Snapshot().QueryResults)
	assert.Equal(t, "request failed with status 500: boom", s.Snapshot().Status[ActionFindMatches].Err)
}

func TestFetchBoardHistory_Failures(t *testing.T) {
	s, b, _, _ := newTestStore(t)

	assert.Equal(t, []models.UserQuery{}, s.FetchBoardHistory(context.Background(), "b-1"))
	assert.Zero(t, b.Calls["ListUserQueries"])

	signIn(s, "u-1")
	b.Errs["ListUserQueries"] = errors.New("down")
	assert.Equal(t, []models.UserQuery{}, s.FetchBoardHistory(context.Background(), "b-1"))
}

func TestFetchQueryResults_Missing(t *testing.T) {
	s, b, _, _ := newTestStore(t)

	assert.Nil(t, s.FetchQueryResults(context.Background(), "q-404"))
	assert.Equal(t, common.ErrNotAuthenticated.Error(), s.Snapshot().Status[ActionFetchQueryResults].Err)
	assert.Zero(t, b.Calls["GetQueryResult"])

	signIn(s, "u-1")
	assert.Nil(t, s.FetchQueryResults(context.Background(), "q-404"))
	assert.Equal(t, common.NotFoundCode, s.Snapshot().Status[ActionFetchQueryResults].Err)
}

func TestHandleSession_SignInLoadsUserData(t *testing.T) {
	s, b, _, p := newTestStore(t)
	seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	b.Items["i-1"] = &models.PersonalItem{ID: "i-1", UserID: "u-1"}
	b.Matches["m-1"] = &models.ItemMatch{ID: "m-1", UserID: "u-1"}

	err := s.HandleSession(context.Background(), session.Snapshot{State: session.Authenticated, UserID: "u-1"})
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Equal(t, "u-1", st.UserID)
	require.Len(t, st.RecentBoards, 1)
	assert.Equal(t, "b-1", st.RecentBoards[0].ID)
	assert.Equal(t, []string{"i-1"}, itemIDs(st.PersonalItems))
	require.Len(t, st.ItemMatches, 1)
	assert.NotEmpty(t, p.Saved)
}

func TestHandleSession_FetchErrorDoesNotStopOthers(t *testing.T) {
	s, b, _, _ := newTestStore(t)
	b.Items["i-1"] = &models.PersonalItem{ID: "i-1", UserID: "u-1"}
	b.Errs["ListBoards"] = errors.New("boards down")

	err := s.HandleSession(context.Background(), session.Snapshot{State: session.Authenticated, UserID: "u-1"})
	require.EqualError(t, err, "boards down")
	assert.Equal(t, []string{"i-1"}, itemIDs(s.Snapshot().PersonalItems))
	assert.Equal(t, 1, b.Calls["ListItemMatches"])
}

func TestHandleSession_SignOutClearsUserScopedState(t *testing.T) {
	s, b, _, p := newTestStore(t)
	signIn(s, "u-1")
	seedItems(s, b, "u-1", "i-1")
	board := seedBoard(b, "b-1", "u-1", "https://pinterest.com/alex/denim/")
	s.AddToRecentBoards(context.Background(), board.ID, board.URL, board.Title)
	s.SelectPersonalItem("i-1")
	s.update(func(st *State) {
		st.CurrentBoard = &board
		st.ItemMatches = []models.ItemMatch{{ID: "m-1"}}
		st.QueryResults = &models.MatchResponse{}
	})

	require.NoError(t, s.HandleSession(context.Background(), session.Snapshot{State: session.Anonymous}))

	st := s.Snapshot()
	assert.Empty(t, st.UserID)
	assert.Nil(t, st.CurrentBoard)
	assert.Empty(t, st.PersonalItems)
	assert.Empty(t, st.SelectedPersonalItems)
	assert.Empty(t, st.ItemMatches)
	assert.Nil(t, st.QueryResults)
	assert.Empty(t, st.RecentBoards)
	assert.Empty(t, p.last())
}

func TestHandleSession_RecentBoardsDoNotCrossUsers(t *testing.T) {
	s, _, _, p := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HandleSession(ctx, session.Snapshot{State: session.Authenticated, UserID: "u-1"}))
	board, err := s.RegisterOrTouchBoard(ctx, "https://pinterest.com/alex/denim/", "")
	require.NoError(t, err)
	require.Len(t, s.Snapshot().RecentBoards, 1)

	require.NoError(t, s.HandleSession(ctx, session.Snapshot{State: session.Anonymous}))
	require.NoError(t, s.HandleSession(ctx, session.Snapshot{State: session.Authenticated, UserID: "u-2"}))

	st := s.Snapshot()
	for _, r := range st.RecentBoards {
		assert.NotEqual(t, board.ID, r.ID)
	}
	assert.Empty(t, st.RecentBoards)
	assert.Empty(t, p.last())
}

func TestHandleSession_SwitchWithoutSignOutClearsRecentBoards(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HandleSession(ctx, session.Snapshot{State: session.Authenticated, UserID: "u-1"}))
	_, err := s.RegisterOrTouchBoard(ctx, "https://pinterest.com/alex/denim/", "")
	require.NoError(t, err)

	require.NoError(t, s.HandleSession(ctx, session.Snapshot{State: session.Authenticated, UserID: "u-2"}))
	assert.Empty(t, s.Snapshot().RecentBoards)
}

func TestHandleSession_UserSwitchDropsPreviousData(t *testing.T) {
	s, b, _, _ := newTestStore(t)
	signIn(s, "u-1")
	seedItems(s, b, "u-1", "i-1")
	s.SelectPersonalItem("i-1")

	require.NoError(t, s.HandleSession(context.Background(), session.Snapshot{State: session.Authenticated, UserID: "u-2"}))

	st := s.Snapshot()
	assert.Equal(t, "u-2", st.UserID)
	assert.Empty(t, st.PersonalItems)
	assert.Empty(t, st.SelectedPersonalItems)
}

type fakeSessionSource struct {
	fn func(session.Snapshot)
}

func (f *fakeSessionSource) Subscribe(fn func(session.Snapshot)) func() {
	f.fn = fn
	return func() { f.fn = nil }
}

func TestBindSession(t *testing.T) {
	s, b, _, _ := newTestStore(t)
	b.Items["i-1"] = &models.PersonalItem{ID: "i-1", UserID: "u-1"}
	src := &fakeSessionSource{}

	unsubscribe := s.BindSession(context.Background(), src)
	require.NotNil(t, src.fn)

	src.fn(session.Snapshot{State: session.Authenticated, UserID: "u-1"})
	assert.Equal(t, "u-1", s.Snapshot().UserID)
	assert.Len(t, s.Snapshot().PersonalItems, 1)

	src.fn(session.Snapshot{State: session.Anonymous})
	assert.Empty(t, s.Snapshot().UserID)

	unsubscribe()
	assert.Nil(t, src.fn)
}
