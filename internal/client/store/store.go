package store

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
)

// Backend is the remote persistence tier. Methods that address a row by id
// take the owner's id and report rows of other users as not found.
type Backend interface {
	FindBoardByURL(ctx context.Context, userID, url string) (*models.Board, error)
	GetBoard(ctx context.Context, userID, id string) (*models.Board, error)
	CreateBoard(ctx context.Context, b *models.Board) (*models.Board, error)
	TouchBoard(ctx context.Context, userID, id string, at time.Time) error
	ListBoards(ctx context.Context, userID string) ([]models.Board, error)
	DeleteBoard(ctx context.Context, userID, id string) error

	ListPersonalItems(ctx context.Context, userID string) ([]models.PersonalItem, error)
	CreatePersonalItem(ctx context.Context, item *models.PersonalItem) (*models.PersonalItem, error)
	DeletePersonalItem(ctx context.Context, userID, id string) error
	PersonalItemImageURLs(ctx context.Context, userID string, ids []string) ([]string, error)

	ListItemMatches(ctx context.Context, userID string) ([]models.ItemMatch, error)
	CreateItemMatch(ctx context.Context, m *models.ItemMatch) (*models.ItemMatch, error)
	DeleteItemMatch(ctx context.Context, userID, id string) error

	CreateUserQuery(ctx context.Context, q *models.UserQuery) (*models.UserQuery, error)
	CreateQueryResult(ctx context.Context, r *models.QueryResult) (*models.QueryResult, error)
	ListUserQueries(ctx context.Context, boardID, userID string) ([]models.UserQuery, error)
	GetQueryResult(ctx context.Context, userID, queryID string) (*models.QueryResult, error)

	UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	ListBoardImages(ctx context.Context, boardURL string) ([]string, error)
}

// Compute is the scraping and matching service.
type Compute interface {
	Scrape(ctx context.Context, boardURL string, downloadImages bool) (*models.ScrapeResponse, error)
	FindSimilar(ctx context.Context, boardURL string, images []string) (*models.MatchResponse, error)
	FashionFinder(ctx context.Context, boardURL string, images []string, limit int) (*models.MatchResponse, error)
}

// Persister stores the recent boards list locally.
type Persister interface {
	Load(ctx context.Context) ([]models.RecentBoard, error)
	Save(ctx context.Context, boards []models.RecentBoard)
}

type Store struct {
	backend Backend
	compute Compute
	persist Persister
	logger  logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	// persistMu orders writes of the recent boards list.
	persistMu sync.Mutex
}

func New(backend Backend, compute Compute, persist Persister, logger logging.Logger) *Store {
	return &Store{
		backend: backend,
		compute: compute,
		persist: persist,
		logger:  logger,
		now:     time.Now,
		state: State{
			RecentBoards:          []models.RecentBoard{},
			PersonalItems:         []models.PersonalItem{},
			SelectedPersonalItems: []string{},
			ItemMatches:           []models.ItemMatch{},
			QueryImages:           []string{},
			Status:                map[Action]Status{},
		},
		subs: make(map[int]func(State)),
	}
}

// Load hydrates the recent boards list from local storage.
func (s *Store) Load(ctx context.Context) error {
	boards, err := s.persist.Load(ctx)
	if err != nil {
		return err
	}
	s.update(func(st *State) { st.RecentBoards = boards })
	return nil
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive the state after every commit. fn runs
// outside the store lock on the committing goroutine.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn to the current state and notifies subscribers.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.Version++
	snap := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func (s *Store) read(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Store) userID() string {
	var id string
	s.read(func(st *State) { id = st.UserID })
	return id
}

func (s *Store) begin(a Action) {
	s.update(func(st *State) { st.Status[a] = Status{Loading: true} })
}

// finish settles the status of a and returns err unchanged.
func (s *Store) finish(ctx context.Context, a Action, err error) error {
	st := Status{}
	if err != nil {
		st.Err = err.Error()
		if st.Err == "" {
			st.Err = "action " + string(a) + " failed"
		}
		s.logger.Error(ctx, "action failed", "action", string(a), "error", err)
	}
	s.update(func(state *State) { state.Status[a] = st })
	return err
}

func (s *Store) saveRecent(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	var boards []models.RecentBoard
	s.read(func(st *State) { boards = append([]models.RecentBoard(nil), st.RecentBoards...) })
	s.persist.Save(ctx, boards)
}
