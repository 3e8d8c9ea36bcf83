package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

// fakeBackend is an in-memory backend. Errs injects a failure per method
// name; Calls counts invocations per method name.
type fakeBackend struct {
	mu sync.Mutex

	Boards  map[string]*models.Board
	Items   map[string]*models.PersonalItem
	Matches map[string]*models.ItemMatch
	Queries []models.UserQuery
	Results []models.QueryResult
	Images  []string

	Errs  map[string]error
	Calls map[string]int

	LastUploadKey string
	LastMatch     *models.ItemMatch
	seq           int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		Boards:  map[string]*models.Board{},
		Items:   map[string]*models.PersonalItem{},
		Matches: map[string]*models.ItemMatch{},
		Errs:    map[string]error{},
		Calls:   map[string]int{},
	}
}

func (f *fakeBackend) call(name string) error {
	f.Calls[name]++
	return f.Errs[name]
}

func (f *fakeBackend) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeBackend) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *fakeBackend) FindBoardByURL(ctx context.Context, userID, url string) (*models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FindBoardByURL"); err != nil {
		return nil, err
	}
	for _, b := range f.Boards {
		if b.URL == url && b.UserID == userID {
			out := *b
			return &out, nil
		}
	}
	return nil, &common.RemoteError{Code: common.NotFoundCode, Message: "find board: not found"}
}

func notFound(op string) error {
	return &common.RemoteError{Code: common.NotFoundCode, Message: op + ": not found"}
}

func (f *fakeBackend) GetBoard(ctx context.Context, userID, id string) (*models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetBoard"); err != nil {
		return nil, err
	}
	b, ok := f.Boards[id]
	if !ok || b.UserID != userID {
		return nil, notFound("get board")
	}
	out := *b
	return &out, nil
}

func (f *fakeBackend) CreateBoard(ctx context.Context, b *models.Board) (*models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateBoard"); err != nil {
		return nil, err
	}
	out := *b
	out.ID = f.nextID("b")
	out.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.Boards[out.ID] = &out
	ret := out
	return &ret, nil
}

func (f *fakeBackend) TouchBoard(ctx context.Context, userID, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("TouchBoard"); err != nil {
		return err
	}
	b, ok := f.Boards[id]
	if !ok || b.UserID != userID {
		return notFound("touch board")
	}
	b.LastScrapedAt = &at
	return nil
}

func (f *fakeBackend) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListBoards"); err != nil {
		return nil, err
	}
	var out []models.Board
	for _, b := range f.Boards {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBackend) DeleteBoard(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteBoard"); err != nil {
		return err
	}
	if b, ok := f.Boards[id]; !ok || b.UserID != userID {
		return notFound("delete board")
	}
	delete(f.Boards, id)
	for mid, m := range f.Matches {
		if m.BoardID == id {
			delete(f.Matches, mid)
		}
	}
	return nil
}

func (f *fakeBackend) ListPersonalItems(ctx context.Context, userID string) ([]models.PersonalItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListPersonalItems"); err != nil {
		return nil, err
	}
	var out []models.PersonalItem
	for _, it := range f.Items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreatePersonalItem(ctx context.Context, item *models.PersonalItem) (*models.PersonalItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreatePersonalItem"); err != nil {
		return nil, err
	}
	out := *item
	out.ID = f.nextID("i")
	f.Items[out.ID] = &out
	ret := out
	return &ret, nil
}

func (f *fakeBackend) DeletePersonalItem(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePersonalItem"); err != nil {
		return err
	}
	if it, ok := f.Items[id]; !ok || it.UserID != userID {
		return notFound("delete personal item")
	}
	delete(f.Items, id)
	return nil
}

func (f *fakeBackend) PersonalItemImageURLs(ctx context.Context, userID string, ids []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PersonalItemImageURLs"); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if it, ok := f.Items[id]; ok && it.UserID == userID {
			out = append(out, it.ImageURL)
		}
	}
	return out, nil
}

func (f *fakeBackend) ListItemMatches(ctx context.Context, userID string) ([]models.ItemMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListItemMatches"); err != nil {
		return nil, err
	}
	var out []models.ItemMatch
	for _, m := range f.Matches {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateItemMatch(ctx context.Context, m *models.ItemMatch) (*models.ItemMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateItemMatch"); err != nil {
		return nil, err
	}
	out := *m
	out.ID = f.nextID("m")
	f.Matches[out.ID] = &out
	f.LastMatch = &out
	ret := out
	return &ret, nil
}

func (f *fakeBackend) DeleteItemMatch(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteItemMatch"); err != nil {
		return err
	}
	if m, ok := f.Matches[id]; !ok || m.UserID != userID {
		return notFound("delete item match")
	}
	delete(f.Matches, id)
	return nil
}

func (f *fakeBackend) CreateUserQuery(ctx context.Context, q *models.UserQuery) (*models.UserQuery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateUserQuery"); err != nil {
		return nil, err
	}
	out := *q
	out.ID = f.nextID("q")
	f.Queries = append(f.Queries, out)
	return &out, nil
}

func (f *fakeBackend) CreateQueryResult(ctx context.Context, r *models.QueryResult) (*models.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateQueryResult"); err != nil {
		return nil, err
	}
	out := *r
	out.ID = f.nextID("r")
	f.Results = append(f.Results, out)
	return &out, nil
}

func (f *fakeBackend) ListUserQueries(ctx context.Context, boardID, userID string) ([]models.UserQuery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListUserQueries"); err != nil {
		return nil, err
	}
	var out []models.UserQuery
	for _, q := range f.Queries {
		if q.BoardID == boardID && q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetQueryResult(ctx context.Context, userID, queryID string) (*models.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetQueryResult"); err != nil {
		return nil, err
	}
	for _, r := range f.Results {
		if r.QueryID == queryID && r.UserID == userID {
			out := r
			return &out, nil
		}
	}
	return nil, &common.RemoteError{Code: common.NotFoundCode}
}

func (f *fakeBackend) UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UploadFile"); err != nil {
		return "", err
	}
	f.LastUploadKey = key
	return "https://cdn/" + key, nil
}

func (f *fakeBackend) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DownloadFile"); err != nil {
		return nil, err
	}
	return []byte(key), nil
}

func (f *fakeBackend) ListBoardImages(ctx context.Context, boardURL string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ListBoardImages"); err != nil {
		return nil, err
	}
	return f.Images, nil
}

type fakeCompute struct {
	mu sync.Mutex

	ScrapeRes *models.ScrapeResponse
	MatchRes  *models.MatchResponse
	Err       error

	LastEndpoint string
	LastURL      string
	LastImages   []string
	LastLimit    int
	Calls        int
}

func (f *fakeCompute) Scrape(ctx context.Context, boardURL string, downloadImages bool) (*models.ScrapeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastEndpoint, f.LastURL = "scrape", boardURL
	return f.ScrapeRes, f.Err
}

func (f *fakeCompute) FindSimilar(ctx context.Context, boardURL string, images []string) (*models.MatchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastEndpoint, f.LastURL, f.LastImages = "find-similar", boardURL, images
	return f.MatchRes, f.Err
}

func (f *fakeCompute) FashionFinder(ctx context.Context, boardURL string, images []string, limit int) (*models.MatchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.LastEndpoint, f.LastURL, f.LastImages, f.LastLimit = "fashion-finder", boardURL, images, limit
	return f.MatchRes, f.Err
}

type fakePersister struct {
	mu     sync.Mutex
	Loaded []models.RecentBoard
	Err    error
	Saved  [][]models.RecentBoard
}

func (f *fakePersister) Load(ctx context.Context) ([]models.RecentBoard, error) {
	return f.Loaded, f.Err
}

func (f *fakePersister) Save(ctx context.Context, boards []models.RecentBoard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saved = append(f.Saved, boards)
}

func (f *fakePersister) last() []models.RecentBoard {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Saved) == 0 {
		return nil
	}
	return f.Saved[len(f.Saved)-1]
}
