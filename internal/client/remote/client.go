// Package remote is the client's view of the hosted backend: row CRUD over
// the five Postgres tables plus the "images" object store. Every call is a
// single attempt. Failures come back as errors matching
// common.ErrRemoteFailure; lookup misses additionally match common.ErrNotFound
// and carry common.NotFoundCode.
package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
	"github.com/google/uuid"
)

// Blobs is the object store the client uploads to and lists from.
type Blobs interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	ListBoardImages(ctx context.Context, boardURL string) ([]string, error)
	PublicURL(path string) string
}

type Client struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	blobs Blobs
}

func New(db *sql.DB, repos repomanager.RepositoryManager, blobs Blobs) *Client {
	return &Client{db: db, repos: repos, blobs: blobs}
}

func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.NewValidationError(fmt.Sprintf("invalid %s id %q", kind, id))
	}
	return nil
}

func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrNotFound):
		return &common.RemoteError{Code: common.NotFoundCode, Message: op + ": not found"}
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrRemoteFailure):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", common.ErrRemoteFailure, op, err)
	}
}

func (c *Client) FindBoardByURL(ctx context.Context, userID, url string) (*models.Board, error) {
	b, err := c.repos.Boards(c.db).FindByURL(ctx, userID, url)
	return b, mapErr("find board", err)
}

// GetBoard returns the user's board by id. Another user's board reads as
// not found.
func (c *Client) GetBoard(ctx context.Context, userID, id string) (*models.Board, error) {
	if err := checkID("board", id); err != nil {
		return nil, err
	}
	b, err := c.repos.Boards(c.db).GetByID(ctx, userID, id)
	return b, mapErr("get board", err)
}

func (c *Client) CreateBoard(ctx context.Context, b *models.Board) (*models.Board, error) {
	out, err := c.repos.Boards(c.db).Create(ctx, b)
	return out, mapErr("create board", err)
}

func (c *Client) TouchBoard(ctx context.Context, userID, id string, at time.Time) error {
	return mapErr("touch board", c.repos.Boards(c.db).Touch(ctx, userID, id, at))
}

func (c *Client) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	out, err := c.repos.Boards(c.db).ListByUser(ctx, userID)
	return out, mapErr("list boards", err)
}

// DeleteBoard removes the board's queries and matches, then the board, in one
// transaction. Every statement is scoped to userID; a board the user does not
// own rolls the transaction back with a not-found error.
func (c *Client) DeleteBoard(ctx context.Context, userID, id string) error {
	if err := checkID("board", id); err != nil {
		return err
	}
	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := c.repos.Queries(tx).DeleteByBoard(ctx, userID, id); err != nil {
			return err
		}
		if err := c.repos.Matches(tx).DeleteByBoard(ctx, userID, id); err != nil {
			return err
		}
		return c.repos.Boards(tx).Delete(ctx, userID, id)
	})
	return mapErr("delete board", err)
}

func (c *Client) ListPersonalItems(ctx context.Context, userID string) ([]models.PersonalItem, error) {
	out, err := c.repos.Items(c.db).ListByUser(ctx, userID)
	return out, mapErr("list personal items", err)
}

func (c *Client) CreatePersonalItem(ctx context.Context, item *models.PersonalItem) (*models.PersonalItem, error) {
	out, err := c.repos.Items(c.db).Create(ctx, item)
	return out, mapErr("create personal item", err)
}

func (c *Client) DeletePersonalItem(ctx context.Context, userID, id string) error {
	if err := checkID("personal item", id); err != nil {
		return err
	}
	return mapErr("delete personal item", c.repos.Items(c.db).Delete(ctx, userID, id))
}

// PersonalItemImageURLs resolves the image urls of the user's items. Ids of
// items the user does not own are skipped like unknown ids.
func (c *Client) PersonalItemImageURLs(ctx context.Context, userID string, ids []string) ([]string, error) {
	for _, id := range ids {
		if err := checkID("personal item", id); err != nil {
			return nil, err
		}
	}
	out, err := c.repos.Items(c.db).ImageURLs(ctx, userID, ids)
	return out, mapErr("resolve personal items", err)
}

func (c *Client) ListItemMatches(ctx context.Context, userID string) ([]models.ItemMatch, error) {
	out, err := c.repos.Matches(c.db).ListByUser(ctx, userID)
	return out, mapErr("list item matches", err)
}

func (c *Client) CreateItemMatch(ctx context.Context, m *models.ItemMatch) (*models.ItemMatch, error) {
	out, err := c.repos.Matches(c.db).Create(ctx, m)
	return out, mapErr("create item match", err)
}

func (c *Client) DeleteItemMatch(ctx context.Context, userID, id string) error {
	if err := checkID("item match", id); err != nil {
		return err
	}
	return mapErr("delete item match", c.repos.Matches(c.db).Delete(ctx, userID, id))
}

func (c *Client) CreateUserQuery(ctx context.Context, q *models.UserQuery) (*models.UserQuery, error) {
	out, err := c.repos.Queries(c.db).CreateQuery(ctx, q)
	return out, mapErr("create user query", err)
}

func (c *Client) CreateQueryResult(ctx context.Context, r *models.QueryResult) (*models.QueryResult, error) {
	out, err := c.repos.Queries(c.db).CreateResult(ctx, r)
	return out, mapErr("create query result", err)
}

func (c *Client) ListUserQueries(ctx context.Context, boardID, userID string) ([]models.UserQuery, error) {
	if err := checkID("board", boardID); err != nil {
		return nil, err
	}
	out, err := c.repos.Queries(c.db).ListByBoard(ctx, boardID, userID)
	return out, mapErr("list user queries", err)
}

func (c *Client) GetQueryResult(ctx context.Context, userID, queryID string) (*models.QueryResult, error) {
	if err := checkID("query", queryID); err != nil {
		return nil, err
	}
	out, err := c.repos.Queries(c.db).GetResult(ctx, userID, queryID)
	return out, mapErr("get query result", err)
}

func (c *Client) UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	u, err := c.blobs.Upload(ctx, key, data, contentType)
	return u, mapErr("upload file", err)
}

func (c *Client) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	data, err := c.blobs.Download(ctx, key)
	return data, mapErr("download file", err)
}

func (c *Client) ListBoardImages(ctx context.Context, boardURL string) ([]string, error) {
	urls, err := c.blobs.ListBoardImages(ctx, boardURL)
	return urls, mapErr("list board images", err)
}

func (c *Client) PublicURL(path string) string {
	return c.blobs.PublicURL(path)
}
