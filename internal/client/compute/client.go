// Package compute is the HTTP client of the scraping and matching service.
package compute

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
	"github.com/dmitrijs2005/fashionfinder/internal/netx"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	scrapePath        = "/api/scrape-board"
	fashionFinderPath = "/api/fashion-finder"
	findSimilarPath   = "/api/find-similar"
)

type scrapeRequest struct {
	PinterestURL   string `json:"pinterest_url"`
	DownloadImages bool   `json:"download_images"`
}

type matchRequest struct {
	PinterestURL string   `json:"pinterest_url,omitempty"`
	Images       []string `json:"images"`
	Limit        int      `json:"limit,omitempty"`
}

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	logger  logging.Logger
}

func New(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		http:    netx.NewClient(timeout, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	reqID := uuid.NewString()
	start := time.Now()

	raw, err := netx.Do(ctx, c.http, http.MethodPost, c.baseURL+path,
		map[string]string{"X-Request-Id": reqID}, body)
	if err != nil {
		c.logger.Error(ctx, "compute request failed", "path", path, "request_id", reqID, "error", err)
		return nil, err
	}
	c.logger.Debug(ctx, "compute request", "path", path, "request_id", reqID, "took", time.Since(start))
	return raw, nil
}

// Scrape asks the service to scrape a board; with downloadImages the images
// are copied into storage and the download variant is returned.
func (c *Client) Scrape(ctx context.Context, boardURL string, downloadImages bool) (*models.ScrapeResponse, error) {
	raw, err := c.post(ctx, scrapePath, scrapeRequest{PinterestURL: boardURL, DownloadImages: downloadImages})
	if err != nil {
		return nil, err
	}
	return DecodeScrape(raw)
}

// FindSimilar ranks board images against images. boardURL may be empty.
func (c *Client) FindSimilar(ctx context.Context, boardURL string, images []string) (*models.MatchResponse, error) {
	raw, err := c.post(ctx, findSimilarPath, matchRequest{PinterestURL: boardURL, Images: nonNil(images)})
	if err != nil {
		return nil, err
	}
	return DecodeMatch(raw)
}

// FashionFinder ranks board images against images. A zero limit leaves the
// service default in place.
func (c *Client) FashionFinder(ctx context.Context, boardURL string, images []string, limit int) (*models.MatchResponse, error) {
	raw, err := c.post(ctx, fashionFinderPath, matchRequest{PinterestURL: boardURL, Images: nonNil(images), Limit: limit})
	if err != nil {
		return nil, err
	}
	return DecodeMatch(raw)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
