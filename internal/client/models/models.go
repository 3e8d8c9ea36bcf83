// Package models holds the client data model: rows of the backend tables,
// the locally persisted recent boards list, and the compute service
// response shapes.
package models

import (
	"encoding/json"
	"time"
)

// Board is a row of pinterest_boards. URL is the natural key per user.
type Board struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	CreatedAt     time.Time  `json:"created_at"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
}

// RecentBoard is an entry of the local most-recently-used boards list.
type RecentBoard struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// PersonalItem is a user-uploaded clothing photo.
type PersonalItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ImageURL    string    `json:"image_url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SimilarityScore struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// ItemMatch records one personal-items-vs-board matching run.
type ItemMatch struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	BoardID          string            `json:"board_id"`
	PersonalItemIDs  []string          `json:"personal_item_ids"`
	MatchedPinURLs   []string          `json:"matched_pin_urls"`
	SimilarityScores []SimilarityScore `json:"similarity_scores"`
	CreatedAt        time.Time         `json:"created_at"`
}

// UserQuery records an ad hoc query-images-vs-board invocation.
type UserQuery struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"board_id"`
	UserID      string    `json:"user_id"`
	QueryImages []string  `json:"query_images"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueryResult is the 1:1 outcome of a UserQuery.
type QueryResult struct {
	ID              string          `json:"id"`
	QueryID         string          `json:"query_id"`
	UserID          string          `json:"user_id"`
	BestMatches     []OverallMatch  `json:"best_matches"`
	UploadedMatches json.RawMessage `json:"uploaded_matches"`
	CreatedAt       time.Time       `json:"created_at"`
}
