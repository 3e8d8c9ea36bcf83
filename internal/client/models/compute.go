package models

import "encoding/json"

type BoardInfo struct {
	Title     string `json:"title"`
	TotalPins int    `json:"total_pins"`
}

type Pin struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ScrapeKind tells which shape a scrape response has.
type ScrapeKind int

const (
	// ScrapeDownload: images were uploaded to storage; counts and urls are set.
	ScrapeDownload ScrapeKind = iota + 1
	// ScrapePins: only the pin list was returned.
	ScrapePins
)

func (k ScrapeKind) String() string {
	switch k {
	case ScrapeDownload:
		return "download"
	case ScrapePins:
		return "pins"
	default:
		return "unknown"
	}
}

// ScrapeResponse is the discriminated result of /api/scrape-board.
type ScrapeResponse struct {
	Kind      ScrapeKind
	BoardInfo *BoardInfo

	// ScrapeDownload
	PinsCount      int
	UploadedImages int
	UploadedURLs   []string

	// ScrapePins
	Pins []Pin

	Raw json.RawMessage
}

// OverallMatch is a board image ranked against all query images.
type OverallMatch struct {
	Path                   string             `json:"path"`
	AverageSimilarityScore float64            `json:"average_similarity_score"`
	IndividualScores       map[string]float64 `json:"individual_scores,omitempty"`
	SupabaseURL            string             `json:"supabase_url,omitempty"`
}

// BestURL prefers the resolved storage URL over the scrape-relative path.
func (m OverallMatch) BestURL() string {
	if m.SupabaseURL != "" {
		return m.SupabaseURL
	}
	return m.Path
}

type Match struct {
	Path            string  `json:"path"`
	SimilarityScore float64 `json:"similarity_score"`
}

type SimilarityResult struct {
	Matches         []Match `json:"matches"`
	QueryImageIndex int     `json:"query_image_index"`
}

// MatchKind tells which endpoint produced a MatchResponse.
type MatchKind int

const (
	MatchFashionFinder MatchKind = iota + 1
	MatchFindSimilar
)

func (k MatchKind) String() string {
	switch k {
	case MatchFashionFinder:
		return "fashion-finder"
	case MatchFindSimilar:
		return "find-similar"
	default:
		return "unknown"
	}
}

// MatchResponse is the discriminated result of /api/fashion-finder and
// /api/find-similar.
type MatchResponse struct {
	Kind               MatchKind
	BestOverallMatches []OverallMatch
	UploadedMatches    []string

	// MatchFashionFinder
	BoardInfo           *BoardInfo
	ScrapedImagesCount  int
	UploadedImagesCount int
	SimilarityResults   []SimilarityResult

	// MatchFindSimilar
	Results []SimilarityResult

	Raw json.RawMessage
}
