package compute

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/tidwall/gjson"
)

func invalid(what string, err error) error {
	return fmt.Errorf("%w: decode %s: %w", common.ErrRemoteFailure, what, err)
}

func decodeInto(res gjson.Result, out any) error {
	if !res.Exists() || res.Type == gjson.Null {
		return nil
	}
	return json.Unmarshal([]byte(res.Raw), out)
}

func boardInfo(res gjson.Result) (*models.BoardInfo, error) {
	v := res.Get("board_info")
	if !v.IsObject() {
		return nil, nil
	}
	var bi models.BoardInfo
	if err := json.Unmarshal([]byte(v.Raw), &bi); err != nil {
		return nil, err
	}
	return &bi, nil
}

// DecodeScrape discriminates a scrape response: uploaded_urls marks the
// download variant, pins the pin-list variant.
func DecodeScrape(raw []byte) (*models.ScrapeResponse, error) {
	if !gjson.ValidBytes(raw) {
		return nil, invalid("scrape response", fmt.Errorf("malformed json"))
	}
	res := gjson.ParseBytes(raw)

	out := &models.ScrapeResponse{Raw: json.RawMessage(raw)}
	bi, err := boardInfo(res)
	if err != nil {
		return nil, invalid("board_info", err)
	}
	out.BoardInfo = bi

	switch {
	case res.Get("uploaded_urls").Exists():
		out.Kind = models.ScrapeDownload
		out.PinsCount = int(res.Get("pins_count").Int())
		out.UploadedImages = int(res.Get("uploaded_images").Int())
		if err := decodeInto(res.Get("uploaded_urls"), &out.UploadedURLs); err != nil {
			return nil, invalid("uploaded_urls", err)
		}
	case res.Get("pins").Exists():
		out.Kind = models.ScrapePins
		if err := decodeInto(res.Get("pins"), &out.Pins); err != nil {
			return nil, invalid("pins", err)
		}
	default:
		return nil, invalid("scrape response", fmt.Errorf("neither uploaded_urls nor pins present"))
	}
	return out, nil
}

// DecodeMatch discriminates a matching response. Responses carrying
// board_info or the singular best_overall_match key are fashion-finder
// results; anything else is find-similar. Ranked matches are read from
// best_overall_matches, falling back to best_overall_match.
func DecodeMatch(raw []byte) (*models.MatchResponse, error) {
	if !gjson.ValidBytes(raw) {
		return nil, invalid("match response", fmt.Errorf("malformed json"))
	}
	res := gjson.ParseBytes(raw)
	out := &models.MatchResponse{Raw: json.RawMessage(raw)}

	best := res.Get("best_overall_matches")
	if !best.Exists() {
		best = res.Get("best_overall_match")
	}
	switch {
	case best.IsArray():
		if err := decodeInto(best, &out.BestOverallMatches); err != nil {
			return nil, invalid("best matches", err)
		}
	case best.IsObject():
		var m models.OverallMatch
		if err := json.Unmarshal([]byte(best.Raw), &m); err != nil {
			return nil, invalid("best match", err)
		}
		out.BestOverallMatches = []models.OverallMatch{m}
	}
	if err := decodeInto(res.Get("uploaded_matches"), &out.UploadedMatches); err != nil {
		return nil, invalid("uploaded_matches", err)
	}

	if res.Get("board_info").Exists() || res.Get("best_overall_match").Exists() {
		out.Kind = models.MatchFashionFinder
		bi, err := boardInfo(res)
		if err != nil {
			return nil, invalid("board_info", err)
		}
		out.BoardInfo = bi
		out.ScrapedImagesCount = int(res.Get("scraped_images_count").Int())
		out.UploadedImagesCount = int(res.Get("uploaded_images_count").Int())
		if err := decodeInto(res.Get("similarity_results"), &out.SimilarityResults); err != nil {
			return nil, invalid("similarity_results", err)
		}
		return out, nil
	}

	out.Kind = models.MatchFindSimilar
	if err := decodeInto(res.Get("results"), &out.Results); err != nil {
		return nil, invalid("results", err)
	}
	return out, nil
}
