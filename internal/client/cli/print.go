package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

func printScrape(w io.Writer, res *models.ScrapeResponse) {
	if res.BoardInfo != nil {
		fmt.Fprintf(w, "Board: %s (%d pins)\n", res.BoardInfo.Title, res.BoardInfo.TotalPins)
	}
	switch res.Kind {
	case models.ScrapeDownload:
		fmt.Fprintf(w, "Scraped %d pins, uploaded %d images\n", res.PinsCount, res.UploadedImages)
		for _, u := range res.UploadedURLs {
			fmt.Fprintf(w, "  %s\n", u)
		}
	case models.ScrapePins:
		fmt.Fprintf(w, "Found %d pins\n", len(res.Pins))
		for _, p := range res.Pins {
			fmt.Fprintf(w, "  %s\n", p.Src)
		}
	}
}

func printOverall(w io.Writer, ms []models.OverallMatch) {
	for i, m := range ms {
		fmt.Fprintf(w, "%2d. %.3f  %s\n", i+1, m.AverageSimilarityScore, m.BestURL())
	}
}

func printMatchResponse(w io.Writer, res *models.MatchResponse) {
	if res == nil {
		return
	}
	switch res.Kind {
	case models.MatchFashionFinder:
		if res.BoardInfo != nil {
			fmt.Fprintf(w, "Board: %s\n", res.BoardInfo.Title)
		}
		fmt.Fprintf(w, "Compared %d uploaded against %d scraped images\n", res.UploadedImagesCount, res.ScrapedImagesCount)
		printOverall(w, res.BestOverallMatches)
	case models.MatchFindSimilar:
		if len(res.BestOverallMatches) > 0 {
			printOverall(w, res.BestOverallMatches)
			return
		}
		for _, r := range res.Results {
			fmt.Fprintf(w, "Query image %d:\n", r.QueryImageIndex+1)
			for _, m := range r.Matches {
				fmt.Fprintf(w, "    %.3f  %s\n", m.SimilarityScore, m.Path)
			}
		}
	}
}

func printItems(w io.Writer, items []models.PersonalItem, selected []string) {
	for _, it := range items {
		mark := " "
		if slices.Contains(selected, it.ID) {
			mark = "*"
		}
		title := it.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s %s  %s  %s", mark, it.ID, title, it.ImageURL)
		if len(it.Tags) > 0 {
			fmt.Fprintf(w, "  [%s]", strings.Join(it.Tags, ", "))
		}
		fmt.Fprintln(w)
	}
}

func printItemMatches(w io.Writer, ms []models.ItemMatch) {
	for _, m := range ms {
		fmt.Fprintf(w, "%s  board %s  %d items  %d pins\n", m.ID, m.BoardID, len(m.PersonalItemIDs), len(m.MatchedPinURLs))
		for i, u := range m.MatchedPinURLs {
			if i < len(m.SimilarityScores) {
				fmt.Fprintf(w, "    %.3f  %s\n", m.SimilarityScores[i].Score, u)
			} else {
				fmt.Fprintf(w, "    %s\n", u)
			}
		}
	}
}
