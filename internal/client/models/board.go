package models

import (
	"net/url"
	"strings"
	"time"
)

// TitleFromURL returns the last non-empty path segment of a board url,
// e.g. "denim" for https://pinterest.com/alex/denim/.
func TitleFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		p = u.Path
	}
	segs := PathSegments(p)
	if len(segs) == 0 {
		return raw
	}
	return segs[len(segs)-1]
}

// PathSegments splits p on '/' dropping empty segments.
func PathSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AccessedAt is the time a board was last used: last scrape, else creation,
// else now.
func (b *Board) AccessedAt(now time.Time) time.Time {
	switch {
	case b.LastScrapedAt != nil && !b.LastScrapedAt.IsZero():
		return *b.LastScrapedAt
	case !b.CreatedAt.IsZero():
		return b.CreatedAt
	default:
		return now
	}
}

// Recent converts a board row into a recent boards entry.
func (b *Board) Recent(accessed time.Time) RecentBoard {
	title := b.Title
	if title == "" {
		title = TitleFromURL(b.URL)
	}
	return RecentBoard{ID: b.ID, URL: b.URL, Title: title, LastAccessed: accessed}
}
