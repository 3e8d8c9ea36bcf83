package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/filex"
)

const defaultLinkTTL = 15 * time.Minute

func usageError(usage string) error {
	return common.NewValidationError("usage: " + usage)
}

func (a *App) scrape(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("scrape <url> [download]")
	}
	download := len(args) > 1 && (args[1] == "download" || args[1] == "-d")

	res, err := a.store.ScrapeBoard(ctx, args[0], download)
	if err != nil {
		return err
	}
	printScrape(a.out, res)
	return nil
}

// open makes a board current, either by url or by its position in the
// recent boards list ("#1" is the most recent).
func (a *App) open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("open <url|#n> [title]")
	}
	url, title := args[0], strings.Join(args[1:], " ")

	if n, ok := strings.CutPrefix(url, "#"); ok {
		i, err := strconv.Atoi(n)
		recent := a.store.Snapshot().RecentBoards
		if err != nil || i < 1 || i > len(recent) {
			return common.NewValidationError(fmt.Sprintf("no recent board %s", url))
		}
		url = recent[i-1].URL
		if title == "" {
			title = recent[i-1].Title
		}
	}

	board, err := a.store.RegisterOrTouchBoard(ctx, url, title)
	if err != nil {
		return err
	}
	a.printf("Current board: %s (%s)\n", board.Title, board.ID)
	return nil
}

func (a *App) boards(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		if err := a.store.FetchUserBoards(ctx); err != nil {
			return err
		}
	}
	recent := a.store.Snapshot().RecentBoards
	if len(recent) == 0 {
		a.printf("No boards yet\n")
		return nil
	}
	for i, b := range recent {
		a.printf("#%d %s  %s  %s\n", i+1, b.Title, b.URL, b.LastAccessed.Local().Format(time.DateTime))
	}
	return nil
}

func (a *App) removeBoard(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("rmboard <id>")
	}
	if err := a.store.RemoveBoard(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Board %s removed\n", args[0])
	return nil
}

func (a *App) clearRecent(ctx context.Context, _ []string) error {
	a.store.ClearRecentBoards(ctx)
	return nil
}

func (a *App) currentBoardURL() (string, error) {
	b := a.store.Snapshot().CurrentBoard
	if b == nil {
		return "", common.NewValidationError("no board selected")
	}
	return b.URL, nil
}

func (a *App) images(ctx context.Context, args []string) error {
	var url string
	if len(args) > 0 {
		url = args[0]
	} else {
		u, err := a.currentBoardURL()
		if err != nil {
			return err
		}
		url = u
	}

	urls, err := a.store.BoardImages(ctx, url)
	if err != nil {
		return err
	}
	for _, u := range urls {
		a.printf("%s\n", u)
	}
	a.printf("%d images\n", len(urls))
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("download <path> <file>")
	}
	data, err := a.store.DownloadFile(ctx, args[0])
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(args[1]); err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o640); err != nil {
		return err
	}
	a.printf("Saved %d bytes to %s\n", len(data), args[1])
	return nil
}

func (a *App) link(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("link <path> [ttl]")
	}
	ttl := defaultLinkTTL
	if len(args) > 1 {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return common.NewValidationError("invalid ttl " + args[1])
		}
		ttl = d
	}
	url, err := a.links.PresignGet(ctx, args[0], ttl)
	if err != nil {
		return err
	}
	a.printf("%s\n", url)
	return nil
}
