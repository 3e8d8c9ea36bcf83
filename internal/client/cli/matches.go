package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

func (a *App) match(ctx context.Context, args []string) error {
	st := a.store.Snapshot()
	if st.CurrentBoard == nil {
		return common.NewValidationError("no board selected")
	}
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return common.NewValidationError("limit must be a positive number")
		}
		limit = n
	}

	m, err := a.store.CreateItemMatch(ctx, st.CurrentBoard.ID, st.SelectedPersonalItems, limit)
	if err != nil {
		return err
	}
	a.printf("Match %s saved\n", m.ID)
	printMatchResponse(a.out, a.store.Snapshot().QueryResults)
	return nil
}

func (a *App) matches(ctx context.Context, _ []string) error {
	if err := a.store.FetchItemMatches(ctx); err != nil {
		return err
	}
	ms := a.store.Snapshot().ItemMatches
	if len(ms) == 0 {
		a.printf("No matches yet\n")
		return nil
	}
	printItemMatches(a.out, ms)
	return nil
}

func (a *App) removeMatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("rmmatch <id>")
	}
	if err := a.store.RemoveItemMatch(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Match %s removed\n", args[0])
	return nil
}

func (a *App) addQueryImage(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("addimg <url>")
	}
	a.store.AddQueryImage(args[0])
	a.printQueryImages()
	return nil
}

func (a *App) removeQueryImage(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("rmimg <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError("rmimg <n>")
	}
	a.store.RemoveQueryImage(n - 1)
	a.printQueryImages()
	return nil
}

func (a *App) clearQueryImages(_ context.Context, _ []string) error {
	a.store.ClearQueryImages()
	return nil
}

func (a *App) printQueryImages() {
	for i, img := range a.store.Snapshot().QueryImages {
		a.printf("%d. %s\n", i+1, img)
	}
}

func (a *App) find(ctx context.Context, _ []string) error {
	res, err := a.store.FindMatches(ctx)
	if err != nil {
		return err
	}
	printMatchResponse(a.out, res)
	return nil
}

func (a *App) clearResults(_ context.Context, _ []string) error {
	a.store.ClearResults()
	return nil
}

func (a *App) history(ctx context.Context, _ []string) error {
	b := a.store.Snapshot().CurrentBoard
	if b == nil {
		return common.NewValidationError("no board selected")
	}
	qs := a.store.FetchBoardHistory(ctx, b.ID)
	if len(qs) == 0 {
		a.printf("No queries for %s\n", b.Title)
		return nil
	}
	for _, q := range qs {
		a.printf("%s  %s  %d images\n", q.ID, q.CreatedAt.Local().Format(time.DateTime), len(q.QueryImages))
	}
	return nil
}

func (a *App) result(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("result <query id>")
	}
	r := a.store.FetchQueryResults(ctx, args[0])
	if r == nil {
		a.printf("No result for query %s\n", args[0])
		return nil
	}
	printOverall(a.out, r.BestMatches)
	return nil
}

func (a *App) runMigrations(ctx context.Context, _ []string) error {
	if err := a.migrate(ctx); err != nil {
		return err
	}
	a.printf("Migrations applied\n")
	return nil
}
