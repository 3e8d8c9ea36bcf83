package cli

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/fashionfinder/internal/client/store"
	"github.com/dmitrijs2005/fashionfinder/internal/filex"
)

func (a *App) items(ctx context.Context, _ []string) error {
	if err := a.store.FetchPersonalItems(ctx); err != nil {
		return err
	}
	st := a.store.Snapshot()
	if len(st.PersonalItems) == 0 {
		a.printf("No personal items\n")
		return nil
	}
	printItems(a.out, st.PersonalItems, st.SelectedPersonalItems)
	return nil
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("upload <file>")
	}
	data, contentType, err := filex.ReadImage(args[0])
	if err != nil {
		return err
	}

	title, err := GetSimpleText(a.reader, "Title (optional)", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, "Tags, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	item, err := a.store.UploadPersonalItem(ctx, store.Upload{
		Filename:    filepath.Base(args[0]),
		Data:        data,
		ContentType: contentType,
		Title:       title,
		Description: description,
		Tags:        tags,
	})
	if err != nil {
		return err
	}
	a.printf("Uploaded item %s: %s\n", item.ID, item.ImageURL)
	return nil
}

func (a *App) addItem(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("additem <image url>")
	}
	title, err := GetSimpleText(a.reader, "Title (optional)", a.out)
	if err != nil {
		return err
	}
	item, err := a.store.AddPersonalItem(ctx, args[0], title, "", nil)
	if err != nil {
		return err
	}
	a.printf("Added item %s\n", item.ID)
	return nil
}

func (a *App) removeItem(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("rmitem <id>")
	}
	if err := a.store.RemovePersonalItem(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Item %s removed\n", args[0])
	return nil
}

func (a *App) selectItems(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("select <id>...")
	}
	for _, id := range args {
		a.store.SelectPersonalItem(id)
	}
	a.printf("%d items selected\n", len(a.store.Snapshot().SelectedPersonalItems))
	return nil
}

func (a *App) deselectItems(_ context.Context, args []string) error {
	for _, id := range args {
		a.store.DeselectPersonalItem(id)
	}
	a.printf("%d items selected\n", len(a.store.Snapshot().SelectedPersonalItems))
	return nil
}

func (a *App) clearSelection(_ context.Context, _ []string) error {
	a.store.ClearSelectedItems()
	return nil
}
