package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
	"github.com/dmitrijs2005/fashionfinder/internal/client/objectstore"
	"github.com/dmitrijs2005/fashionfinder/internal/common"
)

func (s *Store) FetchPersonalItems(ctx context.Context) error {
	userID := s.userID()
	if userID == "" {
		return nil
	}
	s.begin(ActionFetchPersonalItems)

	items, err := s.backend.ListPersonalItems(ctx, userID)
	if err != nil {
		return s.finish(ctx, ActionFetchPersonalItems, err)
	}
	s.update(func(st *State) { st.PersonalItems = items })
	return s.finish(ctx, ActionFetchPersonalItems, nil)
}

// AddPersonalItem stores an already uploaded image as a personal item and
// puts it at the front of the list.
func (s *Store) AddPersonalItem(ctx context.Context, imageURL, title, description string, tags []string) (*models.PersonalItem, error) {
	return s.addPersonalItem(ctx, ActionAddPersonalItem, imageURL, title, description, tags)
}

func (s *Store) addPersonalItem(ctx context.Context, a Action, imageURL, title, description string, tags []string) (*models.PersonalItem, error) {
	userID := s.userID()
	if userID == "" {
		return nil, s.finish(ctx, a, common.ErrNotAuthenticated)
	}
	s.begin(a)

	item, err := s.backend.CreatePersonalItem(ctx, &models.PersonalItem{
		UserID:      userID,
		ImageURL:    imageURL,
		Title:       title,
		Description: description,
		Tags:        tags,
	})
	if err != nil {
		return nil, s.finish(ctx, a, err)
	}

	s.update(func(st *State) {
		st.PersonalItems = pushFront(st.PersonalItems, *item, 0, func(p models.PersonalItem) bool { return p.ID == item.ID })
	})
	return item, s.finish(ctx, a, nil)
}

type Upload struct {
	// Filename defaults to item-<unix ms>.jpg.
	Filename    string
	Data        []byte
	ContentType string
	Title       string
	Description string
	Tags        []string
}

// UploadPersonalItem stores the image under {userId}/items/ and adds it as a
// personal item.
func (s *Store) UploadPersonalItem(ctx context.Context, up Upload) (*models.PersonalItem, error) {
	userID := s.userID()
	if userID == "" {
		return nil, s.finish(ctx, ActionUploadPersonalItem, common.ErrNotAuthenticated)
	}
	if len(up.Data) == 0 {
		return nil, s.finish(ctx, ActionUploadPersonalItem, common.NewValidationError("empty image"))
	}
	s.begin(ActionUploadPersonalItem)

	name := up.Filename
	if name == "" {
		name = objectstore.DefaultItemFilename(s.now())
	}
	url, err := s.backend.UploadFile(ctx, objectstore.PersonalItemKey(userID, name), up.Data, up.ContentType)
	if err != nil {
		return nil, s.finish(ctx, ActionUploadPersonalItem, err)
	}

	return s.addPersonalItem(ctx, ActionUploadPersonalItem, url, up.Title, up.Description, up.Tags)
}

// RemovePersonalItem deletes one of the user's items and drops it from both
// the item list and the selection in one commit.
func (s *Store) RemovePersonalItem(ctx context.Context, id string) error {
	userID := s.userID()
	if userID == "" {
		return s.finish(ctx, ActionRemovePersonalItem, common.ErrNotAuthenticated)
	}
	s.begin(ActionRemovePersonalItem)

	if err := s.backend.DeletePersonalItem(ctx, userID, id); err != nil {
		return s.finish(ctx, ActionRemovePersonalItem, err)
	}

	s.update(func(st *State) {
		st.PersonalItems = without(st.PersonalItems, func(p models.PersonalItem) bool { return p.ID == id })
		st.SelectedPersonalItems = without(st.SelectedPersonalItems, func(sel string) bool { return sel == id })
	})
	return s.finish(ctx, ActionRemovePersonalItem, nil)
}

func (s *Store) SelectPersonalItem(id string) {
	s.update(func(st *State) {
		if !slices.Contains(st.SelectedPersonalItems, id) {
			st.SelectedPersonalItems = append(slices.Clone(st.SelectedPersonalItems), id)
		}
	})
}

func (s *Store) DeselectPersonalItem(id string) {
	s.update(func(st *State) {
		st.SelectedPersonalItems = without(st.SelectedPersonalItems, func(sel string) bool { return sel == id })
	})
}

func (s *Store) ClearSelectedItems() {
	s.update(func(st *State) { st.SelectedPersonalItems = []string{} })
}
