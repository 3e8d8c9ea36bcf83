package store

import (
	"slices"

	"github.com/dmitrijs2005/fashionfinder/internal/client/models"
)

// Action names a store operation for status tracking.
type Action string

const (
	ActionRegisterBoard      Action = "registerOrTouchBoard"
	ActionScrapeBoard        Action = "scrapeBoard"
	ActionRemoveBoard        Action = "removeBoard"
	ActionFetchBoards        Action = "fetchUserBoards"
	ActionFetchBoardHistory  Action = "fetchBoardHistory"
	ActionFetchQueryResults  Action = "fetchQueryResults"
	ActionBoardImages        Action = "listBoardImages"
	ActionFetchPersonalItems Action = "fetchPersonalItems"
	ActionAddPersonalItem    Action = "addPersonalItem"
	ActionUploadPersonalItem Action = "uploadPersonalItem"
	ActionRemovePersonalItem Action = "removePersonalItem"
	ActionFetchItemMatches   Action = "fetchItemMatches"
	ActionCreateItemMatch    Action = "createItemMatch"
	ActionRemoveItemMatch    Action = "removeItemMatch"
	ActionFindMatches        Action = "findMatches"
)

// Status is the progress of the latest run of one action.
type Status struct {
	Loading bool
	Err     string
}

// State is a snapshot of the store. Snapshots are copies; mutating one has
// no effect on the store.
type State struct {
	// Version increases with every commit and orders snapshots delivered
	// to subscribers from different goroutines.
	Version uint64

	UserID       string
	CurrentBoard *models.Board
	RecentBoards []models.RecentBoard

	PersonalItems         []models.PersonalItem
	SelectedPersonalItems []string
	ItemMatches           []models.ItemMatch

	QueryImages  []string
	QueryResults *models.MatchResponse

	Status map[Action]Status
}

func (st State) clone() State {
	out := st
	if st.CurrentBoard != nil {
		b := *st.CurrentBoard
		out.CurrentBoard = &b
	}
	out.RecentBoards = slices.Clone(st.RecentBoards)
	out.PersonalItems = slices.Clone(st.PersonalItems)
	out.SelectedPersonalItems = slices.Clone(st.SelectedPersonalItems)
	out.ItemMatches = slices.Clone(st.ItemMatches)
	out.QueryImages = slices.Clone(st.QueryImages)
	out.Status = make(map[Action]Status, len(st.Status))
	for k, v := range st.Status {
		out.Status[k] = v
	}
	return out
}

// Busy reports whether any action is in flight.
func (st State) Busy() bool {
	for _, s := range st.Status {
		if s.Loading {
			return true
		}
	}
	return false
}

// pushFront puts v at the front of list, dropping entries that are same as
// v and everything beyond max.
func pushFront[T any](list []T, v T, max int, same func(T) bool) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	for _, e := range list {
		if !same(e) {
			out = append(out, e)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// without returns list minus the entries matched by drop.
func without[T any](list []T, drop func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, e := range list {
		if !drop(e) {
			out = append(out, e)
		}
	}
	return out
}
