// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package board implements the character board: the state one visitor works on
after the roster has been fetched.

A [Board] owns the master list, the starred list, the current selection and the
search and filter inputs. The visible list is derived from those inputs and is
never stored.

Architecture:

  - Board: pure state container with one setter per event.
  - View: presentation rules (truncated names, star glyphs, portrait sizes).
  - Service: mount and fetch lifecycle, per-board serialised transitions.
  - Repository: transient storage keyed by board ID (memory or Redis).
  - Handler / PageHandler: JSON API and server-rendered HTML page.
*/
package board

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/pkg/fold"
	"github.com/taibuivan/roster/pkg/slice"
)

// # Fetch State

// FetchStatus is the lifecycle of the one roster fetch a board performs.
type FetchStatus string

const (
	FetchLoading FetchStatus = "loading"
	FetchReady   FetchStatus = "ready"
	FetchFailed  FetchStatus = "failed"
)

// FetchError is the client-safe description of a failed fetch.
type FetchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// # Board

// Board is the state of one character board.
//
// A Board is not safe for concurrent use; [Service] serialises access per ID.
type Board struct {
	id        string
	createdAt time.Time

	status   FetchStatus
	fetchErr *FetchError

	all      []character.Character
	starred  []character.Character
	selected *character.Character

	searchTerm string
	species    SpeciesFilter
	list       ListFilter

	// filtered memoises the derived list until one of its inputs changes.
	filtered []character.Character
	stale    bool
}

// New returns an empty board waiting for its fetch to complete.
func New(id string) *Board {
	return &Board{
		id:        id,
		createdAt: time.Now().UTC(),
		status:    FetchLoading,
		species:   SpeciesAll,
		list:      ListAll,
		stale:     true,
	}
}

// ID returns the board identifier.
func (b *Board) ID() string { return b.id }

// CreatedAt returns when the board was mounted.
func (b *Board) CreatedAt() time.Time { return b.createdAt }

// Status returns the fetch state.
func (b *Board) Status() FetchStatus { return b.status }

// Err returns the fetch failure, or nil.
func (b *Board) Err() *FetchError { return b.fetchErr }

// SearchTerm returns the last submitted search text.
func (b *Board) SearchTerm() string { return b.searchTerm }

// Species returns the active species filter.
func (b *Board) Species() SpeciesFilter { return b.species }

// List returns the active list filter.
func (b *Board) List() ListFilter { return b.list }

// All returns a copy of the master list.
func (b *Board) All() []character.Character { return slices.Clone(b.all) }

// Starred returns a copy of the starred list in star order.
func (b *Board) Starred() []character.Character { return slices.Clone(b.starred) }

// Selected returns a copy of the selected character, or nil.
func (b *Board) Selected() *character.Character {
	if b.selected == nil {
		return nil
	}
	selected := *b.selected
	return &selected
}

// # Fetch Completion

// Loaded records a successful fetch. Order is preserved.
//
// Returns false if the fetch had already completed.
func (b *Board) Loaded(characters []character.Character) bool {
	if b.status != FetchLoading {
		return false
	}

	b.all = slices.Clone(characters)
	b.status = FetchReady
	b.stale = true
	return true
}

// Failed records a failed fetch, classified via [character.AsAppError].
//
// Returns false if the fetch had already completed.
func (b *Board) Failed(err error) bool {
	if b.status != FetchLoading {
		return false
	}

	appErr := character.AsAppError(err)
	b.fetchErr = &FetchError{Code: appErr.Code, Message: appErr.Message}
	b.status = FetchFailed
	return true
}

// # Inputs

// SetSearchTerm stores the search text.
func (b *Board) SetSearchTerm(term string) {
	b.searchTerm = term
	b.stale = true
}

// SetSpeciesFilter stores the species filter. Unknown values are ignored.
func (b *Board) SetSpeciesFilter(filter SpeciesFilter) {
	if !filter.IsValid() {
		return
	}
	b.species = filter
	b.stale = true
}

// SetListFilter stores the list filter. Unknown values are ignored.
func (b *Board) SetListFilter(filter ListFilter) {
	if !filter.IsValid() {
		return
	}
	b.list = filter
	b.stale = true
}

// # Transitions

// IsStarred reports whether id is in the starred list.
func (b *Board) IsStarred(id string) bool {
	return indexOf(b.starred, id) >= 0
}

/*
ToggleStar stars or unstars a character.

Description: Starring looks the character up in the master list and appends
it to the starred list; an unknown id is a no-op. Unstarring removes it from
the starred list and clears the selection if it was selected.

Returns:
  - bool: whether the board changed
*/
func (b *Board) ToggleStar(id string) bool {
	if position := indexOf(b.starred, id); position >= 0 {
		b.starred = slices.Delete(b.starred, position, position+1)
		if b.selected != nil && b.selected.ID == id {
			b.selected = nil
		}
		b.stale = true
		return true
	}

	position := indexOf(b.all, id)
	if position < 0 {
		return false
	}

	b.starred = append(b.starred, b.all[position])
	b.stale = true
	return true
}

// Select makes the character with id the selection. The master list is
// searched first, then the starred list; an unknown id is a no-op.
func (b *Board) Select(id string) bool {
	found, ok := lookup(b.all, id)
	if !ok {
		found, ok = lookup(b.starred, id)
	}
	if !ok {
		return false
	}

	b.selected = &found
	return true
}

// SoftDelete removes the character from the master list only.
//
// The starred list and the selection are left untouched.
func (b *Board) SoftDelete(id string) bool {
	position := indexOf(b.all, id)
	if position < 0 {
		return false
	}

	b.all = slices.Delete(b.all, position, position+1)
	b.stale = true
	return true
}

// # Derived List

/*
Filtered returns the visible list.

It is empty while the list filter is "starred". Otherwise it holds every
master-list character, in order, whose name contains the search term and whose
species passes the species filter, minus the starred ones. Matching ignores
case.

The result is recomputed only after an input changed.
*/
func (b *Board) Filtered() []character.Character {
	if b.stale {
		b.filtered = b.derive()
		b.stale = false
	}
	return slices.Clone(b.filtered)
}

func (b *Board) derive() []character.Character {
	if b.list == ListStarred {
		return []character.Character{}
	}

	visible := slice.Filter(b.all, func(candidate character.Character) bool {
		return b.passes(candidate) && !b.IsStarred(candidate.ID)
	})

	if visible == nil {
		return []character.Character{}
	}
	return visible
}

// passes reports whether candidate matches the search term and species filter.
func (b *Board) passes(candidate character.Character) bool {
	return fold.Contains(candidate.Name, b.searchTerm) && b.species.Matches(candidate.Species)
}

/*
VisibleStarred returns the starred pane's content.

With the list filter on "all" it is every starred character in star order.
With "starred" the search term and species filter narrow it, so the
starred-only view can be searched.
*/
func (b *Board) VisibleStarred() []character.Character {
	if b.list != ListStarred {
		return slices.Clone(b.starred)
	}

	visible := slice.Filter(b.starred, b.passes)
	if visible == nil {
		return []character.Character{}
	}
	return visible
}

// # Copy & Snapshot

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := *b
	clone.all = slices.Clone(b.all)
	clone.starred = slices.Clone(b.starred)
	clone.selected = b.Selected()
	clone.filtered = nil
	clone.stale = true
	if b.fetchErr != nil {
		fetchErr := *b.fetchErr
		clone.fetchErr = &fetchErr
	}
	return &clone
}

// snapshot is the persisted form of a board. The derived list is omitted.
type snapshot struct {
	ID         string                `json:"id"`
	CreatedAt  time.Time             `json:"created_at"`
	Status     FetchStatus           `json:"status"`
	Error      *FetchError           `json:"error,omitempty"`
	All        []character.Character `json:"all"`
	Starred    []character.Character `json:"starred"`
	Selected   *character.Character  `json:"selected,omitempty"`
	SearchTerm string                `json:"search_term"`
	Species    SpeciesFilter         `json:"species"`
	List       ListFilter            `json:"list"`
}

// MarshalJSON encodes the source state of the board.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		ID:         b.id,
		CreatedAt:  b.createdAt,
		Status:     b.status,
		Error:      b.fetchErr,
		All:        b.all,
		Starred:    b.starred,
		Selected:   b.selected,
		SearchTerm: b.searchTerm,
		Species:    b.species,
		List:       b.list,
	})
}

// UnmarshalJSON restores a board saved by [Board.MarshalJSON].
func (b *Board) UnmarshalJSON(data []byte) error {
	var saved snapshot
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}

	*b = Board{
		id:         saved.ID,
		createdAt:  saved.CreatedAt,
		status:     saved.Status,
		fetchErr:   saved.Error,
		all:        saved.All,
		starred:    saved.Starred,
		selected:   saved.Selected,
		searchTerm: saved.SearchTerm,
		species:    saved.Species,
		list:       saved.List,
		stale:      true,
	}

	if !b.species.IsValid() {
		b.species = SpeciesAll
	}
	if !b.list.IsValid() {
		b.list = ListAll
	}
	return nil
}

// # Helpers

func indexOf(characters []character.Character, id string) int {
	return slices.IndexFunc(characters, func(candidate character.Character) bool {
		return candidate.ID == id
	})
}

func lookup(characters []character.Character, id string) (character.Character, bool) {
	if position := indexOf(characters, id); position >= 0 {
		return characters[position], true
	}
	return character.Character{}, false
}
