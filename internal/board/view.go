// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"fmt"
	"unicode/utf8"

	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/pkg/slice"
)

// # Presentation Rules

const (
	// NameLimit is the number of runes shown before a name is cut.
	NameLimit = 13
	// Ellipsis marks a truncated name.
	Ellipsis = "..."

	GlyphStarred   = "💚"
	GlyphUnstarred = "♡"

	// SelectedClass marks the selected row in either list.
	SelectedClass = "selected-item"

	ListPortraitSize   = 35
	DetailPortraitSize = 75
)

// TruncateName shortens names longer than [NameLimit] runes.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= NameLimit {
		return name
	}
	return string([]rune(name)[:NameLimit]) + Ellipsis
}

// # View Model

// Row is one entry of the starred or the all-characters list.
type Row struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Image        string `json:"image"`
	Species      string `json:"species"`
	Starred      bool   `json:"starred"`
	Glyph        string `json:"glyph"`
	Selected     bool   `json:"selected"`
	Class        string `json:"class,omitempty"`
	PortraitSize int    `json:"portrait_size"`
}

// Pane is a titled list of rows.
type Pane struct {
	Heading string `json:"heading"`
	Count   int    `json:"count"`
	Rows    []Row  `json:"rows"`
}

// Detail is the detail pane for the selection.
type Detail struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Status       string `json:"status"`
	Species      string `json:"species"`
	Gender       string `json:"gender"`
	PortraitSize int    `json:"portrait_size"`
}

// View is everything a client needs to draw a board.
//
// While the fetch is loading or failed, the panes are nil.
type View struct {
	BoardID    string        `json:"board_id"`
	Status     FetchStatus   `json:"status"`
	Error      *FetchError   `json:"error,omitempty"`
	SearchTerm string        `json:"search_term"`
	Species    SpeciesFilter `json:"species"`
	List       ListFilter    `json:"list"`
	Starred    *Pane         `json:"starred,omitempty"`
	All        *Pane         `json:"all,omitempty"`
	Detail     *Detail       `json:"detail,omitempty"`
}

// View renders the board.
func (b *Board) View() View {
	view := View{
		BoardID:    b.id,
		Status:     b.status,
		Error:      b.fetchErr,
		SearchTerm: b.searchTerm,
		Species:    b.species,
		List:       b.list,
	}

	if b.status != FetchReady {
		return view
	}

	view.Starred = b.pane("Starred Characters", b.VisibleStarred())
	view.All = b.pane("All Characters", b.Filtered())

	if b.selected != nil {
		view.Detail = &Detail{
			ID:           b.selected.ID,
			Name:         b.selected.Name,
			Image:        b.selected.Image,
			Status:       b.selected.Status,
			Species:      b.selected.Species,
			Gender:       b.selected.Gender,
			PortraitSize: DetailPortraitSize,
		}
	}

	return view
}

func (b *Board) pane(title string, characters []character.Character) *Pane {
	rows := slice.Map(characters, b.row)
	if rows == nil {
		rows = []Row{}
	}

	return &Pane{
		Heading: fmt.Sprintf("%s (%d)", title, len(rows)),
		Count:   len(rows),
		Rows:    rows,
	}
}

func (b *Board) row(entry character.Character) Row {
	row := Row{
		ID:           entry.ID,
		Name:         entry.Name,
		DisplayName:  TruncateName(entry.Name),
		Image:        entry.Image,
		Species:      entry.Species,
		Starred:      b.IsStarred(entry.ID),
		Glyph:        GlyphUnstarred,
		Selected:     b.selected != nil && b.selected.ID == entry.ID,
		PortraitSize: ListPortraitSize,
	}

	if row.Starred {
		row.Glyph = GlyphStarred
	}
	if row.Selected {
		row.Class = SelectedClass
	}
	return row
}
