// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import "github.com/taibuivan/roster/pkg/fold"

// # Species Filter

// SpeciesFilter narrows the visible list to one species.
type SpeciesFilter string

const (
	SpeciesAll   SpeciesFilter = "all"
	SpeciesHuman SpeciesFilter = "human"
	SpeciesAlien SpeciesFilter = "alien"
)

// SpeciesFilters lists the accepted species filter values in display order.
var SpeciesFilters = []string{string(SpeciesAll), string(SpeciesHuman), string(SpeciesAlien)}

// IsValid reports whether f is a known species filter.
func (f SpeciesFilter) IsValid() bool {
	switch f {
	case SpeciesAll, SpeciesHuman, SpeciesAlien:
		return true
	}
	return false
}

// Matches reports whether a character of the given species passes the filter.
//
// Comparison is case-insensitive and exact: "human" matches "Human" but not
// "Humanoid".
func (f SpeciesFilter) Matches(species string) bool {
	if f == SpeciesAll {
		return true
	}
	return fold.Equal(species, string(f))
}

// # List Filter

// ListFilter selects which characters the "all" pane offers.
type ListFilter string

const (
	ListAll     ListFilter = "all"
	ListStarred ListFilter = "starred"
)

// ListFilters lists the accepted list filter values in display order.
var ListFilters = []string{string(ListAll), string(ListStarred)}

// IsValid reports whether f is a known list filter.
func (f ListFilter) IsValid() bool {
	return f == ListAll || f == ListStarred
}
