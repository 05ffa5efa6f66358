// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roster/internal/board"
	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/internal/platform/apperr"
)

var (
	rick = character.Character{
		ID: "1", Name: "Rick Sanchez", Image: "https://img/1.jpeg",
		Species: "Human", Status: "Alive", Gender: "Male",
	}
	morty = character.Character{
		ID: "2", Name: "Morty Smith", Image: "https://img/2.jpeg",
		Species: "Human", Status: "Alive", Gender: "Male",
	}
	birdperson = character.Character{
		ID: "47", Name: "Birdperson", Image: "https://img/47.jpeg",
		Species: "Alien", Status: "Dead", Gender: "Male",
	}
	abradolf = character.Character{
		ID: "7", Name: "Abradolf Lincler", Image: "https://img/7.jpeg",
		Species: "Human", Status: "unknown", Gender: "Male",
	}
)

func loaded(t *testing.T, characters ...character.Character) *board.Board {
	t.Helper()
	b := board.New("board-1")
	require.True(t, b.Loaded(characters))
	return b
}

func ids(characters []character.Character) []string {
	result := make([]string, 0, len(characters))
	for _, c := range characters {
		result = append(result, c.ID)
	}
	return result
}

/*
TestBoard_New verifies the initial state of a mounted board.
*/
func TestBoard_New(t *testing.T) {
	b := board.New("board-1")

	assert.Equal(t, "board-1", b.ID())
	assert.Equal(t, board.FetchLoading, b.Status())
	assert.Equal(t, board.SpeciesAll, b.Species())
	assert.Equal(t, board.ListAll, b.List())
	assert.Empty(t, b.All())
	assert.Empty(t, b.Filtered())
	assert.Nil(t, b.Selected())
	assert.Nil(t, b.Err())
}

/*
TestBoard_Loaded verifies that a fetch result becomes both lists, in order.
*/
func TestBoard_Loaded(t *testing.T) {
	roster := []character.Character{morty, rick, birdperson}
	b := loaded(t, roster...)

	assert.Equal(t, board.FetchReady, b.Status())
	assert.Equal(t, roster, b.All())
	assert.Equal(t, roster, b.Filtered())

	t.Run("empty_result", func(t *testing.T) {
		empty := loaded(t)
		assert.Equal(t, board.FetchReady, empty.Status())
		assert.Empty(t, empty.Filtered())
	})

	t.Run("completes_once", func(t *testing.T) {
		assert.False(t, b.Loaded([]character.Character{rick}))
		assert.False(t, b.Failed(errors.New("late")))
		assert.Equal(t, roster, b.All())
	})
}

/*
TestBoard_Failed verifies error classification on the board.
*/
func TestBoard_Failed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"data", &character.DataError{Reason: "characters is null"}, apperr.CodeData},
		{"upstream", &character.UpstreamError{Cause: errors.New("timeout")}, apperr.CodeUpstream},
		{"unclassified", errors.New("boom"), apperr.CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New("board-1")
			require.True(t, b.Failed(tt.err))

			assert.Equal(t, board.FetchFailed, b.Status())
			require.NotNil(t, b.Err())
			assert.Equal(t, tt.code, b.Err().Code)
			assert.NotEmpty(t, b.Err().Message)
			assert.Empty(t, b.Filtered())
		})
	}
}

/*
TestBoard_Search verifies filtered == {c in all : term is a case-insensitive
substring of name} when nothing is starred and filters are default.
*/
func TestBoard_Search(t *testing.T) {
	roster := []character.Character{rick, morty, birdperson, abradolf}
	b := loaded(t, roster...)

	for _, term := range []string{"", "morty", "MORTY", "r", "an", "lincler", "zzz", " "} {
		t.Run(term, func(t *testing.T) {
			b.SetSearchTerm(term)

			var want []string
			for _, c := range roster {
				if strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
					want = append(want, c.ID)
				}
			}

			assert.Equal(t, term, b.SearchTerm())
			assert.ElementsMatch(t, want, ids(b.Filtered()))
			if want != nil {
				assert.Equal(t, want, ids(b.Filtered()))
			}
		})
	}
}

/*
TestBoard_SearchIgnoresSpecies verifies that search matches names only.
*/
func TestBoard_SearchIgnoresSpecies(t *testing.T) {
	b := loaded(t, rick, birdperson)
	b.SetSearchTerm("alien")

	assert.Empty(t, b.Filtered())
}

/*
TestBoard_SpeciesFilter verifies exact, case-insensitive species matching.
*/
func TestBoard_SpeciesFilter(t *testing.T) {
	humanoid := character.Character{ID: "9", Name: "Krombopulos", Species: "Humanoid"}
	b := loaded(t, rick, birdperson, humanoid, morty)

	b.SetSpeciesFilter(board.SpeciesHuman)
	assert.Equal(t, []string{"1", "2"}, ids(b.Filtered()))

	b.SetSpeciesFilter(board.SpeciesAlien)
	assert.Equal(t, []string{"47"}, ids(b.Filtered()))

	b.SetSearchTerm("bird")
	assert.Equal(t, []string{"47"}, ids(b.Filtered()))

	b.SetSpeciesFilter(board.SpeciesFilter("robot"))
	assert.Equal(t, board.SpeciesAlien, b.Species(), "unknown filter is ignored")

	b.SetSpeciesFilter(board.SpeciesAll)
	b.SetSearchTerm("")
	assert.Len(t, b.Filtered(), 4)
}

/*
TestBoard_ListFilter verifies that the starred list filter empties the all pane.
*/
func TestBoard_ListFilter(t *testing.T) {
	b := loaded(t, rick, morty)
	b.ToggleStar("1")

	b.SetListFilter(board.ListStarred)
	assert.Empty(t, b.Filtered())
	assert.Len(t, b.Starred(), 1)

	b.SetListFilter(board.ListAll)
	assert.Equal(t, []string{"2"}, ids(b.Filtered()))
}

/*
TestBoard_VisibleStarred verifies that the starred pane is narrowed by search
and species only in the starred-only list mode.
*/
func TestBoard_VisibleStarred(t *testing.T) {
	b := loaded(t, rick, morty, birdperson)
	b.ToggleStar("1")
	b.ToggleStar("47")

	b.SetSearchTerm("RICK")
	assert.Equal(t, []string{"1", "47"}, ids(b.VisibleStarred()), "all mode ignores the search term")

	b.SetListFilter(board.ListStarred)
	assert.Equal(t, []string{"1"}, ids(b.VisibleStarred()))
	assert.Equal(t, 1, b.View().Starred.Count)
	assert.Equal(t, 0, b.View().All.Count)

	b.SetSearchTerm("")
	b.SetSpeciesFilter(board.SpeciesAlien)
	assert.Equal(t, []string{"47"}, ids(b.VisibleStarred()))

	b.SetSearchTerm("nobody")
	assert.NotNil(t, b.VisibleStarred())
	assert.Empty(t, b.VisibleStarred())

	// The stored starred list is untouched.
	assert.Len(t, b.Starred(), 2)
}

/*
TestBoard_ToggleStar verifies starring and unstarring.
*/
func TestBoard_ToggleStar(t *testing.T) {
	t.Run("star_moves_out_of_filtered", func(t *testing.T) {
		b := loaded(t, rick, morty)

		assert.True(t, b.ToggleStar("1"))
		assert.Equal(t, []character.Character{rick}, b.Starred())
		assert.True(t, b.IsStarred("1"))
		assert.Equal(t, []string{"2"}, ids(b.Filtered()))
		assert.Equal(t, []string{"1", "2"}, ids(b.All()))
	})

	t.Run("star_order_is_kept", func(t *testing.T) {
		b := loaded(t, rick, morty, birdperson)

		b.ToggleStar("47")
		b.ToggleStar("1")
		assert.Equal(t, []string{"47", "1"}, ids(b.Starred()))
	})

	t.Run("toggle_twice_restores", func(t *testing.T) {
		b := loaded(t, rick, morty)
		before := b.Filtered()

		b.ToggleStar("2")
		b.ToggleStar("2")

		assert.Empty(t, b.Starred())
		assert.False(t, b.IsStarred("2"))
		assert.Equal(t, before, b.Filtered())
	})

	t.Run("unknown_id_is_noop", func(t *testing.T) {
		b := loaded(t, rick)

		assert.False(t, b.ToggleStar("999"))
		assert.Empty(t, b.Starred())
	})

	t.Run("unstar_clears_selection", func(t *testing.T) {
		b := loaded(t, rick, morty)
		b.ToggleStar("1")
		b.Select("1")

		b.ToggleStar("1")
		assert.Nil(t, b.Selected())
		assert.Equal(t, []string{"1", "2"}, ids(b.Filtered()))
	})

	t.Run("unstar_keeps_other_selection", func(t *testing.T) {
		b := loaded(t, rick, morty)
		b.ToggleStar("1")
		b.Select("2")

		b.ToggleStar("1")
		require.NotNil(t, b.Selected())
		assert.Equal(t, "2", b.Selected().ID)
	})

	t.Run("starring_does_not_clear_selection", func(t *testing.T) {
		b := loaded(t, rick)
		b.Select("1")

		b.ToggleStar("1")
		require.NotNil(t, b.Selected())
	})

	t.Run("deleted_starred_can_be_unstarred", func(t *testing.T) {
		b := loaded(t, rick)
		b.ToggleStar("1")
		b.SoftDelete("1")

		assert.True(t, b.IsStarred("1"))
		assert.True(t, b.ToggleStar("1"))
		assert.Empty(t, b.Starred())
		assert.Empty(t, b.Filtered())
	})
}

/*
TestBoard_FilteredNeverContainsStarred checks the exclusion invariant across a
sequence of events.
*/
func TestBoard_FilteredNeverContainsStarred(t *testing.T) {
	b := loaded(t, rick, morty, birdperson, abradolf)
	events := []func(){
		func() { b.ToggleStar("2") },
		func() { b.SetSearchTerm("i") },
		func() { b.ToggleStar("47") },
		func() { b.SoftDelete("7") },
		func() { b.SetSearchTerm("") },
		func() { b.ToggleStar("2") },
		func() { b.SetSpeciesFilter(board.SpeciesHuman) },
	}

	for _, event := range events {
		event()
		all := ids(b.All())
		for _, c := range b.Filtered() {
			assert.False(t, b.IsStarred(c.ID))
			assert.Contains(t, all, c.ID)
		}
	}
}

/*
TestBoard_Select verifies selection lookup and idempotency.
*/
func TestBoard_Select(t *testing.T) {
	b := loaded(t, rick, morty)

	assert.True(t, b.Select("2"))
	assert.True(t, b.Select("2"))
	assert.Equal(t, &morty, b.Selected())

	assert.False(t, b.Select("999"))
	assert.Equal(t, "2", b.Selected().ID, "unknown id keeps selection")

	t.Run("falls_back_to_starred", func(t *testing.T) {
		b := loaded(t, rick)
		b.ToggleStar("1")
		b.SoftDelete("1")

		assert.True(t, b.Select("1"))
		assert.Equal(t, "1", b.Selected().ID)
	})

	t.Run("loading_board_is_noop", func(t *testing.T) {
		assert.False(t, board.New("board-2").Select("1"))
	})
}

/*
TestBoard_SoftDelete verifies removal from the master list only.
*/
func TestBoard_SoftDelete(t *testing.T) {
	b := loaded(t, rick, morty, birdperson)
	b.ToggleStar("47")
	b.Select("2")

	assert.True(t, b.SoftDelete("2"))
	assert.Equal(t, []string{"1", "47"}, ids(b.All()))
	assert.Equal(t, []string{"1"}, ids(b.Filtered()))
	assert.Equal(t, []string{"47"}, ids(b.Starred()))
	require.NotNil(t, b.Selected(), "selection is not cleared by delete")
	assert.Equal(t, "2", b.Selected().ID)

	assert.False(t, b.SoftDelete("2"))
}

/*
TestBoard_Scenario walks the fetch, search, star, select and delete sequence.
*/
func TestBoard_Scenario(t *testing.T) {
	b := loaded(t, rick, morty)

	view := b.View()
	assert.Equal(t, 2, view.All.Count)
	assert.Equal(t, 2, len(b.All()))

	b.SetSearchTerm("morty")
	assert.Equal(t, []string{"2"}, ids(b.Filtered()))

	b.SetSearchTerm("")
	b.ToggleStar("1")
	view = b.View()
	assert.Equal(t, "Starred Characters (1)", view.Starred.Heading)
	assert.Equal(t, "Rick Sanchez", view.Starred.Rows[0].Name)
	assert.NotContains(t, ids(b.Filtered()), "1")
	assert.Contains(t, ids(b.All()), "1")

	b.Select("2")
	view = b.View()
	require.NotNil(t, view.Detail)
	assert.Equal(t, "Alive", view.Detail.Status)
	assert.Equal(t, "Human", view.Detail.Species)
	assert.Equal(t, "Male", view.Detail.Gender)

	b.SoftDelete("2")
	view = b.View()
	assert.Equal(t, []string{"1"}, ids(b.All()))
	require.NotNil(t, view.Detail)
	assert.Equal(t, "Morty Smith", view.Detail.Name)
}

/*
TestBoard_Clone verifies that a clone shares no state with its source.
*/
func TestBoard_Clone(t *testing.T) {
	b := loaded(t, rick, morty)
	b.Select("1")

	clone := b.Clone()
	clone.ToggleStar("2")
	clone.SoftDelete("1")
	clone.SetSearchTerm("x")

	assert.Empty(t, b.Starred())
	assert.Len(t, b.All(), 2)
	assert.Equal(t, "", b.SearchTerm())
	assert.Equal(t, []string{"1", "2"}, ids(b.Filtered()))
}

/*
TestBoard_JSONRoundTrip verifies that a snapshot restores the source state and
omits the derived list.
*/
func TestBoard_JSONRoundTrip(t *testing.T) {
	b := loaded(t, rick, morty, birdperson)
	b.ToggleStar("47")
	b.Select("2")
	b.SetSearchTerm("smith")
	b.SetSpeciesFilter(board.SpeciesHuman)
	_ = b.Filtered()

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "filtered")

	restored := &board.Board{}
	require.NoError(t, json.Unmarshal(raw, restored))

	assert.Equal(t, b.ID(), restored.ID())
	assert.True(t, b.CreatedAt().Equal(restored.CreatedAt()))
	assert.Equal(t, b.Status(), restored.Status())
	assert.Equal(t, b.All(), restored.All())
	assert.Equal(t, b.Starred(), restored.Starred())
	assert.Equal(t, b.Selected(), restored.Selected())
	assert.Equal(t, b.SearchTerm(), restored.SearchTerm())
	assert.Equal(t, b.Species(), restored.Species())
	assert.Equal(t, b.Filtered(), restored.Filtered())

	t.Run("failed_board", func(t *testing.T) {
		failed := board.New("board-2")
		failed.Failed(&character.DataError{Reason: "characters is null"})

		raw, err := json.Marshal(failed)
		require.NoError(t, err)

		restored := &board.Board{}
		require.NoError(t, json.Unmarshal(raw, restored))
		assert.Equal(t, failed.Err(), restored.Err())
	})
}
