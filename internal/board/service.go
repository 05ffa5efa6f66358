// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moby/locker"

	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/validate"
	"github.com/taibuivan/roster/pkg/uuid"
)

// # Input Rules

const (
	FieldSearchTerm  = "term"
	FieldSpecies     = "species"
	FieldList        = "list"
	FieldCharacterID = "character_id"

	// MaxSearchTermLength bounds the search box in runes.
	MaxSearchTermLength = 200
)

// # Service

// Service runs board transitions.
//
// Every transition loads the board, applies one event and saves it while
// holding that board's lock, so a fetch completion and a visitor's clicks
// never interleave. Boards on other IDs proceed in parallel.
type Service struct {
	repo         Repository
	source       character.Source
	logger       *slog.Logger
	fetchTimeout time.Duration

	locks    *locker.Locker
	inflight sync.WaitGroup
	newID    func() string
}

// NewService constructs a board [Service].
func NewService(repo Repository, source character.Source, fetchTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		source:       source,
		logger:       logger,
		fetchTimeout: fetchTimeout,
		locks:        locker.New(),
		newID:        uuid.New,
	}
}

// # Lifecycle

/*
Mount creates a board and starts its roster fetch.

Description: The board is saved in the loading state and returned right away.
The fetch runs in the background, detached from ctx and bounded by the fetch
timeout; its outcome is applied as one transition.

Returns:
  - *Board: the new, loading board
  - error: storage failures
*/
func (service *Service) Mount(ctx context.Context) (*Board, error) {
	board := New(service.newID())

	if err := service.repo.Save(ctx, board); err != nil {
		return nil, err
	}

	service.inflight.Add(1)
	go service.fetch(board.ID())

	service.logger.Info("board_mounted", slog.String("board_id", board.ID()))
	return board, nil
}

func (service *Service) fetch(id string) {
	defer service.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), service.fetchTimeout)
	defer cancel()

	characters, fetchErr := service.source.FetchCharacters(ctx)

	// The save must still happen when the fetch used up the deadline.
	_, err := service.apply(context.WithoutCancel(ctx), id, func(board *Board) bool {
		if fetchErr != nil {
			return board.Failed(fetchErr)
		}
		return board.Loaded(characters)
	})
	if apperr.IsNotFound(err) {
		service.logger.Debug("board_gone_before_fetch", slog.String("board_id", id))
		return
	}
	if err != nil {
		service.logger.Error("board_fetch_apply_failed", slog.String("board_id", id), slog.Any("error", err))
		return
	}

	if fetchErr != nil {
		service.logger.Warn("board_fetch_failed", slog.String("board_id", id), slog.Any("error", fetchErr))
		return
	}
	service.logger.Info("board_loaded", slog.String("board_id", id), slog.Int("count", len(characters)))
}

// Wait blocks until every background fetch has been applied.
func (service *Service) Wait() {
	service.inflight.Wait()
}

// Get returns the board, or apperr.NotFound.
func (service *Service) Get(ctx context.Context, id string) (*Board, error) {
	return service.repo.Get(ctx, id)
}

// Discard deletes a board. It is used when a visitor reloads the page.
func (service *Service) Discard(ctx context.Context, id string) error {
	service.locks.Lock(id)
	defer func() { _ = service.locks.Unlock(id) }()

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Debug("board_discarded", slog.String("board_id", id))
	return nil
}

// # Events

// Search stores the search term.
func (service *Service) Search(ctx context.Context, id, term string) (*Board, error) {
	validator := &validate.Validator{}
	validator.
		MaxLen(FieldSearchTerm, term, MaxSearchTermLength).
		Custom(FieldSearchTerm, strings.ContainsRune(term, 0), "Must not contain NUL bytes")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.apply(ctx, id, func(board *Board) bool {
		board.SetSearchTerm(term)
		return true
	})
}

/*
SetFilters stores the species and list filters.

An empty value leaves that filter unchanged.
*/
func (service *Service) SetFilters(ctx context.Context, id, species, list string) (*Board, error) {
	validator := &validate.Validator{}
	if species != "" {
		validator.OneOf(FieldSpecies, species, SpeciesFilters...)
	}
	if list != "" {
		validator.OneOf(FieldList, list, ListFilters...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.apply(ctx, id, func(board *Board) bool {
		if species != "" {
			board.SetSpeciesFilter(SpeciesFilter(species))
		}
		if list != "" {
			board.SetListFilter(ListFilter(list))
		}
		return true
	})
}

// ToggleStar stars or unstars a character.
func (service *Service) ToggleStar(ctx context.Context, id, characterID string) (*Board, error) {
	return service.apply(ctx, id, func(board *Board) bool {
		return board.ToggleStar(characterID)
	})
}

// Select selects a character.
func (service *Service) Select(ctx context.Context, id, characterID string) (*Board, error) {
	validator := &validate.Validator{}
	validator.Required(FieldCharacterID, characterID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.apply(ctx, id, func(board *Board) bool {
		return board.Select(characterID)
	})
}

// SoftDelete hides a character from the master list.
func (service *Service) SoftDelete(ctx context.Context, id, characterID string) (*Board, error) {
	return service.apply(ctx, id, func(board *Board) bool {
		return board.SoftDelete(characterID)
	})
}

// apply runs load, mutate and save under the board's lock.
//
// The board is saved even when mutate reports no change so the store TTL is
// refreshed by any activity.
func (service *Service) apply(ctx context.Context, id string, mutate func(*Board) bool) (*Board, error) {
	service.locks.Lock(id)
	defer func() { _ = service.locks.Unlock(id) }()

	board, err := service.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !mutate(board) {
		service.logger.Debug("board_event_ignored", slog.String("board_id", id))
	}

	if err := service.repo.Save(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}
