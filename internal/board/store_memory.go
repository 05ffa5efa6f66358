// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/taibuivan/roster/internal/platform/apperr"
)

// MemoryRepository keeps boards in process memory.
//
// Boards idle for longer than the TTL are treated as missing. Reads refresh the
// idle timer; [MemoryRepository.Run] evicts expired entries.
type MemoryRepository struct {
	boards *ttlcache.Cache[string, *Board]
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		boards: ttlcache.New(
			ttlcache.WithTTL[string, *Board](ttl),
		),
	}
}

// Get returns a copy of the stored board and refreshes its idle timer.
func (repository *MemoryRepository) Get(_ context.Context, id string) (*Board, error) {
	item := repository.boards.Get(id)
	if item == nil {
		return nil, apperr.NotFound("Board")
	}

	return item.Value().Clone(), nil
}

// Save stores a copy of board.
func (repository *MemoryRepository) Save(_ context.Context, board *Board) error {
	repository.boards.Set(board.ID(), board.Clone(), ttlcache.DefaultTTL)
	return nil
}

// Delete removes a board. Deleting an unknown board is not an error.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.boards.Delete(id)
	return nil
}

/*
Run evicts idle boards until ctx is cancelled.

It blocks; start it in its own goroutine.
*/
func (repository *MemoryRepository) Run(ctx context.Context, logger *slog.Logger) {
	unsubscribe := repository.boards.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Board]) {
		if reason == ttlcache.EvictionReasonExpired {
			logger.Debug("board_evicted", slog.String("board_id", item.Key()))
		}
	})
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		repository.boards.Stop()
	}()

	repository.boards.Start()
}
