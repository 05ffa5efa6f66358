// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
)

// RedisRepository stores each board as a JSON snapshot with a TTL.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed [Repository].
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func boardKey(id string) string {
	return constants.RedisPrefixBoard + id
}

/*
Get loads a board snapshot.

Returns:
  - *Board: the restored board
  - error: apperr.NotFound if the key is absent or expired
*/
func (repository *RedisRepository) Get(ctx context.Context, id string) (*Board, error) {
	raw, err := repository.client.Get(ctx, boardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Board")
		}
		return nil, fmt.Errorf("redis_board_get_failed: %w", err)
	}

	board := &Board{}
	if err := json.Unmarshal(raw, board); err != nil {
		return nil, fmt.Errorf("redis_board_decode_failed: %w", err)
	}

	return board, nil
}

// Save writes the snapshot and refreshes the TTL.
func (repository *RedisRepository) Save(ctx context.Context, board *Board) error {
	raw, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("redis_board_encode_failed: %w", err)
	}

	if err := repository.client.Set(ctx, boardKey(board.ID()), string(raw), repository.ttl).Err(); err != nil {
		return fmt.Errorf("redis_board_set_failed: %w", err)
	}

	return nil
}

// Delete removes the snapshot.
func (repository *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := repository.client.Del(ctx, boardKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_board_delete_failed: %w", err)
	}
	return nil
}
