// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/roster/internal/platform/constants"
)

// # Cache

// Cache keeps the most recent roster.
type Cache interface {
	// Get returns the cached roster; found is false on a miss.
	Get(ctx context.Context) (characters []Character, found bool, err error)
	Set(ctx context.Context, characters []Character) error
}

// RedisCache stores the roster as one JSON value with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed [Cache].
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get reads the cached roster.
func (cache *RedisCache) Get(ctx context.Context) ([]Character, bool, error) {
	raw, err := cache.client.Get(ctx, constants.RedisKeyCharacterList).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_character_cache_get_failed: %w", err)
	}

	var characters []Character
	if err := json.Unmarshal(raw, &characters); err != nil {
		return nil, false, fmt.Errorf("redis_character_cache_decode_failed: %w", err)
	}

	return characters, true, nil
}

// Set writes the roster with the configured TTL.
func (cache *RedisCache) Set(ctx context.Context, characters []Character) error {
	raw, err := json.Marshal(characters)
	if err != nil {
		return fmt.Errorf("redis_character_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, constants.RedisKeyCharacterList, string(raw), cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_character_cache_set_failed: %w", err)
	}

	return nil
}

// # Cached Source

// CachedSource decorates a [Source] with request coalescing and an optional cache.
//
// Concurrent fetches share a single upstream call. Cache errors are logged and
// bypassed; only the upstream result decides success.
type CachedSource struct {
	next   Source
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedSource wraps next. A nil cache disables caching but keeps coalescing.
func NewCachedSource(next Source, cache Cache, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// FetchCharacters serves from cache when possible, otherwise from the wrapped source.
//
// A cached roster that fails validation is treated as a miss and overwritten.
// Callers receive their own copy of the slice.
func (source *CachedSource) FetchCharacters(ctx context.Context) ([]Character, error) {
	if source.cache != nil {
		characters, found, err := source.cache.Get(ctx)
		switch {
		case err != nil:
			source.logger.Warn("character_cache_read_failed", slog.Any("error", err))
		case found:
			if err := validate(characters); err != nil {
				source.logger.Warn("character_cache_invalid", slog.Any("error", err))
				break
			}
			return characters, nil
		}
	}

	result, err, shared := source.group.Do(constants.RedisKeyCharacterList, func() (any, error) {
		characters, err := source.next.FetchCharacters(ctx)
		if err != nil {
			return nil, err
		}

		if source.cache != nil {
			if err := source.cache.Set(ctx, characters); err != nil {
				source.logger.Warn("character_cache_write_failed", slog.Any("error", err))
			}
		}

		return characters, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		source.logger.Debug("character_fetch_coalesced")
	}

	return slices.Clone(result.([]Character)), nil
}
