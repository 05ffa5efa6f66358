// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/taibuivan/roster/internal/platform/graphql"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Source fetches the character roster.
type Source interface {
	FetchCharacters(ctx context.Context) ([]Character, error)
}

// Querier is the subset of [graphql.Client] the source needs.
type Querier interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

// GraphQLSource issues [Query] against the upstream API.
type GraphQLSource struct {
	client Querier
	logger *slog.Logger
}

// NewGraphQLSource constructs a [GraphQLSource].
func NewGraphQLSource(client Querier, logger *slog.Logger) *GraphQLSource {
	return &GraphQLSource{
		client: client,
		logger: logger,
	}
}

/*
FetchCharacters runs the fixed query and validates the envelope.

Returns:
  - []Character: server order preserved
  - error: *DataError for malformed data, *UpstreamError otherwise
*/
func (source *GraphQLSource) FetchCharacters(ctx context.Context) ([]Character, error) {
	var data envelope

	if err := source.client.Do(ctx, Query, nil, &data); err != nil {
		if errors.Is(err, graphql.ErrDecode) {
			return nil, &DataError{Reason: "undecodable body", Cause: err}
		}
		return nil, &UpstreamError{Cause: err}
	}

	// Shape checks
	if data.Characters == nil {
		return nil, &DataError{Reason: "characters is null"}
	}
	if data.Characters.Results == nil {
		return nil, &DataError{Reason: "characters.results is null"}
	}

	results := *data.Characters.Results
	if err := validate(results); err != nil {
		return nil, err
	}

	source.logger.Debug("characters_fetched", slog.Int("count", len(results)))

	return results, nil
}

// validate checks what every roster must satisfy before it reaches a board:
// a list is present and each entry has a unique, non-empty id.
func validate(results []Character) error {
	if results == nil {
		return &DataError{Reason: "characters.results is null"}
	}

	seen := make(map[string]struct{}, len(results))
	for index, record := range results {
		if record.ID == "" {
			return &DataError{Reason: "result without id at index " + strconv.Itoa(index)}
		}
		if _, dup := seen[record.ID]; dup {
			return &DataError{Reason: "duplicate id " + record.ID}
		}
		seen[record.ID] = struct{}{}
	}

	return nil
}
