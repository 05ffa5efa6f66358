// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/taibuivan/roster/internal/character"
	"github.com/taibuivan/roster/internal/character/mocks"
	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/graphql"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// upstream serves a fixed GraphQL response body.
func upstream(t *testing.T, status int, body string) *graphql.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return graphql.NewClient(server.URL, server.Client())
}

func TestGraphQLSource_Success(t *testing.T) {
	client := upstream(t, http.StatusOK, `{"data":{"characters":{"results":[
		{"id":"1","name":"Rick Sanchez","image":"https://img/1.jpeg","species":"Human","status":"Alive","gender":"Male"},
		{"id":"2","name":"Morty Smith","image":"https://img/2.jpeg","species":"Human","status":"Alive","gender":"Male"}
	]}}}`)
	source := character.NewGraphQLSource(client, discard)

	characters, err := source.FetchCharacters(context.Background())

	require.NoError(t, err)
	require.Len(t, characters, 2)
	assert.Equal(t, "1", characters[0].ID)
	assert.Equal(t, "Morty Smith", characters[1].Name)
	assert.Equal(t, "Alive", characters[1].Status)
}

func TestGraphQLSource_EmptyResults(t *testing.T) {
	client := upstream(t, http.StatusOK, `{"data":{"characters":{"results":[]}}}`)
	source := character.NewGraphQLSource(client, discard)

	characters, err := source.FetchCharacters(context.Background())

	require.NoError(t, err)
	assert.Empty(t, characters)
}

func TestGraphQLSource_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantData bool
	}{
		{"null_characters", http.StatusOK, `{"data":{"characters":null}}`, true},
		{"null_results", http.StatusOK, `{"data":{"characters":{"results":null}}}`, true},
		{"missing_id", http.StatusOK, `{"data":{"characters":{"results":[{"name":"Rick"}]}}}`, true},
		{"duplicate_id", http.StatusOK, `{"data":{"characters":{"results":[{"id":"1"},{"id":"1"}]}}}`, true},
		{"wrong_type", http.StatusOK, `{"data":{"characters":{"results":"nope"}}}`, true},
		{"not_json", http.StatusOK, `<html></html>`, true},
		{"graphql_error", http.StatusOK, `{"errors":[{"message":"rate limited"}]}`, false},
		{"http_error", http.StatusBadGateway, `bad gateway`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := character.NewGraphQLSource(upstream(t, tt.status, tt.body), discard)

			_, err := source.FetchCharacters(context.Background())
			require.Error(t, err)

			var dataErr *character.DataError
			var upstreamErr *character.UpstreamError
			assert.Equal(t, tt.wantData, errors.As(err, &dataErr))
			assert.Equal(t, !tt.wantData, errors.As(err, &upstreamErr))

			appErr := character.AsAppError(err)
			if tt.wantData {
				assert.Equal(t, apperr.CodeData, appErr.Code)
			} else {
				assert.Equal(t, apperr.CodeUpstream, appErr.Code)
			}
		})
	}
}

func TestGraphQLSource_SendsFixedQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	querier := mocks.NewMockQuerier(ctrl)

	querier.EXPECT().
		Do(gomock.Any(), character.Query, gomock.Nil(), gomock.Any()).
		Return(errors.New("dial tcp: connection refused"))

	source := character.NewGraphQLSource(querier, discard)
	_, err := source.FetchCharacters(context.Background())

	var upstreamErr *character.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}
