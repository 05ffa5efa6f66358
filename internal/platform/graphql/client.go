// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package graphql wraps a GraphQL-over-HTTP client with the error classes the
rest of the platform relies on.

The wire protocol (POST of {query, variables}, decoding of {data, errors}) is
handled by 'machinebox/graphql'. This package adds a status check on the
transport, a bound on the response size, and a stable error taxonomy.

Error Classes:

  - Transport: the request could not be sent, or [*StatusError] for a non-200 answer.
  - [*ResponseError]: the server answered with a non-empty "errors" array.
  - [ErrDecode]: the body was not a GraphQL response envelope.
*/
package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gql "github.com/machinebox/graphql"
)

// maxResponseBytes bounds the upstream response body read into memory.
const maxResponseBytes = 8 << 20

// ErrDecode marks a response body that could not be decoded as a GraphQL envelope.
var ErrDecode = errors.New("graphql: undecodable response")

// # Error Types

// Error is a single entry of a GraphQL "errors" array.
type Error struct {
	Message string
}

// ResponseError is returned when the server reports a GraphQL error.
type ResponseError struct {
	Errors []Error
}

// Error joins the reported messages.
func (e *ResponseError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		messages = append(messages, entry.Message)
	}
	return "graphql: " + strings.Join(messages, "; ")
}

// StatusError is returned when the endpoint answers with a status other than 200.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return "graphql: endpoint returned " + e.Status
}

// # Transport

// statusTransport rejects non-200 answers before the body is decoded and caps
// the size of accepted bodies.
type statusTransport struct {
	next http.RoundTripper
}

type limitedBody struct {
	io.Reader
	io.Closer
}

func (transport *statusTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	response, err := transport.next.RoundTrip(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4<<10))
		_ = response.Body.Close()
		return nil, &StatusError{StatusCode: response.StatusCode, Status: response.Status}
	}

	response.Body = limitedBody{
		Reader: io.LimitReader(response.Body, maxResponseBytes),
		Closer: response.Body,
	}
	return response, nil
}

// # Client

// Client posts queries to a single GraphQL endpoint.
type Client struct {
	client *gql.Client
}

// NewClient creates a Client. A nil httpClient falls back to [http.DefaultClient].
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	checked := *httpClient
	checked.Transport = &statusTransport{next: next}

	return &Client{
		client: gql.NewClient(endpoint, gql.WithHTTPClient(&checked)),
	}
}

/*
Do executes query and unmarshals the "data" member into out.

Parameters:
  - ctx: context.Context (bounds the HTTP round trip)
  - query: string
  - variables: map[string]any (may be nil)
  - out: any (pointer; may be nil to discard data)

Returns:
  - error: transport, *ResponseError, or ErrDecode
*/
func (client *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	request := gql.NewRequest(query)
	for key, value := range variables {
		request.Var(key, value)
	}

	var data json.RawMessage
	if err := client.client.Run(ctx, request, &data); err != nil {
		return classify(err)
	}

	if out == nil {
		return nil
	}

	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: missing data", ErrDecode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}

// Ping runs the introspection-free `{ __typename }` query.
func (client *Client) Ping(ctx context.Context) error {
	var data struct {
		Typename string `json:"__typename"`
	}
	return client.Do(ctx, "{ __typename }", nil, &data)
}

// classify maps a failure from the underlying client onto this package's error classes.
func classify(err error) error {
	var (
		urlErr      *url.Error
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		unsupported *json.UnsupportedTypeError
	)

	switch {
	case errors.As(err, &urlErr),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("graphql: request: %w", err)

	case errors.As(err, &unsupported):
		return fmt.Errorf("graphql: encode request: %w", err)

	case errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", ErrDecode, err)

	default:
		// The remaining failure is the server's first GraphQL error.
		return &ResponseError{Errors: []Error{{Message: strings.TrimPrefix(err.Error(), "graphql: ")}}}
	}
}
