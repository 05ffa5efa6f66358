// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package character defines the Character record and the data source that
fetches the roster from the upstream GraphQL API.

Core Responsibility:

  - Contract: the one fixed query and its {characters {results}} envelope.
  - Validation: malformed envelopes surface as [*DataError], never as a panic
    or an empty list.
  - Caching: [CachedSource] coalesces concurrent fetches and optionally keeps
    the last result in Redis.
*/
package character

// Character is a single roster entry as received from the API.
//
// It is treated as immutable once fetched.
type Character struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Species string `json:"species"`
	Status  string `json:"status"`
	Gender  string `json:"gender"`
}

// Query is the fixed read operation. No variables and no pagination are sent;
// all filtering happens after the fetch.
const Query = `{
  characters {
    results {
      id
      name
      image
      species
      status
      gender
    }
  }
}`

// envelope mirrors the response data of [Query].
//
// Pointers distinguish a null member from an empty one.
type envelope struct {
	Characters *struct {
		Results *[]Character `json:"results"`
	} `json:"characters"`
}
