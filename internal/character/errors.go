// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"errors"
	"fmt"

	"github.com/taibuivan/roster/internal/platform/apperr"
)

// DataError reports a response whose shape is not the one [Query] asks for.
type DataError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("character: malformed response: %s: %v", e.Reason, e.Cause)
	}
	return "character: malformed response: " + e.Reason
}

// Unwrap exposes the decode failure, if any.
func (e *DataError) Unwrap() error { return e.Cause }

// UpstreamError reports a failed round trip to the character API.
type UpstreamError struct {
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("character: upstream unavailable: %v", e.Cause)
}

// Unwrap exposes the transport or GraphQL failure.
func (e *UpstreamError) Unwrap() error { return e.Cause }

// AsAppError classifies a fetch error for the transport layer.
//
// A *DataError maps to DATA_ERROR; anything else is an upstream failure.
func AsAppError(err error) *apperr.AppError {
	var dataErr *DataError
	if errors.As(err, &dataErr) {
		return apperr.DataError("The character API returned malformed data", err)
	}
	return apperr.BadGateway("The character API is unavailable", err)
}
