// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

import "errors"

// Sentinel errors for API failures. Callers match with errors.Is; the
// wrapped message carries the server's detail string when present.
var (
	// ErrNotFound indicates the requested region or alert does not exist.
	// Terminal for that key: not eligible for retry.
	ErrNotFound = errors.New("resource not found")

	// ErrBadRequest indicates the server rejected the request parameters
	// (invalid enum value, invalid state transition).
	ErrBadRequest = errors.New("bad request")

	// ErrServer indicates a 5xx response. Transient, eligible for retry.
	ErrServer = errors.New("server error")

	// ErrDecode indicates the response body did not match the expected
	// shape. Terminal for that fetch.
	ErrDecode = errors.New("malformed response")

	// ErrInvalidInput indicates invalid arguments before any request
	// was made.
	ErrInvalidInput = errors.New("invalid input")
)
