// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "errors"

var (
	// ErrDisabled indicates the key's policy gate rejected the fetch
	// (lazy key missing its required parameter).
	ErrDisabled = errors.New("key disabled by policy")

	// ErrClosed indicates the store has been shut down.
	ErrClosed = errors.New("store closed")
)
