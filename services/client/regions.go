// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

import (
	"context"
	"fmt"
	"net/url"
)

// RegionFilter narrows region list queries. Zero-valued fields are
// omitted from the request.
type RegionFilter struct {
	Level      string
	Continent  string
	ParentCode string
	Skip       int
	Limit      int
}

// ListRegions fetches monitored regions matching the filter.
func (c *Client) ListRegions(ctx context.Context, filter RegionFilter) (*RegionList, error) {
	q := url.Values{}
	setString(q, "level", filter.Level)
	setString(q, "continent", filter.Continent)
	setString(q, "parent_code", filter.ParentCode)
	setInt(q, "skip", filter.Skip)
	setInt(q, "limit", filter.Limit)

	var out RegionList
	if err := c.get(ctx, "/regions", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRegion fetches the full detail record for one region code.
func (c *Client) GetRegion(ctx context.Context, code string) (*RegionDetail, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: region code is empty", ErrInvalidInput)
	}
	var out RegionDetail
	if err := c.get(ctx, "/regions/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRegionChildren fetches the direct child regions of a region.
func (c *Client) ListRegionChildren(ctx context.Context, code string) (*RegionList, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: region code is empty", ErrInvalidInput)
	}
	var out RegionList
	if err := c.get(ctx, "/regions/"+url.PathEscape(code)+"/children", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
