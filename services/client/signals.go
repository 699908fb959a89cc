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

// SignalFilter narrows signal queries. SignalType and Indicator are
// required by the timeseries endpoint, optional for raw signals.
type SignalFilter struct {
	SignalType string
	Indicator  string
	Days       int
	Limit      int
}

// RegionSignals fetches recent raw signals for one region.
func (c *Client) RegionSignals(ctx context.Context, code string, filter SignalFilter) ([]Signal, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: region code is empty", ErrInvalidInput)
	}
	q := url.Values{}
	setString(q, "signal_type", filter.SignalType)
	setString(q, "indicator", filter.Indicator)
	setInt(q, "days", filter.Days)
	setInt(q, "limit", filter.Limit)

	var out []Signal
	if err := c.get(ctx, "/signals/regions/"+url.PathEscape(code), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SignalTimeSeries fetches one indicator's history for a region. The
// server requires both signal type and indicator name and returns
// ErrNotFound when the indicator has no data in the window.
func (c *Client) SignalTimeSeries(ctx context.Context, code string, filter SignalFilter) (*SignalTimeSeries, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: region code is empty", ErrInvalidInput)
	}
	if filter.SignalType == "" || filter.Indicator == "" {
		return nil, fmt.Errorf("%w: signal_type and indicator are required", ErrInvalidInput)
	}
	q := url.Values{}
	q.Set("signal_type", filter.SignalType)
	q.Set("indicator", filter.Indicator)
	setInt(q, "days", filter.Days)

	var out SignalTimeSeries
	if err := c.get(ctx, "/signals/regions/"+url.PathEscape(code)+"/timeseries", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
